package billing

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/demeter-run/ext-ogmios/internal/metrics"
	"github.com/demeter-run/ext-ogmios/internal/utils"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/require"
)

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	m := &dto.Metric{}
	require.NoError(t, c.Write(m))
	return m.GetCounter().GetValue()
}

func TestCollect_SkipsMissingDCUWeight(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"success","data":{"resultType":"vector","result":[
			{"metric":{"consumer":"prj-abc.port1","route":"mainnet-v1"},"value":[1690000000,"12"]}
		]}}`))
	}))
	defer server.Close()

	c := NewCollector(Config{
		PrometheusURL: server.URL,
		Period:        time.Second,
		DCUPerFrame:   map[string]float64{},
		Log:           utils.Logger{},
	})

	dcu := metrics.DCUTotal.WithLabelValues("abc", serviceLabel, serviceTypeLabel, tenancyLabel)
	failures := metrics.BillingFailuresTotal.WithLabelValues("no_dcu_weight")
	dcuBefore, failuresBefore := counterValue(t, dcu), counterValue(t, failures)

	err := c.collect(context.Background(), 30, time.Unix(1690000030, 0))
	require.NoError(t, err)
	require.Equal(t, dcuBefore, counterValue(t, dcu))
	require.Equal(t, failuresBefore+1, counterValue(t, failures))
}

func TestCollect_IncrementsDCU(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"success","data":{"resultType":"vector","result":[
			{"metric":{"consumer":"prj-abc.port1","route":"mainnet-v1"},"value":[1690000000,"12"]}
		]}}`))
	}))
	defer server.Close()

	c := NewCollector(Config{
		PrometheusURL: server.URL,
		Period:        time.Second,
		DCUPerFrame:   map[string]float64{"mainnet": 1.0},
		Log:           utils.Logger{},
	})

	dcu := metrics.DCUTotal.WithLabelValues("abc", serviceLabel, serviceTypeLabel, tenancyLabel)
	before := counterValue(t, dcu)

	err := c.collect(context.Background(), 30, time.Unix(1690000030, 0))
	require.NoError(t, err)
	require.Equal(t, before+12, counterValue(t, dcu))
}

func TestCollect_NetworkError(t *testing.T) {
	c := NewCollector(Config{
		PrometheusURL: "http://127.0.0.1:0",
		Period:        time.Second,
		DCUPerFrame:   map[string]float64{"mainnet": 1.0},
		Log:           utils.Logger{},
	})

	err := c.collect(context.Background(), 30, time.Now())
	require.Error(t, err)
}
