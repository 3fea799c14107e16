// Package billing periodically queries Prometheus for WebSocket frame counts
// and turns them into per-tenant DCU billing counters.
package billing

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"sync"
	"time"

	"github.com/demeter-run/ext-ogmios/internal/metrics"
	"github.com/demeter-run/ext-ogmios/internal/utils"
	cron "github.com/robfig/cron/v3"
)

var (
	projectPattern = regexp.MustCompile(`prj-(.+)\..+`)
	networkPattern = regexp.MustCompile(`([\w-]+)-.+`)
)

const (
	serviceLabel     = "ogmios"
	serviceTypeLabel = "RpcPort"
	tenancyLabel     = "shared"
)

// Config carries the collector's dependencies.
type Config struct {
	PrometheusURL string
	Period        time.Duration
	DCUPerFrame   map[string]float64
	HTTPClient    *http.Client
	Log           utils.Logger
}

// Collector runs the periodic billing query on a cron schedule.
type Collector struct {
	cfg      Config
	cron     *cron.Cron
	mu       sync.Mutex
	lastTick time.Time
}

// NewCollector returns a Collector. cfg.HTTPClient defaults to a 10s-timeout
// client when nil.
func NewCollector(cfg Config) *Collector {
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &Collector{cfg: cfg, cron: cron.New()}
}

// Start registers the `@every Ns` entry and begins the cron scheduler. It
// does not block; call Stop to end the schedule.
func (c *Collector) Start(ctx context.Context) error {
	c.mu.Lock()
	c.lastTick = nowFrom(ctx)
	c.mu.Unlock()

	spec := fmt.Sprintf("@every %ds", int(c.cfg.Period.Seconds()))
	_, err := c.cron.AddFunc(spec, func() { c.tick(ctx) })
	if err != nil {
		return fmt.Errorf("billing: registering schedule: %w", err)
	}
	c.cron.Start()
	return nil
}

// Stop halts the scheduler and waits for any in-flight tick to finish.
func (c *Collector) Stop() {
	<-c.cron.Stop().Done()
}

func (c *Collector) tick(ctx context.Context) {
	c.mu.Lock()
	now := nowFrom(ctx)
	window := int(now.Sub(c.lastTick).Seconds())
	c.lastTick = now
	c.mu.Unlock()

	if window <= 0 {
		window = int(c.cfg.Period.Seconds())
	}

	if err := c.collect(ctx, window, now); err != nil {
		c.cfg.Log.Error(err, "billing collection failed")
		metrics.BillingFailuresTotal.WithLabelValues("query").Inc()
	}
}

func (c *Collector) collect(ctx context.Context, windowSeconds int, now time.Time) error {
	query := fmt.Sprintf(
		"sum by (consumer, route) (increase(ogmios_proxy_ws_total_frame[%ds] @ %d))",
		windowSeconds, now.Unix(),
	)

	endpoint := fmt.Sprintf("%s/query?query=%s", c.cfg.PrometheusURL, url.QueryEscape(query))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("billing: building request: %w", err)
	}

	resp, err := c.cfg.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("billing: querying prometheus: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("billing: prometheus returned status %d", resp.StatusCode)
	}

	var envelope queryResponse
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return fmt.Errorf("billing: decoding prometheus response: %w", err)
	}

	for _, result := range envelope.Data.Result {
		c.processRow(result)
	}
	return nil
}

func (c *Collector) processRow(result resultRow) {
	value, err := result.Value()
	if err != nil || value <= 0 {
		return
	}

	consumer := result.Metric["consumer"]
	route := result.Metric["route"]
	if consumer == "" || route == "" {
		return
	}

	projectMatch := projectPattern.FindStringSubmatch(consumer)
	networkMatch := networkPattern.FindStringSubmatch(route)
	if projectMatch == nil || networkMatch == nil {
		return
	}
	project := projectMatch[1]
	network := networkMatch[1]

	weight, ok := c.cfg.DCUPerFrame[network]
	if !ok {
		metrics.BillingFailuresTotal.WithLabelValues("no_dcu_weight").Inc()
		return
	}

	dcu := math.Ceil(value * weight)
	if dcu <= 0 {
		return
	}

	metrics.DCUTotal.WithLabelValues(project, serviceLabel, serviceTypeLabel, tenancyLabel).Add(dcu)
}

// queryResponse mirrors the subset of the Prometheus HTTP API's instant-query
// envelope this collector consumes.
type queryResponse struct {
	Data struct {
		Result []resultRow `json:"result"`
	} `json:"data"`
}

type resultRow struct {
	Metric map[string]string `json:"metric"`
	Value  [2]interface{}    `json:"value"`
}

func (r resultRow) Value() (float64, error) {
	if len(r.Value) != 2 {
		return 0, fmt.Errorf("billing: malformed value tuple")
	}
	s, ok := r.Value[1].(string)
	if !ok {
		return 0, fmt.Errorf("billing: value is not a string")
	}
	return strconv.ParseFloat(s, 64)
}

func nowFrom(_ context.Context) time.Time {
	return timeNow()
}

// timeNow is a var so tests can stub the clock.
var timeNow = func() time.Time { return time.Now() }
