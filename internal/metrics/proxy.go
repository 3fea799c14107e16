package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequestsTotal counts every completed proxy response.
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ogmios_proxy_http_requests_total",
		Help: "Total number of HTTP responses returned by the proxy",
	}, []string{"namespace", "instance", "host", "status_code", "protocol", "consumer", "tier"})

	// WSConnectionsActive is the number of live WebSocket connections.
	WSConnectionsActive = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "ogmios_proxy_ws_connections_active",
		Help: "Current number of active WebSocket connections",
	}, []string{"namespace", "instance", "host", "consumer", "tier"})

	// WSTotalFrame counts every frame forwarded from target to client, the
	// per-request frame counter spec.md §4.6 step 7 names. The billing
	// collector queries this metric directly.
	WSTotalFrame = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ogmios_proxy_ws_total_frame",
		Help: "Total number of WebSocket frames forwarded to the client",
	}, []string{"namespace", "instance", "host", "consumer", "route"})
)
