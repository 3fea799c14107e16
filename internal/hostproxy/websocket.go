package hostproxy

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/demeter-run/ext-ogmios/internal/metrics"
	"github.com/demeter-run/ext-ogmios/internal/registry"
	"github.com/gorilla/websocket"
)

const dialTimeout = 10 * time.Second

// serveWebSocket upgrades the inbound connection, dials the backend, and
// pipes frames in both directions. The client→target half is rate-limited
// frame by frame; the target→client half is not.
func (s *Server) serveWebSocket(w http.ResponseWriter, r *http.Request, target string, consumer registry.Consumer, metricHost string) {
	clientConn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.cfg.Log.V(1).Info("websocket upgrade failed", "error", err.Error())
		return
	}
	defer clientConn.Close()

	labels := []string{s.cfg.Namespace, s.cfg.Instance, metricHost, consumer.Label(), consumer.Tier}
	metrics.WSConnectionsActive.WithLabelValues(labels...).Inc()
	defer metrics.WSConnectionsActive.WithLabelValues(labels...).Dec()

	dialCtx, cancel := context.WithTimeout(r.Context(), dialTimeout)
	defer cancel()

	header := http.Header{}
	if consumer.Key != "" {
		header.Set("dmtr-api-key", consumer.Key)
	}

	targetConn, _, err := websocket.DefaultDialer.DialContext(dialCtx, "ws://"+target+r.URL.RequestURI(), header)
	if err != nil {
		s.cfg.Log.Error(&RouteError{Target: target, Err: err}, "websocket dial to backend failed")
		_ = clientConn.WriteControl(
			websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseInternalServerErr, "backend unavailable"),
			time.Now().Add(time.Second),
		)
		return
	}
	defer targetConn.Close()

	hashKey := consumer.HashKey()

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		s.pipeClientToTarget(r.Context(), clientConn, targetConn, hashKey)
	}()
	go func() {
		defer wg.Done()
		s.pipeTargetToClient(clientConn, targetConn, consumer, metricHost)
	}()
	wg.Wait()
}

// pipeClientToTarget rate-limits then forwards each client-sent frame. It
// does not increment WSTotalFrame: spec.md §4.6 step 7 counts frames only
// on the target->client half, and the billing collector's increase() query
// would double-count every frame if both halves incremented the same
// counter.
func (s *Server) pipeClientToTarget(ctx context.Context, client, target *websocket.Conn, hashKey string) {
	defer closeBoth(client, target)
	for {
		msgType, data, err := client.ReadMessage()
		if err != nil {
			return
		}
		if err := s.cfg.Limiters.Acquire(ctx, s.cfg.Registry, s.cfg.Tiers, hashKey); err != nil {
			return
		}
		if err := target.WriteMessage(msgType, data); err != nil {
			return
		}
	}
}

func (s *Server) pipeTargetToClient(client, target *websocket.Conn, consumer registry.Consumer, metricHost string) {
	defer closeBoth(client, target)
	for {
		msgType, data, err := target.ReadMessage()
		if err != nil {
			return
		}
		if err := client.WriteMessage(msgType, data); err != nil {
			return
		}
		metrics.WSTotalFrame.WithLabelValues(s.cfg.Namespace, s.cfg.Instance, metricHost, consumer.Label(), routeLabel(consumer)).Inc()
	}
}

func closeBoth(a, b *websocket.Conn) {
	_ = a.Close()
	_ = b.Close()
}

// routeLabel renders the backend identifier a consumer's frames were routed
// to, the shape the billing collector expects in its "route" label.
func routeLabel(consumer registry.Consumer) string {
	return fmt.Sprintf("%s-v%d", consumer.Network, consumer.Version)
}
