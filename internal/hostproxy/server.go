package hostproxy

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/http"
	"net/http/httputil"
	"strconv"
	"strings"
	"time"

	"github.com/demeter-run/ext-ogmios/internal/limiter"
	"github.com/demeter-run/ext-ogmios/internal/metrics"
	"github.com/demeter-run/ext-ogmios/internal/registry"
	"github.com/demeter-run/ext-ogmios/internal/tiers"
	"github.com/demeter-run/ext-ogmios/internal/utils"
	"github.com/gorilla/websocket"
)

// ServerConfig carries everything the reverse proxy needs to route, authenticate
// and meter a request.
type ServerConfig struct {
	Addr       string
	CertPath   string
	KeyPath    string
	Namespace  string
	Instance   string
	OgmiosDNS  string
	OgmiosPort string
	Registry   *registry.Registry
	Tiers      *tiers.Store
	Limiters   *limiter.Cache
	Log        utils.Logger
}

// Server is the TLS-terminating HTTP/WebSocket reverse proxy. It mirrors the
// teacher's gateway.Gateway: a listener accept loop plus per-connection
// handling, adapted here to HTTP semantics via net/http.Server.
type Server struct {
	cfg        ServerConfig
	httpServer *http.Server
	upgrader   websocket.Upgrader
}

// NewServer builds a Server from cfg. Call Start to begin serving.
func NewServer(cfg ServerConfig) *Server {
	return &Server{
		cfg: cfg,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

// Start blocks serving TLS connections until ctx is cancelled or the listener
// fails.
func (s *Server) Start(ctx context.Context) error {
	cert, err := tls.LoadX509KeyPair(s.cfg.CertPath, s.cfg.KeyPath)
	if err != nil {
		return fmt.Errorf("hostproxy: loading tls certificate: %w", err)
	}

	tlsConfig := &tls.Config{
		Certificates: []tls.Certificate{cert},
		ClientAuth:   tls.NoClientCert,
		MinVersion:   tls.VersionTLS12,
	}

	listener, err := tls.Listen("tcp", s.cfg.Addr, tlsConfig)
	if err != nil {
		return fmt.Errorf("hostproxy: listening on %s: %w", s.cfg.Addr, err)
	}

	s.httpServer = &http.Server{
		Handler:           http.HandlerFunc(s.handle),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- s.httpServer.Serve(listener) }()

	s.cfg.Log.Info("proxy listening", "addr", s.cfg.Addr)

	select {
	case <-ctx.Done():
		return s.Stop()
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	}
}

// Stop gracefully shuts down the HTTP server.
func (s *Server) Stop() error {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.httpServer.Shutdown(shutdownCtx)
}

func (s *Server) handle(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodGet && r.URL.Path == "/healthz" {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("pong"))
		return
	}

	parsed, err := ParseHost(r.Host)
	if err != nil {
		s.cfg.Log.V(1).Info("unroutable host", "host", r.Host)
		http.Error(w, "bad gateway", http.StatusBadGateway)
		return
	}

	key := ""
	if parsed.Key != nil {
		key = *parsed.Key
	}

	metricHost := stripKeyPrefix(r.Host)

	consumer, found := s.cfg.Registry.Lookup(parsed.Network, parsed.Version, key)
	if !found {
		metrics.HTTPRequestsTotal.WithLabelValues(
			s.cfg.Namespace, s.cfg.Instance, metricHost,
			strconv.Itoa(http.StatusUnauthorized), "http", "", "",
		).Inc()
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	if key != "" {
		r.Header.Set("dmtr-api-key", key)
	}

	target := RoutingTarget(parsed.Network, parsed.Version, s.cfg.OgmiosDNS, s.cfg.OgmiosPort)

	if isWebSocketUpgrade(r) {
		s.serveWebSocket(w, r, target, consumer, metricHost)
		return
	}
	s.serveHTTP(w, r, target, consumer, metricHost)
}

func (s *Server) serveHTTP(w http.ResponseWriter, r *http.Request, target string, consumer registry.Consumer, metricHost string) {
	proxy := &httputil.ReverseProxy{
		Director: func(req *http.Request) {
			req.URL.Scheme = "http"
			req.URL.Host = target
			req.Host = target
		},
		ErrorHandler: func(w http.ResponseWriter, r *http.Request, err error) {
			s.cfg.Log.Error(&RouteError{Target: target, Err: err}, "proxy request failed")
			w.WriteHeader(http.StatusBadGateway)
		},
	}

	rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
	proxy.ServeHTTP(rec, r)

	metrics.HTTPRequestsTotal.WithLabelValues(
		s.cfg.Namespace, s.cfg.Instance, metricHost,
		strconv.Itoa(rec.status), "http", consumer.Label(), consumer.Tier,
	).Inc()
}

// statusRecorder captures the status code a ReverseProxy writes so it can be
// reported as a metric label after the fact.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func isWebSocketUpgrade(r *http.Request) bool {
	return strings.EqualFold(r.Header.Get("Upgrade"), "websocket")
}

func stripKeyPrefix(host string) string {
	parsed, err := ParseHost(host)
	if err != nil || parsed.Key == nil {
		return host
	}
	return host[len(*parsed.Key)+1:]
}
