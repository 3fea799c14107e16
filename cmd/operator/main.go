/*
Operator is the Kubernetes controller reconciling OgmiosPort custom
resources into the gateway artefacts (auth secret, consumer record, HTTP
route, reference grant, status) that expose a tenant's port, and runs the
billing collector alongside it.
*/
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"k8s.io/apimachinery/pkg/runtime"
	clientgoscheme "k8s.io/client-go/kubernetes/scheme"
	ctrl "sigs.k8s.io/controller-runtime"
	"sigs.k8s.io/controller-runtime/pkg/client/config"
	"sigs.k8s.io/controller-runtime/pkg/healthz"
	metricsserver "sigs.k8s.io/controller-runtime/pkg/metrics/server"
	gatewayv1 "sigs.k8s.io/gateway-api/apis/v1"
	gatewayv1beta1 "sigs.k8s.io/gateway-api/apis/v1beta1"

	demeterv1alpha1 "github.com/demeter-run/ext-ogmios/api/v1alpha1"
	"github.com/demeter-run/ext-ogmios/internal/billing"
	"github.com/demeter-run/ext-ogmios/internal/controller"
	cfgpkg "github.com/demeter-run/ext-ogmios/internal/config"
	"github.com/demeter-run/ext-ogmios/internal/metrics"
	"github.com/demeter-run/ext-ogmios/internal/utils"
)

// healthProbeAddr is the controller-runtime liveness/readiness probe bind
// address. It is deliberately distinct from cfg.Addr: spec.md §6 reserves
// ADDR for the Prometheus metrics endpoint, so the health probe gets its
// own fixed, unconfigured address instead of fighting it for the same port.
const healthProbeAddr = "0.0.0.0:8081"

func main() {
	log := utils.NewLoggerFromEnv()
	ctrl.SetLogger(log)

	cfg, err := cfgpkg.LoadOperator()
	if err != nil {
		log.Error(err, "failed to load operator configuration")
		os.Exit(1)
	}

	scheme := buildScheme(log)
	restCfg, err := config.GetConfig()
	if err != nil {
		log.Error(err, "failed to load kubernetes client config")
		os.Exit(1)
	}

	mgr, err := ctrl.NewManager(restCfg, ctrl.Options{
		Scheme: scheme,
		// Metrics.BindAddress disables controller-runtime's own metrics
		// server: it would serve its own internal metrics.Registry, not
		// the prometheus.DefaultRegisterer that promauto (and every
		// counter in internal/metrics) registers against. The operator
		// serves that registry itself on cfg.Addr below instead.
		Metrics:                metricsserver.Options{BindAddress: "0"},
		HealthProbeBindAddress: healthProbeAddr,
	})
	if err != nil {
		log.Error(err, "failed to create controller manager")
		os.Exit(1)
	}

	if err := mgr.AddHealthzCheck("healthz", healthz.Ping); err != nil {
		log.Error(err, "failed to register healthz check")
		os.Exit(1)
	}

	instance, _ := os.Hostname()

	reconciler := &controller.PortReconciler{
		Client:      mgr.GetClient(),
		Scheme:      mgr.GetScheme(),
		Log:         log,
		Instance:    instance,
		DNSZone:     cfg.DNSZone,
		IngressNS:   cfg.Namespace,
		IngressCls:  cfg.IngressClass,
		BackendPort: backendPort(),
		APIKeySalt:  cfg.APIKeySalt,
	}
	if err := reconciler.SetupWithManager(mgr); err != nil {
		log.Error(err, "failed to set up port reconciler")
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		log.Info("received signal, shutting down", "signal", sig)
		cancel()
	}()

	metricsServer := metrics.NewServer(cfg.Addr)
	go func() {
		if err := metricsServer.Start(ctx); err != nil {
			log.Error(err, "metrics server failed")
		}
	}()

	if cfg.PrometheusURL != "" {
		collector := billing.NewCollector(billing.Config{
			PrometheusURL: cfg.PrometheusURL,
			Period:        cfg.MetricsDelay,
			DCUPerFrame:   cfg.DCUPerFrame,
			HTTPClient:    &http.Client{Timeout: 10 * time.Second},
			Log:           log,
		})
		if err := collector.Start(ctx); err != nil {
			log.Error(err, "failed to start billing collector")
			os.Exit(1)
		}
		defer collector.Stop()
	} else {
		log.Info("PROMETHEUS_URL not set, billing collector disabled")
	}

	log.Info("starting operator manager")
	if err := mgr.Start(ctx); err != nil {
		log.Error(err, "manager exited with error")
		os.Exit(1)
	}
}

// backendPort is the HTTP port the shared backend Service listens on, the
// same port the proxy routes WebSocket/HTTP traffic to.
func backendPort() int32 {
	raw := os.Getenv("OGMIOS_PORT")
	if raw == "" {
		return 1337
	}
	port, err := strconv.Atoi(raw)
	if err != nil {
		return 1337
	}
	return int32(port)
}

func buildScheme(log utils.Logger) *runtime.Scheme {
	scheme := runtime.NewScheme()
	if err := clientgoscheme.AddToScheme(scheme); err != nil {
		log.Error(err, "failed to add client-go scheme")
		os.Exit(1)
	}
	if err := demeterv1alpha1.AddToScheme(scheme); err != nil {
		log.Error(err, "failed to add ogmios scheme")
		os.Exit(1)
	}
	if err := gatewayv1.Install(scheme); err != nil {
		log.Error(err, "failed to add gateway-api v1 scheme")
		os.Exit(1)
	}
	if err := gatewayv1beta1.Install(scheme); err != nil {
		log.Error(err, "failed to add gateway-api v1beta1 scheme")
		os.Exit(1)
	}
	return scheme
}
