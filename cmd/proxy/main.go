/*
Proxy is the TLS-terminating HTTP/WebSocket reverse proxy. It watches
OgmiosPort custom resources to build its in-memory port registry,
authenticates inbound connections against it, rate-limits WebSocket frames
per tier, and forwards to the backend selected by (network, version).
*/
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"k8s.io/client-go/kubernetes/scheme"
	"sigs.k8s.io/controller-runtime/pkg/client"
	"sigs.k8s.io/controller-runtime/pkg/client/config"

	demeterv1alpha1 "github.com/demeter-run/ext-ogmios/api/v1alpha1"
	cfgpkg "github.com/demeter-run/ext-ogmios/internal/config"
	"github.com/demeter-run/ext-ogmios/internal/hostproxy"
	"github.com/demeter-run/ext-ogmios/internal/limiter"
	"github.com/demeter-run/ext-ogmios/internal/metrics"
	"github.com/demeter-run/ext-ogmios/internal/registry"
	"github.com/demeter-run/ext-ogmios/internal/tiers"
	"github.com/demeter-run/ext-ogmios/internal/utils"
)

func main() {
	log := utils.NewLoggerFromEnv()

	cfg, err := cfgpkg.LoadProxy()
	if err != nil {
		log.Error(err, "failed to load proxy configuration")
		os.Exit(1)
	}

	if err := demeterv1alpha1.AddToScheme(scheme.Scheme); err != nil {
		log.Error(err, "failed to register scheme")
		os.Exit(1)
	}

	restCfg, err := config.GetConfig()
	if err != nil {
		log.Error(err, "failed to load kubernetes client config")
		os.Exit(1)
	}

	k8sClient, err := client.NewWithWatch(restCfg, client.Options{Scheme: scheme.Scheme})
	if err != nil {
		log.Error(err, "failed to build kubernetes client")
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

	reg := registry.New()
	store := tiers.NewStore()
	limiterCache := limiter.NewCache()

	events, err := registry.WatchPorts(ctx, k8sClient, "")
	if err != nil {
		log.Error(err, "failed to start port watch")
		os.Exit(1)
	}
	go func() {
		if err := registry.Run(ctx, reg, limiterCache, events, log); err != nil && ctx.Err() == nil {
			log.Error(err, "registry watch loop exited, exiting so the supervisor restarts with a fresh watch")
			os.Exit(1)
		}
	}()

	reloader := &tiers.Reloader{
		Path:         cfg.TiersPath,
		PollInterval: cfg.TiersPollInterval,
		Store:        store,
		Limiters:     limiterCache,
		Log:          log,
	}
	go func() {
		if err := reloader.Start(ctx); err != nil && ctx.Err() == nil {
			log.Error(err, "tiers reloader exited")
		}
	}()

	metricsServer := metrics.NewServer(cfg.PrometheusAddr)
	go func() {
		if err := metricsServer.Start(ctx); err != nil {
			log.Error(err, "metrics server failed")
		}
	}()

	instance, _ := os.Hostname()

	proxyServer := hostproxy.NewServer(hostproxy.ServerConfig{
		Addr:       cfg.Addr,
		CertPath:   cfg.SSLCrtPath,
		KeyPath:    cfg.SSLKeyPath,
		Namespace:  cfg.Namespace,
		Instance:   instance,
		OgmiosDNS:  cfg.OgmiosDNS,
		OgmiosPort: cfg.OgmiosPort,
		Registry:   reg,
		Tiers:      store,
		Limiters:   limiterCache,
		Log:        log,
	})

	if err := proxyServer.Start(ctx); err != nil {
		log.Error(err, "proxy server failed")
		os.Exit(1)
	}

	log.Info("proxy stopped")
}
