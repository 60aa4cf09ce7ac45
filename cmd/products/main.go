package main

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"ProductsMock/internal/config"
	"ProductsMock/internal/products"
	"ProductsMock/pkg/kit"
)

func main() {
	cfg, err := config.Load(".")
	if err != nil {
		kit.NewLogger("products", "info").Fatal("load config failed", zap.Error(err))
	}

	log := kit.NewLogger(cfg.ServiceName, cfg.LogLevel)
	defer func() { _ = log.Sync() }()

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	ingester := products.NewIngester(
		products.NewClient(products.ClientConfig{Timeout: cfg.FeedTimeout}),
		products.NewMemStore(),
		log,
	)

	s := &products.Server{
		Catalog:  products.NewCatalog(),
		Log:      log,
		Ingester: ingester,
	}

	h := products.NewHandler(s, products.HTTPDeps{
		Log:             log,
		Service:         cfg.ServiceName,
		Registry:        reg,
		MetricsEnabled:  cfg.MetricsEnabled,
		MetricsToken:    cfg.MetricsToken,
		RateLimitPerMin: cfg.RateLimitPerMin,
	})

	log.Info("catalog ready", zap.Int("products", s.Catalog.Len()))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.PollFeed() {
		log.Info("feed polling enabled",
			zap.String("url", cfg.FeedURL),
			zap.Duration("interval", cfg.FeedPollInterval),
		)
		go ingester.Poll(ctx, cfg.FeedURL, cfg.FeedPollInterval)
	}

	err = kit.RunHTTPServer(kit.ServerConfig{
		Addr:              cfg.Addr(),
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		ShutdownTimeout:   cfg.ShutdownTimeout,
	}, h, log)
	cancel()
	if err != nil {
		log.Fatal("http server stopped", zap.Error(err))
	}
}
