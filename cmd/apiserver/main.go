// API server entry point for the patent portfolio pipeline.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/Hamaduzi123/ip/internal/application/pipeline"
	"github.com/Hamaduzi123/ip/internal/config"
	"github.com/Hamaduzi123/ip/internal/domain/names"
	"github.com/Hamaduzi123/ip/internal/domain/records"
	"github.com/Hamaduzi123/ip/internal/infrastructure/excelstore"
	"github.com/Hamaduzi123/ip/internal/infrastructure/extract"
	"github.com/Hamaduzi123/ip/internal/infrastructure/extract/epo"
	"github.com/Hamaduzi123/ip/internal/infrastructure/extract/lens"
	"github.com/Hamaduzi123/ip/internal/infrastructure/monitoring/logging"
	"github.com/Hamaduzi123/ip/internal/infrastructure/monitoring/prometheus"
	"github.com/Hamaduzi123/ip/internal/infrastructure/statestore"
	"github.com/Hamaduzi123/ip/internal/interfaces/http"
	"github.com/Hamaduzi123/ip/internal/rules"
)

const defaultConfigPath = "configs/config.yaml"

func main() {
	configPath := flag.String("config", defaultConfigPath, "path to configuration file")
	port := flag.Int("port", 0, "HTTP server port (overrides config)")
	flag.Parse()

	if err := run(*configPath, *port); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string, port int) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: falling back to env-only configuration: %v\n", err)
		cfg, err = config.LoadFromEnv()
		if err != nil {
			return err
		}
	}
	if port > 0 {
		cfg.Server.Port = port
	}

	logger, err := logging.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return err
	}
	logger.Info("starting api server", logging.Int("port", cfg.Server.Port))

	set, err := rules.LoadOrDefault(cfg.Pipeline.RulesFile)
	if err != nil {
		return err
	}
	handle := rules.NewHandle(set)
	if cfg.Pipeline.WatchRules && cfg.Pipeline.RulesFile != "" {
		rules.Watch(cfg.Pipeline.RulesFile,
			func(updated *rules.Set) {
				logger.Info("rule table reloaded")
				handle.Swap(updated)
			},
			func(err error) {
				logger.Warn("rule table reload failed, keeping previous rules", logging.Err(err))
			})
	}

	classifier := names.NewClassifier(handle)
	normalizer := records.NewNormalizer(names.NewStandardizer(handle))
	merger := records.NewMergeEngine(normalizer, cfg.Pipeline.ResourceIDFloor)

	store := excelstore.New(cfg.Pipeline.MasterFile, logger)
	state := statestore.New(cfg.Pipeline.StateFile, logger)
	metrics := prometheus.New()

	extractors := []extract.Extractor{
		lens.New(cfg.Lens, classifier, logger),
		epo.New(cfg.EPO, logger),
	}
	svc := pipeline.New(store, state, merger, metrics, logger, extractors...)

	server := http.NewServer(cfg.Server, http.RouterConfig{
		Pipeline: svc,
		Metrics:  metrics,
		Logger:   logger,
	})

	errCh := make(chan error, 1)
	go func() { errCh <- server.Start() }()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-stop:
		logger.Info("shutdown signal received", logging.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	return server.Stop(ctx)
}
