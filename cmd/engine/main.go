package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/lngflow/cargo-engine/config"
	"github.com/lngflow/cargo-engine/internal/forecast"
	"github.com/lngflow/cargo-engine/internal/kafka"
	"github.com/lngflow/cargo-engine/internal/montecarlo"
	"github.com/lngflow/cargo-engine/internal/optimizer"
	"github.com/lngflow/cargo-engine/internal/options"
	"github.com/lngflow/cargo-engine/internal/refdata"
	"github.com/lngflow/cargo-engine/internal/scenario"
	"github.com/lngflow/cargo-engine/internal/sensitivity"
	"github.com/lngflow/cargo-engine/internal/store"
	"github.com/lngflow/cargo-engine/internal/valuation"
	"github.com/lngflow/cargo-engine/pkg/api"
	"github.com/lngflow/cargo-engine/pkg/metrics"
	"github.com/lngflow/cargo-engine/pkg/models"
	"github.com/lngflow/cargo-engine/pkg/utils/logger"
)

func main() {
	forecastPath := flag.String("forecasts", "", "path to the forecast bundle (overrides config)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		logger.GetLogger("main").Fatalf("failed to load configuration: %v", err)
	}

	logger.Init(cfg.App.LogLevel, cfg.App.Environment)
	log := logger.GetLogger("main")
	log.Infof("starting %s", cfg.App.Name)

	ref := refdata.Default()
	if err := ref.Validate(); err != nil {
		log.Fatalf("invalid reference configuration: %v", err)
	}

	path := cfg.Forecasts.Path
	if *forecastPath != "" {
		path = *forecastPath
	}
	forecasts, vols, corr, months, err := forecast.LoadFile(path)
	if err != nil {
		log.Fatalf("failed to load forecasts from %s: %v", path, err)
	}
	log.Infof("loaded forecasts covering %d delivery months (%s to %s)", len(months), months[0], months[len(months)-1])

	recorder := metrics.NewRecorder()
	forecasts.SetDegradedObserver(func(commodity models.Commodity) {
		recorder.RecordDegradedLookup(string(commodity))
	})

	valuator := valuation.NewValuator(ref).WithRecorder(recorder)
	opt := optimizer.NewOptimizer(ref, valuator)
	mcEngine := montecarlo.NewEngine(montecarlo.Config{
		Simulations: cfg.MonteCarlo.Simulations,
		Workers:     cfg.MonteCarlo.Workers,
		Seed:        cfg.MonteCarlo.Seed,
	}, ref, valuator)
	scenarios := scenario.NewAnalyzer(ref, valuator)
	optionAnalyzer := options.NewAnalyzer(ref)
	sens := sensitivity.NewAnalyzer(opt)
	strategies := store.NewInMemoryStrategyStore()

	var producer *kafka.Producer
	if cfg.Kafka.Enabled {
		producer, err = kafka.NewProducer(kafka.ProducerConfig{
			Brokers:         cfg.Kafka.Brokers,
			StrategyTopic:   cfg.Kafka.StrategyTopic,
			RiskMetricTopic: cfg.Kafka.RiskMetricTopic,
			BatchTimeout:    cfg.Kafka.BatchTimeout,
		})
		if err != nil {
			log.Fatalf("failed to create kafka producer: %v", err)
		}
		defer producer.Close()
	}

	handlers := api.CreateHandlers(api.HandlerDeps{
		Optimizer:      opt,
		MonteCarlo:     mcEngine,
		Scenarios:      scenarios,
		OptionAnalyzer: optionAnalyzer,
		Sensitivity:    sens,
		Strategies:     strategies,
		Producer:       producer,
		Recorder:       recorder,
		Forecasts:      forecasts,
		Volatilities:   vols,
		Correlation:    corr,
		Months:         months,
	})

	server := api.NewServer(api.Config{
		Host:         cfg.API.Host,
		Port:         cfg.API.Port,
		ReadTimeout:  cfg.API.ReadTimeout,
		WriteTimeout: cfg.API.WriteTimeout,
		Environment:  cfg.App.Environment,
	}, handlers, recorder)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Infof("received signal %s, shutting down", sig)
	case err := <-errCh:
		if err != nil {
			log.Errorf("server error: %v", err)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.API.ShutdownTimeout)
	defer cancel()
	if err := server.Stop(ctx); err != nil {
		log.Errorf("graceful shutdown failed: %v", err)
	}
	log.Info("shutdown complete")
}
