package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/feral-file/ff-uniques-indexer/internal/adapter"
	"github.com/feral-file/ff-uniques-indexer/internal/config"
	"github.com/feral-file/ff-uniques-indexer/internal/decoder"
	"github.com/feral-file/ff-uniques-indexer/internal/handlers"
	"github.com/feral-file/ff-uniques-indexer/internal/logger"
	"github.com/feral-file/ff-uniques-indexer/internal/metrics"
	"github.com/feral-file/ff-uniques-indexer/internal/processor"
	"github.com/feral-file/ff-uniques-indexer/internal/providers/jetstream"
	"github.com/feral-file/ff-uniques-indexer/internal/store"
)

var (
	configPath = flag.String("config", "", "Path to configuration file")
	envPath    = flag.String("env", "", "Directory holding .env files")
)

func main() {
	flag.Parse()
	os.Exit(run())
}

// run wires the indexer and blocks until shutdown, returning the process exit code
func run() int {
	// Load configuration
	cfg, err := config.LoadIndexerConfig(*configPath, *envPath)
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	// Initialize logger
	err = logger.Initialize(logger.Config{
		Debug:       cfg.Debug,
		SentryDSN:   cfg.SentryDSN,
		Environment: cfg.Environment,
		Tags: map[string]string{
			"service": "uniques-indexer",
			"chain":   cfg.Chain.ID,
		},
	})
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer logger.Flush(2 * time.Second)
	logger.Info("Starting Uniques Indexer", zap.String("chain", cfg.Chain.ID))

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Connect to database
	db, err := openDatabase(ctx, cfg.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err), zap.String("host", cfg.Database.Host))
	}
	if err := store.ConfigureConnectionPool(db, cfg.Database.MaxOpenConns, cfg.Database.MaxIdleConns, cfg.Database.ConnMaxLifetime, cfg.Database.ConnMaxIdleTime); err != nil {
		logger.Fatal("Failed to configure connection pool", zap.Error(err))
	}
	logger.Info("Connected to database")

	// Initialize store
	dataStore := store.NewPGStore(db)

	// Initialize adapters
	jsonAdapter := adapter.NewJSON()
	clockAdapter := adapter.NewClock()
	natsJS := adapter.NewNatsJetStream()

	// Create batch source
	source, err := jetstream.NewSource(ctx,
		jetstream.Config{
			URL:            cfg.NATS.URL,
			StreamName:     cfg.NATS.StreamName,
			ConsumerName:   cfg.NATS.ConsumerName,
			Subject:        cfg.NATS.Subject,
			MaxReconnects:  cfg.NATS.MaxReconnects,
			ReconnectWait:  cfg.NATS.ReconnectWait,
			ConnectionName: cfg.NATS.ConnectionName,
			AckWait:        cfg.NATS.AckWait,
			MaxDeliver:     cfg.NATS.MaxDeliver,
			FetchSize:      cfg.NATS.FetchSize,
			FetchMaxWait:   cfg.NATS.FetchMaxWait,
		},
		natsJS,
		jsonAdapter,
	)
	if err != nil {
		logger.Fatal("Failed to create batch source", zap.Error(err))
	}
	defer source.Close()
	logger.Info("Batch source created", zap.String("stream", cfg.NATS.StreamName), zap.String("consumer", cfg.NATS.ConsumerName))

	// Create processor
	metricsService := metrics.NewMetricsService()
	proc := processor.NewProcessor(
		processor.Config{
			ChainID:       cfg.Chain.ID,
			StartBlock:    cfg.Chain.StartBlock,
			DecodeWorkers: cfg.Processor.DecodeWorkers,
		},
		dataStore,
		source,
		decoder.New(cfg.Chain.SS58Prefix),
		handlers.NewTable(),
		metricsService,
		clockAdapter,
	)
	defer proc.Close()

	// Start metrics endpoint
	var metricsServer *http.Server
	if cfg.Metrics.ListenAddress != "" {
		mux := http.NewServeMux()
		mux.Handle(cfg.Metrics.Path, metricsService.Handler())
		metricsServer = &http.Server{
			Addr:              cfg.Metrics.ListenAddress,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			logger.Info("Starting metrics server", zap.String("address", cfg.Metrics.ListenAddress))
			if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error(err, zap.String("component", "metrics"))
			}
		}()
	}

	// Setup signal handling
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	// Channel for processor errors
	errCh := make(chan error, 1)

	// Start the processor
	go func() {
		errCh <- proc.Run(ctx)
	}()

	// Wait for shutdown signal or error
	exitCode := 0
	select {
	case sig := <-sigCh:
		logger.Info("Received shutdown signal", zap.String("signal", sig.String()))
		cancel()
		<-errCh
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logger.Error(err, zap.String("component", "processor"))
			exitCode = 1
		}
		cancel()
	}

	if metricsServer != nil {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := metricsServer.Shutdown(shutdownCtx); err != nil {
			logger.Error(err, zap.String("component", "metrics"))
		}
		shutdownCancel()
	}

	logger.Info("Uniques Indexer stopped")
	return exitCode
}

// openDatabase connects to PostgreSQL, retrying while the database comes up
func openDatabase(ctx context.Context, cfg config.DatabaseConfig) (*gorm.DB, error) {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = time.Second
	b.MaxInterval = 10 * time.Second
	b.MaxElapsedTime = 2 * time.Minute

	var db *gorm.DB
	var attempt int
	operation := func() error {
		var err error
		db, err = gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{})
		if err != nil {
			return err
		}
		sqlDB, err := db.DB()
		if err != nil {
			return backoff.Permanent(err)
		}
		return sqlDB.PingContext(ctx)
	}
	notify := func(err error, next time.Duration) {
		attempt++
		logger.WarnCtx(ctx, "Database not ready, retrying",
			zap.Error(err),
			zap.Int("attempt", attempt),
			zap.Duration("next_retry_in", next))
	}

	if err := backoff.RetryNotify(operation, backoff.WithContext(b, ctx), notify); err != nil {
		return nil, err
	}
	return db, nil
}
