package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/feral-file/ff-uniques-indexer/internal/adapter"
	"github.com/feral-file/ff-uniques-indexer/internal/config"
	"github.com/feral-file/ff-uniques-indexer/internal/emitter"
	"github.com/feral-file/ff-uniques-indexer/internal/logger"
	"github.com/feral-file/ff-uniques-indexer/internal/providers/jetstream"
)

var (
	configPath = flag.String("config", "", "Path to configuration file")
	envPath    = flag.String("env", "", "Directory holding .env files")
	inputPath  = flag.String("input", "-", "Newline-delimited JSON blocks, - for stdin")
	fromHeight = flag.Uint64("from", 0, "Lowest block height to publish")
	toHeight   = flag.Uint64("to", 0, "Highest block height to publish, 0 for no limit")
)

func main() {
	flag.Parse()

	// Load configuration
	cfg, err := config.LoadBlockLoaderConfig(*configPath, *envPath)
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	// Initialize logger
	err = logger.Initialize(logger.Config{
		Debug:       cfg.Debug,
		SentryDSN:   cfg.SentryDSN,
		Environment: cfg.Environment,
		Tags:        map[string]string{"service": "block-loader"},
	})
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer logger.Flush(2 * time.Second)
	logger.Info("Starting Block Loader", zap.String("input", *inputPath))

	var input io.Reader = os.Stdin
	if *inputPath != "-" {
		file, err := os.Open(*inputPath)
		if err != nil {
			logger.Fatal("Failed to open input", zap.Error(err), zap.String("input", *inputPath))
		}
		defer file.Close()
		input = file
	}

	// Create publisher
	publisher, err := jetstream.NewPublisher(
		jetstream.Config{
			URL:            cfg.NATS.URL,
			StreamName:     cfg.NATS.StreamName,
			Subject:        cfg.NATS.Subject,
			MaxReconnects:  cfg.NATS.MaxReconnects,
			ReconnectWait:  cfg.NATS.ReconnectWait,
			ConnectionName: cfg.NATS.ConnectionName,
		},
		adapter.NewNatsJetStream(),
		adapter.NewJSON(),
	)
	if err != nil {
		logger.Fatal("Failed to create publisher", zap.Error(err))
	}

	blockEmitter := emitter.NewEmitter(
		input,
		publisher,
		adapter.NewStrictJSON(),
		emitter.Config{
			FromHeight:    *fromHeight,
			ToHeight:      *toHeight,
			ProgressEvery: 10 * time.Second,
		},
		adapter.NewClock(),
	)
	defer blockEmitter.Close()

	// Cancel on shutdown signal
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := blockEmitter.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error(err, zap.String("component", "emitter"))
		return
	}

	logger.Info("Block Loader finished")
}
