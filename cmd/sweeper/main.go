package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/upravnik/assembly-engine/internal/adapter"
	"github.com/upravnik/assembly-engine/internal/config"
	"github.com/upravnik/assembly-engine/internal/decision"
	"github.com/upravnik/assembly-engine/internal/logger"
	"github.com/upravnik/assembly-engine/internal/providers/jetstream"
	"github.com/upravnik/assembly-engine/internal/store"
	"github.com/upravnik/assembly-engine/internal/sweeper"
	"github.com/upravnik/assembly-engine/internal/tally"
)

var (
	configFile = flag.String("config", "", "Path to configuration file")
	envPath    = flag.String("env", "config/", "Path to environment files")
)

func main() {
	flag.Parse()

	// Load configuration
	config.ChdirRepoRoot()
	cfg, err := config.LoadSweeperConfig(*configFile, *envPath)
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize logger with sentry integration
	err = logger.Initialize(logger.Config{
		Debug:     cfg.Debug,
		SentryDSN: cfg.SentryDSN,
		Tags: map[string]string{
			"service": "assembly-sweeper",
		},
	})
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer logger.Flush(2 * time.Second)
	logger.Info("Starting Assembly Deadline Sweeper")

	// Connect to database
	db, err := gorm.Open(postgres.Open(cfg.Database.DSN()), &gorm.Config{})
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}

	// Configure connection pool
	if err := store.ConfigureConnectionPool(db, cfg.Database.MaxOpenConns, cfg.Database.MaxIdleConns, cfg.Database.ConnMaxLifetime, cfg.Database.ConnMaxIdleTime); err != nil {
		logger.Fatal("Failed to configure connection pool", zap.Error(err))
	}
	logger.Info("Connected to database",
		zap.Int("max_open_conns", cfg.Database.MaxOpenConns),
		zap.Int("max_idle_conns", cfg.Database.MaxIdleConns),
	)

	// Initialize store
	dataStore := store.NewPGStore(db)

	// Initialize adapters
	jsonAdapter := adapter.NewJSON()
	clock := adapter.NewClock()
	natsJS := adapter.NewNatsJetStream()

	// Connect the tally publisher so auto-closed items broadcast their final
	// events exactly like manually closed ones
	publisher, err := jetstream.NewPublisher(ctx, jetstream.Config{
		URL:            cfg.NATS.URL,
		StreamName:     cfg.NATS.StreamName,
		ConsumerName:   cfg.NATS.ConsumerName,
		MaxReconnects:  cfg.NATS.MaxReconnects,
		ReconnectWait:  cfg.NATS.ReconnectWait,
		ConnectionName: cfg.NATS.ConnectionName,
		AckWait:        cfg.NATS.AckWait,
		MaxDeliver:     cfg.NATS.MaxDeliver,
	}, natsJS, jsonAdapter)
	if err != nil {
		logger.Fatal("Failed to connect tally publisher", zap.Error(err))
	}
	defer publisher.Close()
	logger.Info("Connected to NATS", zap.String("url", cfg.NATS.URL))

	// Initialize the decision resolver used to close expired items
	engine := tally.NewEngine(dataStore, clock)
	resolver := decision.NewResolver(dataStore, engine, publisher, clock, jsonAdapter)

	// Initialize deadline sweeper
	sweeperConfig := &sweeper.DeadlineSweeperConfig{
		BatchSize:      cfg.DeadlineSweeper.BatchSize,
		WorkerPoolSize: cfg.DeadlineSweeper.Worker.WorkerPoolSize,
	}
	deadlineSweeper := sweeper.NewDeadlineSweeper(sweeperConfig, dataStore, resolver, clock)

	logger.Info("Initialized deadline sweeper",
		zap.Int("batch_size", cfg.DeadlineSweeper.BatchSize),
		zap.Int("worker_pool_size", cfg.DeadlineSweeper.Worker.WorkerPoolSize),
	)

	// Start the sweeper in a goroutine
	errChan := make(chan error, 1)
	go func() {
		if err := deadlineSweeper.Start(ctx); err != nil {
			errChan <- err
		}
	}()

	// Wait for interrupt signal or error
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logger.Info("Received shutdown signal", zap.String("signal", sig.String()))
	case err := <-errChan:
		logger.Error(err, zap.String("component", "sweeper"))
	}

	cancel()

	// Give in-flight closes a bounded window to finish
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := deadlineSweeper.Stop(shutdownCtx); err != nil {
		logger.Error(err, zap.String("component", "sweeper"))
	}

	logger.Info("Sweeper stopped")
}
