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

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/feral-file/ff-ticketing/internal/adapter"
	"github.com/feral-file/ff-ticketing/internal/block"
	"github.com/feral-file/ff-ticketing/internal/config"
	"github.com/feral-file/ff-ticketing/internal/ledger"
	"github.com/feral-file/ff-ticketing/internal/logger"
	"github.com/feral-file/ff-ticketing/internal/reconcile"
	"github.com/feral-file/ff-ticketing/internal/registry"
	"github.com/feral-file/ff-ticketing/internal/store"
	"github.com/feral-file/ff-ticketing/internal/sweeper"
)

var (
	configFile = flag.String("config", "", "Path to configuration file")
	envPath    = flag.String("env", "config/", "Path to environment files")
)

func main() {
	flag.Parse()

	// Load configuration
	config.ChdirRepoRoot()
	cfg, err := config.LoadReconcilerConfig(*configFile, *envPath)
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize logger with sentry integration
	err = logger.Initialize(logger.Config{
		Debug:           cfg.Debug,
		SentryDSN:       cfg.SentryDSN,
		BreadcrumbLevel: zapcore.InfoLevel,
		Tags: map[string]string{
			"service": "reconciler",
		},
	})
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer logger.Flush(2 * time.Second)
	logger.InfoCtx(ctx, "Starting Reconciler")

	// Connect to database
	db, err := gorm.Open(postgres.Open(cfg.Database.DSN()), &gorm.Config{})
	if err != nil {
		logger.FatalCtx(ctx, "Failed to connect to database", zap.Error(err), zap.String("host", cfg.Database.Host))
	}

	// Configure connection pool
	if err := store.ConfigureConnectionPool(db, cfg.Database.MaxOpenConns, cfg.Database.MaxIdleConns, cfg.Database.ConnMaxLifetime, cfg.Database.ConnMaxIdleTime); err != nil {
		logger.FatalCtx(ctx, "Failed to configure connection pool", zap.Error(err))
	}
	logger.InfoCtx(ctx, "Connected to database",
		zap.Int("max_open_conns", cfg.Database.MaxOpenConns),
		zap.Int("max_idle_conns", cfg.Database.MaxIdleConns),
	)
	dataStore := store.NewPGStore(db)

	// Initialize adapters
	clock := adapter.NewClock()
	jsonAdapter := adapter.NewJSON()
	redisClient := adapter.NewRedisClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	defer func() { _ = redisClient.Close() }()

	// Load chain registry
	var chains registry.ChainRegistry
	if cfg.ChainRegistryPath != "" {
		chains, err = registry.NewChainRegistryLoader(adapter.NewFileSystem(), jsonAdapter).Load(cfg.ChainRegistryPath)
	} else {
		chains, err = registry.NewChainRegistry(cfg.DomainChains())
	}
	if err != nil {
		logger.FatalCtx(ctx, "Failed to load chain registry", zap.Error(err))
	}

	ledgers, err := ledger.NewSet(ctx, chains, adapter.NewEthClientDialer(), nil,
		ledger.Config{
			CallTimeout:          cfg.Ledger.CallTimeout,
			MaxRetries:           cfg.Ledger.MaxRetries,
			RetryInitialInterval: cfg.Ledger.RetryInitialInterval,
			RetryMaxInterval:     cfg.Ledger.RetryMaxInterval,
			Confirmations:        cfg.Ledger.Confirmations,
		},
		block.Config{
			TTL:         cfg.Ledger.BlockHeadTTL,
			StaleWindow: cfg.Ledger.BlockHeadStaleWindow,
		},
		clock,
	)
	if err != nil {
		logger.FatalCtx(ctx, "Failed to connect to ledgers", zap.Error(err))
	}
	defer ledgers.Close()

	queue := reconcile.NewRedisQueue(redisClient, cfg.Reconcile.QueueKey, clock)

	// Initialize reconcile sweeper
	sweeperConfig := &sweeper.ReconcileSweeperConfig{
		BatchSize:      int(cfg.Reconcile.BatchSize),
		WorkerPoolSize: cfg.Reconcile.Worker.WorkerPoolSize,
		IdleInterval:   cfg.Reconcile.PollInterval,
		RetryInitial:   cfg.Reconcile.RetryDelay,
	}
	reconciler := sweeper.NewReconcileSweeper(sweeperConfig, queue, dataStore, ledgers, clock)

	logger.InfoCtx(ctx, "Initialized reconcile sweeper",
		zap.Int("batch_size", sweeperConfig.BatchSize),
		zap.Int("worker_pool_size", sweeperConfig.WorkerPoolSize),
		zap.Duration("idle_interval", sweeperConfig.IdleInterval),
	)

	// Expose metrics
	metricsServer := &http.Server{
		Addr:              cfg.MetricsAddr,
		Handler:           promhttp.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.ErrorCtx(ctx, err, zap.String("component", "metrics"))
		}
	}()

	// Start the sweeper in a goroutine
	errChan := make(chan error, 1)
	go func() {
		if err := reconciler.Start(ctx); err != nil {
			errChan <- err
		}
	}()

	// Wait for interrupt signal or error
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logger.InfoCtx(ctx, "Received shutdown signal", zap.String("signal", sig.String()))
	case err := <-errChan:
		logger.ErrorCtx(ctx, err)
	}

	// Cancel context to stop the sweeper
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := reconciler.Stop(shutdownCtx); err != nil {
		logger.ErrorCtx(shutdownCtx, err)
	}
	_ = metricsServer.Shutdown(shutdownCtx)

	logger.InfoCtx(shutdownCtx, "Reconciler stopped")
}
