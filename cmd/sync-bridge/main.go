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
	"github.com/feral-file/ff-ticketing/internal/bridge"
	"github.com/feral-file/ff-ticketing/internal/config"
	"github.com/feral-file/ff-ticketing/internal/ledger"
	"github.com/feral-file/ff-ticketing/internal/logger"
	"github.com/feral-file/ff-ticketing/internal/reconcile"
	"github.com/feral-file/ff-ticketing/internal/registry"
	"github.com/feral-file/ff-ticketing/internal/store"
	"github.com/feral-file/ff-ticketing/internal/syncer"
)

var (
	configFile = flag.String("config", "", "Path to configuration file")
	envPath    = flag.String("env", "config/", "Path to environment files")
)

func main() {
	flag.Parse()

	// Load configuration
	config.ChdirRepoRoot()
	cfg, err := config.LoadSyncBridgeConfig(*configFile, *envPath)
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize logger with sentry integration
	err = logger.Initialize(logger.Config{
		Debug:           cfg.Debug,
		SentryDSN:       cfg.SentryDSN,
		BreadcrumbLevel: zapcore.InfoLevel,
		Tags: map[string]string{
			"service": "sync-bridge",
		},
	})
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer logger.Flush(2 * time.Second)
	logger.InfoCtx(ctx, "Starting Sync Bridge")

	// Connect to database
	db, err := gorm.Open(postgres.Open(cfg.Database.DSN()), &gorm.Config{})
	if err != nil {
		logger.FatalCtx(ctx, "Failed to connect to database", zap.Error(err), zap.String("host", cfg.Database.Host))
	}
	if err := store.ConfigureConnectionPool(db, cfg.Database.MaxOpenConns, cfg.Database.MaxIdleConns, cfg.Database.ConnMaxLifetime, cfg.Database.ConnMaxIdleTime); err != nil {
		logger.FatalCtx(ctx, "Failed to configure connection pool", zap.Error(err))
	}
	logger.InfoCtx(ctx, "Connected to database")
	dataStore := store.NewPGStore(db)

	// Initialize adapters
	jsonAdapter := adapter.NewJSON()
	clock := adapter.NewClock()
	natsJS := adapter.NewNatsJetStream()
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

	// The bridge only reads from chain; no signer
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
	engine := syncer.NewEngine(dataStore, ledgers, queue, clock)

	// Create bridge
	syncBridge, err := bridge.NewBridge(
		bridge.Config{
			URL:             cfg.NATS.URL,
			StreamName:      cfg.NATS.StreamName,
			ConsumerName:    cfg.NATS.ConsumerName,
			MaxReconnects:   cfg.NATS.MaxReconnects,
			ReconnectWait:   cfg.NATS.ReconnectWait,
			ConnectionName:  cfg.NATS.ConnectionName,
			AckWaitTimeout:  cfg.NATS.AckWait,
			MaxDeliver:      cfg.NATS.MaxDeliver,
			NakDelay:        cfg.NATS.NakDelay,
			WorkerPoolSize:  cfg.Worker.WorkerPoolSize,
			WorkerQueueSize: cfg.Worker.WorkerQueueSize,
		},
		natsJS,
		engine,
		jsonAdapter,
	)
	if err != nil {
		logger.FatalCtx(ctx, "Failed to create sync bridge", zap.Error(err))
	}
	defer syncBridge.Close()
	logger.InfoCtx(ctx, "Sync bridge created", zap.String("stream", cfg.NATS.StreamName), zap.String("consumer", cfg.NATS.ConsumerName))

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

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		if err := syncBridge.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			errCh <- err
		}
	}()

	// Wait for shutdown signal or error
	select {
	case sig := <-sigCh:
		logger.InfoCtx(ctx, "Received shutdown signal", zap.String("signal", sig.String()))
	case err := <-errCh:
		logger.ErrorCtx(ctx, err, zap.String("component", "bridge"))
	}
	cancel()

	// Give in-flight mutations time to settle
	time.Sleep(time.Second)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	_ = metricsServer.Shutdown(shutdownCtx)

	logger.Info("Sync Bridge stopped")
}
