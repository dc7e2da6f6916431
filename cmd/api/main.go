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
	"go.uber.org/zap/zapcore"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/feral-file/ff-ticketing/internal/adapter"
	"github.com/feral-file/ff-ticketing/internal/api/middleware"
	"github.com/feral-file/ff-ticketing/internal/api/rest"
	"github.com/feral-file/ff-ticketing/internal/api/server"
	"github.com/feral-file/ff-ticketing/internal/api/shared/executor"
	"github.com/feral-file/ff-ticketing/internal/block"
	"github.com/feral-file/ff-ticketing/internal/config"
	"github.com/feral-file/ff-ticketing/internal/eventmeta"
	"github.com/feral-file/ff-ticketing/internal/ledger"
	"github.com/feral-file/ff-ticketing/internal/logger"
	"github.com/feral-file/ff-ticketing/internal/messaging"
	"github.com/feral-file/ff-ticketing/internal/providers/jetstream"
	"github.com/feral-file/ff-ticketing/internal/readpath"
	"github.com/feral-file/ff-ticketing/internal/reconcile"
	"github.com/feral-file/ff-ticketing/internal/registry"
	"github.com/feral-file/ff-ticketing/internal/resolver"
	"github.com/feral-file/ff-ticketing/internal/store"
	"github.com/feral-file/ff-ticketing/internal/syncer"
	"github.com/feral-file/ff-ticketing/internal/verifier"
	"github.com/feral-file/ff-ticketing/internal/webhook"
)

var (
	configFile = flag.String("config", "", "Path to configuration file")
	envPath    = flag.String("env", "config/", "Path to environment files")
)

func main() {
	flag.Parse()

	// Load configuration
	config.ChdirRepoRoot()
	cfg, err := config.LoadAPIConfig(*configFile, *envPath)
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
			"service": "api-server",
		},
	})
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer logger.Flush(2 * time.Second)
	logger.InfoCtx(ctx, "Starting Ticketing API")

	// Connect to database
	db, err := gorm.Open(postgres.Open(cfg.Database.DSN()), &gorm.Config{})
	if err != nil {
		logger.FatalCtx(ctx, "Failed to connect to database", zap.Error(err), zap.String("host", cfg.Database.Host))
	}
	if err := store.ConfigureConnectionPool(db, cfg.Database.MaxOpenConns, cfg.Database.MaxIdleConns, cfg.Database.ConnMaxLifetime, cfg.Database.ConnMaxIdleTime); err != nil {
		logger.FatalCtx(ctx, "Failed to configure connection pool", zap.Error(err))
	}
	if cfg.Database.ReadHost != "" {
		if err := store.UseReadReplica(db, cfg.Database.ReadDSN()); err != nil {
			logger.FatalCtx(ctx, "Failed to register read replica", zap.Error(err))
		}
		logger.InfoCtx(ctx, "Routing reads to replica", zap.String("read_host", cfg.Database.ReadHost))
	}
	logger.InfoCtx(ctx, "Connected to database",
		zap.Int("max_open_conns", cfg.Database.MaxOpenConns),
		zap.Int("max_idle_conns", cfg.Database.MaxIdleConns),
	)
	dataStore := store.NewPGStore(db)

	// Initialize adapters
	fs := adapter.NewFileSystem()
	jsonAdapter := adapter.NewJSON()
	clock := adapter.NewClock()
	redisClient := adapter.NewRedisClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	defer func() { _ = redisClient.Close() }()

	// Load chain registry
	chains, err := loadChainRegistry(&cfg.ChainsSection, fs, jsonAdapter)
	if err != nil {
		logger.FatalCtx(ctx, "Failed to load chain registry", zap.Error(err))
	}
	logger.InfoCtx(ctx, "Loaded chain registry", zap.Any("chains", chains.IDs()))

	// Connect to every ledger
	var signer *ledger.Signer
	if cfg.Ledger.SignerPrivateKey != "" {
		signer, err = ledger.NewSigner(cfg.Ledger.SignerPrivateKey)
		if err != nil {
			logger.FatalCtx(ctx, "Failed to load signer key", zap.Error(err))
		}
		logger.InfoCtx(ctx, "Check-in signer configured", zap.String("address", signer.Address().Hex()))
	} else {
		logger.WarnCtx(ctx, "Signer key not configured, check-in is disabled")
	}
	ledgers, err := ledger.NewSet(ctx, chains, adapter.NewEthClientDialer(), signer, ledgerConfig(&cfg.Ledger), headConfig(&cfg.Ledger), clock)
	if err != nil {
		logger.FatalCtx(ctx, "Failed to connect to ledgers", zap.Error(err))
	}
	defer ledgers.Close()

	// Wire the core
	queue := reconcile.NewRedisQueue(redisClient, cfg.Reconcile.QueueKey, clock)
	engine := syncer.NewEngine(dataStore, ledgers, queue, clock)
	res := resolver.NewResolver(ledgers, resolver.Config{
		ProbeTimeout:   cfg.Resolver.ProbeTimeout,
		MaxConcurrency: cfg.Resolver.MaxConcurrency,
	})
	defer res.Close()
	events := eventmeta.NewCache(redisClient, jsonAdapter, cfg.Cache.EventMetadataTTL)
	reads := readpath.New(dataStore, ledgers, queue, clock, readpath.Config{StaleAfter: cfg.Cache.StaleAfter})
	ticketVerifier := verifier.NewVerifier(reads, res, ledgers, events, engine, queue)

	// Async sync publishes to NATS; the sync bridge applies the mutations
	var publisher messaging.Publisher
	if cfg.AsyncSync {
		publisher, err = jetstream.NewPublisher(ctx, jetstream.Config{
			URL:            cfg.NATS.URL,
			StreamName:     cfg.NATS.StreamName,
			MaxReconnects:  cfg.NATS.MaxReconnects,
			ReconnectWait:  cfg.NATS.ReconnectWait,
			ConnectionName: cfg.NATS.ConnectionName,
		}, adapter.NewNatsJetStream(), jsonAdapter)
		if err != nil {
			logger.FatalCtx(ctx, "Failed to connect to NATS", zap.Error(err), zap.String("url", cfg.NATS.URL))
		}
		defer publisher.Close()
		logger.InfoCtx(ctx, "Async sync enabled", zap.String("stream", cfg.NATS.StreamName))
	}

	var webhookSigner *webhook.Signer
	if cfg.Auth.WebhookSecret != "" {
		webhookSigner = webhook.NewSigner(cfg.Auth.WebhookSecret, jsonAdapter, clock, cfg.Auth.WebhookTolerance)
	}

	exec := executor.NewExecutor(ticketVerifier, reads, engine, publisher, chains)
	checks := map[string]rest.HealthCheck{
		"database": dataStore.Ping,
		"redis":    redisClient.Ping,
	}

	srv := server.New(server.Config{
		Debug:        cfg.Debug,
		Host:         cfg.Server.Host,
		Port:         cfg.Server.Port,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
		CORSOrigins:  cfg.Server.CORSOrigins,
		Auth: middleware.AuthConfig{
			JWTPublicKey: cfg.Auth.JWTPublicKey,
			APIKeys:      cfg.Auth.APIKeys,
		},
	}, exec, webhookSigner, checks)

	errCh := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil {
			errCh <- err
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-sigCh:
		logger.InfoCtx(ctx, "Received shutdown signal", zap.String("signal", sig.String()))
		cancel()
	case err := <-errCh:
		logger.ErrorCtx(ctx, err, zap.String("component", "server"))
		cancel()
	}

	// Create shutdown context with timeout (don't use canceled ctx)
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.ErrorCtx(shutdownCtx, err, zap.String("component", "server"))
	}

	logger.Info("API server stopped")
}

// loadChainRegistry prefers the registry file and falls back to the inline chain list
func loadChainRegistry(cfg *config.ChainsSection, fs adapter.FileSystem, jsonAdapter adapter.JSON) (registry.ChainRegistry, error) {
	if cfg.ChainRegistryPath != "" {
		return registry.NewChainRegistryLoader(fs, jsonAdapter).Load(cfg.ChainRegistryPath)
	}
	return registry.NewChainRegistry(cfg.DomainChains())
}

func ledgerConfig(cfg *config.LedgerConfig) ledger.Config {
	return ledger.Config{
		CallTimeout:          cfg.CallTimeout,
		MaxRetries:           cfg.MaxRetries,
		RetryInitialInterval: cfg.RetryInitialInterval,
		RetryMaxInterval:     cfg.RetryMaxInterval,
		Confirmations:        cfg.Confirmations,
		ReceiptPollInterval:  cfg.ReceiptPollInterval,
		ReceiptTimeout:       cfg.ReceiptTimeout,
	}
}

func headConfig(cfg *config.LedgerConfig) block.Config {
	return block.Config{
		TTL:         cfg.BlockHeadTTL,
		StaleWindow: cfg.BlockHeadStaleWindow,
	}
}
