package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/feral-file/ff-ticketing/internal/domain"
)

// BaseConfig holds base configuration
type BaseConfig struct {
	Debug     bool   `mapstructure:"debug"`
	SentryDSN string `mapstructure:"sentry_dsn"`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ReadHost        string        `mapstructure:"read_host"`
	ReadPort        int           `mapstructure:"read_port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	DBName          string        `mapstructure:"dbname"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`     // Maximum number of open connections to the database
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`     // Maximum number of idle connections in the pool
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`  // Maximum amount of time a connection may be reused (e.g., "5m", "1h")
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time"` // Maximum amount of time a connection may be idle (e.g., "10m", "30m")
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// NATSConfig holds NATS JetStream configuration
type NATSConfig struct {
	URL            string        `mapstructure:"url"`
	StreamName     string        `mapstructure:"stream_name"`
	ConsumerName   string        `mapstructure:"consumer_name"`
	MaxReconnects  int           `mapstructure:"max_reconnects"`
	ReconnectWait  time.Duration `mapstructure:"reconnect_wait"`
	ConnectionName string        `mapstructure:"connection_name"`
	AckWait        time.Duration `mapstructure:"ack_wait"`
	MaxDeliver     int           `mapstructure:"max_deliver"`
	// NakDelay defers redelivery of mutations that failed on an unreachable chain
	NakDelay time.Duration `mapstructure:"nak_delay"`
}

// ChainConfig describes one supported chain
type ChainConfig struct {
	ChainID              uint64 `mapstructure:"chain_id"`
	Name                 string `mapstructure:"name"`
	RPCURL               string `mapstructure:"rpc_url"`
	ExplorerURL          string `mapstructure:"explorer_url"`
	NativeCurrencySymbol string `mapstructure:"native_currency_symbol"`
}

// LedgerConfig holds the per-chain client configuration
type LedgerConfig struct {
	SignerPrivateKey     string        `mapstructure:"signer_private_key"`
	CallTimeout          time.Duration `mapstructure:"call_timeout"`
	MaxRetries           uint64        `mapstructure:"max_retries"`
	RetryInitialInterval time.Duration `mapstructure:"retry_initial_interval"`
	RetryMaxInterval     time.Duration `mapstructure:"retry_max_interval"`
	Confirmations        uint64        `mapstructure:"confirmations"`
	ReceiptPollInterval  time.Duration `mapstructure:"receipt_poll_interval"`
	ReceiptTimeout       time.Duration `mapstructure:"receipt_timeout"`
	BlockHeadTTL         time.Duration `mapstructure:"block_head_ttl"`
	BlockHeadStaleWindow time.Duration `mapstructure:"block_head_stale_window"`
}

// ResolverConfig holds chain resolution configuration
type ResolverConfig struct {
	ProbeTimeout   time.Duration `mapstructure:"probe_timeout"`
	MaxConcurrency int           `mapstructure:"max_concurrency"`
}

// CacheConfig holds read path configuration
type CacheConfig struct {
	StaleAfter       time.Duration `mapstructure:"stale_after"`
	EventMetadataTTL time.Duration `mapstructure:"event_metadata_ttl"`
}

// ReconcileConfig holds reconciliation queue configuration
type ReconcileConfig struct {
	QueueKey     string        `mapstructure:"queue_key"`
	BatchSize    int64         `mapstructure:"batch_size"`
	PollInterval time.Duration `mapstructure:"poll_interval"`
	RetryDelay   time.Duration `mapstructure:"retry_delay"`
	Worker       WorkerConfig  `mapstructure:"worker"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host         string `mapstructure:"host"`
	Port         int    `mapstructure:"port"`
	ReadTimeout  int    `mapstructure:"read_timeout"`  // in seconds
	WriteTimeout int    `mapstructure:"write_timeout"` // in seconds
	IdleTimeout  int    `mapstructure:"idle_timeout"`  // in seconds
	// CORSOrigins lists allowed browser origins; empty allows any origin
	CORSOrigins []string `mapstructure:"cors_origins"`
}

// AuthConfig holds authentication configuration
type AuthConfig struct {
	JWTPublicKey  string   `mapstructure:"jwt_public_key"`
	APIKeys       []string `mapstructure:"api_keys"`
	WebhookSecret string   `mapstructure:"webhook_secret"`
	// WebhookTolerance bounds the clock drift accepted on signed sync requests
	WebhookTolerance time.Duration `mapstructure:"webhook_tolerance"`
}

// WorkerConfig holds worker configuration
type WorkerConfig struct {
	WorkerPoolSize  int `mapstructure:"pool_size"`
	WorkerQueueSize int `mapstructure:"queue_size"`
}

// ChainsSection is shared by every service that talks to the ledgers
type ChainsSection struct {
	Chains            []ChainConfig  `mapstructure:"chains"`
	ChainRegistryPath string         `mapstructure:"chain_registry_path"`
	Ledger            LedgerConfig   `mapstructure:"ledger"`
	Resolver          ResolverConfig `mapstructure:"resolver"`
}

// APIConfig holds configuration for API server
type APIConfig struct {
	BaseConfig    `mapstructure:",squash"`
	ChainsSection `mapstructure:",squash"`
	Server        ServerConfig    `mapstructure:"server"`
	Database      DatabaseConfig  `mapstructure:"database"`
	Redis         RedisConfig     `mapstructure:"redis"`
	NATS          NATSConfig      `mapstructure:"nats"`
	Auth          AuthConfig      `mapstructure:"auth"`
	Cache         CacheConfig     `mapstructure:"cache"`
	Reconcile     ReconcileConfig `mapstructure:"reconcile"`
	// AsyncSync publishes inbound sync triggers to NATS instead of applying them in the request
	AsyncSync bool `mapstructure:"async_sync"`
}

// SyncBridgeConfig holds configuration for sync-bridge
type SyncBridgeConfig struct {
	BaseConfig    `mapstructure:",squash"`
	ChainsSection `mapstructure:",squash"`
	Database      DatabaseConfig  `mapstructure:"database"`
	Redis         RedisConfig     `mapstructure:"redis"`
	NATS          NATSConfig      `mapstructure:"nats"`
	Reconcile     ReconcileConfig `mapstructure:"reconcile"`
	Worker        WorkerConfig    `mapstructure:"worker"`
	MetricsAddr   string          `mapstructure:"metrics_addr"`
}

// ReconcilerConfig holds configuration for the reconciler
type ReconcilerConfig struct {
	BaseConfig    `mapstructure:",squash"`
	ChainsSection `mapstructure:",squash"`
	Database      DatabaseConfig  `mapstructure:"database"`
	Redis         RedisConfig     `mapstructure:"redis"`
	Reconcile     ReconcileConfig `mapstructure:"reconcile"`
	MetricsAddr   string          `mapstructure:"metrics_addr"`
}

// DomainChains converts the configured chain list
func (c *ChainsSection) DomainChains() []domain.Chain {
	chains := make([]domain.Chain, 0, len(c.Chains))
	for _, ch := range c.Chains {
		chains = append(chains, domain.Chain{
			ID:                   domain.ChainID(ch.ChainID),
			Name:                 ch.Name,
			RPCURL:               ch.RPCURL,
			ExplorerURL:          ch.ExplorerURL,
			NativeCurrencySymbol: ch.NativeCurrencySymbol,
		})
	}
	return chains
}

// setChainDefaults sets the defaults shared by every ledger-facing service
func setChainDefaults(v *viper.Viper) {
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.db", 0)
	v.SetDefault("ledger.call_timeout", "10s")
	v.SetDefault("ledger.max_retries", 3)
	v.SetDefault("ledger.retry_initial_interval", "250ms")
	v.SetDefault("ledger.retry_max_interval", "3s")
	v.SetDefault("ledger.confirmations", 2)
	v.SetDefault("ledger.receipt_poll_interval", "2s")
	v.SetDefault("ledger.receipt_timeout", "2m")
	v.SetDefault("ledger.block_head_ttl", "2s")
	v.SetDefault("ledger.block_head_stale_window", "30s")
	v.SetDefault("resolver.probe_timeout", "5s")
	v.SetDefault("resolver.max_concurrency", 4)
	v.SetDefault("reconcile.queue_key", "ticketing:reconcile")
	v.SetDefault("reconcile.batch_size", 50)
	v.SetDefault("reconcile.poll_interval", "5s")
	v.SetDefault("reconcile.retry_delay", "1m")
	v.SetDefault("reconcile.worker.pool_size", 8)
	v.SetDefault("reconcile.worker.queue_size", 256)
	v.SetDefault("nats.max_reconnects", 10)
	v.SetDefault("nats.reconnect_wait", "2s")
	v.SetDefault("nats.stream_name", "TICKETING_MUTATIONS")
}

// LoadAPIConfig loads configuration for API server
func LoadAPIConfig(configFile string, envPath string) (*APIConfig, error) {
	v := configureViper("api", configFile, envPath)

	setChainDefaults(v)
	v.SetDefault("debug", false)
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 10)
	v.SetDefault("server.write_timeout", 180) // check-in waits for confirmation
	v.SetDefault("server.idle_timeout", 120)
	v.SetDefault("cache.stale_after", "5m")
	v.SetDefault("cache.event_metadata_ttl", "1h")
	v.SetDefault("nats.connection_name", "ticketing-api")
	v.SetDefault("async_sync", false)
	v.SetDefault("auth.webhook_tolerance", "5m")

	if err := readInConfig(v); err != nil {
		return nil, err
	}

	var config APIConfig
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &config, nil
}

// LoadSyncBridgeConfig loads configuration for sync-bridge
func LoadSyncBridgeConfig(configFile string, envPath string) (*SyncBridgeConfig, error) {
	v := configureViper("sync-bridge", configFile, envPath)

	setChainDefaults(v)
	v.SetDefault("nats.consumer_name", "sync-bridge")
	v.SetDefault("nats.connection_name", "ticketing-sync-bridge")
	v.SetDefault("nats.ack_wait", "30s")
	v.SetDefault("nats.max_deliver", 5)
	v.SetDefault("nats.nak_delay", "5s")
	v.SetDefault("worker.pool_size", 16)
	v.SetDefault("worker.queue_size", 1024)
	v.SetDefault("metrics_addr", ":9103")

	if err := readInConfig(v); err != nil {
		return nil, err
	}

	var config SyncBridgeConfig
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if config.NATS.URL == "" {
		return nil, errors.New("nats.url is required")
	}

	return &config, nil
}

// LoadReconcilerConfig loads configuration for the reconciler
func LoadReconcilerConfig(configFile string, envPath string) (*ReconcilerConfig, error) {
	v := configureViper("reconciler", configFile, envPath)

	setChainDefaults(v)
	v.SetDefault("database.max_open_conns", 5)
	v.SetDefault("database.max_idle_conns", 2)
	v.SetDefault("database.conn_max_lifetime", "1h")
	v.SetDefault("database.conn_max_idle_time", "10m")
	v.SetDefault("metrics_addr", ":9102")

	if err := readInConfig(v); err != nil {
		return nil, err
	}

	var cfg ReconcilerConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if cfg.Database.Host == "" {
		return nil, errors.New("database.host is required")
	}
	if cfg.Database.DBName == "" {
		return nil, errors.New("database.dbname is required")
	}

	return &cfg, nil
}

// readInConfig reads the config file, tolerating a missing one so env vars alone can drive the service
func readInConfig(v *viper.Viper) error {
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) || errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to read config: %w", err)
	}
	return nil
}

// configureViper returns a viper instance with the config file and environment variables set
func configureViper(service string, configFile string, envPath string) *viper.Viper {
	v := viper.New()

	// Load environment variables
	loadEnv(envPath, service)

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath(fmt.Sprintf("cmd/%s/", service))
		v.AddConfigPath("config/")
	}

	v.SetEnvPrefix("TICKETING")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Explicitly bind all environment variables
	bindAllEnvVars(v)
	return v
}

// bindAllEnvVars explicitly binds all possible environment variables
// This is required for viper to map env vars to config struct fields when no config file exists
func bindAllEnvVars(v *viper.Viper) {
	commonKeys := []string{
		"debug",
		"sentry_dsn",
		"async_sync",
		"metrics_addr",
		"chain_registry_path",
		// Database
		"database.host",
		"database.port",
		"database.read_host",
		"database.read_port",
		"database.user",
		"database.password",
		"database.dbname",
		"database.sslmode",
		"database.max_open_conns",
		"database.max_idle_conns",
		"database.conn_max_lifetime",
		"database.conn_max_idle_time",
		// Redis
		"redis.addr",
		"redis.password",
		"redis.db",
		// NATS
		"nats.url",
		"nats.stream_name",
		"nats.consumer_name",
		"nats.max_reconnects",
		"nats.reconnect_wait",
		"nats.connection_name",
		"nats.ack_wait",
		"nats.max_deliver",
		"nats.nak_delay",
		// Ledger
		"ledger.signer_private_key",
		"ledger.call_timeout",
		"ledger.max_retries",
		"ledger.retry_initial_interval",
		"ledger.retry_max_interval",
		"ledger.confirmations",
		"ledger.receipt_poll_interval",
		"ledger.receipt_timeout",
		"ledger.block_head_ttl",
		"ledger.block_head_stale_window",
		// Resolver
		"resolver.probe_timeout",
		"resolver.max_concurrency",
		// Cache
		"cache.stale_after",
		"cache.event_metadata_ttl",
		// Reconcile
		"reconcile.queue_key",
		"reconcile.batch_size",
		"reconcile.poll_interval",
		"reconcile.retry_delay",
		"reconcile.worker.pool_size",
		"reconcile.worker.queue_size",
		// Server
		"server.host",
		"server.port",
		"server.read_timeout",
		"server.write_timeout",
		"server.idle_timeout",
		"server.cors_origins",
		// Auth
		"auth.jwt_public_key",
		"auth.api_keys",
		"auth.webhook_secret",
		"auth.webhook_tolerance",
		// Internal Worker config
		"worker.pool_size",
		"worker.queue_size",
	}

	for _, key := range commonKeys {
		_ = v.BindEnv(key)
	}
}

// loadEnv loads environment variables from the config directory
func loadEnv(envPath string, service string) {
	// Always try shared base first, then local, then optional per-service local.
	envFiles := []string{".env", ".env.local"}
	if service != "" {
		envFiles = append(envFiles, ".env."+service+".local")
	}

	if envPath == "" {
		envPath = "config/"
	}

	for _, envFile := range envFiles {
		candidate := filepath.Join(envPath, envFile)
		_ = godotenv.Overload(candidate) // Overload lets later files override earlier ones
	}
}

// ChdirRepoRoot changes the current working directory to the repository root
func ChdirRepoRoot() {
	cwd, _ := os.Getwd()
	for range 5 {
		if _, err := os.Stat(filepath.Join(cwd, "config")); err == nil {
			_ = os.Chdir(cwd)
			return
		}
		cwd = filepath.Dir(cwd)
	}
}

// DSN returns the database connection string
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

// ReadDSN returns the read-replica database connection string.
// If ReadPort is not configured, it falls back to Port.
func (c *DatabaseConfig) ReadDSN() string {
	port := c.ReadPort
	if port == 0 {
		port = c.Port
	}

	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.ReadHost, port, c.User, c.Password, c.DBName, c.SSLMode)
}
