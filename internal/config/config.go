package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/feral-file/ff-uniques-indexer/internal/domain"
)

// BaseConfig holds base configuration
type BaseConfig struct {
	Debug       bool   `mapstructure:"debug"`
	SentryDSN   string `mapstructure:"sentry_dsn"`
	Environment string `mapstructure:"environment"`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	DBName          string        `mapstructure:"dbname"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`     // Maximum number of open connections to the database
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`     // Maximum number of idle connections in the pool
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`  // Maximum amount of time a connection may be reused (e.g., "5m", "1h")
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time"` // Maximum amount of time a connection may be idle (e.g., "10m", "30m")
}

// NATSConfig holds NATS JetStream configuration
type NATSConfig struct {
	URL            string        `mapstructure:"url"`
	StreamName     string        `mapstructure:"stream_name"`
	ConsumerName   string        `mapstructure:"consumer_name"`
	Subject        string        `mapstructure:"subject"` // Subject blocks are published on and consumed from
	MaxReconnects  int           `mapstructure:"max_reconnects"`
	ReconnectWait  time.Duration `mapstructure:"reconnect_wait"`
	ConnectionName string        `mapstructure:"connection_name"`
	AckWait        time.Duration `mapstructure:"ack_wait"`
	MaxDeliver     int           `mapstructure:"max_deliver"`
	FetchSize      int           `mapstructure:"fetch_size"`     // Blocks pulled per batch
	FetchMaxWait   time.Duration `mapstructure:"fetch_max_wait"` // Longest wait for a partial batch
}

// ChainConfig holds the chain the indexer follows
type ChainConfig struct {
	ID         string `mapstructure:"id"`          // Cursor key, e.g. "statemine"
	SS58Prefix uint16 `mapstructure:"ss58_prefix"` // Address network prefix
	StartBlock uint64 `mapstructure:"start_block"` // Blocks at or below are skipped on a fresh database
}

// ProcessorConfig holds batch processing configuration
type ProcessorConfig struct {
	DecodeWorkers int `mapstructure:"decode_workers"` // Size of the parallel decode pool
}

// MetricsConfig holds the Prometheus endpoint configuration
type MetricsConfig struct {
	ListenAddress string `mapstructure:"listen_address"` // Empty disables the endpoint
	Path          string `mapstructure:"path"`
}

// IndexerConfig holds configuration for uniques-indexer
type IndexerConfig struct {
	BaseConfig `mapstructure:",squash"`
	Database   DatabaseConfig  `mapstructure:"database"`
	NATS       NATSConfig      `mapstructure:"nats"`
	Chain      ChainConfig     `mapstructure:"chain"`
	Processor  ProcessorConfig `mapstructure:"processor"`
	Metrics    MetricsConfig   `mapstructure:"metrics"`
}

// BlockLoaderConfig holds configuration for block-loader
type BlockLoaderConfig struct {
	BaseConfig `mapstructure:",squash"`
	NATS       NATSConfig `mapstructure:"nats"`
}

// LoadIndexerConfig loads configuration for uniques-indexer
func LoadIndexerConfig(configFile string, envPath string) (*IndexerConfig, error) {
	v := configureViper("uniques-indexer", configFile, envPath)

	// Set defaults
	v.SetDefault("environment", "development")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_open_conns", 10)
	v.SetDefault("database.max_idle_conns", 2)
	v.SetDefault("database.conn_max_lifetime", "1h")
	v.SetDefault("database.conn_max_idle_time", "10m")
	setNATSDefaults(v)
	v.SetDefault("nats.consumer_name", "uniques-indexer")
	v.SetDefault("nats.ack_wait", "5m")
	v.SetDefault("nats.max_deliver", -1)
	v.SetDefault("nats.fetch_size", 500)
	v.SetDefault("nats.fetch_max_wait", "5s")
	v.SetDefault("chain.id", domain.DEFAULT_CHAIN_ID)
	v.SetDefault("chain.ss58_prefix", domain.DEFAULT_SS58_PREFIX)
	v.SetDefault("processor.decode_workers", 8)
	v.SetDefault("metrics.listen_address", ":9090")
	v.SetDefault("metrics.path", "/metrics")

	if err := v.ReadInConfig(); err != nil {
		var error viper.ConfigFileNotFoundError
		if errors.As(err, &error) {
			// Config file not found, use environment variables
		} else {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg IndexerConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// LoadBlockLoaderConfig loads configuration for block-loader
func LoadBlockLoaderConfig(configFile string, envPath string) (*BlockLoaderConfig, error) {
	v := configureViper("block-loader", configFile, envPath)

	// Set defaults
	v.SetDefault("environment", "development")
	setNATSDefaults(v)
	v.SetDefault("nats.connection_name", "block-loader")

	if err := v.ReadInConfig(); err != nil {
		var error viper.ConfigFileNotFoundError
		if errors.As(err, &error) {
			// Config file not found, use environment variables
		} else {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg BlockLoaderConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if cfg.NATS.URL == "" {
		return nil, errors.New("nats.url is required")
	}

	return &cfg, nil
}

func setNATSDefaults(v *viper.Viper) {
	v.SetDefault("nats.url", "nats://127.0.0.1:4222")
	v.SetDefault("nats.max_reconnects", 10)
	v.SetDefault("nats.reconnect_wait", "2s")
	v.SetDefault("nats.stream_name", "SUBSTRATE_BLOCKS")
	v.SetDefault("nats.subject", "substrate.blocks")
}

func (c *IndexerConfig) validate() error {
	if c.Chain.ID == "" {
		return errors.New("chain.id is required")
	}
	if c.Chain.SS58Prefix > 16383 {
		return fmt.Errorf("chain.ss58_prefix %d out of range", c.Chain.SS58Prefix)
	}
	if c.NATS.FetchSize <= 0 {
		return fmt.Errorf("nats.fetch_size must be positive, got %d", c.NATS.FetchSize)
	}
	if c.Processor.DecodeWorkers <= 0 {
		return fmt.Errorf("processor.decode_workers must be positive, got %d", c.Processor.DecodeWorkers)
	}
	return nil
}

// configureViper returns a viper instance with the config file and environment variables set
func configureViper(service string, configFile string, envPath string) *viper.Viper {
	v := viper.New()

	// Load environment variables
	loadEnv(envPath, service)

	// Set config file
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		// Search for config.yaml in multiple locations:
		// 1. Current directory
		v.AddConfigPath(".")
		// 2. Service-specific directory (e.g., cmd/uniques-indexer/)
		v.AddConfigPath(fmt.Sprintf("cmd/%s/", service))
		// 3. Config directory
		v.AddConfigPath("config/")
	}

	// Set environment variables
	v.SetEnvPrefix("UNIQUES_INDEXER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Explicitly bind all environment variables
	bindAllEnvVars(v)

	return v
}

// bindAllEnvVars explicitly binds all possible environment variables
// This is required for viper to map env vars to config struct fields when no config file exists
func bindAllEnvVars(v *viper.Viper) {
	keys := []string{
		"debug",
		"sentry_dsn",
		"environment",
		// Database
		"database.host",
		"database.port",
		"database.user",
		"database.password",
		"database.dbname",
		"database.sslmode",
		"database.max_open_conns",
		"database.max_idle_conns",
		"database.conn_max_lifetime",
		"database.conn_max_idle_time",
		// NATS
		"nats.url",
		"nats.stream_name",
		"nats.consumer_name",
		"nats.subject",
		"nats.max_reconnects",
		"nats.reconnect_wait",
		"nats.connection_name",
		"nats.ack_wait",
		"nats.max_deliver",
		"nats.fetch_size",
		"nats.fetch_max_wait",
		// Chain
		"chain.id",
		"chain.ss58_prefix",
		"chain.start_block",
		// Processor
		"processor.decode_workers",
		// Metrics
		"metrics.listen_address",
		"metrics.path",
	}

	for _, key := range keys {
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

	// Default to config directory
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
