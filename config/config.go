// Package config loads vecstore settings from built-in defaults, an optional
// TOML file and VECSTORE_ prefixed environment variables, in that order.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/pelletier/go-toml/v2"
	"github.com/rs/zerolog"

	"github.com/viant/vecstore/embedding"
	"github.com/viant/vecstore/engine"
	"github.com/viant/vecstore/index"
	"github.com/viant/vecstore/vector"
	"github.com/viant/vecstore/vector/pgvector"
)

// EnvPrefix prefixes every environment variable, e.g. VECSTORE_POOL_DSN.
const EnvPrefix = "VECSTORE"

// Duration is a time.Duration read from strings such as "30s".
type Duration time.Duration

// UnmarshalText parses a Go duration string.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(strings.TrimSpace(string(text)))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

// MarshalText renders the duration.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// Config holds the sample configuration.
type Config struct {
	Environment string          `toml:"environment" envconfig:"ENVIRONMENT"`
	LogLevel    string          `toml:"log_level" envconfig:"LOG_LEVEL"`
	Pool        PoolConfig      `toml:"pool" envconfig:"POOL"`
	Store       StoreConfig     `toml:"store" envconfig:"STORE"`
	Embedding   EmbeddingConfig `toml:"embedding" envconfig:"EMBEDDING"`
}

// PoolConfig describes the database connection pool.
type PoolConfig struct {
	Name            string   `toml:"name" envconfig:"NAME"`
	Driver          string   `toml:"driver" envconfig:"DRIVER"`
	DSN             string   `toml:"dsn" envconfig:"DSN"`
	MaxOpenConns    int      `toml:"max_open_conns" envconfig:"MAX_OPEN_CONNS"`
	MaxIdleConns    int      `toml:"max_idle_conns" envconfig:"MAX_IDLE_CONNS"`
	ConnMaxLifetime Duration `toml:"conn_max_lifetime" envconfig:"CONN_MAX_LIFETIME"`
	ConnectTimeout  Duration `toml:"connect_timeout" envconfig:"CONNECT_TIMEOUT"`
}

// StoreConfig describes the vector table.
type StoreConfig struct {
	Table      string `toml:"table" envconfig:"TABLE"`
	Dimensions int    `toml:"dimensions" envconfig:"DIMENSIONS"`
	Index      string `toml:"index" envconfig:"INDEX"`
	BatchSize  int    `toml:"batch_size" envconfig:"BATCH_SIZE"`
}

// EmbeddingConfig selects the embedding model.
type EmbeddingConfig struct {
	Provider  string   `toml:"provider" envconfig:"PROVIDER"`
	Model     string   `toml:"model" envconfig:"MODEL"`
	BaseURL   string   `toml:"base_url" envconfig:"BASE_URL"`
	APIKey    string   `toml:"api_key" envconfig:"API_KEY"`
	Timeout   Duration `toml:"timeout" envconfig:"TIMEOUT"`
	CacheSize int      `toml:"cache_size" envconfig:"CACHE_SIZE"`
}

// Default returns the built-in configuration: a local SQLite file and the
// hashing model at 384 dimensions.
func Default() *Config {
	return &Config{
		Environment: "development",
		LogLevel:    "info",
		Pool: PoolConfig{
			Name:            "VECTOR_SAMPLE",
			Driver:          engine.DriverSQLite,
			DSN:             "vecstore.sqlite?_pragma=busy_timeout(5000)",
			MaxOpenConns:    4,
			MaxIdleConns:    4,
			ConnMaxLifetime: Duration(30 * time.Minute),
			ConnectTimeout:  Duration(30 * time.Second),
		},
		Store: StoreConfig{
			Table:      "vector_store",
			Dimensions: embedding.DefaultDimensions,
			Index:      vector.IndexAuto,
			BatchSize:  vector.DefaultBatchSize,
		},
		Embedding: EmbeddingConfig{
			Provider:  embedding.ProviderHashing,
			Timeout:   Duration(time.Minute),
			CacheSize: 1024,
		},
	}
}

// Load reads defaults, then the TOML file at path (skipped when empty), then
// the environment, and validates the result.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}
	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment variables: %w", err)
	}
	if err := cfg.ResolveDefaults(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ResolveDefaults normalizes names and rejects unsupported combinations.
func (c *Config) ResolveDefaults() error {
	driver, err := engine.DriverName(c.Pool.Driver)
	if err != nil {
		return err
	}
	c.Pool.Driver = driver
	if c.Pool.DSN == "" {
		return fmt.Errorf("config: pool DSN is empty")
	}
	if err := vector.ValidateTable(c.Store.Table); err != nil {
		return err
	}
	if c.Store.Dimensions <= 0 {
		return fmt.Errorf("config: store dimensions must be positive, got %d", c.Store.Dimensions)
	}
	if c.Store.BatchSize <= 0 {
		c.Store.BatchSize = vector.DefaultBatchSize
	}

	c.Store.Index = strings.ToLower(strings.TrimSpace(c.Store.Index))
	if c.Store.Index == "" {
		c.Store.Index = vector.IndexAuto
	}
	switch driver {
	case engine.DriverSQLite:
		if c.Store.Index != vector.IndexSQL {
			if _, err := index.ParseKind(c.Store.Index); err != nil {
				return fmt.Errorf("config: index %q is not supported by sqlite", c.Store.Index)
			}
		}
	case engine.DriverPgx:
		switch c.Store.Index {
		case vector.IndexAuto, vector.IndexSQL, pgvector.IndexHNSW, pgvector.IndexIVFFlat, pgvector.IndexNone:
		default:
			return fmt.Errorf("config: index %q is not supported by pgvector", c.Store.Index)
		}
	}

	c.Embedding.Provider = strings.ToLower(strings.TrimSpace(c.Embedding.Provider))
	switch c.Embedding.Provider {
	case "":
		c.Embedding.Provider = embedding.ProviderHashing
	case embedding.ProviderHashing, embedding.ProviderOllama, embedding.ProviderHuggingFace:
	case embedding.ProviderOpenAI:
		if c.Embedding.APIKey == "" {
			return fmt.Errorf("config: openai provider requires an API key")
		}
	default:
		return fmt.Errorf("config: unsupported embedding provider %q", c.Embedding.Provider)
	}

	if _, err := zerolog.ParseLevel(strings.ToLower(c.LogLevel)); err != nil {
		return fmt.Errorf("config: invalid log level %q", c.LogLevel)
	}
	return nil
}

// NewForTesting returns a validated config using a SQLite file in dir.
func NewForTesting(dir string) *Config {
	cfg := Default()
	cfg.Environment = "testing"
	cfg.LogLevel = "debug"
	cfg.Pool.DSN = filepath.Join(dir, "vecstore_test.sqlite")
	cfg.Pool.ConnectTimeout = Duration(5 * time.Second)
	if err := cfg.ResolveDefaults(); err != nil {
		panic(err)
	}
	return cfg
}

// EnginePool converts the pool section for engine.OpenPool.
func (c *Config) EnginePool() engine.PoolConfig {
	return engine.PoolConfig{
		Name:            c.Pool.Name,
		Driver:          c.Pool.Driver,
		DSN:             c.Pool.DSN,
		MaxOpenConns:    c.Pool.MaxOpenConns,
		MaxIdleConns:    c.Pool.MaxIdleConns,
		ConnMaxLifetime: time.Duration(c.Pool.ConnMaxLifetime),
		ConnectTimeout:  time.Duration(c.Pool.ConnectTimeout),
	}
}

// EmbeddingModel converts the embedding section for embedding.New.
func (c *Config) EmbeddingModel() embedding.Config {
	return embedding.Config{
		Provider:   c.Embedding.Provider,
		Model:      c.Embedding.Model,
		BaseURL:    c.Embedding.BaseURL,
		APIKey:     c.Embedding.APIKey,
		Dimensions: c.Store.Dimensions,
		Timeout:    time.Duration(c.Embedding.Timeout),
		CacheSize:  c.Embedding.CacheSize,
	}
}

// StoreOptions returns the store options for the configured table.
func (c *Config) StoreOptions(logger zerolog.Logger) []vector.Option {
	return []vector.Option{
		vector.WithBatchSize(c.Store.BatchSize),
		vector.WithIndex(c.Store.Index),
		vector.WithLogger(logger),
	}
}
