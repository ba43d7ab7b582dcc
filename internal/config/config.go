package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Store backends
const (
	BackendMemory    = "memory"
	BackendRedis     = "redis"
	BackendCassandra = "cassandra"
	BackendSQLite    = "sqlite"
)

// Config holds all configuration for the application
type Config struct {
	Host          string        `env:"HOST" envDefault:"0.0.0.0"`
	Port          string        `env:"PORT" envDefault:"8080"`
	StoreBackend  string        `env:"STORE_BACKEND" envDefault:"memory"`
	SessionTTL    time.Duration `env:"SESSION_TTL" envDefault:"1h"`
	RoundDuration time.Duration `env:"ROUND_DURATION" envDefault:"120s"`
	VerifyWorkers int           `env:"VERIFY_WORKERS" envDefault:"4"`
	LogLevel      string        `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat     string        `env:"LOG_FORMAT" envDefault:"text"`

	Redis     RedisConfig     `envPrefix:"REDIS_"`
	Cassandra CassandraConfig `envPrefix:"CASSANDRA_"`
	SQLite    SQLiteConfig    `envPrefix:"SQLITE_"`
}

// RedisConfig holds Redis connection configuration
type RedisConfig struct {
	Addr     string `env:"ADDR" envDefault:"localhost:6379"`
	Password string `env:"PASSWORD"`
	DB       int    `env:"DB" envDefault:"0"`
}

// CassandraConfig holds Cassandra-specific configuration
type CassandraConfig struct {
	Hosts       []string      `env:"HOSTS" envDefault:"localhost:9042" envSeparator:","`
	Keyspace    string        `env:"KEYSPACE" envDefault:"ten_exorcism"`
	Username    string        `env:"USERNAME"`
	Password    string        `env:"PASSWORD"`
	Consistency string        `env:"CONSISTENCY" envDefault:"QUORUM"`
	Timeout     time.Duration `env:"TIMEOUT" envDefault:"5s"`
}

// SQLiteConfig holds the SQLite database location
type SQLiteConfig struct {
	Path string `env:"PATH" envDefault:"ten-exorcism.db"`
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values that env parsing alone cannot
func (c *Config) Validate() error {
	switch c.StoreBackend {
	case BackendMemory, BackendRedis, BackendCassandra, BackendSQLite:
	default:
		return fmt.Errorf("invalid STORE_BACKEND value %q", c.StoreBackend)
	}
	if c.RoundDuration <= 0 {
		return fmt.Errorf("ROUND_DURATION must be greater than 0")
	}
	if c.SessionTTL < 0 {
		return fmt.Errorf("SESSION_TTL must not be negative")
	}
	if c.VerifyWorkers <= 0 {
		return fmt.Errorf("VERIFY_WORKERS must be greater than 0")
	}
	if c.StoreBackend == BackendCassandra && len(c.Cassandra.Hosts) == 0 {
		return fmt.Errorf("CASSANDRA_HOSTS is required when STORE_BACKEND=cassandra")
	}
	return nil
}

// Address returns the full address (host:port)
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}
