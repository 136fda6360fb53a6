package kv

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Backend names accepted by APTIZ_KV_BACKEND.
const (
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
	BackendRedis  = "redis"
	BackendMongo  = "mongo"
)

// Config selects and configures a backend.
type Config struct {
	Backend string
	Redis   RedisConfig
	Mongo   MongoConfig
}

// RedisConfig holds Redis connection settings.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	Prefix   string // Default: "aptiz:"
}

// MongoConfig holds MongoDB connection settings.
type MongoConfig struct {
	URI            string
	Database       string // Default: "aptiz"
	Collection     string // Default: "kv"
	ConnectTimeout time.Duration
}

// DefaultConfig returns the local SQLite configuration.
func DefaultConfig() Config {
	return Config{
		Backend: BackendSQLite,
		Redis: RedisConfig{
			Addr:   "localhost:6379",
			Prefix: "aptiz:",
		},
		Mongo: MongoConfig{
			URI:            "mongodb://localhost:27017",
			Database:       "aptiz",
			Collection:     "kv",
			ConnectTimeout: 5 * time.Second,
		},
	}
}

// ConfigFromEnv builds a Config from environment variables, falling back
// to defaults for unset values.
func ConfigFromEnv() Config {
	cfg := DefaultConfig()

	if b := os.Getenv("APTIZ_KV_BACKEND"); b != "" {
		cfg.Backend = b
	}

	if a := os.Getenv("APTIZ_REDIS_ADDR"); a != "" {
		cfg.Redis.Addr = a
	}
	if p := os.Getenv("APTIZ_REDIS_PASSWORD"); p != "" {
		cfg.Redis.Password = p
	}
	if d := os.Getenv("APTIZ_REDIS_DB"); d != "" {
		if n, err := strconv.Atoi(d); err == nil {
			cfg.Redis.DB = n
		}
	}

	if u := os.Getenv("APTIZ_MONGO_URI"); u != "" {
		cfg.Mongo.URI = u
	}
	if d := os.Getenv("APTIZ_MONGO_DATABASE"); d != "" {
		cfg.Mongo.Database = d
	}

	return cfg
}

// Validate checks that the backend name is known.
func (c Config) Validate() error {
	switch c.Backend {
	case BackendSQLite, BackendMemory, BackendRedis, BackendMongo:
		return nil
	default:
		return fmt.Errorf("unknown kv backend: %q", c.Backend)
	}
}
