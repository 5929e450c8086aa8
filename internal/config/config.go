package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/samber/oops"
	"github.com/spf13/pflag"
	"golang.org/x/crypto/bcrypt"
)

// Store drivers understood by the storage module.
const (
	DriverPostgres = "postgres"
	DriverMongo    = "mongo"
	DriverMemory   = "memory"
)

// Config holds application level configuration loaded from environment and flags.
type Config struct {
	StoreDriver       string
	DatabaseURI       string
	MongoURI          string
	MongoDatabase     string
	MongoCollection   string
	RedisAddr         string
	RedisPassword     string
	CacheTTL          time.Duration
	BcryptCost        int
	HashWorkers       int
	MinPasswordLength int
	LogLevel          string
	ShutdownTimeout   time.Duration
}

const (
	defaultStoreDriver       = DriverPostgres
	defaultMongoDatabase     = "usercreds"
	defaultMongoCollection   = "users"
	defaultCacheTTL          = 5 * time.Minute
	defaultBcryptCost        = bcrypt.DefaultCost
	defaultHashWorkers       = 4
	defaultMinPasswordLength = 8
	defaultLogLevel          = "warn"
	defaultShutdownTimeout   = 10 * time.Second
)

type envLookup func(string) (string, bool)

// FromEnv returns defaults overridden by environment variables.
// REDIS_PASSWORD_FILE, when set, takes precedence over REDIS_PASSWORD.
func FromEnv(lookup envLookup) (*Config, error) {
	if lookup == nil {
		lookup = os.LookupEnv
	}
	cfg := &Config{
		StoreDriver:       getString(lookup, "STORE_DRIVER", defaultStoreDriver),
		DatabaseURI:       getString(lookup, "DATABASE_URI", ""),
		MongoURI:          getString(lookup, "MONGO_URI", ""),
		MongoDatabase:     getString(lookup, "MONGO_DATABASE", defaultMongoDatabase),
		MongoCollection:   getString(lookup, "MONGO_COLLECTION", defaultMongoCollection),
		RedisAddr:         getString(lookup, "REDIS_ADDR", ""),
		RedisPassword:     getString(lookup, "REDIS_PASSWORD", ""),
		CacheTTL:          getDuration(lookup, "CACHE_TTL", defaultCacheTTL),
		BcryptCost:        getInt(lookup, "BCRYPT_COST", defaultBcryptCost),
		HashWorkers:       getInt(lookup, "HASH_WORKERS", defaultHashWorkers),
		MinPasswordLength: getInt(lookup, "MIN_PASSWORD_LENGTH", defaultMinPasswordLength),
		LogLevel:          getString(lookup, "LOG_LEVEL", defaultLogLevel),
		ShutdownTimeout:   getDuration(lookup, "SHUTDOWN_TIMEOUT", defaultShutdownTimeout),
	}

	if passwordFile, ok := lookup("REDIS_PASSWORD_FILE"); ok && passwordFile != "" {
		content, err := os.ReadFile(passwordFile)
		if err != nil {
			return nil, fmt.Errorf("read redis password file: %w", err)
		}
		cfg.RedisPassword = strings.TrimSpace(string(content))
	}
	return cfg, nil
}

// BindFlags registers configuration flags on fs. Current field values become
// the flag defaults, so environment overrides must be applied first.
func (c *Config) BindFlags(fs *pflag.FlagSet) {
	fs.StringVar(&c.StoreDriver, "store", c.StoreDriver, "Storage driver: postgres, mongo or memory")
	fs.StringVarP(&c.DatabaseURI, "database-uri", "d", c.DatabaseURI, "PostgreSQL DSN")
	fs.StringVar(&c.MongoURI, "mongo-uri", c.MongoURI, "MongoDB connection URI")
	fs.StringVar(&c.MongoDatabase, "mongo-database", c.MongoDatabase, "MongoDB database name")
	fs.StringVar(&c.MongoCollection, "mongo-collection", c.MongoCollection, "MongoDB collection holding user records")
	fs.StringVar(&c.RedisAddr, "redis-addr", c.RedisAddr, "Redis address for the read-through cache (empty disables it)")
	fs.StringVar(&c.RedisPassword, "redis-password", c.RedisPassword, "Redis password")
	fs.DurationVar(&c.CacheTTL, "cache-ttl", c.CacheTTL, "Lifetime of cached user records")
	fs.IntVar(&c.BcryptCost, "bcrypt-cost", c.BcryptCost, "bcrypt work factor")
	fs.IntVar(&c.HashWorkers, "hash-workers", c.HashWorkers, "Number of concurrent hashing workers")
	fs.IntVar(&c.MinPasswordLength, "min-password-length", c.MinPasswordLength, "Minimum accepted password length")
	fs.StringVar(&c.LogLevel, "log-level", c.LogLevel, "Log level: debug, info, warn or error")
	fs.DurationVar(&c.ShutdownTimeout, "shutdown-timeout", c.ShutdownTimeout, "Graceful shutdown timeout")
}

// Normalize replaces non-positive numeric settings with their defaults.
func (c *Config) Normalize() {
	c.StoreDriver = strings.ToLower(strings.TrimSpace(c.StoreDriver))
	c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))

	if c.StoreDriver == "" {
		c.StoreDriver = defaultStoreDriver
	}
	if c.LogLevel == "" {
		c.LogLevel = defaultLogLevel
	}
	if c.BcryptCost <= 0 {
		c.BcryptCost = defaultBcryptCost
	}
	if c.HashWorkers <= 0 {
		c.HashWorkers = defaultHashWorkers
	}
	if c.MinPasswordLength <= 0 {
		c.MinPasswordLength = defaultMinPasswordLength
	}
	if c.CacheTTL <= 0 {
		c.CacheTTL = defaultCacheTTL
	}
	if c.ShutdownTimeout <= 0 {
		c.ShutdownTimeout = defaultShutdownTimeout
	}
	if c.MongoDatabase == "" {
		c.MongoDatabase = defaultMongoDatabase
	}
	if c.MongoCollection == "" {
		c.MongoCollection = defaultMongoCollection
	}
}

// Validate reports configuration that cannot be used to open a store.
func (c *Config) Validate() error {
	switch c.StoreDriver {
	case DriverPostgres:
		if c.DatabaseURI == "" {
			return oops.Code("CONFIG_INVALID").Errorf("database URI must be provided for the %s store", c.StoreDriver)
		}
	case DriverMongo:
		if c.MongoURI == "" {
			return oops.Code("CONFIG_INVALID").Errorf("mongo URI must be provided for the %s store", c.StoreDriver)
		}
	case DriverMemory:
	default:
		return oops.Code("CONFIG_INVALID").With("store", c.StoreDriver).Errorf("unknown store driver %q", c.StoreDriver)
	}

	if err := c.ValidateHashing(); err != nil {
		return err
	}

	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return oops.Code("CONFIG_INVALID").With("log_level", c.LogLevel).Errorf("unknown log level %q", c.LogLevel)
	}
	return nil
}

// ValidateHashing checks only the settings needed to hash passwords, for
// commands that never touch a store.
func (c *Config) ValidateHashing() error {
	if c.BcryptCost < bcrypt.MinCost || c.BcryptCost > bcrypt.MaxCost {
		return oops.Code("CONFIG_INVALID").
			With("bcrypt_cost", c.BcryptCost).
			Errorf("bcrypt cost must be between %d and %d", bcrypt.MinCost, bcrypt.MaxCost)
	}
	return nil
}

func getString(lookup envLookup, key, def string) string {
	if v, ok := lookup(key); ok && v != "" {
		return v
	}
	return def
}

func getInt(lookup envLookup, key string, def int) int {
	if v, ok := lookup(key); ok && v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getDuration(lookup envLookup, key string, def time.Duration) time.Duration {
	if v, ok := lookup(key); ok && v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
