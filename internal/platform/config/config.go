package config

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds worker configuration.
type Config struct {
	DatabaseURL    string
	IsProduction   bool
	MigrationsPath string

	// Outbox drain loop
	OutboxBatchSize    int
	OutboxPollInterval time.Duration
	OutboxMaxAttempts  int

	// Concurrency coordinator
	LockLeaseDuration time.Duration

	// Tenant metadata cache
	TenantCacheTTL time.Duration
}

// LoadConfig loads configuration from environment variables and a .env file
// if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("MIGRATIONS_PATH", "file://migrations")
	viper.SetDefault("OUTBOX_BATCH_SIZE", 20)
	viper.SetDefault("OUTBOX_POLL_INTERVAL", "5s")
	viper.SetDefault("OUTBOX_MAX_ATTEMPTS", 10)
	viper.SetDefault("LOCK_LEASE_DURATION", "10s")
	viper.SetDefault("TENANT_CACHE_TTL", "5m")

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")
	cfg.MigrationsPath = viper.GetString("MIGRATIONS_PATH")

	cfg.OutboxBatchSize = viper.GetInt("OUTBOX_BATCH_SIZE")
	if cfg.OutboxBatchSize <= 0 {
		cfg.OutboxBatchSize = 20
		log.Printf("Warning: Invalid OUTBOX_BATCH_SIZE. Defaulting to %d.\n", cfg.OutboxBatchSize)
	}

	cfg.OutboxPollInterval = parseDurationOrDefault("OUTBOX_POLL_INTERVAL", 5*time.Second)

	cfg.OutboxMaxAttempts = viper.GetInt("OUTBOX_MAX_ATTEMPTS")
	if cfg.OutboxMaxAttempts <= 0 {
		cfg.OutboxMaxAttempts = 10
		log.Printf("Warning: Invalid OUTBOX_MAX_ATTEMPTS. Defaulting to %d.\n", cfg.OutboxMaxAttempts)
	}

	cfg.LockLeaseDuration = parseDurationOrDefault("LOCK_LEASE_DURATION", 10*time.Second)
	cfg.TenantCacheTTL = parseDurationOrDefault("TENANT_CACHE_TTL", 5*time.Minute)

	return cfg, nil
}

func parseDurationOrDefault(key string, fallback time.Duration) time.Duration {
	raw := viper.GetString(key)
	d, err := time.ParseDuration(raw)
	if err != nil {
		if raw != "" {
			log.Printf("Warning: Invalid value for %s ('%s'). Defaulting to %s.\n", key, raw, fallback)
		}
		return fallback
	}
	return d
}
