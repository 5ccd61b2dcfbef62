// Package config loads settings for the lrucache binary from the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Default configuration constants
const (
	DefaultCacheLimit      = 2
	DefaultCacheLifespan   = 500 * time.Millisecond
	DefaultCleanupInterval = 0 // 0 disables the background sweep

	DefaultLogLevel  = "info"
	DefaultLogFormat = "console"

	DefaultMetricsAddr = ":9090"
	DefaultMetricsPath = "/metrics"
)

// ErrInvalidConfig is wrapped by every Validate failure.
var ErrInvalidConfig = errors.New("invalid config")

type MetricsConfig struct {
	Enabled bool
	Addr    string
	Path    string
}

type Config struct {
	cacheLimit      int
	cacheLifespan   time.Duration
	cleanupInterval time.Duration
	logLevel        string
	logFormat       string
	metricsConfig   *MetricsConfig
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("CACHE_LIMIT", DefaultCacheLimit)
	v.SetDefault("CACHE_LIFESPAN", DefaultCacheLifespan)
	v.SetDefault("CACHE_CLEANUP_INTERVAL", DefaultCleanupInterval)
	v.SetDefault("LOG_LEVEL", DefaultLogLevel)
	v.SetDefault("LOG_FORMAT", DefaultLogFormat)
	v.SetDefault("METRICS_ENABLED", false)
	v.SetDefault("METRICS_ADDR", DefaultMetricsAddr)
	v.SetDefault("METRICS_PATH", DefaultMetricsPath)
}

// Load reads the environment, after loading envFiles (".env" when none are
// given) if they exist, and validates the result.
func Load(envFiles ...string) (*Config, error) {
	if err := godotenv.Load(envFiles...); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load env file: %w", err)
	}

	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)

	cfg := &Config{
		cacheLimit:      v.GetInt("CACHE_LIMIT"),
		cacheLifespan:   v.GetDuration("CACHE_LIFESPAN"),
		cleanupInterval: v.GetDuration("CACHE_CLEANUP_INTERVAL"),
		logLevel:        v.GetString("LOG_LEVEL"),
		logFormat:       v.GetString("LOG_FORMAT"),
		metricsConfig: &MetricsConfig{
			Enabled: v.GetBool("METRICS_ENABLED"),
			Addr:    v.GetString("METRICS_ADDR"),
			Path:    v.GetString("METRICS_PATH"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.cacheLimit <= 0 {
		return fmt.Errorf("%w: CACHE_LIMIT must be positive, got %d", ErrInvalidConfig, c.cacheLimit)
	}
	if c.cleanupInterval < 0 {
		return fmt.Errorf("%w: CACHE_CLEANUP_INTERVAL must not be negative", ErrInvalidConfig)
	}
	switch c.logFormat {
	case "json", "console":
	default:
		return fmt.Errorf("%w: LOG_FORMAT must be json or console, got %q", ErrInvalidConfig, c.logFormat)
	}
	if c.metricsConfig.Enabled {
		if c.metricsConfig.Addr == "" {
			return fmt.Errorf("%w: METRICS_ADDR is required when metrics are enabled", ErrInvalidConfig)
		}
		if c.metricsConfig.Path == "" || c.metricsConfig.Path[0] != '/' {
			return fmt.Errorf("%w: METRICS_PATH must start with /", ErrInvalidConfig)
		}
	}
	return nil
}

func (c Config) GetCacheLimit() int {
	return c.cacheLimit
}

func (c Config) GetCacheLifespan() time.Duration {
	return c.cacheLifespan
}

func (c Config) GetCleanupInterval() time.Duration {
	return c.cleanupInterval
}

func (c Config) GetLogLevel() string {
	return c.logLevel
}

func (c Config) GetLogFormat() string {
	return c.logFormat
}

func (c Config) GetMetricsConfig() *MetricsConfig {
	return c.metricsConfig
}
