package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"
)

// Config holds all application configuration
type Config struct {
	// Discord configuration
	DiscordToken string

	// Database configuration
	DatabaseURL string

	// Payment service configuration
	PaymentAPIBase string
	PaymentTimeout time.Duration

	// Sweeper configuration
	SweepInterval   time.Duration // how often stale sessions are scanned
	StaleSessionAge time.Duration // open sessions older than this are force-closed

	// Environment
	Environment string // "development", "production" or "test"
}

var (
	instance *Config
	once     sync.Once
)

// Get returns the global configuration instance
func Get() *Config {
	once.Do(func() {
		var err error
		instance, err = load()
		if err != nil {
			panic(fmt.Sprintf("failed to load config: %v", err))
		}
	})
	return instance
}

// load loads configuration from environment variables
func load() (*Config, error) {
	config := &Config{
		DiscordToken: os.Getenv("DISCORD_TOKEN"),
		DatabaseURL:  os.Getenv("DATABASE_URL"),

		PaymentAPIBase: strings.TrimRight(os.Getenv("PAYMENT_API_BASE"), "/"),
		PaymentTimeout: 15 * time.Second,

		// Sweeper defaults: 5 minute scan, 24h staleness threshold
		SweepInterval:   5 * time.Minute,
		StaleSessionAge: 24 * time.Hour,

		Environment: os.Getenv("ENVIRONMENT"),
	}

	// Override defaults if environment variables are set
	if v := os.Getenv("PAYMENT_TIMEOUT_SECONDS"); v != "" {
		if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
			config.PaymentTimeout = time.Duration(secs) * time.Second
		}
	}
	if v := os.Getenv("SWEEP_INTERVAL_MINUTES"); v != "" {
		if mins, err := strconv.Atoi(v); err == nil && mins > 0 {
			config.SweepInterval = time.Duration(mins) * time.Minute
		}
	}
	if v := os.Getenv("STALE_SESSION_HOURS"); v != "" {
		if hours, err := strconv.Atoi(v); err == nil && hours > 0 {
			config.StaleSessionAge = time.Duration(hours) * time.Hour
		}
	}

	// Set default environment if not specified
	if config.Environment == "" {
		config.Environment = "development"
	}

	if config.Environment != "test" {
		// Validate required configuration
		if config.DiscordToken == "" {
			return nil, fmt.Errorf("DISCORD_TOKEN is required")
		}
		if config.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL is required")
		}
		if config.PaymentAPIBase == "" {
			return nil, fmt.Errorf("PAYMENT_API_BASE is required")
		}
	}

	return config, nil
}
