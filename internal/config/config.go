package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Store backends accepted by STORE_BACKEND
const (
	BackendMemory   = "memory"
	BackendFile     = "file"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
)

type Config struct {
	Environment string `envconfig:"ENV" default:"development"`
	Port        string `envconfig:"PORT" default:"8080"`

	// Persistence
	StoreBackend string `envconfig:"STORE_BACKEND" default:"file"`
	DataDir      string `envconfig:"DATA_DIR" default:"./data"`
	RedisURL     string `envconfig:"REDIS_URL"`
	DatabaseURL  string `envconfig:"DATABASE_URL"`

	// Simulated backend latency
	LoginDelay     time.Duration `envconfig:"LOGIN_DELAY" default:"500ms"`
	RegisterDelay  time.Duration `envconfig:"REGISTER_DELAY" default:"600ms"`
	PaymentDelay   time.Duration `envconfig:"PAYMENT_DELAY" default:"800ms"`
	ComplaintDelay time.Duration `envconfig:"COMPLAINT_DELAY" default:"700ms"`

	SeedDemoData  bool `envconfig:"SEED_DEMO_DATA" default:"true"`
	SecureCookies bool `envconfig:"SECURE_COOKIES" default:"false"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks backend selection and the connection settings it needs.
func (c *Config) Validate() error {
	switch c.StoreBackend {
	case BackendMemory:
	case BackendFile:
		if c.DataDir == "" {
			return fmt.Errorf("DATA_DIR is required for the %s backend", c.StoreBackend)
		}
	case BackendRedis:
		if c.RedisURL == "" {
			return fmt.Errorf("REDIS_URL is required for the %s backend", c.StoreBackend)
		}
	case BackendPostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required for the %s backend", c.StoreBackend)
		}
	default:
		return fmt.Errorf("unknown STORE_BACKEND %q", c.StoreBackend)
	}

	for name, d := range map[string]time.Duration{
		"LOGIN_DELAY":     c.LoginDelay,
		"REGISTER_DELAY":  c.RegisterDelay,
		"PAYMENT_DELAY":   c.PaymentDelay,
		"COMPLAINT_DELAY": c.ComplaintDelay,
	} {
		if d < 0 {
			return fmt.Errorf("%s must not be negative", name)
		}
	}
	return nil
}

// IsProduction reports whether cookies and logs should use production settings.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
