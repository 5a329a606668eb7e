package server

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds the server's runtime settings.
type Config struct {
	Addr        string `env:"CORTEX_ADDR" envDefault:":8080"`
	CatalogPath string `env:"CORTEX_CATALOG"`

	// RedisAddr selects the Redis plan store; empty keeps plans in memory.
	RedisAddr     string        `env:"CORTEX_REDIS_ADDR"`
	RedisPassword string        `env:"CORTEX_REDIS_PASSWORD"`
	RedisDB       int           `env:"CORTEX_REDIS_DB" envDefault:"0"`
	PlanTTL       time.Duration `env:"CORTEX_PLAN_TTL" envDefault:"168h"`

	ReadHeaderTimeout time.Duration `env:"CORTEX_READ_HEADER_TIMEOUT" envDefault:"5s"`
	ShutdownTimeout   time.Duration `env:"CORTEX_SHUTDOWN_TIMEOUT" envDefault:"10s"`
	MaxBodyBytes      int64         `env:"CORTEX_MAX_BODY_BYTES" envDefault:"1048576"`
}

// LoadConfig reads the configuration from the environment.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}
