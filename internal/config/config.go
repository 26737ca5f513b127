// Package config loads application configuration from the environment.
package config

import (
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds every tunable the server reads at startup.
type Config struct {
	Port        string        `envconfig:"PORT" default:"8080"`
	DatabaseURL string        `envconfig:"DB_URL" required:"true"`
	JWTSecret   string        `envconfig:"JWT_SECRET" required:"true"`
	JWTIssuer   string        `envconfig:"JWT_ISS" default:"parley"`
	TokenTTL    time.Duration `envconfig:"TOKEN_TTL" default:"24h"`

	UploadDir string `envconfig:"UPLOAD_DIR" default:"uploads"`
	BaseURL   string `envconfig:"BASE_URL" default:"http://localhost:8080"`

	// Per-connection event budgets on the websocket.
	MessageRateLimit  int           `envconfig:"MESSAGE_RATE_LIMIT" default:"30"`
	MessageRateWindow time.Duration `envconfig:"MESSAGE_RATE_WINDOW" default:"1m"`
	TypingRateLimit   int           `envconfig:"TYPING_RATE_LIMIT" default:"60"`
	TypingRateWindow  time.Duration `envconfig:"TYPING_RATE_WINDOW" default:"1m"`

	// Per-IP budget on the account endpoints.
	AuthRateLimit  int           `envconfig:"AUTH_RATE_LIMIT" default:"10"`
	AuthRateWindow time.Duration `envconfig:"AUTH_RATE_WINDOW" default:"1m"`
}

// Load reads .env if present, then resolves the config from the environment.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("failed to load .env file: %+v", err)
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, fmt.Errorf("internal/config: %w", err)
	}

	return cfg, nil
}
