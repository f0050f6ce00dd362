// internal/config/config.go
//
// Runtime configuration.
// Sources, later ones winning:
//   1. Defaults (Default).
//   2. YAML file: explicit path, else $MASTERMIND_CONFIG, else ./mastermind.yaml.
//      A missing default file is not an error; a missing explicit one is.
//   3. Environment variables (see applyEnv).
// Command-line flags are applied by the caller on top of the result.

package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

// DefaultPath is read when no path is given and MASTERMIND_CONFIG is unset.
const DefaultPath = "mastermind.yaml"

// Config holds every tunable of the CLI and the HTTP service.
type Config struct {
	LogLevel string `yaml:"log_level"`
	Workers  int    `yaml:"workers" validate:"min=0,max=256"`
	SeedSalt string `yaml:"seed_salt"`
	Database string `yaml:"database_path"`

	Play   Play   `yaml:"play"`
	Server Server `yaml:"server"`
}

// Play holds the terminal REPL options.
type Play struct {
	Relax     bool   `yaml:"relax"`
	ShowCount bool   `yaml:"show_count"`
	ShowX     bool   `yaml:"show_x"`
	Choices   int    `yaml:"choices" validate:"min=0"`
	Palette   string `yaml:"palette"`
	History   bool   `yaml:"history"`
}

// Server holds the HTTP service options.
type Server struct {
	Port           string        `yaml:"port" validate:"required,numeric"`
	ClientOrigin   string        `yaml:"client_origin"`
	JWTSecret      string        `yaml:"jwt_secret" validate:"required"`
	JWTExpiresDays int           `yaml:"jwt_expires_days" validate:"min=1"`
	CookieName     string        `yaml:"cookie_name" validate:"required"`
	Production     bool          `yaml:"production"`
	RoundTTL       time.Duration `yaml:"round_ttl"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		LogLevel: "info",
		SeedSalt: "local_dev_salt",
		Database: "./data/mastermind.db",
		Play: Play{
			Palette: "digits",
		},
		Server: Server{
			Port:           "5175",
			ClientOrigin:   "http://localhost:5173",
			JWTSecret:      "dev_secret_change_me",
			JWTExpiresDays: 14,
			CookieName:     "mastermind_token",
			RoundTTL:       6 * time.Hour,
		},
	}
}

// Load builds the configuration from defaults, the YAML file and the environment.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = os.Getenv("MASTERMIND_CONFIG")
		explicit = path != ""
	}
	if path == "" {
		path = DefaultPath
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist) && !explicit:
		// defaults only
	default:
		return cfg, fmt.Errorf("read config: %w", err)
	}

	if err := applyEnv(&cfg); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

// applyEnv overrides fields from the process environment.
func applyEnv(cfg *Config) error {
	str := func(key string, dst *string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	str("LOG_LEVEL", &cfg.LogLevel)
	str("SEED_SALT", &cfg.SeedSalt)
	str("DATABASE_PATH", &cfg.Database)
	str("PORT", &cfg.Server.Port)
	str("CLIENT_ORIGIN", &cfg.Server.ClientOrigin)
	str("JWT_SECRET", &cfg.Server.JWTSecret)
	str("COOKIE_NAME", &cfg.Server.CookieName)

	if v := os.Getenv("MASTERMIND_WORKERS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("MASTERMIND_WORKERS: %w", err)
		}
		cfg.Workers = n
	}
	if v := os.Getenv("JWT_EXPIRES_DAYS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Server.JWTExpiresDays = n
		}
	}
	if os.Getenv("NODE_ENV") == "production" {
		cfg.Server.Production = true
	}
	return nil
}

var validate = validator.New()

// Validate checks field constraints and the log level.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid config: log_level: %w", err)
	}
	return nil
}

// Level returns the configured zerolog level, info when unparsable.
func (c Config) Level() zerolog.Level {
	lvl, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil {
		return zerolog.InfoLevel
	}
	return lvl
}
