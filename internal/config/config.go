package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

type HTTPConfig struct {
	Address        string        `yaml:"address" env:"HTTP_ADDRESS" env-default:":3000"`
	RequestTimeout time.Duration `yaml:"request_timeout" env:"HTTP_REQUEST_TIMEOUT" env-default:"10s"`
	AllowedOrigins []string      `yaml:"allowed_origins" env:"ALLOWED_ORIGINS" env-separator:","`
}

type DatabaseConfig struct {
	Driver string `yaml:"driver" env:"DB_DRIVER" env-default:"postgres"`
	DSN    string `yaml:"dsn" env:"DATABASE_URL" env-required:"true"`
}

type AuthConfig struct {
	JWTSecret      string        `yaml:"jwt_secret" env:"JWT_SECRET" env-required:"true"`
	TokenTTL       time.Duration `yaml:"token_ttl" env:"JWT_TTL" env-default:"168h"`
	GoogleClientID string        `yaml:"google_client_id" env:"GOOGLE_CLIENT_ID"`
}

type Config struct {
	LogLevel string         `yaml:"log_level" env:"LOG_LEVEL" env-default:"INFO"`
	HTTP     HTTPConfig     `yaml:"http"`
	Database DatabaseConfig `yaml:"database"`
	Auth     AuthConfig     `yaml:"auth"`
}

// Load reads configPath when it exists and falls back to the environment otherwise.
// A .env file in the working directory is loaded first when present.
func Load(configPath string) (Config, error) {
	var cfg Config

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return cfg, fmt.Errorf("load .env: %w", err)
	}

	if configPath == "" {
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return cfg, fmt.Errorf("read env: %w", err)
		}
		return cfg, cfg.validate()
	}

	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		var pe *os.PathError
		if !errors.As(err, &pe) {
			return cfg, fmt.Errorf("read config %q: %w", configPath, err)
		}
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return cfg, fmt.Errorf("read env: %w", err)
		}
	}

	return cfg, cfg.validate()
}

// validate rejects required values that are present but blank, which env-required lets through.
func (c Config) validate() error {
	if strings.TrimSpace(c.Auth.JWTSecret) == "" {
		return errors.New("JWT_SECRET must not be blank")
	}
	if strings.TrimSpace(c.Database.DSN) == "" {
		return errors.New("DATABASE_URL must not be blank")
	}
	return nil
}
