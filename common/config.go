package common

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Config struct {
	DatabaseURL  string // sqlite file path or postgres DSN (default "posts.db")
	Port         string // default "5003"
	SecretKey    string // required: session and CSRF secret
	GinMode      string // default "release"
	LogLevel     string // default "info"
	CookieSecure bool

	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

var ErrMissingSecret = errors.New("SECRET_KEY environment variable not set")

// LoadConfig reads .env (if there is one) and then the process environment.
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Warn().Err(err).Msg("could not read .env file")
	}
	return configFromEnv(os.Getenv)
}

func configFromEnv(getenv func(string) string) (*Config, error) {
	get := func(key, def string) string {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			return v
		}
		return def
	}
	seconds := func(key string, def int) time.Duration {
		n, err := strconv.Atoi(get(key, ""))
		if err != nil || n <= 0 {
			n = def
		}
		return time.Duration(n) * time.Second
	}

	cfg := &Config{
		DatabaseURL:  get("DATABASE_URL", "posts.db"),
		Port:         get("PORT", "5003"),
		SecretKey:    getenv("SECRET_KEY"),
		GinMode:      get("GIN_MODE", "release"),
		LogLevel:     get("LOG_LEVEL", "info"),
		ReadTimeout:  seconds("READ_TIMEOUT_SECONDS", 15),
		WriteTimeout: seconds("WRITE_TIMEOUT_SECONDS", 15),
		IdleTimeout:  seconds("IDLE_TIMEOUT_SECONDS", 60),
	}
	cfg.CookieSecure, _ = strconv.ParseBool(get("COOKIE_SECURE", "false"))

	if cfg.SecretKey == "" {
		return nil, ErrMissingSecret
	}
	return cfg, nil
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return ":" + c.Port
}
