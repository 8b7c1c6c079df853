package config

import (
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	VocabDir   string `env:"VOCAB_DIR" envDefault:"."`
	WatchVocab bool   `env:"WATCH_VOCAB" envDefault:"true"`

	HTTPAddr     string        `env:"HTTP_ADDR" envDefault:":8000"`
	ReadTimeout  time.Duration `env:"HTTP_READ_TIMEOUT" envDefault:"5s"`
	WriteTimeout time.Duration `env:"HTTP_WRITE_TIMEOUT" envDefault:"30s"`
	IdleTimeout  time.Duration `env:"HTTP_IDLE_TIMEOUT" envDefault:"120s"`

	CORSOrigins    []string `env:"CORS_ORIGINS" envSeparator:","`
	AuthToken      string   `env:"AUTH_TOKEN"`
	RateLimitRPS   float64  `env:"RATE_LIMIT_RPS" envDefault:"0"`
	RateLimitBurst int      `env:"RATE_LIMIT_BURST" envDefault:"0"`

	ResolveCacheSize int `env:"RESOLVE_CACHE_SIZE" envDefault:"4096"`

	WSWriteTimeout time.Duration `env:"WS_WRITE_TIMEOUT" envDefault:"10s"`
	WSPongTimeout  time.Duration `env:"WS_PONG_TIMEOUT" envDefault:"60s"`
	WSSendBuffer   int           `env:"WS_SEND_BUFFER" envDefault:"64"`
	WSReadLimit    int64         `env:"WS_READ_LIMIT" envDefault:"65536"`

	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
}

// Overrides holds CLI flag values that take priority over env vars.
type Overrides struct {
	EnvFile  string
	HTTPAddr string
	VocabDir string
	LogLevel string
}

// Load reads configuration from .env file, environment variables, and CLI overrides.
// Priority: CLI flags > environment variables > .env file > struct defaults.
func Load(overrides Overrides) (*Config, error) {
	// Load .env file (silent if missing)
	envFile := overrides.EnvFile
	if envFile == "" {
		envFile = ".env"
	}
	if _, err := os.Stat(envFile); err == nil {
		_ = godotenv.Load(envFile)
	}

	// Parse environment variables into config struct
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	// Apply CLI overrides (non-empty values win)
	if overrides.HTTPAddr != "" {
		cfg.HTTPAddr = overrides.HTTPAddr
	}
	if overrides.VocabDir != "" {
		cfg.VocabDir = overrides.VocabDir
	}
	if overrides.LogLevel != "" {
		cfg.LogLevel = overrides.LogLevel
	}

	return cfg, nil
}
