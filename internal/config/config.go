package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/caarlos0/env/v10"
	"gopkg.in/yaml.v3"
)

// DefaultPath is used when neither --config nor CONFIG_PATH is given. A missing
// file at this path is not an error.
const DefaultPath = "config/config.yaml"

// Bank sources.
const (
	SourceEmbedded = "embedded"
	SourceFile     = "file"
	SourcePostgres = "postgres"
)

type Config struct {
	App      App      `yaml:"app"`
	Bank     Bank     `yaml:"bank"`
	Game     Game     `yaml:"game"`
	Redis    Redis    `yaml:"redis"`
	Postgres Postgres `yaml:"postgres"`
	Log      Log      `yaml:"log"`
}

type App struct {
	Env string `yaml:"env" env:"APP_ENV"`
}

// Bank selects where questions come from and how long they are cached.
type Bank struct {
	Source string `yaml:"source" env:"BANK_SOURCE"`
	Dir    string `yaml:"dir" env:"BANK_DIR"`
	Name   string `yaml:"name" env:"BANK_NAME"`
	TTL    string `yaml:"ttl" env:"BANK_TTL"`
}

// Game holds the per-round answer time in seconds.
type Game struct {
	Round1Seconds int `yaml:"round1_seconds" env:"GAME_ROUND1_SECONDS"`
	Round2Seconds int `yaml:"round2_seconds" env:"GAME_ROUND2_SECONDS"`
	Round3Seconds int `yaml:"round3_seconds" env:"GAME_ROUND3_SECONDS"`
}

type Redis struct {
	Addr     string `yaml:"addr" env:"REDIS_ADDR"`
	Password string `yaml:"password" env:"REDIS_PASSWORD"`
	DB       int    `yaml:"db" env:"REDIS_DB"`
	TTL      string `yaml:"ttl" env:"REDIS_TTL"`

	// ResultsTTL bounds how long completed game results are kept.
	ResultsTTL string `yaml:"results_ttl" env:"REDIS_RESULTS_TTL"`
}

type Postgres struct {
	URL string `yaml:"url" env:"POSTGRES_URL"`
}

type Log struct {
	Level string `yaml:"level" env:"LOG_LEVEL"`
	File  string `yaml:"file" env:"LOG_FILE"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		App:  App{Env: "development"},
		Bank: Bank{Source: SourceEmbedded, Name: "pme", TTL: "10m"},
		Game: Game{Round1Seconds: 20, Round2Seconds: 30, Round3Seconds: 90},
		Redis: Redis{
			TTL:        "10m",
			ResultsTTL: "720h",
		},
		Log: Log{Level: "info"},
	}
}

// Load reads YAML config from path over the defaults, then applies
// environment overrides.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", path, err)
		}
	case errors.Is(err, fs.ErrNotExist) && path == DefaultPath:
	default:
		return cfg, fmt.Errorf("read config: %w", err)
	}

	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks values that cannot be defaulted.
func (c Config) Validate() error {
	switch c.Bank.Source {
	case SourceEmbedded, SourceFile, SourcePostgres:
	default:
		return fmt.Errorf("bank.source %q: want %s, %s or %s", c.Bank.Source, SourceEmbedded, SourceFile, SourcePostgres)
	}
	if c.Bank.Source == SourcePostgres && c.Postgres.URL == "" {
		return errors.New("bank.source postgres requires postgres.url")
	}
	if c.Bank.Name == "" {
		return errors.New("bank.name is empty")
	}
	for i, s := range c.Game.Seconds() {
		if s <= 0 {
			return fmt.Errorf("game.round%d_seconds must be positive, got %d", i+1, s)
		}
	}
	return nil
}

// Seconds returns the per-round durations in round order.
func (g Game) Seconds() [3]int {
	return [3]int{g.Round1Seconds, g.Round2Seconds, g.Round3Seconds}
}

// TTLDuration parses a duration string or returns the fallback if empty.
func TTLDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	return fallback
}
