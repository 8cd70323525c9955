package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type RuntimeConfig struct {
	Dev bool
}

type BotConfig struct {
	Token         string `yaml:"token"`
	AdminUsername string `yaml:"admin_username"`
	Workers       int    `yaml:"workers"` // polling workers
}

type LogConfig struct {
	Level  string `yaml:"level"`  // trace|debug|info|warn|error
	Format string `yaml:"format"` // json|console
}

type DatabaseConfig struct {
	Dir  string `yaml:"dir"`  // data directory, created if missing
	File string `yaml:"file"` // sqlite file name inside dir
}

// Path returns the full sqlite file path.
func (d DatabaseConfig) Path() string {
	return filepath.Join(d.Dir, d.File)
}

type TrackingConfig struct {
	BaseURL string        `yaml:"base_url"`
	Token   string        `yaml:"token"`
	Timeout time.Duration `yaml:"timeout"`
}

type ShortenerConfig struct {
	Enabled bool     `yaml:"enabled"`
	Order   []string `yaml:"order"` // cleanuri|isgd|tinyurl
}

type HealthConfig struct {
	Port int `yaml:"port"`
}

type Config struct {
	Bot       BotConfig       `yaml:"bot"`
	Log       LogConfig       `yaml:"log"`
	Database  DatabaseConfig  `yaml:"database"`
	Tracking  TrackingConfig  `yaml:"tracking"`
	Shortener ShortenerConfig `yaml:"shortener"`
	Health    HealthConfig    `yaml:"health"`

	Runtime RuntimeConfig `yaml:"-"`
}

// Load reads the YAML file, then applies .env / environment overrides so the
// hosting platform can inject secrets without touching the config file.
func Load(path string, dev bool) (*Config, error) {
	// .env is optional; missing file is not an error.
	_ = godotenv.Load()

	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	applyEnv(&cfg)
	applyDefaults(&cfg)

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	cfg.Runtime.Dev = dev
	return &cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("BOT_TOKEN"); v != "" {
		cfg.Bot.Token = v
	}
	if v := os.Getenv("ADMIN_USERNAME"); v != "" {
		cfg.Bot.AdminUsername = v
	}
	if v := os.Getenv("API_BASE"); v != "" {
		cfg.Tracking.BaseURL = v
	}
	if v := os.Getenv("API_TOKEN"); v != "" {
		cfg.Tracking.Token = v
	}
	if v := os.Getenv("DATA_DIR"); v != "" {
		cfg.Database.Dir = v
	}
}

func applyDefaults(cfg *Config) {
	if cfg.Bot.Workers <= 0 {
		cfg.Bot.Workers = 8
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "json"
	}
	if cfg.Database.Dir == "" {
		cfg.Database.Dir = "."
	}
	if cfg.Database.File == "" {
		cfg.Database.File = "bot_state.sqlite"
	}
	if cfg.Tracking.Timeout <= 0 {
		cfg.Tracking.Timeout = 15 * time.Second
	}
	if len(cfg.Shortener.Order) == 0 {
		cfg.Shortener.Order = []string{"cleanuri", "isgd", "tinyurl"}
	}
	if cfg.Health.Port == 0 {
		cfg.Health.Port = 3000
	}
	// Stored handles may carry a leading @; the admin check compares bare names.
	cfg.Bot.AdminUsername = strings.TrimPrefix(cfg.Bot.AdminUsername, "@")
}

func (cfg *Config) validate() error {
	if cfg.Bot.Token == "" {
		return errors.New("bot.token is required")
	}
	if cfg.Bot.AdminUsername == "" {
		return errors.New("bot.admin_username is required")
	}
	if cfg.Tracking.BaseURL == "" {
		return errors.New("tracking.base_url is required")
	}
	if cfg.Tracking.Token == "" {
		return errors.New("tracking.token is required")
	}
	return nil
}
