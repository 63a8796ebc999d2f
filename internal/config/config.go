package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Environment overrides, applied after the config file.
const (
	EnvDB    = "HALFLIFE_DB"
	EnvDecks = "HALFLIFE_DECKS"
	EnvLog   = "HALFLIFE_LOG"
)

// Config holds all halflife configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Decks    DecksConfig    `yaml:"decks"`
	Priors   PriorsConfig   `yaml:"priors"`
	Session  SessionConfig  `yaml:"session"`
	Log      LogConfig      `yaml:"log"`
}

type ServerConfig struct {
	Bind string `yaml:"bind"`
	Port int    `yaml:"port"`
}

type DatabaseConfig struct {
	Path string `yaml:"path"` // empty: ~/.halflife/halflife.db
}

type DecksConfig struct {
	Dir     string `yaml:"dir"`
	Reverse bool   `yaml:"reverse"`
}

// Prior is the initial belief assigned when a fact is first learned.
type Prior struct {
	Alpha    float64       `yaml:"alpha"`
	Beta     float64       `yaml:"beta"`
	HalfLife time.Duration `yaml:"half_life"`
}

// PriorsConfig maps learn ratings to priors.
type PriorsConfig struct {
	Easy   Prior `yaml:"easy"`
	Medium Prior `yaml:"medium"`
	Hard   Prior `yaml:"hard"`
}

type SessionConfig struct {
	Size int `yaml:"size"` // facts per learn or drill session
}

type LogConfig struct {
	Level string `yaml:"level"` // logrus level name
	JSON  bool   `yaml:"json"`
}

// Default returns a Config with sensible defaults.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Bind: "127.0.0.1",
			Port: 37780,
		},
		Decks: DecksConfig{
			Dir: ".",
		},
		Priors: PriorsConfig{
			Easy:   Prior{Alpha: 1, Beta: 1, HalfLife: 48 * time.Hour},
			Medium: Prior{Alpha: 1, Beta: 1, HalfLife: time.Hour},
			Hard:   Prior{Alpha: 1, Beta: 1, HalfLife: time.Minute},
		},
		Session: SessionConfig{
			Size: 6,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// DefaultPath returns the default config file path: ~/.halflife/config.yaml
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home dir: %w", err)
	}
	return filepath.Join(home, ".halflife", "config.yaml"), nil
}

// Load reads the YAML file at path over the defaults and applies
// environment overrides. An empty path skips the file; a missing file at
// the default location is not an error.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err == nil {
			path = p
		}
	}
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return Config{}, fmt.Errorf("parse config %s: %w", path, err)
			}
		case errors.Is(err, os.ErrNotExist) && !explicit:
		default:
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv(EnvDB); v != "" {
		c.Database.Path = v
	}
	if v := os.Getenv(EnvDecks); v != "" {
		c.Decks.Dir = v
	}
	if v := os.Getenv(EnvLog); v != "" {
		c.Log.Level = v
	}
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d out of range", c.Server.Port)
	}
	if c.Session.Size <= 0 {
		return fmt.Errorf("session.size must be positive, got %d", c.Session.Size)
	}
	for name, p := range map[string]Prior{"easy": c.Priors.Easy, "medium": c.Priors.Medium, "hard": c.Priors.Hard} {
		if p.Alpha <= 0 || p.Beta <= 0 || p.HalfLife <= 0 {
			return fmt.Errorf("priors.%s must have positive alpha, beta and half_life", name)
		}
	}
	return nil
}

// ListenAddr returns the bind:port address string.
func (c *Config) ListenAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.Bind, c.Server.Port)
}
