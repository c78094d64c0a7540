package config

import (
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/san-kum/lifecal/internal/storage"
	"github.com/san-kum/lifecal/internal/timeline"
	"gopkg.in/yaml.v3"
)

const (
	DefaultDataDir = ".lifecal"
	DefaultStore   = storage.BackendFile
	DefaultScale   = "w"
	DefaultTheme   = "classic"
	DefaultAddr    = "127.0.0.1:8080"
	EnvPrefix      = "LIFECAL_"
)

type Config struct {
	DataDir string `yaml:"data_dir" env:"DATA_DIR"`
	Store   string `yaml:"store" env:"STORE"`
	Scale   string `yaml:"scale" env:"SCALE"`
	Theme   string `yaml:"theme" env:"THEME"`
	// Seed drives the lifespan draw; 0 seeds from the clock.
	Seed    uint64 `yaml:"seed" env:"SEED"`
	Addr    string `yaml:"addr" env:"ADDR"`
	Verbose bool   `yaml:"verbose" env:"VERBOSE"`
}

func DefaultConfig() *Config {
	return &Config{
		DataDir: DefaultDataDir,
		Store:   DefaultStore,
		Scale:   DefaultScale,
		Theme:   DefaultTheme,
		Addr:    DefaultAddr,
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ApplyEnv overlays LIFECAL_* environment variables onto c.
func (c *Config) ApplyEnv() error {
	if err := env.ParseWithOptions(c, env.Options{Prefix: EnvPrefix}); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Resolve loads path (or the defaults when path is empty) and applies the
// environment on top.
func Resolve(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path != "" {
		loaded, err := Load(path)
		if err != nil {
			return nil, fmt.Errorf("load config %s: %w", path, err)
		}
		cfg = loaded
	}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	return cfg, cfg.Validate()
}

func (c *Config) GetScale() (timeline.Scale, error) {
	return timeline.ParseScale(c.Scale)
}

func (c *Config) Validate() error {
	if _, err := c.GetScale(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	switch c.Store {
	case storage.BackendMemory, storage.BackendFile, storage.BackendSQLite:
	default:
		return fmt.Errorf("config: %w: %s", storage.ErrUnknownBackend, c.Store)
	}
	if c.DataDir == "" {
		return fmt.Errorf("config: empty data_dir")
	}
	return nil
}

// WriteDefault saves DefaultConfig to path, refusing to replace an existing
// file unless overwrite is set.
func WriteDefault(path string, overwrite bool) error {
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config %s already exists", path)
		}
	}
	return Save(path, DefaultConfig())
}
