package main

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/emstack/emsgate/api"
	"github.com/emstack/emsgate/gateway"
)

// redisConfig switches credential persistence from the local file store to
// a shared Redis when Addr is set.
type redisConfig struct {
	Addr   string `yaml:"addr"`
	Prefix string `yaml:"prefix"`
}

type cliConfig struct {
	BaseURL        string      `yaml:"base_url"`
	CredentialsDir string      `yaml:"credentials_dir"`
	Redis          redisConfig `yaml:"redis"`
	Markers        []string    `yaml:"markers"`
	RefreshProfile bool        `yaml:"refresh_profile"`
}

func defaultConfig() cliConfig {
	return cliConfig{
		BaseURL:        api.DefaultBaseURL,
		Markers:        gateway.DefaultMarkers,
		RefreshProfile: true,
	}
}

func defaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "emsadmin", "config.yaml")
}

func defaultCredentialsDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "emsadmin", "credentials")
}

// loadConfig reads path, falling back to defaults when the file is absent.
func loadConfig(path string) (cliConfig, error) {
	cfg := defaultConfig()
	if path == "" {
		path = defaultConfigPath()
	}
	if path == "" {
		applyEnv(&cfg)
		return cfg, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			applyEnv(&cfg)
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	applyEnv(&cfg)
	if cfg.BaseURL == "" {
		cfg.BaseURL = api.DefaultBaseURL
	}
	return cfg, nil
}

// applyEnv layers environment overrides on top of the file values.
func applyEnv(cfg *cliConfig) {
	if v := os.Getenv("EMSADMIN_BASE_URL"); v != "" {
		cfg.BaseURL = v
	}
	if v := os.Getenv("EMSADMIN_REDIS_ADDR"); v != "" {
		cfg.Redis.Addr = v
	}
	if v := os.Getenv("EMSADMIN_CREDENTIALS_DIR"); v != "" {
		cfg.CredentialsDir = v
	}
}

// saveConfig writes cfg to path, creating parent directories.
func saveConfig(path string, cfg cliConfig) error {
	if path == "" {
		path = defaultConfigPath()
	}
	if path == "" {
		return fmt.Errorf("save config: cannot resolve home directory")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("save config: %w", err)
	}
	raw, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := os.WriteFile(path, raw, 0o600); err != nil {
		return fmt.Errorf("save config: %w", err)
	}
	return nil
}
