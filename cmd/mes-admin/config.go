// ABOUTME: Configuration loading for the mes-admin CLI
// ABOUTME: Loads TOML config from the XDG path with environment overrides

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

type Config struct {
	Server ServerConfig `toml:"server"`
	Auth   AuthConfig   `toml:"auth"`
}

type ServerConfig struct {
	URL string `toml:"url"`
}

type AuthConfig struct {
	Token string `toml:"token"`
}

// configPath returns the CLI config file location.
// Priority: MES_ADMIN_CONFIG env var > XDG_CONFIG_HOME/mes-users/admin.toml >
// ~/.config/mes-users/admin.toml
func configPath() string {
	if envPath := os.Getenv("MES_ADMIN_CONFIG"); envPath != "" {
		return envPath
	}

	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "admin.toml" // fallback
		}
		configDir = filepath.Join(homeDir, ".config")
	}

	return filepath.Join(configDir, "mes-users", "admin.toml")
}

// loadConfig reads the config file, then applies environment overrides.
// A missing file is fine: env vars alone can configure the CLI.
func loadConfig() (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(configPath())
	if err == nil {
		if _, err := toml.Decode(string(data), cfg); err != nil {
			return nil, fmt.Errorf("parsing config: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if host := os.Getenv("MES_USERS_HOST"); host != "" {
		cfg.Server.URL = host
	}
	if token := os.Getenv("MES_USERS_TOKEN"); token != "" {
		cfg.Auth.Token = token
	}

	if cfg.Server.URL == "" {
		cfg.Server.URL = "http://localhost:8080"
	}
	cfg.Server.URL = strings.TrimSuffix(cfg.Server.URL, "/")

	return cfg, nil
}

// saveToken writes the config back with a fresh token, creating the file on
// first login.
func saveToken(cfg *Config, token string) error {
	cfg.Auth.Token = token

	path := configPath()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	defer f.Close()

	if err := toml.NewEncoder(f).Encode(cfg); err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	return nil
}
