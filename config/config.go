// Package config loads and persists docsift's YAML configuration.
package config

import (
	"errors"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ServerConfig holds HTTP API settings.
type ServerConfig struct {
	ListenAddr string `yaml:"listen_addr"`
}

// StorageConfig holds database settings.
type StorageConfig struct {
	Path     string `yaml:"path"`
	InMemory bool   `yaml:"in_memory,omitempty"`
}

// SearchConfig holds search service settings.
type SearchConfig struct {
	CacheCapacity int `yaml:"cache_capacity"`
}

// IngestConfig holds ingestion settings.
type IngestConfig struct {
	DocumentsDir string `yaml:"documents_dir"`
	PoolSize     int    `yaml:"pool_size"`
}

// AppConfig is the root application configuration structure.
type AppConfig struct {
	Server  ServerConfig  `yaml:"server"`
	Storage StorageConfig `yaml:"storage"`
	Search  SearchConfig  `yaml:"search"`
	Ingest  IngestConfig  `yaml:"ingest"`
}

// Load reads a config from a specified path. If the file does not exist, returns defaults.
func Load(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return defaultConfig(), nil
		}
		return nil, err
	}
	var cfg AppConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	applyConfigDefaults(&cfg)
	return &cfg, nil
}

// LoadDefault tries ./docsift.yaml first, then ~/.config/docsift/config.yaml.
// If neither exists, it writes defaults to ~/.config/docsift/config.yaml and returns them.
func LoadDefault() (*AppConfig, string, error) {
	cwdPath := "docsift.yaml"
	if _, err := os.Stat(cwdPath); err == nil {
		cfg, err := Load(cwdPath)
		return cfg, cwdPath, err
	}
	userPath, err := defaultUserConfigPath()
	if err != nil {
		return nil, "", err
	}
	if _, err := os.Stat(userPath); err == nil {
		cfg, err := Load(userPath)
		return cfg, userPath, err
	}
	cfg := defaultConfig()
	if err := Save(userPath, cfg); err != nil {
		return nil, "", err
	}
	return cfg, userPath, nil
}

// Save writes the config to the given path, creating directories as needed.
func Save(path string, cfg *AppConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func defaultUserConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "docsift", "config.yaml"), nil
}

func defaultDataPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "docsift.db"
	}
	return filepath.Join(home, ".local", "share", "docsift", "docsift.db")
}

func defaultConfig() *AppConfig {
	return &AppConfig{
		Server:  ServerConfig{ListenAddr: "127.0.0.1:8000"},
		Storage: StorageConfig{Path: defaultDataPath()},
		Search:  SearchConfig{CacheCapacity: 256},
		Ingest:  IngestConfig{DocumentsDir: "documents", PoolSize: 0},
	}
}

func applyConfigDefaults(cfg *AppConfig) {
	if cfg.Server.ListenAddr == "" {
		cfg.Server.ListenAddr = "127.0.0.1:8000"
	}
	if cfg.Storage.Path == "" {
		cfg.Storage.Path = defaultDataPath()
	}
	if cfg.Search.CacheCapacity == 0 {
		cfg.Search.CacheCapacity = 256
	}
	if cfg.Ingest.DocumentsDir == "" {
		cfg.Ingest.DocumentsDir = "documents"
	}
}
