// Package config resolves typedex settings from environment variables with an
// optional YAML overlay.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration values.
type Config struct {
	// Filesystem
	DataDir     string // holds the bbolt store, status.json, logs and the socket
	CatalogPath string // explicit catalog file; empty means store, then embedded

	// HTTP
	HTTPAddr string

	// Logging
	LogFile  string
	LogLevel slog.Level

	// Collector
	PokeAPIURL     string
	PokeAPIRate    float64 // requests per second
	PokeAPITimeout time.Duration

	// Hot reload of CatalogPath
	Watch bool

	// ConfigFile is the YAML file that was overlaid, if any.
	ConfigFile string
}

// fileConfig mirrors Config in the YAML file. Zero values leave the
// environment-derived setting unchanged.
type fileConfig struct {
	DataDir string `yaml:"data_dir"`
	Catalog string `yaml:"catalog"`
	HTTP    struct {
		Addr string `yaml:"addr"`
	} `yaml:"http"`
	Log struct {
		File  string `yaml:"file"`
		Level string `yaml:"level"`
	} `yaml:"log"`
	PokeAPI struct {
		URL     string        `yaml:"url"`
		Rate    float64       `yaml:"rate"`
		Timeout time.Duration `yaml:"timeout"`
	} `yaml:"pokeapi"`
	Watch *bool `yaml:"watch"`
}

// Load reads configuration from environment variables, then overlays the YAML
// file named by TYPEDEX_CONFIG when set.
func Load() (Config, error) {
	home, _ := os.UserHomeDir()
	dataDir := getEnv("TYPEDEX_HOME", filepath.Join(home, ".typedex"))

	cfg := Config{
		DataDir:     dataDir,
		CatalogPath: getEnv("TYPEDEX_CATALOG", ""),

		HTTPAddr: getEnv("TYPEDEX_HTTP_ADDR", "127.0.0.1:8080"),

		LogFile:  getEnv("TYPEDEX_LOG_FILE", ""),
		LogLevel: parseLogLevel(getEnv("TYPEDEX_LOG_LEVEL", "INFO")),

		PokeAPIURL:     getEnv("TYPEDEX_POKEAPI_URL", "https://pokeapi.co/api/v2"),
		PokeAPIRate:    getEnvFloat("TYPEDEX_POKEAPI_RATE", 10),
		PokeAPITimeout: getEnvDuration("TYPEDEX_POKEAPI_TIMEOUT", 30*time.Second),

		Watch: getEnv("TYPEDEX_WATCH", "true") == "true",
	}

	if path := os.Getenv("TYPEDEX_CONFIG"); path != "" {
		if err := cfg.overlay(path); err != nil {
			return Config{}, err
		}
	}
	if cfg.LogFile == "" {
		cfg.LogFile = filepath.Join(cfg.DataDir, "log", "typedex.log")
	}

	if err := cfg.validate(); err != nil {
		return Config{}, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

// overlay reads a YAML file, expands ${VAR} references and applies every
// non-zero field.
func (c *Config) overlay(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	var fc fileConfig
	if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(raw))), &fc); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}

	if fc.DataDir != "" {
		c.DataDir = fc.DataDir
	}
	if fc.Catalog != "" {
		c.CatalogPath = fc.Catalog
	}
	if fc.HTTP.Addr != "" {
		c.HTTPAddr = fc.HTTP.Addr
	}
	if fc.Log.File != "" {
		c.LogFile = fc.Log.File
	}
	if fc.Log.Level != "" {
		c.LogLevel = parseLogLevel(fc.Log.Level)
	}
	if fc.PokeAPI.URL != "" {
		c.PokeAPIURL = fc.PokeAPI.URL
	}
	if fc.PokeAPI.Rate != 0 {
		c.PokeAPIRate = fc.PokeAPI.Rate
	}
	if fc.PokeAPI.Timeout != 0 {
		c.PokeAPITimeout = fc.PokeAPI.Timeout
	}
	if fc.Watch != nil {
		c.Watch = *fc.Watch
	}
	c.ConfigFile = path
	return nil
}

func (c *Config) validate() error {
	if c.DataDir == "" {
		return fmt.Errorf("data dir is required (set TYPEDEX_HOME)")
	}
	if c.HTTPAddr == "" {
		return fmt.Errorf("http addr is required")
	}
	if c.PokeAPIRate <= 0 {
		return fmt.Errorf("pokeapi rate must be positive, got %v", c.PokeAPIRate)
	}
	if c.PokeAPITimeout <= 0 {
		return fmt.Errorf("pokeapi timeout must be positive, got %s", c.PokeAPITimeout)
	}
	if !strings.HasPrefix(c.PokeAPIURL, "http://") && !strings.HasPrefix(c.PokeAPIURL, "https://") {
		return fmt.Errorf("pokeapi url must be http(s), got %q", c.PokeAPIURL)
	}
	return nil
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvFloat(key string, defaultVal float64) float64 {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	f, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return defaultVal
	}
	return f
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		return defaultVal
	}
	return d
}

func parseLogLevel(s string) slog.Level {
	switch strings.ToUpper(s) {
	case "DEBUG":
		return slog.LevelDebug
	case "INFO":
		return slog.LevelInfo
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
