package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/chyiyaqing/diszeroer/internal/jianshu"
)

type Config struct {
	Server      ServerConfig  `yaml:"server"`
	Footer      string        `yaml:"service_pages_footer"`
	Jianshu     JianshuConfig `yaml:"jianshu"`
	Collections []Collection  `yaml:"collections"`
	Log         LogConfig     `yaml:"log"`
}

type ServerConfig struct {
	Addr string `yaml:"addr"`
}

type JianshuConfig struct {
	BaseURL            string        `yaml:"base_url"`
	UserAgent          string        `yaml:"user_agent"`
	Timeout            time.Duration `yaml:"timeout"`
	PagesPerCollection int           `yaml:"pages_per_collection"`
	PageSize           int           `yaml:"page_size"`
	RequestsPerSecond  float64       `yaml:"requests_per_second"`
	Burst              int           `yaml:"burst"`
}

// Collection is a selectable Jianshu collection, shown to users by Name.
type Collection struct {
	Name string `yaml:"name"`
	URL  string `yaml:"url"`
}

type LogConfig struct {
	Level      string `yaml:"level"`
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
}

// DefaultCollections are the collections offered when the config file lists none.
var DefaultCollections = []Collection{
	{Name: "简友广场", URL: "https://www.jianshu.com/c/7ecac177f5a8"},
	{Name: "人物", URL: "https://www.jianshu.com/c/avQwgf"},
	{Name: "想法", URL: "https://www.jianshu.com/c/qQB2Zn"},
}

func Default() *Config {
	return &Config{
		Server: ServerConfig{Addr: ":8080"},
		Jianshu: JianshuConfig{
			BaseURL:            jianshu.DefaultBaseURL,
			UserAgent:          jianshu.DefaultUserAgent,
			Timeout:            15 * time.Second,
			PagesPerCollection: 4,
			PageSize:           10,
			RequestsPerSecond:  5,
			Burst:              1,
		},
		Log: LogConfig{
			Level:      "info",
			MaxSizeMB:  50,
			MaxBackups: 3,
			MaxAgeDays: 28,
		},
	}
}

func Load(path string) (*Config, error) {
	loadEnvFile(".env")

	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	case os.IsNotExist(err):
	default:
		return nil, err
	}

	applyEnv(cfg)
	if len(cfg.Collections) == 0 {
		cfg.Collections = append([]Collection(nil), DefaultCollections...)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports the first setting that would make lookups impossible.
func (c *Config) Validate() error {
	if c.Jianshu.PagesPerCollection <= 0 {
		return fmt.Errorf("jianshu.pages_per_collection must be positive, got %d", c.Jianshu.PagesPerCollection)
	}
	if c.Jianshu.PageSize <= 0 {
		return fmt.Errorf("jianshu.page_size must be positive, got %d", c.Jianshu.PageSize)
	}
	if c.Jianshu.RequestsPerSecond <= 0 {
		return fmt.Errorf("jianshu.requests_per_second must be positive, got %v", c.Jianshu.RequestsPerSecond)
	}
	seen := make(map[string]bool, len(c.Collections))
	for _, col := range c.Collections {
		if col.Name == "" {
			return fmt.Errorf("collection %q has no name", col.URL)
		}
		if seen[col.Name] {
			return fmt.Errorf("duplicate collection name %q", col.Name)
		}
		seen[col.Name] = true
		if _, err := jianshu.CollectionSlug(col.URL); err != nil {
			return fmt.Errorf("collection %q: %w", col.Name, err)
		}
	}
	return nil
}

// applyEnv overrides config fields with environment variables when set.
func applyEnv(cfg *Config) {
	if v := os.Getenv("DISZEROER_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv("DISZEROER_FOOTER"); v != "" {
		cfg.Footer = v
	}
	if v := os.Getenv("JIANSHU_BASE_URL"); v != "" {
		cfg.Jianshu.BaseURL = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("LOG_FILE"); v != "" {
		cfg.Log.File = v
	}
}

// loadEnvFile reads a .env file and sets environment variables
// that are not already set in the process environment.
func loadEnvFile(path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		return
	}
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, val, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		val = strings.Trim(strings.TrimSpace(val), `"'`)
		if os.Getenv(key) == "" {
			os.Setenv(key, val)
		}
	}
}
