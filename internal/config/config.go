package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config defines application configuration.
type Config struct {
	DB         DBConfig         `yaml:"db"`
	Log        LogConfig        `yaml:"log"`
	EnvFile    string           `yaml:"env_file"`
	Similarity SimilarityConfig `yaml:"similarity"`
	Completion CompletionConfig `yaml:"completion"`
	Contacts   ContactsConfig   `yaml:"contacts"`
	Scraper    ScraperConfig    `yaml:"scraper"`
	HTTP       HTTPConfig       `yaml:"http"`
	Server     ServerConfig     `yaml:"server"`
	Transport  TransportConfig  `yaml:"transport"`
}

type DBConfig struct {
	Path string `yaml:"path"`
}

type LogConfig struct {
	Level       string `yaml:"level"`
	Path        string `yaml:"path"`
	Development bool   `yaml:"development"`
}

type SimilarityConfig struct {
	BaseURL string `yaml:"base_url"`
}

type CompletionConfig struct {
	BaseURL string `yaml:"base_url"`
	Model   string `yaml:"model"`
}

type ContactsConfig struct {
	BaseURL string `yaml:"base_url"`
}

type ScraperConfig struct {
	UserAgent      string `yaml:"user_agent"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// Timeout returns the per-page scrape timeout.
func (c ScraperConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

type HTTPConfig struct {
	TimeoutSeconds int `yaml:"timeout_seconds"`
}

// Timeout returns the outbound API request timeout.
func (c HTTPConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

type TransportConfig struct {
	Mode string `yaml:"mode"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		DB: DBConfig{
			Path: "leads.db",
		},
		Log: LogConfig{
			Level: "info",
			Path:  "lead_agent.log",
		},
		EnvFile: ".env",
		Completion: CompletionConfig{
			Model: "llama3-8b-8192",
		},
		Scraper: ScraperConfig{
			UserAgent:      "leadagent/1.0",
			TimeoutSeconds: 30,
		},
		HTTP: HTTPConfig{
			TimeoutSeconds: 60,
		},
		Server: ServerConfig{
			Host: "127.0.0.1",
			Port: 8080,
		},
		Transport: TransportConfig{
			Mode: "stdio",
		},
	}
}

// Load reads configuration from an optional YAML file and environment variables.
func Load() (Config, error) {
	cfg := Default()

	if path := os.Getenv("LEADAGENT_CONFIG_PATH"); path != "" {
		if err := loadFromFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) error {
	strs := map[string]*string{
		"LEADAGENT_DB_PATH":             &cfg.DB.Path,
		"LEADAGENT_LOG_LEVEL":           &cfg.Log.Level,
		"LEADAGENT_LOG_PATH":            &cfg.Log.Path,
		"LEADAGENT_ENV_FILE":            &cfg.EnvFile,
		"LEADAGENT_SIMILARITY_BASE_URL": &cfg.Similarity.BaseURL,
		"LEADAGENT_COMPLETION_BASE_URL": &cfg.Completion.BaseURL,
		"LEADAGENT_COMPLETION_MODEL":    &cfg.Completion.Model,
		"LEADAGENT_CONTACTS_BASE_URL":   &cfg.Contacts.BaseURL,
		"LEADAGENT_SCRAPER_USER_AGENT":  &cfg.Scraper.UserAgent,
		"LEADAGENT_SERVER_HOST":         &cfg.Server.Host,
		"LEADAGENT_TRANSPORT_MODE":      &cfg.Transport.Mode,
	}
	for key, dst := range strs {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}

	ints := map[string]*int{
		"LEADAGENT_SCRAPER_TIMEOUT_SECONDS": &cfg.Scraper.TimeoutSeconds,
		"LEADAGENT_HTTP_TIMEOUT_SECONDS":    &cfg.HTTP.TimeoutSeconds,
		"LEADAGENT_SERVER_PORT":             &cfg.Server.Port,
	}
	for key, dst := range ints {
		if v := os.Getenv(key); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("invalid %s: %w", key, err)
			}
			*dst = n
		}
	}

	if v := os.Getenv("LEADAGENT_LOG_DEVELOPMENT"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid LEADAGENT_LOG_DEVELOPMENT: %w", err)
		}
		cfg.Log.Development = b
	}
	return nil
}

func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

// Validate enforces required values and reasonable limits.
func (c Config) Validate() error {
	if strings.TrimSpace(c.DB.Path) == "" {
		return fmt.Errorf("db.path must be set")
	}
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level must be one of debug, info, warn, error")
	}
	if c.Scraper.TimeoutSeconds <= 0 {
		return fmt.Errorf("scraper.timeout_seconds must be > 0")
	}
	if c.HTTP.TimeoutSeconds <= 0 {
		return fmt.Errorf("http.timeout_seconds must be > 0")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535")
	}
	switch c.Transport.Mode {
	case "stdio", "http":
	default:
		return fmt.Errorf("transport.mode must be stdio or http")
	}
	return nil
}
