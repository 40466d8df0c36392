package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

var (
	errInvalidPort        = errors.New("config: invalid PORT number")
	errWorkersOutOfRange  = errors.New("config: CRAWL_WORKERS must be 1-50")
	errMaxPagesOutOfRange = errors.New("config: CRAWL_MAX_PAGES must be 1-100")
)

// Config holds all application configuration. It is built once at startup
// (defaults ← optional YAML file ← environment overrides) and passed into the
// components that need it; nothing mutates it afterwards.
type Config struct {
	Port     string `yaml:"port"`
	LogLevel string `yaml:"log_level"`
	DBPath   string `yaml:"db_path"`

	Crawl CrawlConfig `yaml:"crawl"`
	LLM   LLMConfig   `yaml:"llm"`

	// AuditWorkers is the number of background workers draining the audit
	// job queue.
	AuditWorkers int `yaml:"audit_workers"`
}

// CrawlConfig controls the crawler and fetcher.
type CrawlConfig struct {
	Workers      int           `yaml:"workers"`
	MaxPages     int           `yaml:"max_pages"`
	FetchTimeout time.Duration `yaml:"fetch_timeout"`

	// RequestsPerSecond paces fetches against the target site.
	RequestsPerSecond float64 `yaml:"requests_per_second"`

	// MaxBodyBytes caps a fetched response body.
	MaxBodyBytes int64 `yaml:"max_body_bytes"`

	UserAgent string `yaml:"user_agent"`
}

// LLMConfig controls the chat-completions collaborator.
type LLMConfig struct {
	Provider    string        `yaml:"provider"`
	BaseURL     string        `yaml:"base_url"`
	Model       string        `yaml:"model"`
	APIKey      string        `yaml:"-"`
	Timeout     time.Duration `yaml:"timeout"`
	MaxRetries  int           `yaml:"max_retries"`
	Temperature float64       `yaml:"temperature"`
}

func defaults() Config {
	return Config{
		Port:         "8080",
		LogLevel:     "INFO",
		DBPath:       "auditor.db",
		AuditWorkers: 4,
		Crawl: CrawlConfig{
			Workers:           5,
			MaxPages:          20,
			FetchTimeout:      30 * time.Second,
			RequestsPerSecond: 2,
			MaxBodyBytes:      10 << 20,
			UserAgent:         "MJSEOAuditBot/1.0",
		},
		LLM: LLMConfig{
			Provider:    "groq",
			BaseURL:     "https://api.groq.com/openai/v1",
			Model:       "llama-3.3-70b-versatile",
			Timeout:     60 * time.Second,
			MaxRetries:  3,
			Temperature: 0.7,
		},
	}
}

// Load reads configuration: built-in defaults, then the YAML file named by
// CONFIG_FILE (if set), then environment variable overrides.
func Load() (Config, error) {
	cfg := defaults()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("config: read %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}

	cfg.Port = getEnv("PORT", cfg.Port)
	cfg.LogLevel = getEnv("LOG_LEVEL", cfg.LogLevel)
	cfg.DBPath = getEnv("DB_PATH", cfg.DBPath)
	cfg.AuditWorkers = getEnvAsInt("AUDIT_WORKERS", cfg.AuditWorkers)
	cfg.Crawl.Workers = getEnvAsInt("CRAWL_WORKERS", cfg.Crawl.Workers)
	cfg.Crawl.MaxPages = getEnvAsInt("CRAWL_MAX_PAGES", cfg.Crawl.MaxPages)
	cfg.LLM.APIKey = getEnv("LLM_API_KEY", cfg.LLM.APIKey)
	cfg.LLM.BaseURL = getEnv("LLM_BASE_URL", cfg.LLM.BaseURL)
	cfg.LLM.Model = getEnv("LLM_MODEL", cfg.LLM.Model)

	return cfg, cfg.validate()
}

func (c Config) validate() error {
	port, err := strconv.Atoi(c.Port)
	if err != nil || port < 1 || port > 65535 {
		return fmt.Errorf("%w: %q", errInvalidPort, c.Port)
	}
	if c.Crawl.Workers < 1 || c.Crawl.Workers > 50 {
		return fmt.Errorf("%w: got %d", errWorkersOutOfRange, c.Crawl.Workers)
	}
	if c.Crawl.MaxPages < 1 || c.Crawl.MaxPages > 100 {
		return fmt.Errorf("%w: got %d", errMaxPagesOutOfRange, c.Crawl.MaxPages)
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	s := os.Getenv(key)
	if s == "" {
		return fallback
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return fallback
	}
	return v
}
