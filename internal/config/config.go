package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Server struct {
	Port              string `yaml:"port"`
	RequestTimeoutSec int    `yaml:"request_timeout_sec"`
}

type AlphaVantage struct {
	APIKey               string `yaml:"api_key"`
	BaseURL              string `yaml:"base_url"`
	MaxRequestsPerMinute int    `yaml:"max_requests_per_minute"`
	Burst                int    `yaml:"burst"`
}

type NewsData struct {
	APIKey               string `yaml:"api_key"`
	BaseURL              string `yaml:"base_url"`
	MaxRequestsPerMinute int    `yaml:"max_requests_per_minute"`
	Burst                int    `yaml:"burst"`
	// MockFallback serves a placeholder summary when the provider fails.
	MockFallback bool `yaml:"mock_fallback"`
}

type Storage struct {
	// SQLitePath is the database file; empty keeps nothing across restarts.
	SQLitePath string `yaml:"sqlite_path"`
}

type Scheduler struct {
	Cron       string   `yaml:"cron"`
	RunOnStart bool     `yaml:"run_on_start"`
	Symbols    []string `yaml:"symbols"`
	Queries    []string `yaml:"queries"`
}

type Log struct {
	Level         string `yaml:"level"`
	Format        string `yaml:"format"`
	FilePath      string `yaml:"file_path"`
	RotationSize  int    `yaml:"rotation_size_mb"`
	RetentionDays int    `yaml:"retention_days"`
}

type Config struct {
	Server       Server       `yaml:"server"`
	AlphaVantage AlphaVantage `yaml:"alpha_vantage"`
	NewsData     NewsData     `yaml:"news"`
	Storage      Storage      `yaml:"storage"`
	Scheduler    Scheduler    `yaml:"scheduler"`
	Log          Log          `yaml:"log"`
}

func Default() Config {
	return Config{
		Server: Server{Port: "8080", RequestTimeoutSec: 10},
		AlphaVantage: AlphaVantage{
			BaseURL:              "https://www.alphavantage.co/query",
			MaxRequestsPerMinute: 5,
			Burst:                1,
		},
		NewsData: NewsData{
			BaseURL:              "https://newsdata.io/api/1/news",
			MaxRequestsPerMinute: 30,
			Burst:                1,
			MockFallback:         true,
		},
		Storage: Storage{SQLitePath: "bubbledash.db"},
		Scheduler: Scheduler{
			Cron:    "*/30 * * * *",
			Symbols: []string{"NVDA", "MSFT", "AMD", "SOXL"},
			Queries: []string{"NVIDIA stock", "AI bubble"},
		},
		Log: Log{Level: "info", Format: "json", RotationSize: 50, RetentionDays: 14},
	}
}

// Load reads YAML config from path. If path is empty, config.yaml is used
// when present; a missing file yields defaults. A .env file in the working
// directory is loaded first, then environment variables override fields.
func Load(path string) (Config, error) {
	cfg := Default()
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return cfg, fmt.Errorf("load .env: %w", err)
	}
	if path == "" {
		if _, err := os.Stat("config.yaml"); err == nil {
			path = "config.yaml"
		}
	}
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return cfg, fmt.Errorf("read config: %w", err)
		}
		if err == nil {
			if err := yaml.Unmarshal(b, &cfg); err != nil {
				return cfg, fmt.Errorf("parse config: %w", err)
			}
		}
	}
	applyEnv(&cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("PORT"); v != "" {
		cfg.Server.Port = v
	}
	if x, ok := envInt("REQUEST_TIMEOUT_SEC"); ok && x > 0 {
		cfg.Server.RequestTimeoutSec = x
	}

	if v := os.Getenv("ALPHA_VANTAGE_API_KEY"); v != "" {
		cfg.AlphaVantage.APIKey = v
	}
	if v := os.Getenv("ALPHA_VANTAGE_BASE_URL"); v != "" {
		cfg.AlphaVantage.BaseURL = v
	}
	if x, ok := envInt("ALPHA_VANTAGE_MAX_RPM"); ok && x >= 0 {
		cfg.AlphaVantage.MaxRequestsPerMinute = x
	}

	if v := os.Getenv("NEWSDATA_API_KEY"); v != "" {
		cfg.NewsData.APIKey = v
	}
	if v := os.Getenv("NEWSDATA_BASE_URL"); v != "" {
		cfg.NewsData.BaseURL = v
	}
	if x, ok := envInt("NEWSDATA_MAX_RPM"); ok && x >= 0 {
		cfg.NewsData.MaxRequestsPerMinute = x
	}
	if b, ok := envBool("NEWS_MOCK_FALLBACK"); ok {
		cfg.NewsData.MockFallback = b
	}

	if v, ok := os.LookupEnv("SQLITE_PATH"); ok {
		cfg.Storage.SQLitePath = v
	}

	if v, ok := os.LookupEnv("REFRESH_CRON"); ok {
		cfg.Scheduler.Cron = v
	}
	if v, ok := os.LookupEnv("WATCHLIST_SYMBOLS"); ok {
		cfg.Scheduler.Symbols = splitCSV(v)
	}
	if v, ok := os.LookupEnv("WATCHLIST_QUERIES"); ok {
		cfg.Scheduler.Queries = splitCSV(v)
	}
	if b, ok := envBool("RUN_ON_START"); ok {
		cfg.Scheduler.RunOnStart = b
	}

	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}
	if v, ok := os.LookupEnv("LOG_FILE_PATH"); ok {
		cfg.Log.FilePath = v
	}
}

func envInt(name string) (int, bool) {
	v := os.Getenv(name)
	if v == "" {
		return 0, false
	}
	var x int
	if _, err := fmt.Sscanf(v, "%d", &x); err != nil {
		return 0, false
	}
	return x, true
}

func envBool(name string) (bool, bool) {
	switch strings.ToLower(os.Getenv(name)) {
	case "1", "true", "yes", "y":
		return true, true
	case "0", "false", "no", "n":
		return false, true
	}
	return false, false
}

func splitCSV(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
