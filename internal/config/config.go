package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds the application configuration loaded from files and environment variables.
type Config struct {
	AppName  string `mapstructure:"app_name"`
	Env      string `mapstructure:"app_env"`
	LogLevel string `mapstructure:"log_level"`

	APIBaseURL string `mapstructure:"api_base_url"`
	InputFile  string `mapstructure:"input_file"`
	OutputDir  string `mapstructure:"output_dir"`
	FailFile   string `mapstructure:"fail_file"`

	BatchSize                   int           `mapstructure:"batch_size"`
	MaxWorkers                  int           `mapstructure:"max_workers"`
	DelayBetweenRequestsSeconds float64       `mapstructure:"delay_between_requests"`
	DelayBetweenRequests        time.Duration `mapstructure:"-"`
	RetryTotal                  int           `mapstructure:"retry_total"`
	HTTPTimeoutSeconds          int64         `mapstructure:"http_timeout_seconds"`
	HTTPTimeout                 time.Duration `mapstructure:"-"`
	CleanWorkers                int           `mapstructure:"clean_workers"`

	StorageType            string        `mapstructure:"storage_type"`
	BBoltPath              string        `mapstructure:"bbolt_path"`
	StorageTTLSeconds      int64         `mapstructure:"storage_ttl_seconds"`
	StorageCleanupSeconds  int64         `mapstructure:"storage_cleanup_interval_seconds"`
	StorageTTL             time.Duration `mapstructure:"-"`
	StorageCleanupInterval time.Duration `mapstructure:"-"`

	NotifiersFile string `mapstructure:"notifiers_file"`
}

// Load reads configuration from environment variables and config files.
func Load() (*Config, error) {
	_ = godotenv.Load("configs/.env")

	v := viper.New()

	v.SetDefault("app_name", "catalog-harvester")
	v.SetDefault("app_env", "development")
	v.SetDefault("log_level", "info")
	v.SetDefault("api_base_url", "https://api.tiki.vn/product-detail/api/v1")
	v.SetDefault("input_file", "product_ids.csv")
	v.SetDefault("output_dir", "output_products")
	v.SetDefault("fail_file", "fail_ids.txt")
	v.SetDefault("batch_size", 1000)
	v.SetDefault("max_workers", 10)
	v.SetDefault("delay_between_requests", 0.1) // seconds
	v.SetDefault("retry_total", 3)
	v.SetDefault("http_timeout_seconds", 10)
	v.SetDefault("clean_workers", 5)
	v.SetDefault("storage_type", "bbolt")
	v.SetDefault("bbolt_path", "./data/resolved.db")
	v.SetDefault("storage_ttl_seconds", int64((30*24*time.Hour)/time.Second))
	v.SetDefault("storage_cleanup_interval_seconds", int64((12*time.Hour)/time.Second))
	v.SetDefault("notifiers_file", "./configs/notifiers.yaml")

	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.APIBaseURL == "" {
		return nil, fmt.Errorf("api_base_url must not be empty")
	}
	if cfg.BatchSize <= 0 {
		return nil, fmt.Errorf("invalid batch_size (must be positive)")
	}
	if cfg.MaxWorkers <= 0 {
		return nil, fmt.Errorf("invalid max_workers (must be positive)")
	}
	if cfg.DelayBetweenRequestsSeconds < 0 {
		return nil, fmt.Errorf("invalid delay_between_requests (must not be negative)")
	}
	if cfg.RetryTotal < 0 {
		return nil, fmt.Errorf("invalid retry_total (must not be negative)")
	}
	if cfg.HTTPTimeoutSeconds <= 0 {
		return nil, fmt.Errorf("invalid http_timeout_seconds (must be positive seconds)")
	}
	if cfg.CleanWorkers <= 0 {
		return nil, fmt.Errorf("invalid clean_workers (must be positive)")
	}
	if cfg.StorageTTLSeconds <= 0 {
		return nil, fmt.Errorf("invalid storage_ttl_seconds (must be positive seconds)")
	}
	if cfg.StorageCleanupSeconds <= 0 {
		return nil, fmt.Errorf("invalid storage_cleanup_interval_seconds (must be positive seconds)")
	}

	cfg.DelayBetweenRequests = time.Duration(cfg.DelayBetweenRequestsSeconds * float64(time.Second))
	cfg.HTTPTimeout = time.Duration(cfg.HTTPTimeoutSeconds) * time.Second
	cfg.StorageTTL = time.Duration(cfg.StorageTTLSeconds) * time.Second
	cfg.StorageCleanupInterval = time.Duration(cfg.StorageCleanupSeconds) * time.Second

	return &cfg, nil
}
