package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.BatchSize != 1000 {
		t.Fatalf("BatchSize = %d", cfg.BatchSize)
	}
	if cfg.MaxWorkers != 10 {
		t.Fatalf("MaxWorkers = %d", cfg.MaxWorkers)
	}
	if cfg.RetryTotal != 3 {
		t.Fatalf("RetryTotal = %d", cfg.RetryTotal)
	}
	if cfg.DelayBetweenRequests != 100*time.Millisecond {
		t.Fatalf("DelayBetweenRequests = %v", cfg.DelayBetweenRequests)
	}
	if cfg.OutputDir != "output_products" {
		t.Fatalf("OutputDir = %q", cfg.OutputDir)
	}
	if cfg.FailFile != "fail_ids.txt" {
		t.Fatalf("FailFile = %q", cfg.FailFile)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("BATCH_SIZE", "50")
	t.Setenv("MAX_WORKERS", "3")
	t.Setenv("DELAY_BETWEEN_REQUESTS", "0.5")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.BatchSize != 50 {
		t.Fatalf("BatchSize = %d", cfg.BatchSize)
	}
	if cfg.MaxWorkers != 3 {
		t.Fatalf("MaxWorkers = %d", cfg.MaxWorkers)
	}
	if cfg.DelayBetweenRequests != 500*time.Millisecond {
		t.Fatalf("DelayBetweenRequests = %v", cfg.DelayBetweenRequests)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	cases := map[string]string{
		"BATCH_SIZE":             "0",
		"MAX_WORKERS":            "-1",
		"RETRY_TOTAL":            "-2",
		"DELAY_BETWEEN_REQUESTS": "-0.1",
	}
	for key, val := range cases {
		t.Run(key, func(t *testing.T) {
			t.Setenv(key, val)
			if _, err := Load(); err == nil {
				t.Fatalf("expected error for %s=%s", key, val)
			}
		})
	}
}
