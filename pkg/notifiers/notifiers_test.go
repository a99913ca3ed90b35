package notifiers

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadRegistryEnabledFilter(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "notifiers.yaml")
	raw := `
notifiers:
  - id: http1
    type: http
    enabled: false
    http:
      url: https://example.com
  - id: http2
    type: http
    enabled: true
    http:
      url: https://example.com/2
`
	if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	reg, err := LoadRegistry(path)
	if err != nil {
		t.Fatalf("LoadRegistry: %v", err)
	}
	enabled := reg.Enabled()
	if len(enabled) != 1 || enabled[0].ID != "http2" {
		t.Fatalf("expected only http2 enabled, got %#v", enabled)
	}
}

func TestLoadRegistryJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "notifiers.json")
	raw := `{"notifiers":[{"id":"q1","type":"sqs","sqs":{"uri":"https://sqs.example.com/q","region":"ap-southeast-1"}}]}`
	if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	reg, err := LoadRegistry(path)
	if err != nil {
		t.Fatalf("LoadRegistry: %v", err)
	}
	cfg, ok := reg.ByID("q1")
	if !ok {
		t.Fatalf("q1 missing from registry")
	}
	if cfg.SQS == nil || cfg.SQS.QueueURL != "https://sqs.example.com/q" {
		t.Fatalf("sqs config not decoded: %#v", cfg.SQS)
	}
}

func TestLoadRegistryRejectsDuplicateIDs(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "notifiers.yaml")
	raw := `
notifiers:
  - id: same
    type: log
  - id: same
    type: log
`
	if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}
	if _, err := LoadRegistry(path); err == nil {
		t.Fatalf("expected duplicate id error")
	}
}

func TestValidateNotifierConfigRejectsMissingHTTP(t *testing.T) {
	err := validateNotifierConfig(NotifierConfig{
		ID:   "h1",
		Type: TypeHTTP,
	})
	if err == nil {
		t.Fatalf("expected validation error for missing http block")
	}
}

func TestValidateNotifierConfigRejectsIncompleteSNS(t *testing.T) {
	err := validateNotifierConfig(NotifierConfig{
		ID:   "s1",
		Type: TypeSNS,
		SNS:  &SNSTopicConfig{TopicARN: "arn:aws:sns:ap-southeast-1:1:t"},
	})
	if err == nil {
		t.Fatalf("expected validation error for missing sns region")
	}
}

func TestSanitizeNotifierConfigDefaults(t *testing.T) {
	cfg := sanitizeNotifierConfig(NotifierConfig{
		ID:   "  hook  ",
		Type: " HTTP ",
		HTTP: &HTTPNotifierConfig{URL: " https://example.com "},
	})
	if cfg.ID != "hook" || cfg.Type != "http" {
		t.Fatalf("id/type not normalized: %q %q", cfg.ID, cfg.Type)
	}
	if cfg.HTTP.Method != "POST" {
		t.Fatalf("method default = %q", cfg.HTTP.Method)
	}
	if cfg.HTTP.TimeoutSeconds != httpDefaultTimeoutSeconds {
		t.Fatalf("timeout default = %d", cfg.HTTP.TimeoutSeconds)
	}
	if !cfg.EnabledValue() {
		t.Fatalf("enabled should default to true")
	}
}
