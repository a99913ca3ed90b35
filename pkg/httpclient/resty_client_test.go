package httpclient

import (
	"testing"
	"time"
)

func TestNewRestyClientAppliesOptions(t *testing.T) {
	client := NewRestyClient(Options{
		Timeout:    time.Second,
		RetryTotal: 2,
		Headers:    map[string]string{"User-Agent": "Mozilla/5.0"},
	})

	if got := client.client.RetryCount; got != 2 {
		t.Fatalf("RetryCount = %d", got)
	}
	if got := client.client.Header.Get("User-Agent"); got != "Mozilla/5.0" {
		t.Fatalf("User-Agent = %q", got)
	}
}

func TestNewRestyClientWithoutRetries(t *testing.T) {
	client := NewRestyClient(Options{Timeout: time.Second})
	if got := client.client.RetryCount; got != 0 {
		t.Fatalf("RetryCount = %d, want retries disabled", got)
	}
}
