package config

import (
	"os"
	"testing"
	"time"
)

func TestNewDefaults(t *testing.T) {
	os.Unsetenv("LLM_PROVIDER")
	os.Unsetenv("GROQ_MODEL")

	settings, err := New()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if settings.LLM.Provider != "groq" {
		t.Errorf("expected provider 'groq', got %q", settings.LLM.Provider)
	}
	if settings.LLM.Model != DefaultGroqModel {
		t.Errorf("expected model %q, got %q", DefaultGroqModel, settings.LLM.Model)
	}
	if settings.Chat.MaxMessages != 50 {
		t.Errorf("expected MaxMessages 50, got %d", settings.Chat.MaxMessages)
	}
	if settings.Chat.Timeout != 60*time.Second {
		t.Errorf("expected 60s timeout, got %v", settings.Chat.Timeout)
	}
	if settings.Server.RateLimitPerMinute != 10 {
		t.Errorf("expected rate limit 10, got %d", settings.Server.RateLimitPerMinute)
	}
}

func TestNewWithAlias(t *testing.T) {
	original := os.Getenv("LLM_PROVIDER")
	os.Setenv("LLM_PROVIDER", "claude")
	defer os.Setenv("LLM_PROVIDER", original)

	settings, err := New()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if settings.LLM.Provider != "anthropic" {
		t.Errorf("expected provider 'anthropic' (normalized from 'claude'), got %q", settings.LLM.Provider)
	}
}

func TestNewUnknownProvider(t *testing.T) {
	original := os.Getenv("LLM_PROVIDER")
	os.Setenv("LLM_PROVIDER", "unknown_provider")
	defer os.Setenv("LLM_PROVIDER", original)

	_, err := New()
	if err == nil {
		t.Error("expected error for unknown provider")
	}
}

func TestHasAPIKey(t *testing.T) {
	original := os.Getenv("GROQ_API_KEY")
	defer os.Setenv("GROQ_API_KEY", original)

	os.Setenv("GROQ_API_KEY", "test-key")
	settings, err := New()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !settings.HasAPIKey() {
		t.Error("expected HasAPIKey true with GROQ_API_KEY set")
	}
	if settings.LLM.APIKey != "test-key" {
		t.Errorf("expected 'test-key', got %q", settings.LLM.APIKey)
	}

	os.Unsetenv("GROQ_API_KEY")
	settings, err = New()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if settings.HasAPIKey() {
		t.Error("expected HasAPIKey false without GROQ_API_KEY")
	}
}

func TestNewWithInvalidEnvVar(t *testing.T) {
	original := os.Getenv("MAX_MESSAGES")
	os.Setenv("MAX_MESSAGES", "not-a-number")
	defer os.Setenv("MAX_MESSAGES", original)

	_, err := New()
	if err == nil {
		t.Error("expected error for invalid MAX_MESSAGES")
	}
}

func TestMustNewPanics(t *testing.T) {
	original := os.Getenv("LLM_PROVIDER")
	os.Setenv("LLM_PROVIDER", "unknown_provider")
	defer os.Setenv("LLM_PROVIDER", original)

	defer func() {
		if r := recover(); r == nil {
			t.Error("expected panic for unknown provider")
		}
	}()
	MustNew()
}

func TestSupportedProviders(t *testing.T) {
	providers := SupportedProviders()
	if len(providers) == 0 {
		t.Error("expected at least one supported provider")
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"DEBUG", "DEBUG"},
		{"debug", "DEBUG"},
		{"warning", "WARN"},
		{"ERROR", "ERROR"},
		{"", "INFO"},
		{"garbage", "INFO"},
	}
	for _, tt := range tests {
		if got := ParseLogLevel(tt.input).String(); got != tt.want {
			t.Errorf("ParseLogLevel(%q) = %s, want %s", tt.input, got, tt.want)
		}
	}
}
