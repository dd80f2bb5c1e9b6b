// Completion provider factory.
//
// The backend talks to Groq by default (OpenAI-compatible, function tools,
// llama models); the other providers exist for deployments that point the
// assistant at a different completion service.

package llm

import (
	"fmt"
	"strings"
)

// ProviderType represents supported completion providers.
type ProviderType int

const (
	// ProviderGroq is the Groq provider (OpenAI-compatible API).
	ProviderGroq ProviderType = iota
	// ProviderOpenAI is the OpenAI provider.
	ProviderOpenAI
	// ProviderAnthropic is the Anthropic provider (Claude models).
	ProviderAnthropic
	// ProviderGemini is the Google Gemini provider.
	ProviderGemini
)

// String returns the string representation of the provider type.
func (p ProviderType) String() string {
	switch p {
	case ProviderGroq:
		return "groq"
	case ProviderOpenAI:
		return "openai"
	case ProviderAnthropic:
		return "anthropic"
	case ProviderGemini:
		return "gemini"
	default:
		return "unknown"
	}
}

// ParseProviderType parses a provider from string (case-insensitive).
func ParseProviderType(s string) (ProviderType, error) {
	switch strings.ToLower(s) {
	case "", "groq":
		return ProviderGroq, nil
	case "openai", "gpt":
		return ProviderOpenAI, nil
	case "anthropic", "claude":
		return ProviderAnthropic, nil
	case "gemini", "google":
		return ProviderGemini, nil
	default:
		return 0, fmt.Errorf("unknown provider: %s", s)
	}
}

// NewProvider builds a provider of the given type. baseURL is only honored
// by the OpenAI-compatible providers; the SDK-backed ones use their own
// endpoints.
func NewProvider(providerType ProviderType, apiKey, baseURL, model string, temperature float32) (Provider, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("%s: missing API key", providerType)
	}

	switch providerType {
	case ProviderGroq:
		return NewGroqProvider(apiKey, baseURL, model, temperature), nil
	case ProviderOpenAI:
		return NewOpenAIProvider(apiKey, model, temperature), nil
	case ProviderAnthropic:
		return NewAnthropicProvider(apiKey, model, temperature), nil
	case ProviderGemini:
		return NewGeminiProvider(apiKey, model, temperature), nil
	default:
		return nil, fmt.Errorf("unknown provider type: %v", providerType)
	}
}
