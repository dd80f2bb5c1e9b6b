// Package config provides application settings loaded from environment variables.
//
// Settings are created via New() which handles:
// - Environment variable parsing with validation
// - Default value application
// - Provider-specific API key lookup

package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Defaults applied when the corresponding environment variable is unset.
const (
	DefaultGroqModel      = "llama-3.3-70b-versatile"
	DefaultOpenAIModel    = "gpt-4o"
	DefaultAnthropicModel = "claude-sonnet-4-20250514"
	DefaultGeminiModel    = "gemini-2.5-flash"

	DefaultAddr      = ":8000"
	DefaultStaticDir = "static"
)

// Emergency contacts quoted by the assistant. Not configurable.
const (
	ContactFaultLine    = "800 506 506"
	ContactEmergency    = "112"
	ContactDigitalDesk  = "https://balcaodigital.e-redes.pt"
	ContactCivilDefense = "214 247 100"
)

// Settings holds all application configuration.
type Settings struct {
	LLM    LLMConfig
	ERedes ERedesConfig
	Chat   ChatConfig
	Server ServerConfig
}

// LLMConfig holds completion provider configuration.
type LLMConfig struct {
	Provider    string
	APIKey      string
	BaseURL     string
	Model       string
	Temperature float64
}

// ERedesConfig holds open-data API configuration.
type ERedesConfig struct {
	APIBase string
	Dataset string
}

// ChatConfig holds conversation loop configuration.
type ChatConfig struct {
	MaxMessages   int
	MaxIterations int
	Timeout       time.Duration
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Addr               string
	StaticDir          string
	AllowedOrigins     string
	RateLimitPerMinute int
	LogLevel           string
}

// providerInfo holds environment variable names for a specific provider.
type providerInfo struct {
	modelEnv     string
	defaultModel string
	apiKeyEnv    string
}

// Supported providers and their configuration. Groq is the default and the
// only one that honors a configurable base URL.
var providers = map[string]providerInfo{
	"groq":      {"GROQ_MODEL", DefaultGroqModel, "GROQ_API_KEY"},
	"openai":    {"OPENAI_MODEL", DefaultOpenAIModel, "OPENAI_API_KEY"},
	"anthropic": {"ANTHROPIC_MODEL", DefaultAnthropicModel, "ANTHROPIC_API_KEY"},
	"gemini":    {"GEMINI_MODEL", DefaultGeminiModel, "GEMINI_API_KEY"},
}

// Provider aliases map to canonical names.
var providerAliases = map[string]string{
	"claude": "anthropic",
	"google": "gemini",
	"gpt":    "openai",
}

// New loads settings from the environment. An absent provider API key is not
// an error here: the server starts degraded and reports 503 on chat requests
// until a key is configured.
func New() (Settings, error) {
	provider := normalizeProvider(getEnv("LLM_PROVIDER", "groq"))

	info, ok := providers[provider]
	if !ok {
		return Settings{}, fmt.Errorf("unknown provider: %q", provider)
	}

	temperature, err := getEnvFloat64("LLM_TEMPERATURE", 0.7)
	if err != nil {
		return Settings{}, err
	}

	maxMessages, err := getEnvInt("MAX_MESSAGES", 50)
	if err != nil {
		return Settings{}, err
	}

	maxIterations, err := getEnvInt("MAX_ITERATIONS", 10)
	if err != nil {
		return Settings{}, err
	}

	timeoutSeconds, err := getEnvInt("CHAT_TIMEOUT_SECONDS", 60)
	if err != nil {
		return Settings{}, err
	}

	rateLimit, err := getEnvInt("RATE_LIMIT_PER_MINUTE", 10)
	if err != nil {
		return Settings{}, err
	}

	return Settings{
		LLM: LLMConfig{
			Provider:    provider,
			APIKey:      os.Getenv(info.apiKeyEnv),
			BaseURL:     getEnv("GROQ_BASE_URL", "https://api.groq.com/openai/v1"),
			Model:       getEnv(info.modelEnv, info.defaultModel),
			Temperature: temperature,
		},
		ERedes: ERedesConfig{
			APIBase: getEnv("EREDES_API_BASE", "https://e-redes.opendatasoft.com/api/v2/catalog/datasets"),
			Dataset: getEnv("EREDES_DATASET", "network-scheduling-work"),
		},
		Chat: ChatConfig{
			MaxMessages:   maxMessages,
			MaxIterations: maxIterations,
			Timeout:       time.Duration(timeoutSeconds) * time.Second,
		},
		Server: ServerConfig{
			Addr:               getEnv("ADDR", DefaultAddr),
			StaticDir:          getEnv("STATIC_DIR", DefaultStaticDir),
			AllowedOrigins:     getEnv("ALLOWED_ORIGINS", "*"),
			RateLimitPerMinute: rateLimit,
			LogLevel:           getEnv("LOG_LEVEL", "INFO"),
		},
	}, nil
}

// MustNew loads settings and panics on invalid environment values.
// Use this only when configuration errors should be fatal.
func MustNew() Settings {
	settings, err := New()
	if err != nil {
		panic(fmt.Sprintf("config: %v", err))
	}
	return settings
}

// HasAPIKey reports whether the configured provider has a credential.
func (s Settings) HasAPIKey() bool {
	return s.LLM.APIKey != ""
}

// normalizeProvider converts provider aliases to canonical names.
func normalizeProvider(provider string) string {
	provider = strings.ToLower(provider)
	if canonical, ok := providerAliases[provider]; ok {
		return canonical
	}
	return provider
}

// SupportedProviders returns the list of supported provider names.
func SupportedProviders() []string {
	result := make([]string, 0, len(providers))
	for name := range providers {
		result = append(result, name)
	}
	return result
}

// Environment variable helpers with proper error handling

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) (int, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	i, err := strconv.Atoi(val)
	if err != nil {
		return 0, fmt.Errorf("invalid value for %s: %q: %w", key, val, err)
	}
	return i, nil
}

func getEnvFloat64(key string, defaultVal float64) (float64, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	f, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid value for %s: %q: %w", key, val, err)
	}
	return f, nil
}
