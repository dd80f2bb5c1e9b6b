package llm

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	openai "github.com/sashabaranov/go-openai"
)

func TestIsToolCallMalformed(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"api error code", &openai.APIError{Code: "tool_use_failed"}, true},
		{"api error message", &openai.APIError{Message: "Failed: tool_use_failed at position 3"}, true},
		{"api error other", &openai.APIError{Code: "invalid_request"}, false},
		{"string fallback", errors.New("400 tool_use_failed: bad call"), true},
		{"wrapped", fmt.Errorf("request: %w", &openai.APIError{Code: "tool_use_failed"}), true},
		{"unrelated", errors.New("connection reset"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsToolCallMalformed(tt.err); got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsRateLimited(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"api error status", &openai.APIError{HTTPStatusCode: http.StatusTooManyRequests}, true},
		{"request error status", &openai.RequestError{HTTPStatusCode: http.StatusTooManyRequests}, true},
		{"message rate_limit", errors.New("upstream rate_limit_exceeded"), true},
		{"message 429", errors.New("got 429 from upstream"), true},
		{"unrelated", errors.New("boom"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsRateLimited(tt.err); got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}
