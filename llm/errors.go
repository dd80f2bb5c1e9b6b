// Provider error classification.
//
// The conversation loop needs to distinguish two upstream error classes:
// a malformed tool invocation produced by the model (recoverable by
// retrying without tools) and rate limiting (surfaced distinctly to the
// caller). Everything else is a generic upstream failure.

package llm

import (
	"errors"
	"net/http"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

// IsToolCallMalformed reports whether err is the upstream error class for a
// model-produced tool invocation that the service could not parse. Groq
// signals this with a 400 response carrying the code "tool_use_failed".
func IsToolCallMalformed(err error) bool {
	if err == nil {
		return false
	}
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		if code, ok := apiErr.Code.(string); ok && code == "tool_use_failed" {
			return true
		}
		return strings.Contains(apiErr.Message, "tool_use_failed")
	}
	return strings.Contains(err.Error(), "tool_use_failed")
}

// IsRateLimited reports whether err carries signals of upstream capacity
// exhaustion, recognized by status code or message content.
func IsRateLimited(err error) bool {
	if err == nil {
		return false
	}
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) && apiErr.HTTPStatusCode == http.StatusTooManyRequests {
		return true
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) && reqErr.HTTPStatusCode == http.StatusTooManyRequests {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "rate_limit") || strings.Contains(msg, "429")
}
