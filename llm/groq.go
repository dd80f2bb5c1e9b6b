// Groq Provider implementation using the go-openai library.
//
// Information Hiding:
// - Uses the OpenAI-compatible chat/completions API with a custom base URL
// - Request/response format conversion, including tool calls
// - Upstream error shape (classified by errors.go)

package llm

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

// DefaultGroqBaseURL is the OpenAI-compatible endpoint of the Groq API.
const DefaultGroqBaseURL = "https://api.groq.com/openai/v1"

// GroqProvider implements the Provider interface for Groq. It also serves
// any other OpenAI-compatible endpoint via WithBaseURL.
type GroqProvider struct {
	client      *openai.Client
	name        string
	model       string
	temperature float32
}

// NewGroqProvider creates a new Groq provider. An empty baseURL selects
// DefaultGroqBaseURL; any other OpenAI-compatible endpoint works too.
func NewGroqProvider(apiKey, baseURL, model string, temperature float32) *GroqProvider {
	if baseURL == "" {
		baseURL = DefaultGroqBaseURL
	}
	return newOpenAICompatible("groq", apiKey, baseURL, model, temperature)
}

// NewOpenAIProvider creates a provider for the OpenAI API proper.
func NewOpenAIProvider(apiKey, model string, temperature float32) *GroqProvider {
	return &GroqProvider{
		client:      openai.NewClient(apiKey),
		name:        "openai",
		model:       model,
		temperature: temperature,
	}
}

func newOpenAICompatible(name, apiKey, baseURL, model string, temperature float32) *GroqProvider {
	config := openai.DefaultConfig(apiKey)
	config.BaseURL = baseURL

	return &GroqProvider{
		client:      openai.NewClientWithConfig(config),
		name:        name,
		model:       model,
		temperature: temperature,
	}
}

// Name returns the provider name.
func (p *GroqProvider) Name() string {
	return p.name
}

// Model returns the current model.
func (p *GroqProvider) Model() string {
	return p.model
}

// Chat sends a chat completion request without offering tools.
func (p *GroqProvider) Chat(ctx context.Context, messages []ChatMessage) (Response, error) {
	return p.complete(ctx, messages, nil)
}

// ChatWithTools sends a chat completion request with tool definitions.
func (p *GroqProvider) ChatWithTools(ctx context.Context, messages []ChatMessage, tools []ToolDefinition) (Response, error) {
	return p.complete(ctx, messages, convertToOpenAITools(tools))
}

func (p *GroqProvider) complete(ctx context.Context, messages []ChatMessage, tools []openai.Tool) (Response, error) {
	req := openai.ChatCompletionRequest{
		Model:       p.model,
		Messages:    convertToOpenAIMessages(messages),
		Temperature: p.temperature,
		Tools:       tools,
	}

	resp, err := p.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return Response{}, fmt.Errorf("chat completion failed: %w", err)
	}

	content := ""
	var toolCalls []ToolCall
	if len(resp.Choices) > 0 {
		content = resp.Choices[0].Message.Content
		for _, tc := range resp.Choices[0].Message.ToolCalls {
			toolCalls = append(toolCalls, ToolCall{
				ID:        tc.ID,
				Name:      tc.Function.Name,
				Arguments: []byte(tc.Function.Arguments),
			})
		}
	}

	usage := &TokenUsage{
		PromptTokens:     uint32(resp.Usage.PromptTokens),
		CompletionTokens: uint32(resp.Usage.CompletionTokens),
		TotalTokens:      uint32(resp.Usage.TotalTokens),
	}

	return Response{Content: content, ToolCalls: toolCalls, Usage: usage}, nil
}

// convertToOpenAIMessages converts ChatMessage values, carrying assistant
// tool-call requests and tool results through unchanged.
func convertToOpenAIMessages(messages []ChatMessage) []openai.ChatCompletionMessage {
	result := make([]openai.ChatCompletionMessage, len(messages))
	for i, msg := range messages {
		oaiMsg := openai.ChatCompletionMessage{
			Role:    msg.Role,
			Content: msg.Content,
		}

		for _, tc := range msg.ToolCalls {
			oaiMsg.ToolCalls = append(oaiMsg.ToolCalls, openai.ToolCall{
				ID:   tc.ID,
				Type: openai.ToolTypeFunction,
				Function: openai.FunctionCall{
					Name:      tc.Name,
					Arguments: string(tc.Arguments),
				},
			})
		}

		if msg.ToolCallID != "" {
			oaiMsg.ToolCallID = msg.ToolCallID
		}

		result[i] = oaiMsg
	}
	return result
}

// convertToOpenAITools converts tool definitions to OpenAI format.
func convertToOpenAITools(tools []ToolDefinition) []openai.Tool {
	if len(tools) == 0 {
		return nil
	}
	result := make([]openai.Tool, len(tools))
	for i, t := range tools {
		result[i] = openai.Tool{
			Type: openai.ToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name:        t.Name,
				Description: t.Description,
				Parameters:  t.Parameters,
			},
		}
	}
	return result
}

// Verify GroqProvider implements Provider
var _ Provider = (*GroqProvider)(nil)
