// Package chat runs the tool-calling conversation loop between the session
// history and the completion provider.
//
// Information Hiding:
// - The iteration protocol (assistant tool calls, tool results, repeat)
// - Recovery from malformed tool calls
// - The iteration cap and its apology fallback
package chat

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ptgrid/stormdesk/llm"
	"github.com/ptgrid/stormdesk/tools"
)

// DefaultMaxIterations bounds provider round-trips within one user turn.
const DefaultMaxIterations = 10

// ExhaustedReply is returned when the model keeps requesting tools past the
// iteration cap. It is a normal outcome, not an error: the turn commits.
const ExhaustedReply = "Peço desculpa, não consegui processar o seu pedido. " +
	"Por favor, tente novamente ou contacte a Linha de Avarias: 800 506 506."

// Engine drives one conversation turn to completion.
type Engine struct {
	provider      llm.Provider
	registry      *tools.Registry
	maxIterations int
	logger        *slog.Logger
}

// NewEngine creates an engine over the given provider and tool registry.
func NewEngine(provider llm.Provider, registry *tools.Registry, maxIterations int, logger *slog.Logger) *Engine {
	if maxIterations <= 0 {
		maxIterations = DefaultMaxIterations
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		provider:      provider,
		registry:      registry,
		maxIterations: maxIterations,
		logger:        logger,
	}
}

// Run executes the conversation loop on history, which must already end with
// the new user message. It returns the extended history and the assistant's
// final text. On error the input history should be discarded uncommitted so
// the failed turn leaves no trace.
func (e *Engine) Run(ctx context.Context, history []llm.ChatMessage) ([]llm.ChatMessage, string, error) {
	defs := e.registry.Definitions()

	for i := 0; i < e.maxIterations; i++ {
		resp, err := e.provider.ChatWithTools(ctx, history, defs)
		if err != nil {
			if llm.IsToolCallMalformed(err) {
				// The model emitted a tool call the API could not parse.
				// Retry the same history once with no tools offered so it
				// has to answer in plain text.
				e.logger.Warn("malformed tool call, retrying without tools", "iteration", i)
				resp, err = e.provider.Chat(ctx, history)
				if err != nil {
					return nil, "", fmt.Errorf("retry without tools failed: %w", err)
				}
				history = append(history, llm.AssistantMessage(resp.Content))
				return history, resp.Content, nil
			}
			return nil, "", fmt.Errorf("chat completion failed: %w", err)
		}

		if len(resp.ToolCalls) == 0 {
			history = append(history, llm.AssistantMessage(resp.Content))
			return history, resp.Content, nil
		}

		// Record the assistant's request, then answer every call in the
		// order it was issued. IDs must line up or the provider rejects
		// the follow-up request.
		history = append(history, llm.ChatMessage{
			Role:      "assistant",
			Content:   resp.Content,
			ToolCalls: resp.ToolCalls,
		})

		for _, call := range resp.ToolCalls {
			e.logger.Info("executing tool", "tool", call.Name, "iteration", i)
			result := e.registry.Dispatch(ctx, call.Name, call.Arguments)
			history = append(history, llm.ToolMessage(call.ID, result))
		}
	}

	e.logger.Warn("iteration cap reached", "max_iterations", e.maxIterations)
	history = append(history, llm.AssistantMessage(ExhaustedReply))
	return history, ExhaustedReply, nil
}
