package chat

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/ptgrid/stormdesk/eredes"
	"github.com/ptgrid/stormdesk/llm"
	"github.com/ptgrid/stormdesk/tools"
)

// scriptedProvider returns canned responses in order and records every call.
type scriptedProvider struct {
	responses []llm.Response
	errs      []error
	calls     int
	toolless  int // number of Chat (no tools) calls
	histories [][]llm.ChatMessage
}

func (p *scriptedProvider) Name() string  { return "scripted" }
func (p *scriptedProvider) Model() string { return "test" }

func (p *scriptedProvider) next(history []llm.ChatMessage) (llm.Response, error) {
	i := p.calls
	p.calls++
	snapshot := make([]llm.ChatMessage, len(history))
	copy(snapshot, history)
	p.histories = append(p.histories, snapshot)

	if i < len(p.errs) && p.errs[i] != nil {
		return llm.Response{}, p.errs[i]
	}
	if i < len(p.responses) {
		return p.responses[i], nil
	}
	return llm.Response{Content: "fallback"}, nil
}

func (p *scriptedProvider) Chat(ctx context.Context, messages []llm.ChatMessage) (llm.Response, error) {
	p.toolless++
	return p.next(messages)
}

func (p *scriptedProvider) ChatWithTools(ctx context.Context, messages []llm.ChatMessage, defs []llm.ToolDefinition) (llm.Response, error) {
	return p.next(messages)
}

var _ llm.Provider = (*scriptedProvider)(nil)

func newTestEngine(p llm.Provider, maxIterations int) *Engine {
	registry := tools.NewRegistry(eredes.NewClient("http://127.0.0.1:0", "test"), nil)
	return NewEngine(p, registry, maxIterations, nil)
}

func baseHistory(userMsg string) []llm.ChatMessage {
	return []llm.ChatMessage{
		llm.SystemMessage(Persona),
		llm.UserMessage(userMsg),
	}
}

func TestRunPlainReply(t *testing.T) {
	p := &scriptedProvider{responses: []llm.Response{{Content: "Olá!"}}}
	e := newTestEngine(p, 10)

	history, reply, err := e.Run(context.Background(), baseHistory("olá"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if reply != "Olá!" {
		t.Errorf("reply: got %q", reply)
	}
	if len(history) != 3 {
		t.Fatalf("expected 3 messages, got %d", len(history))
	}
	last := history[len(history)-1]
	if last.Role != "assistant" || last.Content != "Olá!" {
		t.Errorf("unexpected final message: %+v", last)
	}
	if p.calls != 1 {
		t.Errorf("expected 1 provider call, got %d", p.calls)
	}
}

func TestRunToolCallsThenReply(t *testing.T) {
	p := &scriptedProvider{
		responses: []llm.Response{
			{ToolCalls: []llm.ToolCall{
				{ID: "call-1", Name: string(tools.NameStormStatus), Arguments: json.RawMessage(`{"localizacao": "Leiria"}`)},
				{ID: "call-2", Name: string(tools.NameNationalSummary), Arguments: json.RawMessage(`{}`)},
			}},
			{Content: "Em Leiria há 8300 clientes sem luz."},
		},
	}
	e := newTestEngine(p, 10)

	history, reply, err := e.Run(context.Background(), baseHistory("como está Leiria?"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(reply, "Leiria") {
		t.Errorf("reply: got %q", reply)
	}

	// system, user, assistant(tool_calls), tool, tool, assistant
	if len(history) != 6 {
		t.Fatalf("expected 6 messages, got %d", len(history))
	}
	if len(history[2].ToolCalls) != 2 {
		t.Errorf("assistant message should carry both tool calls, got %d", len(history[2].ToolCalls))
	}
	if history[3].Role != "tool" || history[3].ToolCallID != "call-1" {
		t.Errorf("first tool result out of order: %+v", history[3])
	}
	if history[4].Role != "tool" || history[4].ToolCallID != "call-2" {
		t.Errorf("second tool result out of order: %+v", history[4])
	}
	if !strings.Contains(history[3].Content, "Leiria") {
		t.Errorf("tool result should carry district data: %q", history[3].Content)
	}

	// The second provider call must see the tool results.
	second := p.histories[1]
	if len(second) != 5 {
		t.Errorf("second call should see 5 messages, got %d", len(second))
	}
}

func TestRunIterationCap(t *testing.T) {
	// Every response requests another tool call; the loop must give up.
	loop := llm.Response{ToolCalls: []llm.ToolCall{
		{ID: "x", Name: string(tools.NameNationalSummary), Arguments: json.RawMessage(`{}`)},
	}}
	p := &scriptedProvider{responses: []llm.Response{
		loop, loop, loop, loop, loop, loop, loop, loop, loop, loop, loop,
	}}
	e := newTestEngine(p, 3)

	history, reply, err := e.Run(context.Background(), baseHistory("resumo"))
	if err != nil {
		t.Fatalf("cap exhaustion is not an error: %v", err)
	}
	if reply != ExhaustedReply {
		t.Errorf("expected the apology fallback, got %q", reply)
	}
	if p.calls != 3 {
		t.Errorf("expected exactly 3 provider calls, got %d", p.calls)
	}
	last := history[len(history)-1]
	if last.Role != "assistant" || last.Content != ExhaustedReply {
		t.Errorf("apology must be appended as the final assistant message: %+v", last)
	}
}

func TestRunMalformedToolCallRetriesWithoutTools(t *testing.T) {
	p := &scriptedProvider{
		errs:      []error{errors.New("400: tool_use_failed: could not parse tool call")},
		responses: []llm.Response{{}, {Content: "resposta simples"}},
	}
	e := newTestEngine(p, 10)

	history, reply, err := e.Run(context.Background(), baseHistory("olá"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if reply != "resposta simples" {
		t.Errorf("reply: got %q", reply)
	}
	if p.toolless != 1 {
		t.Errorf("expected exactly one tool-less retry, got %d", p.toolless)
	}
	if len(history) != 3 {
		t.Errorf("expected 3 messages, got %d", len(history))
	}
}

func TestRunProviderErrorPropagates(t *testing.T) {
	p := &scriptedProvider{errs: []error{errors.New("upstream exploded")}}
	e := newTestEngine(p, 10)

	_, _, err := e.Run(context.Background(), baseHistory("olá"))
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "upstream exploded") {
		t.Errorf("error should wrap the provider failure: %v", err)
	}
	if p.toolless != 0 {
		t.Errorf("generic errors must not trigger the tool-less retry, got %d", p.toolless)
	}
}

func TestRunRetryErrorPropagates(t *testing.T) {
	p := &scriptedProvider{errs: []error{
		errors.New("tool_use_failed"),
		errors.New("still broken"),
	}}
	e := newTestEngine(p, 10)

	_, _, err := e.Run(context.Background(), baseHistory("olá"))
	if err == nil {
		t.Fatal("expected error when the retry also fails")
	}
	if !strings.Contains(err.Error(), "still broken") {
		t.Errorf("error should wrap the retry failure: %v", err)
	}
}
