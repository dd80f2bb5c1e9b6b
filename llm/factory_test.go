package llm

import "testing"

func TestParseProviderType(t *testing.T) {
	tests := []struct {
		input   string
		want    ProviderType
		wantErr bool
	}{
		{"", ProviderGroq, false},
		{"groq", ProviderGroq, false},
		{"GROQ", ProviderGroq, false},
		{"openai", ProviderOpenAI, false},
		{"gpt", ProviderOpenAI, false},
		{"anthropic", ProviderAnthropic, false},
		{"claude", ProviderAnthropic, false},
		{"gemini", ProviderGemini, false},
		{"google", ProviderGemini, false},
		{"mistral", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseProviderType(tt.input)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseProviderType(%q): expected error", tt.input)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseProviderType(%q): unexpected error: %v", tt.input, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseProviderType(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestProviderTypeString(t *testing.T) {
	tests := []struct {
		pt   ProviderType
		want string
	}{
		{ProviderGroq, "groq"},
		{ProviderOpenAI, "openai"},
		{ProviderAnthropic, "anthropic"},
		{ProviderGemini, "gemini"},
		{ProviderType(99), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.pt.String(); got != tt.want {
			t.Errorf("%v.String() = %q, want %q", int(tt.pt), got, tt.want)
		}
	}
}

func TestNewProviderMissingKey(t *testing.T) {
	_, err := NewProvider(ProviderGroq, "", "", "llama-3.3-70b-versatile", 0.7)
	if err == nil {
		t.Error("expected error for missing API key")
	}
}

func TestNewProviderGroq(t *testing.T) {
	p, err := NewProvider(ProviderGroq, "key", "", "llama-3.3-70b-versatile", 0.7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Name() != "groq" {
		t.Errorf("name: got %q", p.Name())
	}
	if p.Model() != "llama-3.3-70b-versatile" {
		t.Errorf("model: got %q", p.Model())
	}
}
