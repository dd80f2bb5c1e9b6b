package tools

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ptgrid/stormdesk/eredes"
)

func newTestRegistry(baseURL string) *Registry {
	return NewRegistry(eredes.NewClient(baseURL, "test-dataset"), nil)
}

func TestDefinitionsClosedSet(t *testing.T) {
	r := newTestRegistry("")
	defs := r.Definitions()
	if len(defs) != 3 {
		t.Fatalf("expected 3 tool definitions, got %d", len(defs))
	}

	names := map[string]bool{}
	for _, d := range defs {
		names[d.Name] = true
		if d.Description == "" {
			t.Errorf("tool %s has no description", d.Name)
		}
		if d.Parameters["type"] != "object" {
			t.Errorf("tool %s parameters are not an object schema", d.Name)
		}
	}
	for _, want := range []Name{NameScheduledInterruptions, NameStormStatus, NameNationalSummary} {
		if !names[string(want)] {
			t.Errorf("missing tool %s", want)
		}
	}
}

func TestDispatchUnknownTool(t *testing.T) {
	r := newTestRegistry("")
	out := r.Dispatch(context.Background(), "apagar_tudo", nil)

	var payload map[string]string
	if err := json.Unmarshal([]byte(out), &payload); err != nil {
		t.Fatalf("result is not valid JSON: %v", err)
	}
	if !strings.Contains(payload["erro"], "Ferramenta desconhecida: apagar_tudo") {
		t.Errorf("unexpected payload: %q", out)
	}
}

func TestDispatchStormStatusFound(t *testing.T) {
	r := newTestRegistry("")
	out := r.Dispatch(context.Background(), string(NameStormStatus),
		json.RawMessage(`{"localizacao": "2400-001"}`))

	var d struct {
		Distrito string `json:"distrito"`
	}
	if err := json.Unmarshal([]byte(out), &d); err != nil {
		t.Fatalf("result is not valid JSON: %v", err)
	}
	if d.Distrito != "Leiria" {
		t.Errorf("expected Leiria, got %q", d.Distrito)
	}
}

func TestDispatchStormStatusNotFound(t *testing.T) {
	r := newTestRegistry("")
	out := r.Dispatch(context.Background(), string(NameStormStatus),
		json.RawMessage(`{"localizacao": "Lisboa"}`))

	var payload map[string]string
	if err := json.Unmarshal([]byte(out), &payload); err != nil {
		t.Fatalf("result is not valid JSON: %v", err)
	}
	if payload["erro"] != "" {
		t.Errorf("not-found must be informational, got error: %q", payload["erro"])
	}
	if !strings.Contains(payload["info"], "Lisboa") || !strings.Contains(payload["info"], FaultLine) {
		t.Errorf("info payload should name the location and the fault line: %q", payload["info"])
	}
}

func TestDispatchStormStatusBadArgs(t *testing.T) {
	r := newTestRegistry("")
	out := r.Dispatch(context.Background(), string(NameStormStatus),
		json.RawMessage(`{"localizacao": 42`))

	var payload map[string]string
	if err := json.Unmarshal([]byte(out), &payload); err != nil {
		t.Fatalf("result is not valid JSON: %v", err)
	}
	if payload["erro"] == "" {
		t.Errorf("expected an error payload for malformed arguments, got %q", out)
	}
}

func TestDispatchNationalSummary(t *testing.T) {
	r := newTestRegistry("")
	out := r.Dispatch(context.Background(), string(NameNationalSummary), json.RawMessage(`{}`))

	var s struct {
		Evento            string   `json:"evento"`
		DistritosAfetados []string `json:"distritos_afetados"`
	}
	if err := json.Unmarshal([]byte(out), &s); err != nil {
		t.Fatalf("result is not valid JSON: %v", err)
	}
	if s.Evento != "Tempestade Kristin" {
		t.Errorf("evento: got %q", s.Evento)
	}
	if len(s.DistritosAfetados) != 7 {
		t.Errorf("expected 7 districts, got %d", len(s.DistritosAfetados))
	}
}

func TestDispatchInterruptions(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("limit"); got != "10" {
			t.Errorf("limit: got %q, want 10", got)
		}
		w.Write([]byte(`{"total_count": 0, "records": []}`))
	}))
	defer srv.Close()

	r := newTestRegistry(srv.URL)
	out := r.Dispatch(context.Background(), string(NameScheduledInterruptions),
		json.RawMessage(`{"concelho": "Leiria"}`))

	var result struct {
		Total int `json:"total_encontrados"`
	}
	if err := json.Unmarshal([]byte(out), &result); err != nil {
		t.Fatalf("result is not valid JSON: %v", err)
	}
	if result.Total != 0 {
		t.Errorf("total: got %d, want 0", result.Total)
	}
}

func TestDispatchInterruptionsAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	r := newTestRegistry(srv.URL)
	out := r.Dispatch(context.Background(), string(NameScheduledInterruptions), nil)

	var payload map[string]string
	if err := json.Unmarshal([]byte(out), &payload); err != nil {
		t.Fatalf("result is not valid JSON: %v", err)
	}
	if !strings.Contains(payload["erro"], "500") {
		t.Errorf("expected the status code in the payload: %q", payload["erro"])
	}
}

func TestDispatchInterruptionsUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	r := newTestRegistry(srv.URL)
	out := r.Dispatch(context.Background(), string(NameScheduledInterruptions), nil)

	var payload map[string]string
	if err := json.Unmarshal([]byte(out), &payload); err != nil {
		t.Fatalf("result is not valid JSON: %v", err)
	}
	if !strings.Contains(payload["erro"], "Não foi possível contactar") {
		t.Errorf("expected unreachable-API payload: %q", payload["erro"])
	}
}
