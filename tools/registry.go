// Package tools declares the callable data-lookup tools offered to the
// completion service and dispatches tool invocations by name.
//
// The tool set is closed: Name enumerates every known tool and Dispatch
// switches over it exhaustively. Failures (unknown names, malformed
// arguments, downstream API errors) are serialized into the result payload
// so the model can react in natural language; Dispatch never returns an
// error to the conversation loop.
package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/ptgrid/stormdesk/eredes"
	tolerantjson "github.com/ptgrid/stormdesk/internal/json"
	"github.com/ptgrid/stormdesk/llm"
	"github.com/ptgrid/stormdesk/outages"
)

// Name identifies a callable tool. The values are the function names the
// model sees; they are part of the persona contract and must not change.
type Name string

const (
	// NameScheduledInterruptions queries the live open-data API for
	// scheduled maintenance interruptions.
	NameScheduledInterruptions Name = "consultar_interrupcoes_programadas"
	// NameStormStatus looks up Storm Kristin outage data by location.
	NameStormStatus Name = "consultar_estado_tempestade_kristin"
	// NameNationalSummary aggregates the national storm impact.
	NameNationalSummary Name = "resumo_nacional_tempestade"
)

// interruptionsLimit caps how many scheduled-interruption records a single
// tool call returns.
const interruptionsLimit = 10

// FaultLine is the E-REDES outage phone line quoted in fallback payloads.
const FaultLine = "800 506 506"

// Registry binds the tool set to its data collaborators.
type Registry struct {
	eredes *eredes.Client
	logger *slog.Logger
}

// NewRegistry creates a registry backed by the given open-data client.
func NewRegistry(client *eredes.Client, logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{eredes: client, logger: logger}
}

// Definitions returns the tool definition list passed verbatim to the
// completion service on every request.
func (r *Registry) Definitions() []llm.ToolDefinition {
	return []llm.ToolDefinition{
		{
			Name: string(NameScheduledInterruptions),
			Description: "Consulta interrupções programadas (trabalhos de manutenção) " +
				"na rede E-REDES, usando a API oficial de dados abertos. " +
				"Pode filtrar por concelho ou código postal.",
			Parameters: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"concelho": map[string]interface{}{
						"type":        "string",
						"description": "Nome do concelho (ex: 'Leiria', 'Coimbra')",
					},
					"codigo_postal": map[string]interface{}{
						"type":        "string",
						"description": "Código postal completo ou parcial (ex: '2400-001' ou '2400')",
					},
				},
				"required": []string{},
			},
		},
		{
			Name: string(NameStormStatus),
			Description: "Consulta o estado atual das avarias causadas pela Tempestade " +
				"Kristin numa determinada localização. Aceita código postal, " +
				"nome de distrito ou nome de concelho.",
			Parameters: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"localizacao": map[string]interface{}{
						"type": "string",
						"description": "Código postal (ex: '2400-001'), distrito (ex: 'Leiria') " +
							"ou concelho (ex: 'Pombal')",
					},
				},
				"required": []string{"localizacao"},
			},
		},
		{
			Name: string(NameNationalSummary),
			Description: "Obtém o resumo nacional do impacto da Tempestade Kristin " +
				"na rede elétrica, incluindo totais de clientes afetados, " +
				"equipas no terreno e progresso de recuperação.",
			Parameters: map[string]interface{}{
				"type":       "object",
				"properties": map[string]interface{}{},
				"required":   []string{},
			},
		},
	}
}

// Dispatch executes the named tool with the given raw argument payload and
// returns the serialized result string expected by the completion service.
func (r *Registry) Dispatch(ctx context.Context, name string, args json.RawMessage) string {
	var result any

	switch Name(name) {
	case NameScheduledInterruptions:
		result = r.scheduledInterruptions(ctx, args)
	case NameStormStatus:
		result = r.stormStatus(args)
	case NameNationalSummary:
		result = outages.NationalSummary()
	default:
		r.logger.Warn("unknown tool requested", "tool", name)
		result = errPayload(fmt.Sprintf("Ferramenta desconhecida: %s", name))
	}

	return serialize(result)
}

type interruptionsArgs struct {
	Concelho     string `json:"concelho"`
	CodigoPostal string `json:"codigo_postal"`
}

func (r *Registry) scheduledInterruptions(ctx context.Context, args json.RawMessage) any {
	var a interruptionsArgs
	if len(args) > 0 {
		if err := tolerantjson.Decode(args, &a); err != nil {
			return errPayload(fmt.Sprintf("Argumentos inválidos: %v", err))
		}
	}

	result, err := r.eredes.ScheduledInterruptions(ctx, a.Concelho, a.CodigoPostal, interruptionsLimit)
	if err != nil {
		var statusErr *eredes.StatusError
		if errors.As(err, &statusErr) {
			r.logger.Warn("open-data API returned error status", "status", statusErr.Code)
			return errPayload(fmt.Sprintf("Erro na API E-REDES: %d", statusErr.Code))
		}
		r.logger.Warn("open-data API unreachable", "error", err)
		return errPayload(fmt.Sprintf("Não foi possível contactar a API E-REDES: %v", err))
	}

	return result
}

type stormStatusArgs struct {
	Localizacao string `json:"localizacao"`
}

func (r *Registry) stormStatus(args json.RawMessage) any {
	var a stormStatusArgs
	if len(args) > 0 {
		if err := tolerantjson.Decode(args, &a); err != nil {
			return errPayload(fmt.Sprintf("Argumentos inválidos: %v", err))
		}
	}

	if d := outages.ByLocation(a.Localizacao); d != nil {
		return d
	}

	// Never an empty result: the model needs something to relay.
	return map[string]string{
		"info": fmt.Sprintf(
			"Não foram encontrados dados de avarias da Tempestade Kristin para a "+
				"localização '%s'. Esta zona pode não ter sido afetada ou não está na "+
				"nossa base de dados. Para informações atualizadas, contacte a Linha "+
				"de Avarias: %s.",
			a.Localizacao, FaultLine,
		),
	}
}

func errPayload(msg string) map[string]string {
	return map[string]string{"erro": msg}
}

// serialize renders a tool result as the single string the completion
// service expects in a tool message.
func serialize(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		// Marshal only fails on unsupported types; keep the turn alive.
		return fmt.Sprintf(`{"erro": "Falha ao serializar resultado: %v"}`, err)
	}
	return string(data)
}
