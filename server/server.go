// Package server exposes the chat backend over HTTP.
//
// Information Hiding:
// - Route layout and request/response JSON shapes
// - Input validation rules
// - The mapping from failure modes to HTTP status codes
//
// The chat handler never mutates stored session state on a failed turn: the
// conversation loop runs on a snapshot and only a successful turn commits,
// so clients can safely retry after any error response.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ptgrid/stormdesk/chat"
	"github.com/ptgrid/stormdesk/llm"
	"github.com/ptgrid/stormdesk/session"
)

// MaxMessageLen caps the user message length in characters.
const MaxMessageLen = 2000

// sessionIDPattern constrains client-supplied session identifiers.
var sessionIDPattern = regexp.MustCompile(`^[a-zA-Z0-9_-]{1,100}$`)

// User-facing error messages, in Portuguese like the rest of the surface.
const (
	msgEmptyMessage     = "A mensagem não pode estar vazia."
	msgMessageTooLong   = "A mensagem excede o limite de 2000 caracteres."
	msgInvalidSessionID = "Identificador de sessão inválido."
	msgInvalidBody      = "Pedido inválido."
	msgUnavailable      = "Serviço temporariamente indisponível. Por favor, tente mais tarde."
	msgTimeout          = "O pedido demorou demasiado tempo. Por favor, tente novamente."
	msgUpstreamLimited  = "Limite de utilização atingido. Por favor, tente novamente dentro de alguns segundos."
	msgInternal         = "Erro interno do serviço. Por favor, tente novamente."
)

// ChatRequest is the /api/chat request body.
type ChatRequest struct {
	SessionID string `json:"session_id"`
	Message   string `json:"message"`
}

// ChatResponse is the /api/chat success body.
type ChatResponse struct {
	Reply     string `json:"reply"`
	SessionID string `json:"session_id"`
}

type errorResponse struct {
	Detail string `json:"detail"`
}

// Server wires the chat engine, session store and static frontend behind an
// http.Handler. Engine may be nil when no provider credential is configured;
// chat requests then answer 503 until the process is restarted with a key.
type Server struct {
	engine    *chat.Engine
	store     *session.Store
	timeout   time.Duration
	staticDir string
	logger    *slog.Logger
}

// Options configures a Server.
type Options struct {
	Engine         *chat.Engine
	Store          *session.Store
	Timeout        time.Duration
	StaticDir      string
	AllowedOrigins string
	RatePerMinute  int
	Logger         *slog.Logger
}

// New builds the server and its middleware-wrapped handler.
func New(opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 60 * time.Second
	}
	return &Server{
		engine:    opts.Engine,
		store:     opts.Store,
		timeout:   opts.Timeout,
		staticDir: opts.StaticDir,
		logger:    opts.Logger,
	}
}

// Handler returns the full route tree with CORS and rate limiting applied.
func (s *Server) Handler(allowedOrigins string, ratePerMinute int) http.Handler {
	mux := http.NewServeMux()

	limited := newRateLimitMiddleware(ratePerMinute, s.logger)
	mux.Handle("POST /api/chat", limited(http.HandlerFunc(s.handleChat)))

	if s.staticDir != "" {
		mux.Handle("GET /static/", http.StripPrefix("/static/",
			http.FileServer(http.Dir(s.staticDir))))
		mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
			http.ServeFile(w, r, filepath.Join(s.staticDir, "index.html"))
		})
	}

	return corsMiddleware(allowedOrigins)(mux)
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, msgInvalidBody)
		return
	}

	if strings.TrimSpace(req.Message) == "" {
		writeError(w, http.StatusBadRequest, msgEmptyMessage)
		return
	}
	if len([]rune(req.Message)) > MaxMessageLen {
		writeError(w, http.StatusBadRequest, msgMessageTooLong)
		return
	}
	if req.SessionID != "" && !sessionIDPattern.MatchString(req.SessionID) {
		writeError(w, http.StatusBadRequest, msgInvalidSessionID)
		return
	}

	if s.engine == nil {
		writeError(w, http.StatusServiceUnavailable, msgUnavailable)
		return
	}

	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = uuid.New().String()
	}

	sess := s.store.GetOrCreate(sessionID)
	sess.Lock()
	defer sess.Unlock()

	history := append(sess.Snapshot(), llm.UserMessage(req.Message))

	ctx, cancel := context.WithTimeout(r.Context(), s.timeout)
	defer cancel()

	final, reply, err := s.engine.Run(ctx, history)
	if err != nil {
		// The snapshot is discarded, so the session is exactly as it was
		// before this request.
		switch {
		case errors.Is(err, context.DeadlineExceeded) || ctx.Err() == context.DeadlineExceeded:
			writeError(w, http.StatusGatewayTimeout, msgTimeout)
		case llm.IsRateLimited(err):
			writeError(w, http.StatusTooManyRequests, msgUpstreamLimited)
		default:
			s.logger.Error("chat processing error", "error", err, "session_id", sessionID)
			writeError(w, http.StatusBadGateway, msgInternal)
		}
		return
	}

	s.store.Commit(sess, final)

	writeJSON(w, http.StatusOK, ChatResponse{Reply: reply, SessionID: sessionID})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, errorResponse{Detail: detail})
}
