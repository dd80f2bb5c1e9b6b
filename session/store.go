// Package session keeps per-conversation message history in memory.
//
// Information Hiding:
// - Storage layout (in-memory map keyed by session ID)
// - Lazy creation with the persona seeded as the first message
// - History trimming policy
//
// Concurrency: the store map is guarded by its own mutex; each Session
// additionally carries a mutex that callers hold for the duration of a
// conversation turn, so concurrent requests for the same session are
// serialized rather than interleaved.
package session

import (
	"log/slog"
	"sync"

	"github.com/ptgrid/stormdesk/llm"
)

// DefaultMaxMessages is the history cap applied after each successful turn.
// The persona message does not count against it.
const DefaultMaxMessages = 50

// Session is one conversation's state. The embedded mutex serializes turns;
// callers must hold it across read, model call and commit.
type Session struct {
	mu      sync.Mutex
	history []llm.ChatMessage
}

// Lock acquires the session for a conversation turn.
func (s *Session) Lock() { s.mu.Lock() }

// Unlock releases the session.
func (s *Session) Unlock() { s.mu.Unlock() }

// Snapshot returns a copy of the history. The caller must hold the session
// lock. Mutating the copy leaves the stored history untouched, which is how
// failed turns roll back: they simply never commit.
func (s *Session) Snapshot() []llm.ChatMessage {
	out := make([]llm.ChatMessage, len(s.history))
	copy(out, s.history)
	return out
}

// commit replaces the stored history, trimmed to the store's cap. The caller
// must hold the session lock.
func (s *Session) commit(history []llm.ChatMessage, max int) {
	s.history = Trim(history, max)
}

// Len reports the number of stored messages including the persona message.
// The caller must hold the session lock.
func (s *Session) Len() int { return len(s.history) }

// Store holds all active sessions.
//
// Sessions are never evicted; the process is expected to be restarted
// between storm events and memory per session is bounded by the trim cap.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*Session
	persona  string
	max      int
	logger   *slog.Logger
}

// NewStore creates a store that seeds new sessions with the given persona
// system message and trims histories to max non-persona messages.
func NewStore(persona string, max int, logger *slog.Logger) *Store {
	if max <= 0 {
		max = DefaultMaxMessages
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		sessions: make(map[string]*Session),
		persona:  persona,
		max:      max,
		logger:   logger,
	}
}

// GetOrCreate returns the session for id, creating it with the persona as
// its sole message on first sight.
func (st *Store) GetOrCreate(id string) *Session {
	st.mu.Lock()
	defer st.mu.Unlock()

	if s, ok := st.sessions[id]; ok {
		return s
	}

	s := &Session{history: []llm.ChatMessage{llm.SystemMessage(st.persona)}}
	st.sessions[id] = s
	st.logger.Debug("session created", "session_id", id)
	return s
}

// Commit stores the turn's final history on the session, applying the trim
// cap. The caller must hold the session lock.
func (st *Store) Commit(s *Session, history []llm.ChatMessage) {
	s.commit(history, st.max)
}

// Count reports the number of live sessions.
func (st *Store) Count() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return len(st.sessions)
}

// Trim caps a history at max messages after the leading persona message.
// When the history exceeds the cap the persona message is kept and the
// oldest conversation messages are dropped; otherwise the history is
// returned unchanged.
func Trim(history []llm.ChatMessage, max int) []llm.ChatMessage {
	if max <= 0 || len(history) <= max+1 {
		return history
	}
	trimmed := make([]llm.ChatMessage, 0, max+1)
	trimmed = append(trimmed, history[0])
	trimmed = append(trimmed, history[len(history)-max:]...)
	return trimmed
}
