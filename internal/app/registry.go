package app

import (
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/avdeev/peerdrop/internal/core"
	"github.com/avdeev/peerdrop/internal/domain"
)

// Registry is the sole source of truth for which connections are currently
// reachable. Entries are added on connect and removed on close; nothing
// else may outlive the underlying connection.
type Registry struct {
	mu       sync.RWMutex
	sessions map[domain.SessionID]core.SignalConnection
}

func NewRegistry() *Registry {
	return &Registry{
		sessions: make(map[domain.SessionID]core.SignalConnection),
	}
}

// Register stores the connection handle, overwriting any stale entry with
// the same id.
func (r *Registry) Register(sid domain.SessionID, conn core.SignalConnection) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[sid] = conn
	log.Info().Str("module", "app.registry").Str("sid", string(sid)).Msg("registered session")
}

// Unregister removes the handle. Removing an absent id is a no-op.
func (r *Registry) Unregister(sid domain.SessionID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, sid)
	log.Info().Str("module", "app.registry").Str("sid", string(sid)).Msg("unregistered session")
}

func (r *Registry) Lookup(sid domain.SessionID) (core.SignalConnection, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	conn, ok := r.sessions[sid]
	return conn, ok
}

func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// Send delivers msg to sid's live connection and reports whether it was
// handed to the transport. Absent or closed recipients are a silent drop;
// a write failure is logged and not retried.
func (r *Registry) Send(sid domain.SessionID, msg core.Message) bool {
	conn, ok := r.Lookup(sid)
	if !ok {
		return false
	}
	if err := conn.TrySend(msg); err != nil {
		log.Warn().Err(err).Str("module", "app.registry").Str("sid", string(sid)).
			Str("type", string(msg.Type)).Msg("send failed")
		return false
	}
	return true
}
