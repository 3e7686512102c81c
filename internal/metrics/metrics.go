// Package metrics is a minimal, concurrency-safe counter registry.
package metrics

import "sync"

// Event names counted by the relay.
const (
	EventConnected       = "connected"
	EventDisconnected    = "disconnected"
	EventRoomCreated     = "room_created"
	EventRoomJoined      = "room_joined"
	EventJoinMissingRoom = "join_missing_room"
	EventForwarded       = "forwarded"
	EventForwardDropped  = "forward_dropped"
	EventRateLimited     = "rate_limited"
	EventUnknownType     = "unknown_type"
)

type Metrics struct {
	mu sync.Mutex
	m  map[string]uint64
}

func New() *Metrics {
	return &Metrics{
		m: make(map[string]uint64),
	}
}

func (m *Metrics) Inc(name string) {
	if m == nil {
		return
	}
	m.mu.Lock()
	m.m[name]++
	m.mu.Unlock()
}

func (m *Metrics) Get(name string) uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.m[name]
}

func (m *Metrics) Snapshot() map[string]uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]uint64, len(m.m))
	for k, v := range m.m {
		out[k] = v
	}
	return out
}
