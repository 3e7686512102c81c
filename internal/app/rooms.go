package app

import (
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/avdeev/peerdrop/internal/domain"
)

// Rooms owns the room set and the reverse index from session to room.
// One mutex guards both maps so every logical operation is a single
// critical section and no reader can observe them out of sync.
//
// Invariants:
//   - a room id is present iff its participant set is non-empty
//   - sessionToRoom[sid] = id iff sid is a participant of rooms[id]
//   - each session is associated with at most one room
type Rooms struct {
	mu            sync.RWMutex
	rooms         map[domain.RoomID]*domain.Room
	sessionToRoom map[domain.SessionID]domain.RoomID
}

func NewRooms() *Rooms {
	return &Rooms{
		rooms:         make(map[domain.RoomID]*domain.Room),
		sessionToRoom: make(map[domain.SessionID]domain.RoomID),
	}
}

// CreateRoom unconditionally creates a fresh room, replacing any existing
// room with the same id. Participants of the replaced room lose their
// association and become unaffiliated.
func (r *Rooms) CreateRoom(id domain.RoomID) *domain.Room {
	r.mu.Lock()
	defer r.mu.Unlock()
	if old, ok := r.rooms[id]; ok {
		for sid := range old.Participants {
			delete(r.sessionToRoom, sid)
		}
		log.Warn().Str("module", "app.rooms").Str("room", string(id)).
			Int("evicted", len(old.Participants)).Msg("replacing existing room")
	}
	room := domain.NewRoom(id)
	r.rooms[id] = room
	log.Info().Str("module", "app.rooms").Str("room", string(id)).Msg("created room")
	return room
}

func (r *Rooms) Exists(id domain.RoomID) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.rooms[id]
	return ok
}

// AddParticipant adds sid to the room and records the reverse index entry,
// returning a snapshot of the other participants. If the room does not
// exist this is a no-op and ok is false.
func (r *Rooms) AddParticipant(id domain.RoomID, sid domain.SessionID) (peers []domain.SessionID, ok bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	room, exists := r.rooms[id]
	if !exists {
		return nil, false
	}
	peers = make([]domain.SessionID, 0, len(room.Participants))
	for other := range room.Participants {
		if other != sid {
			peers = append(peers, other)
		}
	}
	room.AddParticipant(sid)
	r.sessionToRoom[sid] = id
	return peers, true
}

// RemoveParticipant takes sid out of its room and deletes the room once it
// empties. It returns the room left and a snapshot of the remaining
// participants. Calling with an unassociated sid is a no-op.
func (r *Rooms) RemoveParticipant(sid domain.SessionID) (id domain.RoomID, peers []domain.SessionID, ok bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id, ok = r.sessionToRoom[sid]
	if !ok {
		return "", nil, false
	}
	delete(r.sessionToRoom, sid)
	room, exists := r.rooms[id]
	if !exists {
		return id, nil, true
	}
	room.RemoveParticipant(sid)
	if room.Empty() {
		delete(r.rooms, id)
		log.Info().Str("module", "app.rooms").Str("room", string(id)).Msg("deleted empty room")
		return id, nil, true
	}
	peers = make([]domain.SessionID, 0, len(room.Participants))
	for other := range room.Participants {
		peers = append(peers, other)
	}
	return id, peers, true
}

// RoomBySession is the reverse lookup from session to room.
func (r *Rooms) RoomBySession(sid domain.SessionID) (domain.RoomID, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.sessionToRoom[sid]
	return id, ok
}

// Participants returns a snapshot of a room's membership.
func (r *Rooms) Participants(id domain.RoomID) ([]domain.SessionID, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	room, ok := r.rooms[id]
	if !ok {
		return nil, false
	}
	out := make([]domain.SessionID, 0, len(room.Participants))
	for sid := range room.Participants {
		out = append(out, sid)
	}
	return out, true
}

func (r *Rooms) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.rooms)
}
