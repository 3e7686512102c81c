// Package domain contains entities without logic, just meta-data.
package domain

type (
	// RoomID names a group of connections permitted to signal each other.
	RoomID string

	// SessionID identifies one live signaling connection. It is assigned by
	// the transport adapter and stable for the connection's lifetime.
	SessionID string
)

// Room holds the participant set of one room. No locking here; the app
// registry owns all concurrent access.
type Room struct {
	ID           RoomID
	Participants map[SessionID]struct{}
}

func NewRoom(id RoomID) *Room {
	return &Room{
		ID:           id,
		Participants: make(map[SessionID]struct{}),
	}
}

func (r *Room) AddParticipant(sid SessionID) {
	r.Participants[sid] = struct{}{}
}

func (r *Room) RemoveParticipant(sid SessionID) {
	delete(r.Participants, sid)
}

func (r *Room) Empty() bool {
	return len(r.Participants) == 0
}
