package domain

import "github.com/google/uuid"

// PeerID is the client-facing token issued on room creation/join. It is
// advisory only; routing always keys on the session id.
type PeerID string

func NewPeerID() PeerID {
	return PeerID(uuid.NewString())
}
