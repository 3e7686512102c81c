package core

import (
	"encoding/json"

	"github.com/avdeev/peerdrop/internal/domain"
)

type MessageType string

// Client to relay.
const (
	TypeCreateRoom   MessageType = "create-room"
	TypeJoinRoom     MessageType = "join-room"
	TypeOffer        MessageType = "offer"
	TypeAnswer       MessageType = "answer"
	TypeICECandidate MessageType = "ice-candidate"
)

// Relay to client.
const (
	TypeRoomCreated MessageType = "room-created"
	TypeRoomJoined  MessageType = "room-joined"
	TypeNewPeer     MessageType = "new-peer"
	TypePeerLeft    MessageType = "peer-left"
	TypeError       MessageType = "error"
)

// Message is the wire envelope exchanged with clients. Data is opaque to the
// relay and forwarded as-is; absent fields are omitted on the wire.
type Message struct {
	Type   MessageType      `json:"type"`
	From   domain.SessionID `json:"from,omitempty"`
	To     domain.SessionID `json:"to,omitempty"`
	RoomID domain.RoomID    `json:"roomId,omitempty"`
	PeerID domain.PeerID    `json:"peerId,omitempty"`
	Data   json.RawMessage  `json:"data,omitempty"`
}

// ErrorMessage wraps a plain string into an error envelope's data payload.
func ErrorMessage(text string) Message {
	data, _ := json.Marshal(text)
	return Message{Type: TypeError, Data: data}
}
