package app

import (
	"github.com/rs/zerolog/log"

	"github.com/avdeev/peerdrop/internal/core"
	"github.com/avdeev/peerdrop/internal/domain"
	"github.com/avdeev/peerdrop/internal/metrics"
)

// Router is the signaling state machine. The transport adapter calls
// OnConnect / OnMessage / OnClose; the router consults the registries and
// decides which envelopes to emit and to whom.
//
// Handlers for different connections run concurrently; the registries do
// their own locking and no lock is held while fanning out sends.
type Router struct {
	Registry *Registry
	Rooms    *Rooms
	Metrics  *metrics.Metrics
}

func NewRouter(reg *Registry, rooms *Rooms, m *metrics.Metrics) *Router {
	return &Router{
		Registry: reg,
		Rooms:    rooms,
		Metrics:  m,
	}
}

func (rt *Router) OnConnect(sid domain.SessionID, conn core.SignalConnection) {
	rt.Registry.Register(sid, conn)
	rt.Metrics.Inc(metrics.EventConnected)
}

func (rt *Router) OnMessage(sid domain.SessionID, msg core.Message) {
	switch msg.Type {
	case core.TypeCreateRoom:
		rt.handleCreateRoom(sid, msg)
	case core.TypeJoinRoom:
		rt.handleJoinRoom(sid, msg)
	case core.TypeOffer, core.TypeAnswer, core.TypeICECandidate:
		rt.forward(sid, msg)
	default:
		rt.Metrics.Inc(metrics.EventUnknownType)
		log.Warn().Str("module", "app.router").Str("sid", string(sid)).
			Str("type", string(msg.Type)).Msg("unknown message type")
	}
}

// OnClose tears down a connection: remaining room mates get a peer-left
// notification, then both registries forget the session. Idempotent.
func (rt *Router) OnClose(sid domain.SessionID) {
	roomID, peers, ok := rt.Rooms.RemoveParticipant(sid)
	if ok {
		for _, peer := range peers {
			rt.Registry.Send(peer, core.Message{
				Type:   core.TypePeerLeft,
				From:   sid,
				RoomID: roomID,
			})
		}
	}
	rt.Registry.Unregister(sid)
	rt.Metrics.Inc(metrics.EventDisconnected)
}

func (rt *Router) handleCreateRoom(sid domain.SessionID, msg core.Message) {
	// Creating while affiliated is an implicit leave.
	rt.leaveCurrentRoom(sid)

	roomID := msg.RoomID
	rt.Rooms.CreateRoom(roomID)
	rt.Rooms.AddParticipant(roomID, sid)

	rt.Registry.Send(sid, core.Message{
		Type:   core.TypeRoomCreated,
		RoomID: roomID,
		PeerID: domain.NewPeerID(),
	})
	rt.Metrics.Inc(metrics.EventRoomCreated)
	log.Info().Str("module", "app.router").Str("sid", string(sid)).
		Str("room", string(roomID)).Msg("room created")
}

func (rt *Router) handleJoinRoom(sid domain.SessionID, msg core.Message) {
	roomID := msg.RoomID
	if !rt.Rooms.Exists(roomID) {
		rt.Metrics.Inc(metrics.EventJoinMissingRoom)
		log.Warn().Str("module", "app.router").Str("sid", string(sid)).
			Str("room", string(roomID)).Msg("join failed, room does not exist")
		rt.Registry.Send(sid, core.ErrorMessage("Room doesn't exist"))
		return
	}

	// Joining while affiliated with another room is an implicit leave.
	// Rejoining the current room is just a re-add.
	if cur, ok := rt.Rooms.RoomBySession(sid); !ok || cur != roomID {
		rt.leaveCurrentRoom(sid)
	}

	peers, ok := rt.Rooms.AddParticipant(roomID, sid)
	if !ok {
		// Room emptied out between the existence check and the add.
		rt.Metrics.Inc(metrics.EventJoinMissingRoom)
		rt.Registry.Send(sid, core.ErrorMessage("Room doesn't exist"))
		return
	}

	rt.Registry.Send(sid, core.Message{
		Type:   core.TypeRoomJoined,
		RoomID: roomID,
		PeerID: domain.NewPeerID(),
	})

	// Pairwise symmetric fan-out: every existing participant learns about the
	// joiner and vice versa, one envelope per pair in each direction. Pairs
	// with an unreachable existing participant are skipped entirely.
	for _, peer := range peers {
		if rt.Registry.Send(peer, core.Message{Type: core.TypeNewPeer, From: sid, RoomID: roomID}) {
			rt.Registry.Send(sid, core.Message{Type: core.TypeNewPeer, From: peer, RoomID: roomID})
		}
	}

	rt.Metrics.Inc(metrics.EventRoomJoined)
	log.Info().Str("module", "app.router").Str("sid", string(sid)).
		Str("room", string(roomID)).Int("peers", len(peers)).Msg("joined room")
}

// forward relays offer/answer/ice-candidate envelopes verbatim to msg.To,
// rewriting From to the actual sender. Unreachable recipients are a silent
// drop; the sender is not told.
func (rt *Router) forward(sid domain.SessionID, msg core.Message) {
	out := core.Message{
		Type:   msg.Type,
		From:   sid,
		To:     msg.To,
		RoomID: msg.RoomID,
		Data:   msg.Data,
	}
	if rt.Registry.Send(msg.To, out) {
		rt.Metrics.Inc(metrics.EventForwarded)
		return
	}
	rt.Metrics.Inc(metrics.EventForwardDropped)
	log.Debug().Str("module", "app.router").Str("sid", string(sid)).
		Str("to", string(msg.To)).Str("type", string(msg.Type)).Msg("recipient unreachable, dropped")
}

// leaveCurrentRoom removes sid from its room, if any, and notifies the
// remaining participants.
func (rt *Router) leaveCurrentRoom(sid domain.SessionID) {
	roomID, peers, ok := rt.Rooms.RemoveParticipant(sid)
	if !ok {
		return
	}
	for _, peer := range peers {
		rt.Registry.Send(peer, core.Message{
			Type:   core.TypePeerLeft,
			From:   sid,
			RoomID: roomID,
		})
	}
}
