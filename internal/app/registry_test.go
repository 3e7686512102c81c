package app

import (
	"errors"
	"sync"
	"testing"

	"github.com/avdeev/peerdrop/internal/core"
)

// fakeConn records everything sent to it; closing makes TrySend fail the way
// the websocket adapter's wrapper does.
type fakeConn struct {
	mu     sync.Mutex
	closed bool
	sent   []core.Message
}

func (c *fakeConn) TrySend(msg core.Message) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return errors.New("connection closed")
	}
	c.sent = append(c.sent, msg)
	return nil
}

func (c *fakeConn) Close() {
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()
}

func (c *fakeConn) messages() []core.Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]core.Message, len(c.sent))
	copy(out, c.sent)
	return out
}

func (c *fakeConn) ofType(t core.MessageType) []core.Message {
	var out []core.Message
	for _, m := range c.messages() {
		if m.Type == t {
			out = append(out, m)
		}
	}
	return out
}

func TestRegistry_RegisterLookupUnregister(t *testing.T) {
	r := NewRegistry()
	conn := &fakeConn{}

	r.Register("a", conn)
	if got, ok := r.Lookup("a"); !ok || got != core.SignalConnection(conn) {
		t.Fatalf("expected lookup to return the registered handle")
	}
	if r.Count() != 1 {
		t.Fatalf("expected one session, got %d", r.Count())
	}

	r.Unregister("a")
	if _, ok := r.Lookup("a"); ok {
		t.Fatalf("expected lookup to miss after unregister")
	}

	// Idempotent.
	r.Unregister("a")
}

func TestRegistry_SendDropsOnAbsentOrClosed(t *testing.T) {
	r := NewRegistry()

	if r.Send("ghost", core.Message{Type: core.TypeOffer}) {
		t.Fatalf("expected send to an absent session to report a drop")
	}

	conn := &fakeConn{}
	conn.Close()
	r.Register("a", conn)
	if r.Send("a", core.Message{Type: core.TypeOffer}) {
		t.Fatalf("expected send to a closed connection to report a drop")
	}
	if len(conn.messages()) != 0 {
		t.Fatalf("expected no message recorded on a closed connection")
	}
}

func TestRegistry_SendDelivers(t *testing.T) {
	r := NewRegistry()
	conn := &fakeConn{}
	r.Register("a", conn)

	if !r.Send("a", core.Message{Type: core.TypeNewPeer, From: "b"}) {
		t.Fatalf("expected send to a live connection to succeed")
	}
	msgs := conn.messages()
	if len(msgs) != 1 || msgs[0].Type != core.TypeNewPeer || msgs[0].From != "b" {
		t.Fatalf("unexpected delivered messages: %v", msgs)
	}
}
