package signal

import (
	"context"
	"errors"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/avdeev/peerdrop/internal/app"
	"github.com/avdeev/peerdrop/internal/config"
	"github.com/avdeev/peerdrop/internal/core"
	"github.com/avdeev/peerdrop/internal/domain"
)

var (
	ErrBackpressure = errors.New("backpressure")
	ErrClosed       = errors.New("connection closed")
)

// Controller owns the WebSocket signaling endpoint: it upgrades requests,
// assigns session ids and feeds connection events to the router.
type Controller struct {
	Router *app.Router

	cfg      *config.Config
	upgrader websocket.Upgrader
}

func NewController(cfg *config.Config, router *app.Router) *Controller {
	return &Controller{
		Router: router,
		cfg:    cfg,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// wsConn wraps one websocket connection behind a buffered send channel so
// TrySend never blocks a fan-out. The write pump is the only goroutine that
// touches the socket for writes.
type wsConn struct {
	conn *websocket.Conn
	send chan core.Message

	mu     sync.RWMutex
	closed bool
}

func (c *wsConn) TrySend(msg core.Message) error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return ErrClosed
	}
	select {
	case c.send <- msg:
	default:
		return ErrBackpressure
	}
	return nil
}

func (c *wsConn) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	close(c.send)
	_ = c.conn.Close()
	c.mu.Unlock()
}

// HandleSignal upgrades the request and starts the connection's pumps. The
// session id is a fresh opaque token, stable for the connection's lifetime.
func (ctl *Controller) HandleSignal(ctx context.Context, c *gin.Context) {
	ws, err := ctl.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("ws upgrade")
		return
	}

	sid := domain.SessionID(uuid.NewString())
	log.Info().Str("module", "signal").Str("sid", string(sid)).Msg("new WS connection")

	conn := &wsConn{
		conn: ws,
		send: make(chan core.Message, ctl.cfg.SendBuffer),
	}

	ctl.Router.OnConnect(sid, conn)

	ctx, cancel := context.WithCancel(ctx)
	go ctl.writePump(ctx, cancel, conn)
	go ctl.readPump(ctx, sid, conn)
}
