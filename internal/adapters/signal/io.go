package signal

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/avdeev/peerdrop/internal/core"
	"github.com/avdeev/peerdrop/internal/domain"
	"github.com/avdeev/peerdrop/internal/metrics"
)

// writePump serializes all socket writes for one connection: outbound
// envelopes from the send channel plus keepalive pings. Messages queued on
// the channel go out in order, which gives FIFO delivery per connection.
func (ctl *Controller) writePump(ctx context.Context, cancel context.CancelFunc, c *wsConn) {
	ticker := time.NewTicker(ctl.cfg.PingPeriod)
	defer func() {
		ticker.Stop()
		cancel()
		c.Close()
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-c.send:
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.SetWriteDeadline(time.Now().Add(ctl.cfg.WriteWait)); err != nil {
				log.Error().Err(err).Str("module", "signal").Msg("writePump set deadline")
				return
			}
			if err := c.conn.WriteJSON(msg); err != nil {
				log.Error().Err(err).Str("module", "signal").Msg("writePump write error")
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(ctl.cfg.WriteWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump reads inbound envelopes and hands them to the router. It owns the
// connection's teardown: when the read loop exits, the close transition runs
// exactly once for this session.
func (ctl *Controller) readPump(ctx context.Context, sid domain.SessionID, c *wsConn) {
	defer func() {
		log.Info().Str("module", "signal").Str("sid", string(sid)).Msg("readPump closing")
		ctl.Router.OnClose(sid)
		c.Close()
	}()

	limiter := NewMessageRateLimiter(ctl.cfg.MsgRateLimit, ctl.cfg.MsgRateInterval)

	c.conn.SetReadLimit(ctl.cfg.ReadLimit)
	_ = c.conn.SetReadDeadline(time.Now().Add(ctl.cfg.PongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(ctl.cfg.PongWait))
	})

	for {
		select {
		case <-ctx.Done():
			return
		default:
			_, data, err := c.conn.ReadMessage()
			if err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					log.Warn().Err(err).Str("module", "signal").Str("sid", string(sid)).Msg("readPump read error")
				}
				return
			}
			if !limiter.Allow() {
				ctl.Router.Metrics.Inc(metrics.EventRateLimited)
				log.Warn().Str("module", "signal").Str("sid", string(sid)).Msg("message rate limit exceeded, dropping")
				continue
			}
			var msg core.Message
			if err := json.Unmarshal(data, &msg); err != nil {
				log.Error().Err(err).Str("module", "signal").Str("sid", string(sid)).Msg("bad json")
				continue
			}
			ctl.Router.OnMessage(sid, msg)
		}
	}
}
