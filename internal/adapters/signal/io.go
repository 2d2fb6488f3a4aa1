package signal

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/studycall/signaling/internal/core"
	"github.com/studycall/signaling/internal/infrastructure/metrics"
)

const writeWait = 5 * time.Second

func (ctl *Controller) writePump(ctx context.Context, c *wsConn) {
	ticker := time.NewTicker(ctl.cfg.PingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case data, ok := <-c.send:
			if !ok {
				return
			}
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				log.Error().Err(err).Str("module", "signal").Msg("writePump set deadline")
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				log.Debug().Err(err).Str("module", "signal").Msg("writePump write error")
				return
			}
		case <-ticker.C:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				return
			}
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				log.Debug().Err(err).Str("module", "signal").Msg("writePump ping error")
				return
			}
		}
	}
}

// readPump owns the connection lifecycle: when the read side ends, for
// any reason, the connection goes through the same cleanup path as an
// explicit leave. A peer that stops answering pings times out via the
// read deadline and lands here too.
func (ctl *Controller) readPump(cancel context.CancelFunc, s *session, c *wsConn) {
	defer func() {
		cancel()
		ctl.presence.Disconnect(s.id)
		metrics.ActiveConnections.Dec()
		c.Close()
		log.Info().Str("module", "signal").Str("conn", string(s.id)).Msg("readPump closing")
	}()

	pongWait := ctl.cfg.PingPeriod * 10 / 9
	c.conn.SetReadLimit(ctl.cfg.ReadLimit)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			log.Debug().Err(err).Str("module", "signal").Str("conn", string(s.id)).Msg("readPump read error")
			return
		}
		ctl.dispatch(s, data)
	}
}

func (ctl *Controller) dispatch(s *session, data []byte) {
	var env struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &env); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad json")
		return
	}
	// Label values are capped to the known vocabulary; anything else is
	// counted as unknown so clients cannot mint metric series.
	label := env.Type

	switch env.Type {
	case core.EventJoinRoom:
		ctl.handleJoin(s, data)
	case core.EventStateUpdate:
		ctl.handleStateUpdate(s, data)
	case core.EventSignal:
		ctl.handleSignal(s, data)
	case core.EventChat:
		ctl.handleChat(s, data)
	case core.EventLeaveRoom:
		ctl.presence.Leave(s.id)
	case core.EventPing:
		ctl.handlePing(s)
	default:
		label = "unknown"
		log.Warn().Str("module", "signal").Str("type", env.Type).Msg("unknown event")
	}
	metrics.InboundEvents.WithLabelValues(label).Inc()
}

func (ctl *Controller) sendJSON(conn core.SignalConnection, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("sendJSON marshal")
		return
	}
	_ = conn.TrySend(b)
}
