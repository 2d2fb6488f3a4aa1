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

	"github.com/studycall/signaling/internal/app"
	"github.com/studycall/signaling/internal/config"
	"github.com/studycall/signaling/internal/core"
	"github.com/studycall/signaling/internal/infrastructure/metrics"
)

var ErrBackpressure = errors.New("backpressure")

// Controller terminates signaling WebSockets and routes client events
// into the presence coordinator and the relay.
type Controller struct {
	presence *app.Presence
	relay    *app.Relay
	cfg      *config.Config
}

func NewController(presence *app.Presence, relay *app.Relay, cfg *config.Config) *Controller {
	return &Controller{presence: presence, relay: relay, cfg: cfg}
}

// session is the per-connection handler context.
type session struct {
	id   core.ConnID
	conn core.SignalConnection

	// fallbackUser is the sticky client token, used as the user id when
	// a join carries none.
	fallbackUser string
}

type wsConn struct {
	conn *websocket.Conn
	send chan core.Frame

	mu     sync.RWMutex
	closed bool
}

func (c *wsConn) TrySend(f core.Frame) error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return errors.New("connection closed")
	}
	select {
	case c.send <- f:
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

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// HandleWS upgrades the request, assigns the connection id, announces it
// to the client and runs the read loop until the transport closes.
func (ctl *Controller) HandleWS(ctx context.Context, c *gin.Context) {
	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("ws upgrade")
		return
	}

	id := core.ConnID(uuid.NewString())
	conn := &wsConn{conn: ws, send: make(chan core.Frame, ctl.cfg.SendBuffer)}
	s := &session{id: id, conn: conn, fallbackUser: c.GetString("client_token")}

	ctl.presence.Bind(id, conn)
	metrics.ActiveConnections.Inc()
	log.Info().Str("module", "signal").Str("conn", string(id)).Msg("new WS connection")

	ctl.sendJSON(conn, core.WelcomeEvent{Type: core.EventWelcome, ConnectionID: id})

	ctx, cancel := context.WithCancel(ctx)
	go ctl.writePump(ctx, conn)
	ctl.readPump(cancel, s, conn)
}
