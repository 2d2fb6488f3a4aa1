package app

import (
	"encoding/json"

	"github.com/rs/zerolog/log"

	"github.com/studycall/signaling/internal/core"
	"github.com/studycall/signaling/internal/infrastructure/metrics"
)

// Relay forwards opaque signaling payloads (SDP offers/answers, ICE
// candidates) point-to-point between connections. It never parses the
// payload, performs no membership check, and drops silently when the
// target is gone: the peer may have disconnected between discovery and
// send, and that race is benign.
type Relay struct {
	conns ConnSource
}

func NewRelay(conns ConnSource) *Relay {
	return &Relay{conns: conns}
}

// Forward delivers data to exactly the connection named by to, tagged
// with the sender's connection id. The from id is server-controlled,
// never client-supplied.
func (r *Relay) Forward(from, to core.ConnID, data json.RawMessage) {
	conn, ok := r.conns.Conn(to)
	if !ok {
		metrics.SignalsDropped.Inc()
		log.Debug().Str("module", "app.relay").Str("from", string(from)).Str("to", string(to)).Msg("target gone")
		return
	}

	frame, err := json.Marshal(core.SignalEvent{
		Type:             core.EventSignal,
		FromConnectionID: from,
		Data:             data,
	})
	if err != nil {
		log.Error().Err(err).Str("module", "app.relay").Msg("marshal signal")
		return
	}

	if err := conn.TrySend(frame); err != nil {
		metrics.SignalsDropped.Inc()
		log.Debug().Err(err).Str("module", "app.relay").Str("from", string(from)).Str("to", string(to)).Msg("dropped signal")
		return
	}
	metrics.SignalsRelayed.Inc()
}
