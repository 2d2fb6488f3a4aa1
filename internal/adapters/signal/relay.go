package signal

import (
	"encoding/json"

	"github.com/rs/zerolog/log"

	"github.com/studycall/signaling/internal/core"
)

func (ctl *Controller) handleSignal(s *session, data []byte) {
	var p struct {
		To   string          `json:"to"`
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad signal payload")
		return
	}
	if p.To == "" {
		log.Debug().Str("module", "signal").Str("conn", string(s.id)).Msg("signal without target")
		return
	}
	ctl.relay.Forward(s.id, core.ConnID(p.To), p.Data)
}
