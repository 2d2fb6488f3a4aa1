package signal

import (
	"encoding/json"

	"github.com/rs/zerolog/log"

	"github.com/studycall/signaling/internal/domain"
)

func (ctl *Controller) handleStateUpdate(s *session, data []byte) {
	var patch domain.State
	if err := json.Unmarshal(data, &patch); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad state-update payload")
		return
	}
	// "type" is the envelope, not a published flag.
	delete(patch, "type")
	if len(patch) == 0 {
		return
	}
	ctl.presence.UpdateState(s.id, patch)
}
