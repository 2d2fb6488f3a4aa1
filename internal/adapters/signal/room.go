package signal

import (
	"encoding/json"

	"github.com/rs/zerolog/log"

	"github.com/studycall/signaling/internal/domain"
)

func (ctl *Controller) handleJoin(s *session, data []byte) {
	var p struct {
		Type   string `json:"type"`
		RoomID string `json:"roomId"`
		UserID string `json:"userId"`
		Name   string `json:"name,omitempty"`
	}
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad join payload")
		return
	}
	if p.RoomID == "" {
		log.Debug().Str("module", "signal").Str("conn", string(s.id)).Msg("join without room id")
		return
	}

	user := p.UserID
	if user == "" {
		user = s.fallbackUser
	}
	name := p.Name
	if len(name) > domain.MaxDisplayNameLen {
		name = name[:domain.MaxDisplayNameLen]
	}

	log.Info().Str("module", "signal").Str("conn", string(s.id)).Str("room", p.RoomID).Msg("join")
	ctl.presence.Join(s.id, domain.RoomID(p.RoomID), domain.UserID(user), name)
}

func (ctl *Controller) handleChat(s *session, data []byte) {
	var p struct {
		RoomID string `json:"roomId"`
	}
	if err := json.Unmarshal(data, &p); err != nil || p.RoomID == "" {
		log.Debug().Str("module", "signal").Str("conn", string(s.id)).Msg("chat without room id")
		return
	}
	// Forwarded verbatim, sender included.
	ctl.presence.Chat(s.id, domain.RoomID(p.RoomID), data)
}
