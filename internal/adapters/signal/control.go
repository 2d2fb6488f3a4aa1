package signal

import "github.com/studycall/signaling/internal/core"

func (ctl *Controller) handlePing(s *session) {
	resp := struct {
		Type string `json:"type"`
	}{
		Type: core.EventPong,
	}
	ctl.sendJSON(s.conn, resp)
}
