package app

import (
	"encoding/json"

	"github.com/rs/zerolog/log"

	"github.com/studycall/signaling/internal/core"
	"github.com/studycall/signaling/internal/domain"
	"github.com/studycall/signaling/internal/infrastructure/metrics"
)

// ConnSource resolves a connection id to its live transport endpoint.
// Implemented by Presence; the transport adapter stays the actual owner
// of the sockets.
type ConnSource interface {
	Conn(id core.ConnID) (core.SignalConnection, bool)
}

// Broadcaster fans room-scoped events out to current members. Delivery is
// fire-and-forget: sends never block, and a slow or vanished member is
// skipped rather than surfaced to the sender.
type Broadcaster struct {
	dir   *Directory
	conns ConnSource
}

func NewBroadcaster(dir *Directory, conns ConnSource) *Broadcaster {
	return &Broadcaster{dir: dir, conns: conns}
}

// ToAll sends the event to every member of the room.
func (b *Broadcaster) ToAll(room domain.RoomID, ev any) {
	frame, err := json.Marshal(ev)
	if err != nil {
		log.Error().Err(err).Str("module", "app.broadcast").Msg("marshal event")
		return
	}
	b.fanOut(room, frame, "")
}

// ToOthers sends the event to every member of the room except from,
// so a sender's own action is not echoed back to it.
func (b *Broadcaster) ToOthers(room domain.RoomID, from core.ConnID, ev any) {
	frame, err := json.Marshal(ev)
	if err != nil {
		log.Error().Err(err).Str("module", "app.broadcast").Msg("marshal event")
		return
	}
	b.fanOut(room, frame, from)
}

// Raw sends an already-framed payload verbatim to every member of the
// room. Used for chat, which is forwarded without re-encoding.
func (b *Broadcaster) Raw(room domain.RoomID, frame core.Frame) {
	b.fanOut(room, frame, "")
}

func (b *Broadcaster) fanOut(room domain.RoomID, frame core.Frame, exclude core.ConnID) {
	for _, id := range b.dir.Members(room) {
		if id == exclude {
			continue
		}
		conn, ok := b.conns.Conn(id)
		if !ok {
			continue
		}
		if err := conn.TrySend(frame); err != nil {
			metrics.BroadcastDrops.Inc()
			log.Debug().Err(err).Str("module", "app.broadcast").Str("room", string(room)).Str("conn", string(id)).Msg("dropped frame")
		}
	}
}
