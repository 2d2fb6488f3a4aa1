package app

import (
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/studycall/signaling/internal/core"
	"github.com/studycall/signaling/internal/domain"
)

// Presence coordinates the join/leave lifecycle. It is the only writer of
// the Registry and Directory, and it holds its mutex across a transition
// and the fan-out that transition produces, so the events of one trigger
// (user-joined followed by participants, for example) are never
// interleaved with another connection's transition in the same room.
// Fan-out never blocks, so the critical section is bounded by room size.
type Presence struct {
	mu       sync.Mutex
	registry *Registry
	dir      *Directory
	cast     *Broadcaster

	connMu sync.RWMutex
	conns  map[core.ConnID]core.SignalConnection

	rooms map[core.ConnID]domain.RoomID
}

func NewPresence(registry *Registry, dir *Directory) *Presence {
	p := &Presence{
		registry: registry,
		dir:      dir,
		conns:    make(map[core.ConnID]core.SignalConnection),
		rooms:    make(map[core.ConnID]domain.RoomID),
	}
	p.cast = NewBroadcaster(dir, p)
	return p
}

// Bind associates a freshly accepted transport connection with its id.
func (p *Presence) Bind(id core.ConnID, conn core.SignalConnection) {
	p.connMu.Lock()
	defer p.connMu.Unlock()
	p.conns[id] = conn
}

// Conn implements ConnSource for the Broadcaster and the Relay.
func (p *Presence) Conn(id core.ConnID) (core.SignalConnection, bool) {
	p.connMu.RLock()
	defer p.connMu.RUnlock()
	conn, ok := p.conns[id]
	return conn, ok
}

// Join puts the connection into the room, creating the room on first use.
// A connection already in a room is first taken through a full implicit
// leave of that room, so an id occupies at most one membership set at a
// time. The room then learns of the newcomer (user-joined to everyone
// else, addressed individually) and every member, joiner included, gets
// the refreshed participant list.
func (p *Presence) Join(id core.ConnID, room domain.RoomID, user domain.UserID, name string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if prev, ok := p.rooms[id]; ok {
		log.Info().Str("module", "app.presence").Str("conn", string(id)).Str("from_room", string(prev)).Msg("implicit leave before join")
		p.leaveLocked(id, prev)
	}

	p.registry.Register(id, user, name)
	p.dir.Add(room, id)
	p.rooms[id] = room
	log.Info().Str("module", "app.presence").Str("conn", string(id)).Str("user", string(user)).Str("room", string(room)).Msg("joined")

	p.cast.ToOthers(room, id, core.UserJoinedEvent{
		Type:         core.EventUserJoined,
		ConnectionID: id,
		UserID:       user,
		Name:         name,
	})
	p.cast.ToAll(room, p.participantsEvent(room))
}

// UpdateState merges the flags into the connection's registry state and
// rebroadcasts the merged state to the rest of its room. The sender gets
// no echo. Updates from connections with no room are dropped silently.
func (p *Presence) UpdateState(id core.ConnID, patch domain.State) {
	p.mu.Lock()
	defer p.mu.Unlock()

	room, ok := p.rooms[id]
	if !ok {
		log.Debug().Str("module", "app.presence").Str("conn", string(id)).Msg("state-update without room")
		return
	}
	merged, ok := p.registry.UpdateState(id, patch)
	if !ok {
		return
	}

	// The wire shape flattens merged state next to the envelope fields.
	// Envelope keys win over client-chosen flag names.
	ev := make(map[string]any, len(merged)+2)
	for k, v := range merged {
		ev[k] = v
	}
	ev["type"] = core.EventStateUpdate
	ev["connectionId"] = string(id)
	p.cast.ToOthers(room, id, ev)
}

// Chat forwards the original frame verbatim to every member of the named
// room, sender included. The payload is trusted the same way relay
// targets are: the caller names a room it discovered legitimately.
func (p *Presence) Chat(id core.ConnID, room domain.RoomID, frame core.Frame) {
	p.mu.Lock()
	defer p.mu.Unlock()
	log.Debug().Str("module", "app.presence").Str("conn", string(id)).Str("room", string(room)).Msg("chat")
	p.cast.Raw(room, frame)
}

// Leave removes the connection from its room and tells the remaining
// members (user-left, then the refreshed participant list). A connection
// that never joined is a no-op.
func (p *Presence) Leave(id core.ConnID) {
	p.mu.Lock()
	defer p.mu.Unlock()
	room, ok := p.rooms[id]
	if !ok {
		return
	}
	p.leaveLocked(id, room)
}

// Disconnect is the liveness path: transport closure has the identical
// visible effect as an explicit leave, then the transport binding goes
// away too. Safe to call more than once.
func (p *Presence) Disconnect(id core.ConnID) {
	p.Leave(id)
	p.connMu.Lock()
	delete(p.conns, id)
	p.connMu.Unlock()
	log.Info().Str("module", "app.presence").Str("conn", string(id)).Msg("disconnected")
}

func (p *Presence) leaveLocked(id core.ConnID, room domain.RoomID) {
	p.dir.Remove(room, id)
	p.registry.Remove(id)
	delete(p.rooms, id)
	log.Info().Str("module", "app.presence").Str("conn", string(id)).Str("room", string(room)).Msg("left")

	p.cast.ToAll(room, core.UserLeftEvent{Type: core.EventUserLeft, ConnectionID: id})
	p.cast.ToAll(room, p.participantsEvent(room))
}

func (p *Presence) participantsEvent(room domain.RoomID) core.ParticipantsEvent {
	members := p.dir.Members(room)
	list := make([]core.Participant, 0, len(members))
	for _, id := range members {
		if snap, ok := p.registry.Get(id); ok {
			list = append(list, snap)
		}
	}
	return core.ParticipantsEvent{Type: core.EventParticipants, Participants: list}
}
