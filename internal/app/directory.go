package app

import (
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/studycall/signaling/internal/core"
	"github.com/studycall/signaling/internal/domain"
)

// Directory owns the mapping from room id to its current member ids.
// Member order is join order; broadcasts and participant lists derive
// from it. Rooms are created lazily on first Add and linger while empty
// until Sweep collects them (an empty room is indistinguishable from a
// non-existent one).
type Directory struct {
	mu    sync.RWMutex
	rooms map[domain.RoomID][]core.ConnID
}

func NewDirectory() *Directory {
	return &Directory{rooms: make(map[domain.RoomID][]core.ConnID)}
}

// Add inserts the connection into the room, creating the room on first
// use. Idempotent: inserting an id twice keeps a single entry in place.
func (d *Directory) Add(room domain.RoomID, id core.ConnID) {
	d.mu.Lock()
	defer d.mu.Unlock()
	members := d.rooms[room]
	for _, m := range members {
		if m == id {
			return
		}
	}
	d.rooms[room] = append(members, id)
	log.Debug().Str("module", "app.directory").Str("room", string(room)).Str("conn", string(id)).Msg("member added")
}

// Remove drops the connection from the room if present. The room entry
// itself survives even when it becomes empty.
func (d *Directory) Remove(room domain.RoomID, id core.ConnID) {
	d.mu.Lock()
	defer d.mu.Unlock()
	members := d.rooms[room]
	for i, m := range members {
		if m == id {
			d.rooms[room] = append(members[:i], members[i+1:]...)
			return
		}
	}
}

// Members returns a copy of the room's member ids in join order. Unknown
// rooms yield an empty slice, never an error. Callers iterate the copy,
// so a leave triggered mid-fan-out cannot corrupt the iteration.
func (d *Directory) Members(room domain.RoomID) []core.ConnID {
	d.mu.RLock()
	defer d.mu.RUnlock()
	members := d.rooms[room]
	out := make([]core.ConnID, len(members))
	copy(out, members)
	return out
}

// Sweep deletes rooms whose membership is empty and reports how many were
// collected. Observationally a no-op for clients.
func (d *Directory) Sweep() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	removed := 0
	for room, members := range d.rooms {
		if len(members) == 0 {
			delete(d.rooms, room)
			removed++
		}
	}
	return removed
}
