package app

import (
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/studycall/signaling/internal/core"
	"github.com/studycall/signaling/internal/domain"
)

type regEntry struct {
	user  domain.UserID
	name  string
	state domain.State
}

// Registry owns the per-connection presence state of joined participants.
// Every mutation on an unknown connection id degrades to a silent no-op:
// a state-update can race with a disconnect, and that race is benign.
type Registry struct {
	mu      sync.RWMutex
	entries map[core.ConnID]*regEntry
}

func NewRegistry() *Registry {
	return &Registry{entries: make(map[core.ConnID]*regEntry)}
}

// Register creates an entry with empty state. Re-registering replaces the
// previous entry; connection ids are transport-unique so this only happens
// on a same-connection rejoin.
func (r *Registry) Register(id core.ConnID, user domain.UserID, name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[id] = &regEntry{user: user, name: name, state: make(domain.State)}
	log.Debug().Str("module", "app.registry").Str("conn", string(id)).Str("user", string(user)).Msg("registered")
}

// UpdateState shallow-merges patch into the entry's state and returns a
// snapshot of the merged state. Returns false for unknown connections.
func (r *Registry) UpdateState(id core.ConnID, patch domain.State) (domain.State, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[id]
	if !ok {
		return nil, false
	}
	e.state.Merge(patch)
	return e.state.Clone(), true
}

// Remove deletes the entry. No error if absent.
func (r *Registry) Remove(id core.ConnID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.entries, id)
}

// Get returns a participant snapshot for the connection, or false if it
// has no registry entry.
func (r *Registry) Get(id core.ConnID) (core.Participant, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[id]
	if !ok {
		return core.Participant{}, false
	}
	return core.Participant{
		ConnectionID: id,
		UserID:       e.user,
		Name:         e.name,
		State:        e.state.Clone(),
	}, true
}
