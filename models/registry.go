package models

import (
	"sort"
	"sync"

	"kingdoms/pkg/protocol"
)

// Registry tracks every connected player by uuid. The embedded lock guards
// the map and the fields of every Player it holds; lookups may take the read
// side. When a lobby lock is also needed the registry lock is acquired first.
type Registry struct {
	sync.RWMutex
	players map[string]*Player
}

// NewRegistry builds an empty registry.
func NewRegistry() *Registry {
	return &Registry{players: make(map[string]*Player)}
}

// Add inserts p. The caller must hold the lock.
func (r *Registry) Add(p *Player) {
	r.players[p.UUID] = p
}

// Get looks up a player by uuid. The caller must hold the lock.
func (r *Registry) Get(uuid string) (*Player, bool) {
	p, ok := r.players[uuid]
	return p, ok
}

// Remove deletes and returns the player, if present. The caller must hold
// the lock.
func (r *Registry) Remove(uuid string) (*Player, bool) {
	p, ok := r.players[uuid]
	if ok {
		delete(r.players, uuid)
	}
	return p, ok
}

// Len reports the number of connected players. The caller must hold the lock.
func (r *Registry) Len() int {
	return len(r.players)
}

// Each calls fn for every connected player. The caller must hold the lock.
func (r *Registry) Each(fn func(*Player)) {
	for _, p := range r.players {
		fn(p)
	}
}

// Roster snapshots every connected player's name and lobby, sorted by name so
// the payload is stable. The caller must hold the lock.
func (r *Registry) Roster() []protocol.RosterEntry {
	entries := make([]protocol.RosterEntry, 0, len(r.players))
	for _, p := range r.players {
		var lobby *int
		if p.Lobby != nil {
			id := *p.Lobby
			lobby = &id
		}
		entries = append(entries, protocol.RosterEntry{Name: p.Name, Lobby: lobby})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })
	return entries
}
