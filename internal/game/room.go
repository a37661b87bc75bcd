package game

import (
	"slices"
	"strings"
	"sync"
)

// Exit is a one-way connection from a room toward a neighbouring room.
type Exit struct {
	Direction Direction
	Open      bool

	target *Room
}

// Target returns the room the exit leads to.
func (e *Exit) Target() *Room {
	return e.target
}

// Room is a single cell of a GameMap. Exits and occupants are guarded by the
// room's lock; name and description are fixed once the room is placed.
type Room struct {
	Name        string
	Description string

	gameMap *GameMap
	coord   Coord

	mu        sync.RWMutex
	exits     map[Direction]*Exit
	occupants map[string]*Character
	removed   bool
}

// NewRoom creates a room that is not yet placed on a map.
func NewRoom(name, description string) *Room {
	return &Room{
		Name:        name,
		Description: description,
		exits:       make(map[Direction]*Exit),
		occupants:   make(map[string]*Character),
	}
}

// Map returns the map the room belongs to.
func (r *Room) Map() *GameMap {
	return r.gameMap
}

// Coord returns the room's position on its map.
func (r *Room) Coord() Coord {
	return r.coord
}

// Exit returns the exit in direction d, or nil.
func (r *Room) Exit(d Direction) *Exit {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.exits[d]
}

// Exits returns the room's exits in compass order.
func (r *Room) Exits() []*Exit {
	r.mu.RLock()
	defer r.mu.RUnlock()

	exits := make([]*Exit, 0, len(r.exits))
	for _, d := range Directions {
		if e, ok := r.exits[d]; ok {
			exits = append(exits, e)
		}
	}
	return exits
}

// HasExits reports whether the room has any outgoing exit.
func (r *Room) HasExits() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.exits) > 0
}

// Occupants returns the characters in the room ordered by name.
func (r *Room) Occupants() []*Character {
	r.mu.RLock()
	defer r.mu.RUnlock()

	chars := make([]*Character, 0, len(r.occupants))
	for _, c := range r.occupants {
		chars = append(chars, c)
	}
	slices.SortFunc(chars, func(a, b *Character) int {
		return strings.Compare(a.Name, b.Name)
	})
	return chars
}

// Contains reports whether c is in the room's occupant set.
func (r *Room) Contains(c *Character) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.occupants[c.Id]
	return ok
}

// FindCharacter returns the occupant whose name matches (case-insensitive).
func (r *Room) FindCharacter(name string) *Character {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, c := range r.occupants {
		if strings.EqualFold(c.Name, name) {
			return c
		}
	}
	return nil
}

// ForEachListener calls fn for every occupant and everyone watching them.
// The occupant set is copied first so fn never runs under the room lock.
func (r *Room) ForEachListener(fn func(charId string)) {
	for _, c := range r.Occupants() {
		c.ForEachListener(fn)
	}
}

// Removed reports whether the room has been destroyed.
func (r *Room) Removed() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.removed
}

// before orders rooms for lock acquisition: by map id, then north to south,
// then west to east.
func (r *Room) before(o *Room) bool {
	if r.gameMap.Id != o.gameMap.Id {
		return r.gameMap.Id < o.gameMap.Id
	}
	if r.coord.Y != o.coord.Y {
		return r.coord.Y > o.coord.Y
	}
	return r.coord.X < o.coord.X
}

// lockRooms write-locks the non-nil rooms in a fixed global order and returns
// the matching unlock.
func lockRooms(a, b *Room) func() {
	switch {
	case a == nil && b == nil:
		return func() {}
	case a == nil || a == b:
		b.mu.Lock()
		return b.mu.Unlock
	case b == nil:
		a.mu.Lock()
		return a.mu.Unlock
	}
	if b.before(a) {
		a, b = b, a
	}
	a.mu.Lock()
	b.mu.Lock()
	return func() {
		b.mu.Unlock()
		a.mu.Unlock()
	}
}
