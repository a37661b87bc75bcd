package game

import (
	"slices"
	"strings"
	"sync"
)

// World is the shared root of all game state: the loaded maps and the players
// currently in the world. The map list and the player set each have their own
// lock.
type World struct {
	mu         sync.RWMutex
	maps       []*GameMap
	defaultMap string

	playersMu sync.RWMutex
	players   map[string]*Player
}

// NewWorld creates an empty world whose spawn room is the centre of the map
// named defaultMap.
func NewWorld(defaultMap string) *World {
	return &World{
		defaultMap: defaultMap,
		players:    make(map[string]*Player),
	}
}

// AddMap registers m. Map ids and names must be unique.
func (w *World) AddMap(m *GameMap) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	for _, existing := range w.maps {
		if existing.Id == m.Id || strings.EqualFold(existing.Name, m.Name) {
			return ErrMapExists
		}
	}
	w.maps = append(w.maps, m)
	return nil
}

// Maps returns the loaded maps in registration order.
func (w *World) Maps() []*GameMap {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return slices.Clone(w.maps)
}

// MapById finds a map by id. Lookups scan the list; worlds hold few maps.
func (w *World) MapById(id string) *GameMap {
	w.mu.RLock()
	defer w.mu.RUnlock()
	for _, m := range w.maps {
		if m.Id == id {
			return m
		}
	}
	return nil
}

// MapByName finds a map by name (case-insensitive).
func (w *World) MapByName(name string) *GameMap {
	w.mu.RLock()
	defer w.mu.RUnlock()
	for _, m := range w.maps {
		if strings.EqualFold(m.Name, name) {
			return m
		}
	}
	return nil
}

// DefaultMap returns the map holding the spawn room.
func (w *World) DefaultMap() *GameMap {
	return w.MapByName(w.defaultMap)
}

// SpawnRoom returns the centre room of the default map, or nil if either is
// missing.
func (w *World) SpawnRoom() *Room {
	m := w.DefaultMap()
	if m == nil {
		return nil
	}
	return m.Center()
}

// AddPlayer marks p as in the world. A player with the same id or name
// already present is rejected.
func (w *World) AddPlayer(p *Player) error {
	w.playersMu.Lock()
	defer w.playersMu.Unlock()
	if _, ok := w.players[p.Id()]; ok {
		return ErrPlayerExists
	}
	for _, other := range w.players {
		if other.Character.MatchName(p.Name()) {
			return ErrPlayerExists
		}
	}
	w.players[p.Id()] = p
	return nil
}

// RemovePlayer takes p out of the world and ends any watching to or from it.
func (w *World) RemovePlayer(p *Player) error {
	w.playersMu.Lock()
	if _, ok := w.players[p.Id()]; !ok {
		w.playersMu.Unlock()
		return ErrPlayerNotFound
	}
	delete(w.players, p.Id())
	others := make([]*Player, 0, len(w.players))
	for _, other := range w.players {
		others = append(others, other)
	}
	w.playersMu.Unlock()

	for _, other := range others {
		other.Character.RemoveWatcher(p.Id())
	}
	p.Character.ClearWatchers()
	return nil
}

// GetPlayer returns the in-world player with the given id, or nil.
func (w *World) GetPlayer(id string) *Player {
	w.playersMu.RLock()
	defer w.playersMu.RUnlock()
	return w.players[id]
}

// FindPlayer returns the in-world player with the given name
// (case-insensitive), or nil.
func (w *World) FindPlayer(name string) *Player {
	w.playersMu.RLock()
	defer w.playersMu.RUnlock()
	for _, p := range w.players {
		if p.Character.MatchName(name) {
			return p
		}
	}
	return nil
}

// Players returns the in-world players ordered by name.
func (w *World) Players() []*Player {
	w.playersMu.RLock()
	players := make([]*Player, 0, len(w.players))
	for _, p := range w.players {
		players = append(players, p)
	}
	w.playersMu.RUnlock()

	slices.SortFunc(players, func(a, b *Player) int {
		return strings.Compare(a.Name(), b.Name())
	})
	return players
}

// ForEachListener makes the world an Audience of every in-world player.
func (w *World) ForEachListener(fn func(charId string)) {
	for _, p := range w.Players() {
		fn(p.Id())
	}
}
