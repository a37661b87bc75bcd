package game

import (
	"slices"
	"sync"
)

// Placeholder text for rooms created by the map editor.
const (
	DefaultRoomName        = "An Empty Room"
	DefaultRoomDescription = "Nothing here yet but bare ground."
)

// GameMap is a bounded grid of rooms. Coordinates run from -Radius to Radius
// on both axes and each cell holds at most one room. The room set is guarded
// by a single map-wide lock.
type GameMap struct {
	Id     string
	Name   string
	Radius int

	mu    sync.RWMutex
	rooms map[Coord]*Room
}

func NewGameMap(id, name string, radius int) *GameMap {
	return &GameMap{
		Id:     id,
		Name:   name,
		Radius: radius,
		rooms:  make(map[Coord]*Room),
	}
}

// InBounds reports whether c lies within the map's bounding box.
func (m *GameMap) InBounds(c Coord) bool {
	return c.X >= -m.Radius && c.X <= m.Radius && c.Y >= -m.Radius && c.Y <= m.Radius
}

// RoomAt returns the room at c, or nil.
func (m *GameMap) RoomAt(c Coord) *Room {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.rooms[c]
}

// Center returns the room at the origin, which doubles as the map's spawn room.
func (m *GameMap) Center() *Room {
	return m.RoomAt(Coord{})
}

// Rooms returns every room on the map, north to south then west to east.
func (m *GameMap) Rooms() []*Room {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rooms := make([]*Room, 0, len(m.rooms))
	for _, r := range m.rooms {
		rooms = append(rooms, r)
	}
	slices.SortFunc(rooms, func(a, b *Room) int {
		if a.before(b) {
			return -1
		}
		return 1
	})
	return rooms
}

// SetRoom places r at c.
func (m *GameMap) SetRoom(c Coord, r *Room) error {
	if r == nil {
		return ErrRoomNull
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.setRoom(c, r)
}

func (m *GameMap) setRoom(c Coord, r *Room) error {
	if !m.InBounds(c) {
		return ErrOutOfBounds
	}
	if _, ok := m.rooms[c]; ok {
		return ErrRoomExists
	}
	r.gameMap = m
	r.coord = c
	m.rooms[c] = r
	return nil
}

// GetRoom returns the room one step from from in direction d. It looks only at
// the grid; no exit is required.
func (m *GameMap) GetRoom(from *Room, d Direction) *Room {
	if from == nil || !d.Valid() {
		return nil
	}
	return m.RoomAt(from.coord.Step(d))
}

// owns reports whether r is a live room of this map.
func (m *GameMap) owns(r *Room) bool {
	return r != nil && r.gameMap == m && m.rooms[r.coord] == r
}

// target validates the common preconditions of the editing operations and
// returns the destination coordinate. Callers hold m.mu.
func (m *GameMap) target(from *Room, d Direction) (Coord, error) {
	if !m.owns(from) {
		return Coord{}, ErrRoomNull
	}
	if !d.Valid() {
		return Coord{}, ErrDirectionNotSupported
	}
	c := from.coord.Step(d)
	if !m.InBounds(c) {
		return Coord{}, ErrOutOfBounds
	}
	return c, nil
}

// CreateRoom allocates a new room next to from in direction d. No exits are
// created.
func (m *GameMap) CreateRoom(from *Room, d Direction) (*Room, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	c, err := m.target(from, d)
	if err != nil {
		return nil, err
	}

	r := NewRoom(DefaultRoomName, DefaultRoomDescription)
	if err := m.setRoom(c, r); err != nil {
		return nil, err
	}
	return r, nil
}

// CreateExit adds an open exit from from toward its neighbour in direction d.
// Exits are one-way; the reverse exit must be created separately.
func (m *GameMap) CreateExit(from *Room, d Direction) (*Exit, error) {
	return m.addExit(from, d, true)
}

func (m *GameMap) addExit(from *Room, d Direction, open bool) (*Exit, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	c, err := m.target(from, d)
	if err != nil {
		return nil, err
	}
	to := m.rooms[c]
	if to == nil {
		return nil, ErrExitRoomNull
	}

	from.mu.Lock()
	defer from.mu.Unlock()
	if _, ok := from.exits[d]; ok {
		return nil, ErrExitExists
	}
	e := &Exit{Direction: d, Open: open, target: to}
	from.exits[d] = e
	return e, nil
}

// DestroyExit removes the exit from from in direction d. The reverse exit, if
// any, is left alone.
func (m *GameMap) DestroyExit(from *Room, d Direction) error {
	m.mu.RLock()
	defer m.mu.RUnlock()

	c, err := m.target(from, d)
	if err != nil {
		return err
	}
	if m.rooms[c] == nil {
		return ErrExitRoomNull
	}

	from.mu.Lock()
	defer from.mu.Unlock()
	if _, ok := from.exits[d]; !ok {
		return ErrExitNull
	}
	delete(from.exits, d)
	return nil
}

// DestroyRoom removes the neighbour of from in direction d. The room must be
// empty, must have no exits in or out, and must not be the map's centre.
func (m *GameMap) DestroyRoom(from *Room, d Direction) (*Room, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	c, err := m.target(from, d)
	if err != nil {
		return nil, err
	}
	r := m.rooms[c]
	if r == nil {
		return nil, ErrExitRoomNull
	}
	if c == (Coord{}) {
		return nil, ErrSpawnRoom
	}

	// Exits only change while the map lock is held, so this scan stays valid
	// until the room is removed below.
	for _, other := range m.rooms {
		if other != r && other.hasExitTo(r) {
			return nil, ErrRoomHasExits
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.occupants) > 0 {
		return nil, ErrRoomOccupied
	}
	if len(r.exits) > 0 {
		return nil, ErrRoomHasExits
	}
	r.removed = true
	delete(m.rooms, c)
	return r, nil
}

func (r *Room) hasExitTo(target *Room) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, e := range r.exits {
		if e.target == target {
			return true
		}
	}
	return false
}
