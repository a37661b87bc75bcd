package game

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/pixil98/go-errors"

	"github.com/benhook1013/fireengine/internal/storage"
)

// Names given to the centre room when a map is bootstrapped.
const (
	OriginRoomName        = "The Crossroads"
	OriginRoomDescription = "Worn paths meet here and lead off into unshaped land."
)

// MapSpec is the persisted form of a GameMap. The map id is the storage key.
type MapSpec struct {
	Name   string `json:"name"`
	Radius int    `json:"radius"`
}

func (s *MapSpec) Validate() error {
	el := errors.NewErrorList()
	if s.Name == "" {
		el.Add(fmt.Errorf("map name is required"))
	}
	if s.Radius < 1 {
		el.Add(fmt.Errorf("map radius must be at least 1"))
	}
	return el.Err()
}

// ExitSpec is the persisted form of an Exit. The target is implied by the
// direction key it is stored under.
type ExitSpec struct {
	Open bool `json:"open"`
}

// RoomSpec is the persisted form of a Room.
type RoomSpec struct {
	MapId       string              `json:"map_id"`
	X           int                 `json:"x"`
	Y           int                 `json:"y"`
	Name        string              `json:"name"`
	Description string              `json:"description"`
	Exits       map[string]ExitSpec `json:"exits,omitempty"`
}

func (s *RoomSpec) Validate() error {
	el := errors.NewErrorList()
	if s.MapId == "" {
		el.Add(fmt.Errorf("map_id is required"))
	}
	if s.Name == "" {
		el.Add(fmt.Errorf("room name is required"))
	}
	for dir := range s.Exits {
		if _, err := ParseDirection(dir); err != nil {
			el.Add(fmt.Errorf("exit %q: %w", dir, err))
		}
	}
	return el.Err()
}

// RoomKey is the storage key of the room at c on map mapId.
func RoomKey(mapId string, c Coord) string {
	return fmt.Sprintf("%s-%d-%d", mapId, c.X, c.Y)
}

// Spec captures the room's persistent state.
func (r *Room) Spec() *RoomSpec {
	r.mu.RLock()
	defer r.mu.RUnlock()

	spec := &RoomSpec{
		Name:        r.Name,
		Description: r.Description,
		X:           r.coord.X,
		Y:           r.coord.Y,
	}
	if r.gameMap != nil {
		spec.MapId = r.gameMap.Id
	}
	if len(r.exits) > 0 {
		spec.Exits = make(map[string]ExitSpec, len(r.exits))
		for d, e := range r.exits {
			spec.Exits[d.String()] = ExitSpec{Open: e.Open}
		}
	}
	return spec
}

// Dictionary holds the stores backing the world. It is the persistence
// boundary: the world grid never touches storage directly.
type Dictionary struct {
	Players storage.Storer[*Player]
	Maps    storage.Storer[*MapSpec]
	Rooms   storage.Storer[*RoomSpec]

	// createMu makes CreatePlayer's check and save one step.
	createMu sync.Mutex
}

// LoadWorld builds the maps and rooms of w from storage. If the default map
// does not exist it is created with radius defaultRadius and saved, and a
// missing centre room is created on any map. Exits pointing at an empty cell
// are dropped with a warning.
func (d *Dictionary) LoadWorld(ctx context.Context, w *World, defaultRadius int) error {
	el := errors.NewErrorList()

	for id, spec := range d.Maps.GetAll() {
		if err := w.AddMap(NewGameMap(id, spec.Name, spec.Radius)); err != nil {
			el.Add(fmt.Errorf("map %s: %w", id, err))
		}
	}

	rooms := d.Rooms.GetAll()
	for key, spec := range rooms {
		m := w.MapById(spec.MapId)
		if m == nil {
			el.Add(fmt.Errorf("room %s: map %q not found", key, spec.MapId))
			continue
		}
		r := NewRoom(spec.Name, spec.Description)
		if err := m.SetRoom(Coord{X: spec.X, Y: spec.Y}, r); err != nil {
			el.Add(fmt.Errorf("room %s: %w", key, err))
		}
	}

	for key, spec := range rooms {
		m := w.MapById(spec.MapId)
		if m == nil {
			continue
		}
		from := m.RoomAt(Coord{X: spec.X, Y: spec.Y})
		for dir, es := range spec.Exits {
			dirn, err := ParseDirection(dir)
			if err != nil {
				continue
			}
			if _, err := m.addExit(from, dirn, es.Open); err != nil {
				slog.WarnContext(ctx, "dropping exit", "room", key, "direction", dir, "error", err)
			}
		}
	}

	if err := el.Err(); err != nil {
		return err
	}

	if w.DefaultMap() == nil {
		m := NewGameMap(uuid.NewString(), w.defaultMap, defaultRadius)
		if err := w.AddMap(m); err != nil {
			return fmt.Errorf("adding default map: %w", err)
		}
		if err := d.SaveMap(m); err != nil {
			return fmt.Errorf("saving default map: %w", err)
		}
		slog.InfoContext(ctx, "created default map", "name", m.Name, "id", m.Id, "radius", m.Radius)
	}

	for _, m := range w.Maps() {
		if m.Center() != nil {
			continue
		}
		r := NewRoom(OriginRoomName, OriginRoomDescription)
		if err := m.SetRoom(Coord{}, r); err != nil {
			return fmt.Errorf("placing centre room on %s: %w", m.Name, err)
		}
		if err := d.SaveRoom(r); err != nil {
			return fmt.Errorf("saving centre room on %s: %w", m.Name, err)
		}
	}

	return nil
}

// SaveMap persists m's metadata.
func (d *Dictionary) SaveMap(m *GameMap) error {
	return d.Maps.Save(m.Id, &MapSpec{Name: m.Name, Radius: m.Radius})
}

// SaveRoom persists r, including its exits.
func (d *Dictionary) SaveRoom(r *Room) error {
	return d.Rooms.Save(RoomKey(r.gameMap.Id, r.coord), r.Spec())
}

// DeleteRoom removes r from storage.
func (d *Dictionary) DeleteRoom(r *Room) error {
	return d.Rooms.Delete(RoomKey(r.gameMap.Id, r.coord))
}

// SavePlayer records the player's location and persists it.
func (d *Dictionary) SavePlayer(p *Player) error {
	p.Character.RecordLocation()
	return d.Players.Save(playerKey(p.Name()), p)
}

// FindPlayer loads a stored player by name (case-insensitive), or nil.
func (d *Dictionary) FindPlayer(name string) *Player {
	if !ValidName(name) {
		return nil
	}
	return d.Players.Get(playerKey(name))
}

// CreatePlayer stores a new player called name with the given password
// hash. It fails with ErrPlayerExists if the name is taken. The first player
// ever stored is made an admin and map editor.
func (d *Dictionary) CreatePlayer(name, passwordHash string) (*Player, error) {
	if !ValidName(name) {
		return nil, fmt.Errorf("invalid player name %q", name)
	}

	d.createMu.Lock()
	defer d.createMu.Unlock()

	if d.Players.Get(playerKey(name)) != nil {
		return nil, ErrPlayerExists
	}
	p := NewPlayer(name, passwordHash)
	if len(d.Players.GetAll()) == 0 {
		p.Settings = PlayerSettings{Admin: true, MapEditor: true}
	}
	if err := d.Players.Save(playerKey(name), p); err != nil {
		return nil, fmt.Errorf("saving new player %s: %w", name, err)
	}
	return p, nil
}

// LastRoom returns the room the player was last saved in, if it still exists.
func (w *World) LastRoom(c *Character) *Room {
	m := w.MapById(c.LastMap)
	if m == nil {
		return nil
	}
	return m.RoomAt(c.LastCoord)
}

func playerKey(name string) string {
	return strings.ToLower(name)
}
