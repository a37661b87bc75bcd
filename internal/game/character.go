package game

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/pixil98/go-errors"
)

var namePattern = regexp.MustCompile(`^[A-Za-z]{3,16}$`)

// ValidName reports whether name can be used for a character.
func ValidName(name string) bool {
	return namePattern.MatchString(name)
}

// MaxHealth is the health ceiling at the given level.
func MaxHealth(level int) int {
	return 20 + 10*level
}

// MaxMana is the mana ceiling at the given level.
func MaxMana(level int) int {
	return 10 + 5*level
}

// Character is anything that can stand in a room and act. A Character bound
// to a session is a Player.
type Character struct {
	Id     string   `json:"id"`
	Name   string   `json:"name"`
	Title  string   `json:"title,omitempty"`
	Level  int      `json:"level"`
	Health *Counter `json:"health"`
	Mana   *Counter `json:"mana"`

	// Last known location, saved on quit/save for restoring on login.
	LastMap   string `json:"last_map,omitempty"`
	LastCoord Coord  `json:"last_coord"`

	mu       sync.Mutex
	room     *Room
	player   *Player
	watchers map[string]struct{}
}

func NewCharacter(name string) *Character {
	return &Character{
		Id:     uuid.NewString(),
		Name:   name,
		Title:  "the Newcomer",
		Level:  1,
		Health: NewCounter(MaxHealth(1)),
		Mana:   NewCounter(MaxMana(1)),
	}
}

func (c *Character) UnmarshalJSON(b []byte) error {
	type Alias Character
	if err := json.Unmarshal(b, (*Alias)(c)); err != nil {
		return err
	}
	if c.Health == nil {
		c.Health = NewCounter(MaxHealth(c.Level))
	}
	if c.Mana == nil {
		c.Mana = NewCounter(MaxMana(c.Level))
	}
	return nil
}

func (c *Character) Validate() error {
	el := errors.NewErrorList()
	if c.Id == "" {
		el.Add(fmt.Errorf("character id is required"))
	}
	if !ValidName(c.Name) {
		el.Add(fmt.Errorf("character name %q must be 3-16 letters", c.Name))
	}
	if c.Level < 1 {
		el.Add(fmt.Errorf("character level must be at least 1"))
	}
	return el.Err()
}

// MatchName returns true if name matches this character's name (case-insensitive).
func (c *Character) MatchName(name string) bool {
	return strings.EqualFold(c.Name, name)
}

// Room returns the character's current room, or nil when not in the world.
func (c *Character) Room() *Room {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.room
}

// Player returns the player this character belongs to, or nil for a
// character with no session.
func (c *Character) Player() *Player {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.player
}

// MoveTo places the character in to, removing it from its current room in the
// same critical section so no reader sees it in both rooms or neither. It
// returns the room the character left.
func (c *Character) MoveTo(to *Room) (*Room, error) {
	if to == nil || to.gameMap == nil {
		return nil, ErrRoomNull
	}
	for {
		from := c.Room()
		if from == to {
			return from, nil
		}

		unlock := lockRooms(from, to)
		c.mu.Lock()
		if c.room != from {
			// Moved by someone else between the read and the lock.
			c.mu.Unlock()
			unlock()
			continue
		}
		if to.removed {
			c.mu.Unlock()
			unlock()
			return from, ErrRoomNull
		}
		if from != nil {
			delete(from.occupants, c.Id)
		}
		to.occupants[c.Id] = c
		c.room = to
		c.mu.Unlock()
		unlock()
		return from, nil
	}
}

// LeaveWorld removes the character from its room. It returns the room left,
// or nil if the character was not in the world.
func (c *Character) LeaveWorld() *Room {
	for {
		from := c.Room()
		if from == nil {
			return nil
		}
		from.mu.Lock()
		c.mu.Lock()
		if c.room != from {
			c.mu.Unlock()
			from.mu.Unlock()
			continue
		}
		delete(from.occupants, c.Id)
		c.room = nil
		c.mu.Unlock()
		from.mu.Unlock()
		return from
	}
}

// RecordLocation copies the current room into LastMap and LastCoord so the
// character is restored there on next login.
func (c *Character) RecordLocation() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.room == nil || c.room.gameMap == nil {
		return
	}
	c.LastMap = c.room.gameMap.Id
	c.LastCoord = c.room.coord
}

// ToggleWatcher adds watcherId to the character's watchers, or removes it if
// already present. It reports whether the watcher is now watching.
func (c *Character) ToggleWatcher(watcherId string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.watchers[watcherId]; ok {
		delete(c.watchers, watcherId)
		return false
	}
	if c.watchers == nil {
		c.watchers = make(map[string]struct{})
	}
	c.watchers[watcherId] = struct{}{}
	return true
}

// RemoveWatcher stops watcherId watching the character.
func (c *Character) RemoveWatcher(watcherId string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.watchers, watcherId)
}

// ClearWatchers drops every watcher.
func (c *Character) ClearWatchers() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.watchers = nil
}

// ForEachListener calls fn with the character's own id and then each watcher.
func (c *Character) ForEachListener(fn func(charId string)) {
	c.mu.Lock()
	ids := make([]string, 0, len(c.watchers)+1)
	ids = append(ids, c.Id)
	for id := range c.watchers {
		ids = append(ids, id)
	}
	c.mu.Unlock()

	for _, id := range ids {
		fn(id)
	}
}
