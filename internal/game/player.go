package game

import (
	"encoding/json"
	"fmt"
	"sync/atomic"

	"github.com/pixil98/go-errors"
)

// PlayerSettings are the persisted privilege flags of a player.
type PlayerSettings struct {
	Admin     bool `json:"admin"`
	MapEditor bool `json:"map_editor"`
}

// QuitMode is what a player asked for when leaving the world.
type QuitMode int32

const (
	QuitNone QuitMode = iota
	// QuitToMenu returns the session to the welcome menu.
	QuitToMenu
	// QuitDisconnect ends the session.
	QuitDisconnect
)

// Player is a Character bound to a session and to persisted settings.
type Player struct {
	Character    *Character     `json:"character"`
	PasswordHash string         `json:"password_hash"`
	Settings     PlayerSettings `json:"settings"`

	quit atomic.Int32
}

// NewPlayer creates a player for a new character.
func NewPlayer(name, passwordHash string) *Player {
	p := &Player{
		Character:    NewCharacter(name),
		PasswordHash: passwordHash,
	}
	p.bind()
	return p
}

func (p *Player) UnmarshalJSON(b []byte) error {
	type Alias Player
	if err := json.Unmarshal(b, (*Alias)(p)); err != nil {
		return err
	}
	p.bind()
	return nil
}

func (p *Player) bind() {
	if p.Character == nil {
		return
	}
	p.Character.mu.Lock()
	p.Character.player = p
	p.Character.mu.Unlock()
}

// Id is the player's character id.
func (p *Player) Id() string {
	return p.Character.Id
}

// Name is the player's character name.
func (p *Player) Name() string {
	return p.Character.Name
}

func (p *Player) Validate() error {
	el := errors.NewErrorList()
	if p.Character == nil {
		el.Add(fmt.Errorf("character is required"))
	} else {
		el.Add(p.Character.Validate())
	}
	if p.PasswordHash == "" {
		el.Add(fmt.Errorf("password hash is required"))
	}
	return el.Err()
}

// RequestQuit records that the player wants to leave the world.
func (p *Player) RequestQuit(mode QuitMode) {
	p.quit.Store(int32(mode))
}

// TakeQuit returns and clears any pending quit request.
func (p *Player) TakeQuit() QuitMode {
	return QuitMode(p.quit.Swap(int32(QuitNone)))
}

// ForEachListener delivers to the player's character and its watchers.
func (p *Player) ForEachListener(fn func(charId string)) {
	p.Character.ForEachListener(fn)
}
