package player

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/benhook1013/fireengine/internal/commands"
	"github.com/benhook1013/fireengine/internal/display"
	"github.com/benhook1013/fireengine/internal/game"
)

// worldPhase plays a character in the world. Everything the character sees
// arrives through its subscription, so replies, broadcasts and the prompt
// reach the client in publish order.
type worldPhase struct {
	s      *Session
	player *game.Player

	unsubscribe func()
	joined      bool
	closed      bool
}

func newWorldPhase(s *Session, p *game.Player) *worldPhase {
	return &worldPhase{s: s, player: p}
}

func (p *worldPhase) Name() string { return "world" }

func (p *worldPhase) Start(ctx context.Context) error {
	env := p.s.env
	c := p.player.Character

	unsub, err := env.Subscriber.SubscribeCharacter(c.Id, func(data []byte) {
		p.s.sendLog(ctx, display.Decode(data))
	})
	if err != nil {
		return fmt.Errorf("subscribing %s: %w", c.Name, err)
	}
	p.unsubscribe = unsub

	if err := env.World.AddPlayer(p.player); err != nil {
		return fmt.Errorf("adding %s to the world: %w", c.Name, err)
	}
	p.joined = true
	p.player.TakeQuit()

	room := env.World.LastRoom(c)
	if room == nil {
		room = env.World.SpawnRoom()
	}
	if room == nil {
		slog.WarnContext(ctx, "no room to place character", "character", c.Name)
	} else if _, err := c.MoveTo(room); err != nil {
		slog.WarnContext(ctx, "placing character", "character", c.Name, "error", err)
	} else {
		out := display.Styled(display.StyleNotice, "%s has entered the world.", c.Name)
		if err := env.Publisher.Publish(room, []string{c.Id}, out.Bytes()); err != nil {
			slog.WarnContext(ctx, "announcing arrival", "character", c.Name, "error", err)
		}
	}
	slog.InfoContext(ctx, "character entered the world", "session", p.s.id, "character", c.Name)

	env.Dispatcher.Handle(ctx, c, "look", commands.WorldPipeline)
	return p.prompt()
}

func (p *worldPhase) AcceptInput(ctx context.Context, text string) error {
	p.s.env.Dispatcher.Handle(ctx, p.player.Character, text, commands.WorldPipeline)

	switch p.player.TakeQuit() {
	case game.QuitToMenu:
		return p.s.phases.SetPhase(ctx, newWelcomePhase(p.s))
	case game.QuitDisconnect:
		return ErrSessionEnded
	}
	return p.prompt()
}

// Close takes the character out of the world. A character still standing in
// a room left without quitting, so the room is told and the character saved.
func (p *worldPhase) Close(ctx context.Context) {
	if p.closed {
		return
	}
	p.closed = true

	env := p.s.env
	c := p.player.Character

	if p.joined {
		if room := c.Room(); room != nil {
			out := display.Styled(display.StyleNotice, "%s fades from the world.", c.Name)
			if err := env.Publisher.Publish(room, []string{c.Id}, out.Bytes()); err != nil {
				slog.WarnContext(ctx, "announcing departure", "character", c.Name, "error", err)
			}
			if err := env.Accounts.SavePlayer(p.player); err != nil {
				slog.ErrorContext(ctx, "saving character", "character", c.Name, "error", err)
			}
			c.LeaveWorld()
		}
		if err := env.World.RemovePlayer(p.player); err != nil {
			slog.WarnContext(ctx, "removing player", "character", c.Name, "error", err)
		}
		slog.InfoContext(ctx, "character left the world", "session", p.s.id, "character", c.Name)
	}

	if p.unsubscribe != nil {
		p.unsubscribe()
	}
}

func (p *worldPhase) prompt() error {
	c := p.player.Character
	text := fmt.Sprintf("[%d/%dHP %d/%dMP] > ",
		c.Health.Get(game.MaxHealth(c.Level)), game.MaxHealth(c.Level),
		c.Mana.Get(game.MaxMana(c.Level)), game.MaxMana(c.Level))
	out := display.NewOutput().AddStyled(display.StylePrompt, text)
	return p.s.env.Publisher.Publish(self(c.Id), nil, out.Bytes())
}

// self is an audience of one character, without its watchers.
type self string

func (s self) ForEachListener(fn func(charId string)) {
	fn(string(s))
}
