package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/benhook1013/fireengine/internal/display"
	"github.com/benhook1013/fireengine/internal/game"
)

// WhoHandlerFactory creates handlers that list the players in the world.
type WhoHandlerFactory struct {
	world *game.World
}

func NewWhoHandlerFactory(world *game.World) *WhoHandlerFactory {
	return &WhoHandlerFactory{world: world}
}

func (f *WhoHandlerFactory) Create() (CommandFunc, error) {
	return func(ctx context.Context, cmdCtx *CommandContext) error {
		players := f.world.Players()
		out := display.NewOutput().StyledLine(display.StyleNotice, "Players in the world")
		for _, p := range players {
			line := strings.TrimSpace(p.Name() + " " + p.Character.Title)
			if p.Settings.Admin {
				line += " [admin]"
			}
			out.Line("  " + line)
		}
		out.Line(fmt.Sprintf("%d total.", len(players)))
		return cmdCtx.Reply(out)
	}, nil
}

// ScoreHandlerFactory creates handlers that show the actor's condition.
type ScoreHandlerFactory struct{}

func NewScoreHandlerFactory() *ScoreHandlerFactory {
	return &ScoreHandlerFactory{}
}

func (f *ScoreHandlerFactory) Create() (CommandFunc, error) {
	return func(ctx context.Context, cmdCtx *CommandContext) error {
		c := cmdCtx.Actor
		room := c.Room()
		out := display.NewOutput().
			StyledLine(display.StyleRoomName, strings.TrimSpace(c.Name+" "+c.Title)).
			Line(fmt.Sprintf("Level:  %d", c.Level)).
			Line(fmt.Sprintf("Health: %d/%d", c.Health.Get(game.MaxHealth(c.Level)), game.MaxHealth(c.Level))).
			Line(fmt.Sprintf("Mana:   %d/%d", c.Mana.Get(game.MaxMana(c.Level)), game.MaxMana(c.Level))).
			Line(fmt.Sprintf("Where:  %s (%d, %d)", room.Map().Name, room.Coord().X, room.Coord().Y))
		return cmdCtx.Reply(out)
	}, nil
}

// HelpHandlerFactory creates handlers that list the commands the actor may
// use.
type HelpHandlerFactory struct{}

func NewHelpHandlerFactory() *HelpHandlerFactory {
	return &HelpHandlerFactory{}
}

func (f *HelpHandlerFactory) Create() (CommandFunc, error) {
	return func(ctx context.Context, cmdCtx *CommandContext) error {
		out := display.NewOutput()
		for _, g := range cmdCtx.Pipeline {
			if g == EditorGrammar && !isMapEditor(cmdCtx.Player) {
				continue
			}
			for _, m := range g.Matchers() {
				if !allowed(m.Capability, cmdCtx.Player) {
					continue
				}
				out.Line(fmt.Sprintf("  %-26s %s", m.Usage, m.Help))
			}
		}
		return cmdCtx.Reply(out)
	}, nil
}

func allowed(c Capability, p *game.Player) bool {
	switch c {
	case CapabilityPlayer:
		return p != nil
	case CapabilityAdmin:
		return p != nil && p.Settings.Admin
	}
	return true
}

func isMapEditor(p *game.Player) bool {
	return p != nil && p.Settings.MapEditor
}
