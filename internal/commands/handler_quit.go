package commands

import (
	"context"
	"fmt"

	"github.com/benhook1013/fireengine/internal/display"
	"github.com/benhook1013/fireengine/internal/game"
)

// QuitHandlerFactory creates handlers that save the player, take them out of
// their room and ask the session to leave the world.
type QuitHandlerFactory struct {
	store Persister
	mode  game.QuitMode
}

func NewQuitHandlerFactory(store Persister, mode game.QuitMode) *QuitHandlerFactory {
	return &QuitHandlerFactory{store: store, mode: mode}
}

func (f *QuitHandlerFactory) Create() (CommandFunc, error) {
	if f.store == nil {
		return nil, fmt.Errorf("quit handler needs a persister")
	}
	return func(ctx context.Context, cmdCtx *CommandContext) error {
		p := cmdCtx.Player
		if err := f.store.SavePlayer(p); err != nil {
			return fmt.Errorf("saving %s on quit: %w", p.Name(), err)
		}

		if room := cmdCtx.Actor.Room(); room != nil {
			if err := cmdCtx.Broadcast(room, display.Styled(display.StyleNotice, "%s has left the world.", p.Name())); err != nil {
				return fmt.Errorf("announcing quit: %w", err)
			}
		}
		if err := cmdCtx.Reply(display.Text("Goodbye, %s.", p.Name())); err != nil {
			return err
		}

		cmdCtx.Actor.LeaveWorld()
		p.RequestQuit(f.mode)
		return nil
	}, nil
}

// SaveHandlerFactory creates handlers that persist the player.
type SaveHandlerFactory struct {
	store Persister
}

func NewSaveHandlerFactory(store Persister) *SaveHandlerFactory {
	return &SaveHandlerFactory{store: store}
}

func (f *SaveHandlerFactory) Create() (CommandFunc, error) {
	if f.store == nil {
		return nil, fmt.Errorf("save handler needs a persister")
	}
	return func(ctx context.Context, cmdCtx *CommandContext) error {
		if err := f.store.SavePlayer(cmdCtx.Player); err != nil {
			return fmt.Errorf("saving %s: %w", cmdCtx.Player.Name(), err)
		}
		return cmdCtx.Reply(display.Text("Saved."))
	}, nil
}
