package commands

import (
	"context"
	"fmt"

	"github.com/benhook1013/fireengine/internal/display"
	"github.com/benhook1013/fireengine/internal/game"
)

// editOp performs one map edit from room toward dir and persists the result.
type editOp func(store Persister, room *game.Room, dir game.Direction) (*display.Output, error)

// EditHandlerFactory creates the map-editing handlers. Only players with the
// map-editor flag may use them.
type EditHandlerFactory struct {
	store Persister
	op    editOp
}

func NewEditHandlerFactory(store Persister, op editOp) *EditHandlerFactory {
	return &EditHandlerFactory{store: store, op: op}
}

func (f *EditHandlerFactory) Create() (CommandFunc, error) {
	if f.store == nil {
		return nil, fmt.Errorf("edit handler needs a persister")
	}
	if f.op == nil {
		return nil, fmt.Errorf("edit handler needs an operation")
	}
	return func(ctx context.Context, cmdCtx *CommandContext) error {
		if !isMapEditor(cmdCtx.Player) {
			return NewUserError("Only map editors can change the world.")
		}
		dir, err := parseDirection(cmdCtx.Command)
		if err != nil {
			return err
		}
		room := cmdCtx.Actor.Room()
		if room == nil {
			return gridError(game.ErrRoomNull, dir)
		}

		out, err := f.op(f.store, room, dir)
		if err != nil {
			return gridError(err, dir)
		}
		return cmdCtx.Reply(out)
	}, nil
}

func editCreateRoom(store Persister, room *game.Room, dir game.Direction) (*display.Output, error) {
	created, err := room.Map().CreateRoom(room, dir)
	if err != nil {
		return nil, err
	}
	if err := store.SaveRoom(created); err != nil {
		return nil, fmt.Errorf("saving new room: %w", err)
	}
	return display.Text("You shape a new room to the %s.", dir), nil
}

func editCreateExit(store Persister, room *game.Room, dir game.Direction) (*display.Output, error) {
	exit, err := room.Map().CreateExit(room, dir)
	if err != nil {
		return nil, err
	}
	if err := store.SaveRoom(room); err != nil {
		return nil, fmt.Errorf("saving room: %w", err)
	}

	out := display.Text("You open an exit to the %s.", dir)
	if exit.Target().Exit(dir.Opposite()) == nil {
		out.StyledLine(display.StyleNotice, fmt.Sprintf("There is no way back yet; the room to the %s has no %s exit.", dir, dir.Opposite()))
	}
	return out, nil
}

func editDestroyExit(store Persister, room *game.Room, dir game.Direction) (*display.Output, error) {
	if err := room.Map().DestroyExit(room, dir); err != nil {
		return nil, err
	}
	if err := store.SaveRoom(room); err != nil {
		return nil, fmt.Errorf("saving room: %w", err)
	}
	return display.Text("You close off the exit to the %s.", dir), nil
}

func editDestroyRoom(store Persister, room *game.Room, dir game.Direction) (*display.Output, error) {
	destroyed, err := room.Map().DestroyRoom(room, dir)
	if err != nil {
		return nil, err
	}
	if err := store.DeleteRoom(destroyed); err != nil {
		return nil, fmt.Errorf("deleting room: %w", err)
	}
	return display.Text("The room to the %s crumbles away.", dir), nil
}
