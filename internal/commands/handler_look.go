package commands

import (
	"context"
	"fmt"

	"github.com/benhook1013/fireengine/internal/game"
)

// LookHandlerFactory creates handlers that describe the actor's room, or the
// neighbouring room through an exit.
type LookHandlerFactory struct{}

func NewLookHandlerFactory() *LookHandlerFactory {
	return &LookHandlerFactory{}
}

func (f *LookHandlerFactory) Create() (CommandFunc, error) {
	return func(ctx context.Context, cmdCtx *CommandContext) error {
		room := cmdCtx.Actor.Room()

		if cmdCtx.Command.Arg("direction") != "" {
			dir, err := parseDirection(cmdCtx.Command)
			if err != nil {
				return err
			}
			room, err = lookThrough(room, dir)
			if err != nil {
				return err
			}
		}

		out, err := DescribeRoom(room, cmdCtx.Actor)
		if err != nil {
			return fmt.Errorf("describing room: %w", err)
		}
		return cmdCtx.Reply(out)
	}, nil
}

func lookThrough(room *game.Room, dir game.Direction) (*game.Room, error) {
	exit := room.Exit(dir)
	if exit == nil {
		return nil, NewUserError(fmt.Sprintf("You see no way %s.", dir))
	}
	if !exit.Open {
		return nil, NewUserError(fmt.Sprintf("The way %s is closed.", dir))
	}
	target := room.Map().GetRoom(room, dir)
	if target == nil {
		return nil, NewUserError("You see only fog that way.")
	}
	return target, nil
}
