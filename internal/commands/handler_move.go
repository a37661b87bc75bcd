package commands

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/benhook1013/fireengine/internal/display"
)

// MoveHandlerFactory creates handlers that walk the actor through an exit.
type MoveHandlerFactory struct{}

func NewMoveHandlerFactory() *MoveHandlerFactory {
	return &MoveHandlerFactory{}
}

func (f *MoveHandlerFactory) Create() (CommandFunc, error) {
	return func(ctx context.Context, cmdCtx *CommandContext) error {
		dir, err := parseDirection(cmdCtx.Command)
		if err != nil {
			return err
		}

		actor := cmdCtx.Actor
		from := actor.Room()
		exit := from.Exit(dir)
		if exit == nil {
			return NewUserError(fmt.Sprintf("You cannot go %s from here.", dir))
		}
		if !exit.Open {
			return NewUserError(fmt.Sprintf("The way %s is closed.", dir))
		}

		to := from.Map().GetRoom(from, dir)
		if to == nil {
			slog.WarnContext(ctx, "exit leads nowhere", "map", from.Map().Name, "coord", from.Coord(), "direction", dir.String())
			return NewUserError("That exit leads nowhere.")
		}
		if _, err := actor.MoveTo(to); err != nil {
			slog.WarnContext(ctx, "exit leads to a removed room", "map", from.Map().Name, "coord", from.Coord(), "direction", dir.String(), "error", err)
			return NewUserError("That exit leads nowhere.")
		}

		if err := cmdCtx.Broadcast(from, display.Text("%s exits to the %s.", actor.Name, dir.Title())); err != nil {
			return fmt.Errorf("announcing departure: %w", err)
		}
		if err := cmdCtx.Broadcast(to, display.Text("%s enters from the %s.", actor.Name, dir.Opposite().Title())); err != nil {
			return fmt.Errorf("announcing arrival: %w", err)
		}

		out, err := DescribeRoom(to, actor)
		if err != nil {
			return fmt.Errorf("describing room: %w", err)
		}
		return cmdCtx.Reply(out)
	}, nil
}
