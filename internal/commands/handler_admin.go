package commands

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/benhook1013/fireengine/internal/display"
	"github.com/benhook1013/fireengine/internal/game"
)

// ShutdownHandlerFactory creates handlers that warn everyone and stop the
// server. Sessions save their players as they close.
type ShutdownHandlerFactory struct {
	world *game.World
	shut  Shutdowner
}

func NewShutdownHandlerFactory(world *game.World, shut Shutdowner) *ShutdownHandlerFactory {
	return &ShutdownHandlerFactory{world: world, shut: shut}
}

func (f *ShutdownHandlerFactory) Create() (CommandFunc, error) {
	if f.shut == nil {
		return nil, fmt.Errorf("shutdown handler needs a shutdowner")
	}
	return func(ctx context.Context, cmdCtx *CommandContext) error {
		slog.InfoContext(ctx, "shutdown requested", "by", cmdCtx.Actor.Name)
		if err := cmdCtx.pub.Publish(f.world, nil, display.Styled(display.StyleNotice, "The world is shutting down. Your character will be saved.").Bytes()); err != nil {
			slog.WarnContext(ctx, "announcing shutdown", "error", err)
		}
		f.shut.Shutdown()
		return nil
	}, nil
}

// WatchHandlerFactory creates handlers that toggle receiving a copy of
// everything another player sees.
type WatchHandlerFactory struct {
	world *game.World
}

func NewWatchHandlerFactory(world *game.World) *WatchHandlerFactory {
	return &WatchHandlerFactory{world: world}
}

func (f *WatchHandlerFactory) Create() (CommandFunc, error) {
	return func(ctx context.Context, cmdCtx *CommandContext) error {
		name := cmdCtx.Command.Arg("name")
		target := f.world.FindPlayer(name)
		if target == nil {
			return NewUserError(fmt.Sprintf("No one called %s is in the world.", name))
		}
		if target.Character == cmdCtx.Actor {
			return NewUserError("You cannot watch yourself.")
		}

		if target.Character.ToggleWatcher(cmdCtx.Actor.Id) {
			return cmdCtx.Reply(display.Styled(display.StyleNotice, "You are now watching %s.", target.Name()))
		}
		return cmdCtx.Reply(display.Styled(display.StyleNotice, "You stop watching %s.", target.Name()))
	}, nil
}
