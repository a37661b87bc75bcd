package commands

import (
	"context"
	"fmt"

	"github.com/benhook1013/fireengine/internal/display"
)

// SayHandlerFactory creates handlers that speak to the actor's room.
type SayHandlerFactory struct{}

func NewSayHandlerFactory() *SayHandlerFactory {
	return &SayHandlerFactory{}
}

func (f *SayHandlerFactory) Create() (CommandFunc, error) {
	return func(ctx context.Context, cmdCtx *CommandContext) error {
		text := cmdCtx.Command.Arg("text")
		if text == "" {
			return NewUserError("Say what?")
		}

		actor := cmdCtx.Actor
		if err := cmdCtx.Reply(display.Styled(display.StyleSay, "You say, %q", text)); err != nil {
			return err
		}
		if err := cmdCtx.Broadcast(actor.Room(), display.Styled(display.StyleSay, "%s says, %q", actor.Name, text)); err != nil {
			return fmt.Errorf("broadcasting speech: %w", err)
		}
		return nil
	}, nil
}
