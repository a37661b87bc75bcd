package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/benhook1013/fireengine/internal/display"
	"github.com/benhook1013/fireengine/internal/game"
)

// Fixed replies from the dispatcher.
const (
	MsgUnrecognized = "I don't know what you mean."
	MsgNoPermission = "You do not have permission to do that."
	MsgSystemError  = "Something went wrong, please contact an operator."
	MsgRecovered    = "You blink and find yourself somewhere familiar."
)

// CommandContext carries everything a handler needs for one command.
type CommandContext struct {
	Actor    *game.Character
	Player   *game.Player // nil when the actor has no session
	Command  *Command
	Pipeline Pipeline

	pub game.Publisher
}

// Reply sends out to the actor and anyone watching them.
func (c *CommandContext) Reply(out *display.Output) error {
	return c.pub.Publish(c.Actor, nil, out.Bytes())
}

// Broadcast sends out to the audience, leaving out the actor and anyone
// watching the actor, who already see the actor's own replies.
func (c *CommandContext) Broadcast(to game.Audience, out *display.Output) error {
	var exclude []string
	c.Actor.ForEachListener(func(id string) {
		exclude = append(exclude, id)
	})
	return c.pub.Publish(to, exclude, out.Bytes())
}

// CommandFunc is the compiled form of a handler.
type CommandFunc func(ctx context.Context, cmdCtx *CommandContext) error

// HandlerFactory builds a CommandFunc. Factories hold the dependencies their
// handler needs.
type HandlerFactory interface {
	Create() (CommandFunc, error)
}

// Persister saves world state changed by commands.
type Persister interface {
	SavePlayer(p *game.Player) error
	SaveRoom(r *game.Room) error
	DeleteRoom(r *game.Room) error
}

// Shutdowner stops the server.
type Shutdowner interface {
	Shutdown()
}

// ShutdownFunc adapts a function to Shutdowner.
type ShutdownFunc func()

func (f ShutdownFunc) Shutdown() { f() }

// Dispatcher executes resolved commands: it enforces capabilities, recovers
// characters with no room, runs the handler and reports its errors.
type Dispatcher struct {
	world    *game.World
	pub      game.Publisher
	handlers map[string]CommandFunc
}

// NewDispatcher creates a dispatcher with no handlers registered.
func NewDispatcher(world *game.World, pub game.Publisher) *Dispatcher {
	return &Dispatcher{
		world:    world,
		pub:      pub,
		handlers: make(map[string]CommandFunc),
	}
}

// NewWorldDispatcher creates a dispatcher with every built-in handler
// registered and checks it can serve WorldPipeline.
func NewWorldDispatcher(world *game.World, pub game.Publisher, store Persister, shut Shutdowner) (*Dispatcher, error) {
	d := NewDispatcher(world, pub)

	factories := map[string]HandlerFactory{
		HandlerLook:        NewLookHandlerFactory(),
		HandlerMap:         NewMapHandlerFactory(),
		HandlerMove:        NewMoveHandlerFactory(),
		HandlerSay:         NewSayHandlerFactory(),
		HandlerQuit:        NewQuitHandlerFactory(store, game.QuitToMenu),
		HandlerQuitNow:     NewQuitHandlerFactory(store, game.QuitDisconnect),
		HandlerSave:        NewSaveHandlerFactory(store),
		HandlerWho:         NewWhoHandlerFactory(world),
		HandlerScore:       NewScoreHandlerFactory(),
		HandlerHelp:        NewHelpHandlerFactory(),
		HandlerCreateRoom:  NewEditHandlerFactory(store, editCreateRoom),
		HandlerCreateExit:  NewEditHandlerFactory(store, editCreateExit),
		HandlerDestroyRoom: NewEditHandlerFactory(store, editDestroyRoom),
		HandlerDestroyExit: NewEditHandlerFactory(store, editDestroyExit),
		HandlerShutdown:    NewShutdownHandlerFactory(world, shut),
		HandlerWatch:       NewWatchHandlerFactory(world),
	}
	for name, f := range factories {
		if err := d.RegisterFactory(name, f); err != nil {
			return nil, err
		}
	}

	if err := d.Validate(WorldPipeline); err != nil {
		return nil, err
	}
	return d, nil
}

// RegisterFactory compiles factory and registers it under name.
func (d *Dispatcher) RegisterFactory(name string, factory HandlerFactory) error {
	if name == "" {
		return fmt.Errorf("handler name cannot be empty")
	}
	if factory == nil {
		return fmt.Errorf("handler factory cannot be nil")
	}
	if _, exists := d.handlers[name]; exists {
		return fmt.Errorf("handler %q already registered", name)
	}
	fn, err := factory.Create()
	if err != nil {
		return fmt.Errorf("creating handler %q: %w", name, err)
	}
	d.handlers[name] = fn
	return nil
}

// Validate checks that every handler the pipeline can produce is registered.
func (d *Dispatcher) Validate(p Pipeline) error {
	var missing []string
	for _, name := range p.Handlers() {
		if _, ok := d.handlers[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("no handler registered for %s", strings.Join(missing, ", "))
	}
	return nil
}

// Handle resolves text against p and dispatches the result. Blank input does
// nothing; unrecognized input gets a fixed reply.
func (d *Dispatcher) Handle(ctx context.Context, actor *game.Character, text string, p Pipeline) {
	if strings.TrimSpace(text) == "" {
		return
	}
	cmd, err := p.Resolve(text)
	if err != nil {
		d.reply(ctx, actor, display.Text(MsgUnrecognized))
		return
	}
	d.Dispatch(ctx, actor, cmd, p)
}

// Dispatch runs cmd for actor.
func (d *Dispatcher) Dispatch(ctx context.Context, actor *game.Character, cmd *Command, p Pipeline) {
	fn, ok := d.handlers[cmd.Handler]
	if !ok {
		slog.ErrorContext(ctx, "no handler for command", "command", cmd.Name, "handler", cmd.Handler)
		d.reply(ctx, actor, display.Styled(display.StyleError, MsgSystemError))
		return
	}

	player := actor.Player()
	switch cmd.Capability {
	case CapabilityPlayer:
		if player == nil {
			return
		}
	case CapabilityAdmin:
		if player == nil {
			return
		}
		if !player.Settings.Admin {
			d.reply(ctx, actor, display.Styled(display.StyleError, MsgNoPermission))
			return
		}
	case CapabilityAny:
		if actor.Room() == nil && !d.recover(ctx, actor) {
			return
		}
	}

	cmdCtx := &CommandContext{
		Actor:    actor,
		Player:   player,
		Command:  cmd,
		Pipeline: p,
		pub:      d.pub,
	}

	err := fn(ctx, cmdCtx)
	if err == nil {
		return
	}

	var userErr *UserError
	if errors.As(err, &userErr) {
		d.reply(ctx, actor, display.Styled(display.StyleError, "%s", userErr.Message))
		return
	}

	slog.ErrorContext(ctx, "command failed", "command", cmd.Name, "character", actor.Name, "error", err)
	d.reply(ctx, actor, display.Styled(display.StyleError, MsgSystemError))
}

// recover moves a character with no room to the spawn room. It reports
// whether the command can go ahead.
func (d *Dispatcher) recover(ctx context.Context, actor *game.Character) bool {
	spawn := d.world.SpawnRoom()
	if spawn == nil {
		slog.WarnContext(ctx, "character has no room and there is no spawn room", "character", actor.Name)
		return false
	}
	if _, err := actor.MoveTo(spawn); err != nil {
		slog.WarnContext(ctx, "moving character to spawn room", "character", actor.Name, "error", err)
		return false
	}
	slog.InfoContext(ctx, "returned character to spawn room", "character", actor.Name)
	d.reply(ctx, actor, display.Styled(display.StyleNotice, MsgRecovered))
	return true
}

func (d *Dispatcher) reply(ctx context.Context, actor *game.Character, out *display.Output) {
	if err := d.pub.Publish(actor, nil, out.Bytes()); err != nil {
		slog.WarnContext(ctx, "publishing reply", "character", actor.Name, "error", err)
	}
}
