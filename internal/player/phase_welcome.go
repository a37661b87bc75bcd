package player

import (
	"context"
	"fmt"

	"github.com/benhook1013/fireengine/internal/commands"
	"github.com/benhook1013/fireengine/internal/display"
)

// DefaultBanner greets a new connection when none is configured.
const DefaultBanner = "Welcome to FireEngine!"

type welcomePhase struct {
	s *Session
	// notice replaces the banner, e.g. to say why a login failed
	notice string
}

func newWelcomePhase(s *Session) *welcomePhase {
	return &welcomePhase{s: s}
}

func newWelcomePhaseWith(s *Session, notice string) *welcomePhase {
	return &welcomePhase{s: s, notice: notice}
}

func (p *welcomePhase) Name() string { return "welcome" }

func (p *welcomePhase) Start(ctx context.Context) error {
	if p.notice != "" {
		return p.s.Send(display.Styled(display.StyleError, "%s", p.notice).Append(menu()))
	}
	banner := p.s.env.Banner
	if banner == "" {
		banner = DefaultBanner
	}
	out := display.Styled(display.StyleRoomName, "%s", banner).Line("").Append(menu())
	return p.s.Send(out)
}

func (p *welcomePhase) AcceptInput(ctx context.Context, text string) error {
	if text == "" {
		return p.s.Send(menuPrompt())
	}

	cmd, err := commands.MenuPipeline.Resolve(text)
	if err != nil {
		return p.s.Send(display.Text(commands.MsgUnrecognized).Append(menu()))
	}

	switch cmd.Handler {
	case commands.MenuLogin:
		return p.s.phases.SetPhase(ctx, newLoginPhase(p.s, loginExisting, cmd.Arg("name")))
	case commands.MenuNew:
		return p.s.phases.SetPhase(ctx, newLoginPhase(p.s, loginNew, cmd.Arg("name")))
	case commands.MenuQuit:
		if err := p.s.Send(display.Text("Goodbye.")); err != nil {
			return err
		}
		return ErrSessionEnded
	default:
		return fmt.Errorf("menu command %q has no action", cmd.Handler)
	}
}

func (p *welcomePhase) Close(ctx context.Context) {}

// menu lists the menu grammar's commands, numbered in order.
func menu() *display.Output {
	out := display.NewOutput()
	for i, m := range commands.MenuGrammar.Matchers() {
		out.Line(fmt.Sprintf("  %d) %-14s %s", i+1, m.Usage, m.Help))
	}
	return out.Append(menuPrompt())
}

func menuPrompt() *display.Output {
	return display.NewOutput().AddStyled(display.StylePrompt, "> ")
}
