package player

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/benhook1013/fireengine/internal/display"
	"github.com/benhook1013/fireengine/internal/game"
	"golang.org/x/crypto/bcrypt"
)

const maxPasswordTries = 3

const (
	msgBadName       = "Names are 3 to 16 letters, with no spaces."
	msgNoSuchName    = "There is no character by that name."
	msgNameTaken     = "That name is already taken."
	msgBadPassword   = "Wrong password."
	msgTooManyTries  = "Too many attempts."
	msgAlreadyOnline = "That character is already in the world."
	msgShortPassword = "Passwords must be at least 4 characters, and not your name."
	msgNoMatch       = "Passwords don't match, start over."
)

type loginMode int

const (
	loginExisting loginMode = iota
	loginNew
)

type loginStep int

const (
	stepName loginStep = iota
	stepPassword
	stepNewPassword
	stepConfirmPassword
)

// loginPhase authenticates an existing character or creates a new one.
type loginPhase struct {
	s    *Session
	mode loginMode

	step     loginStep
	name     string
	player   *game.Player
	password string
	tries    int
}

func newLoginPhase(s *Session, mode loginMode, name string) *loginPhase {
	return &loginPhase{s: s, mode: mode, name: name}
}

func (p *loginPhase) Name() string { return "login" }

func (p *loginPhase) Start(ctx context.Context) error {
	if p.name != "" {
		return p.acceptName(ctx, p.name)
	}
	return p.prompt("By what name do you wish to be known? ")
}

func (p *loginPhase) AcceptInput(ctx context.Context, text string) error {
	switch p.step {
	case stepName:
		return p.acceptName(ctx, text)
	case stepPassword:
		return p.acceptPassword(ctx, text)
	case stepNewPassword:
		return p.acceptNewPassword(ctx, text)
	case stepConfirmPassword:
		return p.acceptConfirm(ctx, text)
	}
	return fmt.Errorf("unknown login step %d", p.step)
}

func (p *loginPhase) Close(ctx context.Context) {
	p.password = ""
}

func (p *loginPhase) acceptName(ctx context.Context, name string) error {
	if name == "" {
		return p.backToMenu(ctx, "")
	}
	if !game.ValidName(name) {
		return p.retryName(msgBadName)
	}

	existing := p.s.env.Accounts.FindPlayer(name)
	switch p.mode {
	case loginExisting:
		if existing == nil {
			return p.retryName(msgNoSuchName)
		}
		p.player = existing
		p.step = stepPassword
		return p.prompt("Password: ")
	default:
		if existing != nil {
			return p.retryName(msgNameTaken)
		}
		p.name = display.Capitalize(strings.ToLower(name))
		p.step = stepNewPassword
		return p.prompt(fmt.Sprintf("Give me a password for %s: ", p.name))
	}
}

func (p *loginPhase) acceptPassword(ctx context.Context, password string) error {
	err := bcrypt.CompareHashAndPassword([]byte(p.player.PasswordHash), []byte(password))
	if err != nil {
		p.tries++
		slog.InfoContext(ctx, "failed login", "session", p.s.id, "character", p.player.Name(), "tries", p.tries)
		if p.tries >= maxPasswordTries {
			return p.backToMenu(ctx, msgTooManyTries)
		}
		if err := p.s.Send(display.Styled(display.StyleError, msgBadPassword)); err != nil {
			return err
		}
		return p.prompt("Password: ")
	}

	if p.s.env.World.GetPlayer(p.player.Id()) != nil {
		return p.backToMenu(ctx, msgAlreadyOnline)
	}
	return p.enterWorld(ctx, p.player)
}

func (p *loginPhase) acceptNewPassword(ctx context.Context, password string) error {
	if len(password) < 4 || strings.EqualFold(password, p.name) {
		if err := p.s.Send(display.Styled(display.StyleError, msgShortPassword)); err != nil {
			return err
		}
		return p.prompt(fmt.Sprintf("Give me a password for %s: ", p.name))
	}
	p.password = password
	p.step = stepConfirmPassword
	return p.prompt("Please retype password: ")
}

func (p *loginPhase) acceptConfirm(ctx context.Context, password string) error {
	if password != p.password {
		p.password = ""
		p.step = stepNewPassword
		if err := p.s.Send(display.Styled(display.StyleError, msgNoMatch)); err != nil {
			return err
		}
		return p.prompt(fmt.Sprintf("Give me a password for %s: ", p.name))
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), p.cost())
	p.password = ""
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}

	// The name may have been taken while we were asking for a password.
	pl, err := p.s.env.Accounts.CreatePlayer(p.name, string(hash))
	if errors.Is(err, game.ErrPlayerExists) {
		return p.retryName(msgNameTaken)
	}
	if err != nil {
		return fmt.Errorf("creating character %s: %w", p.name, err)
	}
	slog.InfoContext(ctx, "created character", "session", p.s.id, "character", pl.Name(), "admin", pl.Settings.Admin)

	if err := p.s.Send(display.Styled(display.StyleNotice, "Welcome, %s.", pl.Name())); err != nil {
		return err
	}
	return p.enterWorld(ctx, pl)
}

func (p *loginPhase) enterWorld(ctx context.Context, pl *game.Player) error {
	err := p.s.phases.SetPhase(ctx, newWorldPhase(p.s, pl))
	if errors.Is(err, game.ErrPlayerExists) {
		return p.s.phases.SetPhase(ctx, newWelcomePhaseWith(p.s, msgAlreadyOnline))
	}
	return err
}

func (p *loginPhase) retryName(msg string) error {
	p.step = stepName
	if err := p.s.Send(display.Styled(display.StyleError, "%s", msg)); err != nil {
		return err
	}
	return p.prompt("Name: ")
}

func (p *loginPhase) backToMenu(ctx context.Context, msg string) error {
	if msg == "" {
		return p.s.phases.SetPhase(ctx, newWelcomePhase(p.s))
	}
	return p.s.phases.SetPhase(ctx, newWelcomePhaseWith(p.s, msg))
}

func (p *loginPhase) prompt(text string) error {
	return p.s.Send(display.NewOutput().AddStyled(display.StylePrompt, text))
}

func (p *loginPhase) cost() int {
	if p.s.env.PasswordCost == 0 {
		return bcrypt.DefaultCost
	}
	return p.s.env.PasswordCost
}
