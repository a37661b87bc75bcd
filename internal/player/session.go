package player

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"unicode"

	"github.com/benhook1013/fireengine/internal/commands"
	"github.com/benhook1013/fireengine/internal/display"
	"github.com/benhook1013/fireengine/internal/game"
	"github.com/google/uuid"
)

// Accounts looks up and stores players.
type Accounts interface {
	FindPlayer(name string) *game.Player
	CreatePlayer(name, passwordHash string) (*game.Player, error)
	SavePlayer(p *game.Player) error
}

// Subscriber delivers messages published to a character.
type Subscriber interface {
	SubscribeCharacter(charId string, handler func(data []byte)) (func(), error)
}

// Env is what sessions share: the world and the services around it.
type Env struct {
	World      *game.World
	Accounts   Accounts
	Dispatcher *commands.Dispatcher
	Publisher  game.Publisher
	Subscriber Subscriber

	// Banner is shown above the welcome menu.
	Banner string
	// Color enables ANSI styling of output.
	Color bool
	// PasswordCost is the bcrypt cost for new passwords; zero means the
	// library default.
	PasswordCost int
}

// Session is one connected client.
type Session struct {
	id     string
	env    *Env
	conn   io.ReadWriter
	phases *PhaseManager

	wmu sync.Mutex
}

func NewSession(env *Env, conn io.ReadWriter) *Session {
	s := &Session{
		id:   uuid.NewString(),
		env:  env,
		conn: conn,
	}
	s.phases = NewPhaseManager(func() Phase { return newWelcomePhase(s) })
	return s
}

func (s *Session) Id() string {
	return s.id
}

// Phases returns the session's phase manager.
func (s *Session) Phases() *PhaseManager {
	return s.phases
}

// Send renders out to the client.
func (s *Session) Send(out *display.Output) error {
	s.wmu.Lock()
	defer s.wmu.Unlock()
	_, err := io.WriteString(s.conn, out.Render(s.env.Color))
	return err
}

func (s *Session) sendLog(ctx context.Context, out *display.Output) {
	if err := s.Send(out); err != nil {
		slog.WarnContext(ctx, "writing to session", "session", s.id, "error", err)
	}
}

// Run starts the session in the initial phase and feeds it input until the
// client leaves, the connection drops or ctx is done.
func (s *Session) Run(ctx context.Context, initial PhaseFactory) error {
	defer s.phases.Close(context.WithoutCancel(ctx))

	lines := make(chan string)
	readErr := make(chan error, 1)
	stop := make(chan struct{})
	defer close(stop)
	go func() {
		scanner := bufio.NewScanner(s.conn)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-stop:
				return
			}
		}
		readErr <- scanner.Err()
		close(lines)
	}()

	if err := s.phases.SetPhase(ctx, initial(s)); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			s.sendLog(ctx, display.Styled(display.StyleNotice, MsgShuttingDown))
			return nil

		case line, ok := <-lines:
			if !ok {
				// Connection lost.
				return <-readErr
			}

			err := s.phases.AcceptInput(ctx, CleanInput(line))
			if errors.Is(err, ErrSessionEnded) || errors.Is(err, ErrSessionClosed) {
				return nil
			}
			if err != nil {
				return fmt.Errorf("session %s: %w", s.id, err)
			}
		}
	}
}

// CleanInput drops control characters and surrounding whitespace from a line
// of client input.
func CleanInput(line string) string {
	line = strings.Map(func(r rune) rune {
		if r == '\t' {
			return ' '
		}
		if unicode.IsControl(r) || r == unicode.ReplacementChar {
			return -1
		}
		return r
	}, line)
	return strings.TrimSpace(line)
}
