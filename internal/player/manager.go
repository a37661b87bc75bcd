package player

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/benhook1013/fireengine/internal/display"
	"github.com/pixil98/go-errors"
)

// MsgShuttingDown is sent to sessions ended, or refused, by shutdown.
const MsgShuttingDown = "The server is shutting down."

// SessionManager runs client sessions and, when stopped, waits for them to
// finish and saves any player still in the world.
type SessionManager struct {
	env     *Env
	initial PhaseFactory

	mu          sync.Mutex
	stopping    bool
	wg          sync.WaitGroup
	stopTimeout time.Duration
}

func NewSessionManager(env *Env, initialPhase string, stopTimeout time.Duration) (*SessionManager, error) {
	el := errors.NewErrorList()
	if env.World == nil {
		el.Add(fmt.Errorf("world is required"))
	}
	if env.Accounts == nil {
		el.Add(fmt.Errorf("accounts are required"))
	}
	if env.Dispatcher == nil {
		el.Add(fmt.Errorf("dispatcher is required"))
	}
	if env.Publisher == nil || env.Subscriber == nil {
		el.Add(fmt.Errorf("publisher and subscriber are required"))
	}
	initial, err := LookupPhase(initialPhase)
	el.Add(err)
	if err := el.Err(); err != nil {
		return nil, err
	}

	return &SessionManager{
		env:         env,
		initial:     initial,
		stopTimeout: stopTimeout,
	}, nil
}

// RunSession plays conn until the client leaves or ctx is done.
func (m *SessionManager) RunSession(ctx context.Context, conn io.ReadWriter) error {
	s := NewSession(m.env, conn)

	// wg.Add must not race the Wait in Start.
	m.mu.Lock()
	if m.stopping {
		m.mu.Unlock()
		s.sendLog(ctx, display.Styled(display.StyleNotice, MsgShuttingDown))
		return ErrShuttingDown
	}
	m.wg.Add(1)
	m.mu.Unlock()
	defer m.wg.Done()

	slog.InfoContext(ctx, "session started", "session", s.Id())
	defer slog.InfoContext(ctx, "session ended", "session", s.Id())

	return s.Run(ctx, m.initial)
}

func (m *SessionManager) Start(ctx context.Context) error {
	<-ctx.Done()

	m.mu.Lock()
	m.stopping = true
	m.mu.Unlock()

	ctx = context.WithoutCancel(ctx)
	done := make(chan struct{})
	go func() {
		m.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(m.stopTimeout):
		slog.WarnContext(ctx, "sessions still running at shutdown", "timeout", m.stopTimeout)
	}

	return m.SaveAll(ctx)
}

// SaveAll saves every player in the world.
func (m *SessionManager) SaveAll(ctx context.Context) error {
	el := errors.NewErrorList()
	players := m.env.World.Players()
	for _, p := range players {
		if err := m.env.Accounts.SavePlayer(p); err != nil {
			el.Add(fmt.Errorf("saving %s: %w", p.Name(), err))
		}
	}
	if len(players) > 0 {
		slog.InfoContext(ctx, "saved players", "count", len(players))
	}
	return el.Err()
}
