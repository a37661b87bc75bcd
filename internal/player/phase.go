package player

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
)

var (
	// ErrSessionEnded is returned by a phase when the client asked to leave.
	ErrSessionEnded = errors.New("session ended")
	// ErrSessionClosed is returned for input after the session was closed.
	ErrSessionClosed = errors.New("session closed")
	// ErrShuttingDown refuses connections that arrive once the session
	// manager has begun to stop.
	ErrShuttingDown = errors.New("session manager is shutting down")
)

// Phase is one stage of a session's life. A phase decides what input means
// while it is current.
type Phase interface {
	Name() string
	// Start runs when the phase becomes current.
	Start(ctx context.Context) error
	AcceptInput(ctx context.Context, text string) error
	// Close releases whatever the phase holds. It is called exactly once.
	Close(ctx context.Context)
}

// PhaseFactory builds a phase for a session.
type PhaseFactory func(s *Session) Phase

// PhaseRegistry holds the phases a session can be configured to start in.
var PhaseRegistry = map[string]PhaseFactory{
	"welcome": func(s *Session) Phase { return newWelcomePhase(s) },
	"login":   func(s *Session) Phase { return newLoginPhase(s, loginExisting, "") },
}

// LookupPhase returns the registered factory for name.
func LookupPhase(name string) (PhaseFactory, error) {
	f, ok := PhaseRegistry[strings.ToLower(name)]
	if !ok {
		known := make([]string, 0, len(PhaseRegistry))
		for k := range PhaseRegistry {
			known = append(known, k)
		}
		slices.Sort(known)
		return nil, fmt.Errorf("unknown phase %q (known: %s)", name, strings.Join(known, ", "))
	}
	return f, nil
}

// PhaseManager owns the current phase of a session. Input is handled one
// line at a time, and never by a phase that has been replaced.
type PhaseManager struct {
	inputMu sync.Mutex

	mu      sync.Mutex
	current Phase
	closed  bool

	welcome func() Phase
}

func NewPhaseManager(welcome func() Phase) *PhaseManager {
	return &PhaseManager{welcome: welcome}
}

// Current returns the active phase, or nil once closed.
func (m *PhaseManager) Current() Phase {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current
}

// SetPhase closes the current phase, installs p and starts it.
func (m *PhaseManager) SetPhase(ctx context.Context, p Phase) error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		p.Close(ctx)
		return ErrSessionClosed
	}
	old := m.current
	m.current = p
	m.mu.Unlock()

	if old != nil {
		old.Close(ctx)
	}
	if err := p.Start(ctx); err != nil {
		return fmt.Errorf("starting %s phase: %w", p.Name(), err)
	}
	return nil
}

// AcceptInput hands a line of input to the current phase.
func (m *PhaseManager) AcceptInput(ctx context.Context, text string) error {
	m.inputMu.Lock()
	defer m.inputMu.Unlock()

	p := m.Current()
	if p == nil {
		return ErrSessionClosed
	}
	return p.AcceptInput(ctx, text)
}

// Disconnect closes the current phase and returns the session to the welcome
// phase.
func (m *PhaseManager) Disconnect(ctx context.Context) error {
	m.inputMu.Lock()
	defer m.inputMu.Unlock()
	return m.SetPhase(ctx, m.welcome())
}

// Close closes the current phase and ends the session. Later input is
// rejected with ErrSessionClosed.
func (m *PhaseManager) Close(ctx context.Context) {
	m.inputMu.Lock()
	defer m.inputMu.Unlock()

	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}
	old := m.current
	m.current = nil
	m.closed = true
	m.mu.Unlock()

	if old != nil {
		old.Close(ctx)
	}
}
