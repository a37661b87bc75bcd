package player

import (
	"bytes"
	"context"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/benhook1013/fireengine/internal/commands"
	"github.com/benhook1013/fireengine/internal/display"
	"github.com/benhook1013/fireengine/internal/game"
	"github.com/benhook1013/fireengine/internal/storage"
	"golang.org/x/crypto/bcrypt"
)

// memBus delivers published messages synchronously to subscribed handlers
// and keeps a transcript per character.
type memBus struct {
	mu   sync.Mutex
	subs map[string]func([]byte)
	seen map[string][]string
}

func newMemBus() *memBus {
	return &memBus{subs: map[string]func([]byte){}, seen: map[string][]string{}}
}

func (b *memBus) Publish(to game.Audience, exclude []string, data []byte) error {
	for _, id := range game.Recipients(to, exclude) {
		b.mu.Lock()
		b.seen[id] = append(b.seen[id], display.Decode(data).String())
		h := b.subs[id]
		b.mu.Unlock()
		if h != nil {
			h(data)
		}
	}
	return nil
}

func (b *memBus) SubscribeCharacter(charId string, handler func([]byte)) (func(), error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subs[charId] = handler
	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		delete(b.subs, charId)
	}, nil
}

func (b *memBus) subscribed(charId string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	_, ok := b.subs[charId]
	return ok
}

// received reports whether any message to charId contains substr.
func (b *memBus) received(charId, substr string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, m := range b.seen[charId] {
		if strings.Contains(m, substr) {
			return true
		}
	}
	return false
}

// screen is a client connection that records what was written to it.
type screen struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (s *screen) Read(p []byte) (int, error) { return 0, io.EOF }

func (s *screen) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buf.Write(p)
}

// take returns everything written since the last call.
func (s *screen) take() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.buf.String()
	s.buf.Reset()
	return out
}

type fixture struct {
	world *game.World
	dict  *game.Dictionary
	bus   *memBus
	env   *Env
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	players, err := storage.NewFileStore[*game.Player](t.TempDir())
	if err != nil {
		t.Fatalf("creating player store: %v", err)
	}
	maps, err := storage.NewFileStore[*game.MapSpec](t.TempDir())
	if err != nil {
		t.Fatalf("creating map store: %v", err)
	}
	rooms, err := storage.NewFileStore[*game.RoomSpec](t.TempDir())
	if err != nil {
		t.Fatalf("creating room store: %v", err)
	}
	dict := &game.Dictionary{Players: players, Maps: maps, Rooms: rooms}

	world := game.NewWorld("Main")
	if err := dict.LoadWorld(context.Background(), world, 2); err != nil {
		t.Fatalf("loading world: %v", err)
	}

	bus := newMemBus()
	disp, err := commands.NewWorldDispatcher(world, bus, dict, commands.ShutdownFunc(func() {}))
	if err != nil {
		t.Fatalf("creating dispatcher: %v", err)
	}

	return &fixture{
		world: world,
		dict:  dict,
		bus:   bus,
		env: &Env{
			World:        world,
			Accounts:     dict,
			Dispatcher:   disp,
			Publisher:    bus,
			Subscriber:   bus,
			PasswordCost: bcrypt.MinCost,
		},
	}
}

// account stores a player with the given password.
func (f *fixture) account(t *testing.T, name, password string) *game.Player {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hashing password: %v", err)
	}
	p := game.NewPlayer(name, string(hash))
	if err := f.dict.SavePlayer(p); err != nil {
		t.Fatalf("saving player: %v", err)
	}
	return p
}

// session starts a session in phase and returns it with its screen.
func (f *fixture) session(t *testing.T, phase PhaseFactory) (*Session, *screen) {
	t.Helper()
	scr := &screen{}
	s := NewSession(f.env, scr)
	if err := s.phases.SetPhase(context.Background(), phase(s)); err != nil {
		t.Fatalf("starting session: %v", err)
	}
	t.Cleanup(func() { s.phases.Close(context.Background()) })
	return s, scr
}

// input feeds lines to the session, failing on any error.
func input(t *testing.T, s *Session, lines ...string) {
	t.Helper()
	for _, line := range lines {
		if err := s.phases.AcceptInput(context.Background(), line); err != nil {
			t.Fatalf("input %q: %v", line, err)
		}
	}
}

// enter logs an existing account into the world.
func (f *fixture) enter(t *testing.T, name, password string) (*Session, *screen) {
	t.Helper()
	s, scr := f.session(t, PhaseRegistry["welcome"])
	input(t, s, "login "+name, password)
	if got := s.phases.Current().Name(); got != "world" {
		t.Fatalf("%s is in phase %q, expected world", name, got)
	}
	scr.take()
	return s, scr
}
