package commands

import (
	"strings"
	"sync"
	"testing"

	"github.com/benhook1013/fireengine/internal/display"
	"github.com/benhook1013/fireengine/internal/game"
)

// recordingPublisher captures messages sent via Publish for test assertions.
type recordingPublisher struct {
	mu       sync.Mutex
	messages []publishedMessage
}

type publishedMessage struct {
	targetId string
	data     string
}

func (p *recordingPublisher) Publish(to game.Audience, exclude []string, data []byte) error {
	text := display.Decode(data).String()
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, id := range game.Recipients(to, exclude) {
		p.messages = append(p.messages, publishedMessage{targetId: id, data: text})
	}
	return nil
}

func (p *recordingPublisher) messagesTo(charId string) []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	var msgs []string
	for _, m := range p.messages {
		if m.targetId == charId {
			msgs = append(msgs, m.data)
		}
	}
	return msgs
}

// received reports whether any message to charId contains substr.
func (p *recordingPublisher) received(charId, substr string) bool {
	for _, m := range p.messagesTo(charId) {
		if strings.Contains(m, substr) {
			return true
		}
	}
	return false
}

// memPersister records what commands asked to persist.
type memPersister struct {
	err     error
	players []string
	saved   []game.Coord
	deleted []game.Coord
}

func (m *memPersister) SavePlayer(p *game.Player) error {
	if m.err != nil {
		return m.err
	}
	p.Character.RecordLocation()
	m.players = append(m.players, p.Name())
	return nil
}

func (m *memPersister) SaveRoom(r *game.Room) error {
	if m.err != nil {
		return m.err
	}
	m.saved = append(m.saved, r.Coord())
	return nil
}

func (m *memPersister) DeleteRoom(r *game.Room) error {
	if m.err != nil {
		return m.err
	}
	m.deleted = append(m.deleted, r.Coord())
	return nil
}

type shutdownRecorder struct {
	calls int
}

func (s *shutdownRecorder) Shutdown() { s.calls++ }

// fixture is a small world: a radius-1 map with room A at the centre and
// room B to the east, joined by exits both ways.
type fixture struct {
	world *game.World
	gmap  *game.GameMap
	a, b  *game.Room
	pub   *recordingPublisher
	store *memPersister
	shut  *shutdownRecorder
	disp  *Dispatcher
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		world: game.NewWorld("Main"),
		gmap:  game.NewGameMap("main", "Main", 1),
		a:     game.NewRoom("Room A", "The first room."),
		b:     game.NewRoom("Room B", "The second room."),
		pub:   &recordingPublisher{},
		store: &memPersister{},
		shut:  &shutdownRecorder{},
	}
	if err := f.world.AddMap(f.gmap); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := f.gmap.SetRoom(game.Coord{}, f.a); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := f.gmap.SetRoom(game.Coord{X: 1}, f.b); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := f.gmap.CreateExit(f.a, game.East); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := f.gmap.CreateExit(f.b, game.West); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	d, err := NewWorldDispatcher(f.world, f.pub, f.store, f.shut)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	f.disp = d
	return f
}

// player creates a player in room (nil leaves it out of any room) and adds
// it to the world.
func (f *fixture) player(t *testing.T, name string, room *game.Room, settings game.PlayerSettings) *game.Player {
	t.Helper()
	p := game.NewPlayer(name, "hash")
	p.Settings = settings
	if room != nil {
		if _, err := p.Character.MoveTo(room); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if err := f.world.AddPlayer(p); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return p
}

func (f *fixture) handle(t *testing.T, actor *game.Character, text string) {
	t.Helper()
	f.disp.Handle(t.Context(), actor, text, WorldPipeline)
}
