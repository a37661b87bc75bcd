package player

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/pixil98/go-testutil"
)

// pipeConn is a client connection fed from a pipe.
type pipeConn struct {
	*io.PipeReader
	screen
}

func (c *pipeConn) Read(p []byte) (int, error)  { return c.PipeReader.Read(p) }
func (c *pipeConn) Write(p []byte) (int, error) { return c.screen.Write(p) }

func runSession(t *testing.T, f *fixture, ctx context.Context) (*io.PipeWriter, *pipeConn, <-chan error) {
	t.Helper()
	r, w := io.Pipe()
	conn := &pipeConn{PipeReader: r}
	done := make(chan error, 1)
	go func() {
		done <- NewSession(f.env, conn).Run(ctx, PhaseRegistry["welcome"])
	}()
	return w, conn, done
}

func wait(t *testing.T, done <-chan error) error {
	t.Helper()
	select {
	case err := <-done:
		return err
	case <-time.After(5 * time.Second):
		t.Fatal("session did not finish")
		return nil
	}
}

func TestSession_RunUntilQuit(t *testing.T) {
	f := newFixture(t)
	alice := f.account(t, "Alice", "secret")

	w, conn, done := runSession(t, f, context.Background())
	defer w.Close()
	if _, err := io.WriteString(w, "login alice\nsecret\n  say \thi  \nqq\n"); err != nil {
		t.Fatalf("writing input: %v", err)
	}

	if err := wait(t, done); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	out := conn.take()
	for _, want := range []string{DefaultBanner, "The Crossroads", `You say, "hi"`, "Goodbye, Alice."} {
		if !strings.Contains(out, want) {
			t.Errorf("session output %q missing %q", out, want)
		}
	}
	if f.world.GetPlayer(alice.Id()) != nil {
		t.Error("expected alice removed from the world")
	}
}

func TestSession_ConnectionLost(t *testing.T) {
	f := newFixture(t)
	alice := f.account(t, "Alice", "secret")

	w, _, done := runSession(t, f, context.Background())
	if _, err := io.WriteString(w, "login alice\nsecret\n"); err != nil {
		t.Fatalf("writing input: %v", err)
	}
	w.Close()

	if err := wait(t, done); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if f.world.GetPlayer(alice.Id()) != nil {
		t.Error("expected alice removed from the world")
	}
	testutil.AssertEqual(t, "saved map", f.dict.FindPlayer("alice").Character.LastMap, f.world.DefaultMap().Id)
}

func TestSession_Shutdown(t *testing.T) {
	f := newFixture(t)
	ctx, cancel := context.WithCancel(context.Background())

	w, conn, done := runSession(t, f, ctx)
	defer w.Close()
	cancel()

	if err := wait(t, done); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if out := conn.take(); !strings.Contains(out, "shutting down") {
		t.Errorf("expected shutdown notice, got %q", out)
	}
}

func TestSessionManager(t *testing.T) {
	f := newFixture(t)

	if _, err := NewSessionManager(f.env, "lobby", time.Second); err == nil {
		t.Error("expected unknown initial phase to fail")
	}
	if _, err := NewSessionManager(&Env{}, "welcome", time.Second); err == nil {
		t.Error("expected missing dependencies to fail")
	}

	m, err := NewSessionManager(f.env, "welcome", time.Second)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	alice := f.account(t, "Alice", "secret")
	ctx, cancel := context.WithCancel(context.Background())
	r, w := io.Pipe()
	conn := &pipeConn{PipeReader: r}
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		if err := m.RunSession(ctx, conn); err != nil {
			t.Errorf("session: %v", err)
		}
	}()
	stopped := make(chan error, 1)
	go func() {
		defer wg.Done()
		stopped <- m.Start(ctx)
	}()

	if _, err := io.WriteString(w, "login alice\nsecret\n"); err != nil {
		t.Fatalf("writing input: %v", err)
	}
	deadline := time.Now().Add(5 * time.Second)
	for f.world.GetPlayer(alice.Id()) == nil && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if f.world.GetPlayer(alice.Id()) == nil {
		t.Fatal("alice never entered the world")
	}

	cancel()
	if err := wait(t, stopped); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	w.Close()
	wg.Wait()

	if f.world.GetPlayer(alice.Id()) != nil {
		t.Error("expected alice removed from the world")
	}
}

func TestSessionManager_RefusesAfterStop(t *testing.T) {
	f := newFixture(t)
	m, err := NewSessionManager(f.env, "welcome", time.Second)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := m.Start(ctx); err != nil {
		t.Fatalf("unexpected error stopping: %v", err)
	}

	scr := &screen{}
	err = m.RunSession(context.Background(), scr)
	if !errors.Is(err, ErrShuttingDown) {
		t.Fatalf("error %v, expected %v", err, ErrShuttingDown)
	}
	if out := scr.take(); !strings.Contains(out, MsgShuttingDown) {
		t.Errorf("expected shutdown notice, got %q", out)
	}
}
