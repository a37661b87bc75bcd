package listener

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"syscall"

	"github.com/iammegalith/telnet"
)

// TelnetListener serves sessions over raw telnet on addr.
type TelnetListener struct {
	addr string
	cm   *ConnectionManager
}

func NewTelnetListener(addr string, cm *ConnectionManager) *TelnetListener {
	return &TelnetListener{
		addr: addr,
		cm:   cm,
	}
}

func (l *TelnetListener) Start(ctx context.Context) error {
	conns := newTelnetConns(l.cm)
	svr := telnet.NewServer(l.addr, conns)

	stopped := make(chan struct{})
	defer close(stopped)
	go func() {
		select {
		case <-ctx.Done():
			svr.Stop()
			conns.closeAll()
		case <-stopped:
		}
	}()

	slog.InfoContext(ctx, "listening for telnet", "addr", l.addr)

	if err := svr.ListenAndServe(); err != nil {
		if errors.Is(err, syscall.EADDRINUSE) {
			return fmt.Errorf("address %s is already in use (another server running?)", l.addr)
		}
		return fmt.Errorf("serving telnet on %s: %w", l.addr, err)
	}
	return nil
}

// telnetConns runs each accepted telnet connection under one shared context
// so shutdown can end them together.
type telnetConns struct {
	cm     *ConnectionManager
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func newTelnetConns(cm *ConnectionManager) *telnetConns {
	ctx, cancel := context.WithCancel(context.Background())
	return &telnetConns{cm: cm, ctx: ctx, cancel: cancel}
}

func (c *telnetConns) HandleTelnet(conn *telnet.Connection) {
	c.wg.Add(1)
	defer c.wg.Done()

	c.cm.AcceptConnection(c.ctx, conn)

	if err := conn.Close(); err != nil {
		slog.DebugContext(c.ctx, "closing telnet connection", "error", err)
	}
}

func (c *telnetConns) closeAll() {
	c.cancel()
	c.wg.Wait()
}
