package listener

import (
	"context"
	"io"
	"log/slog"
	"sync/atomic"
)

// MsgServerFull is written to connections refused by the connection limit.
const MsgServerFull = "The server is full, try again later.\n"

// SessionRunner plays one client connection until it ends.
type SessionRunner interface {
	RunSession(ctx context.Context, conn io.ReadWriter) error
}

// ConnectionManager hands connections from every listener to the session
// runner. With a positive limit it refuses connections beyond that many
// concurrent sessions.
type ConnectionManager struct {
	sessions SessionRunner
	limit    int64
	active   atomic.Int64
}

func NewConnectionManager(sessions SessionRunner, limit int) *ConnectionManager {
	return &ConnectionManager{
		sessions: sessions,
		limit:    int64(limit),
	}
}

// Active is the number of connections currently running a session.
func (m *ConnectionManager) Active() int {
	return int(m.active.Load())
}

func (m *ConnectionManager) AcceptConnection(ctx context.Context, conn io.ReadWriter) {
	conn = newCRLFReadWriter(conn)

	n := m.active.Add(1)
	defer m.active.Add(-1)
	if m.limit > 0 && n > m.limit {
		slog.WarnContext(ctx, "refusing connection, server full", "limit", m.limit)
		if _, err := io.WriteString(conn, MsgServerFull); err != nil {
			slog.DebugContext(ctx, "writing server full notice", "error", err)
		}
		return
	}

	if err := m.sessions.RunSession(ctx, conn); err != nil {
		slog.WarnContext(ctx, "player session", "error", err)
	}
}
