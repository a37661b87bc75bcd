package listener

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"sync"

	"golang.org/x/crypto/ssh"
)

// SshListener serves sessions over ssh. Clients are not authenticated by
// ssh; the game's own login handles identity.
type SshListener struct {
	addr   string
	cm     *ConnectionManager
	config *ssh.ServerConfig
}

func NewSshListener(addr string, cm *ConnectionManager, hostKey ssh.Signer) *SshListener {
	config := &ssh.ServerConfig{NoClientAuth: true}
	config.AddHostKey(hostKey)
	return &SshListener{
		addr:   addr,
		cm:     cm,
		config: config,
	}
}

func (l *SshListener) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", l.addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", l.addr, err)
	}
	slog.InfoContext(ctx, "listening for ssh", "addr", ln.Addr().String())
	return l.Serve(ctx, ln)
}

// Serve accepts ssh clients on ln until ctx ends, then closes ln and waits
// for every client's session to finish.
func (l *SshListener) Serve(ctx context.Context, ln net.Listener) error {
	clients, cancelClients := context.WithCancel(context.Background())
	var wg sync.WaitGroup
	defer func() {
		cancelClients()
		wg.Wait()
	}()

	stop := context.AfterFunc(ctx, func() { _ = ln.Close() })
	defer stop()

	for {
		conn, err := ln.Accept()
		if ctx.Err() != nil {
			if conn != nil {
				_ = conn.Close()
			}
			return nil
		}
		if err != nil {
			slog.ErrorContext(ctx, "accepting ssh connection", "error", err)
			continue
		}

		wg.Add(1)
		go func() {
			defer wg.Done()
			l.serve(clients, conn)
		}()
	}
}

func (l *SshListener) serve(ctx context.Context, conn net.Conn) {
	defer conn.Close()

	remote := conn.RemoteAddr().String()
	sc, chans, reqs, err := ssh.NewServerConn(conn, l.config)
	if err != nil {
		slog.WarnContext(ctx, "ssh handshake", "remote", remote, "error", err)
		return
	}
	defer sc.Close()
	slog.InfoContext(ctx, "ssh connection established", "remote", remote, "user", sc.User())

	// Closing the connection ends the chans range below.
	stop := context.AfterFunc(ctx, func() { _ = sc.Close() })
	defer stop()

	go ssh.DiscardRequests(reqs)

	for nc := range chans {
		if nc.ChannelType() != "session" {
			_ = nc.Reject(ssh.UnknownChannelType, "unknown channel type")
			continue
		}

		ch, requests, err := nc.Accept()
		if err != nil {
			slog.ErrorContext(ctx, "accepting ssh channel", "remote", remote, "error", err)
			continue
		}

		if awaitShell(ctx, requests) {
			l.cm.AcceptConnection(ctx, ch)
		}
		_ = ch.Close()
	}
}

// awaitShell answers channel requests until the client asks for a shell.
// Clients do not forward input before the shell reply. PTY requests are
// refused so the client keeps local echo and line editing.
func awaitShell(ctx context.Context, requests <-chan *ssh.Request) bool {
	shell := make(chan struct{})
	go func() {
		opened := false
		for req := range requests {
			ok := req.Type == "shell" && !opened
			_ = req.Reply(ok, nil)
			if ok {
				opened = true
				close(shell)
			}
		}
	}()

	select {
	case <-shell:
		return true
	case <-ctx.Done():
		return false
	}
}
