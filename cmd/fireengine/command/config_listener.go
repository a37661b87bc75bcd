package command

import (
	"crypto/ed25519"
	"crypto/rand"
	"fmt"
	"log/slog"
	"net"
	"os"
	"strconv"

	"github.com/benhook1013/fireengine/internal/listener"
	"github.com/pixil98/go-errors"
	"github.com/pixil98/go-service"
	"golang.org/x/crypto/ssh"
)

type ListenerType int

const (
	ListenerTypeTelnet ListenerType = iota
	ListenerTypeSSH
)

var listenerTypeNames = map[ListenerType]string{
	ListenerTypeTelnet: "telnet",
	ListenerTypeSSH:    "ssh",
}

func (lt *ListenerType) UnmarshalText(text []byte) error {
	for t, name := range listenerTypeNames {
		if name == string(text) {
			*lt = t
			return nil
		}
	}
	return fmt.Errorf("unknown listener type: %s", text)
}

func (lt ListenerType) String() string {
	if name, ok := listenerTypeNames[lt]; ok {
		return name
	}
	return fmt.Sprintf("ListenerType(%d)", int(lt))
}

// ListenerConfig describes one network endpoint players connect to. An empty
// host binds every interface.
type ListenerConfig struct {
	Protocol    ListenerType `json:"protocol"`
	Host        string       `json:"host,omitempty"`
	Port        uint16       `json:"port"`
	HostKeyPath string       `json:"host_key_path,omitempty"`
}

func (cl *ListenerConfig) addr() string {
	return net.JoinHostPort(cl.Host, strconv.Itoa(int(cl.Port)))
}

// name identifies the listener's worker.
func (cl *ListenerConfig) name() string {
	return fmt.Sprintf("%s-%s", cl.Protocol, cl.addr())
}

func (cl *ListenerConfig) validate() error {
	el := errors.NewErrorList()

	if cl.Port == 0 {
		el.Add(fmt.Errorf("port must be set to a positive integer"))
	}
	if cl.Protocol != ListenerTypeSSH && cl.HostKeyPath != "" {
		el.Add(fmt.Errorf("host_key_path only applies to ssh listeners"))
	}

	return el.Err()
}

func (cl *ListenerConfig) BuildListener(cm *listener.ConnectionManager) (service.Worker, error) {
	switch cl.Protocol {
	case ListenerTypeTelnet:
		return listener.NewTelnetListener(cl.addr(), cm), nil
	case ListenerTypeSSH:
		signer, err := cl.hostKey()
		if err != nil {
			return nil, fmt.Errorf("setting up ssh host key: %w", err)
		}
		return listener.NewSshListener(cl.addr(), cm, signer), nil
	}
	return nil, fmt.Errorf("unknown listener type: %v", cl.Protocol)
}

// hostKey reads the configured private key, or makes a throwaway ed25519 key
// when none is configured. Clients will see a new fingerprint on every start.
func (cl *ListenerConfig) hostKey() (ssh.Signer, error) {
	if cl.HostKeyPath == "" {
		slog.Warn("ssh listener has no host_key_path, using an ephemeral key", "addr", cl.addr())
		_, key, err := ed25519.GenerateKey(rand.Reader)
		if err != nil {
			return nil, fmt.Errorf("generating ephemeral key: %w", err)
		}
		return ssh.NewSignerFromKey(key)
	}

	pem, err := os.ReadFile(cl.HostKeyPath)
	if err != nil {
		return nil, fmt.Errorf("reading host key %q: %w", cl.HostKeyPath, err)
	}
	signer, err := ssh.ParsePrivateKey(pem)
	if err != nil {
		return nil, fmt.Errorf("parsing host key %q: %w", cl.HostKeyPath, err)
	}
	return signer, nil
}
