package command

import (
	"fmt"

	"github.com/pixil98/go-errors"
)

type Config struct {
	Listeners []ListenerConfig `json:"listeners"`
	// MaxConnections caps concurrent connections across all listeners. Zero
	// means no cap.
	MaxConnections int           `json:"max_connections,omitempty"`
	Storage        StorageConfig `json:"storage"`
	Nats           NatsConfig    `json:"nats"`
	World          WorldConfig   `json:"world"`
	Session        SessionConfig `json:"session"`
}

func (c *Config) Validate() error {
	el := errors.NewErrorList()

	if len(c.Listeners) == 0 {
		el.Add(fmt.Errorf("at least one listener is required"))
	}
	seen := map[string]int{}
	for i, l := range c.Listeners {
		if err := l.validate(); err != nil {
			el.Add(fmt.Errorf("listener %d: %w", i, err))
		}
		if prev, ok := seen[l.addr()]; ok {
			el.Add(fmt.Errorf("listener %d: address %s already used by listener %d", i, l.addr(), prev))
		}
		seen[l.addr()] = i
	}
	if c.MaxConnections < 0 {
		el.Add(fmt.Errorf("max_connections must not be negative"))
	}

	el.Add(c.Storage.validate())
	el.Add(c.Nats.validate())
	el.Add(c.World.validate())
	el.Add(c.Session.validate())

	return el.Err()
}
