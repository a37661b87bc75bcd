package command

import (
	"fmt"
	"time"

	"github.com/benhook1013/fireengine/internal/messaging"
	"github.com/pixil98/go-errors"
)

type NatsConfig struct {
	Host         string `json:"host"`
	Port         int    `json:"port"`
	StartTimeout string `json:"start_timeout"`
	DrainTimeout string `json:"drain_timeout"`
}

func (n *NatsConfig) validate() error {
	el := errors.NewErrorList()

	if _, err := optionalDuration(n.StartTimeout); err != nil {
		el.Add(fmt.Errorf("parsing start_timeout: %w", err))
	}
	if _, err := optionalDuration(n.DrainTimeout); err != nil {
		el.Add(fmt.Errorf("parsing drain_timeout: %w", err))
	}

	return el.Err()
}

func (n *NatsConfig) buildNatsServer() (*messaging.NatsServer, error) {
	var opts []messaging.NatsServerOpt

	start, err := optionalDuration(n.StartTimeout)
	if err != nil {
		return nil, fmt.Errorf("parsing start_timeout: %w", err)
	}
	if start > 0 {
		opts = append(opts, messaging.WithStartTimeout(start))
	}

	drain, err := optionalDuration(n.DrainTimeout)
	if err != nil {
		return nil, fmt.Errorf("parsing drain_timeout: %w", err)
	}
	if drain > 0 {
		opts = append(opts, messaging.WithDrainTimeout(drain))
	}

	if n.Host != "" {
		opts = append(opts, messaging.WithHost(n.Host))
	}
	if n.Port != 0 {
		opts = append(opts, messaging.WithPort(n.Port))
	}

	return messaging.NewNatsServer(opts...)
}

// optionalDuration parses s, treating the empty string as zero.
func optionalDuration(s string) (time.Duration, error) {
	if s == "" {
		return 0, nil
	}
	return time.ParseDuration(s)
}
