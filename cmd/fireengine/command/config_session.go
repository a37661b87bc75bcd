package command

import (
	"fmt"
	"time"

	"github.com/benhook1013/fireengine/internal/player"
	"github.com/pixil98/go-errors"
)

const defaultStopTimeout = 10 * time.Second

type SessionConfig struct {
	// InitialPhase is the phase a new connection starts in.
	InitialPhase string `json:"initial_phase"`
	Banner       string `json:"banner"`
	// NoColor disables ANSI styling.
	NoColor     bool   `json:"no_color"`
	StopTimeout string `json:"stop_timeout"`
}

func (c *SessionConfig) validate() error {
	el := errors.NewErrorList()

	if _, err := player.LookupPhase(c.initialPhase()); err != nil {
		el.Add(fmt.Errorf("session: %w", err))
	}
	if _, err := optionalDuration(c.StopTimeout); err != nil {
		el.Add(fmt.Errorf("session: parsing stop_timeout: %w", err))
	}

	return el.Err()
}

func (c *SessionConfig) initialPhase() string {
	if c.InitialPhase == "" {
		return "welcome"
	}
	return c.InitialPhase
}

func (c *SessionConfig) BuildSessionManager(env *player.Env) (*player.SessionManager, error) {
	env.Banner = c.Banner
	env.Color = !c.NoColor

	stop, err := optionalDuration(c.StopTimeout)
	if err != nil {
		return nil, fmt.Errorf("parsing stop_timeout: %w", err)
	}
	if stop == 0 {
		stop = defaultStopTimeout
	}

	return player.NewSessionManager(env, c.initialPhase(), stop)
}
