package command

import (
	"fmt"

	"github.com/benhook1013/fireengine/internal/game"
	"github.com/pixil98/go-errors"
)

const defaultMapRadius = 10

type WorldConfig struct {
	// DefaultMap names the map new characters start on. It is created if it
	// does not exist.
	DefaultMap string `json:"default_map"`
	// MapRadius bounds a newly created default map to -r..r on each axis.
	MapRadius int `json:"map_radius"`
}

func (c *WorldConfig) validate() error {
	el := errors.NewErrorList()

	if c.DefaultMap == "" {
		el.Add(fmt.Errorf("world: default_map is required"))
	}
	if c.MapRadius < 0 {
		el.Add(fmt.Errorf("world: map_radius must not be negative"))
	}

	return el.Err()
}

func (c *WorldConfig) radius() int {
	if c.MapRadius == 0 {
		return defaultMapRadius
	}
	return c.MapRadius
}

func (c *WorldConfig) newWorld() *game.World {
	return game.NewWorld(c.DefaultMap)
}
