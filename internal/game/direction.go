package game

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Direction is one of the eight compass directions of the map grid.
type Direction int

const (
	DirectionNone Direction = iota
	North
	NorthEast
	East
	SouthEast
	South
	SouthWest
	West
	NorthWest
)

// Directions lists every supported direction in display order.
var Directions = []Direction{North, NorthEast, East, SouthEast, South, SouthWest, West, NorthWest}

type directionInfo struct {
	name   string
	abbrev string
	dx, dy int
}

var directionTable = map[Direction]directionInfo{
	North:     {name: "north", abbrev: "n", dx: 0, dy: 1},
	NorthEast: {name: "northeast", abbrev: "ne", dx: 1, dy: 1},
	East:      {name: "east", abbrev: "e", dx: 1, dy: 0},
	SouthEast: {name: "southeast", abbrev: "se", dx: 1, dy: -1},
	South:     {name: "south", abbrev: "s", dx: 0, dy: -1},
	SouthWest: {name: "southwest", abbrev: "sw", dx: -1, dy: -1},
	West:      {name: "west", abbrev: "w", dx: -1, dy: 0},
	NorthWest: {name: "northwest", abbrev: "nw", dx: -1, dy: 1},
}

var titleCaser = cases.Title(language.English)

// ParseDirection converts a direction name or abbreviation (case-insensitive)
// into a Direction.
func ParseDirection(s string) (Direction, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for d, info := range directionTable {
		if s == info.name || s == info.abbrev {
			return d, nil
		}
	}
	return DirectionNone, ErrDirectionNotSupported
}

// Valid reports whether d is a supported compass direction.
func (d Direction) Valid() bool {
	_, ok := directionTable[d]
	return ok
}

// String returns the lowercase direction name.
func (d Direction) String() string {
	if info, ok := directionTable[d]; ok {
		return info.name
	}
	return "nowhere"
}

// Title returns the direction name capitalised for display (e.g. "East").
func (d Direction) Title() string {
	return titleCaser.String(d.String())
}

// Abbrev returns the short form of the direction (e.g. "ne").
func (d Direction) Abbrev() string {
	return directionTable[d].abbrev
}

// Opposite returns the geometric inverse of d.
func (d Direction) Opposite() Direction {
	info, ok := directionTable[d]
	if !ok {
		return DirectionNone
	}
	for o, oi := range directionTable {
		if oi.dx == -info.dx && oi.dy == -info.dy {
			return o
		}
	}
	return DirectionNone
}

// Coord is an integer grid coordinate. Y grows to the north.
type Coord struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Step returns the coordinate one unit away from c in direction d.
func (c Coord) Step(d Direction) Coord {
	info := directionTable[d]
	return Coord{X: c.X + info.dx, Y: c.Y + info.dy}
}
