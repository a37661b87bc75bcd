package commands

import (
	"context"
	"strconv"
	"strings"

	"github.com/benhook1013/fireengine/internal/display"
	"github.com/benhook1013/fireengine/internal/game"
)

const (
	defaultMapRadius = 2
	maxMapRadius     = 5
)

// MapHandlerFactory creates handlers that draw the grid around the actor.
type MapHandlerFactory struct{}

func NewMapHandlerFactory() *MapHandlerFactory {
	return &MapHandlerFactory{}
}

func (f *MapHandlerFactory) Create() (CommandFunc, error) {
	return func(ctx context.Context, cmdCtx *CommandContext) error {
		radius := defaultMapRadius
		if arg := cmdCtx.Command.Arg("radius"); arg != "" {
			n, err := strconv.Atoi(arg)
			if err != nil {
				return NewUserError("The map radius must be a number.")
			}
			radius = max(1, min(n, maxMapRadius))
		}

		room := cmdCtx.Actor.Room()
		out := display.NewOutput().StyledLine(display.StyleRoomName, room.Map().Name)
		for _, line := range RenderMap(room, radius) {
			out.Line(line)
		}
		return cmdCtx.Reply(out)
	}, nil
}

// RenderMap draws the rooms within radius of centre. Rooms are "[ ]" (the
// centre is "[*]"), and exits are drawn between them: "-" and "|" for
// straight exits, "/" and "\" for diagonals, "X" where diagonals cross.
func RenderMap(centre *game.Room, radius int) []string {
	m := centre.Map()
	origin := centre.Coord()

	at := func(x, y int) *game.Room {
		c := game.Coord{X: x, Y: y}
		if !m.InBounds(c) {
			return nil
		}
		return m.RoomAt(c)
	}
	linked := func(r *game.Room, d game.Direction) bool {
		return r != nil && r.Exit(d) != nil
	}

	var lines []string
	for y := origin.Y + radius; y >= origin.Y-radius; y-- {
		var row, link strings.Builder
		for x := origin.X - radius; x <= origin.X+radius; x++ {
			r := at(x, y)
			switch {
			case r == nil:
				row.WriteString("   ")
			case r == centre:
				row.WriteString("[*]")
			default:
				row.WriteString("[ ]")
			}

			below := at(x, y-1)
			if linked(r, game.South) || linked(below, game.North) {
				link.WriteString(" | ")
			} else {
				link.WriteString("   ")
			}

			if x == origin.X+radius {
				break
			}

			right := at(x+1, y)
			if linked(r, game.East) || linked(right, game.West) {
				row.WriteString("-")
			} else {
				row.WriteString(" ")
			}

			belowRight := at(x+1, y-1)
			back := linked(r, game.SouthEast) || linked(belowRight, game.NorthWest)
			fwd := linked(below, game.NorthEast) || linked(right, game.SouthWest)
			switch {
			case back && fwd:
				link.WriteString("X")
			case back:
				link.WriteString(`\`)
			case fwd:
				link.WriteString("/")
			default:
				link.WriteString(" ")
			}
		}
		lines = append(lines, strings.TrimRight(row.String(), " "))
		if y > origin.Y-radius {
			lines = append(lines, strings.TrimRight(link.String(), " "))
		}
	}
	return lines
}
