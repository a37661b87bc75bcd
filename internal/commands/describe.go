package commands

import (
	"strings"

	"github.com/benhook1013/fireengine/internal/display"
	"github.com/benhook1013/fireengine/internal/game"
)

const roomBodyTemplate = `{{ wrap .Description }}`

const roomOthersTemplate = `{{ if .Others }}{{ join ", " .Others }} {{ if eq (len .Others) 1 }}is{{ else }}are{{ end }} here.{{ end }}`

type roomView struct {
	Description string
	Exits       []string
	Others      []string
}

// DescribeRoom renders r as seen by viewer: name, description, exits and the
// other characters present.
func DescribeRoom(r *game.Room, viewer *game.Character) (*display.Output, error) {
	view := roomView{Description: r.Description}
	for _, e := range r.Exits() {
		name := e.Direction.String()
		if !e.Open {
			name += " (closed)"
		}
		view.Exits = append(view.Exits, name)
	}
	for _, c := range r.Occupants() {
		if viewer == nil || c.Id != viewer.Id {
			view.Others = append(view.Others, c.Name)
		}
	}

	body, err := display.ExpandTemplate(roomBodyTemplate, view)
	if err != nil {
		return nil, err
	}
	others, err := display.ExpandTemplate(roomOthersTemplate, view)
	if err != nil {
		return nil, err
	}

	exits := "none"
	if len(view.Exits) > 0 {
		exits = strings.Join(view.Exits, ", ")
	}

	out := display.NewOutput().
		StyledLine(display.StyleRoomName, r.Name).
		Line(body).
		StyledLine(display.StyleExits, "Exits: "+exits+".")
	if others != "" {
		out.Line(others)
	}
	return out, nil
}
