package commands

import (
	"strings"
	"testing"

	"github.com/pixil98/go-testutil"

	"github.com/benhook1013/fireengine/internal/game"
)

func TestDescribeRoom(t *testing.T) {
	f := newFixture(t)
	alice := f.player(t, "Alice", f.a, game.PlayerSettings{}).Character
	f.player(t, "Bob", f.a, game.PlayerSettings{})
	f.player(t, "Cat", f.a, game.PlayerSettings{})

	out, err := DescribeRoom(f.a, alice)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	exp := "Room A\nThe first room.\nExits: east.\nBob, Cat are here.\n"
	testutil.AssertEqual(t, "description", out.String(), exp)

	out, err = DescribeRoom(f.b, alice)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	testutil.AssertEqual(t, "empty room", out.String(), "Room B\nThe second room.\nExits: west.\n")
}

func TestLookHandler(t *testing.T) {
	tests := map[string]struct {
		input  string
		expMsg string
	}{
		"current room":      {input: "look", expMsg: "Room A"},
		"through exit":      {input: "look e", expMsg: "Room B"},
		"no exit that way":  {input: "l north", expMsg: "You see no way north."},
		"invalid direction": {input: "look sideways", expMsg: "That is not a direction"},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			f := newFixture(t)
			p := f.player(t, "Alice", f.a, game.PlayerSettings{})

			f.handle(t, p.Character, tt.input)

			if !f.pub.received(p.Id(), tt.expMsg) {
				t.Errorf("messages %q do not contain %q", f.pub.messagesTo(p.Id()), tt.expMsg)
			}
			testutil.AssertEqual(t, "room", p.Character.Room(), f.a)
		})
	}
}

func TestRenderMap(t *testing.T) {
	m := game.NewGameMap("m", "M", 2)
	centre := game.NewRoom("C", "")
	rooms := map[game.Coord]*game.Room{
		{}:            centre,
		{X: 1}:        game.NewRoom("E", ""),
		{Y: -1}:       game.NewRoom("S", ""),
		{X: 1, Y: -1}: game.NewRoom("SE", ""),
	}
	for c, r := range rooms {
		if err := m.SetRoom(c, r); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	for _, link := range []struct {
		from game.Coord
		dir  game.Direction
	}{
		{game.Coord{}, game.East},
		{game.Coord{}, game.South},
		{game.Coord{}, game.SouthEast},
		{game.Coord{X: 1}, game.SouthWest},
	} {
		if _, err := m.CreateExit(m.RoomAt(link.from), link.dir); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	got := strings.Join(RenderMap(centre, 1), "\n")
	exp := strings.Join([]string{
		"",
		"",
		"    [*]-[ ]",
		"     | X",
		"    [ ] [ ]",
	}, "\n")
	testutil.AssertEqual(t, "map", got, exp)
}

func TestMapHandler_ClampsRadius(t *testing.T) {
	f := newFixture(t)
	p := f.player(t, "Alice", f.a, game.PlayerSettings{})

	f.handle(t, p.Character, "map 99")

	msgs := f.pub.messagesTo(p.Id())
	testutil.AssertEqual(t, "message count", len(msgs), 1)
	// Radius 5 draws 11 room rows and 10 link rows under the title.
	testutil.AssertEqual(t, "lines", strings.Count(msgs[0], "\n"), 22)
	if !strings.Contains(msgs[0], "[*]-[ ]") {
		t.Errorf("map %q missing rooms", msgs[0])
	}
}
