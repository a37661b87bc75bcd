package commands

import (
	"errors"
	"maps"
	"testing"

	"github.com/pixil98/go-testutil"
)

func TestWorldPipeline_Resolve(t *testing.T) {
	tests := map[string]struct {
		input      string
		expHandler string
		expArgs    map[string]string
		expCap     Capability
		expErr     error
	}{
		"look":                 {input: "look", expHandler: HandlerLook, expArgs: map[string]string{}},
		"look abbreviated":     {input: "L", expHandler: HandlerLook, expArgs: map[string]string{}},
		"look direction":       {input: "look north", expHandler: HandlerLook, expArgs: map[string]string{"direction": "north"}},
		"map":                  {input: "MAP", expHandler: HandlerMap, expArgs: map[string]string{}},
		"map radius":           {input: "map 3", expHandler: HandlerMap, expArgs: map[string]string{"radius": "3"}},
		"move":                 {input: "move east", expHandler: HandlerMove, expArgs: map[string]string{"direction": "east"}},
		"go mixed case":        {input: "Go NE", expHandler: HandlerMove, expArgs: map[string]string{"direction": "NE"}},
		"walk":                 {input: "walk sw", expHandler: HandlerMove, expArgs: map[string]string{"direction": "sw"}},
		"bare direction":       {input: "south", expHandler: HandlerMove, expArgs: map[string]string{"direction": "south"}},
		"bare abbreviation":    {input: "NW", expHandler: HandlerMove, expArgs: map[string]string{"direction": "NW"}},
		"say":                  {input: "say hello there", expHandler: HandlerSay, expArgs: map[string]string{"text": "hello there"}},
		"say shorthand":        {input: "'hi", expHandler: HandlerSay, expArgs: map[string]string{"text": "hi"}},
		"qq":                   {input: "QQ", expHandler: HandlerQuitNow, expArgs: map[string]string{}, expCap: CapabilityPlayer},
		"quit":                 {input: "quit", expHandler: HandlerQuit, expArgs: map[string]string{}, expCap: CapabilityPlayer},
		"create room":          {input: "CREATE ROOM NORTH", expHandler: HandlerCreateRoom, expArgs: map[string]string{"direction": "NORTH"}, expCap: CapabilityPlayer},
		"create exit":          {input: "create exit e", expHandler: HandlerCreateExit, expArgs: map[string]string{"direction": "e"}, expCap: CapabilityPlayer},
		"destroy room":         {input: "destroy room w", expHandler: HandlerDestroyRoom, expArgs: map[string]string{"direction": "w"}, expCap: CapabilityPlayer},
		"destroy exit":         {input: "destroy  exit s", expHandler: HandlerDestroyExit, expArgs: map[string]string{"direction": "s"}, expCap: CapabilityPlayer},
		"admin shutdown":       {input: "ADMIN SHUTDOWN", expHandler: HandlerShutdown, expArgs: map[string]string{}, expCap: CapabilityAdmin},
		"admin watch":          {input: "admin watch Bob", expHandler: HandlerWatch, expArgs: map[string]string{"name": "Bob"}, expCap: CapabilityAdmin},
		"surrounding space":    {input: "  who  ", expHandler: HandlerWho, expArgs: map[string]string{}},
		"unknown word":         {input: "dance", expErr: ErrUnrecognized},
		"partial match":        {input: "looking", expErr: ErrUnrecognized},
		"unknown bare word":    {input: "up", expErr: ErrUnrecognized},
		"menu command in game": {input: "login", expErr: ErrUnrecognized},
		"move without target":  {input: "go", expErr: ErrUnrecognized},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			cmd, err := WorldPipeline.Resolve(tt.input)
			if !errors.Is(err, tt.expErr) {
				t.Fatalf("error = %v, expected %v", err, tt.expErr)
			}
			if tt.expErr != nil {
				return
			}
			testutil.AssertEqual(t, "handler", cmd.Handler, tt.expHandler)
			if !maps.Equal(cmd.Args, tt.expArgs) {
				t.Errorf("args = %v, expected %v", cmd.Args, tt.expArgs)
			}
			testutil.AssertEqual(t, "capability", cmd.Capability, tt.expCap)
		})
	}
}

func TestMenuPipeline_Resolve(t *testing.T) {
	tests := map[string]struct {
		input      string
		expHandler string
		expName    string
		expErr     error
	}{
		"login":           {input: "login", expHandler: MenuLogin},
		"login with name": {input: "LOGIN alice", expHandler: MenuLogin, expName: "alice"},
		"menu number":     {input: "2", expHandler: MenuNew},
		"new with name":   {input: "new Bob", expHandler: MenuNew, expName: "Bob"},
		"quit":            {input: "qq", expHandler: MenuQuit},
		"world command":   {input: "look", expErr: ErrUnrecognized},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			cmd, err := MenuPipeline.Resolve(tt.input)
			if !errors.Is(err, tt.expErr) {
				t.Fatalf("error = %v, expected %v", err, tt.expErr)
			}
			if tt.expErr != nil {
				return
			}
			testutil.AssertEqual(t, "handler", cmd.Handler, tt.expHandler)
			testutil.AssertEqual(t, "name", cmd.Arg("name"), tt.expName)
		})
	}
}

func TestNewGrammar_Invalid(t *testing.T) {
	tests := map[string]Matcher{
		"no name":     {Pattern: "x", Handler: "x"},
		"no handler":  {Name: "x", Pattern: "x"},
		"bad pattern": {Name: "x", Pattern: "(", Handler: "x"},
	}
	for name, m := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := NewGrammar("test", m); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}
