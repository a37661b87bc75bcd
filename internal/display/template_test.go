package display

import (
	"strings"
	"testing"

	"github.com/pixil98/go-testutil"
)

type roomView struct {
	Name   string
	Exits  []string
	Others []string
	Text   string
}

func TestExpandTemplate(t *testing.T) {
	tests := map[string]struct {
		src    string
		data   any
		exp    string
		expErr bool
	}{
		"literal": {
			src:  "A quiet road.",
			data: roomView{},
			exp:  "A quiet road.",
		},
		"field": {
			src:  "You are in {{ .Name }}.",
			data: roomView{Name: "The Crossroads"},
			exp:  "You are in The Crossroads.",
		},
		"sprig join": {
			src:  `Exits: {{ join ", " .Exits }}.`,
			data: roomView{Exits: []string{"north", "east"}},
			exp:  "Exits: north, east.",
		},
		"sprig conditional": {
			src:  `{{ if eq (len .Others) 1 }}{{ first .Others }} is here.{{ end }}`,
			data: roomView{Others: []string{"Alice"}},
			exp:  "Alice is here.",
		},
		"wrap": {
			src:  "{{ wrap .Text }}",
			data: roomView{Text: "short"},
			exp:  "short",
		},
		"unclosed action": {
			src:    "{{ .Name",
			data:   roomView{},
			expErr: true,
		},
		"unknown field": {
			src:    "{{ .Smell }}",
			data:   roomView{},
			expErr: true,
		},
		"missing map key": {
			src:    "{{ .smell }}",
			data:   map[string]string{},
			expErr: true,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			got, err := ExpandTemplate(tt.src, tt.data)
			testutil.AssertEqual(t, "error", err != nil, tt.expErr)
			if err == nil {
				testutil.AssertEqual(t, "output", got, tt.exp)
			}
		})
	}
}

func TestExpandTemplate_Reuse(t *testing.T) {
	const src = "{{ .Name }}"
	for _, name := range []string{"North Road", "South Road"} {
		got, err := ExpandTemplate(src, roomView{Name: name})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		testutil.AssertEqual(t, "output", got, name)
	}
}

func TestWrapTo(t *testing.T) {
	tests := map[string]struct {
		text  string
		width int
		exp   string
	}{
		"fits":            {text: "a quiet road", width: 20, exp: "a quiet road"},
		"breaks on space": {text: "a quiet road", width: 7, exp: "a quiet\nroad"},
		"keeps newlines":  {text: "one\ntwo", width: 20, exp: "one\ntwo"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			testutil.AssertEqual(t, "wrapped", WrapTo(tt.text, tt.width), tt.exp)
		})
	}
}

func TestWrap_Width(t *testing.T) {
	long := strings.Repeat("cobbles ", 40)
	for _, line := range strings.Split(Wrap(long), "\n") {
		if len(line) > DefaultWidth {
			t.Errorf("line longer than %d: %q", DefaultWidth, line)
		}
		if strings.HasSuffix(line, " ") {
			t.Errorf("line has trailing space: %q", line)
		}
	}
}

func TestCapitalize(t *testing.T) {
	tests := map[string]struct {
		in  string
		exp string
	}{
		"empty":   {in: "", exp: ""},
		"lower":   {in: "bob", exp: "Bob"},
		"already": {in: "Bob", exp: "Bob"},
		"unicode": {in: "élan", exp: "Élan"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			testutil.AssertEqual(t, "capitalized", Capitalize(tt.in), tt.exp)
		})
	}
}
