package commands

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrUnrecognized is returned when no matcher in a pipeline accepts the input.
var ErrUnrecognized = errors.New("unrecognized command")

// Capability is the privilege a command requires of its actor.
type Capability int

const (
	// CapabilityAny commands may be run by any character.
	CapabilityAny Capability = iota
	// CapabilityPlayer commands need a session-bound player.
	CapabilityPlayer
	// CapabilityAdmin commands need a player with the admin flag.
	CapabilityAdmin
)

func (c Capability) String() string {
	switch c {
	case CapabilityAny:
		return "any"
	case CapabilityPlayer:
		return "player"
	case CapabilityAdmin:
		return "admin"
	}
	return fmt.Sprintf("capability(%d)", int(c))
}

// Command is one parsed line of input. It is built by a Matcher and never
// modified afterwards.
type Command struct {
	Name       string
	Handler    string
	Capability Capability
	Args       map[string]string
}

// Arg returns the captured argument, or "" if it was not supplied.
func (c *Command) Arg(name string) string {
	return c.Args[name]
}

// Matcher turns input that fully matches Pattern into a Command. Named
// capture groups in the pattern become the command's arguments. Matching is
// case-insensitive.
type Matcher struct {
	Name       string
	Usage      string
	Help       string
	Pattern    string
	Handler    string
	Capability Capability

	re *regexp.Regexp
}

func (m *Matcher) compile() error {
	if m.Name == "" {
		return fmt.Errorf("matcher name is required")
	}
	if m.Handler == "" {
		return fmt.Errorf("matcher %q: handler is required", m.Name)
	}
	re, err := regexp.Compile(`(?i)^(?:` + m.Pattern + `)$`)
	if err != nil {
		return fmt.Errorf("matcher %q: %w", m.Name, err)
	}
	m.re = re
	return nil
}

// Match returns the command for text, or nil if the pattern does not match
// the whole input.
func (m *Matcher) Match(text string) *Command {
	sub := m.re.FindStringSubmatch(text)
	if sub == nil {
		return nil
	}
	args := make(map[string]string)
	for i, name := range m.re.SubexpNames() {
		if name != "" && sub[i] != "" {
			args[name] = strings.TrimSpace(sub[i])
		}
	}
	return &Command{
		Name:       m.Name,
		Handler:    m.Handler,
		Capability: m.Capability,
		Args:       args,
	}
}

// Grammar is an ordered list of matchers. Earlier matchers win.
type Grammar struct {
	Name     string
	matchers []*Matcher
}

// NewGrammar compiles the matchers into a grammar.
func NewGrammar(name string, matchers ...Matcher) (*Grammar, error) {
	g := &Grammar{Name: name}
	for _, m := range matchers {
		if err := m.compile(); err != nil {
			return nil, fmt.Errorf("grammar %q: %w", name, err)
		}
		g.matchers = append(g.matchers, &m)
	}
	return g, nil
}

// MustGrammar is NewGrammar for grammars fixed at compile time.
func MustGrammar(name string, matchers ...Matcher) *Grammar {
	g, err := NewGrammar(name, matchers...)
	if err != nil {
		panic(err)
	}
	return g
}

// Match returns the command of the first matching matcher, or nil.
func (g *Grammar) Match(text string) *Command {
	for _, m := range g.matchers {
		if cmd := m.Match(text); cmd != nil {
			return cmd
		}
	}
	return nil
}

// Matchers returns the grammar's matchers in priority order.
func (g *Grammar) Matchers() []*Matcher {
	return g.matchers
}

// Pipeline is the ordered chain of grammars a phase resolves input against.
type Pipeline []*Grammar

// Resolve returns the first command any grammar produces for text. Input that
// no grammar accepts yields ErrUnrecognized.
func (p Pipeline) Resolve(text string) (*Command, error) {
	text = strings.TrimSpace(text)
	for _, g := range p {
		if cmd := g.Match(text); cmd != nil {
			return cmd, nil
		}
	}
	return nil, ErrUnrecognized
}

// Handlers lists every handler name the pipeline can produce.
func (p Pipeline) Handlers() []string {
	var names []string
	seen := make(map[string]bool)
	for _, g := range p {
		for _, m := range g.matchers {
			if !seen[m.Handler] {
				seen[m.Handler] = true
				names = append(names, m.Handler)
			}
		}
	}
	return names
}
