package display

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Style is a rendering hint attached to a part of an Output. Transports that
// cannot colour text ignore it.
type Style int

const (
	StyleNone Style = iota
	StyleRoomName
	StyleExits
	StyleSay
	StyleNotice
	StyleError
	StylePrompt
)

var ansiCodes = map[Style]string{
	StyleRoomName: "\x1b[1;36m",
	StyleExits:    "\x1b[32m",
	StyleSay:      "\x1b[33m",
	StyleNotice:   "\x1b[35m",
	StyleError:    "\x1b[31m",
	StylePrompt:   "\x1b[1m",
}

const ansiReset = "\x1b[0m"

// Part is a run of text sharing one style.
type Part struct {
	Text  string `json:"text"`
	Style Style  `json:"style,omitempty"`
}

// Output is an ordered sequence of parts composed by the game and rendered by
// the transport.
type Output struct {
	Parts []Part `json:"parts"`
}

// NewOutput creates an empty Output.
func NewOutput() *Output {
	return &Output{}
}

// Text creates an Output holding a single unstyled line.
func Text(format string, args ...any) *Output {
	return NewOutput().Line(fmt.Sprintf(format, args...))
}

// Styled creates an Output holding a single styled line.
func Styled(style Style, format string, args ...any) *Output {
	return NewOutput().StyledLine(style, fmt.Sprintf(format, args...))
}

// Add appends unstyled text.
func (o *Output) Add(text string) *Output {
	return o.AddStyled(StyleNone, text)
}

// AddStyled appends text with a style hint.
func (o *Output) AddStyled(style Style, text string) *Output {
	o.Parts = append(o.Parts, Part{Text: text, Style: style})
	return o
}

// Line appends unstyled text followed by a newline.
func (o *Output) Line(text string) *Output {
	return o.Add(text + "\n")
}

// StyledLine appends styled text followed by a newline.
func (o *Output) StyledLine(style Style, text string) *Output {
	o.AddStyled(style, text)
	return o.Add("\n")
}

// Append adds the parts of other to the end of o.
func (o *Output) Append(other *Output) *Output {
	if other != nil {
		o.Parts = append(o.Parts, other.Parts...)
	}
	return o
}

// String returns the plain text of the output without styling.
func (o *Output) String() string {
	var sb strings.Builder
	for _, p := range o.Parts {
		sb.WriteString(p.Text)
	}
	return sb.String()
}

// Render returns the output as text, wrapping styled parts in ANSI colour
// codes when color is true.
func (o *Output) Render(color bool) string {
	if !color {
		return o.String()
	}
	var sb strings.Builder
	for _, p := range o.Parts {
		code, ok := ansiCodes[p.Style]
		if !ok || p.Text == "" {
			sb.WriteString(p.Text)
			continue
		}
		sb.WriteString(code)
		sb.WriteString(p.Text)
		sb.WriteString(ansiReset)
	}
	return sb.String()
}

// Bytes encodes the output for the message bus.
func (o *Output) Bytes() []byte {
	// Output only holds strings and ints; Marshal cannot fail.
	b, _ := json.Marshal(o)
	return b
}

// Decode reverses Bytes. Data that is not an encoded Output is treated as
// plain text so raw publishes still reach the player.
func Decode(data []byte) *Output {
	var o Output
	if err := json.Unmarshal(data, &o); err != nil {
		return NewOutput().Add(string(data))
	}
	return &o
}
