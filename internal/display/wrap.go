package display

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/muesli/reflow/wordwrap"
)

// DefaultWidth is the column room text is wrapped at.
const DefaultWidth = 80

// Wrap word-wraps text to DefaultWidth. ANSI escapes do not count toward the
// width.
func Wrap(text string) string {
	return WrapTo(text, DefaultWidth)
}

// WrapTo word-wraps text to width, keeping existing line breaks and trimming
// the spaces a break leaves at the end of a line.
func WrapTo(text string, width int) string {
	w := wordwrap.NewWriter(width)
	w.KeepNewlines = true
	_, _ = w.Write([]byte(text))
	_ = w.Close()

	lines := strings.Split(w.String(), "\n")
	for i, l := range lines {
		lines[i] = strings.TrimRight(l, " ")
	}
	return strings.Join(lines, "\n")
}

// Capitalize returns s with its first letter uppercased.
func Capitalize(s string) string {
	r, n := utf8.DecodeRuneInString(s)
	if n == 0 {
		return s
	}
	return string(unicode.ToUpper(r)) + s[n:]
}
