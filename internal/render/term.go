package render

import (
	"io"
	"os"
	"strings"

	"github.com/mattn/go-runewidth"
	"golang.org/x/term"
)

const terminalWidthBackup = 80

// TerminalWidth returns the width of stdout, or 80 when it is not a terminal.
func TerminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return terminalWidthBackup
	}
	return width
}

// IsTerminal reports whether w is a terminal.
func IsTerminal(w io.Writer) bool {
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(file.Fd()))
}

// ShouldUseColor reports whether styled output should be written to w.
func ShouldUseColor(w io.Writer) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	return IsTerminal(w)
}

// Wrap breaks a result line at spaces so no row exceeds width. Continuation
// rows are indented to align after the "-> " separator.
func Wrap(line string, width int) []string {
	if width <= 0 || runewidth.StringWidth(line) <= width {
		return []string{line}
	}
	indent := 0
	if i := strings.Index(line, "-> "); i >= 0 {
		indent = runewidth.StringWidth(line[:i+3])
	}
	if indent >= width/2 {
		indent = 0
	}
	pad := strings.Repeat(" ", indent)

	var out []string
	var cur strings.Builder
	curWidth := 0
	empty := true
	for _, word := range strings.Split(line, " ") {
		w := runewidth.StringWidth(word)
		if !empty && curWidth+1+w > width {
			out = append(out, cur.String())
			cur.Reset()
			cur.WriteString(pad)
			curWidth = indent
			empty = true
		}
		if !empty {
			cur.WriteByte(' ')
			curWidth++
		}
		cur.WriteString(word)
		curWidth += w
		empty = false
	}
	if !empty {
		out = append(out, cur.String())
	}
	return out
}
