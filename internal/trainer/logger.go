// Package trainer runs the input-polling control loop around the solver.
package trainer

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"

	"github.com/Cromyyx/shellshock-trainer-wind/internal/render"
)

var (
	infoTagStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#5FAFD7"))
	warnTagStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Bold(true)
	errorTagStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F")).Bold(true)
	inputTagStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
)

// Logger writes tagged console lines.
type Logger struct {
	w     io.Writer
	color bool
}

// NewLogger returns a Logger writing to w. Tags are colored only when w is
// a terminal.
func NewLogger(w io.Writer) *Logger {
	return &Logger{w: w, color: render.ShouldUseColor(w)}
}

// Infof writes an [INFO] line.
func (l *Logger) Infof(format string, args ...any) {
	l.line(infoTagStyle, "[INFO]", format, args...)
}

// Warnf writes a [WARN] line.
func (l *Logger) Warnf(format string, args ...any) {
	l.line(warnTagStyle, "[WARN]", format, args...)
}

// Errorf writes an [ERROR] line.
func (l *Logger) Errorf(format string, args ...any) {
	l.line(errorTagStyle, "[ERROR]", format, args...)
}

// Println writes an untagged line.
func (l *Logger) Println(s string) {
	l.write(s + "\n")
}

// Prompt writes an [INPUT] prompt without a trailing newline.
func (l *Logger) Prompt(s string) {
	l.write(l.tag(inputTagStyle, "[INPUT]") + " " + s)
}

func (l *Logger) line(style lipgloss.Style, tag, format string, args ...any) {
	l.write(l.tag(style, tag) + " " + fmt.Sprintf(format, args...) + "\n")
}

func (l *Logger) tag(style lipgloss.Style, tag string) string {
	if !l.color {
		return tag
	}
	return style.Render(tag)
}

func (l *Logger) write(s string) {
	if _, err := io.WriteString(l.w, s); err != nil {
		// Best-effort console output.
		_ = err
	}
}
