package trainer

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

// Wind bounds accepted from the user.
const (
	MinWind = -100.0
	MaxWind = 100.0
)

// ErrWindRange is returned for a wind value outside [-100, 100].
var ErrWindRange = errors.New("wind must be between -100 and 100")

// WindPrompter asks the user for the current wind.
type WindPrompter interface {
	ReadWind() float64
}

// ParseWind parses and range-checks a wind value.
func ParseWind(s string) (float64, error) {
	wind, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid wind %q: %w", strings.TrimSpace(s), err)
	}
	if math.IsNaN(wind) || wind < MinWind || wind > MaxWind {
		return 0, ErrWindRange
	}
	return wind, nil
}

// ConsolePrompt reads the wind from a line-oriented console.
type ConsolePrompt struct {
	in  *bufio.Reader
	log *Logger
}

// NewConsolePrompt returns a prompt reading from in and writing prompts to log.
func NewConsolePrompt(in io.Reader, log *Logger) *ConsolePrompt {
	return &ConsolePrompt{in: bufio.NewReader(in), log: log}
}

// ReadWind prompts until a valid value is entered. It returns 0 when the
// input cannot be read.
func (p *ConsolePrompt) ReadWind() float64 {
	for {
		p.log.Prompt("Enter Wind (-100 Left to 100 Right, 0 for none): ")
		line, err := p.in.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || strings.TrimSpace(line) == "") {
			p.log.Println("")
			p.log.Errorf("Failed to read input: %v", err)
			return 0
		}
		wind, perr := ParseWind(line)
		switch {
		case perr == nil:
			return wind
		case errors.Is(perr, ErrWindRange):
			p.log.Errorf("Wind must be between -100 and 100.")
		default:
			p.log.Errorf("Invalid input. Please enter a number (e.g., -50, 0, 75).")
		}
		if err != nil {
			return 0
		}
	}
}
