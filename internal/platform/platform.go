// Package platform abstracts the game window and input devices.
package platform

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/Cromyyx/shellshock-trainer-wind/internal/model"
)

// DefaultWindowTitle is the title of the game window.
const DefaultWindowTitle = "ShellShock Live"

// ErrUnsupported is returned when no window backend exists for the OS.
var ErrUnsupported = errors.New("platform not supported (only Windows is implemented)")

// Command is a logical trainer action bound to a key.
type Command int

const (
	SetSource Command = iota
	SetTarget
	SetWind
	Calculate
	Clear
	SwitchMode
	CacheExtent
)

// Commands lists every command in polling order.
var Commands = []Command{SetSource, SetTarget, SetWind, Calculate, Clear, SwitchMode, CacheExtent}

var commandNames = map[Command]string{
	SetSource:   "set-source",
	SetTarget:   "set-target",
	SetWind:     "set-wind",
	Calculate:   "calculate",
	Clear:       "clear",
	SwitchMode:  "switch-mode",
	CacheExtent: "cache-extent",
}

// String returns the config name of the command.
func (c Command) String() string {
	if name, ok := commandNames[c]; ok {
		return name
	}
	return fmt.Sprintf("command(%d)", int(c))
}

// ParseCommand resolves a config name to a command.
func ParseCommand(name string) (Command, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for cmd, n := range commandNames {
		if n == name {
			return cmd, nil
		}
	}
	return 0, fmt.Errorf("unknown command %q", name)
}

// Handle is the capability the trainer needs from the game window.
type Handle interface {
	// IsPressed reports whether the key bound to cmd is currently held.
	IsPressed(cmd Command) bool
	// WindowExtent returns the client area size, zero on failure.
	WindowExtent() model.Extent
	// Cursor returns the cursor position relative to the client area,
	// the origin on failure.
	Cursor() model.Point
}

// Bindings maps commands to keys.
type Bindings map[Command]rune

// DefaultBindings binds commands to the number keys 1-7.
func DefaultBindings() Bindings {
	b := Bindings{}
	for i, cmd := range Commands {
		b[cmd] = rune('1' + i)
	}
	return b
}

// Override returns a copy with the given keys replaced. Keys are single
// characters.
func (b Bindings) Override(keys map[string]string) (Bindings, error) {
	out := Bindings{}
	for cmd, key := range b {
		out[cmd] = key
	}
	names := make([]string, 0, len(keys))
	for name := range keys {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		cmd, err := ParseCommand(name)
		if err != nil {
			return nil, err
		}
		key := strings.TrimSpace(keys[name])
		if utf8.RuneCountInString(key) != 1 {
			return nil, fmt.Errorf("key for %s must be a single character, got %q", name, key)
		}
		r, _ := utf8.DecodeRuneInString(key)
		out[cmd] = r
	}
	seen := map[rune]Command{}
	for _, cmd := range Commands {
		r, ok := out[cmd]
		if !ok {
			continue
		}
		if other, dup := seen[r]; dup {
			return nil, fmt.Errorf("key %q bound to both %s and %s", r, other, cmd)
		}
		seen[r] = cmd
	}
	return out, nil
}

// Lookup returns the command bound to r.
func (b Bindings) Lookup(r rune) (Command, bool) {
	for cmd, key := range b {
		if key == r {
			return cmd, true
		}
	}
	return 0, false
}
