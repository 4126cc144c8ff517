package trainer

import "github.com/Cromyyx/shellshock-trainer-wind/internal/platform"

// KeyState is the last observed state of a command key.
type KeyState uint8

const (
	KeyReleased KeyState = iota
	KeyPressed
)

// EdgeDetector turns polled key states into press events. Each key is a
// two-state machine; only the released -> pressed transition is reported.
type EdgeDetector struct {
	states  map[platform.Command]KeyState
	current []bool
	edges   []platform.Command
}

// NewEdgeDetector returns a detector with every key released.
func NewEdgeDetector() *EdgeDetector {
	states := make(map[platform.Command]KeyState, len(platform.Commands))
	for _, cmd := range platform.Commands {
		states[cmd] = KeyReleased
	}
	return &EdgeDetector{
		states:  states,
		current: make([]bool, len(platform.Commands)),
		edges:   make([]platform.Command, 0, len(platform.Commands)),
	}
}

// Update records the current state of one key and reports a rising edge.
func (d *EdgeDetector) Update(cmd platform.Command, pressed bool) bool {
	prev := d.states[cmd]
	if pressed {
		d.states[cmd] = KeyPressed
		return prev == KeyReleased
	}
	d.states[cmd] = KeyReleased
	return false
}

// Poll reads every command key once, then compares each against its
// previous state. The returned slice is reused by the next call.
func (d *EdgeDetector) Poll(h platform.Handle) []platform.Command {
	for i, cmd := range platform.Commands {
		d.current[i] = h.IsPressed(cmd)
	}
	d.edges = d.edges[:0]
	for i, cmd := range platform.Commands {
		if d.Update(cmd, d.current[i]) {
			d.edges = append(d.edges, cmd)
		}
	}
	return d.edges
}

// State returns the recorded state of a key.
func (d *EdgeDetector) State(cmd platform.Command) KeyState {
	return d.states[cmd]
}
