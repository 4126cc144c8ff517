package trainer

import (
	"fmt"

	"github.com/Cromyyx/shellshock-trainer-wind/internal/ballistics"
	"github.com/Cromyyx/shellshock-trainer-wind/internal/model"
	"github.com/Cromyyx/shellshock-trainer-wind/internal/platform"
	"github.com/Cromyyx/shellshock-trainer-wind/internal/render"
)

// State is the mutable application state owned by a Session.
type State struct {
	Mode   model.Mode
	Source *model.Point
	Target *model.Point
	Extent *model.Extent
	Wind   float64
}

// Result is the outcome of the last calculation.
type Result struct {
	Mode       model.Mode
	Target     model.Displacement
	Wind       float64
	Hits       []model.Hit
	Aggregated model.Aggregated
}

// Session owns the trainer state and reacts to command key presses.
type Session struct {
	cfg      model.Config
	bindings platform.Bindings
	searcher *ballistics.Searcher
	prompt   WindPrompter
	log      *Logger
	keys     *EdgeDetector

	state State
	last  *Result
}

// NewSession constructs a Session in the configured mode.
func NewSession(cfg model.Config, bindings platform.Bindings, prompt WindPrompter, log *Logger) *Session {
	if cfg.MaxHits <= 0 {
		cfg.MaxHits = ballistics.DefaultMaxHits
	}
	return &Session{
		cfg:      cfg,
		bindings: bindings,
		searcher: ballistics.NewSearcher(cfg.Params, cfg.Search),
		prompt:   prompt,
		log:      log,
		keys:     NewEdgeDetector(),
		state:    State{Mode: cfg.Mode},
	}
}

// State returns a copy of the current state.
func (s *Session) State() State {
	return s.state
}

// Params returns the simulation constants in use.
func (s *Session) Params() model.Params {
	return s.searcher.Params()
}

// LastResult returns the most recent calculation, if any.
func (s *Session) LastResult() (Result, bool) {
	if s.last == nil {
		return Result{}, false
	}
	return *s.last, true
}

// PrintControls writes the key bindings.
func (s *Session) PrintControls() {
	s.log.Infof("Controls:")
	for _, cmd := range platform.Commands {
		s.log.Println(fmt.Sprintf("  %c: %s", s.bindings[cmd], describe(cmd)))
	}
	s.log.Infof("Mode is '%s'.", s.state.Mode)
}

func describe(cmd platform.Command) string {
	switch cmd {
	case platform.SetSource:
		return "Set Source Position (Your Tank)"
	case platform.SetTarget:
		return "Set Target Position (Enemy Tank)"
	case platform.SetWind:
		return "Set Wind"
	case platform.Calculate:
		return "Calculate Hits (requires Source and Target)"
	case platform.Clear:
		return "Clear Positions and Wind"
	case platform.SwitchMode:
		return "Switch Mode (Angle/Velocity)"
	case platform.CacheExtent:
		return "Cache Game Window Dimensions"
	default:
		return cmd.String()
	}
}

// Tick polls every command key once and runs the handler of each newly
// pressed command. A calculation blocks until the search completes.
func (s *Session) Tick(h platform.Handle) {
	for _, cmd := range s.keys.Poll(h) {
		s.Dispatch(cmd, h)
	}
}

// Dispatch runs the handler for one command.
func (s *Session) Dispatch(cmd platform.Command, h platform.Handle) {
	switch cmd {
	case platform.SetSource:
		p := h.Cursor()
		s.state.Source = &p
		s.log.Infof("Position 1 (Source) set to (%d, %d).", p.X, p.Y)
	case platform.SetTarget:
		p := h.Cursor()
		s.state.Target = &p
		s.log.Infof("Position 2 (Target) set to (%d, %d).", p.X, p.Y)
	case platform.SetWind:
		s.state.Wind = s.prompt.ReadWind()
		s.log.Infof("Wind set to %.1f.", s.state.Wind)
	case platform.Calculate:
		s.calculate(h)
	case platform.Clear:
		s.state.Source = nil
		s.state.Target = nil
		s.state.Wind = 0
		s.log.Infof("Positions and wind cleared.")
	case platform.SwitchMode:
		s.state.Mode = s.state.Mode.Toggle()
		s.log.Infof("Mode changed to '%s'.", s.state.Mode)
	case platform.CacheExtent:
		extent := h.WindowExtent()
		if !extent.Valid() {
			s.log.Warnf("Window dimensions %dx%d are invalid; nothing cached.", extent.Width, extent.Height)
			return
		}
		s.state.Extent = &extent
		s.log.Infof("Window dimensions cached: %dx%d.", extent.Width, extent.Height)
	}
}

func (s *Session) calculate(h platform.Handle) {
	if s.state.Source == nil || s.state.Target == nil {
		s.log.Warnf("Source (%c) and Target (%c) positions must be set before calculating (%c).",
			s.bindings[platform.SetSource], s.bindings[platform.SetTarget], s.bindings[platform.Calculate])
		return
	}

	var extent model.Extent
	switch {
	case s.state.Extent != nil:
		extent = *s.state.Extent
	case s.cfg.RequireCachedExtent:
		s.log.Warnf("Window dimensions must be cached (%c) before calculating.", s.bindings[platform.CacheExtent])
		return
	default:
		extent = h.WindowExtent()
	}

	target, err := ballistics.TranslateChecked(extent, *s.state.Source, *s.state.Target)
	if err != nil {
		s.log.Warnf("Cannot calculate with window dimensions %dx%d: %v.", extent.Width, extent.Height, err)
		return
	}
	s.log.Infof("Relative target (pixels): (%.2f, %.2f)", target.DX, target.DY)
	s.log.Infof("Calculating with Wind Strength: %.1f", s.state.Wind)

	hits := s.searcher.Search(s.state.Mode, target, s.state.Wind)
	agg := ballistics.Aggregate(hits, s.cfg.MaxHits)
	s.last = &Result{
		Mode:       s.state.Mode,
		Target:     target,
		Wind:       s.state.Wind,
		Hits:       hits,
		Aggregated: agg,
	}
	if len(hits) == 0 {
		s.log.Infof("No hits found for the given parameters.")
		return
	}
	s.log.Infof("Results (Velocity, Angle):")
	lines := render.Lines(agg, s.cfg.MaxHits)
	if s.log.color {
		lines = render.StyledLines(agg, s.cfg.MaxHits)
	}
	for _, line := range lines {
		s.log.Println(line)
	}
}
