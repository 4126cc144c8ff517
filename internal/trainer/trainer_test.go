package trainer

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/Cromyyx/shellshock-trainer-wind/internal/model"
	"github.com/Cromyyx/shellshock-trainer-wind/internal/platform"
)

type fakeHandle struct {
	pressed map[platform.Command]bool
	extent  model.Extent
	cursor  model.Point
	reads   int
}

func newFakeHandle() *fakeHandle {
	return &fakeHandle{
		pressed: map[platform.Command]bool{},
		extent:  model.Extent{Width: 884, Height: 496},
	}
}

func (f *fakeHandle) IsPressed(cmd platform.Command) bool {
	f.reads++
	return f.pressed[cmd]
}

func (f *fakeHandle) WindowExtent() model.Extent { return f.extent }

func (f *fakeHandle) Cursor() model.Point { return f.cursor }

type fixedWind float64

func (w fixedWind) ReadWind() float64 { return float64(w) }

func newTestSession(t *testing.T, mode model.Mode) (*Session, *bytes.Buffer) {
	t.Helper()
	var out bytes.Buffer
	cfg := model.Config{
		Params:  model.DefaultParams(),
		Mode:    mode,
		MaxHits: 5,
	}
	return NewSession(cfg, platform.DefaultBindings(), fixedWind(0), NewLogger(&out)), &out
}

// press simulates one tick with cmd held followed by one tick with it released.
func press(s *Session, h *fakeHandle, cmd platform.Command) {
	h.pressed[cmd] = true
	s.Tick(h)
	h.pressed[cmd] = false
	s.Tick(h)
}

func TestEdgeDetectorReportsPressOnce(t *testing.T) {
	d := NewEdgeDetector()
	if !d.Update(platform.Calculate, true) {
		t.Fatalf("expected rising edge on first press")
	}
	for i := 0; i < 3; i++ {
		if d.Update(platform.Calculate, true) {
			t.Fatalf("expected no edge while held")
		}
	}
	if d.State(platform.Calculate) != KeyPressed {
		t.Fatalf("expected pressed state")
	}
	if d.Update(platform.Calculate, false) {
		t.Fatalf("expected no edge on release")
	}
	if !d.Update(platform.Calculate, true) {
		t.Fatalf("expected edge after release")
	}
}

func TestEdgeDetectorPollReadsEveryKeyOnce(t *testing.T) {
	d := NewEdgeDetector()
	h := newFakeHandle()
	h.pressed[platform.SetTarget] = true
	h.pressed[platform.Clear] = true
	edges := d.Poll(h)
	if h.reads != len(platform.Commands) {
		t.Fatalf("expected %d reads, got %d", len(platform.Commands), h.reads)
	}
	if len(edges) != 2 || edges[0] != platform.SetTarget || edges[1] != platform.Clear {
		t.Fatalf("unexpected edges: %v", edges)
	}
	if edges := d.Poll(h); len(edges) != 0 {
		t.Fatalf("expected no edges while held, got %v", edges)
	}
}

func TestSessionCalculateRequiresPositions(t *testing.T) {
	s, out := newTestSession(t, model.ModeAngle)
	h := newFakeHandle()
	press(s, h, platform.Calculate)
	if _, ok := s.LastResult(); ok {
		t.Fatalf("expected no result without positions")
	}
	if !strings.Contains(out.String(), "[WARN] Source (1) and Target (2) positions must be set") {
		t.Fatalf("missing warning: %s", out.String())
	}
}

func TestSessionCalculateTargetAbove(t *testing.T) {
	s, out := newTestSession(t, model.ModeAngle)
	h := newFakeHandle()
	h.cursor = model.Point{X: 100, Y: 300}
	press(s, h, platform.SetSource)
	h.cursor = model.Point{X: 100, Y: 275}
	press(s, h, platform.SetTarget)
	press(s, h, platform.Calculate)

	res, ok := s.LastResult()
	if !ok {
		t.Fatalf("expected a result")
	}
	if res.Target.DX != 0 || res.Target.DY != 50 {
		t.Fatalf("expected target (0,50), got %+v", res.Target)
	}
	if len(res.Hits) == 0 {
		t.Fatalf("expected hits")
	}
	if len(res.Aggregated.Best) == 0 || len(res.Aggregated.Best) > 5 {
		t.Fatalf("unexpected best size %d", len(res.Aggregated.Best))
	}
	text := out.String()
	for _, want := range []string{"Position 1 (Source) set to (100, 300).", "Relative target (pixels): (0.00, 50.00)", "Top 5 Best -> ", "Angle ~"} {
		if !strings.Contains(text, want) {
			t.Fatalf("output missing %q:\n%s", want, text)
		}
	}
}

func TestSessionRefusesZeroExtent(t *testing.T) {
	s, out := newTestSession(t, model.ModeAngle)
	h := newFakeHandle()
	h.extent = model.Extent{Width: 0, Height: 496}
	press(s, h, platform.SetSource)
	press(s, h, platform.SetTarget)
	press(s, h, platform.Calculate)
	if _, ok := s.LastResult(); ok {
		t.Fatalf("expected calculation to be refused")
	}
	if !strings.Contains(out.String(), "Cannot calculate with window dimensions 0x496") {
		t.Fatalf("missing geometry warning: %s", out.String())
	}

	press(s, h, platform.CacheExtent)
	if s.State().Extent != nil {
		t.Fatalf("expected zero extent not to be cached")
	}
}

func TestSessionRequiresCachedExtent(t *testing.T) {
	var out bytes.Buffer
	cfg := model.Config{Params: model.DefaultParams(), Mode: model.ModeAngle, RequireCachedExtent: true}
	s := NewSession(cfg, platform.DefaultBindings(), fixedWind(0), NewLogger(&out))
	h := newFakeHandle()
	press(s, h, platform.SetSource)
	press(s, h, platform.SetTarget)
	press(s, h, platform.Calculate)
	if !strings.Contains(out.String(), "must be cached (7)") {
		t.Fatalf("missing cached extent warning: %s", out.String())
	}
}

func TestSessionClearKeepsCachedExtent(t *testing.T) {
	var out bytes.Buffer
	cfg := model.Config{Params: model.DefaultParams(), Mode: model.ModeVelocity}
	s := NewSession(cfg, platform.DefaultBindings(), fixedWind(-35), NewLogger(&out))
	h := newFakeHandle()
	press(s, h, platform.CacheExtent)
	press(s, h, platform.SetSource)
	press(s, h, platform.SetTarget)
	press(s, h, platform.SetWind)
	st := s.State()
	if st.Wind != -35 || st.Source == nil || st.Target == nil || st.Extent == nil {
		t.Fatalf("unexpected state before clear: %+v", st)
	}
	press(s, h, platform.Clear)
	st = s.State()
	if st.Source != nil || st.Target != nil || st.Wind != 0 {
		t.Fatalf("expected positions and wind cleared: %+v", st)
	}
	if st.Extent == nil || *st.Extent != h.extent {
		t.Fatalf("expected cached extent to survive clear")
	}
}

func TestSessionSwitchMode(t *testing.T) {
	s, out := newTestSession(t, model.ModeVelocity)
	h := newFakeHandle()
	press(s, h, platform.SwitchMode)
	if s.State().Mode != model.ModeAngle {
		t.Fatalf("expected angle mode")
	}
	if !strings.Contains(out.String(), "Mode changed to 'ANGLE'.") {
		t.Fatalf("missing mode message: %s", out.String())
	}
	press(s, h, platform.SwitchMode)
	if s.State().Mode != model.ModeVelocity {
		t.Fatalf("expected velocity mode")
	}
}

func TestRunStopsOnContext(t *testing.T) {
	s, _ := newTestSession(t, model.ModeVelocity)
	h := newFakeHandle()
	h.pressed[platform.SwitchMode] = true
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	err := Run(ctx, s, h, time.Millisecond)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline error, got %v", err)
	}
	if s.State().Mode != model.ModeAngle {
		t.Fatalf("expected exactly one toggle while key held")
	}
}

func TestPrintControls(t *testing.T) {
	s, out := newTestSession(t, model.ModeVelocity)
	s.PrintControls()
	for _, want := range []string{"1: Set Source Position", "7: Cache Game Window Dimensions", "Mode is 'VELOCITY'."} {
		if !strings.Contains(out.String(), want) {
			t.Fatalf("controls missing %q:\n%s", want, out.String())
		}
	}
}
