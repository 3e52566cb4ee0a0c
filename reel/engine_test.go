package reel

import (
	"errors"
	"math"
	"reflect"
	"testing"
	"time"

	"github.com/lixenwraith/reelspin/engine"
)

const frame = 16 * time.Millisecond

// fakeLoop counts spin loop sound directives
type fakeLoop struct {
	starts, stops int
}

func (f *fakeLoop) StartSpinLoop() { f.starts++ }
func (f *fakeLoop) StopSpinLoop()  { f.stops++ }

func testConfig() Config {
	return Config{
		Visible:      3,
		SymbolHeight: 100,
		Speed:        2,
		SpinDuration: 3000 * time.Millisecond,
	}
}

func newTestEngine(t *testing.T) (*Engine, *engine.FrameClock, *fakeLoop) {
	t.Helper()
	strip, err := NewStrip([]string{"A", "B", "C", "D", "E", "F"}, 3)
	if err != nil {
		t.Fatalf("NewStrip failed: %v", err)
	}
	clock := engine.NewFrameClock()
	sound := &fakeLoop{}
	e, err := NewEngine(strip, testConfig(), clock, WithSound(sound))
	if err != nil {
		t.Fatalf("NewEngine failed: %v", err)
	}
	return e, clock, sound
}

// runUntilResolved advances the clock frame by frame, failing after limit frames
func runUntilResolved(t *testing.T, clock *engine.FrameClock, f *engine.Future[Result], limit int) Result {
	t.Helper()
	for i := 0; i < limit; i++ {
		if res, ok := f.Value(); ok {
			return res
		}
		clock.Advance(frame)
	}
	res, ok := f.Value()
	if !ok {
		t.Fatalf("Spin did not resolve within %d frames", limit)
	}
	return res
}

func TestStartSpinRegistersOnClock(t *testing.T) {
	e, clock, sound := newTestEngine(t)

	if clock.Subscribers() != 0 {
		t.Fatal("Idle engine should not be registered")
	}

	f, ok := e.StartSpin()
	if !ok || f == nil {
		t.Fatal("StartSpin on idle engine should succeed")
	}
	if e.Phase() != PhaseSpinning {
		t.Errorf("Expected spinning, got %s", e.Phase())
	}
	if clock.Subscribers() != 1 {
		t.Errorf("Expected 1 subscriber, got %d", clock.Subscribers())
	}
	if clock.PendingTimers() != 1 {
		t.Errorf("Expected auto-stop timer armed, got %d timers", clock.PendingTimers())
	}
	if sound.starts != 1 {
		t.Errorf("Expected spin loop started once, got %d", sound.starts)
	}
}

func TestDoubleStartLeavesFirstSpinState(t *testing.T) {
	e, clock, sound := newTestEngine(t)

	first, _ := e.StartSpin()
	clock.Advance(frame)
	offset, phase := e.Offset(), e.Phase()

	second, ok := e.StartSpin()
	if ok || second != nil {
		t.Fatal("Second StartSpin should be a no-op")
	}
	if e.Offset() != offset || e.Phase() != phase {
		t.Errorf("State changed by second start: offset %v->%v, phase %s->%s", offset, e.Offset(), phase, e.Phase())
	}
	if clock.Subscribers() != 1 || clock.PendingTimers() != 1 {
		t.Errorf("Second start registered again: %d subscribers, %d timers", clock.Subscribers(), clock.PendingTimers())
	}
	if sound.starts != 1 {
		t.Errorf("Spin loop restarted, starts=%d", sound.starts)
	}
	if e.pending != first {
		t.Error("Pending future replaced by second start")
	}
}

func TestSpinningAdvancesAndWraps(t *testing.T) {
	e, clock, _ := newTestEngine(t)
	e.StartSpin()

	clock.Advance(frame)
	if e.Offset() != 32 {
		t.Errorf("Expected offset 32 after one frame, got %v", e.Offset())
	}

	clock.Advance(234 * time.Millisecond)
	if e.Offset() != 500 {
		t.Fatalf("Expected offset 500, got %v", e.Offset())
	}

	// Extent is 600; crossing it wraps back to the start
	clock.Advance(60 * time.Millisecond)
	if e.Offset() != 20 {
		t.Errorf("Expected wrapped offset 20, got %v", e.Offset())
	}
}

func TestAutoStopAfterSpinDuration(t *testing.T) {
	e, clock, sound := newTestEngine(t)
	f, _ := e.StartSpin()

	// 187 frames = 2992ms, timer not yet due
	for i := 0; i < 187; i++ {
		clock.Advance(frame)
	}
	if e.Phase() != PhaseSpinning {
		t.Fatalf("Stopped before spin duration, phase %s at %v", e.Phase(), clock.Elapsed())
	}

	// Frame 188 (3008ms) fires the timer at offset 6016 mod 600 = 16, target 100
	clock.Advance(frame)
	if e.Phase() != PhaseDecelerating {
		t.Fatalf("Expected decelerating after spin duration, got %s", e.Phase())
	}
	if e.Target() != 100 {
		t.Errorf("Auto-stop target should be the next boundary 100, got %v", e.Target())
	}

	res := runUntilResolved(t, clock, f, 20)
	if res.Stop != StopAuto {
		t.Errorf("Expected auto stop, got %s", res.Stop)
	}
	if !reflect.DeepEqual(res.Symbols, []string{"B", "C", "D"}) {
		t.Errorf("Expected [B C D], got %v", res.Symbols)
	}
	if e.Offset() != 100 || e.Phase() != PhaseIdle {
		t.Errorf("Expected idle at 100, got %s at %v", e.Phase(), e.Offset())
	}
	if clock.Subscribers() != 0 {
		t.Error("Idle engine still registered on the clock")
	}
	if sound.stops != 1 {
		t.Errorf("Expected spin loop stopped once, got %d", sound.stops)
	}
}

func TestQuickStopTravelsExtraWindowAcrossSeam(t *testing.T) {
	e, clock, _ := newTestEngine(t)
	f, _ := e.StartSpin()

	for i := 0; i < 10; i++ {
		clock.Advance(frame)
	}
	if e.Offset() != 320 {
		t.Fatalf("Expected offset 320, got %v", e.Offset())
	}

	if !e.StopSpin(true) {
		t.Fatal("StopSpin while spinning should be accepted")
	}
	// ceil(3.2)=4, plus 3 visible = 7 symbols, beyond the 600 extent
	if e.Target() != 700 {
		t.Errorf("Expected quick-stop target 700, got %v", e.Target())
	}
	if clock.PendingTimers() != 0 {
		t.Error("Auto-stop timer not cancelled by explicit stop")
	}

	if e.StopSpin(true) || e.StopSpin(false) {
		t.Error("StopSpin while decelerating should be a no-op")
	}
	if e.Target() != 700 {
		t.Errorf("Second stop corrupted target: %v", e.Target())
	}

	res := runUntilResolved(t, clock, f, 50)
	if res.Stop != StopQuick {
		t.Errorf("Expected quick stop, got %s", res.Stop)
	}
	if e.Offset() != 100 {
		t.Errorf("Expected snapped offset 100 after seam wrap, got %v", e.Offset())
	}
	if !reflect.DeepEqual(res.Symbols, []string{"B", "C", "D"}) {
		t.Errorf("Expected [B C D], got %v", res.Symbols)
	}
}

func TestManualStopTargetsNextBoundary(t *testing.T) {
	e, clock, _ := newTestEngine(t)
	f, _ := e.StartSpin()
	for i := 0; i < 10; i++ {
		clock.Advance(frame)
	}

	e.StopSpin(false)
	if e.Target() != 400 {
		t.Errorf("Expected manual target 400, got %v", e.Target())
	}

	res := runUntilResolved(t, clock, f, 20)
	if res.Stop != StopManual || res.Index != 4 {
		t.Errorf("Expected manual stop at index 4, got %s at %d", res.Stop, res.Index)
	}
	if !reflect.DeepEqual(res.Symbols, []string{"E", "F", "A"}) {
		t.Errorf("Expected [E F A], got %v", res.Symbols)
	}
}

func TestStopWhileIdleIsNoop(t *testing.T) {
	e, clock, sound := newTestEngine(t)

	if e.StopSpin(true) || e.StopSpin(false) {
		t.Fatal("StopSpin on idle engine should be a no-op")
	}
	if e.Phase() != PhaseIdle || e.Target() != 0 {
		t.Errorf("Idle stop changed state: %s target %v", e.Phase(), e.Target())
	}
	clock.Advance(frame)
	if e.Offset() != 0 || sound.stops != 0 {
		t.Error("Idle engine moved or touched sound")
	}
}

func TestCompletionDeliveredOnLaterTick(t *testing.T) {
	e, clock, _ := newTestEngine(t)
	f, _ := e.StartSpin()

	// At offset 0 the boundary is the current position
	e.StopSpin(false)
	if f.Resolved() {
		t.Fatal("Completion delivered synchronously with StopSpin")
	}

	clock.Advance(frame)
	res, ok := f.Value()
	if !ok {
		t.Fatal("Expected completion on the next tick")
	}
	if res.Index != 0 {
		t.Errorf("Expected index 0, got %d", res.Index)
	}
}

func TestCompletionFiresExactlyOnce(t *testing.T) {
	e, clock, _ := newTestEngine(t)
	f, _ := e.StartSpin()

	calls := 0
	f.Then(func(Result) { calls++ })

	for i := 0; i < 400; i++ {
		clock.Advance(frame)
	}
	if calls != 1 {
		t.Errorf("Expected exactly one completion, got %d", calls)
	}
	if err := f.Resolve(Result{}); !errors.Is(err, engine.ErrFutureResolved) {
		t.Errorf("Expected second resolve to be rejected, got %v", err)
	}
}

func TestContinuationMayStartNextSpin(t *testing.T) {
	e, clock, _ := newTestEngine(t)
	f, _ := e.StartSpin()

	restarted := false
	f.Then(func(Result) {
		_, restarted = e.StartSpin()
	})
	e.StopSpin(false)
	clock.Advance(frame)

	if !restarted {
		t.Fatal("StartSpin from the completion continuation was rejected")
	}
	if e.Phase() != PhaseSpinning || clock.Subscribers() != 1 {
		t.Errorf("Expected a fresh registered spin, got %s with %d subscribers", e.Phase(), clock.Subscribers())
	}
}

func TestQuickStopAlignment(t *testing.T) {
	// Frame sizes that never land on a boundary exercise the snap
	deltas := []time.Duration{7 * time.Millisecond, 13 * time.Millisecond, 16 * time.Millisecond, 33 * time.Millisecond}

	for _, dt := range deltas {
		e, clock, _ := newTestEngine(t)
		f, _ := e.StartSpin()
		for i := 0; i < 37; i++ {
			clock.Advance(dt)
		}
		e.StopSpin(true)

		for i := 0; i < 1000 && !f.Resolved(); i++ {
			clock.Advance(dt)
		}
		res, ok := f.Value()
		if !ok {
			t.Fatalf("dt=%v: spin did not resolve", dt)
		}

		units := e.Offset() / 100
		if units != math.Trunc(units) {
			t.Errorf("dt=%v: offset %v is not a whole symbol multiple", dt, e.Offset())
		}
		if len(res.Symbols) != 3 {
			t.Errorf("dt=%v: expected 3 symbols, got %d", dt, len(res.Symbols))
		}
		if !reflect.DeepEqual(res.Symbols, e.Strip().Window(res.Index, 3)) {
			t.Errorf("dt=%v: symbols %v not consecutive from index %d", dt, res.Symbols, res.Index)
		}
	}
}

func TestResultAtIsPeriodic(t *testing.T) {
	strip, _ := NewStrip([]string{"A", "B", "C", "D", "E", "F"}, 3)
	extent := 600.0

	for i := 0; i < 60; i++ {
		o := float64(10*i + 3)
		base := ResultAt(strip, o, 100, 3)
		ahead := ResultAt(strip, o+extent, 100, 3)
		behind := ResultAt(strip, o-extent, 100, 3)

		if !reflect.DeepEqual(base.Symbols, ahead.Symbols) || !reflect.DeepEqual(base.Symbols, behind.Symbols) {
			t.Errorf("offset %v: %v, +E %v, -E %v", o, base.Symbols, ahead.Symbols, behind.Symbols)
		}
		if again := ResultAt(strip, o, 100, 3); !reflect.DeepEqual(base, again) {
			t.Errorf("offset %v: result not deterministic", o)
		}
	}
}

func TestResultAtConsecutiveWithWrap(t *testing.T) {
	strip, _ := NewStrip([]string{"A", "B", "C", "D", "E", "F"}, 3)

	res := ResultAt(strip, 500, 100, 3)
	if res.Index != 5 || !reflect.DeepEqual(res.Symbols, []string{"F", "A", "B"}) {
		t.Errorf("Expected index 5 [F A B], got %d %v", res.Index, res.Symbols)
	}
}

func TestNewEngineValidation(t *testing.T) {
	strip, _ := NewStrip([]string{"A", "B", "C"}, 3)
	clock := engine.NewFrameClock()

	bad := []Config{
		{Visible: 0, SymbolHeight: 100, Speed: 2, SpinDuration: time.Second},
		{Visible: 3, SymbolHeight: 0, Speed: 2, SpinDuration: time.Second},
		{Visible: 3, SymbolHeight: 100, Speed: -1, SpinDuration: time.Second},
		{Visible: 3, SymbolHeight: 100, Speed: 2, SpinDuration: 0},
	}
	for _, cfg := range bad {
		if _, err := NewEngine(strip, cfg, clock); !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("Config %+v: expected ErrInvalidConfig, got %v", cfg, err)
		}
	}

	wide := testConfig()
	wide.Visible = 4
	if _, err := NewEngine(strip, wide, clock); !errors.Is(err, ErrInvalidStrip) {
		t.Errorf("Expected ErrInvalidStrip for window wider than strip, got %v", err)
	}
	if _, err := NewEngine(nil, testConfig(), clock); !errors.Is(err, ErrInvalidStrip) {
		t.Errorf("Expected ErrInvalidStrip for nil strip, got %v", err)
	}
}

func TestPhaseAndStopKindNames(t *testing.T) {
	if PhaseDecelerating.String() != "decelerating" || Phase(42).String() != "unknown" {
		t.Error("Unexpected phase names")
	}
	for _, k := range []StopKind{StopNone, StopAuto, StopManual, StopQuick} {
		if ParseStopKind(k.String()) != k {
			t.Errorf("StopKind %d does not round-trip through %q", k, k.String())
		}
	}
}
