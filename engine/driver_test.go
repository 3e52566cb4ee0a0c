package engine

import (
	"testing"
	"time"
)

func TestDriverStepUsesProviderDelta(t *testing.T) {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	mock := NewMockTimeProvider(start)
	clock := NewFrameClock()
	driver := NewDriver(clock, mock, 250*time.Millisecond)

	ticker := &countingTicker{}
	clock.Register(ticker)

	mock.Advance(16 * time.Millisecond)
	if dt := driver.Step(); dt != 16*time.Millisecond {
		t.Errorf("Expected 16ms step, got %v", dt)
	}
	mock.Advance(20 * time.Millisecond)
	driver.Step()

	if clock.Elapsed() != 36*time.Millisecond {
		t.Errorf("Expected clock elapsed 36ms, got %v", clock.Elapsed())
	}
	if len(ticker.deltas) != 2 {
		t.Errorf("Expected 2 ticks, got %d", len(ticker.deltas))
	}
}

func TestDriverClampsStall(t *testing.T) {
	mock := NewMockTimeProvider(time.Unix(0, 0))
	clock := NewFrameClock()
	driver := NewDriver(clock, mock, 250*time.Millisecond)

	mock.Advance(5 * time.Second)
	if dt := driver.Step(); dt != 250*time.Millisecond {
		t.Errorf("Expected stall clamped to 250ms, got %v", dt)
	}
	if driver.Clock() != clock {
		t.Error("Driver returned a different clock")
	}
}

func TestDriverZeroStep(t *testing.T) {
	mock := NewMockTimeProvider(time.Unix(0, 0))
	clock := NewFrameClock()
	driver := NewDriver(clock, mock, 0)

	if dt := driver.Step(); dt != 0 {
		t.Errorf("Expected zero delta without time passing, got %v", dt)
	}
	if clock.Frames() != 1 {
		t.Errorf("Expected one frame, got %d", clock.Frames())
	}
}
