package button

import (
	"testing"
	"time"
)

// harness drives a GestureButton with synthetic samples at a fixed tick.
type harness struct {
	b    *GestureButton
	now  time.Time
	tick time.Duration
}

func newHarness(cfg Config) *harness {
	return &harness{
		b:    New(cfg),
		now:  time.Unix(1000, 0),
		tick: 10 * time.Millisecond,
	}
}

// hold polls with the given raw level for d, collecting emitted gestures.
func (h *harness) hold(raw bool, d time.Duration) []Gesture {
	var out []Gesture
	for elapsed := time.Duration(0); elapsed < d; elapsed += h.tick {
		h.now = h.now.Add(h.tick)
		if g := h.b.Poll(raw, h.now); g != GestureNone {
			out = append(out, g)
		}
	}
	return out
}

func testConfig() Config {
	return Config{
		DebounceTime:      50 * time.Millisecond,
		LongPressDuration: 1500 * time.Millisecond,
		DoubleTapWindow:   400 * time.Millisecond,
	}
}

func count(gs []Gesture, want Gesture) int {
	n := 0
	for _, g := range gs {
		if g == want {
			n++
		}
	}
	return n
}

func TestSingleTap(t *testing.T) {
	h := newHarness(testConfig())

	var got []Gesture
	got = append(got, h.hold(false, 200*time.Millisecond)...)
	got = append(got, h.hold(true, 150*time.Millisecond)...)  // short press
	got = append(got, h.hold(false, time.Second)...)          // no second press

	if count(got, GestureTap) != 1 {
		t.Errorf("expected exactly one tap, got %v", got)
	}
	if len(got) != 1 {
		t.Errorf("expected no other gestures, got %v", got)
	}
}

func TestDoubleTap(t *testing.T) {
	h := newHarness(testConfig())

	var got []Gesture
	got = append(got, h.hold(false, 100*time.Millisecond)...)
	got = append(got, h.hold(true, 100*time.Millisecond)...)  // first press
	got = append(got, h.hold(false, 100*time.Millisecond)...) // short gap
	got = append(got, h.hold(true, 100*time.Millisecond)...)  // second press inside window
	got = append(got, h.hold(false, time.Second)...)

	if count(got, GestureDoubleTap) != 1 {
		t.Errorf("expected exactly one double tap, got %v", got)
	}
	if count(got, GestureTap) != 0 {
		t.Errorf("expected zero taps, got %v", got)
	}
}

func TestLongPressFiresOnceWhileHeld(t *testing.T) {
	h := newHarness(testConfig())

	var got []Gesture
	got = append(got, h.hold(false, 100*time.Millisecond)...)
	got = append(got, h.hold(true, 4*time.Second)...) // held well past the threshold
	if count(got, GestureLongPress) != 1 {
		t.Fatalf("expected exactly one long press while held, got %v", got)
	}

	// Release must not produce anything further.
	got = h.hold(false, time.Second)
	if len(got) != 0 {
		t.Errorf("expected no gestures after long press release, got %v", got)
	}
}

func TestLongPressNotBeforeThreshold(t *testing.T) {
	h := newHarness(testConfig())

	h.hold(false, 100*time.Millisecond)
	got := h.hold(true, 1400*time.Millisecond) // just under threshold + debounce
	if count(got, GestureLongPress) != 0 {
		t.Errorf("long press fired early: %v", got)
	}
}

func TestDebounceNoiseIgnored(t *testing.T) {
	h := newHarness(testConfig())

	var got []Gesture
	got = append(got, h.hold(false, 100*time.Millisecond)...)
	// 10 ms toggles never settle, must not advance the machine.
	for i := 0; i < 20; i++ {
		got = append(got, h.hold(i%2 == 0, 10*time.Millisecond)...)
	}
	got = append(got, h.hold(false, time.Second)...)

	if len(got) != 0 {
		t.Errorf("noise produced gestures: %v", got)
	}
}

func TestHeldAtBootDoesNotFireEarly(t *testing.T) {
	h := newHarness(testConfig())

	// Line already pressed on the very first sample.
	got := h.hold(true, 1300*time.Millisecond)
	if count(got, GestureLongPress) != 0 {
		t.Errorf("long press fired before threshold elapsed from confirmation: %v", got)
	}

	// Held long enough from its own confirmed press time it does fire.
	got = h.hold(true, time.Second)
	if count(got, GestureLongPress) != 1 {
		t.Errorf("expected one long press, got %v", got)
	}
}

func TestPressAfterWindowStartsNewSequence(t *testing.T) {
	h := newHarness(testConfig())

	var got []Gesture
	got = append(got, h.hold(false, 100*time.Millisecond)...)
	got = append(got, h.hold(true, 100*time.Millisecond)...)
	got = append(got, h.hold(false, 600*time.Millisecond)...) // window expires, tap emitted
	got = append(got, h.hold(true, 100*time.Millisecond)...)  // new sequence
	got = append(got, h.hold(false, time.Second)...)          // second tap resolves

	if count(got, GestureTap) != 2 {
		t.Errorf("expected two separate taps, got %v", got)
	}
	if count(got, GestureDoubleTap) != 0 {
		t.Errorf("stale sequence merged into double tap: %v", got)
	}
}

func TestClockNeverRunsBackwards(t *testing.T) {
	b := New(testConfig())
	t0 := time.Unix(1000, 0)

	for i := 0; i < 20; i++ {
		b.Poll(false, t0.Add(time.Duration(i)*10*time.Millisecond))
	}
	// A timestamp earlier than the previous sample must be clamped, not
	// wind timers backwards or panic.
	g := b.Poll(true, t0)
	if g != GestureNone {
		t.Errorf("backwards sample produced gesture %v", g)
	}
}
