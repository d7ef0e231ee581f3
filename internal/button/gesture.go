// Package button classifies a noisy digital button line into discrete gestures.
//
// GestureButton is polled once per control-loop tick with the raw line level
// and the tick's timestamp. Debounce, tap/double-tap windowing and long-press
// detection all happen inside; the caller only ever sees clean Gesture values.
package button

import "time"

// Gesture is the classified result of one poll. At most one non-None
// gesture is produced per poll call.
type Gesture int

const (
	GestureNone Gesture = iota
	GestureTap
	GestureDoubleTap
	GestureLongPress
)

// String returns the string representation of the gesture.
func (g Gesture) String() string {
	switch g {
	case GestureTap:
		return "tap"
	case GestureDoubleTap:
		return "double_tap"
	case GestureLongPress:
		return "long_press"
	default:
		return "none"
	}
}

// Config holds the gesture timing parameters.
type Config struct {
	// DebounceTime is the settle window a raw transition must survive
	// before it is treated as a real edge.
	DebounceTime time.Duration

	// LongPressDuration is how long the line must stay pressed before a
	// long press fires. Fires while still held, once.
	LongPressDuration time.Duration

	// DoubleTapWindow is measured from the first confirmed press. A second
	// press inside the window is a double tap; expiry turns the first
	// press into a plain tap.
	DoubleTapWindow time.Duration
}

// DefaultConfig returns the timing used on the production box.
func DefaultConfig() Config {
	return Config{
		DebounceTime:      50 * time.Millisecond,
		LongPressDuration: 1500 * time.Millisecond,
		DoubleTapWindow:   400 * time.Millisecond,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.DebounceTime <= 0 {
		c.DebounceTime = d.DebounceTime
	}
	if c.LongPressDuration <= 0 {
		c.LongPressDuration = d.LongPressDuration
	}
	if c.DoubleTapWindow <= 0 {
		c.DoubleTapWindow = d.DoubleTapWindow
	}
	return c
}

type state int

const (
	stateIdle state = iota
	statePressed
	stateWaitingSecondTap
)

// GestureButton owns the gesture state machine. Not safe for concurrent
// use; it is only ever touched by the control loop.
type GestureButton struct {
	cfg Config

	st          state
	pressTime   time.Time
	releaseTime time.Time

	// debounce tracking
	stable        bool
	lastRaw       bool
	lastRawChange time.Time
	sampled       bool

	lastNow time.Time
}

// New creates a GestureButton with the given timing config.
// Zero fields fall back to DefaultConfig values.
func New(cfg Config) *GestureButton {
	return &GestureButton{cfg: cfg.withDefaults()}
}

// Poll feeds one raw sample into the state machine and returns the gesture
// it completes, if any. Call once per loop tick with a monotonic timestamp.
func (b *GestureButton) Poll(raw bool, now time.Time) Gesture {
	// Timers must never run backwards relative to the previous sample.
	if b.sampled && now.Before(b.lastNow) {
		now = b.lastNow
	}
	b.lastNow = now

	edgeDown, edgeUp := b.debounce(raw, now)

	if edgeDown {
		return b.onPress(now)
	}
	if edgeUp {
		b.onRelease(now)
		return GestureNone
	}
	return b.onQuiet(now)
}

// debounce updates the stable level and reports confirmed edges. A raw
// transition only becomes an edge once the line has held the new level
// for the full settle window.
func (b *GestureButton) debounce(raw bool, now time.Time) (edgeDown, edgeUp bool) {
	if !b.sampled {
		b.sampled = true
		b.lastRaw = raw
		b.lastRawChange = now
		// The stable level starts released even if the line is held at
		// boot; the held press is confirmed after the settle window and
		// gets its own pressTime from that instant.
		b.stable = false
		return false, false
	}

	if raw != b.lastRaw {
		b.lastRaw = raw
		b.lastRawChange = now
		return false, false
	}

	if raw != b.stable && now.Sub(b.lastRawChange) >= b.cfg.DebounceTime {
		b.stable = raw
		if raw {
			return true, false
		}
		return false, true
	}
	return false, false
}

func (b *GestureButton) onPress(now time.Time) Gesture {
	switch b.st {
	case stateIdle:
		b.st = statePressed
		b.pressTime = now
		return GestureNone

	case stateWaitingSecondTap:
		if now.Sub(b.pressTime) <= b.cfg.DoubleTapWindow {
			b.st = stateIdle
			return GestureDoubleTap
		}
		// The window expired on this very tick: the stale sequence
		// resolves to a tap and this press starts a fresh one.
		b.st = statePressed
		b.pressTime = now
		return GestureTap

	default:
		// Duplicate press edge, debounce should make this unreachable.
		return GestureNone
	}
}

func (b *GestureButton) onRelease(now time.Time) {
	if b.st == statePressed {
		b.releaseTime = now
		b.st = stateWaitingSecondTap
	}
	// A release while idle is the tail of a long press (or a boot-held
	// press that never got confirmed); nothing to do.
}

func (b *GestureButton) onQuiet(now time.Time) Gesture {
	switch b.st {
	case statePressed:
		if b.stable && now.Sub(b.pressTime) >= b.cfg.LongPressDuration {
			b.st = stateIdle
			return GestureLongPress
		}

	case stateWaitingSecondTap:
		if now.Sub(b.pressTime) > b.cfg.DoubleTapWindow {
			b.st = stateIdle
			return GestureTap
		}
	}
	return GestureNone
}
