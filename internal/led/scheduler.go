package led

import (
	"log/slog"
	"math"
	"time"
)

// Driver is the hardware side of the scheduler: a single PWM-capable
// channel taking a duty in [0, 1].
type Driver interface {
	SetDuty(level float64) error
}

// Scheduler renders exactly one active Pattern, advancing it on every
// control-loop tick. Phase is always measured from the pattern's own
// activation instant, so a stalled loop can never corrupt animation
// phase. Not safe for concurrent use.
type Scheduler struct {
	driver Driver
	logger *slog.Logger

	active      Pattern
	steps       []Step
	cycle       time.Duration
	activatedAt time.Time

	lastDuty float64
	hasDuty  bool
}

// NewScheduler creates a scheduler starting in the off state.
func NewScheduler(driver Driver, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		driver: driver,
		logger: logger,
		active: Off(),
	}
}

// Set atomically replaces the active pattern. The phase clock resets on
// the next Tick.
func (s *Scheduler) Set(p Pattern) {
	s.active = p
	s.steps = p.Steps
	if s.steps == nil {
		s.steps = defaultSteps(p.Kind)
	}
	s.cycle = cycleDuration(p, s.steps)
	s.activatedAt = time.Time{}
}

// Active returns the currently rendered pattern.
func (s *Scheduler) Active() Pattern {
	return s.active
}

// Tick advances the active pattern's phase to now and pushes the
// resulting duty to the driver. Completion of a bounded pattern fires
// its callback and activates the successor exactly once.
func (s *Scheduler) Tick(now time.Time) {
	if s.activatedAt.IsZero() {
		s.activatedAt = now
	}
	elapsed := now.Sub(s.activatedAt)
	if elapsed < 0 {
		elapsed = 0
	}

	if s.finished(elapsed) {
		cb := s.active.OnComplete
		s.Set(s.successor())
		s.activatedAt = now
		if cb != nil {
			cb()
		}
		elapsed = 0
	}

	s.apply(s.level(elapsed))
}

// finished reports whether a bounded pattern has run all its cycles.
func (s *Scheduler) finished(elapsed time.Duration) bool {
	if s.active.Count <= 0 || s.cycle <= 0 {
		return false
	}
	if s.active.Kind == KindBreathing {
		// breathing is a steady-state animation, Count is ignored
		return false
	}
	return elapsed >= time.Duration(s.active.Count)*s.cycle
}

// successor picks the pattern that takes over after completion.
func (s *Scheduler) successor() Pattern {
	if s.active.Next != nil {
		return *s.active.Next
	}
	if s.active.Kind == KindFadeout {
		return Off()
	}
	return Solid()
}

// level computes the instantaneous duty for the active pattern at the
// given phase offset.
func (s *Scheduler) level(elapsed time.Duration) float64 {
	p := s.active
	switch p.Kind {
	case KindSolid:
		return clamp(p.Level)

	case KindBlink:
		if p.Period <= 0 {
			return 0
		}
		phase := elapsed % p.Period
		if phase < time.Duration(p.Duty*float64(p.Period)) {
			return clamp(p.Level)
		}
		return 0

	case KindBreathing:
		if p.Period <= 0 {
			return 0
		}
		// duty swings sinusoidally between 10% and 100%, matching the
		// original firmware's curve
		t := float64(elapsed%p.Period) / float64(p.Period)
		return 0.1 + 0.9*0.5*(1-math.Cos(2*math.Pi*t))

	case KindFadeout:
		if p.Period <= 0 {
			return 0
		}
		frac := 1 - float64(elapsed)/float64(p.Period)
		if frac < 0 {
			frac = 0
		}
		return clamp(p.Level) * frac

	case KindPulse, KindHeartbeat, KindSos, KindColorShift,
		KindAttention, KindSuccess, KindError:
		return s.stepLevel(elapsed)

	case KindOff:
		return 0

	default:
		// Unrecognized kinds degrade to off; LED feedback must never
		// crash the control loop.
		return 0
	}
}

func (s *Scheduler) stepLevel(elapsed time.Duration) float64 {
	if len(s.steps) == 0 || s.cycle <= 0 {
		return 0
	}
	phase := elapsed % s.cycle
	for _, step := range s.steps {
		if phase < step.Duration {
			return clamp(step.Level)
		}
		phase -= step.Duration
	}
	return clamp(s.steps[len(s.steps)-1].Level)
}

// apply forwards the duty to the driver, skipping writes when the value
// has not moved. Driver errors are logged and dropped.
func (s *Scheduler) apply(duty float64) {
	if s.hasDuty && math.Abs(duty-s.lastDuty) < 0.004 {
		return
	}
	s.lastDuty = duty
	s.hasDuty = true
	if err := s.driver.SetDuty(duty); err != nil {
		s.logger.Warn("LED driver write failed", "duty", duty, "error", err)
	}
}

func cycleDuration(p Pattern, steps []Step) time.Duration {
	switch p.Kind {
	case KindBlink, KindBreathing, KindFadeout:
		return p.Period
	default:
		var total time.Duration
		for _, st := range steps {
			total += st.Duration
		}
		return total
	}
}

func clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
