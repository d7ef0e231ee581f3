package led

import "time"

// Kind identifies an animation shape.
type Kind int

const (
	KindOff Kind = iota
	KindSolid
	KindBlink
	KindBreathing
	KindPulse
	KindHeartbeat
	KindFadeout
	KindSos
	KindColorShift
	KindAttention
	KindSuccess
	KindError
)

// String returns the string representation of the pattern kind.
func (k Kind) String() string {
	switch k {
	case KindOff:
		return "off"
	case KindSolid:
		return "solid"
	case KindBlink:
		return "blink"
	case KindBreathing:
		return "breathing"
	case KindPulse:
		return "pulse"
	case KindHeartbeat:
		return "heartbeat"
	case KindFadeout:
		return "fadeout"
	case KindSos:
		return "sos"
	case KindColorShift:
		return "colorshift"
	case KindAttention:
		return "attention"
	case KindSuccess:
		return "success"
	case KindError:
		return "error"
	default:
		return "unknown"
	}
}

// Step is one segment of a sequence pattern: hold Level for Duration.
type Step struct {
	Level    float64
	Duration time.Duration
}

// Pattern describes one LED animation. A Pattern is a plain value; the
// scheduler owns all phase state. Bounded patterns (Count > 0) fire
// OnComplete once after their final cycle, then hand over to Next
// (fadeout falls back to off, everything else to solid).
type Pattern struct {
	Kind   Kind
	Level  float64       // brightness for solid / blink-on / fadeout start, 0..1
	Period time.Duration // cycle length for blink, breathing, fadeout
	Duty   float64       // blink on-fraction, 0..1
	Count  int           // full cycles before completion; 0 = unbounded
	Steps  []Step        // sequence kinds; derived from Kind when nil

	Next       *Pattern
	OnComplete func()
}

// Off turns the LED off.
func Off() Pattern {
	return Pattern{Kind: KindOff}
}

// Solid holds the LED at full brightness.
func Solid() Pattern {
	return Pattern{Kind: KindSolid, Level: 1}
}

// Blink is a square wave. count = 0 blinks forever.
func Blink(period time.Duration, duty float64, count int) Pattern {
	return Pattern{Kind: KindBlink, Level: 1, Period: period, Duty: duty, Count: count}
}

// Breathing is the steady-state idle animation: sinusoidal duty between
// 10% and 100%. Never terminates on its own.
func Breathing(period time.Duration) Pattern {
	return Pattern{Kind: KindBreathing, Period: period}
}

// Fadeout decays linearly from level to zero over d, then chains to
// Next (or off).
func Fadeout(level float64, d time.Duration) Pattern {
	return Pattern{Kind: KindFadeout, Level: level, Period: d, Count: 1}
}

// The named signatures below are the vocabulary the playback supervisor
// speaks. Each is distinguishable by eye so a user without a screen can
// tell "card accepted" from "card invalid" from "low battery".

// IdleBreathing is the waiting-for-card animation (2.5 s period, as on
// the original firmware).
func IdleBreathing() Pattern {
	return Breathing(2500 * time.Millisecond)
}

// PausedBreathing is a slower, calmer breathing used while paused.
func PausedBreathing() Pattern {
	return Breathing(4 * time.Second)
}

// PlayingSolid is the steady-on shown during narration.
func PlayingSolid() Pattern {
	return Solid()
}

// CardValid is the "card accepted" acknowledgement: two quick flashes,
// then back to solid for playback.
func CardValid() Pattern {
	return Pattern{
		Kind:  KindSuccess,
		Count: 2,
		Steps: []Step{
			{Level: 1, Duration: 100 * time.Millisecond},
			{Level: 0, Duration: 100 * time.Millisecond},
		},
	}
}

// CardInvalid is the error signature: 8 Hz flicker for three seconds,
// then off so the idle pattern can take over.
func CardInvalid() Pattern {
	off := Off()
	return Pattern{
		Kind:  KindError,
		Count: 24,
		Steps: []Step{
			{Level: 1, Duration: 62500 * time.Microsecond},
			{Level: 0, Duration: 62500 * time.Microsecond},
		},
		Next: &off,
	}
}

// LowBattery is an SOS signature, repeated once per trigger.
func LowBattery() Pattern {
	off := Off()
	short := 150 * time.Millisecond
	long := 450 * time.Millisecond
	steps := make([]Step, 0, 19)
	appendGroup := func(on time.Duration, n int) {
		for i := 0; i < n; i++ {
			steps = append(steps, Step{Level: 1, Duration: on}, Step{Level: 0, Duration: short})
		}
	}
	appendGroup(short, 3)
	appendGroup(long, 3)
	appendGroup(short, 3)
	steps = append(steps, Step{Level: 0, Duration: 700 * time.Millisecond})
	return Pattern{Kind: KindSos, Count: 1, Steps: steps, Next: &off}
}

// ShutdownCountdown is the fast farewell blink before power-off.
func ShutdownCountdown() Pattern {
	off := Off()
	p := Blink(200*time.Millisecond, 0.5, 10)
	p.Next = &off
	return p
}

// EndOfStory is the gentle "story finished" signature: slow wide blinks,
// then off.
func EndOfStory() Pattern {
	off := Off()
	return Pattern{
		Kind:  KindAttention,
		Count: 3,
		Steps: []Step{
			{Level: 1, Duration: 200 * time.Millisecond},
			{Level: 0, Duration: 800 * time.Millisecond},
		},
		Next: &off,
	}
}

// defaultSteps supplies the sequence for step kinds constructed without
// explicit Steps.
func defaultSteps(k Kind) []Step {
	switch k {
	case KindPulse:
		// fast rise, slow decay
		return []Step{
			{Level: 0.4, Duration: 40 * time.Millisecond},
			{Level: 1, Duration: 80 * time.Millisecond},
			{Level: 0.6, Duration: 80 * time.Millisecond},
			{Level: 0.3, Duration: 100 * time.Millisecond},
			{Level: 0, Duration: 200 * time.Millisecond},
		}
	case KindHeartbeat:
		return []Step{
			{Level: 1, Duration: 120 * time.Millisecond},
			{Level: 0, Duration: 120 * time.Millisecond},
			{Level: 0.6, Duration: 160 * time.Millisecond},
			{Level: 0, Duration: 600 * time.Millisecond},
		}
	case KindColorShift:
		return []Step{
			{Level: 0.2, Duration: 400 * time.Millisecond},
			{Level: 0.5, Duration: 400 * time.Millisecond},
			{Level: 1, Duration: 400 * time.Millisecond},
			{Level: 0.5, Duration: 400 * time.Millisecond},
		}
	case KindAttention:
		return []Step{
			{Level: 1, Duration: 200 * time.Millisecond},
			{Level: 0, Duration: 800 * time.Millisecond},
		}
	case KindSuccess:
		return []Step{
			{Level: 1, Duration: 100 * time.Millisecond},
			{Level: 0, Duration: 100 * time.Millisecond},
		}
	case KindError:
		return []Step{
			{Level: 1, Duration: 62500 * time.Microsecond},
			{Level: 0, Duration: 62500 * time.Microsecond},
		}
	case KindSos:
		return LowBattery().Steps
	default:
		return nil
	}
}
