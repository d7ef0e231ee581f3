package events

// Event type constants for kelindar/event.
const (
	TypeGesture uint32 = iota + 1
	TypeCard
	TypeStateChanged
	TypePlaybackFinished
	TypeBattery
	TypeVolumeChanged
)

// Event interface required by kelindar/event.
type Event interface {
	Type() uint32
}

// GestureEvent is published when the button classifier emits a gesture.
type GestureEvent struct {
	Gesture   string // "tap", "double_tap", "long_press"
	Timestamp string
}

// Type returns the event type identifier for GestureEvent.
func (e GestureEvent) Type() uint32 { return TypeGesture }

// CardEvent is published when a card read is processed.
type CardEvent struct {
	UID       string
	Result    string // "accepted", "not_found", "invalid", "no_stories", "missing_audio"
	Timestamp string
}

// Type returns the event type identifier for CardEvent.
func (e CardEvent) Type() uint32 { return TypeCard }

// StateChangedEvent is published on every playback state transition.
type StateChangedEvent struct {
	From      string
	To        string
	Timestamp string
}

// Type returns the event type identifier for StateChangedEvent.
func (e StateChangedEvent) Type() uint32 { return TypeStateChanged }

// PlaybackFinishedEvent is published when a story finishes naturally.
type PlaybackFinishedEvent struct {
	UID       string
	Story     string
	Timestamp string
}

// Type returns the event type identifier for PlaybackFinishedEvent.
func (e PlaybackFinishedEvent) Type() uint32 { return TypePlaybackFinished }

// BatteryEvent carries a battery voltage sample.
type BatteryEvent struct {
	Volts    float64
	Low      bool
	Critical bool
}

// Type returns the event type identifier for BatteryEvent.
func (e BatteryEvent) Type() uint32 { return TypeBattery }

// VolumeChangedEvent is published when the knob moves past the change threshold.
type VolumeChangedEvent struct {
	Level float64 // effective software volume, 0..1
}

// Type returns the event type identifier for VolumeChangedEvent.
func (e VolumeChangedEvent) Type() uint32 { return TypeVolumeChanged }
