package hardware

import "sync"

// Mock is an in-memory HAL for tests and the simulate command. All
// setters are safe to call from a goroutine other than the loop.
type Mock struct {
	mu       sync.Mutex
	pressed  bool
	uid      string
	knob     float64
	volts    float64
	knobErr  error
	voltsErr error
}

// NewMock starts with the button released, no tag, the knob centered,
// and a healthy battery.
func NewMock() *Mock {
	return &Mock{knob: 0.5, volts: 4.0}
}

func (m *Mock) ButtonLevel() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pressed
}

func (m *Mock) ReadUID() (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.uid, m.uid != ""
}

func (m *Mock) VolumeKnob() (float64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.knob, m.knobErr
}

func (m *Mock) BatteryVolts() (float64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.volts, m.voltsErr
}

func (m *Mock) Close() error { return nil }

// SetButton sets the raw button level.
func (m *Mock) SetButton(pressed bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pressed = pressed
}

// PlaceTag puts a tag on the reader; RemoveTag takes it off.
func (m *Mock) PlaceTag(uid string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.uid = uid
}

func (m *Mock) RemoveTag() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.uid = ""
}

// SetKnob sets the volume knob position, 0..1.
func (m *Mock) SetKnob(level float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.knob = level
}

// SetVolts sets the battery voltage.
func (m *Mock) SetVolts(v float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.volts = v
}

// FailKnob makes VolumeKnob return err until called with nil.
func (m *Mock) FailKnob(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.knobErr = err
}
