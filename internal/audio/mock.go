package audio

import "sync"

// MockEngine is an in-memory Engine for tests and the simulate command.
// Playback never finishes on its own; call FinishStory to emulate the
// narration and outro completing.
type MockEngine struct {
	mu sync.Mutex

	playing  bool
	paused   bool
	feedback bool
	volume   float64

	Stories   []MockStory
	Feedbacks []FeedbackKind
	Stops     int

	// PlayErr, when set, is returned by the next PlayStory call.
	PlayErr error
}

// MockStory records one PlayStory call.
type MockStory struct {
	Narration string
	Tone      string
}

func NewMockEngine() *MockEngine {
	return &MockEngine{volume: 0.9}
}

func (m *MockEngine) PlayStory(narrationPath, tone string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.PlayErr != nil {
		err := m.PlayErr
		m.PlayErr = nil
		return err
	}
	m.playing = true
	m.paused = false
	m.Stories = append(m.Stories, MockStory{Narration: narrationPath, Tone: tone})
	return nil
}

func (m *MockEngine) Pause() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.playing {
		m.paused = true
	}
}

func (m *MockEngine) Resume() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.playing {
		m.paused = false
	}
}

func (m *MockEngine) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.playing {
		m.Stops++
	}
	m.playing = false
	m.paused = false
}

func (m *MockEngine) Busy() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.playing
}

func (m *MockEngine) PlayFeedback(kind FeedbackKind) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.feedback = true
	m.Feedbacks = append(m.Feedbacks, kind)
	return nil
}

func (m *MockEngine) FeedbackBusy() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.feedback
}

func (m *MockEngine) SetVolume(level float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.volume = level
}

func (m *MockEngine) Close() {
	m.Stop()
}

// FinishStory marks the current story as completed.
func (m *MockEngine) FinishStory() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.playing = false
	m.paused = false
}

// FinishFeedback marks the current feedback sound as completed.
func (m *MockEngine) FinishFeedback() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.feedback = false
}

// Paused reports whether the mock is in the paused state.
func (m *MockEngine) Paused() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.paused
}

// Volume returns the last master volume applied.
func (m *MockEngine) Volume() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.volume
}
