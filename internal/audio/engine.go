// Package audio plays story narration over a looping background-music
// bed, plus the short feedback chimes the supervisor uses as audible
// error/shutdown signatures.
package audio

// FeedbackKind selects one of the pre-rendered feedback sounds.
type FeedbackKind int

const (
	FeedbackError FeedbackKind = iota
	FeedbackShutdown
)

func (k FeedbackKind) filename() string {
	switch k {
	case FeedbackShutdown:
		return "shutdown.mp3"
	default:
		return "error.mp3"
	}
}

// Engine is the playback surface the supervisor drives. Implementations
// must be safe to call from the control loop; long-running work happens
// on their own goroutines.
type Engine interface {
	// PlayStory starts the crossfade choreography: BGM for the story's
	// tone ramps in, narration plays over a ducked bed, then the bed
	// swells and fades out. Returns an error when the BGM or narration
	// file cannot be opened.
	PlayStory(narrationPath, tone string) error

	// Pause/Resume suspend and continue the current story.
	Pause()
	Resume()

	// Stop aborts the current story immediately.
	Stop()

	// Busy reports whether a story session is still running (including
	// its BGM outro).
	Busy() bool

	// PlayFeedback starts a short feedback sound without interrupting
	// any running story.
	PlayFeedback(kind FeedbackKind) error

	// FeedbackBusy reports whether a feedback sound is still playing.
	FeedbackBusy() bool

	// SetVolume sets the master software volume, 0..1. Applied to both
	// the BGM bed and narration.
	SetVolume(level float64)

	// Close releases the engine's pipelines.
	Close()
}
