// Package cards owns the card catalog: per-card story files on disk, a
// warm cache for prefetched entries, and time-of-day story selection.
package cards

import "errors"

// ToneCalm is the tone preferred during the calm evening window.
// Tones follow the catalog's original Italian vocabulary.
const ToneCalm = "calmo"

// Sentinel errors for content faults. The supervisor maps these to the
// card-invalid LED and error chime rather than aborting.
var (
	ErrNotFound  = errors.New("card file not found")
	ErrInvalid   = errors.New("card file is not valid JSON")
	ErrNoStories = errors.New("card has no stories")
)

// Story is one playable narration on a card.
type Story struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Tone  string `json:"tone"`
	Audio string `json:"audio"`
}

// Card is the decoded content of one card_<uid>.json file. Instances
// are immutable once loaded; the cache hands out shared pointers.
type Card struct {
	CardID  string  `json:"card_id,omitempty"`
	Stories []Story `json:"stories"`
}
