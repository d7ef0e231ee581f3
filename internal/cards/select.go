package cards

import (
	"fmt"
	"math/rand/v2"
	"strings"
	"time"
)

// CalmWindow is a time-of-day range during which calm-toned stories are
// preferred. The default window spans midnight (20:30 to 06:30).
type CalmWindow struct {
	start int // minutes since midnight
	end   int
}

// ParseCalmWindow parses "HH:MM" boundaries into a window. An equal
// start and end disables the window entirely.
func ParseCalmWindow(start, end string) (CalmWindow, error) {
	s, err := parseClock(start)
	if err != nil {
		return CalmWindow{}, fmt.Errorf("calm window start: %w", err)
	}
	e, err := parseClock(end)
	if err != nil {
		return CalmWindow{}, fmt.Errorf("calm window end: %w", err)
	}
	return CalmWindow{start: s, end: e}, nil
}

func parseClock(v string) (int, error) {
	t, err := time.Parse("15:04", v)
	if err != nil {
		return 0, fmt.Errorf("invalid time %q (want HH:MM): %w", v, err)
	}
	return t.Hour()*60 + t.Minute(), nil
}

// Contains reports whether t's local time of day falls inside the
// window, handling windows that wrap past midnight.
func (w CalmWindow) Contains(t time.Time) bool {
	if w.start == w.end {
		return false
	}
	minutes := t.Hour()*60 + t.Minute()
	if w.start < w.end {
		return minutes >= w.start && minutes < w.end
	}
	// wraps midnight
	return minutes >= w.start || minutes < w.end
}

// SelectStory picks a story for the current time of day. During the calm
// window it prefers calm-toned stories; outside it, stories that are not
// calm-toned. When the preferred subset is empty it falls back to a
// uniform choice over all stories. Ties are broken uniformly at random.
func SelectStory(stories []Story, isCalm bool, rng *rand.Rand) Story {
	if len(stories) == 1 {
		return stories[0]
	}

	var preferred []Story
	for _, s := range stories {
		calm := strings.EqualFold(s.Tone, ToneCalm)
		if isCalm == calm {
			preferred = append(preferred, s)
		}
	}

	if len(preferred) > 0 {
		return preferred[rng.IntN(len(preferred))]
	}
	return stories[rng.IntN(len(stories))]
}
