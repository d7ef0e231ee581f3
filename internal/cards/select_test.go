package cards

import (
	"math/rand/v2"
	"testing"
	"time"
)

func testRand() *rand.Rand {
	return rand.New(rand.NewPCG(1, 2))
}

func TestCalmWindowWrapsMidnight(t *testing.T) {
	w, err := ParseCalmWindow("20:30", "06:30")
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		clock string
		want  bool
	}{
		{"20:29", false},
		{"20:30", true},
		{"23:59", true},
		{"00:00", true},
		{"06:29", true},
		{"06:30", false},
		{"12:00", false},
	}
	for _, tt := range tests {
		ts, parseErr := time.Parse("15:04", tt.clock)
		if parseErr != nil {
			t.Fatal(parseErr)
		}
		if got := w.Contains(ts); got != tt.want {
			t.Errorf("Contains(%s) = %v, want %v", tt.clock, got, tt.want)
		}
	}
}

func TestCalmWindowDaytime(t *testing.T) {
	w, err := ParseCalmWindow("13:00", "14:00")
	if err != nil {
		t.Fatal(err)
	}
	at := func(clock string) time.Time {
		ts, _ := time.Parse("15:04", clock)
		return ts
	}
	if !w.Contains(at("13:30")) {
		t.Error("13:30 should be inside 13:00-14:00")
	}
	if w.Contains(at("14:00")) {
		t.Error("14:00 should be outside 13:00-14:00")
	}
}

func TestParseCalmWindowRejectsGarbage(t *testing.T) {
	if _, err := ParseCalmWindow("25:99", "06:30"); err == nil {
		t.Error("expected error for invalid start time")
	}
}

func mixedStories() []Story {
	return []Story{
		{ID: "1", Title: "La tartaruga", Tone: "calmo", Audio: "audio/1.mp3"},
		{ID: "2", Title: "La volpe", Tone: "divertente", Audio: "audio/2.mp3"},
		{ID: "3", Title: "Il gufo", Tone: "Calmo", Audio: "audio/3.mp3"},
		{ID: "4", Title: "Il lupo", Tone: "avventuroso", Audio: "audio/4.mp3"},
	}
}

func TestSelectStoryCalmOnlyPicksCalm(t *testing.T) {
	rng := testRand()
	for i := 0; i < 200; i++ {
		s := SelectStory(mixedStories(), true, rng)
		if s.ID != "1" && s.ID != "3" {
			t.Fatalf("calm selection picked non-calm story %q (tone %s)", s.Title, s.Tone)
		}
	}
}

func TestSelectStoryActiveNeverPicksCalm(t *testing.T) {
	rng := testRand()
	for i := 0; i < 200; i++ {
		s := SelectStory(mixedStories(), false, rng)
		if s.ID == "1" || s.ID == "3" {
			t.Fatalf("active selection picked calm story %q", s.Title)
		}
	}
}

func TestSelectStoryFallsBackWhenSubsetEmpty(t *testing.T) {
	onlyCalm := []Story{
		{ID: "1", Tone: "calmo"},
		{ID: "2", Tone: "calmo"},
	}
	rng := testRand()
	// No non-calm candidates: fallback may return any story.
	s := SelectStory(onlyCalm, false, rng)
	if s.ID != "1" && s.ID != "2" {
		t.Fatalf("fallback returned story outside the card: %+v", s)
	}
}

func TestSelectStoryRandomizesAmongTies(t *testing.T) {
	rng := testRand()
	seen := make(map[string]bool)
	for i := 0; i < 200; i++ {
		s := SelectStory(mixedStories(), false, rng)
		seen[s.ID] = true
	}
	if !seen["2"] || !seen["4"] {
		t.Errorf("selection not randomized among ties, saw %v", seen)
	}
}
