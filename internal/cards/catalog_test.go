package cards

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"testing"
	"time"
)

func writeCard(t *testing.T, dir, uid, content string) {
	t.Helper()
	path := filepath.Join(dir, "card_"+uid+".json")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

const validCard = `{
	"card_id": "000001",
	"stories": [
		{"id": "s1", "title": "La volpe sulla luna", "tone": "divertente", "audio": "audio/000001/s1.mp3"},
		{"id": "s2", "title": "La volpe dorme", "tone": "calmo", "audio": "audio/000001/s2.mp3"}
	]
}`

func testCatalog(t *testing.T) (*Catalog, string) {
	t.Helper()
	dir := t.TempDir()
	stories := filepath.Join(dir, "stories")
	if err := os.Mkdir(stories, 0o755); err != nil {
		t.Fatal(err)
	}
	return NewCatalog(stories, slog.Default()), stories
}

func TestCatalogLoad(t *testing.T) {
	c, dir := testCatalog(t)
	writeCard(t, dir, "000001", validCard)

	card, err := c.Load("000001")
	if err != nil {
		t.Fatal(err)
	}
	if len(card.Stories) != 2 {
		t.Fatalf("expected 2 stories, got %d", len(card.Stories))
	}
	if card.Stories[0].Tone != "divertente" {
		t.Errorf("unexpected tone %q", card.Stories[0].Tone)
	}
}

func TestCatalogLoadMissing(t *testing.T) {
	c, _ := testCatalog(t)
	_, err := c.Load("999999")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestCatalogLoadInvalidJSON(t *testing.T) {
	c, dir := testCatalog(t)
	writeCard(t, dir, "000002", `{"stories": [`)
	_, err := c.Load("000002")
	if !errors.Is(err, ErrInvalid) {
		t.Errorf("expected ErrInvalid, got %v", err)
	}
}

func TestCatalogLoadEmptyStories(t *testing.T) {
	c, dir := testCatalog(t)
	writeCard(t, dir, "000003", `{"stories": []}`)
	_, err := c.Load("000003")
	if !errors.Is(err, ErrNoStories) {
		t.Errorf("expected ErrNoStories, got %v", err)
	}
}

func TestCatalogAudioPath(t *testing.T) {
	c, dir := testCatalog(t)
	story := Story{Audio: "audio/000001/s1.mp3"}
	want := filepath.Join(filepath.Dir(dir), "audio", "000001", "s1.mp3")
	if got := c.AudioPath(story); got != want {
		t.Errorf("AudioPath = %q, want %q", got, want)
	}
}

func TestCatalogUIDs(t *testing.T) {
	c, dir := testCatalog(t)
	writeCard(t, dir, "000001", validCard)
	writeCard(t, dir, "000005", validCard)
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	uids, err := c.UIDs()
	if err != nil {
		t.Fatal(err)
	}
	sort.Strings(uids)
	if len(uids) != 2 || uids[0] != "000001" || uids[1] != "000005" {
		t.Errorf("UIDs = %v", uids)
	}
}

func TestCacheWarmAndInvalidate(t *testing.T) {
	c, dir := testCatalog(t)
	writeCard(t, dir, "000001", validCard)
	cache := NewCache(c, slog.Default())

	if cache.Get("000001") != nil {
		t.Fatal("cache should start cold")
	}

	cache.Warm("000001")
	deadline := time.Now().Add(2 * time.Second)
	for cache.Get("000001") == nil {
		if time.Now().After(deadline) {
			t.Fatal("prefetch never landed")
		}
		time.Sleep(5 * time.Millisecond)
	}

	cache.Invalidate()
	if cache.Get("000001") != nil {
		t.Error("invalidate should drop entries")
	}
}

func TestCacheLoadFallsBackToCatalog(t *testing.T) {
	c, dir := testCatalog(t)
	writeCard(t, dir, "000001", validCard)
	cache := NewCache(c, slog.Default())

	card, err := cache.Load("000001")
	if err != nil {
		t.Fatal(err)
	}
	if card == nil || len(card.Stories) != 2 {
		t.Fatalf("unexpected card %+v", card)
	}
	// Second load must come from cache (same pointer).
	again, err := cache.Load("000001")
	if err != nil {
		t.Fatal(err)
	}
	if again != card {
		t.Error("expected cached pointer on second load")
	}
}
