package cards

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// Catalog loads card story files from a directory. File naming follows
// the original card layout: <dir>/card_<uid>.json, with audio paths in
// the stories resolved relative to the catalog's base directory.
type Catalog struct {
	dir    string
	logger *slog.Logger
}

// NewCatalog creates a catalog rooted at dir.
func NewCatalog(dir string, logger *slog.Logger) *Catalog {
	return &Catalog{dir: dir, logger: logger}
}

// Dir returns the directory the catalog reads from.
func (c *Catalog) Dir() string {
	return c.dir
}

// Load reads and validates the card file for the given uid.
// Returns ErrNotFound, ErrInvalid or ErrNoStories as content faults.
func (c *Catalog) Load(uid string) (*Card, error) {
	path := filepath.Join(c.dir, fmt.Sprintf("card_%s.json", uid))

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("card %s: %w", uid, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to read card %s: %w", uid, err)
	}

	var card Card
	if err := json.Unmarshal(data, &card); err != nil {
		c.logger.Warn("Card file is not valid JSON", "uid", uid, "error", err)
		return nil, fmt.Errorf("card %s: %w", uid, ErrInvalid)
	}

	if len(card.Stories) == 0 {
		return nil, fmt.Errorf("card %s: %w", uid, ErrNoStories)
	}

	return &card, nil
}

// AudioPath resolves a story's audio file relative to the catalog root's
// parent, matching the original content layout where story JSON refers
// to "audio/<card>/<file>.mp3".
func (c *Catalog) AudioPath(story Story) string {
	if filepath.IsAbs(story.Audio) {
		return story.Audio
	}
	return filepath.Join(filepath.Dir(c.dir), story.Audio)
}

// UIDs lists every card uid present in the catalog directory.
func (c *Catalog) UIDs() ([]string, error) {
	entries, err := os.ReadDir(c.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list catalog %s: %w", c.dir, err)
	}

	var uids []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || filepath.Ext(name) != ".json" {
			continue
		}
		base := name[:len(name)-len(".json")]
		if len(base) > len("card_") && base[:len("card_")] == "card_" {
			uids = append(uids, base[len("card_"):])
		}
	}
	return uids, nil
}
