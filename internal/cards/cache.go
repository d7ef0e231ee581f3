package cards

import (
	"log/slog"
	"sync"
)

// Cache is a read-mostly warm cache of loaded cards, keyed by uid.
// A background prefetch goroutine fills it after the reader first sees a
// card; the control loop reads it and falls back to a synchronous
// catalog load on miss. Entries are immutable once inserted, so writers
// need no coordination beyond last-writer-wins.
type Cache struct {
	catalog *Catalog
	logger  *slog.Logger

	mu      sync.RWMutex
	entries map[string]*Card
}

// NewCache creates an empty cache backed by the given catalog.
func NewCache(catalog *Catalog, logger *slog.Logger) *Cache {
	return &Cache{
		catalog: catalog,
		logger:  logger,
		entries: make(map[string]*Card),
	}
}

// Get returns the cached card for uid, or nil when not warmed.
func (c *Cache) Get(uid string) *Card {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.entries[uid]
}

// Load returns the card for uid, from cache when warm, otherwise loading
// synchronously through the catalog (and warming the entry on success).
func (c *Cache) Load(uid string) (*Card, error) {
	if card := c.Get(uid); card != nil {
		return card, nil
	}

	card, err := c.catalog.Load(uid)
	if err != nil {
		return nil, err
	}
	c.put(uid, card)
	return card, nil
}

// Warm prefetches the card for uid on a background goroutine. Load
// failures are logged at debug; the inline load will surface them when
// the card is actually used.
func (c *Cache) Warm(uid string) {
	go func() {
		card, err := c.catalog.Load(uid)
		if err != nil {
			c.logger.Debug("Card prefetch failed", "uid", uid, "error", err)
			return
		}
		c.put(uid, card)
		c.logger.Debug("Card prefetched", "uid", uid, "stories", len(card.Stories))
	}()
}

// Invalidate drops every cached entry. Called when the catalog directory
// changes on disk.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]*Card)
}

func (c *Cache) put(uid string, card *Card) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[uid] = card
}
