package cmd

import (
	"fmt"
	"time"

	"github.com/storellai/storybox/internal/audio"
	"github.com/storellai/storybox/internal/battery"
	"github.com/storellai/storybox/internal/box"
	"github.com/storellai/storybox/internal/button"
	"github.com/storellai/storybox/internal/cards"
	"github.com/storellai/storybox/internal/config"
	"github.com/storellai/storybox/internal/events"
	"github.com/storellai/storybox/internal/hardware"
	"github.com/storellai/storybox/internal/led"
	"github.com/storellai/storybox/internal/logging"
	"github.com/storellai/storybox/internal/metrics"
	"github.com/storellai/storybox/internal/playback"
)

// rig is everything run and simulate share: the assembled control loop
// plus the pieces a caller may want to poke at.
type rig struct {
	box     *box.Box
	bus     *events.Bus
	cache   *cards.Cache
	catalog *cards.Catalog
	watcher *config.Watcher[[]string]

	cleanup []func()
}

// assemble wires the core from an already-constructed HAL and audio
// engine. Hardware and simulation differ only in those two.
func assemble(opts *Options, hal hardware.HAL, engine audio.Engine) (*rig, error) {
	calm, err := cards.ParseCalmWindow(opts.CalmStart, opts.CalmEnd)
	if err != nil {
		return nil, err
	}
	idleTimeout, err := time.ParseDuration(opts.IdleTimeout)
	if err != nil {
		return nil, fmt.Errorf("invalid idle timeout %q: %w", opts.IdleTimeout, err)
	}

	catalog := cards.NewCatalog(opts.StoriesDir, logging.GetLogger("cards"))
	cache := cards.NewCache(catalog, logging.GetLogger("cards"))
	bus := events.New()

	ledDriver := led.NewDriver(led.Config{GPIOPin: opts.LedPin}, logging.GetLogger("led"))
	leds := led.NewScheduler(ledDriver, logging.GetLogger("led"))

	sup := playback.New(engine, leds, cache, catalog, bus, logging.GetLogger("playback"), playback.Config{
		IdleTimeout: idleTimeout,
		CalmWindow:  calm,
	})

	monitor := battery.NewMonitor(hal, bus, logging.GetLogger("battery"), battery.DefaultConfig())
	btn := button.New(button.DefaultConfig())

	r := &rig{
		box:     box.New(hal, btn, leds, sup, monitor, engine, bus, logging.GetLogger("box"), box.DefaultConfig()),
		bus:     bus,
		cache:   cache,
		catalog: catalog,
	}

	r.cleanup = append(r.cleanup, metrics.Wire(bus))

	// Prefetch every known card so the first tap after boot is instant.
	if uids, err := catalog.UIDs(); err == nil {
		for _, uid := range uids {
			cache.Warm(uid)
		}
	}

	// Editing the catalog on disk invalidates the cache and re-warms.
	watchLogger := logging.GetLogger("cards")
	r.watcher = config.NewConfigWatcher(
		opts.StoriesDir,
		func(string) ([]string, error) { return catalog.UIDs() },
		watchLogger,
		config.WithDebounce[[]string](time.Second),
	)
	r.watcher.OnReload(func(uids []string) {
		watchLogger.Info("Card catalog changed, reloading", "cards", len(uids))
		cache.Invalidate()
		for _, uid := range uids {
			cache.Warm(uid)
		}
	})
	if err := r.watcher.Start(); err != nil {
		watchLogger.Warn("Catalog watcher unavailable", "error", err)
		r.watcher = nil
	}

	return r, nil
}

func (r *rig) close() {
	if r.watcher != nil {
		if err := r.watcher.Stop(); err != nil {
			logging.GetLogger("cards").Warn("Catalog watcher stop failed", "error", err)
		}
	}
	for _, fn := range r.cleanup {
		fn()
	}
}
