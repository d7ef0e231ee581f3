// Package box runs the cooperative control loop that ties the hardware
// inputs to the playback supervisor. One goroutine, fixed cadence; every
// collaborator is polled, nothing blocks past a tick except the bounded
// shutdown-chime wait.
package box

import (
	"context"
	"log/slog"
	"math"
	"time"

	"github.com/storellai/storybox/internal/audio"
	"github.com/storellai/storybox/internal/battery"
	"github.com/storellai/storybox/internal/button"
	"github.com/storellai/storybox/internal/events"
	"github.com/storellai/storybox/internal/hardware"
	"github.com/storellai/storybox/internal/led"
	"github.com/storellai/storybox/internal/playback"
)

// Config tunes the loop cadences and the volume curve.
type Config struct {
	TickInterval   time.Duration // main loop cadence
	VolumeInterval time.Duration // knob poll cadence
	VolumeMin      float64       // software volume at knob 0
	VolumeMax      float64       // software volume at knob 1
	ChimeWait      time.Duration // cap on the shutdown-chime wait
}

// DefaultConfig matches the original appliance timing: 50 ms loop,
// knob five times a second, volume window 10..90 % to avoid distortion.
func DefaultConfig() Config {
	return Config{
		TickInterval:   50 * time.Millisecond,
		VolumeInterval: 200 * time.Millisecond,
		VolumeMin:      0.10,
		VolumeMax:      0.90,
		ChimeWait:      3 * time.Second,
	}
}

// Box owns the loop state. Construct with New, drive with Run.
type Box struct {
	hal     hardware.HAL
	btn     *button.GestureButton
	leds    *led.Scheduler
	sup     *playback.Supervisor
	monitor *battery.Monitor
	engine  audio.Engine
	bus     *events.Bus
	logger  *slog.Logger
	cfg     Config

	lastVolPoll time.Time
	lastKnob    float64
	knobKnown   bool
}

func New(hal hardware.HAL, btn *button.GestureButton, leds *led.Scheduler, sup *playback.Supervisor, monitor *battery.Monitor, engine audio.Engine, bus *events.Bus, logger *slog.Logger, cfg Config) *Box {
	if cfg.TickInterval <= 0 {
		cfg = DefaultConfig()
	}
	return &Box{
		hal:     hal,
		btn:     btn,
		leds:    leds,
		sup:     sup,
		monitor: monitor,
		engine:  engine,
		bus:     bus,
		logger:  logger,
		cfg:     cfg,
	}
}

// Run drives the loop until the context is cancelled or the supervisor
// reaches ShuttingDown. It returns true when the box should power off.
func (b *Box) Run(ctx context.Context) (poweroff bool, err error) {
	ticker := time.NewTicker(b.cfg.TickInterval)
	defer ticker.Stop()

	b.logger.Info("Control loop started", "tick", b.cfg.TickInterval)

	for {
		select {
		case <-ctx.Done():
			b.logger.Info("Control loop stopped", "reason", ctx.Err())
			b.engine.Close()
			return false, nil
		case now := <-ticker.C:
			b.tick(now)
			if b.sup.State() == playback.StateShuttingDown {
				b.drainShutdown()
				return true, nil
			}
		}
	}
}

// tick is one loop iteration: LED phase first so animations never
// stall, then inputs, then the supervisor.
func (b *Box) tick(now time.Time) {
	b.leds.Tick(now)

	gesture := b.btn.Poll(b.hal.ButtonLevel(), now)
	if gesture != button.GestureNone {
		b.logger.Debug("Gesture", "kind", gesture.String())
		b.bus.Publish(events.GestureEvent{
			Gesture:   gesture.String(),
			Timestamp: now.Format(time.RFC3339),
		})
	}

	uid, present := b.hal.ReadUID()
	status := b.monitor.Poll(now)
	b.pollVolume(now)

	b.sup.Step(playback.Inputs{
		Gesture:    gesture,
		UID:        uid,
		TagPresent: present,
		Battery:    status,
		Now:        now,
	})
}

// pollVolume samples the knob on its own cadence and only acts when it
// moved more than 1 %, so ADC jitter does not hammer the engine.
func (b *Box) pollVolume(now time.Time) {
	if b.knobKnown && now.Sub(b.lastVolPoll) < b.cfg.VolumeInterval {
		return
	}
	b.lastVolPoll = now

	knob, err := b.hal.VolumeKnob()
	if err != nil {
		b.logger.Debug("Volume knob read failed", "error", err)
		return
	}

	if b.knobKnown && math.Abs(knob-b.lastKnob) <= 0.01 {
		return
	}
	b.lastKnob = knob
	b.knobKnown = true

	level := b.cfg.VolumeMin + knob*(b.cfg.VolumeMax-b.cfg.VolumeMin)
	b.engine.SetVolume(level)
	b.bus.Publish(events.VolumeChangedEvent{Level: level})
	b.logger.Debug("Volume changed", "knob", knob, "level", level)
}

// drainShutdown keeps the LED countdown and chime alive for a bounded
// window after the supervisor decided to power off, then releases the
// audio pipelines.
func (b *Box) drainShutdown() {
	deadline := time.Now().Add(b.cfg.ChimeWait)
	for time.Now().Before(deadline) {
		now := time.Now()
		b.leds.Tick(now)
		b.btn.Poll(b.hal.ButtonLevel(), now)
		if !b.engine.FeedbackBusy() && b.leds.Active().Kind == led.KindOff {
			break
		}
		time.Sleep(b.cfg.TickInterval)
	}
	b.engine.Close()
	b.logger.Info("Shutdown sequence complete")
}
