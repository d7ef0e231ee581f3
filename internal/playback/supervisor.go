// Package playback is the top-level state machine: it turns gestures,
// card reads, battery status, and playback completion into audio
// commands and LED signatures.
package playback

import (
	"errors"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/storellai/storybox/internal/audio"
	"github.com/storellai/storybox/internal/battery"
	"github.com/storellai/storybox/internal/button"
	"github.com/storellai/storybox/internal/cards"
	"github.com/storellai/storybox/internal/events"
	"github.com/storellai/storybox/internal/led"
)

// State of the supervisor. ShuttingDown is terminal.
type State int

const (
	StateIdle State = iota
	StatePlaying
	StatePaused
	StateShuttingDown
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StatePlaying:
		return "playing"
	case StatePaused:
		return "paused"
	case StateShuttingDown:
		return "shutting_down"
	default:
		return "unknown"
	}
}

// Session is the card currently being played.
type Session struct {
	UID   string
	Story cards.Story
}

// Config tunes supervisor behavior.
type Config struct {
	// IdleTimeout powers the box down after this long without active
	// playback, counted while Idle or Paused. Zero disables the timeout.
	IdleTimeout time.Duration

	// CalmWindow steers story selection toward calm tones.
	CalmWindow cards.CalmWindow
}

// Inputs is everything the control loop observed this tick.
type Inputs struct {
	Gesture    button.Gesture
	UID        string
	TagPresent bool
	Battery    battery.Status
	Now        time.Time
}

// Supervisor drives exactly one session (or none) through the
// Idle/Playing/Paused/ShuttingDown state machine. It is single-threaded:
// only the control loop calls Step.
type Supervisor struct {
	engine  audio.Engine
	leds    *led.Scheduler
	cache   *cards.Cache
	catalog *cards.Catalog
	bus     *events.Bus
	logger  *slog.Logger
	cfg     Config
	rng     *rand.Rand

	state   State
	session *Session

	// holdUID is a tag still on the reader that must not retrigger a
	// load: either it was rejected, or its story already finished.
	// Cleared when the tag is removed.
	holdUID string

	// quietSince marks the entry into the latest Idle or Paused stretch;
	// the idle timeout counts from here.
	quietSince  time.Time
	lastBattery battery.Status
}

func New(engine audio.Engine, leds *led.Scheduler, cache *cards.Cache, catalog *cards.Catalog, bus *events.Bus, logger *slog.Logger, cfg Config) *Supervisor {
	s := &Supervisor{
		engine:  engine,
		leds:    leds,
		cache:   cache,
		catalog: catalog,
		bus:     bus,
		logger:  logger,
		cfg:     cfg,
		rng:     rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), uint64(time.Now().UnixNano()>>32))),
		state:   StateIdle,
	}
	leds.Set(led.IdleBreathing())
	return s
}

// State returns the current FSM state.
func (s *Supervisor) State() State {
	return s.state
}

// Session returns the active card session, if any.
func (s *Supervisor) Session() (Session, bool) {
	if s.session == nil {
		return Session{}, false
	}
	return *s.session, true
}

// Step runs one FSM evaluation. At most one transition happens per call.
func (s *Supervisor) Step(in Inputs) {
	if s.state == StateShuttingDown {
		return
	}
	if s.quietSince.IsZero() {
		s.quietSince = in.Now
	}

	if in.Gesture == button.GestureLongPress {
		s.shutdown("long press", in.Now)
		return
	}

	if in.Battery == battery.StatusCritical && s.lastBattery != battery.StatusCritical {
		s.lastBattery = in.Battery
		s.shutdown("battery critical", in.Now)
		return
	}
	if in.Battery == battery.StatusLow && s.lastBattery != battery.StatusLow {
		p := led.LowBattery()
		next := s.statePattern()
		p.Next = &next
		s.leds.Set(p)
	}
	s.lastBattery = in.Battery

	if !in.TagPresent {
		s.holdUID = ""
	} else if s.isNewCard(in.UID) {
		s.loadCard(in.UID, in.Now)
		return
	}

	switch in.Gesture {
	case button.GestureTap:
		switch s.state {
		case StatePlaying:
			s.engine.Pause()
			s.leds.Set(led.PausedBreathing())
			s.setState(StatePaused, in.Now)
			s.logger.Info("Playback paused")
		case StatePaused:
			s.engine.Resume()
			s.leds.Set(led.PlayingSolid())
			s.setState(StatePlaying, in.Now)
			s.logger.Info("Playback resumed")
		}
		return
	case button.GestureDoubleTap:
		if s.state == StatePlaying && s.session != nil {
			s.reselect(in.Now)
		}
		return
	}

	if s.state == StatePlaying && s.session != nil && !s.engine.Busy() {
		s.finish(in.Now)
		return
	}

	if (s.state == StateIdle || s.state == StatePaused) &&
		s.cfg.IdleTimeout > 0 && in.Now.Sub(s.quietSince) >= s.cfg.IdleTimeout {
		s.shutdown("idle timeout", in.Now)
	}
}

func (s *Supervisor) isNewCard(uid string) bool {
	if uid == "" || uid == s.holdUID {
		return false
	}
	return s.session == nil || uid != s.session.UID
}

// loadCard handles a fresh card in any state: a different card always
// preempts whatever is running.
func (s *Supervisor) loadCard(uid string, now time.Time) {
	if s.session != nil {
		// Session clear and audio stop happen together so no gesture
		// can observe a half-cleared card.
		s.engine.Stop()
		s.session = nil
	}

	card, err := s.cache.Load(uid)
	if err != nil {
		result := "not_found"
		switch {
		case errors.Is(err, cards.ErrNoStories):
			result = "no_stories"
		case errors.Is(err, cards.ErrInvalid):
			result = "invalid"
		}
		s.rejectCard(uid, result, err, now)
		return
	}

	story := cards.SelectStory(card.Stories, s.cfg.CalmWindow.Contains(now), s.rng)
	if err := s.engine.PlayStory(s.catalog.AudioPath(story), story.Tone); err != nil {
		s.rejectCard(uid, "missing_audio", err, now)
		return
	}

	s.session = &Session{UID: uid, Story: story}
	s.holdUID = ""
	s.leds.Set(led.CardValid())
	s.setState(StatePlaying, now)
	s.bus.Publish(events.CardEvent{UID: uid, Result: "accepted", Timestamp: stamp(now)})
	s.logger.Info("Story started", "uid", uid, "story", story.Title, "tone", story.Tone)
}

func (s *Supervisor) rejectCard(uid, result string, err error, now time.Time) {
	s.holdUID = uid
	p := led.CardInvalid()
	idle := led.IdleBreathing()
	p.Next = &idle
	s.leds.Set(p)
	if fbErr := s.engine.PlayFeedback(audio.FeedbackError); fbErr != nil {
		s.logger.Warn("Error chime failed", "error", fbErr)
	}
	s.setState(StateIdle, now)
	s.bus.Publish(events.CardEvent{UID: uid, Result: result, Timestamp: stamp(now)})
	s.logger.Warn("Card rejected", "uid", uid, "result", result, "error", err)
}

// reselect restarts playback with a fresh story from the current card.
func (s *Supervisor) reselect(now time.Time) {
	uid := s.session.UID
	s.engine.Stop()

	card, err := s.cache.Load(uid)
	if err != nil {
		s.session = nil
		s.rejectCard(uid, "not_found", err, now)
		return
	}

	story := cards.SelectStory(card.Stories, s.cfg.CalmWindow.Contains(now), s.rng)
	if err := s.engine.PlayStory(s.catalog.AudioPath(story), story.Tone); err != nil {
		s.session = nil
		s.rejectCard(uid, "missing_audio", err, now)
		return
	}

	s.session.Story = story
	s.leds.Set(led.CardValid())
	s.logger.Info("Story reselected", "uid", uid, "story", story.Title)
}

func (s *Supervisor) finish(now time.Time) {
	sess := *s.session
	s.session = nil
	// The tag is usually still on the reader; hold it so the story does
	// not restart until the card is lifted.
	s.holdUID = sess.UID

	p := led.EndOfStory()
	idle := led.IdleBreathing()
	p.Next = &idle
	s.leds.Set(p)
	s.setState(StateIdle, now)
	s.bus.Publish(events.PlaybackFinishedEvent{
		UID:       sess.UID,
		Story:     sess.Story.Title,
		Timestamp: stamp(now),
	})
	s.logger.Info("Story finished", "uid", sess.UID, "story", sess.Story.Title)
}

func (s *Supervisor) shutdown(reason string, now time.Time) {
	s.engine.Stop()
	s.session = nil
	s.leds.Set(led.ShutdownCountdown())
	if err := s.engine.PlayFeedback(audio.FeedbackShutdown); err != nil {
		s.logger.Warn("Shutdown chime failed", "error", err)
	}
	s.setState(StateShuttingDown, now)
	s.logger.Info("Shutting down", "reason", reason)
}

func (s *Supervisor) setState(next State, now time.Time) {
	if next == s.state {
		return
	}
	prev := s.state
	s.state = next
	if next == StateIdle || next == StatePaused {
		s.quietSince = now
	}
	s.bus.Publish(events.StateChangedEvent{
		From:      prev.String(),
		To:        next.String(),
		Timestamp: stamp(now),
	})
}

func (s *Supervisor) statePattern() led.Pattern {
	switch s.state {
	case StatePlaying:
		return led.PlayingSolid()
	case StatePaused:
		return led.PausedBreathing()
	default:
		return led.IdleBreathing()
	}
}

func stamp(t time.Time) string {
	return t.Format(time.RFC3339)
}
