package audio

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/ziutek/glib"
	"github.com/ziutek/gst"
)

// Crossfade choreography constants, carried over from the original box
// tuning. Volumes are factors applied on top of the master volume.
const (
	bgmIntroVolume = 0.7
	bgmDuckVolume  = 0.10
	bgmOutroVolume = bgmIntroVolume * 0.8

	bgmLeadIn  = 1500 * time.Millisecond
	duckFade   = 1 * time.Second
	duckSettle = 300 * time.Millisecond
	swellFade  = 1500 * time.Millisecond
	outroHold  = 2 * time.Second
	outroFade  = 1500 * time.Millisecond
	fadeSteps  = 10
)

// toneBGM maps story tones to BGM loop files. Unknown tones fall back
// to the calm bed.
var toneBGM = map[string]string{
	"calmo":       "calmo_loop.mp3",
	"calm":        "calmo_loop.mp3",
	"avventuroso": "avventuroso_loop.mp3",
	"divertente":  "divertente_loop.mp3",
	"misterioso":  "misterioso_loop.mp3",
	"tenero":      "tenero_loop.mp3",
}

// BGMFile returns the loop filename for a tone.
func BGMFile(tone string) string {
	if f, ok := toneBGM[strings.ToLower(tone)]; ok {
		return f
	}
	return "calmo_loop.mp3"
}

// Tones lists every tone with a BGM bed.
func Tones() []string {
	return []string{"calmo", "avventuroso", "divertente", "misterioso", "tenero"}
}

type session struct {
	cancel   chan struct{}
	done     chan struct{}
	voiceEOS chan struct{}
	eosOnce  sync.Once
}

// GstEngine implements Engine on three GStreamer playbin pipelines: the
// BGM bed, the narration voice, and a chime channel for feedback sounds.
type GstEngine struct {
	logger    *slog.Logger
	bgmDir    string
	soundsDir string

	mu          sync.Mutex
	master      float64
	bgmFactor   float64
	voiceFactor float64
	paused      bool
	sess        *session
	chimeBusy   bool

	bgm   *gst.Element
	voice *gst.Element
	chime *gst.Element
}

// NewGstEngine builds the pipelines and starts the glib main loop that
// delivers bus messages.
func NewGstEngine(bgmDir, soundsDir string, logger *slog.Logger) (*GstEngine, error) {
	e := &GstEngine{
		logger:    logger,
		bgmDir:    bgmDir,
		soundsDir: soundsDir,
		master:    0.9,
	}

	for _, p := range []struct {
		name string
		dst  **gst.Element
	}{
		{"bgm", &e.bgm},
		{"voice", &e.voice},
		{"chime", &e.chime},
	} {
		el := gst.ElementFactoryMake("playbin", p.name)
		if el == nil {
			return nil, fmt.Errorf("cannot create %s playbin; is GStreamer installed?", p.name)
		}
		*p.dst = el
	}

	e.watchBus(e.bgm, e.onBGMMessage)
	e.watchBus(e.voice, e.onVoiceMessage)
	e.watchBus(e.chime, e.onChimeMessage)

	go glib.NewMainLoop(nil).Run()

	return e, nil
}

func (e *GstEngine) watchBus(el *gst.Element, handler func(*gst.Message)) {
	bus := el.GetBus()
	bus.AddSignalWatch()
	bus.ConnectNoi("message", handler, nil)
}

// PlayStory implements Engine.
func (e *GstEngine) PlayStory(narrationPath, tone string) error {
	bgmPath := filepath.Join(e.bgmDir, BGMFile(tone))
	if _, err := os.Stat(bgmPath); err != nil {
		return fmt.Errorf("BGM for tone %q: %w", tone, err)
	}
	if _, err := os.Stat(narrationPath); err != nil {
		return fmt.Errorf("narration file: %w", err)
	}

	bgmURI, err := gst.FilenameToURI(bgmPath)
	if err != nil {
		return fmt.Errorf("BGM uri: %w", err)
	}
	voiceURI, err := gst.FilenameToURI(narrationPath)
	if err != nil {
		return fmt.Errorf("narration uri: %w", err)
	}

	e.Stop()

	s := &session{
		cancel:   make(chan struct{}),
		done:     make(chan struct{}),
		voiceEOS: make(chan struct{}),
	}

	e.mu.Lock()
	e.sess = s
	e.paused = false
	e.mu.Unlock()

	go e.run(s, voiceURI, bgmURI)
	return nil
}

// run executes the crossfade choreography for one story session.
func (e *GstEngine) run(s *session, voiceURI, bgmURI string) {
	defer close(s.done)

	e.setFactor(e.bgm, &e.bgmFactor, bgmIntroVolume)
	e.bgm.SetProperty("uri", bgmURI)
	e.bgm.SetState(gst.STATE_PLAYING)
	e.logger.Debug("BGM started", "factor", bgmIntroVolume)

	// Let the bed establish the mood before the voice comes in.
	if !e.wait(s, bgmLeadIn) {
		e.teardown()
		return
	}

	e.fade(s, e.bgm, &e.bgmFactor, bgmDuckVolume, duckFade)
	e.wait(s, duckSettle)

	e.setFactor(e.voice, &e.voiceFactor, 1)
	e.voice.SetProperty("uri", voiceURI)
	e.voice.SetState(gst.STATE_PLAYING)
	e.logger.Info("Narration started")

	select {
	case <-s.voiceEOS:
		e.logger.Info("Narration finished")
	case <-s.cancel:
		e.teardown()
		return
	}

	// Swell the bed back up for a short outro, then fade to silence.
	e.fade(s, e.bgm, &e.bgmFactor, bgmOutroVolume, swellFade)
	if !e.wait(s, outroHold) {
		e.teardown()
		return
	}
	e.fade(s, e.bgm, &e.bgmFactor, 0, outroFade)

	e.teardown()
	e.logger.Debug("Playback completed")
}

// wait sleeps for d unless the session is cancelled first.
func (e *GstEngine) wait(s *session, d time.Duration) bool {
	select {
	case <-time.After(d):
		return true
	case <-s.cancel:
		return false
	}
}

// fade steps a pipeline's volume factor toward target over d.
func (e *GstEngine) fade(s *session, el *gst.Element, factor *float64, target float64, d time.Duration) {
	e.mu.Lock()
	current := *factor
	e.mu.Unlock()

	step := (target - current) / fadeSteps
	for i := 1; i <= fadeSteps; i++ {
		if !e.wait(s, d/fadeSteps) {
			return
		}
		e.setFactor(el, factor, current+step*float64(i))
	}
}

// setFactor stores a pipeline's volume factor and applies it scaled by
// the master volume.
func (e *GstEngine) setFactor(el *gst.Element, factor *float64, v float64) {
	e.mu.Lock()
	*factor = v
	master := e.master
	e.mu.Unlock()
	el.SetProperty("volume", v*master)
}

func (e *GstEngine) teardown() {
	e.voice.SetState(gst.STATE_NULL)
	e.bgm.SetState(gst.STATE_NULL)
	e.mu.Lock()
	e.sess = nil
	e.paused = false
	e.mu.Unlock()
}

// Pause implements Engine.
func (e *GstEngine) Pause() {
	e.mu.Lock()
	active := e.sess != nil && !e.paused
	if active {
		e.paused = true
	}
	e.mu.Unlock()
	if active {
		e.voice.SetState(gst.STATE_PAUSED)
		e.bgm.SetState(gst.STATE_PAUSED)
	}
}

// Resume implements Engine.
func (e *GstEngine) Resume() {
	e.mu.Lock()
	active := e.sess != nil && e.paused
	if active {
		e.paused = false
	}
	e.mu.Unlock()
	if active {
		e.voice.SetState(gst.STATE_PLAYING)
		e.bgm.SetState(gst.STATE_PLAYING)
	}
}

// Stop implements Engine.
func (e *GstEngine) Stop() {
	e.mu.Lock()
	s := e.sess
	e.mu.Unlock()
	if s == nil {
		return
	}

	close(s.cancel)
	<-s.done
}

// Busy implements Engine.
func (e *GstEngine) Busy() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.sess != nil
}

// PlayFeedback implements Engine.
func (e *GstEngine) PlayFeedback(kind FeedbackKind) error {
	path := filepath.Join(e.soundsDir, kind.filename())
	uri, err := gst.FilenameToURI(path)
	if err != nil {
		return fmt.Errorf("feedback sound: %w", err)
	}
	if _, statErr := os.Stat(path); statErr != nil {
		return fmt.Errorf("feedback sound: %w", statErr)
	}

	e.mu.Lock()
	e.chimeBusy = true
	master := e.master
	e.mu.Unlock()

	e.chime.SetState(gst.STATE_NULL)
	e.chime.SetProperty("uri", uri)
	e.chime.SetProperty("volume", master)
	e.chime.SetState(gst.STATE_PLAYING)
	return nil
}

// FeedbackBusy implements Engine.
func (e *GstEngine) FeedbackBusy() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.chimeBusy
}

// SetVolume implements Engine.
func (e *GstEngine) SetVolume(level float64) {
	if level < 0 {
		level = 0
	}
	if level > 1 {
		level = 1
	}

	e.mu.Lock()
	e.master = level
	bgmFactor := e.bgmFactor
	voiceFactor := e.voiceFactor
	e.mu.Unlock()

	e.bgm.SetProperty("volume", bgmFactor*level)
	e.voice.SetProperty("volume", voiceFactor*level)
}

// Close implements Engine.
func (e *GstEngine) Close() {
	e.Stop()
	e.chime.SetState(gst.STATE_NULL)
}

func (e *GstEngine) onVoiceMessage(msg *gst.Message) {
	switch msg.GetType() {
	case gst.MESSAGE_EOS:
		e.mu.Lock()
		s := e.sess
		e.mu.Unlock()
		if s != nil {
			s.eosOnce.Do(func() { close(s.voiceEOS) })
		}
	case gst.MESSAGE_ERROR:
		err, debug := msg.ParseError()
		e.logger.Error("Narration pipeline error", "error", err, "debug", debug)
		e.mu.Lock()
		s := e.sess
		e.mu.Unlock()
		if s != nil {
			// Treat a broken narration as finished so the session can
			// wind down instead of hanging.
			s.eosOnce.Do(func() { close(s.voiceEOS) })
		}
	}
}

func (e *GstEngine) onBGMMessage(msg *gst.Message) {
	switch msg.GetType() {
	case gst.MESSAGE_EOS:
		// The bed is a loop file; restart it while the session runs.
		e.mu.Lock()
		active := e.sess != nil
		e.mu.Unlock()
		if active {
			e.bgm.SetState(gst.STATE_NULL)
			e.bgm.SetState(gst.STATE_PLAYING)
		}
	case gst.MESSAGE_ERROR:
		err, debug := msg.ParseError()
		e.logger.Error("BGM pipeline error", "error", err, "debug", debug)
	}
}

func (e *GstEngine) onChimeMessage(msg *gst.Message) {
	switch msg.GetType() {
	case gst.MESSAGE_EOS:
		e.chime.SetState(gst.STATE_NULL)
		e.mu.Lock()
		e.chimeBusy = false
		e.mu.Unlock()
	case gst.MESSAGE_ERROR:
		err, debug := msg.ParseError()
		e.logger.Error("Chime pipeline error", "error", err, "debug", debug)
		e.mu.Lock()
		e.chimeBusy = false
		e.mu.Unlock()
	}
}
