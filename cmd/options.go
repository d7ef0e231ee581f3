// Package cmd holds the storybox subcommands: run (real hardware),
// simulate (mock hardware driven from stdin), and validate (content
// checks).
package cmd

import (
	"github.com/spf13/pflag"
)

// Options is the flat configuration surface shared by all subcommands.
// Precedence: CLI flags > STORYBOX_* env > TOML file.
type Options struct {
	Config string `help:"Path to configuration file"`

	// Content locations
	StoriesDir string `help:"Card catalog directory (card_<uid>.json files)" toml:"content.stories_dir" env:"STORIES_DIR"`
	BGMDir     string `help:"Background music directory (<tone>_loop.mp3 files)" toml:"content.bgm_dir" env:"BGM_DIR"`
	SoundsDir  string `help:"Feedback sounds directory" toml:"content.sounds_dir" env:"SOUNDS_DIR"`

	// Hardware wiring
	ButtonPin      int     `help:"Button BCM pin" toml:"hardware.button_pin" env:"BUTTON_PIN"`
	LedPin         int     `help:"LED BCM pin (hardware PWM)" toml:"hardware.led_pin" env:"LED_PIN"`
	VolumeChannel  int     `help:"MCP3008 channel for the volume pot" toml:"hardware.volume_channel" env:"VOLUME_CHANNEL"`
	BatteryChannel int     `help:"MCP3008 channel for the battery divider" toml:"hardware.battery_channel" env:"BATTERY_CHANNEL"`
	BatteryDivider float64 `help:"Battery voltage divider ratio" toml:"hardware.battery_divider" env:"BATTERY_DIVIDER"`
	UIDFile        string  `help:"Spool file written by the NFC reader service" toml:"hardware.uid_file" env:"UID_FILE"`

	// Behavior
	CalmStart   string `help:"Calm window start (HH:MM)" toml:"stories.calm_start" env:"CALM_START"`
	CalmEnd     string `help:"Calm window end (HH:MM)" toml:"stories.calm_end" env:"CALM_END"`
	IdleTimeout string `help:"Power off after this long idle (0 disables)" toml:"power.idle_timeout" env:"IDLE_TIMEOUT"`
	PowerOff    bool   `help:"Actually power off the host on shutdown" toml:"power.enabled" env:"POWER_OFF"`

	// Observability
	MetricsAddr string `help:"Prometheus listen address (empty disables)" toml:"metrics.addr" env:"METRICS_ADDR"`

	// Logging
	LoggingLevel    string `help:"Global logging level (debug, info, warn, error)" toml:"logging.level" env:"LOGGING_LEVEL"`
	LoggingFormat   string `help:"Logging format (text, json)" toml:"logging.format" env:"LOGGING_FORMAT"`
	LoggingButton   string `help:"Button logging level" toml:"logging.button" env:"LOGGING_BUTTON"`
	LoggingLed      string `help:"LED logging level" toml:"logging.led" env:"LOGGING_LED"`
	LoggingCards    string `help:"Cards logging level" toml:"logging.cards" env:"LOGGING_CARDS"`
	LoggingAudio    string `help:"Audio logging level" toml:"logging.audio" env:"LOGGING_AUDIO"`
	LoggingPlayback string `help:"Playback logging level" toml:"logging.playback" env:"LOGGING_PLAYBACK"`
}

// DefaultOptions matches the reference appliance wiring and the
// original firmware's timing.
func DefaultOptions() Options {
	return Options{
		Config:          "/etc/storybox/config.toml",
		StoriesDir:      "stories",
		BGMDir:          "bgm",
		SoundsDir:       "sounds",
		ButtonPin:       23,
		LedPin:          24,
		VolumeChannel:   0,
		BatteryChannel:  1,
		BatteryDivider:  2.0,
		UIDFile:         "/run/storybox/uid",
		CalmStart:       "20:30",
		CalmEnd:         "06:30",
		IdleTimeout:     "0s",
		PowerOff:        true,
		LoggingLevel:    "info",
		LoggingFormat:   "text",
		LoggingButton:   "info",
		LoggingLed:      "info",
		LoggingCards:    "info",
		LoggingAudio:    "info",
		LoggingPlayback: "info",
	}
}

// RegisterFlags binds every option onto fs. Flag names mirror the field
// names (StoriesDir -> --stories-dir) so the config loader can tell
// which flags were set explicitly.
func RegisterFlags(fs *pflag.FlagSet, o *Options) {
	fs.StringVarP(&o.Config, "config", "c", o.Config, "Path to configuration file")
	fs.StringVar(&o.StoriesDir, "stories-dir", o.StoriesDir, "Card catalog directory")
	fs.StringVar(&o.BGMDir, "bgm-dir", o.BGMDir, "Background music directory")
	fs.StringVar(&o.SoundsDir, "sounds-dir", o.SoundsDir, "Feedback sounds directory")
	fs.IntVar(&o.ButtonPin, "button-pin", o.ButtonPin, "Button BCM pin")
	fs.IntVar(&o.LedPin, "led-pin", o.LedPin, "LED BCM pin")
	fs.IntVar(&o.VolumeChannel, "volume-channel", o.VolumeChannel, "MCP3008 channel for the volume pot")
	fs.IntVar(&o.BatteryChannel, "battery-channel", o.BatteryChannel, "MCP3008 channel for the battery divider")
	fs.Float64Var(&o.BatteryDivider, "battery-divider", o.BatteryDivider, "Battery voltage divider ratio")
	fs.StringVar(&o.UIDFile, "uid-file", o.UIDFile, "NFC reader spool file")
	fs.StringVar(&o.CalmStart, "calm-start", o.CalmStart, "Calm window start (HH:MM)")
	fs.StringVar(&o.CalmEnd, "calm-end", o.CalmEnd, "Calm window end (HH:MM)")
	fs.StringVar(&o.IdleTimeout, "idle-timeout", o.IdleTimeout, "Power off after this long idle (0 disables)")
	fs.BoolVar(&o.PowerOff, "power-off", o.PowerOff, "Actually power off the host on shutdown")
	fs.StringVar(&o.MetricsAddr, "metrics-addr", o.MetricsAddr, "Prometheus listen address (empty disables)")
	fs.StringVar(&o.LoggingLevel, "logging-level", o.LoggingLevel, "Global logging level")
	fs.StringVar(&o.LoggingFormat, "logging-format", o.LoggingFormat, "Logging format (text, json)")
	fs.StringVar(&o.LoggingButton, "logging-button", o.LoggingButton, "Button logging level")
	fs.StringVar(&o.LoggingLed, "logging-led", o.LoggingLed, "LED logging level")
	fs.StringVar(&o.LoggingCards, "logging-cards", o.LoggingCards, "Cards logging level")
	fs.StringVar(&o.LoggingAudio, "logging-audio", o.LoggingAudio, "Audio logging level")
	fs.StringVar(&o.LoggingPlayback, "logging-playback", o.LoggingPlayback, "Playback logging level")
}

// LoggingModules maps the per-module flag values for logging.Initialize.
func (o Options) LoggingModules() map[string]string {
	return map[string]string{
		"button":   o.LoggingButton,
		"led":      o.LoggingLed,
		"cards":    o.LoggingCards,
		"audio":    o.LoggingAudio,
		"playback": o.LoggingPlayback,
	}
}
