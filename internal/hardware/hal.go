// Package hardware is the input-side abstraction the control loop polls:
// raw button level, NFC tag presence, volume knob, and battery voltage.
// Backends: go-rpio with an MCP3008 ADC on real boards, an in-memory
// mock everywhere else.
package hardware

// HAL bundles the polled hardware inputs. All methods are non-blocking
// and safe to call at loop cadence.
type HAL interface {
	// ButtonLevel returns the raw pressed level of the button line,
	// before any debouncing.
	ButtonLevel() bool

	// ReadUID returns the UID of the tag currently on the reader, or
	// ok=false when none is present.
	ReadUID() (uid string, ok bool)

	// VolumeKnob returns the knob position in [0, 1].
	VolumeKnob() (float64, error)

	// BatteryVolts returns the battery voltage after the divider is
	// compensated for.
	BatteryVolts() (float64, error)

	Close() error
}

// Config carries pin and channel assignments. Zero values are replaced
// by the board defaults.
type Config struct {
	ButtonPin      int     // BCM pin, pull-up, pressed pulls low
	VolumeChannel  int     // MCP3008 channel for the volume pot
	BatteryChannel int     // MCP3008 channel for the battery divider
	BatteryDivider float64 // divider ratio, battery volts = ADC volts * ratio
	UIDFile        string  // spool file the NFC reader service writes
}

// DefaultConfig matches the reference wiring.
func DefaultConfig() Config {
	return Config{
		ButtonPin:      23,
		VolumeChannel:  0,
		BatteryChannel: 1,
		BatteryDivider: 2.0,
		UIDFile:        "/run/storybox/uid",
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.ButtonPin == 0 {
		c.ButtonPin = d.ButtonPin
	}
	if c.BatteryChannel == 0 {
		c.BatteryChannel = d.BatteryChannel
	}
	if c.BatteryDivider == 0 {
		c.BatteryDivider = d.BatteryDivider
	}
	if c.UIDFile == "" {
		c.UIDFile = d.UIDFile
	}
	return c
}
