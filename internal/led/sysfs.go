package led

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

const sysfsLEDPath = "/sys/class/leds"

// sysfsDriver implements Driver over the Linux sysfs LED interface.
// Brightness resolution depends on the LED's max_brightness; on-board
// status LEDs often only expose 0/1, which degrades patterns to on-off.
type sysfsDriver struct {
	brightnessPath string
	max            int
}

// newSysfs opens the sysfs LED with the given name. The trigger is set
// to "none" so brightness writes take manual control.
func newSysfs(name string) (*sysfsDriver, error) {
	ledPath := filepath.Join(sysfsLEDPath, name)
	if _, err := os.Stat(ledPath); err != nil {
		return nil, fmt.Errorf("LED %q not found at %s: %w", name, ledPath, err)
	}

	maxBrightness := 1
	if data, err := os.ReadFile(filepath.Join(ledPath, "max_brightness")); err == nil {
		if v, convErr := strconv.Atoi(strings.TrimSpace(string(data))); convErr == nil && v > 0 {
			maxBrightness = v
		}
	}

	// Disable any kernel trigger so we own the brightness value.
	triggerPath := filepath.Join(ledPath, "trigger")
	if err := os.WriteFile(triggerPath, []byte("none"), 0o644); err != nil {
		return nil, fmt.Errorf("failed to take manual control of LED %q: %w", name, err)
	}

	return &sysfsDriver{
		brightnessPath: filepath.Join(ledPath, "brightness"),
		max:            maxBrightness,
	}, nil
}

// SetDuty writes the scaled brightness value.
func (d *sysfsDriver) SetDuty(level float64) error {
	if level < 0 {
		level = 0
	}
	if level > 1 {
		level = 1
	}
	value := int(level*float64(d.max) + 0.5)
	if err := os.WriteFile(d.brightnessPath, []byte(strconv.Itoa(value)), 0o644); err != nil {
		return fmt.Errorf("failed to set LED brightness: %w", err)
	}
	return nil
}
