package led

import (
	"log/slog"
	"os"
	"strings"
)

const deviceTreeModelPath = "/proc/device-tree/model"

// Config selects the LED backend.
type Config struct {
	// GPIOPin is the BCM pin of the button LED when driven via PWM.
	GPIOPin int
	// PWMFreq is the PWM cycle frequency in Hz.
	PWMFreq int
	// SysfsName optionally forces a sysfs LED instead of GPIO PWM.
	SysfsName string
}

// NewDriver creates an LED driver based on board detection.
// Falls back to a no-op driver if no LED backend is available.
func NewDriver(cfg Config, logger *slog.Logger) Driver {
	if cfg.PWMFreq <= 0 {
		cfg.PWMFreq = 200
	}

	if cfg.SysfsName != "" {
		if d, err := newSysfs(cfg.SysfsName); err == nil {
			logger.Info("Using sysfs LED driver", "led", cfg.SysfsName)
			return d
		} else {
			logger.Warn("Sysfs LED unavailable, falling back", "led", cfg.SysfsName, "error", err)
		}
	}

	boardModel := detectBoard()
	logger.Info("Detecting board for LED control", "board_model", boardModel)

	switch {
	case strings.Contains(boardModel, "Raspberry Pi"):
		if cfg.GPIOPin > 0 {
			logger.Info("Detected Raspberry Pi, using PWM LED driver", "pin", cfg.GPIOPin)
			return newRpioPWM(cfg.GPIOPin, cfg.PWMFreq)
		}
		// No wired LED configured, fall back to the activity LED.
		if d, err := newSysfs("ACT"); err == nil {
			logger.Info("Using Raspberry Pi activity LED")
			return d
		}
	}

	logger.Info("No LED support detected, using no-op driver", "board_model", boardModel)
	return newNoop(logger)
}

// detectBoard reads the device tree model to identify the board.
func detectBoard() string {
	data, err := os.ReadFile(deviceTreeModelPath)
	if err != nil {
		return "unknown"
	}

	// Device tree model contains null bytes, trim them
	return strings.TrimRight(string(data), "\x00")
}
