package led

import "log/slog"

// noopDriver implements Driver for systems without a wired LED.
type noopDriver struct {
	logger *slog.Logger
}

func newNoop(logger *slog.Logger) *noopDriver {
	return &noopDriver{logger: logger}
}

// SetDuty logs the request but performs no actual LED control.
func (d *noopDriver) SetDuty(level float64) error {
	d.logger.Debug("LED control not available (no-op)", "duty", level)
	return nil
}
