// Package battery samples the battery voltage on a slow cadence and
// classifies it against the low and critical thresholds.
package battery

import (
	"log/slog"
	"time"

	"github.com/storellai/storybox/internal/events"
)

// Status is the classified battery condition.
type Status int

const (
	StatusOK Status = iota
	StatusLow
	StatusCritical
)

func (s Status) String() string {
	switch s {
	case StatusLow:
		return "low"
	case StatusCritical:
		return "critical"
	default:
		return "ok"
	}
}

// VoltsSource is the single HAL method the monitor needs.
type VoltsSource interface {
	BatteryVolts() (float64, error)
}

// Config tunes sampling. Thresholds suit a single LiPo cell behind the
// default divider.
type Config struct {
	Interval      time.Duration
	LowVolts      float64
	CriticalVolts float64
}

func DefaultConfig() Config {
	return Config{
		Interval:      10 * time.Second,
		LowVolts:      3.4,
		CriticalVolts: 3.2,
	}
}

// Monitor polls the voltage source when the control loop asks it to.
// It keeps its own sample clock so the loop can call Poll every tick.
type Monitor struct {
	source VoltsSource
	bus    *events.Bus
	logger *slog.Logger
	cfg    Config

	lastSample time.Time
	sampled    bool
	status     Status
}

func NewMonitor(source VoltsSource, bus *events.Bus, logger *slog.Logger, cfg Config) *Monitor {
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultConfig().Interval
	}
	return &Monitor{source: source, bus: bus, logger: logger, cfg: cfg}
}

// Poll samples the battery if the interval elapsed and returns the
// current status. A read failure keeps the previous status; battery
// telemetry is best-effort.
func (m *Monitor) Poll(now time.Time) Status {
	if m.sampled && now.Sub(m.lastSample) < m.cfg.Interval {
		return m.status
	}
	m.sampled = true
	m.lastSample = now

	volts, err := m.source.BatteryVolts()
	if err != nil {
		m.logger.Warn("Battery read failed", "error", err)
		return m.status
	}

	status := StatusOK
	switch {
	case volts <= m.cfg.CriticalVolts:
		status = StatusCritical
	case volts <= m.cfg.LowVolts:
		status = StatusLow
	}

	if status != m.status {
		m.logger.Warn("Battery status changed",
			"from", m.status.String(), "to", status.String(), "volts", volts)
	}
	m.status = status

	m.bus.Publish(events.BatteryEvent{
		Volts:    volts,
		Low:      status == StatusLow,
		Critical: status == StatusCritical,
	})
	return m.status
}

// Status returns the last classified condition without sampling.
func (m *Monitor) Status() Status {
	return m.status
}
