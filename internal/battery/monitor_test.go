package battery

import (
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/storellai/storybox/internal/events"
)

type fakeSource struct {
	volts float64
	err   error
	reads int
}

func (f *fakeSource) BatteryVolts() (float64, error) {
	f.reads++
	return f.volts, f.err
}

func newTestMonitor(src *fakeSource) *Monitor {
	return NewMonitor(src, events.New(), slog.Default(), DefaultConfig())
}

func TestMonitorClassifies(t *testing.T) {
	tests := []struct {
		volts float64
		want  Status
	}{
		{4.1, StatusOK},
		{3.41, StatusOK},
		{3.4, StatusLow},
		{3.25, StatusLow},
		{3.2, StatusCritical},
		{2.9, StatusCritical},
	}
	for _, tt := range tests {
		src := &fakeSource{volts: tt.volts}
		m := newTestMonitor(src)
		if got := m.Poll(time.Now()); got != tt.want {
			t.Errorf("Poll at %.2fV = %v, want %v", tt.volts, got, tt.want)
		}
	}
}

func TestMonitorRespectsInterval(t *testing.T) {
	src := &fakeSource{volts: 4.0}
	m := newTestMonitor(src)

	now := time.Now()
	m.Poll(now)
	m.Poll(now.Add(time.Second))
	m.Poll(now.Add(5 * time.Second))
	if src.reads != 1 {
		t.Errorf("expected 1 sample inside the interval, got %d", src.reads)
	}

	m.Poll(now.Add(11 * time.Second))
	if src.reads != 2 {
		t.Errorf("expected a second sample after the interval, got %d", src.reads)
	}
}

func TestMonitorKeepsStatusOnReadError(t *testing.T) {
	src := &fakeSource{volts: 3.3}
	m := newTestMonitor(src)

	now := time.Now()
	if got := m.Poll(now); got != StatusLow {
		t.Fatalf("expected low, got %v", got)
	}

	src.err = errors.New("spi glitch")
	if got := m.Poll(now.Add(time.Minute)); got != StatusLow {
		t.Errorf("read error should keep previous status, got %v", got)
	}
}

func TestMonitorPublishesSamples(t *testing.T) {
	src := &fakeSource{volts: 3.0}
	bus := events.New()
	m := NewMonitor(src, bus, slog.Default(), DefaultConfig())

	got := make(chan events.BatteryEvent, 1)
	cancel := bus.Subscribe(func(ev events.BatteryEvent) {
		got <- ev
	})
	defer cancel()

	m.Poll(time.Now())

	select {
	case ev := <-got:
		if !ev.Critical {
			t.Errorf("expected critical flag at 3.0V, got %+v", ev)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no battery event published")
	}
}
