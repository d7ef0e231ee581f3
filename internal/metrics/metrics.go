// Package metrics exposes Prometheus collectors for the appliance,
// fed from the event bus so the control loop never touches a counter
// directly.
package metrics

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/storellai/storybox/internal/events"
)

var (
	gesturesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "storybox",
		Name:      "gestures_total",
		Help:      "Button gestures classified, by kind",
	}, []string{"kind"})

	cardReadsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "storybox",
		Name:      "card_reads_total",
		Help:      "Card reads processed, by result",
	}, []string{"result"})

	playbackSessionsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "storybox",
		Name:      "playback_sessions_total",
		Help:      "Story sessions started",
	})

	playbackState = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "storybox",
		Name:      "playback_state",
		Help:      "Current supervisor state (1 for the active state)",
	}, []string{"state"})

	batteryVolts = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "storybox",
		Name:      "battery_volts",
		Help:      "Last sampled battery voltage",
	})

	volumeLevel = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "storybox",
		Name:      "volume_level",
		Help:      "Effective software volume, 0..1",
	})
)

// Wire subscribes the collectors to the bus. Returns an unsubscribe
// function.
func Wire(bus *events.Bus) func() {
	playbackState.WithLabelValues("idle").Set(1)

	cancels := []func(){
		bus.Subscribe(func(ev events.GestureEvent) {
			gesturesTotal.WithLabelValues(ev.Gesture).Inc()
		}),
		bus.Subscribe(func(ev events.CardEvent) {
			cardReadsTotal.WithLabelValues(ev.Result).Inc()
			if ev.Result == "accepted" {
				playbackSessionsTotal.Inc()
			}
		}),
		bus.Subscribe(func(ev events.StateChangedEvent) {
			playbackState.WithLabelValues(ev.From).Set(0)
			playbackState.WithLabelValues(ev.To).Set(1)
		}),
		bus.Subscribe(func(ev events.BatteryEvent) {
			batteryVolts.Set(ev.Volts)
		}),
		bus.Subscribe(func(ev events.VolumeChangedEvent) {
			volumeLevel.Set(ev.Level)
		}),
	}

	return func() {
		for _, cancel := range cancels {
			cancel()
		}
	}
}

// Serve exposes /metrics on addr. Returns a shutdown function. The
// endpoint is opt-in; the appliance runs offline by default.
func Serve(addr string, logger *slog.Logger) func(context.Context) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("Metrics endpoint listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Metrics endpoint failed", "error", err)
		}
	}()

	return srv.Shutdown
}
