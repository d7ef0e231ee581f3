// Package logging provides structured logging with per-module log level configuration.
//
// The logging system uses Go's slog package with automatic output routing:
//   - systemd journal when available (journald on the appliance image)
//   - stdout when a terminal, pipe, or file is connected
//   - a fixed-size ring buffer of recent entries, dumped on fatal exit
//
// Initialize once at startup:
//
//	logging.Initialize(logging.Config{
//		Level:  "info",
//		Format: "text",
//		Modules: map[string]string{
//			"playback": "debug",
//			"cards":    "warn",
//		},
//	})
//
// Get a logger for your module:
//
//	logger := logging.GetLogger("playback")
//	logger.Info("State changed", "from", "idle", "to", "playing")
//
// When running under systemd:
//
//	journalctl -t storybox -f
//	journalctl -t storybox MODULE=playback
//
// Module-specific levels override the global level for that module only:
//
//	[logging]
//	level = "info"
//	format = "text"
//	button = "debug"
package logging
