package cmd

import (
	"bufio"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/storellai/storybox/internal/audio"
	"github.com/storellai/storybox/internal/config"
	"github.com/storellai/storybox/internal/hardware"
	"github.com/storellai/storybox/internal/logging"
)

// NewSimulateCmd creates the simulate subcommand: the full control loop
// against mock hardware, driven interactively from stdin. Useful for
// exercising the state machine on a workstation without GPIO or audio.
func NewSimulateCmd(opts *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "simulate",
		Short: "Run the control loop with mock hardware driven from stdin",
		Long: `Runs the same control loop as 'run' but against in-memory hardware.
Commands on stdin:

  tag <uid>     place a card on the reader
  untag         remove the card
  tap           tap the button
  double        double-tap the button
  long          long-press the button (shutdown)
  knob <0..1>   turn the volume knob
  volts <v>     set the battery voltage
  finish        let the current story complete
  quit          exit`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := config.LoadConfig(opts, cmd); err != nil {
				return err
			}
			initLogging(opts)
			logger := logging.GetLogger("main")

			hal := hardware.NewMock()
			engine := audio.NewMockEngine()

			r, err := assemble(opts, hal, engine)
			if err != nil {
				return err
			}
			defer r.close()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			go readCommands(hal, engine, stop)

			logger.Info("Simulation running, type commands on stdin")
			poweroff, err := r.box.Run(ctx)
			if err != nil {
				return err
			}
			if poweroff {
				logger.Info("Simulated power-off")
			}
			return nil
		},
	}
}

// readCommands translates stdin lines into mock hardware state. Button
// gestures are produced as timed raw-level sequences so the real
// debounce and classification code runs.
func readCommands(hal *hardware.Mock, engine *audio.MockEngine, quit func()) {
	press := func(d time.Duration) {
		hal.SetButton(true)
		time.Sleep(d)
		hal.SetButton(false)
	}

	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "tag":
			if len(fields) == 2 {
				hal.PlaceTag(fields[1])
			}
		case "untag":
			hal.RemoveTag()
		case "tap":
			press(200 * time.Millisecond)
		case "double":
			press(120 * time.Millisecond)
			time.Sleep(120 * time.Millisecond)
			press(120 * time.Millisecond)
		case "long":
			press(1800 * time.Millisecond)
		case "knob":
			if len(fields) == 2 {
				if v, err := strconv.ParseFloat(fields[1], 64); err == nil {
					hal.SetKnob(v)
				}
			}
		case "volts":
			if len(fields) == 2 {
				if v, err := strconv.ParseFloat(fields[1], 64); err == nil {
					hal.SetVolts(v)
				}
			}
		case "finish":
			engine.FinishStory()
		case "quit":
			quit()
			return
		default:
			fmt.Fprintf(os.Stderr, "unknown command %q\n", fields[0])
		}
	}
}
