package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/storellai/storybox/internal/audio"
	"github.com/storellai/storybox/internal/config"
	"github.com/storellai/storybox/internal/hardware"
	"github.com/storellai/storybox/internal/logging"
	"github.com/storellai/storybox/internal/metrics"
	"github.com/storellai/storybox/internal/system"
)

// NewRunCmd creates the run subcommand: the real appliance daemon.
func NewRunCmd(opts *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run the storybox daemon on real hardware",
		Long: `Starts the control loop against the GPIO button, MCP3008 ADC, PWM LED,
NFC reader spool file, and the GStreamer audio engine. Runs until a
long-press (or critical battery) powers the box off, or until the
process receives SIGINT/SIGTERM.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := config.LoadConfig(opts, cmd); err != nil {
				return err
			}
			initLogging(opts)
			logger := logging.GetLogger("main")

			hal, err := hardware.NewRpio(hardware.Config{
				ButtonPin:      opts.ButtonPin,
				VolumeChannel:  opts.VolumeChannel,
				BatteryChannel: opts.BatteryChannel,
				BatteryDivider: opts.BatteryDivider,
				UIDFile:        opts.UIDFile,
			}, logging.GetLogger("hardware"))
			if err != nil {
				return fmt.Errorf("hardware init: %w", err)
			}
			defer hal.Close()

			engine, err := audio.NewGstEngine(opts.BGMDir, opts.SoundsDir, logging.GetLogger("audio"))
			if err != nil {
				return fmt.Errorf("audio init: %w", err)
			}

			r, err := assemble(opts, hal, engine)
			if err != nil {
				return err
			}
			defer r.close()

			if opts.MetricsAddr != "" {
				shutdown := metrics.Serve(opts.MetricsAddr, logger)
				defer func() {
					ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
					defer cancel()
					if err := shutdown(ctx); err != nil {
						logger.Warn("Metrics shutdown failed", "error", err)
					}
				}()
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			poweroff, err := r.box.Run(ctx)
			if err != nil {
				return err
			}
			if !poweroff {
				return nil
			}

			power, err := system.NewPower(logger, !opts.PowerOff)
			if err != nil {
				logger.Error("Cannot reach logind, skipping power-off", "error", err)
				return nil
			}
			defer power.Close()
			power.Off()
			return nil
		},
	}
}

func initLogging(opts *Options) {
	logging.Initialize(logging.Config{
		Level:   opts.LoggingLevel,
		Format:  opts.LoggingFormat,
		Modules: opts.LoggingModules(),
	})
}
