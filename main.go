package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/storellai/storybox/cmd"
	"github.com/storellai/storybox/internal/logging"
	"github.com/storellai/storybox/internal/version"
)

func main() {
	opts := cmd.DefaultOptions()

	root := &cobra.Command{
		Use:   "storybox",
		Short: "Storyteller appliance control daemon",
		Long: `storybox drives an NFC storyteller box: cards trigger narration over a
background-music bed, one button handles pause/resume, story reselect,
and shutdown, with LED patterns as the only visual feedback.`,
		Version:       version.String(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.RegisterFlags(root.PersistentFlags(), &opts)

	root.AddCommand(
		cmd.NewRunCmd(&opts),
		cmd.NewSimulateCmd(&opts),
		cmd.NewValidateCmd(&opts),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		dumpRecentLogs()
		os.Exit(1)
	}
}

// dumpRecentLogs prints the buffered log tail on a fatal exit, so the
// context of the failure survives even when the journal is not available.
func dumpRecentLogs() {
	buf := logging.GetBuffer()
	if buf == nil {
		return
	}
	entries := buf.ReadAll()
	if len(entries) == 0 {
		return
	}
	fmt.Fprintln(os.Stderr, "--- recent log entries ---")
	for _, entry := range entries {
		fmt.Fprintln(os.Stderr, logging.FormatLogLine(entry))
	}
}
