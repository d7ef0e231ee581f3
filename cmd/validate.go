package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/storellai/storybox/internal/audio"
	"github.com/storellai/storybox/internal/cards"
	"github.com/storellai/storybox/internal/config"
	"github.com/storellai/storybox/internal/logging"
)

// NewValidateCmd creates the validate subcommand: static checks over
// the content tree so broken cards surface at build time instead of as
// error blinks in a child's bedroom.
func NewValidateCmd(opts *Options) *cobra.Command {
	var quiet bool

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate card files, audio references, and BGM loops",
		Long: `Checks that every card JSON parses and has stories, that every story
references an existing audio file and a known tone, and that every tone
has its background-music loop. Exits non-zero when problems are found.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := config.LoadConfig(opts, cmd); err != nil {
				return err
			}
			initLogging(opts)

			problems := validateContent(opts, quiet)
			if problems > 0 {
				return fmt.Errorf("%d problem(s) found", problems)
			}
			if !quiet {
				fmt.Println("content OK")
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "Only report problems")
	return cmd
}

func validateContent(opts *Options, quiet bool) int {
	logger := logging.GetLogger("cards")
	catalog := cards.NewCatalog(opts.StoriesDir, logger)

	report := func(format string, args ...any) {
		fmt.Fprintf(os.Stderr, format+"\n", args...)
	}

	problems := 0

	uids, err := catalog.UIDs()
	if err != nil {
		report("cannot list catalog: %v", err)
		return 1
	}
	if len(uids) == 0 {
		report("no card files in %s", opts.StoriesDir)
		problems++
	}

	knownTones := make(map[string]bool, len(audio.Tones()))
	for _, tone := range audio.Tones() {
		knownTones[tone] = true
	}

	for _, uid := range uids {
		card, err := catalog.Load(uid)
		if err != nil {
			report("card %s: %v", uid, err)
			problems++
			continue
		}

		for _, story := range card.Stories {
			if story.Title == "" {
				report("card %s story %s: missing title", uid, story.ID)
				problems++
			}
			if !knownTones[strings.ToLower(story.Tone)] {
				report("card %s story %q: unknown tone %q", uid, story.Title, story.Tone)
				problems++
			}
			if story.Audio == "" {
				report("card %s story %q: missing audio path", uid, story.Title)
				problems++
				continue
			}
			if _, err := os.Stat(catalog.AudioPath(story)); err != nil {
				report("card %s story %q: audio file: %v", uid, story.Title, err)
				problems++
			}
		}

		if !quiet {
			fmt.Printf("card %s: %d stories\n", uid, len(card.Stories))
		}
	}

	for _, tone := range audio.Tones() {
		loop := filepath.Join(opts.BGMDir, audio.BGMFile(tone))
		if _, err := os.Stat(loop); err != nil {
			report("tone %s: BGM loop: %v", tone, err)
			problems++
		}
	}

	for _, sound := range []string{"error.mp3", "shutdown.mp3"} {
		if _, err := os.Stat(filepath.Join(opts.SoundsDir, sound)); err != nil {
			report("feedback sound %s: %v", sound, err)
			problems++
		}
	}

	return problems
}
