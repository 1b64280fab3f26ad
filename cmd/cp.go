package cmd

import (
	"fmt"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"github.com/sihabsafin/docmind/internal"
)

// cpCmd copies the transcript to the system clipboard instead of printing to stdout.
var cpCmd = &cobra.Command{
	Use:   "cp [URL]",
	Short: "Copy transcript from YouTube to the clipboard",
	Example: `  # Copy transcript from YouTube captions
  docmind cp "https://www.youtube.com/watch?v=tAP1eZYEuKA"
  docmind cp tAP1eZYEuKA`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		videoID, err := internal.ExtractVideoID(args[0])
		if err != nil {
			return err
		}

		app := internal.NewApp(config)
		transcript, err := app.GetTranscript(cmd.Context(), videoID)
		if err != nil {
			return err
		}

		if err := clipboard.WriteAll(transcript.Raw()); err != nil {
			return fmt.Errorf("copying transcript to clipboard: %w", err)
		}

		if !config.Quiet {
			fmt.Println("Transcript copied to clipboard")
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(cpCmd)
}
