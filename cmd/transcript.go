package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sihabsafin/docmind/internal"
)

// transcriptCmd represents the transcript command
var transcriptCmd = &cobra.Command{
	Use:   "transcript [YouTube URL or ID]",
	Short: "Get the captions transcript from a YouTube video (cached or fetched)",
	Example: `  # Print the transcript
  docmind transcript "https://www.youtube.com/watch?v=tAP1eZYEuKA"
  docmind transcript tAP1eZYEuKA

  # Keep [m:ss] timestamps
  docmind transcript tAP1eZYEuKA --timestamps

  # Save transcript to file
  docmind transcript tAP1eZYEuKA -o transcript.txt`,
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

		text := transcript.Raw()
		if timestamps, _ := cmd.Flags().GetBool("timestamps"); timestamps {
			text = transcript.Formatted()
		}

		// Handle output flag
		outputFile, _ := cmd.Flags().GetString("output")
		if outputFile != "" {
			return os.WriteFile(outputFile, []byte(text), 0644)
		}

		fmt.Println(text)
		return nil
	},
}

func init() {
	transcriptCmd.Flags().Bool("timestamps", false, "Include [m:ss] timestamps per caption segment")
	transcriptCmd.Flags().StringP("output", "o", "", "Output file path (default: stdout)")
	rootCmd.AddCommand(transcriptCmd)
}
