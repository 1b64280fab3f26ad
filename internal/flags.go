package internal

import (
	"fmt"

	"github.com/spf13/cobra"
)

// AddGenerationFlags adds the flags controlling the blog pipeline.
func AddGenerationFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("tone", "t", "", "Writing tone (professional, casual, educational, storytelling, technical)")
	cmd.Flags().StringP("length", "l", "", "Post length (short, medium, long, epic)")
	cmd.Flags().Bool("advanced-seo", false, "Include secondary keywords, heading optimization and link opportunities")
	cmd.Flags().StringP("model", "m", "", "Groq model to use for generation")
}

// AddExportFlags adds the flags controlling output destination and format.
func AddExportFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("output", "o", "", "Output file path (default: stdout)")
	cmd.Flags().StringP("format", "f", "md", "Export format: md, txt, html")
}

// HandleVerboseFlag processes the --verbose flag to update config.
func HandleVerboseFlag(cmd *cobra.Command, config *Config) error {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		return fmt.Errorf("failed to get verbose flag: %w", err)
	}
	if verbose {
		config.Verbose = true
	}
	return nil
}

// ResolveRunOptions merges generation flags over the configured defaults.
func ResolveRunOptions(cmd *cobra.Command, config *Config) (RunOptions, error) {
	toneValue := config.Tone
	if flag, _ := cmd.Flags().GetString("tone"); flag != "" {
		toneValue = flag
	}
	tone, err := ParseTone(toneValue)
	if err != nil {
		return RunOptions{}, err
	}

	lengthValue := config.Length
	if flag, _ := cmd.Flags().GetString("length"); flag != "" {
		lengthValue = flag
	}
	length, err := ParseLength(lengthValue)
	if err != nil {
		return RunOptions{}, err
	}

	advanced := config.AdvancedSEO
	if cmd.Flags().Changed("advanced-seo") {
		advanced, _ = cmd.Flags().GetBool("advanced-seo")
	}

	return RunOptions{Tone: tone, Length: length, AdvancedSEO: advanced}, nil
}

// ValidateGroqRequirements validates the API key and resolves the model
// from command flags and config.
func ValidateGroqRequirements(cmd *cobra.Command, config *Config) error {
	if err := ValidateGroqAPIKey(config.GroqAPIKey); err != nil {
		return err
	}
	if modelFlag, _ := cmd.Flags().GetString("model"); modelFlag != "" {
		config.Model = modelFlag
	}
	if config.Model == "" {
		return fmt.Errorf("no model configured - set model in config.toml or pass --model")
	}
	return nil
}
