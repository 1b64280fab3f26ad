package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/sihabsafin/docmind/internal"
)

var (
	config *internal.Config
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "docmind [YouTube URL or ID]",
	Short: "DocMind - turn YouTube videos into SEO-ready blog posts",
	Long: `DocMind converts YouTube video transcripts into publication-ready,
SEO-optimized blog posts.

It extracts captions directly from YouTube and runs them through a
five-stage writing pipeline (research, outline, SEO strategy, writing,
review) powered by Groq language models.`,
	Example: `  # Generate a blog post from a YouTube video (default behavior)
  docmind "https://www.youtube.com/watch?v=tAP1eZYEuKA"
  docmind tAP1eZYEuKA

  # Casual tone, long post
  docmind tAP1eZYEuKA --tone casual --length long

  # Include advanced SEO elements and save as HTML
  docmind tAP1eZYEuKA --advanced-seo -o post.html -f html`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := internal.HandleVerboseFlag(cmd, config); err != nil {
			return err
		}
		if cmd.Flags().Changed("quiet") {
			config.Quiet, _ = cmd.Flags().GetBool("quiet")
		}
		return nil
	},
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := internal.ValidateGroqRequirements(cmd, config); err != nil {
			return err
		}

		opts, err := internal.ResolveRunOptions(cmd, config)
		if err != nil {
			return err
		}

		videoID, err := internal.ExtractVideoID(args[0])
		if err != nil {
			return err
		}

		app := internal.NewApp(config)
		result, err := app.GenerateBlog(cmd.Context(), videoID, opts)
		if err != nil {
			return err
		}

		formatFlag, _ := cmd.Flags().GetString("format")
		format, err := internal.ParseExportFormat(formatFlag)
		if err != nil {
			return err
		}
		content, err := internal.Export(result, format)
		if err != nil {
			return err
		}

		outputFile, _ := cmd.Flags().GetString("output")
		if outputFile != "" {
			if err := os.WriteFile(outputFile, content, 0644); err != nil {
				return fmt.Errorf("writing blog post: %w", err)
			}
			if !config.Quiet {
				fmt.Printf("Blog post saved to %s\n", outputFile)
			}
			return nil
		}

		// Rendered markdown only on a terminal; piped output stays raw.
		if format == internal.FormatMarkdown && internal.StdoutIsTerminal() {
			if rendered, err := internal.RenderMarkdown(result.Blog); err == nil {
				fmt.Print(rendered)
				return nil
			}
		}
		fmt.Println(string(content))
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	// Create a cancellable context for the entire application
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize configuration with Viper
	config = internal.InitConfig()

	// Ensure XDG directories exist
	if err := internal.EnsureDirs(config.ConfigDir, config.DataDir, config.CacheDir, config.TranscriptsDir); err != nil {
		fmt.Fprintf(os.Stderr, "Error creating XDG directories: %v\n", err)
		os.Exit(1)
	}

	// Ensure default config exists in XDG config directory
	if err := internal.EnsureDefaultConfig(config.ConfigDir); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Failed to ensure default config: %v\n", err)
	}

	// Set up signal handling for graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	// Handle shutdown signal in a separate goroutine
	go func() {
		<-sigCh
		fmt.Println("\nReceived interrupt signal. Shutting down...")
		cancel()
	}()

	// Set context on root command
	rootCmd.SetContext(ctx)

	return rootCmd.Execute()
}

func init() {
	internal.AddGenerationFlags(rootCmd)
	internal.AddExportFlags(rootCmd)
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose output for debugging")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "Suppress progress output")
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	_ = viper.BindPFlag("quiet", rootCmd.PersistentFlags().Lookup("quiet"))
}
