package internal

import (
	"context"
	"fmt"
	"time"
)

// App holds the application state and dependencies.
type App struct {
	fetcher  TranscriptSource
	chunker  *TranscriptChunker
	ai       Generator
	metadata *MetadataFetcher
	budget   *TokenBudgetPolicy
	stages   []AgentStageSpec
	config   *Config
	ui       UIManager
}

// NewApp initializes the application.
func NewApp(config *Config, options ...AppOption) *App {
	app := &App{
		fetcher:  NewTranscriptFetcher(nil, config.TranscriptsDir, config.Verbose),
		chunker:  NewTranscriptChunker(),
		ai:       NewAIWithKey(config.GroqAPIKey, config.Model, config.GenerationTimeout, config.Verbose),
		metadata: NewMetadataFetcher(config.TranscriptsDir, config.Verbose),
		budget:   DefaultTokenBudgetPolicy(),
		stages:   DefaultStages(),
		config:   config,
		ui:       NewUIManager(config.Verbose, config.Quiet),
	}

	for _, option := range options {
		option(app)
	}
	return app
}

// AppOption customizes App creation.
type AppOption func(*App)

// WithTranscriptSource sets a custom transcript source.
func WithTranscriptSource(source TranscriptSource) AppOption {
	return func(a *App) { a.fetcher = source }
}

// WithGenerator sets a custom generation client.
func WithGenerator(gen Generator) AppOption {
	return func(a *App) { a.ai = gen }
}

// WithBudgetPolicy sets a custom token budget policy.
func WithBudgetPolicy(policy *TokenBudgetPolicy) AppOption {
	return func(a *App) { a.budget = policy }
}

// GetTranscript fetches (or loads from cache) the transcript for a video.
func (app *App) GetTranscript(ctx context.Context, videoID string) (*Transcript, error) {
	var spinner ProgressBar
	if !app.config.Quiet && !app.config.Verbose {
		spinner = app.ui.NewSpinner("Fetching YouTube captions...")
	}

	transcript, err := app.fetcher.Fetch(ctx, videoID)
	if spinner != nil {
		spinner.Finish()
	}
	return transcript, err
}

// Metadata fetches (or loads from cache) metadata for a video.
func (app *App) Metadata(ctx context.Context, videoID string) (*VideoMetadata, error) {
	return app.metadata.Fetch(ctx, videoID)
}

// GenerateBlog performs the complete workflow: fetch transcript, chunk,
// run the five-stage pipeline. The progress bar advances once per stage.
func (app *App) GenerateBlog(ctx context.Context, videoID string, opts RunOptions) (*Result, error) {
	// Metadata enrichment is best effort; a metadata failure never blocks
	// a run that has captions.
	if opts.Meta == nil {
		if meta, err := app.metadata.Fetch(ctx, videoID); err == nil {
			opts.Meta = meta
		} else if app.config.Verbose {
			fmt.Printf("Failed to fetch video metadata: %v\n", err)
		}
	}

	orchestrator := NewOrchestrator(app.fetcher, app.chunker, app.ai, app.budget, app.stages, app.config.Verbose)

	var bar ProgressBar
	if !app.config.Quiet {
		bar = app.ui.NewProgressBar(len(app.stages), "Running blog pipeline")
		opts.Events = &RunEvents{
			OnStageStart: func(index int, name string) {
				bar.Describe(name)
			},
			OnStageComplete: func(index int, name string, elapsed time.Duration) {
				bar.Set(index + 1)
				app.ui.Verbose("%s finished in %.1fs\n", name, elapsed.Seconds())
			},
		}
	}

	result, err := orchestrator.Run(ctx, videoID, opts)
	if bar != nil {
		bar.Finish()
	}
	if err != nil {
		return result, err
	}

	app.ui.Printf("Generated %s in %.1fs\n", FormatWordCount(result.WordCount), result.Run.Elapsed.Seconds())
	return result, nil
}
