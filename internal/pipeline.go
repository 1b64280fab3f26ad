package internal

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// RunState is the orchestrator's position in the fixed state machine:
// Idle -> Fetching -> Chunking -> Stage 1..5 -> Completed, with Failed
// reachable from any non-terminal state.
type RunState int

const (
	StateIdle RunState = iota
	StateFetching
	StateChunking
	StateStage1
	StateStage2
	StateStage3
	StateStage4
	StateStage5
	StateCompleted
	StateFailed
)

func (s RunState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateFetching:
		return "fetching"
	case StateChunking:
		return "chunking"
	case StateStage1, StateStage2, StateStage3, StateStage4, StateStage5:
		return fmt.Sprintf("stage %d", int(s-StateStage1)+1)
	case StateCompleted:
		return "completed"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// stageState returns the run state for the zero-based stage index.
func stageState(i int) RunState { return StateStage1 + RunState(i) }

// PipelineContext accumulates each completed stage's output, one entry per
// stage in completion order. Entries are never mutated or removed; keys are
// unique. Owned exclusively by the orchestrator for the run's lifetime and
// handed read-only to exporters at completion.
type PipelineContext struct {
	names   []string
	outputs map[string]string
}

// NewPipelineContext creates an empty context.
func NewPipelineContext() *PipelineContext {
	return &PipelineContext{outputs: make(map[string]string)}
}

// Append records a completed stage's output. Duplicate names are rejected:
// one stage writes exactly one entry.
func (c *PipelineContext) Append(name, output string) error {
	if _, exists := c.outputs[name]; exists {
		return fmt.Errorf("duplicate pipeline context entry %q", name)
	}
	c.names = append(c.names, name)
	c.outputs[name] = output
	return nil
}

// Get returns one stage's output.
func (c *PipelineContext) Get(name string) (string, bool) {
	out, ok := c.outputs[name]
	return out, ok
}

// Len returns how many stages have completed.
func (c *PipelineContext) Len() int { return len(c.names) }

// Entries returns the accumulated outputs in stage order, each bounded to
// maxTokens. This is the only view later stages get of their predecessors.
func (c *PipelineContext) Entries(maxTokens int) []ContextEntry {
	entries := make([]ContextEntry, len(c.names))
	for i, name := range c.names {
		entries[i] = ContextEntry{Stage: name, Output: TruncateTokens(c.outputs[name], maxTokens)}
	}
	return entries
}

// PipelineRun is the transient per-run state. Created at run start,
// discarded on the next invocation, never persisted.
type PipelineRun struct {
	State      RunState
	StageIndex int
	StartedAt  time.Time
	Elapsed    time.Duration
	Err        error
}

func (r *PipelineRun) fail(state RunState, err error) error {
	r.State = StateFailed
	r.Err = &PipelineError{State: state, Err: err}
	r.Elapsed = time.Since(r.StartedAt)
	return r.Err
}

// RunOptions parameterize a single pipeline run.
type RunOptions struct {
	Tone        Tone
	Length      Length
	AdvancedSEO bool
	// Meta optionally enriches the research prompt with video metadata.
	Meta *VideoMetadata
	// Events receives stage lifecycle notifications; may be nil.
	Events *RunEvents
}

// RunEvents are optional callbacks for progress reporting.
type RunEvents struct {
	OnStageStart    func(index int, name string)
	OnStageComplete func(index int, name string, elapsed time.Duration)
}

// Result is the completed (or partially completed) run handed to
// exporters. Exporters require every entry present and non-empty, which
// the orchestrator guarantees for completed runs.
type Result struct {
	VideoID   string
	Context   *PipelineContext
	Run       *PipelineRun
	Blog      string
	SEO       BlogMetadata
	WordCount int
}

// Orchestrator executes the five stages in fixed order, threading the
// accumulated context through each prompt, enforcing the run's token
// budget, and classifying failures. Execution is synchronous; the caller
// blocks for the whole run.
type Orchestrator struct {
	source  TranscriptSource
	chunker *TranscriptChunker
	gen     Generator
	budget  *TokenBudgetPolicy
	stages  []AgentStageSpec
	verbose bool
}

// NewOrchestrator wires a pipeline from its collaborators.
func NewOrchestrator(source TranscriptSource, chunker *TranscriptChunker, gen Generator, budget *TokenBudgetPolicy, stages []AgentStageSpec, verbose bool) *Orchestrator {
	return &Orchestrator{
		source:  source,
		chunker: chunker,
		gen:     gen,
		budget:  budget,
		stages:  stages,
		verbose: verbose,
	}
}

// Run drives one full pipeline: fetch, chunk, then the five stages. On
// failure the returned Result still carries the entries of every stage
// that completed; no cross-stage recovery is attempted.
func (o *Orchestrator) Run(ctx context.Context, videoID string, opts RunOptions) (*Result, error) {
	run := &PipelineRun{State: StateIdle, StartedAt: time.Now()}
	pctx := NewPipelineContext()
	result := &Result{VideoID: videoID, Context: pctx, Run: run}

	run.State = StateFetching
	transcript, err := o.source.Fetch(ctx, videoID)
	if err != nil {
		return result, run.fail(StateFetching, err)
	}

	run.State = StateChunking
	original := transcript.WordCount()
	transcript = o.chunker.Chunk(transcript)
	if o.verbose && transcript.WordCount() != original {
		fmt.Printf("Chunked transcript from %d to %d words\n", original, transcript.WordCount())
	}

	maxTokens := o.budget.MaxTokens(opts.Length)

	for i, stage := range o.stages {
		run.State = stageState(i)
		run.StageIndex = i
		if opts.Events != nil && opts.Events.OnStageStart != nil {
			opts.Events.OnStageStart(i, stage.Name)
		}
		stageStart := time.Now()

		prompt, err := o.buildStagePrompt(&stage, transcript, pctx, opts)
		if err != nil {
			return result, run.fail(run.State, err)
		}

		output, err := o.generateWithRetry(ctx, prompt, maxTokens)
		if err != nil {
			if errors.Is(err, ErrRateLimited) || errors.Is(err, ErrEmptyStageOutput) {
				return result, run.fail(run.State, err)
			}
			return result, run.fail(run.State, &GenerationError{Stage: stage.Name, Err: err})
		}

		if err := pctx.Append(stage.Name, output); err != nil {
			return result, run.fail(run.State, err)
		}
		if opts.Events != nil && opts.Events.OnStageComplete != nil {
			opts.Events.OnStageComplete(i, stage.Name, time.Since(stageStart))
		}
	}

	run.State = StateCompleted
	run.Elapsed = time.Since(run.StartedAt)

	final, _ := pctx.Get(o.stages[len(o.stages)-1].Name)
	result.Blog = final
	result.SEO = ParseBlogMetadata(final)
	result.WordCount = CountWords(final)
	return result, nil
}

// buildStagePrompt assembles a stage's input: its role, the transcript
// excerpt when the stage declares a transcript bound, and every prior
// context entry truncated to this stage's predecessor bound. A stage never
// sees output from itself or any later stage - only completed entries
// exist in the context when it runs.
func (o *Orchestrator) buildStagePrompt(stage *AgentStageSpec, transcript *Transcript, pctx *PipelineContext, opts RunOptions) (string, error) {
	data := StageData{
		Tone:        opts.Tone.Instructions(),
		TargetWords: opts.Length.TargetWords(),
		AdvancedSEO: opts.AdvancedSEO,
		Context:     pctx.Entries(stage.ContextBound),
	}
	if stage.TranscriptBound > 0 {
		data.Transcript = TruncateTokens(transcript.Raw(), stage.TranscriptBound)
	}
	if opts.Meta != nil {
		data.Title = opts.Meta.Title
		data.Channel = opts.Meta.Channel
	}
	return stage.BuildPrompt(data)
}

// generateWithRetry performs the stage's single generation call with a
// one-shot retry on generic service errors. Rate limits and empty outputs
// are surfaced immediately - retrying a rate limit would worsen it, and an
// empty output is a contract violation, not a transient fault.
func (o *Orchestrator) generateWithRetry(ctx context.Context, prompt string, maxTokens int) (string, error) {
	output, err := o.gen.Generate(ctx, prompt, maxTokens)
	if err == nil {
		return output, nil
	}
	if errors.Is(err, ErrRateLimited) || errors.Is(err, ErrEmptyStageOutput) || ctx.Err() != nil {
		return "", err
	}
	if o.verbose {
		fmt.Printf("Generation failed, retrying once: %v\n", err)
	}
	return o.gen.Generate(ctx, prompt, maxTokens)
}
