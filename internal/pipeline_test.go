package internal

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeGenerator scripts generation outcomes per call and records prompts.
type fakeGenerator struct {
	calls     int
	prompts   []string
	maxTokens []int
	fn        func(call int, prompt string) (string, error)
}

func (g *fakeGenerator) Generate(ctx context.Context, prompt string, maxTokens int) (string, error) {
	g.calls++
	g.prompts = append(g.prompts, prompt)
	g.maxTokens = append(g.maxTokens, maxTokens)
	return g.fn(g.calls, prompt)
}

// staticSource serves a fixed transcript or error.
type staticSource struct {
	transcript *Transcript
	err        error
}

func (s *staticSource) Fetch(ctx context.Context, videoID string) (*Transcript, error) {
	return s.transcript, s.err
}

func shortSource() *staticSource {
	return &staticSource{transcript: NewTranscript("tAP1eZYEuKA", "en", []Segment{
		{Start: 0, Text: "today we explore how compilers turn source code into machine code"},
	})}
}

func testOrchestrator(source TranscriptSource, gen Generator) *Orchestrator {
	return NewOrchestrator(source, NewTranscriptChunker(), gen, DefaultTokenBudgetPolicy(), DefaultStages(), false)
}

const finalPost = `**SEO Title:** Compilers Demystified
**Meta Description:** How source becomes machine code.
**Primary Keyword:** compilers

# Compilers Demystified

Real content about lexing, parsing, and codegen.`

func TestRunCompletesAllFiveStages(t *testing.T) {
	gen := &fakeGenerator{fn: func(call int, prompt string) (string, error) {
		if call == 5 {
			return finalPost, nil
		}
		return fmt.Sprintf("output of stage %d", call), nil
	}}
	orch := testOrchestrator(shortSource(), gen)

	var started, completed []string
	result, err := orch.Run(context.Background(), "tAP1eZYEuKA", RunOptions{
		Events: &RunEvents{
			OnStageStart:    func(i int, name string) { started = append(started, name) },
			OnStageComplete: func(i int, name string, _ time.Duration) { completed = append(completed, name) },
		},
	})
	require.NoError(t, err)

	assert.Equal(t, StateCompleted, result.Run.State)
	assert.Equal(t, 5, result.Context.Len())
	assert.Equal(t, 5, gen.calls)
	assert.Equal(t, finalPost, result.Blog)
	assert.Equal(t, "Compilers Demystified", result.SEO.SEOTitle)
	assert.Equal(t, "compilers", result.SEO.PrimaryKeyword)
	assert.Positive(t, result.WordCount)
	assert.Len(t, started, 5)
	assert.Equal(t, started, completed)
}

func TestRunFailsAtFetchingWithoutGenerating(t *testing.T) {
	source := &staticSource{err: NewTranscriptError(PrivateVideo, "tAP1eZYEuKA", nil)}
	gen := &fakeGenerator{fn: func(int, string) (string, error) {
		return "should never run", nil
	}}
	orch := testOrchestrator(source, gen)

	result, err := orch.Run(context.Background(), "tAP1eZYEuKA", RunOptions{})
	require.Error(t, err)

	var pe *PipelineError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, StateFetching, pe.State)

	var te *TranscriptError
	assert.ErrorAs(t, err, &te)
	assert.Equal(t, StateFailed, result.Run.State)
	assert.Equal(t, 0, gen.calls)
	assert.Equal(t, 0, result.Context.Len())
}

func TestRunRateLimitStopsWithoutRetry(t *testing.T) {
	gen := &fakeGenerator{fn: func(call int, _ string) (string, error) {
		if call == 3 {
			return "", fmt.Errorf("stage rejected: %w", ErrRateLimited)
		}
		return fmt.Sprintf("output of stage %d", call), nil
	}}
	orch := testOrchestrator(shortSource(), gen)

	result, err := orch.Run(context.Background(), "tAP1eZYEuKA", RunOptions{})
	require.Error(t, err)

	var pe *PipelineError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, StateStage3, pe.State)
	assert.ErrorIs(t, err, ErrRateLimited)

	// No retry on rate limits: exactly one call for the failed stage.
	assert.Equal(t, 3, gen.calls)
	// The first two stage outputs survive in the result.
	assert.Equal(t, 2, result.Context.Len())
	out, ok := result.Context.Get("Content Strategist")
	require.True(t, ok)
	assert.Equal(t, "output of stage 2", out)
	assert.Empty(t, result.Blog)
}

func TestRunRetriesOnceOnGenericError(t *testing.T) {
	gen := &fakeGenerator{fn: func(call int, _ string) (string, error) {
		if call == 1 {
			return "", errors.New("upstream hiccup")
		}
		if call == 6 {
			return finalPost, nil
		}
		return fmt.Sprintf("output of call %d", call), nil
	}}
	orch := testOrchestrator(shortSource(), gen)

	result, err := orch.Run(context.Background(), "tAP1eZYEuKA", RunOptions{})
	require.NoError(t, err)

	// Stage 1 took two calls, stages 2-5 one each.
	assert.Equal(t, 6, gen.calls)
	assert.Equal(t, StateCompleted, result.Run.State)
}

func TestRunGenericErrorFailsAfterSingleRetry(t *testing.T) {
	gen := &fakeGenerator{fn: func(int, string) (string, error) {
		return "", errors.New("upstream down")
	}}
	orch := testOrchestrator(shortSource(), gen)

	_, err := orch.Run(context.Background(), "tAP1eZYEuKA", RunOptions{})
	require.Error(t, err)

	var ge *GenerationError
	require.ErrorAs(t, err, &ge)
	assert.Equal(t, "Research Analyst", ge.Stage)
	// Initial call plus one retry, then the run stops.
	assert.Equal(t, 2, gen.calls)
}

func TestRunEmptyOutputFailsImmediately(t *testing.T) {
	gen := &fakeGenerator{fn: func(call int, _ string) (string, error) {
		if call == 2 {
			return "", ErrEmptyStageOutput
		}
		return fmt.Sprintf("output of stage %d", call), nil
	}}
	orch := testOrchestrator(shortSource(), gen)

	result, err := orch.Run(context.Background(), "tAP1eZYEuKA", RunOptions{})
	require.Error(t, err)

	assert.ErrorIs(t, err, ErrEmptyStageOutput)
	assert.Equal(t, 2, gen.calls)
	assert.Equal(t, 1, result.Context.Len())
}

func TestRunUsesBudgetForEveryStage(t *testing.T) {
	gen := &fakeGenerator{fn: func(call int, _ string) (string, error) {
		return fmt.Sprintf("output of stage %d", call), nil
	}}
	orch := testOrchestrator(shortSource(), gen)

	_, err := orch.Run(context.Background(), "tAP1eZYEuKA", RunOptions{Length: LengthEpic})
	require.NoError(t, err)

	require.Len(t, gen.maxTokens, 5)
	for _, max := range gen.maxTokens {
		assert.Equal(t, 6000, max)
	}
}

func TestRunOnlyFirstStageSeesTranscript(t *testing.T) {
	marker := "zxqv-transcript-marker"
	source := &staticSource{transcript: NewTranscript("tAP1eZYEuKA", "en", []Segment{
		{Start: 0, Text: marker + " the rest of the talk"},
	})}
	gen := &fakeGenerator{fn: func(call int, _ string) (string, error) {
		return fmt.Sprintf("output of stage %d", call), nil
	}}
	orch := testOrchestrator(source, gen)

	_, err := orch.Run(context.Background(), "tAP1eZYEuKA", RunOptions{})
	require.NoError(t, err)

	require.Len(t, gen.prompts, 5)
	assert.Contains(t, gen.prompts[0], marker)
	for _, prompt := range gen.prompts[1:] {
		assert.NotContains(t, prompt, marker)
	}
}

func TestRunBoundsPredecessorOutputs(t *testing.T) {
	huge := strings.Repeat("research finding ", 5000)
	gen := &fakeGenerator{fn: func(call int, _ string) (string, error) {
		if call == 1 {
			return huge, nil
		}
		return fmt.Sprintf("output of stage %d", call), nil
	}}
	orch := testOrchestrator(shortSource(), gen)

	result, err := orch.Run(context.Background(), "tAP1eZYEuKA", RunOptions{})
	require.NoError(t, err)

	// The stored entry keeps the full output.
	stored, ok := result.Context.Get("Research Analyst")
	require.True(t, ok)
	assert.Equal(t, huge, stored)

	// Later stages only see it truncated to the context bound.
	stage2 := gen.prompts[1]
	idx := strings.Index(stage2, "--- Research Analyst ---")
	require.GreaterOrEqual(t, idx, 0)
	assert.Less(t, len(stage2)-idx, DefaultContextBound*bytesPerToken+1000)
}

func TestRunLaterStagesSeeAllPredecessors(t *testing.T) {
	gen := &fakeGenerator{fn: func(call int, _ string) (string, error) {
		return fmt.Sprintf("output of stage %d", call), nil
	}}
	orch := testOrchestrator(shortSource(), gen)

	_, err := orch.Run(context.Background(), "tAP1eZYEuKA", RunOptions{})
	require.NoError(t, err)

	final := gen.prompts[4]
	for i, name := range []string{"Research Analyst", "Content Strategist", "SEO Optimizer", "Blog Writer"} {
		assert.Contains(t, final, "--- "+name+" ---")
		assert.Contains(t, final, fmt.Sprintf("output of stage %d", i+1))
	}
}

func TestPipelineContextRejectsDuplicates(t *testing.T) {
	pctx := NewPipelineContext()
	require.NoError(t, pctx.Append("Research Analyst", "first"))
	assert.Error(t, pctx.Append("Research Analyst", "second"))
	assert.Equal(t, 1, pctx.Len())
}

func TestRunStateString(t *testing.T) {
	assert.Equal(t, "fetching", StateFetching.String())
	assert.Equal(t, "stage 1", StateStage1.String())
	assert.Equal(t, "stage 5", StateStage5.String())
	assert.Equal(t, "completed", StateCompleted.String())
	assert.Equal(t, "failed", StateFailed.String())
}
