package internal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultStagesOrderAndBounds(t *testing.T) {
	stages := DefaultStages()
	require.Len(t, stages, 5)

	names := make([]string, len(stages))
	for i, s := range stages {
		names[i] = s.Name
	}
	assert.Equal(t, []string{
		"Research Analyst",
		"Content Strategist",
		"SEO Optimizer",
		"Blog Writer",
		"Quality Reviewer",
	}, names)

	// Only the first stage reads the transcript; every stage bounds its
	// predecessors the same way.
	assert.Equal(t, DefaultTranscriptBound, stages[0].TranscriptBound)
	for _, s := range stages[1:] {
		assert.Zero(t, s.TranscriptBound, "stage %s", s.Name)
	}
	for _, s := range stages {
		assert.Equal(t, DefaultContextBound, s.ContextBound, "stage %s", s.Name)
	}
}

func TestBuildPromptIncludesPersonaAndInputs(t *testing.T) {
	stage := DefaultStages()[0]
	prompt, err := stage.BuildPrompt(StageData{
		Transcript: "welcome to the channel today we talk about compilers",
		Tone:       ToneCasual.Instructions(),
		Title:      "Compilers Explained",
		Channel:    "CS Deep Dives",
	})
	require.NoError(t, err)

	assert.Contains(t, prompt, "You are "+stage.Role)
	assert.Contains(t, prompt, "Your goal: "+stage.Goal)
	assert.Contains(t, prompt, "welcome to the channel")
	assert.Contains(t, prompt, "Compilers Explained")
	assert.Contains(t, prompt, "CS Deep Dives")
}

func TestBuildPromptAppendsContextEntries(t *testing.T) {
	stage := DefaultStages()[1]
	prompt, err := stage.BuildPrompt(StageData{
		TargetWords: 1500,
		Context: []ContextEntry{
			{Stage: "Research Analyst", Output: "main topics: compilers, parsing"},
		},
	})
	require.NoError(t, err)

	assert.Contains(t, prompt, "Context from previous stages:")
	assert.Contains(t, prompt, "--- Research Analyst ---")
	assert.Contains(t, prompt, "main topics: compilers, parsing")
	assert.Contains(t, prompt, "approximately 1500 words")
}

func TestBuildPromptAdvancedSEOSection(t *testing.T) {
	stage := DefaultStages()[2]

	basic, err := stage.BuildPrompt(StageData{})
	require.NoError(t, err)
	assert.NotContains(t, basic, "Secondary Keywords")

	advanced, err := stage.BuildPrompt(StageData{AdvancedSEO: true})
	require.NoError(t, err)
	assert.Contains(t, advanced, "Secondary Keywords")
	assert.Contains(t, advanced, "Link building opportunities")
}

func TestParseTone(t *testing.T) {
	tests := []struct {
		input   string
		want    Tone
		wantErr bool
	}{
		{"professional", ToneProfessional, false},
		{"Casual", ToneCasual, false},
		{" technical ", ToneTechnical, false},
		{"", ToneProfessional, false},
		{"sarcastic", ToneProfessional, true},
	}
	for _, tt := range tests {
		got, err := ParseTone(tt.input)
		if tt.wantErr {
			assert.Error(t, err, "input %q", tt.input)
			continue
		}
		require.NoError(t, err, "input %q", tt.input)
		assert.Equal(t, tt.want, got, "input %q", tt.input)
	}
}

func TestToneInstructionsDistinct(t *testing.T) {
	seen := map[string]Tone{}
	for tone := range toneInstructions {
		instr := tone.Instructions()
		assert.NotEmpty(t, instr)
		if prev, dup := seen[instr]; dup {
			t.Fatalf("tones %s and %s share instructions", prev, tone)
		}
		seen[instr] = tone
	}
}
