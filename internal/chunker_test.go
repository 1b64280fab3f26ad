package internal

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// wordTranscript builds a transcript of n distinct numbered words spread
// over segments of 100 words each.
func wordTranscript(n int) *Transcript {
	var segments []Segment
	var sb strings.Builder
	for i := 0; i < n; i++ {
		fmt.Fprintf(&sb, "w%d ", i)
		if (i+1)%100 == 0 || i == n-1 {
			segments = append(segments, Segment{Start: float64(len(segments) * 10), Text: strings.TrimSpace(sb.String())})
			sb.Reset()
		}
	}
	return NewTranscript("test-video-1", "en", segments)
}

func TestChunkBelowThresholdUnchanged(t *testing.T) {
	chunker := NewTranscriptChunker()
	transcript := wordTranscript(6999)

	out := chunker.Chunk(transcript)

	assert.Same(t, transcript, out)
	assert.Equal(t, transcript.Raw(), out.Raw())
}

func TestChunkAtThresholdSamplesThreeRegions(t *testing.T) {
	chunker := NewTranscriptChunker()
	transcript := wordTranscript(7000)

	out := chunker.Chunk(transcript)

	require.NotSame(t, transcript, out)
	raw := out.Raw()
	assert.Contains(t, raw, "w0")
	assert.Contains(t, raw, "w6999")
	assert.Contains(t, raw, elisionMiddle)
	assert.Contains(t, raw, elisionEnd)
	assert.LessOrEqual(t, out.WordCount(), chunker.CeilingWords)
}

func TestChunkLongTranscriptBounded(t *testing.T) {
	chunker := NewTranscriptChunker()
	transcript := wordTranscript(20000)

	out := chunker.Chunk(transcript)

	raw := out.Raw()
	// Beginning, middle, and end of the original all survive sampling.
	assert.Contains(t, raw, "w0 w1 w2")
	assert.Contains(t, raw, "w10000")
	assert.Contains(t, raw, "w19999")
	assert.LessOrEqual(t, out.WordCount(), chunker.CeilingWords)
	assert.Equal(t, transcript.VideoID, out.VideoID)
	assert.Equal(t, transcript.Language, out.Language)
}

func TestChunkDeterministic(t *testing.T) {
	chunker := NewTranscriptChunker()
	transcript := wordTranscript(12000)

	first := chunker.Chunk(transcript)
	second := chunker.Chunk(transcript)

	assert.Equal(t, first.Raw(), second.Raw())
}

func TestChunkedOutputStaysBelowThreshold(t *testing.T) {
	// Chunk output must never itself qualify for chunking again.
	chunker := NewTranscriptChunker()
	transcript := wordTranscript(50000)

	out := chunker.Chunk(transcript)
	again := chunker.Chunk(out)

	assert.Same(t, out, again)
}
