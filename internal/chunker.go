package internal

import (
	"strings"
)

// Chunking constants. A transcript at or above the threshold is sampled
// down so the pipeline never sees more than the ceiling. Threshold and
// ceiling coincide: the single uniform word ceiling is applied before the
// pipeline starts, with no intermediate bands.
const (
	DefaultChunkThresholdWords = 7000
	DefaultChunkCeilingWords   = 7000
)

// Elision markers inserted between the sampled regions.
const (
	elisionMiddle = "[...middle content summarized...]"
	elisionEnd    = "[...end content summarized...]"
)

// TranscriptChunker reduces an oversized transcript to a bounded sample
// that keeps narrative coverage from the beginning, middle, and end.
// Sampling is deterministic for a given input.
type TranscriptChunker struct {
	ThresholdWords int
	CeilingWords   int
}

// NewTranscriptChunker creates a chunker with the default word bounds.
func NewTranscriptChunker() *TranscriptChunker {
	return &TranscriptChunker{
		ThresholdWords: DefaultChunkThresholdWords,
		CeilingWords:   DefaultChunkCeilingWords,
	}
}

// Chunk returns the transcript unchanged when it is below the threshold.
// Otherwise it returns a new transcript sampling three equal word windows
// from the start, the exact middle, and the end of the original, joined by
// elision markers. The result's word count never exceeds the ceiling plus
// the marker words.
func (c *TranscriptChunker) Chunk(t *Transcript) *Transcript {
	words := strings.Fields(t.Raw())
	if len(words) < c.ThresholdWords {
		return t
	}

	// Marker words count against the ceiling so the sampled output is
	// guaranteed to fit under it.
	markerWords := len(strings.Fields(elisionMiddle)) + len(strings.Fields(elisionEnd))
	window := (c.CeilingWords - markerWords) / 3
	beginning := strings.Join(words[:window], " ")
	midStart := len(words)/2 - window/2
	middle := strings.Join(words[midStart:midStart+window], " ")
	end := strings.Join(words[len(words)-window:], " ")

	// Region boundaries are approximated from the original timeline so the
	// sampled transcript still formats with sensible offsets.
	var midOffset, endOffset float64
	if n := len(t.Segments); n > 0 {
		midOffset = t.Segments[n/2].Start
		endOffset = t.Segments[n-1].Start
	}

	return NewTranscript(t.VideoID, t.Language, []Segment{
		{Start: 0, Text: beginning},
		{Start: midOffset, Text: elisionMiddle + " " + middle},
		{Start: endOffset, Text: elisionEnd + " " + end},
	})
}
