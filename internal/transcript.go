package internal

import (
	"fmt"
	"strings"
)

// Segment is one ordered caption unit with its start offset in seconds.
// Immutable once fetched.
type Segment struct {
	Start float64 `json:"start"`
	Text  string  `json:"text"`
}

// Transcript is the ordered caption sequence for one video. Produced once
// per run by the fetcher, possibly replaced by a sampled subset by the
// chunker, read-only afterwards.
type Transcript struct {
	VideoID  string    `json:"video_id"`
	Language string    `json:"language"`
	Segments []Segment `json:"segments"`
}

// NewTranscript builds a transcript, dropping empty segments.
func NewTranscript(videoID, language string, segments []Segment) *Transcript {
	kept := make([]Segment, 0, len(segments))
	for _, seg := range segments {
		text := strings.TrimSpace(seg.Text)
		if text == "" {
			continue
		}
		kept = append(kept, Segment{Start: seg.Start, Text: text})
	}
	return &Transcript{VideoID: videoID, Language: language, Segments: kept}
}

// Raw returns the plain transcript text, segments joined by spaces.
func (t *Transcript) Raw() string {
	parts := make([]string, len(t.Segments))
	for i, seg := range t.Segments {
		parts[i] = seg.Text
	}
	return strings.Join(parts, " ")
}

// Formatted returns one "[m:ss] text" line per segment.
func (t *Transcript) Formatted() string {
	var sb strings.Builder
	for i, seg := range t.Segments {
		minutes := int(seg.Start) / 60
		seconds := int(seg.Start) % 60
		fmt.Fprintf(&sb, "[%d:%02d] %s", minutes, seconds, seg.Text)
		if i < len(t.Segments)-1 {
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

// WordCount counts whitespace-separated words across all segments.
func (t *Transcript) WordCount() int {
	count := 0
	for _, seg := range t.Segments {
		count += len(strings.Fields(seg.Text))
	}
	return count
}
