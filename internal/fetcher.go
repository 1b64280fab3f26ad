package internal

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"time"
)

// TranscriptSource resolves a video ID to a transcript. Satisfied by
// TranscriptFetcher and by test fakes.
type TranscriptSource interface {
	Fetch(ctx context.Context, videoID string) (*Transcript, error)
}

// preferredLanguages is the order strategy 1 tries before giving up on a
// language match.
var preferredLanguages = []string{"en", "en-US", "en-GB"}

// TranscriptFetcher resolves a video ID to caption text. It probes which of
// the two upstream API shapes responds on every call - nothing about the
// environment is cached between calls - and classifies failures into the
// TranscriptError taxonomy. Successful transcripts are cached on disk.
type TranscriptFetcher struct {
	apis           []CaptionAPI
	transcriptsDir string
	verbose        bool
}

// NewTranscriptFetcher creates a fetcher over both caption API shapes,
// probing the modern player endpoint before the legacy timedtext one.
func NewTranscriptFetcher(httpClient *http.Client, transcriptsDir string, verbose bool) *TranscriptFetcher {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &TranscriptFetcher{
		apis: []CaptionAPI{
			NewInnertubeClient(httpClient),
			NewTimedTextClient(httpClient),
		},
		transcriptsDir: transcriptsDir,
		verbose:        verbose,
	}
}

// NewTranscriptFetcherWithAPIs creates a fetcher over explicit caption
// clients. Used by tests to inject fakes.
func NewTranscriptFetcherWithAPIs(apis []CaptionAPI, transcriptsDir string, verbose bool) *TranscriptFetcher {
	return &TranscriptFetcher{apis: apis, transcriptsDir: transcriptsDir, verbose: verbose}
}

// trackPicker selects one track from a listed set, or none.
type trackPicker func(tracks []CaptionTrack) (CaptionTrack, bool)

// pickPreferred picks the first track matching the preferred language list.
func pickPreferred(tracks []CaptionTrack) (CaptionTrack, bool) {
	for _, lang := range preferredLanguages {
		for _, t := range tracks {
			if t.Language == lang {
				return t, true
			}
		}
	}
	return CaptionTrack{}, false
}

// pickAny picks the first track in upstream order.
func pickAny(tracks []CaptionTrack) (CaptionTrack, bool) {
	if len(tracks) == 0 {
		return CaptionTrack{}, false
	}
	return tracks[0], true
}

// pickBest prefers manually created tracks over auto-generated ones, then
// orders deterministically by language code.
func pickBest(tracks []CaptionTrack) (CaptionTrack, bool) {
	if len(tracks) == 0 {
		return CaptionTrack{}, false
	}
	sorted := make([]CaptionTrack, len(tracks))
	copy(sorted, tracks)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Generated != sorted[j].Generated {
			return !sorted[i].Generated
		}
		return sorted[i].Language < sorted[j].Language
	})
	return sorted[0], true
}

// Fetch returns the transcript for a video, from cache when present.
// Otherwise it runs three strategies, each attempted exactly once:
//  1. a track in a preferred language,
//  2. any available track,
//  3. the best track by policy (manual before auto-generated).
//
// Each strategy probes the caption API shapes in order; a shape that does
// not recognize its response defers to the next one. After all strategies
// the most specific classified failure wins.
func (f *TranscriptFetcher) Fetch(ctx context.Context, videoID string) (*Transcript, error) {
	if cached, err := f.loadCached(videoID); err == nil {
		if f.verbose {
			fmt.Printf("Using cached transcript for %s\n", videoID)
		}
		return cached, nil
	}

	pickers := []struct {
		name string
		pick trackPicker
	}{
		{"preferred-language", pickPreferred},
		{"any-language", pickAny},
		{"best-by-policy", pickBest},
	}

	var failures []error
	for _, strategy := range pickers {
		transcript, err := f.fetchOnce(ctx, videoID, strategy.pick)
		if err == nil {
			if saveErr := f.saveCached(transcript); saveErr != nil {
				fmt.Fprintf(os.Stderr, "Warning: %v\n", saveErr)
			}
			return transcript, nil
		}
		if f.verbose {
			fmt.Printf("Strategy %s failed: %v\n", strategy.name, err)
		}
		failures = append(failures, err)
	}

	return nil, classifyFetchFailures(videoID, failures)
}

// fetchOnce runs a single strategy: list tracks, pick one, download it. The
// inner loop over API shapes is capability probing, not a retry - only a
// shape that answers with an unrecognized response passes control on.
func (f *TranscriptFetcher) fetchOnce(ctx context.Context, videoID string, pick trackPicker) (*Transcript, error) {
	var lastErr error
	for _, api := range f.apis {
		tracks, err := api.ListTracks(ctx, videoID)
		if err != nil {
			lastErr = err
			if errors.Is(err, errUnsupportedShape) {
				continue
			}
			return nil, err
		}

		track, ok := pick(tracks)
		if !ok {
			lastErr = NewTranscriptError(NoTranscriptAvailable, videoID, nil)
			continue
		}

		segments, err := api.FetchTrack(ctx, track)
		if err != nil {
			lastErr = err
			if errors.Is(err, errUnsupportedShape) {
				continue
			}
			return nil, err
		}
		if len(segments) == 0 {
			lastErr = NewTranscriptError(NoTranscriptAvailable, videoID, nil)
			continue
		}

		if f.verbose {
			fmt.Printf("Fetched %d caption segments via %s (%s)\n", len(segments), api.Name(), track.Language)
		}
		return NewTranscript(videoID, track.Language, segments), nil
	}
	if lastErr == nil {
		lastErr = NewTranscriptError(NoTranscriptAvailable, videoID, nil)
	}
	return nil, lastErr
}

// classifyFetchFailures reduces the per-strategy failures to the single
// most specific classification. VersionIncompatible is reported only when
// no strategy got a recognizable answer from either API shape.
func classifyFetchFailures(videoID string, failures []error) error {
	var best *TranscriptError
	allUnsupported := len(failures) > 0
	for _, err := range failures {
		if !errors.Is(err, errUnsupportedShape) {
			allUnsupported = false
		}
		var te *TranscriptError
		if errors.As(err, &te) {
			if best == nil || kindPriority(te.Kind) > kindPriority(best.Kind) {
				best = te
			}
		}
	}
	if best != nil {
		return best
	}
	if allUnsupported {
		return NewTranscriptError(VersionIncompatible, videoID, errors.Join(failures...))
	}
	return NewTranscriptError(NoTranscriptAvailable, videoID, errors.Join(failures...))
}

func kindPriority(kind TranscriptErrorKind) int {
	switch kind {
	case PrivateVideo:
		return 4
	case CaptionsDisabled:
		return 3
	case IPRestricted:
		return 2
	case NoTranscriptAvailable:
		return 1
	default:
		return 0
	}
}

func (f *TranscriptFetcher) cachePath(videoID string) string {
	return filepath.Join(f.transcriptsDir, videoID+".json")
}

func (f *TranscriptFetcher) loadCached(videoID string) (*Transcript, error) {
	if f.transcriptsDir == "" {
		return nil, fmt.Errorf("transcript caching disabled")
	}
	data, err := os.ReadFile(f.cachePath(videoID))
	if err != nil {
		return nil, fmt.Errorf("reading cached transcript: %w", err)
	}
	var t Transcript
	if err := json.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("parsing cached transcript: %w", err)
	}
	if len(t.Segments) == 0 {
		return nil, fmt.Errorf("cached transcript is empty")
	}
	return &t, nil
}

func (f *TranscriptFetcher) saveCached(t *Transcript) error {
	if f.transcriptsDir == "" {
		return nil
	}
	if err := EnsureDirs(f.transcriptsDir); err != nil {
		return fmt.Errorf("creating transcripts directory: %w", err)
	}
	data, err := json.MarshalIndent(t, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling transcript: %w", err)
	}
	if err := os.WriteFile(f.cachePath(t.VideoID), data, 0644); err != nil {
		return fmt.Errorf("saving transcript: %w", err)
	}
	return nil
}
