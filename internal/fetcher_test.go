package internal

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeCaptionAPI scripts one caption API shape for fetcher tests.
type fakeCaptionAPI struct {
	name       string
	listCalls  int
	fetchCalls int
	listFn     func(call int) ([]CaptionTrack, error)
	fetchFn    func(track CaptionTrack) ([]Segment, error)
}

func (f *fakeCaptionAPI) Name() string { return f.name }

func (f *fakeCaptionAPI) ListTracks(ctx context.Context, videoID string) ([]CaptionTrack, error) {
	f.listCalls++
	return f.listFn(f.listCalls)
}

func (f *fakeCaptionAPI) FetchTrack(ctx context.Context, track CaptionTrack) ([]Segment, error) {
	f.fetchCalls++
	if f.fetchFn != nil {
		return f.fetchFn(track)
	}
	return []Segment{{Start: 0, Text: "hello from " + track.Language}}, nil
}

func enTracks() []CaptionTrack {
	return []CaptionTrack{
		{Language: "de", Name: "German"},
		{Language: "en", Name: "English"},
	}
}

func TestFetchPicksPreferredLanguage(t *testing.T) {
	api := &fakeCaptionAPI{
		name:   "fake",
		listFn: func(int) ([]CaptionTrack, error) { return enTracks(), nil },
	}
	fetcher := NewTranscriptFetcherWithAPIs([]CaptionAPI{api}, t.TempDir(), false)

	transcript, err := fetcher.Fetch(context.Background(), "tAP1eZYEuKA")
	require.NoError(t, err)

	assert.Equal(t, "en", transcript.Language)
	assert.Equal(t, "hello from en", transcript.Raw())
	// First strategy succeeded, so only one listing happened.
	assert.Equal(t, 1, api.listCalls)
}

func TestFetchProbesNextShapeOnUnrecognizedResponse(t *testing.T) {
	modern := &fakeCaptionAPI{
		name:   "modern",
		listFn: func(int) ([]CaptionTrack, error) { return nil, errUnsupportedShape },
	}
	legacy := &fakeCaptionAPI{
		name:   "legacy",
		listFn: func(int) ([]CaptionTrack, error) { return enTracks(), nil },
	}
	fetcher := NewTranscriptFetcherWithAPIs([]CaptionAPI{modern, legacy}, t.TempDir(), false)

	transcript, err := fetcher.Fetch(context.Background(), "tAP1eZYEuKA")
	require.NoError(t, err)

	assert.Equal(t, "en", transcript.Language)
	assert.Equal(t, 1, modern.listCalls)
	assert.Equal(t, 1, legacy.listCalls)
}

func TestFetchClassifiedErrorTriesAllThreeStrategies(t *testing.T) {
	api := &fakeCaptionAPI{
		name: "fake",
		listFn: func(int) ([]CaptionTrack, error) {
			return nil, NewTranscriptError(CaptionsDisabled, "tAP1eZYEuKA", nil)
		},
	}
	second := &fakeCaptionAPI{
		name:   "second",
		listFn: func(int) ([]CaptionTrack, error) { return enTracks(), nil },
	}
	fetcher := NewTranscriptFetcherWithAPIs([]CaptionAPI{api, second}, t.TempDir(), false)

	_, err := fetcher.Fetch(context.Background(), "tAP1eZYEuKA")
	require.Error(t, err)

	var te *TranscriptError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, CaptionsDisabled, te.Kind)
	// A classified answer ends the strategy without probing the next shape,
	// but every strategy still runs exactly once.
	assert.Equal(t, 3, api.listCalls)
	assert.Equal(t, 0, second.listCalls)
}

func TestFetchAllShapesUnrecognizedReportsVersionIncompatible(t *testing.T) {
	modern := &fakeCaptionAPI{
		name:   "modern",
		listFn: func(int) ([]CaptionTrack, error) { return nil, errUnsupportedShape },
	}
	legacy := &fakeCaptionAPI{
		name:   "legacy",
		listFn: func(int) ([]CaptionTrack, error) { return nil, errUnsupportedShape },
	}
	fetcher := NewTranscriptFetcherWithAPIs([]CaptionAPI{modern, legacy}, t.TempDir(), false)

	_, err := fetcher.Fetch(context.Background(), "tAP1eZYEuKA")
	require.Error(t, err)

	var te *TranscriptError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, VersionIncompatible, te.Kind)
}

func TestFetchNoTracksAnywhere(t *testing.T) {
	empty := &fakeCaptionAPI{
		name:   "empty",
		listFn: func(int) ([]CaptionTrack, error) { return nil, nil },
	}
	fetcher := NewTranscriptFetcherWithAPIs([]CaptionAPI{empty}, t.TempDir(), false)

	_, err := fetcher.Fetch(context.Background(), "tAP1eZYEuKA")
	require.Error(t, err)

	var te *TranscriptError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, NoTranscriptAvailable, te.Kind)
}

func TestFetchUsesDiskCache(t *testing.T) {
	dir := t.TempDir()
	api := &fakeCaptionAPI{
		name:   "fake",
		listFn: func(int) ([]CaptionTrack, error) { return enTracks(), nil },
	}
	fetcher := NewTranscriptFetcherWithAPIs([]CaptionAPI{api}, dir, false)

	first, err := fetcher.Fetch(context.Background(), "tAP1eZYEuKA")
	require.NoError(t, err)

	// A fresh fetcher over a failing API must serve the cached transcript.
	broken := &fakeCaptionAPI{
		name:   "broken",
		listFn: func(int) ([]CaptionTrack, error) { return nil, errors.New("network down") },
	}
	cachedFetcher := NewTranscriptFetcherWithAPIs([]CaptionAPI{broken}, dir, false)

	second, err := cachedFetcher.Fetch(context.Background(), "tAP1eZYEuKA")
	require.NoError(t, err)

	assert.Equal(t, first.Raw(), second.Raw())
	assert.Equal(t, 0, broken.listCalls)
}

func TestClassifyFetchFailuresPriority(t *testing.T) {
	err := classifyFetchFailures("tAP1eZYEuKA", []error{
		NewTranscriptError(NoTranscriptAvailable, "tAP1eZYEuKA", nil),
		NewTranscriptError(PrivateVideo, "tAP1eZYEuKA", nil),
		NewTranscriptError(IPRestricted, "tAP1eZYEuKA", nil),
	})

	var te *TranscriptError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, PrivateVideo, te.Kind)
}

func TestPickBestPrefersManualTracks(t *testing.T) {
	tracks := []CaptionTrack{
		{Language: "en", Generated: true},
		{Language: "fr", Generated: false},
		{Language: "de", Generated: false},
	}

	best, ok := pickBest(tracks)
	require.True(t, ok)
	assert.Equal(t, "de", best.Language)
	assert.False(t, best.Generated)
}
