package internal

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/lrstanley/go-ytdlp"
)

// VideoMetadata contains YouTube video information used for prompt
// enrichment and the metadata command.
type VideoMetadata struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Channel     string  `json:"channel"`
	Uploader    string  `json:"uploader"`
	Duration    float64 `json:"duration"`
	HasCaptions bool    `json:"has_captions"`
}

// MetadataFetcher fetches video details using yt-dlp, with a JSON cache
// alongside the transcripts.
type MetadataFetcher struct {
	cacheDir string
	verbose  bool
}

// NewMetadataFetcher creates a metadata fetcher caching into cacheDir.
func NewMetadataFetcher(cacheDir string, verbose bool) *MetadataFetcher {
	return &MetadataFetcher{cacheDir: cacheDir, verbose: verbose}
}

// Fetch returns metadata for a video, from cache when present.
func (m *MetadataFetcher) Fetch(ctx context.Context, videoID string) (*VideoMetadata, error) {
	if cached, err := m.loadCached(videoID); err == nil {
		if m.verbose {
			fmt.Printf("Using cached metadata for %s\n", videoID)
		}
		return cached, nil
	}

	if m.verbose {
		fmt.Printf("Fetching metadata for %s\n", videoID)
	}

	dl := ytdlp.New().
		DumpSingleJSON().
		NoPlaylist().
		SkipDownload()

	result, err := dl.Run(ctx, WatchURL(videoID))
	if err != nil {
		return nil, fmt.Errorf("extracting video metadata: %w", err)
	}

	var rawData map[string]any
	if err := json.Unmarshal([]byte(result.Stdout), &rawData); err != nil {
		return nil, fmt.Errorf("parsing video metadata: %w", err)
	}

	var metadata VideoMetadata
	if err := json.Unmarshal([]byte(result.Stdout), &metadata); err != nil {
		return nil, fmt.Errorf("parsing video metadata: %w", err)
	}
	metadata.HasCaptions = extractSubtitleInfo(rawData)

	if err := m.saveCached(videoID, &metadata); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to cache metadata: %v\n", err)
	}
	return &metadata, nil
}

// extractSubtitleInfo extracts caption availability from yt-dlp JSON output.
func extractSubtitleInfo(rawData map[string]any) bool {
	if subtitles, ok := rawData["subtitles"].(map[string]any); ok && len(subtitles) > 0 {
		return true
	}
	if autoCaptions, ok := rawData["automatic_captions"].(map[string]any); ok && len(autoCaptions) > 0 {
		return true
	}
	return false
}

// cachedMetadata extends VideoMetadata with cache bookkeeping.
type cachedMetadata struct {
	VideoMetadata
	CachedAt time.Time `json:"cached_at"`
}

func (m *MetadataFetcher) cachePath(videoID string) string {
	return filepath.Join(m.cacheDir, videoID+".meta.json")
}

func (m *MetadataFetcher) loadCached(videoID string) (*VideoMetadata, error) {
	if m.cacheDir == "" {
		return nil, fmt.Errorf("metadata caching disabled")
	}
	data, err := os.ReadFile(m.cachePath(videoID))
	if err != nil {
		return nil, fmt.Errorf("reading metadata cache: %w", err)
	}
	var cached cachedMetadata
	if err := json.Unmarshal(data, &cached); err != nil {
		return nil, fmt.Errorf("parsing metadata cache: %w", err)
	}
	return &cached.VideoMetadata, nil
}

func (m *MetadataFetcher) saveCached(videoID string, metadata *VideoMetadata) error {
	if m.cacheDir == "" {
		return nil
	}
	if err := EnsureDirs(m.cacheDir); err != nil {
		return fmt.Errorf("creating cache directory: %w", err)
	}
	data, err := json.MarshalIndent(cachedMetadata{VideoMetadata: *metadata, CachedAt: time.Now()}, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling metadata: %w", err)
	}
	return os.WriteFile(m.cachePath(videoID), data, 0644)
}
