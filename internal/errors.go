package internal

import (
	"errors"
	"fmt"
)

// TranscriptErrorKind classifies why a transcript could not be fetched.
type TranscriptErrorKind int

const (
	// NoTranscriptAvailable means the video exists but no caption track was found.
	NoTranscriptAvailable TranscriptErrorKind = iota
	// CaptionsDisabled means the uploader turned captions off for the video.
	CaptionsDisabled
	// PrivateVideo means the video is private or removed.
	PrivateVideo
	// IPRestricted means YouTube is blocking or rate-limiting this host.
	IPRestricted
	// VersionIncompatible means no known caption API shape was recognized.
	VersionIncompatible
)

// String returns the kind's identifier as used in logs and failure reports.
func (k TranscriptErrorKind) String() string {
	switch k {
	case CaptionsDisabled:
		return "CaptionsDisabled"
	case PrivateVideo:
		return "PrivateVideo"
	case IPRestricted:
		return "IPRestricted"
	case VersionIncompatible:
		return "VersionIncompatible"
	default:
		return "NoTranscriptAvailable"
	}
}

// TranscriptError is the classified, terminal outcome of a failed fetch.
type TranscriptError struct {
	Kind    TranscriptErrorKind
	VideoID string
	cause   error
}

// NewTranscriptError wraps an underlying failure with its classification.
func NewTranscriptError(kind TranscriptErrorKind, videoID string, cause error) *TranscriptError {
	return &TranscriptError{Kind: kind, VideoID: videoID, cause: cause}
}

func (e *TranscriptError) Error() string {
	switch e.Kind {
	case CaptionsDisabled:
		return fmt.Sprintf("captions are disabled for video %s - please try another video", e.VideoID)
	case PrivateVideo:
		return fmt.Sprintf("video %s is private or unavailable - check the URL and try again", e.VideoID)
	case IPRestricted:
		return "YouTube blocked this request (IP restriction or rate limit) - wait a moment or try from another host"
	case VersionIncompatible:
		return fmt.Sprintf("no supported caption API responded for video %s - YouTube may have changed its endpoints", e.VideoID)
	default:
		return fmt.Sprintf("no captions found for video %s - try a video with auto-generated or manual captions enabled", e.VideoID)
	}
}

func (e *TranscriptError) Unwrap() error { return e.cause }

// ErrRateLimited marks a generation call rejected by the inference service's
// quota. Never retried: retrying immediately would worsen the condition.
var ErrRateLimited = errors.New("rate limit exceeded - wait a minute before trying again, or upgrade your Groq quota")

// ErrEmptyStageOutput marks a stage that returned no text. Treated as a
// service error, not retried.
var ErrEmptyStageOutput = errors.New("stage returned empty output")

// errUnsupportedShape signals that a caption client did not recognize the
// upstream response shape. It triggers probing of the next client, and maps
// to VersionIncompatible only when every client reports it on every strategy.
var errUnsupportedShape = errors.New("unrecognized caption API response shape")

// GenerationError wraps a generic failure from the inference service after
// the single retry has been exhausted.
type GenerationError struct {
	Stage string
	Err   error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("generation failed at stage %q: %v", e.Stage, e.Err)
}

func (e *GenerationError) Unwrap() error { return e.Err }

// PipelineError reports the state a run failed in and why. It is the single
// error shape the orchestrator returns; the wrapped error carries the
// classification (TranscriptError, ErrRateLimited, GenerationError, ...).
type PipelineError struct {
	State RunState
	Err   error
}

func (e *PipelineError) Error() string {
	return fmt.Sprintf("pipeline failed during %s: %v", e.State, e.Err)
}

func (e *PipelineError) Unwrap() error { return e.Err }
