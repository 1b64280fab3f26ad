package internal

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
	"golang.org/x/term"
)

var videoIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{11}$`)

// urlPatterns cover the YouTube URL shapes users paste: watch, short
// links, shorts, embeds, and the legacy /v/ form.
var urlPatterns = []*regexp.Regexp{
	regexp.MustCompile(`youtube\.com/watch\?.*v=([A-Za-z0-9_-]{11})`),
	regexp.MustCompile(`youtu\.be/([A-Za-z0-9_-]{11})`),
	regexp.MustCompile(`youtube\.com/shorts/([A-Za-z0-9_-]{11})`),
	regexp.MustCompile(`youtube\.com/embed/([A-Za-z0-9_-]{11})`),
	regexp.MustCompile(`youtube\.com/v/([A-Za-z0-9_-]{11})`),
}

// ExtractVideoID resolves a YouTube URL or bare video ID to the 11-char ID.
func ExtractVideoID(arg string) (string, error) {
	arg = strings.TrimSpace(arg)
	if IsValidYouTubeID(arg) {
		return arg, nil
	}
	for _, pattern := range urlPatterns {
		if m := pattern.FindStringSubmatch(arg); m != nil {
			return m[1], nil
		}
	}
	return "", fmt.Errorf("%q doesn't look like a YouTube URL or video ID (expected youtube.com/watch?v=... or youtu.be/...)", arg)
}

// IsValidYouTubeID checks if a string looks like a YouTube video ID.
func IsValidYouTubeID(id string) bool {
	return videoIDPattern.MatchString(id)
}

// WatchURL builds the canonical watch URL for a video ID.
func WatchURL(videoID string) string {
	return "https://www.youtube.com/watch?v=" + videoID
}

// FileExists checks if a file exists.
func FileExists(filename string) bool {
	_, err := os.Stat(filename)
	return !os.IsNotExist(err)
}

// EnsureDirs creates directories if needed.
func EnsureDirs(dirs ...string) error {
	for _, dir := range dirs {
		if !FileExists(dir) {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return err
			}
		}
	}
	return nil
}

// getTerminalWidth gets terminal width with fallback.
func getTerminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil {
		return 80
	}
	if width > 10 {
		return width - 4
	}
	return width
}

// StdoutIsTerminal reports whether stdout is attached to a terminal.
// Rendered markdown only makes sense on a terminal; piped output gets the
// raw post.
func StdoutIsTerminal() bool {
	return isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
}

// RenderMarkdown renders markdown content with glamour.
func RenderMarkdown(content string) (string, error) {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(getTerminalWidth()),
		glamour.WithColorProfile(termenv.EnvColorProfile()),
	)
	if err != nil {
		return "", fmt.Errorf("creating terminal renderer: %w", err)
	}

	rendered, err := r.Render(content)
	if err != nil {
		return "", fmt.Errorf("rendering markdown: %w", err)
	}
	return rendered, nil
}

// ValidateGroqAPIKey checks if the Groq API key is set.
func ValidateGroqAPIKey(apiKey string) error {
	if apiKey == "" {
		return fmt.Errorf("Groq API key is required - set it in config.toml or the GROQ_API_KEY environment variable (free keys at console.groq.com)")
	}
	return nil
}
