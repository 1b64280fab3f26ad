package internal

import (
	"bytes"
	"fmt"
	"html"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// ExportFormat selects the on-disk representation of a generated post.
type ExportFormat string

const (
	FormatMarkdown ExportFormat = "md"
	FormatText     ExportFormat = "txt"
	FormatHTML     ExportFormat = "html"
)

// ParseExportFormat resolves a format flag value.
func ParseExportFormat(s string) (ExportFormat, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "md", "markdown", "":
		return FormatMarkdown, nil
	case "txt", "text":
		return FormatText, nil
	case "html":
		return FormatHTML, nil
	default:
		return FormatMarkdown, fmt.Errorf("unknown format %q (supported: md, txt, html)", s)
	}
}

// Extension returns the file extension for the format.
func (f ExportFormat) Extension() string { return "." + string(f) }

// Export renders a completed result in the requested format. Markdown
// keeps the SEO header lines; text and HTML strip them (HTML carries them
// as <title> and meta description instead).
func Export(result *Result, format ExportFormat) ([]byte, error) {
	switch format {
	case FormatText:
		return []byte(CleanBlog(result.Blog) + "\n"), nil
	case FormatHTML:
		return exportHTML(result)
	default:
		return []byte(result.Blog), nil
	}
}

// htmlShell is the standalone document wrapped around the converted post.
const htmlShell = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width,initial-scale=1.0">
  <title>%s</title>
  <meta name="description" content="%s">
  <style>
    body{max-width:800px;margin:60px auto;font-family:Georgia,serif;font-size:18px;line-height:1.8;color:#1a1a1a;padding:0 20px}
    h1{font-size:36px}h2{font-size:28px}h3{font-size:22px}
    pre{background:#f4f4f4;padding:16px;border-radius:8px;overflow-x:auto}
    code{background:#f0f0f0;padding:2px 6px;border-radius:4px;font-size:14px}
    blockquote{border-left:3px solid #ec4899;padding:12px 20px;background:#fafafa}
  </style>
</head>
<body>
%s</body>
</html>
`

// exportHTML converts the cleaned post to a standalone HTML document with
// the parsed SEO title and description in the head.
func exportHTML(result *Result) ([]byte, error) {
	md := goldmark.New(goldmark.WithExtensions(extension.GFM))

	var body bytes.Buffer
	if err := md.Convert([]byte(CleanBlog(result.Blog)), &body); err != nil {
		return nil, fmt.Errorf("converting markdown to HTML: %w", err)
	}

	title := result.SEO.SEOTitle
	if title == "" {
		title = "Blog Post"
	}
	doc := fmt.Sprintf(htmlShell,
		html.EscapeString(title),
		html.EscapeString(result.SEO.MetaDescription),
		body.String(),
	)
	return []byte(doc), nil
}

// DefaultExportName returns the conventional output filename for a video.
func DefaultExportName(videoID string, format ExportFormat) string {
	return "docmind-" + videoID + format.Extension()
}
