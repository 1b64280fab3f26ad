package internal

import (
	"fmt"
	"regexp"
	"strings"
)

// BlogMetadata holds the SEO fields parsed from the final stage's output.
type BlogMetadata struct {
	SEOTitle          string   `json:"seo_title"`
	MetaDescription   string   `json:"meta_description"`
	PrimaryKeyword    string   `json:"primary_keyword"`
	SecondaryKeywords []string `json:"secondary_keywords"`
}

var boldMarkers = regexp.MustCompile(`\*+`)

// ParseBlogMetadata extracts the labeled SEO header lines the writer stage
// is instructed to put at the top of the post.
func ParseBlogMetadata(blog string) BlogMetadata {
	var meta BlogMetadata
	for _, line := range strings.Split(blog, "\n") {
		lower := strings.ToLower(line)
		_, rest, found := strings.Cut(line, ":")
		if !found {
			continue
		}
		value := strings.TrimSpace(boldMarkers.ReplaceAllString(rest, ""))
		if value == "" {
			continue
		}
		switch {
		case strings.Contains(lower, "seo title"):
			meta.SEOTitle = value
		case strings.Contains(lower, "meta description"):
			meta.MetaDescription = value
		case strings.Contains(lower, "primary keyword"):
			meta.PrimaryKeyword = value
		case strings.Contains(lower, "secondary keyword"):
			for _, kw := range strings.Split(value, ",") {
				if kw = strings.TrimSpace(kw); kw != "" {
					meta.SecondaryKeywords = append(meta.SecondaryKeywords, kw)
				}
			}
		}
	}
	return meta
}

// metadataLabels are the header lines stripped from the displayed post.
var metadataLabels = []string{"seo title", "meta description", "primary keyword", "secondary keyword"}

// CleanBlog strips the SEO metadata header lines so only the post body
// remains for display and plain-text export.
func CleanBlog(blog string) string {
	var kept []string
	for _, line := range strings.Split(blog, "\n") {
		lower := strings.ToLower(line)
		skip := false
		for _, label := range metadataLabels {
			if strings.Contains(lower, label) {
				skip = true
				break
			}
		}
		if !skip {
			kept = append(kept, line)
		}
	}
	return strings.TrimSpace(strings.Join(kept, "\n"))
}

var markdownPunct = regexp.MustCompile("[#*`\\[\\]()>~_]")

// CountWords counts words ignoring markdown punctuation.
func CountWords(text string) int {
	return len(strings.Fields(markdownPunct.ReplaceAllString(text, "")))
}

// FormatWordCount renders a word count as "812 words" or "1.5k words".
func FormatWordCount(count int) string {
	if count >= 1000 {
		return fmt.Sprintf("%.1fk words", float64(count)/1000)
	}
	return fmt.Sprintf("%d words", count)
}
