package internal

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

const sampleBlog = `**SEO Title:** Mastering Go Concurrency in 2026
**Meta Description:** Learn goroutines and channels with practical examples. Start writing concurrent Go today!
**Primary Keyword:** go concurrency
**Secondary Keywords:** goroutines, channels, sync package

# Mastering Go Concurrency

Concurrency is at the heart of Go. This post walks through the essentials.

## Why It Matters

Because throughput.`

func TestParseBlogMetadata(t *testing.T) {
	meta := ParseBlogMetadata(sampleBlog)

	assert.Equal(t, "Mastering Go Concurrency in 2026", meta.SEOTitle)
	assert.Equal(t, "Learn goroutines and channels with practical examples. Start writing concurrent Go today!", meta.MetaDescription)
	assert.Equal(t, "go concurrency", meta.PrimaryKeyword)
	assert.Equal(t, []string{"goroutines", "channels", "sync package"}, meta.SecondaryKeywords)
}

func TestParseBlogMetadataMissingHeader(t *testing.T) {
	meta := ParseBlogMetadata("# Just a Post\n\nNo SEO header lines here.")

	assert.Empty(t, meta.SEOTitle)
	assert.Empty(t, meta.MetaDescription)
	assert.Empty(t, meta.PrimaryKeyword)
	assert.Empty(t, meta.SecondaryKeywords)
}

func TestCleanBlogStripsMetadataLines(t *testing.T) {
	cleaned := CleanBlog(sampleBlog)

	assert.NotContains(t, cleaned, "SEO Title")
	assert.NotContains(t, cleaned, "Meta Description")
	assert.NotContains(t, cleaned, "Primary Keyword")
	assert.Contains(t, cleaned, "# Mastering Go Concurrency")
	assert.Contains(t, cleaned, "Because throughput.")
}

func TestCountWordsIgnoresMarkdown(t *testing.T) {
	assert.Equal(t, 4, CountWords("## Some **bold** `heading` text"))
	assert.Equal(t, 0, CountWords(""))
}

func TestFormatWordCount(t *testing.T) {
	assert.Equal(t, "812 words", FormatWordCount(812))
	assert.Equal(t, "1.5k words", FormatWordCount(1500))
	assert.Equal(t, "2.3k words", FormatWordCount(2345))
}
