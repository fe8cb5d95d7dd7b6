package rssfeeds

import (
	"fmt"
	"strings"
	"time"

	readability "github.com/go-shiori/go-readability"
)

const excerptTimeout = 30 * time.Second

// Excerpt fetches the article page and extracts a short readable excerpt.
// Used best-effort to enrich the hand-off summary for the selected
// candidate; callers fall back to the feed summary on error.
func Excerpt(articleURL string) (string, error) {
	article, err := readability.FromURL(articleURL, excerptTimeout)
	if err != nil {
		return "", fmt.Errorf("readability extraction failed: %w", err)
	}

	if excerpt := strings.TrimSpace(article.Excerpt); excerpt != "" {
		return excerpt, nil
	}
	return strings.TrimSpace(article.TextContent), nil
}
