package rssfeeds

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"newsbot/config"

	"github.com/mmcdole/gofeed"
)

// Some feed hosts reject default Go client headers, so requests carry a
// browser user agent and an explicit feed Accept header.
const feedUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) " +
	"AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

var feedClient = &http.Client{Timeout: config.FeedFetchTimeout}

// FetchFeed retrieves and parses a single RSS/Atom feed.
func FetchFeed(ctx context.Context, feedURL string) (*gofeed.Feed, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, feedURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build feed request: %w", err)
	}
	req.Header.Set("User-Agent", feedUserAgent)
	req.Header.Set("Accept", "application/rss+xml, application/xml, text/xml")

	resp, err := feedClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("feed returned status %d", resp.StatusCode)
	}

	feed, err := gofeed.NewParser().Parse(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse feed: %w", err)
	}
	return feed, nil
}

// FetchEntries returns up to maxEntries titled items from the feed.
func FetchEntries(ctx context.Context, feedURL string, maxEntries int) ([]*gofeed.Item, error) {
	feed, err := FetchFeed(ctx, feedURL)
	if err != nil {
		return nil, err
	}

	items := make([]*gofeed.Item, 0, maxEntries)
	for _, item := range feed.Items {
		if len(items) == maxEntries {
			break
		}
		if strings.TrimSpace(item.Title) == "" {
			continue
		}
		items = append(items, item)
	}
	return items, nil
}
