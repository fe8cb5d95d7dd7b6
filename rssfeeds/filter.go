package rssfeeds

import (
	"context"
	"log"
	"net/url"
	"sort"
	"strings"
	"time"

	"newsbot/config"
	"newsbot/types"

	"github.com/araddon/dateparse"
	"github.com/mmcdole/gofeed"
)

// Path fragments that mark a link as a feed or syndication endpoint
// rather than an article page.
var feedPathFragments = []string{".rss", ".xml", "/feed", "/rss", "/atom"}

// FeedEntry pairs a raw feed item with the feed it came from.
type FeedEntry struct {
	Item    *gofeed.Item
	FeedURL string
}

// Collect fetches every feed in feedURLs and applies the freshness and
// identity filter, returning deduplicated candidates sorted newest first.
// Feed failures and dropped entries are logged, never fatal.
func Collect(ctx context.Context, feedURLs []string, now time.Time, horizon time.Duration) []*types.Candidate {
	var entries []FeedEntry
	for _, feedURL := range feedURLs {
		items, err := FetchEntries(ctx, feedURL, config.MaxEntriesPerFeed)
		if err != nil {
			log.Printf("Feed fetch failed for %s: %v", feedURL, err)
			continue
		}
		for _, item := range items {
			entries = append(entries, FeedEntry{Item: item, FeedURL: feedURL})
		}
	}
	return FilterEntries(entries, now, horizon)
}

// FilterEntries runs the freshness and identity filter over raw entries:
// invalid entries are dropped with a logged reason, in-batch duplicates
// collapse to their first occurrence, and survivors come back newest
// first. Cross-batch dedup belongs to the registry, not this filter.
func FilterEntries(entries []FeedEntry, now time.Time, horizon time.Duration) []*types.Candidate {
	seen := make(map[string]bool)
	var candidates []*types.Candidate

	for _, entry := range entries {
		candidate, reason := CandidateFromItem(entry.Item, entry.FeedURL, now, horizon)
		if candidate == nil {
			log.Printf("Dropped entry %q from %s: %s", entry.Item.Title, entry.FeedURL, reason)
			continue
		}
		if seen[candidate.URL] {
			continue
		}
		seen[candidate.URL] = true
		candidates = append(candidates, candidate)
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].PublishedAt.After(candidates[j].PublishedAt)
	})
	return candidates
}

// CandidateFromItem derives a candidate view from one feed entry, or
// returns nil with a drop reason. An entry survives only with a valid
// canonical URL and a parseable publication date inside the horizon.
func CandidateFromItem(item *gofeed.Item, feedURL string, now time.Time, horizon time.Duration) (*types.Candidate, string) {
	title := strings.TrimSpace(item.Title)
	if title == "" {
		return nil, "no title"
	}

	canonical := canonicalURL(item, feedURL)
	if canonical == "" {
		return nil, "no canonical article URL"
	}

	published := publicationTime(item)
	if published.IsZero() {
		// The stock window is measured against the publication time, so an
		// undated entry would corrupt recency comparisons downstream.
		return nil, "no parseable publication date"
	}
	if published.Before(now.Add(-horizon)) {
		return nil, "older than freshness horizon"
	}

	summary := item.Description
	if summary == "" {
		summary = item.Content
	}
	topic := types.TruncateRunes(strings.TrimSpace(title+"\n"+summary), config.SummaryMaxRunes)

	return &types.Candidate{
		URL:         canonical,
		Title:       title,
		Summary:     topic,
		SourceFeed:  feedURL,
		PublishedAt: published.UTC(),
		ContentHash: types.HashText(topic),
	}, ""
}

// canonicalURL picks the entry's identity: the link field first, falling
// back to the GUID. Links that point back at the feed itself, at
// syndication paths, or at non-HTTP schemes are rejected. The survivor
// is normalized so the same page always maps to the same registry key.
func canonicalURL(item *gofeed.Item, feedURL string) string {
	for _, raw := range []string{item.Link, item.GUID} {
		raw = strings.TrimSpace(raw)
		if raw == "" || raw == feedURL {
			continue
		}

		u, err := url.Parse(raw)
		if err != nil {
			continue
		}
		if u.Scheme != "http" && u.Scheme != "https" {
			continue
		}
		if isFeedPath(strings.ToLower(u.Path)) {
			continue
		}
		return normalizeURL(raw)
	}
	return ""
}

func isFeedPath(path string) bool {
	for _, fragment := range feedPathFragments {
		if strings.Contains(path, fragment) {
			return true
		}
	}
	return false
}

// publicationTime resolves the entry's publication timestamp: structured
// fields first, then freeform strings through ISO-8601 and a permissive
// parse of RFC-2822-style dates.
func publicationTime(item *gofeed.Item) time.Time {
	if item.PublishedParsed != nil {
		return *item.PublishedParsed
	}
	if item.UpdatedParsed != nil {
		return *item.UpdatedParsed
	}

	for _, raw := range []string{item.Published, item.Updated} {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		if t, err := time.Parse(time.RFC3339, raw); err == nil {
			return t
		}
		if t, err := dateparse.ParseAny(raw); err == nil {
			return t
		}
	}
	return time.Time{}
}
