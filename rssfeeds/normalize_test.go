package rssfeeds

import (
	"testing"
	"time"

	"github.com/mmcdole/gofeed"
)

func TestNormalizeURL(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"already canonical", "https://example.com/path", "https://example.com/path"},
		{"utm and fragment", "https://example.com/path?utm_source=feed#section", "https://example.com/path"},
		{"uppercase host", "HTTP://Example.COM/", "http://example.com"},
		{"tracking params", "https://example.com/a?fbclid=XYZ&gclid=ABC&utm_medium=1", "https://example.com/a"},
		{"real params kept", "https://example.com/a?id=42&utm_source=x", "https://example.com/a?id=42"},
		{"trailing slash", "https://example.com/path/", "https://example.com/path"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := normalizeURL(tc.in); got != tc.want {
				t.Errorf("normalizeURL(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestFilterEntriesDedupsAcrossTrackingParams(t *testing.T) {
	now := testNow()
	entries := []FeedEntry{
		{Item: datedItem("Story", "https://example.com/articles/story?utm_source=rss", now.Add(-time.Hour)), FeedURL: testFeedURL},
		{Item: datedItem("Story again", "https://example.com/articles/story#comments", now.Add(-30*time.Minute)), FeedURL: testFeedURL},
	}

	got := FilterEntries(entries, now, 30*24*time.Hour)
	if len(got) != 1 {
		t.Fatalf("got %d candidates, want the tracking-param variants collapsed to 1", len(got))
	}
	if got[0].URL != "https://example.com/articles/story" {
		t.Errorf("url = %q, want the normalized form", got[0].URL)
	}
}

func TestCandidateFromItemNormalizesURL(t *testing.T) {
	now := testNow()
	item := &gofeed.Item{
		Title: "Tracked",
		Link:  "HTTPS://Example.com/articles/tracked?utm_campaign=daily",
	}
	published := now.Add(-time.Hour)
	item.PublishedParsed = &published

	c, reason := CandidateFromItem(item, testFeedURL, now, 30*24*time.Hour)
	if c == nil {
		t.Fatalf("candidate dropped: %s", reason)
	}
	if c.URL != "https://example.com/articles/tracked" {
		t.Errorf("url = %q, want normalized", c.URL)
	}
}
