package rssfeeds

import (
	"strings"
	"testing"
	"time"

	"newsbot/types"

	"github.com/mmcdole/gofeed"
)

const testFeedURL = "https://example.com/rss.xml"

func testNow() time.Time {
	return time.Date(2026, 8, 23, 12, 0, 0, 0, time.UTC)
}

func datedItem(title, link string, published time.Time) *gofeed.Item {
	return &gofeed.Item{
		Title:           title,
		Link:            link,
		PublishedParsed: &published,
	}
}

func TestCandidateFromItemHappyPath(t *testing.T) {
	now := testNow()
	published := now.Add(-2 * time.Hour)
	item := datedItem("Big Launch", "https://example.com/articles/big-launch", published)
	item.Description = "A major product launch."

	c, reason := CandidateFromItem(item, testFeedURL, now, 30*24*time.Hour)
	if c == nil {
		t.Fatalf("candidate dropped: %s", reason)
	}
	if c.URL != "https://example.com/articles/big-launch" {
		t.Errorf("url = %q", c.URL)
	}
	if c.Title != "Big Launch" {
		t.Errorf("title = %q", c.Title)
	}
	if !c.PublishedAt.Equal(published) {
		t.Errorf("published = %v, want %v", c.PublishedAt, published)
	}
	if c.SourceFeed != testFeedURL {
		t.Errorf("source feed = %q", c.SourceFeed)
	}
	wantTopic := "Big Launch\nA major product launch."
	if c.Summary != wantTopic {
		t.Errorf("summary = %q, want %q", c.Summary, wantTopic)
	}
	if c.ContentHash != types.HashText(wantTopic) {
		t.Error("content hash does not cover title+summary")
	}
}

func TestCandidateFromItemDropsUndated(t *testing.T) {
	item := &gofeed.Item{Title: "Mystery", Link: "https://example.com/articles/mystery"}
	c, reason := CandidateFromItem(item, testFeedURL, testNow(), 30*24*time.Hour)
	if c != nil {
		t.Fatal("undated entry should be dropped")
	}
	if !strings.Contains(reason, "publication date") {
		t.Errorf("drop reason = %q", reason)
	}
}

func TestCandidateFromItemDropsStale(t *testing.T) {
	now := testNow()
	item := datedItem("Old News", "https://example.com/articles/old", now.AddDate(0, 0, -31))
	if c, _ := CandidateFromItem(item, testFeedURL, now, 30*24*time.Hour); c != nil {
		t.Fatal("entry older than the horizon should be dropped")
	}
}

func TestCandidateFromItemDropsUntitled(t *testing.T) {
	now := testNow()
	item := datedItem("   ", "https://example.com/articles/x", now.Add(-time.Hour))
	if c, _ := CandidateFromItem(item, testFeedURL, now, 30*24*time.Hour); c != nil {
		t.Fatal("untitled entry should be dropped")
	}
}

func TestCandidateFromItemRejectsFeedLinks(t *testing.T) {
	now := testNow()
	published := now.Add(-time.Hour)

	cases := []struct {
		name string
		link string
	}{
		{"feed itself", testFeedURL},
		{"rss path", "https://example.com/category.rss"},
		{"xml path", "https://example.com/feeds/all.xml"},
		{"feed path", "https://example.com/feed"},
		{"atom path", "https://example.com/atom/latest"},
		{"non-http scheme", "ftp://example.com/articles/a"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			item := datedItem("Title", tc.link, published)
			if c, _ := CandidateFromItem(item, testFeedURL, now, 30*24*time.Hour); c != nil {
				t.Errorf("link %q should be rejected, got candidate %q", tc.link, c.URL)
			}
		})
	}
}

func TestCandidateFromItemFallsBackToGUID(t *testing.T) {
	now := testNow()
	item := datedItem("Title", "https://example.com/feed", now.Add(-time.Hour))
	item.GUID = "https://example.com/articles/real-page"

	c, reason := CandidateFromItem(item, testFeedURL, now, 30*24*time.Hour)
	if c == nil {
		t.Fatalf("candidate dropped: %s", reason)
	}
	if c.URL != "https://example.com/articles/real-page" {
		t.Errorf("url = %q, want the GUID fallback", c.URL)
	}
}

func TestCandidateFromItemParsesFreeformDates(t *testing.T) {
	now := testNow()
	item := &gofeed.Item{
		Title:     "Dated by string",
		Link:      "https://example.com/articles/dated",
		Published: "Sat, 22 Aug 2026 09:30:00 GMT",
	}

	c, reason := CandidateFromItem(item, testFeedURL, now, 30*24*time.Hour)
	if c == nil {
		t.Fatalf("candidate dropped: %s", reason)
	}
	want := time.Date(2026, 8, 22, 9, 30, 0, 0, time.UTC)
	if !c.PublishedAt.Equal(want) {
		t.Errorf("published = %v, want %v", c.PublishedAt, want)
	}
}

func TestCandidateFromItemTruncatesTopic(t *testing.T) {
	now := testNow()
	item := datedItem("Long", "https://example.com/articles/long", now.Add(-time.Hour))
	item.Description = strings.Repeat("あ", 2000)

	c, reason := CandidateFromItem(item, testFeedURL, now, 30*24*time.Hour)
	if c == nil {
		t.Fatalf("candidate dropped: %s", reason)
	}
	if n := len([]rune(c.Summary)); n != 800 {
		t.Errorf("topic summary is %d runes, want 800", n)
	}
}

func TestFilterEntriesDedupAndOrder(t *testing.T) {
	now := testNow()
	entries := []FeedEntry{
		{Item: datedItem("Older", "https://example.com/articles/older", now.Add(-3*time.Hour)), FeedURL: testFeedURL},
		{Item: datedItem("First copy", "https://example.com/articles/shared", now.Add(-2*time.Hour)), FeedURL: testFeedURL},
		{Item: datedItem("Second copy", "https://example.com/articles/shared", now.Add(-1*time.Hour)), FeedURL: "https://other.example.com/rss.xml"},
		{Item: datedItem("Newest", "https://example.com/articles/newest", now.Add(-30*time.Minute)), FeedURL: testFeedURL},
		{Item: &gofeed.Item{Title: "Undated", Link: "https://example.com/articles/undated"}, FeedURL: testFeedURL},
	}

	got := FilterEntries(entries, now, 30*24*time.Hour)
	if len(got) != 3 {
		t.Fatalf("got %d candidates, want 3", len(got))
	}
	if got[0].Title != "Newest" {
		t.Errorf("first candidate = %q, want newest first", got[0].Title)
	}
	for _, c := range got {
		if c.URL == "https://example.com/articles/shared" && c.Title != "First copy" {
			t.Errorf("in-batch duplicate resolved to %q, want the first occurrence", c.Title)
		}
	}
}
