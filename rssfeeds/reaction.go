package rssfeeds

import (
	"context"
	"log"
	"strings"

	"newsbot/config"
	"newsbot/types"
)

// FetchReaction summarizes the first group-B feed: the site title plus
// the top entry titles joined together. Failures degrade to an empty
// summary rather than blocking the run.
func FetchReaction(ctx context.Context, groupB []string) types.Reaction {
	if len(groupB) == 0 {
		return types.Reaction{}
	}

	feedURL := groupB[0]
	feed, err := FetchFeed(ctx, feedURL)
	if err != nil {
		log.Printf("Reaction feed fetch failed for %s: %v", feedURL, err)
		return types.Reaction{Site: feedURL}
	}

	site := strings.TrimSpace(feed.Title)
	if site == "" {
		site = feedURL
	}

	titles := make([]string, 0, config.ReactionTitleCount)
	for _, item := range feed.Items {
		if len(titles) == config.ReactionTitleCount {
			break
		}
		if title := strings.TrimSpace(item.Title); title != "" {
			titles = append(titles, title)
		}
	}

	return types.Reaction{Site: site, Summary: strings.Join(titles, " / ")}
}
