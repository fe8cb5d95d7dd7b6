package selector

import (
	"context"
	"log"

	"newsbot/oracle"
	"newsbot/registry"
	"newsbot/types"
)

// filterTopicDuplicates removes candidates covering a topic published
// within the trailing window, marking them topic_duplicate in the
// registry. Any failure along the way fails open: a missed duplicate is
// cheaper than a blocked pipeline.
func (p *Pipeline) filterTopicDuplicates(ctx context.Context, candidates []*types.Candidate) ([]*types.Candidate, int) {
	recent := p.recentTitles(ctx)
	if len(recent) == 0 {
		return candidates, 0
	}

	raw, err := p.oracle.Generate(ctx, duplicatePrompt(recent, candidates))
	if err != nil {
		log.Printf("Topic-duplicate check failed, treating all as new: %v", err)
		return candidates, 0
	}

	indexes, err := oracle.ParseDuplicateIndexes(raw, len(candidates))
	if err != nil {
		log.Printf("Topic-duplicate response unusable, treating all as new: %v", err)
		return candidates, 0
	}

	duplicate := make(map[int]bool, len(indexes))
	for _, idx := range indexes {
		duplicate[idx] = true
	}

	kept := make([]*types.Candidate, 0, len(candidates))
	for i, c := range candidates {
		if !duplicate[i] {
			kept = append(kept, c)
			continue
		}
		log.Printf("Excluding topic duplicate: %q", c.Title)
		if err := p.registry.SetTerminal(ctx, c.URL, registry.StatusTopicDuplicate, c.Title); err != nil {
			log.Printf("Failed to record topic_duplicate for %s: %v", c.URL, err)
		}
	}
	return kept, len(candidates) - len(kept)
}

func (p *Pipeline) recentTitles(ctx context.Context) []string {
	if p.history == nil {
		return nil
	}

	since := p.now().Add(-p.publishWindow)
	titles, err := p.history.RecentTitles(ctx, since)
	if err != nil {
		log.Printf("Publish history unavailable, treating as empty: %v", err)
		return nil
	}
	return titles
}
