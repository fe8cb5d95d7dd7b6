package selector

import (
	"fmt"
	"strings"

	"newsbot/types"
)

func scorePrompt(c *types.Candidate) string {
	var b strings.Builder
	b.WriteString("Rate how suitable the following tech news article is as the single topic of a short news video, on a scale of 0 to 100.\n\n")
	b.WriteString("Scoring guide:\n")
	b.WriteString("- 80-100: breaking, concrete news (product launch, OS update, major leak, acquisition)\n")
	b.WriteString("- 50-79: relevant tech news with some concrete substance\n")
	b.WriteString("- 20-49: opinion, roundup, or thin on specifics\n")
	b.WriteString("- 0-19: not tech news or purely promotional\n\n")
	fmt.Fprintf(&b, "Title: %s\nSummary: %s\n\n", c.Title, singleLine(c.Summary))
	b.WriteString("Respond with JSON only, exactly like {\"score\": 85}.")
	return b.String()
}

func duplicatePrompt(recentTitles []string, candidates []*types.Candidate) string {
	var b strings.Builder
	b.WriteString("Below are titles we already published recently, followed by a numbered list of new article candidates.\n")
	b.WriteString("Identify which candidates cover the same topic as an already-published title.\n\n")

	b.WriteString("Already published:\n")
	for _, title := range recentTitles {
		fmt.Fprintf(&b, "- %s\n", title)
	}

	b.WriteString("\nCandidates:\n")
	for i, c := range candidates {
		fmt.Fprintf(&b, "%d. %s\n", i, c.Title)
	}

	b.WriteString("\nRespond with JSON only, using zero-based indexes, exactly like {\"duplicate_indexes\": [0, 3]}.\n")
	b.WriteString("When in doubt, do not mark a candidate as duplicate.")
	return b.String()
}

func singleLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
