package rssfeeds

import (
	"encoding/json"
	"fmt"
	"os"
)

// Sources lists the configured feed groups. Group A carries the fact
// sources candidates are drawn from; group B carries community-reaction
// sources summarized into the hand-off payload.
type Sources struct {
	GroupA []string `json:"group_a"`
	GroupB []string `json:"group_b"`
}

// LoadSources reads the feed-source configuration file.
func LoadSources(path string) (*Sources, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read sources file: %w", err)
	}

	var sources Sources
	if err := json.Unmarshal(data, &sources); err != nil {
		return nil, fmt.Errorf("failed to parse sources file: %w", err)
	}
	if len(sources.GroupA) == 0 {
		return nil, fmt.Errorf("sources file %s defines no group_a feeds", path)
	}
	return &sources, nil
}
