package types

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Candidate is the in-memory working view of one feed entry for a single run.
// It is never persisted as-is; the registry keeps its own record per URL.
type Candidate struct {
	URL         string    `json:"url"`
	Title       string    `json:"title"`
	Summary     string    `json:"summary"`
	SourceFeed  string    `json:"source_feed"`
	PublishedAt time.Time `json:"published_at"`
	ContentHash string    `json:"content_hash"`

	// Score is set once the candidate has been evaluated, either by the
	// oracle in this run or from a prior run's registry record (stock).
	Score     float64 `json:"score"`
	FromStock bool    `json:"from_stock,omitempty"`
}

// Reaction is a short community-reaction summary from a secondary feed group.
type Reaction struct {
	Site    string `json:"site"`
	Summary string `json:"summary"`
}

// HandoffPayload is the durable object written for the downstream
// generation pipeline once a candidate has been selected.
type HandoffPayload struct {
	Title       string   `json:"title"`
	URL         string   `json:"url"`
	Summary     string   `json:"summary"`
	ContentHash string   `json:"content_hash"`
	PublishedAt string   `json:"published_at"`
	Reaction    Reaction `json:"reaction"`
	SelectedAt  string   `json:"selected_at"`
}

// HashText returns the hex sha-256 of the given text, used as the
// content fingerprint for diagnostics and hand-off payloads.
func HashText(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}

// TruncateRunes bounds a string to max runes without splitting a character.
func TruncateRunes(s string, max int) string {
	if max <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
