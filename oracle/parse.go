package oracle

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Oracle responses are expected to contain JSON but routinely arrive
// wrapped in markdown fences or trailing commentary. Each parser walks
// the same chain: direct parse, strip fences and retry, extract the
// first top-level brace span, and finally a regex scan.

var numberPattern = regexp.MustCompile(`-?\d+(?:\.\d+)?`)

// ParseScore extracts the numeric score from a raw oracle response.
// The caller is responsible for clamping the value into range.
func ParseScore(raw string) (float64, error) {
	type scoreResponse struct {
		Score *float64 `json:"score"`
	}

	for _, text := range parseAttempts(raw) {
		var parsed scoreResponse
		if err := json.Unmarshal([]byte(text), &parsed); err == nil && parsed.Score != nil {
			return *parsed.Score, nil
		}
	}

	// Last resort: the first number anywhere in the response.
	if match := numberPattern.FindString(raw); match != "" {
		if v, err := strconv.ParseFloat(match, 64); err == nil {
			return v, nil
		}
	}
	return 0, fmt.Errorf("no score found in oracle response: %q", truncateForError(raw))
}

// ParseDuplicateIndexes extracts the zero-based candidate indexes judged
// duplicate, discarding anything outside [0, n). An error means the
// response was unusable; callers fail open on it.
func ParseDuplicateIndexes(raw string, n int) ([]int, error) {
	type duplicateResponse struct {
		DuplicateIndexes *[]int `json:"duplicate_indexes"`
	}

	for _, text := range parseAttempts(raw) {
		var parsed duplicateResponse
		if err := json.Unmarshal([]byte(text), &parsed); err == nil && parsed.DuplicateIndexes != nil {
			indexes := make([]int, 0, len(*parsed.DuplicateIndexes))
			for _, idx := range *parsed.DuplicateIndexes {
				if idx >= 0 && idx < n {
					indexes = append(indexes, idx)
				}
			}
			return indexes, nil
		}
	}
	return nil, fmt.Errorf("no duplicate_indexes found in oracle response: %q", truncateForError(raw))
}

// parseAttempts yields progressively more forgiving views of the raw
// response to feed the JSON decoder.
func parseAttempts(raw string) []string {
	raw = strings.TrimSpace(raw)
	attempts := []string{raw}

	if stripped := stripFences(raw); stripped != raw {
		attempts = append(attempts, stripped)
	}
	for _, text := range attempts {
		if span := braceSpan(text); span != "" && span != text {
			attempts = append(attempts, span)
			break
		}
	}
	return attempts
}

// stripFences removes a surrounding markdown code fence, with or without
// a language tag.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}

	s = strings.TrimPrefix(s, "```")
	if idx := strings.Index(s, "\n"); idx >= 0 {
		// Drop the language tag line ("json", "JSON", or empty).
		s = s[idx+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

// braceSpan returns the substring from the first '{' to the last '}',
// or "" when no brace pair exists.
func braceSpan(s string) string {
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start < 0 || end <= start {
		return ""
	}
	return s[start : end+1]
}

func truncateForError(s string) string {
	const max = 120
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
