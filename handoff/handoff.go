package handoff

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"newsbot/config"
	"newsbot/types"
)

// ObjectStore is the durable store the hand-off payload is written to.
type ObjectStore interface {
	Put(ctx context.Context, bucket, key string, body []byte, contentType string) error
	Exists(ctx context.Context, bucket, key string) (bool, error)
}

// Notifier announces a completed hand-off to downstream consumers.
type Notifier interface {
	Publish(ctx context.Context, key string, payload any) error
}

// Notification is the message published after a successful hand-off write.
type Notification struct {
	Bucket      string `json:"bucket"`
	Key         string `json:"key"`
	URL         string `json:"url"`
	Title       string `json:"title"`
	ContentHash string `json:"content_hash"`
	SelectedAt  string `json:"selected_at"`
}

// WriterConfig configures the hand-off writer.
type WriterConfig struct {
	Store  ObjectStore
	Bucket string
	// Prefix namespaces hand-off objects, e.g. "pending/".
	Prefix string
	// Notifier is optional; when nil the write is the only signal.
	Notifier Notifier
}

// Writer serializes a selected candidate into the hand-off location.
// One write per selection; objects are never overwritten.
type Writer struct {
	store    ObjectStore
	notifier Notifier
	bucket   string
	prefix   string
	now      func() time.Time
}

// NewWriter validates the configuration and returns a Writer.
func NewWriter(cfg WriterConfig) (*Writer, error) {
	if cfg.Store == nil {
		return nil, fmt.Errorf("object store is required")
	}
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("bucket is required")
	}

	prefix := cfg.Prefix
	if prefix != "" && !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}

	return &Writer{
		store:    cfg.Store,
		notifier: cfg.Notifier,
		bucket:   cfg.Bucket,
		prefix:   prefix,
		now:      time.Now,
	}, nil
}

// Write serializes the selected candidate and reaction context to a new
// hand-off object and returns its key. The payload fields are compacted
// to the widths the downstream renderer expects.
func (w *Writer) Write(ctx context.Context, candidate *types.Candidate, reaction types.Reaction) (string, error) {
	now := w.now().UTC()

	payload := types.HandoffPayload{
		Title:       candidate.Title,
		URL:         candidate.URL,
		Summary:     types.TruncateRunes(candidate.Summary, config.HandoffSummaryMaxRunes),
		ContentHash: candidate.ContentHash,
		PublishedAt: candidate.PublishedAt.UTC().Format(time.RFC3339),
		Reaction: types.Reaction{
			Site:    types.TruncateRunes(reaction.Site, config.ReactionSiteMaxRunes),
			Summary: types.TruncateRunes(reaction.Summary, config.ReactionSummaryMaxRunes),
		},
		SelectedAt: now.Format(time.RFC3339),
	}

	key := fmt.Sprintf("%sitem_%s_%s.json", w.prefix, now.Format("20060102T150405Z"), shortHash(candidate.ContentHash))

	// Write-once: an existing object at this key means a duplicate
	// selection slipped through, which downstream must never see.
	exists, err := w.store.Exists(ctx, w.bucket, key)
	if err != nil {
		return "", fmt.Errorf("hand-off existence check failed: %w", err)
	}
	if exists {
		return "", fmt.Errorf("hand-off object already exists: %s", key)
	}

	body, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return "", fmt.Errorf("hand-off encode failed: %w", err)
	}

	if err := w.store.Put(ctx, w.bucket, key, body, "application/json; charset=utf-8"); err != nil {
		return "", fmt.Errorf("hand-off write failed: %w", err)
	}

	if w.notifier != nil {
		notification := Notification{
			Bucket:      w.bucket,
			Key:         key,
			URL:         candidate.URL,
			Title:       candidate.Title,
			ContentHash: candidate.ContentHash,
			SelectedAt:  payload.SelectedAt,
		}
		if err := w.notifier.Publish(ctx, candidate.ContentHash, notification); err != nil {
			// The durable write succeeded; downstream can still poll the bucket.
			log.Printf("Hand-off notification failed for %s: %v", key, err)
		}
	}

	return key, nil
}

func shortHash(hash string) string {
	if len(hash) > 8 {
		return hash[:8]
	}
	return hash
}
