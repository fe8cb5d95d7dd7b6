package registry

import (
	"context"
	"errors"
	"fmt"
	"time"

	"newsbot/config"
)

// Status is the lifecycle stage of a candidate URL. The set is closed:
// pending may move to evaluated, eval_failed, or topic_duplicate, and
// evaluated may move to selected. Nothing else is a legal transition.
type Status string

const (
	StatusPending        Status = "pending"
	StatusEvaluated      Status = "evaluated"
	StatusEvalFailed     Status = "eval_failed"
	StatusTopicDuplicate Status = "topic_duplicate"
	StatusSelected       Status = "selected"
)

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusEvaluated, StatusEvalFailed, StatusTopicDuplicate, StatusSelected:
		return true
	}
	return false
}

// Terminal reports whether no further evaluation is expected from s.
func (s Status) Terminal() bool {
	switch s {
	case StatusEvalFailed, StatusTopicDuplicate, StatusSelected:
		return true
	}
	return false
}

// CanTransition reports whether s -> to is a legal status transition.
func (s Status) CanTransition(to Status) bool {
	switch s {
	case StatusPending:
		return to == StatusEvaluated || to == StatusEvalFailed || to == StatusTopicDuplicate
	case StatusEvaluated:
		return to == StatusSelected
	}
	return false
}

var (
	// ErrNotFound is returned by Get when no record exists for the URL.
	ErrNotFound = errors.New("registry: record not found")

	// ErrAlreadyExists is returned by CreatePending when a record already
	// exists. This is the expected dedup signal, not a failure.
	ErrAlreadyExists = errors.New("registry: record already exists")

	// ErrAlreadySelected is returned by MarkSelected when the record has
	// already been selected. Callers must treat this as an invariant
	// violation and abort the run.
	ErrAlreadySelected = errors.New("registry: record already selected")
)

// Record is one row of the registry, keyed by canonical URL.
// ProcessedAt is the candidate's publication time, not the write time;
// the stock window is measured against it. UpdatedAt is the wall-clock
// time of the most recent status transition.
type Record struct {
	URL         string    `json:"url"`
	Status      Status    `json:"status"`
	Score       float64   `json:"score"`
	Title       string    `json:"title"`
	ProcessedAt time.Time `json:"processed_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	TTL         int64     `json:"ttl"`
}

// Store is the durable registry contract. It is the only shared mutable
// state across runs; conditional writes make overlapping runs safe.
type Store interface {
	// Get returns the record for url, or ErrNotFound.
	Get(ctx context.Context, url string) (*Record, error)

	// CreatePending writes a pending record if and only if none exists.
	// Returns ErrAlreadyExists when a record is present (a no-op).
	CreatePending(ctx context.Context, url, title string, processedAt time.Time) error

	// SetEvaluated records a score for a pending candidate. A no-op when
	// the record has already reached selected.
	SetEvaluated(ctx context.Context, url string, score float64, processedAt time.Time) error

	// SetTerminal marks a candidate eval_failed or topic_duplicate with a
	// zero score. A no-op when the record has already reached selected.
	SetTerminal(ctx context.Context, url string, status Status, title string) error

	// MarkSelected moves an evaluated candidate to selected. Returns
	// ErrAlreadySelected when the record was selected before this call.
	MarkSelected(ctx context.Context, url string, score float64, title string) error
}

// RecordTTL returns the expiry epoch for a record written at now.
func RecordTTL(now time.Time) int64 {
	return now.Add(config.RecordTTLDays * 24 * time.Hour).Unix()
}

func errNotScorelessTerminal(s Status) error {
	return fmt.Errorf("registry: %q is not a scoreless terminal status", s)
}
