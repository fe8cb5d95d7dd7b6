package registry

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestStatusTransitions(t *testing.T) {
	cases := []struct {
		from, to Status
		ok       bool
	}{
		{StatusPending, StatusEvaluated, true},
		{StatusPending, StatusEvalFailed, true},
		{StatusPending, StatusTopicDuplicate, true},
		{StatusPending, StatusSelected, false},
		{StatusEvaluated, StatusSelected, true},
		{StatusEvaluated, StatusPending, false},
		{StatusSelected, StatusEvaluated, false},
		{StatusSelected, StatusPending, false},
		{StatusEvalFailed, StatusEvaluated, false},
		{StatusTopicDuplicate, StatusSelected, false},
	}

	for _, tc := range cases {
		if got := tc.from.CanTransition(tc.to); got != tc.ok {
			t.Errorf("CanTransition(%s -> %s) = %v, want %v", tc.from, tc.to, got, tc.ok)
		}
	}
}

func TestStatusTerminal(t *testing.T) {
	terminal := map[Status]bool{
		StatusPending:        false,
		StatusEvaluated:      false,
		StatusEvalFailed:     true,
		StatusTopicDuplicate: true,
		StatusSelected:       true,
	}
	for status, want := range terminal {
		if got := status.Terminal(); got != want {
			t.Errorf("%s.Terminal() = %v, want %v", status, got, want)
		}
	}
	if Status("bogus").Valid() {
		t.Error("unknown status should not be valid")
	}
}

func TestCreatePendingIsIdempotent(t *testing.T) {
	ctx := context.Background()
	store := NewMemory()
	published := time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)

	if err := store.CreatePending(ctx, "https://example.com/a", "Article A", published); err != nil {
		t.Fatalf("first CreatePending failed: %v", err)
	}

	err := store.CreatePending(ctx, "https://example.com/a", "Article A again", published)
	if !errors.Is(err, ErrAlreadyExists) {
		t.Fatalf("second CreatePending = %v, want ErrAlreadyExists", err)
	}

	rec, err := store.Get(ctx, "https://example.com/a")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if rec.Title != "Article A" {
		t.Errorf("second CreatePending mutated the record: title = %q", rec.Title)
	}
	if rec.Status != StatusPending {
		t.Errorf("status = %s, want pending", rec.Status)
	}
	if store.Len() != 1 {
		t.Errorf("store holds %d records, want 1", store.Len())
	}
}

func TestGetNotFound(t *testing.T) {
	store := NewMemory()
	if _, err := store.Get(context.Background(), "https://example.com/missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get on empty store = %v, want ErrNotFound", err)
	}
}

func TestEvaluatedThenSelected(t *testing.T) {
	ctx := context.Background()
	store := NewMemory()
	published := time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)

	if err := store.CreatePending(ctx, "https://example.com/a", "Article A", published); err != nil {
		t.Fatalf("CreatePending failed: %v", err)
	}
	if err := store.SetEvaluated(ctx, "https://example.com/a", 87.5, published); err != nil {
		t.Fatalf("SetEvaluated failed: %v", err)
	}

	rec, _ := store.Get(ctx, "https://example.com/a")
	if rec.Status != StatusEvaluated || rec.Score != 87.5 {
		t.Fatalf("after SetEvaluated: status=%s score=%v", rec.Status, rec.Score)
	}
	if !rec.ProcessedAt.Equal(published) {
		t.Errorf("processed_at = %v, want publication time %v", rec.ProcessedAt, published)
	}

	if err := store.MarkSelected(ctx, "https://example.com/a", 87.5, "Article A (final)"); err != nil {
		t.Fatalf("MarkSelected failed: %v", err)
	}
	rec, _ = store.Get(ctx, "https://example.com/a")
	if rec.Status != StatusSelected {
		t.Fatalf("status = %s, want selected", rec.Status)
	}
	if rec.Title != "Article A (final)" {
		t.Errorf("MarkSelected did not refresh title: %q", rec.Title)
	}
}

func TestSelectedIsTerminalMonotonic(t *testing.T) {
	ctx := context.Background()
	store := NewMemory()
	published := time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)

	store.CreatePending(ctx, "https://example.com/a", "Article A", published)
	store.SetEvaluated(ctx, "https://example.com/a", 90, published)
	if err := store.MarkSelected(ctx, "https://example.com/a", 90, "Article A"); err != nil {
		t.Fatalf("MarkSelected failed: %v", err)
	}

	// Later writes must never revert a selected record.
	if err := store.SetEvaluated(ctx, "https://example.com/a", 10, published); err != nil {
		t.Fatalf("SetEvaluated after selected should be a no-op, got %v", err)
	}
	if err := store.SetTerminal(ctx, "https://example.com/a", StatusEvalFailed, "Article A"); err != nil {
		t.Fatalf("SetTerminal after selected should be a no-op, got %v", err)
	}

	rec, _ := store.Get(ctx, "https://example.com/a")
	if rec.Status != StatusSelected || rec.Score != 90 {
		t.Fatalf("selected record was reverted: status=%s score=%v", rec.Status, rec.Score)
	}

	if err := store.MarkSelected(ctx, "https://example.com/a", 90, "Article A"); !errors.Is(err, ErrAlreadySelected) {
		t.Fatalf("second MarkSelected = %v, want ErrAlreadySelected", err)
	}
}

func TestSetTerminalRejectsWrongStatus(t *testing.T) {
	ctx := context.Background()
	store := NewMemory()

	if err := store.SetTerminal(ctx, "https://example.com/a", StatusSelected, ""); err == nil {
		t.Fatal("SetTerminal(selected) should be rejected")
	}
	if err := store.SetTerminal(ctx, "https://example.com/a", StatusEvaluated, ""); err == nil {
		t.Fatal("SetTerminal(evaluated) should be rejected")
	}
}

func TestSetTerminalZeroesScore(t *testing.T) {
	ctx := context.Background()
	store := NewMemory()
	published := time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)

	store.CreatePending(ctx, "https://example.com/a", "Article A", published)
	store.SetEvaluated(ctx, "https://example.com/a", 50, published)
	if err := store.SetTerminal(ctx, "https://example.com/a", StatusTopicDuplicate, "Article A"); err != nil {
		t.Fatalf("SetTerminal failed: %v", err)
	}

	rec, _ := store.Get(ctx, "https://example.com/a")
	if rec.Status != StatusTopicDuplicate || rec.Score != 0 {
		t.Fatalf("after SetTerminal: status=%s score=%v, want topic_duplicate with zero score", rec.Status, rec.Score)
	}
}

func TestRecordTTLHorizon(t *testing.T) {
	now := time.Date(2026, 8, 23, 0, 0, 0, 0, time.UTC)
	ttl := RecordTTL(now)
	want := now.AddDate(0, 0, 1095).Unix()
	if ttl != want {
		t.Errorf("RecordTTL = %d, want %d (1095 days out)", ttl, want)
	}
}
