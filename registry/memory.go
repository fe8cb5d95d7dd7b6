package registry

import (
	"context"
	"sync"
	"time"
)

// Memory is an in-process Store with the same conditional-write semantics
// as the DynamoDB implementation. It backs tests and local dry runs.
type Memory struct {
	mu      sync.Mutex
	records map[string]Record

	// Now is the clock used for updated_at and ttl; tests may replace it.
	Now func() time.Time
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		records: make(map[string]Record),
		Now:     time.Now,
	}
}

func (m *Memory) Get(ctx context.Context, url string) (*Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	rec, ok := m.records[url]
	if !ok {
		return nil, ErrNotFound
	}
	out := rec
	return &out, nil
}

func (m *Memory) CreatePending(ctx context.Context, url, title string, processedAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.records[url]; ok {
		return ErrAlreadyExists
	}

	now := m.Now().UTC()
	m.records[url] = Record{
		URL:         url,
		Status:      StatusPending,
		Title:       title,
		ProcessedAt: processedAt.UTC(),
		UpdatedAt:   now,
		TTL:         RecordTTL(now),
	}
	return nil
}

func (m *Memory) SetEvaluated(ctx context.Context, url string, score float64, processedAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.Now().UTC()
	rec, ok := m.records[url]
	if !ok {
		rec = Record{URL: url}
	}
	if rec.Status == StatusSelected {
		return nil
	}

	rec.Status = StatusEvaluated
	rec.Score = score
	rec.ProcessedAt = processedAt.UTC()
	rec.UpdatedAt = now
	rec.TTL = RecordTTL(now)
	m.records[url] = rec
	return nil
}

func (m *Memory) SetTerminal(ctx context.Context, url string, status Status, title string) error {
	if status != StatusEvalFailed && status != StatusTopicDuplicate {
		return errNotScorelessTerminal(status)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.Now().UTC()
	rec, ok := m.records[url]
	if !ok {
		rec = Record{URL: url}
	}
	if rec.Status == StatusSelected {
		return nil
	}

	rec.Status = status
	rec.Score = 0
	if title != "" {
		rec.Title = title
	}
	rec.UpdatedAt = now
	rec.TTL = RecordTTL(now)
	m.records[url] = rec
	return nil
}

func (m *Memory) MarkSelected(ctx context.Context, url string, score float64, title string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	rec, ok := m.records[url]
	if !ok {
		return ErrNotFound
	}
	if rec.Status == StatusSelected {
		return ErrAlreadySelected
	}

	now := m.Now().UTC()
	rec.Status = StatusSelected
	rec.Score = score
	if title != "" {
		rec.Title = title
	}
	rec.UpdatedAt = now
	rec.TTL = RecordTTL(now)
	m.records[url] = rec
	return nil
}

// Len returns the number of records, for tests and the ops API.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.records)
}
