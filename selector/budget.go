package selector

import "time"

// Budget is the wall-clock allowance for one run. Stages ask it whether
// enough time remains before starting more work, so the run always stops
// between candidates instead of being killed mid-write.
type Budget struct {
	deadline time.Time
	now      func() time.Time
}

// NewBudget starts a budget of d from the current time.
func NewBudget(d time.Duration) *Budget {
	return NewBudgetWithClock(time.Now, d)
}

// NewBudgetWithClock starts a budget of d measured against the given clock.
func NewBudgetWithClock(now func() time.Time, d time.Duration) *Budget {
	return &Budget{deadline: now().Add(d), now: now}
}

// Remaining returns the time left in the budget; negative when exhausted.
func (b *Budget) Remaining() time.Duration {
	return b.deadline.Sub(b.now())
}

// HasFor reports whether at least cost remains.
func (b *Budget) HasFor(cost time.Duration) bool {
	return b.Remaining() >= cost
}
