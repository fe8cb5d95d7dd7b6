package selector

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"newsbot/config"
	"newsbot/history"
	"newsbot/oracle"
	"newsbot/registry"
	"newsbot/types"
)

// HandoffWriter hands the selected candidate to the downstream pipeline.
// Satisfied by handoff.Writer.
type HandoffWriter interface {
	Write(ctx context.Context, candidate *types.Candidate, reaction types.Reaction) (string, error)
}

// Options configure a selection pipeline. Registry, Oracle, and Handoff
// are required; History and Excerpt are optional collaborators.
type Options struct {
	Registry registry.Store
	Oracle   oracle.Client
	Handoff  HandoffWriter
	History  history.Source
	// Excerpt fetches a readable excerpt for the selected article to
	// enrich the hand-off summary; nil disables enrichment.
	Excerpt func(url string) (string, error)

	Threshold      float64
	StockWindow    time.Duration
	PublishWindow  time.Duration
	MaxEvalRetries int

	// Now and Sleep are injectable for tests.
	Now   func() time.Time
	Sleep func(d time.Duration)
}

// Pipeline runs one selection cycle: partition against the registry,
// pre-register, topic-filter, score, select at most one candidate, and
// hand it off.
type Pipeline struct {
	registry registry.Store
	oracle   oracle.Client
	handoff  HandoffWriter
	history  history.Source
	excerpt  func(url string) (string, error)

	threshold      float64
	stockWindow    time.Duration
	publishWindow  time.Duration
	maxEvalRetries int

	now   func() time.Time
	sleep func(d time.Duration)
}

// New validates options, applies defaults, and returns a Pipeline.
func New(opts Options) (*Pipeline, error) {
	if opts.Registry == nil {
		return nil, fmt.Errorf("registry store is required")
	}
	if opts.Oracle == nil {
		return nil, fmt.Errorf("oracle client is required")
	}
	if opts.Handoff == nil {
		return nil, fmt.Errorf("hand-off writer is required")
	}

	p := &Pipeline{
		registry:       opts.Registry,
		oracle:         opts.Oracle,
		handoff:        opts.Handoff,
		history:        opts.History,
		excerpt:        opts.Excerpt,
		threshold:      opts.Threshold,
		stockWindow:    opts.StockWindow,
		publishWindow:  opts.PublishWindow,
		maxEvalRetries: opts.MaxEvalRetries,
		now:            opts.Now,
		sleep:          opts.Sleep,
	}
	if p.threshold == 0 {
		p.threshold = config.DefaultScoreThreshold
	}
	if p.stockWindow == 0 {
		p.stockWindow = config.DefaultStockDays * 24 * time.Hour
	}
	if p.publishWindow == 0 {
		p.publishWindow = config.DefaultPublishWindowDays * 24 * time.Hour
	}
	if p.maxEvalRetries == 0 {
		p.maxEvalRetries = config.DefaultMaxEvalRetries
	}
	if p.now == nil {
		p.now = time.Now
	}
	if p.sleep == nil {
		p.sleep = time.Sleep
	}
	return p, nil
}

// Outcome classifies how a run ended. None of these is an error; errors
// are reserved for registry failures and invariant violations.
type Outcome string

const (
	OutcomeSelected         Outcome = "selected"
	OutcomeNoCandidates     Outcome = "no_candidates"
	OutcomeNoNewCandidates  Outcome = "no_new_candidates"
	OutcomeNoQualified      Outcome = "no_qualified"
	OutcomeInsufficientTime Outcome = "insufficient_time"
)

// Result summarizes one selection run.
type Result struct {
	Outcome        Outcome          `json:"outcome"`
	Selected       *types.Candidate `json:"selected,omitempty"`
	HandoffKey     string           `json:"handoff_key,omitempty"`
	NewCount       int              `json:"new_count"`
	StockCount     int              `json:"stock_count"`
	EvaluatedCount int              `json:"evaluated_count"`
	DuplicateCount int              `json:"duplicate_count"`
	FailedCount    int              `json:"failed_count"`
}

// Run executes one selection cycle over the filtered candidates. It
// returns an error only when the registry is unusable or a double
// selection is detected; every per-candidate failure degrades to a
// terminal registry status instead.
func (p *Pipeline) Run(ctx context.Context, candidates []*types.Candidate, reaction types.Reaction, budget *Budget) (*Result, error) {
	if budget == nil {
		budget = NewBudget(config.DefaultRunBudget)
	}

	result := &Result{}
	if len(candidates) == 0 {
		result.Outcome = OutcomeNoCandidates
		return result, nil
	}

	toEvaluate, stock, err := p.partition(ctx, candidates)
	if err != nil {
		return nil, err
	}
	result.NewCount = len(toEvaluate)
	result.StockCount = len(stock)
	log.Printf("Partitioned %d candidate(s): %d to evaluate, %d from stock", len(candidates), len(toEvaluate), len(stock))

	if len(toEvaluate) == 0 && len(stock) == 0 {
		result.Outcome = OutcomeNoNewCandidates
		return result, nil
	}

	if len(toEvaluate) > 0 && budget.HasFor(config.StageBudget) {
		var removed int
		toEvaluate, removed = p.filterTopicDuplicates(ctx, toEvaluate)
		result.DuplicateCount = removed
	}

	qualified, ranOut := p.scoreAll(ctx, toEvaluate, budget, result)

	// First-seen order in the combined list breaks score ties: newly
	// qualified candidates ahead of stock.
	pool := append(qualified, stock...)
	best := pickBest(pool)
	if best == nil {
		if ranOut {
			result.Outcome = OutcomeInsufficientTime
		} else {
			result.Outcome = OutcomeNoQualified
		}
		return result, nil
	}

	if err := p.registry.MarkSelected(ctx, best.URL, best.Score, best.Title); err != nil {
		if errors.Is(err, registry.ErrAlreadySelected) {
			return nil, fmt.Errorf("double selection detected for %s: %w", best.URL, err)
		}
		return nil, fmt.Errorf("failed to mark selection: %w", err)
	}
	log.Printf("Selected %q (score %.1f, stock=%v)", best.Title, best.Score, best.FromStock)

	p.enrich(best)

	key, err := p.handoff.Write(ctx, best, reaction)
	if err != nil {
		// The registry already records the selection; surface the failed
		// hand-off instead of silently losing the run's result.
		return nil, fmt.Errorf("hand-off failed for %s: %w", best.URL, err)
	}

	result.Outcome = OutcomeSelected
	result.Selected = best
	result.HandoffKey = key
	return result, nil
}

// partition routes each candidate by its registry state: unknown and
// pending candidates go to evaluation, qualified recent evaluated ones
// come back as stock, and everything terminal is excluded. Unknown
// candidates are pre-registered before any oracle work so that a crash
// leaves them pending rather than absent.
func (p *Pipeline) partition(ctx context.Context, candidates []*types.Candidate) (toEvaluate, stock []*types.Candidate, err error) {
	cutoff := p.now().Add(-p.stockWindow)

	var fresh []*types.Candidate
	for _, c := range candidates {
		rec, err := p.registry.Get(ctx, c.URL)
		if errors.Is(err, registry.ErrNotFound) {
			fresh = append(fresh, c)
			continue
		}
		if err != nil {
			return nil, nil, fmt.Errorf("registry unavailable: %w", err)
		}

		switch rec.Status {
		case registry.StatusPending:
			// A prior run crashed between pre-registration and scoring;
			// evaluate now without re-creating the record.
			toEvaluate = append(toEvaluate, c)
		case registry.StatusEvaluated:
			// Stock window is inclusive at exactly now-stockWindow.
			if rec.Score >= p.threshold && !rec.ProcessedAt.Before(cutoff) {
				stockCandidate := *c
				stockCandidate.Score = rec.Score
				stockCandidate.FromStock = true
				stock = append(stock, &stockCandidate)
			}
		default:
			// selected, eval_failed, topic_duplicate: finished for good.
		}
	}

	for _, c := range fresh {
		err := p.registry.CreatePending(ctx, c.URL, c.Title, c.PublishedAt)
		if err != nil && !errors.Is(err, registry.ErrAlreadyExists) {
			// Without a pending record the crash-safety contract does not
			// hold, so skip the candidate this run.
			log.Printf("Pre-registration failed for %s, skipping: %v", c.URL, err)
			continue
		}
		toEvaluate = append(toEvaluate, c)
	}
	return toEvaluate, stock, nil
}

// scoreAll evaluates candidates one at a time, checking the budget
// between candidates so a graceful abort never interrupts a write.
func (p *Pipeline) scoreAll(ctx context.Context, toEvaluate []*types.Candidate, budget *Budget, result *Result) (qualified []*types.Candidate, ranOut bool) {
	for i, c := range toEvaluate {
		if !budget.HasFor(config.PerCandidateBudget) {
			log.Printf("Time budget exhausted with %d candidate(s) unscored; they remain pending for the next run", len(toEvaluate)-i)
			return qualified, true
		}
		if i > 0 {
			p.sleep(config.OracleCallDelay)
		}

		score, err := p.scoreCandidate(ctx, c)
		if err != nil {
			log.Printf("Evaluation failed for %s: %v", c.URL, err)
			if terr := p.registry.SetTerminal(ctx, c.URL, registry.StatusEvalFailed, c.Title); terr != nil {
				log.Printf("Failed to record eval_failed for %s: %v", c.URL, terr)
			}
			result.FailedCount++
			continue
		}

		if err := p.registry.SetEvaluated(ctx, c.URL, score, c.PublishedAt); err != nil {
			// Without a durable score the candidate cannot compete: it
			// would be re-scored next run, violating at-most-once scoring.
			log.Printf("Failed to record score for %s, skipping: %v", c.URL, err)
			continue
		}

		c.Score = score
		result.EvaluatedCount++
		if score >= p.threshold {
			qualified = append(qualified, c)
		}
	}
	return qualified, false
}

// pickBest returns the highest-scoring candidate; strict comparison
// keeps the first-seen winner on ties.
func pickBest(pool []*types.Candidate) *types.Candidate {
	var best *types.Candidate
	for _, c := range pool {
		if best == nil || c.Score > best.Score {
			best = c
		}
	}
	return best
}

func (p *Pipeline) enrich(c *types.Candidate) {
	if p.excerpt == nil {
		return
	}
	excerpt, err := p.excerpt(c.URL)
	if err != nil {
		log.Printf("Excerpt enrichment failed for %s, keeping feed summary: %v", c.URL, err)
		return
	}
	if excerpt != "" {
		c.Summary = excerpt
	}
}
