package selector

import (
	"context"
	"fmt"
	"math"

	"newsbot/config"
	"newsbot/oracle"
	"newsbot/types"
)

// scoreCandidate asks the oracle to score one candidate, retrying both
// transport failures and unparsable responses up to the retry budget.
// The returned score is always clamped into [0, 100].
func (p *Pipeline) scoreCandidate(ctx context.Context, c *types.Candidate) (float64, error) {
	prompt := scorePrompt(c)

	var lastErr error
	for attempt := 1; attempt <= p.maxEvalRetries; attempt++ {
		if attempt > 1 {
			p.sleep(config.RetryBackoff)
		}

		raw, err := p.oracle.Generate(ctx, prompt)
		if err != nil {
			lastErr = err
			continue
		}

		score, err := oracle.ParseScore(raw)
		if err != nil {
			lastErr = err
			continue
		}
		return clampScore(score), nil
	}
	return 0, fmt.Errorf("oracle evaluation failed after %d attempt(s): %w", p.maxEvalRetries, lastErr)
}

func clampScore(v float64) float64 {
	return math.Max(0, math.Min(100, v))
}
