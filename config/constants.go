package config

import "time"

// Selection Constants
const (
	// DefaultScoreThreshold is the minimum oracle score a candidate needs to qualify
	DefaultScoreThreshold = 65.0

	// DefaultStockDays is the trailing window for reconsidering evaluated-but-unused candidates
	DefaultStockDays = 7

	// DefaultFreshnessDays is the maximum age of a feed entry relative to the run
	DefaultFreshnessDays = 30

	// DefaultPublishWindowDays is the lookback for already-published titles in the topic filter
	DefaultPublishWindowDays = 7

	// DefaultMaxEvalRetries caps oracle attempts per candidate
	DefaultMaxEvalRetries = 3
)

// Oracle Call Constants
const (
	// RetryBackoff is the fixed wait between failed oracle attempts for one candidate
	RetryBackoff = 2 * time.Second

	// OracleCallDelay is the courtesy pause between consecutive oracle calls within a run
	OracleCallDelay = 1 * time.Second

	// OracleTimeout bounds a single oracle request
	OracleTimeout = 60 * time.Second
)

// Feed Constants
const (
	// MaxEntriesPerFeed limits how many entries are taken from each feed
	MaxEntriesPerFeed = 15

	// SummaryMaxRunes bounds the title+summary text carried through scoring
	SummaryMaxRunes = 800

	// FeedFetchTimeout bounds a single feed HTTP request
	FeedFetchTimeout = 10 * time.Second

	// ReactionTitleCount is how many reaction-source entry titles are joined into the summary
	ReactionTitleCount = 3
)

// Registry Constants
const (
	// RecordTTLDays is the registry retention horizon (3 years)
	RecordTTLDays = 1095
)

// Hand-off Payload Constants
const (
	// HandoffSummaryMaxRunes bounds the compacted summary in the hand-off payload
	HandoffSummaryMaxRunes = 50

	// ReactionSiteMaxRunes bounds the reaction site name in the hand-off payload
	ReactionSiteMaxRunes = 15

	// ReactionSummaryMaxRunes bounds the reaction summary in the hand-off payload
	ReactionSummaryMaxRunes = 30
)

// Run Budget Constants
const (
	// DefaultRunBudget is the wall-clock budget for one selection run
	DefaultRunBudget = 10 * time.Minute

	// PerCandidateBudget is the time reserved before scoring one more candidate
	PerCandidateBudget = 15 * time.Second

	// StageBudget is the time reserved before a single-call stage (topic filter)
	StageBudget = 30 * time.Second
)
