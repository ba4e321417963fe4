package config

import "time"

// Default runtime limits and guardrails for the EASSC report server. They are
// referenced by internal/runtime and overridden through Load.

const (
	// Concurrency
	DefaultMaxConcurrentRequests = 10
	DefaultMaxOpenSessions       = 8

	// Ingestion bounds
	DefaultMaxFilesPerBatch = 24
	DefaultMaxFileBytes     = 16 << 20 // 16MB
	DefaultRecordPageSize   = 200
	DefaultMaxRecordPage    = 2_000

	// Layout detection
	DefaultProductColumn   = 1 // second cell holds the product label
	DefaultHeaderLookahead = 4 // rows after a year marker searched for month headers

	// Text summaries attached to tool results are capped to this many tokens.
	DefaultSummaryTokenBudget = 2_000
	DefaultModel              = "gpt-4o"
)

const (
	// Timeouts
	DefaultOperationTimeout      = 60 * time.Second
	DefaultAcquireRequestTimeout = 2 * time.Second

	// Session lifecycle
	DefaultSessionIdleTTL       = 30 * time.Minute
	DefaultSessionCleanupPeriod = time.Minute
)
