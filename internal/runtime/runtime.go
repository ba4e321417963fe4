package runtime

import (
	"context"
	"time"

	"github.com/vinodismyname/mcpeassc/config"
	"golang.org/x/sync/semaphore"
)

// Limits captures the concurrency and ingestion guardrails configured for the server.
type Limits struct {
	// Concurrency caps
	MaxConcurrentRequests int
	MaxOpenSessions       int

	// Ingestion bounds
	MaxFilesPerBatch int
	MaxFileBytes     int64
	RecordPageSize   int
	MaxRecordPage    int

	// Timeouts
	OperationTimeout      time.Duration
	AcquireRequestTimeout time.Duration
}

// NewLimits initializes Limits with fallbacks from config defaults when values are unset.
func NewLimits(maxConcurrentRequests, maxOpenSessions int) Limits {
	if maxConcurrentRequests <= 0 {
		maxConcurrentRequests = config.DefaultMaxConcurrentRequests
	}
	if maxOpenSessions <= 0 {
		maxOpenSessions = config.DefaultMaxOpenSessions
	}

	return Limits{
		MaxConcurrentRequests: maxConcurrentRequests,
		MaxOpenSessions:       maxOpenSessions,
		MaxFilesPerBatch:      config.DefaultMaxFilesPerBatch,
		MaxFileBytes:          config.DefaultMaxFileBytes,
		RecordPageSize:        config.DefaultRecordPageSize,
		MaxRecordPage:         config.DefaultMaxRecordPage,
		OperationTimeout:      config.DefaultOperationTimeout,
		AcquireRequestTimeout: config.DefaultAcquireRequestTimeout,
	}
}

// LimitsFromConfig derives Limits from a loaded configuration.
func LimitsFromConfig(cfg *config.Config) Limits {
	l := NewLimits(cfg.MaxConcurrentRequests, cfg.MaxOpenSessions)
	if cfg.MaxFilesPerBatch > 0 {
		l.MaxFilesPerBatch = cfg.MaxFilesPerBatch
	}
	if cfg.MaxFileBytes > 0 {
		l.MaxFileBytes = cfg.MaxFileBytes
	}
	if cfg.OperationTimeout > 0 {
		l.OperationTimeout = cfg.OperationTimeout
	}
	if cfg.AcquireRequestTimeout > 0 {
		l.AcquireRequestTimeout = cfg.AcquireRequestTimeout
	}
	return l
}

// Controller coordinates runtime semaphores for request and session guardrails.
type Controller struct {
	limits           Limits
	requestSemaphore *semaphore.Weighted
	sessionSemaphore *semaphore.Weighted
}

// NewController constructs a Controller backed by weighted semaphores.
func NewController(limits Limits) *Controller {
	return &Controller{
		limits:           limits,
		requestSemaphore: semaphore.NewWeighted(int64(limits.MaxConcurrentRequests)),
		sessionSemaphore: semaphore.NewWeighted(int64(limits.MaxOpenSessions)),
	}
}

// AcquireRequest reserves capacity for an incoming request.
func (c *Controller) AcquireRequest(ctx context.Context) error {
	return c.requestSemaphore.Acquire(ctx, 1)
}

// ReleaseRequest frees previously-acquired request capacity.
func (c *Controller) ReleaseRequest() {
	c.requestSemaphore.Release(1)
}

// AcquireSession reserves an open session slot without waiting: a full
// table fails immediately with ErrSessionLimit.
func (c *Controller) AcquireSession(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !c.sessionSemaphore.TryAcquire(1) {
		return ErrSessionLimit
	}
	return nil
}

// ReleaseSession frees an open session slot.
func (c *Controller) ReleaseSession() {
	c.sessionSemaphore.Release(1)
}

// LimitsSnapshot exposes the configured guardrails for telemetry and discovery.
func (c *Controller) LimitsSnapshot() Limits {
	return c.limits
}
