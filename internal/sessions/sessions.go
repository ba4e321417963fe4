// Package sessions keeps processed EASSC datasets in memory behind session
// handles with idle expiry.
package sessions

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/vinodismyname/mcpeassc/config"
	"github.com/vinodismyname/mcpeassc/internal/eassc"
)

var (
	// ErrHandleNotFound indicates an unknown or expired session ID.
	ErrHandleNotFound = errors.New("sessions: session not found")
	// ErrBusy is returned when a session is already processing files.
	ErrBusy = errors.New("sessions: processing already in progress")
	// ErrNoDataset is returned for reads before any successful processing run.
	ErrNoDataset = errors.New("sessions: no dataset loaded")
)

// Session holds the dataset of the latest successful processing run.
type Session struct {
	ID        string
	CreatedAt time.Time
	ExpiresAt time.Time

	mu      sync.RWMutex
	dataset *eassc.Dataset
	version int64
	busy    atomic.Bool
}

// Snapshot is a read view of a session. Dataset is shared and must not be
// modified.
type Snapshot struct {
	ID      string
	Version int64
	Dataset *eassc.Dataset
}

// Gate coordinates capacity for open sessions (backed by runtime.Controller).
type Gate interface {
	AcquireSession(ctx context.Context) error
	ReleaseSession()
}

// Manager owns the session table and evicts idle sessions.
type Manager struct {
	mu           sync.RWMutex
	sessions     map[string]*Session
	ttl          time.Duration
	cleanupEvery time.Duration
	clock        func() time.Time
	gate         Gate
	stopCh       chan struct{}
	stopOnce     sync.Once
	cleanupWG    sync.WaitGroup
	logger       zerolog.Logger
}

// NewManager constructs a session manager. Pass ttl or cleanupEvery <= 0 to
// use defaults from config. Gate can be nil for tests; clock defaults to
// time.Now when nil.
func NewManager(ttl, cleanupEvery time.Duration, gate Gate, clock func() time.Time) *Manager {
	if ttl <= 0 {
		ttl = config.DefaultSessionIdleTTL
	}
	if cleanupEvery <= 0 {
		cleanupEvery = config.DefaultSessionCleanupPeriod
	}
	if clock == nil {
		clock = time.Now
	}
	return &Manager{
		sessions:     make(map[string]*Session),
		ttl:          ttl,
		cleanupEvery: cleanupEvery,
		clock:        clock,
		gate:         gate,
		stopCh:       make(chan struct{}),
		logger:       zerolog.Nop(),
	}
}

// WithLogger sets the logger used for lifecycle events.
func (m *Manager) WithLogger(l zerolog.Logger) *Manager {
	m.logger = l.With().Str("component", "sessions").Logger()
	return m
}

// Start launches periodic eviction of expired sessions.
func (m *Manager) Start() {
	m.cleanupWG.Add(1)
	ticker := time.NewTicker(m.cleanupEvery)
	go func() {
		defer m.cleanupWG.Done()
		defer ticker.Stop()
		for {
			select {
			case <-m.stopCh:
				return
			case <-ticker.C:
				m.EvictExpired()
			}
		}
	}()
}

// Close stops background cleanup and drops every session.
func (m *Manager) Close(ctx context.Context) error {
	m.stopOnce.Do(func() { close(m.stopCh) })
	done := make(chan struct{})
	go func() { m.cleanupWG.Wait(); close(done) }()
	select {
	case <-done:
	case <-ctx.Done():
		return ctx.Err()
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for id := range m.sessions {
		delete(m.sessions, id)
		m.release()
	}
	return nil
}

// Create registers an empty session and returns its ID. Capacity is enforced
// through the gate when provided.
func (m *Manager) Create(ctx context.Context) (string, error) {
	if err := m.acquire(ctx); err != nil {
		return "", err
	}
	now := m.clock()
	s := &Session{ID: uuid.NewString(), CreatedAt: now, ExpiresAt: now.Add(m.ttl)}

	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()

	m.logger.Debug().Str("session_id", s.ID).Msg("session created")
	return s.ID, nil
}

// Get returns the session when present and refreshes its idle deadline.
func (m *Manager) Get(id string) (*Session, bool) {
	m.mu.RLock()
	s, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok {
		return nil, false
	}
	now := m.clock()
	s.mu.Lock()
	s.ExpiresAt = now.Add(m.ttl)
	s.mu.Unlock()
	return s, true
}

// Replace runs build and, on success, swaps the session's dataset for the
// result and bumps its version. A failed build leaves the previous dataset
// in place. Only one Replace may run per session at a time; a concurrent call
// fails fast with ErrBusy. Readers keep seeing the previous dataset until the
// swap.
func (m *Manager) Replace(ctx context.Context, id string, build func(context.Context) (*eassc.Dataset, error)) (int64, error) {
	s, ok := m.Get(id)
	if !ok {
		return 0, ErrHandleNotFound
	}
	if !s.busy.CompareAndSwap(false, true) {
		return 0, ErrBusy
	}
	defer s.busy.Store(false)

	ds, err := build(ctx)
	if err != nil {
		return 0, err
	}
	if ds == nil {
		ds = &eassc.Dataset{}
	}

	s.mu.Lock()
	s.dataset = ds
	s.version++
	v := s.version
	s.mu.Unlock()

	m.logger.Info().Str("session_id", id).Int64("version", v).Int("records", len(ds.Records)).Msg("dataset replaced")
	return v, nil
}

// WithRead runs fn with a shared lock on the session's current dataset.
func (m *Manager) WithRead(id string, fn func(Snapshot) error) error {
	s, ok := m.Get(id)
	if !ok {
		return ErrHandleNotFound
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.dataset == nil {
		return ErrNoDataset
	}
	return fn(Snapshot{ID: s.ID, Version: s.version, Dataset: s.dataset})
}

// Busy reports whether the session is processing files.
func (m *Manager) Busy(id string) bool {
	m.mu.RLock()
	s, ok := m.sessions[id]
	m.mu.RUnlock()
	return ok && s.busy.Load()
}

// CloseHandle removes a session by ID, releasing capacity via the gate.
func (m *Manager) CloseHandle(id string) error {
	m.mu.Lock()
	_, ok := m.sessions[id]
	if ok {
		delete(m.sessions, id)
	}
	m.mu.Unlock()
	if !ok {
		return ErrHandleNotFound
	}
	m.release()
	m.logger.Debug().Str("session_id", id).Msg("session closed")
	return nil
}

// EvictExpired drops sessions whose idle deadline has passed. Sessions that
// are processing are kept until the run completes.
func (m *Manager) EvictExpired() {
	now := m.clock()
	var expired []string

	m.mu.RLock()
	for id, s := range m.sessions {
		s.mu.RLock()
		isExpired := now.After(s.ExpiresAt)
		s.mu.RUnlock()
		if isExpired && !s.busy.Load() {
			expired = append(expired, id)
		}
	}
	m.mu.RUnlock()

	for _, id := range expired {
		m.mu.Lock()
		_, ok := m.sessions[id]
		delete(m.sessions, id)
		m.mu.Unlock()
		if ok {
			m.release()
			m.logger.Debug().Str("session_id", id).Msg("session expired")
		}
	}
}

// Count returns the number of open sessions.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

func (m *Manager) acquire(ctx context.Context) error {
	if m.gate == nil {
		return nil
	}
	return m.gate.AcquireSession(ctx)
}

func (m *Manager) release() {
	if m.gate == nil {
		return
	}
	m.gate.ReleaseSession()
}

// Expired reports whether the session has passed its idle deadline.
func (s *Session) Expired(now time.Time) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return now.After(s.ExpiresAt)
}
