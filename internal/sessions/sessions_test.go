package sessions

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/vinodismyname/mcpeassc/internal/eassc"
)

// fakeGate implements Gate for tests with counters.
type fakeGate struct {
	acquireErr error
	acquires   atomic.Int64
	releases   atomic.Int64
}

func (g *fakeGate) AcquireSession(ctx context.Context) error {
	g.acquires.Add(1)
	return g.acquireErr
}
func (g *fakeGate) ReleaseSession() { g.releases.Add(1) }

func datasetOf(n int) *eassc.Dataset {
	ds := &eassc.Dataset{}
	for i := 0; i < n; i++ {
		ds.Records = append(ds.Records, eassc.Record{Company: "A", Product: "P", Year: 2024, Month: i%12 + 1, Sales: 1})
	}
	return ds
}

func TestCreateGetClose(t *testing.T) {
	gate := &fakeGate{}
	m := NewManager(2*time.Second, time.Second, gate, time.Now)

	id, err := m.Create(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, id)
	require.Equal(t, int64(1), gate.acquires.Load())
	require.Equal(t, 1, m.Count())

	s, ok := m.Get(id)
	require.True(t, ok)
	require.Equal(t, id, s.ID)

	require.NoError(t, m.CloseHandle(id))
	require.Equal(t, 0, m.Count())
	require.Equal(t, int64(1), gate.releases.Load())
	require.ErrorIs(t, m.CloseHandle(id), ErrHandleNotFound)
}

func TestCreateGateBusy(t *testing.T) {
	gate := &fakeGate{acquireErr: context.DeadlineExceeded}
	m := NewManager(time.Second, time.Second, gate, time.Now)

	_, err := m.Create(context.Background())
	require.ErrorIs(t, err, context.DeadlineExceeded)
	require.Equal(t, 0, m.Count())
	require.Equal(t, int64(0), gate.releases.Load())
}

func TestReadBeforeProcessing(t *testing.T) {
	m := NewManager(time.Second, time.Second, nil, time.Now)
	id, err := m.Create(context.Background())
	require.NoError(t, err)

	err = m.WithRead(id, func(Snapshot) error { return nil })
	require.ErrorIs(t, err, ErrNoDataset)
	require.ErrorIs(t, m.WithRead("missing", func(Snapshot) error { return nil }), ErrHandleNotFound)
}

func TestReplaceSwapsWholesale(t *testing.T) {
	m := NewManager(time.Second, time.Second, nil, time.Now)
	id, err := m.Create(context.Background())
	require.NoError(t, err)

	v, err := m.Replace(context.Background(), id, func(context.Context) (*eassc.Dataset, error) {
		return datasetOf(3), nil
	})
	require.NoError(t, err)
	require.Equal(t, int64(1), v)

	v, err = m.Replace(context.Background(), id, func(context.Context) (*eassc.Dataset, error) {
		return datasetOf(1), nil
	})
	require.NoError(t, err)
	require.Equal(t, int64(2), v)

	require.NoError(t, m.WithRead(id, func(s Snapshot) error {
		require.Equal(t, int64(2), s.Version)
		require.Len(t, s.Dataset.Records, 1)
		return nil
	}))
}

func TestReplaceFailureKeepsPrevious(t *testing.T) {
	m := NewManager(time.Second, time.Second, nil, time.Now)
	id, err := m.Create(context.Background())
	require.NoError(t, err)
	_, err = m.Replace(context.Background(), id, func(context.Context) (*eassc.Dataset, error) {
		return datasetOf(2), nil
	})
	require.NoError(t, err)

	boom := errors.New("boom")
	_, err = m.Replace(context.Background(), id, func(context.Context) (*eassc.Dataset, error) {
		return nil, boom
	})
	require.ErrorIs(t, err, boom)

	require.NoError(t, m.WithRead(id, func(s Snapshot) error {
		require.Equal(t, int64(1), s.Version)
		require.Len(t, s.Dataset.Records, 2)
		return nil
	}))
	require.False(t, m.Busy(id))
}

func TestReplaceIsNotReentrant(t *testing.T) {
	m := NewManager(time.Second, time.Second, nil, time.Now)
	id, err := m.Create(context.Background())
	require.NoError(t, err)

	started := make(chan struct{})
	release := make(chan struct{})
	done := make(chan error, 1)
	go func() {
		_, err := m.Replace(context.Background(), id, func(context.Context) (*eassc.Dataset, error) {
			close(started)
			<-release
			return datasetOf(1), nil
		})
		done <- err
	}()

	<-started
	require.True(t, m.Busy(id))
	_, err = m.Replace(context.Background(), id, func(context.Context) (*eassc.Dataset, error) {
		t.Fatal("second build must not run")
		return nil, nil
	})
	require.ErrorIs(t, err, ErrBusy)

	close(release)
	require.NoError(t, <-done)
	require.False(t, m.Busy(id))
}

func TestTTLExpiryAndEviction(t *testing.T) {
	var now atomic.Int64
	now.Store(time.Now().UnixNano())
	clock := func() time.Time { return time.Unix(0, now.Load()) }

	gate := &fakeGate{}
	m := NewManager(50*time.Millisecond, 5*time.Millisecond, gate, clock)

	id, err := m.Create(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, m.Count())

	s, _ := m.Get(id)
	now.Store(time.Now().Add(200 * time.Millisecond).UnixNano())
	require.True(t, s.Expired(clock()))
	m.EvictExpired()

	require.Equal(t, 0, m.Count())
	require.Equal(t, int64(1), gate.releases.Load())
}

func TestCloseReleasesAll(t *testing.T) {
	gate := &fakeGate{}
	m := NewManager(time.Second, 10*time.Millisecond, gate, time.Now)
	m.Start()
	for i := 0; i < 3; i++ {
		_, err := m.Create(context.Background())
		require.NoError(t, err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, m.Close(ctx))
	require.Equal(t, 0, m.Count())
	require.Equal(t, int64(3), gate.releases.Load())
}
