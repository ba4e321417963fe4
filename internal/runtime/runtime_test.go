package runtime

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/vinodismyname/mcpeassc/config"
)

func TestControllerAcquireRelease(t *testing.T) {
	limits := NewLimits(1, 1)
	controller := NewController(limits)

	require.Equal(t, limits, controller.LimitsSnapshot())

	require.NoError(t, controller.AcquireRequest(context.Background()))
	controller.ReleaseRequest()

	require.NoError(t, controller.AcquireSession(context.Background()))
	require.ErrorIs(t, controller.AcquireSession(context.Background()), ErrSessionLimit)
	controller.ReleaseSession()
	require.NoError(t, controller.AcquireSession(context.Background()))
}

func TestAcquireSessionCanceled(t *testing.T) {
	controller := NewController(NewLimits(1, 1))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.ErrorIs(t, controller.AcquireSession(ctx), context.Canceled)
}

func TestNewLimitsDefaults(t *testing.T) {
	l := NewLimits(0, -1)
	require.Equal(t, config.DefaultMaxConcurrentRequests, l.MaxConcurrentRequests)
	require.Equal(t, config.DefaultMaxOpenSessions, l.MaxOpenSessions)
	require.Equal(t, config.DefaultMaxFilesPerBatch, l.MaxFilesPerBatch)
}

func TestLimitsFromConfig(t *testing.T) {
	cfg := &config.Config{
		MaxConcurrentRequests: 3,
		MaxOpenSessions:       2,
		MaxFilesPerBatch:      5,
		MaxFileBytes:          1024,
		OperationTimeout:      time.Second,
	}
	l := LimitsFromConfig(cfg)
	require.Equal(t, 3, l.MaxConcurrentRequests)
	require.Equal(t, 2, l.MaxOpenSessions)
	require.Equal(t, 5, l.MaxFilesPerBatch)
	require.Equal(t, int64(1024), l.MaxFileBytes)
	require.Equal(t, time.Second, l.OperationTimeout)
	require.Equal(t, config.DefaultAcquireRequestTimeout, l.AcquireRequestTimeout)
}
