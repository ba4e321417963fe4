package telemetry

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func TestStatsRecord(t *testing.T) {
	s := NewStats()
	s.Record("process_files", false)
	s.Record("process_files", true)
	s.Record("close_session", false)

	snap := s.Snapshot()
	require.Equal(t, []ToolStat{
		{Tool: "close_session", Calls: 1},
		{Tool: "process_files", Calls: 2, Errors: 1},
	}, snap)
}

func TestBuildHooks(t *testing.T) {
	hooks := BuildHooks(zerolog.Nop(), NewStats())
	require.NotNil(t, hooks)
	require.Len(t, hooks.OnAfterCallTool, 1)
	require.Len(t, hooks.OnError, 1)
}
