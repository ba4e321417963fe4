package telemetry

import (
	"context"
	"sort"
	"sync"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog"
)

// ToolStat counts calls and tool-level errors of one tool.
type ToolStat struct {
	Tool   string `json:"tool"`
	Calls  int64  `json:"calls"`
	Errors int64  `json:"errors"`
}

// Stats accumulates per-tool call counts for status reporting.
type Stats struct {
	mu    sync.Mutex
	tools map[string]*ToolStat
}

// NewStats returns an empty Stats.
func NewStats() *Stats {
	return &Stats{tools: map[string]*ToolStat{}}
}

// Record counts one call of tool.
func (s *Stats) Record(tool string, isError bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.tools[tool]
	if !ok {
		st = &ToolStat{Tool: tool}
		s.tools[tool] = st
	}
	st.Calls++
	if isError {
		st.Errors++
	}
}

// Snapshot returns the counters sorted by tool name.
func (s *Stats) Snapshot() []ToolStat {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]ToolStat, 0, len(s.tools))
	for _, st := range s.tools {
		out = append(out, *st)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Tool < out[j].Tool })
	return out
}

// BuildHooks constructs mcp-go server hooks that log lifecycle events and
// feed stats. stats may be nil.
func BuildHooks(logger zerolog.Logger, stats *Stats) *server.Hooks {
	hooks := &server.Hooks{}

	hooks.AddOnRegisterSession(func(ctx context.Context, session server.ClientSession) {
		logger.Info().Str("client_session", session.SessionID()).Msg("client session registered")
	})

	hooks.AddOnUnregisterSession(func(ctx context.Context, session server.ClientSession) {
		logger.Info().Str("client_session", session.SessionID()).Msg("client session unregistered")
	})

	hooks.AddAfterListTools(func(ctx context.Context, id any, req *mcp.ListToolsRequest, res *mcp.ListToolsResult) {
		// Keep it light: tool count only
		logger.Debug().Int("tools", len(res.Tools)).Msg("list_tools served")
	})

	hooks.AddAfterCallTool(func(ctx context.Context, id any, req *mcp.CallToolRequest, res *mcp.CallToolResult) {
		isErr := res != nil && res.IsError
		if stats != nil {
			stats.Record(req.Params.Name, isErr)
		}
		evt := logger.Info()
		if isErr {
			evt = logger.Warn()
		}
		evt.Str("tool", req.Params.Name).Bool("is_error", isErr).Msg("tool call served")
	})

	hooks.AddOnError(func(ctx context.Context, id any, method mcp.MCPMethod, message any, err error) {
		logger.Error().Str("method", string(method)).Err(err).Msg("request error")
	})

	return hooks
}
