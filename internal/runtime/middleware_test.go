package runtime

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func callRequest(tool string, args map[string]any) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Name = tool
	req.Params.Arguments = args
	return req
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, res.Content)
	text, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok)
	return text.Text
}

func TestMiddlewarePassesThroughWithCapacity(t *testing.T) {
	limits := NewLimits(1, 1)
	limits.OperationTimeout = 200 * time.Millisecond
	limits.AcquireRequestTimeout = 50 * time.Millisecond
	ctrl := NewController(limits)

	wrapped := NewMiddleware(ctrl).ToolMiddleware(func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		_, hasDeadline := ctx.Deadline()
		require.True(t, hasDeadline)
		return mcp.NewToolResultText("ok"), nil
	})

	res, err := wrapped(context.Background(), callRequest("list_filters", nil))
	require.NoError(t, err)
	require.False(t, res.IsError)

	// The request slot is released after the call.
	require.NoError(t, ctrl.AcquireRequest(context.Background()))
	ctrl.ReleaseRequest()
}

func TestMiddlewareRejectsWhenSaturated(t *testing.T) {
	limits := NewLimits(1, 1)
	limits.AcquireRequestTimeout = 5 * time.Millisecond
	ctrl := NewController(limits)
	require.NoError(t, ctrl.AcquireRequest(context.Background()))
	defer ctrl.ReleaseRequest()

	wrapped := NewMiddleware(ctrl).ToolMiddleware(func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		t.Fatal("handler must not run when saturated")
		return nil, nil
	})

	res, err := wrapped(context.Background(), callRequest("process_files", nil))
	require.NoError(t, err)
	require.True(t, res.IsError)
	require.Contains(t, resultText(t, res), "BUSY_RESOURCE")
	require.Contains(t, resultText(t, res), "max=1")
}

func TestMiddlewareMapsDeadlineToTimeout(t *testing.T) {
	limits := NewLimits(1, 1)
	limits.OperationTimeout = 20 * time.Millisecond
	ctrl := NewController(limits)

	wrapped := NewMiddleware(ctrl).ToolMiddleware(func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	})

	res, err := wrapped(context.Background(), callRequest("process_files", nil))
	require.NoError(t, err)
	require.True(t, res.IsError)
	require.Contains(t, resultText(t, res), "TIMEOUT")
}

func TestMiddlewareScopesLogger(t *testing.T) {
	var buf bytes.Buffer
	base := zerolog.New(&buf)
	ctx := base.WithContext(context.Background())

	wrapped := NewMiddleware(NewController(NewLimits(2, 2))).ToolMiddleware(func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		zerolog.Ctx(ctx).Info().Msg("handled")
		return mcp.NewToolResultText("ok"), nil
	})

	_, err := wrapped(ctx, callRequest("monthly_table", map[string]any{"session_id": "s-1"}))
	require.NoError(t, err)
	require.Contains(t, buf.String(), `"tool":"monthly_table"`)
	require.Contains(t, buf.String(), `"session_id":"s-1"`)
}
