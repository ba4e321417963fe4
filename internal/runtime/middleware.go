package runtime

import (
	"context"
	"errors"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog"

	"github.com/vinodismyname/mcpeassc/pkg/mcperr"
)

// Middleware bounds concurrent tool calls, applies the operation timeout and
// scopes the request logger to the tool and session being served.
type Middleware struct {
	ctrl *Controller
}

// NewMiddleware constructs a Middleware bound to ctrl.
func NewMiddleware(ctrl *Controller) *Middleware {
	return &Middleware{ctrl: ctrl}
}

// ToolMiddleware implements mcp-go's tool handler middleware.
func (m *Middleware) ToolMiddleware(next server.ToolHandlerFunc) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		ctx = scopeLogger(ctx, req)
		logger := zerolog.Ctx(ctx)
		limits := m.ctrl.limits

		if err := m.acquire(ctx); err != nil {
			logger.Warn().Err(err).Msg("tool call rejected, concurrency limit reached")
			return mcperr.Wrapf(mcperr.BusyResource, "concurrent request limit reached (max=%d)", limits.MaxConcurrentRequests), nil
		}
		defer m.ctrl.ReleaseRequest()

		callCtx, cancel := ctx, context.CancelFunc(func() {})
		if limits.OperationTimeout > 0 {
			callCtx, cancel = context.WithTimeout(ctx, limits.OperationTimeout)
		}
		defer cancel()

		start := time.Now()
		res, err := next(callCtx, req)
		elapsed := time.Since(start)

		if errors.Is(err, context.DeadlineExceeded) || (err == nil && res == nil && errors.Is(callCtx.Err(), context.DeadlineExceeded)) {
			logger.Warn().Dur("elapsed", elapsed).Dur("timeout", limits.OperationTimeout).Msg("tool call timed out")
			return mcperr.Wrapf(mcperr.Timeout, "operation exceeded %s", limits.OperationTimeout), nil
		}
		logger.Debug().Dur("elapsed", elapsed).Msg("tool call finished")
		return res, err
	}
}

func (m *Middleware) acquire(ctx context.Context) error {
	if d := m.ctrl.limits.AcquireRequestTimeout; d > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d)
		defer cancel()
	}
	return m.ctrl.AcquireRequest(ctx)
}

// scopeLogger adds the tool name and, when the call names one, the session id
// to the context logger.
func scopeLogger(ctx context.Context, req mcp.CallToolRequest) context.Context {
	lc := zerolog.Ctx(ctx).With().Str("tool", req.Params.Name)
	if sid := req.GetString("session_id", ""); sid != "" {
		lc = lc.Str("session_id", sid)
	}
	logger := lc.Logger()
	return logger.WithContext(ctx)
}
