package registry

import (
	"context"
	"errors"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/vinodismyname/mcpeassc/internal/eassc"
	"github.com/vinodismyname/mcpeassc/internal/insights"
	"github.com/vinodismyname/mcpeassc/internal/runtime"
	"github.com/vinodismyname/mcpeassc/internal/security"
	"github.com/vinodismyname/mcpeassc/internal/sessions"
	"github.com/vinodismyname/mcpeassc/internal/tabular"
	"github.com/vinodismyname/mcpeassc/pkg/mcperr"
)

// codeFor maps domain errors to catalog codes.
func codeFor(err error) mcperr.Code {
	var parseErr *eassc.ParseError
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return mcperr.Timeout
	case errors.Is(err, sessions.ErrHandleNotFound):
		return mcperr.InvalidSession
	case errors.Is(err, sessions.ErrBusy):
		return mcperr.BusyResource
	case errors.Is(err, sessions.ErrNoDataset), errors.Is(err, insights.ErrNotEnoughYears):
		return mcperr.NoData
	case errors.Is(err, runtime.ErrSessionLimit), errors.Is(err, eassc.ErrTooManyFiles):
		return mcperr.LimitExceeded
	case errors.Is(err, eassc.ErrNoFiles):
		return mcperr.Validation
	case errors.Is(err, security.ErrNotAllowed):
		return mcperr.PermissionDenied
	case errors.Is(err, security.ErrUnsupportedExtension), errors.Is(err, tabular.ErrUnsupportedFormat):
		return mcperr.UnsupportedFormat
	case errors.Is(err, tabular.ErrTooLarge):
		return mcperr.FileTooLarge
	case errors.Is(err, tabular.ErrCorrupt):
		return mcperr.CorruptWorkbook
	case errors.As(err, &parseErr):
		return mcperr.ParseFailed
	case errors.Is(err, security.ErrNotFound):
		return mcperr.ReadFailed
	}
	var readErr *tabular.ReadError
	if errors.As(err, &readErr) {
		return mcperr.ReadFailed
	}
	return mcperr.AnalysisFailed
}

// toolError converts err into an MCP tool error result carrying its code and
// next-step guidance.
func toolError(err error) *mcp.CallToolResult {
	return mcperr.New(codeFor(err), err.Error())
}
