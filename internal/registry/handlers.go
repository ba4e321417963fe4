package registry

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/rs/zerolog"
	"github.com/vinodismyname/mcpeassc/internal/eassc"
	"github.com/vinodismyname/mcpeassc/internal/insights"
	"github.com/vinodismyname/mcpeassc/internal/runtime"
	"github.com/vinodismyname/mcpeassc/internal/security"
	"github.com/vinodismyname/mcpeassc/internal/sessions"
	"github.com/vinodismyname/mcpeassc/internal/tabular"
	"github.com/vinodismyname/mcpeassc/internal/telemetry"
	"github.com/vinodismyname/mcpeassc/pkg/mcperr"
	"github.com/vinodismyname/mcpeassc/pkg/numfmt"
	"github.com/vinodismyname/mcpeassc/pkg/pagination"
	"github.com/vinodismyname/mcpeassc/pkg/validation"
	"github.com/vinodismyname/mcpeassc/pkg/version"
)

// ScanDefaults are the layout settings used when a call does not override them.
type ScanDefaults struct {
	ProductColumn   int
	HeaderLookahead int
	StrictNumbers   bool
}

// Handlers implements the MCP tools over a session manager.
type Handlers struct {
	Sessions      *sessions.Manager
	Security      *security.Manager
	Limits        runtime.Limits
	Scan          ScanDefaults
	Budget        SummaryBudget
	Stats         *telemetry.Stats
	Registry      *Registry
	EnableUploads bool
}

func structured(out any, lines []string, b SummaryBudget) *mcp.CallToolResult {
	summary := ""
	if len(lines) > 0 {
		summary = lines[0]
	}
	text, _ := b.Fit(lines)
	res := mcp.NewToolResultStructured(out, summary)
	res.Content = []mcp.Content{mcp.NewTextContent(text)}
	return res
}

func (h *Handlers) processor(productColumn *int, strict *bool) *eassc.Processor {
	col := h.Scan.ProductColumn
	if productColumn != nil {
		col = *productColumn
	}
	st := h.Scan.StrictNumbers
	if strict != nil {
		st = *strict
	}
	return &eassc.Processor{
		Reader:   tabular.Reader{MaxBytes: h.Limits.MaxFileBytes},
		Scanner:  eassc.NewScanner(col, h.Scan.HeaderLookahead, eassc.PolicyFor(st)),
		MaxFiles: h.Limits.MaxFilesPerBatch,
	}
}

// ProcessFiles reads report files from allowed directories into a session.
func (h *Handlers) ProcessFiles(ctx context.Context, req mcp.CallToolRequest, in ProcessFilesInput) (*mcp.CallToolResult, error) {
	if msg := validation.ValidateStruct(in); msg != "" {
		return mcperr.FromText(msg), nil
	}
	if h.Limits.MaxFilesPerBatch > 0 && len(in.Paths) > h.Limits.MaxFilesPerBatch {
		return mcperr.Wrapf(mcperr.LimitExceeded, "%d files exceed the batch limit of %d", len(in.Paths), h.Limits.MaxFilesPerBatch), nil
	}
	if h.Security == nil {
		return mcperr.New(mcperr.PermissionDenied, "no allowed directories configured"), nil
	}
	paths, err := h.Security.ResolveBatch(in.Paths)
	if err != nil {
		return toolError(err), nil
	}
	sources := make([]tabular.Source, 0, len(paths))
	for _, p := range paths {
		sources = append(sources, tabular.FileSource(p))
	}
	return h.ingest(ctx, in.SessionID, sources, in.ProductColumn, in.StrictNumbers)
}

// UploadFiles processes inline base64 report content into a session.
func (h *Handlers) UploadFiles(ctx context.Context, req mcp.CallToolRequest, in UploadFilesInput) (*mcp.CallToolResult, error) {
	if !h.EnableUploads {
		return mcperr.New(mcperr.PermissionDenied, "uploads are disabled; use process_files"), nil
	}
	if msg := validation.ValidateStruct(in); msg != "" {
		return mcperr.FromText(msg), nil
	}
	if h.Limits.MaxFilesPerBatch > 0 && len(in.Files) > h.Limits.MaxFilesPerBatch {
		return mcperr.Wrapf(mcperr.LimitExceeded, "%d files exceed the batch limit of %d", len(in.Files), h.Limits.MaxFilesPerBatch), nil
	}
	sources := make([]tabular.Source, 0, len(in.Files))
	for _, f := range in.Files {
		name := f.Name
		if h.Security != nil {
			base, err := h.Security.ValidateUploadName(f.Name)
			if err != nil {
				return toolError(fmt.Errorf("%s: %w", f.Name, err)), nil
			}
			name = base
		}
		content, err := base64.StdEncoding.DecodeString(strings.TrimSpace(f.ContentBase64))
		if err != nil {
			return mcperr.Wrapf(mcperr.Validation, "%s: content is not valid base64", f.Name), nil
		}
		if h.Limits.MaxFileBytes > 0 && int64(len(content)) > h.Limits.MaxFileBytes {
			return mcperr.Wrapf(mcperr.FileTooLarge, "%s is %d bytes (max %d)", name, len(content), h.Limits.MaxFileBytes), nil
		}
		sources = append(sources, tabular.BytesSource(name, content))
	}
	return h.ingest(ctx, in.SessionID, sources, in.ProductColumn, in.StrictNumbers)
}

func (h *Handlers) ingest(ctx context.Context, sessionID string, sources []tabular.Source, productColumn *int, strict *bool) (*mcp.CallToolResult, error) {
	logger := zerolog.Ctx(ctx)
	created := false
	if sessionID == "" {
		id, err := h.Sessions.Create(ctx)
		if err != nil {
			return toolError(err), nil
		}
		sessionID, created = id, true
	}

	proc := h.processor(productColumn, strict)
	if _, err := h.Sessions.Replace(ctx, sessionID, func(ctx context.Context) (*eassc.Dataset, error) {
		return proc.Process(ctx, sources)
	}); err != nil {
		if created {
			_ = h.Sessions.CloseHandle(sessionID)
		}
		logger.Warn().Err(err).Str("session_id", sessionID).Msg("processing run failed")
		return toolError(err), nil
	}

	var out ProcessOutput
	if err := h.Sessions.WithRead(sessionID, func(s sessions.Snapshot) error {
		out = ProcessOutput{
			SessionID:    s.ID,
			Version:      s.Version,
			Records:      len(s.Dataset.Records),
			Observations: s.Dataset.Observations,
			Companies:    s.Dataset.Companies,
			Products:     s.Dataset.Products,
			Files:        s.Dataset.Files,
		}
		return nil
	}); err != nil {
		return toolError(err), nil
	}

	lines := []string{fmt.Sprintf("session=%s version=%d files=%d records=%d companies=%d products=%d",
		out.SessionID, out.Version, len(out.Files), out.Records, len(out.Companies), len(out.Products))}
	for _, f := range out.Files {
		lines = append(lines, fmt.Sprintf("- %s company=%q type=%s sections=%d observations=%d", f.Name, f.Company, f.DataType, len(f.Sections), f.Observations))
	}
	return structured(out, lines, h.Budget), nil
}

// InspectFile reports the year sections detected in one file.
func (h *Handlers) InspectFile(ctx context.Context, req mcp.CallToolRequest, in InspectFileInput) (*mcp.CallToolResult, error) {
	if msg := validation.ValidateStruct(in); msg != "" {
		return mcperr.FromText(msg), nil
	}
	if h.Security == nil {
		return mcperr.New(mcperr.PermissionDenied, "no allowed directories configured"), nil
	}
	canonical, err := h.Security.ValidateOpenPath(in.Path)
	if err != nil {
		return toolError(fmt.Errorf("%s: %w", in.Path, err)), nil
	}
	sum, err := h.processor(in.ProductColumn, nil).Inspect(ctx, tabular.FileSource(canonical))
	if err != nil {
		return toolError(err), nil
	}

	lines := []string{fmt.Sprintf("file=%s company=%q type=%s rows=%d sections=%d observations=%d",
		sum.Name, sum.Company, sum.DataType, sum.Rows, len(sum.Sections), sum.Observations)}
	for _, s := range sum.Sections {
		if s.Skipped {
			lines = append(lines, fmt.Sprintf("- %d marker_row=%d no month header found", s.Year, s.MarkerRow+1))
			continue
		}
		lines = append(lines, fmt.Sprintf("- %d marker_row=%d header_row=%d months=%d data_rows=%d observations=%d",
			s.Year, s.MarkerRow+1, s.HeaderRow+1, len(s.MonthColumns), s.DataRows, s.Observations))
	}
	return structured(sum, lines, h.Budget), nil
}

// ListFilters returns the filter options of a session.
func (h *Handlers) ListFilters(ctx context.Context, req mcp.CallToolRequest, in SessionInput) (*mcp.CallToolResult, error) {
	if msg := validation.ValidateStruct(in); msg != "" {
		return mcperr.FromText(msg), nil
	}
	var out ListFiltersOutput
	err := h.Sessions.WithRead(in.SessionID, func(s sessions.Snapshot) error {
		out = ListFiltersOutput{
			SessionID: s.ID,
			Version:   s.Version,
			Companies: s.Dataset.Companies,
			Products:  s.Dataset.Products,
			DataTypes: []string{insights.All, string(eassc.Sales), string(eassc.Stocks)},
			Records:   len(s.Dataset.Records),
		}
		for _, f := range s.Dataset.Files {
			out.Files = append(out.Files, f.Name)
		}
		return nil
	})
	if err != nil {
		return toolError(err), nil
	}
	lines := []string{
		fmt.Sprintf("companies=%d products=%d records=%d", len(out.Companies), len(out.Products), out.Records),
		"companies: " + strings.Join(out.Companies, ", "),
		"products: " + strings.Join(out.Products, ", "),
	}
	return structured(out, lines, h.Budget), nil
}

// GetRecords pages through filtered records. A cursor pins the session,
// filter and dataset version of the first page.
func (h *Handlers) GetRecords(ctx context.Context, req mcp.CallToolRequest, in GetRecordsInput) (*mcp.CallToolResult, error) {
	if msg := validation.ValidateStruct(in); msg != "" {
		return mcperr.FromText(msg), nil
	}

	state := insights.FilterState{Company: in.Company, Category: in.Category, DataType: in.DataType}.Normalized()
	sessionID := in.SessionID
	offset := 0
	pageSize := in.PageSize
	var pinned int64
	if strings.TrimSpace(in.Cursor) != "" {
		cur, err := pagination.DecodeCursor(in.Cursor)
		if err != nil {
			return mcperr.New(mcperr.CursorInvalid, err.Error()), nil
		}
		state = insights.FilterState{Company: cur.Co, Category: cur.Ca, DataType: cur.Dt}.Normalized()
		if err := cur.Bind(sessionID, filterHash(state)); err != nil {
			return mcperr.New(mcperr.CursorInvalid, err.Error()), nil
		}
		sessionID, offset, pageSize, pinned = cur.Sid, cur.Off, cur.Ps, cur.Dsv
	}
	if sessionID == "" {
		return mcperr.New(mcperr.Validation, "session_id is required (or supply cursor)"), nil
	}
	if pageSize <= 0 {
		pageSize = h.Limits.RecordPageSize
	}
	if h.Limits.MaxRecordPage > 0 && pageSize > h.Limits.MaxRecordPage {
		pageSize = h.Limits.MaxRecordPage
	}

	var out RecordsOutput
	var cursorErr error
	err := h.Sessions.WithRead(sessionID, func(s sessions.Snapshot) error {
		if pinned != 0 && pinned != s.Version {
			cursorErr = errors.New("dataset was reprocessed since the cursor was issued")
			return nil
		}
		filtered := insights.Filter(s.Dataset.Records, state)
		total := len(filtered)
		if offset > total {
			offset = total
		}
		end := offset + pageSize
		if end > total {
			end = total
		}
		out = RecordsOutput{
			SessionID: s.ID,
			Version:   s.Version,
			Filter:    state,
			Records:   filtered[offset:end],
			Meta:      PageMeta{Total: total, Offset: offset, Returned: end - offset, Truncated: end < total},
		}
		if end < total {
			tok, err := pagination.EncodeCursor(pagination.Cursor{
				Sid: s.ID,
				Dsv: s.Version,
				Off: pagination.NextOffset(offset, end-offset),
				Ps:  pageSize,
				Fh:  filterHash(state),
				Co:  state.Company,
				Ca:  state.Category,
				Dt:  state.DataType,
			})
			if err != nil {
				return err
			}
			out.Meta.NextCursor = tok
		}
		return nil
	})
	if err != nil {
		return toolError(err), nil
	}
	if cursorErr != nil {
		return mcperr.New(mcperr.CursorInvalid, cursorErr.Error()), nil
	}

	lines := []string{fmt.Sprintf("total=%d offset=%d returned=%d truncated=%v", out.Meta.Total, out.Meta.Offset, out.Meta.Returned, out.Meta.Truncated)}
	for _, r := range out.Records {
		lines = append(lines, fmt.Sprintf("- %s | %s | %s | sales=%s stocks=%s",
			r.Company, r.Product, r.Period(), numfmt.FormatEuropean(r.Sales, 0), numfmt.FormatEuropean(r.Stocks, 0)))
	}
	return structured(out, lines, h.Budget), nil
}

func filterHash(state insights.FilterState) string {
	return pagination.FilterHash(state.Company, state.Category, state.DataType)
}

// CloseSession drops a session and its dataset.
func (h *Handlers) CloseSession(ctx context.Context, req mcp.CallToolRequest, in SessionInput) (*mcp.CallToolResult, error) {
	if msg := validation.ValidateStruct(in); msg != "" {
		return mcperr.FromText(msg), nil
	}
	if err := h.Sessions.CloseHandle(in.SessionID); err != nil {
		return toolError(err), nil
	}
	out := CloseSessionOutput{SessionID: in.SessionID, Closed: true}
	return structured(out, []string{"session closed: " + in.SessionID}, h.Budget), nil
}

// ServerStatus reports limits, open sessions and per-tool call counts.
func (h *Handlers) ServerStatus(ctx context.Context, req mcp.CallToolRequest, _ struct{}) (*mcp.CallToolResult, error) {
	build := version.Build()
	out := StatusOutput{
		Version:          build.Version,
		Revision:         build.Revision,
		Limits:           h.Limits,
		OpenSessions:     h.Sessions.Count(),
		Model:            h.Budget.Model,
		ModelContextSize: ContextWindow(h.Budget.Model),
		UploadsEnabled:   h.EnableUploads,
	}
	if h.Stats != nil {
		out.Tools = h.Stats.Snapshot()
	}
	if h.Registry != nil {
		out.Catalog = h.Registry.Catalog()
	}
	lines := []string{fmt.Sprintf("version=%s open_sessions=%d/%d max_files=%d uploads=%v",
		out.Version, out.OpenSessions, h.Limits.MaxOpenSessions, h.Limits.MaxFilesPerBatch, out.UploadsEnabled)}
	for _, t := range out.Tools {
		lines = append(lines, fmt.Sprintf("- %s calls=%d errors=%d", t.Tool, t.Calls, t.Errors))
	}
	return structured(out, lines, h.Budget), nil
}
