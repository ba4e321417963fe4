package registry

import (
	"github.com/vinodismyname/mcpeassc/internal/eassc"
	"github.com/vinodismyname/mcpeassc/internal/insights"
	"github.com/vinodismyname/mcpeassc/internal/runtime"
	"github.com/vinodismyname/mcpeassc/internal/telemetry"
)

// Tool names.
const (
	ToolProcessFiles     = "process_files"
	ToolUploadFiles      = "upload_files"
	ToolInspectFile      = "inspect_file"
	ToolListFilters      = "list_filters"
	ToolGetRecords       = "get_records"
	ToolMonthlyTable     = "monthly_table"
	ToolAnnualTotals     = "annual_totals"
	ToolMonthlyEvolution = "monthly_evolution"
	ToolMarketShare      = "market_share"
	ToolCategoryTotals   = "category_totals"
	ToolGrowthRates      = "growth_rates"
	ToolSeasonalProfile  = "seasonal_profile"
	ToolTrendAnalysis    = "trend_analysis"
	ToolCompositionShift = "composition_shift"
	ToolSummaryStats     = "summary_stats"
	ToolCloseSession     = "close_session"
	ToolServerStatus     = "server_status"
)

// --- Input / Output Schemas (typed for discovery) ---

// ProcessFilesInput selects report files on disk for a processing run.
type ProcessFilesInput struct {
	SessionID     string   `json:"session_id,omitempty" validate:"omitempty,uuid" jsonschema_description:"Existing session to replace; omit to create a new session"`
	Paths         []string `json:"paths" validate:"required,min=1,dive,required,report_ext" jsonschema_description:"Report files (.csv, .xls, .xlsx, .xlsm) inside an allowed directory, processed in order"`
	ProductColumn *int     `json:"product_column,omitempty" validate:"omitempty,min=0,max=64" jsonschema_description:"0-based column holding product labels (default 1)"`
	StrictNumbers *bool    `json:"strict_numbers,omitempty" jsonschema_description:"Fail on non-numeric month cells instead of reading them as 0"`
}

// UploadedFile is one inline report.
type UploadedFile struct {
	Name          string `json:"name" validate:"required,report_ext" jsonschema_description:"Original file name; company and data type are derived from it"`
	ContentBase64 string `json:"content_base64" validate:"required,b64" jsonschema_description:"File bytes, standard base64"`
}

// UploadFilesInput carries inline report content for a processing run.
type UploadFilesInput struct {
	SessionID     string         `json:"session_id,omitempty" validate:"omitempty,uuid" jsonschema_description:"Existing session to replace; omit to create a new session"`
	Files         []UploadedFile `json:"files" validate:"required,min=1,dive" jsonschema_description:"Report files, processed in order"`
	ProductColumn *int           `json:"product_column,omitempty" validate:"omitempty,min=0,max=64" jsonschema_description:"0-based column holding product labels (default 1)"`
	StrictNumbers *bool          `json:"strict_numbers,omitempty" jsonschema_description:"Fail on non-numeric month cells instead of reading them as 0"`
}

// ProcessOutput summarizes the dataset produced by a processing run.
type ProcessOutput struct {
	SessionID    string              `json:"session_id" jsonschema_description:"Session holding the dataset"`
	Version      int64               `json:"version" jsonschema_description:"Dataset version; bumps on every successful run"`
	Records      int                 `json:"records"`
	Observations int                 `json:"observations"`
	Companies    []string            `json:"companies"`
	Products     []string            `json:"products"`
	Files        []eassc.FileSummary `json:"files"`
}

// InspectFileInput selects one file for layout diagnostics.
type InspectFileInput struct {
	Path          string `json:"path" validate:"required,report_ext" jsonschema_description:"Report file inside an allowed directory"`
	ProductColumn *int   `json:"product_column,omitempty" validate:"omitempty,min=0,max=64" jsonschema_description:"0-based column holding product labels (default 1)"`
}

// SessionInput addresses a session.
type SessionInput struct {
	SessionID string `json:"session_id" validate:"required,uuid" jsonschema_description:"Session ID returned by process_files or upload_files"`
}

// ListFiltersOutput lists the selectable filter values of a session.
type ListFiltersOutput struct {
	SessionID string   `json:"session_id"`
	Version   int64    `json:"version"`
	Companies []string `json:"companies"`
	Products  []string `json:"products"`
	DataTypes []string `json:"data_types"`
	Records   int      `json:"records"`
	Files     []string `json:"files"`
}

// ViewInput addresses a session and a filter selection.
type ViewInput struct {
	SessionID string `json:"session_id" validate:"required,uuid" jsonschema_description:"Session ID returned by process_files or upload_files"`
	Company   string `json:"company,omitempty" validate:"omitempty,max=128" jsonschema_description:"Company filter or 'all' (default)"`
	Category  string `json:"category,omitempty" validate:"omitempty,max=256" jsonschema_description:"Product filter or 'all' (default)"`
	DataType  string `json:"data_type,omitempty" validate:"omitempty,datatype" jsonschema_description:"all (sales+stocks), sales or stocks"`
}

func (in ViewInput) filter() insights.FilterState {
	return insights.FilterState{Company: in.Company, Category: in.Category, DataType: in.DataType}.Normalized()
}

// ViewOutput wraps a computed view with the selection it was computed for.
type ViewOutput[T any] struct {
	SessionID string               `json:"session_id"`
	Version   int64                `json:"version"`
	Filter    insights.FilterState `json:"filter"`
	Records   int                  `json:"records" jsonschema_description:"Records matching the filter"`
	Result    T                    `json:"result"`
}

// GetRecordsInput pages through the filtered records of a session.
type GetRecordsInput struct {
	SessionID string `json:"session_id,omitempty" validate:"omitempty,uuid" jsonschema_description:"Session ID; required unless cursor is supplied"`
	Company   string `json:"company,omitempty" validate:"omitempty,max=128"`
	Category  string `json:"category,omitempty" validate:"omitempty,max=256"`
	DataType  string `json:"data_type,omitempty" validate:"omitempty,datatype"`
	PageSize  int    `json:"page_size,omitempty" validate:"omitempty,min=1,max=2000" jsonschema_description:"Records per page (default 200)"`
	Cursor    string `json:"cursor,omitempty" validate:"omitempty,cursor" jsonschema_description:"Opaque cursor from a previous page; takes precedence over filters"`
}

// PageMeta captures paging/truncation metadata.
type PageMeta struct {
	Total      int    `json:"total"`
	Offset     int    `json:"offset"`
	Returned   int    `json:"returned"`
	Truncated  bool   `json:"truncated"`
	NextCursor string `json:"nextCursor,omitempty"`
}

// RecordsOutput is one page of records.
type RecordsOutput struct {
	SessionID string               `json:"session_id"`
	Version   int64                `json:"version"`
	Filter    insights.FilterState `json:"filter"`
	Records   []eassc.Record       `json:"records"`
	Meta      PageMeta             `json:"meta"`
}

// CloseSessionOutput reports a closed session.
type CloseSessionOutput struct {
	SessionID string `json:"session_id"`
	Closed    bool   `json:"closed"`
}

// AnnualView pairs per-product annual series with the per-year transposition.
type AnnualView struct {
	insights.AnnualTotals
	ByYear []insights.Series `json:"by_year"`
}

// StatusOutput reports server limits and usage.
type StatusOutput struct {
	Version          string               `json:"version"`
	Revision         string               `json:"revision,omitempty"`
	Limits           runtime.Limits       `json:"limits"`
	OpenSessions     int                  `json:"open_sessions"`
	Model            string               `json:"model"`
	ModelContextSize int                  `json:"model_context_size"`
	UploadsEnabled   bool                 `json:"uploads_enabled"`
	Tools            []telemetry.ToolStat `json:"tools"`
	Catalog          []ToolInfo           `json:"catalog,omitempty"`
}
