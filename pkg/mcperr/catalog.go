// Package mcperr renders tool failures as coded error results with
// next-step guidance for MCP clients.
package mcperr

import (
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
)

// Code is the machine-readable prefix of every tool error.
type Code string

const (
	// Input and session state
	Validation     Code = "VALIDATION"
	InvalidSession Code = "INVALID_SESSION"
	CursorInvalid  Code = "CURSOR_INVALID"
	NoData         Code = "NO_DATA"

	// Capacity
	BusyResource  Code = "BUSY_RESOURCE"
	Timeout       Code = "TIMEOUT"
	LimitExceeded Code = "LIMIT_EXCEEDED"
	FileTooLarge  Code = "FILE_TOO_LARGE"

	// Reading reports
	ReadFailed  Code = "READ_FAILED"
	ParseFailed Code = "PARSE_FAILED"

	// Analysis
	AnalysisFailed Code = "ANALYSIS_FAILED"

	// File access
	CorruptWorkbook   Code = "CORRUPT_WORKBOOK"
	UnsupportedFormat Code = "UNSUPPORTED_FORMAT"
	PermissionDenied  Code = "PERMISSION_DENIED"
)

// Entry is the default message and client guidance of a code.
type Entry struct {
	Code      Code
	Message   string
	Retryable bool
	NextSteps []string
}

var catalog = map[Code]Entry{
	Validation:     {Code: Validation, Message: "invalid inputs", Retryable: true, NextSteps: []string{"Correct the inputs per schema and retry", "See examples in tool description"}},
	InvalidSession: {Code: InvalidSession, Message: "session not found or expired", Retryable: true, NextSteps: []string{"Call process_files or upload_files to start a new session"}},
	CursorInvalid:  {Code: CursorInvalid, Message: "cursor is invalid for current context", Retryable: true, NextSteps: []string{"Restart pagination from the first page", "Avoid reprocessing files between pages"}},
	NoData:         {Code: NoData, Message: "no records match the current selection", Retryable: true, NextSteps: []string{"Call list_filters to see available companies and products", "Relax the company, category or data_type filter"}},

	BusyResource:  {Code: BusyResource, Message: "resource busy", Retryable: true, NextSteps: []string{"Retry after a short delay"}},
	Timeout:       {Code: Timeout, Message: "operation exceeded configured time limit", Retryable: true, NextSteps: []string{"Process fewer files per call or increase the timeout"}},
	LimitExceeded: {Code: LimitExceeded, Message: "operation exceeded configured limits", Retryable: true, NextSteps: []string{"Send fewer files per call", "Close unused sessions with close_session"}},
	FileTooLarge:  {Code: FileTooLarge, Message: "file exceeds configured size", Retryable: false, NextSteps: []string{"Use a smaller report or increase EASSC_MAX_FILE_BYTES"}},

	ReadFailed:  {Code: ReadFailed, Message: "failed to read report file", Retryable: true, NextSteps: []string{"Verify path, permissions, and format"}},
	ParseFailed: {Code: ParseFailed, Message: "non-numeric value in a month column", Retryable: true, NextSteps: []string{"Fix the cell in the report", "Retry with strict_numbers=false to read it as 0"}},

	AnalysisFailed: {Code: AnalysisFailed, Message: "analysis failed", Retryable: true, NextSteps: []string{"Verify the filter and retry"}},

	CorruptWorkbook:   {Code: CorruptWorkbook, Message: "workbook appears corrupt or unreadable", Retryable: false, NextSteps: []string{"Open in Excel and re-save or repair", "Provide a clean copy"}},
	UnsupportedFormat: {Code: UnsupportedFormat, Message: "unsupported report format", Retryable: false, NextSteps: []string{"Provide .csv, .xls, .xlsx or .xlsm files"}},
	PermissionDenied:  {Code: PermissionDenied, Message: "insufficient permissions to access path", Retryable: false, NextSteps: []string{"Choose a file inside EASSC_ALLOWED_DIRS"}},
}

// Lookup returns the catalog entry for code.
func Lookup(code Code) (Entry, bool) {
	e, ok := catalog[code]
	return e, ok
}

// Text renders the entry as "CODE: message | nextSteps: a; b". detail
// replaces the catalog message when non-empty.
func (e Entry) Text(detail string) string {
	var b strings.Builder
	b.WriteString(string(e.Code))
	b.WriteString(": ")
	if detail = strings.TrimSpace(detail); detail != "" {
		b.WriteString(detail)
	} else {
		b.WriteString(e.Message)
	}
	if len(e.NextSteps) > 0 {
		b.WriteString(" | nextSteps: ")
		b.WriteString(strings.Join(e.NextSteps, "; "))
	}
	return b.String()
}

// normalize renders code and detail. Codes missing from the catalog are
// passed through without guidance.
func normalize(code Code, detail string) string {
	if e, ok := catalog[code]; ok {
		return e.Text(detail)
	}
	if detail = strings.TrimSpace(detail); detail != "" {
		return fmt.Sprintf("%s: %s", code, detail)
	}
	return string(code)
}

// FromText turns a "CODE: message" string, as produced by pkg/validation,
// into a tool error result enriched with catalog guidance. Text without a
// code prefix is reported as VALIDATION.
func FromText(text string) *mcp.CallToolResult {
	text = strings.TrimSpace(text)
	head, tail, found := strings.Cut(text, ":")
	if !found {
		return New(Validation, text)
	}
	return New(Code(strings.TrimSpace(head)), tail)
}

// New returns a tool error result for code; an empty message selects the
// catalog default.
func New(code Code, message string) *mcp.CallToolResult {
	return mcp.NewToolResultError(normalize(code, message))
}

// Wrapf is New with a formatted message.
func Wrapf(code Code, format string, args ...any) *mcp.CallToolResult {
	return New(code, fmt.Sprintf(format, args...))
}
