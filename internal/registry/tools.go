package registry

import (
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/vinodismyname/mcpeassc/internal/eassc"
	"github.com/vinodismyname/mcpeassc/internal/insights"
)

const viewParams = " Filters: company, category (product) and data_type (all = sales+stocks, sales, stocks); omitted filters mean all. Errors: INVALID_SESSION, NO_DATA."

// RegisterTools defines every tool on s, records it in reg and binds it to h.
func RegisterTools(s *server.MCPServer, reg *Registry, h *Handlers) {
	add := func(tool mcp.Tool, handler server.ToolHandlerFunc) {
		s.AddTool(tool, handler)
		reg.Register(tool, kindOf(tool.Name))
	}

	add(mcp.NewTool(
		ToolProcessFiles,
		mcp.WithDescription("Read EASSC sales/stock report files (CSV, XLS, XLSX) from allowed directories and replace the session dataset with the merged records. Company names come from the file name (COMPANY_X -> Company X); files whose name contains 'stock' carry stock levels, all others sales. Each file is scanned for year markers (20XX), the month header below them and the product rows of each section. Files are read in order; the first unreadable file aborts the run and the previous dataset stays in place. Omit session_id to start a new session. Errors: VALIDATION, PERMISSION_DENIED, UNSUPPORTED_FORMAT, READ_FAILED, CORRUPT_WORKBOOK, PARSE_FAILED (strict_numbers), BUSY_RESOURCE, LIMIT_EXCEEDED."),
		mcp.WithInputSchema[ProcessFilesInput](),
		mcp.WithOutputSchema[ProcessOutput](),
	), mcp.NewTypedToolHandler(h.ProcessFiles))

	add(mcp.NewTool(
		ToolUploadFiles,
		mcp.WithDescription("Same as process_files but with report content supplied inline as base64, mirroring a browser upload. File names drive company and data type detection."),
		mcp.WithInputSchema[UploadFilesInput](),
		mcp.WithOutputSchema[ProcessOutput](),
	), mcp.NewTypedToolHandler(h.UploadFiles))

	add(mcp.NewTool(
		ToolInspectFile,
		mcp.WithDescription("Scan one report file without storing it and list the year sections found: marker row, month header row, month columns, data rows and observation counts. Use it to diagnose files that produce no records."),
		mcp.WithInputSchema[InspectFileInput](),
		mcp.WithOutputSchema[eassc.FileSummary](),
	), mcp.NewTypedToolHandler(h.InspectFile))

	add(mcp.NewTool(
		ToolListFilters,
		mcp.WithDescription("List the companies, products and data types available for filtering in a session."),
		mcp.WithInputSchema[SessionInput](),
		mcp.WithOutputSchema[ListFiltersOutput](),
	), mcp.NewTypedToolHandler(h.ListFilters))

	add(mcp.NewTool(
		ToolGetRecords,
		mcp.WithDescription("Page through the merged monthly records (company, product, year, month, sales, stocks) matching a filter. Pass meta.nextCursor to continue; cursors expire when the session is reprocessed (CURSOR_INVALID)."),
		mcp.WithInputSchema[GetRecordsInput](),
		mcp.WithOutputSchema[RecordsOutput](),
	), mcp.NewTypedToolHandler(h.GetRecords))

	add(mcp.NewTool(
		ToolMonthlyTable,
		mcp.WithDescription("Product x month grid with row totals, row averages over non-zero months, column totals, grand total and grand average. Figures of several companies for one product and month are added."+viewParams),
		mcp.WithInputSchema[ViewInput](),
		mcp.WithOutputSchema[ViewOutput[insights.MonthlyTable]](),
	), mcp.NewTypedToolHandler(viewHandler(h, monthlyTableView)))

	add(mcp.NewTool(
		ToolAnnualTotals,
		mcp.WithDescription("Per product and year totals, also transposed into one series per year."+viewParams),
		mcp.WithInputSchema[ViewInput](),
		mcp.WithOutputSchema[ViewOutput[AnnualView]](),
	), mcp.NewTypedToolHandler(viewHandler(h, annualView)))

	add(mcp.NewTool(
		ToolMonthlyEvolution,
		mcp.WithDescription("Month-by-month series per product over all months present."+viewParams),
		mcp.WithInputSchema[ViewInput](),
		mcp.WithOutputSchema[ViewOutput[insights.Evolution]](),
	), mcp.NewTypedToolHandler(viewHandler(h, evolutionView)))

	add(mcp.NewTool(
		ToolMarketShare,
		mcp.WithDescription("Share of each product in the filtered total, largest first, with the Herfindahl index and a concentration band."+viewParams),
		mcp.WithInputSchema[ViewInput](),
		mcp.WithOutputSchema[ViewOutput[insights.ShareReport]](),
	), mcp.NewTypedToolHandler(viewHandler(h, shareView)))

	add(mcp.NewTool(
		ToolCategoryTotals,
		mcp.WithDescription("Total per product, largest first."+viewParams),
		mcp.WithInputSchema[ViewInput](),
	), mcp.NewTypedToolHandler(viewHandler(h, categoryView)))

	add(mcp.NewTool(
		ToolGrowthRates,
		mcp.WithDescription("Growth per product between the earliest and latest year: (last-first)/first*100. Needs two distinct years; products starting at 0 have no defined rate."+viewParams),
		mcp.WithInputSchema[ViewInput](),
		mcp.WithOutputSchema[ViewOutput[insights.GrowthReport]](),
	), mcp.NewTypedToolHandler(viewHandler(h, growthView)))

	add(mcp.NewTool(
		ToolSeasonalProfile,
		mcp.WithDescription("Average of non-zero figures per calendar month across all years."+viewParams),
		mcp.WithInputSchema[ViewInput](),
	), mcp.NewTypedToolHandler(viewHandler(h, seasonalView)))

	add(mcp.NewTool(
		ToolTrendAnalysis,
		mcp.WithDescription("Year-over-year growth over the earliest three years per product, classified as Strong Growth, Growing, Declining, Weak or Stable."+viewParams),
		mcp.WithInputSchema[ViewInput](),
		mcp.WithOutputSchema[ViewOutput[insights.TrendReport]](),
	), mcp.NewTypedToolHandler(viewHandler(h, trendView)))

	add(mcp.NewTool(
		ToolCompositionShift,
		mcp.WithDescription("Product share in the earliest vs the latest year and the change in percentage points, largest movement first."+viewParams),
		mcp.WithInputSchema[ViewInput](),
		mcp.WithOutputSchema[ViewOutput[insights.Composition]](),
	), mcp.NewTypedToolHandler(viewHandler(h, compositionView)))

	add(mcp.NewTool(
		ToolSummaryStats,
		mcp.WithDescription("Headline figures: total, record/product/company/month counts, average, minimum, median and maximum monthly total."+viewParams),
		mcp.WithInputSchema[ViewInput](),
		mcp.WithOutputSchema[ViewOutput[insights.Summary]](),
	), mcp.NewTypedToolHandler(viewHandler(h, summaryView)))

	add(mcp.NewTool(
		ToolCloseSession,
		mcp.WithDescription("Close a session and free its slot."),
		mcp.WithInputSchema[SessionInput](),
		mcp.WithOutputSchema[CloseSessionOutput](),
	), mcp.NewTypedToolHandler(h.CloseSession))

	add(mcp.NewTool(
		ToolServerStatus,
		mcp.WithDescription("Report server version, effective limits, open sessions and per-tool call counts."),
		mcp.WithOutputSchema[StatusOutput](),
	), mcp.NewTypedToolHandler(h.ServerStatus))
}

func kindOf(name string) Kind {
	switch name {
	case ToolProcessFiles, ToolUploadFiles:
		return KindIngest
	case ToolInspectFile, ToolListFilters, ToolGetRecords, ToolCloseSession:
		return KindSession
	case ToolServerStatus:
		return KindAdmin
	default:
		return KindView
	}
}
