package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"ministrydocs/internal/model"
	"ministrydocs/internal/report"
	"ministrydocs/internal/repository"
)

// Export formats.
const (
	FormatExcel = "excel"
	FormatPDF   = "pdf"
)

// topUserLimit caps the ACTIVITY_REPORT user table.
const topUserLimit = 10

// ExportResult is a rendered report file ready for download.
type ExportResult struct {
	FileName    string
	ContentType string
	Data        []byte
}

// ReportService defines the reporting and dashboard use cases.
type ReportService interface {
	// Generate runs the report described by the params.
	Generate(ctx context.Context, p report.Params) (*report.Result, error)

	// Export generates the report and renders it to the requested
	// format. The export is recorded in the audit trail.
	Export(ctx context.Context, actor Actor, p report.Params, format string) (*ExportResult, error)

	// Dashboard assembles the administrative overview.
	Dashboard(ctx context.Context) (*report.Dashboard, error)
}

type reportService struct {
	reports  repository.ReportRepository
	audits   repository.AuditRepository
	renderer report.Renderer
	now      func() time.Time
}

// NewReportService constructs a new ReportService.
func NewReportService(reports repository.ReportRepository, audits repository.AuditRepository, renderer report.Renderer) ReportService {
	return &reportService{reports: reports, audits: audits, renderer: renderer, now: func() time.Time { return time.Now().UTC() }}
}

func (s *reportService) Generate(ctx context.Context, p report.Params) (*report.Result, error) {
	if !p.Type.Valid() {
		return nil, fmt.Errorf("%w: unknown report type %q", ErrValidation, p.Type)
	}
	now := s.now()
	from, to := p.Window(now)

	result := &report.Result{Type: p.Type, Filters: p}
	switch p.Type {
	case report.DocumentsByDivision:
		rows, err := s.reports.DocumentsByDivision(ctx, from, to, p.DivisionID, p.Status)
		if err != nil {
			return nil, fmt.Errorf("documents by division: %w", err)
		}
		total := 0
		for _, r := range rows {
			total += r.DocumentCount
		}
		result.Data = report.DivisionTable(rows)
		result.Summary = report.Summary{"totalDocuments": total, "divisionCount": len(rows)}

	case report.StatusSummary:
		rows, err := s.reports.StatusSummaryRows(ctx, from, to, p.DivisionID)
		if err != nil {
			return nil, fmt.Errorf("status summary: %w", err)
		}
		total := 0
		for _, r := range rows {
			total += r.Count
		}
		result.Data = report.StatusTable(rows)
		result.Summary = report.Summary{"totalStatusChanges": total, "statusCount": len(rows)}

	case report.OverdueAssignments:
		rows, err := s.reports.OverdueRows(ctx, now, p.DivisionID)
		if err != nil {
			return nil, fmt.Errorf("overdue assignments: %w", err)
		}
		result.Data = report.OverdueTable(rows)
		result.Summary = report.Summary{"totalOverdue": len(rows)}

	case report.ActivityReport:
		uploads, downloads, logins, err := s.reports.ActivityCounts(ctx, from, to)
		if err != nil {
			return nil, fmt.Errorf("activity counts: %w", err)
		}
		rows, err := s.reports.TopUsers(ctx, from, to, topUserLimit)
		if err != nil {
			return nil, fmt.Errorf("top users: %w", err)
		}
		result.Data = report.ActivityTable(rows)
		result.Summary = report.Summary{
			"uploads":       uploads,
			"downloads":     downloads,
			"logins":        logins,
			"totalActivity": uploads + downloads + logins,
		}
	}
	return result, nil
}

func (s *reportService) Export(ctx context.Context, actor Actor, p report.Params, format string) (*ExportResult, error) {
	format = strings.ToLower(strings.TrimSpace(format))
	if format != FormatExcel && format != FormatPDF {
		return nil, fmt.Errorf("%w: unknown export format %q", ErrValidation, format)
	}

	result, err := s.Generate(ctx, p)
	if err != nil {
		return nil, err
	}
	now := s.now()

	entry := model.NewAudit(model.ActionExportReport, model.EntityReport, nil, actor.ref(), map[string]any{
		"reportType": string(p.Type),
		"format":     format,
	})
	if _, err := s.audits.Create(ctx, entry); err != nil {
		return nil, fmt.Errorf("record export: %w", err)
	}

	meta := report.Meta{
		Title:       reportTitle(p.Type),
		ReportType:  p.Type,
		GeneratedAt: now,
		Filters:     exportFilters(p),
	}
	base := fmt.Sprintf("%s_%s", strings.ToLower(string(p.Type)), now.Format("20060102_150405"))

	switch format {
	case FormatExcel:
		data, err := s.renderer.Spreadsheet(result.Data, meta)
		if err != nil {
			return nil, fmt.Errorf("render spreadsheet: %w", err)
		}
		return &ExportResult{
			FileName:    base + ".xlsx",
			ContentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
			Data:        data,
		}, nil
	default:
		data, err := s.renderer.PDF(result.Data, meta)
		if err != nil {
			return nil, fmt.Errorf("render pdf: %w", err)
		}
		return &ExportResult{
			FileName:    base + ".pdf",
			ContentType: "application/pdf",
			Data:        data,
		}, nil
	}
}

func (s *reportService) Dashboard(ctx context.Context) (*report.Dashboard, error) {
	now := s.now()
	startOfToday := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	startOfWeek := startOfToday.AddDate(0, 0, -7)

	d, err := s.reports.Dashboard(ctx, now, startOfToday, startOfWeek)
	if err != nil {
		return nil, fmt.Errorf("dashboard: %w", err)
	}
	return d, nil
}

func reportTitle(t report.Type) string {
	switch t {
	case report.DocumentsByDivision:
		return "Documents by Division"
	case report.StatusSummary:
		return "Status Summary"
	case report.OverdueAssignments:
		return "Overdue Assignments"
	case report.ActivityReport:
		return "Activity Report"
	}
	return string(t)
}

func exportFilters(p report.Params) map[string]string {
	f := map[string]string{
		"Time Range": string(p.TimeRange),
	}
	if p.DivisionID != "" {
		f["Division"] = p.DivisionID
	}
	if p.Status != "" {
		f["Status"] = p.Status
	}
	if p.DateFrom != nil {
		f["From"] = p.DateFrom.Format("2006-01-02")
	}
	if p.DateTo != nil {
		f["To"] = p.DateTo.Format("2006-01-02")
	}
	return f
}
