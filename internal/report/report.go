package report

import "time"

// Package report defines the read-side report shapes: typed rows per
// report type, the schema-agnostic Table used by export renderers, and
// the admin dashboard aggregate.

// Type identifies one of the four report shapes.
type Type string

const (
	DocumentsByDivision Type = "DOCUMENTS_BY_DIVISION"
	StatusSummary       Type = "STATUS_SUMMARY"
	OverdueAssignments  Type = "OVERDUE_ASSIGNMENTS"
	ActivityReport      Type = "ACTIVITY_REPORT"
)

// Valid reports whether t names a known report type.
func (t Type) Valid() bool {
	switch t {
	case DocumentsByDivision, StatusSummary, OverdueAssignments, ActivityReport:
		return true
	}
	return false
}

// TimeRange selects the reporting window.
type TimeRange string

const (
	RangeWeekly  TimeRange = "WEEKLY"
	RangeMonthly TimeRange = "MONTHLY"
	RangeCustom  TimeRange = "CUSTOM"
)

// Params are the common report inputs. Empty DivisionID/Status mean
// unfiltered ("ALL").
type Params struct {
	Type       Type       `json:"reportType"`
	DivisionID string     `json:"divisionId,omitempty"`
	Status     string     `json:"status,omitempty"`
	DateFrom   *time.Time `json:"dateFrom,omitempty"`
	DateTo     *time.Time `json:"dateTo,omitempty"`
	TimeRange  TimeRange  `json:"timeRange"`
}

// Window resolves the effective [from, to] interval for the params at
// the given instant. OVERDUE_ASSIGNMENTS ignores this entirely.
func (p Params) Window(now time.Time) (time.Time, time.Time) {
	from := now
	switch p.TimeRange {
	case RangeWeekly:
		from = now.AddDate(0, 0, -7)
	case RangeMonthly:
		from = now.AddDate(0, -1, 0)
	case RangeCustom:
		if p.DateFrom != nil {
			from = *p.DateFrom
		}
	default:
		from = now.AddDate(0, -1, 0)
	}
	to := now
	if p.DateTo != nil {
		to = *p.DateTo
	}
	return from, to
}

// DivisionRow is one DOCUMENTS_BY_DIVISION data row.
type DivisionRow struct {
	Division      string `json:"division"`
	DocumentCount int    `json:"document_count"`
}

// StatusRow is one STATUS_SUMMARY data row.
type StatusRow struct {
	Status string `json:"status"`
	Count  int    `json:"count"`
}

// OverdueRow is one OVERDUE_ASSIGNMENTS data row. DaysOverdue is
// ceil((now - dueDate) / 1 day).
type OverdueRow struct {
	LetterNo    string     `json:"letter_no"`
	Division    string     `json:"division"`
	Assignee    string     `json:"assignee"`
	DueDate     *time.Time `json:"due_date"`
	DaysOverdue int        `json:"days_overdue"`
}

// ActivityRow is one ACTIVITY_REPORT data row (top users by audit-event
// count).
type ActivityRow struct {
	User          string `json:"user"`
	ActivityCount int    `json:"activity_count"`
}

// Summary is the small numeric rollup returned alongside row data.
type Summary map[string]any

// Result is a generated report: typed rows flattened to a Table plus
// the echoing filters and summary.
type Result struct {
	Type    Type    `json:"reportType"`
	Filters Params  `json:"filters"`
	Data    Table   `json:"data"`
	Summary Summary `json:"summary"`
}

// Table is an ordered-column relation suitable for tabular rendering
// and export. Every row has exactly len(Columns) values.
type Table struct {
	Columns []string `json:"columns"`
	Rows    [][]any  `json:"rows"`
}

// DivisionTable flattens DOCUMENTS_BY_DIVISION rows.
func DivisionTable(rows []DivisionRow) Table {
	t := Table{Columns: []string{"division", "document_count"}}
	for _, r := range rows {
		t.Rows = append(t.Rows, []any{r.Division, r.DocumentCount})
	}
	return t
}

// StatusTable flattens STATUS_SUMMARY rows.
func StatusTable(rows []StatusRow) Table {
	t := Table{Columns: []string{"status", "count"}}
	for _, r := range rows {
		t.Rows = append(t.Rows, []any{r.Status, r.Count})
	}
	return t
}

// OverdueTable flattens OVERDUE_ASSIGNMENTS rows.
func OverdueTable(rows []OverdueRow) Table {
	t := Table{Columns: []string{"letter_no", "division", "assignee", "due_date", "days_overdue"}}
	for _, r := range rows {
		due := "N/A"
		if r.DueDate != nil {
			due = r.DueDate.Format("2006-01-02")
		}
		t.Rows = append(t.Rows, []any{r.LetterNo, r.Division, r.Assignee, due, r.DaysOverdue})
	}
	return t
}

// ActivityTable flattens ACTIVITY_REPORT rows.
func ActivityTable(rows []ActivityRow) Table {
	t := Table{Columns: []string{"user", "activity_count"}}
	for _, r := range rows {
		t.Rows = append(t.Rows, []any{r.User, r.ActivityCount})
	}
	return t
}

// DashboardDivision is one entry of the dashboard's per-division count.
type DashboardDivision struct {
	DivisionID   string `json:"divisionId"`
	DivisionName string `json:"divisionName"`
	Count        int    `json:"count"`
}

// Dashboard is the fixed administrative composite.
type Dashboard struct {
	TotalDocuments      int                 `json:"totalDocuments"`
	StatusCounts        map[string]int      `json:"statusCounts"`
	OverdueAssignments  int                 `json:"overdueAssignments"`
	DocumentsToday      int                 `json:"documentsToday"`
	DocumentsThisWeek   int                 `json:"documentsThisWeek"`
	DownloadsToday      int                 `json:"downloadsToday"`
	DownloadsThisWeek   int                 `json:"downloadsThisWeek"`
	ActiveUsers         int                 `json:"activeUsers"`
	DocumentsByDivision []DashboardDivision `json:"documentsByDivision"`
}
