package repository

import (
	"context"
	"time"

	"ministrydocs/internal/report"
)

// ReportRepository is the read-only aggregation layer behind reports and
// the admin dashboard. It never mutates state.
type ReportRepository interface {
	// DocumentsByDivision counts documents created in [from, to] grouped
	// by division, optionally filtered by current-status name.
	DocumentsByDivision(ctx context.Context, from, to time.Time, divisionID, statusName string) ([]report.DivisionRow, error)

	// StatusSummaryRows counts status rows created in [from, to] grouped
	// by name, optionally scoped to a division's documents.
	StatusSummaryRows(ctx context.Context, from, to time.Time, divisionID string) ([]report.StatusRow, error)

	// OverdueRows returns every OPEN assignment with due date strictly
	// before now, due date ascending, optionally scoped to a division.
	OverdueRows(ctx context.Context, now time.Time, divisionID string) ([]report.OverdueRow, error)

	// ActivityCounts returns UPLOAD/DOWNLOAD/LOGIN audit-event counts in
	// [from, to].
	ActivityCounts(ctx context.Context, from, to time.Time) (uploads, downloads, logins int, err error)

	// TopUsers returns the top users by total audit-event count in
	// [from, to]. A nil user id is reported as "System".
	TopUsers(ctx context.Context, from, to time.Time, limit int) ([]report.ActivityRow, error)

	// Dashboard assembles the fixed administrative composite.
	Dashboard(ctx context.Context, now, startOfToday, startOfWeek time.Time) (*report.Dashboard, error)
}
