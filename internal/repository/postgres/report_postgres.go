package postgres

import (
	"context"
	"database/sql"
	"math"
	"time"

	"ministrydocs/internal/report"
	"ministrydocs/internal/repository"
)

// ReportPostgres is a PostgreSQL implementation of repository.ReportRepository.
// Read-only aggregation queries; nothing here mutates state.
type ReportPostgres struct {
	db *sql.DB
}

// NewReportPostgres creates a new ReportPostgres repository.
func NewReportPostgres(db *sql.DB) *ReportPostgres {
	return &ReportPostgres{db: db}
}

var _ repository.ReportRepository = (*ReportPostgres)(nil)

// DocumentsByDivision counts documents created in [from, to] grouped by
// division name, most documents first.
func (r *ReportPostgres) DocumentsByDivision(ctx context.Context, from, to time.Time, divisionID, statusName string) ([]report.DivisionRow, error) {
	q := `
		SELECT v.name, COUNT(*)
		FROM documents d
		JOIN divisions v ON v.id = d.division_id
		LEFT JOIN statuses s ON s.id = d.current_status_id
		WHERE d.created_at >= $1 AND d.created_at <= $2
	`
	args := []any{from, to}
	if divisionID != "" {
		args = append(args, divisionID)
		q += ` AND d.division_id = $3`
	}
	if statusName != "" {
		args = append(args, statusName)
		if divisionID != "" {
			q += ` AND s.name = $4`
		} else {
			q += ` AND s.name = $3`
		}
	}
	q += `
		GROUP BY v.name
		ORDER BY COUNT(*) DESC, v.name ASC
	`
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]report.DivisionRow, 0)
	for rows.Next() {
		var row report.DivisionRow
		if err := rows.Scan(&row.Division, &row.DocumentCount); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// StatusSummaryRows counts status timeline entries created in [from, to]
// grouped by name, optionally scoped to one division's documents.
func (r *ReportPostgres) StatusSummaryRows(ctx context.Context, from, to time.Time, divisionID string) ([]report.StatusRow, error) {
	q := `
		SELECT s.name, COUNT(*)
		FROM statuses s
		JOIN documents d ON d.id = s.document_id
		WHERE s.created_at >= $1 AND s.created_at <= $2
	`
	args := []any{from, to}
	if divisionID != "" {
		args = append(args, divisionID)
		q += ` AND d.division_id = $3`
	}
	q += `
		GROUP BY s.name
		ORDER BY COUNT(*) DESC, s.name ASC
	`
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]report.StatusRow, 0)
	for rows.Next() {
		var row report.StatusRow
		if err := rows.Scan(&row.Status, &row.Count); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// OverdueRows returns every OPEN assignment due strictly before now,
// earliest due date first. DaysOverdue is computed against now.
func (r *ReportPostgres) OverdueRows(ctx context.Context, now time.Time, divisionID string) ([]report.OverdueRow, error) {
	q := `
		SELECT d.letter_no, v.name, ae.name, a.due_date
		FROM assignments a
		JOIN documents d ON d.id = a.document_id
		JOIN divisions v ON v.id = d.division_id
		JOIN users ae ON ae.id = a.assignee_id
		WHERE a.status = 'OPEN' AND a.due_date IS NOT NULL AND a.due_date < $1
	`
	args := []any{now}
	if divisionID != "" {
		args = append(args, divisionID)
		q += ` AND d.division_id = $2`
	}
	q += `
		ORDER BY a.due_date ASC
	`
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]report.OverdueRow, 0)
	for rows.Next() {
		var row report.OverdueRow
		if err := rows.Scan(&row.LetterNo, &row.Division, &row.Assignee, &row.DueDate); err != nil {
			return nil, err
		}
		if row.DueDate != nil {
			row.DaysOverdue = int(math.Ceil(now.Sub(*row.DueDate).Hours() / 24))
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// ActivityCounts returns UPLOAD/DOWNLOAD/LOGIN audit-event counts in
// [from, to] in a single scan.
func (r *ReportPostgres) ActivityCounts(ctx context.Context, from, to time.Time) (uploads, downloads, logins int, err error) {
	const q = `
		SELECT COUNT(*) FILTER (WHERE action = 'UPLOAD'),
		       COUNT(*) FILTER (WHERE action = 'DOWNLOAD'),
		       COUNT(*) FILTER (WHERE action = 'LOGIN')
		FROM audit_logs
		WHERE created_at >= $1 AND created_at <= $2
	`
	err = r.db.QueryRowContext(ctx, q, from, to).Scan(&uploads, &downloads, &logins)
	return uploads, downloads, logins, err
}

// TopUsers returns the most active users by total audit-event count in
// [from, to]. Entries without a user are attributed to "System".
func (r *ReportPostgres) TopUsers(ctx context.Context, from, to time.Time, limit int) ([]report.ActivityRow, error) {
	const q = `
		SELECT COALESCE(u.name, 'System'), COUNT(*)
		FROM audit_logs l
		LEFT JOIN users u ON u.id = l.user_id
		WHERE l.created_at >= $1 AND l.created_at <= $2
		GROUP BY COALESCE(u.name, 'System')
		ORDER BY COUNT(*) DESC, 1 ASC
		LIMIT $3
	`
	rows, err := r.db.QueryContext(ctx, q, from, to, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]report.ActivityRow, 0)
	for rows.Next() {
		var row report.ActivityRow
		if err := rows.Scan(&row.User, &row.ActivityCount); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Dashboard assembles the fixed administrative composite from several
// small aggregate queries.
func (r *ReportPostgres) Dashboard(ctx context.Context, now, startOfToday, startOfWeek time.Time) (*report.Dashboard, error) {
	var d report.Dashboard

	const qTotals = `
		SELECT (SELECT COUNT(*) FROM documents),
		       (SELECT COUNT(*) FROM documents WHERE created_at >= $1),
		       (SELECT COUNT(*) FROM documents WHERE created_at >= $2),
		       (SELECT COUNT(*) FROM assignments WHERE status = 'OPEN' AND due_date IS NOT NULL AND due_date < $3),
		       (SELECT COUNT(*) FROM audit_logs WHERE action = 'DOWNLOAD' AND created_at >= $1),
		       (SELECT COUNT(*) FROM audit_logs WHERE action = 'DOWNLOAD' AND created_at >= $2),
		       (SELECT COUNT(*) FROM users WHERE is_active)
	`
	if err := r.db.QueryRowContext(ctx, qTotals, startOfToday, startOfWeek, now).Scan(
		&d.TotalDocuments,
		&d.DocumentsToday,
		&d.DocumentsThisWeek,
		&d.OverdueAssignments,
		&d.DownloadsToday,
		&d.DownloadsThisWeek,
		&d.ActiveUsers,
	); err != nil {
		return nil, err
	}

	const qStatuses = `
		SELECT s.name, COUNT(*)
		FROM documents d
		JOIN statuses s ON s.id = d.current_status_id
		GROUP BY s.name
	`
	rows, err := r.db.QueryContext(ctx, qStatuses)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	d.StatusCounts = make(map[string]int)
	for rows.Next() {
		var name string
		var count int
		if err := rows.Scan(&name, &count); err != nil {
			return nil, err
		}
		d.StatusCounts[name] = count
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	const qDivisions = `
		SELECT d.division_id, v.name, COUNT(*)
		FROM documents d
		JOIN divisions v ON v.id = d.division_id
		GROUP BY d.division_id, v.name
		ORDER BY v.name ASC
	`
	divRows, err := r.db.QueryContext(ctx, qDivisions)
	if err != nil {
		return nil, err
	}
	defer divRows.Close()
	d.DocumentsByDivision = make([]report.DashboardDivision, 0)
	for divRows.Next() {
		var entry report.DashboardDivision
		if err := divRows.Scan(&entry.DivisionID, &entry.DivisionName, &entry.Count); err != nil {
			return nil, err
		}
		d.DocumentsByDivision = append(d.DocumentsByDivision, entry)
	}
	if err := divRows.Err(); err != nil {
		return nil, err
	}

	return &d, nil
}
