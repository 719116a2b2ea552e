package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"ministrydocs/internal/model"
	"ministrydocs/internal/repository"
)

// AssignmentPostgres is a PostgreSQL implementation of repository.AssignmentRepository.
type AssignmentPostgres struct {
	db *sql.DB
}

// NewAssignmentPostgres creates a new AssignmentPostgres repository.
func NewAssignmentPostgres(db *sql.DB) *AssignmentPostgres {
	return &AssignmentPostgres{db: db}
}

var _ repository.AssignmentRepository = (*AssignmentPostgres)(nil)

// Create inserts an assignment and its audit entry in one transaction.
func (r *AssignmentPostgres) Create(ctx context.Context, a *model.Assignment, audit *model.AuditLog) (*model.Assignment, error) {
	out := *a
	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		const q = `
			INSERT INTO assignments (id, document_id, assignee_id, assigned_by_id, due_date, note, status)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING created_at
		`
		if err := tx.QueryRowContext(ctx, q,
			a.ID,
			a.DocumentID,
			a.AssigneeID,
			a.AssignedByID,
			a.DueDate,
			a.Note,
			a.Status,
		).Scan(&out.CreatedAt); err != nil {
			return err
		}
		return insertAudit(ctx, tx, audit)
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

const assignmentColumns = `id, document_id, assignee_id, assigned_by_id, due_date, note, status, created_at`

func scanAssignment(row *sql.Row) (*model.Assignment, error) {
	var a model.Assignment
	if err := row.Scan(
		&a.ID,
		&a.DocumentID,
		&a.AssigneeID,
		&a.AssignedByID,
		&a.DueDate,
		&a.Note,
		&a.Status,
		&a.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &a, nil
}

// FindByID fetches a single assignment row.
func (r *AssignmentPostgres) FindByID(ctx context.Context, id string) (*model.Assignment, error) {
	const q = `SELECT ` + assignmentColumns + ` FROM assignments WHERE id = $1`
	return scanAssignment(r.db.QueryRowContext(ctx, q, id))
}

// UpdateStatus sets the status unconditionally and records the audit
// entry in the same transaction. Returns sql.ErrNoRows when missing.
func (r *AssignmentPostgres) UpdateStatus(ctx context.Context, id string, status model.AssignmentStatus, audit *model.AuditLog) (*model.Assignment, error) {
	var out *model.Assignment
	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		const q = `
			UPDATE assignments SET status = $1
			WHERE id = $2
			RETURNING ` + assignmentColumns
		a, err := scanAssignment(tx.QueryRowContext(ctx, q, status, id))
		if err != nil {
			return err
		}
		out = a
		return insertAudit(ctx, tx, audit)
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

const assignmentListFrom = `
	FROM assignments a
	JOIN documents d ON d.id = a.document_id
	JOIN divisions v ON v.id = d.division_id
	LEFT JOIN statuses s ON s.id = d.current_status_id
	JOIN users ae ON ae.id = a.assignee_id
	JOIN users ab ON ab.id = a.assigned_by_id
`

// assignmentListWhere builds the WHERE clause for List from the filter.
func assignmentListWhere(f repository.AssignmentFilter) (string, []any) {
	var conds []string
	var args []any
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}
	switch f.Bucket {
	case model.BucketOpen:
		conds = append(conds, "a.status = 'OPEN'")
	case model.BucketDone:
		conds = append(conds, "a.status = 'DONE'")
	case model.BucketOverdue:
		conds = append(conds, "a.status = 'OPEN'", "a.due_date IS NOT NULL", "a.due_date < "+arg(f.Now))
	}
	if f.DivisionID != "" {
		conds = append(conds, "d.division_id = "+arg(f.DivisionID))
	}
	if len(conds) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// List returns a filtered page ordered by due date ascending with null
// due dates last.
func (r *AssignmentPostgres) List(ctx context.Context, f repository.AssignmentFilter) (*repository.PageResult[model.AssignmentOverview], error) {
	where, args := assignmentListWhere(f)

	qCount := "SELECT COUNT(*)" + assignmentListFrom + where
	var total int
	if err := r.db.QueryRowContext(ctx, qCount, args...).Scan(&total); err != nil {
		return nil, err
	}

	qList := `
		SELECT a.id, a.document_id, a.assignee_id, a.assigned_by_id, a.due_date, a.note, a.status, a.created_at,
		       ae.id, ae.name, ae.email, ae.role,
		       ab.id, ab.name, ab.email, ab.role,
		       d.letter_no, v.name, s.name` +
		assignmentListFrom + where + fmt.Sprintf(`
		ORDER BY a.due_date ASC NULLS LAST, a.created_at DESC, a.id DESC
		LIMIT $%d OFFSET $%d
	`, len(args)+1, len(args)+2)
	args = append(args, f.Limit, f.Offset)

	rows, err := r.db.QueryContext(ctx, qList, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.AssignmentOverview, 0)
	for rows.Next() {
		var a model.AssignmentOverview
		if err := rows.Scan(
			&a.ID,
			&a.DocumentID,
			&a.AssigneeID,
			&a.AssignedByID,
			&a.DueDate,
			&a.Note,
			&a.Status,
			&a.CreatedAt,
			&a.Assignee.ID,
			&a.Assignee.Name,
			&a.Assignee.Email,
			&a.Assignee.Role,
			&a.AssignedBy.ID,
			&a.AssignedBy.Name,
			&a.AssignedBy.Email,
			&a.AssignedBy.Role,
			&a.LetterNo,
			&a.DivisionName,
			&a.CurrentStatusName,
		); err != nil {
			return nil, err
		}
		items = append(items, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &repository.PageResult[model.AssignmentOverview]{Items: items, Total: total}, nil
}
