package postgres

import (
	"context"
	"database/sql"

	"ministrydocs/internal/model"
	"ministrydocs/internal/repository"
)

// DivisionPostgres is a PostgreSQL implementation of repository.DivisionRepository.
type DivisionPostgres struct {
	db *sql.DB
}

// NewDivisionPostgres creates a new DivisionPostgres repository.
func NewDivisionPostgres(db *sql.DB) *DivisionPostgres {
	return &DivisionPostgres{db: db}
}

var _ repository.DivisionRepository = (*DivisionPostgres)(nil)

// Create inserts a division and its audit entry in one transaction. A
// duplicate name surfaces as repository.ErrDuplicate.
func (r *DivisionPostgres) Create(ctx context.Context, d *model.Division, audit *model.AuditLog) (*model.Division, error) {
	out := *d
	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		const q = `
			INSERT INTO divisions (id, name)
			VALUES ($1, $2)
			RETURNING created_at
		`
		if err := tx.QueryRowContext(ctx, q, d.ID, d.Name).Scan(&out.CreatedAt); err != nil {
			return mapUnique(err)
		}
		return insertAudit(ctx, tx, audit)
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// List returns divisions with member/document counts, alphabetically,
// optionally filtered by a case-insensitive name substring.
func (r *DivisionPostgres) List(ctx context.Context, search string) ([]model.DivisionSummary, error) {
	q := `
		SELECT v.id, v.name, v.created_at,
		       (SELECT COUNT(*) FROM users u WHERE u.division_id = v.id),
		       (SELECT COUNT(*) FROM documents d WHERE d.division_id = v.id)
		FROM divisions v
	`
	var args []any
	if search != "" {
		q += ` WHERE v.name ILIKE '%' || $1 || '%'`
		args = append(args, search)
	}
	q += ` ORDER BY v.name ASC`

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.DivisionSummary, 0)
	for rows.Next() {
		var d model.DivisionSummary
		if err := rows.Scan(&d.ID, &d.Name, &d.CreatedAt, &d.UserCount, &d.DocumentCount); err != nil {
			return nil, err
		}
		items = append(items, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// FindDetail returns a division with counts, member users and a
// per-current-status document histogram.
func (r *DivisionPostgres) FindDetail(ctx context.Context, id string) (*model.DivisionDetail, error) {
	const qDiv = `
		SELECT v.id, v.name, v.created_at,
		       (SELECT COUNT(*) FROM users u WHERE u.division_id = v.id),
		       (SELECT COUNT(*) FROM documents d WHERE d.division_id = v.id)
		FROM divisions v
		WHERE v.id = $1
	`
	var det model.DivisionDetail
	if err := r.db.QueryRowContext(ctx, qDiv, id).Scan(
		&det.ID,
		&det.Name,
		&det.CreatedAt,
		&det.UserCount,
		&det.DocumentCount,
	); err != nil {
		return nil, err
	}

	const qUsers = `
		SELECT id, name, email, role
		FROM users
		WHERE division_id = $1
		ORDER BY name ASC
	`
	rows, err := r.db.QueryContext(ctx, qUsers, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	det.Users = make([]model.UserSummary, 0)
	for rows.Next() {
		var u model.UserSummary
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.Role); err != nil {
			return nil, err
		}
		det.Users = append(det.Users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	const qStatuses = `
		SELECT COALESCE(s.name, 'NO STATUS'), COUNT(*)
		FROM documents d
		LEFT JOIN statuses s ON s.id = d.current_status_id
		WHERE d.division_id = $1
		GROUP BY 1
	`
	stRows, err := r.db.QueryContext(ctx, qStatuses, id)
	if err != nil {
		return nil, err
	}
	defer stRows.Close()
	det.StatusCounts = make(map[string]int)
	for stRows.Next() {
		var name string
		var count int
		if err := stRows.Scan(&name, &count); err != nil {
			return nil, err
		}
		det.StatusCounts[name] = count
	}
	if err := stRows.Err(); err != nil {
		return nil, err
	}

	return &det, nil
}
