package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"ministrydocs/internal/model"
	"ministrydocs/internal/repository"
)

// UserPostgres is a PostgreSQL implementation of repository.UserRepository.
type UserPostgres struct {
	db *sql.DB
}

// NewUserPostgres creates a new UserPostgres repository.
func NewUserPostgres(db *sql.DB) *UserPostgres {
	return &UserPostgres{db: db}
}

var _ repository.UserRepository = (*UserPostgres)(nil)

const userColumns = `id, email, name, password_hash, role, division_id, is_active, created_at`

func scanUser(row *sql.Row) (*model.User, error) {
	var u model.User
	if err := row.Scan(
		&u.ID,
		&u.Email,
		&u.Name,
		&u.PasswordHash,
		&u.Role,
		&u.DivisionID,
		&u.IsActive,
		&u.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &u, nil
}

// Create inserts a user and its audit entry in one transaction. A
// duplicate email surfaces as repository.ErrDuplicate.
func (r *UserPostgres) Create(ctx context.Context, u *model.User, audit *model.AuditLog) (*model.User, error) {
	out := *u
	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		const q = `
			INSERT INTO users (id, email, name, password_hash, role, division_id, is_active)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING created_at
		`
		if err := tx.QueryRowContext(ctx, q,
			u.ID,
			u.Email,
			u.Name,
			u.PasswordHash,
			u.Role,
			u.DivisionID,
			u.IsActive,
		).Scan(&out.CreatedAt); err != nil {
			return mapUnique(err)
		}
		return insertAudit(ctx, tx, audit)
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// FindByEmail fetches a user by unique email.
func (r *UserPostgres) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	const q = `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return scanUser(r.db.QueryRowContext(ctx, q, email))
}

// FindByID fetches a user by id.
func (r *UserPostgres) FindByID(ctx context.Context, id string) (*model.User, error) {
	const q = `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(r.db.QueryRowContext(ctx, q, id))
}

// List returns every user joined with its division, newest first.
func (r *UserPostgres) List(ctx context.Context) ([]model.UserWithDivision, error) {
	const q = `
		SELECT u.id, u.email, u.name, u.password_hash, u.role, u.division_id, u.is_active, u.created_at,
		       v.id, v.name, v.created_at
		FROM users u
		LEFT JOIN divisions v ON v.id = u.division_id
		ORDER BY u.created_at DESC, u.id DESC
	`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.UserWithDivision, 0)
	for rows.Next() {
		var u model.UserWithDivision
		var divID, divName sql.NullString
		var divCreated sql.NullTime
		if err := rows.Scan(
			&u.ID,
			&u.Email,
			&u.Name,
			&u.PasswordHash,
			&u.Role,
			&u.DivisionID,
			&u.IsActive,
			&u.CreatedAt,
			&divID,
			&divName,
			&divCreated,
		); err != nil {
			return nil, err
		}
		if divID.Valid {
			u.Division = &model.Division{ID: divID.String, Name: divName.String, CreatedAt: divCreated.Time}
		}
		items = append(items, u)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// Update applies a partial patch and its audit entry in one transaction.
// Returns sql.ErrNoRows when the user is missing.
func (r *UserPostgres) Update(ctx context.Context, id string, patch model.UserPatch, audit *model.AuditLog) (*model.User, error) {
	var sets []string
	var args []any
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}
	if patch.PasswordHash != nil {
		sets = append(sets, "password_hash = "+arg(*patch.PasswordHash))
	}
	if patch.ClearDiv {
		sets = append(sets, "division_id = NULL")
	} else if patch.DivisionID != nil {
		sets = append(sets, "division_id = "+arg(*patch.DivisionID))
	}
	if patch.IsActive != nil {
		sets = append(sets, "is_active = "+arg(*patch.IsActive))
	}

	var out *model.User
	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		if len(sets) > 0 {
			q := "UPDATE users SET " + strings.Join(sets, ", ") +
				" WHERE id = " + arg(id) +
				" RETURNING " + userColumns
			u, err := scanUser(tx.QueryRowContext(ctx, q, args...))
			if err != nil {
				return err
			}
			out = u
		} else {
			const q = `SELECT ` + userColumns + ` FROM users WHERE id = $1`
			u, err := scanUser(tx.QueryRowContext(ctx, q, id))
			if err != nil {
				return err
			}
			out = u
		}
		return insertAudit(ctx, tx, audit)
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
