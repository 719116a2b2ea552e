// Package postgres implements the repository interfaces over
// database/sql with parameterized queries. Mutating methods open a
// transaction and insert the paired audit row inside it, so no mutation
// can commit without its audit record.
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"ministrydocs/internal/model"
	"ministrydocs/internal/repository"
)

// querier is the subset of database/sql shared by *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// withTx runs fn inside a transaction, rolling back on error.
func withTx(ctx context.Context, db *sql.DB, fn func(tx *sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// insertAudit appends the audit row on the given handle. A missing ID is
// generated here so callers can pass freshly built entries.
func insertAudit(ctx context.Context, q querier, e *model.AuditLog) error {
	if e == nil {
		return errors.New("audit entry is required")
	}
	id := e.ID
	if id == "" {
		id = uuid.NewString()
	}
	var meta any
	if e.Meta != nil {
		b, err := json.Marshal(e.Meta)
		if err != nil {
			return fmt.Errorf("marshal audit meta: %w", err)
		}
		meta = b
	}
	const stmt = `
		INSERT INTO audit_logs (id, action, entity, entity_id, user_id, meta)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	if _, err := q.ExecContext(ctx, stmt, id, e.Action, e.Entity, e.EntityID, e.UserID, meta); err != nil {
		return fmt.Errorf("insert audit log: %w", err)
	}
	return nil
}

// mapUnique translates a unique-constraint violation (SQLSTATE 23505)
// into repository.ErrDuplicate; other errors pass through unchanged.
func mapUnique(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return fmt.Errorf("%w: %s", repository.ErrDuplicate, pgErr.ConstraintName)
	}
	return err
}
