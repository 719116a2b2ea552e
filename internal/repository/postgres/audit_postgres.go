package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"ministrydocs/internal/model"
	"ministrydocs/internal/repository"
)

// AuditPostgres is a PostgreSQL implementation of repository.AuditRepository.
type AuditPostgres struct {
	db *sql.DB
}

// NewAuditPostgres creates a new AuditPostgres repository.
func NewAuditPostgres(db *sql.DB) *AuditPostgres {
	return &AuditPostgres{db: db}
}

var _ repository.AuditRepository = (*AuditPostgres)(nil)

// Create appends a standalone audit entry (login, download, export).
func (r *AuditPostgres) Create(ctx context.Context, entry *model.AuditLog) (*model.AuditLog, error) {
	out := *entry
	if out.ID == "" {
		out.ID = uuid.NewString()
	}
	var meta any
	if entry.Meta != nil {
		b, err := json.Marshal(entry.Meta)
		if err != nil {
			return nil, fmt.Errorf("marshal audit meta: %w", err)
		}
		meta = b
	}
	const q = `
		INSERT INTO audit_logs (id, action, entity, entity_id, user_id, meta)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at
	`
	if err := r.db.QueryRowContext(ctx, q,
		out.ID,
		out.Action,
		out.Entity,
		out.EntityID,
		out.UserID,
		meta,
	).Scan(&out.CreatedAt); err != nil {
		return nil, err
	}
	return &out, nil
}

const auditListFrom = `
	FROM audit_logs l
	LEFT JOIN users u ON u.id = l.user_id
`

// auditListWhere builds the WHERE clause for List from the filter.
func auditListWhere(f repository.AuditFilter) (string, []any) {
	var conds []string
	var args []any
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}
	if f.Action != "" {
		conds = append(conds, "l.action = "+arg(f.Action))
	}
	if f.Entity != "" {
		conds = append(conds, "l.entity = "+arg(f.Entity))
	}
	if f.UserID != "" {
		conds = append(conds, "l.user_id = "+arg(f.UserID))
	}
	if f.From != nil {
		conds = append(conds, "l.created_at >= "+arg(*f.From))
	}
	if f.To != nil {
		conds = append(conds, "l.created_at <= "+arg(*f.To))
	}
	if len(conds) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// List returns a filtered, newest-first page joined with actor identity.
func (r *AuditPostgres) List(ctx context.Context, f repository.AuditFilter) (*repository.PageResult[model.AuditLogWithUser], error) {
	where, args := auditListWhere(f)

	qCount := "SELECT COUNT(*)" + auditListFrom + where
	var total int
	if err := r.db.QueryRowContext(ctx, qCount, args...).Scan(&total); err != nil {
		return nil, err
	}

	qList := `
		SELECT l.id, l.action, l.entity, l.entity_id, l.user_id, l.meta, l.created_at,
		       u.id, u.name, u.email, u.role` +
		auditListFrom + where + fmt.Sprintf(`
		ORDER BY l.created_at DESC, l.id DESC
		LIMIT $%d OFFSET $%d
	`, len(args)+1, len(args)+2)
	args = append(args, f.Limit, f.Offset)

	rows, err := r.db.QueryContext(ctx, qList, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.AuditLogWithUser, 0)
	for rows.Next() {
		var e model.AuditLogWithUser
		var meta []byte
		var uid, uname, uemail, urole sql.NullString
		if err := rows.Scan(
			&e.ID,
			&e.Action,
			&e.Entity,
			&e.EntityID,
			&e.UserID,
			&meta,
			&e.CreatedAt,
			&uid,
			&uname,
			&uemail,
			&urole,
		); err != nil {
			return nil, err
		}
		if len(meta) > 0 {
			if err := json.Unmarshal(meta, &e.Meta); err != nil {
				return nil, fmt.Errorf("unmarshal audit meta: %w", err)
			}
		}
		if uid.Valid {
			e.User = &model.UserSummary{ID: uid.String, Name: uname.String, Email: uemail.String, Role: model.Role(urole.String)}
		}
		items = append(items, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &repository.PageResult[model.AuditLogWithUser]{Items: items, Total: total}, nil
}

// DistinctActions enumerates every action verb present, sorted.
func (r *AuditPostgres) DistinctActions(ctx context.Context) ([]string, error) {
	return r.distinct(ctx, `SELECT DISTINCT action FROM audit_logs ORDER BY action ASC`)
}

// DistinctEntities enumerates every entity noun present, sorted.
func (r *AuditPostgres) DistinctEntities(ctx context.Context) ([]string, error) {
	return r.distinct(ctx, `SELECT DISTINCT entity FROM audit_logs ORDER BY entity ASC`)
}

func (r *AuditPostgres) distinct(ctx context.Context, q string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]string, 0)
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
