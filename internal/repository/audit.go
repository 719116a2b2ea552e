package repository

import (
	"context"

	"ministrydocs/internal/model"
)

// AuditRepository defines access to the append-only audit trail. Most
// audit rows are written transactionally by the other repositories;
// Create exists for actions with no accompanying row mutation (login,
// download, report export).
type AuditRepository interface {
	// Create appends a single audit entry.
	Create(ctx context.Context, entry *model.AuditLog) (*model.AuditLog, error)

	// List returns a filtered, newest-first page joined with actor
	// identity summaries.
	List(ctx context.Context, f AuditFilter) (*PageResult[model.AuditLogWithUser], error)

	// DistinctActions enumerates every action verb present, sorted.
	DistinctActions(ctx context.Context) ([]string, error)

	// DistinctEntities enumerates every entity noun present, sorted.
	DistinctEntities(ctx context.Context) ([]string, error)
}

// SettingsRepository persists the single mutable configuration record.
type SettingsRepository interface {
	// Get loads the settings row.
	Get(ctx context.Context) (*model.Settings, error)

	// Save overwrites the settings row and records the audit entry in
	// the same transaction.
	Save(ctx context.Context, s *model.Settings, audit *model.AuditLog) error
}
