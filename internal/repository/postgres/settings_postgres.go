package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"ministrydocs/internal/model"
	"ministrydocs/internal/repository"
)

// SettingsPostgres is a PostgreSQL implementation of repository.SettingsRepository.
// The settings table holds a single row with id = 1.
type SettingsPostgres struct {
	db *sql.DB
}

// NewSettingsPostgres creates a new SettingsPostgres repository.
func NewSettingsPostgres(db *sql.DB) *SettingsPostgres {
	return &SettingsPostgres{db: db}
}

var _ repository.SettingsRepository = (*SettingsPostgres)(nil)

// Get loads the settings row.
func (r *SettingsPostgres) Get(ctx context.Context) (*model.Settings, error) {
	const q = `
		SELECT status_workflow, file_upload_max_size, allowed_file_types,
		       retention_period_days, notifications_enabled, email_notifications,
		       system_maintenance, updated_at
		FROM settings
		WHERE id = 1
	`
	var s model.Settings
	var workflow, fileTypes []byte
	if err := r.db.QueryRowContext(ctx, q).Scan(
		&workflow,
		&s.FileUploadMaxSizeMB,
		&fileTypes,
		&s.RetentionPeriodDays,
		&s.NotificationsEnabled,
		&s.EmailNotifications,
		&s.SystemMaintenance,
		&s.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(workflow, &s.StatusWorkflow); err != nil {
		return nil, fmt.Errorf("unmarshal status workflow: %w", err)
	}
	if err := json.Unmarshal(fileTypes, &s.AllowedFileTypes); err != nil {
		return nil, fmt.Errorf("unmarshal allowed file types: %w", err)
	}
	return &s, nil
}

// Save overwrites the settings row and records the audit entry in the
// same transaction. The updated_at timestamp is set by the database.
func (r *SettingsPostgres) Save(ctx context.Context, s *model.Settings, audit *model.AuditLog) error {
	workflow, err := json.Marshal(s.StatusWorkflow)
	if err != nil {
		return fmt.Errorf("marshal status workflow: %w", err)
	}
	fileTypes, err := json.Marshal(s.AllowedFileTypes)
	if err != nil {
		return fmt.Errorf("marshal allowed file types: %w", err)
	}
	return withTx(ctx, r.db, func(tx *sql.Tx) error {
		const q = `
			UPDATE settings SET
				status_workflow = $1,
				file_upload_max_size = $2,
				allowed_file_types = $3,
				retention_period_days = $4,
				notifications_enabled = $5,
				email_notifications = $6,
				system_maintenance = $7,
				updated_at = now()
			WHERE id = 1
			RETURNING updated_at
		`
		if err := tx.QueryRowContext(ctx, q,
			workflow,
			s.FileUploadMaxSizeMB,
			fileTypes,
			s.RetentionPeriodDays,
			s.NotificationsEnabled,
			s.EmailNotifications,
			s.SystemMaintenance,
		).Scan(&s.UpdatedAt); err != nil {
			return err
		}
		return insertAudit(ctx, tx, audit)
	})
}
