package migration

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"go.uber.org/zap"
)

type migrationStep struct {
	Name string
	SQL  string
}

var steps = []migrationStep{
	{
		Name: "create_extension_uuid_ossp",
		SQL:  `CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`,
	},
	{
		Name: "create_table_divisions",
		SQL: `CREATE TABLE IF NOT EXISTS divisions (
  id         UUID        PRIMARY KEY DEFAULT uuid_generate_v4(),
  name       TEXT        NOT NULL UNIQUE,
  created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_table_users",
		SQL: `CREATE TABLE IF NOT EXISTS users (
  id            UUID        PRIMARY KEY DEFAULT uuid_generate_v4(),
  email         TEXT        NOT NULL UNIQUE,
  name          TEXT        NOT NULL,
  password_hash TEXT        NOT NULL,
  role          TEXT        NOT NULL DEFAULT 'STAFF' CHECK (role IN ('ADMIN', 'STAFF')),
  division_id   UUID        REFERENCES divisions (id),
  is_active     BOOLEAN     NOT NULL DEFAULT true,
  created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_table_documents",
		SQL: `CREATE TABLE IF NOT EXISTS documents (
  id                UUID        PRIMARY KEY DEFAULT uuid_generate_v4(),
  letter_no         TEXT        NOT NULL,
  subject           TEXT        NOT NULL DEFAULT '',
  from_name         TEXT        NOT NULL DEFAULT '',
  to_name           TEXT        NOT NULL DEFAULT '',
  division_id       UUID        NOT NULL REFERENCES divisions (id),
  current_status_id UUID,
  ocr_text          TEXT,
  created_by_id     UUID        NOT NULL REFERENCES users (id),
  created_at        TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_table_statuses",
		SQL: `CREATE TABLE IF NOT EXISTS statuses (
  id            UUID        PRIMARY KEY DEFAULT uuid_generate_v4(),
  document_id   UUID        NOT NULL REFERENCES documents (id),
  name          TEXT        NOT NULL,
  note          TEXT,
  created_by_id UUID        NOT NULL REFERENCES users (id),
  created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "add_fk_documents_current_status",
		SQL: `DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'fk_documents_current_status') THEN
    ALTER TABLE documents
      ADD CONSTRAINT fk_documents_current_status
      FOREIGN KEY (current_status_id) REFERENCES statuses (id);
  END IF;
END $$;`,
	},
	{
		Name: "create_table_file_objects",
		SQL: `CREATE TABLE IF NOT EXISTS file_objects (
  id             UUID        PRIMARY KEY DEFAULT uuid_generate_v4(),
  document_id    UUID        NOT NULL REFERENCES documents (id),
  original_name  TEXT        NOT NULL,
  mime_type      TEXT        NOT NULL,
  size_bytes     BIGINT      NOT NULL CHECK (size_bytes >= 0),
  storage_key    TEXT        NOT NULL UNIQUE,
  uploaded_by_id UUID        NOT NULL REFERENCES users (id),
  created_at     TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_table_assignments",
		SQL: `CREATE TABLE IF NOT EXISTS assignments (
  id             UUID        PRIMARY KEY DEFAULT uuid_generate_v4(),
  document_id    UUID        NOT NULL REFERENCES documents (id),
  assignee_id    UUID        NOT NULL REFERENCES users (id),
  assigned_by_id UUID        NOT NULL REFERENCES users (id),
  due_date       TIMESTAMPTZ,
  note           TEXT,
  status         TEXT        NOT NULL DEFAULT 'OPEN' CHECK (status IN ('OPEN', 'DONE')),
  created_at     TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_table_audit_logs",
		SQL: `CREATE TABLE IF NOT EXISTS audit_logs (
  id         UUID        PRIMARY KEY DEFAULT uuid_generate_v4(),
  action     TEXT        NOT NULL,
  entity     TEXT        NOT NULL,
  entity_id  TEXT,
  user_id    UUID        REFERENCES users (id),
  meta       JSONB,
  created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_table_settings",
		SQL: `CREATE TABLE IF NOT EXISTS settings (
  id                    SMALLINT    PRIMARY KEY CHECK (id = 1),
  status_workflow       JSONB       NOT NULL,
  file_upload_max_size  INT         NOT NULL,
  allowed_file_types    JSONB       NOT NULL,
  retention_period_days INT         NOT NULL,
  notifications_enabled BOOLEAN     NOT NULL,
  email_notifications   BOOLEAN     NOT NULL,
  system_maintenance    BOOLEAN     NOT NULL,
  updated_at            TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "seed_default_settings",
		SQL: `INSERT INTO settings (
  id, status_workflow, file_upload_max_size, allowed_file_types,
  retention_period_days, notifications_enabled, email_notifications, system_maintenance
) VALUES (
  1,
  '["RECEIVED","UNDER REVIEW","PENDING APPROVAL","APPROVED","REJECTED","FORWARDED","COMPLETED","ARCHIVED"]',
  10,
  '[".pdf",".doc",".docx",".jpg",".jpeg",".png"]',
  365, true, false, false
) ON CONFLICT (id) DO NOTHING;`,
	},
	{
		Name: "create_index_documents_division",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_documents_division_id ON documents (division_id);`,
	},
	{
		Name: "create_index_documents_created_at",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_documents_created_at ON documents (created_at);`,
	},
	{
		Name: "create_index_statuses_document",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_statuses_document_id ON statuses (document_id, created_at);`,
	},
	{
		Name: "create_index_file_objects_document",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_file_objects_document_id ON file_objects (document_id, created_at);`,
	},
	{
		Name: "create_index_assignments_document",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_assignments_document_id ON assignments (document_id);`,
	},
	{
		Name: "create_index_assignments_status_due",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_assignments_status_due_date ON assignments (status, due_date);`,
	},
	{
		Name: "create_index_audit_logs_action",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_audit_logs_action ON audit_logs (action, created_at);`,
	},
	{
		Name: "create_index_audit_logs_user",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_audit_logs_user_id ON audit_logs (user_id);`,
	},
}

// EnsureMigrated checks if the 'documents' table exists and runs the
// whole migration sequence if it doesn't. Settings seeding is idempotent
// either way.
func EnsureMigrated(ctx context.Context, db *sql.DB, log *zap.Logger) error {
	start := time.Now()

	var exists bool
	query := "SELECT to_regclass('public.documents') IS NOT NULL"
	if err := db.QueryRowContext(ctx, query).Scan(&exists); err != nil {
		log.Error("db_migration_failed",
			zap.String("stage", "sentinel_check"),
			zap.Error(err),
		)
		return fmt.Errorf("failed to check sentinel table: %w", err)
	}

	if exists {
		log.Info("db_migration_skip",
			zap.String("msg", "schema already exists, skipping migration"),
			zap.Int64("duration_ms", time.Since(start).Milliseconds()),
		)
		return nil
	}

	log.Info("db_migration_start")

	for _, step := range steps {
		stepStart := time.Now()
		if _, err := db.ExecContext(ctx, step.SQL); err != nil {
			log.Error("db_migration_failed",
				zap.String("migration_step", step.Name),
				zap.Error(err),
				zap.Int64("duration_ms", time.Since(start).Milliseconds()),
			)
			return fmt.Errorf("migration step %s failed: %w", step.Name, err)
		}
		log.Info("db_migration_step",
			zap.String("migration_step", step.Name),
			zap.Int64("step_duration_ms", time.Since(stepStart).Milliseconds()),
		)
	}

	log.Info("db_migration_success",
		zap.Int64("duration_ms", time.Since(start).Milliseconds()),
	)
	return nil
}
