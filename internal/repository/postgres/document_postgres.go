package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"ministrydocs/internal/model"
	"ministrydocs/internal/repository"
)

// DocumentPostgres is a PostgreSQL implementation of repository.DocumentRepository.
// It uses database/sql with parameterized queries and contains no business logic.
type DocumentPostgres struct {
	db *sql.DB
}

// NewDocumentPostgres creates a new DocumentPostgres repository.
func NewDocumentPostgres(db *sql.DB) *DocumentPostgres {
	return &DocumentPostgres{db: db}
}

var _ repository.DocumentRepository = (*DocumentPostgres)(nil)

// CreateWithInitial inserts the document, its first file, its first
// status, repoints current_status_id and records the audit entry, all in
// one transaction.
func (r *DocumentPostgres) CreateWithInitial(ctx context.Context, doc *model.Document, file *model.FileObject, status *model.Status, audit *model.AuditLog) (*model.Document, error) {
	out := *doc
	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		const qDoc = `
			INSERT INTO documents (id, letter_no, subject, from_name, to_name, division_id, created_by_id)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING created_at
		`
		if err := tx.QueryRowContext(ctx, qDoc,
			doc.ID,
			doc.LetterNo,
			doc.Subject,
			doc.FromName,
			doc.ToName,
			doc.DivisionID,
			doc.CreatedByID,
		).Scan(&out.CreatedAt); err != nil {
			return mapUnique(err)
		}

		const qFile = `
			INSERT INTO file_objects (id, document_id, original_name, mime_type, size_bytes, storage_key, uploaded_by_id)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING created_at
		`
		if err := tx.QueryRowContext(ctx, qFile,
			file.ID,
			file.DocumentID,
			file.OriginalName,
			file.MimeType,
			file.SizeBytes,
			file.StorageKey,
			file.UploadedByID,
		).Scan(&file.CreatedAt); err != nil {
			return err
		}

		const qStatus = `
			INSERT INTO statuses (id, document_id, name, note, created_by_id)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING created_at
		`
		if err := tx.QueryRowContext(ctx, qStatus,
			status.ID,
			status.DocumentID,
			status.Name,
			status.Note,
			status.CreatedByID,
		).Scan(&status.CreatedAt); err != nil {
			return err
		}

		const qPoint = `UPDATE documents SET current_status_id = $1 WHERE id = $2`
		if _, err := tx.ExecContext(ctx, qPoint, status.ID, doc.ID); err != nil {
			return err
		}
		out.CurrentStatusID = &status.ID

		return insertAudit(ctx, tx, audit)
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// FindByID fetches a single document row by its ID.
func (r *DocumentPostgres) FindByID(ctx context.Context, id string) (*model.Document, error) {
	const q = `
		SELECT id, letter_no, subject, from_name, to_name, division_id, current_status_id, ocr_text, created_by_id, created_at
		FROM documents
		WHERE id = $1
	`
	var d model.Document
	if err := r.db.QueryRowContext(ctx, q, id).Scan(
		&d.ID,
		&d.LetterNo,
		&d.Subject,
		&d.FromName,
		&d.ToName,
		&d.DivisionID,
		&d.CurrentStatusID,
		&d.OCRText,
		&d.CreatedByID,
		&d.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &d, nil
}

// FindDetail assembles the full document record: division, creator,
// current status, the status timeline ascending, files and assignments
// descending.
func (r *DocumentPostgres) FindDetail(ctx context.Context, id string) (*model.DocumentDetail, error) {
	const qDoc = `
		SELECT d.id, d.letter_no, d.subject, d.from_name, d.to_name, d.division_id, d.current_status_id, d.ocr_text, d.created_by_id, d.created_at,
		       v.id, v.name, v.created_at,
		       u.id, u.name, u.email, u.role
		FROM documents d
		JOIN divisions v ON v.id = d.division_id
		JOIN users u ON u.id = d.created_by_id
		WHERE d.id = $1
	`
	var det model.DocumentDetail
	if err := r.db.QueryRowContext(ctx, qDoc, id).Scan(
		&det.ID,
		&det.LetterNo,
		&det.Subject,
		&det.FromName,
		&det.ToName,
		&det.DivisionID,
		&det.CurrentStatusID,
		&det.OCRText,
		&det.CreatedByID,
		&det.CreatedAt,
		&det.Division.ID,
		&det.Division.Name,
		&det.Division.CreatedAt,
		&det.CreatedBy.ID,
		&det.CreatedBy.Name,
		&det.CreatedBy.Email,
		&det.CreatedBy.Role,
	); err != nil {
		return nil, err
	}

	const qStatuses = `
		SELECT s.id, s.document_id, s.name, s.note, s.created_by_id, s.created_at,
		       u.id, u.name, u.email, u.role
		FROM statuses s
		JOIN users u ON u.id = s.created_by_id
		WHERE s.document_id = $1
		ORDER BY s.created_at ASC, s.id ASC
	`
	rows, err := r.db.QueryContext(ctx, qStatuses, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	det.Statuses = make([]model.StatusWithUser, 0)
	for rows.Next() {
		var s model.StatusWithUser
		if err := rows.Scan(
			&s.ID,
			&s.DocumentID,
			&s.Name,
			&s.Note,
			&s.CreatedByID,
			&s.CreatedAt,
			&s.CreatedBy.ID,
			&s.CreatedBy.Name,
			&s.CreatedBy.Email,
			&s.CreatedBy.Role,
		); err != nil {
			return nil, err
		}
		det.Statuses = append(det.Statuses, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if det.CurrentStatusID != nil {
		for i := range det.Statuses {
			if det.Statuses[i].ID == *det.CurrentStatusID {
				cur := det.Statuses[i].Status
				det.CurrentStatus = &cur
				break
			}
		}
	}

	const qFiles = `
		SELECT id, document_id, original_name, mime_type, size_bytes, storage_key, uploaded_by_id, created_at
		FROM file_objects
		WHERE document_id = $1
		ORDER BY created_at DESC, id DESC
	`
	fileRows, err := r.db.QueryContext(ctx, qFiles, id)
	if err != nil {
		return nil, err
	}
	defer fileRows.Close()
	det.Files = make([]model.FileObject, 0)
	for fileRows.Next() {
		var f model.FileObject
		if err := fileRows.Scan(
			&f.ID,
			&f.DocumentID,
			&f.OriginalName,
			&f.MimeType,
			&f.SizeBytes,
			&f.StorageKey,
			&f.UploadedByID,
			&f.CreatedAt,
		); err != nil {
			return nil, err
		}
		det.Files = append(det.Files, f)
	}
	if err := fileRows.Err(); err != nil {
		return nil, err
	}

	const qAssignments = `
		SELECT a.id, a.document_id, a.assignee_id, a.assigned_by_id, a.due_date, a.note, a.status, a.created_at,
		       ae.id, ae.name, ae.email, ae.role,
		       ab.id, ab.name, ab.email, ab.role
		FROM assignments a
		JOIN users ae ON ae.id = a.assignee_id
		JOIN users ab ON ab.id = a.assigned_by_id
		WHERE a.document_id = $1
		ORDER BY a.created_at DESC, a.id DESC
	`
	asgRows, err := r.db.QueryContext(ctx, qAssignments, id)
	if err != nil {
		return nil, err
	}
	defer asgRows.Close()
	det.Assignments = make([]model.AssignmentWithUsers, 0)
	for asgRows.Next() {
		var a model.AssignmentWithUsers
		if err := asgRows.Scan(
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
		); err != nil {
			return nil, err
		}
		det.Assignments = append(det.Assignments, a)
	}
	if err := asgRows.Err(); err != nil {
		return nil, err
	}

	return &det, nil
}

const documentListFrom = `
	FROM documents d
	JOIN divisions v ON v.id = d.division_id
	JOIN users u ON u.id = d.created_by_id
	LEFT JOIN statuses s ON s.id = d.current_status_id
`

// documentListWhere builds the WHERE clause for List from the filter.
func documentListWhere(f repository.DocumentFilter) (string, []any) {
	var conds []string
	var args []any
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}
	if f.DivisionID != "" {
		conds = append(conds, "d.division_id = "+arg(f.DivisionID))
	}
	if f.StatusName != "" {
		conds = append(conds, "s.name = "+arg(f.StatusName))
	}
	if f.LetterNo != "" {
		conds = append(conds, "d.letter_no ILIKE '%' || "+arg(f.LetterNo)+" || '%'")
	}
	if f.Query != "" {
		p := arg(f.Query)
		conds = append(conds, fmt.Sprintf(
			"(d.letter_no ILIKE '%%' || %[1]s || '%%' OR d.subject ILIKE '%%' || %[1]s || '%%' OR d.from_name ILIKE '%%' || %[1]s || '%%' OR d.to_name ILIKE '%%' || %[1]s || '%%' OR COALESCE(d.ocr_text, '') ILIKE '%%' || %[1]s || '%%')", p))
	}
	switch f.OCRStatus {
	case model.OCRCompleted:
		conds = append(conds, "d.ocr_text IS NOT NULL")
	case model.OCRPending:
		conds = append(conds, "d.ocr_text IS NULL")
	}
	if f.From != nil {
		conds = append(conds, "d.created_at >= "+arg(*f.From))
	}
	if f.To != nil {
		conds = append(conds, "d.created_at <= "+arg(*f.To))
	}
	if len(conds) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// List returns a filtered, newest-first page of document summaries.
func (r *DocumentPostgres) List(ctx context.Context, f repository.DocumentFilter) (*repository.PageResult[model.DocumentSummary], error) {
	where, args := documentListWhere(f)

	qCount := "SELECT COUNT(*)" + documentListFrom + where
	var total int
	if err := r.db.QueryRowContext(ctx, qCount, args...).Scan(&total); err != nil {
		return nil, err
	}

	qList := `
		SELECT d.id, d.letter_no, d.subject, d.from_name, d.to_name, d.division_id, d.current_status_id, d.ocr_text, d.created_by_id, d.created_at,
		       v.name, s.name,
		       u.id, u.name, u.email, u.role,
		       (SELECT COUNT(*) FROM file_objects f WHERE f.document_id = d.id),
		       (SELECT COUNT(*) FROM assignments a WHERE a.document_id = d.id)` +
		documentListFrom + where + fmt.Sprintf(`
		ORDER BY d.created_at DESC, d.id DESC
		LIMIT $%d OFFSET $%d
	`, len(args)+1, len(args)+2)
	args = append(args, f.Limit, f.Offset)

	rows, err := r.db.QueryContext(ctx, qList, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.DocumentSummary, 0)
	for rows.Next() {
		var d model.DocumentSummary
		if err := rows.Scan(
			&d.ID,
			&d.LetterNo,
			&d.Subject,
			&d.FromName,
			&d.ToName,
			&d.DivisionID,
			&d.CurrentStatusID,
			&d.OCRText,
			&d.CreatedByID,
			&d.CreatedAt,
			&d.DivisionName,
			&d.CurrentStatusName,
			&d.CreatedBy.ID,
			&d.CreatedBy.Name,
			&d.CreatedBy.Email,
			&d.CreatedBy.Role,
			&d.FileCount,
			&d.AssignmentCount,
		); err != nil {
			return nil, err
		}
		items = append(items, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &repository.PageResult[model.DocumentSummary]{Items: items, Total: total}, nil
}

// UpdateDivision repoints the owning division inside one transaction
// with the audit entry. Returns sql.ErrNoRows when the document is
// missing.
func (r *DocumentPostgres) UpdateDivision(ctx context.Context, id, divisionID string, audit *model.AuditLog) error {
	return withTx(ctx, r.db, func(tx *sql.Tx) error {
		const q = `UPDATE documents SET division_id = $1 WHERE id = $2`
		res, err := tx.ExecContext(ctx, q, divisionID, id)
		if err != nil {
			return err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if n == 0 {
			return sql.ErrNoRows
		}
		return insertAudit(ctx, tx, audit)
	})
}

// AppendStatus inserts the status row and repoints current_status_id in
// one transaction with the audit entry.
func (r *DocumentPostgres) AppendStatus(ctx context.Context, st *model.Status, audit *model.AuditLog) (*model.Status, error) {
	out := *st
	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		const qStatus = `
			INSERT INTO statuses (id, document_id, name, note, created_by_id)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING created_at
		`
		if err := tx.QueryRowContext(ctx, qStatus,
			st.ID,
			st.DocumentID,
			st.Name,
			st.Note,
			st.CreatedByID,
		).Scan(&out.CreatedAt); err != nil {
			return err
		}

		const qPoint = `UPDATE documents SET current_status_id = $1 WHERE id = $2`
		res, err := tx.ExecContext(ctx, qPoint, st.ID, st.DocumentID)
		if err != nil {
			return err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if n == 0 {
			return sql.ErrNoRows
		}

		return insertAudit(ctx, tx, audit)
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// SetOCRText stores extracted text in one transaction with the audit
// entry.
func (r *DocumentPostgres) SetOCRText(ctx context.Context, id, text string, audit *model.AuditLog) error {
	return withTx(ctx, r.db, func(tx *sql.Tx) error {
		const q = `UPDATE documents SET ocr_text = $1 WHERE id = $2`
		res, err := tx.ExecContext(ctx, q, text, id)
		if err != nil {
			return err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if n == 0 {
			return sql.ErrNoRows
		}
		return insertAudit(ctx, tx, audit)
	})
}

// FindFileByID fetches a single file attachment row.
func (r *DocumentPostgres) FindFileByID(ctx context.Context, fileID string) (*model.FileObject, error) {
	const q = `
		SELECT id, document_id, original_name, mime_type, size_bytes, storage_key, uploaded_by_id, created_at
		FROM file_objects
		WHERE id = $1
	`
	var f model.FileObject
	if err := r.db.QueryRowContext(ctx, q, fileID).Scan(
		&f.ID,
		&f.DocumentID,
		&f.OriginalName,
		&f.MimeType,
		&f.SizeBytes,
		&f.StorageKey,
		&f.UploadedByID,
		&f.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &f, nil
}

// LatestFile returns a document's newest attachment, or sql.ErrNoRows.
func (r *DocumentPostgres) LatestFile(ctx context.Context, documentID string) (*model.FileObject, error) {
	const q = `
		SELECT id, document_id, original_name, mime_type, size_bytes, storage_key, uploaded_by_id, created_at
		FROM file_objects
		WHERE document_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT 1
	`
	var f model.FileObject
	if err := r.db.QueryRowContext(ctx, q, documentID).Scan(
		&f.ID,
		&f.DocumentID,
		&f.OriginalName,
		&f.MimeType,
		&f.SizeBytes,
		&f.StorageKey,
		&f.UploadedByID,
		&f.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &f, nil
}
