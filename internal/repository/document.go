package repository

import (
	"context"

	"ministrydocs/internal/model"
)

// DocumentRepository defines data access for documents, their status
// timelines and their file attachments.
type DocumentRepository interface {
	// CreateWithInitial atomically creates the document, its first file,
	// its first status, repoints current_status_id to that status, and
	// records the audit entry — all in one transaction. The caller
	// provides IDs; CreatedAt fields are set by the database.
	CreateWithInitial(ctx context.Context, doc *model.Document, file *model.FileObject, status *model.Status, audit *model.AuditLog) (*model.Document, error)

	// FindByID returns the bare document row.
	FindByID(ctx context.Context, id string) (*model.Document, error)

	// FindDetail returns the full record: division, current status,
	// timeline ascending, files descending, assignments descending with
	// nested identity summaries.
	FindDetail(ctx context.Context, id string) (*model.DocumentDetail, error)

	// List returns a filtered, newest-first page of document summaries
	// with a total count.
	List(ctx context.Context, f DocumentFilter) (*PageResult[model.DocumentSummary], error)

	// UpdateDivision repoints the document's owning division and records
	// the audit entry in the same transaction.
	UpdateDivision(ctx context.Context, id, divisionID string, audit *model.AuditLog) error

	// AppendStatus atomically inserts the status row, repoints the
	// document's current_status_id to it, and records the audit entry.
	// This is the only way current_status_id changes after creation.
	AppendStatus(ctx context.Context, st *model.Status, audit *model.AuditLog) (*model.Status, error)

	// SetOCRText stores extracted text verbatim and records the audit
	// entry in the same transaction.
	SetOCRText(ctx context.Context, id, text string, audit *model.AuditLog) error

	// FindFileByID returns a file attachment row.
	FindFileByID(ctx context.Context, fileID string) (*model.FileObject, error)

	// LatestFile returns the newest attachment of a document, or
	// sql.ErrNoRows if it has none.
	LatestFile(ctx context.Context, documentID string) (*model.FileObject, error)
}
