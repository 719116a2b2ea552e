package model

import "time"

// Document is an incoming or outgoing letter tracked by the ministry.
// CurrentStatusID, when set, always references the most recently created
// Status row of this document.
type Document struct {
	ID              string    `json:"id"`
	LetterNo        string    `json:"letter_no"`
	Subject         string    `json:"subject"`
	FromName        string    `json:"from_name"`
	ToName          string    `json:"to_name"`
	DivisionID      string    `json:"division_id"`
	CurrentStatusID *string   `json:"current_status_id"`
	OCRText         *string   `json:"ocr_text,omitempty"`
	CreatedByID     string    `json:"created_by_id"`
	CreatedAt       time.Time `json:"created_at"`
}

// Status is one entry in a document's append-only status timeline. The
// name is free text; any label may follow any other label.
type Status struct {
	ID          string    `json:"id"`
	DocumentID  string    `json:"document_id"`
	Name        string    `json:"name"`
	Note        *string   `json:"note"`
	CreatedByID string    `json:"created_by_id"`
	CreatedAt   time.Time `json:"created_at"`
}

// StatusWithUser pairs a status with the identity that created it.
type StatusWithUser struct {
	Status
	CreatedBy UserSummary `json:"created_by"`
}

// FileObject is a binary attachment stored in the object store under an
// opaque StorageKey. Append-only.
type FileObject struct {
	ID           string    `json:"id"`
	DocumentID   string    `json:"document_id"`
	OriginalName string    `json:"original_name"`
	MimeType     string    `json:"mime_type"`
	SizeBytes    int64     `json:"size_bytes"`
	StorageKey   string    `json:"storage_key"`
	UploadedByID string    `json:"uploaded_by_id"`
	CreatedAt    time.Time `json:"created_at"`
}

// DocumentSummary is the listing projection: document plus division and
// current-status names and attachment counts.
type DocumentSummary struct {
	Document
	DivisionName      string      `json:"division_name"`
	CurrentStatusName *string     `json:"current_status_name"`
	CreatedBy         UserSummary `json:"created_by"`
	FileCount         int         `json:"file_count"`
	AssignmentCount   int         `json:"assignment_count"`
}

// DocumentDetail is the full record returned by the detail endpoint:
// timeline ascending, files and assignments descending by creation time.
type DocumentDetail struct {
	Document
	Division      Division              `json:"division"`
	CurrentStatus *Status               `json:"current_status"`
	Statuses      []StatusWithUser      `json:"statuses"`
	Files         []FileObject          `json:"files"`
	Assignments   []AssignmentWithUsers `json:"assignments"`
	CreatedBy     UserSummary           `json:"created_by"`
}

// OCRStatus classifies a document's text-extraction progress. It is
// derived at read time, never stored.
type OCRStatus string

const (
	OCRPending   OCRStatus = "PENDING"
	OCRCompleted OCRStatus = "COMPLETED"
)

// OCRDocument is a document annotated with its derived OCR status.
type OCRDocument struct {
	DocumentSummary
	OCRStatus OCRStatus `json:"ocr_status"`
}

// DeriveOCRStatus computes the OCR status from extracted-text presence.
func DeriveOCRStatus(ocrText *string) OCRStatus {
	if ocrText != nil && *ocrText != "" {
		return OCRCompleted
	}
	return OCRPending
}
