package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"ministrydocs/internal/model"
	"ministrydocs/internal/ocr"
	"ministrydocs/internal/repository"
	"ministrydocs/internal/storage"
)

// downloadURLTTL is how long a presigned download link stays valid.
const downloadURLTTL = 60 * time.Second

// initialStatusName is the default first timeline entry of a new
// document when the uploader names none.
const initialStatusName = "RECEIVED"

// UploadInput carries the multipart upload fields. Status is the label
// of the initial timeline entry; empty means "RECEIVED".
type UploadInput struct {
	LetterNo    string
	Subject     string
	FromName    string
	ToName      string
	DivisionID  string
	Status      string
	FileName    string
	ContentType string
	Size        int64
	Reader      io.Reader
}

// DocumentListResult is the service-level DTO for paginated documents.
type DocumentListResult struct {
	Items []model.DocumentSummary `json:"items"`
	Total int                     `json:"total"`
}

// OCRListResult is the paginated OCR oversight listing.
type OCRListResult struct {
	Items []model.OCRDocument `json:"items"`
	Total int                 `json:"total"`
}

// OCRRunResult reports one document of a batch extraction run.
type OCRRunResult struct {
	DocumentID string `json:"document_id"`
	OK         bool   `json:"ok"`
	Error      string `json:"error,omitempty"`
}

// DocumentService defines the use cases for handling documents, their
// status timelines, file downloads and text extraction.
type DocumentService interface {
	// Upload stores the file in object storage and atomically creates
	// the document, its file record and its initial status. Storage is
	// rolled back if the database write fails.
	Upload(ctx context.Context, actor Actor, in UploadInput) (*model.Document, error)

	// Get returns the full document record. Staff only see documents of
	// their own division.
	Get(ctx context.Context, actor Actor, id string) (*model.DocumentDetail, error)

	// List returns a filtered page. Staff are always scoped to their own
	// division regardless of the requested filter.
	List(ctx context.Context, actor Actor, f repository.DocumentFilter) (*DocumentListResult, error)

	// ChangeDivision moves the document to another division.
	ChangeDivision(ctx context.Context, actor Actor, id, divisionID string) error

	// AppendStatus appends a timeline entry and repoints the current
	// status. Status names are an open set; two characters minimum.
	AppendStatus(ctx context.Context, actor Actor, documentID, name, note string) (*model.Status, error)

	// DownloadURL returns a short-lived presigned URL for the file and
	// records the download in the audit trail.
	DownloadURL(ctx context.Context, actor Actor, fileID string) (string, *model.FileObject, error)

	// RunOCR extracts text from the document's newest file and stores it.
	RunOCR(ctx context.Context, actor Actor, documentID string) (string, error)

	// BatchOCR runs extraction over several documents, reporting each
	// outcome independently.
	BatchOCR(ctx context.Context, actor Actor, documentIDs []string) []OCRRunResult

	// ListOCR returns documents annotated with their derived OCR status.
	ListOCR(ctx context.Context, f repository.DocumentFilter) (*OCRListResult, error)

	// SearchOCR finds documents whose extracted text (or metadata)
	// matches the query.
	SearchOCR(ctx context.Context, query string, page repository.PageQuery) (*OCRListResult, error)
}

type documentService struct {
	docs      repository.DocumentRepository
	divisions repository.DivisionRepository
	settings  repository.SettingsRepository
	audits    repository.AuditRepository
	store     storage.Storage
	extractor ocr.Extractor
}

// NewDocumentService constructs a new DocumentService.
func NewDocumentService(
	docs repository.DocumentRepository,
	divisions repository.DivisionRepository,
	settings repository.SettingsRepository,
	audits repository.AuditRepository,
	store storage.Storage,
	extractor ocr.Extractor,
) DocumentService {
	return &documentService{
		docs:      docs,
		divisions: divisions,
		settings:  settings,
		audits:    audits,
		store:     store,
		extractor: extractor,
	}
}

func (s *documentService) Upload(ctx context.Context, actor Actor, in UploadInput) (*model.Document, error) {
	in.LetterNo = strings.TrimSpace(in.LetterNo)
	in.Subject = strings.TrimSpace(in.Subject)
	if in.LetterNo == "" {
		return nil, fmt.Errorf("%w: letter number is required", ErrValidation)
	}
	if in.DivisionID == "" && actor.DivisionID != nil {
		in.DivisionID = *actor.DivisionID
	}
	if in.DivisionID == "" {
		return nil, fmt.Errorf("%w: division is required", ErrValidation)
	}
	if in.Reader == nil || in.Size <= 0 {
		return nil, fmt.Errorf("%w: file is required", ErrValidation)
	}

	cfg, err := s.settings.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}
	if maxBytes := int64(cfg.FileUploadMaxSizeMB) << 20; in.Size > maxBytes {
		return nil, fmt.Errorf("%w: file exceeds the %d MB limit", ErrValidation, cfg.FileUploadMaxSizeMB)
	}
	ext := strings.ToLower(filepath.Ext(in.FileName))
	if !allowedExtension(cfg.AllowedFileTypes, ext) {
		return nil, fmt.Errorf("%w: file type %q is not allowed", ErrValidation, ext)
	}

	if _, err := s.divisions.FindDetail(ctx, in.DivisionID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: division does not exist", ErrValidation)
		}
		return nil, fmt.Errorf("find division: %w", err)
	}

	key := filepath.ToSlash(filepath.Join("documents", in.DivisionID, uuid.NewString()+"-"+filepath.Base(in.FileName)))
	info, err := s.store.Put(ctx, key, in.Reader, storage.PutObjectOptions{
		Size:        in.Size,
		ContentType: in.ContentType,
		Metadata:    map[string]string{"original-filename": in.FileName},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: upload to storage: %v", ErrUpstream, err)
	}

	doc := &model.Document{
		ID:          uuid.NewString(),
		LetterNo:    in.LetterNo,
		Subject:     in.Subject,
		FromName:    strings.TrimSpace(in.FromName),
		ToName:      strings.TrimSpace(in.ToName),
		DivisionID:  in.DivisionID,
		CreatedByID: actor.ID,
	}
	file := &model.FileObject{
		ID:           uuid.NewString(),
		DocumentID:   doc.ID,
		OriginalName: in.FileName,
		MimeType:     in.ContentType,
		SizeBytes:    info.Size,
		StorageKey:   info.Key,
		UploadedByID: actor.ID,
	}
	statusName := strings.TrimSpace(in.Status)
	if statusName == "" {
		statusName = initialStatusName
	}
	note := "Initial status"
	status := &model.Status{
		ID:          uuid.NewString(),
		DocumentID:  doc.ID,
		Name:        statusName,
		Note:        &note,
		CreatedByID: actor.ID,
	}
	audit := model.NewAudit(model.ActionUpload, model.EntityDocument, &doc.ID, actor.ref(), map[string]any{
		"letterNo": doc.LetterNo,
		"fileName": in.FileName,
	})

	stored, err := s.docs.CreateWithInitial(ctx, doc, file, status, audit)
	if err != nil {
		// Rollback the orphaned object so storage and DB stay in sync.
		if delErr := s.store.Delete(ctx, info.Key); delErr != nil {
			return nil, fmt.Errorf("db save failed: %v; rollback delete failed: %v", err, delErr)
		}
		return nil, fmt.Errorf("db save failed: %w", err)
	}
	return stored, nil
}

func allowedExtension(allowed []string, ext string) bool {
	for _, a := range allowed {
		if strings.EqualFold(a, ext) {
			return true
		}
	}
	return false
}

func (s *documentService) Get(ctx context.Context, actor Actor, id string) (*model.DocumentDetail, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: id is required", ErrValidation)
	}
	det, err := s.docs.FindDetail(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: document", ErrNotFound)
		}
		return nil, fmt.Errorf("find document: %w", err)
	}
	if !actor.CanAccessDivision(det.DivisionID) {
		return nil, fmt.Errorf("%w: document belongs to another division", ErrForbidden)
	}
	return det, nil
}

func (s *documentService) List(ctx context.Context, actor Actor, f repository.DocumentFilter) (*DocumentListResult, error) {
	if !actor.IsAdmin() {
		if actor.DivisionID == nil {
			return &DocumentListResult{Items: []model.DocumentSummary{}, Total: 0}, nil
		}
		f.DivisionID = *actor.DivisionID
	}
	normalizePage(&f.PageQuery)

	res, err := s.docs.List(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	return &DocumentListResult{Items: res.Items, Total: res.Total}, nil
}

func (s *documentService) ChangeDivision(ctx context.Context, actor Actor, id, divisionID string) error {
	if id == "" || divisionID == "" {
		return fmt.Errorf("%w: id and division are required", ErrValidation)
	}
	if _, err := s.divisions.FindDetail(ctx, divisionID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("%w: division does not exist", ErrValidation)
		}
		return fmt.Errorf("find division: %w", err)
	}
	audit := model.NewAudit(model.ActionUpdateDocument, model.EntityDocument, &id, actor.ref(), map[string]any{
		"fields": []string{"divisionId"},
	})
	if err := s.docs.UpdateDivision(ctx, id, divisionID, audit); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("%w: document", ErrNotFound)
		}
		return fmt.Errorf("update division: %w", err)
	}
	return nil
}

func (s *documentService) AppendStatus(ctx context.Context, actor Actor, documentID, name, note string) (*model.Status, error) {
	name = strings.TrimSpace(name)
	if len(name) < 2 {
		return nil, fmt.Errorf("%w: status name must be at least 2 characters", ErrValidation)
	}

	doc, err := s.docs.FindByID(ctx, documentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: document", ErrNotFound)
		}
		return nil, fmt.Errorf("find document: %w", err)
	}
	if !actor.CanAccessDivision(doc.DivisionID) {
		return nil, fmt.Errorf("%w: document belongs to another division", ErrForbidden)
	}

	st := &model.Status{
		ID:          uuid.NewString(),
		DocumentID:  doc.ID,
		Name:        name,
		CreatedByID: actor.ID,
	}
	if trimmed := strings.TrimSpace(note); trimmed != "" {
		st.Note = &trimmed
	}
	audit := model.NewAudit(model.ActionStatusChange, model.EntityDocument, &doc.ID, actor.ref(), map[string]any{
		"status": name,
	})

	stored, err := s.docs.AppendStatus(ctx, st, audit)
	if err != nil {
		return nil, fmt.Errorf("append status: %w", err)
	}
	return stored, nil
}

func (s *documentService) DownloadURL(ctx context.Context, actor Actor, fileID string) (string, *model.FileObject, error) {
	file, err := s.docs.FindFileByID(ctx, fileID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", nil, fmt.Errorf("%w: file", ErrNotFound)
		}
		return "", nil, fmt.Errorf("find file: %w", err)
	}
	doc, err := s.docs.FindByID(ctx, file.DocumentID)
	if err != nil {
		return "", nil, fmt.Errorf("find document: %w", err)
	}
	if !actor.CanAccessDivision(doc.DivisionID) {
		return "", nil, fmt.Errorf("%w: document belongs to another division", ErrForbidden)
	}

	url, err := s.store.PresignGet(ctx, file.StorageKey, downloadURLTTL)
	if err != nil {
		return "", nil, fmt.Errorf("%w: presign download: %v", ErrUpstream, err)
	}

	entry := model.NewAudit(model.ActionDownload, model.EntityFile, &file.ID, actor.ref(), map[string]any{
		"documentId": file.DocumentID,
		"fileName":   file.OriginalName,
	})
	if _, err := s.audits.Create(ctx, entry); err != nil {
		return "", nil, fmt.Errorf("record download: %w", err)
	}
	return url, file, nil
}

func (s *documentService) RunOCR(ctx context.Context, actor Actor, documentID string) (string, error) {
	doc, err := s.docs.FindByID(ctx, documentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", fmt.Errorf("%w: document", ErrNotFound)
		}
		return "", fmt.Errorf("find document: %w", err)
	}
	if !actor.CanAccessDivision(doc.DivisionID) {
		return "", fmt.Errorf("%w: document belongs to another division", ErrForbidden)
	}

	file, err := s.docs.LatestFile(ctx, documentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", fmt.Errorf("%w: document has no files", ErrValidation)
		}
		return "", fmt.Errorf("find latest file: %w", err)
	}

	rc, _, err := s.store.Get(ctx, file.StorageKey)
	if err != nil {
		return "", fmt.Errorf("%w: fetch file: %v", ErrUpstream, err)
	}
	defer rc.Close()
	raw, err := io.ReadAll(rc)
	if err != nil {
		return "", fmt.Errorf("%w: read file: %v", ErrUpstream, err)
	}

	text, err := s.extractor.Extract(ctx, raw, file.MimeType)
	if err != nil {
		return "", fmt.Errorf("%w: extract text: %v", ErrUpstream, err)
	}

	audit := model.NewAudit(model.ActionOCRRun, model.EntityDocument, &doc.ID, actor.ref(), map[string]any{
		"fileId": file.ID,
	})
	if err := s.docs.SetOCRText(ctx, documentID, text, audit); err != nil {
		return "", fmt.Errorf("store extracted text: %w", err)
	}
	return text, nil
}

func (s *documentService) BatchOCR(ctx context.Context, actor Actor, documentIDs []string) []OCRRunResult {
	results := make([]OCRRunResult, 0, len(documentIDs))
	for _, id := range documentIDs {
		if _, err := s.RunOCR(ctx, actor, id); err != nil {
			results = append(results, OCRRunResult{DocumentID: id, Error: err.Error()})
			continue
		}
		results = append(results, OCRRunResult{DocumentID: id, OK: true})
	}
	return results
}

func (s *documentService) ListOCR(ctx context.Context, f repository.DocumentFilter) (*OCRListResult, error) {
	normalizePage(&f.PageQuery)
	res, err := s.docs.List(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	items := make([]model.OCRDocument, 0, len(res.Items))
	for _, d := range res.Items {
		items = append(items, model.OCRDocument{
			DocumentSummary: d,
			OCRStatus:       model.DeriveOCRStatus(d.OCRText),
		})
	}
	return &OCRListResult{Items: items, Total: res.Total}, nil
}

func (s *documentService) SearchOCR(ctx context.Context, query string, page repository.PageQuery) (*OCRListResult, error) {
	query = strings.TrimSpace(query)
	// Queries this short would match nearly everything.
	if len(query) < 2 {
		return &OCRListResult{Items: []model.OCRDocument{}}, nil
	}
	return s.ListOCR(ctx, repository.DocumentFilter{PageQuery: page, Query: query})
}

// normalizePage clamps pagination to sane bounds.
func normalizePage(pq *repository.PageQuery) {
	if pq.Limit <= 0 {
		pq.Limit = 20
	}
	if pq.Limit > 100 {
		pq.Limit = 100
	}
	if pq.Offset < 0 {
		pq.Offset = 0
	}
}
