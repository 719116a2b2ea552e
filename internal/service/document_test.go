package service

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"ministrydocs/internal/model"
	ocrmocks "ministrydocs/internal/ocr/mocks"
	"ministrydocs/internal/repository"
	repomocks "ministrydocs/internal/repository/mocks"
	"ministrydocs/internal/storage"
	storagemocks "ministrydocs/internal/storage/mocks"
)

type documentServiceMocks struct {
	docs      *repomocks.MockDocumentRepository
	divisions *repomocks.MockDivisionRepository
	settings  *repomocks.MockSettingsRepository
	audits    *repomocks.MockAuditRepository
	store     *storagemocks.MockStorage
	extractor *ocrmocks.MockExtractor
}

func newTestDocumentService() (DocumentService, *documentServiceMocks) {
	m := &documentServiceMocks{
		docs:      new(repomocks.MockDocumentRepository),
		divisions: new(repomocks.MockDivisionRepository),
		settings:  new(repomocks.MockSettingsRepository),
		audits:    new(repomocks.MockAuditRepository),
		store:     new(storagemocks.MockStorage),
		extractor: new(ocrmocks.MockExtractor),
	}
	svc := NewDocumentService(m.docs, m.divisions, m.settings, m.audits, m.store, m.extractor)
	return svc, m
}

func staffActor(divisionID string) Actor {
	return Actor{ID: "user-1", Role: model.RoleStaff, DivisionID: &divisionID}
}

func adminActor() Actor {
	return Actor{ID: "admin-1", Role: model.RoleAdmin}
}

func defaultSettingsPtr() *model.Settings {
	s := model.DefaultSettings()
	return &s
}

func validUpload() UploadInput {
	return UploadInput{
		LetterNo:    "MIN/2025/001",
		Subject:     "Budget circular",
		FromName:    "Treasury",
		ToName:      "All divisions",
		DivisionID:  "div-1",
		FileName:    "circular.pdf",
		ContentType: "application/pdf",
		Size:        2048,
		Reader:      strings.NewReader("pdf bytes"),
	}
}

func TestDocumentService_Upload(t *testing.T) {
	ctx := context.Background()

	t.Run("success stores file then creates records atomically", func(t *testing.T) {
		svc, m := newTestDocumentService()
		in := validUpload()

		m.settings.On("Get", ctx).Return(defaultSettingsPtr(), nil)
		m.divisions.On("FindDetail", ctx, "div-1").Return(&model.DivisionDetail{}, nil)
		m.store.On("Put", ctx, mock.MatchedBy(func(key string) bool {
			return strings.HasPrefix(key, "documents/div-1/") && strings.HasSuffix(key, ".pdf")
		}), mock.Anything, mock.Anything).Return(func(_ context.Context, key string, _ io.Reader, opt storage.PutObjectOptions) storage.ObjectInfo {
			return storage.ObjectInfo{Key: key, Size: opt.Size, ContentType: opt.ContentType}
		}, nil)
		m.docs.On("CreateWithInitial", ctx,
			mock.MatchedBy(func(d *model.Document) bool { return d.LetterNo == "MIN/2025/001" && d.CreatedByID == "user-1" }),
			mock.MatchedBy(func(f *model.FileObject) bool { return f.OriginalName == "circular.pdf" }),
			mock.MatchedBy(func(s *model.Status) bool { return s.Name == "RECEIVED" && s.Note != nil && *s.Note == "Initial status" }),
			mock.MatchedBy(func(a *model.AuditLog) bool { return a.Action == model.ActionUpload }),
		).Return(&model.Document{ID: "doc-1"}, nil)

		doc, err := svc.Upload(ctx, staffActor("div-1"), in)

		assert.NoError(t, err)
		assert.Equal(t, "doc-1", doc.ID)
		m.store.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
		m.docs.AssertExpectations(t)
	})

	t.Run("db failure rolls back the stored object", func(t *testing.T) {
		svc, m := newTestDocumentService()
		in := validUpload()

		m.settings.On("Get", ctx).Return(defaultSettingsPtr(), nil)
		m.divisions.On("FindDetail", ctx, "div-1").Return(&model.DivisionDetail{}, nil)
		m.store.On("Put", ctx, mock.Anything, mock.Anything, mock.Anything).
			Return(storage.ObjectInfo{Key: "documents/div-1/x.pdf", Size: 2048}, nil)
		m.docs.On("CreateWithInitial", ctx, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return(nil, errors.New("db down"))
		m.store.On("Delete", ctx, "documents/div-1/x.pdf").Return(nil)

		doc, err := svc.Upload(ctx, staffActor("div-1"), in)

		assert.Error(t, err)
		assert.Nil(t, doc)
		m.store.AssertCalled(t, "Delete", ctx, "documents/div-1/x.pdf")
	})

	t.Run("oversized file is rejected before storage", func(t *testing.T) {
		svc, m := newTestDocumentService()
		in := validUpload()
		in.Size = 11 << 20 // limit is 10 MB

		m.settings.On("Get", ctx).Return(defaultSettingsPtr(), nil)

		doc, err := svc.Upload(ctx, staffActor("div-1"), in)

		assert.ErrorIs(t, err, ErrValidation)
		assert.Nil(t, doc)
		m.store.AssertNotCalled(t, "Put", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("disallowed extension is rejected", func(t *testing.T) {
		svc, m := newTestDocumentService()
		in := validUpload()
		in.FileName = "malware.exe"

		m.settings.On("Get", ctx).Return(defaultSettingsPtr(), nil)

		doc, err := svc.Upload(ctx, staffActor("div-1"), in)

		assert.ErrorIs(t, err, ErrValidation)
		assert.Nil(t, doc)
		m.store.AssertNotCalled(t, "Put", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("staff may upload into another division", func(t *testing.T) {
		svc, m := newTestDocumentService()
		in := validUpload()
		in.DivisionID = "div-2"

		m.settings.On("Get", ctx).Return(defaultSettingsPtr(), nil)
		m.divisions.On("FindDetail", ctx, "div-2").Return(&model.DivisionDetail{}, nil)
		m.store.On("Put", ctx, mock.Anything, mock.Anything, mock.Anything).
			Return(storage.ObjectInfo{Key: "documents/div-2/x.pdf", Size: 2048}, nil)
		m.docs.On("CreateWithInitial", ctx, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return(&model.Document{ID: "doc-2"}, nil)

		doc, err := svc.Upload(ctx, staffActor("div-1"), in)

		assert.NoError(t, err)
		assert.Equal(t, "doc-2", doc.ID)
	})
}

func TestDocumentService_Get_Scoping(t *testing.T) {
	ctx := context.Background()

	detail := &model.DocumentDetail{
		Document: model.Document{ID: "doc-1", DivisionID: "div-1"},
	}

	t.Run("staff read their own division", func(t *testing.T) {
		svc, m := newTestDocumentService()
		m.docs.On("FindDetail", ctx, "doc-1").Return(detail, nil)

		got, err := svc.Get(ctx, staffActor("div-1"), "doc-1")

		assert.NoError(t, err)
		assert.Equal(t, "doc-1", got.ID)
	})

	t.Run("staff are denied cross-division reads", func(t *testing.T) {
		svc, m := newTestDocumentService()
		m.docs.On("FindDetail", ctx, "doc-1").Return(detail, nil)

		got, err := svc.Get(ctx, staffActor("div-2"), "doc-1")

		assert.ErrorIs(t, err, ErrForbidden)
		assert.Nil(t, got)
	})

	t.Run("admins read everything", func(t *testing.T) {
		svc, m := newTestDocumentService()
		m.docs.On("FindDetail", ctx, "doc-1").Return(detail, nil)

		got, err := svc.Get(ctx, adminActor(), "doc-1")

		assert.NoError(t, err)
		assert.Equal(t, "doc-1", got.ID)
	})

	t.Run("missing document maps to not found", func(t *testing.T) {
		svc, m := newTestDocumentService()
		m.docs.On("FindDetail", ctx, "ghost").Return(nil, sql.ErrNoRows)

		got, err := svc.Get(ctx, adminActor(), "ghost")

		assert.ErrorIs(t, err, ErrNotFound)
		assert.Nil(t, got)
	})
}

func TestDocumentService_List_ScopesStaffToOwnDivision(t *testing.T) {
	ctx := context.Background()
	svc, m := newTestDocumentService()

	m.docs.On("List", ctx, mock.MatchedBy(func(f repository.DocumentFilter) bool {
		return f.DivisionID == "div-1"
	})).Return(&repository.PageResult[model.DocumentSummary]{Items: []model.DocumentSummary{}, Total: 0}, nil)

	// The request asks for another division; the filter is overridden.
	_, err := svc.List(ctx, staffActor("div-1"), repository.DocumentFilter{DivisionID: "div-2"})

	assert.NoError(t, err)
	m.docs.AssertExpectations(t)
}

func TestDocumentService_AppendStatus(t *testing.T) {
	ctx := context.Background()
	doc := &model.Document{ID: "doc-1", DivisionID: "div-1"}

	t.Run("appends and repoints", func(t *testing.T) {
		svc, m := newTestDocumentService()
		m.docs.On("FindByID", ctx, "doc-1").Return(doc, nil)
		m.docs.On("AppendStatus", ctx,
			mock.MatchedBy(func(st *model.Status) bool { return st.Name == "UNDER REVIEW" && st.DocumentID == "doc-1" }),
			mock.MatchedBy(func(a *model.AuditLog) bool { return a.Action == model.ActionStatusChange }),
		).Return(&model.Status{ID: "status-2", Name: "UNDER REVIEW"}, nil)

		st, err := svc.AppendStatus(ctx, staffActor("div-1"), "doc-1", "UNDER REVIEW", "")

		assert.NoError(t, err)
		assert.Equal(t, "UNDER REVIEW", st.Name)
	})

	t.Run("rejects names shorter than two characters", func(t *testing.T) {
		svc, m := newTestDocumentService()

		st, err := svc.AppendStatus(ctx, staffActor("div-1"), "doc-1", " X ", "")

		assert.ErrorIs(t, err, ErrValidation)
		assert.Nil(t, st)
		m.docs.AssertNotCalled(t, "AppendStatus", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("denies cross-division staff", func(t *testing.T) {
		svc, m := newTestDocumentService()
		m.docs.On("FindByID", ctx, "doc-1").Return(doc, nil)

		st, err := svc.AppendStatus(ctx, staffActor("div-2"), "doc-1", "APPROVED", "")

		assert.ErrorIs(t, err, ErrForbidden)
		assert.Nil(t, st)
	})
}

func TestDocumentService_DownloadURL(t *testing.T) {
	ctx := context.Background()
	svc, m := newTestDocumentService()

	file := &model.FileObject{ID: "file-1", DocumentID: "doc-1", OriginalName: "circular.pdf", StorageKey: "documents/div-1/x.pdf"}
	m.docs.On("FindFileByID", ctx, "file-1").Return(file, nil)
	m.docs.On("FindByID", ctx, "doc-1").Return(&model.Document{ID: "doc-1", DivisionID: "div-1"}, nil)
	m.store.On("PresignGet", ctx, "documents/div-1/x.pdf", downloadURLTTL).Return("https://minio/presigned", nil)
	m.audits.On("Create", ctx, mock.MatchedBy(func(e *model.AuditLog) bool {
		return e.Action == model.ActionDownload && e.Entity == model.EntityFile
	})).Return(&model.AuditLog{ID: "log-1"}, nil)

	url, got, err := svc.DownloadURL(ctx, staffActor("div-1"), "file-1")

	assert.NoError(t, err)
	assert.Equal(t, "https://minio/presigned", url)
	assert.Equal(t, "circular.pdf", got.OriginalName)
	m.audits.AssertExpectations(t)
}

func TestDocumentService_RunOCR(t *testing.T) {
	ctx := context.Background()
	svc, m := newTestDocumentService()

	m.docs.On("FindByID", ctx, "doc-1").Return(&model.Document{ID: "doc-1", DivisionID: "div-1"}, nil)
	m.docs.On("LatestFile", ctx, "doc-1").Return(&model.FileObject{ID: "file-1", MimeType: "application/pdf", StorageKey: "documents/div-1/x.pdf"}, nil)
	m.store.On("Get", ctx, "documents/div-1/x.pdf").
		Return(io.NopCloser(strings.NewReader("pdf bytes")), storage.ObjectInfo{}, nil)
	m.extractor.On("Extract", ctx, []byte("pdf bytes"), "application/pdf").Return("extracted text", nil)
	m.docs.On("SetOCRText", ctx, "doc-1", "extracted text", mock.MatchedBy(func(a *model.AuditLog) bool {
		return a.Action == model.ActionOCRRun
	})).Return(nil)

	text, err := svc.RunOCR(ctx, adminActor(), "doc-1")

	assert.NoError(t, err)
	assert.Equal(t, "extracted text", text)
	m.docs.AssertExpectations(t)
}

func TestDocumentService_ListOCR_DerivesStatus(t *testing.T) {
	ctx := context.Background()
	svc, m := newTestDocumentService()

	text := "some text"
	m.docs.On("List", ctx, mock.Anything).Return(&repository.PageResult[model.DocumentSummary]{
		Items: []model.DocumentSummary{
			{Document: model.Document{ID: "doc-1", OCRText: &text}},
			{Document: model.Document{ID: "doc-2"}},
		},
		Total: 2,
	}, nil)

	res, err := svc.ListOCR(ctx, repository.DocumentFilter{})

	assert.NoError(t, err)
	assert.Equal(t, model.OCRCompleted, res.Items[0].OCRStatus)
	assert.Equal(t, model.OCRPending, res.Items[1].OCRStatus)
}

func TestDocumentService_SearchOCR_ShortQueryReturnsEmpty(t *testing.T) {
	ctx := context.Background()
	svc, m := newTestDocumentService()

	res, err := svc.SearchOCR(ctx, " x ", repository.PageQuery{})

	assert.NoError(t, err)
	assert.Empty(t, res.Items)
	m.docs.AssertNotCalled(t, "List", mock.Anything, mock.Anything)
}

func TestDocumentService_Upload_DefaultsStaffDivision(t *testing.T) {
	ctx := context.Background()
	svc, m := newTestDocumentService()
	in := validUpload()
	in.DivisionID = ""

	m.settings.On("Get", ctx).Return(defaultSettingsPtr(), nil)
	m.divisions.On("FindDetail", ctx, "div-1").Return(&model.DivisionDetail{}, nil)
	m.store.On("Put", ctx, mock.MatchedBy(func(key string) bool {
		return strings.HasPrefix(key, "documents/div-1/")
	}), mock.Anything, mock.Anything).Return(storage.ObjectInfo{Key: "documents/div-1/x.pdf", Size: 2048}, nil)
	m.docs.On("CreateWithInitial", ctx,
		mock.MatchedBy(func(d *model.Document) bool { return d.DivisionID == "div-1" }),
		mock.Anything, mock.Anything, mock.Anything,
	).Return(&model.Document{ID: "doc-3", DivisionID: "div-1"}, nil)

	doc, err := svc.Upload(ctx, staffActor("div-1"), in)

	assert.NoError(t, err)
	assert.Equal(t, "div-1", doc.DivisionID)
	m.docs.AssertExpectations(t)
}

func TestDocumentService_Upload_HonorsInitialStatusLabel(t *testing.T) {
	ctx := context.Background()
	svc, m := newTestDocumentService()
	in := validUpload()
	in.Status = " FORWARDED "

	m.settings.On("Get", ctx).Return(defaultSettingsPtr(), nil)
	m.divisions.On("FindDetail", ctx, "div-1").Return(&model.DivisionDetail{}, nil)
	m.store.On("Put", ctx, mock.Anything, mock.Anything, mock.Anything).
		Return(storage.ObjectInfo{Key: "documents/div-1/x.pdf", Size: 2048}, nil)
	m.docs.On("CreateWithInitial", ctx,
		mock.Anything, mock.Anything,
		mock.MatchedBy(func(s *model.Status) bool { return s.Name == "FORWARDED" }),
		mock.Anything,
	).Return(&model.Document{ID: "doc-4"}, nil)

	doc, err := svc.Upload(ctx, staffActor("div-1"), in)

	assert.NoError(t, err)
	assert.Equal(t, "doc-4", doc.ID)
	m.docs.AssertExpectations(t)
}
