package postgres

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"

	"ministrydocs/internal/model"
	"ministrydocs/internal/repository"
)

func TestDocumentPostgres_CreateWithInitial(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewDocumentPostgres(db)
	ctx := context.Background()
	now := time.Now().UTC()

	doc := &model.Document{
		ID:          "doc-1",
		LetterNo:    "MIN/2025/001",
		Subject:     "Budget circular",
		FromName:    "Treasury",
		ToName:      "All divisions",
		DivisionID:  "div-1",
		CreatedByID: "user-1",
	}
	file := &model.FileObject{
		ID:           "file-1",
		DocumentID:   "doc-1",
		OriginalName: "circular.pdf",
		MimeType:     "application/pdf",
		SizeBytes:    2048,
		StorageKey:   "documents/div-1/abc.pdf",
		UploadedByID: "user-1",
	}
	status := &model.Status{
		ID:          "status-1",
		DocumentID:  "doc-1",
		Name:        "RECEIVED",
		CreatedByID: "user-1",
	}
	userID := "user-1"
	audit := model.NewAudit(model.ActionUpload, model.EntityDocument, &doc.ID, &userID, nil)

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO documents").
		WithArgs(doc.ID, doc.LetterNo, doc.Subject, doc.FromName, doc.ToName, doc.DivisionID, doc.CreatedByID).
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(now))
	mock.ExpectQuery("INSERT INTO file_objects").
		WithArgs(file.ID, file.DocumentID, file.OriginalName, file.MimeType, file.SizeBytes, file.StorageKey, file.UploadedByID).
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(now))
	mock.ExpectQuery("INSERT INTO statuses").
		WithArgs(status.ID, status.DocumentID, status.Name, status.Note, status.CreatedByID).
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(now))
	mock.ExpectExec("UPDATE documents SET current_status_id").
		WithArgs(status.ID, doc.ID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO audit_logs").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	result, err := repo.CreateWithInitial(ctx, doc, file, status, audit)

	assert.NoError(t, err)
	assert.NotNil(t, result)
	assert.Equal(t, doc.ID, result.ID)
	if assert.NotNil(t, result.CurrentStatusID) {
		assert.Equal(t, status.ID, *result.CurrentStatusID)
	}
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDocumentPostgres_CreateWithInitial_RollsBackOnFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewDocumentPostgres(db)
	ctx := context.Background()

	doc := &model.Document{ID: "doc-1", DivisionID: "div-1", CreatedByID: "user-1"}
	file := &model.FileObject{ID: "file-1", DocumentID: "doc-1"}
	status := &model.Status{ID: "status-1", DocumentID: "doc-1", Name: "RECEIVED", CreatedByID: "user-1"}
	userID := "user-1"
	audit := model.NewAudit(model.ActionUpload, model.EntityDocument, &doc.ID, &userID, nil)

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO documents").
		WillReturnError(errors.New("boom"))
	mock.ExpectRollback()

	result, err := repo.CreateWithInitial(ctx, doc, file, status, audit)

	assert.Error(t, err)
	assert.Nil(t, result)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDocumentPostgres_FindByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewDocumentPostgres(db)
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		rows := sqlmock.NewRows([]string{"id", "letter_no", "subject", "from_name", "to_name", "division_id", "current_status_id", "ocr_text", "created_by_id", "created_at"}).
			AddRow("doc-1", "MIN/2025/001", "Budget circular", "Treasury", "All divisions", "div-1", nil, nil, "user-1", time.Now())

		mock.ExpectQuery("SELECT (.+) FROM documents").
			WithArgs("doc-1").
			WillReturnRows(rows)

		doc, err := repo.FindByID(ctx, "doc-1")

		assert.NoError(t, err)
		assert.NotNil(t, doc)
		assert.Equal(t, "MIN/2025/001", doc.LetterNo)
		assert.Nil(t, doc.CurrentStatusID)
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM documents").
			WithArgs("missing").
			WillReturnError(sql.ErrNoRows)

		doc, err := repo.FindByID(ctx, "missing")

		assert.Error(t, err)
		assert.True(t, errors.Is(err, sql.ErrNoRows))
		assert.Nil(t, doc)
	})
}

func TestDocumentPostgres_List(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewDocumentPostgres(db)
	ctx := context.Background()

	mock.ExpectQuery("SELECT COUNT\\(\\*\\)").
		WithArgs("div-1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	listRows := sqlmock.NewRows([]string{
		"id", "letter_no", "subject", "from_name", "to_name", "division_id", "current_status_id", "ocr_text", "created_by_id", "created_at",
		"division_name", "status_name", "uid", "uname", "uemail", "urole", "file_count", "assignment_count",
	}).AddRow(
		"doc-1", "MIN/2025/001", "Budget circular", "Treasury", "All divisions", "div-1", "status-1", nil, "user-1", time.Now(),
		"Finance", "RECEIVED", "user-1", "Amal Perera", "amal@ministry.gov.lk", "STAFF", 1, 0,
	)
	mock.ExpectQuery("SELECT d.id, d.letter_no").
		WithArgs("div-1", 20, 0).
		WillReturnRows(listRows)

	result, err := repo.List(ctx, repository.DocumentFilter{
		PageQuery:  repository.PageQuery{Limit: 20, Offset: 0},
		DivisionID: "div-1",
	})

	assert.NoError(t, err)
	assert.Equal(t, 1, result.Total)
	assert.Len(t, result.Items, 1)
	assert.Equal(t, "Finance", result.Items[0].DivisionName)
	if assert.NotNil(t, result.Items[0].CurrentStatusName) {
		assert.Equal(t, "RECEIVED", *result.Items[0].CurrentStatusName)
	}
	assert.Equal(t, 1, result.Items[0].FileCount)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDocumentPostgres_List_OCRStatusFilter(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewDocumentPostgres(db)
	ctx := context.Background()

	// PENDING filters on absent extracted text; the clause carries no
	// bind parameter.
	mock.ExpectQuery(`(?s)SELECT COUNT\(\*\).*WHERE d\.ocr_text IS NULL`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	listRows := sqlmock.NewRows([]string{
		"id", "letter_no", "subject", "from_name", "to_name", "division_id", "current_status_id", "ocr_text", "created_by_id", "created_at",
		"division_name", "status_name", "uid", "uname", "uemail", "urole", "file_count", "assignment_count",
	}).AddRow(
		"doc-2", "MIN/2025/002", "Tender notice", "Procurement", "All divisions", "div-1", "status-2", nil, "user-1", time.Now(),
		"Finance", "RECEIVED", "user-1", "Amal Perera", "amal@ministry.gov.lk", "STAFF", 1, 0,
	)
	mock.ExpectQuery(`(?s)SELECT d\.id, d\.letter_no.*WHERE d\.ocr_text IS NULL`).
		WithArgs(20, 0).
		WillReturnRows(listRows)

	result, err := repo.List(ctx, repository.DocumentFilter{
		PageQuery: repository.PageQuery{Limit: 20, Offset: 0},
		OCRStatus: model.OCRPending,
	})

	assert.NoError(t, err)
	assert.Equal(t, 1, result.Total)
	assert.Nil(t, result.Items[0].OCRText)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDocumentPostgres_AppendStatus(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewDocumentPostgres(db)
	ctx := context.Background()
	now := time.Now().UTC()

	note := "Forwarded to legal"
	st := &model.Status{
		ID:          "status-2",
		DocumentID:  "doc-1",
		Name:        "FORWARDED",
		Note:        &note,
		CreatedByID: "user-1",
	}
	userID := "user-1"
	audit := model.NewAudit(model.ActionStatusChange, model.EntityDocument, &st.DocumentID, &userID, map[string]any{"status": st.Name})

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO statuses").
		WithArgs(st.ID, st.DocumentID, st.Name, st.Note, st.CreatedByID).
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(now))
	mock.ExpectExec("UPDATE documents SET current_status_id").
		WithArgs(st.ID, st.DocumentID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO audit_logs").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	result, err := repo.AppendStatus(ctx, st, audit)

	assert.NoError(t, err)
	assert.NotNil(t, result)
	assert.Equal(t, now, result.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDocumentPostgres_UpdateDivision_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewDocumentPostgres(db)
	ctx := context.Background()

	userID := "admin-1"
	id := "missing"
	audit := model.NewAudit(model.ActionUpdateDocument, model.EntityDocument, &id, &userID, nil)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE documents SET division_id").
		WithArgs("div-2", "missing").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err = repo.UpdateDivision(ctx, "missing", "div-2", audit)

	assert.Error(t, err)
	assert.True(t, errors.Is(err, sql.ErrNoRows))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDocumentPostgres_LatestFile(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewDocumentPostgres(db)
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		rows := sqlmock.NewRows([]string{"id", "document_id", "original_name", "mime_type", "size_bytes", "storage_key", "uploaded_by_id", "created_at"}).
			AddRow("file-1", "doc-1", "circular.pdf", "application/pdf", 2048, "documents/div-1/abc.pdf", "user-1", time.Now())

		mock.ExpectQuery("SELECT (.+) FROM file_objects").
			WithArgs("doc-1").
			WillReturnRows(rows)

		f, err := repo.LatestFile(ctx, "doc-1")

		assert.NoError(t, err)
		assert.Equal(t, "circular.pdf", f.OriginalName)
	})

	t.Run("no files", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM file_objects").
			WithArgs("doc-2").
			WillReturnError(sql.ErrNoRows)

		f, err := repo.LatestFile(ctx, "doc-2")

		assert.True(t, errors.Is(err, sql.ErrNoRows))
		assert.Nil(t, f)
	})
}
