package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"ministrydocs/internal/auth"
	"ministrydocs/internal/model"
	"ministrydocs/internal/service"
	serviceMocks "ministrydocs/internal/service/mocks"
)

type testApp struct {
	app         *fiber.App
	signer      auth.TokenSigner
	auth        *serviceMocks.MockAuthService
	documents   *serviceMocks.MockDocumentService
	assignments *serviceMocks.MockAssignmentService
	divisions   *serviceMocks.MockDivisionService
	users       *serviceMocks.MockUserService
	audits      *serviceMocks.MockAuditService
	settings    *serviceMocks.MockSettingsService
	reports     *serviceMocks.MockReportService
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()

	db, _, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	signer, err := auth.NewHMACSigner("test-secret")
	require.NoError(t, err)

	ta := &testApp{
		signer:      signer,
		auth:        new(serviceMocks.MockAuthService),
		documents:   new(serviceMocks.MockDocumentService),
		assignments: new(serviceMocks.MockAssignmentService),
		divisions:   new(serviceMocks.MockDivisionService),
		users:       new(serviceMocks.MockUserService),
		audits:      new(serviceMocks.MockAuditService),
		settings:    new(serviceMocks.MockSettingsService),
		reports:     new(serviceMocks.MockReportService),
	}

	// Authed routes pass through the maintenance gate.
	ta.settings.On("Get", mock.Anything).Return(&model.Settings{}, nil).Maybe()

	h := New(ta.auth, ta.documents, ta.assignments, ta.divisions, ta.users, ta.audits, ta.settings, ta.reports)
	ta.app = fiber.New(fiber.Config{ErrorHandler: ErrorHandler()})
	h.RegisterRoutes(ta.app, db, signer)
	return ta
}

func (ta *testApp) token(t *testing.T, role model.Role, divisionID *string) string {
	t.Helper()
	tok, err := ta.signer.Sign(auth.Claims{
		UserID:     "user-1",
		Role:       role,
		DivisionID: divisionID,
		Email:      "user@ministry.gov.lk",
		Name:       "Test User",
	}, time.Hour)
	require.NoError(t, err)
	return tok
}

func authedRequest(method, target, token string, body *bytes.Buffer) *http.Request {
	var req *http.Request
	if body == nil {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, body)
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}

func jsonBody(t *testing.T, v any) *bytes.Buffer {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewBuffer(b)
}

func decodeError(t *testing.T, resp *http.Response) errorPayload {
	t.Helper()
	var body errorPayload
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body
}

func TestLogin(t *testing.T) {
	ta := newTestApp(t)

	t.Run("success", func(t *testing.T) {
		ta.auth.On("Login", mock.Anything, "admin@ministry.gov.lk", "secret123").
			Return(&service.LoginResult{Token: "signed-token", User: model.UserSummary{ID: "user-1", Role: model.RoleAdmin}}, nil).Once()

		req := httptest.NewRequest(http.MethodPost, "/api/auth/login", jsonBody(t, fiber.Map{
			"email":    "admin@ministry.gov.lk",
			"password": "secret123",
		}))
		req.Header.Set("Content-Type", "application/json")
		resp, _ := ta.app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		var result service.LoginResult
		json.NewDecoder(resp.Body).Decode(&result)
		assert.Equal(t, "signed-token", result.Token)
		ta.auth.AssertExpectations(t)
	})

	t.Run("invalid credentials", func(t *testing.T) {
		ta.auth.On("Login", mock.Anything, "admin@ministry.gov.lk", "wrong").
			Return(nil, service.ErrInvalidCredentials).Once()

		req := httptest.NewRequest(http.MethodPost, "/api/auth/login", jsonBody(t, fiber.Map{
			"email":    "admin@ministry.gov.lk",
			"password": "wrong",
		}))
		req.Header.Set("Content-Type", "application/json")
		resp, _ := ta.app.Test(req)

		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		assert.Equal(t, "INVALID_CREDENTIALS", decodeError(t, resp).Error.Code)
	})

	t.Run("malformed body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/auth/login", bytes.NewBufferString("{not json"))
		req.Header.Set("Content-Type", "application/json")
		resp, _ := ta.app.Test(req)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "BAD_REQUEST", decodeError(t, resp).Error.Code)
	})
}

func TestAuthGuard(t *testing.T) {
	ta := newTestApp(t)

	t.Run("missing token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/documents", nil)
		resp, _ := ta.app.Test(req)

		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		assert.Equal(t, "UNAUTHENTICATED", decodeError(t, resp).Error.Code)
	})

	t.Run("staff cannot reach admin routes", func(t *testing.T) {
		div := "div-1"
		tok := ta.token(t, model.RoleStaff, &div)

		resp, _ := ta.app.Test(authedRequest(http.MethodGet, "/api/admin/users", tok, nil))

		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
		assert.Equal(t, "FORBIDDEN", decodeError(t, resp).Error.Code)
	})
}

func TestMaintenanceGate(t *testing.T) {
	ta := newTestApp(t)
	ta.settings.ExpectedCalls = nil
	ta.settings.On("Get", mock.Anything).Return(&model.Settings{SystemMaintenance: true}, nil)

	div := "div-1"
	staff := ta.token(t, model.RoleStaff, &div)
	resp, _ := ta.app.Test(authedRequest(http.MethodGet, "/api/documents", staff, nil))

	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	assert.Equal(t, "SERVICE_UNAVAILABLE", decodeError(t, resp).Error.Code)
}

func TestUploadDocument(t *testing.T) {
	ta := newTestApp(t)
	div := "div-1"
	tok := ta.token(t, model.RoleStaff, &div)

	t.Run("success", func(t *testing.T) {
		body := &bytes.Buffer{}
		writer := multipart.NewWriter(body)
		writer.WriteField("letter_no", "MOF/2025/001")
		writer.WriteField("subject", "Budget circular")
		writer.WriteField("division_id", "div-1")
		writer.WriteField("status", "FORWARDED")
		part, _ := writer.CreateFormFile("file", "circular.pdf")
		part.Write([]byte("%PDF-1.4"))
		writer.Close()

		ta.documents.On("Upload", mock.Anything, mock.Anything, mock.MatchedBy(func(in service.UploadInput) bool {
			return in.LetterNo == "MOF/2025/001" && in.FileName == "circular.pdf" && in.Status == "FORWARDED"
		})).Return(&model.Document{ID: "doc-1", LetterNo: "MOF/2025/001"}, nil).Once()

		req := httptest.NewRequest(http.MethodPost, "/api/documents/upload", body)
		req.Header.Set("Content-Type", writer.FormDataContentType())
		req.Header.Set("Authorization", "Bearer "+tok)
		resp, _ := ta.app.Test(req)

		assert.Equal(t, http.StatusCreated, resp.StatusCode)
		var result model.Document
		json.NewDecoder(resp.Body).Decode(&result)
		assert.Equal(t, "doc-1", result.ID)
		ta.documents.AssertExpectations(t)
	})

	t.Run("no file", func(t *testing.T) {
		resp, _ := ta.app.Test(authedRequest(http.MethodPost, "/api/documents/upload", tok, nil))

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "FILE_REQUIRED", decodeError(t, resp).Error.Code)
	})
}

func TestListDocuments(t *testing.T) {
	ta := newTestApp(t)
	div := "div-1"
	tok := ta.token(t, model.RoleStaff, &div)

	t.Run("success", func(t *testing.T) {
		ta.documents.On("List", mock.Anything, mock.Anything, mock.Anything).
			Return(&service.DocumentListResult{
				Items: []model.DocumentSummary{{Document: model.Document{ID: "doc-1"}}},
				Total: 1,
			}, nil).Once()

		resp, _ := ta.app.Test(authedRequest(http.MethodGet, "/api/documents?limit=10", tok, nil))

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		var result service.DocumentListResult
		json.NewDecoder(resp.Body).Decode(&result)
		assert.Len(t, result.Items, 1)
		ta.documents.AssertExpectations(t)
	})

	t.Run("invalid date filter", func(t *testing.T) {
		resp, _ := ta.app.Test(authedRequest(http.MethodGet, "/api/documents?from=not-a-date", tok, nil))

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "INVALID_DATE", decodeError(t, resp).Error.Code)
	})

	t.Run("service error", func(t *testing.T) {
		ta.documents.On("List", mock.Anything, mock.Anything, mock.Anything).
			Return(nil, errors.New("db down")).Once()

		resp, _ := ta.app.Test(authedRequest(http.MethodGet, "/api/documents", tok, nil))

		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	})
}

func TestGetDocument(t *testing.T) {
	ta := newTestApp(t)
	div := "div-1"
	tok := ta.token(t, model.RoleStaff, &div)

	t.Run("not found", func(t *testing.T) {
		ta.documents.On("Get", mock.Anything, mock.Anything, "doc-x").
			Return(nil, service.ErrNotFound).Once()

		resp, _ := ta.app.Test(authedRequest(http.MethodGet, "/api/documents/doc-x", tok, nil))

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		assert.Equal(t, "NOT_FOUND", decodeError(t, resp).Error.Code)
	})

	t.Run("cross-division forbidden", func(t *testing.T) {
		ta.documents.On("Get", mock.Anything, mock.Anything, "doc-2").
			Return(nil, service.ErrForbidden).Once()

		resp, _ := ta.app.Test(authedRequest(http.MethodGet, "/api/documents/doc-2", tok, nil))

		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	})
}

func TestAppendStatus(t *testing.T) {
	ta := newTestApp(t)
	div := "div-1"
	tok := ta.token(t, model.RoleStaff, &div)

	ta.documents.On("AppendStatus", mock.Anything, mock.Anything, "doc-1", "IN REVIEW", "sent to legal").
		Return(&model.Status{ID: "st-2", DocumentID: "doc-1", Name: "IN REVIEW"}, nil).Once()

	body := jsonBody(t, fiber.Map{"status": "IN REVIEW", "note": "sent to legal"})
	resp, _ := ta.app.Test(authedRequest(http.MethodPost, "/api/documents/doc-1/status", tok, body))

	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	var st model.Status
	json.NewDecoder(resp.Body).Decode(&st)
	assert.Equal(t, "st-2", st.ID)
	ta.documents.AssertExpectations(t)
}

func TestCreateAssignment(t *testing.T) {
	ta := newTestApp(t)
	div := "div-1"
	tok := ta.token(t, model.RoleStaff, &div)

	ta.assignments.On("Assign", mock.Anything, mock.Anything, mock.MatchedBy(func(in service.AssignInput) bool {
		return in.DocumentID == "doc-1" && in.AssigneeID == "user-2" && in.DueDate != nil
	})).Return(&model.Assignment{ID: "as-1", Status: model.AssignmentOpen}, nil).Once()

	body := jsonBody(t, fiber.Map{"assignee_id": "user-2", "due_date": "2025-09-15", "note": "handle"})
	resp, _ := ta.app.Test(authedRequest(http.MethodPost, "/api/documents/doc-1/assign", tok, body))

	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	ta.assignments.AssertExpectations(t)
}

func TestUpdateAssignment(t *testing.T) {
	ta := newTestApp(t)

	t.Run("admin marks done", func(t *testing.T) {
		admin := ta.token(t, model.RoleAdmin, nil)
		ta.assignments.On("SetStatus", mock.Anything, mock.Anything, "as-1", model.AssignmentDone).
			Return(&model.Assignment{ID: "as-1", Status: model.AssignmentDone}, nil).Once()

		body := jsonBody(t, fiber.Map{"status": "DONE"})
		resp, _ := ta.app.Test(authedRequest(http.MethodPatch, "/api/admin/assignments/as-1", admin, body))

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		var a model.Assignment
		json.NewDecoder(resp.Body).Decode(&a)
		assert.Equal(t, model.AssignmentDone, a.Status)
		ta.assignments.AssertExpectations(t)
	})

	t.Run("no non-admin route exists", func(t *testing.T) {
		div := "div-1"
		staff := ta.token(t, model.RoleStaff, &div)

		body := jsonBody(t, fiber.Map{"status": "DONE"})
		resp, _ := ta.app.Test(authedRequest(http.MethodPatch, "/api/assignments/as-1", staff, body))

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestCreateUser(t *testing.T) {
	ta := newTestApp(t)
	admin := ta.token(t, model.RoleAdmin, nil)

	t.Run("success", func(t *testing.T) {
		ta.users.On("Create", mock.Anything, mock.Anything, mock.MatchedBy(func(in service.CreateUserInput) bool {
			return in.Email == "clerk@ministry.gov.lk" && in.Role == model.RoleStaff
		})).Return(&model.User{ID: "user-9", Email: "clerk@ministry.gov.lk"}, nil).Once()

		body := jsonBody(t, fiber.Map{
			"email":    "clerk@ministry.gov.lk",
			"name":     "Records Clerk",
			"password": "longenough",
			"role":     "STAFF",
		})
		resp, _ := ta.app.Test(authedRequest(http.MethodPost, "/api/admin/users", admin, body))

		assert.Equal(t, http.StatusCreated, resp.StatusCode)
		ta.users.AssertExpectations(t)
	})

	t.Run("duplicate email", func(t *testing.T) {
		ta.users.On("Create", mock.Anything, mock.Anything, mock.Anything).
			Return(nil, service.ErrConflict).Once()

		body := jsonBody(t, fiber.Map{"email": "clerk@ministry.gov.lk", "name": "x", "password": "longenough", "role": "STAFF"})
		resp, _ := ta.app.Test(authedRequest(http.MethodPost, "/api/admin/users", admin, body))

		assert.Equal(t, http.StatusConflict, resp.StatusCode)
		assert.Equal(t, "CONFLICT", decodeError(t, resp).Error.Code)
	})
}

func TestUpdateUserClearsDivision(t *testing.T) {
	ta := newTestApp(t)
	admin := ta.token(t, model.RoleAdmin, nil)

	ta.users.On("Update", mock.Anything, mock.Anything, "user-9", mock.MatchedBy(func(in service.UpdateUserInput) bool {
		return in.ClearDivision && in.DivisionID == nil
	})).Return(&model.User{ID: "user-9"}, nil).Once()

	body := jsonBody(t, fiber.Map{"division_id": ""})
	resp, _ := ta.app.Test(authedRequest(http.MethodPatch, "/api/admin/users/user-9", admin, body))

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	ta.users.AssertExpectations(t)
}

func TestExportReport(t *testing.T) {
	ta := newTestApp(t)
	admin := ta.token(t, model.RoleAdmin, nil)

	ta.reports.On("Export", mock.Anything, mock.Anything, mock.Anything, "excel").
		Return(&service.ExportResult{
			FileName:    "status_summary_20250615_120000.xlsx",
			ContentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
			Data:        []byte("xlsx-bytes"),
		}, nil).Once()

	body := jsonBody(t, fiber.Map{"reportType": "STATUS_SUMMARY", "timeRange": "WEEKLY", "format": "excel"})
	resp, _ := ta.app.Test(authedRequest(http.MethodPost, "/api/admin/reports/export", admin, body))

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "status_summary_20250615_120000.xlsx")
	assert.Equal(t, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", resp.Header.Get("Content-Type"))
	ta.reports.AssertExpectations(t)
}

func TestBatchOCR(t *testing.T) {
	ta := newTestApp(t)
	admin := ta.token(t, model.RoleAdmin, nil)

	t.Run("success", func(t *testing.T) {
		ta.documents.On("BatchOCR", mock.Anything, mock.Anything, []string{"doc-1", "doc-2"}).
			Return([]service.OCRRunResult{
				{DocumentID: "doc-1", OK: true},
				{DocumentID: "doc-2", Error: "no files"},
			}).Once()

		body := jsonBody(t, fiber.Map{"document_ids": []string{"doc-1", "doc-2"}})
		resp, _ := ta.app.Test(authedRequest(http.MethodPost, "/api/admin/ocr/run", admin, body))

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		ta.documents.AssertExpectations(t)
	})

	t.Run("empty ids", func(t *testing.T) {
		body := jsonBody(t, fiber.Map{"document_ids": []string{}})
		resp, _ := ta.app.Test(authedRequest(http.MethodPost, "/api/admin/ocr/run", admin, body))

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestRouting(t *testing.T) {
	ta := newTestApp(t)

	t.Run("not found route", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/non-existent", nil)
		resp, _ := ta.app.Test(req)

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		assert.Equal(t, "NOT_FOUND", decodeError(t, resp).Error.Code)
	})

	t.Run("method not allowed", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/health", nil)
		resp, _ := ta.app.Test(req)

		assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
		assert.Equal(t, "METHOD_NOT_ALLOWED", decodeError(t, resp).Error.Code)
	})
}
