package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"ministrydocs/internal/model"
	"ministrydocs/internal/report"
	"ministrydocs/internal/repository"
	"ministrydocs/internal/service"
)

type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Login(ctx context.Context, email, password string) (*service.LoginResult, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.LoginResult), args.Error(1)
}

type MockDocumentService struct {
	mock.Mock
}

func (m *MockDocumentService) Upload(ctx context.Context, actor service.Actor, in service.UploadInput) (*model.Document, error) {
	args := m.Called(ctx, actor, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Document), args.Error(1)
}

func (m *MockDocumentService) Get(ctx context.Context, actor service.Actor, id string) (*model.DocumentDetail, error) {
	args := m.Called(ctx, actor, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.DocumentDetail), args.Error(1)
}

func (m *MockDocumentService) List(ctx context.Context, actor service.Actor, f repository.DocumentFilter) (*service.DocumentListResult, error) {
	args := m.Called(ctx, actor, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.DocumentListResult), args.Error(1)
}

func (m *MockDocumentService) ChangeDivision(ctx context.Context, actor service.Actor, id, divisionID string) error {
	args := m.Called(ctx, actor, id, divisionID)
	return args.Error(0)
}

func (m *MockDocumentService) AppendStatus(ctx context.Context, actor service.Actor, documentID, name, note string) (*model.Status, error) {
	args := m.Called(ctx, actor, documentID, name, note)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Status), args.Error(1)
}

func (m *MockDocumentService) DownloadURL(ctx context.Context, actor service.Actor, fileID string) (string, *model.FileObject, error) {
	args := m.Called(ctx, actor, fileID)
	var file *model.FileObject
	if args.Get(1) != nil {
		file = args.Get(1).(*model.FileObject)
	}
	return args.String(0), file, args.Error(2)
}

func (m *MockDocumentService) RunOCR(ctx context.Context, actor service.Actor, documentID string) (string, error) {
	args := m.Called(ctx, actor, documentID)
	return args.String(0), args.Error(1)
}

func (m *MockDocumentService) BatchOCR(ctx context.Context, actor service.Actor, documentIDs []string) []service.OCRRunResult {
	args := m.Called(ctx, actor, documentIDs)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]service.OCRRunResult)
}

func (m *MockDocumentService) ListOCR(ctx context.Context, f repository.DocumentFilter) (*service.OCRListResult, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.OCRListResult), args.Error(1)
}

func (m *MockDocumentService) SearchOCR(ctx context.Context, query string, page repository.PageQuery) (*service.OCRListResult, error) {
	args := m.Called(ctx, query, page)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.OCRListResult), args.Error(1)
}

type MockAssignmentService struct {
	mock.Mock
}

func (m *MockAssignmentService) Assign(ctx context.Context, actor service.Actor, in service.AssignInput) (*model.Assignment, error) {
	args := m.Called(ctx, actor, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Assignment), args.Error(1)
}

func (m *MockAssignmentService) SetStatus(ctx context.Context, actor service.Actor, id string, status model.AssignmentStatus) (*model.Assignment, error) {
	args := m.Called(ctx, actor, id, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Assignment), args.Error(1)
}

func (m *MockAssignmentService) List(ctx context.Context, f repository.AssignmentFilter) (*service.AssignmentListResult, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.AssignmentListResult), args.Error(1)
}

type MockDivisionService struct {
	mock.Mock
}

func (m *MockDivisionService) Create(ctx context.Context, actor service.Actor, name string) (*model.Division, error) {
	args := m.Called(ctx, actor, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Division), args.Error(1)
}

func (m *MockDivisionService) List(ctx context.Context, search string) ([]model.DivisionSummary, error) {
	args := m.Called(ctx, search)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.DivisionSummary), args.Error(1)
}

func (m *MockDivisionService) Get(ctx context.Context, id string) (*model.DivisionDetail, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.DivisionDetail), args.Error(1)
}

type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) Create(ctx context.Context, actor service.Actor, in service.CreateUserInput) (*model.User, error) {
	args := m.Called(ctx, actor, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserService) List(ctx context.Context) ([]model.UserWithDivision, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.UserWithDivision), args.Error(1)
}

func (m *MockUserService) Update(ctx context.Context, actor service.Actor, id string, in service.UpdateUserInput) (*model.User, error) {
	args := m.Called(ctx, actor, id, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

type MockAuditService struct {
	mock.Mock
}

func (m *MockAuditService) List(ctx context.Context, f repository.AuditFilter) (*service.AuditListResult, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.AuditListResult), args.Error(1)
}

type MockSettingsService struct {
	mock.Mock
}

func (m *MockSettingsService) Get(ctx context.Context) (*model.Settings, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Settings), args.Error(1)
}

func (m *MockSettingsService) Update(ctx context.Context, actor service.Actor, patch model.SettingsPatch) (*model.Settings, error) {
	args := m.Called(ctx, actor, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Settings), args.Error(1)
}

type MockReportService struct {
	mock.Mock
}

func (m *MockReportService) Generate(ctx context.Context, p report.Params) (*report.Result, error) {
	args := m.Called(ctx, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*report.Result), args.Error(1)
}

func (m *MockReportService) Export(ctx context.Context, actor service.Actor, p report.Params, format string) (*service.ExportResult, error) {
	args := m.Called(ctx, actor, p, format)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ExportResult), args.Error(1)
}

func (m *MockReportService) Dashboard(ctx context.Context) (*report.Dashboard, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*report.Dashboard), args.Error(1)
}
