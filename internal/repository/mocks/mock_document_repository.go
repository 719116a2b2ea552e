package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"ministrydocs/internal/model"
	"ministrydocs/internal/repository"
)

type MockDocumentRepository struct {
	mock.Mock
}

func (m *MockDocumentRepository) CreateWithInitial(ctx context.Context, doc *model.Document, file *model.FileObject, status *model.Status, audit *model.AuditLog) (*model.Document, error) {
	args := m.Called(ctx, doc, file, status, audit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Document), args.Error(1)
}

func (m *MockDocumentRepository) FindByID(ctx context.Context, id string) (*model.Document, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Document), args.Error(1)
}

func (m *MockDocumentRepository) FindDetail(ctx context.Context, id string) (*model.DocumentDetail, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.DocumentDetail), args.Error(1)
}

func (m *MockDocumentRepository) List(ctx context.Context, f repository.DocumentFilter) (*repository.PageResult[model.DocumentSummary], error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.PageResult[model.DocumentSummary]), args.Error(1)
}

func (m *MockDocumentRepository) UpdateDivision(ctx context.Context, id, divisionID string, audit *model.AuditLog) error {
	args := m.Called(ctx, id, divisionID, audit)
	return args.Error(0)
}

func (m *MockDocumentRepository) AppendStatus(ctx context.Context, st *model.Status, audit *model.AuditLog) (*model.Status, error) {
	args := m.Called(ctx, st, audit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Status), args.Error(1)
}

func (m *MockDocumentRepository) SetOCRText(ctx context.Context, id, text string, audit *model.AuditLog) error {
	args := m.Called(ctx, id, text, audit)
	return args.Error(0)
}

func (m *MockDocumentRepository) FindFileByID(ctx context.Context, fileID string) (*model.FileObject, error) {
	args := m.Called(ctx, fileID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.FileObject), args.Error(1)
}

func (m *MockDocumentRepository) LatestFile(ctx context.Context, documentID string) (*model.FileObject, error) {
	args := m.Called(ctx, documentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.FileObject), args.Error(1)
}
