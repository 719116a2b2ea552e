package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"ministrydocs/internal/model"
	"ministrydocs/internal/repository"
)

type MockAssignmentRepository struct {
	mock.Mock
}

func (m *MockAssignmentRepository) Create(ctx context.Context, a *model.Assignment, audit *model.AuditLog) (*model.Assignment, error) {
	args := m.Called(ctx, a, audit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Assignment), args.Error(1)
}

func (m *MockAssignmentRepository) FindByID(ctx context.Context, id string) (*model.Assignment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Assignment), args.Error(1)
}

func (m *MockAssignmentRepository) UpdateStatus(ctx context.Context, id string, status model.AssignmentStatus, audit *model.AuditLog) (*model.Assignment, error) {
	args := m.Called(ctx, id, status, audit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Assignment), args.Error(1)
}

func (m *MockAssignmentRepository) List(ctx context.Context, f repository.AssignmentFilter) (*repository.PageResult[model.AssignmentOverview], error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.PageResult[model.AssignmentOverview]), args.Error(1)
}
