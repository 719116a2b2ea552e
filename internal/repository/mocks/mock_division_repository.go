package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"ministrydocs/internal/model"
)

type MockDivisionRepository struct {
	mock.Mock
}

func (m *MockDivisionRepository) Create(ctx context.Context, d *model.Division, audit *model.AuditLog) (*model.Division, error) {
	args := m.Called(ctx, d, audit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Division), args.Error(1)
}

func (m *MockDivisionRepository) List(ctx context.Context, search string) ([]model.DivisionSummary, error) {
	args := m.Called(ctx, search)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.DivisionSummary), args.Error(1)
}

func (m *MockDivisionRepository) FindDetail(ctx context.Context, id string) (*model.DivisionDetail, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.DivisionDetail), args.Error(1)
}
