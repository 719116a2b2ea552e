package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"ministrydocs/internal/model"
)

type MockSettingsRepository struct {
	mock.Mock
}

func (m *MockSettingsRepository) Get(ctx context.Context) (*model.Settings, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Settings), args.Error(1)
}

func (m *MockSettingsRepository) Save(ctx context.Context, s *model.Settings, audit *model.AuditLog) error {
	args := m.Called(ctx, s, audit)
	return args.Error(0)
}
