package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"ministrydocs/internal/report"
)

type MockReportRepository struct {
	mock.Mock
}

func (m *MockReportRepository) DocumentsByDivision(ctx context.Context, from, to time.Time, divisionID, statusName string) ([]report.DivisionRow, error) {
	args := m.Called(ctx, from, to, divisionID, statusName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]report.DivisionRow), args.Error(1)
}

func (m *MockReportRepository) StatusSummaryRows(ctx context.Context, from, to time.Time, divisionID string) ([]report.StatusRow, error) {
	args := m.Called(ctx, from, to, divisionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]report.StatusRow), args.Error(1)
}

func (m *MockReportRepository) OverdueRows(ctx context.Context, now time.Time, divisionID string) ([]report.OverdueRow, error) {
	args := m.Called(ctx, now, divisionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]report.OverdueRow), args.Error(1)
}

func (m *MockReportRepository) ActivityCounts(ctx context.Context, from, to time.Time) (int, int, int, error) {
	args := m.Called(ctx, from, to)
	return args.Int(0), args.Int(1), args.Int(2), args.Error(3)
}

func (m *MockReportRepository) TopUsers(ctx context.Context, from, to time.Time, limit int) ([]report.ActivityRow, error) {
	args := m.Called(ctx, from, to, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]report.ActivityRow), args.Error(1)
}

func (m *MockReportRepository) Dashboard(ctx context.Context, now, startOfToday, startOfWeek time.Time) (*report.Dashboard, error) {
	args := m.Called(ctx, now, startOfToday, startOfWeek)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*report.Dashboard), args.Error(1)
}
