package mocks

import (
	"github.com/stretchr/testify/mock"

	"ministrydocs/internal/report"
)

type MockRenderer struct {
	mock.Mock
}

func (m *MockRenderer) Spreadsheet(t report.Table, meta report.Meta) ([]byte, error) {
	args := m.Called(t, meta)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockRenderer) PDF(t report.Table, meta report.Meta) ([]byte, error) {
	args := m.Called(t, meta)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}
