// Package repository contains the data access layer abstractions.
// Implementations live in subpackages (postgres here). No business
// logic — strictly persistence operations.
//
// Every mutating method takes the audit record paired with the
// mutation; implementations must persist both inside one transaction so
// a mutation can never commit without its audit row. This is the single
// choke-point guaranteeing audit completeness.
package repository

import (
	"errors"
	"time"

	"ministrydocs/internal/model"
)

// ErrDuplicate is returned when an insert or update violates a
// uniqueness constraint (e.g. user email, division name).
var ErrDuplicate = errors.New("duplicate value")

// PageQuery holds limit/offset pagination parameters.
type PageQuery struct {
	Limit  int
	Offset int
}

// PageResult is a generic pagination result wrapper.
// T is typically a model type.
type PageResult[T any] struct {
	Items []T
	Total int
}

// DocumentFilter selects documents for listings. Zero values mean
// unfiltered. Query searches letter number, subject, sender, recipient
// and extracted text, case-insensitively. OCRStatus filters on whether
// extracted text is present.
type DocumentFilter struct {
	PageQuery
	DivisionID string
	StatusName string
	LetterNo   string
	Query      string
	OCRStatus  model.OCRStatus
	From       *time.Time
	To         *time.Time
}

// AuditFilter selects audit log entries.
type AuditFilter struct {
	PageQuery
	Action string
	Entity string
	UserID string
	From   *time.Time
	To     *time.Time
}
