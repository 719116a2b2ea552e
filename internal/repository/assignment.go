package repository

import (
	"context"
	"time"

	"ministrydocs/internal/model"
)

// AssignmentFilter selects assignments for oversight listings. Now is
// the reference instant for the OVERDUE bucket.
type AssignmentFilter struct {
	PageQuery
	Bucket     model.AssignmentBucket
	DivisionID string
	Now        time.Time
}

// AssignmentRepository defines data access for assignments.
type AssignmentRepository interface {
	// Create inserts an assignment and its audit entry in one
	// transaction.
	Create(ctx context.Context, a *model.Assignment, audit *model.AuditLog) (*model.Assignment, error)

	// FindByID returns the bare assignment row.
	FindByID(ctx context.Context, id string) (*model.Assignment, error)

	// UpdateStatus sets the status unconditionally (a plain set, so
	// repeating a transition is not an error) and records the audit
	// entry in the same transaction.
	UpdateStatus(ctx context.Context, id string, status model.AssignmentStatus, audit *model.AuditLog) (*model.Assignment, error)

	// List returns a filtered page ordered by due date ascending with
	// null due dates last.
	List(ctx context.Context, f AssignmentFilter) (*PageResult[model.AssignmentOverview], error)
}
