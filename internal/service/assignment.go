package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"ministrydocs/internal/model"
	"ministrydocs/internal/repository"
)

// AssignInput carries the fields of a new assignment.
type AssignInput struct {
	DocumentID string
	AssigneeID string
	DueDate    *time.Time
	Note       string
}

// AssignmentListResult is the paginated oversight listing.
type AssignmentListResult struct {
	Items []model.AssignmentOverview `json:"items"`
	Total int                        `json:"total"`
}

// AssignmentService defines the use cases for work assignments.
type AssignmentService interface {
	// Assign creates an OPEN assignment on a document.
	Assign(ctx context.Context, actor Actor, in AssignInput) (*model.Assignment, error)

	// SetStatus sets an assignment's status. Admin-only; marking a DONE
	// assignment DONE again succeeds without error.
	SetStatus(ctx context.Context, actor Actor, id string, status model.AssignmentStatus) (*model.Assignment, error)

	// List returns the filtered oversight page, due date ascending.
	List(ctx context.Context, f repository.AssignmentFilter) (*AssignmentListResult, error)
}

type assignmentService struct {
	assignments repository.AssignmentRepository
	docs        repository.DocumentRepository
	users       repository.UserRepository
}

// NewAssignmentService constructs a new AssignmentService.
func NewAssignmentService(assignments repository.AssignmentRepository, docs repository.DocumentRepository, users repository.UserRepository) AssignmentService {
	return &assignmentService{assignments: assignments, docs: docs, users: users}
}

func (s *assignmentService) Assign(ctx context.Context, actor Actor, in AssignInput) (*model.Assignment, error) {
	if in.DocumentID == "" || in.AssigneeID == "" {
		return nil, fmt.Errorf("%w: document and assignee are required", ErrValidation)
	}

	doc, err := s.docs.FindByID(ctx, in.DocumentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: document", ErrNotFound)
		}
		return nil, fmt.Errorf("find document: %w", err)
	}
	if !actor.CanAccessDivision(doc.DivisionID) {
		return nil, fmt.Errorf("%w: document belongs to another division", ErrForbidden)
	}
	if _, err := s.users.FindByID(ctx, in.AssigneeID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: assignee does not exist", ErrValidation)
		}
		return nil, fmt.Errorf("find assignee: %w", err)
	}

	a := &model.Assignment{
		ID:           uuid.NewString(),
		DocumentID:   in.DocumentID,
		AssigneeID:   in.AssigneeID,
		AssignedByID: actor.ID,
		DueDate:      in.DueDate,
		Status:       model.AssignmentOpen,
	}
	if in.Note != "" {
		note := in.Note
		a.Note = &note
	}
	audit := model.NewAudit(model.ActionCreateAssignment, model.EntityAssignment, &a.ID, actor.ref(), map[string]any{
		"documentId": in.DocumentID,
		"assigneeId": in.AssigneeID,
	})

	stored, err := s.assignments.Create(ctx, a, audit)
	if err != nil {
		return nil, fmt.Errorf("create assignment: %w", err)
	}
	return stored, nil
}

func (s *assignmentService) SetStatus(ctx context.Context, actor Actor, id string, status model.AssignmentStatus) (*model.Assignment, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("%w: unknown assignment status %q", ErrValidation, status)
	}

	if !actor.IsAdmin() {
		return nil, fmt.Errorf("%w: assignment updates are admin-only", ErrForbidden)
	}

	existing, err := s.assignments.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: assignment", ErrNotFound)
		}
		return nil, fmt.Errorf("find assignment: %w", err)
	}

	audit := model.NewAudit(model.ActionUpdateAssignment, model.EntityAssignment, &id, actor.ref(), map[string]any{
		"documentId": existing.DocumentID,
		"status":     string(status),
	})
	updated, err := s.assignments.UpdateStatus(ctx, id, status, audit)
	if err != nil {
		return nil, fmt.Errorf("update assignment: %w", err)
	}
	return updated, nil
}

func (s *assignmentService) List(ctx context.Context, f repository.AssignmentFilter) (*AssignmentListResult, error) {
	normalizePage(&f.PageQuery)
	if f.Bucket == "" {
		f.Bucket = model.BucketAll
	}
	if f.Now.IsZero() {
		f.Now = time.Now().UTC()
	}
	res, err := s.assignments.List(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("list assignments: %w", err)
	}
	return &AssignmentListResult{Items: res.Items, Total: res.Total}, nil
}
