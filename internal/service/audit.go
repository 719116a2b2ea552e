package service

import (
	"context"
	"fmt"

	"ministrydocs/internal/model"
	"ministrydocs/internal/repository"
)

// AuditListResult is the paginated audit trail page with the filter
// vocabularies used to build dropdowns.
type AuditListResult struct {
	Items    []model.AuditLogWithUser `json:"items"`
	Total    int                      `json:"total"`
	Actions  []string                 `json:"uniqueActions"`
	Entities []string                 `json:"uniqueEntities"`
}

// AuditService defines the read-side use cases over the audit trail.
type AuditService interface {
	// List returns a filtered, newest-first page plus the distinct
	// action/entity vocabularies.
	List(ctx context.Context, f repository.AuditFilter) (*AuditListResult, error)
}

type auditService struct {
	audits repository.AuditRepository
}

// NewAuditService constructs a new AuditService.
func NewAuditService(audits repository.AuditRepository) AuditService {
	return &auditService{audits: audits}
}

func (s *auditService) List(ctx context.Context, f repository.AuditFilter) (*AuditListResult, error) {
	normalizePage(&f.PageQuery)

	res, err := s.audits.List(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("list audit logs: %w", err)
	}
	actions, err := s.audits.DistinctActions(ctx)
	if err != nil {
		return nil, fmt.Errorf("list actions: %w", err)
	}
	entities, err := s.audits.DistinctEntities(ctx)
	if err != nil {
		return nil, fmt.Errorf("list entities: %w", err)
	}

	return &AuditListResult{
		Items:    res.Items,
		Total:    res.Total,
		Actions:  actions,
		Entities: entities,
	}, nil
}
