package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"ministrydocs/internal/model"
	"ministrydocs/internal/repository"
)

// DivisionService defines the administrative use cases for divisions.
type DivisionService interface {
	// Create adds a new division with a unique name.
	Create(ctx context.Context, actor Actor, name string) (*model.Division, error)

	// List returns divisions with counts, optionally name-filtered.
	List(ctx context.Context, search string) ([]model.DivisionSummary, error)

	// Get returns the full division view.
	Get(ctx context.Context, id string) (*model.DivisionDetail, error)
}

type divisionService struct {
	divisions repository.DivisionRepository
}

// NewDivisionService constructs a new DivisionService.
func NewDivisionService(divisions repository.DivisionRepository) DivisionService {
	return &divisionService{divisions: divisions}
}

func (s *divisionService) Create(ctx context.Context, actor Actor, name string) (*model.Division, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrValidation)
	}

	d := &model.Division{ID: uuid.NewString(), Name: name}
	audit := model.NewAudit(model.ActionCreateDivision, model.EntityDivision, &d.ID, actor.ref(), map[string]any{
		"name": name,
	})
	stored, err := s.divisions.Create(ctx, d, audit)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, fmt.Errorf("%w: a division named %q already exists", ErrConflict, name)
		}
		return nil, fmt.Errorf("create division: %w", err)
	}
	return stored, nil
}

func (s *divisionService) List(ctx context.Context, search string) ([]model.DivisionSummary, error) {
	items, err := s.divisions.List(ctx, strings.TrimSpace(search))
	if err != nil {
		return nil, fmt.Errorf("list divisions: %w", err)
	}
	return items, nil
}

func (s *divisionService) Get(ctx context.Context, id string) (*model.DivisionDetail, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: id is required", ErrValidation)
	}
	det, err := s.divisions.FindDetail(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: division", ErrNotFound)
		}
		return nil, fmt.Errorf("find division: %w", err)
	}
	return det, nil
}
