package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"github.com/google/uuid"

	"ministrydocs/internal/auth"
	"ministrydocs/internal/model"
	"ministrydocs/internal/repository"
)

// minPasswordLength is the weakest password accepted for new accounts
// and resets.
const minPasswordLength = 6

// CreateUserInput carries the fields of a new account.
type CreateUserInput struct {
	Email      string
	Name       string
	Password   string
	Role       model.Role
	DivisionID *string
}

// UpdateUserInput is a partial administrative account update. Nil fields
// are left untouched; ClearDivision removes the division link.
type UpdateUserInput struct {
	Password      *string
	DivisionID    *string
	ClearDivision bool
	IsActive      *bool
}

// UserService defines the administrative use cases for accounts.
type UserService interface {
	// Create adds a new account with a hashed password.
	Create(ctx context.Context, actor Actor, in CreateUserInput) (*model.User, error)

	// List returns every account with its division.
	List(ctx context.Context) ([]model.UserWithDivision, error)

	// Update patches an account. Deactivation does not revoke tokens
	// already issued; they lapse at expiry.
	Update(ctx context.Context, actor Actor, id string, in UpdateUserInput) (*model.User, error)
}

type userService struct {
	users  repository.UserRepository
	hasher auth.PasswordHasher
}

// NewUserService constructs a new UserService.
func NewUserService(users repository.UserRepository, hasher auth.PasswordHasher) UserService {
	return &userService{users: users, hasher: hasher}
}

func (s *userService) Create(ctx context.Context, actor Actor, in CreateUserInput) (*model.User, error) {
	in.Email = strings.TrimSpace(strings.ToLower(in.Email))
	in.Name = strings.TrimSpace(in.Name)
	if _, err := mail.ParseAddress(in.Email); err != nil {
		return nil, fmt.Errorf("%w: invalid email address", ErrValidation)
	}
	if len(in.Name) < 2 {
		return nil, fmt.Errorf("%w: name must be at least 2 characters", ErrValidation)
	}
	if len(in.Password) < minPasswordLength {
		return nil, fmt.Errorf("%w: password must be at least %d characters", ErrValidation, minPasswordLength)
	}
	if in.Role == "" {
		in.Role = model.RoleStaff
	}
	if !in.Role.Valid() {
		return nil, fmt.Errorf("%w: unknown role %q", ErrValidation, in.Role)
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	u := &model.User{
		ID:           uuid.NewString(),
		Email:        in.Email,
		Name:         in.Name,
		PasswordHash: hash,
		Role:         in.Role,
		DivisionID:   in.DivisionID,
		IsActive:     true,
	}
	audit := model.NewAudit(model.ActionCreateUser, model.EntityUser, &u.ID, actor.ref(), map[string]any{
		"email": in.Email,
		"role":  string(in.Role),
	})

	stored, err := s.users.Create(ctx, u, audit)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, fmt.Errorf("%w: an account with this email already exists", ErrConflict)
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return stored, nil
}

func (s *userService) List(ctx context.Context) ([]model.UserWithDivision, error) {
	items, err := s.users.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return items, nil
}

func (s *userService) Update(ctx context.Context, actor Actor, id string, in UpdateUserInput) (*model.User, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: id is required", ErrValidation)
	}

	patch := model.UserPatch{
		DivisionID: in.DivisionID,
		ClearDiv:   in.ClearDivision,
		IsActive:   in.IsActive,
	}
	if in.Password != nil {
		if len(*in.Password) < minPasswordLength {
			return nil, fmt.Errorf("%w: password must be at least %d characters", ErrValidation, minPasswordLength)
		}
		hash, err := s.hasher.Hash(*in.Password)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		patch.PasswordHash = &hash
	}

	audit := model.NewAudit(model.ActionUpdateUser, model.EntityUser, &id, actor.ref(), map[string]any{
		"fields": patch.Changed(),
	})
	updated, err := s.users.Update(ctx, id, patch, audit)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: user", ErrNotFound)
		}
		return nil, fmt.Errorf("update user: %w", err)
	}
	return updated, nil
}
