package repository

import (
	"context"

	"ministrydocs/internal/model"
)

// UserRepository defines data access for user accounts.
type UserRepository interface {
	// Create inserts a new user and its audit entry in one transaction.
	Create(ctx context.Context, u *model.User, audit *model.AuditLog) (*model.User, error)

	// FindByEmail returns a user by unique email.
	FindByEmail(ctx context.Context, email string) (*model.User, error)

	// FindByID returns a user by id.
	FindByID(ctx context.Context, id string) (*model.User, error)

	// List returns every user joined with its division, newest first.
	List(ctx context.Context) ([]model.UserWithDivision, error)

	// Update applies a partial patch and records the audit entry in the
	// same transaction, returning the updated user.
	Update(ctx context.Context, id string, patch model.UserPatch, audit *model.AuditLog) (*model.User, error)
}

// DivisionRepository defines data access for organizational units.
type DivisionRepository interface {
	// Create inserts a division and its audit entry in one transaction.
	Create(ctx context.Context, d *model.Division, audit *model.AuditLog) (*model.Division, error)

	// List returns divisions with user/document counts, alphabetically,
	// optionally filtered by a case-insensitive name substring.
	List(ctx context.Context, search string) ([]model.DivisionSummary, error)

	// FindDetail returns a division with counts, member users and a
	// per-current-status document histogram.
	FindDetail(ctx context.Context, id string) (*model.DivisionDetail, error)
}
