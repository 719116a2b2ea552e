package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"ministrydocs/internal/auth"
	"ministrydocs/internal/model"
	"ministrydocs/internal/repository"
)

// LoginResult is the successful authentication payload.
type LoginResult struct {
	Token string            `json:"token"`
	User  model.UserSummary `json:"user"`
}

// AuthService defines the authentication use cases.
type AuthService interface {
	// Login verifies credentials and issues a signed token. Every
	// failure mode returns ErrInvalidCredentials.
	Login(ctx context.Context, email, password string) (*LoginResult, error)
}

type authService struct {
	users  repository.UserRepository
	audits repository.AuditRepository
	signer auth.TokenSigner
	hasher auth.PasswordHasher
	ttl    time.Duration
}

// NewAuthService constructs a new AuthService. ttl is the token
// lifetime.
func NewAuthService(users repository.UserRepository, audits repository.AuditRepository, signer auth.TokenSigner, hasher auth.PasswordHasher, ttl time.Duration) AuthService {
	return &authService{users: users, audits: audits, signer: signer, hasher: hasher, ttl: ttl}
}

func (s *authService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	if !user.IsActive {
		return nil, ErrInvalidCredentials
	}
	if !s.hasher.Verify(password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	token, err := s.signer.Sign(auth.Claims{
		UserID:     user.ID,
		Role:       user.Role,
		DivisionID: user.DivisionID,
		Email:      user.Email,
		Name:       user.Name,
	}, s.ttl)
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}

	entry := model.NewAudit(model.ActionLogin, model.EntityUser, &user.ID, &user.ID, map[string]any{"email": user.Email})
	if _, err := s.audits.Create(ctx, entry); err != nil {
		return nil, fmt.Errorf("record login: %w", err)
	}

	return &LoginResult{Token: token, User: user.Summary()}, nil
}
