package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"ministrydocs/internal/model"
	repomocks "ministrydocs/internal/repository/mocks"
)

func TestSettingsService_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("applies patch and audits changed keys", func(t *testing.T) {
		repo := new(repomocks.MockSettingsRepository)
		svc := NewSettingsService(repo)

		current := model.DefaultSettings()
		repo.On("Get", ctx).Return(&current, nil)

		maintenance := true
		repo.On("Save", ctx,
			mock.MatchedBy(func(s *model.Settings) bool { return s.SystemMaintenance }),
			mock.MatchedBy(func(e *model.AuditLog) bool {
				fields, ok := e.Meta["fields"].([]string)
				return e.Action == model.ActionUpdateSettings && ok && len(fields) == 1 && fields[0] == "systemMaintenance"
			}),
		).Return(nil)

		updated, err := svc.Update(ctx, adminActor(), model.SettingsPatch{SystemMaintenance: &maintenance})

		assert.NoError(t, err)
		assert.True(t, updated.SystemMaintenance)
		repo.AssertExpectations(t)
	})

	t.Run("empty patch skips the write", func(t *testing.T) {
		repo := new(repomocks.MockSettingsRepository)
		svc := NewSettingsService(repo)

		current := model.DefaultSettings()
		repo.On("Get", ctx).Return(&current, nil)

		updated, err := svc.Update(ctx, adminActor(), model.SettingsPatch{})

		assert.NoError(t, err)
		assert.NotNil(t, updated)
		repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("rejects non-positive upload limit", func(t *testing.T) {
		repo := new(repomocks.MockSettingsRepository)
		svc := NewSettingsService(repo)

		zero := 0
		updated, err := svc.Update(ctx, adminActor(), model.SettingsPatch{FileUploadMaxSizeMB: &zero})

		assert.ErrorIs(t, err, ErrValidation)
		assert.Nil(t, updated)
	})
}

func TestUserService_Update_RejectsShortPassword(t *testing.T) {
	ctx := context.Background()
	users := new(repomocks.MockUserRepository)
	svc := NewUserService(users, noopHasher{})

	short := "abc"
	u, err := svc.Update(ctx, adminActor(), "user-1", UpdateUserInput{Password: &short})

	assert.ErrorIs(t, err, ErrValidation)
	assert.Nil(t, u)
}

// noopHasher avoids bcrypt cost in validation-only tests.
type noopHasher struct{}

func (noopHasher) Hash(p string) (string, error) { return "hashed:" + p, nil }
func (noopHasher) Verify(p, h string) bool       { return h == "hashed:"+p }

func TestUserService_Create_DefaultsRoleToStaff(t *testing.T) {
	ctx := context.Background()
	users := new(repomocks.MockUserRepository)
	svc := NewUserService(users, noopHasher{})

	users.On("Create", ctx,
		mock.MatchedBy(func(u *model.User) bool { return u.Role == model.RoleStaff && u.IsActive }),
		mock.MatchedBy(func(a *model.AuditLog) bool { return a.Action == model.ActionCreateUser }),
	).Return(&model.User{ID: "user-9", Role: model.RoleStaff}, nil)

	u, err := svc.Create(ctx, adminActor(), CreateUserInput{
		Email:    "clerk@ministry.gov.lk",
		Name:     "Records Clerk",
		Password: "secret1",
	})

	assert.NoError(t, err)
	assert.Equal(t, model.RoleStaff, u.Role)
	users.AssertExpectations(t)
}
