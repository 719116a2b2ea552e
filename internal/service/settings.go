package service

import (
	"context"
	"fmt"
	"strings"

	"ministrydocs/internal/model"
	"ministrydocs/internal/repository"
)

// SettingsService defines the administrative configuration use cases.
type SettingsService interface {
	// Get loads the current settings.
	Get(ctx context.Context) (*model.Settings, error)

	// Update applies a partial patch and returns the merged settings.
	// Concurrent updates resolve last-writer-wins.
	Update(ctx context.Context, actor Actor, patch model.SettingsPatch) (*model.Settings, error)
}

type settingsService struct {
	settings repository.SettingsRepository
}

// NewSettingsService constructs a new SettingsService.
func NewSettingsService(settings repository.SettingsRepository) SettingsService {
	return &settingsService{settings: settings}
}

func (s *settingsService) Get(ctx context.Context) (*model.Settings, error) {
	cfg, err := s.settings.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}
	return cfg, nil
}

func (s *settingsService) Update(ctx context.Context, actor Actor, patch model.SettingsPatch) (*model.Settings, error) {
	if err := validateSettingsPatch(patch); err != nil {
		return nil, err
	}

	cfg, err := s.settings.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}
	changed := patch.Apply(cfg)
	if len(changed) == 0 {
		return cfg, nil
	}

	audit := model.NewAudit(model.ActionUpdateSettings, model.EntitySettings, nil, actor.ref(), map[string]any{
		"fields": changed,
	})
	if err := s.settings.Save(ctx, cfg, audit); err != nil {
		return nil, fmt.Errorf("save settings: %w", err)
	}
	return cfg, nil
}

func validateSettingsPatch(patch model.SettingsPatch) error {
	if patch.FileUploadMaxSizeMB != nil && *patch.FileUploadMaxSizeMB <= 0 {
		return fmt.Errorf("%w: max upload size must be positive", ErrValidation)
	}
	if patch.RetentionPeriodDays != nil && *patch.RetentionPeriodDays <= 0 {
		return fmt.Errorf("%w: retention period must be positive", ErrValidation)
	}
	if patch.StatusWorkflow != nil {
		if len(*patch.StatusWorkflow) == 0 {
			return fmt.Errorf("%w: status workflow cannot be empty", ErrValidation)
		}
		for _, name := range *patch.StatusWorkflow {
			if strings.TrimSpace(name) == "" {
				return fmt.Errorf("%w: status workflow entries cannot be blank", ErrValidation)
			}
		}
	}
	if patch.AllowedFileTypes != nil {
		if len(*patch.AllowedFileTypes) == 0 {
			return fmt.Errorf("%w: allowed file types cannot be empty", ErrValidation)
		}
		for _, ext := range *patch.AllowedFileTypes {
			if !strings.HasPrefix(ext, ".") {
				return fmt.Errorf("%w: file extensions must start with a dot", ErrValidation)
			}
		}
	}
	return nil
}
