package services

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/ourschool/ourschool/internal/app/models"
	"github.com/ourschool/ourschool/internal/app/models/dto"
	"github.com/ourschool/ourschool/internal/app/repositories"
	"github.com/ourschool/ourschool/internal/pkg/apperrors"
)

// Required days of instruction must stay within a sane school year.
const (
	MinRequiredDays = 1
	MaxRequiredDays = 365
)

// SettingsService handles system settings
type SettingsService struct {
	settingsRepo *repositories.SettingsRepository
	logger       zerolog.Logger
}

// NewSettingsService creates a new SettingsService
func NewSettingsService(settingsRepo *repositories.SettingsRepository, logger zerolog.Logger) *SettingsService {
	return &SettingsService{
		settingsRepo: settingsRepo,
		logger:       logger,
	}
}

// GetAll retrieves every setting.
func (s *SettingsService) GetAll(ctx context.Context) ([]*models.SystemSetting, error) {
	return s.settingsRepo.GetAll(ctx)
}

// Get retrieves one setting by key.
func (s *SettingsService) Get(ctx context.Context, key string) (*models.SystemSetting, error) {
	return s.settingsRepo.Get(ctx, key)
}

// Update writes one setting value.
func (s *SettingsService) Update(ctx context.Context, key string, req *dto.UpdateSettingRequest) (*models.SystemSetting, error) {
	valueType := "string"
	if req.ValueType != nil {
		valueType = *req.ValueType
	} else if existing, err := s.settingsRepo.Get(ctx, key); err == nil {
		valueType = existing.ValueType
	}

	setting := &models.SystemSetting{
		Key:         key,
		Value:       req.Value,
		ValueType:   valueType,
		Description: req.Description,
	}
	if err := s.settingsRepo.Upsert(ctx, setting); err != nil {
		return nil, err
	}

	s.logger.Info().Str("key", key).Msg("Setting updated")
	return setting, nil
}

// GetRequiredDays retrieves the required days of instruction.
func (s *SettingsService) GetRequiredDays(ctx context.Context) (int, error) {
	return s.settingsRepo.GetInt(ctx, models.SettingRequiredDays, models.DefaultRequiredDays)
}

// SetRequiredDays sets the required days of instruction within bounds.
func (s *SettingsService) SetRequiredDays(ctx context.Context, days int) error {
	if days < MinRequiredDays || days > MaxRequiredDays {
		return fmt.Errorf("%w: required days must be between %d and %d",
			apperrors.ErrInvalidSettingValue, MinRequiredDays, MaxRequiredDays)
	}
	return s.settingsRepo.Upsert(ctx, &models.SystemSetting{
		Key:       models.SettingRequiredDays,
		Value:     fmt.Sprintf("%d", days),
		ValueType: "integer",
	})
}

// SetPointsEnabled toggles the points system.
func (s *SettingsService) SetPointsEnabled(ctx context.Context, enabled bool) error {
	return s.settingsRepo.Upsert(ctx, &models.SystemSetting{
		Key:       models.SettingPointsEnabled,
		Value:     fmt.Sprintf("%t", enabled),
		ValueType: "boolean",
	})
}
