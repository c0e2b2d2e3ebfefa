package seed

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	appModels "github.com/ourschool/ourschool/internal/app/models"
	appRepos "github.com/ourschool/ourschool/internal/app/repositories"
	"github.com/ourschool/ourschool/internal/config"
	"github.com/ourschool/ourschool/internal/pkg/apperrors"
	"github.com/ourschool/ourschool/internal/pkg/auth"
)

// CreateDefaultData makes sure system settings exist and optionally
// creates a bootstrap admin from the seed config. Normally the first
// registered user becomes the admin; the seeded admin is for
// non-interactive deployments.
func CreateDefaultData(ctx context.Context, cfg *config.Config, dbPool *pgxpool.Pool, lgr zerolog.Logger) error {
	settingsRepo := appRepos.NewSettingsRepository(dbPool)
	userRepo := appRepos.NewUserRepository(dbPool)

	var finalErr error

	defaults := []appModels.SystemSetting{
		{Key: appModels.SettingRequiredDays, Value: "180", ValueType: "integer"},
		{Key: appModels.SettingPointsEnabled, Value: "true", ValueType: "boolean"},
	}
	for i := range defaults {
		if _, err := settingsRepo.Get(ctx, defaults[i].Key); err == nil {
			continue
		} else if !errors.Is(err, apperrors.ErrSettingNotFound) {
			finalErr = errors.Join(finalErr, err)
			continue
		}
		if err := settingsRepo.Upsert(ctx, &defaults[i]); err != nil {
			lgr.Error().Err(err).Str("key", defaults[i].Key).Msg("Error creating default setting")
			finalErr = errors.Join(finalErr, err)
		} else {
			lgr.Info().Str("key", defaults[i].Key).Msg("Default setting created")
		}
	}

	if cfg.Seed.AdminUsername == "" || cfg.Seed.AdminPassword == "" {
		return finalErr
	}

	count, err := userRepo.Count(ctx)
	if err != nil {
		return errors.Join(finalErr, err)
	}
	if count > 0 {
		return finalErr
	}

	hash, err := auth.HashPassword(cfg.Seed.AdminPassword)
	if err != nil {
		return errors.Join(finalErr, err)
	}

	admin := &appModels.User{
		Username:     cfg.Seed.AdminUsername,
		Email:        cfg.Seed.AdminEmail,
		FirstName:    "Admin",
		LastName:     "User",
		PasswordHash: hash,
		Role:         appModels.RoleAdmin,
		IsActive:     true,
	}
	if err := userRepo.Create(ctx, admin); err != nil {
		lgr.Error().Err(err).Msg("Error creating bootstrap admin")
		return errors.Join(finalErr, err)
	}
	lgr.Info().Str("username", admin.Username).Msg("Bootstrap admin created")

	return finalErr
}
