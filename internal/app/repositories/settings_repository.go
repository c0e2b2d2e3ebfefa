package repositories

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ourschool/ourschool/internal/app/models"
	"github.com/ourschool/ourschool/internal/pkg/apperrors"
)

// SettingsRepository handles database operations for system settings.
type SettingsRepository struct {
	db *pgxpool.Pool
}

// NewSettingsRepository creates a new settings repository
func NewSettingsRepository(db *pgxpool.Pool) *SettingsRepository {
	return &SettingsRepository{
		db: db,
	}
}

// Get retrieves a setting by key.
func (r *SettingsRepository) Get(ctx context.Context, key string) (*models.SystemSetting, error) {
	query := `SELECT id, setting_key, setting_value, value_type, description, updated_at
		FROM system_settings WHERE setting_key = $1`

	var s models.SystemSetting
	err := r.db.QueryRow(ctx, query, key).Scan(
		&s.ID, &s.Key, &s.Value, &s.ValueType, &s.Description, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrSettingNotFound
		}
		return nil, fmt.Errorf("error retrieving setting: %w", err)
	}
	return &s, nil
}

// GetAll retrieves every setting ordered by key.
func (r *SettingsRepository) GetAll(ctx context.Context) ([]*models.SystemSetting, error) {
	query := `SELECT id, setting_key, setting_value, value_type, description, updated_at
		FROM system_settings ORDER BY setting_key`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var settings []*models.SystemSetting
	for rows.Next() {
		var s models.SystemSetting
		if err := rows.Scan(&s.ID, &s.Key, &s.Value, &s.ValueType, &s.Description, &s.UpdatedAt); err != nil {
			return nil, err
		}
		settings = append(settings, &s)
	}
	return settings, rows.Err()
}

// Upsert writes a setting value, creating the key if needed.
func (r *SettingsRepository) Upsert(ctx context.Context, setting *models.SystemSetting) error {
	query := `
		INSERT INTO system_settings (setting_key, setting_value, value_type, description)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (setting_key)
		DO UPDATE SET setting_value = EXCLUDED.setting_value,
			value_type = EXCLUDED.value_type,
			updated_at = CURRENT_TIMESTAMP
		RETURNING id, updated_at
	`

	err := r.db.QueryRow(ctx, query,
		setting.Key, setting.Value, setting.ValueType, setting.Description,
	).Scan(&setting.ID, &setting.UpdatedAt)
	if err != nil {
		return fmt.Errorf("error upserting setting: %w", err)
	}
	return nil
}

// GetInt retrieves an integer setting, falling back to def when the
// key is missing.
func (r *SettingsRepository) GetInt(ctx context.Context, key string, def int) (int, error) {
	setting, err := r.Get(ctx, key)
	if err != nil {
		if errors.Is(err, apperrors.ErrSettingNotFound) {
			return def, nil
		}
		return 0, err
	}
	value, err := strconv.Atoi(setting.Value)
	if err != nil {
		return 0, fmt.Errorf("%w: setting %s holds %q", apperrors.ErrInvalidSettingValue, key, setting.Value)
	}
	return value, nil
}

// GetBool retrieves a boolean setting, falling back to def when the
// key is missing.
func (r *SettingsRepository) GetBool(ctx context.Context, key string, def bool) (bool, error) {
	setting, err := r.Get(ctx, key)
	if err != nil {
		if errors.Is(err, apperrors.ErrSettingNotFound) {
			return def, nil
		}
		return false, err
	}
	value, err := strconv.ParseBool(setting.Value)
	if err != nil {
		return false, fmt.Errorf("%w: setting %s holds %q", apperrors.ErrInvalidSettingValue, key, setting.Value)
	}
	return value, nil
}
