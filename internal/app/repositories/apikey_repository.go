package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ourschool/ourschool/internal/app/models"
	"github.com/ourschool/ourschool/internal/pkg/apperrors"
)

const apiKeyColumns = `id, name, key_hash, key_prefix, permissions, is_active, expires_at,
		last_used_at, use_count, created_by, created_at, updated_at`

// APIKeyRepository handles database operations for API keys.
type APIKeyRepository struct {
	db *pgxpool.Pool
}

// NewAPIKeyRepository creates a new API key repository
func NewAPIKeyRepository(db *pgxpool.Pool) *APIKeyRepository {
	return &APIKeyRepository{
		db: db,
	}
}

func scanAPIKey(row pgx.Row) (*models.APIKey, error) {
	var k models.APIKey
	err := row.Scan(
		&k.ID, &k.Name, &k.KeyHash, &k.KeyPrefix, &k.Permissions, &k.IsActive,
		&k.ExpiresAt, &k.LastUsedAt, &k.UseCount, &k.CreatedBy,
		&k.CreatedAt, &k.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &k, nil
}

// Create inserts an API key row.
func (r *APIKeyRepository) Create(ctx context.Context, key *models.APIKey) error {
	query := `
		INSERT INTO api_keys (name, key_hash, key_prefix, permissions, is_active, expires_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`

	err := r.db.QueryRow(ctx, query,
		key.Name, key.KeyHash, key.KeyPrefix, key.Permissions,
		key.IsActive, key.ExpiresAt, key.CreatedBy,
	).Scan(&key.ID, &key.CreatedAt, &key.UpdatedAt)
	if err != nil {
		return fmt.Errorf("error creating API key: %w", err)
	}
	return nil
}

// GetByID retrieves an API key by ID.
func (r *APIKeyRepository) GetByID(ctx context.Context, id int64) (*models.APIKey, error) {
	query := `SELECT ` + apiKeyColumns + ` FROM api_keys WHERE id = $1`

	key, err := scanAPIKey(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrAPIKeyNotFound
		}
		return nil, fmt.Errorf("error retrieving API key: %w", err)
	}
	return key, nil
}

// GetAll retrieves every API key, newest first.
func (r *APIKeyRepository) GetAll(ctx context.Context) ([]*models.APIKey, error) {
	query := `SELECT ` + apiKeyColumns + ` FROM api_keys ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var keys []*models.APIKey
	for rows.Next() {
		key, err := scanAPIKey(rows)
		if err != nil {
			return nil, err
		}
		keys = append(keys, key)
	}
	return keys, rows.Err()
}

// GetActiveByPrefix retrieves active keys sharing a lookup prefix.
// Callers verify the full key against each hash.
func (r *APIKeyRepository) GetActiveByPrefix(ctx context.Context, prefix string) ([]*models.APIKey, error) {
	query := `SELECT ` + apiKeyColumns + ` FROM api_keys
		WHERE key_prefix = $1 AND is_active = TRUE`

	rows, err := r.db.Query(ctx, query, prefix)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var keys []*models.APIKey
	for rows.Next() {
		key, err := scanAPIKey(rows)
		if err != nil {
			return nil, err
		}
		keys = append(keys, key)
	}
	return keys, rows.Err()
}

// Update persists name, permissions, active flag and expiry.
func (r *APIKeyRepository) Update(ctx context.Context, key *models.APIKey) error {
	query := `
		UPDATE api_keys
		SET name = $1, permissions = $2, is_active = $3, expires_at = $4,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = $5
	`

	cmdTag, err := r.db.Exec(ctx, query,
		key.Name, key.Permissions, key.IsActive, key.ExpiresAt, key.ID)
	if err != nil {
		return fmt.Errorf("error updating API key: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrAPIKeyNotFound
	}
	return nil
}

// ReplaceSecret swaps the stored hash and prefix during regeneration.
func (r *APIKeyRepository) ReplaceSecret(ctx context.Context, id int64, keyHash, keyPrefix string) error {
	query := `
		UPDATE api_keys
		SET key_hash = $1, key_prefix = $2, use_count = 0, last_used_at = NULL,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = $3
	`

	cmdTag, err := r.db.Exec(ctx, query, keyHash, keyPrefix, id)
	if err != nil {
		return fmt.Errorf("error replacing API key secret: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrAPIKeyNotFound
	}
	return nil
}

// Delete removes an API key.
func (r *APIKeyRepository) Delete(ctx context.Context, id int64) error {
	cmdTag, err := r.db.Exec(ctx, `DELETE FROM api_keys WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting API key: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrAPIKeyNotFound
	}
	return nil
}

// TouchUsage stamps a successful authentication and bumps the counter.
func (r *APIKeyRepository) TouchUsage(ctx context.Context, id int64) error {
	_, err := r.db.Exec(ctx,
		`UPDATE api_keys SET last_used_at = CURRENT_TIMESTAMP, use_count = use_count + 1 WHERE id = $1`,
		id)
	if err != nil {
		return fmt.Errorf("error recording API key usage: %w", err)
	}
	return nil
}
