package services

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/ourschool/ourschool/internal/app/models"
	"github.com/ourschool/ourschool/internal/app/models/dto"
	"github.com/ourschool/ourschool/internal/app/repositories"
	"github.com/ourschool/ourschool/internal/pkg/apperrors"
	"github.com/ourschool/ourschool/internal/pkg/auth"
)

// APIKeyService handles machine credentials
type APIKeyService struct {
	apiKeyRepo *repositories.APIKeyRepository
	logger     zerolog.Logger
}

// NewAPIKeyService creates a new APIKeyService
func NewAPIKeyService(apiKeyRepo *repositories.APIKeyRepository, logger zerolog.Logger) *APIKeyService {
	return &APIKeyService{
		apiKeyRepo: apiKeyRepo,
		logger:     logger,
	}
}

func validatePermissions(perms []string) error {
	if len(perms) == 0 {
		return fmt.Errorf("%w: at least one permission required", apperrors.ErrInvalidPermission)
	}
	for _, perm := range perms {
		if !models.IsKnownPermission(perm) {
			return fmt.Errorf("%w: %q", apperrors.ErrInvalidPermission, perm)
		}
	}
	return nil
}

// Create mints a key. The raw secret appears only in the response.
func (s *APIKeyService) Create(ctx context.Context, createdBy int64, req *dto.CreateAPIKeyRequest) (*dto.APIKeyCreatedResponse, error) {
	if err := validatePermissions(req.Permissions); err != nil {
		return nil, err
	}
	if req.ExpiresAt != nil && req.ExpiresAt.Before(time.Now()) {
		return nil, fmt.Errorf("%w: expiry is in the past", apperrors.ErrValidationFailed)
	}

	rawKey, err := auth.GenerateAPIKey()
	if err != nil {
		return nil, err
	}
	hash, err := auth.HashAPIKey(rawKey)
	if err != nil {
		return nil, err
	}

	key := &models.APIKey{
		Name:        req.Name,
		KeyHash:     hash,
		KeyPrefix:   auth.KeyPrefix(rawKey),
		Permissions: req.Permissions,
		IsActive:    true,
		ExpiresAt:   req.ExpiresAt,
		CreatedBy:   &createdBy,
	}
	if err := s.apiKeyRepo.Create(ctx, key); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("keyId", key.ID).Str("name", key.Name).Msg("API key created")
	return &dto.APIKeyCreatedResponse{Key: *key, RawKey: rawKey}, nil
}

// GetAll retrieves every key without secrets.
func (s *APIKeyService) GetAll(ctx context.Context) ([]*models.APIKey, error) {
	return s.apiKeyRepo.GetAll(ctx)
}

// GetByID retrieves one key.
func (s *APIKeyService) GetByID(ctx context.Context, id int64) (*models.APIKey, error) {
	return s.apiKeyRepo.GetByID(ctx, id)
}

// Update changes key metadata; the secret is untouched.
func (s *APIKeyService) Update(ctx context.Context, id int64, req *dto.UpdateAPIKeyRequest) (*models.APIKey, error) {
	key, err := s.apiKeyRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		key.Name = *req.Name
	}
	if req.Permissions != nil {
		if err := validatePermissions(*req.Permissions); err != nil {
			return nil, err
		}
		key.Permissions = *req.Permissions
	}
	if req.IsActive != nil {
		key.IsActive = *req.IsActive
	}
	if req.ExpiresAt != nil {
		key.ExpiresAt = req.ExpiresAt
	}

	if err := s.apiKeyRepo.Update(ctx, key); err != nil {
		return nil, err
	}
	return key, nil
}

// Regenerate replaces a key's secret, invalidating the old one
// immediately. Usage counters reset.
func (s *APIKeyService) Regenerate(ctx context.Context, id int64) (*dto.APIKeyCreatedResponse, error) {
	if _, err := s.apiKeyRepo.GetByID(ctx, id); err != nil {
		return nil, err
	}

	rawKey, err := auth.GenerateAPIKey()
	if err != nil {
		return nil, err
	}
	hash, err := auth.HashAPIKey(rawKey)
	if err != nil {
		return nil, err
	}
	if err := s.apiKeyRepo.ReplaceSecret(ctx, id, hash, auth.KeyPrefix(rawKey)); err != nil {
		return nil, err
	}

	key, err := s.apiKeyRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	s.logger.Info().Int64("keyId", id).Msg("API key regenerated")
	return &dto.APIKeyCreatedResponse{Key: *key, RawKey: rawKey}, nil
}

// Delete removes a key.
func (s *APIKeyService) Delete(ctx context.Context, id int64) error {
	return s.apiKeyRepo.Delete(ctx, id)
}

func keyStats(key *models.APIKey, now time.Time) dto.APIKeyStats {
	return dto.APIKeyStats{
		ID:         key.ID,
		Name:       key.Name,
		UseCount:   key.UseCount,
		LastUsedAt: key.LastUsedAt,
		AgeDays:    int(now.Sub(key.CreatedAt).Hours() / 24),
		ExpiresAt:  key.ExpiresAt,
		IsActive:   key.IsActive,
	}
}

// Stats summarizes usage across every key.
func (s *APIKeyService) Stats(ctx context.Context) ([]dto.APIKeyStats, error) {
	keys, err := s.apiKeyRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	stats := make([]dto.APIKeyStats, 0, len(keys))
	for _, key := range keys {
		stats = append(stats, keyStats(key, now))
	}
	return stats, nil
}

// StatsFor summarizes usage of one key.
func (s *APIKeyService) StatsFor(ctx context.Context, id int64) (*dto.APIKeyStats, error) {
	key, err := s.apiKeyRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	stats := keyStats(key, time.Now())
	return &stats, nil
}

// AvailablePermissions lists the permission catalog for admin UIs.
func (s *APIKeyService) AvailablePermissions() []string {
	return models.AvailablePermissions
}
