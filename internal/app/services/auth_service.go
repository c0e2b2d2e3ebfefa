package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/ourschool/ourschool/internal/app/models"
	"github.com/ourschool/ourschool/internal/app/models/dto"
	"github.com/ourschool/ourschool/internal/app/repositories"
	"github.com/ourschool/ourschool/internal/pkg/apperrors"
	"github.com/ourschool/ourschool/internal/pkg/auth"
)

// AuthService handles authentication operations
type AuthService struct {
	userRepo   *repositories.UserRepository
	apiKeyRepo *repositories.APIKeyRepository
	jwtService *auth.JWTService
	logger     zerolog.Logger
}

// NewAuthService creates a new AuthService
func NewAuthService(
	userRepo *repositories.UserRepository,
	apiKeyRepo *repositories.APIKeyRepository,
	jwtService *auth.JWTService,
	logger zerolog.Logger,
) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		apiKeyRepo: apiKeyRepo,
		jwtService: jwtService,
		logger:     logger,
	}
}

// Login authenticates a user by username and password.
func (s *AuthService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error) {
	if strings.TrimSpace(req.Username) == "" || req.Password == "" {
		return nil, apperrors.ErrInvalidCredentials
	}

	user, err := s.userRepo.GetByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("error looking up user: %w", err)
	}

	if !auth.CheckPassword(user.PasswordHash, req.Password) {
		return nil, apperrors.ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, apperrors.ErrAccountDisabled
	}

	if err := s.userRepo.UpdateLastLogin(ctx, user.ID); err != nil {
		s.logger.Warn().Err(err).Int64("userId", user.ID).Msg("Could not update last login")
	}

	return s.tokenResponse(user)
}

// ExtendSession re-issues a token for an authenticated user, resetting
// the expiry window.
func (s *AuthService) ExtendSession(ctx context.Context, userID int64) (*dto.TokenResponse, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !user.IsActive {
		return nil, apperrors.ErrAccountDisabled
	}
	return s.tokenResponse(user)
}

// GetProfile retrieves the authenticated user's own account.
func (s *AuthService) GetProfile(ctx context.Context, userID int64) (*dto.UserSummary, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	summary := dto.FromUser(user)
	return &summary, nil
}

// ValidateAPIKey authenticates a raw API key. Prefix lookup narrows
// the candidates, then the full key is checked against each hash.
func (s *AuthService) ValidateAPIKey(ctx context.Context, rawKey string) (*models.APIKey, error) {
	if !strings.HasPrefix(rawKey, auth.APIKeyPrefix) {
		return nil, apperrors.ErrInvalidAPIKey
	}

	candidates, err := s.apiKeyRepo.GetActiveByPrefix(ctx, auth.KeyPrefix(rawKey))
	if err != nil {
		return nil, fmt.Errorf("error looking up API keys: %w", err)
	}

	now := time.Now()
	for _, key := range candidates {
		if !auth.CheckAPIKey(key.KeyHash, rawKey) {
			continue
		}
		if !key.IsUsable(now) {
			return nil, apperrors.ErrAPIKeyExpired
		}
		if err := s.apiKeyRepo.TouchUsage(ctx, key.ID); err != nil {
			s.logger.Warn().Err(err).Int64("keyId", key.ID).Msg("Could not record API key usage")
		}
		return key, nil
	}
	return nil, apperrors.ErrInvalidAPIKey
}

func (s *AuthService) tokenResponse(user *models.User) (*dto.TokenResponse, error) {
	token, expiresIn, err := s.jwtService.GenerateAccessToken(user.ID, user.Username, string(user.Role))
	if err != nil {
		return nil, fmt.Errorf("token generation error: %w", err)
	}

	summary := dto.FromUser(user)
	return &dto.TokenResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   expiresIn,
		User:        &summary,
	}, nil
}
