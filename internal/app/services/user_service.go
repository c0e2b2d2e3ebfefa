package services

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/ourschool/ourschool/internal/app/models"
	"github.com/ourschool/ourschool/internal/app/models/dto"
	"github.com/ourschool/ourschool/internal/app/repositories"
	"github.com/ourschool/ourschool/internal/pkg/apperrors"
	"github.com/ourschool/ourschool/internal/pkg/auth"
	"github.com/ourschool/ourschool/internal/pkg/validation"
)

// UserService handles account management operations
type UserService struct {
	userRepo *repositories.UserRepository
	logger   zerolog.Logger
}

// NewUserService creates a new UserService
func NewUserService(userRepo *repositories.UserRepository, logger zerolog.Logger) *UserService {
	return &UserService{
		userRepo: userRepo,
		logger:   logger,
	}
}

func validatePassword(password string) error {
	if len(password) < validation.PasswordMinLength {
		return fmt.Errorf("%w: password must be at least %d characters",
			apperrors.ErrPasswordRequirement, validation.PasswordMinLength)
	}
	return nil
}

// CreateUser creates an account. The very first account becomes an
// admin regardless of the requested role; every later call requires an
// authenticated admin.
func (s *UserService) CreateUser(ctx context.Context, req *dto.CreateUserRequest, authenticated bool) (*dto.UserSummary, error) {
	if err := validatePassword(req.Password); err != nil {
		return nil, err
	}

	count, err := s.userRepo.Count(ctx)
	if err != nil {
		return nil, err
	}

	role := models.RoleStudent
	if req.Role != "" {
		role = models.UserRole(req.Role)
	}
	if count == 0 {
		role = models.RoleAdmin
	} else if !authenticated {
		return nil, apperrors.ErrPermissionDenied
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	user := &models.User{
		Username:     req.Username,
		Email:        req.Email,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		PasswordHash: hash,
		Role:         role,
		IsActive:     true,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("userId", user.ID).Str("role", string(role)).Msg("User created")
	summary := dto.FromUser(user)
	return &summary, nil
}

// GetAll retrieves every account.
func (s *UserService) GetAll(ctx context.Context) ([]dto.UserSummary, error) {
	users, err := s.userRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	summaries := make([]dto.UserSummary, 0, len(users))
	for _, user := range users {
		summaries = append(summaries, dto.FromUser(user))
	}
	return summaries, nil
}

// GetByID retrieves one account.
func (s *UserService) GetByID(ctx context.Context, id int64) (*dto.UserSummary, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	summary := dto.FromUser(user)
	return &summary, nil
}

// Update applies a partial update to an account.
func (s *UserService) Update(ctx context.Context, id int64, req *dto.UpdateUserRequest) (*dto.UserSummary, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Email != nil {
		user.Email = *req.Email
	}
	if req.FirstName != nil {
		user.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		user.LastName = *req.LastName
	}
	if req.GradeLevel != nil {
		user.GradeLevel = req.GradeLevel
	}
	if req.IsActive != nil {
		user.IsActive = *req.IsActive
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	summary := dto.FromUser(user)
	return &summary, nil
}

// Delete removes an account. Admins cannot delete themselves; deleting
// an admin removes their managed students too.
func (s *UserService) Delete(ctx context.Context, id, callerID int64) error {
	if id == callerID {
		return apperrors.ErrCannotDeleteSelf
	}
	if _, err := s.userRepo.GetByID(ctx, id); err != nil {
		return err
	}

	if err := s.userRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Int64("userId", id).Int64("deletedBy", callerID).Msg("User deleted")
	return nil
}

// ResetPassword sets a generated temporary password on an account and
// returns it once.
func (s *UserService) ResetPassword(ctx context.Context, id int64) (*dto.ResetPasswordResponse, error) {
	if _, err := s.userRepo.GetByID(ctx, id); err != nil {
		return nil, err
	}

	temp, err := generateTempPassword()
	if err != nil {
		return nil, err
	}
	hash, err := auth.HashPassword(temp)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}
	if err := s.userRepo.UpdatePassword(ctx, id, hash); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("userId", id).Msg("Password reset by admin")
	return &dto.ResetPasswordResponse{
		TemporaryPassword: temp,
		Message:           "Share this password securely; it is not shown again.",
	}, nil
}

// ChangePassword rotates the caller's own password after verifying the
// current one.
func (s *UserService) ChangePassword(ctx context.Context, userID int64, req *dto.ChangePasswordRequest) error {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if !auth.CheckPassword(user.PasswordHash, req.CurrentPassword) {
		return apperrors.ErrInvalidCredentials
	}
	if err := validatePassword(req.NewPassword); err != nil {
		return err
	}

	hash, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		return fmt.Errorf("error hashing password: %w", err)
	}
	return s.userRepo.UpdatePassword(ctx, userID, hash)
}

// HasAnyUser reports whether at least one account exists. The setup
// flow uses this to decide whether bootstrap is still open.
func (s *UserService) HasAnyUser(ctx context.Context) (bool, error) {
	count, err := s.userRepo.Count(ctx)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func generateTempPassword() (string, error) {
	buf := make([]byte, 9)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("error generating password: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// parseDateOnly parses a YYYY-MM-DD string shared by several services.
func parseDateOnly(value string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: invalid date %q", apperrors.ErrValidationFailed, value)
	}
	return t, nil
}
