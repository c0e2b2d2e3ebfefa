package services

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/ourschool/ourschool/internal/app/models"
	"github.com/ourschool/ourschool/internal/app/models/dto"
	"github.com/ourschool/ourschool/internal/app/repositories"
	"github.com/ourschool/ourschool/internal/pkg/auth"
)

// StudentService handles managed student accounts
type StudentService struct {
	userRepo *repositories.UserRepository
	logger   zerolog.Logger
}

// NewStudentService creates a new StudentService
func NewStudentService(userRepo *repositories.UserRepository, logger zerolog.Logger) *StudentService {
	return &StudentService{
		userRepo: userRepo,
		logger:   logger,
	}
}

// Create creates a student account managed by the calling admin.
func (s *StudentService) Create(ctx context.Context, parentID int64, req *dto.CreateStudentRequest) (*dto.UserSummary, error) {
	if err := validatePassword(req.Password); err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	student := &models.User{
		Username:     req.Username,
		Email:        req.Email,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		PasswordHash: hash,
		Role:         models.RoleStudent,
		ParentID:     &parentID,
		GradeLevel:   req.GradeLevel,
		IsActive:     true,
	}
	if req.DateOfBirth != nil {
		dob, err := parseDateOnly(*req.DateOfBirth)
		if err != nil {
			return nil, err
		}
		student.DateOfBirth = &dob
	}

	if err := s.userRepo.Create(ctx, student); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("studentId", student.ID).Int64("parentId", parentID).Msg("Student created")
	summary := dto.FromUser(student)
	return &summary, nil
}

// GetAll retrieves every student account.
func (s *StudentService) GetAll(ctx context.Context) ([]dto.UserSummary, error) {
	students, err := s.userRepo.GetAllStudents(ctx)
	if err != nil {
		return nil, err
	}

	summaries := make([]dto.UserSummary, 0, len(students))
	for _, student := range students {
		summaries = append(summaries, dto.FromUser(student))
	}
	return summaries, nil
}

// GetByID retrieves one student account.
func (s *StudentService) GetByID(ctx context.Context, id int64) (*dto.UserSummary, error) {
	student, err := s.userRepo.GetStudentByID(ctx, id)
	if err != nil {
		return nil, err
	}
	summary := dto.FromUser(student)
	return &summary, nil
}

// Update applies a partial update to a student account.
func (s *StudentService) Update(ctx context.Context, id int64, req *dto.UpdateStudentRequest) (*dto.UserSummary, error) {
	student, err := s.userRepo.GetStudentByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Email != nil {
		student.Email = *req.Email
	}
	if req.FirstName != nil {
		student.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		student.LastName = *req.LastName
	}
	if req.DateOfBirth != nil {
		dob, err := parseDateOnly(*req.DateOfBirth)
		if err != nil {
			return nil, err
		}
		student.DateOfBirth = &dob
	}
	if req.GradeLevel != nil {
		student.GradeLevel = req.GradeLevel
	}
	if req.IsActive != nil {
		student.IsActive = *req.IsActive
	}

	if err := s.userRepo.Update(ctx, student); err != nil {
		return nil, err
	}
	summary := dto.FromUser(student)
	return &summary, nil
}

// Delete removes a student account and its records.
func (s *StudentService) Delete(ctx context.Context, id int64) error {
	if _, err := s.userRepo.GetStudentByID(ctx, id); err != nil {
		return err
	}
	return s.userRepo.Delete(ctx, id)
}
