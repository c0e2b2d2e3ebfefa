package services

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/ourschool/ourschool/internal/app/models"
	"github.com/ourschool/ourschool/internal/app/models/dto"
	"github.com/ourschool/ourschool/internal/app/repositories"
)

// SubjectService handles subjects, lessons and lesson/template links
type SubjectService struct {
	subjectRepo *repositories.SubjectRepository
	logger      zerolog.Logger
}

// NewSubjectService creates a new SubjectService
func NewSubjectService(subjectRepo *repositories.SubjectRepository, logger zerolog.Logger) *SubjectService {
	return &SubjectService{
		subjectRepo: subjectRepo,
		logger:      logger,
	}
}

// Create creates a subject with the default color when none is given.
func (s *SubjectService) Create(ctx context.Context, req *dto.CreateSubjectRequest) (*models.Subject, error) {
	subject := &models.Subject{
		Name:        req.Name,
		Description: req.Description,
		Color:       models.DefaultSubjectColor,
		IsActive:    true,
	}
	if req.Color != nil {
		subject.Color = *req.Color
	}

	if err := s.subjectRepo.Create(ctx, subject); err != nil {
		return nil, err
	}
	return subject, nil
}

// GetAll retrieves subjects.
func (s *SubjectService) GetAll(ctx context.Context, includeInactive bool) ([]*models.Subject, error) {
	return s.subjectRepo.GetAll(ctx, includeInactive)
}

// GetByID retrieves one subject.
func (s *SubjectService) GetByID(ctx context.Context, id int64) (*models.Subject, error) {
	return s.subjectRepo.GetByID(ctx, id)
}

// Update applies a partial update to a subject.
func (s *SubjectService) Update(ctx context.Context, id int64, req *dto.UpdateSubjectRequest) (*models.Subject, error) {
	subject, err := s.subjectRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		subject.Name = *req.Name
	}
	if req.Description != nil {
		subject.Description = req.Description
	}
	if req.Color != nil {
		subject.Color = *req.Color
	}
	if req.IsActive != nil {
		subject.IsActive = *req.IsActive
	}

	if err := s.subjectRepo.Update(ctx, subject); err != nil {
		return nil, err
	}
	return subject, nil
}

// Delete removes a subject and everything under it.
func (s *SubjectService) Delete(ctx context.Context, id int64) error {
	return s.subjectRepo.Delete(ctx, id)
}

// GetOrCreateByName finds a subject by name, creating it when missing.
// Imports and restores use this to resolve subject references.
func (s *SubjectService) GetOrCreateByName(ctx context.Context, name string) (*models.Subject, bool, error) {
	subject, err := s.subjectRepo.GetByName(ctx, name)
	if err == nil {
		return subject, false, nil
	}

	subject = &models.Subject{
		Name:     name,
		Color:    models.DefaultSubjectColor,
		IsActive: true,
	}
	if createErr := s.subjectRepo.Create(ctx, subject); createErr != nil {
		return nil, false, createErr
	}
	s.logger.Info().Str("subject", name).Msg("Subject created on demand")
	return subject, true, nil
}

// CreateLesson creates a lesson within a subject.
func (s *SubjectService) CreateLesson(ctx context.Context, req *dto.CreateLessonRequest) (*models.Lesson, error) {
	if _, err := s.subjectRepo.GetByID(ctx, req.SubjectID); err != nil {
		return nil, err
	}

	lesson := &models.Lesson{
		SubjectID:       req.SubjectID,
		Title:           req.Title,
		Description:     req.Description,
		DurationMinutes: req.DurationMinutes,
	}
	if req.ScheduledDate != nil {
		date, err := parseDateOnly(*req.ScheduledDate)
		if err != nil {
			return nil, err
		}
		lesson.ScheduledDate = &date
	}

	if err := s.subjectRepo.CreateLesson(ctx, lesson); err != nil {
		return nil, err
	}
	return s.subjectRepo.GetLessonByID(ctx, lesson.ID)
}

// GetLessons retrieves lessons, optionally scoped to a subject.
func (s *SubjectService) GetLessons(ctx context.Context, subjectID *int64) ([]*models.Lesson, error) {
	return s.subjectRepo.GetLessons(ctx, subjectID)
}

// GetLessonByID retrieves one lesson.
func (s *SubjectService) GetLessonByID(ctx context.Context, id int64) (*models.Lesson, error) {
	return s.subjectRepo.GetLessonByID(ctx, id)
}

// UpdateLesson applies a partial update to a lesson.
func (s *SubjectService) UpdateLesson(ctx context.Context, id int64, req *dto.UpdateLessonRequest) (*models.Lesson, error) {
	lesson, err := s.subjectRepo.GetLessonByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		lesson.Title = *req.Title
	}
	if req.Description != nil {
		lesson.Description = req.Description
	}
	if req.ScheduledDate != nil {
		date, err := parseDateOnly(*req.ScheduledDate)
		if err != nil {
			return nil, err
		}
		lesson.ScheduledDate = &date
	}
	if req.DurationMinutes != nil {
		lesson.DurationMinutes = req.DurationMinutes
	}

	if err := s.subjectRepo.UpdateLesson(ctx, lesson); err != nil {
		return nil, err
	}
	return lesson, nil
}

// DeleteLesson removes a lesson.
func (s *SubjectService) DeleteLesson(ctx context.Context, id int64) error {
	return s.subjectRepo.DeleteLesson(ctx, id)
}

// LinkTemplate attaches a template to a lesson.
func (s *SubjectService) LinkTemplate(ctx context.Context, lessonID int64, req *dto.LinkLessonAssignmentRequest) error {
	if _, err := s.subjectRepo.GetLessonByID(ctx, lessonID); err != nil {
		return err
	}
	return s.subjectRepo.LinkTemplate(ctx, lessonID, req.TemplateID, req.OrderIndex)
}

// UnlinkTemplate detaches a template from a lesson.
func (s *SubjectService) UnlinkTemplate(ctx context.Context, lessonID, templateID int64) error {
	return s.subjectRepo.UnlinkTemplate(ctx, lessonID, templateID)
}

// GetLessonTemplates retrieves a lesson's linked templates in order.
func (s *SubjectService) GetLessonTemplates(ctx context.Context, lessonID int64) ([]*models.AssignmentTemplate, error) {
	if _, err := s.subjectRepo.GetLessonByID(ctx, lessonID); err != nil {
		return nil, err
	}
	return s.subjectRepo.GetLessonTemplates(ctx, lessonID)
}
