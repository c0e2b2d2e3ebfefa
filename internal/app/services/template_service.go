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
)

// DefaultTemplateMaxPoints is the maximum when a template omits one.
const DefaultTemplateMaxPoints = 100

// TemplateService handles assignment templates and their export/import
// wire format.
type TemplateService struct {
	templateRepo   *repositories.TemplateRepository
	assignmentRepo *repositories.AssignmentRepository
	subjectSvc     *SubjectService
	logger         zerolog.Logger
}

// NewTemplateService creates a new TemplateService
func NewTemplateService(
	templateRepo *repositories.TemplateRepository,
	assignmentRepo *repositories.AssignmentRepository,
	subjectSvc *SubjectService,
	logger zerolog.Logger,
) *TemplateService {
	return &TemplateService{
		templateRepo:   templateRepo,
		assignmentRepo: assignmentRepo,
		subjectSvc:     subjectSvc,
		logger:         logger,
	}
}

// Create creates a template.
func (s *TemplateService) Create(ctx context.Context, createdBy int64, req *dto.CreateTemplateRequest) (*models.AssignmentTemplate, error) {
	maxPoints := req.MaxPoints
	if maxPoints <= 0 {
		maxPoints = DefaultTemplateMaxPoints
	}

	template := &models.AssignmentTemplate{
		Title:            req.Title,
		Description:      req.Description,
		SubjectID:        req.SubjectID,
		AssignmentType:   models.AssignmentType(req.AssignmentType),
		MaxPoints:        maxPoints,
		EstimatedMinutes: req.EstimatedMinutes,
		Instructions:     req.Instructions,
		CreatedBy:        &createdBy,
	}
	if err := s.templateRepo.Create(ctx, template); err != nil {
		return nil, err
	}
	return s.templateRepo.GetByID(ctx, template.ID)
}

// GetAll retrieves templates matching the filter.
func (s *TemplateService) GetAll(ctx context.Context, filter dto.TemplateFilter) ([]*models.AssignmentTemplate, error) {
	return s.templateRepo.GetAll(ctx, filter)
}

// GetByID retrieves one template.
func (s *TemplateService) GetByID(ctx context.Context, id int64) (*models.AssignmentTemplate, error) {
	return s.templateRepo.GetByID(ctx, id)
}

// Update applies a partial update to a template. Existing student
// assignments keep grades already issued.
func (s *TemplateService) Update(ctx context.Context, id int64, req *dto.UpdateTemplateRequest) (*models.AssignmentTemplate, error) {
	template, err := s.templateRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		template.Title = *req.Title
	}
	if req.Description != nil {
		template.Description = req.Description
	}
	if req.SubjectID != nil {
		template.SubjectID = *req.SubjectID
	}
	if req.AssignmentType != nil {
		template.AssignmentType = models.AssignmentType(*req.AssignmentType)
	}
	if req.MaxPoints != nil {
		template.MaxPoints = *req.MaxPoints
	}
	if req.EstimatedMinutes != nil {
		template.EstimatedMinutes = req.EstimatedMinutes
	}
	if req.Instructions != nil {
		template.Instructions = req.Instructions
	}

	if err := s.templateRepo.Update(ctx, template); err != nil {
		return nil, err
	}
	return s.templateRepo.GetByID(ctx, id)
}

// Archive hides a template from default listings and excuses the
// non-graded assignments issued from it. Grades already given stand.
func (s *TemplateService) Archive(ctx context.Context, id int64) error {
	if err := s.templateRepo.SetArchived(ctx, id, true); err != nil {
		return err
	}
	excused, err := s.assignmentRepo.ExcuseUngradedByTemplate(ctx, id)
	if err != nil {
		return err
	}
	if excused > 0 {
		s.logger.Info().Int64("templateId", id).Int64("excused", excused).
			Msg("Open assignments excused for archived template")
	}
	return nil
}

// Restore brings an archived template back.
func (s *TemplateService) Restore(ctx context.Context, id int64) error {
	return s.templateRepo.SetArchived(ctx, id, false)
}

// Delete removes a template and every assignment issued from it.
func (s *TemplateService) Delete(ctx context.Context, id int64) error {
	return s.templateRepo.Delete(ctx, id)
}

// Export serializes templates matching the filter into the portable
// document format.
func (s *TemplateService) Export(ctx context.Context, filter dto.TemplateFilter) (*dto.TemplateExportDocument, error) {
	templates, err := s.templateRepo.GetAll(ctx, filter)
	if err != nil {
		return nil, err
	}

	exports := make([]dto.TemplateExport, 0, len(templates))
	for _, t := range templates {
		exports = append(exports, dto.TemplateExport{
			Title:            t.Title,
			Description:      t.Description,
			SubjectName:      t.SubjectName,
			AssignmentType:   string(t.AssignmentType),
			MaxPoints:        t.MaxPoints,
			EstimatedMinutes: t.EstimatedMinutes,
			Instructions:     t.Instructions,
		})
	}

	return &dto.TemplateExportDocument{
		ExportMetadata: dto.ExportMetadata{
			FormatVersion: dto.BackupFormatVersion,
			ExportedAt:    time.Now().UTC(),
			Count:         len(exports),
		},
		Templates: exports,
	}, nil
}

// Import recreates templates from an export document. Unknown subjects
// are created; a template whose title already exists under its subject
// is skipped.
func (s *TemplateService) Import(ctx context.Context, createdBy int64, doc *dto.TemplateExportDocument) (*dto.TemplateImportResult, error) {
	if doc.ExportMetadata.FormatVersion != dto.BackupFormatVersion {
		return nil, fmt.Errorf("%w: unsupported format version %q",
			apperrors.ErrValidationFailed, doc.ExportMetadata.FormatVersion)
	}

	result := &dto.TemplateImportResult{SubjectsCreated: []string{}}
	for _, entry := range doc.Templates {
		if entry.Title == "" || entry.SubjectName == "" {
			result.Skipped++
			continue
		}
		assignmentType := models.AssignmentType(entry.AssignmentType)
		if !assignmentType.Valid() {
			assignmentType = models.TypeHomework
		}

		subject, created, err := s.subjectSvc.GetOrCreateByName(ctx, entry.SubjectName)
		if err != nil {
			return nil, err
		}
		if created {
			result.SubjectsCreated = append(result.SubjectsCreated, subject.Name)
		}

		exists, err := s.templateRepo.ExistsByTitleAndSubject(ctx, entry.Title, subject.ID)
		if err != nil {
			return nil, err
		}
		if exists {
			result.Skipped++
			continue
		}

		maxPoints := entry.MaxPoints
		if maxPoints <= 0 {
			maxPoints = DefaultTemplateMaxPoints
		}
		template := &models.AssignmentTemplate{
			Title:            entry.Title,
			Description:      entry.Description,
			SubjectID:        subject.ID,
			AssignmentType:   assignmentType,
			MaxPoints:        maxPoints,
			EstimatedMinutes: entry.EstimatedMinutes,
			Instructions:     entry.Instructions,
			CreatedBy:        &createdBy,
		}
		if err := s.templateRepo.Create(ctx, template); err != nil {
			return nil, err
		}
		result.Created++
	}

	s.logger.Info().Int("created", result.Created).Int("skipped", result.Skipped).
		Msg("Templates imported")
	return result, nil
}
