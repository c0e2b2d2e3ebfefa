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

// TermService handles terms, term subjects and grade calculation
type TermService struct {
	termRepo       *repositories.TermRepository
	subjectRepo    *repositories.SubjectRepository
	assignmentRepo *repositories.AssignmentRepository
	logger         zerolog.Logger
}

// NewTermService creates a new TermService
func NewTermService(
	termRepo *repositories.TermRepository,
	subjectRepo *repositories.SubjectRepository,
	assignmentRepo *repositories.AssignmentRepository,
	logger zerolog.Logger,
) *TermService {
	return &TermService{
		termRepo:       termRepo,
		subjectRepo:    subjectRepo,
		assignmentRepo: assignmentRepo,
		logger:         logger,
	}
}

// Create creates a term.
func (s *TermService) Create(ctx context.Context, req *dto.CreateTermRequest) (*models.Term, error) {
	start, err := parseDateOnly(req.StartDate)
	if err != nil {
		return nil, err
	}
	end, err := parseDateOnly(req.EndDate)
	if err != nil {
		return nil, err
	}
	if !end.After(start) {
		return nil, fmt.Errorf("%w: end date must be after start date", apperrors.ErrValidationFailed)
	}

	termType := models.TermSemester
	if req.TermType != "" {
		termType = models.TermType(req.TermType)
	}
	termOrder := req.TermOrder
	if termOrder <= 0 {
		termOrder = 1
	}

	term := &models.Term{
		Name:         req.Name,
		TermType:     termType,
		AcademicYear: req.AcademicYear,
		TermOrder:    termOrder,
		StartDate:    start,
		EndDate:      end,
	}
	if err := s.termRepo.Create(ctx, term); err != nil {
		return nil, err
	}
	return term, nil
}

// GetAll retrieves every term.
func (s *TermService) GetAll(ctx context.Context) ([]*models.Term, error) {
	return s.termRepo.GetAll(ctx)
}

// GetByID retrieves one term.
func (s *TermService) GetByID(ctx context.Context, id int64) (*models.Term, error) {
	return s.termRepo.GetByID(ctx, id)
}

// AcademicYears lists the distinct academic years that have terms.
func (s *TermService) AcademicYears(ctx context.Context) ([]string, error) {
	return s.termRepo.ListAcademicYears(ctx)
}

// GetActive retrieves the active term.
func (s *TermService) GetActive(ctx context.Context) (*models.Term, error) {
	return s.termRepo.GetActive(ctx)
}

// Update applies a partial update to a term.
func (s *TermService) Update(ctx context.Context, id int64, req *dto.UpdateTermRequest) (*models.Term, error) {
	term, err := s.termRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		term.Name = *req.Name
	}
	if req.TermType != nil {
		term.TermType = models.TermType(*req.TermType)
	}
	if req.AcademicYear != nil {
		term.AcademicYear = *req.AcademicYear
	}
	if req.TermOrder != nil {
		term.TermOrder = *req.TermOrder
	}
	if req.StartDate != nil {
		start, err := parseDateOnly(*req.StartDate)
		if err != nil {
			return nil, err
		}
		term.StartDate = start
	}
	if req.EndDate != nil {
		end, err := parseDateOnly(*req.EndDate)
		if err != nil {
			return nil, err
		}
		term.EndDate = end
	}
	if !term.EndDate.After(term.StartDate) {
		return nil, fmt.Errorf("%w: end date must be after start date", apperrors.ErrValidationFailed)
	}

	if err := s.termRepo.Update(ctx, term); err != nil {
		return nil, err
	}
	return term, nil
}

// Delete removes a term with no linked assignments or grades.
func (s *TermService) Delete(ctx context.Context, id int64) error {
	return s.termRepo.Delete(ctx, id)
}

// Activate makes one term the active term; any other active term is
// deactivated. Term-less assignments falling in the range are linked.
func (s *TermService) Activate(ctx context.Context, id int64) (*models.Term, error) {
	term, err := s.termRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.termRepo.Activate(ctx, id); err != nil {
		return nil, err
	}

	linked, err := s.assignmentRepo.LinkOpenToTerm(ctx, id, term.StartDate, term.EndDate)
	if err != nil {
		s.logger.Warn().Err(err).Int64("termId", id).Msg("Could not link assignments to term")
	} else if linked > 0 {
		s.logger.Info().Int64("termId", id).Int64("linked", linked).
			Msg("Assignments linked to activated term")
	}

	return s.termRepo.GetByID(ctx, id)
}

// AddSubject links a subject into the term's grading scope.
func (s *TermService) AddSubject(ctx context.Context, termID, subjectID int64) error {
	if _, err := s.termRepo.GetByID(ctx, termID); err != nil {
		return err
	}
	if _, err := s.subjectRepo.GetByID(ctx, subjectID); err != nil {
		return err
	}
	return s.termRepo.AddSubject(ctx, termID, subjectID)
}

// RemoveSubject unlinks a subject from the term.
func (s *TermService) RemoveSubject(ctx context.Context, termID, subjectID int64) error {
	return s.termRepo.RemoveSubject(ctx, termID, subjectID)
}

// GetSubjects retrieves the subjects linked to a term.
func (s *TermService) GetSubjects(ctx context.Context, termID int64) ([]*models.TermSubject, error) {
	if _, err := s.termRepo.GetByID(ctx, termID); err != nil {
		return nil, err
	}
	return s.termRepo.GetSubjects(ctx, termID)
}

// AutoLinkSubjects attaches every subject that has graded or issued
// work in the term but is not yet linked.
func (s *TermService) AutoLinkSubjects(ctx context.Context, termID int64) (*dto.AutoLinkResult, error) {
	if _, err := s.termRepo.GetByID(ctx, termID); err != nil {
		return nil, err
	}

	existing, err := s.termRepo.GetSubjects(ctx, termID)
	if err != nil {
		return nil, err
	}
	linked := make(map[int64]bool, len(existing))
	for _, ts := range existing {
		linked[ts.SubjectID] = true
	}

	totals, err := s.assignmentRepo.SumGradedByTerm(ctx, termID)
	if err != nil {
		return nil, err
	}

	result := &dto.AutoLinkResult{LinkedSubjects: []string{}}
	seen := make(map[int64]bool)
	for _, total := range totals {
		if seen[total.SubjectID] {
			continue
		}
		seen[total.SubjectID] = true
		if linked[total.SubjectID] {
			result.AlreadyLinked++
			continue
		}
		subject, err := s.subjectRepo.GetByID(ctx, total.SubjectID)
		if err != nil {
			return nil, err
		}
		if err := s.termRepo.AddSubject(ctx, termID, subject.ID); err != nil {
			return nil, err
		}
		result.LinkedSubjects = append(result.LinkedSubjects, subject.Name)
	}
	return result, nil
}

// CalculateGrades recalculates every student/subject aggregate for the
// term, recording history rows for changed grades.
func (s *TermService) CalculateGrades(ctx context.Context, termID int64) (*dto.CalculateGradesResult, error) {
	if _, err := s.termRepo.GetByID(ctx, termID); err != nil {
		return nil, err
	}

	totals, err := s.assignmentRepo.SumGradedByTerm(ctx, termID)
	if err != nil {
		return nil, err
	}

	result := &dto.CalculateGradesResult{}
	for _, total := range totals {
		grade := buildTermGrade(termID, total)
		oldPct, oldLetter, err := s.termRepo.UpsertTermGrade(ctx, grade)
		if err != nil {
			return nil, err
		}
		result.GradesCalculated++
		if termGradeChanged(oldPct, grade.PercentageGrade) {
			result.GradesChanged++
			recordTermGradeHistory(ctx, s.termRepo, s.logger, grade, oldPct, oldLetter)
		}
	}

	s.logger.Info().Int64("termId", termID).
		Int("calculated", result.GradesCalculated).Int("changed", result.GradesChanged).
		Msg("Term grades calculated")
	return result, nil
}

// GetGrades retrieves the calculated grades for a term.
func (s *TermService) GetGrades(ctx context.Context, termID int64) ([]*models.StudentTermGrade, error) {
	if _, err := s.termRepo.GetByID(ctx, termID); err != nil {
		return nil, err
	}
	return s.termRepo.GetTermGrades(ctx, termID)
}
