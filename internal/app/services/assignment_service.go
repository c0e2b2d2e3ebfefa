package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/rs/zerolog"

	"github.com/ourschool/ourschool/internal/app/models"
	"github.com/ourschool/ourschool/internal/app/models/dto"
	"github.com/ourschool/ourschool/internal/app/repositories"
	"github.com/ourschool/ourschool/internal/cache"
	"github.com/ourschool/ourschool/internal/pkg/apperrors"
	"github.com/ourschool/ourschool/internal/pkg/grading"
)

// AssignmentService handles issuing, progressing and grading student
// assignments.
type AssignmentService struct {
	assignmentRepo *repositories.AssignmentRepository
	templateRepo   *repositories.TemplateRepository
	userRepo       *repositories.UserRepository
	termRepo       *repositories.TermRepository
	pointsRepo     *repositories.PointsRepository
	settingsRepo   *repositories.SettingsRepository
	reportCache    *cache.ReportCache
	logger         zerolog.Logger
}

// NewAssignmentService creates a new AssignmentService
func NewAssignmentService(
	assignmentRepo *repositories.AssignmentRepository,
	templateRepo *repositories.TemplateRepository,
	userRepo *repositories.UserRepository,
	termRepo *repositories.TermRepository,
	pointsRepo *repositories.PointsRepository,
	settingsRepo *repositories.SettingsRepository,
	reportCache *cache.ReportCache,
	logger zerolog.Logger,
) *AssignmentService {
	return &AssignmentService{
		assignmentRepo: assignmentRepo,
		templateRepo:   templateRepo,
		userRepo:       userRepo,
		termRepo:       termRepo,
		pointsRepo:     pointsRepo,
		settingsRepo:   settingsRepo,
		reportCache:    reportCache,
		logger:         logger,
	}
}

// Assign issues a template to a set of students. Students who already
// hold the template are skipped, not failed. Assigning requires an
// active term; the assignment joins it when the due date falls inside
// it.
func (s *AssignmentService) Assign(ctx context.Context, req *dto.AssignRequest) (*dto.AssignResult, error) {
	if len(req.StudentIDs) == 0 {
		return nil, fmt.Errorf("%w: no students given", apperrors.ErrValidationFailed)
	}
	if _, err := s.templateRepo.GetByID(ctx, req.TemplateID); err != nil {
		return nil, err
	}
	dueDate, err := parseDateOnly(req.DueDate)
	if err != nil {
		return nil, err
	}

	term, err := s.termRepo.GetActive(ctx)
	if err != nil {
		return nil, err
	}
	var termID *int64
	if term.Contains(dueDate) {
		termID = &term.ID
	}

	result := &dto.AssignResult{Created: []int64{}}
	for _, studentID := range req.StudentIDs {
		if _, err := s.userRepo.GetStudentByID(ctx, studentID); err != nil {
			return nil, err
		}

		assignment := &models.StudentAssignment{
			TemplateID: req.TemplateID,
			StudentID:  studentID,
			TermID:     termID,
			DueDate:    &dueDate,
			Status:     models.StatusNotStarted,
		}
		err := s.assignmentRepo.Create(ctx, assignment)
		if err != nil {
			if errors.Is(err, apperrors.ErrAlreadyAssigned) {
				result.Skipped++
				continue
			}
			return nil, err
		}
		result.Assigned++
		result.Created = append(result.Created, assignment.ID)
	}

	s.logger.Info().Int64("templateId", req.TemplateID).
		Int("assigned", result.Assigned).Int("skipped", result.Skipped).
		Msg("Template assigned")
	return result, nil
}

// GetAll retrieves assignments matching the filter with statuses
// resolved against today.
func (s *AssignmentService) GetAll(ctx context.Context, filter dto.AssignmentFilter) ([]*models.StudentAssignment, error) {
	assignments, err := s.assignmentRepo.GetAll(ctx, filter)
	if err != nil {
		return nil, err
	}

	today := time.Now()
	for _, a := range assignments {
		a.Status = a.ResolveStatus(today)
	}
	return assignments, nil
}

// GetByID retrieves one assignment with its status resolved.
func (s *AssignmentService) GetByID(ctx context.Context, id int64) (*models.StudentAssignment, error) {
	assignment, err := s.assignmentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	assignment.Status = assignment.ResolveStatus(time.Now())
	return assignment, nil
}

// Update applies progress and scheduling changes. Status transitions
// to in_progress and submitted stamp the matching dates.
func (s *AssignmentService) Update(ctx context.Context, id int64, req *dto.UpdateStudentAssignmentRequest) (*models.StudentAssignment, error) {
	assignment, err := s.assignmentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	today := time.Now()
	if req.DueDate != nil {
		due, err := parseDateOnly(*req.DueDate)
		if err != nil {
			return nil, err
		}
		assignment.DueDate = &due
	}
	if req.ExtendedDueDate != nil {
		extended, err := parseDateOnly(*req.ExtendedDueDate)
		if err != nil {
			return nil, err
		}
		assignment.ExtendedDueDate = &extended
	}
	if req.Notes != nil {
		assignment.Notes = req.Notes
	}
	if req.Status != nil {
		status := models.AssignmentStatus(*req.Status)
		switch status {
		case models.StatusInProgress:
			if assignment.StartedDate == nil {
				assignment.StartedDate = &today
			}
		case models.StatusSubmitted:
			if assignment.SubmittedDate == nil {
				assignment.SubmittedDate = &today
			}
		case models.StatusNotStarted:
			assignment.StartedDate = nil
			assignment.SubmittedDate = nil
		}
		assignment.Status = status
	}

	if err := s.assignmentRepo.Update(ctx, assignment); err != nil {
		return nil, err
	}
	return s.GetByID(ctx, id)
}

// Start marks an assignment in progress on behalf of its student.
func (s *AssignmentService) Start(ctx context.Context, id, studentID int64) (*models.StudentAssignment, error) {
	assignment, err := s.assignmentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if assignment.StudentID != studentID {
		return nil, apperrors.ErrPermissionDenied
	}
	if assignment.Status == models.StatusGraded || assignment.Status == models.StatusExcused {
		return nil, fmt.Errorf("%w: assignment is %s", apperrors.ErrBadRequest, assignment.Status)
	}

	if err := s.assignmentRepo.UpdateStatus(ctx, id, models.StatusInProgress, time.Now()); err != nil {
		return nil, err
	}
	return s.GetByID(ctx, id)
}

// Submit marks an assignment submitted on behalf of its student.
func (s *AssignmentService) Submit(ctx context.Context, id, studentID int64) (*models.StudentAssignment, error) {
	assignment, err := s.assignmentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if assignment.StudentID != studentID {
		return nil, apperrors.ErrPermissionDenied
	}
	if assignment.Status == models.StatusGraded || assignment.Status == models.StatusExcused {
		return nil, fmt.Errorf("%w: assignment is %s", apperrors.ErrBadRequest, assignment.Status)
	}

	if err := s.assignmentRepo.UpdateStatus(ctx, id, models.StatusSubmitted, time.Now()); err != nil {
		return nil, err
	}
	return s.GetByID(ctx, id)
}

// Grade records points for an assignment, derives the percentage and
// letter grade, awards points when the points system is enabled, and
// refreshes the term grade.
func (s *AssignmentService) Grade(ctx context.Context, id, gradedBy int64, req *dto.GradeRequest) (*models.StudentAssignment, error) {
	assignment, err := s.assignmentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if assignment.Status == models.StatusExcused {
		return nil, fmt.Errorf("%w: excused assignments are not graded", apperrors.ErrBadRequest)
	}

	if req.CustomMaxPoints != nil {
		assignment.CustomMaxPoints = req.CustomMaxPoints
	}
	maxPoints := assignment.MaxPoints()
	if maxPoints <= 0 {
		return nil, fmt.Errorf("%w: assignment has no maximum points", apperrors.ErrInvalidGrade)
	}
	if req.PointsEarned < 0 || req.PointsEarned > float64(maxPoints) {
		return nil, fmt.Errorf("%w: points must be between 0 and %d", apperrors.ErrInvalidGrade, maxPoints)
	}

	percentage := grading.Percentage(req.PointsEarned, float64(maxPoints))
	letter := grading.LetterGrade(percentage)

	alreadyGraded := assignment.Status == models.StatusGraded
	assignment.PointsEarned = &req.PointsEarned
	assignment.PercentageGrade = &percentage
	assignment.LetterGrade = &letter
	assignment.GradedBy = &gradedBy
	if req.TeacherFeedback != nil {
		assignment.TeacherFeedback = req.TeacherFeedback
	}

	if err := s.assignmentRepo.UpdateGrade(ctx, assignment); err != nil {
		return nil, err
	}
	s.logger.Info().Int64("assignmentId", id).Float64("points", req.PointsEarned).
		Str("letter", letter).Bool("regrade", alreadyGraded).Msg("Assignment graded")

	s.awardPoints(ctx, assignment, gradedBy)
	s.refreshTermGrade(ctx, assignment)
	s.reportCache.InvalidateStudent(ctx, assignment.StudentID)

	return s.GetByID(ctx, id)
}

// awardPoints credits earned points once per assignment when the
// points system is enabled. Failures are logged, not fatal: the grade
// itself is already stored.
func (s *AssignmentService) awardPoints(ctx context.Context, assignment *models.StudentAssignment, gradedBy int64) {
	enabled, err := s.settingsRepo.GetBool(ctx, models.SettingPointsEnabled, true)
	if err != nil || !enabled {
		return
	}
	awarded, err := s.pointsRepo.HasAwardForAssignment(ctx, assignment.ID)
	if err != nil || awarded {
		return
	}

	amount := int(math.Round(*assignment.PointsEarned))
	if amount <= 0 {
		return
	}
	title := ""
	if assignment.Template != nil {
		title = assignment.Template.Title
	}
	reason := fmt.Sprintf("Graded: %s", title)
	_, err = s.pointsRepo.ApplyTransaction(ctx, &models.PointTransaction{
		StudentID:    assignment.StudentID,
		Amount:       amount,
		Type:         models.PointsFromAssignment,
		Reason:       &reason,
		AssignmentID: &assignment.ID,
		CreatedBy:    &gradedBy,
	})
	if err != nil {
		s.logger.Warn().Err(err).Int64("assignmentId", assignment.ID).
			Msg("Could not award points for graded assignment")
	}
}

// refreshTermGrade recalculates the student/subject aggregate for the
// assignment's term. Failures are logged, not fatal.
func (s *AssignmentService) refreshTermGrade(ctx context.Context, assignment *models.StudentAssignment) {
	if assignment.TermID == nil || assignment.Template == nil {
		return
	}

	totals, err := s.assignmentRepo.SumGradedByTerm(ctx, *assignment.TermID)
	if err != nil {
		s.logger.Warn().Err(err).Int64("termId", *assignment.TermID).
			Msg("Could not refresh term grade")
		return
	}

	for _, total := range totals {
		if total.StudentID != assignment.StudentID || total.SubjectID != assignment.Template.SubjectID {
			continue
		}
		grade := buildTermGrade(*assignment.TermID, total)
		oldPct, oldLetter, err := s.termRepo.UpsertTermGrade(ctx, grade)
		if err != nil {
			s.logger.Warn().Err(err).Msg("Could not upsert term grade")
			return
		}
		recordTermGradeHistory(ctx, s.termRepo, s.logger, grade, oldPct, oldLetter)
		return
	}
}

// Delete removes a student assignment.
func (s *AssignmentService) Delete(ctx context.Context, id int64) error {
	return s.assignmentRepo.Delete(ctx, id)
}

// Dashboard builds the admin grading dashboard.
func (s *AssignmentService) Dashboard(ctx context.Context) (*dto.DashboardOverview, error) {
	statusCounts, err := s.assignmentRepo.CountByStatus(ctx, nil)
	if err != nil {
		return nil, err
	}
	total := 0
	for _, count := range statusCounts {
		total += count
	}

	today := time.Now()
	overdue, err := s.assignmentRepo.CountOverdue(ctx, nil, today)
	if err != nil {
		return nil, err
	}
	recent, err := s.assignmentRepo.GetRecentlyGraded(ctx, 10)
	if err != nil {
		return nil, err
	}

	students, err := s.userRepo.GetAllStudents(ctx)
	if err != nil {
		return nil, err
	}
	summaries := make([]dto.StudentWorkload, 0, len(students))
	for _, student := range students {
		counts, err := s.assignmentRepo.CountByStatus(ctx, &student.ID)
		if err != nil {
			return nil, err
		}
		studentOverdue, err := s.assignmentRepo.CountOverdue(ctx, &student.ID, today)
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, dto.StudentWorkload{
			StudentID:   student.ID,
			StudentName: student.FullName(),
			Open:        counts[string(models.StatusNotStarted)] + counts[string(models.StatusInProgress)],
			Overdue:     studentOverdue,
			Submitted:   counts[string(models.StatusSubmitted)],
			Graded:      counts[string(models.StatusGraded)],
		})
	}

	return &dto.DashboardOverview{
		TotalAssignments: total,
		StatusCounts:     statusCounts,
		OverdueCount:     overdue,
		PendingGrading:   statusCounts[string(models.StatusSubmitted)],
		RecentGrades:     recent,
		StudentSummaries: summaries,
	}, nil
}

func buildTermGrade(termID int64, total repositories.SubjectTermTotal) *models.StudentTermGrade {
	grade := &models.StudentTermGrade{
		StudentID:       total.StudentID,
		SubjectID:       total.SubjectID,
		TermID:          termID,
		PointsEarned:    total.PointsEarned,
		PointsPossible:  total.PointsPossible,
		AssignmentCount: total.AssignmentCount,
	}
	if total.PointsPossible > 0 {
		pct := grading.Percentage(total.PointsEarned, total.PointsPossible)
		letter := grading.LetterGrade(pct)
		grade.PercentageGrade = &pct
		grade.LetterGrade = &letter
	}
	return grade
}

func recordTermGradeHistory(
	ctx context.Context,
	termRepo *repositories.TermRepository,
	logger zerolog.Logger,
	grade *models.StudentTermGrade,
	oldPct *float64,
	oldLetter *string,
) {
	if !termGradeChanged(oldPct, grade.PercentageGrade) {
		return
	}
	err := termRepo.RecordGradeChange(ctx, &models.GradeHistory{
		StudentID:     grade.StudentID,
		SubjectID:     grade.SubjectID,
		TermID:        grade.TermID,
		OldPercentage: oldPct,
		NewPercentage: grade.PercentageGrade,
		OldLetter:     oldLetter,
		NewLetter:     grade.LetterGrade,
	})
	if err != nil {
		logger.Warn().Err(err).Msg("Could not record grade history")
	}
}

func termGradeChanged(oldPct, newPct *float64) bool {
	if oldPct == nil && newPct == nil {
		return false
	}
	if oldPct == nil || newPct == nil {
		return true
	}
	return math.Abs(*oldPct-*newPct) > 0.001
}
