package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ourschool/ourschool/internal/app/models"
	"github.com/ourschool/ourschool/internal/app/models/dto"
	"github.com/ourschool/ourschool/internal/pkg/apperrors"
	"github.com/ourschool/ourschool/internal/pkg/dberrors"
)

const assignmentColumns = `a.id, a.template_id, a.student_id, a.term_id, a.due_date,
		a.extended_due_date, a.status, a.started_date, a.submitted_date, a.points_earned,
		a.custom_max_points, a.percentage_grade, a.letter_grade, a.graded_date, a.graded_by,
		a.notes, a.teacher_feedback, a.created_at, a.updated_at`

// AssignmentRepository handles database operations for student
// assignments.
type AssignmentRepository struct {
	db *pgxpool.Pool
}

// NewAssignmentRepository creates a new assignment repository
func NewAssignmentRepository(db *pgxpool.Pool) *AssignmentRepository {
	return &AssignmentRepository{
		db: db,
	}
}

func scanAssignment(row pgx.Row) (*models.StudentAssignment, error) {
	var a models.StudentAssignment
	err := row.Scan(
		&a.ID, &a.TemplateID, &a.StudentID, &a.TermID, &a.DueDate,
		&a.ExtendedDueDate, &a.Status, &a.StartedDate, &a.SubmittedDate,
		&a.PointsEarned, &a.CustomMaxPoints, &a.PercentageGrade, &a.LetterGrade,
		&a.GradedDate, &a.GradedBy, &a.Notes, &a.TeacherFeedback,
		&a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func scanEnrichedAssignment(row pgx.Row) (*models.StudentAssignment, error) {
	var a models.StudentAssignment
	var t models.AssignmentTemplate
	err := row.Scan(
		&a.ID, &a.TemplateID, &a.StudentID, &a.TermID, &a.DueDate,
		&a.ExtendedDueDate, &a.Status, &a.StartedDate, &a.SubmittedDate,
		&a.PointsEarned, &a.CustomMaxPoints, &a.PercentageGrade, &a.LetterGrade,
		&a.GradedDate, &a.GradedBy, &a.Notes, &a.TeacherFeedback,
		&a.CreatedAt, &a.UpdatedAt,
		&t.ID, &t.Title, &t.Description, &t.SubjectID, &t.AssignmentType,
		&t.MaxPoints, &t.EstimatedMinutes, &t.Instructions,
		&t.SubjectName, &t.SubjectColor,
		&a.StudentName)
	if err != nil {
		return nil, err
	}
	a.Template = &t
	return &a, nil
}

const enrichedAssignmentQuery = `SELECT ` + assignmentColumns + `,
		t.id, t.title, t.description, t.subject_id, t.assignment_type,
		t.max_points, t.estimated_minutes, t.instructions,
		s.name, s.color,
		u.first_name || ' ' || u.last_name
	FROM student_assignments a
	JOIN assignment_templates t ON t.id = a.template_id
	JOIN subjects s ON s.id = t.subject_id
	JOIN users u ON u.id = a.student_id`

// Create inserts a student assignment. An existing (template, student)
// pair is rejected.
func (r *AssignmentRepository) Create(ctx context.Context, assignment *models.StudentAssignment) error {
	query := `
		INSERT INTO student_assignments (template_id, student_id, term_id, due_date, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`

	err := r.db.QueryRow(ctx, query,
		assignment.TemplateID, assignment.StudentID, assignment.TermID,
		assignment.DueDate, assignment.Status,
	).Scan(&assignment.ID, &assignment.CreatedAt, &assignment.UpdatedAt)
	if err != nil {
		if dberrors.IsUniqueViolation(err) {
			return apperrors.ErrAlreadyAssigned
		}
		if dberrors.IsForeignKeyViolation(err) {
			return apperrors.ErrResourceNotFound
		}
		return fmt.Errorf("error creating student assignment: %w", err)
	}
	return nil
}

// GetByID retrieves an assignment with template, subject and student
// display fields.
func (r *AssignmentRepository) GetByID(ctx context.Context, id int64) (*models.StudentAssignment, error) {
	query := enrichedAssignmentQuery + ` WHERE a.id = $1`

	assignment, err := scanEnrichedAssignment(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrAssignmentNotFound
		}
		return nil, fmt.Errorf("error retrieving assignment: %w", err)
	}
	return assignment, nil
}

// GetAll retrieves assignments matching the filter, newest first.
func (r *AssignmentRepository) GetAll(ctx context.Context, filter dto.AssignmentFilter) ([]*models.StudentAssignment, error) {
	query := enrichedAssignmentQuery + ` WHERE 1=1`
	args := []interface{}{}
	argPos := 1

	if filter.StudentID != nil {
		query += fmt.Sprintf(" AND a.student_id = $%d", argPos)
		args = append(args, *filter.StudentID)
		argPos++
	}
	if filter.TemplateID != nil {
		query += fmt.Sprintf(" AND a.template_id = $%d", argPos)
		args = append(args, *filter.TemplateID)
		argPos++
	}
	if filter.SubjectID != nil {
		query += fmt.Sprintf(" AND t.subject_id = $%d", argPos)
		args = append(args, *filter.SubjectID)
		argPos++
	}
	if filter.Status != nil {
		query += fmt.Sprintf(" AND a.status = $%d", argPos)
		args = append(args, *filter.Status)
		argPos++
	}
	if filter.Type != nil {
		query += fmt.Sprintf(" AND t.assignment_type = $%d", argPos)
		args = append(args, *filter.Type)
		argPos++
	}
	if filter.FromDate != nil {
		query += fmt.Sprintf(" AND a.due_date >= $%d", argPos)
		args = append(args, *filter.FromDate)
		argPos++
	}
	if filter.ToDate != nil {
		query += fmt.Sprintf(" AND a.due_date <= $%d", argPos)
		args = append(args, *filter.ToDate)
		argPos++
	}
	query += " ORDER BY a.due_date DESC NULLS LAST, a.id DESC"

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectEnrichedAssignments(rows)
}

func collectEnrichedAssignments(rows pgx.Rows) ([]*models.StudentAssignment, error) {
	var assignments []*models.StudentAssignment
	for rows.Next() {
		assignment, err := scanEnrichedAssignment(rows)
		if err != nil {
			return nil, err
		}
		assignments = append(assignments, assignment)
	}
	return assignments, rows.Err()
}

// Update persists progress and scheduling fields.
func (r *AssignmentRepository) Update(ctx context.Context, assignment *models.StudentAssignment) error {
	query := `
		UPDATE student_assignments
		SET term_id = $1, due_date = $2, extended_due_date = $3, status = $4,
			started_date = $5, submitted_date = $6, notes = $7,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = $8
	`

	cmdTag, err := r.db.Exec(ctx, query,
		assignment.TermID, assignment.DueDate, assignment.ExtendedDueDate,
		assignment.Status, assignment.StartedDate, assignment.SubmittedDate,
		assignment.Notes, assignment.ID)
	if err != nil {
		return fmt.Errorf("error updating assignment: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrAssignmentNotFound
	}
	return nil
}

// UpdateGrade writes the grading outcome of an assignment.
func (r *AssignmentRepository) UpdateGrade(ctx context.Context, assignment *models.StudentAssignment) error {
	query := `
		UPDATE student_assignments
		SET status = 'graded', points_earned = $1, custom_max_points = $2,
			percentage_grade = $3, letter_grade = $4, graded_date = CURRENT_TIMESTAMP,
			graded_by = $5, teacher_feedback = $6, updated_at = CURRENT_TIMESTAMP
		WHERE id = $7
	`

	cmdTag, err := r.db.Exec(ctx, query,
		assignment.PointsEarned, assignment.CustomMaxPoints,
		assignment.PercentageGrade, assignment.LetterGrade,
		assignment.GradedBy, assignment.TeacherFeedback, assignment.ID)
	if err != nil {
		return fmt.Errorf("error grading assignment: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrAssignmentNotFound
	}
	return nil
}

// UpdateStatus sets the lifecycle status, stamping started/submitted
// dates on the matching transitions.
func (r *AssignmentRepository) UpdateStatus(ctx context.Context, id int64, status models.AssignmentStatus, day time.Time) error {
	query := `
		UPDATE student_assignments
		SET status = $1,
			started_date = CASE WHEN $1 = 'in_progress' AND started_date IS NULL THEN $2 ELSE started_date END,
			submitted_date = CASE WHEN $1 = 'submitted' AND submitted_date IS NULL THEN $2 ELSE submitted_date END,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = $3
	`

	cmdTag, err := r.db.Exec(ctx, query, status, day, id)
	if err != nil {
		return fmt.Errorf("error updating assignment status: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrAssignmentNotFound
	}
	return nil
}

// Delete removes a student assignment.
func (r *AssignmentRepository) Delete(ctx context.Context, id int64) error {
	cmdTag, err := r.db.Exec(ctx, `DELETE FROM student_assignments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting assignment: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrAssignmentNotFound
	}
	return nil
}

// CountByStatus returns assignment counts per status, optionally for
// one student.
func (r *AssignmentRepository) CountByStatus(ctx context.Context, studentID *int64) (map[string]int, error) {
	query := `SELECT status, COUNT(*) FROM student_assignments`
	args := []interface{}{}
	if studentID != nil {
		query += ` WHERE student_id = $1`
		args = append(args, *studentID)
	}
	query += ` GROUP BY status`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		counts[status] = count
	}
	return counts, rows.Err()
}

// CountOverdue returns assignments past their effective due date that
// are still open.
func (r *AssignmentRepository) CountOverdue(ctx context.Context, studentID *int64, today time.Time) (int, error) {
	query := `
		SELECT COUNT(*) FROM student_assignments
		WHERE status IN ('not_started', 'in_progress', 'overdue')
			AND COALESCE(extended_due_date, due_date) < $1`
	args := []interface{}{today}
	if studentID != nil {
		query += ` AND student_id = $2`
		args = append(args, *studentID)
	}

	var count int
	if err := r.db.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("error counting overdue assignments: %w", err)
	}
	return count, nil
}

// GetSubmitted retrieves the grading queue: submitted work oldest
// first.
func (r *AssignmentRepository) GetSubmitted(ctx context.Context) ([]*models.StudentAssignment, error) {
	query := enrichedAssignmentQuery + `
		WHERE a.status = 'submitted'
		ORDER BY a.submitted_date, a.id`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectEnrichedAssignments(rows)
}

// GetRecentlyGraded retrieves the most recently graded assignments.
func (r *AssignmentRepository) GetRecentlyGraded(ctx context.Context, limit int) ([]*models.StudentAssignment, error) {
	query := enrichedAssignmentQuery + `
		WHERE a.status = 'graded'
		ORDER BY a.graded_date DESC
		LIMIT $1`

	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectEnrichedAssignments(rows)
}

// SubjectTermTotal aggregates graded points for one student and
// subject within a term's date range.
type SubjectTermTotal struct {
	StudentID       int64
	SubjectID       int64
	PointsEarned    float64
	PointsPossible  float64
	AssignmentCount int
}

// SumGradedByTerm aggregates graded work per student and subject for
// assignments linked to the term.
func (r *AssignmentRepository) SumGradedByTerm(ctx context.Context, termID int64) ([]SubjectTermTotal, error) {
	query := `
		SELECT a.student_id, t.subject_id,
			COALESCE(SUM(a.points_earned), 0),
			COALESCE(SUM(COALESCE(a.custom_max_points, t.max_points)), 0),
			COUNT(*)
		FROM student_assignments a
		JOIN assignment_templates t ON t.id = a.template_id
		WHERE a.term_id = $1 AND a.status = 'graded'
		GROUP BY a.student_id, t.subject_id
	`

	rows, err := r.db.Query(ctx, query, termID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var totals []SubjectTermTotal
	for rows.Next() {
		var t SubjectTermTotal
		if err := rows.Scan(&t.StudentID, &t.SubjectID, &t.PointsEarned,
			&t.PointsPossible, &t.AssignmentCount); err != nil {
			return nil, err
		}
		totals = append(totals, t)
	}
	return totals, rows.Err()
}

// LinkOpenToTerm attaches term-less assignments whose due date falls in
// the range to the term. Returns the number of rows linked.
func (r *AssignmentRepository) LinkOpenToTerm(ctx context.Context, termID int64, start, end time.Time) (int64, error) {
	query := `
		UPDATE student_assignments
		SET term_id = $1, updated_at = CURRENT_TIMESTAMP
		WHERE term_id IS NULL AND due_date BETWEEN $2 AND $3
	`

	cmdTag, err := r.db.Exec(ctx, query, termID, start, end)
	if err != nil {
		return 0, fmt.Errorf("error linking assignments to term: %w", err)
	}
	return cmdTag.RowsAffected(), nil
}

// ExcuseUngradedByTemplate marks every non-graded assignment issued
// from the template as excused. Returns the number of rows excused.
func (r *AssignmentRepository) ExcuseUngradedByTemplate(ctx context.Context, templateID int64) (int64, error) {
	query := `
		UPDATE student_assignments
		SET status = $1, updated_at = CURRENT_TIMESTAMP
		WHERE template_id = $2 AND status != $3
	`

	cmdTag, err := r.db.Exec(ctx, query, models.StatusExcused, templateID, models.StatusGraded)
	if err != nil {
		return 0, fmt.Errorf("error excusing assignments: %w", err)
	}
	return cmdTag.RowsAffected(), nil
}

// GradeSummaryForStudent aggregates a student's graded assignments.
func (r *AssignmentRepository) GradeSummaryForStudent(ctx context.Context, studentID int64) (count int, avgPercentage *float64, err error) {
	query := `
		SELECT COUNT(*), AVG(percentage_grade)
		FROM student_assignments
		WHERE student_id = $1 AND status = 'graded'
	`

	if err := r.db.QueryRow(ctx, query, studentID).Scan(&count, &avgPercentage); err != nil {
		return 0, nil, fmt.Errorf("error summarizing grades: %w", err)
	}
	return count, avgPercentage, nil
}
