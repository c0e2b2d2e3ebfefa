package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ourschool/ourschool/internal/app/models"
	"github.com/ourschool/ourschool/internal/pkg/apperrors"
	"github.com/ourschool/ourschool/internal/pkg/dberrors"
)

const termColumns = `id, name, term_type, academic_year, term_order, start_date, end_date,
		is_active, created_at, updated_at`

// TermRepository handles database operations for terms and term
// grades.
type TermRepository struct {
	db *pgxpool.Pool
}

// NewTermRepository creates a new term repository
func NewTermRepository(db *pgxpool.Pool) *TermRepository {
	return &TermRepository{
		db: db,
	}
}

func scanTerm(row pgx.Row) (*models.Term, error) {
	var t models.Term
	err := row.Scan(
		&t.ID, &t.Name, &t.TermType, &t.AcademicYear, &t.TermOrder,
		&t.StartDate, &t.EndDate, &t.IsActive, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// Create inserts a term.
func (r *TermRepository) Create(ctx context.Context, term *models.Term) error {
	query := `
		INSERT INTO terms (name, term_type, academic_year, term_order, start_date, end_date)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, is_active, created_at, updated_at
	`

	err := r.db.QueryRow(ctx, query,
		term.Name, term.TermType, term.AcademicYear, term.TermOrder,
		term.StartDate, term.EndDate,
	).Scan(&term.ID, &term.IsActive, &term.CreatedAt, &term.UpdatedAt)
	if err != nil {
		if dberrors.IsUniqueViolation(err) {
			return apperrors.ErrTermOverlap
		}
		return fmt.Errorf("error creating term: %w", err)
	}
	return nil
}

// GetByID retrieves a term by ID.
func (r *TermRepository) GetByID(ctx context.Context, id int64) (*models.Term, error) {
	query := `SELECT ` + termColumns + ` FROM terms WHERE id = $1`

	term, err := scanTerm(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrTermNotFound
		}
		return nil, fmt.Errorf("error retrieving term: %w", err)
	}
	return term, nil
}

// GetActive retrieves the single active term, if any.
func (r *TermRepository) GetActive(ctx context.Context) (*models.Term, error) {
	query := `SELECT ` + termColumns + ` FROM terms WHERE is_active = TRUE LIMIT 1`

	term, err := scanTerm(r.db.QueryRow(ctx, query))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNoActiveTerm
		}
		return nil, fmt.Errorf("error retrieving active term: %w", err)
	}
	return term, nil
}

// GetAll retrieves every term, newest school year first.
func (r *TermRepository) GetAll(ctx context.Context) ([]*models.Term, error) {
	query := `SELECT ` + termColumns + ` FROM terms
		ORDER BY academic_year DESC, term_order`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var terms []*models.Term
	for rows.Next() {
		term, err := scanTerm(rows)
		if err != nil {
			return nil, err
		}
		terms = append(terms, term)
	}
	return terms, rows.Err()
}

// ListAcademicYears returns the distinct academic years that have terms,
// newest first.
func (r *TermRepository) ListAcademicYears(ctx context.Context) ([]string, error) {
	rows, err := r.db.Query(ctx, `SELECT DISTINCT academic_year FROM terms ORDER BY academic_year DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var years []string
	for rows.Next() {
		var year string
		if err := rows.Scan(&year); err != nil {
			return nil, err
		}
		years = append(years, year)
	}
	return years, rows.Err()
}

// Update persists term changes.
func (r *TermRepository) Update(ctx context.Context, term *models.Term) error {
	query := `
		UPDATE terms
		SET name = $1, term_type = $2, academic_year = $3, term_order = $4,
			start_date = $5, end_date = $6, updated_at = CURRENT_TIMESTAMP
		WHERE id = $7
	`

	cmdTag, err := r.db.Exec(ctx, query,
		term.Name, term.TermType, term.AcademicYear, term.TermOrder,
		term.StartDate, term.EndDate, term.ID)
	if err != nil {
		if dberrors.IsUniqueViolation(err) {
			return apperrors.ErrTermOverlap
		}
		return fmt.Errorf("error updating term: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrTermNotFound
	}
	return nil
}

// Delete removes a term that has no linked subjects, assignments or
// grades.
func (r *TermRepository) Delete(ctx context.Context, id int64) error {
	var linked bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM term_subjects WHERE term_id = $1)
			OR EXISTS(SELECT 1 FROM student_assignments WHERE term_id = $1)
			OR EXISTS(SELECT 1 FROM student_term_grades WHERE term_id = $1)`,
		id).Scan(&linked)
	if err != nil {
		return fmt.Errorf("error checking term relations: %w", err)
	}
	if linked {
		return apperrors.ErrTermHasRelations
	}

	cmdTag, err := r.db.Exec(ctx, `DELETE FROM terms WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting term: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrTermNotFound
	}
	return nil
}

// Activate marks one term active and deactivates every other term in
// the same transaction.
func (r *TermRepository) Activate(ctx context.Context, id int64) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx,
		`UPDATE terms SET is_active = FALSE, updated_at = CURRENT_TIMESTAMP WHERE is_active = TRUE`); err != nil {
		return fmt.Errorf("error deactivating terms: %w", err)
	}

	cmdTag, err := tx.Exec(ctx,
		`UPDATE terms SET is_active = TRUE, updated_at = CURRENT_TIMESTAMP WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error activating term: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrTermNotFound
	}

	return tx.Commit(ctx)
}

// AddSubject links a subject into the term's grading scope.
func (r *TermRepository) AddSubject(ctx context.Context, termID, subjectID int64) error {
	query := `
		INSERT INTO term_subjects (term_id, subject_id)
		VALUES ($1, $2)
		ON CONFLICT (term_id, subject_id) DO NOTHING
	`

	_, err := r.db.Exec(ctx, query, termID, subjectID)
	if err != nil {
		if dberrors.IsForeignKeyViolation(err) {
			return apperrors.ErrResourceNotFound
		}
		return fmt.Errorf("error adding subject to term: %w", err)
	}
	return nil
}

// RemoveSubject unlinks a subject from the term.
func (r *TermRepository) RemoveSubject(ctx context.Context, termID, subjectID int64) error {
	cmdTag, err := r.db.Exec(ctx,
		`DELETE FROM term_subjects WHERE term_id = $1 AND subject_id = $2`,
		termID, subjectID)
	if err != nil {
		return fmt.Errorf("error removing subject from term: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrResourceNotFound
	}
	return nil
}

// GetSubjects retrieves the subjects linked to a term.
func (r *TermRepository) GetSubjects(ctx context.Context, termID int64) ([]*models.TermSubject, error) {
	query := `
		SELECT ts.id, ts.term_id, ts.subject_id, ts.created_at, s.name
		FROM term_subjects ts
		JOIN subjects s ON s.id = ts.subject_id
		WHERE ts.term_id = $1
		ORDER BY s.name
	`

	rows, err := r.db.Query(ctx, query, termID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var subjects []*models.TermSubject
	for rows.Next() {
		var ts models.TermSubject
		if err := rows.Scan(&ts.ID, &ts.TermID, &ts.SubjectID, &ts.CreatedAt, &ts.SubjectName); err != nil {
			return nil, err
		}
		subjects = append(subjects, &ts)
	}
	return subjects, rows.Err()
}

// UpsertTermGrade writes the aggregated grade for one student/subject
// pair and returns the previous values for history.
func (r *TermRepository) UpsertTermGrade(ctx context.Context, grade *models.StudentTermGrade) (oldPercentage *float64, oldLetter *string, err error) {
	err = r.db.QueryRow(ctx,
		`SELECT percentage_grade, letter_grade FROM student_term_grades
			WHERE student_id = $1 AND subject_id = $2 AND term_id = $3`,
		grade.StudentID, grade.SubjectID, grade.TermID,
	).Scan(&oldPercentage, &oldLetter)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, nil, fmt.Errorf("error reading existing term grade: %w", err)
	}

	query := `
		INSERT INTO student_term_grades
			(student_id, subject_id, term_id, points_earned, points_possible,
			percentage_grade, letter_grade, assignment_count, last_calculated)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, CURRENT_TIMESTAMP)
		ON CONFLICT (student_id, subject_id, term_id)
		DO UPDATE SET points_earned = EXCLUDED.points_earned,
			points_possible = EXCLUDED.points_possible,
			percentage_grade = EXCLUDED.percentage_grade,
			letter_grade = EXCLUDED.letter_grade,
			assignment_count = EXCLUDED.assignment_count,
			last_calculated = CURRENT_TIMESTAMP
		RETURNING id, last_calculated
	`

	err = r.db.QueryRow(ctx, query,
		grade.StudentID, grade.SubjectID, grade.TermID,
		grade.PointsEarned, grade.PointsPossible,
		grade.PercentageGrade, grade.LetterGrade, grade.AssignmentCount,
	).Scan(&grade.ID, &grade.LastCalculated)
	if err != nil {
		return nil, nil, fmt.Errorf("error upserting term grade: %w", err)
	}
	return oldPercentage, oldLetter, nil
}

// GetTermGrades retrieves the calculated grades for a term with
// display names.
func (r *TermRepository) GetTermGrades(ctx context.Context, termID int64) ([]*models.StudentTermGrade, error) {
	query := `
		SELECT g.id, g.student_id, g.subject_id, g.term_id, g.points_earned,
			g.points_possible, g.percentage_grade, g.letter_grade,
			g.assignment_count, g.last_calculated,
			u.first_name || ' ' || u.last_name, s.name
		FROM student_term_grades g
		JOIN users u ON u.id = g.student_id
		JOIN subjects s ON s.id = g.subject_id
		WHERE g.term_id = $1
		ORDER BY u.first_name, u.last_name, s.name
	`

	rows, err := r.db.Query(ctx, query, termID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var grades []*models.StudentTermGrade
	for rows.Next() {
		var g models.StudentTermGrade
		if err := rows.Scan(&g.ID, &g.StudentID, &g.SubjectID, &g.TermID,
			&g.PointsEarned, &g.PointsPossible, &g.PercentageGrade, &g.LetterGrade,
			&g.AssignmentCount, &g.LastCalculated, &g.StudentName, &g.SubjectName); err != nil {
			return nil, err
		}
		grades = append(grades, &g)
	}
	return grades, rows.Err()
}

// RecordGradeChange appends a grade history row.
func (r *TermRepository) RecordGradeChange(ctx context.Context, h *models.GradeHistory) error {
	query := `
		INSERT INTO grade_history
			(student_id, subject_id, term_id, old_percentage, new_percentage, old_letter, new_letter)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, changed_at
	`

	err := r.db.QueryRow(ctx, query,
		h.StudentID, h.SubjectID, h.TermID,
		h.OldPercentage, h.NewPercentage, h.OldLetter, h.NewLetter,
	).Scan(&h.ID, &h.ChangedAt)
	if err != nil {
		return fmt.Errorf("error recording grade change: %w", err)
	}
	return nil
}

// GetGradeHistory retrieves grade changes for a student, newest first.
func (r *TermRepository) GetGradeHistory(ctx context.Context, studentID int64, limit int) ([]*models.GradeHistory, error) {
	query := `
		SELECT id, student_id, subject_id, term_id, old_percentage, new_percentage,
			old_letter, new_letter, changed_at
		FROM grade_history
		WHERE student_id = $1
		ORDER BY changed_at DESC
		LIMIT $2
	`

	rows, err := r.db.Query(ctx, query, studentID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var history []*models.GradeHistory
	for rows.Next() {
		var h models.GradeHistory
		if err := rows.Scan(&h.ID, &h.StudentID, &h.SubjectID, &h.TermID,
			&h.OldPercentage, &h.NewPercentage, &h.OldLetter, &h.NewLetter,
			&h.ChangedAt); err != nil {
			return nil, err
		}
		history = append(history, &h)
	}
	return history, rows.Err()
}
