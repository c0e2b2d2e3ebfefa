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

// SubjectRepository handles database operations for subjects, lessons
// and lesson/template links.
type SubjectRepository struct {
	db *pgxpool.Pool
}

// NewSubjectRepository creates a new subject repository
func NewSubjectRepository(db *pgxpool.Pool) *SubjectRepository {
	return &SubjectRepository{
		db: db,
	}
}

// Create inserts a subject.
func (r *SubjectRepository) Create(ctx context.Context, subject *models.Subject) error {
	query := `
		INSERT INTO subjects (name, description, color, is_active)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`

	err := r.db.QueryRow(ctx, query,
		subject.Name, subject.Description, subject.Color, subject.IsActive,
	).Scan(&subject.ID, &subject.CreatedAt)
	if err != nil {
		if dberrors.IsUniqueViolation(err) {
			return apperrors.ErrSubjectAlreadyExists
		}
		return fmt.Errorf("error creating subject: %w", err)
	}
	return nil
}

// GetByID retrieves a subject by ID.
func (r *SubjectRepository) GetByID(ctx context.Context, id int64) (*models.Subject, error) {
	query := `SELECT id, name, description, color, is_active, created_at
		FROM subjects WHERE id = $1`

	var s models.Subject
	err := r.db.QueryRow(ctx, query, id).Scan(
		&s.ID, &s.Name, &s.Description, &s.Color, &s.IsActive, &s.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrSubjectNotFound
		}
		return nil, fmt.Errorf("error retrieving subject: %w", err)
	}
	return &s, nil
}

// GetByName retrieves a subject by its unique name.
func (r *SubjectRepository) GetByName(ctx context.Context, name string) (*models.Subject, error) {
	query := `SELECT id, name, description, color, is_active, created_at
		FROM subjects WHERE name = $1`

	var s models.Subject
	err := r.db.QueryRow(ctx, query, name).Scan(
		&s.ID, &s.Name, &s.Description, &s.Color, &s.IsActive, &s.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrSubjectNotFound
		}
		return nil, fmt.Errorf("error retrieving subject by name: %w", err)
	}
	return &s, nil
}

// GetAll retrieves subjects, optionally including inactive ones.
func (r *SubjectRepository) GetAll(ctx context.Context, includeInactive bool) ([]*models.Subject, error) {
	query := `SELECT id, name, description, color, is_active, created_at FROM subjects`
	if !includeInactive {
		query += ` WHERE is_active = TRUE`
	}
	query += ` ORDER BY name`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var subjects []*models.Subject
	for rows.Next() {
		var s models.Subject
		if err := rows.Scan(&s.ID, &s.Name, &s.Description, &s.Color, &s.IsActive, &s.CreatedAt); err != nil {
			return nil, err
		}
		subjects = append(subjects, &s)
	}
	return subjects, rows.Err()
}

// Update persists subject changes.
func (r *SubjectRepository) Update(ctx context.Context, subject *models.Subject) error {
	query := `
		UPDATE subjects
		SET name = $1, description = $2, color = $3, is_active = $4
		WHERE id = $5
	`

	cmdTag, err := r.db.Exec(ctx, query,
		subject.Name, subject.Description, subject.Color, subject.IsActive, subject.ID)
	if err != nil {
		if dberrors.IsUniqueViolation(err) {
			return apperrors.ErrSubjectAlreadyExists
		}
		return fmt.Errorf("error updating subject: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrSubjectNotFound
	}
	return nil
}

// Delete removes a subject; lessons and templates cascade.
func (r *SubjectRepository) Delete(ctx context.Context, id int64) error {
	cmdTag, err := r.db.Exec(ctx, `DELETE FROM subjects WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting subject: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrSubjectNotFound
	}
	return nil
}

const lessonColumns = `l.id, l.subject_id, l.title, l.description, l.scheduled_date,
		l.duration_minutes, l.created_at, l.updated_at, s.name`

func scanLesson(row pgx.Row) (*models.Lesson, error) {
	var l models.Lesson
	err := row.Scan(
		&l.ID, &l.SubjectID, &l.Title, &l.Description, &l.ScheduledDate,
		&l.DurationMinutes, &l.CreatedAt, &l.UpdatedAt, &l.SubjectName)
	if err != nil {
		return nil, err
	}
	return &l, nil
}

// CreateLesson inserts a lesson.
func (r *SubjectRepository) CreateLesson(ctx context.Context, lesson *models.Lesson) error {
	query := `
		INSERT INTO lessons (subject_id, title, description, scheduled_date, duration_minutes)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`

	err := r.db.QueryRow(ctx, query,
		lesson.SubjectID, lesson.Title, lesson.Description,
		lesson.ScheduledDate, lesson.DurationMinutes,
	).Scan(&lesson.ID, &lesson.CreatedAt, &lesson.UpdatedAt)
	if err != nil {
		if dberrors.IsForeignKeyViolation(err) {
			return apperrors.ErrSubjectNotFound
		}
		return fmt.Errorf("error creating lesson: %w", err)
	}
	return nil
}

// GetLessonByID retrieves a lesson with its subject name.
func (r *SubjectRepository) GetLessonByID(ctx context.Context, id int64) (*models.Lesson, error) {
	query := `SELECT ` + lessonColumns + `
		FROM lessons l
		JOIN subjects s ON s.id = l.subject_id
		WHERE l.id = $1`

	lesson, err := scanLesson(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrLessonNotFound
		}
		return nil, fmt.Errorf("error retrieving lesson: %w", err)
	}
	return lesson, nil
}

// GetLessons retrieves lessons, optionally scoped to one subject.
func (r *SubjectRepository) GetLessons(ctx context.Context, subjectID *int64) ([]*models.Lesson, error) {
	query := `SELECT ` + lessonColumns + `
		FROM lessons l
		JOIN subjects s ON s.id = l.subject_id`
	args := []interface{}{}
	if subjectID != nil {
		query += ` WHERE l.subject_id = $1`
		args = append(args, *subjectID)
	}
	query += ` ORDER BY l.scheduled_date NULLS LAST, l.id`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var lessons []*models.Lesson
	for rows.Next() {
		lesson, err := scanLesson(rows)
		if err != nil {
			return nil, err
		}
		lessons = append(lessons, lesson)
	}
	return lessons, rows.Err()
}

// UpdateLesson persists lesson changes.
func (r *SubjectRepository) UpdateLesson(ctx context.Context, lesson *models.Lesson) error {
	query := `
		UPDATE lessons
		SET title = $1, description = $2, scheduled_date = $3, duration_minutes = $4,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = $5
	`

	cmdTag, err := r.db.Exec(ctx, query,
		lesson.Title, lesson.Description, lesson.ScheduledDate,
		lesson.DurationMinutes, lesson.ID)
	if err != nil {
		return fmt.Errorf("error updating lesson: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrLessonNotFound
	}
	return nil
}

// DeleteLesson removes a lesson and its template links.
func (r *SubjectRepository) DeleteLesson(ctx context.Context, id int64) error {
	cmdTag, err := r.db.Exec(ctx, `DELETE FROM lessons WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting lesson: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrLessonNotFound
	}
	return nil
}

// LinkTemplate attaches a template to a lesson at the given position.
// Re-linking an existing pair updates its position.
func (r *SubjectRepository) LinkTemplate(ctx context.Context, lessonID, templateID int64, orderIndex int) error {
	query := `
		INSERT INTO lesson_assignments (lesson_id, template_id, order_index)
		VALUES ($1, $2, $3)
		ON CONFLICT (lesson_id, template_id)
		DO UPDATE SET order_index = EXCLUDED.order_index
	`

	_, err := r.db.Exec(ctx, query, lessonID, templateID, orderIndex)
	if err != nil {
		if dberrors.IsForeignKeyViolation(err) {
			return apperrors.ErrResourceNotFound
		}
		return fmt.Errorf("error linking template to lesson: %w", err)
	}
	return nil
}

// UnlinkTemplate detaches a template from a lesson.
func (r *SubjectRepository) UnlinkTemplate(ctx context.Context, lessonID, templateID int64) error {
	cmdTag, err := r.db.Exec(ctx,
		`DELETE FROM lesson_assignments WHERE lesson_id = $1 AND template_id = $2`,
		lessonID, templateID)
	if err != nil {
		return fmt.Errorf("error unlinking template from lesson: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrResourceNotFound
	}
	return nil
}

// GetLessonTemplates retrieves the templates linked to a lesson in order.
func (r *SubjectRepository) GetLessonTemplates(ctx context.Context, lessonID int64) ([]*models.AssignmentTemplate, error) {
	query := `SELECT ` + templateColumns + `
		FROM lesson_assignments la
		JOIN assignment_templates t ON t.id = la.template_id
		JOIN subjects s ON s.id = t.subject_id
		WHERE la.lesson_id = $1
		ORDER BY la.order_index, la.id`

	rows, err := r.db.Query(ctx, query, lessonID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var templates []*models.AssignmentTemplate
	for rows.Next() {
		template, err := scanTemplate(rows)
		if err != nil {
			return nil, err
		}
		templates = append(templates, template)
	}
	return templates, rows.Err()
}
