package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ourschool/ourschool/internal/app/models"
	"github.com/ourschool/ourschool/internal/app/models/dto"
	"github.com/ourschool/ourschool/internal/pkg/apperrors"
	"github.com/ourschool/ourschool/internal/pkg/dberrors"
)

const templateColumns = `t.id, t.title, t.description, t.subject_id, t.assignment_type,
		t.max_points, t.estimated_minutes, t.instructions, t.is_archived, t.created_by,
		t.created_at, t.updated_at, s.name, s.color`

// TemplateRepository handles database operations for assignment
// templates.
type TemplateRepository struct {
	db *pgxpool.Pool
}

// NewTemplateRepository creates a new template repository
func NewTemplateRepository(db *pgxpool.Pool) *TemplateRepository {
	return &TemplateRepository{
		db: db,
	}
}

func scanTemplate(row pgx.Row) (*models.AssignmentTemplate, error) {
	var t models.AssignmentTemplate
	err := row.Scan(
		&t.ID, &t.Title, &t.Description, &t.SubjectID, &t.AssignmentType,
		&t.MaxPoints, &t.EstimatedMinutes, &t.Instructions, &t.IsArchived,
		&t.CreatedBy, &t.CreatedAt, &t.UpdatedAt, &t.SubjectName, &t.SubjectColor)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// Create inserts a template.
func (r *TemplateRepository) Create(ctx context.Context, template *models.AssignmentTemplate) error {
	query := `
		INSERT INTO assignment_templates
			(title, description, subject_id, assignment_type, max_points,
			estimated_minutes, instructions, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at
	`

	err := r.db.QueryRow(ctx, query,
		template.Title, template.Description, template.SubjectID,
		template.AssignmentType, template.MaxPoints, template.EstimatedMinutes,
		template.Instructions, template.CreatedBy,
	).Scan(&template.ID, &template.CreatedAt, &template.UpdatedAt)
	if err != nil {
		if dberrors.IsForeignKeyViolation(err) {
			return apperrors.ErrSubjectNotFound
		}
		return fmt.Errorf("error creating template: %w", err)
	}
	return nil
}

// GetByID retrieves a template with its subject name and color.
func (r *TemplateRepository) GetByID(ctx context.Context, id int64) (*models.AssignmentTemplate, error) {
	query := `SELECT ` + templateColumns + `
		FROM assignment_templates t
		JOIN subjects s ON s.id = t.subject_id
		WHERE t.id = $1`

	template, err := scanTemplate(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrTemplateNotFound
		}
		return nil, fmt.Errorf("error retrieving template: %w", err)
	}
	return template, nil
}

// GetAll retrieves templates matching the filter. Archived templates
// are excluded unless the filter asks for them.
func (r *TemplateRepository) GetAll(ctx context.Context, filter dto.TemplateFilter) ([]*models.AssignmentTemplate, error) {
	query := `SELECT ` + templateColumns + `
		FROM assignment_templates t
		JOIN subjects s ON s.id = t.subject_id
		WHERE 1=1`
	args := []interface{}{}
	argPos := 1

	if filter.Archived != nil {
		query += fmt.Sprintf(" AND t.is_archived = $%d", argPos)
		args = append(args, *filter.Archived)
		argPos++
	} else {
		query += " AND t.is_archived = FALSE"
	}
	if filter.SubjectID != nil {
		query += fmt.Sprintf(" AND t.subject_id = $%d", argPos)
		args = append(args, *filter.SubjectID)
		argPos++
	}
	if filter.Type != nil {
		query += fmt.Sprintf(" AND t.assignment_type = $%d", argPos)
		args = append(args, *filter.Type)
		argPos++
	}
	if filter.Search != "" {
		query += fmt.Sprintf(" AND (t.title ILIKE $%d OR t.description ILIKE $%d)", argPos, argPos)
		args = append(args, "%"+filter.Search+"%")
		argPos++
	}
	query += " ORDER BY t.created_at DESC"

	rows, err := r.db.Query(ctx, query, args...)
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

// Update persists template changes.
func (r *TemplateRepository) Update(ctx context.Context, template *models.AssignmentTemplate) error {
	query := `
		UPDATE assignment_templates
		SET title = $1, description = $2, subject_id = $3, assignment_type = $4,
			max_points = $5, estimated_minutes = $6, instructions = $7,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = $8
	`

	cmdTag, err := r.db.Exec(ctx, query,
		template.Title, template.Description, template.SubjectID,
		template.AssignmentType, template.MaxPoints, template.EstimatedMinutes,
		template.Instructions, template.ID)
	if err != nil {
		if dberrors.IsForeignKeyViolation(err) {
			return apperrors.ErrSubjectNotFound
		}
		return fmt.Errorf("error updating template: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrTemplateNotFound
	}
	return nil
}

// SetArchived archives or restores a template.
func (r *TemplateRepository) SetArchived(ctx context.Context, id int64, archived bool) error {
	cmdTag, err := r.db.Exec(ctx,
		`UPDATE assignment_templates SET is_archived = $1, updated_at = CURRENT_TIMESTAMP WHERE id = $2`,
		archived, id)
	if err != nil {
		return fmt.Errorf("error archiving template: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrTemplateNotFound
	}
	return nil
}

// Delete removes a template; student assignments cascade with it.
func (r *TemplateRepository) Delete(ctx context.Context, id int64) error {
	cmdTag, err := r.db.Exec(ctx, `DELETE FROM assignment_templates WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting template: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrTemplateNotFound
	}
	return nil
}

// CountAssignments returns how many student assignments reference a
// template.
func (r *TemplateRepository) CountAssignments(ctx context.Context, id int64) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM student_assignments WHERE template_id = $1`, id).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("error counting template assignments: %w", err)
	}
	return count, nil
}

// ExistsByTitleAndSubject reports whether a non-archived template with
// the given title already exists under a subject. Imports use it to
// skip duplicates.
func (r *TemplateRepository) ExistsByTitleAndSubject(ctx context.Context, title string, subjectID int64) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM assignment_templates
			WHERE title = $1 AND subject_id = $2 AND is_archived = FALSE)`,
		title, subjectID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("error checking template existence: %w", err)
	}
	return exists, nil
}
