package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ourschool/ourschool/internal/app/models"
	"github.com/ourschool/ourschool/internal/pkg/apperrors"
	"github.com/ourschool/ourschool/internal/pkg/dberrors"
)

const journalColumns = `j.id, j.student_id, j.author_id, j.title, j.content, j.entry_date,
		j.created_at, j.updated_at,
		su.first_name || ' ' || su.last_name,
		au.first_name || ' ' || au.last_name`

// JournalRepository handles database operations for journal entries.
type JournalRepository struct {
	db *pgxpool.Pool
}

// NewJournalRepository creates a new journal repository
func NewJournalRepository(db *pgxpool.Pool) *JournalRepository {
	return &JournalRepository{
		db: db,
	}
}

func scanJournalEntry(row pgx.Row) (*models.JournalEntry, error) {
	var j models.JournalEntry
	err := row.Scan(
		&j.ID, &j.StudentID, &j.AuthorID, &j.Title, &j.Content, &j.EntryDate,
		&j.CreatedAt, &j.UpdatedAt, &j.StudentName, &j.AuthorName)
	if err != nil {
		return nil, err
	}
	return &j, nil
}

// Create inserts a journal entry.
func (r *JournalRepository) Create(ctx context.Context, entry *models.JournalEntry) error {
	query := `
		INSERT INTO journal_entries (student_id, author_id, title, content, entry_date)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`

	err := r.db.QueryRow(ctx, query,
		entry.StudentID, entry.AuthorID, entry.Title, entry.Content, entry.EntryDate,
	).Scan(&entry.ID, &entry.CreatedAt, &entry.UpdatedAt)
	if err != nil {
		if dberrors.IsForeignKeyViolation(err) {
			return apperrors.ErrStudentNotFound
		}
		return fmt.Errorf("error creating journal entry: %w", err)
	}
	return nil
}

// GetByID retrieves a journal entry with display names.
func (r *JournalRepository) GetByID(ctx context.Context, id int64) (*models.JournalEntry, error) {
	query := `SELECT ` + journalColumns + `
		FROM journal_entries j
		JOIN users su ON su.id = j.student_id
		JOIN users au ON au.id = j.author_id
		WHERE j.id = $1`

	entry, err := scanJournalEntry(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrJournalNotFound
		}
		return nil, fmt.Errorf("error retrieving journal entry: %w", err)
	}
	return entry, nil
}

// GetByStudent retrieves a student's entries in a date range, newest
// first. Nil range bounds are open.
func (r *JournalRepository) GetByStudent(ctx context.Context, studentID int64, from, to *time.Time) ([]*models.JournalEntry, error) {
	query := `SELECT ` + journalColumns + `
		FROM journal_entries j
		JOIN users su ON su.id = j.student_id
		JOIN users au ON au.id = j.author_id
		WHERE j.student_id = $1`
	args := []interface{}{studentID}
	argPos := 2

	if from != nil {
		query += fmt.Sprintf(" AND j.entry_date >= $%d", argPos)
		args = append(args, *from)
		argPos++
	}
	if to != nil {
		query += fmt.Sprintf(" AND j.entry_date <= $%d", argPos)
		args = append(args, *to)
		argPos++
	}
	query += " ORDER BY j.entry_date DESC, j.id DESC"

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*models.JournalEntry
	for rows.Next() {
		entry, err := scanJournalEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// Update persists title, content and entry date.
func (r *JournalRepository) Update(ctx context.Context, entry *models.JournalEntry) error {
	query := `
		UPDATE journal_entries
		SET title = $1, content = $2, entry_date = $3, updated_at = CURRENT_TIMESTAMP
		WHERE id = $4
	`

	cmdTag, err := r.db.Exec(ctx, query,
		entry.Title, entry.Content, entry.EntryDate, entry.ID)
	if err != nil {
		return fmt.Errorf("error updating journal entry: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrJournalNotFound
	}
	return nil
}

// Delete removes a journal entry.
func (r *JournalRepository) Delete(ctx context.Context, id int64) error {
	cmdTag, err := r.db.Exec(ctx, `DELETE FROM journal_entries WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting journal entry: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrJournalNotFound
	}
	return nil
}

// GetRecent retrieves the latest entries for a student.
func (r *JournalRepository) GetRecent(ctx context.Context, studentID int64, limit int) ([]*models.JournalEntry, error) {
	query := `SELECT ` + journalColumns + `
		FROM journal_entries j
		JOIN users su ON su.id = j.student_id
		JOIN users au ON au.id = j.author_id
		WHERE j.student_id = $1
		ORDER BY j.entry_date DESC, j.id DESC
		LIMIT $2`

	rows, err := r.db.Query(ctx, query, studentID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*models.JournalEntry
	for rows.Next() {
		entry, err := scanJournalEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}
