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

const attendanceColumns = `a.id, a.student_id, a.attendance_date, a.status, a.notes,
		a.created_by, a.created_at, a.updated_at, u.first_name || ' ' || u.last_name`

// AttendanceRepository handles database operations for attendance
// records.
type AttendanceRepository struct {
	db *pgxpool.Pool
}

// NewAttendanceRepository creates a new attendance repository
func NewAttendanceRepository(db *pgxpool.Pool) *AttendanceRepository {
	return &AttendanceRepository{
		db: db,
	}
}

func scanAttendance(row pgx.Row) (*models.AttendanceRecord, error) {
	var a models.AttendanceRecord
	err := row.Scan(
		&a.ID, &a.StudentID, &a.Date, &a.Status, &a.Notes,
		&a.CreatedBy, &a.CreatedAt, &a.UpdatedAt, &a.StudentName)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// Create inserts an attendance record. A second record for the same
// student and day is rejected.
func (r *AttendanceRepository) Create(ctx context.Context, record *models.AttendanceRecord) error {
	query := `
		INSERT INTO attendance_records (student_id, attendance_date, status, notes, created_by)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`

	err := r.db.QueryRow(ctx, query,
		record.StudentID, record.Date, record.Status, record.Notes, record.CreatedBy,
	).Scan(&record.ID, &record.CreatedAt, &record.UpdatedAt)
	if err != nil {
		if dberrors.IsUniqueViolation(err) {
			return apperrors.ErrDuplicateAttendance
		}
		if dberrors.IsForeignKeyViolation(err) {
			return apperrors.ErrStudentNotFound
		}
		return fmt.Errorf("error creating attendance record: %w", err)
	}
	return nil
}

// Upsert writes a record for (student, date), replacing the status and
// notes if the day was already recorded. Reports whether a new row was
// created.
func (r *AttendanceRepository) Upsert(ctx context.Context, record *models.AttendanceRecord) (created bool, err error) {
	query := `
		INSERT INTO attendance_records (student_id, attendance_date, status, notes, created_by)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (student_id, attendance_date)
		DO UPDATE SET status = EXCLUDED.status, notes = EXCLUDED.notes,
			updated_at = CURRENT_TIMESTAMP
		RETURNING id, created_at, updated_at, (created_at = updated_at)
	`

	err = r.db.QueryRow(ctx, query,
		record.StudentID, record.Date, record.Status, record.Notes, record.CreatedBy,
	).Scan(&record.ID, &record.CreatedAt, &record.UpdatedAt, &created)
	if err != nil {
		if dberrors.IsForeignKeyViolation(err) {
			return false, apperrors.ErrStudentNotFound
		}
		return false, fmt.Errorf("error upserting attendance record: %w", err)
	}
	return created, nil
}

// GetByID retrieves an attendance record.
func (r *AttendanceRepository) GetByID(ctx context.Context, id int64) (*models.AttendanceRecord, error) {
	query := `SELECT ` + attendanceColumns + `
		FROM attendance_records a
		JOIN users u ON u.id = a.student_id
		WHERE a.id = $1`

	record, err := scanAttendance(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrAttendanceNotFound
		}
		return nil, fmt.Errorf("error retrieving attendance record: %w", err)
	}
	return record, nil
}

// GetAll retrieves attendance records matching the filter, newest day
// first.
func (r *AttendanceRepository) GetAll(ctx context.Context, filter dto.AttendanceFilter) ([]*models.AttendanceRecord, error) {
	query := `SELECT ` + attendanceColumns + `
		FROM attendance_records a
		JOIN users u ON u.id = a.student_id
		WHERE 1=1`
	args := []interface{}{}
	argPos := 1

	if filter.StudentID != nil {
		query += fmt.Sprintf(" AND a.student_id = $%d", argPos)
		args = append(args, *filter.StudentID)
		argPos++
	}
	if filter.Status != nil {
		query += fmt.Sprintf(" AND a.status = $%d", argPos)
		args = append(args, *filter.Status)
		argPos++
	}
	if filter.FromDate != nil {
		query += fmt.Sprintf(" AND a.attendance_date >= $%d", argPos)
		args = append(args, *filter.FromDate)
		argPos++
	}
	if filter.ToDate != nil {
		query += fmt.Sprintf(" AND a.attendance_date <= $%d", argPos)
		args = append(args, *filter.ToDate)
		argPos++
	}
	query += " ORDER BY a.attendance_date DESC, a.student_id"

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []*models.AttendanceRecord
	for rows.Next() {
		record, err := scanAttendance(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, rows.Err()
}

// Update persists status and notes of a record.
func (r *AttendanceRepository) Update(ctx context.Context, record *models.AttendanceRecord) error {
	query := `
		UPDATE attendance_records
		SET status = $1, notes = $2, updated_at = CURRENT_TIMESTAMP
		WHERE id = $3
	`

	cmdTag, err := r.db.Exec(ctx, query, record.Status, record.Notes, record.ID)
	if err != nil {
		return fmt.Errorf("error updating attendance record: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrAttendanceNotFound
	}
	return nil
}

// Delete removes an attendance record.
func (r *AttendanceRepository) Delete(ctx context.Context, id int64) error {
	cmdTag, err := r.db.Exec(ctx, `DELETE FROM attendance_records WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting attendance record: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrAttendanceNotFound
	}
	return nil
}

// CountByStatus returns per-status day counts for a student within a
// date range.
func (r *AttendanceRepository) CountByStatus(ctx context.Context, studentID int64, from, to time.Time) (map[models.AttendanceStatus]int, error) {
	query := `
		SELECT status, COUNT(*)
		FROM attendance_records
		WHERE student_id = $1 AND attendance_date BETWEEN $2 AND $3
		GROUP BY status
	`

	rows, err := r.db.Query(ctx, query, studentID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[models.AttendanceStatus]int)
	for rows.Next() {
		var status models.AttendanceStatus
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		counts[status] = count
	}
	return counts, rows.Err()
}

// FirstAbsence returns the earliest absent day in the range, or nil.
func (r *AttendanceRepository) FirstAbsence(ctx context.Context, studentID int64, from, to time.Time) (*time.Time, error) {
	var date time.Time
	err := r.db.QueryRow(ctx,
		`SELECT attendance_date FROM attendance_records
			WHERE student_id = $1 AND status = 'absent'
				AND attendance_date BETWEEN $2 AND $3
			ORDER BY attendance_date LIMIT 1`,
		studentID, from, to).Scan(&date)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("error finding first absence: %w", err)
	}
	return &date, nil
}

// GetRecent retrieves the latest records for a student.
func (r *AttendanceRepository) GetRecent(ctx context.Context, studentID int64, limit int) ([]*models.AttendanceRecord, error) {
	query := `SELECT ` + attendanceColumns + `
		FROM attendance_records a
		JOIN users u ON u.id = a.student_id
		WHERE a.student_id = $1
		ORDER BY a.attendance_date DESC
		LIMIT $2`

	rows, err := r.db.Query(ctx, query, studentID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []*models.AttendanceRecord
	for rows.Next() {
		record, err := scanAttendance(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, rows.Err()
}
