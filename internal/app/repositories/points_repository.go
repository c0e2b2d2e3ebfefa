package repositories

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ourschool/ourschool/internal/app/models"
	"github.com/ourschool/ourschool/internal/pkg/apperrors"
	"github.com/ourschool/ourschool/internal/pkg/dberrors"
)

// PointsRepository handles database operations for the points ledger.
type PointsRepository struct {
	db *pgxpool.Pool
}

// NewPointsRepository creates a new points repository
func NewPointsRepository(db *pgxpool.Pool) *PointsRepository {
	return &PointsRepository{
		db: db,
	}
}

// GetOrCreate retrieves a student's balance row, creating it on first
// use.
func (r *PointsRepository) GetOrCreate(ctx context.Context, studentID int64) (*models.StudentPoints, error) {
	query := `
		INSERT INTO student_points (student_id)
		VALUES ($1)
		ON CONFLICT (student_id) DO UPDATE SET student_id = EXCLUDED.student_id
		RETURNING id, student_id, balance, total_earned, total_spent, updated_at
	`

	var p models.StudentPoints
	err := r.db.QueryRow(ctx, query, studentID).Scan(
		&p.ID, &p.StudentID, &p.Balance, &p.TotalEarned, &p.TotalSpent, &p.UpdatedAt)
	if err != nil {
		if dberrors.IsForeignKeyViolation(err) {
			return nil, apperrors.ErrStudentNotFound
		}
		return nil, fmt.Errorf("error loading student points: %w", err)
	}
	return &p, nil
}

// ApplyTransaction records a ledger entry and adjusts the balance in
// one transaction. Negative amounts that would overdraw the balance
// are rejected.
func (r *PointsRepository) ApplyTransaction(ctx context.Context, txn *models.PointTransaction) (*models.StudentPoints, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx,
		`INSERT INTO student_points (student_id) VALUES ($1)
			ON CONFLICT (student_id) DO NOTHING`,
		txn.StudentID); err != nil {
		if dberrors.IsForeignKeyViolation(err) {
			return nil, apperrors.ErrStudentNotFound
		}
		return nil, fmt.Errorf("error ensuring points row: %w", err)
	}

	var balance int
	if err := tx.QueryRow(ctx,
		`SELECT balance FROM student_points WHERE student_id = $1 FOR UPDATE`,
		txn.StudentID).Scan(&balance); err != nil {
		return nil, fmt.Errorf("error locking points row: %w", err)
	}
	if balance+txn.Amount < 0 {
		return nil, apperrors.ErrInsufficientPoints
	}

	err = tx.QueryRow(ctx,
		`INSERT INTO point_transactions (student_id, amount, transaction_type, reason, assignment_id, created_by)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING id, created_at`,
		txn.StudentID, txn.Amount, txn.Type, txn.Reason, txn.AssignmentID, txn.CreatedBy,
	).Scan(&txn.ID, &txn.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("error recording point transaction: %w", err)
	}

	var p models.StudentPoints
	err = tx.QueryRow(ctx,
		`UPDATE student_points
			SET balance = balance + $1,
				total_earned = total_earned + GREATEST($1, 0),
				total_spent = total_spent + GREATEST(-$1, 0),
				updated_at = CURRENT_TIMESTAMP
			WHERE student_id = $2
			RETURNING id, student_id, balance, total_earned, total_spent, updated_at`,
		txn.Amount, txn.StudentID,
	).Scan(&p.ID, &p.StudentID, &p.Balance, &p.TotalEarned, &p.TotalSpent, &p.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("error adjusting points balance: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return &p, nil
}

// GetTransactions retrieves a student's ledger, newest first.
func (r *PointsRepository) GetTransactions(ctx context.Context, studentID int64, limit int) ([]*models.PointTransaction, error) {
	query := `
		SELECT id, student_id, amount, transaction_type, reason, assignment_id, created_by, created_at
		FROM point_transactions
		WHERE student_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2
	`

	rows, err := r.db.Query(ctx, query, studentID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var txns []*models.PointTransaction
	for rows.Next() {
		var t models.PointTransaction
		if err := rows.Scan(&t.ID, &t.StudentID, &t.Amount, &t.Type, &t.Reason,
			&t.AssignmentID, &t.CreatedBy, &t.CreatedAt); err != nil {
			return nil, err
		}
		txns = append(txns, &t)
	}
	return txns, rows.Err()
}

// GetAllBalances retrieves every student's balance with display names.
func (r *PointsRepository) GetAllBalances(ctx context.Context) ([]*models.StudentPoints, error) {
	query := `
		SELECT p.id, p.student_id, p.balance, p.total_earned, p.total_spent, p.updated_at,
			u.first_name || ' ' || u.last_name
		FROM student_points p
		JOIN users u ON u.id = p.student_id
		ORDER BY p.balance DESC
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var balances []*models.StudentPoints
	for rows.Next() {
		var p models.StudentPoints
		if err := rows.Scan(&p.ID, &p.StudentID, &p.Balance, &p.TotalEarned,
			&p.TotalSpent, &p.UpdatedAt, &p.StudentName); err != nil {
			return nil, err
		}
		balances = append(balances, &p)
	}
	return balances, rows.Err()
}

// HasAwardForAssignment reports whether an award transaction already
// references the assignment, so regrading does not double-award.
func (r *PointsRepository) HasAwardForAssignment(ctx context.Context, assignmentID int64) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM point_transactions
			WHERE assignment_id = $1 AND transaction_type = 'assignment')`,
		assignmentID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("error checking assignment award: %w", err)
	}
	return exists, nil
}
