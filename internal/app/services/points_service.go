package services

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/ourschool/ourschool/internal/app/models"
	"github.com/ourschool/ourschool/internal/app/models/dto"
	"github.com/ourschool/ourschool/internal/app/repositories"
	"github.com/ourschool/ourschool/internal/pkg/apperrors"
)

// PointsService handles the reward points ledger
type PointsService struct {
	pointsRepo   *repositories.PointsRepository
	userRepo     *repositories.UserRepository
	settingsRepo *repositories.SettingsRepository
	logger       zerolog.Logger
}

// NewPointsService creates a new PointsService
func NewPointsService(
	pointsRepo *repositories.PointsRepository,
	userRepo *repositories.UserRepository,
	settingsRepo *repositories.SettingsRepository,
	logger zerolog.Logger,
) *PointsService {
	return &PointsService{
		pointsRepo:   pointsRepo,
		userRepo:     userRepo,
		settingsRepo: settingsRepo,
		logger:       logger,
	}
}

// Enabled reports whether the points system is switched on.
func (s *PointsService) Enabled(ctx context.Context) (bool, error) {
	return s.settingsRepo.GetBool(ctx, models.SettingPointsEnabled, true)
}

// SetEnabled switches the points system on or off.
func (s *PointsService) SetEnabled(ctx context.Context, enabled bool) error {
	value := "false"
	if enabled {
		value = "true"
	}
	return s.settingsRepo.Upsert(ctx, &models.SystemSetting{
		Key:       models.SettingPointsEnabled,
		Value:     value,
		ValueType: "boolean",
	})
}

func (s *PointsService) requireEnabled(ctx context.Context) error {
	enabled, err := s.Enabled(ctx)
	if err != nil {
		return err
	}
	if !enabled {
		return apperrors.ErrPointsDisabled
	}
	return nil
}

// GetBalance retrieves one student's balance, creating the row on
// first use.
func (s *PointsService) GetBalance(ctx context.Context, studentID int64) (*models.StudentPoints, error) {
	if err := s.requireEnabled(ctx); err != nil {
		return nil, err
	}
	if _, err := s.userRepo.GetStudentByID(ctx, studentID); err != nil {
		return nil, err
	}
	return s.pointsRepo.GetOrCreate(ctx, studentID)
}

// Adjust awards or deducts points by admin action. A deduction that
// would overdraw the balance is rejected.
func (s *PointsService) Adjust(ctx context.Context, adminID int64, req *dto.AdjustPointsRequest) (*models.StudentPoints, error) {
	if err := s.requireEnabled(ctx); err != nil {
		return nil, err
	}
	if _, err := s.userRepo.GetStudentByID(ctx, req.StudentID); err != nil {
		return nil, err
	}

	txnType := models.PointsAdminAward
	if req.Amount < 0 {
		txnType = models.PointsAdminDeduction
	}
	balance, err := s.pointsRepo.ApplyTransaction(ctx, &models.PointTransaction{
		StudentID: req.StudentID,
		Amount:    req.Amount,
		Type:      txnType,
		Reason:    &req.Reason,
		CreatedBy: &adminID,
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().Int64("studentId", req.StudentID).Int("amount", req.Amount).
		Msg("Points adjusted")
	return balance, nil
}

// Spend deducts points on the student's own initiative.
func (s *PointsService) Spend(ctx context.Context, studentID, amount int64, reason string) (*models.StudentPoints, error) {
	if err := s.requireEnabled(ctx); err != nil {
		return nil, err
	}
	if amount <= 0 {
		return nil, apperrors.ErrValidationFailed
	}

	return s.pointsRepo.ApplyTransaction(ctx, &models.PointTransaction{
		StudentID: studentID,
		Amount:    int(-amount),
		Type:      models.PointsSpending,
		Reason:    &reason,
		CreatedBy: &studentID,
	})
}

// GetTransactions retrieves a student's ledger.
func (s *PointsService) GetTransactions(ctx context.Context, studentID int64, limit int) ([]*models.PointTransaction, error) {
	if err := s.requireEnabled(ctx); err != nil {
		return nil, err
	}
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	return s.pointsRepo.GetTransactions(ctx, studentID, limit)
}

// Overview builds the admin points dashboard.
func (s *PointsService) Overview(ctx context.Context) (*dto.PointsOverview, error) {
	if err := s.requireEnabled(ctx); err != nil {
		return nil, err
	}

	balances, err := s.pointsRepo.GetAllBalances(ctx)
	if err != nil {
		return nil, err
	}

	overview := &dto.PointsOverview{
		Balances:           make([]models.StudentPoints, 0, len(balances)),
		RecentTransactions: []models.PointTransaction{},
	}
	for _, balance := range balances {
		overview.Balances = append(overview.Balances, *balance)
		overview.TotalOutstanding += balance.Balance

		txns, err := s.pointsRepo.GetTransactions(ctx, balance.StudentID, 5)
		if err != nil {
			return nil, err
		}
		for _, txn := range txns {
			overview.RecentTransactions = append(overview.RecentTransactions, *txn)
		}
	}
	return overview, nil
}
