package dto

import "github.com/ourschool/ourschool/internal/app/models"

// AdjustPointsRequest awards or deducts points for a student.
type AdjustPointsRequest struct {
	StudentID int64  `json:"studentId" binding:"required"`
	Amount    int    `json:"amount" binding:"required"`
	Reason    string `json:"reason" binding:"required"`
}

// SpendPointsRequest spends points from the caller's balance.
type SpendPointsRequest struct {
	Amount int64  `json:"amount" binding:"required" validate:"min=1"`
	Reason string `json:"reason" binding:"required"`
}

// TogglePointsRequest enables or disables the points system.
type TogglePointsRequest struct {
	Enabled *bool `json:"enabled" binding:"required"`
}

// PointsStatus reports whether the points system is enabled.
type PointsStatus struct {
	Enabled bool `json:"enabled"`
}

// PointsOverview is the admin points dashboard payload.
type PointsOverview struct {
	Balances           []models.StudentPoints    `json:"balances"`
	RecentTransactions []models.PointTransaction `json:"recentTransactions"`
	TotalOutstanding   int                       `json:"totalOutstanding"`
}
