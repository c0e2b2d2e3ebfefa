package models

import "time"

// StudentPoints is the running balance for one student, created lazily
// on first use.
type StudentPoints struct {
	ID          int64     `json:"id"`
	StudentID   int64     `json:"studentId"`
	Balance     int       `json:"balance"`
	TotalEarned int       `json:"totalEarned"`
	TotalSpent  int       `json:"totalSpent"`
	UpdatedAt   time.Time `json:"updatedAt"`

	StudentName string `json:"studentName,omitempty"`
}

// PointTransaction is one ledger entry. Amount is positive for credits
// and negative for deductions and spending.
type PointTransaction struct {
	ID           int64                `json:"id"`
	StudentID    int64                `json:"studentId"`
	Amount       int                  `json:"amount"`
	Type         PointTransactionType `json:"type"`
	Reason       *string              `json:"reason,omitempty"`
	AssignmentID *int64               `json:"assignmentId,omitempty"`
	CreatedBy    *int64               `json:"createdBy,omitempty"`
	CreatedAt    time.Time            `json:"createdAt"`
}

// SystemSetting is a typed key/value configuration row.
type SystemSetting struct {
	ID          int64     `json:"id"`
	Key         string    `json:"key"`
	Value       string    `json:"value"`
	ValueType   string    `json:"valueType"`
	Description *string   `json:"description,omitempty"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Well-known setting keys.
const (
	SettingRequiredDays  = "attendance.required_days_of_instruction"
	SettingPointsEnabled = "points.system_enabled"
)

// DefaultRequiredDays is the fallback for required days of instruction.
const DefaultRequiredDays = 180
