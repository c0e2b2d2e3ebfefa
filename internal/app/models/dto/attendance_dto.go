package dto

import "time"

// CreateAttendanceRequest records one student's day.
type CreateAttendanceRequest struct {
	StudentID int64   `json:"studentId" binding:"required"`
	Date      string  `json:"date" binding:"required" validate:"datetime=2006-01-02"`
	Status    string  `json:"status" binding:"required" validate:"oneof=present absent late excused"`
	Notes     *string `json:"notes"`
}

// UpdateAttendanceRequest updates an existing record.
type UpdateAttendanceRequest struct {
	Status *string `json:"status" validate:"omitempty,oneof=present absent late excused"`
	Notes  *string `json:"notes"`
}

// BulkAttendanceRecord is one row in a bulk upsert.
type BulkAttendanceRecord struct {
	StudentID int64   `json:"studentId" binding:"required"`
	Status    string  `json:"status" binding:"required" validate:"oneof=present absent late excused"`
	Notes     *string `json:"notes"`
}

// BulkAttendanceRequest upserts one day for many students.
type BulkAttendanceRequest struct {
	Date    string                 `json:"date" binding:"required" validate:"datetime=2006-01-02"`
	Records []BulkAttendanceRecord `json:"records" binding:"required,min=1,dive"`
}

// BulkAttendanceResult reports a bulk upsert.
type BulkAttendanceResult struct {
	Created int `json:"created"`
	Updated int `json:"updated"`
}

// AttendanceFilter narrows attendance listings.
type AttendanceFilter struct {
	StudentID *int64
	Status    *string
	FromDate  *time.Time
	ToDate    *time.Time
}
