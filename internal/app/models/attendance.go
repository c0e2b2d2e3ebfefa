package models

import "time"

// AttendanceRecord stores one student's status for one school day.
// The (student, date) pair is unique; re-recording a day is an update.
type AttendanceRecord struct {
	ID        int64            `json:"id"`
	StudentID int64            `json:"studentId"`
	Date      time.Time        `json:"date"`
	Status    AttendanceStatus `json:"status"`
	Notes     *string          `json:"notes,omitempty"`
	CreatedBy *int64           `json:"createdBy,omitempty"`
	CreatedAt time.Time        `json:"createdAt"`
	UpdatedAt time.Time        `json:"updatedAt"`

	StudentName string `json:"studentName,omitempty"`
}
