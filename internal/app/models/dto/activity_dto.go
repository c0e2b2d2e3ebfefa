package dto

import "time"

// ActivityItem is one line in the recent activity feed.
type ActivityItem struct {
	Kind        string    `json:"kind" enums:"grade,submission,attendance,journal"`
	StudentID   int64     `json:"studentId"`
	StudentName string    `json:"studentName"`
	Description string    `json:"description"`
	OccurredAt  time.Time `json:"occurredAt"`
	TimeAgo     string    `json:"timeAgo"`
}
