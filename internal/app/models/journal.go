package models

import "time"

// JournalEntry is a dated note about a student, written by the student
// themselves or by their managing admin. Only the author may edit or
// delete an entry.
type JournalEntry struct {
	ID        int64     `json:"id"`
	StudentID int64     `json:"studentId"`
	AuthorID  int64     `json:"authorId"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	EntryDate time.Time `json:"entryDate"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	StudentName string `json:"studentName,omitempty"`
	AuthorName  string `json:"authorName,omitempty"`
	IsOwnEntry  bool   `json:"isOwnEntry"`
}
