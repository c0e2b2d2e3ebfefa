package dto

// CreateJournalEntryRequest creates a journal entry. Students may only
// write entries for themselves.
type CreateJournalEntryRequest struct {
	StudentID int64  `json:"studentId" binding:"required"`
	Title     string `json:"title" binding:"required" validate:"max=255"`
	Content   string `json:"content" binding:"required"`
	EntryDate string `json:"entryDate" binding:"required" validate:"datetime=2006-01-02"`
}

// UpdateJournalEntryRequest edits an entry; author only.
type UpdateJournalEntryRequest struct {
	Title     *string `json:"title" validate:"omitempty,max=255"`
	Content   *string `json:"content"`
	EntryDate *string `json:"entryDate" validate:"omitempty,datetime=2006-01-02"`
}
