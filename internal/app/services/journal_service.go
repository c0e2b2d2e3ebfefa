package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/ourschool/ourschool/internal/app/models"
	"github.com/ourschool/ourschool/internal/app/models/dto"
	"github.com/ourschool/ourschool/internal/app/repositories"
	"github.com/ourschool/ourschool/internal/pkg/apperrors"
)

// JournalService handles journal entries. Students see and write only
// their own journal; only the author of an entry may change it.
type JournalService struct {
	journalRepo *repositories.JournalRepository
	userRepo    *repositories.UserRepository
	logger      zerolog.Logger
}

// NewJournalService creates a new JournalService
func NewJournalService(
	journalRepo *repositories.JournalRepository,
	userRepo *repositories.UserRepository,
	logger zerolog.Logger,
) *JournalService {
	return &JournalService{
		journalRepo: journalRepo,
		userRepo:    userRepo,
		logger:      logger,
	}
}

// Create writes an entry. Students may only write about themselves.
func (s *JournalService) Create(ctx context.Context, authorID int64, authorRole models.UserRole, req *dto.CreateJournalEntryRequest) (*models.JournalEntry, error) {
	if authorRole == models.RoleStudent && req.StudentID != authorID {
		return nil, apperrors.ErrPermissionDenied
	}
	if _, err := s.userRepo.GetStudentByID(ctx, req.StudentID); err != nil {
		return nil, err
	}
	entryDate, err := parseDateOnly(req.EntryDate)
	if err != nil {
		return nil, err
	}

	entry := &models.JournalEntry{
		StudentID: req.StudentID,
		AuthorID:  authorID,
		Title:     req.Title,
		Content:   req.Content,
		EntryDate: entryDate,
	}
	if err := s.journalRepo.Create(ctx, entry); err != nil {
		return nil, err
	}
	return s.getForCaller(ctx, entry.ID, authorID)
}

// GetByStudent retrieves a student's entries. Students may only read
// their own.
func (s *JournalService) GetByStudent(ctx context.Context, callerID int64, callerRole models.UserRole, studentID int64, from, to *time.Time) ([]*models.JournalEntry, error) {
	if callerRole == models.RoleStudent && studentID != callerID {
		return nil, apperrors.ErrPermissionDenied
	}

	entries, err := s.journalRepo.GetByStudent(ctx, studentID, from, to)
	if err != nil {
		return nil, err
	}
	for _, entry := range entries {
		entry.IsOwnEntry = entry.AuthorID == callerID
	}
	return entries, nil
}

// GetByID retrieves one entry with the access rules applied.
func (s *JournalService) GetByID(ctx context.Context, callerID int64, callerRole models.UserRole, id int64) (*models.JournalEntry, error) {
	entry, err := s.journalRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if callerRole == models.RoleStudent && entry.StudentID != callerID {
		return nil, apperrors.ErrPermissionDenied
	}
	entry.IsOwnEntry = entry.AuthorID == callerID
	return entry, nil
}

// Update edits an entry; author only.
func (s *JournalService) Update(ctx context.Context, callerID, id int64, req *dto.UpdateJournalEntryRequest) (*models.JournalEntry, error) {
	entry, err := s.journalRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if entry.AuthorID != callerID {
		return nil, apperrors.ErrNotEntryAuthor
	}

	if req.Title != nil {
		entry.Title = *req.Title
	}
	if req.Content != nil {
		entry.Content = *req.Content
	}
	if req.EntryDate != nil {
		entryDate, err := parseDateOnly(*req.EntryDate)
		if err != nil {
			return nil, err
		}
		entry.EntryDate = entryDate
	}

	if err := s.journalRepo.Update(ctx, entry); err != nil {
		return nil, err
	}
	return s.getForCaller(ctx, id, callerID)
}

// Delete removes an entry; author only.
func (s *JournalService) Delete(ctx context.Context, callerID, id int64) error {
	entry, err := s.journalRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if entry.AuthorID != callerID {
		return apperrors.ErrNotEntryAuthor
	}
	return s.journalRepo.Delete(ctx, id)
}

func (s *JournalService) getForCaller(ctx context.Context, id, callerID int64) (*models.JournalEntry, error) {
	entry, err := s.journalRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	entry.IsOwnEntry = entry.AuthorID == callerID
	return entry, nil
}
