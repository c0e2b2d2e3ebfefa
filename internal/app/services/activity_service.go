package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/ourschool/ourschool/internal/app/models/dto"
	"github.com/ourschool/ourschool/internal/app/repositories"
	"github.com/ourschool/ourschool/internal/pkg/helpers"
)

// ActivityService builds the recent activity feed by merging graded
// work, attendance and journal entries.
type ActivityService struct {
	assignmentRepo *repositories.AssignmentRepository
	attendanceRepo *repositories.AttendanceRepository
	journalRepo    *repositories.JournalRepository
	userRepo       *repositories.UserRepository
	logger         zerolog.Logger
}

// NewActivityService creates a new ActivityService
func NewActivityService(
	assignmentRepo *repositories.AssignmentRepository,
	attendanceRepo *repositories.AttendanceRepository,
	journalRepo *repositories.JournalRepository,
	userRepo *repositories.UserRepository,
	logger zerolog.Logger,
) *ActivityService {
	return &ActivityService{
		assignmentRepo: assignmentRepo,
		attendanceRepo: attendanceRepo,
		journalRepo:    journalRepo,
		userRepo:       userRepo,
		logger:         logger,
	}
}

// ForStudent builds the activity feed for one student, newest first.
func (s *ActivityService) ForStudent(ctx context.Context, studentID int64, limit int) ([]dto.ActivityItem, error) {
	if limit <= 0 || limit > 50 {
		limit = 20
	}
	student, err := s.userRepo.GetStudentByID(ctx, studentID)
	if err != nil {
		return nil, err
	}
	name := student.FullName()
	now := time.Now()

	var items []dto.ActivityItem

	graded, err := s.assignmentRepo.GetAll(ctx, dto.AssignmentFilter{StudentID: &studentID})
	if err != nil {
		return nil, err
	}
	for _, a := range graded {
		title := ""
		if a.Template != nil {
			title = a.Template.Title
		}
		if a.GradedDate != nil && a.LetterGrade != nil {
			items = append(items, dto.ActivityItem{
				Kind:        "grade",
				StudentID:   studentID,
				StudentName: name,
				Description: fmt.Sprintf("%s graded %s (%s)", title, *a.LetterGrade, helpers.FormatMonthDay(*a.GradedDate)),
				OccurredAt:  *a.GradedDate,
				TimeAgo:     helpers.TimeAgo(*a.GradedDate, now),
			})
		} else if a.SubmittedDate != nil {
			items = append(items, dto.ActivityItem{
				Kind:        "submission",
				StudentID:   studentID,
				StudentName: name,
				Description: fmt.Sprintf("%s submitted", title),
				OccurredAt:  *a.SubmittedDate,
				TimeAgo:     helpers.TimeAgo(*a.SubmittedDate, now),
			})
		}
	}

	records, err := s.attendanceRepo.GetRecent(ctx, studentID, limit)
	if err != nil {
		return nil, err
	}
	for _, record := range records {
		items = append(items, dto.ActivityItem{
			Kind:        "attendance",
			StudentID:   studentID,
			StudentName: name,
			Description: fmt.Sprintf("Marked %s on %s", record.Status, helpers.FormatMonthDay(record.Date)),
			OccurredAt:  record.UpdatedAt,
			TimeAgo:     helpers.TimeAgo(record.UpdatedAt, now),
		})
	}

	entries, err := s.journalRepo.GetRecent(ctx, studentID, limit)
	if err != nil {
		return nil, err
	}
	for _, entry := range entries {
		items = append(items, dto.ActivityItem{
			Kind:        "journal",
			StudentID:   studentID,
			StudentName: name,
			Description: fmt.Sprintf("Journal: %s", entry.Title),
			OccurredAt:  entry.CreatedAt,
			TimeAgo:     helpers.TimeAgo(entry.CreatedAt, now),
		})
	}

	sort.Slice(items, func(i, j int) bool {
		return items[i].OccurredAt.After(items[j].OccurredAt)
	})
	if len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}

// Recent builds the merged feed over the last days, newest first. A
// nil studentID spans every active student.
func (s *ActivityService) Recent(ctx context.Context, studentID *int64, limit, days int) ([]dto.ActivityItem, error) {
	if limit <= 0 || limit > 50 {
		limit = 10
	}
	if days <= 0 || days > 30 {
		days = 7
	}
	cutoff := time.Now().AddDate(0, 0, -days)

	var ids []int64
	if studentID != nil {
		ids = append(ids, *studentID)
	} else {
		students, err := s.userRepo.GetAllStudents(ctx)
		if err != nil {
			return nil, err
		}
		for _, student := range students {
			ids = append(ids, student.ID)
		}
	}

	var items []dto.ActivityItem
	for _, id := range ids {
		studentItems, err := s.ForStudent(ctx, id, limit)
		if err != nil {
			return nil, err
		}
		for _, item := range studentItems {
			if item.OccurredAt.Before(cutoff) {
				continue
			}
			items = append(items, item)
		}
	}

	sort.Slice(items, func(i, j int) bool {
		return items[i].OccurredAt.After(items[j].OccurredAt)
	})
	if len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}
