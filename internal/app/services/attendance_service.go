package services

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/ourschool/ourschool/internal/app/models"
	"github.com/ourschool/ourschool/internal/app/models/dto"
	"github.com/ourschool/ourschool/internal/app/repositories"
	"github.com/ourschool/ourschool/internal/cache"
)

// AttendanceService handles attendance records
type AttendanceService struct {
	attendanceRepo *repositories.AttendanceRepository
	userRepo       *repositories.UserRepository
	reportCache    *cache.ReportCache
	logger         zerolog.Logger
}

// NewAttendanceService creates a new AttendanceService
func NewAttendanceService(
	attendanceRepo *repositories.AttendanceRepository,
	userRepo *repositories.UserRepository,
	reportCache *cache.ReportCache,
	logger zerolog.Logger,
) *AttendanceService {
	return &AttendanceService{
		attendanceRepo: attendanceRepo,
		userRepo:       userRepo,
		reportCache:    reportCache,
		logger:         logger,
	}
}

// Create records one student's day.
func (s *AttendanceService) Create(ctx context.Context, createdBy int64, req *dto.CreateAttendanceRequest) (*models.AttendanceRecord, error) {
	if _, err := s.userRepo.GetStudentByID(ctx, req.StudentID); err != nil {
		return nil, err
	}
	date, err := parseDateOnly(req.Date)
	if err != nil {
		return nil, err
	}

	record := &models.AttendanceRecord{
		StudentID: req.StudentID,
		Date:      date,
		Status:    models.AttendanceStatus(req.Status),
		Notes:     req.Notes,
		CreatedBy: &createdBy,
	}
	if err := s.attendanceRepo.Create(ctx, record); err != nil {
		return nil, err
	}
	s.reportCache.InvalidateStudent(ctx, record.StudentID)
	return s.attendanceRepo.GetByID(ctx, record.ID)
}

// BulkRecord upserts one day for many students. An unknown student
// fails the whole request before any row is written.
func (s *AttendanceService) BulkRecord(ctx context.Context, createdBy int64, req *dto.BulkAttendanceRequest) (*dto.BulkAttendanceResult, error) {
	date, err := parseDateOnly(req.Date)
	if err != nil {
		return nil, err
	}
	for _, row := range req.Records {
		if _, err := s.userRepo.GetStudentByID(ctx, row.StudentID); err != nil {
			return nil, err
		}
	}

	result := &dto.BulkAttendanceResult{}
	for _, row := range req.Records {
		record := &models.AttendanceRecord{
			StudentID: row.StudentID,
			Date:      date,
			Status:    models.AttendanceStatus(row.Status),
			Notes:     row.Notes,
			CreatedBy: &createdBy,
		}
		created, err := s.attendanceRepo.Upsert(ctx, record)
		if err != nil {
			return nil, err
		}
		if created {
			result.Created++
		} else {
			result.Updated++
		}
		s.reportCache.InvalidateStudent(ctx, row.StudentID)
	}

	s.logger.Info().Str("date", req.Date).
		Int("created", result.Created).Int("updated", result.Updated).
		Msg("Bulk attendance recorded")
	return result, nil
}

// GetAll retrieves records matching the filter.
func (s *AttendanceService) GetAll(ctx context.Context, filter dto.AttendanceFilter) ([]*models.AttendanceRecord, error) {
	return s.attendanceRepo.GetAll(ctx, filter)
}

// GetByID retrieves one record.
func (s *AttendanceService) GetByID(ctx context.Context, id int64) (*models.AttendanceRecord, error) {
	return s.attendanceRepo.GetByID(ctx, id)
}

// Update applies status and note changes to a record.
func (s *AttendanceService) Update(ctx context.Context, id int64, req *dto.UpdateAttendanceRequest) (*models.AttendanceRecord, error) {
	record, err := s.attendanceRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Status != nil {
		record.Status = models.AttendanceStatus(*req.Status)
	}
	if req.Notes != nil {
		record.Notes = req.Notes
	}

	if err := s.attendanceRepo.Update(ctx, record); err != nil {
		return nil, err
	}
	s.reportCache.InvalidateStudent(ctx, record.StudentID)
	return record, nil
}

// Delete removes a record.
func (s *AttendanceService) Delete(ctx context.Context, id int64) error {
	record, err := s.attendanceRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.attendanceRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.reportCache.InvalidateStudent(ctx, record.StudentID)
	return nil
}
