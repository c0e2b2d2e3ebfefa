package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"

	"github.com/ourschool/ourschool/internal/app/models"
	"github.com/ourschool/ourschool/internal/app/models/dto"
	"github.com/ourschool/ourschool/internal/app/repositories"
	"github.com/ourschool/ourschool/internal/cache"
	"github.com/ourschool/ourschool/internal/pkg/apperrors"
	"github.com/ourschool/ourschool/internal/pkg/grading"
	"github.com/ourschool/ourschool/internal/pkg/helpers"
	"github.com/ourschool/ourschool/internal/pkg/schoolcal"
)

// ReportService builds attendance and grade reports. Expensive
// payloads are cached in Redis when a cache is configured.
type ReportService struct {
	userRepo       *repositories.UserRepository
	attendanceRepo *repositories.AttendanceRepository
	assignmentRepo *repositories.AssignmentRepository
	termRepo       *repositories.TermRepository
	pointsRepo     *repositories.PointsRepository
	settingsRepo   *repositories.SettingsRepository
	activitySvc    *ActivityService
	reportCache    *cache.ReportCache
	logger         zerolog.Logger
}

// NewReportService creates a new ReportService
func NewReportService(
	userRepo *repositories.UserRepository,
	attendanceRepo *repositories.AttendanceRepository,
	assignmentRepo *repositories.AssignmentRepository,
	termRepo *repositories.TermRepository,
	pointsRepo *repositories.PointsRepository,
	settingsRepo *repositories.SettingsRepository,
	activitySvc *ActivityService,
	reportCache *cache.ReportCache,
	logger zerolog.Logger,
) *ReportService {
	return &ReportService{
		userRepo:       userRepo,
		attendanceRepo: attendanceRepo,
		assignmentRepo: assignmentRepo,
		termRepo:       termRepo,
		pointsRepo:     pointsRepo,
		settingsRepo:   settingsRepo,
		activitySvc:    activitySvc,
		reportCache:    reportCache,
		logger:         logger,
	}
}

// InvalidateStudent drops cached reports for one student.
func (s *ReportService) InvalidateStudent(ctx context.Context, studentID int64) {
	s.reportCache.InvalidateStudent(ctx, studentID)
}

// AttendanceReport summarizes a student's attendance in a date range.
// The rate is measured against the configured required days of
// instruction and capped at 100.
func (s *ReportService) AttendanceReport(ctx context.Context, studentID int64, from, to time.Time) (*dto.AttendanceReport, error) {
	student, err := s.userRepo.GetStudentByID(ctx, studentID)
	if err != nil {
		return nil, err
	}
	requiredDays, err := s.settingsRepo.GetInt(ctx, models.SettingRequiredDays, models.DefaultRequiredDays)
	if err != nil {
		return nil, err
	}
	counts, err := s.attendanceRepo.CountByStatus(ctx, studentID, from, to)
	if err != nil {
		return nil, err
	}
	firstAbsence, err := s.attendanceRepo.FirstAbsence(ctx, studentID, from, to)
	if err != nil {
		return nil, err
	}
	recent, err := s.attendanceRepo.GetRecent(ctx, studentID, 10)
	if err != nil {
		return nil, err
	}

	daysAttended := counts[models.AttendancePresent] + counts[models.AttendanceLate] + counts[models.AttendanceExcused]
	recentLines := make([]string, 0, len(recent))
	for _, record := range recent {
		recentLines = append(recentLines, fmt.Sprintf("%s %s", helpers.FormatMonthDay(record.Date), record.Status))
	}

	return &dto.AttendanceReport{
		StudentID:        studentID,
		StudentName:      student.FullName(),
		StartDate:        from,
		EndDate:          to,
		SchoolDays:       schoolcal.SchoolDays(from, to),
		RequiredDays:     requiredDays,
		PresentDays:      counts[models.AttendancePresent],
		AbsentDays:       counts[models.AttendanceAbsent],
		LateDays:         counts[models.AttendanceLate],
		ExcusedDays:      counts[models.AttendanceExcused],
		DaysAttended:     daysAttended,
		AttendanceRate:   schoolcal.AttendanceRate(daysAttended, requiredDays),
		FirstAbsenceDate: firstAbsence,
		RecentActivity:   recentLines,
	}, nil
}

// StudentOverview builds the landing report for one student.
func (s *ReportService) StudentOverview(ctx context.Context, studentID int64) (*dto.StudentOverview, error) {
	key := cache.StudentReportKey("overview", studentID)
	var cached dto.StudentOverview
	if hit, err := s.reportCache.GetJSON(ctx, key, &cached); err != nil {
		s.logger.Warn().Err(err).Msg("Report cache read failed")
	} else if hit {
		return &cached, nil
	}

	student, err := s.userRepo.GetStudentByID(ctx, studentID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	yearStart := schoolcal.YearStart(now)
	attendance, err := s.AttendanceReport(ctx, studentID, yearStart, now)
	if err != nil {
		return nil, err
	}

	gradedCount, avgPct, err := s.assignmentRepo.GradeSummaryForStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}
	grades := dto.GradeSummary{GradedCount: gradedCount, AveragePercentage: avgPct}
	if avgPct != nil {
		letter := grading.LetterGrade(*avgPct)
		grades.AverageLetter = &letter
	}

	counts, err := s.assignmentRepo.CountByStatus(ctx, &studentID)
	if err != nil {
		return nil, err
	}
	overdue, err := s.assignmentRepo.CountOverdue(ctx, &studentID, now)
	if err != nil {
		return nil, err
	}

	overview := &dto.StudentOverview{
		StudentID:   studentID,
		StudentName: student.FullName(),
		Attendance:  *attendance,
		Grades:      grades,
		OpenWork:    counts[string(models.StatusNotStarted)] + counts[string(models.StatusInProgress)],
		OverdueWork: overdue,
	}

	if enabled, err := s.settingsRepo.GetBool(ctx, models.SettingPointsEnabled, true); err == nil && enabled {
		if balance, err := s.pointsRepo.GetOrCreate(ctx, studentID); err == nil {
			overview.PointsBalance = &balance.Balance
		}
	}

	activity, err := s.activitySvc.ForStudent(ctx, studentID, 10)
	if err != nil {
		return nil, err
	}
	overview.RecentActivity = activity

	if err := s.reportCache.SetJSON(ctx, key, overview); err != nil {
		s.logger.Warn().Err(err).Msg("Report cache write failed")
	}
	return overview, nil
}

// AdminOverview builds the cross-student dashboard.
func (s *ReportService) AdminOverview(ctx context.Context) (*dto.AdminOverview, error) {
	key := cache.AdminReportKey("overview")
	var cached dto.AdminOverview
	if hit, err := s.reportCache.GetJSON(ctx, key, &cached); err != nil {
		s.logger.Warn().Err(err).Msg("Report cache read failed")
	} else if hit {
		return &cached, nil
	}

	students, err := s.userRepo.GetAllStudents(ctx)
	if err != nil {
		return nil, err
	}

	overview := &dto.AdminOverview{
		StudentCount: len(students),
		Students:     make([]dto.StudentOverview, 0, len(students)),
	}
	if term, err := s.termRepo.GetActive(ctx); err == nil {
		overview.ActiveTermName = &term.Name
	} else if !errors.Is(err, apperrors.ErrNoActiveTerm) {
		return nil, err
	}

	for _, student := range students {
		studentOverview, err := s.StudentOverview(ctx, student.ID)
		if err != nil {
			return nil, err
		}
		overview.Students = append(overview.Students, *studentOverview)
	}

	counts, err := s.assignmentRepo.CountByStatus(ctx, nil)
	if err != nil {
		return nil, err
	}
	overview.PendingGrading = counts[string(models.StatusSubmitted)]

	if err := s.reportCache.SetJSON(ctx, key, overview); err != nil {
		s.logger.Warn().Err(err).Msg("Report cache write failed")
	}
	return overview, nil
}

// TermGradeReport builds a full grade report for one term.
func (s *ReportService) TermGradeReport(ctx context.Context, termID int64) (*dto.TermGradeReport, error) {
	term, err := s.termRepo.GetByID(ctx, termID)
	if err != nil {
		return nil, err
	}
	grades, err := s.termRepo.GetTermGrades(ctx, termID)
	if err != nil {
		return nil, err
	}

	report := &dto.TermGradeReport{
		TermID:       term.ID,
		TermName:     term.Name,
		AcademicYear: term.AcademicYear,
		Rows:         make([]dto.TermGradeRow, 0, len(grades)),
		GeneratedAt:  time.Now().UTC(),
	}
	for _, grade := range grades {
		report.Rows = append(report.Rows, dto.TermGradeRow{
			StudentID:       grade.StudentID,
			StudentName:     grade.StudentName,
			SubjectID:       grade.SubjectID,
			SubjectName:     grade.SubjectName,
			PointsEarned:    grade.PointsEarned,
			PointsPossible:  grade.PointsPossible,
			PercentageGrade: grade.PercentageGrade,
			LetterGrade:     grade.LetterGrade,
			AssignmentCount: grade.AssignmentCount,
		})
	}
	return report, nil
}

// ExportTermGradesXLSX renders a term grade report as a spreadsheet.
func (s *ReportService) ExportTermGradesXLSX(ctx context.Context, termID int64) ([]byte, string, error) {
	report, err := s.TermGradeReport(ctx, termID)
	if err != nil {
		return nil, "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := "Grades"
	f.SetSheetName(f.GetSheetName(0), sheet)

	headers := []string{"Student", "Subject", "Points Earned", "Points Possible", "Percentage", "Letter", "Assignments"}
	for i, header := range headers {
		col, _ := excelize.ColumnNumberToName(i + 1)
		f.SetCellValue(sheet, col+"1", header)
	}

	for i, row := range report.Rows {
		rowNum := i + 2
		f.SetCellValue(sheet, fmt.Sprintf("A%d", rowNum), row.StudentName)
		f.SetCellValue(sheet, fmt.Sprintf("B%d", rowNum), row.SubjectName)
		f.SetCellValue(sheet, fmt.Sprintf("C%d", rowNum), row.PointsEarned)
		f.SetCellValue(sheet, fmt.Sprintf("D%d", rowNum), row.PointsPossible)
		if row.PercentageGrade != nil {
			f.SetCellValue(sheet, fmt.Sprintf("E%d", rowNum), *row.PercentageGrade)
		}
		if row.LetterGrade != nil {
			f.SetCellValue(sheet, fmt.Sprintf("F%d", rowNum), *row.LetterGrade)
		}
		f.SetCellValue(sheet, fmt.Sprintf("G%d", rowNum), row.AssignmentCount)
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, "", fmt.Errorf("error writing spreadsheet: %w", err)
	}

	filename := fmt.Sprintf("grades_%s_term%d.xlsx", report.AcademicYear, report.TermID)
	return buf.Bytes(), filename, nil
}

// ExportAttendanceXLSX renders a student's attendance range as a
// spreadsheet.
func (s *ReportService) ExportAttendanceXLSX(ctx context.Context, studentID int64, from, to time.Time) ([]byte, string, error) {
	report, err := s.AttendanceReport(ctx, studentID, from, to)
	if err != nil {
		return nil, "", err
	}
	records, err := s.attendanceRepo.GetAll(ctx, dto.AttendanceFilter{
		StudentID: &studentID,
		FromDate:  &from,
		ToDate:    &to,
	})
	if err != nil {
		return nil, "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := "Attendance"
	f.SetSheetName(f.GetSheetName(0), sheet)
	f.SetCellValue(sheet, "A1", "Student")
	f.SetCellValue(sheet, "B1", report.StudentName)
	f.SetCellValue(sheet, "A2", "Attendance Rate")
	f.SetCellValue(sheet, "B2", fmt.Sprintf("%.1f%%", report.AttendanceRate))
	f.SetCellValue(sheet, "A4", "Date")
	f.SetCellValue(sheet, "B4", "Status")
	f.SetCellValue(sheet, "C4", "Notes")

	for i, record := range records {
		rowNum := i + 5
		f.SetCellValue(sheet, fmt.Sprintf("A%d", rowNum), record.Date.Format("2006-01-02"))
		f.SetCellValue(sheet, fmt.Sprintf("B%d", rowNum), string(record.Status))
		if record.Notes != nil {
			f.SetCellValue(sheet, fmt.Sprintf("C%d", rowNum), *record.Notes)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, "", fmt.Errorf("error writing spreadsheet: %w", err)
	}

	filename := fmt.Sprintf("attendance_student%d.xlsx", studentID)
	return buf.Bytes(), filename, nil
}

// sheetName fits a student name into Excel's 31-character sheet name
// limit, suffixed with the ID to keep names unique.
func sheetName(name string, id int64) string {
	suffix := fmt.Sprintf(" (%d)", id)
	if len(name)+len(suffix) > 31 {
		name = name[:31-len(suffix)]
	}
	return name + suffix
}

// ExportAllAttendanceXLSX renders every student's attendance range as
// one workbook: a summary sheet plus one sheet per student.
func (s *ReportService) ExportAllAttendanceXLSX(ctx context.Context, from, to time.Time) ([]byte, string, error) {
	students, err := s.userRepo.GetAllStudents(ctx)
	if err != nil {
		return nil, "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	summary := "Summary"
	f.SetSheetName(f.GetSheetName(0), summary)
	headers := []string{"Student", "School Days", "Present", "Absent", "Late", "Excused", "Attendance Rate"}
	for i, header := range headers {
		col, _ := excelize.ColumnNumberToName(i + 1)
		f.SetCellValue(summary, col+"1", header)
	}

	for i, student := range students {
		report, err := s.AttendanceReport(ctx, student.ID, from, to)
		if err != nil {
			return nil, "", err
		}

		rowNum := i + 2
		f.SetCellValue(summary, fmt.Sprintf("A%d", rowNum), report.StudentName)
		f.SetCellValue(summary, fmt.Sprintf("B%d", rowNum), report.SchoolDays)
		f.SetCellValue(summary, fmt.Sprintf("C%d", rowNum), report.PresentDays)
		f.SetCellValue(summary, fmt.Sprintf("D%d", rowNum), report.AbsentDays)
		f.SetCellValue(summary, fmt.Sprintf("E%d", rowNum), report.LateDays)
		f.SetCellValue(summary, fmt.Sprintf("F%d", rowNum), report.ExcusedDays)
		f.SetCellValue(summary, fmt.Sprintf("G%d", rowNum), fmt.Sprintf("%.1f%%", report.AttendanceRate))

		records, err := s.attendanceRepo.GetAll(ctx, dto.AttendanceFilter{
			StudentID: &student.ID,
			FromDate:  &from,
			ToDate:    &to,
		})
		if err != nil {
			return nil, "", err
		}

		sheet := sheetName(report.StudentName, student.ID)
		if _, err := f.NewSheet(sheet); err != nil {
			return nil, "", fmt.Errorf("error adding sheet: %w", err)
		}
		f.SetCellValue(sheet, "A1", "Date")
		f.SetCellValue(sheet, "B1", "Status")
		f.SetCellValue(sheet, "C1", "Notes")
		for j, record := range records {
			recordRow := j + 2
			f.SetCellValue(sheet, fmt.Sprintf("A%d", recordRow), record.Date.Format("2006-01-02"))
			f.SetCellValue(sheet, fmt.Sprintf("B%d", recordRow), string(record.Status))
			if record.Notes != nil {
				f.SetCellValue(sheet, fmt.Sprintf("C%d", recordRow), *record.Notes)
			}
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, "", fmt.Errorf("error writing spreadsheet: %w", err)
	}

	filename := fmt.Sprintf("attendance_%s.xlsx", to.Format("2006-01-02"))
	return buf.Bytes(), filename, nil
}
