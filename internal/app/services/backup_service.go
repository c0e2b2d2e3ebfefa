package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/ourschool/ourschool/internal/app/models"
	"github.com/ourschool/ourschool/internal/app/models/dto"
	"github.com/ourschool/ourschool/internal/app/repositories"
	"github.com/ourschool/ourschool/internal/pkg/apperrors"
	"github.com/ourschool/ourschool/internal/pkg/auth"
)

const backupApplication = "ourschool"

// BackupService exports and restores full JSON snapshots. Credentials
// never leave the system: restored accounts get a random password and
// need an admin reset.
type BackupService struct {
	repos      *repositories.Repositories
	subjectSvc *SubjectService
	logger     zerolog.Logger
	version    string
}

// NewBackupService creates a new BackupService
func NewBackupService(
	repos *repositories.Repositories,
	subjectSvc *SubjectService,
	version string,
	logger zerolog.Logger,
) *BackupService {
	return &BackupService{
		repos:      repos,
		subjectSvc: subjectSvc,
		logger:     logger,
		version:    version,
	}
}

func formatDatePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format("2006-01-02")
	return &s
}

// Export builds a full snapshot of the system.
func (s *BackupService) Export(ctx context.Context) (*dto.BackupDocument, error) {
	doc := &dto.BackupDocument{
		FormatVersion:   dto.BackupFormatVersion,
		BackupTimestamp: time.Now().UTC(),
		SystemInfo: dto.BackupSystemInfo{
			Application: backupApplication,
			Version:     s.version,
		},
	}

	users, err := s.repos.UserRepository.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	usernames := make(map[int64]string, len(users))
	for _, user := range users {
		usernames[user.ID] = user.Username
	}
	for _, user := range users {
		backup := dto.BackupUser{
			Username:    user.Username,
			Email:       user.Email,
			FirstName:   user.FirstName,
			LastName:    user.LastName,
			Role:        string(user.Role),
			DateOfBirth: formatDatePtr(user.DateOfBirth),
			GradeLevel:  user.GradeLevel,
			IsActive:    user.IsActive,
		}
		if user.ParentID != nil {
			if parent, ok := usernames[*user.ParentID]; ok {
				backup.ParentUsername = &parent
			}
		}
		doc.Users = append(doc.Users, backup)
	}

	subjects, err := s.repos.SubjectRepository.GetAll(ctx, true)
	if err != nil {
		return nil, err
	}
	subjectNames := make(map[int64]string, len(subjects))
	for _, subject := range subjects {
		subjectNames[subject.ID] = subject.Name
		doc.Subjects = append(doc.Subjects, dto.BackupSubject{
			Name:        subject.Name,
			Description: subject.Description,
			Color:       subject.Color,
			IsActive:    subject.IsActive,
		})
	}

	terms, err := s.repos.TermRepository.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	for _, term := range terms {
		termSubjects, err := s.repos.TermRepository.GetSubjects(ctx, term.ID)
		if err != nil {
			return nil, err
		}
		names := make([]string, 0, len(termSubjects))
		for _, ts := range termSubjects {
			names = append(names, ts.SubjectName)
		}
		doc.Terms = append(doc.Terms, dto.BackupTerm{
			Name:         term.Name,
			TermType:     string(term.TermType),
			AcademicYear: term.AcademicYear,
			TermOrder:    term.TermOrder,
			StartDate:    term.StartDate.Format("2006-01-02"),
			EndDate:      term.EndDate.Format("2006-01-02"),
			IsActive:     term.IsActive,
			SubjectNames: names,
		})
	}

	archivedAny := true
	templates, err := s.repos.TemplateRepository.GetAll(ctx, dto.TemplateFilter{Archived: nil})
	if err != nil {
		return nil, err
	}
	archived, err := s.repos.TemplateRepository.GetAll(ctx, dto.TemplateFilter{Archived: &archivedAny})
	if err != nil {
		return nil, err
	}
	templateTitles := make(map[int64]string)
	for _, list := range [][]*models.AssignmentTemplate{templates, archived} {
		for _, template := range list {
			templateTitles[template.ID] = template.Title
			doc.Templates = append(doc.Templates, dto.BackupTemplate{
				Title:            template.Title,
				Description:      template.Description,
				SubjectName:      subjectNames[template.SubjectID],
				AssignmentType:   string(template.AssignmentType),
				MaxPoints:        template.MaxPoints,
				EstimatedMinutes: template.EstimatedMinutes,
				Instructions:     template.Instructions,
				IsArchived:       template.IsArchived,
			})
		}
	}

	assignments, err := s.repos.AssignmentRepository.GetAll(ctx, dto.AssignmentFilter{})
	if err != nil {
		return nil, err
	}
	for _, a := range assignments {
		title := templateTitles[a.TemplateID]
		if title == "" && a.Template != nil {
			title = a.Template.Title
		}
		doc.Assignments = append(doc.Assignments, dto.BackupStudentAssignment{
			TemplateTitle:   title,
			StudentUsername: usernames[a.StudentID],
			DueDate:         formatDatePtr(a.DueDate),
			ExtendedDueDate: formatDatePtr(a.ExtendedDueDate),
			Status:          string(a.Status),
			StartedDate:     formatDatePtr(a.StartedDate),
			SubmittedDate:   formatDatePtr(a.SubmittedDate),
			PointsEarned:    a.PointsEarned,
			CustomMaxPoints: a.CustomMaxPoints,
			Notes:           a.Notes,
			TeacherFeedback: a.TeacherFeedback,
		})
	}

	attendance, err := s.repos.AttendanceRepository.GetAll(ctx, dto.AttendanceFilter{})
	if err != nil {
		return nil, err
	}
	for _, record := range attendance {
		doc.Attendance = append(doc.Attendance, dto.BackupAttendance{
			StudentUsername: usernames[record.StudentID],
			Date:            record.Date.Format("2006-01-02"),
			Status:          string(record.Status),
			Notes:           record.Notes,
		})
	}

	for _, user := range users {
		if user.Role != models.RoleStudent {
			continue
		}
		entries, err := s.repos.JournalRepository.GetByStudent(ctx, user.ID, nil, nil)
		if err != nil {
			return nil, err
		}
		for _, entry := range entries {
			doc.Journal = append(doc.Journal, dto.BackupJournalEntry{
				StudentUsername: usernames[entry.StudentID],
				AuthorUsername:  usernames[entry.AuthorID],
				Title:           entry.Title,
				Content:         entry.Content,
				EntryDate:       entry.EntryDate.Format("2006-01-02"),
			})
		}
	}

	settings, err := s.repos.SettingsRepository.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	for _, setting := range settings {
		doc.Settings = append(doc.Settings, dto.BackupSetting{
			Key:         setting.Key,
			Value:       setting.Value,
			ValueType:   setting.ValueType,
			Description: setting.Description,
		})
	}

	s.logger.Info().Int("users", len(doc.Users)).Int("assignments", len(doc.Assignments)).
		Msg("Backup exported")
	return doc, nil
}

// Import restores a snapshot. Existing rows are kept; snapshot rows
// that collide with existing ones are skipped, so a restore is
// additive and repeatable.
func (s *BackupService) Import(ctx context.Context, doc *dto.BackupDocument) (*dto.ImportResult, error) {
	if doc.FormatVersion != dto.BackupFormatVersion {
		return nil, fmt.Errorf("%w: unsupported format version %q",
			apperrors.ErrValidationFailed, doc.FormatVersion)
	}

	result := &dto.ImportResult{
		Mode:   "merge",
		Counts: make(map[string]dto.EntityCounts),
	}

	userIDs, err := s.importUsers(ctx, doc, result)
	if err != nil {
		return nil, err
	}
	subjectIDs, err := s.importSubjects(ctx, doc, result)
	if err != nil {
		return nil, err
	}
	if err := s.importTerms(ctx, doc, subjectIDs, result); err != nil {
		return nil, err
	}
	templateIDs, err := s.importTemplates(ctx, doc, subjectIDs, result)
	if err != nil {
		return nil, err
	}
	if err := s.importAssignments(ctx, doc, userIDs, templateIDs, result); err != nil {
		return nil, err
	}
	if err := s.importAttendance(ctx, doc, userIDs, result); err != nil {
		return nil, err
	}
	if err := s.importJournal(ctx, doc, userIDs, result); err != nil {
		return nil, err
	}
	if err := s.importSettings(ctx, doc, result); err != nil {
		return nil, err
	}

	s.logger.Info().Interface("counts", result.Counts).Msg("Backup imported")
	return result, nil
}

func (s *BackupService) importUsers(ctx context.Context, doc *dto.BackupDocument, result *dto.ImportResult) (map[string]int64, error) {
	counts := dto.EntityCounts{}
	ids := make(map[string]int64, len(doc.Users))

	// Two passes so parents exist before the students referencing them.
	pending := make([]dto.BackupUser, 0, len(doc.Users))
	for _, backup := range doc.Users {
		if backup.ParentUsername != nil {
			pending = append(pending, backup)
			continue
		}
		id, created, err := s.importUser(ctx, backup, ids)
		if err != nil {
			return nil, err
		}
		ids[backup.Username] = id
		if created {
			counts.Created++
		} else {
			counts.Skipped++
		}
	}
	for _, backup := range pending {
		id, created, err := s.importUser(ctx, backup, ids)
		if err != nil {
			return nil, err
		}
		ids[backup.Username] = id
		if created {
			counts.Created++
		} else {
			counts.Skipped++
		}
	}

	result.Counts["users"] = counts
	return ids, nil
}

func (s *BackupService) importUser(ctx context.Context, backup dto.BackupUser, ids map[string]int64) (int64, bool, error) {
	existing, err := s.repos.UserRepository.GetByUsername(ctx, backup.Username)
	if err == nil {
		return existing.ID, false, nil
	}
	if !errors.Is(err, apperrors.ErrUserNotFound) {
		return 0, false, err
	}

	// Snapshots carry no credentials; a random password keeps the row
	// locked until an admin resets it.
	temp, err := generateTempPassword()
	if err != nil {
		return 0, false, err
	}
	hash, err := auth.HashPassword(temp)
	if err != nil {
		return 0, false, err
	}

	role := models.UserRole(backup.Role)
	if !role.Valid() {
		role = models.RoleStudent
	}
	user := &models.User{
		Username:     backup.Username,
		Email:        backup.Email,
		FirstName:    backup.FirstName,
		LastName:     backup.LastName,
		PasswordHash: hash,
		Role:         role,
		GradeLevel:   backup.GradeLevel,
		IsActive:     backup.IsActive,
	}
	if backup.ParentUsername != nil {
		if parentID, ok := ids[*backup.ParentUsername]; ok {
			user.ParentID = &parentID
		}
	}
	if backup.DateOfBirth != nil {
		dob, err := parseDateOnly(*backup.DateOfBirth)
		if err == nil {
			user.DateOfBirth = &dob
		}
	}

	if err := s.repos.UserRepository.Create(ctx, user); err != nil {
		return 0, false, err
	}
	return user.ID, true, nil
}

func (s *BackupService) importSubjects(ctx context.Context, doc *dto.BackupDocument, result *dto.ImportResult) (map[string]int64, error) {
	counts := dto.EntityCounts{}
	ids := make(map[string]int64, len(doc.Subjects))

	for _, backup := range doc.Subjects {
		existing, err := s.repos.SubjectRepository.GetByName(ctx, backup.Name)
		if err == nil {
			ids[backup.Name] = existing.ID
			counts.Skipped++
			continue
		}
		if !errors.Is(err, apperrors.ErrSubjectNotFound) {
			return nil, err
		}

		subject := &models.Subject{
			Name:        backup.Name,
			Description: backup.Description,
			Color:       backup.Color,
			IsActive:    backup.IsActive,
		}
		if subject.Color == "" {
			subject.Color = models.DefaultSubjectColor
		}
		if err := s.repos.SubjectRepository.Create(ctx, subject); err != nil {
			return nil, err
		}
		ids[backup.Name] = subject.ID
		counts.Created++
	}

	result.Counts["subjects"] = counts
	return ids, nil
}

func (s *BackupService) importTerms(ctx context.Context, doc *dto.BackupDocument, subjectIDs map[string]int64, result *dto.ImportResult) error {
	counts := dto.EntityCounts{}
	existing, err := s.repos.TermRepository.GetAll(ctx)
	if err != nil {
		return err
	}
	byKey := make(map[string]*models.Term, len(existing))
	for _, term := range existing {
		byKey[fmt.Sprintf("%s/%d", term.AcademicYear, term.TermOrder)] = term
	}

	for _, backup := range doc.Terms {
		key := fmt.Sprintf("%s/%d", backup.AcademicYear, backup.TermOrder)
		if _, ok := byKey[key]; ok {
			counts.Skipped++
			continue
		}

		start, err := parseDateOnly(backup.StartDate)
		if err != nil {
			result.Warnings = append(result.Warnings, fmt.Sprintf("term %q: bad start date", backup.Name))
			counts.Skipped++
			continue
		}
		end, err := parseDateOnly(backup.EndDate)
		if err != nil {
			result.Warnings = append(result.Warnings, fmt.Sprintf("term %q: bad end date", backup.Name))
			counts.Skipped++
			continue
		}

		termType := models.TermType(backup.TermType)
		if !termType.Valid() {
			termType = models.TermSemester
		}
		term := &models.Term{
			Name:         backup.Name,
			TermType:     termType,
			AcademicYear: backup.AcademicYear,
			TermOrder:    backup.TermOrder,
			StartDate:    start,
			EndDate:      end,
		}
		if err := s.repos.TermRepository.Create(ctx, term); err != nil {
			return err
		}
		for _, name := range backup.SubjectNames {
			if subjectID, ok := subjectIDs[name]; ok {
				if err := s.repos.TermRepository.AddSubject(ctx, term.ID, subjectID); err != nil {
					return err
				}
			}
		}
		counts.Created++
	}

	result.Counts["terms"] = counts
	return nil
}

func (s *BackupService) importTemplates(ctx context.Context, doc *dto.BackupDocument, subjectIDs map[string]int64, result *dto.ImportResult) (map[string]int64, error) {
	counts := dto.EntityCounts{}
	ids := make(map[string]int64, len(doc.Templates))

	for _, backup := range doc.Templates {
		subjectID, ok := subjectIDs[backup.SubjectName]
		if !ok {
			subject, _, err := s.subjectSvc.GetOrCreateByName(ctx, backup.SubjectName)
			if err != nil {
				return nil, err
			}
			subjectID = subject.ID
			subjectIDs[backup.SubjectName] = subjectID
		}

		exists, err := s.repos.TemplateRepository.ExistsByTitleAndSubject(ctx, backup.Title, subjectID)
		if err != nil {
			return nil, err
		}
		if exists {
			templates, err := s.repos.TemplateRepository.GetAll(ctx, dto.TemplateFilter{SubjectID: &subjectID})
			if err != nil {
				return nil, err
			}
			for _, template := range templates {
				if template.Title == backup.Title {
					ids[backup.Title] = template.ID
					break
				}
			}
			counts.Skipped++
			continue
		}

		assignmentType := models.AssignmentType(backup.AssignmentType)
		if !assignmentType.Valid() {
			assignmentType = models.TypeHomework
		}
		template := &models.AssignmentTemplate{
			Title:            backup.Title,
			Description:      backup.Description,
			SubjectID:        subjectID,
			AssignmentType:   assignmentType,
			MaxPoints:        backup.MaxPoints,
			EstimatedMinutes: backup.EstimatedMinutes,
			Instructions:     backup.Instructions,
		}
		if template.MaxPoints <= 0 {
			template.MaxPoints = DefaultTemplateMaxPoints
		}
		if err := s.repos.TemplateRepository.Create(ctx, template); err != nil {
			return nil, err
		}
		if backup.IsArchived {
			if err := s.repos.TemplateRepository.SetArchived(ctx, template.ID, true); err != nil {
				return nil, err
			}
		}
		ids[backup.Title] = template.ID
		counts.Created++
	}

	result.Counts["templates"] = counts
	return ids, nil
}

func (s *BackupService) importAssignments(ctx context.Context, doc *dto.BackupDocument, userIDs, templateIDs map[string]int64, result *dto.ImportResult) error {
	counts := dto.EntityCounts{}

	for _, backup := range doc.Assignments {
		studentID, okStudent := userIDs[backup.StudentUsername]
		templateID, okTemplate := templateIDs[backup.TemplateTitle]
		if !okStudent || !okTemplate {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("assignment %q/%q: unresolved reference", backup.TemplateTitle, backup.StudentUsername))
			counts.Skipped++
			continue
		}

		status := models.AssignmentStatus(backup.Status)
		if !status.Valid() {
			status = models.StatusNotStarted
		}
		assignment := &models.StudentAssignment{
			TemplateID: templateID,
			StudentID:  studentID,
			Status:     status,
		}
		if backup.DueDate != nil {
			if due, err := parseDateOnly(*backup.DueDate); err == nil {
				assignment.DueDate = &due
			}
		}

		err := s.repos.AssignmentRepository.Create(ctx, assignment)
		if err != nil {
			if errors.Is(err, apperrors.ErrAlreadyAssigned) {
				counts.Skipped++
				continue
			}
			return err
		}

		if backup.ExtendedDueDate != nil {
			if extended, err := parseDateOnly(*backup.ExtendedDueDate); err == nil {
				assignment.ExtendedDueDate = &extended
			}
		}
		if backup.StartedDate != nil {
			if started, err := parseDateOnly(*backup.StartedDate); err == nil {
				assignment.StartedDate = &started
			}
		}
		if backup.SubmittedDate != nil {
			if submitted, err := parseDateOnly(*backup.SubmittedDate); err == nil {
				assignment.SubmittedDate = &submitted
			}
		}
		assignment.Notes = backup.Notes
		if err := s.repos.AssignmentRepository.Update(ctx, assignment); err != nil {
			return err
		}

		if backup.PointsEarned != nil {
			assignment.PointsEarned = backup.PointsEarned
			assignment.CustomMaxPoints = backup.CustomMaxPoints
			assignment.TeacherFeedback = backup.TeacherFeedback
			if err := s.repos.AssignmentRepository.UpdateGrade(ctx, assignment); err != nil {
				return err
			}
		}
		counts.Created++
	}

	result.Counts["assignments"] = counts
	return nil
}

func (s *BackupService) importAttendance(ctx context.Context, doc *dto.BackupDocument, userIDs map[string]int64, result *dto.ImportResult) error {
	counts := dto.EntityCounts{}

	for _, backup := range doc.Attendance {
		studentID, ok := userIDs[backup.StudentUsername]
		if !ok {
			counts.Skipped++
			continue
		}
		date, err := parseDateOnly(backup.Date)
		if err != nil {
			counts.Skipped++
			continue
		}
		status := models.AttendanceStatus(backup.Status)
		if !status.Valid() {
			status = models.AttendancePresent
		}

		record := &models.AttendanceRecord{
			StudentID: studentID,
			Date:      date,
			Status:    status,
			Notes:     backup.Notes,
		}
		created, err := s.repos.AttendanceRepository.Upsert(ctx, record)
		if err != nil {
			return err
		}
		if created {
			counts.Created++
		} else {
			counts.Updated++
		}
	}

	result.Counts["attendance"] = counts
	return nil
}

func (s *BackupService) importJournal(ctx context.Context, doc *dto.BackupDocument, userIDs map[string]int64, result *dto.ImportResult) error {
	counts := dto.EntityCounts{}

	for _, backup := range doc.Journal {
		studentID, okStudent := userIDs[backup.StudentUsername]
		authorID, okAuthor := userIDs[backup.AuthorUsername]
		if !okStudent || !okAuthor {
			counts.Skipped++
			continue
		}
		entryDate, err := parseDateOnly(backup.EntryDate)
		if err != nil {
			counts.Skipped++
			continue
		}

		entry := &models.JournalEntry{
			StudentID: studentID,
			AuthorID:  authorID,
			Title:     backup.Title,
			Content:   backup.Content,
			EntryDate: entryDate,
		}
		if err := s.repos.JournalRepository.Create(ctx, entry); err != nil {
			return err
		}
		counts.Created++
	}

	result.Counts["journal"] = counts
	return nil
}

func (s *BackupService) importSettings(ctx context.Context, doc *dto.BackupDocument, result *dto.ImportResult) error {
	counts := dto.EntityCounts{}

	for _, backup := range doc.Settings {
		setting := &models.SystemSetting{
			Key:         backup.Key,
			Value:       backup.Value,
			ValueType:   backup.ValueType,
			Description: backup.Description,
		}
		if err := s.repos.SettingsRepository.Upsert(ctx, setting); err != nil {
			return err
		}
		counts.Updated++
	}

	result.Counts["settings"] = counts
	return nil
}
