package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func datePtr(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func float64Ptr(f float64) *float64 { return &f }
func intPtr(i int) *int             { return &i }

func TestStudentAssignmentResolveStatus(t *testing.T) {
	today := time.Date(2025, time.October, 10, 15, 0, 0, 0, time.UTC)

	tests := []struct {
		name       string
		assignment StudentAssignment
		want       AssignmentStatus
	}{
		{
			name:       "untouched with future due date",
			assignment: StudentAssignment{Status: StatusNotStarted, DueDate: datePtr(2025, time.October, 20)},
			want:       StatusNotStarted,
		},
		{
			name:       "untouched past due date",
			assignment: StudentAssignment{Status: StatusNotStarted, DueDate: datePtr(2025, time.October, 1)},
			want:       StatusOverdue,
		},
		{
			name: "extension moves due date back in bounds",
			assignment: StudentAssignment{
				Status:          StatusNotStarted,
				DueDate:         datePtr(2025, time.October, 1),
				ExtendedDueDate: datePtr(2025, time.October, 15),
			},
			want: StatusNotStarted,
		},
		{
			name:       "due today is not overdue",
			assignment: StudentAssignment{Status: StatusNotStarted, DueDate: datePtr(2025, time.October, 10)},
			want:       StatusNotStarted,
		},
		{
			name: "started work beats overdue",
			assignment: StudentAssignment{
				Status:      StatusInProgress,
				DueDate:     datePtr(2025, time.October, 1),
				StartedDate: datePtr(2025, time.September, 28),
			},
			want: StatusInProgress,
		},
		{
			name: "submission beats overdue",
			assignment: StudentAssignment{
				Status:        StatusSubmitted,
				DueDate:       datePtr(2025, time.October, 1),
				SubmittedDate: datePtr(2025, time.October, 5),
			},
			want: StatusSubmitted,
		},
		{
			name: "grade beats everything",
			assignment: StudentAssignment{
				Status:        StatusGraded,
				DueDate:       datePtr(2025, time.October, 1),
				SubmittedDate: datePtr(2025, time.October, 5),
				PointsEarned:  float64Ptr(88),
			},
			want: StatusGraded,
		},
		{
			name:       "excused stays excused",
			assignment: StudentAssignment{Status: StatusExcused, DueDate: datePtr(2025, time.October, 1)},
			want:       StatusExcused,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.assignment.ResolveStatus(today))
		})
	}
}

func TestStudentAssignmentMaxPoints(t *testing.T) {
	tmpl := &AssignmentTemplate{MaxPoints: 100}

	base := StudentAssignment{Template: tmpl}
	assert.Equal(t, 100, base.MaxPoints())

	override := StudentAssignment{Template: tmpl, CustomMaxPoints: intPtr(50)}
	assert.Equal(t, 50, override.MaxPoints())

	noTemplate := StudentAssignment{}
	assert.Equal(t, 0, noTemplate.MaxPoints())
}

func TestStudentAssignmentEffectiveDueDate(t *testing.T) {
	due := datePtr(2025, time.October, 1)
	extended := datePtr(2025, time.October, 15)

	a := StudentAssignment{DueDate: due}
	assert.Equal(t, due, a.EffectiveDueDate())

	a.ExtendedDueDate = extended
	assert.Equal(t, extended, a.EffectiveDueDate())
}
