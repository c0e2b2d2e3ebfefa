package schoolcal

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestYearStart(t *testing.T) {
	tests := []struct {
		name string
		now  time.Time
		want time.Time
	}{
		{"autumn uses current year", date(2025, time.October, 15), date(2025, time.August, 1)},
		{"august 1 is its own start", date(2025, time.August, 1), date(2025, time.August, 1)},
		{"spring uses previous year", date(2026, time.March, 10), date(2025, time.August, 1)},
		{"july belongs to previous year", date(2026, time.July, 31), date(2025, time.August, 1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, YearStart(tt.now))
		})
	}
}

func TestSchoolDays(t *testing.T) {
	tests := []struct {
		name  string
		start time.Time
		end   time.Time
		want  int
	}{
		{"single weekday", date(2025, time.September, 1), date(2025, time.September, 1), 1},
		{"single saturday", date(2025, time.September, 6), date(2025, time.September, 6), 0},
		{"full week mon to sun", date(2025, time.September, 1), date(2025, time.September, 7), 5},
		{"two full weeks", date(2025, time.September, 1), date(2025, time.September, 14), 10},
		{"end before start", date(2025, time.September, 10), date(2025, time.September, 1), 0},
		{"weekend only", date(2025, time.September, 6), date(2025, time.September, 7), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SchoolDays(tt.start, tt.end))
		})
	}
}

func TestAttendanceRate(t *testing.T) {
	tests := []struct {
		name         string
		attended     int
		requiredDays int
		want         float64
	}{
		{"half of requirement", 90, 180, 50},
		{"full requirement", 180, 180, 100},
		{"over requirement capped", 200, 180, 100},
		{"zero required", 10, 0, 0},
		{"nothing attended", 0, 180, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, AttendanceRate(tt.attended, tt.requiredDays), 0.0001)
		})
	}
}
