package schoolcal

import "time"

// YearStart returns the previous August 1st, the conventional start of
// the school year.
func YearStart(now time.Time) time.Time {
	year := now.Year()
	if now.Month() < time.August {
		year--
	}
	return time.Date(year, time.August, 1, 0, 0, 0, 0, time.UTC)
}

// SchoolDays counts the weekdays between start and end inclusive.
// Weekends are not instruction days; holidays are not modelled.
func SchoolDays(start, end time.Time) int {
	if end.Before(start) {
		return 0
	}

	days := 0
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		switch d.Weekday() {
		case time.Saturday, time.Sunday:
		default:
			days++
		}
	}
	return days
}

// AttendanceRate computes the attendance percentage against the required
// days of instruction. Days attended counts present, late and excused days.
func AttendanceRate(daysAttended, requiredDays int) float64 {
	if requiredDays <= 0 {
		return 0
	}
	rate := float64(daysAttended) / float64(requiredDays) * 100
	if rate > 100 {
		return 100
	}
	return rate
}
