package helpers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTimeAgo(t *testing.T) {
	now := time.Date(2025, time.September, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		at   time.Time
		want string
	}{
		{"seconds ago", now.Add(-30 * time.Second), "just now"},
		{"minutes ago", now.Add(-5 * time.Minute), "5m ago"},
		{"hours ago", now.Add(-3 * time.Hour), "3h ago"},
		{"days ago", now.Add(-48 * time.Hour), "2d ago"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TimeAgo(tt.at, now))
		})
	}
}

func TestFormatMonthDay(t *testing.T) {
	assert.Equal(t, "09/05", FormatMonthDay(time.Date(2025, time.September, 5, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "12/31", FormatMonthDay(time.Date(2025, time.December, 31, 0, 0, 0, 0, time.UTC)))
}

func TestParseDuration(t *testing.T) {
	assert.Equal(t, 2*time.Hour, ParseDuration("2h", time.Minute))
	assert.Equal(t, time.Minute, ParseDuration("bogus", time.Minute))
}
