package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsAcademicYear(t *testing.T) {
	tests := []struct {
		value string
		want  bool
	}{
		{"2025-2026", true},
		{"1999-2000", true},
		{"2025-2027", false},
		{"2026-2025", false},
		{"2025/2026", false},
		{"2025", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			assert.Equal(t, tt.want, IsAcademicYear(tt.value))
		})
	}
}
