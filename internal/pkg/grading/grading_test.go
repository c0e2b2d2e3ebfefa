package grading

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLetterGrade(t *testing.T) {
	tests := []struct {
		name       string
		percentage float64
		want       string
	}{
		{"perfect score", 100, "A+"},
		{"a plus boundary", 97, "A+"},
		{"just below a plus", 96.9, "A"},
		{"a boundary", 93, "A"},
		{"a minus boundary", 90, "A-"},
		{"b plus boundary", 87, "B+"},
		{"b boundary", 83, "B"},
		{"b minus boundary", 80, "B-"},
		{"c plus boundary", 77, "C+"},
		{"c boundary", 73, "C"},
		{"c minus boundary", 70, "C-"},
		{"d plus boundary", 67, "D+"},
		{"d boundary", 63, "D"},
		{"d minus boundary", 60, "D-"},
		{"failing", 59.9, "F"},
		{"zero", 0, "F"},
		{"over one hundred", 105, "A+"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, LetterGrade(tt.percentage))
		})
	}
}

func TestPercentage(t *testing.T) {
	tests := []struct {
		name     string
		earned   float64
		possible float64
		want     float64
	}{
		{"full marks", 100, 100, 100},
		{"half marks", 25, 50, 50},
		{"zero possible", 10, 0, 0},
		{"negative possible", 10, -5, 0},
		{"extra credit", 110, 100, 110},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Percentage(tt.earned, tt.possible), 0.0001)
		})
	}
}
