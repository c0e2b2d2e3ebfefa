package helpers

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCalculateSliceIndices(t *testing.T) {
	tests := []struct {
		name       string
		page       int
		size       int
		totalItems int
		wantStart  int
		wantEnd    int
	}{
		{"first page", 1, 10, 25, 0, 10},
		{"middle page", 2, 10, 25, 10, 20},
		{"partial last page", 3, 10, 25, 20, 25},
		{"page beyond end clamps", 5, 10, 25, 25, 25},
		{"zero size falls back", 1, 0, 25, 0, 10},
		{"negative page treated as first", -1, 10, 25, 0, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end := CalculateSliceIndices(tt.page, tt.size, tt.totalItems)
			assert.Equal(t, tt.wantStart, start)
			assert.Equal(t, tt.wantEnd, end)
		})
	}
}

func TestNewPaginationInfo(t *testing.T) {
	info := NewPaginationInfo(25, 2, 10)
	assert.Equal(t, 2, info.CurrentPage)
	assert.Equal(t, 3, info.TotalPages)
	assert.Equal(t, 10, info.PageSize)
	assert.Equal(t, int64(25), info.TotalItems)

	empty := NewPaginationInfo(0, 1, 10)
	assert.Equal(t, 1, empty.TotalPages)

	clamped := NewPaginationInfo(5, 9, 10)
	assert.Equal(t, 1, clamped.CurrentPage)
}
