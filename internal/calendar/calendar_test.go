package calendar

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNextMonth(t *testing.T) {
	tests := []struct {
		year, month         int
		wantYear, wantMonth int
	}{
		{2015, 12, 2016, 1},
		{2015, 6, 2015, 7},
		{2015, 1, 2015, 2},
	}

	for _, tt := range tests {
		y, m := NextMonth(tt.year, tt.month)
		assert.Equal(t, tt.wantYear, y)
		assert.Equal(t, tt.wantMonth, m)
	}
}

func TestPreviousMonth(t *testing.T) {
	tests := []struct {
		year, month         int
		wantYear, wantMonth int
	}{
		{2015, 1, 2014, 12},
		{2015, 6, 2015, 5},
		{2015, 12, 2015, 11},
	}

	for _, tt := range tests {
		y, m := PreviousMonth(tt.year, tt.month)
		assert.Equal(t, tt.wantYear, y)
		assert.Equal(t, tt.wantMonth, m)
	}
}

func TestMonthBounds(t *testing.T) {
	tests := []struct {
		name    string
		year    int
		month   int
		lastDay int
	}{
		{name: "leap february", year: 2016, month: 2, lastDay: 29},
		{name: "common february", year: 2015, month: 2, lastDay: 28},
		{name: "thirty days", year: 2015, month: 4, lastDay: 30},
		{name: "december", year: 2015, month: 12, lastDay: 31},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, err := MonthBounds(tt.year, tt.month)
			require.NoError(t, err)

			assert.Equal(t, time.Date(tt.year, time.Month(tt.month), 1, 0, 0, 1, 0, time.Local), w.Start)
			assert.Equal(t, time.Date(tt.year, time.Month(tt.month), tt.lastDay, 23, 59, 59, 0, time.Local), w.End)
		})
	}
}

func TestMonthBounds_Invalid(t *testing.T) {
	for _, month := range []int{0, 13, -1} {
		_, err := MonthBounds(2015, month)
		if !errors.Is(err, ErrInvalidWindow) {
			t.Fatalf("month %d: expected ErrInvalidWindow, got %v", month, err)
		}
	}
}

func TestWindowContains_InclusiveBounds(t *testing.T) {
	w, err := MonthBounds(2015, 2)
	require.NoError(t, err)

	assert.True(t, w.Contains(w.Start))
	assert.True(t, w.Contains(w.End))
	assert.False(t, w.Contains(w.Start.Add(-time.Second)))
	assert.False(t, w.Contains(w.End.Add(time.Second)))
}

func TestDayBounds(t *testing.T) {
	day := time.Date(2015, 2, 10, 14, 30, 0, 0, time.Local)
	w := DayBounds(day)

	assert.Equal(t, time.Date(2015, 2, 10, 0, 0, 0, 0, time.Local), w.Start)
	assert.Equal(t, time.Date(2015, 2, 10, 23, 59, 59, 0, time.Local), w.End)
	assert.True(t, w.Overlaps(w.Start.AddDate(0, 0, -3), w.Start))
	assert.False(t, w.Overlaps(w.Start.AddDate(0, 0, -3), w.Start.Add(-time.Second)))
}

func TestParseYearMonth(t *testing.T) {
	y, m, err := ParseYearMonth("2015", "2")
	require.NoError(t, err)
	assert.Equal(t, 2015, y)
	assert.Equal(t, 2, m)

	_, _, err = ParseYearMonth("abc", "2")
	assert.ErrorIs(t, err, ErrInvalidWindow)

	_, _, err = ParseYearMonth("2015", "13")
	assert.ErrorIs(t, err, ErrInvalidWindow)
}
