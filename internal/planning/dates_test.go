package planning_test

import (
	"testing"
	"time"

	"github.com/tigerswim/raceprep-sub001/internal/domain"
	"github.com/tigerswim/raceprep-sub001/internal/planning"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProjectDate(t *testing.T) {
	// Monday 2025-01-06.
	start := domain.NewDate(2025, time.January, 6)

	testCases := []struct {
		name       string
		weekNumber int
		dayOfWeek  int
		expected   domain.Date
	}{
		{
			name:       "week 1 day 1 is the start date",
			weekNumber: 1,
			dayOfWeek:  1,
			expected:   start,
		},
		{
			name:       "week 2 day 3",
			weekNumber: 2,
			dayOfWeek:  3,
			expected:   domain.NewDate(2025, time.January, 15),
		},
		{
			name:       "week 1 day 7 ends the first week",
			weekNumber: 1,
			dayOfWeek:  7,
			expected:   domain.NewDate(2025, time.January, 12),
		},
		{
			name:       "projection crosses a month boundary",
			weekNumber: 4,
			dayOfWeek:  7,
			expected:   domain.NewDate(2025, time.February, 2),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := planning.ProjectDate(start, tc.weekNumber, tc.dayOfWeek)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, got)

			// Same inputs, same output: projection holds no hidden state.
			again, err := planning.ProjectDate(start, tc.weekNumber, tc.dayOfWeek)
			require.NoError(t, err)
			assert.Equal(t, got, again)
		})
	}
}

func TestProjectDate_InvalidArguments(t *testing.T) {
	start := domain.NewDate(2025, time.January, 6)

	for _, tc := range []struct {
		name       string
		weekNumber int
		dayOfWeek  int
	}{
		{"week zero", 0, 1},
		{"negative week", -3, 1},
		{"day zero", 1, 0},
		{"day eight", 1, 8},
	} {
		t.Run(tc.name, func(t *testing.T) {
			_, err := planning.ProjectDate(start, tc.weekNumber, tc.dayOfWeek)
			require.Error(t, err)
			assert.ErrorIs(t, err, planning.ErrInvalidArgument)
		})
	}
}

func TestWeekBounds(t *testing.T) {
	start := domain.NewDate(2025, time.June, 2) // Monday

	weekStart, weekEnd, err := planning.WeekBounds(start, 1)
	require.NoError(t, err)
	assert.Equal(t, start, weekStart)
	assert.Equal(t, domain.NewDate(2025, time.June, 8), weekEnd)

	weekStart, weekEnd, err = planning.WeekBounds(start, 3)
	require.NoError(t, err)
	assert.Equal(t, domain.NewDate(2025, time.June, 16), weekStart)
	assert.Equal(t, domain.NewDate(2025, time.June, 22), weekEnd)

	_, _, err = planning.WeekBounds(start, 0)
	assert.ErrorIs(t, err, planning.ErrInvalidArgument)
}

func TestIsTodayAndIsOverdue(t *testing.T) {
	today := domain.NewDate(2025, time.March, 10)

	assert.True(t, planning.IsToday(today, today))
	assert.False(t, planning.IsToday(today.AddDays(-1), today))

	// Overdue needs both a past date and no completion.
	assert.True(t, planning.IsOverdue(today.AddDays(-1), today, false))
	assert.False(t, planning.IsOverdue(today.AddDays(-1), today, true))
	assert.False(t, planning.IsOverdue(today, today, false))
	assert.False(t, planning.IsOverdue(today.AddDays(1), today, false))
}
