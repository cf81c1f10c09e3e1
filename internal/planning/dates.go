// Package planning contains the training plan progress engine: projecting
// template workouts onto calendar dates, pairing them with completion
// records, classifying adherence, and aggregating overall plan progress.
//
// Everything in this package is pure computation over in-memory records.
// There is no I/O, no clock access (callers pass "today" explicitly), and
// no shared state, so all functions are safe to call concurrently.
package planning

import (
	"errors"
	"fmt"

	"github.com/tigerswim/raceprep-sub001/internal/domain"
)

// ErrInvalidArgument reports a caller contract violation: an out-of-domain
// week number or day of week. Checked before any computation.
var ErrInvalidArgument = errors.New("invalid argument")

// ProjectDate computes the calendar date a template workout falls on for a
// plan starting at start. weekNumber is 1-based; dayOfWeek runs 1-7 with
// day 1 landing on the start date itself.
func ProjectDate(start domain.Date, weekNumber, dayOfWeek int) (domain.Date, error) {
	if weekNumber < 1 {
		return domain.Date{}, fmt.Errorf("%w: week number %d, must be >= 1", ErrInvalidArgument, weekNumber)
	}
	if dayOfWeek < 1 || dayOfWeek > 7 {
		return domain.Date{}, fmt.Errorf("%w: day of week %d, must be 1-7", ErrInvalidArgument, dayOfWeek)
	}
	return start.AddDays((weekNumber-1)*7 + (dayOfWeek - 1)), nil
}

// WeekBounds returns the first and last date of the given plan week,
// inclusive on both ends.
func WeekBounds(start domain.Date, weekNumber int) (domain.Date, domain.Date, error) {
	if weekNumber < 1 {
		return domain.Date{}, domain.Date{}, fmt.Errorf("%w: week number %d, must be >= 1", ErrInvalidArgument, weekNumber)
	}
	weekStart := start.AddDays((weekNumber - 1) * 7)
	return weekStart, weekStart.AddDays(6), nil
}

// IsToday reports whether date equals the supplied current date.
func IsToday(date, today domain.Date) bool {
	return date.Equal(today)
}

// IsOverdue reports whether a workout scheduled for date is overdue:
// strictly before today and still without a recorded completion. Overdue
// is a joint function of the date and the completion state, not the date
// alone.
func IsOverdue(date, today domain.Date, completed bool) bool {
	return date.Before(today) && !completed
}
