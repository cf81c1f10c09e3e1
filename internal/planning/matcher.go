package planning

import (
	"fmt"

	"github.com/tigerswim/raceprep-sub001/internal/domain"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// WarningCode identifies a non-fatal data anomaly surfaced by the engine.
type WarningCode string

const (
	// WarnAmbiguousMatch means more than one completion referenced the
	// same planned workout. The first encountered wins; the rest are
	// ignored. This indicates a data-integrity issue worth surfacing to
	// operators, not a reason to fail the computation.
	WarnAmbiguousMatch WarningCode = "ambiguous_match"
)

// Warning is a non-fatal condition reported alongside a result.
type Warning struct {
	Code    WarningCode `json:"code"`
	Message string      `json:"message"`
}

// ScheduledWorkout pairs a template workout with its projected calendar
// date and its completion record, if one exists.
type ScheduledWorkout struct {
	Workout       domain.TemplateWorkout    `json:"workout"`
	Completion    *domain.WorkoutCompletion `json:"completion,omitempty"`
	ScheduledDate domain.Date               `json:"scheduledDate"`
	IsToday       bool                      `json:"isToday"`
	IsOverdue     bool                      `json:"isOverdue"`
}

// MatchCompletions associates each template workout with at most one
// completion by planned-workout id and projects its scheduled date from
// the plan start. Workouts and completions are not mutated.
//
// A planned workout with multiple completions yields a WarnAmbiguousMatch
// warning; the first completion in input order is used.
func MatchCompletions(
	start domain.Date,
	workouts []domain.TemplateWorkout,
	completions []domain.WorkoutCompletion,
	today domain.Date,
) ([]ScheduledWorkout, []Warning, error) {
	byWorkout := make(map[primitive.ObjectID]*domain.WorkoutCompletion, len(completions))
	var warnings []Warning
	for i := range completions {
		c := &completions[i]
		if c.PlannedWorkoutID == nil {
			continue // Unmatched completion, nothing to pair it with yet.
		}
		id := *c.PlannedWorkoutID
		if _, dup := byWorkout[id]; dup {
			warnings = append(warnings, Warning{
				Code:    WarnAmbiguousMatch,
				Message: fmt.Sprintf("planned workout %s has more than one completion; using the first", id.Hex()),
			})
			continue
		}
		byWorkout[id] = c
	}

	result := make([]ScheduledWorkout, 0, len(workouts))
	for _, w := range workouts {
		date, err := ProjectDate(start, w.WeekNumber, w.DayOfWeek)
		if err != nil {
			return nil, nil, fmt.Errorf("workout %s: %w", w.ID.Hex(), err)
		}
		completion := byWorkout[w.ID]
		result = append(result, ScheduledWorkout{
			Workout:       w,
			Completion:    completion,
			ScheduledDate: date,
			IsToday:       IsToday(date, today),
			IsOverdue:     IsOverdue(date, today, completion != nil && completion.Completed()),
		})
	}
	return result, warnings, nil
}
