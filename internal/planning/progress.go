package planning

import (
	"github.com/tigerswim/raceprep-sub001/internal/domain"
)

// DefaultUpcomingDays is the horizon for the upcoming-workouts list when
// the caller does not specify one.
const DefaultUpcomingDays = 7

// ProgressSummary is the derived, on-demand view of a plan's progress.
// It is never persisted; recompute it from the plan, its template
// workouts, and its completions.
type ProgressSummary struct {
	PlanID            string             `json:"planId"`
	CurrentWeek       int                `json:"currentWeek"`
	TotalWeeks        int                `json:"totalWeeks"`
	CompletedWorkouts int                `json:"completedWorkouts"`
	TotalWorkouts     int                `json:"totalWorkouts"`
	CompletionRate    float64            `json:"completionRate"` // Percent
	AdherenceRate     float64            `json:"adherenceRate"`  // Percent
	UpcomingWorkouts  []ScheduledWorkout `json:"upcomingWorkouts"`
}

// ComputeProgress builds the progress summary for a plan from its full
// set of template workouts and completion records. horizonDays bounds the
// upcoming-workouts window, [today, today+horizonDays]; values <= 0 fall
// back to DefaultUpcomingDays.
//
// Degenerate inputs are not errors: a plan with no workouts or no
// completions produces a summary with all rates at zero. CurrentWeek is
// read from the plan entity as-is; it is advanced elsewhere.
func ComputeProgress(
	plan domain.TrainingPlan,
	totalWeeks int,
	workouts []domain.TemplateWorkout,
	completions []domain.WorkoutCompletion,
	today domain.Date,
	horizonDays int,
) (ProgressSummary, []Warning, error) {
	if horizonDays <= 0 {
		horizonDays = DefaultUpcomingDays
	}

	totalWorkouts := len(workouts)
	completedWorkouts := 0
	for _, c := range completions {
		if !c.Skipped {
			completedWorkouts++
		}
	}

	completionRate := 0.0
	if totalWorkouts > 0 {
		completionRate = float64(completedWorkouts) / float64(totalWorkouts) * 100
	}

	adherence := AggregateAdherence(completions)

	scheduled, warnings, err := MatchCompletions(plan.StartDate, workouts, completions, today)
	if err != nil {
		return ProgressSummary{}, nil, err
	}
	horizon := today.AddDays(horizonDays)
	upcoming := make([]ScheduledWorkout, 0)
	for _, sw := range scheduled {
		if !sw.ScheduledDate.Before(today) && !sw.ScheduledDate.After(horizon) {
			upcoming = append(upcoming, sw)
		}
	}

	return ProgressSummary{
		PlanID:            plan.ID.Hex(),
		CurrentWeek:       plan.CurrentWeek,
		TotalWeeks:        totalWeeks,
		CompletedWorkouts: completedWorkouts,
		TotalWorkouts:     totalWorkouts,
		CompletionRate:    completionRate,
		AdherenceRate:     adherence.AdherenceRate,
		UpcomingWorkouts:  upcoming,
	}, warnings, nil
}

// WeekSchedule aggregates one plan week for calendar views.
type WeekSchedule struct {
	WeekNumber           int                `json:"weekNumber"`
	StartDate            domain.Date        `json:"startDate"`
	EndDate              domain.Date        `json:"endDate"`
	Workouts             []ScheduledWorkout `json:"workouts"`
	TotalDurationMinutes int                `json:"totalDurationMinutes"`
	TotalDistanceMiles   float64            `json:"totalDistanceMiles"`
	CompletionRate       float64            `json:"completionRate"` // Percent
}

// BuildWeekSchedule assembles the schedule for a single plan week from the
// workouts of that week (already matched with their completions). A week
// with no workouts yields a zero completion rate.
func BuildWeekSchedule(start domain.Date, weekNumber int, workouts []ScheduledWorkout) (WeekSchedule, error) {
	weekStart, weekEnd, err := WeekBounds(start, weekNumber)
	if err != nil {
		return WeekSchedule{}, err
	}

	schedule := WeekSchedule{
		WeekNumber: weekNumber,
		StartDate:  weekStart,
		EndDate:    weekEnd,
		Workouts:   workouts,
	}
	completed := 0
	for _, sw := range workouts {
		schedule.TotalDurationMinutes += sw.Workout.DurationMinutes
		schedule.TotalDistanceMiles += sw.Workout.DistanceMiles
		if sw.Completion != nil && !sw.Completion.Skipped {
			completed++
		}
	}
	if len(workouts) > 0 {
		schedule.CompletionRate = float64(completed) / float64(len(workouts)) * 100
	}
	return schedule, nil
}
