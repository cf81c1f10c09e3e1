package planning

import (
	"github.com/tigerswim/raceprep-sub001/internal/domain"
)

// CompletionStatus classifies a completion record against its schedule.
type CompletionStatus string

const (
	StatusOnTime  CompletionStatus = "on_time"
	StatusLate    CompletionStatus = "late"
	StatusSkipped CompletionStatus = "skipped"
	StatusPending CompletionStatus = "pending"
)

// GraceDays is the tolerance after the scheduled date within which a
// completion still counts as on time.
const GraceDays = 1

// Classify determines the adherence status of a single completion.
// The skip flag takes precedence: a skipped completion is Skipped even if
// a completion date was recorded. Completing early (before the scheduled
// date) is on time; early effort is not penalized.
func Classify(c domain.WorkoutCompletion) CompletionStatus {
	if c.Skipped {
		return StatusSkipped
	}
	if c.CompletedDate == nil {
		return StatusPending
	}
	if c.ScheduledDate.DaysUntil(*c.CompletedDate) <= GraceDays {
		return StatusOnTime
	}
	return StatusLate
}

// AdherenceReport aggregates completion classifications for a set of
// scheduled workouts.
type AdherenceReport struct {
	TotalScheduled  int     `json:"totalScheduled"`
	CompletedOnTime int     `json:"completedOnTime"`
	CompletedLate   int     `json:"completedLate"`
	Skipped         int     `json:"skipped"`
	Pending         int     `json:"pending"`
	AdherenceRate   float64 `json:"adherenceRate"` // Percent
}

// AggregateAdherence classifies every completion and computes the
// adherence rate: on-time completions over all dated, non-skipped
// completions, as a percentage. An empty denominator yields rate 0.
func AggregateAdherence(completions []domain.WorkoutCompletion) AdherenceReport {
	report := AdherenceReport{TotalScheduled: len(completions)}
	for _, c := range completions {
		switch Classify(c) {
		case StatusOnTime:
			report.CompletedOnTime++
		case StatusLate:
			report.CompletedLate++
		case StatusSkipped:
			report.Skipped++
		case StatusPending:
			report.Pending++
		}
	}
	if denom := report.CompletedOnTime + report.CompletedLate; denom > 0 {
		report.AdherenceRate = float64(report.CompletedOnTime) / float64(denom) * 100
	}
	return report
}

// FilterScheduledSince returns the completions scheduled on or after
// cutoff. Callers wanting a trailing window (e.g. the last N weeks) apply
// this before aggregating; AggregateAdherence itself never filters.
func FilterScheduledSince(completions []domain.WorkoutCompletion, cutoff domain.Date) []domain.WorkoutCompletion {
	filtered := make([]domain.WorkoutCompletion, 0, len(completions))
	for _, c := range completions {
		if !c.ScheduledDate.Before(cutoff) {
			filtered = append(filtered, c)
		}
	}
	return filtered
}
