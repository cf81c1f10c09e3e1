package planning

import (
	"fmt"
	"math"
	"sort"

	"github.com/tigerswim/raceprep-sub001/internal/domain"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Match-confidence thresholds. A candidate below MinMatchConfidence is
// discarded outright.
const (
	MinMatchConfidence    = 40
	HighMatchConfidence   = 80
	MediumMatchConfidence = 50
)

// ActivityMatch is a scored pairing of a synced activity with a planned
// workout awaiting completion.
type ActivityMatch struct {
	Workout      ScheduledWorkout `json:"workout"`
	Activity     domain.Activity  `json:"activity"`
	Confidence   int              `json:"confidence"`
	MatchReasons []string         `json:"matchReasons"`
	Warnings     []string         `json:"warnings,omitempty"`
}

// MatchReview groups candidate matches by confidence for user review,
// along with whatever could not be paired.
type MatchReview struct {
	HighConfidence      []ActivityMatch    `json:"highConfidence"`
	MediumConfidence    []ActivityMatch    `json:"mediumConfidence"`
	LowConfidence       []ActivityMatch    `json:"lowConfidence"`
	UnmatchedActivities []domain.Activity  `json:"unmatchedActivities"`
	UnmatchedWorkouts   []ScheduledWorkout `json:"unmatchedWorkouts"`
}

// ScoreMatch computes a 0-100 confidence that activity is the recorded
// execution of workout. Points: date proximity up to 40, discipline 30,
// duration similarity up to 20, distance similarity up to 10.
func ScoreMatch(workout ScheduledWorkout, activity domain.Activity, userLocation ActivityDateFunc) ActivityMatch {
	match := ActivityMatch{Workout: workout, Activity: activity}

	activityDate := userLocation(activity)
	daysApart := workout.ScheduledDate.DaysUntil(activityDate)
	if daysApart < 0 {
		daysApart = -daysApart
	}
	switch {
	case daysApart == 0:
		match.Confidence += 40
		match.MatchReasons = append(match.MatchReasons, "Same day")
	case daysApart == 1:
		match.Confidence += 30
		match.MatchReasons = append(match.MatchReasons, "Within 1 day")
	case daysApart == 2:
		match.Confidence += 20
		match.MatchReasons = append(match.MatchReasons, "Within 2 days")
	case daysApart == 3:
		match.Confidence += 10
		match.Warnings = append(match.Warnings, fmt.Sprintf("%d days apart", daysApart))
	}

	if discipline, ok := activity.Discipline(); ok && discipline == workout.Workout.Discipline {
		match.Confidence += 30
		match.MatchReasons = append(match.MatchReasons, fmt.Sprintf("Matching discipline: %s", activity.SportType))
	} else {
		match.Warnings = append(match.Warnings, "Different discipline")
	}

	if workout.Workout.DurationMinutes > 0 && activity.MovingTimeSeconds > 0 {
		planned := float64(workout.Workout.DurationMinutes)
		actual := float64(activity.MovingTimeSeconds) / 60
		diff := math.Abs(planned-actual) / planned
		switch {
		case diff <= 0.1:
			match.Confidence += 20
			match.MatchReasons = append(match.MatchReasons, "Duration matches closely")
		case diff <= 0.2:
			match.Confidence += 15
			match.MatchReasons = append(match.MatchReasons, "Duration similar")
		case diff <= 0.3:
			match.Confidence += 10
			match.Warnings = append(match.Warnings, fmt.Sprintf("Duration differs by %d%%", int(math.Round(diff*100))))
		default:
			match.Warnings = append(match.Warnings, "Duration differs significantly")
		}
	}

	if workout.Workout.DistanceMiles > 0 && activity.DistanceMeters > 0 {
		planned := workout.Workout.DistanceMiles
		actual := activity.DistanceMilesValue()
		diff := math.Abs(planned-actual) / planned
		switch {
		case diff <= 0.1:
			match.Confidence += 10
			match.MatchReasons = append(match.MatchReasons, "Distance matches")
		case diff <= 0.2:
			match.Confidence += 5
		default:
			match.Warnings = append(match.Warnings, "Distance differs")
		}
	}

	return match
}

// ActivityDateFunc converts an activity's start instant to a calendar
// date. The timezone policy lives with the caller; the scorer only ever
// sees dates.
type ActivityDateFunc func(domain.Activity) domain.Date

// FindMatches scores every (workout, activity) pair and greedily keeps
// the highest-confidence pairing per workout and per activity. Workouts
// that already have a dated completion should be excluded by the caller.
func FindMatches(workouts []ScheduledWorkout, activities []domain.Activity, activityDate ActivityDateFunc) MatchReview {
	var candidates []ActivityMatch
	for _, w := range workouts {
		for _, a := range activities {
			m := ScoreMatch(w, a, activityDate)
			if m.Confidence >= MinMatchConfidence {
				candidates = append(candidates, m)
			}
		}
	}

	// Highest confidence first; ties broken by activity recency so the
	// ordering is deterministic for equal scores.
	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].Confidence != candidates[j].Confidence {
			return candidates[i].Confidence > candidates[j].Confidence
		}
		return candidates[i].Activity.StartDate.After(candidates[j].Activity.StartDate)
	})

	matchedWorkouts := make(map[primitive.ObjectID]bool)
	matchedActivities := make(map[int64]bool)
	var best []ActivityMatch
	for _, m := range candidates {
		if matchedWorkouts[m.Workout.Workout.ID] || matchedActivities[m.Activity.ExternalID] {
			continue
		}
		matchedWorkouts[m.Workout.Workout.ID] = true
		matchedActivities[m.Activity.ExternalID] = true
		best = append(best, m)
	}

	review := MatchReview{
		HighConfidence:      []ActivityMatch{},
		MediumConfidence:    []ActivityMatch{},
		LowConfidence:       []ActivityMatch{},
		UnmatchedActivities: []domain.Activity{},
		UnmatchedWorkouts:   []ScheduledWorkout{},
	}
	for _, m := range best {
		switch {
		case m.Confidence >= HighMatchConfidence:
			review.HighConfidence = append(review.HighConfidence, m)
		case m.Confidence >= MediumMatchConfidence:
			review.MediumConfidence = append(review.MediumConfidence, m)
		default:
			review.LowConfidence = append(review.LowConfidence, m)
		}
	}
	for _, a := range activities {
		if !matchedActivities[a.ExternalID] {
			review.UnmatchedActivities = append(review.UnmatchedActivities, a)
		}
	}
	for _, w := range workouts {
		if !matchedWorkouts[w.Workout.ID] {
			review.UnmatchedWorkouts = append(review.UnmatchedWorkouts, w)
		}
	}
	return review
}
