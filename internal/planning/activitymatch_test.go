package planning_test

import (
	"testing"
	"time"

	"github.com/tigerswim/raceprep-sub001/internal/domain"
	"github.com/tigerswim/raceprep-sub001/internal/planning"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func utcActivityDate(a domain.Activity) domain.Date {
	return domain.DateIn(a.StartDate, time.UTC)
}

func scheduledRun(date domain.Date, minutes int, miles float64) planning.ScheduledWorkout {
	return planning.ScheduledWorkout{
		Workout: domain.TemplateWorkout{
			ID:              primitive.NewObjectID(),
			Discipline:      domain.DisciplineRun,
			DurationMinutes: minutes,
			DistanceMiles:   miles,
		},
		ScheduledDate: date,
	}
}

func TestScoreMatch_PerfectMatch(t *testing.T) {
	date := domain.NewDate(2025, time.June, 4)
	workout := scheduledRun(date, 60, 6)
	activity := domain.Activity{
		ExternalID:        101,
		SportType:         "Run",
		StartDate:         time.Date(2025, time.June, 4, 7, 30, 0, 0, time.UTC),
		MovingTimeSeconds: 60 * 60,
		DistanceMeters:    6 * 1609.34,
	}

	match := planning.ScoreMatch(workout, activity, utcActivityDate)
	// Same day 40 + discipline 30 + duration 20 + distance 10.
	assert.Equal(t, 100, match.Confidence)
	assert.Contains(t, match.MatchReasons, "Same day")
	assert.Empty(t, match.Warnings)
}

func TestScoreMatch_DayOffsetsAndDisciplineMismatch(t *testing.T) {
	date := domain.NewDate(2025, time.June, 4)
	workout := scheduledRun(date, 0, 0) // no planned duration/distance

	makeActivity := func(day int, sport string) domain.Activity {
		return domain.Activity{
			SportType: sport,
			StartDate: time.Date(2025, time.June, day, 9, 0, 0, 0, time.UTC),
		}
	}

	sameDay := planning.ScoreMatch(workout, makeActivity(4, "Run"), utcActivityDate)
	assert.Equal(t, 70, sameDay.Confidence)

	oneOff := planning.ScoreMatch(workout, makeActivity(5, "Run"), utcActivityDate)
	assert.Equal(t, 60, oneOff.Confidence)

	twoOff := planning.ScoreMatch(workout, makeActivity(6, "Run"), utcActivityDate)
	assert.Equal(t, 50, twoOff.Confidence)

	threeOff := planning.ScoreMatch(workout, makeActivity(7, "Run"), utcActivityDate)
	assert.Equal(t, 40, threeOff.Confidence)
	assert.Contains(t, threeOff.Warnings, "3 days apart")

	farOff := planning.ScoreMatch(workout, makeActivity(12, "Run"), utcActivityDate)
	assert.Equal(t, 30, farOff.Confidence) // discipline only

	wrongSport := planning.ScoreMatch(workout, makeActivity(4, "Swim"), utcActivityDate)
	assert.Equal(t, 40, wrongSport.Confidence) // date only
	assert.Contains(t, wrongSport.Warnings, "Different discipline")
}

func TestScoreMatch_VirtualRideCountsAsBike(t *testing.T) {
	date := domain.NewDate(2025, time.June, 4)
	workout := planning.ScheduledWorkout{
		Workout: domain.TemplateWorkout{
			ID:         primitive.NewObjectID(),
			Discipline: domain.DisciplineBike,
		},
		ScheduledDate: date,
	}
	activity := domain.Activity{
		SportType: "VirtualRide",
		StartDate: time.Date(2025, time.June, 4, 18, 0, 0, 0, time.UTC),
	}

	match := planning.ScoreMatch(workout, activity, utcActivityDate)
	assert.Equal(t, 70, match.Confidence)
}

func TestFindMatches_GreedyBestPairing(t *testing.T) {
	day := domain.NewDate(2025, time.June, 4)
	runA := scheduledRun(day, 60, 6)
	runB := scheduledRun(day.AddDays(1), 60, 6)

	// One activity that fits both workouts; the same-day one must win.
	activity := domain.Activity{
		ExternalID:        7,
		SportType:         "Run",
		StartDate:         time.Date(2025, time.June, 4, 6, 0, 0, 0, time.UTC),
		MovingTimeSeconds: 3600,
		DistanceMeters:    6 * 1609.34,
	}

	review := planning.FindMatches(
		[]planning.ScheduledWorkout{runB, runA},
		[]domain.Activity{activity},
		utcActivityDate,
	)

	require.Len(t, review.HighConfidence, 1)
	assert.Equal(t, runA.Workout.ID, review.HighConfidence[0].Workout.Workout.ID)
	assert.Empty(t, review.UnmatchedActivities)
	require.Len(t, review.UnmatchedWorkouts, 1)
	assert.Equal(t, runB.Workout.ID, review.UnmatchedWorkouts[0].Workout.ID)
}

func TestFindMatches_BelowThresholdDiscarded(t *testing.T) {
	workout := scheduledRun(domain.NewDate(2025, time.June, 4), 0, 0)
	// Wrong discipline and weeks away from the slot.
	activity := domain.Activity{
		ExternalID: 9,
		SportType:  "Swim",
		StartDate:  time.Date(2025, time.June, 20, 6, 0, 0, 0, time.UTC),
	}

	review := planning.FindMatches([]planning.ScheduledWorkout{workout}, []domain.Activity{activity}, utcActivityDate)
	assert.Empty(t, review.HighConfidence)
	assert.Empty(t, review.MediumConfidence)
	assert.Empty(t, review.LowConfidence)
	assert.Len(t, review.UnmatchedWorkouts, 1)
	assert.Len(t, review.UnmatchedActivities, 1)
}

func TestFindMatches_NoActivities(t *testing.T) {
	workout := scheduledRun(domain.NewDate(2025, time.June, 4), 45, 5)
	review := planning.FindMatches([]planning.ScheduledWorkout{workout}, nil, utcActivityDate)
	assert.Empty(t, review.HighConfidence)
	assert.Len(t, review.UnmatchedWorkouts, 1)
	assert.Empty(t, review.UnmatchedActivities)
}
