package service

import (
	"context"
	"testing"
	"time"

	"github.com/tigerswim/raceprep-sub001/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type activityFixture struct {
	svc      *activityService
	userID   primitive.ObjectID
	planID   primitive.ObjectID
	workouts []domain.TemplateWorkout
}

// newActivityFixture seeds a user, a two-week template and an active plan
// starting Monday 2025-06-02, with the clock pinned to 2025-06-04 12:00 UTC.
func newActivityFixture(t *testing.T) *activityFixture {
	t.Helper()
	ctx := context.Background()

	userRepo := newFakeUserRepo()
	templateRepo := newFakeTemplateRepo()
	planRepo := newFakePlanRepo()
	completionRepo := newFakeCompletionRepo()
	activityRepo := newFakeActivityRepo()

	user := &domain.User{Name: "Ana", Email: "ana@example.com", PasswordHash: "x", Role: domain.RoleAthlete}
	userID, err := userRepo.Create(ctx, user)
	require.NoError(t, err)

	template := &domain.PlanTemplate{
		Name: "Sprint Test", Slug: "sprint-test",
		DistanceType: domain.DistanceSprint, ExperienceLevel: domain.LevelBeginner,
		DurationWeeks: 2, IsActive: true,
	}
	templateID, err := templateRepo.Create(ctx, template)
	require.NoError(t, err)
	workouts := []domain.TemplateWorkout{
		{TemplateID: templateID, WeekNumber: 1, DayOfWeek: 1, Discipline: domain.DisciplineSwim, DurationMinutes: 30},
		{TemplateID: templateID, WeekNumber: 1, DayOfWeek: 3, Discipline: domain.DisciplineBike, DurationMinutes: 60, DistanceMiles: 15},
		{TemplateID: templateID, WeekNumber: 2, DayOfWeek: 1, Discipline: domain.DisciplineRun, DurationMinutes: 45, DistanceMiles: 5},
	}
	require.NoError(t, templateRepo.CreateWorkouts(ctx, workouts))
	workouts, err = templateRepo.GetWorkouts(ctx, templateID)
	require.NoError(t, err)

	plan := &domain.TrainingPlan{
		UserID:      userID,
		TemplateID:  templateID,
		PlanName:    "Sprint Test",
		StartDate:   domain.NewDate(2025, time.June, 2),
		EndDate:     domain.NewDate(2025, time.June, 15),
		CurrentWeek: 1,
		Status:      domain.PlanActive,
	}
	planID, err := planRepo.Create(ctx, plan)
	require.NoError(t, err)

	svc := NewActivityService(activityRepo, planRepo, templateRepo, completionRepo, userRepo, 0).(*activityService)
	svc.now = func() time.Time {
		return time.Date(2025, 6, 4, 12, 0, 0, 0, time.UTC)
	}

	return &activityFixture{svc: svc, userID: userID, planID: planID, workouts: workouts}
}

// rideActivity pairs perfectly with the week 1 bike workout on June 4.
func rideActivity() domain.Activity {
	return domain.Activity{
		ExternalID:        1001,
		Name:              "Morning Ride",
		SportType:         "Ride",
		StartDate:         time.Date(2025, 6, 4, 9, 0, 0, 0, time.UTC),
		MovingTimeSeconds: 3600,
		DistanceMeters:    15 * 1609.34,
	}
}

// swimActivity is two days off the June 2 swim slot, similar duration.
func swimActivity() domain.Activity {
	return domain.Activity{
		ExternalID:        1002,
		Name:              "Pool Swim",
		SportType:         "Swim",
		StartDate:         time.Date(2025, 6, 4, 7, 0, 0, 0, time.UTC),
		MovingTimeSeconds: 1900,
	}
}

func TestIngestActivitiesIdempotent(t *testing.T) {
	f := newActivityFixture(t)
	ctx := context.Background()

	count, err := f.svc.IngestActivities(ctx, f.userID, []domain.Activity{rideActivity(), swimActivity()})
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	// Re-syncing an overlapping window must not create duplicates.
	renamed := rideActivity()
	renamed.Name = "Morning Ride (edited)"
	count, err = f.svc.IngestActivities(ctx, f.userID, []domain.Activity{renamed})
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	all, err := f.svc.ListActivities(ctx, f.userID, 0)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestListActivitiesWindow(t *testing.T) {
	f := newActivityFixture(t)
	ctx := context.Background()

	old := swimActivity()
	old.ExternalID = 900
	old.StartDate = time.Date(2025, 5, 10, 7, 0, 0, 0, time.UTC)
	_, err := f.svc.IngestActivities(ctx, f.userID, []domain.Activity{rideActivity(), old})
	require.NoError(t, err)

	recent, err := f.svc.ListActivities(ctx, f.userID, 7)
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, int64(1001), recent[0].ExternalID)
}

func TestFindMatches(t *testing.T) {
	f := newActivityFixture(t)
	ctx := context.Background()

	yoga := domain.Activity{
		ExternalID:        1003,
		Name:              "Yoga",
		SportType:         "Yoga",
		StartDate:         time.Date(2025, 6, 4, 18, 0, 0, 0, time.UTC),
		MovingTimeSeconds: 1800,
	}
	_, err := f.svc.IngestActivities(ctx, f.userID, []domain.Activity{rideActivity(), swimActivity(), yoga})
	require.NoError(t, err)

	review, err := f.svc.FindMatches(ctx, f.userID, f.planID, 0)
	require.NoError(t, err)

	// Same day, same discipline, matching duration and distance.
	require.Len(t, review.HighConfidence, 1)
	assert.Equal(t, int64(1001), review.HighConfidence[0].Activity.ExternalID)
	assert.Equal(t, domain.DisciplineBike, review.HighConfidence[0].Workout.Workout.Discipline)
	assert.Equal(t, 100, review.HighConfidence[0].Confidence)

	// Two days off the swim slot lands in the review tier.
	require.Len(t, review.MediumConfidence, 1)
	assert.Equal(t, int64(1002), review.MediumConfidence[0].Activity.ExternalID)

	require.Len(t, review.UnmatchedActivities, 1)
	assert.Equal(t, int64(1003), review.UnmatchedActivities[0].ExternalID)
	// The week 2 run has no candidate at all.
	require.Len(t, review.UnmatchedWorkouts, 1)
	assert.Equal(t, domain.DisciplineRun, review.UnmatchedWorkouts[0].Workout.Discipline)
}

func TestAcceptMatch(t *testing.T) {
	f := newActivityFixture(t)
	ctx := context.Background()

	_, err := f.svc.IngestActivities(ctx, f.userID, []domain.Activity{swimActivity()})
	require.NoError(t, err)

	swimWorkoutID := f.workouts[0].ID
	completion, err := f.svc.AcceptMatch(ctx, f.userID, f.planID, swimWorkoutID, 1002)
	require.NoError(t, err)
	assert.Equal(t, domain.NewDate(2025, time.June, 2), completion.ScheduledDate)
	require.NotNil(t, completion.CompletedDate)
	assert.Equal(t, domain.NewDate(2025, time.June, 4), *completion.CompletedDate)
	assert.Equal(t, 32, completion.ActualDurationMinutes)
	require.NotNil(t, completion.ActivityID)
	assert.Equal(t, int64(1002), *completion.ActivityID)
	assert.Equal(t, "Pool Swim", completion.Notes)

	// The slot now has a completion, so it is no longer pending.
	_, err = f.svc.AcceptMatch(ctx, f.userID, f.planID, swimWorkoutID, 1002)
	assert.ErrorIs(t, err, ErrWorkoutNotInPlan)

	_, err = f.svc.AcceptMatch(ctx, f.userID, f.planID, f.workouts[1].ID, 9999)
	assert.ErrorIs(t, err, ErrActivityNotFound)
}

func TestAutoMatch(t *testing.T) {
	f := newActivityFixture(t)
	ctx := context.Background()

	_, err := f.svc.IngestActivities(ctx, f.userID, []domain.Activity{rideActivity(), swimActivity()})
	require.NoError(t, err)

	created, err := f.svc.AutoMatch(ctx, f.userID, f.planID)
	require.NoError(t, err)
	// Only the high-confidence ride is applied; the swim stays for review.
	require.Len(t, created, 1)
	require.NotNil(t, created[0].PlannedWorkoutID)
	assert.Equal(t, f.workouts[1].ID, *created[0].PlannedWorkoutID)
	require.NotNil(t, created[0].ActivityID)
	assert.Equal(t, int64(1001), *created[0].ActivityID)
	assert.Equal(t, 60, created[0].ActualDurationMinutes)

	created, err = f.svc.AutoMatch(ctx, f.userID, f.planID)
	require.NoError(t, err)
	assert.Empty(t, created)
}
