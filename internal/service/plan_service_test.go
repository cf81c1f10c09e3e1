package service

import (
	"context"
	"testing"
	"time"

	"github.com/tigerswim/raceprep-sub001/internal/domain"
	"github.com/tigerswim/raceprep-sub001/internal/planning"
	"github.com/tigerswim/raceprep-sub001/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type planFixture struct {
	svc          *planService
	userID       primitive.ObjectID
	otherUserID  primitive.ObjectID
	templateID   primitive.ObjectID
	workouts     []domain.TemplateWorkout
	storage      *fakeFileStorage
	planRepo     *fakePlanRepo
	templateRepo *fakeTemplateRepo
}

// newPlanFixture wires a plan service against in-memory fakes with a
// two-week template and the clock pinned to 2025-06-04 12:00 UTC.
func newPlanFixture(t *testing.T) *planFixture {
	t.Helper()
	ctx := context.Background()

	userRepo := newFakeUserRepo()
	templateRepo := newFakeTemplateRepo()
	planRepo := newFakePlanRepo()
	completionRepo := newFakeCompletionRepo()
	attachmentRepo := newFakeAttachmentRepo()
	fileStorage := &fakeFileStorage{}

	user := &domain.User{Name: "Ana", Email: "ana@example.com", PasswordHash: "x", Role: domain.RoleAthlete}
	userID, err := userRepo.Create(ctx, user)
	require.NoError(t, err)
	other := &domain.User{Name: "Ben", Email: "ben@example.com", PasswordHash: "x", Role: domain.RoleAthlete}
	otherID, err := userRepo.Create(ctx, other)
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

	svc := NewPlanService(planRepo, templateRepo, completionRepo, attachmentRepo, userRepo, fileStorage, 0).(*planService)
	svc.now = func() time.Time {
		return time.Date(2025, 6, 4, 12, 0, 0, 0, time.UTC)
	}

	return &planFixture{
		svc: svc, userID: userID, otherUserID: otherID,
		templateID: templateID, workouts: workouts,
		storage: fileStorage, planRepo: planRepo, templateRepo: templateRepo,
	}
}

func (f *planFixture) createPlan(t *testing.T) *domain.TrainingPlan {
	t.Helper()
	plan, err := f.svc.CreatePlan(context.Background(), f.userID, f.templateID, "", domain.NewDate(2025, time.June, 2), "")
	require.NoError(t, err)
	return plan
}

func TestCreatePlan(t *testing.T) {
	f := newPlanFixture(t)
	ctx := context.Background()

	plan := f.createPlan(t)
	assert.Equal(t, "Sprint Test", plan.PlanName) // Defaults to the template name.
	assert.Equal(t, domain.NewDate(2025, time.June, 15), plan.EndDate)
	assert.Equal(t, 1, plan.CurrentWeek)
	assert.Equal(t, domain.PlanActive, plan.Status)

	_, err := f.svc.CreatePlan(ctx, f.userID, f.templateID, "second", domain.NewDate(2025, time.July, 1), "")
	assert.ErrorIs(t, err, ErrActivePlanExists)

	_, err = f.svc.CreatePlan(ctx, f.userID, primitive.NewObjectID(), "", domain.NewDate(2025, time.July, 1), "")
	assert.ErrorIs(t, err, ErrTemplateNotFound)
}

func TestPlanOwnership(t *testing.T) {
	f := newPlanFixture(t)
	plan := f.createPlan(t)

	_, err := f.svc.GetPlan(context.Background(), f.otherUserID, plan.ID)
	assert.ErrorIs(t, err, ErrPlanAccessDenied)
}

func TestLogCompletion(t *testing.T) {
	f := newPlanFixture(t)
	ctx := context.Background()
	plan := f.createPlan(t)

	completion, err := f.svc.LogCompletion(ctx, f.userID, plan.ID, LogCompletionInput{
		PlannedWorkoutID: f.workouts[1].ID, // week 1 day 3
	})
	require.NoError(t, err)
	assert.Equal(t, domain.NewDate(2025, time.June, 4), completion.ScheduledDate)
	require.NotNil(t, completion.CompletedDate)
	// Defaults to the clock's current date.
	assert.Equal(t, domain.NewDate(2025, time.June, 4), *completion.CompletedDate)

	_, err = f.svc.LogCompletion(ctx, f.userID, plan.ID, LogCompletionInput{PlannedWorkoutID: f.workouts[1].ID})
	assert.ErrorIs(t, err, ErrCompletionExists)

	_, err = f.svc.LogCompletion(ctx, f.userID, plan.ID, LogCompletionInput{PlannedWorkoutID: primitive.NewObjectID()})
	assert.ErrorIs(t, err, ErrWorkoutNotInPlan)

	_, err = f.svc.LogCompletion(ctx, f.userID, plan.ID, LogCompletionInput{
		PlannedWorkoutID: f.workouts[0].ID,
		PerceivedEffort:  11,
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestSkipWorkout(t *testing.T) {
	f := newPlanFixture(t)
	ctx := context.Background()
	plan := f.createPlan(t)

	completion, err := f.svc.SkipWorkout(ctx, f.userID, plan.ID, f.workouts[0].ID, "sick")
	require.NoError(t, err)
	assert.True(t, completion.Skipped)
	assert.Equal(t, "sick", completion.SkipReason)
	assert.Nil(t, completion.CompletedDate)

	// Skip and log are mutually exclusive per slot.
	_, err = f.svc.LogCompletion(ctx, f.userID, plan.ID, LogCompletionInput{PlannedWorkoutID: f.workouts[0].ID})
	assert.ErrorIs(t, err, ErrCompletionExists)
}

func TestAdvanceWeek(t *testing.T) {
	f := newPlanFixture(t)
	ctx := context.Background()
	plan := f.createPlan(t)

	plan, err := f.svc.AdvanceWeek(ctx, f.userID, plan.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, plan.CurrentWeek)
	assert.Equal(t, domain.PlanActive, plan.Status)

	// Advancing past the final week completes the plan instead.
	plan, err = f.svc.AdvanceWeek(ctx, f.userID, plan.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, plan.CurrentWeek)
	assert.Equal(t, domain.PlanCompleted, plan.Status)
}

func TestGetProgress(t *testing.T) {
	f := newPlanFixture(t)
	ctx := context.Background()
	plan := f.createPlan(t)

	onTime := domain.NewDate(2025, time.June, 2)
	_, err := f.svc.LogCompletion(ctx, f.userID, plan.ID, LogCompletionInput{
		PlannedWorkoutID: f.workouts[0].ID,
		CompletedDate:    &onTime,
	})
	require.NoError(t, err)
	_, err = f.svc.SkipWorkout(ctx, f.userID, plan.ID, f.workouts[1].ID, "")
	require.NoError(t, err)

	progress, warnings, err := f.svc.GetProgress(ctx, f.userID, plan.ID)
	require.NoError(t, err)
	assert.Empty(t, warnings)
	assert.Equal(t, 3, progress.TotalWorkouts)
	assert.Equal(t, 1, progress.CompletedWorkouts)
	assert.InDelta(t, 100.0/3, progress.CompletionRate, 0.001)
	assert.InDelta(t, 100.0, progress.AdherenceRate, 0.001)
	assert.Equal(t, 2, progress.TotalWeeks)
}

func TestGetUpcomingAndTodayWorkouts(t *testing.T) {
	f := newPlanFixture(t)
	ctx := context.Background()
	plan := f.createPlan(t)

	// Clock is pinned to 2025-06-04: week 1 day 3.
	today, err := f.svc.GetTodayWorkouts(ctx, f.userID, plan.ID)
	require.NoError(t, err)
	require.Len(t, today, 1)
	assert.Equal(t, domain.DisciplineBike, today[0].Workout.Discipline)

	upcoming, err := f.svc.GetUpcomingWorkouts(ctx, f.userID, plan.ID, 7)
	require.NoError(t, err)
	// Bike today plus run on June 9; the swim on June 2 is past.
	require.Len(t, upcoming, 2)
	assert.Equal(t, domain.DisciplineBike, upcoming[0].Workout.Discipline)
	assert.Equal(t, domain.DisciplineRun, upcoming[1].Workout.Discipline)
}

func TestGetWeekSchedule(t *testing.T) {
	f := newPlanFixture(t)
	ctx := context.Background()
	plan := f.createPlan(t)

	week, warnings, err := f.svc.GetWeekSchedule(ctx, f.userID, plan.ID, 1)
	require.NoError(t, err)
	assert.Empty(t, warnings)
	assert.Equal(t, domain.NewDate(2025, time.June, 2), week.StartDate)
	assert.Equal(t, domain.NewDate(2025, time.June, 8), week.EndDate)
	assert.Len(t, week.Workouts, 2)
	assert.Equal(t, 90, week.TotalDurationMinutes)
}

func TestGetAdherenceWindow(t *testing.T) {
	f := newPlanFixture(t)
	ctx := context.Background()
	plan := f.createPlan(t)

	done := domain.NewDate(2025, time.June, 2)
	_, err := f.svc.LogCompletion(ctx, f.userID, plan.ID, LogCompletionInput{
		PlannedWorkoutID: f.workouts[0].ID,
		CompletedDate:    &done,
	})
	require.NoError(t, err)

	report, err := f.svc.GetAdherence(ctx, f.userID, plan.ID, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, report.CompletedOnTime)
	assert.InDelta(t, 100.0, report.AdherenceRate, 0.001)

	// A one-week trailing window starting 2025-05-28 still includes the
	// June 2 slot.
	report, err = f.svc.GetAdherence(ctx, f.userID, plan.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, report.TotalScheduled)
}

func TestDeletePlanRemovesCompletions(t *testing.T) {
	f := newPlanFixture(t)
	ctx := context.Background()
	plan := f.createPlan(t)

	_, err := f.svc.LogCompletion(ctx, f.userID, plan.ID, LogCompletionInput{PlannedWorkoutID: f.workouts[0].ID})
	require.NoError(t, err)

	require.NoError(t, f.svc.DeletePlan(ctx, f.userID, plan.ID))

	_, err = f.svc.GetPlan(ctx, f.userID, plan.ID)
	assert.ErrorIs(t, err, ErrPlanNotFound)
	remaining, err := f.svc.completionRepo.GetByPlanID(ctx, plan.ID, domain.CompletionFilters{})
	require.NoError(t, err)
	assert.Empty(t, remaining)
}

func TestAttachmentLifecycle(t *testing.T) {
	f := newPlanFixture(t)
	ctx := context.Background()
	plan := f.createPlan(t)

	completion, err := f.svc.LogCompletion(ctx, f.userID, plan.ID, LogCompletionInput{PlannedWorkoutID: f.workouts[0].ID})
	require.NoError(t, err)

	upload, err := f.svc.RequestAttachmentUpload(ctx, f.userID, plan.ID, completion.ID, "swim.gpx", "application/gpx+xml")
	require.NoError(t, err)
	assert.NotEmpty(t, upload.ObjectKey)
	assert.Contains(t, upload.UploadURL, upload.ObjectKey)

	attachment, err := f.svc.ConfirmAttachment(ctx, f.userID, plan.ID, completion.ID, upload.ObjectKey, "swim.gpx", "application/gpx+xml", 2048)
	require.NoError(t, err)
	assert.Equal(t, upload.ObjectKey, attachment.S3ObjectKey)

	url, err := f.svc.GetAttachmentDownloadURL(ctx, f.userID, plan.ID, completion.ID)
	require.NoError(t, err)
	assert.Contains(t, url, upload.ObjectKey)

	// Confirming a replacement deletes the previous object and its
	// metadata, keeping one attachment per completion.
	second, err := f.svc.ConfirmAttachment(ctx, f.userID, plan.ID, completion.ID, "attachments/other-key", "swim2.gpx", "application/gpx+xml", 1024)
	require.NoError(t, err)
	assert.NotEqual(t, attachment.ID, second.ID)
	assert.Contains(t, f.storage.deleted, upload.ObjectKey)
	_, err = f.svc.attachmentRepo.GetByID(ctx, attachment.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestUpdatePlanReactivationGuard(t *testing.T) {
	f := newPlanFixture(t)
	ctx := context.Background()
	plan := f.createPlan(t)

	paused := domain.PlanPaused
	_, err := f.svc.UpdatePlan(ctx, f.userID, plan.ID, UpdatePlanInput{Status: &paused})
	require.NoError(t, err)

	// Second plan while the first is paused is fine.
	second, err := f.svc.CreatePlan(ctx, f.userID, f.templateID, "second", domain.NewDate(2025, time.July, 7), "")
	require.NoError(t, err)

	// Reactivating the first while the second is active is not.
	active := domain.PlanActive
	_, err = f.svc.UpdatePlan(ctx, f.userID, plan.ID, UpdatePlanInput{Status: &active})
	assert.ErrorIs(t, err, ErrActivePlanExists)

	// Pausing the second frees the slot again.
	_, err = f.svc.UpdatePlan(ctx, f.userID, second.ID, UpdatePlanInput{Status: &paused})
	require.NoError(t, err)
	updated, err := f.svc.UpdatePlan(ctx, f.userID, plan.ID, UpdatePlanInput{Status: &active})
	require.NoError(t, err)
	assert.Equal(t, domain.PlanActive, updated.Status)
}

func TestProgressSurfacesAmbiguousMatches(t *testing.T) {
	f := newPlanFixture(t)
	ctx := context.Background()
	plan := f.createPlan(t)

	_, err := f.svc.LogCompletion(ctx, f.userID, plan.ID, LogCompletionInput{PlannedWorkoutID: f.workouts[0].ID})
	require.NoError(t, err)

	// Force a second completion for the same slot, bypassing the unique
	// check, the way legacy data could look.
	dup := domain.WorkoutCompletion{
		ID:               primitive.NewObjectID(),
		PlanID:           plan.ID,
		PlannedWorkoutID: &f.workouts[0].ID,
		ScheduledDate:    domain.NewDate(2025, time.June, 2),
	}
	f.svc.completionRepo.(*fakeCompletionRepo).completions[dup.ID] = dup

	_, warnings, err := f.svc.GetProgress(ctx, f.userID, plan.ID)
	require.NoError(t, err)
	require.Len(t, warnings, 1)
	assert.Equal(t, planning.WarnAmbiguousMatch, warnings[0].Code)
}
