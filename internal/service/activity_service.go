package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/tigerswim/raceprep-sub001/internal/domain"
	"github.com/tigerswim/raceprep-sub001/internal/planning"
	"github.com/tigerswim/raceprep-sub001/internal/repository"

	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Error Definitions ---
var (
	ErrActivityNotFound = errors.New("activity not found")
)

// DefaultMatchWindowDays is how far back activity matching looks when the
// caller does not specify a window.
const DefaultMatchWindowDays = 14

// --- Service Interface ---
type ActivityService interface {
	IngestActivities(ctx context.Context, userID primitive.ObjectID, activities []domain.Activity) (int, error)
	ListActivities(ctx context.Context, userID primitive.ObjectID, sinceDays int) ([]domain.Activity, error)
	FindMatches(ctx context.Context, userID, planID primitive.ObjectID, windowDays int) (*planning.MatchReview, error)
	AcceptMatch(ctx context.Context, userID, planID, plannedWorkoutID primitive.ObjectID, activityExternalID int64) (*domain.WorkoutCompletion, error)
	AutoMatch(ctx context.Context, userID, planID primitive.ObjectID) ([]domain.WorkoutCompletion, error)
}

// activityService implements ActivityService. It pairs synced tracker
// activities with pending planned workouts via the planning scorer and
// turns accepted pairings into completion records.
type activityService struct {
	activityRepo   repository.ActivityRepository
	planRepo       repository.PlanRepository
	templateRepo   repository.TemplateRepository
	completionRepo repository.CompletionRepository
	userRepo       repository.UserRepository
	windowDays     int
	now            func() time.Time
}

// NewActivityService creates a new instance of activityService.
// windowDays <= 0 falls back to DefaultMatchWindowDays.
func NewActivityService(
	activityRepo repository.ActivityRepository,
	planRepo repository.PlanRepository,
	templateRepo repository.TemplateRepository,
	completionRepo repository.CompletionRepository,
	userRepo repository.UserRepository,
	windowDays int,
) ActivityService {
	if windowDays <= 0 {
		windowDays = DefaultMatchWindowDays
	}
	return &activityService{
		activityRepo:   activityRepo,
		planRepo:       planRepo,
		templateRepo:   templateRepo,
		completionRepo: completionRepo,
		userRepo:       userRepo,
		windowDays:     windowDays,
		now:            time.Now,
	}
}

// IngestActivities upserts a batch of synced activities for the user and
// returns how many were stored. Re-syncing an overlapping window is
// routine; the upsert keeps records unique per external ID.
func (s *activityService) IngestActivities(ctx context.Context, userID primitive.ObjectID, activities []domain.Activity) (int, error) {
	stored := 0
	for i := range activities {
		activities[i].UserID = userID
		if _, err := s.activityRepo.Upsert(ctx, &activities[i]); err != nil {
			return stored, fmt.Errorf("ingesting activity %d: %w", activities[i].ExternalID, err)
		}
		stored++
	}
	log.WithFields(log.Fields{"userId": userID.Hex(), "count": stored}).Info("ingested activities")
	return stored, nil
}

// ListActivities returns the user's activities from the trailing
// sinceDays days; sinceDays <= 0 returns everything.
func (s *activityService) ListActivities(ctx context.Context, userID primitive.ObjectID, sinceDays int) ([]domain.Activity, error) {
	var since time.Time
	if sinceDays > 0 {
		since = s.now().AddDate(0, 0, -sinceDays)
	}
	return s.activityRepo.GetByUserID(ctx, userID, since)
}

// pendingWorkouts returns the plan's schedule restricted to workouts
// without a dated completion, plus the owning user's date conversion.
func (s *activityService) pendingWorkouts(ctx context.Context, userID, planID primitive.ObjectID) ([]planning.ScheduledWorkout, *domain.TrainingPlan, planning.ActivityDateFunc, error) {
	plan, err := s.planRepo.GetByID(ctx, planID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil, nil, ErrPlanNotFound
		}
		return nil, nil, nil, err
	}
	if plan.UserID != userID {
		return nil, nil, nil, ErrPlanAccessDenied
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, nil, nil, err
	}
	loc := user.Location()
	activityDate := func(a domain.Activity) domain.Date {
		return domain.DateIn(a.StartDate, loc)
	}

	workouts, err := s.templateRepo.GetWorkouts(ctx, plan.TemplateID)
	if err != nil {
		return nil, nil, nil, err
	}
	completions, err := s.completionRepo.GetByPlanID(ctx, planID, domain.CompletionFilters{})
	if err != nil {
		return nil, nil, nil, err
	}
	today := domain.DateIn(s.now(), loc)

	scheduled, warnings, err := planning.MatchCompletions(plan.StartDate, workouts, completions, today)
	if err != nil {
		return nil, nil, nil, err
	}
	for _, w := range warnings {
		log.WithFields(log.Fields{"planId": planID.Hex(), "code": w.Code}).Warn(w.Message)
	}

	pending := make([]planning.ScheduledWorkout, 0, len(scheduled))
	for _, sw := range scheduled {
		if sw.Completion == nil {
			pending = append(pending, sw)
		}
	}
	return pending, plan, activityDate, nil
}

// FindMatches scores the user's recent activities against the plan's
// pending workouts and groups candidates by confidence for review.
func (s *activityService) FindMatches(ctx context.Context, userID, planID primitive.ObjectID, windowDays int) (*planning.MatchReview, error) {
	if windowDays <= 0 {
		windowDays = s.windowDays
	}

	pending, _, activityDate, err := s.pendingWorkouts(ctx, userID, planID)
	if err != nil {
		return nil, err
	}
	activities, err := s.activityRepo.GetByUserID(ctx, userID, s.now().AddDate(0, 0, -windowDays))
	if err != nil {
		return nil, err
	}

	review := planning.FindMatches(pending, activities, activityDate)
	return &review, nil
}

// AcceptMatch turns a reviewed pairing into a completion record, copying
// the activity's actuals onto it.
func (s *activityService) AcceptMatch(ctx context.Context, userID, planID, plannedWorkoutID primitive.ObjectID, activityExternalID int64) (*domain.WorkoutCompletion, error) {
	pending, plan, activityDate, err := s.pendingWorkouts(ctx, userID, planID)
	if err != nil {
		return nil, err
	}

	activity, err := s.activityRepo.GetByExternalID(ctx, userID, activityExternalID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrActivityNotFound
		}
		return nil, err
	}

	var workout *planning.ScheduledWorkout
	for i := range pending {
		if pending[i].Workout.ID == plannedWorkoutID {
			workout = &pending[i]
			break
		}
	}
	if workout == nil {
		return nil, ErrWorkoutNotInPlan
	}

	completion, err := s.completionFromActivity(ctx, plan.ID, workout, activity, activityDate)
	if err != nil {
		return nil, err
	}
	return completion, nil
}

// AutoMatch accepts every high-confidence pairing without review. Used
// right after an activity sync so obvious matches need no user action.
func (s *activityService) AutoMatch(ctx context.Context, userID, planID primitive.ObjectID) ([]domain.WorkoutCompletion, error) {
	pending, plan, activityDate, err := s.pendingWorkouts(ctx, userID, planID)
	if err != nil {
		return nil, err
	}
	activities, err := s.activityRepo.GetByUserID(ctx, userID, s.now().AddDate(0, 0, -s.windowDays))
	if err != nil {
		return nil, err
	}

	review := planning.FindMatches(pending, activities, activityDate)

	created := make([]domain.WorkoutCompletion, 0, len(review.HighConfidence))
	for i := range review.HighConfidence {
		m := &review.HighConfidence[i]
		completion, err := s.completionFromActivity(ctx, plan.ID, &m.Workout, &m.Activity, activityDate)
		if err != nil {
			// A concurrent manual log can race the auto-match; skip and
			// keep going.
			if errors.Is(err, ErrCompletionExists) {
				continue
			}
			return created, err
		}
		created = append(created, *completion)
		log.WithFields(log.Fields{
			"planId":     planID.Hex(),
			"workoutId":  m.Workout.Workout.ID.Hex(),
			"activityId": m.Activity.ExternalID,
			"confidence": m.Confidence,
		}).Info("auto-matched activity")
	}
	return created, nil
}

func (s *activityService) completionFromActivity(ctx context.Context, planID primitive.ObjectID, workout *planning.ScheduledWorkout, activity *domain.Activity, activityDate planning.ActivityDateFunc) (*domain.WorkoutCompletion, error) {
	completedDate := activityDate(*activity)
	workoutID := workout.Workout.ID
	externalID := activity.ExternalID

	completion := &domain.WorkoutCompletion{
		PlanID:                planID,
		PlannedWorkoutID:      &workoutID,
		ScheduledDate:         workout.ScheduledDate,
		CompletedDate:         &completedDate,
		ActualDurationMinutes: activity.MovingMinutes(),
		ActualDistanceMiles:   activity.DistanceMilesValue(),
		ActivityID:            &externalID,
		Notes:                 activity.Name,
	}

	completionID, err := s.completionRepo.Create(ctx, completion)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrCompletionExists
		}
		return nil, err
	}
	completion.ID = completionID
	return completion, nil
}
