package repository

import (
	"context"
	"time"

	"github.com/tigerswim/raceprep-sub001/internal/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Error constants for repository layer
var (
	ErrNotFound     = RepositoryError("not found")
	ErrDuplicate    = RepositoryError("duplicate")
	ErrUpdateFailed = RepositoryError("update failed")
	ErrDeleteFailed = RepositoryError("delete failed")
)

// RepositoryError helps distinguish repository errors
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// UserRepository defines the interface for interacting with user data.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (primitive.ObjectID, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
}

// TemplateRepository defines the interface for interacting with plan
// template data, including the per-template workout schedule.
type TemplateRepository interface {
	Create(ctx context.Context, template *domain.PlanTemplate) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.PlanTemplate, error)
	GetBySlug(ctx context.Context, slug string) (*domain.PlanTemplate, error)
	List(ctx context.Context, filters domain.TemplateFilters) ([]domain.PlanTemplate, error)
	Count(ctx context.Context) (int64, error)
	Update(ctx context.Context, template *domain.PlanTemplate) error
	Delete(ctx context.Context, id primitive.ObjectID) error

	CreateWorkouts(ctx context.Context, workouts []domain.TemplateWorkout) error
	GetWorkouts(ctx context.Context, templateID primitive.ObjectID) ([]domain.TemplateWorkout, error)
	GetWorkoutsForWeek(ctx context.Context, templateID primitive.ObjectID, weekNumber int) ([]domain.TemplateWorkout, error)
	DeleteWorkouts(ctx context.Context, templateID primitive.ObjectID) error
}

// PlanRepository defines the interface for interacting with training plan data.
type PlanRepository interface {
	Create(ctx context.Context, plan *domain.TrainingPlan) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.TrainingPlan, error)
	GetByUserID(ctx context.Context, userID primitive.ObjectID) ([]domain.TrainingPlan, error)
	GetActiveByUserID(ctx context.Context, userID primitive.ObjectID) (*domain.TrainingPlan, error)
	Update(ctx context.Context, plan *domain.TrainingPlan) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// CompletionRepository defines the interface for interacting with
// workout completion records.
type CompletionRepository interface {
	Create(ctx context.Context, completion *domain.WorkoutCompletion) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.WorkoutCompletion, error)
	GetByPlanID(ctx context.Context, planID primitive.ObjectID, filters domain.CompletionFilters) ([]domain.WorkoutCompletion, error)
	GetByPlanAndWorkout(ctx context.Context, planID, plannedWorkoutID primitive.ObjectID) (*domain.WorkoutCompletion, error)
	Update(ctx context.Context, completion *domain.WorkoutCompletion) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	DeleteByPlanID(ctx context.Context, planID primitive.ObjectID) error
}

// ActivityRepository defines the interface for interacting with imported
// external activity data.
type ActivityRepository interface {
	Upsert(ctx context.Context, activity *domain.Activity) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Activity, error)
	GetByUserID(ctx context.Context, userID primitive.ObjectID, since time.Time) ([]domain.Activity, error)
	GetByExternalID(ctx context.Context, userID primitive.ObjectID, externalID int64) (*domain.Activity, error)
}

// AttachmentRepository defines the interface for interacting with
// completion attachment metadata.
type AttachmentRepository interface {
	Create(ctx context.Context, attachment *domain.Attachment) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Attachment, error)
	GetByCompletionID(ctx context.Context, completionID primitive.ObjectID) (*domain.Attachment, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}
