package mongo

import (
	"context"
	"errors"
	"time"

	"github.com/tigerswim/raceprep-sub001/internal/domain"
	"github.com/tigerswim/raceprep-sub001/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const completionCollectionName = "workout_completions"

// mongoCompletionRepository implements repository.CompletionRepository.
type mongoCompletionRepository struct {
	collection *mongo.Collection
}

// NewMongoCompletionRepository creates a new Completion repository.
func NewMongoCompletionRepository(db *mongo.Database) repository.CompletionRepository {
	return &mongoCompletionRepository{
		collection: db.Collection(completionCollectionName),
	}
}

// Create inserts a new completion record.
func (r *mongoCompletionRepository) Create(ctx context.Context, completion *domain.WorkoutCompletion) (primitive.ObjectID, error) {
	if completion.PlanID == primitive.NilObjectID || completion.ScheduledDate.IsZero() {
		return primitive.NilObjectID, errors.New("completion requires planId and scheduledDate")
	}

	completion.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	completion.CreatedAt = now
	completion.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, completion)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			// One completion per (plan, planned workout).
			return primitive.NilObjectID, repository.ErrDuplicate
		}
		return primitive.NilObjectID, err
	}
	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted completion ID")
	}
	return insertedID, nil
}

// GetByID retrieves a single completion by its ID.
func (r *mongoCompletionRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.WorkoutCompletion, error) {
	var completion domain.WorkoutCompletion
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&completion)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &completion, nil
}

// GetByPlanID retrieves all completions of a plan matching the filters,
// ordered by scheduled date.
func (r *mongoCompletionRepository) GetByPlanID(ctx context.Context, planID primitive.ObjectID, filters domain.CompletionFilters) ([]domain.WorkoutCompletion, error) {
	filter := bson.M{"planId": planID}
	if filters.Completed != nil {
		filter["completedDate"] = bson.M{"$exists": *filters.Completed}
	}
	if filters.Skipped != nil {
		filter["skipped"] = *filters.Skipped
	}
	if filters.HasActivity {
		filter["activityId"] = bson.M{"$exists": true}
	}

	findOptions := options.Find().SetSort(bson.D{{Key: "scheduledDate", Value: 1}})
	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var completions []domain.WorkoutCompletion
	if err := cursor.All(ctx, &completions); err != nil {
		return nil, err
	}
	if completions == nil {
		completions = []domain.WorkoutCompletion{}
	}
	return completions, nil
}

// GetByPlanAndWorkout retrieves the single completion for a planned
// workout slot within a plan.
func (r *mongoCompletionRepository) GetByPlanAndWorkout(ctx context.Context, planID, plannedWorkoutID primitive.ObjectID) (*domain.WorkoutCompletion, error) {
	var completion domain.WorkoutCompletion
	filter := bson.M{"planId": planID, "plannedWorkoutId": plannedWorkoutID}
	err := r.collection.FindOne(ctx, filter).Decode(&completion)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &completion, nil
}

// Update replaces the mutable fields of an existing completion.
func (r *mongoCompletionRepository) Update(ctx context.Context, completion *domain.WorkoutCompletion) error {
	if completion.ID == primitive.NilObjectID {
		return errors.New("completion ID is required for update")
	}

	update := bson.M{
		"$set": bson.M{
			"plannedWorkoutId":      completion.PlannedWorkoutID,
			"scheduledDate":         completion.ScheduledDate,
			"completedDate":         completion.CompletedDate,
			"skipped":               completion.Skipped,
			"skipReason":            completion.SkipReason,
			"actualDurationMinutes": completion.ActualDurationMinutes,
			"actualDistanceMiles":   completion.ActualDistanceMiles,
			"perceivedEffort":       completion.PerceivedEffort,
			"activityId":            completion.ActivityID,
			"attachmentId":          completion.AttachmentID,
			"notes":                 completion.Notes,
			"updatedAt":             time.Now().UTC(),
		},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": completion.ID}, update)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return repository.ErrDuplicate
		}
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Delete removes a completion record.
func (r *mongoCompletionRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// DeleteByPlanID removes all completions of a plan. Used when the plan
// itself is deleted.
func (r *mongoCompletionRepository) DeleteByPlanID(ctx context.Context, planID primitive.ObjectID) error {
	_, err := r.collection.DeleteMany(ctx, bson.M{"planId": planID})
	return err
}

// EnsureCompletionIndexes creates indexes for the completions collection.
// The partial unique index enforces at most one completion per planned
// workout slot while still allowing unassociated records.
func EnsureCompletionIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "planId", Value: 1}, {Key: "plannedWorkoutId", Value: 1}},
			Options: options.Index().
				SetUnique(true).
				SetPartialFilterExpression(bson.M{"plannedWorkoutId": bson.M{"$type": "objectId"}}),
		},
		{
			Keys: bson.D{{Key: "planId", Value: 1}, {Key: "scheduledDate", Value: 1}},
		},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}
