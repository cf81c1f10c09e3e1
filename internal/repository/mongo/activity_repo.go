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

const activityCollectionName = "activities"

// mongoActivityRepository implements repository.ActivityRepository.
type mongoActivityRepository struct {
	collection *mongo.Collection
}

// NewMongoActivityRepository creates a new Activity repository.
func NewMongoActivityRepository(db *mongo.Database) repository.ActivityRepository {
	return &mongoActivityRepository{
		collection: db.Collection(activityCollectionName),
	}
}

// Upsert inserts an activity or refreshes the stored copy when the same
// external ID was already ingested for this user. Re-syncing the same
// window from the tracker is routine and must not duplicate records.
func (r *mongoActivityRepository) Upsert(ctx context.Context, activity *domain.Activity) (primitive.ObjectID, error) {
	if activity.UserID == primitive.NilObjectID || activity.ExternalID == 0 {
		return primitive.NilObjectID, errors.New("activity requires userId and externalId")
	}

	filter := bson.M{"userId": activity.UserID, "externalId": activity.ExternalID}
	update := bson.M{
		"$set": bson.M{
			"name":              activity.Name,
			"sportType":         activity.SportType,
			"startDate":         activity.StartDate,
			"movingTimeSeconds": activity.MovingTimeSeconds,
			"distanceMeters":    activity.DistanceMeters,
		},
		"$setOnInsert": bson.M{
			"userId":     activity.UserID,
			"externalId": activity.ExternalID,
			"createdAt":  time.Now().UTC(),
		},
	}

	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var stored domain.Activity
	if err := r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&stored); err != nil {
		return primitive.NilObjectID, err
	}
	activity.ID = stored.ID
	activity.CreatedAt = stored.CreatedAt
	return stored.ID, nil
}

// GetByID retrieves a single activity by its ID.
func (r *mongoActivityRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Activity, error) {
	var activity domain.Activity
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&activity)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &activity, nil
}

// GetByUserID retrieves a user's activities starting at `since`, newest first.
func (r *mongoActivityRepository) GetByUserID(ctx context.Context, userID primitive.ObjectID, since time.Time) ([]domain.Activity, error) {
	filter := bson.M{"userId": userID}
	if !since.IsZero() {
		filter["startDate"] = bson.M{"$gte": since}
	}

	findOptions := options.Find().SetSort(bson.D{{Key: "startDate", Value: -1}})
	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var activities []domain.Activity
	if err := cursor.All(ctx, &activities); err != nil {
		return nil, err
	}
	if activities == nil {
		activities = []domain.Activity{}
	}
	return activities, nil
}

// GetByExternalID retrieves a user's activity by the tracker's own identifier.
func (r *mongoActivityRepository) GetByExternalID(ctx context.Context, userID primitive.ObjectID, externalID int64) (*domain.Activity, error) {
	var activity domain.Activity
	filter := bson.M{"userId": userID, "externalId": externalID}
	err := r.collection.FindOne(ctx, filter).Decode(&activity)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &activity, nil
}

// EnsureActivityIndexes creates indexes for the activities collection.
func EnsureActivityIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "externalId", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "userId", Value: 1}, {Key: "startDate", Value: -1}},
		},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}
