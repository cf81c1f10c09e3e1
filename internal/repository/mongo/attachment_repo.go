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

const attachmentCollectionName = "attachments"

// mongoAttachmentRepository implements repository.AttachmentRepository.
type mongoAttachmentRepository struct {
	collection *mongo.Collection
}

// NewMongoAttachmentRepository creates a new Attachment repository.
func NewMongoAttachmentRepository(db *mongo.Database) repository.AttachmentRepository {
	return &mongoAttachmentRepository{
		collection: db.Collection(attachmentCollectionName),
	}
}

// Create inserts metadata for an uploaded file.
func (r *mongoAttachmentRepository) Create(ctx context.Context, attachment *domain.Attachment) (primitive.ObjectID, error) {
	if attachment.CompletionID == primitive.NilObjectID || attachment.UserID == primitive.NilObjectID || attachment.S3ObjectKey == "" {
		return primitive.NilObjectID, errors.New("attachment requires completionId, userId, and s3ObjectKey")
	}

	attachment.ID = primitive.NewObjectID()
	attachment.UploadedAt = time.Now().UTC()

	result, err := r.collection.InsertOne(ctx, attachment)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return primitive.NilObjectID, repository.ErrDuplicate
		}
		return primitive.NilObjectID, err
	}
	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted attachment ID")
	}
	return insertedID, nil
}

// GetByID retrieves attachment metadata by its ID.
func (r *mongoAttachmentRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Attachment, error) {
	var attachment domain.Attachment
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&attachment)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &attachment, nil
}

// GetByCompletionID retrieves the attachment linked to a completion.
func (r *mongoAttachmentRepository) GetByCompletionID(ctx context.Context, completionID primitive.ObjectID) (*domain.Attachment, error) {
	var attachment domain.Attachment
	err := r.collection.FindOne(ctx, bson.M{"completionId": completionID}).Decode(&attachment)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &attachment, nil
}

// Delete removes attachment metadata. The object itself is removed from
// storage by the service layer.
func (r *mongoAttachmentRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// EnsureAttachmentIndexes creates indexes for the attachments collection.
// A completion carries at most one attachment, enforced by the unique
// completionId index.
func EnsureAttachmentIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "completionId", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "userId", Value: 1}},
		},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}
