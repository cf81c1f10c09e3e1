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

const (
	templateCollectionName        = "plan_templates"
	templateWorkoutCollectionName = "template_workouts"
)

// mongoTemplateRepository implements repository.TemplateRepository.
// Templates and their per-week workout slots live in separate collections
// because a 16-week template carries up to 112 workout documents.
type mongoTemplateRepository struct {
	templates *mongo.Collection
	workouts  *mongo.Collection
}

// NewMongoTemplateRepository creates a new Template repository.
func NewMongoTemplateRepository(db *mongo.Database) repository.TemplateRepository {
	return &mongoTemplateRepository{
		templates: db.Collection(templateCollectionName),
		workouts:  db.Collection(templateWorkoutCollectionName),
	}
}

// Create inserts a new plan template.
func (r *mongoTemplateRepository) Create(ctx context.Context, template *domain.PlanTemplate) (primitive.ObjectID, error) {
	if template.Name == "" || template.Slug == "" || template.DurationWeeks < 1 {
		return primitive.NilObjectID, errors.New("template requires name, slug, and a positive duration")
	}

	template.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	template.CreatedAt = now
	template.UpdatedAt = now

	result, err := r.templates.InsertOne(ctx, template)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			// Slug carries a unique index.
			return primitive.NilObjectID, repository.ErrDuplicate
		}
		return primitive.NilObjectID, err
	}
	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted template ID")
	}
	return insertedID, nil
}

// GetByID retrieves a single template by its ID.
func (r *mongoTemplateRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.PlanTemplate, error) {
	var template domain.PlanTemplate
	err := r.templates.FindOne(ctx, bson.M{"_id": id}).Decode(&template)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &template, nil
}

// GetBySlug retrieves a single template by its unique slug.
func (r *mongoTemplateRepository) GetBySlug(ctx context.Context, slug string) (*domain.PlanTemplate, error) {
	var template domain.PlanTemplate
	err := r.templates.FindOne(ctx, bson.M{"slug": slug}).Decode(&template)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &template, nil
}

// List retrieves active templates matching the given filters, ordered by
// distance then duration.
func (r *mongoTemplateRepository) List(ctx context.Context, filters domain.TemplateFilters) ([]domain.PlanTemplate, error) {
	filter := bson.M{"isActive": true}
	if filters.DistanceType != "" {
		filter["distanceType"] = filters.DistanceType
	}
	if filters.ExperienceLevel != "" {
		filter["experienceLevel"] = filters.ExperienceLevel
	}
	if filters.MinWeeks > 0 || filters.MaxWeeks > 0 {
		weeks := bson.M{}
		if filters.MinWeeks > 0 {
			weeks["$gte"] = filters.MinWeeks
		}
		if filters.MaxWeeks > 0 {
			weeks["$lte"] = filters.MaxWeeks
		}
		filter["durationWeeks"] = weeks
	}
	if filters.MinHours > 0 {
		filter["weeklyHoursMax"] = bson.M{"$gte": filters.MinHours}
	}
	if filters.MaxHours > 0 {
		filter["weeklyHoursMin"] = bson.M{"$lte": filters.MaxHours}
	}

	findOptions := options.Find().SetSort(bson.D{{Key: "distanceType", Value: 1}, {Key: "durationWeeks", Value: 1}})
	cursor, err := r.templates.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var templates []domain.PlanTemplate
	if err := cursor.All(ctx, &templates); err != nil {
		return nil, err
	}
	if templates == nil {
		templates = []domain.PlanTemplate{}
	}
	return templates, nil
}

// Count returns the total number of templates, active or not. Used to
// decide whether the catalog needs seeding.
func (r *mongoTemplateRepository) Count(ctx context.Context) (int64, error) {
	return r.templates.CountDocuments(ctx, bson.M{})
}

// Update replaces the mutable fields of an existing template.
func (r *mongoTemplateRepository) Update(ctx context.Context, template *domain.PlanTemplate) error {
	if template.ID == primitive.NilObjectID {
		return errors.New("template ID is required for update")
	}

	update := bson.M{
		"$set": bson.M{
			"name":            template.Name,
			"distanceType":    template.DistanceType,
			"experienceLevel": template.ExperienceLevel,
			"durationWeeks":   template.DurationWeeks,
			"weeklyHoursMin":  template.WeeklyHoursMin,
			"weeklyHoursMax":  template.WeeklyHoursMax,
			"description":     template.Description,
			"isActive":        template.IsActive,
			"updatedAt":       time.Now().UTC(),
		},
	}

	result, err := r.templates.UpdateOne(ctx, bson.M{"_id": template.ID}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Delete removes a template document. The caller is responsible for
// removing its workouts via DeleteWorkouts.
func (r *mongoTemplateRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.templates.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// CreateWorkouts bulk-inserts the workout slots of a template.
func (r *mongoTemplateRepository) CreateWorkouts(ctx context.Context, workouts []domain.TemplateWorkout) error {
	if len(workouts) == 0 {
		return nil
	}

	now := time.Now().UTC()
	docs := make([]interface{}, 0, len(workouts))
	for i := range workouts {
		if workouts[i].TemplateID == primitive.NilObjectID {
			return errors.New("template workout requires templateId")
		}
		workouts[i].ID = primitive.NewObjectID()
		workouts[i].CreatedAt = now
		docs = append(docs, workouts[i])
	}

	_, err := r.workouts.InsertMany(ctx, docs)
	return err
}

// GetWorkouts retrieves every workout slot of a template, ordered by
// week then day.
func (r *mongoTemplateRepository) GetWorkouts(ctx context.Context, templateID primitive.ObjectID) ([]domain.TemplateWorkout, error) {
	return r.findWorkouts(ctx, bson.M{"templateId": templateID})
}

// GetWorkoutsForWeek retrieves the workout slots for one week of a template.
func (r *mongoTemplateRepository) GetWorkoutsForWeek(ctx context.Context, templateID primitive.ObjectID, weekNumber int) ([]domain.TemplateWorkout, error) {
	return r.findWorkouts(ctx, bson.M{"templateId": templateID, "weekNumber": weekNumber})
}

func (r *mongoTemplateRepository) findWorkouts(ctx context.Context, filter bson.M) ([]domain.TemplateWorkout, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "weekNumber", Value: 1}, {Key: "dayOfWeek", Value: 1}})
	cursor, err := r.workouts.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var workouts []domain.TemplateWorkout
	if err := cursor.All(ctx, &workouts); err != nil {
		return nil, err
	}
	if workouts == nil {
		workouts = []domain.TemplateWorkout{}
	}
	return workouts, nil
}

// DeleteWorkouts removes all workout slots of a template.
func (r *mongoTemplateRepository) DeleteWorkouts(ctx context.Context, templateID primitive.ObjectID) error {
	_, err := r.workouts.DeleteMany(ctx, bson.M{"templateId": templateID})
	return err
}

// EnsureTemplateIndexes creates indexes for the template and template
// workout collections. Call once during application startup.
func EnsureTemplateIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection(templateCollectionName).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "slug", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "distanceType", Value: 1}, {Key: "experienceLevel", Value: 1}},
		},
	})
	if err != nil {
		return err
	}

	_, err = db.Collection(templateWorkoutCollectionName).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "templateId", Value: 1}, {Key: "weekNumber", Value: 1}, {Key: "dayOfWeek", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	})
	return err
}
