package service

import (
	"context"
	"time"

	"github.com/tigerswim/raceprep-sub001/internal/domain"
	"github.com/tigerswim/raceprep-sub001/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// In-memory repository fakes. They mirror the repository contracts
// closely enough for service tests: sentinel errors, duplicate checks,
// and copy-on-return semantics are preserved; everything else is a map.

type fakeUserRepo struct {
	users map[primitive.ObjectID]domain.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[primitive.ObjectID]domain.User)}
}

func (r *fakeUserRepo) Create(_ context.Context, user *domain.User) (primitive.ObjectID, error) {
	for _, u := range r.users {
		if u.Email == user.Email {
			return primitive.NilObjectID, repository.ErrDuplicate
		}
	}
	user.ID = primitive.NewObjectID()
	user.CreatedAt = time.Now().UTC()
	user.UpdatedAt = user.CreatedAt
	r.users[user.ID] = *user
	return user.ID, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			copied := u
			return &copied, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeUserRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := u
	return &copied, nil
}

func (r *fakeUserRepo) Update(_ context.Context, user *domain.User) error {
	if _, ok := r.users[user.ID]; !ok {
		return repository.ErrNotFound
	}
	r.users[user.ID] = *user
	return nil
}

type fakeTemplateRepo struct {
	templates map[primitive.ObjectID]domain.PlanTemplate
	workouts  map[primitive.ObjectID][]domain.TemplateWorkout
}

func newFakeTemplateRepo() *fakeTemplateRepo {
	return &fakeTemplateRepo{
		templates: make(map[primitive.ObjectID]domain.PlanTemplate),
		workouts:  make(map[primitive.ObjectID][]domain.TemplateWorkout),
	}
}

func (r *fakeTemplateRepo) Create(_ context.Context, template *domain.PlanTemplate) (primitive.ObjectID, error) {
	for _, t := range r.templates {
		if t.Slug == template.Slug {
			return primitive.NilObjectID, repository.ErrDuplicate
		}
	}
	template.ID = primitive.NewObjectID()
	r.templates[template.ID] = *template
	return template.ID, nil
}

func (r *fakeTemplateRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.PlanTemplate, error) {
	t, ok := r.templates[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := t
	return &copied, nil
}

func (r *fakeTemplateRepo) GetBySlug(_ context.Context, slug string) (*domain.PlanTemplate, error) {
	for _, t := range r.templates {
		if t.Slug == slug {
			copied := t
			return &copied, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeTemplateRepo) List(_ context.Context, filters domain.TemplateFilters) ([]domain.PlanTemplate, error) {
	result := []domain.PlanTemplate{}
	for _, t := range r.templates {
		if !t.IsActive {
			continue
		}
		if filters.DistanceType != "" && t.DistanceType != filters.DistanceType {
			continue
		}
		if filters.ExperienceLevel != "" && t.ExperienceLevel != filters.ExperienceLevel {
			continue
		}
		result = append(result, t)
	}
	return result, nil
}

func (r *fakeTemplateRepo) Count(_ context.Context) (int64, error) {
	return int64(len(r.templates)), nil
}

func (r *fakeTemplateRepo) Update(_ context.Context, template *domain.PlanTemplate) error {
	if _, ok := r.templates[template.ID]; !ok {
		return repository.ErrNotFound
	}
	r.templates[template.ID] = *template
	return nil
}

func (r *fakeTemplateRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	if _, ok := r.templates[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.templates, id)
	return nil
}

func (r *fakeTemplateRepo) CreateWorkouts(_ context.Context, workouts []domain.TemplateWorkout) error {
	for i := range workouts {
		workouts[i].ID = primitive.NewObjectID()
		r.workouts[workouts[i].TemplateID] = append(r.workouts[workouts[i].TemplateID], workouts[i])
	}
	return nil
}

func (r *fakeTemplateRepo) GetWorkouts(_ context.Context, templateID primitive.ObjectID) ([]domain.TemplateWorkout, error) {
	return append([]domain.TemplateWorkout{}, r.workouts[templateID]...), nil
}

func (r *fakeTemplateRepo) GetWorkoutsForWeek(_ context.Context, templateID primitive.ObjectID, weekNumber int) ([]domain.TemplateWorkout, error) {
	result := []domain.TemplateWorkout{}
	for _, w := range r.workouts[templateID] {
		if w.WeekNumber == weekNumber {
			result = append(result, w)
		}
	}
	return result, nil
}

func (r *fakeTemplateRepo) DeleteWorkouts(_ context.Context, templateID primitive.ObjectID) error {
	delete(r.workouts, templateID)
	return nil
}

type fakePlanRepo struct {
	plans map[primitive.ObjectID]domain.TrainingPlan
}

func newFakePlanRepo() *fakePlanRepo {
	return &fakePlanRepo{plans: make(map[primitive.ObjectID]domain.TrainingPlan)}
}

func (r *fakePlanRepo) Create(_ context.Context, plan *domain.TrainingPlan) (primitive.ObjectID, error) {
	plan.ID = primitive.NewObjectID()
	plan.CreatedAt = time.Now().UTC()
	r.plans[plan.ID] = *plan
	return plan.ID, nil
}

func (r *fakePlanRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.TrainingPlan, error) {
	p, ok := r.plans[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := p
	return &copied, nil
}

func (r *fakePlanRepo) GetByUserID(_ context.Context, userID primitive.ObjectID) ([]domain.TrainingPlan, error) {
	result := []domain.TrainingPlan{}
	for _, p := range r.plans {
		if p.UserID == userID {
			result = append(result, p)
		}
	}
	return result, nil
}

func (r *fakePlanRepo) GetActiveByUserID(_ context.Context, userID primitive.ObjectID) (*domain.TrainingPlan, error) {
	for _, p := range r.plans {
		if p.UserID == userID && p.Status == domain.PlanActive {
			copied := p
			return &copied, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakePlanRepo) Update(_ context.Context, plan *domain.TrainingPlan) error {
	if _, ok := r.plans[plan.ID]; !ok {
		return repository.ErrNotFound
	}
	r.plans[plan.ID] = *plan
	return nil
}

func (r *fakePlanRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	if _, ok := r.plans[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.plans, id)
	return nil
}

type fakeCompletionRepo struct {
	completions map[primitive.ObjectID]domain.WorkoutCompletion
}

func newFakeCompletionRepo() *fakeCompletionRepo {
	return &fakeCompletionRepo{completions: make(map[primitive.ObjectID]domain.WorkoutCompletion)}
}

func (r *fakeCompletionRepo) Create(_ context.Context, completion *domain.WorkoutCompletion) (primitive.ObjectID, error) {
	if completion.PlannedWorkoutID != nil {
		for _, c := range r.completions {
			if c.PlanID == completion.PlanID && c.PlannedWorkoutID != nil && *c.PlannedWorkoutID == *completion.PlannedWorkoutID {
				return primitive.NilObjectID, repository.ErrDuplicate
			}
		}
	}
	completion.ID = primitive.NewObjectID()
	r.completions[completion.ID] = *completion
	return completion.ID, nil
}

func (r *fakeCompletionRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.WorkoutCompletion, error) {
	c, ok := r.completions[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := c
	return &copied, nil
}

func (r *fakeCompletionRepo) GetByPlanID(_ context.Context, planID primitive.ObjectID, _ domain.CompletionFilters) ([]domain.WorkoutCompletion, error) {
	result := []domain.WorkoutCompletion{}
	for _, c := range r.completions {
		if c.PlanID == planID {
			result = append(result, c)
		}
	}
	return result, nil
}

func (r *fakeCompletionRepo) GetByPlanAndWorkout(_ context.Context, planID, plannedWorkoutID primitive.ObjectID) (*domain.WorkoutCompletion, error) {
	for _, c := range r.completions {
		if c.PlanID == planID && c.PlannedWorkoutID != nil && *c.PlannedWorkoutID == plannedWorkoutID {
			copied := c
			return &copied, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeCompletionRepo) Update(_ context.Context, completion *domain.WorkoutCompletion) error {
	if _, ok := r.completions[completion.ID]; !ok {
		return repository.ErrNotFound
	}
	r.completions[completion.ID] = *completion
	return nil
}

func (r *fakeCompletionRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	if _, ok := r.completions[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.completions, id)
	return nil
}

func (r *fakeCompletionRepo) DeleteByPlanID(_ context.Context, planID primitive.ObjectID) error {
	for id, c := range r.completions {
		if c.PlanID == planID {
			delete(r.completions, id)
		}
	}
	return nil
}

type fakeActivityRepo struct {
	activities map[primitive.ObjectID]domain.Activity
}

func newFakeActivityRepo() *fakeActivityRepo {
	return &fakeActivityRepo{activities: make(map[primitive.ObjectID]domain.Activity)}
}

func (r *fakeActivityRepo) Upsert(_ context.Context, activity *domain.Activity) (primitive.ObjectID, error) {
	for id, a := range r.activities {
		if a.UserID == activity.UserID && a.ExternalID == activity.ExternalID {
			activity.ID = id
			activity.CreatedAt = a.CreatedAt
			r.activities[id] = *activity
			return id, nil
		}
	}
	activity.ID = primitive.NewObjectID()
	activity.CreatedAt = time.Now().UTC()
	r.activities[activity.ID] = *activity
	return activity.ID, nil
}

func (r *fakeActivityRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.Activity, error) {
	a, ok := r.activities[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := a
	return &copied, nil
}

func (r *fakeActivityRepo) GetByUserID(_ context.Context, userID primitive.ObjectID, since time.Time) ([]domain.Activity, error) {
	result := []domain.Activity{}
	for _, a := range r.activities {
		if a.UserID != userID {
			continue
		}
		if !since.IsZero() && a.StartDate.Before(since) {
			continue
		}
		result = append(result, a)
	}
	return result, nil
}

func (r *fakeActivityRepo) GetByExternalID(_ context.Context, userID primitive.ObjectID, externalID int64) (*domain.Activity, error) {
	for _, a := range r.activities {
		if a.UserID == userID && a.ExternalID == externalID {
			copied := a
			return &copied, nil
		}
	}
	return nil, repository.ErrNotFound
}

type fakeAttachmentRepo struct {
	attachments map[primitive.ObjectID]domain.Attachment
}

func newFakeAttachmentRepo() *fakeAttachmentRepo {
	return &fakeAttachmentRepo{attachments: make(map[primitive.ObjectID]domain.Attachment)}
}

func (r *fakeAttachmentRepo) Create(_ context.Context, attachment *domain.Attachment) (primitive.ObjectID, error) {
	for _, a := range r.attachments {
		if a.CompletionID == attachment.CompletionID {
			return primitive.NilObjectID, repository.ErrDuplicate
		}
	}
	attachment.ID = primitive.NewObjectID()
	attachment.UploadedAt = time.Now().UTC()
	r.attachments[attachment.ID] = *attachment
	return attachment.ID, nil
}

func (r *fakeAttachmentRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.Attachment, error) {
	a, ok := r.attachments[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := a
	return &copied, nil
}

func (r *fakeAttachmentRepo) GetByCompletionID(_ context.Context, completionID primitive.ObjectID) (*domain.Attachment, error) {
	for _, a := range r.attachments {
		if a.CompletionID == completionID {
			copied := a
			return &copied, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeAttachmentRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	if _, ok := r.attachments[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.attachments, id)
	return nil
}

// fakeFileStorage records operations instead of talking to S3.
type fakeFileStorage struct {
	deleted []string
}

func (s *fakeFileStorage) GeneratePresignedUploadURL(_ context.Context, objectKey, _ string, _ time.Duration) (string, error) {
	return "https://storage.test/upload/" + objectKey, nil
}

func (s *fakeFileStorage) GeneratePresignedDownloadURL(_ context.Context, objectKey string, _ time.Duration) (string, error) {
	return "https://storage.test/download/" + objectKey, nil
}

func (s *fakeFileStorage) DeleteObject(_ context.Context, objectKey string) error {
	s.deleted = append(s.deleted, objectKey)
	return nil
}
