package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/tigerswim/raceprep-sub001/internal/catalog"
	"github.com/tigerswim/raceprep-sub001/internal/domain"
	"github.com/tigerswim/raceprep-sub001/internal/repository"

	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Error Definitions ---
var (
	ErrTemplateNotFound = errors.New("template not found")
	ErrSlugTaken        = errors.New("template slug already in use")
	ErrInvalidTemplate  = errors.New("invalid template")
	ErrInvalidWeek      = errors.New("week number out of range")
)

// --- Service Interface ---
type TemplateService interface {
	SeedCatalog(ctx context.Context) error
	ListTemplates(ctx context.Context, filters domain.TemplateFilters) ([]domain.PlanTemplate, error)
	GetTemplate(ctx context.Context, templateID primitive.ObjectID) (*domain.PlanTemplate, error)
	GetTemplateBySlug(ctx context.Context, slug string) (*domain.PlanTemplate, error)
	GetTemplateWorkouts(ctx context.Context, templateID primitive.ObjectID) ([]domain.TemplateWorkout, error)
	GetTemplateWeek(ctx context.Context, templateID primitive.ObjectID, weekNumber int) ([]domain.TemplateWorkout, error)

	// Admin catalog management.
	CreateTemplate(ctx context.Context, template *domain.PlanTemplate, workouts []domain.TemplateWorkout) (*domain.PlanTemplate, error)
	UpdateTemplate(ctx context.Context, template *domain.PlanTemplate) (*domain.PlanTemplate, error)
	DeleteTemplate(ctx context.Context, templateID primitive.ObjectID) error
}

// templateService implements TemplateService.
type templateService struct {
	templateRepo repository.TemplateRepository
}

// NewTemplateService creates a new instance of templateService.
func NewTemplateService(templateRepo repository.TemplateRepository) TemplateService {
	return &templateService{templateRepo: templateRepo}
}

// SeedCatalog inserts the built-in plan templates when the catalog is
// empty. A non-empty catalog is left untouched, so re-running at every
// startup is safe.
func (s *templateService) SeedCatalog(ctx context.Context) error {
	count, err := s.templateRepo.Count(ctx)
	if err != nil {
		return fmt.Errorf("counting templates: %w", err)
	}
	if count > 0 {
		log.WithField("templates", count).Debug("catalog already seeded")
		return nil
	}

	for _, seed := range catalog.Templates() {
		template := seed.Template
		templateID, err := s.templateRepo.Create(ctx, &template)
		if err != nil {
			return fmt.Errorf("seeding template %q: %w", template.Slug, err)
		}
		workouts := seed.Workouts
		for i := range workouts {
			workouts[i].TemplateID = templateID
		}
		if err := s.templateRepo.CreateWorkouts(ctx, workouts); err != nil {
			return fmt.Errorf("seeding workouts for %q: %w", template.Slug, err)
		}
		log.WithFields(log.Fields{
			"slug":     template.Slug,
			"weeks":    template.DurationWeeks,
			"workouts": len(workouts),
		}).Info("seeded plan template")
	}
	return nil
}

// ListTemplates returns active templates matching the filters.
func (s *templateService) ListTemplates(ctx context.Context, filters domain.TemplateFilters) ([]domain.PlanTemplate, error) {
	return s.templateRepo.List(ctx, filters)
}

// GetTemplate returns a single template by ID.
func (s *templateService) GetTemplate(ctx context.Context, templateID primitive.ObjectID) (*domain.PlanTemplate, error) {
	template, err := s.templateRepo.GetByID(ctx, templateID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTemplateNotFound
		}
		return nil, err
	}
	return template, nil
}

// GetTemplateBySlug returns a single template by its slug.
func (s *templateService) GetTemplateBySlug(ctx context.Context, slug string) (*domain.PlanTemplate, error) {
	template, err := s.templateRepo.GetBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTemplateNotFound
		}
		return nil, err
	}
	return template, nil
}

// GetTemplateWorkouts returns every workout slot of a template.
func (s *templateService) GetTemplateWorkouts(ctx context.Context, templateID primitive.ObjectID) ([]domain.TemplateWorkout, error) {
	if _, err := s.GetTemplate(ctx, templateID); err != nil {
		return nil, err
	}
	return s.templateRepo.GetWorkouts(ctx, templateID)
}

// GetTemplateWeek returns the workout slots of one template week.
func (s *templateService) GetTemplateWeek(ctx context.Context, templateID primitive.ObjectID, weekNumber int) ([]domain.TemplateWorkout, error) {
	template, err := s.GetTemplate(ctx, templateID)
	if err != nil {
		return nil, err
	}
	if weekNumber < 1 || weekNumber > template.DurationWeeks {
		return nil, fmt.Errorf("%w: %d of %d", ErrInvalidWeek, weekNumber, template.DurationWeeks)
	}
	return s.templateRepo.GetWorkoutsForWeek(ctx, templateID, weekNumber)
}

// CreateTemplate adds a template plus its workout slots to the catalog.
func (s *templateService) CreateTemplate(ctx context.Context, template *domain.PlanTemplate, workouts []domain.TemplateWorkout) (*domain.PlanTemplate, error) {
	if err := validateTemplate(template, workouts); err != nil {
		return nil, err
	}

	templateID, err := s.templateRepo.Create(ctx, template)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrSlugTaken
		}
		return nil, err
	}
	for i := range workouts {
		workouts[i].TemplateID = templateID
	}
	if err := s.templateRepo.CreateWorkouts(ctx, workouts); err != nil {
		return nil, err
	}
	return template, nil
}

// UpdateTemplate replaces the mutable fields of a template. Workout slots
// are not editable after creation; delete and recreate instead.
func (s *templateService) UpdateTemplate(ctx context.Context, template *domain.PlanTemplate) (*domain.PlanTemplate, error) {
	if template.DurationWeeks < 1 {
		return nil, fmt.Errorf("%w: duration must be at least one week", ErrInvalidTemplate)
	}
	if err := s.templateRepo.Update(ctx, template); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTemplateNotFound
		}
		return nil, err
	}
	return s.templateRepo.GetByID(ctx, template.ID)
}

// DeleteTemplate removes a template and all of its workout slots.
// Existing plans instantiated from it keep functioning against the
// already-copied schedule only if they retain their own data; plans
// referencing a deleted template lose their schedule, so prefer
// deactivation (IsActive=false) for published templates.
func (s *templateService) DeleteTemplate(ctx context.Context, templateID primitive.ObjectID) error {
	if err := s.templateRepo.Delete(ctx, templateID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrTemplateNotFound
		}
		return err
	}
	return s.templateRepo.DeleteWorkouts(ctx, templateID)
}

func validateTemplate(template *domain.PlanTemplate, workouts []domain.TemplateWorkout) error {
	if template.Name == "" || template.Slug == "" {
		return fmt.Errorf("%w: name and slug are required", ErrInvalidTemplate)
	}
	if template.DurationWeeks < 1 {
		return fmt.Errorf("%w: duration must be at least one week", ErrInvalidTemplate)
	}
	for _, w := range workouts {
		if w.WeekNumber < 1 || w.WeekNumber > template.DurationWeeks {
			return fmt.Errorf("%w: workout week %d outside 1-%d", ErrInvalidTemplate, w.WeekNumber, template.DurationWeeks)
		}
		if w.DayOfWeek < 1 || w.DayOfWeek > 7 {
			return fmt.Errorf("%w: workout day %d outside 1-7", ErrInvalidTemplate, w.DayOfWeek)
		}
	}
	return nil
}
