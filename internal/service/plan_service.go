package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/tigerswim/raceprep-sub001/internal/domain"
	"github.com/tigerswim/raceprep-sub001/internal/planning"
	"github.com/tigerswim/raceprep-sub001/internal/repository"
	"github.com/tigerswim/raceprep-sub001/internal/storage"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Error Definitions ---
var (
	ErrPlanNotFound       = errors.New("training plan not found")
	ErrPlanAccessDenied   = errors.New("user does not have access to this plan")
	ErrActivePlanExists   = errors.New("user already has an active plan")
	ErrWorkoutNotInPlan   = errors.New("planned workout does not belong to this plan's template")
	ErrCompletionExists   = errors.New("planned workout already has a completion")
	ErrCompletionNotFound = errors.New("completion not found")
	ErrAttachmentNotFound = errors.New("attachment not found")
	ErrInvalidInput       = errors.New("invalid input")
)

// LogCompletionInput carries the athlete-provided fields for marking a
// planned workout done. CompletedDate defaults to the athlete's current
// date when nil.
type LogCompletionInput struct {
	PlannedWorkoutID      primitive.ObjectID
	CompletedDate         *domain.Date
	ActualDurationMinutes int
	ActualDistanceMiles   float64
	PerceivedEffort       int // 1-10, 0 means unset
	Notes                 string
}

// UpdateCompletionInput carries partial updates; nil fields are untouched.
type UpdateCompletionInput struct {
	CompletedDate         *domain.Date
	ActualDurationMinutes *int
	ActualDistanceMiles   *float64
	PerceivedEffort       *int
	Notes                 *string
}

// UpdatePlanInput carries partial plan updates; nil fields are untouched.
type UpdatePlanInput struct {
	PlanName *string
	Status   *domain.PlanStatus
	Notes    *string
}

// AttachmentUpload is the response to an upload request: where to PUT the
// file and the key to confirm afterwards.
type AttachmentUpload struct {
	ObjectKey string `json:"objectKey"`
	UploadURL string `json:"uploadUrl"`
}

// --- Service Interface ---
type PlanService interface {
	CreatePlan(ctx context.Context, userID, templateID primitive.ObjectID, planName string, startDate domain.Date, notes string) (*domain.TrainingPlan, error)
	GetPlan(ctx context.Context, userID, planID primitive.ObjectID) (*domain.TrainingPlan, error)
	ListPlans(ctx context.Context, userID primitive.ObjectID) ([]domain.TrainingPlan, error)
	GetActivePlan(ctx context.Context, userID primitive.ObjectID) (*domain.TrainingPlan, error)
	UpdatePlan(ctx context.Context, userID, planID primitive.ObjectID, input UpdatePlanInput) (*domain.TrainingPlan, error)
	AdvanceWeek(ctx context.Context, userID, planID primitive.ObjectID) (*domain.TrainingPlan, error)
	DeletePlan(ctx context.Context, userID, planID primitive.ObjectID) error

	LogCompletion(ctx context.Context, userID, planID primitive.ObjectID, input LogCompletionInput) (*domain.WorkoutCompletion, error)
	SkipWorkout(ctx context.Context, userID, planID, plannedWorkoutID primitive.ObjectID, reason string) (*domain.WorkoutCompletion, error)
	UpdateCompletion(ctx context.Context, userID, planID, completionID primitive.ObjectID, input UpdateCompletionInput) (*domain.WorkoutCompletion, error)
	DeleteCompletion(ctx context.Context, userID, planID, completionID primitive.ObjectID) error

	GetSchedule(ctx context.Context, userID, planID primitive.ObjectID) ([]planning.ScheduledWorkout, []planning.Warning, error)
	GetWeekSchedule(ctx context.Context, userID, planID primitive.ObjectID, weekNumber int) (*planning.WeekSchedule, []planning.Warning, error)
	GetTodayWorkouts(ctx context.Context, userID, planID primitive.ObjectID) ([]planning.ScheduledWorkout, error)
	GetUpcomingWorkouts(ctx context.Context, userID, planID primitive.ObjectID, days int) ([]planning.ScheduledWorkout, error)
	GetProgress(ctx context.Context, userID, planID primitive.ObjectID) (*planning.ProgressSummary, []planning.Warning, error)
	GetAdherence(ctx context.Context, userID, planID primitive.ObjectID, weeksBack int) (*planning.AdherenceReport, error)

	RequestAttachmentUpload(ctx context.Context, userID, planID, completionID primitive.ObjectID, fileName, contentType string) (*AttachmentUpload, error)
	ConfirmAttachment(ctx context.Context, userID, planID, completionID primitive.ObjectID, objectKey, fileName, contentType string, size int64) (*domain.Attachment, error)
	GetAttachmentDownloadURL(ctx context.Context, userID, planID, completionID primitive.ObjectID) (string, error)
}

// planService implements PlanService. It orchestrates the repositories
// and delegates all date and progress math to the planning package, with
// "today" resolved once per call from the owning user's timezone.
type planService struct {
	planRepo       repository.PlanRepository
	templateRepo   repository.TemplateRepository
	completionRepo repository.CompletionRepository
	attachmentRepo repository.AttachmentRepository
	userRepo       repository.UserRepository
	fileStorage    storage.FileStorage
	upcomingDays   int
	now            func() time.Time
}

// NewPlanService creates a new instance of planService. upcomingDays <= 0
// falls back to the planning default.
func NewPlanService(
	planRepo repository.PlanRepository,
	templateRepo repository.TemplateRepository,
	completionRepo repository.CompletionRepository,
	attachmentRepo repository.AttachmentRepository,
	userRepo repository.UserRepository,
	fileStorage storage.FileStorage,
	upcomingDays int,
) PlanService {
	if upcomingDays <= 0 {
		upcomingDays = planning.DefaultUpcomingDays
	}
	return &planService{
		planRepo:       planRepo,
		templateRepo:   templateRepo,
		completionRepo: completionRepo,
		attachmentRepo: attachmentRepo,
		userRepo:       userRepo,
		fileStorage:    fileStorage,
		upcomingDays:   upcomingDays,
		now:            time.Now,
	}
}

// today resolves the current calendar date in the user's timezone.
func (s *planService) today(ctx context.Context, userID primitive.ObjectID) (domain.Date, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return domain.Date{}, err
	}
	return domain.DateIn(s.now(), user.Location()), nil
}

// getOwnedPlan fetches a plan and verifies ownership.
func (s *planService) getOwnedPlan(ctx context.Context, userID, planID primitive.ObjectID) (*domain.TrainingPlan, error) {
	plan, err := s.planRepo.GetByID(ctx, planID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPlanNotFound
		}
		return nil, err
	}
	if plan.UserID != userID {
		return nil, ErrPlanAccessDenied
	}
	return plan, nil
}

// CreatePlan instantiates a template for an athlete. The plan spans
// exactly DurationWeeks weeks: the end date is the last day of the final
// week. An athlete can only have one active plan at a time.
func (s *planService) CreatePlan(ctx context.Context, userID, templateID primitive.ObjectID, planName string, startDate domain.Date, notes string) (*domain.TrainingPlan, error) {
	if startDate.IsZero() {
		return nil, fmt.Errorf("%w: start date is required", ErrInvalidInput)
	}

	template, err := s.templateRepo.GetByID(ctx, templateID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTemplateNotFound
		}
		return nil, err
	}

	_, err = s.planRepo.GetActiveByUserID(ctx, userID)
	if err == nil {
		return nil, ErrActivePlanExists
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	if planName == "" {
		planName = template.Name
	}

	plan := &domain.TrainingPlan{
		UserID:      userID,
		TemplateID:  templateID,
		PlanName:    planName,
		StartDate:   startDate,
		EndDate:     startDate.AddDays(template.DurationWeeks*7 - 1),
		CurrentWeek: 1,
		Status:      domain.PlanActive,
		Notes:       notes,
	}

	planID, err := s.planRepo.Create(ctx, plan)
	if err != nil {
		return nil, err
	}
	plan.ID = planID

	log.WithFields(log.Fields{
		"planId":   planID.Hex(),
		"template": template.Slug,
		"start":    startDate.String(),
	}).Info("created training plan")
	return plan, nil
}

// GetPlan returns a plan after an ownership check.
func (s *planService) GetPlan(ctx context.Context, userID, planID primitive.ObjectID) (*domain.TrainingPlan, error) {
	return s.getOwnedPlan(ctx, userID, planID)
}

// ListPlans returns all plans of the user, newest first.
func (s *planService) ListPlans(ctx context.Context, userID primitive.ObjectID) ([]domain.TrainingPlan, error) {
	return s.planRepo.GetByUserID(ctx, userID)
}

// GetActivePlan returns the user's single active plan.
func (s *planService) GetActivePlan(ctx context.Context, userID primitive.ObjectID) (*domain.TrainingPlan, error) {
	plan, err := s.planRepo.GetActiveByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPlanNotFound
		}
		return nil, err
	}
	return plan, nil
}

// UpdatePlan applies partial updates to a plan.
func (s *planService) UpdatePlan(ctx context.Context, userID, planID primitive.ObjectID, input UpdatePlanInput) (*domain.TrainingPlan, error) {
	plan, err := s.getOwnedPlan(ctx, userID, planID)
	if err != nil {
		return nil, err
	}

	if input.Status != nil && *input.Status == domain.PlanActive && plan.Status != domain.PlanActive {
		// Reactivation must not produce a second active plan.
		if active, err := s.planRepo.GetActiveByUserID(ctx, userID); err == nil && active.ID != plan.ID {
			return nil, ErrActivePlanExists
		} else if err != nil && !errors.Is(err, repository.ErrNotFound) {
			return nil, err
		}
	}

	if input.PlanName != nil {
		plan.PlanName = *input.PlanName
	}
	if input.Status != nil {
		plan.Status = *input.Status
	}
	if input.Notes != nil {
		plan.Notes = *input.Notes
	}

	if err := s.planRepo.Update(ctx, plan); err != nil {
		return nil, err
	}
	return plan, nil
}

// AdvanceWeek moves the plan to the next week. Advancing past the final
// week marks the plan completed instead.
func (s *planService) AdvanceWeek(ctx context.Context, userID, planID primitive.ObjectID) (*domain.TrainingPlan, error) {
	plan, err := s.getOwnedPlan(ctx, userID, planID)
	if err != nil {
		return nil, err
	}

	template, err := s.templateRepo.GetByID(ctx, plan.TemplateID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTemplateNotFound
		}
		return nil, err
	}

	if plan.CurrentWeek >= template.DurationWeeks {
		plan.Status = domain.PlanCompleted
	} else {
		plan.CurrentWeek++
	}

	if err := s.planRepo.Update(ctx, plan); err != nil {
		return nil, err
	}
	return plan, nil
}

// DeletePlan removes a plan and every record hanging off it.
func (s *planService) DeletePlan(ctx context.Context, userID, planID primitive.ObjectID) error {
	if _, err := s.getOwnedPlan(ctx, userID, planID); err != nil {
		return err
	}
	if err := s.completionRepo.DeleteByPlanID(ctx, planID); err != nil {
		return err
	}
	return s.planRepo.Delete(ctx, planID)
}

// templateWorkout resolves a planned workout slot and checks it belongs
// to the plan's template.
func (s *planService) templateWorkout(ctx context.Context, plan *domain.TrainingPlan, plannedWorkoutID primitive.ObjectID) (*domain.TemplateWorkout, error) {
	workouts, err := s.templateRepo.GetWorkouts(ctx, plan.TemplateID)
	if err != nil {
		return nil, err
	}
	for i := range workouts {
		if workouts[i].ID == plannedWorkoutID {
			return &workouts[i], nil
		}
	}
	return nil, ErrWorkoutNotInPlan
}

// LogCompletion marks a planned workout done.
func (s *planService) LogCompletion(ctx context.Context, userID, planID primitive.ObjectID, input LogCompletionInput) (*domain.WorkoutCompletion, error) {
	if input.PerceivedEffort != 0 && (input.PerceivedEffort < 1 || input.PerceivedEffort > 10) {
		return nil, fmt.Errorf("%w: perceived effort must be 1-10", ErrInvalidInput)
	}

	plan, err := s.getOwnedPlan(ctx, userID, planID)
	if err != nil {
		return nil, err
	}
	workout, err := s.templateWorkout(ctx, plan, input.PlannedWorkoutID)
	if err != nil {
		return nil, err
	}

	scheduledDate, err := planning.ProjectDate(plan.StartDate, workout.WeekNumber, workout.DayOfWeek)
	if err != nil {
		return nil, err
	}

	completedDate := input.CompletedDate
	if completedDate == nil {
		today, err := s.today(ctx, userID)
		if err != nil {
			return nil, err
		}
		completedDate = &today
	}

	completion := &domain.WorkoutCompletion{
		PlanID:                planID,
		PlannedWorkoutID:      &input.PlannedWorkoutID,
		ScheduledDate:         scheduledDate,
		CompletedDate:         completedDate,
		ActualDurationMinutes: input.ActualDurationMinutes,
		ActualDistanceMiles:   input.ActualDistanceMiles,
		PerceivedEffort:       input.PerceivedEffort,
		Notes:                 input.Notes,
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

// SkipWorkout records an explicit skip for a planned workout.
func (s *planService) SkipWorkout(ctx context.Context, userID, planID, plannedWorkoutID primitive.ObjectID, reason string) (*domain.WorkoutCompletion, error) {
	plan, err := s.getOwnedPlan(ctx, userID, planID)
	if err != nil {
		return nil, err
	}
	workout, err := s.templateWorkout(ctx, plan, plannedWorkoutID)
	if err != nil {
		return nil, err
	}

	scheduledDate, err := planning.ProjectDate(plan.StartDate, workout.WeekNumber, workout.DayOfWeek)
	if err != nil {
		return nil, err
	}

	completion := &domain.WorkoutCompletion{
		PlanID:           planID,
		PlannedWorkoutID: &plannedWorkoutID,
		ScheduledDate:    scheduledDate,
		Skipped:          true,
		SkipReason:       reason,
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

// getOwnedCompletion fetches a completion and verifies it belongs to the
// given (owned) plan.
func (s *planService) getOwnedCompletion(ctx context.Context, userID, planID, completionID primitive.ObjectID) (*domain.WorkoutCompletion, error) {
	if _, err := s.getOwnedPlan(ctx, userID, planID); err != nil {
		return nil, err
	}
	completion, err := s.completionRepo.GetByID(ctx, completionID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrCompletionNotFound
		}
		return nil, err
	}
	if completion.PlanID != planID {
		return nil, ErrCompletionNotFound
	}
	return completion, nil
}

// UpdateCompletion applies partial updates to a completion record.
func (s *planService) UpdateCompletion(ctx context.Context, userID, planID, completionID primitive.ObjectID, input UpdateCompletionInput) (*domain.WorkoutCompletion, error) {
	completion, err := s.getOwnedCompletion(ctx, userID, planID, completionID)
	if err != nil {
		return nil, err
	}

	if input.CompletedDate != nil {
		completion.CompletedDate = input.CompletedDate
		completion.Skipped = false
		completion.SkipReason = ""
	}
	if input.ActualDurationMinutes != nil {
		completion.ActualDurationMinutes = *input.ActualDurationMinutes
	}
	if input.ActualDistanceMiles != nil {
		completion.ActualDistanceMiles = *input.ActualDistanceMiles
	}
	if input.PerceivedEffort != nil {
		if *input.PerceivedEffort < 1 || *input.PerceivedEffort > 10 {
			return nil, fmt.Errorf("%w: perceived effort must be 1-10", ErrInvalidInput)
		}
		completion.PerceivedEffort = *input.PerceivedEffort
	}
	if input.Notes != nil {
		completion.Notes = *input.Notes
	}

	if err := s.completionRepo.Update(ctx, completion); err != nil {
		return nil, err
	}
	return completion, nil
}

// DeleteCompletion removes a completion record, returning its planned
// workout to the pending state.
func (s *planService) DeleteCompletion(ctx context.Context, userID, planID, completionID primitive.ObjectID) error {
	completion, err := s.getOwnedCompletion(ctx, userID, planID, completionID)
	if err != nil {
		return err
	}
	if completion.AttachmentID != nil {
		if attachment, err := s.attachmentRepo.GetByID(ctx, *completion.AttachmentID); err == nil {
			_ = s.fileStorage.DeleteObject(ctx, attachment.S3ObjectKey)
			_ = s.attachmentRepo.Delete(ctx, attachment.ID)
		}
	}
	return s.completionRepo.Delete(ctx, completionID)
}

// schedule loads everything needed to project a plan's full schedule.
func (s *planService) schedule(ctx context.Context, userID, planID primitive.ObjectID) (*domain.TrainingPlan, []planning.ScheduledWorkout, []planning.Warning, error) {
	plan, err := s.getOwnedPlan(ctx, userID, planID)
	if err != nil {
		return nil, nil, nil, err
	}
	workouts, err := s.templateRepo.GetWorkouts(ctx, plan.TemplateID)
	if err != nil {
		return nil, nil, nil, err
	}
	completions, err := s.completionRepo.GetByPlanID(ctx, planID, domain.CompletionFilters{})
	if err != nil {
		return nil, nil, nil, err
	}
	today, err := s.today(ctx, userID)
	if err != nil {
		return nil, nil, nil, err
	}

	scheduled, warnings, err := planning.MatchCompletions(plan.StartDate, workouts, completions, today)
	if err != nil {
		return nil, nil, nil, err
	}
	for _, w := range warnings {
		log.WithFields(log.Fields{"planId": planID.Hex(), "code": w.Code}).Warn(w.Message)
	}
	return plan, scheduled, warnings, nil
}

// GetSchedule returns the full projected schedule of a plan.
func (s *planService) GetSchedule(ctx context.Context, userID, planID primitive.ObjectID) ([]planning.ScheduledWorkout, []planning.Warning, error) {
	_, scheduled, warnings, err := s.schedule(ctx, userID, planID)
	return scheduled, warnings, err
}

// GetWeekSchedule returns one week of the schedule with weekly totals.
func (s *planService) GetWeekSchedule(ctx context.Context, userID, planID primitive.ObjectID, weekNumber int) (*planning.WeekSchedule, []planning.Warning, error) {
	plan, scheduled, warnings, err := s.schedule(ctx, userID, planID)
	if err != nil {
		return nil, nil, err
	}

	week := make([]planning.ScheduledWorkout, 0)
	for _, sw := range scheduled {
		if sw.Workout.WeekNumber == weekNumber {
			week = append(week, sw)
		}
	}
	ws, err := planning.BuildWeekSchedule(plan.StartDate, weekNumber, week)
	if err != nil {
		return nil, nil, err
	}
	return &ws, warnings, nil
}

// GetTodayWorkouts returns the workouts scheduled for the athlete's
// current date.
func (s *planService) GetTodayWorkouts(ctx context.Context, userID, planID primitive.ObjectID) ([]planning.ScheduledWorkout, error) {
	_, scheduled, _, err := s.schedule(ctx, userID, planID)
	if err != nil {
		return nil, err
	}
	today := make([]planning.ScheduledWorkout, 0)
	for _, sw := range scheduled {
		if sw.IsToday {
			today = append(today, sw)
		}
	}
	return today, nil
}

// GetUpcomingWorkouts returns workouts in the window [today, today+days].
func (s *planService) GetUpcomingWorkouts(ctx context.Context, userID, planID primitive.ObjectID, days int) ([]planning.ScheduledWorkout, error) {
	if days <= 0 {
		days = s.upcomingDays
	}
	_, scheduled, _, err := s.schedule(ctx, userID, planID)
	if err != nil {
		return nil, err
	}
	todayDate, err := s.today(ctx, userID)
	if err != nil {
		return nil, err
	}
	horizon := todayDate.AddDays(days)

	upcoming := make([]planning.ScheduledWorkout, 0)
	for _, sw := range scheduled {
		if !sw.ScheduledDate.Before(todayDate) && !sw.ScheduledDate.After(horizon) {
			upcoming = append(upcoming, sw)
		}
	}
	return upcoming, nil
}

// GetProgress computes the plan's progress summary.
func (s *planService) GetProgress(ctx context.Context, userID, planID primitive.ObjectID) (*planning.ProgressSummary, []planning.Warning, error) {
	plan, err := s.getOwnedPlan(ctx, userID, planID)
	if err != nil {
		return nil, nil, err
	}
	template, err := s.templateRepo.GetByID(ctx, plan.TemplateID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil, ErrTemplateNotFound
		}
		return nil, nil, err
	}
	workouts, err := s.templateRepo.GetWorkouts(ctx, plan.TemplateID)
	if err != nil {
		return nil, nil, err
	}
	completions, err := s.completionRepo.GetByPlanID(ctx, planID, domain.CompletionFilters{})
	if err != nil {
		return nil, nil, err
	}
	today, err := s.today(ctx, userID)
	if err != nil {
		return nil, nil, err
	}

	summary, warnings, err := planning.ComputeProgress(*plan, template.DurationWeeks, workouts, completions, today, s.upcomingDays)
	if err != nil {
		return nil, nil, err
	}
	return &summary, warnings, nil
}

// GetAdherence computes the adherence report, optionally restricted to
// the trailing weeksBack weeks of the schedule.
func (s *planService) GetAdherence(ctx context.Context, userID, planID primitive.ObjectID, weeksBack int) (*planning.AdherenceReport, error) {
	if _, err := s.getOwnedPlan(ctx, userID, planID); err != nil {
		return nil, err
	}
	completions, err := s.completionRepo.GetByPlanID(ctx, planID, domain.CompletionFilters{})
	if err != nil {
		return nil, err
	}
	if weeksBack > 0 {
		today, err := s.today(ctx, userID)
		if err != nil {
			return nil, err
		}
		completions = planning.FilterScheduledSince(completions, today.AddDays(-weeksBack*7))
	}
	report := planning.AggregateAdherence(completions)
	return &report, nil
}

// RequestAttachmentUpload hands out a presigned PUT URL for a completion
// attachment. The object key is generated here; the client uploads and
// then calls ConfirmAttachment with the same key.
func (s *planService) RequestAttachmentUpload(ctx context.Context, userID, planID, completionID primitive.ObjectID, fileName, contentType string) (*AttachmentUpload, error) {
	if fileName == "" || contentType == "" {
		return nil, fmt.Errorf("%w: fileName and contentType are required", ErrInvalidInput)
	}
	if _, err := s.getOwnedCompletion(ctx, userID, planID, completionID); err != nil {
		return nil, err
	}

	objectKey := fmt.Sprintf("attachments/%s/%s/%s-%s", userID.Hex(), completionID.Hex(), uuid.NewString(), fileName)
	uploadURL, err := s.fileStorage.GeneratePresignedUploadURL(ctx, objectKey, contentType, storage.DefaultPresignedURLExpiry)
	if err != nil {
		return nil, err
	}
	return &AttachmentUpload{ObjectKey: objectKey, UploadURL: uploadURL}, nil
}

// ConfirmAttachment records the metadata of an uploaded object and links
// it to the completion. A previous attachment on the same completion is
// replaced and its object deleted.
func (s *planService) ConfirmAttachment(ctx context.Context, userID, planID, completionID primitive.ObjectID, objectKey, fileName, contentType string, size int64) (*domain.Attachment, error) {
	if objectKey == "" {
		return nil, fmt.Errorf("%w: objectKey is required", ErrInvalidInput)
	}
	completion, err := s.getOwnedCompletion(ctx, userID, planID, completionID)
	if err != nil {
		return nil, err
	}

	if completion.AttachmentID != nil {
		if old, err := s.attachmentRepo.GetByID(ctx, *completion.AttachmentID); err == nil {
			_ = s.fileStorage.DeleteObject(ctx, old.S3ObjectKey)
			_ = s.attachmentRepo.Delete(ctx, old.ID)
		}
	}

	attachment := &domain.Attachment{
		CompletionID: completionID,
		UserID:       userID,
		S3ObjectKey:  objectKey,
		FileName:     fileName,
		ContentType:  contentType,
		Size:         size,
	}
	attachmentID, err := s.attachmentRepo.Create(ctx, attachment)
	if err != nil {
		return nil, err
	}
	attachment.ID = attachmentID

	completion.AttachmentID = &attachmentID
	if err := s.completionRepo.Update(ctx, completion); err != nil {
		return nil, err
	}
	return attachment, nil
}

// GetAttachmentDownloadURL hands out a presigned GET URL for the
// completion's attachment.
func (s *planService) GetAttachmentDownloadURL(ctx context.Context, userID, planID, completionID primitive.ObjectID) (string, error) {
	if _, err := s.getOwnedCompletion(ctx, userID, planID, completionID); err != nil {
		return "", err
	}
	attachment, err := s.attachmentRepo.GetByCompletionID(ctx, completionID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", ErrAttachmentNotFound
		}
		return "", err
	}
	return s.fileStorage.GeneratePresignedDownloadURL(ctx, attachment.S3ObjectKey, storage.DefaultPresignedURLExpiry)
}
