package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/tigerswim/raceprep-sub001/internal/domain"
	"github.com/tigerswim/raceprep-sub001/internal/planning"
	"github.com/tigerswim/raceprep-sub001/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PlanHandler serves training plan, schedule, and completion endpoints.
type PlanHandler struct {
	planService service.PlanService
}

// NewPlanHandler creates a new PlanHandler.
func NewPlanHandler(planService service.PlanService) *PlanHandler {
	return &PlanHandler{planService: planService}
}

// --- Request/Response Structs ---

type CreatePlanRequest struct {
	TemplateID string      `json:"templateId" binding:"required"`
	PlanName   string      `json:"planName,omitempty"`
	StartDate  domain.Date `json:"startDate" binding:"required"`
	Notes      string      `json:"notes,omitempty"`
}

type UpdatePlanRequest struct {
	PlanName *string            `json:"planName,omitempty"`
	Status   *domain.PlanStatus `json:"status,omitempty" binding:"omitempty,oneof=active paused completed abandoned"`
	Notes    *string            `json:"notes,omitempty"`
}

type PlanResponse struct {
	ID          string            `json:"id"`
	TemplateID  string            `json:"templateId"`
	PlanName    string            `json:"planName"`
	StartDate   domain.Date       `json:"startDate"`
	EndDate     domain.Date       `json:"endDate"`
	CurrentWeek int               `json:"currentWeek"`
	Status      domain.PlanStatus `json:"status"`
	Notes       string            `json:"notes,omitempty"`
	CreatedAt   time.Time         `json:"createdAt"`
}

type LogCompletionRequest struct {
	PlannedWorkoutID      string       `json:"plannedWorkoutId" binding:"required"`
	CompletedDate         *domain.Date `json:"completedDate,omitempty"`
	ActualDurationMinutes int          `json:"actualDurationMinutes,omitempty"`
	ActualDistanceMiles   float64      `json:"actualDistanceMiles,omitempty"`
	PerceivedEffort       int          `json:"perceivedEffort,omitempty" binding:"omitempty,min=1,max=10"`
	Notes                 string       `json:"notes,omitempty"`
}

type SkipWorkoutRequest struct {
	PlannedWorkoutID string `json:"plannedWorkoutId" binding:"required"`
	Reason           string `json:"reason,omitempty"`
}

type UpdateCompletionRequest struct {
	CompletedDate         *domain.Date `json:"completedDate,omitempty"`
	ActualDurationMinutes *int         `json:"actualDurationMinutes,omitempty"`
	ActualDistanceMiles   *float64     `json:"actualDistanceMiles,omitempty"`
	PerceivedEffort       *int         `json:"perceivedEffort,omitempty" binding:"omitempty,min=1,max=10"`
	Notes                 *string      `json:"notes,omitempty"`
}

type RequestUploadRequest struct {
	FileName    string `json:"fileName" binding:"required"`
	ContentType string `json:"contentType" binding:"required"`
}

type ConfirmAttachmentRequest struct {
	ObjectKey   string `json:"objectKey" binding:"required"`
	FileName    string `json:"fileName" binding:"required"`
	ContentType string `json:"contentType" binding:"required"`
	Size        int64  `json:"size" binding:"required,min=1"`
}

// ScheduleResponse wraps a projected schedule plus any data anomalies
// surfaced while building it.
type ScheduleResponse struct {
	Workouts []planning.ScheduledWorkout `json:"workouts"`
	Warnings []planning.Warning          `json:"warnings,omitempty"`
}

// ProgressResponse wraps the progress summary the same way.
type ProgressResponse struct {
	Progress planning.ProgressSummary `json:"progress"`
	Warnings []planning.Warning       `json:"warnings,omitempty"`
}

// MapPlanToResponse converts a domain plan to its API representation.
func MapPlanToResponse(p *domain.TrainingPlan) PlanResponse {
	return PlanResponse{
		ID:          p.ID.Hex(),
		TemplateID:  p.TemplateID.Hex(),
		PlanName:    p.PlanName,
		StartDate:   p.StartDate,
		EndDate:     p.EndDate,
		CurrentWeek: p.CurrentWeek,
		Status:      p.Status,
		Notes:       p.Notes,
		CreatedAt:   p.CreatedAt,
	}
}

// handlePlanError maps the plan service's sentinel errors onto HTTP codes.
func handlePlanError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrPlanNotFound),
		errors.Is(err, service.ErrCompletionNotFound),
		errors.Is(err, service.ErrAttachmentNotFound),
		errors.Is(err, service.ErrTemplateNotFound):
		abortWithError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrPlanAccessDenied):
		abortWithError(c, http.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrActivePlanExists),
		errors.Is(err, service.ErrCompletionExists):
		abortWithError(c, http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrInvalidInput),
		errors.Is(err, service.ErrWorkoutNotInPlan),
		errors.Is(err, planning.ErrInvalidArgument):
		abortWithError(c, http.StatusBadRequest, err.Error())
	default:
		abortWithError(c, http.StatusInternalServerError, "An unexpected error occurred")
	}
}

func (h *PlanHandler) userAndPlanIDs(c *gin.Context) (primitive.ObjectID, primitive.ObjectID, bool) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return primitive.NilObjectID, primitive.NilObjectID, false
	}
	planID, err := primitive.ObjectIDFromHex(c.Param("planId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid plan ID format")
		return primitive.NilObjectID, primitive.NilObjectID, false
	}
	return userID, planID, true
}

// --- Plan CRUD ---

// CreatePlan instantiates a catalog template for the caller.
func (h *PlanHandler) CreatePlan(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}

	var req CreatePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}
	templateID, err := primitive.ObjectIDFromHex(req.TemplateID)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid template ID format")
		return
	}

	plan, err := h.planService.CreatePlan(c.Request.Context(), userID, templateID, req.PlanName, req.StartDate, req.Notes)
	if err != nil {
		handlePlanError(c, err)
		return
	}
	c.JSON(http.StatusCreated, MapPlanToResponse(plan))
}

// ListPlans returns every plan of the caller.
func (h *PlanHandler) ListPlans(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}

	plans, err := h.planService.ListPlans(c.Request.Context(), userID)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to list plans")
		return
	}
	responses := make([]PlanResponse, 0, len(plans))
	for i := range plans {
		responses = append(responses, MapPlanToResponse(&plans[i]))
	}
	c.JSON(http.StatusOK, responses)
}

// GetActivePlan returns the caller's active plan.
func (h *PlanHandler) GetActivePlan(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}

	plan, err := h.planService.GetActivePlan(c.Request.Context(), userID)
	if err != nil {
		handlePlanError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapPlanToResponse(plan))
}

// GetPlan returns one plan of the caller.
func (h *PlanHandler) GetPlan(c *gin.Context) {
	userID, planID, ok := h.userAndPlanIDs(c)
	if !ok {
		return
	}
	plan, err := h.planService.GetPlan(c.Request.Context(), userID, planID)
	if err != nil {
		handlePlanError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapPlanToResponse(plan))
}

// UpdatePlan applies partial updates to a plan.
func (h *PlanHandler) UpdatePlan(c *gin.Context) {
	userID, planID, ok := h.userAndPlanIDs(c)
	if !ok {
		return
	}

	var req UpdatePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	plan, err := h.planService.UpdatePlan(c.Request.Context(), userID, planID, service.UpdatePlanInput{
		PlanName: req.PlanName,
		Status:   req.Status,
		Notes:    req.Notes,
	})
	if err != nil {
		handlePlanError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapPlanToResponse(plan))
}

// AdvanceWeek moves the plan to its next week.
func (h *PlanHandler) AdvanceWeek(c *gin.Context) {
	userID, planID, ok := h.userAndPlanIDs(c)
	if !ok {
		return
	}
	plan, err := h.planService.AdvanceWeek(c.Request.Context(), userID, planID)
	if err != nil {
		handlePlanError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapPlanToResponse(plan))
}

// DeletePlan removes a plan and its completions.
func (h *PlanHandler) DeletePlan(c *gin.Context) {
	userID, planID, ok := h.userAndPlanIDs(c)
	if !ok {
		return
	}
	if err := h.planService.DeletePlan(c.Request.Context(), userID, planID); err != nil {
		handlePlanError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// --- Schedule and progress views ---

// GetSchedule returns the plan's full projected schedule.
func (h *PlanHandler) GetSchedule(c *gin.Context) {
	userID, planID, ok := h.userAndPlanIDs(c)
	if !ok {
		return
	}
	workouts, warnings, err := h.planService.GetSchedule(c.Request.Context(), userID, planID)
	if err != nil {
		handlePlanError(c, err)
		return
	}
	c.JSON(http.StatusOK, ScheduleResponse{Workouts: workouts, Warnings: warnings})
}

// GetWeekSchedule returns one plan week with totals.
func (h *PlanHandler) GetWeekSchedule(c *gin.Context) {
	userID, planID, ok := h.userAndPlanIDs(c)
	if !ok {
		return
	}
	weekNumber, err := strconv.Atoi(c.Param("week"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid week number")
		return
	}

	week, warnings, err := h.planService.GetWeekSchedule(c.Request.Context(), userID, planID, weekNumber)
	if err != nil {
		handlePlanError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"week": week, "warnings": warnings})
}

// GetTodayWorkouts returns workouts scheduled for the caller's current date.
func (h *PlanHandler) GetTodayWorkouts(c *gin.Context) {
	userID, planID, ok := h.userAndPlanIDs(c)
	if !ok {
		return
	}
	workouts, err := h.planService.GetTodayWorkouts(c.Request.Context(), userID, planID)
	if err != nil {
		handlePlanError(c, err)
		return
	}
	c.JSON(http.StatusOK, ScheduleResponse{Workouts: workouts})
}

// GetUpcomingWorkouts returns workouts within the next `days` days
// (query param, service default when omitted).
func (h *PlanHandler) GetUpcomingWorkouts(c *gin.Context) {
	userID, planID, ok := h.userAndPlanIDs(c)
	if !ok {
		return
	}
	days, _ := strconv.Atoi(c.Query("days"))

	workouts, err := h.planService.GetUpcomingWorkouts(c.Request.Context(), userID, planID, days)
	if err != nil {
		handlePlanError(c, err)
		return
	}
	c.JSON(http.StatusOK, ScheduleResponse{Workouts: workouts})
}

// GetProgress returns the computed progress summary.
func (h *PlanHandler) GetProgress(c *gin.Context) {
	userID, planID, ok := h.userAndPlanIDs(c)
	if !ok {
		return
	}
	progress, warnings, err := h.planService.GetProgress(c.Request.Context(), userID, planID)
	if err != nil {
		handlePlanError(c, err)
		return
	}
	c.JSON(http.StatusOK, ProgressResponse{Progress: *progress, Warnings: warnings})
}

// GetAdherence returns the adherence report, optionally restricted via
// ?weeksBack=N.
func (h *PlanHandler) GetAdherence(c *gin.Context) {
	userID, planID, ok := h.userAndPlanIDs(c)
	if !ok {
		return
	}
	weeksBack, _ := strconv.Atoi(c.Query("weeksBack"))

	report, err := h.planService.GetAdherence(c.Request.Context(), userID, planID, weeksBack)
	if err != nil {
		handlePlanError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// --- Completions ---

// LogCompletion marks a planned workout done.
func (h *PlanHandler) LogCompletion(c *gin.Context) {
	userID, planID, ok := h.userAndPlanIDs(c)
	if !ok {
		return
	}

	var req LogCompletionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}
	plannedWorkoutID, err := primitive.ObjectIDFromHex(req.PlannedWorkoutID)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid planned workout ID format")
		return
	}

	completion, err := h.planService.LogCompletion(c.Request.Context(), userID, planID, service.LogCompletionInput{
		PlannedWorkoutID:      plannedWorkoutID,
		CompletedDate:         req.CompletedDate,
		ActualDurationMinutes: req.ActualDurationMinutes,
		ActualDistanceMiles:   req.ActualDistanceMiles,
		PerceivedEffort:       req.PerceivedEffort,
		Notes:                 req.Notes,
	})
	if err != nil {
		handlePlanError(c, err)
		return
	}
	c.JSON(http.StatusCreated, completion)
}

// SkipWorkout records an explicit skip.
func (h *PlanHandler) SkipWorkout(c *gin.Context) {
	userID, planID, ok := h.userAndPlanIDs(c)
	if !ok {
		return
	}

	var req SkipWorkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}
	plannedWorkoutID, err := primitive.ObjectIDFromHex(req.PlannedWorkoutID)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid planned workout ID format")
		return
	}

	completion, err := h.planService.SkipWorkout(c.Request.Context(), userID, planID, plannedWorkoutID, req.Reason)
	if err != nil {
		handlePlanError(c, err)
		return
	}
	c.JSON(http.StatusCreated, completion)
}

// UpdateCompletion applies partial updates to a completion.
func (h *PlanHandler) UpdateCompletion(c *gin.Context) {
	userID, planID, ok := h.userAndPlanIDs(c)
	if !ok {
		return
	}
	completionID, err := primitive.ObjectIDFromHex(c.Param("completionId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid completion ID format")
		return
	}

	var req UpdateCompletionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	completion, err := h.planService.UpdateCompletion(c.Request.Context(), userID, planID, completionID, service.UpdateCompletionInput{
		CompletedDate:         req.CompletedDate,
		ActualDurationMinutes: req.ActualDurationMinutes,
		ActualDistanceMiles:   req.ActualDistanceMiles,
		PerceivedEffort:       req.PerceivedEffort,
		Notes:                 req.Notes,
	})
	if err != nil {
		handlePlanError(c, err)
		return
	}
	c.JSON(http.StatusOK, completion)
}

// DeleteCompletion removes a completion record.
func (h *PlanHandler) DeleteCompletion(c *gin.Context) {
	userID, planID, ok := h.userAndPlanIDs(c)
	if !ok {
		return
	}
	completionID, err := primitive.ObjectIDFromHex(c.Param("completionId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid completion ID format")
		return
	}

	if err := h.planService.DeleteCompletion(c.Request.Context(), userID, planID, completionID); err != nil {
		handlePlanError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// --- Attachments ---

// RequestAttachmentUpload hands out a presigned PUT URL.
func (h *PlanHandler) RequestAttachmentUpload(c *gin.Context) {
	userID, planID, ok := h.userAndPlanIDs(c)
	if !ok {
		return
	}
	completionID, err := primitive.ObjectIDFromHex(c.Param("completionId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid completion ID format")
		return
	}

	var req RequestUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	upload, err := h.planService.RequestAttachmentUpload(c.Request.Context(), userID, planID, completionID, req.FileName, req.ContentType)
	if err != nil {
		handlePlanError(c, err)
		return
	}
	c.JSON(http.StatusOK, upload)
}

// ConfirmAttachment records the uploaded object's metadata.
func (h *PlanHandler) ConfirmAttachment(c *gin.Context) {
	userID, planID, ok := h.userAndPlanIDs(c)
	if !ok {
		return
	}
	completionID, err := primitive.ObjectIDFromHex(c.Param("completionId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid completion ID format")
		return
	}

	var req ConfirmAttachmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	attachment, err := h.planService.ConfirmAttachment(c.Request.Context(), userID, planID, completionID, req.ObjectKey, req.FileName, req.ContentType, req.Size)
	if err != nil {
		handlePlanError(c, err)
		return
	}
	c.JSON(http.StatusCreated, attachment)
}

// GetAttachmentDownloadURL hands out a presigned GET URL.
func (h *PlanHandler) GetAttachmentDownloadURL(c *gin.Context) {
	userID, planID, ok := h.userAndPlanIDs(c)
	if !ok {
		return
	}
	completionID, err := primitive.ObjectIDFromHex(c.Param("completionId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid completion ID format")
		return
	}

	url, err := h.planService.GetAttachmentDownloadURL(c.Request.Context(), userID, planID, completionID)
	if err != nil {
		handlePlanError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"downloadUrl": url})
}
