package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/tigerswim/raceprep-sub001/internal/domain"
	"github.com/tigerswim/raceprep-sub001/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TemplateHandler serves the plan template catalog.
type TemplateHandler struct {
	templateService service.TemplateService
}

// NewTemplateHandler creates a new TemplateHandler.
func NewTemplateHandler(templateService service.TemplateService) *TemplateHandler {
	return &TemplateHandler{templateService: templateService}
}

// --- Request/Response Structs ---

type TemplateResponse struct {
	ID              string                 `json:"id"`
	Name            string                 `json:"name"`
	Slug            string                 `json:"slug"`
	DistanceType    domain.DistanceType    `json:"distanceType"`
	ExperienceLevel domain.ExperienceLevel `json:"experienceLevel"`
	DurationWeeks   int                    `json:"durationWeeks"`
	WeeklyHoursMin  float64                `json:"weeklyHoursMin"`
	WeeklyHoursMax  float64                `json:"weeklyHoursMax"`
	Description     string                 `json:"description,omitempty"`
	IsActive        bool                   `json:"isActive"`
	CreatedAt       time.Time              `json:"createdAt"`
}

type TemplateWorkoutResponse struct {
	ID              string            `json:"id"`
	WeekNumber      int               `json:"weekNumber"`
	DayOfWeek       int               `json:"dayOfWeek"`
	Discipline      domain.Discipline `json:"discipline"`
	WorkoutType     string            `json:"workoutType,omitempty"`
	DurationMinutes int               `json:"durationMinutes,omitempty"`
	DistanceMiles   float64           `json:"distanceMiles,omitempty"`
	Intensity       string            `json:"intensity,omitempty"`
	Description     string            `json:"description,omitempty"`
}

type CreateTemplateRequest struct {
	Name            string                         `json:"name" binding:"required"`
	Slug            string                         `json:"slug" binding:"required"`
	DistanceType    domain.DistanceType            `json:"distanceType" binding:"required,oneof=sprint olympic 70.3 ironman"`
	ExperienceLevel domain.ExperienceLevel         `json:"experienceLevel" binding:"required,oneof=beginner intermediate advanced"`
	DurationWeeks   int                            `json:"durationWeeks" binding:"required,min=1"`
	WeeklyHoursMin  float64                        `json:"weeklyHoursMin"`
	WeeklyHoursMax  float64                        `json:"weeklyHoursMax"`
	Description     string                         `json:"description,omitempty"`
	Workouts        []CreateTemplateWorkoutRequest `json:"workouts" binding:"required,dive"`
}

type CreateTemplateWorkoutRequest struct {
	WeekNumber      int               `json:"weekNumber" binding:"required,min=1"`
	DayOfWeek       int               `json:"dayOfWeek" binding:"required,min=1,max=7"`
	Discipline      domain.Discipline `json:"discipline" binding:"required,oneof=swim bike run brick strength rest"`
	WorkoutType     string            `json:"workoutType,omitempty"`
	DurationMinutes int               `json:"durationMinutes,omitempty"`
	DistanceMiles   float64           `json:"distanceMiles,omitempty"`
	Intensity       string            `json:"intensity,omitempty"`
	Description     string            `json:"description,omitempty"`
}

type UpdateTemplateRequest struct {
	Name            string                 `json:"name" binding:"required"`
	DistanceType    domain.DistanceType    `json:"distanceType" binding:"required,oneof=sprint olympic 70.3 ironman"`
	ExperienceLevel domain.ExperienceLevel `json:"experienceLevel" binding:"required,oneof=beginner intermediate advanced"`
	DurationWeeks   int                    `json:"durationWeeks" binding:"required,min=1"`
	WeeklyHoursMin  float64                `json:"weeklyHoursMin"`
	WeeklyHoursMax  float64                `json:"weeklyHoursMax"`
	Description     string                 `json:"description,omitempty"`
	IsActive        *bool                  `json:"isActive,omitempty"`
}

// MapTemplateToResponse converts a domain template to its API representation.
func MapTemplateToResponse(t *domain.PlanTemplate) TemplateResponse {
	return TemplateResponse{
		ID:              t.ID.Hex(),
		Name:            t.Name,
		Slug:            t.Slug,
		DistanceType:    t.DistanceType,
		ExperienceLevel: t.ExperienceLevel,
		DurationWeeks:   t.DurationWeeks,
		WeeklyHoursMin:  t.WeeklyHoursMin,
		WeeklyHoursMax:  t.WeeklyHoursMax,
		Description:     t.Description,
		IsActive:        t.IsActive,
		CreatedAt:       t.CreatedAt,
	}
}

// MapTemplateWorkoutToResponse converts a workout slot to its API representation.
func MapTemplateWorkoutToResponse(w *domain.TemplateWorkout) TemplateWorkoutResponse {
	return TemplateWorkoutResponse{
		ID:              w.ID.Hex(),
		WeekNumber:      w.WeekNumber,
		DayOfWeek:       w.DayOfWeek,
		Discipline:      w.Discipline,
		WorkoutType:     w.WorkoutType,
		DurationMinutes: w.DurationMinutes,
		DistanceMiles:   w.DistanceMiles,
		Intensity:       w.Intensity,
		Description:     w.Description,
	}
}

// --- Handler Methods ---

// ListTemplates returns active catalog templates, filterable via query
// params (distance, level, minWeeks, maxWeeks, minHours, maxHours).
func (h *TemplateHandler) ListTemplates(c *gin.Context) {
	filters := domain.TemplateFilters{
		DistanceType:    domain.DistanceType(c.Query("distance")),
		ExperienceLevel: domain.ExperienceLevel(c.Query("level")),
	}
	filters.MinWeeks, _ = strconv.Atoi(c.Query("minWeeks"))
	filters.MaxWeeks, _ = strconv.Atoi(c.Query("maxWeeks"))
	filters.MinHours, _ = strconv.ParseFloat(c.Query("minHours"), 64)
	filters.MaxHours, _ = strconv.ParseFloat(c.Query("maxHours"), 64)

	templates, err := h.templateService.ListTemplates(c.Request.Context(), filters)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to list templates")
		return
	}

	responses := make([]TemplateResponse, 0, len(templates))
	for i := range templates {
		responses = append(responses, MapTemplateToResponse(&templates[i]))
	}
	c.JSON(http.StatusOK, responses)
}

// GetTemplate returns one template by ID.
func (h *TemplateHandler) GetTemplate(c *gin.Context) {
	templateID, err := primitive.ObjectIDFromHex(c.Param("templateId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid template ID format")
		return
	}

	template, err := h.templateService.GetTemplate(c.Request.Context(), templateID)
	if err != nil {
		if errors.Is(err, service.ErrTemplateNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to get template")
		}
		return
	}
	c.JSON(http.StatusOK, MapTemplateToResponse(template))
}

// GetTemplateWorkouts returns the full workout schedule of a template.
func (h *TemplateHandler) GetTemplateWorkouts(c *gin.Context) {
	templateID, err := primitive.ObjectIDFromHex(c.Param("templateId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid template ID format")
		return
	}

	workouts, err := h.templateService.GetTemplateWorkouts(c.Request.Context(), templateID)
	if err != nil {
		if errors.Is(err, service.ErrTemplateNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to get template workouts")
		}
		return
	}

	responses := make([]TemplateWorkoutResponse, 0, len(workouts))
	for i := range workouts {
		responses = append(responses, MapTemplateWorkoutToResponse(&workouts[i]))
	}
	c.JSON(http.StatusOK, responses)
}

// GetTemplateWeek returns one week of a template's schedule.
func (h *TemplateHandler) GetTemplateWeek(c *gin.Context) {
	templateID, err := primitive.ObjectIDFromHex(c.Param("templateId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid template ID format")
		return
	}
	weekNumber, err := strconv.Atoi(c.Param("week"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid week number")
		return
	}

	workouts, err := h.templateService.GetTemplateWeek(c.Request.Context(), templateID, weekNumber)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrTemplateNotFound):
			abortWithError(c, http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrInvalidWeek):
			abortWithError(c, http.StatusBadRequest, err.Error())
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to get template week")
		}
		return
	}

	responses := make([]TemplateWorkoutResponse, 0, len(workouts))
	for i := range workouts {
		responses = append(responses, MapTemplateWorkoutToResponse(&workouts[i]))
	}
	c.JSON(http.StatusOK, responses)
}

// CreateTemplate adds a new template to the catalog (admin only).
func (h *TemplateHandler) CreateTemplate(c *gin.Context) {
	var req CreateTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	template := &domain.PlanTemplate{
		Name:            req.Name,
		Slug:            req.Slug,
		DistanceType:    req.DistanceType,
		ExperienceLevel: req.ExperienceLevel,
		DurationWeeks:   req.DurationWeeks,
		WeeklyHoursMin:  req.WeeklyHoursMin,
		WeeklyHoursMax:  req.WeeklyHoursMax,
		Description:     req.Description,
		IsActive:        true,
		CreatedBy:       "admin",
	}
	workouts := make([]domain.TemplateWorkout, 0, len(req.Workouts))
	for _, w := range req.Workouts {
		workouts = append(workouts, domain.TemplateWorkout{
			WeekNumber:      w.WeekNumber,
			DayOfWeek:       w.DayOfWeek,
			Discipline:      w.Discipline,
			WorkoutType:     w.WorkoutType,
			DurationMinutes: w.DurationMinutes,
			DistanceMiles:   w.DistanceMiles,
			Intensity:       w.Intensity,
			Description:     w.Description,
		})
	}

	created, err := h.templateService.CreateTemplate(c.Request.Context(), template, workouts)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrSlugTaken):
			abortWithError(c, http.StatusConflict, err.Error())
		case errors.Is(err, service.ErrInvalidTemplate):
			abortWithError(c, http.StatusBadRequest, err.Error())
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to create template")
		}
		return
	}
	c.JSON(http.StatusCreated, MapTemplateToResponse(created))
}

// UpdateTemplate replaces a template's mutable fields (admin only).
func (h *TemplateHandler) UpdateTemplate(c *gin.Context) {
	templateID, err := primitive.ObjectIDFromHex(c.Param("templateId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid template ID format")
		return
	}

	var req UpdateTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}
	template := &domain.PlanTemplate{
		ID:              templateID,
		Name:            req.Name,
		DistanceType:    req.DistanceType,
		ExperienceLevel: req.ExperienceLevel,
		DurationWeeks:   req.DurationWeeks,
		WeeklyHoursMin:  req.WeeklyHoursMin,
		WeeklyHoursMax:  req.WeeklyHoursMax,
		Description:     req.Description,
		IsActive:        isActive,
	}

	updated, err := h.templateService.UpdateTemplate(c.Request.Context(), template)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrTemplateNotFound):
			abortWithError(c, http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrInvalidTemplate):
			abortWithError(c, http.StatusBadRequest, err.Error())
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to update template")
		}
		return
	}
	c.JSON(http.StatusOK, MapTemplateToResponse(updated))
}

// DeleteTemplate removes a template and its workouts (admin only).
func (h *TemplateHandler) DeleteTemplate(c *gin.Context) {
	templateID, err := primitive.ObjectIDFromHex(c.Param("templateId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid template ID format")
		return
	}

	if err := h.templateService.DeleteTemplate(c.Request.Context(), templateID); err != nil {
		if errors.Is(err, service.ErrTemplateNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to delete template")
		}
		return
	}
	c.Status(http.StatusNoContent)
}
