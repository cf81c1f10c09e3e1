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

// ActivityHandler serves synced-activity ingest and matching endpoints.
type ActivityHandler struct {
	activityService service.ActivityService
}

// NewActivityHandler creates a new ActivityHandler.
func NewActivityHandler(activityService service.ActivityService) *ActivityHandler {
	return &ActivityHandler{activityService: activityService}
}

// --- Request/Response Structs ---

type IngestActivityRequest struct {
	ExternalID        int64     `json:"externalId" binding:"required"`
	Name              string    `json:"name"`
	SportType         string    `json:"sportType" binding:"required"`
	StartDate         time.Time `json:"startDate" binding:"required"`
	MovingTimeSeconds int       `json:"movingTimeSeconds"`
	DistanceMeters    float64   `json:"distanceMeters"`
}

type IngestActivitiesRequest struct {
	Activities []IngestActivityRequest `json:"activities" binding:"required,dive"`
}

type AcceptMatchRequest struct {
	PlannedWorkoutID   string `json:"plannedWorkoutId" binding:"required"`
	ActivityExternalID int64  `json:"activityExternalId" binding:"required"`
}

// --- Handler Methods ---

// IngestActivities stores a batch of tracker activities for the caller.
func (h *ActivityHandler) IngestActivities(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}

	var req IngestActivitiesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	activities := make([]domain.Activity, 0, len(req.Activities))
	for _, a := range req.Activities {
		activities = append(activities, domain.Activity{
			ExternalID:        a.ExternalID,
			Name:              a.Name,
			SportType:         a.SportType,
			StartDate:         a.StartDate,
			MovingTimeSeconds: a.MovingTimeSeconds,
			DistanceMeters:    a.DistanceMeters,
		})
	}

	stored, err := h.activityService.IngestActivities(c.Request.Context(), userID, activities)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to ingest activities")
		return
	}
	c.JSON(http.StatusOK, gin.H{"ingested": stored})
}

// ListActivities returns the caller's activities; ?sinceDays bounds the
// window.
func (h *ActivityHandler) ListActivities(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}
	sinceDays, _ := strconv.Atoi(c.Query("sinceDays"))

	activities, err := h.activityService.ListActivities(c.Request.Context(), userID, sinceDays)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to list activities")
		return
	}
	c.JSON(http.StatusOK, activities)
}

// FindMatches scores recent activities against the plan's pending
// workouts; ?windowDays bounds the activity window.
func (h *ActivityHandler) FindMatches(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}
	planID, err := primitive.ObjectIDFromHex(c.Param("planId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid plan ID format")
		return
	}
	windowDays, _ := strconv.Atoi(c.Query("windowDays"))

	review, err := h.activityService.FindMatches(c.Request.Context(), userID, planID, windowDays)
	if err != nil {
		handlePlanError(c, err)
		return
	}
	c.JSON(http.StatusOK, review)
}

// AcceptMatch turns a reviewed pairing into a completion.
func (h *ActivityHandler) AcceptMatch(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}
	planID, err := primitive.ObjectIDFromHex(c.Param("planId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid plan ID format")
		return
	}

	var req AcceptMatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}
	plannedWorkoutID, err := primitive.ObjectIDFromHex(req.PlannedWorkoutID)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid planned workout ID format")
		return
	}

	completion, err := h.activityService.AcceptMatch(c.Request.Context(), userID, planID, plannedWorkoutID, req.ActivityExternalID)
	if err != nil {
		if errors.Is(err, service.ErrActivityNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
			return
		}
		handlePlanError(c, err)
		return
	}
	c.JSON(http.StatusCreated, completion)
}

// AutoMatch accepts every high-confidence pairing for the plan.
func (h *ActivityHandler) AutoMatch(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}
	planID, err := primitive.ObjectIDFromHex(c.Param("planId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid plan ID format")
		return
	}

	created, err := h.activityService.AutoMatch(c.Request.Context(), userID, planID)
	if err != nil {
		handlePlanError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"matched": len(created), "completions": created})
}
