package api

import (
	"net/http"

	"github.com/tigerswim/raceprep-sub001/internal/domain"
	"github.com/tigerswim/raceprep-sub001/internal/service"

	"github.com/gin-gonic/gin"
)

// SetupRoutes wires every handler onto the router.
func SetupRoutes(
	router *gin.Engine,
	jwtSecret string,
	authService service.AuthService,
	templateService service.TemplateService,
	planService service.PlanService,
	activityService service.ActivityService,
) {
	authHandler := NewAuthHandler(authService)
	templateHandler := NewTemplateHandler(templateService)
	planHandler := NewPlanHandler(planService)
	activityHandler := NewActivityHandler(activityService)

	router.Use(RequestIDMiddleware(), RequestLogger())

	authMiddleware := AuthMiddleware(jwtSecret)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	apiV1 := router.Group("/api/v1")
	{
		authGroup := apiV1.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
		}
	}

	protected := apiV1.Group("")
	protected.Use(authMiddleware)
	{
		protected.GET("/me", func(c *gin.Context) {
			userID, err := getUserIDFromContext(c)
			if err != nil {
				abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
				return
			}
			role, _ := getUserRoleFromContext(c)
			c.JSON(http.StatusOK, gin.H{"userId": userID.Hex(), "role": role})
		})
		protected.PATCH("/me", authHandler.UpdateProfile)

		// --- Template catalog ---
		templateGroup := protected.Group("/templates")
		{
			templateGroup.GET("", templateHandler.ListTemplates)
			templateGroup.GET("/:templateId", templateHandler.GetTemplate)
			templateGroup.GET("/:templateId/workouts", templateHandler.GetTemplateWorkouts)
			templateGroup.GET("/:templateId/weeks/:week", templateHandler.GetTemplateWeek)

			// Catalog management is admin only.
			templateGroup.POST("", RoleMiddleware(domain.RoleAdmin), templateHandler.CreateTemplate)
			templateGroup.PUT("/:templateId", RoleMiddleware(domain.RoleAdmin), templateHandler.UpdateTemplate)
			templateGroup.DELETE("/:templateId", RoleMiddleware(domain.RoleAdmin), templateHandler.DeleteTemplate)
		}

		// --- Training plans ---
		planGroup := protected.Group("/plans")
		{
			planGroup.POST("", planHandler.CreatePlan)
			planGroup.GET("", planHandler.ListPlans)
			planGroup.GET("/active", planHandler.GetActivePlan)
			planGroup.GET("/:planId", planHandler.GetPlan)
			planGroup.PATCH("/:planId", planHandler.UpdatePlan)
			planGroup.POST("/:planId/advance", planHandler.AdvanceWeek)
			planGroup.DELETE("/:planId", planHandler.DeletePlan)

			// Schedule and progress views.
			planGroup.GET("/:planId/workouts", planHandler.GetSchedule)
			planGroup.GET("/:planId/workouts/today", planHandler.GetTodayWorkouts)
			planGroup.GET("/:planId/workouts/upcoming", planHandler.GetUpcomingWorkouts)
			planGroup.GET("/:planId/weeks/:week", planHandler.GetWeekSchedule)
			planGroup.GET("/:planId/progress", planHandler.GetProgress)
			planGroup.GET("/:planId/adherence", planHandler.GetAdherence)

			// Completions.
			planGroup.POST("/:planId/completions", planHandler.LogCompletion)
			planGroup.POST("/:planId/completions/skip", planHandler.SkipWorkout)
			planGroup.PATCH("/:planId/completions/:completionId", planHandler.UpdateCompletion)
			planGroup.DELETE("/:planId/completions/:completionId", planHandler.DeleteCompletion)

			// Completion attachments.
			planGroup.POST("/:planId/completions/:completionId/attachment/upload-url", planHandler.RequestAttachmentUpload)
			planGroup.POST("/:planId/completions/:completionId/attachment/confirm", planHandler.ConfirmAttachment)
			planGroup.GET("/:planId/completions/:completionId/attachment/download-url", planHandler.GetAttachmentDownloadURL)

			// Activity matching.
			planGroup.GET("/:planId/matches", activityHandler.FindMatches)
			planGroup.POST("/:planId/matches/accept", activityHandler.AcceptMatch)
			planGroup.POST("/:planId/matches/auto", activityHandler.AutoMatch)
		}

		// --- Synced activities ---
		activityGroup := protected.Group("/activities")
		{
			activityGroup.POST("", activityHandler.IngestActivities)
			activityGroup.GET("", activityHandler.ListActivities)
		}
	}
}
