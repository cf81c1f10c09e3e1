package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tigerswim/raceprep-sub001/internal/api"
	"github.com/tigerswim/raceprep-sub001/internal/config"
	"github.com/tigerswim/raceprep-sub001/internal/repository/mongo"
	"github.com/tigerswim/raceprep-sub001/internal/service"
	"github.com/tigerswim/raceprep-sub001/internal/storage"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

func main() {
	log.SetFormatter(&log.JSONFormatter{})
	log.Info("starting raceprep server")

	// --- Configuration ---
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.WithError(err).Fatal("could not load config")
	}

	// --- Database Connection ---
	dbClient, err := mongo.ConnectDB(cfg.Database.URI)
	if err != nil {
		log.WithError(err).Fatal("could not connect to MongoDB")
	}
	defer func() {
		log.Info("disconnecting MongoDB")
		if err := mongo.DisconnectDB(dbClient); err != nil {
			log.WithError(err).Error("failed to disconnect MongoDB")
		}
	}()
	appDB := dbClient.Database(cfg.Database.Name)
	log.WithField("database", cfg.Database.Name).Info("database connection established")

	// --- Ensure Indexes ---
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 1*time.Minute)
		defer cancel()
		if err := mongo.EnsureUserIndexes(ctx, appDB.Collection("users")); err != nil {
			log.WithError(err).Warn("failed to ensure user indexes")
		}
		if err := mongo.EnsureTemplateIndexes(ctx, appDB); err != nil {
			log.WithError(err).Warn("failed to ensure template indexes")
		}
		if err := mongo.EnsurePlanIndexes(ctx, appDB.Collection("training_plans")); err != nil {
			log.WithError(err).Warn("failed to ensure plan indexes")
		}
		if err := mongo.EnsureCompletionIndexes(ctx, appDB.Collection("workout_completions")); err != nil {
			log.WithError(err).Warn("failed to ensure completion indexes")
		}
		if err := mongo.EnsureActivityIndexes(ctx, appDB.Collection("activities")); err != nil {
			log.WithError(err).Warn("failed to ensure activity indexes")
		}
		if err := mongo.EnsureAttachmentIndexes(ctx, appDB.Collection("attachments")); err != nil {
			log.WithError(err).Warn("failed to ensure attachment indexes")
		}
		log.Info("index creation completed")
	}()

	// --- Initialize Storage ---
	fileStorage, err := storage.NewS3Storage(cfg.S3)
	if err != nil {
		log.WithError(err).Fatal("failed to initialize S3 storage")
	}

	// --- Initialize Repositories ---
	userRepo := mongo.NewMongoUserRepository(appDB)
	templateRepo := mongo.NewMongoTemplateRepository(appDB)
	planRepo := mongo.NewMongoPlanRepository(appDB)
	completionRepo := mongo.NewMongoCompletionRepository(appDB)
	activityRepo := mongo.NewMongoActivityRepository(appDB)
	attachmentRepo := mongo.NewMongoAttachmentRepository(appDB)

	// --- Initialize Services ---
	authService := service.NewAuthService(userRepo, cfg.JWT.Secret, cfg.JWT.Expiration)
	templateService := service.NewTemplateService(templateRepo)
	planService := service.NewPlanService(planRepo, templateRepo, completionRepo, attachmentRepo, userRepo, fileStorage, cfg.Progress.UpcomingDays)
	activityService := service.NewActivityService(activityRepo, planRepo, templateRepo, completionRepo, userRepo, cfg.Progress.MatchWindowDays)

	// --- Seed Catalog ---
	if cfg.Catalog.AutoSeed {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		if err := templateService.SeedCatalog(ctx); err != nil {
			log.WithError(err).Fatal("failed to seed template catalog")
		}
		cancel()
	}

	// --- Initialize Gin Engine ---
	router := gin.New()
	router.Use(gin.Recovery())

	// --- Setup Routes ---
	api.SetupRoutes(router, cfg.JWT.Secret, authService, templateService, planService, activityService)

	// --- Start HTTP Server ---
	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	log.WithField("address", cfg.Server.Address).Info("server starting")

	// --- Graceful Shutdown ---
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("listen and serve error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down server")

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := server.Shutdown(ctxShutdown); err != nil {
		log.WithError(err).Fatal("server forced to shutdown")
	}

	log.Info("server exiting")
}
