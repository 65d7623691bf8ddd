package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fitcoach/coaching-app/internal/api"
	"fitcoach/coaching-app/internal/config"
	"fitcoach/coaching-app/internal/engine"
	"fitcoach/coaching-app/internal/repository"
	"fitcoach/coaching-app/internal/repository/mongo"
	"fitcoach/coaching-app/internal/service"
	"fitcoach/coaching-app/internal/storage"

	"github.com/gin-gonic/gin"
)

func main() {
	log.Println("Starting Coaching App Server...")

	// --- Configuration ---
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("FATAL: Could not load config: %v", err)
	}
	log.Println("Configuration loaded.")

	// --- Database Connection ---
	dbClient, err := mongo.ConnectDB(cfg.Database.URI)
	if err != nil {
		log.Fatalf("FATAL: Could not connect to MongoDB: %v", err)
	}
	defer func() {
		log.Println("Disconnecting MongoDB...")
		if err := mongo.DisconnectDB(dbClient); err != nil {
			log.Printf("ERROR: Failed to disconnect MongoDB: %v", err)
		}
	}()
	appDB := dbClient.Database(cfg.Database.Name)
	log.Println("Database connection established.")

	// --- Ensure Indexes ---
	log.Println("Ensuring database indexes...")
	go func() { // Run index creation concurrently/in background
		ctx, cancel := context.WithTimeout(context.Background(), 1*time.Minute)
		defer cancel()
		mongo.EnsureUserIndexes(ctx, appDB.Collection("users"))
		mongo.EnsureLeadIndexes(ctx, appDB.Collection("leads"))
		mongo.EnsureBudgetIndexes(ctx, appDB.Collection("budgets"))
		mongo.EnsureAssignmentIndexes(ctx, appDB.Collection("budget_assignments"))
		for _, name := range []string{"workout_plans", "nutrition_plans", "supplement_plans", "steps_plans"} {
			mongo.EnsurePlanIndexes(ctx, appDB.Collection(name))
		}
		log.Println("Index creation process completed.")
	}()

	// --- Initialize Storage ---
	log.Println("Initializing file storage service...")
	fileStorage, err := storage.NewS3Storage(cfg.S3)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize S3 storage: %v", err)
	}

	// --- Initialize Repositories ---
	log.Println("Initializing repositories...")
	userRepo := mongo.NewMongoUserRepository(appDB)
	customerRepo := mongo.NewMongoCustomerRepository(appDB)
	leadRepo := mongo.NewMongoLeadRepository(appDB)
	budgetRepo := mongo.NewMongoBudgetRepository(appDB)
	assignmentRepo := mongo.NewMongoAssignmentRepository(appDB)
	workoutPlanRepo := mongo.NewMongoWorkoutPlanRepository(appDB)
	nutritionPlanRepo := mongo.NewMongoNutritionPlanRepository(appDB)
	supplementPlanRepo := mongo.NewMongoSupplementPlanRepository(appDB)
	stepsPlanRepo := mongo.NewMongoStepsPlanRepository(appDB)

	// --- Initialize Services ---
	log.Println("Initializing services...")
	authService := service.NewAuthService(userRepo, cfg.JWT.Secret, cfg.JWT.Expiration)
	coachService := service.NewCoachService(
		budgetRepo, assignmentRepo, customerRepo, leadRepo,
		workoutPlanRepo, nutritionPlanRepo, supplementPlanRepo, stepsPlanRepo,
		fileStorage,
	)

	// --- Initialize Resolution Engine ---
	recordStore := repository.NewRecordStore(
		budgetRepo, assignmentRepo, leadRepo,
		workoutPlanRepo, nutritionPlanRepo, supplementPlanRepo, stepsPlanRepo,
	)
	resolver := engine.NewResolver(recordStore)

	// --- Initialize Gin Engine ---
	// gin.SetMode(gin.ReleaseMode) // Uncomment for production
	router := gin.Default() // Includes Logger and Recovery middleware

	// --- Setup Routes ---
	log.Println("Setting up API routes...")
	api.SetupRoutes(router, cfg.JWT.Secret, authService, coachService, resolver)

	// --- Start HTTP Server ---
	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	log.Printf("Server starting on %s", cfg.Server.Address)

	// --- Graceful Shutdown ---
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("FATAL: ListenAndServe Error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := server.Shutdown(ctxShutdown); err != nil {
		log.Fatalf("FATAL: Server forced to shutdown: %v", err)
	}

	log.Println("Server exiting.")
}
