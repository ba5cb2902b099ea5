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

	"peakform/trainer-hub/internal/api"
	"peakform/trainer-hub/internal/config"
	"peakform/trainer-hub/internal/repository/mongo"
	"peakform/trainer-hub/internal/service"
	"peakform/trainer-hub/internal/storage"
	"peakform/trainer-hub/internal/ws"

	"github.com/gin-gonic/gin"
)

func main() {
	log.Println("Starting Trainer Hub Server...")

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
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 1*time.Minute)
		defer cancel()
		mongo.EnsureUserIndexes(ctx, appDB.Collection("users"))
		mongo.EnsureClientIndexes(ctx, appDB.Collection("clients"))
		mongo.EnsureTrainerIndexes(ctx, appDB.Collection("trainers"))
		mongo.EnsurePlanIndexes(ctx, appDB.Collection("workout_plans"))
		mongo.EnsureLogIndexes(ctx, appDB.Collection("workout_logs"))
		mongo.EnsureMessageIndexes(ctx, appDB.Collection("messages"))
		mongo.EnsureChangeRequestIndexes(ctx, appDB.Collection("trainer_change_requests"))
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
	clientRepo := mongo.NewMongoClientRepository(appDB)
	trainerRepo := mongo.NewMongoTrainerRepository(appDB)
	planRepo := mongo.NewMongoPlanRepository(appDB)
	logRepo := mongo.NewMongoLogRepository(appDB)
	messageRepo := mongo.NewMongoMessageRepository(appDB)
	requestRepo := mongo.NewMongoChangeRequestRepository(appDB)

	// --- Initialize Realtime Hub ---
	hub := ws.NewHub()

	// --- Initialize Services ---
	log.Println("Initializing services...")
	authService := service.NewAuthService(
		userRepo, clientRepo, trainerRepo,
		cfg.JWT.Secret, cfg.JWT.Expiration,
		cfg.Auth.BcryptCost, cfg.Auth.QRTokenTTL,
	)
	userService := service.NewUserService(userRepo, cfg.Auth.BcryptCost)
	clientService := service.NewClientService(clientRepo, trainerRepo, userRepo)
	trainerService := service.NewTrainerService(trainerRepo, userRepo)
	planService := service.NewPlanService(planRepo, clientRepo, trainerRepo)
	logService := service.NewLogService(logRepo, planRepo, trainerRepo, hub, fileStorage)
	messageService := service.NewMessageService(messageRepo, userRepo, hub)
	requestService := service.NewChangeRequestService(requestRepo, clientRepo, trainerRepo)

	wsHandler := ws.NewHandler(hub, authService)

	// --- Seed Bootstrap Admin ---
	if cfg.Admin.Email != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		if err := userService.EnsureBootstrapAdmin(ctx, cfg.Admin.Name, cfg.Admin.Email, cfg.Admin.Password); err != nil {
			log.Fatalf("FATAL: Failed to seed bootstrap admin: %v", err)
		}
		cancel()
	}

	// --- Initialize Gin Engine ---
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()

	// --- Setup Routes ---
	log.Println("Setting up API routes...")
	api.SetupRoutes(
		router, &cfg,
		authService, userService, clientService, trainerService,
		planService, logService, messageService, requestService,
		wsHandler,
	)

	// --- Start HTTP Server ---
	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	log.Printf("Server starting on %s", cfg.Server.Address)

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
