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

	"alcyxob/interval-trainer/internal/api"
	"alcyxob/interval-trainer/internal/config"
	"alcyxob/interval-trainer/internal/logging"
	"alcyxob/interval-trainer/internal/repository/mongo"
	"alcyxob/interval-trainer/internal/service"
	"alcyxob/interval-trainer/internal/storage"

	"github.com/gin-gonic/gin"
)

// @title Interval Trainer API
// @version 1.0
// @description API for storing generated interval workouts, running them with a live timer and reviewing past sessions.
// @host localhost:8080
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	// --- Configuration ---
	flags := config.Flags()
	if err := flags.Parse(os.Args[1:]); err != nil {
		log.Fatalf("FATAL: Could not parse flags: %v", err)
	}
	configDir, _ := flags.GetString("config")
	cfg, err := config.LoadConfig(configDir, flags)
	if err != nil {
		log.Fatalf("FATAL: Could not load config: %v", err)
	}

	logCloser := logging.Setup(cfg.Log)
	defer logCloser.Close()

	log.Println("Starting Interval Trainer Server...")
	if cfg.JWT.Secret == "" {
		log.Fatalf("FATAL: jwt.secret is not set (JWT_SECRET)")
	}

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

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 1*time.Minute)
		defer cancel()
		mongo.EnsureIndexes(ctx, appDB)
		log.Println("Index creation process completed.")
	}()

	// --- Initialize Storage ---
	var fileStorage storage.FileStorage
	if cfg.S3.BucketName != "" {
		fileStorage, err = storage.NewS3Storage(cfg.S3)
		if err != nil {
			log.Fatalf("FATAL: Failed to initialize S3 storage: %v", err)
		}
	} else {
		log.Println("WARN: s3.bucket_name is not set, session exports are kept in memory")
		fileStorage = storage.NewMemoryStorage()
	}

	// --- Initialize Repositories ---
	userRepo := mongo.NewMongoUserRepository(appDB)
	workoutRepo := mongo.NewMongoWorkoutRepository(appDB)
	sessionRepo := mongo.NewMongoSessionRepository(appDB)
	exportRepo := mongo.NewMongoExportRepository(appDB)

	// --- Initialize Services ---
	authService := service.NewAuthService(userRepo, cfg.JWT.Secret, cfg.JWT.Expiration)
	workoutService := service.NewWorkoutService(workoutRepo)
	sessionService := service.NewSessionService(workoutRepo, sessionRepo, exportRepo, fileStorage, cfg.Timer.TickInterval, log.Default())

	router := gin.Default()
	api.SetupRoutes(router, cfg.JWT.Secret, authService, workoutService, sessionService)

	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	log.Printf("Server starting on %s (timer tick %s)", cfg.Server.Address, cfg.Timer.TickInterval)

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
		log.Printf("ERROR: Server forced to shutdown: %v", err)
	}
	// Unfinished runs are recorded as stopped early.
	sessionService.Shutdown()

	log.Println("Server exiting.")
}
