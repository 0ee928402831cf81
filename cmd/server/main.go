package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/SVPraveen1/spotmies-learning-path/internal/config"
	"github.com/SVPraveen1/spotmies-learning-path/internal/database"
	"github.com/SVPraveen1/spotmies-learning-path/internal/handlers"
	"github.com/SVPraveen1/spotmies-learning-path/internal/middleware"
	"github.com/SVPraveen1/spotmies-learning-path/internal/registry"
	"github.com/SVPraveen1/spotmies-learning-path/internal/repository"
	"github.com/SVPraveen1/spotmies-learning-path/internal/router"
	"github.com/SVPraveen1/spotmies-learning-path/internal/services"
)

func main() {
	log.Println("🚀 Starting Learning Path Backend...")

	// ──── Step 1: Load Environment Variables ────
	cfg := config.Load()
	log.Println("✓ Environment variables loaded")

	// ──── Step 2: Initialize PostgreSQL Connection Pool ────
	pool, err := database.NewPostgresPool(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("✗ PostgreSQL connection failed: %v", err)
	}
	defer pool.Close()
	log.Println("✓ PostgreSQL connected")

	// ──── Step 3: Run Database Migrations ────
	if err := database.RunMigrations(pool, "migrations"); err != nil {
		log.Fatalf("✗ Database migration failed: %v", err)
	}
	log.Println("✓ Database migrations applied")

	// ──── Step 4: Initialize Quiz Instance Store ────
	// Redis-backed when REDIS_URL is set, in-process otherwise.
	var instances registry.InstanceStore
	if cfg.RedisURL != "" {
		redisClient, err := database.NewRedisClient(cfg.RedisURL)
		if err != nil {
			log.Fatalf("✗ Redis connection failed: %v", err)
		}
		defer redisClient.Close()
		instances = registry.NewRedisStore(redisClient, cfg.QuizInstanceTTL)
		log.Println("✓ Redis connected (quiz instance store)")
	} else {
		memStore := registry.NewMemoryStore(cfg.QuizInstanceTTL, time.Minute)
		defer memStore.Stop()
		instances = memStore
		log.Println("✓ In-memory quiz instance store initialized")
	}

	// ──── Step 5: Initialize Gemini Client ────
	var geminiService *services.GeminiService
	if cfg.GeminiAPIKey != "" {
		geminiService, err = services.NewGeminiService(cfg.GeminiAPIKey, cfg.GeminiConcurrentReqs)
		if err != nil {
			log.Fatalf("✗ Gemini client initialization failed: %v", err)
		}
		defer geminiService.Close()
		log.Println("✓ Gemini Flash client initialized")
	} else {
		log.Println("⚠ GEMINI_API_KEY not set, serving static quizzes and fallback roadmaps")
	}

	// ──── Initialize Repositories ────
	userRepo := repository.NewUserRepo(pool)
	assessmentRepo := repository.NewAssessmentRepo(pool)
	learningPathRepo := repository.NewLearningPathRepo(pool)

	// ──── Initialize Services ────
	jwtAuth := middleware.NewJWTAuth(cfg.JWTSecret)
	authService := services.NewAuthService(userRepo, jwtAuth)
	questionBank := services.NewQuestionBank()
	quizProvider := services.NewQuizProvider(geminiService, questionBank)
	recommendationService := services.NewRecommendationService(geminiService)

	// ──── Initialize Handlers ────
	authHandler := handlers.NewAuthHandler(authService, userRepo)
	assessmentHandler := handlers.NewAssessmentHandler(quizProvider, questionBank, instances, assessmentRepo)
	recommendationHandler := handlers.NewRecommendationHandler(recommendationService, learningPathRepo, assessmentRepo)

	// ──── Step 6: Start HTTP Server ────
	r := router.New(
		jwtAuth,
		authHandler,
		assessmentHandler,
		recommendationHandler,
		cfg.FrontendURL,
	)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Println("Shutting down...")

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		server.Shutdown(ctx)
	}()

	log.Printf("✓ Learning Path Backend ready on http://localhost:%s", cfg.Port)
	log.Printf("  API: http://localhost:%s/api/v1", cfg.Port)

	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		log.Fatalf("Server error: %v", err)
	}
}
