package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/SVPraveen1/spotmies-learning-path/internal/handlers"
	"github.com/SVPraveen1/spotmies-learning-path/internal/middleware"
)

func New(
	jwtAuth *middleware.JWTAuth,
	authHandler *handlers.AuthHandler,
	assessmentHandler *handlers.AssessmentHandler,
	recommendationHandler *handlers.RecommendationHandler,
	frontendURL string,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.CORS(frontendURL))

	// Auth rate limiter (10 req/min per IP)
	authLimiter := middleware.NewRateLimiter(10, time.Minute)

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api/v1", func(r chi.Router) {

		// ──── Auth Routes ────
		r.Route("/auth", func(r chi.Router) {
			r.Use(authLimiter.Middleware)
			r.Post("/register", authHandler.Register)
			r.Post("/login", authHandler.Login)

			r.Group(func(r chi.Router) {
				r.Use(jwtAuth.Middleware)
				r.Get("/me", authHandler.Me)
			})
		})

		// ──── Assessment Routes ────
		r.Route("/assessments", func(r chi.Router) {
			r.Get("/subjects", assessmentHandler.Subjects) // Public

			r.Group(func(r chi.Router) {
				r.Use(jwtAuth.Middleware)
				r.Get("/quiz/{subject}", assessmentHandler.GetQuiz)
				r.Post("/submit", assessmentHandler.Submit)
				r.Get("/history", assessmentHandler.History)
				r.Get("/{id}", assessmentHandler.Get)
			})
		})

		// ──── Recommendation Routes ────
		r.Route("/recommendations", func(r chi.Router) {
			r.Use(jwtAuth.Middleware)
			r.Post("/generate", recommendationHandler.Generate)
			r.Get("/path", recommendationHandler.GetPath)
			r.Put("/progress/{topicIndex}", recommendationHandler.UpdateProgress)
			r.Get("/next", recommendationHandler.Next)
			r.Delete("/reset", recommendationHandler.Reset)
		})
	})

	return r
}
