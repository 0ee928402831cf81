package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/SVPraveen1/spotmies-learning-path/internal/middleware"
	"github.com/SVPraveen1/spotmies-learning-path/internal/models"
	"github.com/SVPraveen1/spotmies-learning-path/internal/services"
)

// LearningPathStore is the persistence surface the recommendation handlers
// need. *repository.LearningPathRepo satisfies it.
type LearningPathStore interface {
	Upsert(ctx context.Context, p *models.LearningPath) error
	GetByUser(ctx context.Context, userID uuid.UUID) (*models.LearningPath, error)
	UpdateProgress(ctx context.Context, p *models.LearningPath) error
	DeleteByUser(ctx context.Context, userID uuid.UUID) error
}

type RecommendationHandler struct {
	recs           *services.RecommendationService
	pathRepo       LearningPathStore
	assessmentRepo AssessmentStore
}

func NewRecommendationHandler(recs *services.RecommendationService, pathRepo LearningPathStore, assessmentRepo AssessmentStore) *RecommendationHandler {
	return &RecommendationHandler{
		recs:           recs,
		pathRepo:       pathRepo,
		assessmentRepo: assessmentRepo,
	}
}

// Generate builds a fresh roadmap from the user's assessment history and
// replaces any existing learning path.
func (h *RecommendationHandler) Generate(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	assessments, err := h.assessmentRepo.ListByUser(r.Context(), userID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to fetch assessment history", r))
		return
	}

	summaries := make([]models.AssessmentSummary, 0, len(assessments))
	for _, a := range assessments {
		summaries = append(summaries, a.Summary())
	}

	roadmap, err := h.recs.BuildRoadmap(r.Context(), summaries)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	path := &models.LearningPath{
		UserID:            userID,
		Topics:            roadmap.Topics,
		Overview:          roadmap.Overview,
		EstimatedDuration: roadmap.EstimatedDuration,
	}
	path.UpdateProgress()

	if err := h.pathRepo.Upsert(r.Context(), path); err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to save learning path", r))
		return
	}

	writeJSON(w, http.StatusCreated, path)
}

func (h *RecommendationHandler) GetPath(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	path, err := h.pathRepo.GetByUser(r.Context(), userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "No learning path found. Generate one first.", r))
			return
		}
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to fetch learning path", r))
		return
	}

	writeJSON(w, http.StatusOK, path)
}

// UpdateProgress sets one topic's status by its position in the path and
// recomputes the completion counters.
func (h *RecommendationHandler) UpdateProgress(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	topicIndex, err := strconv.Atoi(chi.URLParam(r, "topicIndex"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid topic index", r))
		return
	}

	var req models.UpdateProgressRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	switch req.Status {
	case models.TopicNotStarted, models.TopicInProgress, models.TopicCompleted:
	default:
		writeJSON(w, http.StatusBadRequest, errorRespWithFields("VALIDATION_ERROR", "Invalid status", map[string]string{
			"status": "must be one of not_started, in_progress, completed",
		}, r))
		return
	}

	path, err := h.pathRepo.GetByUser(r.Context(), userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "No learning path found. Generate one first.", r))
			return
		}
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to fetch learning path", r))
		return
	}

	if topicIndex < 0 || topicIndex >= len(path.Topics) {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Topic index out of range", r))
		return
	}

	path.Topics[topicIndex].Status = req.Status
	if req.Status == models.TopicCompleted {
		now := time.Now()
		path.Topics[topicIndex].CompletedAt = &now
	} else {
		path.Topics[topicIndex].CompletedAt = nil
	}
	path.UpdateProgress()

	if err := h.pathRepo.UpdateProgress(r.Context(), path); err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to update progress", r))
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Progress updated",
		"topic":   path.Topics[topicIndex],
		"overallProgress": map[string]interface{}{
			"completed":  path.CompletedTopics,
			"total":      path.TotalTopics,
			"percentage": path.ProgressPercentage,
		},
	})
}

// Next returns AI-assisted guidance on what to tackle next in the path.
func (h *RecommendationHandler) Next(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	path, err := h.pathRepo.GetByUser(r.Context(), userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "No learning path found. Generate one first.", r))
			return
		}
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to fetch learning path", r))
		return
	}

	writeJSON(w, http.StatusOK, h.recs.NextSteps(r.Context(), path))
}

// Reset deletes the user's learning path so a new one can be generated.
func (h *RecommendationHandler) Reset(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	if err := h.pathRepo.DeleteByUser(r.Context(), userID); err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to reset learning path", r))
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Learning path reset"})
}
