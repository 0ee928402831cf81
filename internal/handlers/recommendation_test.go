package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/SVPraveen1/spotmies-learning-path/internal/models"
	"github.com/SVPraveen1/spotmies-learning-path/internal/services"
)

type fakeLearningPathStore struct {
	path    *models.LearningPath
	updates int
}

func (f *fakeLearningPathStore) Upsert(ctx context.Context, p *models.LearningPath) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	f.path = p
	return nil
}

func (f *fakeLearningPathStore) GetByUser(ctx context.Context, userID uuid.UUID) (*models.LearningPath, error) {
	if f.path == nil || f.path.UserID != userID {
		return nil, pgx.ErrNoRows
	}
	return f.path, nil
}

func (f *fakeLearningPathStore) UpdateProgress(ctx context.Context, p *models.LearningPath) error {
	f.updates++
	f.path = p
	return nil
}

func (f *fakeLearningPathStore) DeleteByUser(ctx context.Context, userID uuid.UUID) error {
	f.path = nil
	return nil
}

func newRecommendationEnv(t *testing.T) (*RecommendationHandler, *fakeLearningPathStore, *fakeAssessmentStore) {
	t.Helper()
	paths := &fakeLearningPathStore{}
	assessments := &fakeAssessmentStore{}
	h := NewRecommendationHandler(services.NewRecommendationService(nil), paths, assessments)
	return h, paths, assessments
}

func recommendationRouter(h *RecommendationHandler) http.Handler {
	r := chi.NewRouter()
	r.Post("/recommendations/generate", h.Generate)
	r.Get("/recommendations/path", h.GetPath)
	r.Put("/recommendations/progress/{topicIndex}", h.UpdateProgress)
	r.Get("/recommendations/next", h.Next)
	r.Delete("/recommendations/reset", h.Reset)
	return r
}

func seedPath(f *fakeLearningPathStore, userID uuid.UUID, topicCount int) {
	topics := make([]models.Topic, topicCount)
	for i := range topics {
		topics[i] = models.Topic{
			ID:     uuid.NewString(),
			Title:  "Topic",
			Status: models.TopicNotStarted,
			Order:  i + 1,
		}
	}
	path := &models.LearningPath{ID: uuid.New(), UserID: userID, Topics: topics}
	path.UpdateProgress()
	f.path = path
}

// ─── Generate ───

func TestGenerateRejectsWithoutAssessments(t *testing.T) {
	h, paths, _ := newRecommendationEnv(t)

	rr := httptest.NewRecorder()
	recommendationRouter(h).ServeHTTP(rr, authedRequest(t, http.MethodPost, "/recommendations/generate", nil, uuid.New()))

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("Expected status 400, got %d: %s", rr.Code, rr.Body.String())
	}
	var resp models.ErrorResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode error response: %v", err)
	}
	if resp.Error.Code != "VALIDATION_ERROR" {
		t.Errorf("Expected code VALIDATION_ERROR, got %q", resp.Error.Code)
	}
	if resp.Error.Fields["assessments"] == "" {
		t.Error("Expected a field error for assessments")
	}
	if paths.path != nil {
		t.Error("No path should be created without assessment history")
	}
}

func TestGenerateBuildsFallbackPath(t *testing.T) {
	h, paths, assessments := newRecommendationEnv(t)
	userID := uuid.New()

	if err := assessments.Create(context.Background(), &models.Assessment{
		UserID: userID, Subject: "javascript", Score: 30,
		SkillLevel: models.SkillBeginner, TotalQuestions: 10, CorrectAnswers: 3,
	}); err != nil {
		t.Fatalf("seed assessment: %v", err)
	}

	rr := httptest.NewRecorder()
	recommendationRouter(h).ServeHTTP(rr, authedRequest(t, http.MethodPost, "/recommendations/generate", nil, userID))

	if rr.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d: %s", rr.Code, rr.Body.String())
	}
	if paths.path == nil {
		t.Fatal("Expected a path to be persisted")
	}
	if paths.path.UserID != userID {
		t.Error("Path not owned by the requesting user")
	}
	if len(paths.path.Topics) == 0 {
		t.Error("Expected fallback topics in the generated path")
	}
	if paths.path.ProgressPercentage != 0 {
		t.Errorf("Fresh path should start at 0%%, got %d%%", paths.path.ProgressPercentage)
	}
}

// ─── Path & Progress ───

func TestGetPathNotFound(t *testing.T) {
	h, _, _ := newRecommendationEnv(t)

	rr := httptest.NewRecorder()
	recommendationRouter(h).ServeHTTP(rr, authedRequest(t, http.MethodGet, "/recommendations/path", nil, uuid.New()))

	if rr.Code != http.StatusNotFound {
		t.Fatalf("Expected status 404, got %d", rr.Code)
	}
}

func TestUpdateProgressIndexValidation(t *testing.T) {
	userID := uuid.New()
	body := models.UpdateProgressRequest{Status: models.TopicCompleted}

	tests := []struct {
		name  string
		index string
	}{
		{"out of range high", "5"},
		{"negative", "-1"},
		{"not a number", "abc"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			h, paths, _ := newRecommendationEnv(t)
			seedPath(paths, userID, 2)

			rr := httptest.NewRecorder()
			recommendationRouter(h).ServeHTTP(rr, authedRequest(t, http.MethodPut, "/recommendations/progress/"+tc.index, body, userID))

			if rr.Code != http.StatusBadRequest {
				t.Errorf("Expected status 400, got %d", rr.Code)
			}
			if paths.updates != 0 {
				t.Error("Invalid index must not reach the store")
			}
		})
	}
}

func TestUpdateProgressInvalidStatus(t *testing.T) {
	h, paths, _ := newRecommendationEnv(t)
	userID := uuid.New()
	seedPath(paths, userID, 2)

	body := models.UpdateProgressRequest{Status: "done"}
	rr := httptest.NewRecorder()
	recommendationRouter(h).ServeHTTP(rr, authedRequest(t, http.MethodPut, "/recommendations/progress/0", body, userID))

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("Expected status 400, got %d", rr.Code)
	}
	var resp models.ErrorResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode error response: %v", err)
	}
	if resp.Error.Fields["status"] == "" {
		t.Error("Expected a field error for status")
	}
}

func TestUpdateProgressRecomputesAggregate(t *testing.T) {
	h, paths, _ := newRecommendationEnv(t)
	userID := uuid.New()
	seedPath(paths, userID, 2)

	body := models.UpdateProgressRequest{Status: models.TopicCompleted}
	rr := httptest.NewRecorder()
	recommendationRouter(h).ServeHTTP(rr, authedRequest(t, http.MethodPut, "/recommendations/progress/1", body, userID))

	if rr.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}

	var resp struct {
		Topic           models.Topic `json:"topic"`
		OverallProgress struct {
			Completed  int `json:"completed"`
			Total      int `json:"total"`
			Percentage int `json:"percentage"`
		} `json:"overallProgress"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}

	if resp.Topic.Status != models.TopicCompleted {
		t.Errorf("Expected completed topic, got %q", resp.Topic.Status)
	}
	if resp.Topic.CompletedAt == nil {
		t.Error("Expected CompletedAt to be stamped")
	}
	if resp.OverallProgress.Completed != 1 || resp.OverallProgress.Total != 2 || resp.OverallProgress.Percentage != 50 {
		t.Errorf("Unexpected aggregate: %+v", resp.OverallProgress)
	}
	if paths.updates != 1 {
		t.Errorf("Expected 1 store update, got %d", paths.updates)
	}
}

// ─── Next & Reset ───

func TestNextNudgeFromPath(t *testing.T) {
	h, paths, _ := newRecommendationEnv(t)
	userID := uuid.New()
	seedPath(paths, userID, 2)

	rr := httptest.NewRecorder()
	recommendationRouter(h).ServeHTTP(rr, authedRequest(t, http.MethodGet, "/recommendations/next", nil, userID))

	if rr.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rr.Code)
	}
	var steps models.NextSteps
	if err := json.NewDecoder(rr.Body).Decode(&steps); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if steps.Message == "" || steps.FocusTopic == "" {
		t.Errorf("Expected populated nudge, got %+v", steps)
	}
}

func TestResetDeletesPath(t *testing.T) {
	h, paths, _ := newRecommendationEnv(t)
	userID := uuid.New()
	seedPath(paths, userID, 2)

	rr := httptest.NewRecorder()
	recommendationRouter(h).ServeHTTP(rr, authedRequest(t, http.MethodDelete, "/recommendations/reset", nil, userID))

	if rr.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rr.Code)
	}
	if paths.path != nil {
		t.Error("Expected path to be deleted")
	}
}
