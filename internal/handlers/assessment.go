package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/SVPraveen1/spotmies-learning-path/internal/middleware"
	"github.com/SVPraveen1/spotmies-learning-path/internal/models"
	"github.com/SVPraveen1/spotmies-learning-path/internal/registry"
	"github.com/SVPraveen1/spotmies-learning-path/internal/services"
)

// AssessmentStore is the persistence surface the assessment handlers need.
// *repository.AssessmentRepo satisfies it.
type AssessmentStore interface {
	Create(ctx context.Context, a *models.Assessment) error
	GetByID(ctx context.Context, id, userID uuid.UUID) (*models.Assessment, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.Assessment, error)
}

type AssessmentHandler struct {
	provider       *services.QuizProvider
	bank           *services.QuestionBank
	instances      registry.InstanceStore
	assessmentRepo AssessmentStore
}

func NewAssessmentHandler(provider *services.QuizProvider, bank *services.QuestionBank, instances registry.InstanceStore, assessmentRepo AssessmentStore) *AssessmentHandler {
	return &AssessmentHandler{
		provider:       provider,
		bank:           bank,
		instances:      instances,
		assessmentRepo: assessmentRepo,
	}
}

func (h *AssessmentHandler) Subjects(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.bank.Subjects())
}

func (h *AssessmentHandler) GetQuiz(w http.ResponseWriter, r *http.Request) {
	subject := chi.URLParam(r, "subject")

	quiz, err := h.provider.FreshQuiz(r.Context(), subject)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	instance, err := h.instances.Create(r.Context(), subject, quiz.Questions)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to issue quiz", r))
		return
	}

	// Serve questions under their exposed ids, never the answer key.
	clientQuestions := make([]models.ClientQuestion, len(instance.Questions))
	for i, entry := range instance.Questions {
		clientQuestions[i] = models.ClientQuestion{
			ID:       entry.ExposedID,
			Question: entry.Question,
			Options:  entry.Options,
		}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"subject":        quiz.Subject,
		"title":          quiz.Title,
		"description":    quiz.Description,
		"timeLimit":      quiz.TimeLimit,
		"quizInstanceId": instance.ID,
		"isAIGenerated":  quiz.AIGenerated,
		"questions":      clientQuestions,
	})
}

func (h *AssessmentHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req models.SubmitAssessmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	def, ok := h.bank.Get(req.Subject)
	if !ok {
		writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "Subject not found", r))
		return
	}

	// One-shot lookup of the answer key. A missing instance (expired,
	// already consumed, or a non-instanced legacy quiz) degrades to grading
	// against the static bank by raw question id.
	var instance *registry.QuizInstance
	if req.QuizInstanceID != "" {
		consumed, err := h.instances.Consume(r.Context(), req.QuizInstanceID)
		switch {
		case err == nil:
			instance = consumed
		case !errors.Is(err, registry.ErrInstanceNotFound):
			log.Printf("WARNING: quiz instance lookup failed, grading against static bank: %v", err)
		}
	}

	result := services.GradeSubmission(req.Subject, instance, def.Questions, req.Answers, req.TimeTaken)

	userID := middleware.GetUserID(r.Context())
	assessment := &models.Assessment{
		UserID:         userID,
		Subject:        result.Subject,
		Score:          result.Score,
		CorrectAnswers: result.CorrectAnswers,
		TotalQuestions: result.TotalQuestions,
		TimeTaken:      result.TimeTaken,
		SkillLevel:     services.SkillLevelForScore(result.Score),
		Results:        result.Results,
	}

	if err := h.assessmentRepo.Create(r.Context(), assessment); err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to save assessment", r))
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"assessmentId":   assessment.ID,
		"subject":        assessment.Subject,
		"score":          assessment.Score,
		"skillLevel":     assessment.SkillLevel,
		"correctAnswers": assessment.CorrectAnswers,
		"totalQuestions": assessment.TotalQuestions,
		"timeTaken":      assessment.TimeTaken,
		"results":        assessment.Results,
	})
}

func (h *AssessmentHandler) History(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	assessments, err := h.assessmentRepo.ListByUser(r.Context(), userID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to fetch assessment history", r))
		return
	}
	if assessments == nil {
		assessments = []*models.Assessment{}
	}

	writeJSON(w, http.StatusOK, assessments)
}

func (h *AssessmentHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid assessment ID", r))
		return
	}

	userID := middleware.GetUserID(r.Context())
	assessment, err := h.assessmentRepo.GetByID(r.Context(), id, userID)
	if err != nil {
		writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "Assessment not found", r))
		return
	}

	writeJSON(w, http.StatusOK, assessment)
}
