package models

import (
	"time"

	"github.com/google/uuid"
)

// Skill levels derived from assessment scores.
const (
	SkillBeginner     = "beginner"
	SkillIntermediate = "intermediate"
	SkillAdvanced     = "advanced"
)

// Assessment is one finalized graded quiz attempt. Immutable once persisted.
type Assessment struct {
	ID             uuid.UUID      `json:"id"`
	UserID         uuid.UUID      `json:"user_id"`
	Subject        string         `json:"subject"`
	Score          int            `json:"score"`
	CorrectAnswers int            `json:"correctAnswers"`
	TotalQuestions int            `json:"totalQuestions"`
	TimeTaken      int            `json:"timeTaken"` // seconds
	SkillLevel     string         `json:"skillLevel"`
	Results        []AnswerReview `json:"results"`
	CompletedAt    time.Time      `json:"completedAt"`
}

// AnswerReview is the per-question entry of a graded attempt, in the order
// the questions were issued. SelectedAnswer is nil for unanswered questions.
type AnswerReview struct {
	QuestionID     string   `json:"questionId"`
	Question       string   `json:"question"`
	Options        []string `json:"options"`
	CorrectAnswer  int      `json:"correctAnswer"`
	SelectedAnswer *int     `json:"selectedAnswer"`
	IsCorrect      bool     `json:"isCorrect"`
	Explanation    string   `json:"explanation"`
}

// SubmittedAnswer is raw client input; SelectedOption may be out of range and
// QuestionID may be stale. Grading treats both as incorrect, never as errors.
type SubmittedAnswer struct {
	QuestionID     string `json:"questionId"`
	SelectedOption int    `json:"selectedOption"`
}

type SubmitAssessmentRequest struct {
	Subject        string            `json:"subject"`
	Answers        []SubmittedAnswer `json:"answers"`
	TimeTaken      int               `json:"timeTaken"`
	QuizInstanceID string            `json:"quizInstanceId"`
}

// AssessmentSummary is the condensed shape fed to the recommendation
// generator.
type AssessmentSummary struct {
	Subject        string `json:"subject"`
	Score          int    `json:"score"`
	SkillLevel     string `json:"skillLevel"`
	CorrectAnswers int    `json:"correctAnswers"`
	TotalQuestions int    `json:"totalQuestions"`
}

// Summary condenses an assessment for recommendation prompts.
func (a *Assessment) Summary() AssessmentSummary {
	return AssessmentSummary{
		Subject:        a.Subject,
		Score:          a.Score,
		SkillLevel:     a.SkillLevel,
		CorrectAnswers: a.CorrectAnswers,
		TotalQuestions: a.TotalQuestions,
	}
}
