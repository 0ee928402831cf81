package services

import (
	"context"
	"testing"
	"time"

	"github.com/SVPraveen1/spotmies-learning-path/internal/models"
	"github.com/SVPraveen1/spotmies-learning-path/internal/registry"
)

func TestSkillLevelForScore(t *testing.T) {
	tests := []struct {
		score    int
		expected string
	}{
		{0, models.SkillBeginner},
		{39, models.SkillBeginner},
		{40, models.SkillIntermediate},
		{74, models.SkillIntermediate},
		{75, models.SkillAdvanced},
		{100, models.SkillAdvanced},
	}

	for _, tc := range tests {
		if got := SkillLevelForScore(tc.score); got != tc.expected {
			t.Errorf("SkillLevelForScore(%d): expected %q, got %q", tc.score, tc.expected, got)
		}
	}
}

func sampleQuestions(n int) []models.Question {
	questions := make([]models.Question, n)
	for i := range questions {
		questions[i] = models.Question{
			ID:            string(rune('a'+i)) + "-static",
			Question:      "Sample question",
			Options:       []string{"A", "B", "C", "D"},
			CorrectAnswer: i % 4,
			Explanation:   "because",
		}
	}
	return questions
}

func issuedInstance(t *testing.T, subject string, questions []models.Question) *registry.QuizInstance {
	t.Helper()
	store := registry.NewMemoryStore(time.Hour, time.Hour)
	defer store.Stop()

	created, err := store.Create(context.Background(), subject, questions)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	instance, err := store.Consume(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("Consume failed: %v", err)
	}
	return instance
}

func TestGradeSubmissionInstanced(t *testing.T) {
	questions := sampleQuestions(10)
	instance := issuedInstance(t, "javascript", questions)

	// Answer 8 of 10 correctly, 1 wrong, 1 unanswered.
	var answers []models.SubmittedAnswer
	for i, entry := range instance.Questions {
		if i == 9 {
			break // leave last unanswered
		}
		selected := entry.CorrectAnswer
		if i == 8 {
			selected = (selected + 1) % 4
		}
		answers = append(answers, models.SubmittedAnswer{
			QuestionID:     entry.ExposedID,
			SelectedOption: selected,
		})
	}

	result := GradeSubmission("javascript", instance, questions, answers, 420)

	if result.CorrectAnswers != 8 {
		t.Errorf("Expected 8 correct, got %d", result.CorrectAnswers)
	}
	if result.TotalQuestions != 10 {
		t.Errorf("Expected total 10, got %d", result.TotalQuestions)
	}
	if result.Score != 80 {
		t.Errorf("Expected score 80, got %d", result.Score)
	}
	if result.SkillLevel != models.SkillAdvanced {
		t.Errorf("Expected advanced, got %q", result.SkillLevel)
	}
	if result.TimeTaken != 420 {
		t.Errorf("Expected timeTaken 420, got %d", result.TimeTaken)
	}
	if len(result.Results) != 10 {
		t.Fatalf("Expected 10 review entries, got %d", len(result.Results))
	}

	// Reviews follow issued order; the unanswered question has no selection.
	last := result.Results[9]
	if last.SelectedAnswer != nil {
		t.Errorf("Expected nil SelectedAnswer for unanswered question, got %v", *last.SelectedAnswer)
	}
	if last.IsCorrect {
		t.Error("Unanswered question must not be marked correct")
	}
	if result.Results[8].IsCorrect {
		t.Error("Wrong answer must not be marked correct")
	}
	if !result.Results[0].IsCorrect {
		t.Error("Correct answer not marked correct")
	}
}

func TestGradeSubmissionStaticFallback(t *testing.T) {
	questions := sampleQuestions(4)

	answers := []models.SubmittedAnswer{
		{QuestionID: questions[0].ID, SelectedOption: questions[0].CorrectAnswer},
		{QuestionID: questions[1].ID, SelectedOption: questions[1].CorrectAnswer},
		{QuestionID: questions[2].ID, SelectedOption: (questions[2].CorrectAnswer + 1) % 4},
	}

	result := GradeSubmission("javascript", nil, questions, answers, 100)

	if result.CorrectAnswers != 2 {
		t.Errorf("Expected 2 correct, got %d", result.CorrectAnswers)
	}
	if result.TotalQuestions != 4 {
		t.Errorf("Expected total 4, got %d", result.TotalQuestions)
	}
	if result.Score != 50 {
		t.Errorf("Expected score 50, got %d", result.Score)
	}
	if result.SkillLevel != models.SkillIntermediate {
		t.Errorf("Expected intermediate, got %q", result.SkillLevel)
	}
}

func TestGradeSubmissionHostileInput(t *testing.T) {
	questions := sampleQuestions(4)
	instance := issuedInstance(t, "react", questions)

	answers := []models.SubmittedAnswer{
		// Unknown id: counts as incorrect, never errors.
		{QuestionID: "nonsense-id", SelectedOption: 0},
		// Out-of-range selection on a real question.
		{QuestionID: instance.Questions[0].ExposedID, SelectedOption: 99},
		// Negative selection.
		{QuestionID: instance.Questions[1].ExposedID, SelectedOption: -1},
	}

	result := GradeSubmission("react", instance, questions, answers, 0)

	if result.CorrectAnswers != 0 {
		t.Errorf("Expected 0 correct, got %d", result.CorrectAnswers)
	}
	if result.TotalQuestions != 4 {
		t.Errorf("Expected total 4, got %d", result.TotalQuestions)
	}
	if result.Score != 0 {
		t.Errorf("Expected score 0, got %d", result.Score)
	}
}

func TestGradeSubmissionDuplicateAnswersBounded(t *testing.T) {
	questions := sampleQuestions(4)
	instance := issuedInstance(t, "javascript", questions)

	// Repeat every correct answer five times.
	var answers []models.SubmittedAnswer
	for _, entry := range instance.Questions {
		for i := 0; i < 5; i++ {
			answers = append(answers, models.SubmittedAnswer{
				QuestionID:     entry.ExposedID,
				SelectedOption: entry.CorrectAnswer,
			})
		}
	}

	result := GradeSubmission("javascript", instance, questions, answers, 0)

	if result.CorrectAnswers != 4 {
		t.Errorf("Expected 4 correct, got %d", result.CorrectAnswers)
	}
	if result.Score != 100 {
		t.Errorf("Expected score 100, got %d", result.Score)
	}
	if result.Score > 100 || result.CorrectAnswers > result.TotalQuestions {
		t.Errorf("Score out of bounds: %d/%d score %d", result.CorrectAnswers, result.TotalQuestions, result.Score)
	}
}

func TestGradeSubmissionLastAnswerWins(t *testing.T) {
	questions := sampleQuestions(2)
	instance := issuedInstance(t, "javascript", questions)

	entry := instance.Questions[0]
	answers := []models.SubmittedAnswer{
		{QuestionID: entry.ExposedID, SelectedOption: (entry.CorrectAnswer + 1) % 4},
		{QuestionID: entry.ExposedID, SelectedOption: entry.CorrectAnswer},
	}

	result := GradeSubmission("javascript", instance, questions, answers, 0)

	if result.CorrectAnswers != 1 {
		t.Errorf("Expected last submission to win, got %d correct", result.CorrectAnswers)
	}
	if result.Results[0].SelectedAnswer == nil || *result.Results[0].SelectedAnswer != entry.CorrectAnswer {
		t.Errorf("Review should reflect the last submission, got %v", result.Results[0].SelectedAnswer)
	}
}

func TestGradeSubmissionIgnoresRawIDsWhileInstanced(t *testing.T) {
	questions := sampleQuestions(2)
	instance := issuedInstance(t, "javascript", questions)

	// Address one question by exposed id and raw id at once. Only the
	// exposed id counts while the instance key is live, so the raw-id
	// submission can neither double-count nor overwrite.
	answers := []models.SubmittedAnswer{
		{QuestionID: instance.Questions[0].ExposedID, SelectedOption: instance.Questions[0].CorrectAnswer},
		{QuestionID: questions[0].ID, SelectedOption: questions[0].CorrectAnswer},
		{QuestionID: questions[1].ID, SelectedOption: questions[1].CorrectAnswer},
	}

	result := GradeSubmission("javascript", instance, questions, answers, 0)

	if result.CorrectAnswers != 1 {
		t.Errorf("Expected 1 correct, got %d", result.CorrectAnswers)
	}
	if result.TotalQuestions != 2 {
		t.Errorf("Expected total 2, got %d", result.TotalQuestions)
	}
	if result.Score != 50 {
		t.Errorf("Expected score 50, got %d", result.Score)
	}
	if result.Results[1].SelectedAnswer != nil {
		t.Error("Raw-id submission must not attach to an instanced question")
	}
}

func TestIssuedQuestionsResolution(t *testing.T) {
	questions := sampleQuestions(2)
	instance := issuedInstance(t, "javascript", questions)

	for _, q := range issuedQuestions(instance, questions) {
		if q.resolution != resolvedInstanced {
			t.Errorf("Question %q: expected instanced resolution", q.id)
		}
		if q.id == q.originalID {
			t.Errorf("Instanced question must be addressed by exposed id, got %q", q.id)
		}
	}
	for _, q := range issuedQuestions(nil, questions) {
		if q.resolution != resolvedStatic {
			t.Errorf("Question %q: expected static resolution", q.id)
		}
		if q.id != q.originalID {
			t.Errorf("Static question is addressed by raw id, got %q", q.id)
		}
	}
}

func TestGradeSubmissionScoreRounding(t *testing.T) {
	questions := sampleQuestions(3)

	answers := []models.SubmittedAnswer{
		{QuestionID: questions[0].ID, SelectedOption: questions[0].CorrectAnswer},
	}

	result := GradeSubmission("databases", nil, questions, answers, 0)
	if result.Score != 33 {
		t.Errorf("Expected 1/3 to round to 33, got %d", result.Score)
	}

	answers = append(answers, models.SubmittedAnswer{
		QuestionID: questions[1].ID, SelectedOption: questions[1].CorrectAnswer,
	})
	result = GradeSubmission("databases", nil, questions, answers, 0)
	if result.Score != 67 {
		t.Errorf("Expected 2/3 to round to 67, got %d", result.Score)
	}
}

func TestGradeSubmissionEmpty(t *testing.T) {
	result := GradeSubmission("javascript", nil, nil, nil, 0)
	if result.Score != 0 || result.TotalQuestions != 0 || result.CorrectAnswers != 0 {
		t.Errorf("Expected zeroed result for empty input, got %+v", result)
	}
	if result.SkillLevel != models.SkillBeginner {
		t.Errorf("Expected beginner for empty input, got %q", result.SkillLevel)
	}
}
