package services

import (
	"context"

	"github.com/SVPraveen1/spotmies-learning-path/internal/models"
)

// QuizProvider serves a question set for a subject: freshly AI-generated when
// possible, the shuffled static bank otherwise. For a known subject it never
// fails; generation errors are logged and degrade to the fallback.
type QuizProvider struct {
	gemini *GeminiService // nil disables AI generation
	bank   *QuestionBank
}

func NewQuizProvider(gemini *GeminiService, bank *QuestionBank) *QuizProvider {
	return &QuizProvider{gemini: gemini, bank: bank}
}

// FreshQuiz builds a quiz for the subject. Returns NotFoundError for unknown
// subjects; any upstream failure falls back to the static question set.
func (p *QuizProvider) FreshQuiz(ctx context.Context, subject string) (*models.QuizContent, error) {
	def, ok := p.bank.Get(subject)
	if !ok {
		return nil, &NotFoundError{Message: "Subject not found"}
	}

	if p.gemini != nil {
		questions, err := p.gemini.GenerateQuizQuestions(ctx, subject, def.Title, generatedQuestionCount)
		if err == nil {
			return &models.QuizContent{
				Subject:     subject,
				Title:       def.Title + " Assessment",
				Description: "AI-generated assessment to test your " + def.Title + " knowledge",
				TimeLimit:   def.TimeLimit,
				AIGenerated: true,
				Questions:   questions,
			}, nil
		}
		logGenerationFailure("quiz generation", err)
	}

	return &models.QuizContent{
		Subject:     subject,
		Title:       def.Title,
		Description: def.Description,
		TimeLimit:   def.TimeLimit,
		AIGenerated: false,
		Questions:   p.bank.ShuffledQuestions(subject),
	}, nil
}
