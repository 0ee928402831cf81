package services

import (
	"math"

	"github.com/SVPraveen1/spotmies-learning-path/internal/models"
	"github.com/SVPraveen1/spotmies-learning-path/internal/registry"
)

// GradedResult is the output of grading one submission. The caller persists
// it; grading itself performs no I/O.
type GradedResult struct {
	Subject        string
	Score          int
	SkillLevel     string
	CorrectAnswers int
	TotalQuestions int
	TimeTaken      int
	Results        []models.AnswerReview
}

// SkillLevelForScore maps a 0-100 score to a skill tier. Every place that
// derives a skill level goes through this function so the thresholds cannot
// drift.
func SkillLevelForScore(score int) string {
	switch {
	case score >= 75:
		return models.SkillAdvanced
	case score >= 40:
		return models.SkillIntermediate
	default:
		return models.SkillBeginner
	}
}

// answerResolution tags where an issued question's answer key came from.
type answerResolution int

const (
	resolvedInstanced answerResolution = iota // registry QuestionEntry, addressed by exposed id
	resolvedStatic                            // static bank question, addressed by raw id
)

// issuedQuestion is one question of the set a submission is graded against,
// tagged with the source of its answer key. Submitted answers whose id
// matches no issued question are discarded.
type issuedQuestion struct {
	resolution  answerResolution
	id          string // the id submissions address this question by
	originalID  string
	question    string
	options     []string
	correct     int
	explanation string
}

// issuedQuestions resolves the question set for one submission. The registry
// instance is authoritative when live; otherwise the static bank serves as
// the legacy answer key, addressed by raw question id.
func issuedQuestions(instance *registry.QuizInstance, static []models.Question) []issuedQuestion {
	if instance != nil {
		issued := make([]issuedQuestion, len(instance.Questions))
		for i, entry := range instance.Questions {
			issued[i] = issuedQuestion{
				resolution:  resolvedInstanced,
				id:          entry.ExposedID,
				originalID:  entry.OriginalID,
				question:    entry.Question,
				options:     entry.Options,
				correct:     entry.CorrectAnswer,
				explanation: entry.Explanation,
			}
		}
		return issued
	}

	issued := make([]issuedQuestion, len(static))
	for i, q := range static {
		issued[i] = issuedQuestion{
			resolution:  resolvedStatic,
			id:          q.ID,
			originalID:  q.ID,
			question:    q.Question,
			options:     q.Options,
			correct:     q.CorrectAnswer,
			explanation: q.Explanation,
		}
	}
	return issued
}

// GradeSubmission grades a set of submitted answers. When instance is
// non-nil the registry's answer key is authoritative and questions are
// addressed by exposed id only; otherwise grading falls back to the static
// question set matched by raw id. Unknown ids and out-of-range selections
// are incorrect, never errors.
//
// Scoring walks the issued question set, not the submitted answers: each
// issued question yields at most one correct, duplicate submissions for one
// id collapse to the last one, and TotalQuestions is the issued set size so
// partial submissions are scored out of the full quiz. Score can never
// exceed 100 regardless of input.
func GradeSubmission(subject string, instance *registry.QuizInstance, static []models.Question, answers []models.SubmittedAnswer, timeTaken int) *GradedResult {
	// Last submission for an id wins.
	answered := make(map[string]models.SubmittedAnswer, len(answers))
	for _, answer := range answers {
		answered[answer.QuestionID] = answer
	}

	issued := issuedQuestions(instance, static)
	total := len(issued)
	correct := 0
	results := make([]models.AnswerReview, 0, total)
	for _, q := range issued {
		review := models.AnswerReview{
			QuestionID:    q.originalID,
			Question:      q.question,
			Options:       q.options,
			CorrectAnswer: q.correct,
			Explanation:   q.explanation,
		}
		if answer, ok := answered[q.id]; ok {
			selected := answer.SelectedOption
			review.SelectedAnswer = &selected
			review.IsCorrect = q.correct == selected && optionInRange(selected, q.options)
		}
		if review.IsCorrect {
			correct++
		}
		results = append(results, review)
	}

	score := 0
	if total > 0 {
		score = int(math.Round(float64(correct) / float64(total) * 100))
	}

	return &GradedResult{
		Subject:        subject,
		Score:          score,
		SkillLevel:     SkillLevelForScore(score),
		CorrectAnswers: correct,
		TotalQuestions: total,
		TimeTaken:      timeTaken,
		Results:        results,
	}
}

func optionInRange(selected int, options []string) bool {
	return selected >= 0 && selected < len(options)
}
