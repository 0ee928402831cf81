// Package registry brokers the one-time answer key of an issued quiz attempt
// between quiz issuance and grading. Keys never reach the client: questions
// are exposed under per-instance identifiers, and the identifier-to-answer
// mapping lives only here, for at most one consumption or the TTL, whichever
// comes first.
package registry

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/SVPraveen1/spotmies-learning-path/internal/models"
)

// ErrInstanceNotFound is returned by Consume for unknown, expired, or
// already-consumed instance ids. Callers grade against the static question
// bank instead of failing the request.
var ErrInstanceNotFound = errors.New("quiz instance not found")

// QuestionEntry pairs an exposed per-instance question id with the answer key
// of the original question.
type QuestionEntry struct {
	ExposedID     string   `json:"exposedId"`
	OriginalID    string   `json:"originalId"`
	CorrectAnswer int      `json:"correctAnswer"`
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	Explanation   string   `json:"explanation"`
}

// QuizInstance is one issued quiz attempt. Read-only after creation.
type QuizInstance struct {
	ID        string          `json:"id"`
	Subject   string          `json:"subject"`
	CreatedAt time.Time       `json:"createdAt"`
	Questions []QuestionEntry `json:"questions"`
}

// InstanceStore holds issued quiz instances until they are consumed for
// grading or expire. Implementations must make Consume an atomic
// check-and-remove so concurrent submissions against one id cannot both
// succeed.
type InstanceStore interface {
	// Create mints a new instance for the question set and stores its answer
	// key. The returned instance carries the exposed ids to serve to the
	// client.
	Create(ctx context.Context, subject string, questions []models.Question) (*QuizInstance, error)

	// Consume removes and returns the instance. One-shot: a second call for
	// the same id returns ErrInstanceNotFound.
	Consume(ctx context.Context, instanceID string) (*QuizInstance, error)
}

// newInstance derives exposed question ids from a fresh random instance id.
// uuid.New reads crypto/rand, so ids are not guessable or sequential.
func newInstance(subject string, questions []models.Question) *QuizInstance {
	id := fmt.Sprintf("%s-%s", subject, uuid.NewString())
	entries := make([]QuestionEntry, len(questions))
	for i, q := range questions {
		entries[i] = QuestionEntry{
			ExposedID:     fmt.Sprintf("%s-q%d", id, i),
			OriginalID:    q.ID,
			CorrectAnswer: q.CorrectAnswer,
			Question:      q.Question,
			Options:       q.Options,
			Explanation:   q.Explanation,
		}
	}
	return &QuizInstance{
		ID:        id,
		Subject:   subject,
		CreatedAt: time.Now(),
		Questions: entries,
	}
}
