package models

import (
	"math"
	"time"

	"github.com/google/uuid"
)

// Topic progress states.
const (
	TopicNotStarted = "not_started"
	TopicInProgress = "in_progress"
	TopicCompleted  = "completed"
)

type Resource struct {
	Title    string `json:"title"`
	URL      string `json:"url"`
	Type     string `json:"type"` // video|article|course|documentation|practice
	Duration string `json:"duration"`
	IsFree   bool   `json:"isFree"`
}

type Topic struct {
	ID            string     `json:"id"`
	Title         string     `json:"title"`
	Description   string     `json:"description"`
	Subject       string     `json:"subject"`
	Difficulty    string     `json:"difficulty"`
	EstimatedTime string     `json:"estimatedTime,omitempty"`
	Status        string     `json:"status"`
	Order         int        `json:"order"`
	Prerequisites []string   `json:"prerequisites"`
	Resources     []Resource `json:"resources"`
	CompletedAt   *time.Time `json:"completedAt,omitempty"`
}

// Roadmap is the raw generator output before it is persisted as a
// LearningPath.
type Roadmap struct {
	Overview          string  `json:"overview"`
	EstimatedDuration string  `json:"estimatedDuration"`
	Topics            []Topic `json:"topics"`
}

// LearningPath is the persisted roadmap plus per-topic progress. One per user.
type LearningPath struct {
	ID                 uuid.UUID `json:"id"`
	UserID             uuid.UUID `json:"user_id"`
	Topics             []Topic   `json:"topics"`
	TotalTopics        int       `json:"totalTopics"`
	CompletedTopics    int       `json:"completedTopics"`
	ProgressPercentage int       `json:"progressPercentage"`
	Overview           string    `json:"overview"`
	EstimatedDuration  string    `json:"estimatedDuration"`
	GeneratedAt        time.Time `json:"generatedAt"`
	LastUpdated        time.Time `json:"lastUpdated"`
}

// UpdateProgress recomputes the completion counters from topic statuses.
func (p *LearningPath) UpdateProgress() {
	completed := 0
	for _, t := range p.Topics {
		if t.Status == TopicCompleted {
			completed++
		}
	}
	p.CompletedTopics = completed
	p.TotalTopics = len(p.Topics)
	if p.TotalTopics > 0 {
		p.ProgressPercentage = int(math.Round(float64(completed) / float64(p.TotalTopics) * 100))
	} else {
		p.ProgressPercentage = 0
	}
	p.LastUpdated = time.Now()
}

type UpdateProgressRequest struct {
	Status string `json:"status"`
}

// NextSteps is the progress-aware nudge returned by GET /recommendations/next.
type NextSteps struct {
	Message    string   `json:"message"`
	NextSteps  []string `json:"nextSteps"`
	FocusTopic string   `json:"focusTopic"`
}
