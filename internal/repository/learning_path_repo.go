package repository

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/SVPraveen1/spotmies-learning-path/internal/models"
)

type LearningPathRepo struct {
	pool *pgxpool.Pool
}

func NewLearningPathRepo(pool *pgxpool.Pool) *LearningPathRepo {
	return &LearningPathRepo{pool: pool}
}

// Upsert stores the roadmap for a user, replacing any existing path. One
// learning path per user.
func (r *LearningPathRepo) Upsert(ctx context.Context, p *models.LearningPath) error {
	topicsJSON, err := json.Marshal(p.Topics)
	if err != nil {
		return err
	}
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}

	query := `INSERT INTO learning_paths
		(id, user_id, topics_json, total_topics, completed_topics, progress_percentage, overview, estimated_duration)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (user_id) DO UPDATE SET
			topics_json = EXCLUDED.topics_json,
			total_topics = EXCLUDED.total_topics,
			completed_topics = EXCLUDED.completed_topics,
			progress_percentage = EXCLUDED.progress_percentage,
			overview = EXCLUDED.overview,
			estimated_duration = EXCLUDED.estimated_duration,
			generated_at = NOW(),
			last_updated = NOW()
		RETURNING id, generated_at, last_updated`

	return r.pool.QueryRow(ctx, query,
		p.ID, p.UserID, topicsJSON, p.TotalTopics, p.CompletedTopics,
		p.ProgressPercentage, p.Overview, p.EstimatedDuration,
	).Scan(&p.ID, &p.GeneratedAt, &p.LastUpdated)
}

func (r *LearningPathRepo) GetByUser(ctx context.Context, userID uuid.UUID) (*models.LearningPath, error) {
	p := &models.LearningPath{}
	var topicsJSON []byte

	query := `SELECT id, user_id, topics_json, total_topics, completed_topics, progress_percentage, overview, estimated_duration, generated_at, last_updated
		FROM learning_paths WHERE user_id = $1`

	err := r.pool.QueryRow(ctx, query, userID).Scan(
		&p.ID, &p.UserID, &topicsJSON, &p.TotalTopics, &p.CompletedTopics,
		&p.ProgressPercentage, &p.Overview, &p.EstimatedDuration, &p.GeneratedAt, &p.LastUpdated,
	)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(topicsJSON, &p.Topics); err != nil {
		return nil, err
	}
	return p, nil
}

// UpdateProgress persists topic statuses and the recomputed counters.
func (r *LearningPathRepo) UpdateProgress(ctx context.Context, p *models.LearningPath) error {
	topicsJSON, err := json.Marshal(p.Topics)
	if err != nil {
		return err
	}

	query := `UPDATE learning_paths
		SET topics_json = $1, total_topics = $2, completed_topics = $3, progress_percentage = $4, last_updated = NOW()
		WHERE id = $5
		RETURNING last_updated`

	return r.pool.QueryRow(ctx, query,
		topicsJSON, p.TotalTopics, p.CompletedTopics, p.ProgressPercentage, p.ID,
	).Scan(&p.LastUpdated)
}

func (r *LearningPathRepo) DeleteByUser(ctx context.Context, userID uuid.UUID) error {
	_, err := r.pool.Exec(ctx, "DELETE FROM learning_paths WHERE user_id = $1", userID)
	return err
}
