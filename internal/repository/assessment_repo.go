package repository

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/SVPraveen1/spotmies-learning-path/internal/models"
)

type AssessmentRepo struct {
	pool *pgxpool.Pool
}

func NewAssessmentRepo(pool *pgxpool.Pool) *AssessmentRepo {
	return &AssessmentRepo{pool: pool}
}

func (r *AssessmentRepo) Create(ctx context.Context, a *models.Assessment) error {
	a.ID = uuid.New()
	resultsJSON, err := json.Marshal(a.Results)
	if err != nil {
		return err
	}

	query := `INSERT INTO assessments
		(id, user_id, subject, score, correct_answers, total_questions, time_taken, skill_level, results_json)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING completed_at`

	return r.pool.QueryRow(ctx, query,
		a.ID, a.UserID, a.Subject, a.Score, a.CorrectAnswers, a.TotalQuestions,
		a.TimeTaken, a.SkillLevel, resultsJSON,
	).Scan(&a.CompletedAt)
}

func (r *AssessmentRepo) GetByID(ctx context.Context, id, userID uuid.UUID) (*models.Assessment, error) {
	query := `SELECT id, user_id, subject, score, correct_answers, total_questions, time_taken, skill_level, results_json, completed_at
		FROM assessments WHERE id = $1 AND user_id = $2`

	return scanAssessment(r.pool.QueryRow(ctx, query, id, userID))
}

// ListByUser returns the user's assessments, most recent first.
func (r *AssessmentRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.Assessment, error) {
	query := `SELECT id, user_id, subject, score, correct_answers, total_questions, time_taken, skill_level, results_json, completed_at
		FROM assessments WHERE user_id = $1 ORDER BY completed_at DESC`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var assessments []*models.Assessment
	for rows.Next() {
		a, err := scanAssessment(rows)
		if err != nil {
			return nil, err
		}
		assessments = append(assessments, a)
	}
	return assessments, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAssessment(row rowScanner) (*models.Assessment, error) {
	a := &models.Assessment{}
	var resultsJSON []byte
	err := row.Scan(
		&a.ID, &a.UserID, &a.Subject, &a.Score, &a.CorrectAnswers, &a.TotalQuestions,
		&a.TimeTaken, &a.SkillLevel, &resultsJSON, &a.CompletedAt,
	)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(resultsJSON, &a.Results); err != nil {
		return nil, err
	}
	return a, nil
}
