package registry

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/SVPraveen1/spotmies-learning-path/internal/models"
)

// RedisStore keeps quiz instances in Redis so instances survive process
// restarts and are shared across replicas. Expiry rides on Redis key TTLs;
// Consume uses GETDEL so check-and-remove is a single atomic command.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func (s *RedisStore) Create(ctx context.Context, subject string, questions []models.Question) (*QuizInstance, error) {
	instance := newInstance(subject, questions)

	payload, err := json.Marshal(instance)
	if err != nil {
		return nil, fmt.Errorf("failed to encode quiz instance: %w", err)
	}

	if err := s.client.Set(ctx, s.key(instance.ID), payload, s.ttl).Err(); err != nil {
		return nil, fmt.Errorf("failed to store quiz instance: %w", err)
	}
	return instance, nil
}

func (s *RedisStore) Consume(ctx context.Context, instanceID string) (*QuizInstance, error) {
	payload, err := s.client.GetDel(ctx, s.key(instanceID)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, ErrInstanceNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to consume quiz instance: %w", err)
	}

	var instance QuizInstance
	if err := json.Unmarshal([]byte(payload), &instance); err != nil {
		return nil, fmt.Errorf("failed to decode quiz instance: %w", err)
	}
	return &instance, nil
}

func (s *RedisStore) key(instanceID string) string {
	return "quiz:instance:" + instanceID
}
