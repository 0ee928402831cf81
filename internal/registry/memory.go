package registry

import (
	"context"
	"sync"
	"time"

	"github.com/SVPraveen1/spotmies-learning-path/internal/models"
)

// MemoryStore is the in-process InstanceStore used when no Redis is
// configured. A janitor goroutine sweeps expired instances on a fixed
// interval; Consume additionally checks expiry on read so an instance never
// outlives the TTL by more than one sweep.
type MemoryStore struct {
	mu        sync.Mutex
	instances map[string]*QuizInstance
	ttl       time.Duration
	stop      chan struct{}
	stopOnce  sync.Once
}

func NewMemoryStore(ttl, sweepInterval time.Duration) *MemoryStore {
	s := &MemoryStore{
		instances: make(map[string]*QuizInstance),
		ttl:       ttl,
		stop:      make(chan struct{}),
	}

	go func() {
		ticker := time.NewTicker(sweepInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				s.sweepExpired(time.Now())
			case <-s.stop:
				return
			}
		}
	}()

	return s
}

// Stop terminates the janitor goroutine.
func (s *MemoryStore) Stop() {
	s.stopOnce.Do(func() { close(s.stop) })
}

func (s *MemoryStore) Create(ctx context.Context, subject string, questions []models.Question) (*QuizInstance, error) {
	instance := newInstance(subject, questions)

	s.mu.Lock()
	s.instances[instance.ID] = instance
	s.mu.Unlock()

	return instance, nil
}

func (s *MemoryStore) Consume(ctx context.Context, instanceID string) (*QuizInstance, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	instance, ok := s.instances[instanceID]
	if !ok {
		return nil, ErrInstanceNotFound
	}
	delete(s.instances, instanceID)

	if time.Since(instance.CreatedAt) > s.ttl {
		return nil, ErrInstanceNotFound
	}
	return instance, nil
}

// Len reports the number of live instances.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.instances)
}

func (s *MemoryStore) sweepExpired(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, instance := range s.instances {
		if now.Sub(instance.CreatedAt) > s.ttl {
			delete(s.instances, id)
		}
	}
}
