package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Methdul/fitgym-pro-sub000/internal/domain/models"
	"github.com/Methdul/fitgym-pro-sub000/internal/storage"
)

// Storage holds failed-PIN attempt records in process memory behind a mutex.
// Records vanish on restart, which is acceptable for a single-node deployment;
// multi-node deployments use the redis storage instead.
type Storage struct {
	mu      sync.Mutex
	records map[string]models.FailedPin
}

func New() *Storage {
	return &Storage{records: make(map[string]models.FailedPin)}
}

func (s *Storage) Attempts(_ context.Context, staffID string) (models.FailedPin, error) {
	const op = "storage.memory.Attempts"

	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.records[staffID]
	if !ok {
		return models.FailedPin{}, fmt.Errorf("%s: %w", op, storage.ErrAttemptsNotFound)
	}

	return record, nil
}

func (s *Storage) SaveAttempts(_ context.Context, staffID string, attempts models.FailedPin) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records[staffID] = attempts
	return nil
}

func (s *Storage) RemoveAttempts(_ context.Context, staffID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.records, staffID)
	return nil
}

func (s *Storage) PurgeStale(_ context.Context, olderThan time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for staffID, record := range s.records {
		if record.LastAttempt.Before(olderThan) {
			delete(s.records, staffID)
		}
	}

	return nil
}

// Len reports the number of tracked identities.
func (s *Storage) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}
