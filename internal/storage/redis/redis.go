package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Methdul/fitgym-pro-sub000/internal/domain/models"
	"github.com/Methdul/fitgym-pro-sub000/internal/storage"
	"github.com/redis/go-redis/v9"
)

type Storage struct {
	client *redis.Client
	ttl    time.Duration
}

func New(addr string, ttl time.Duration) *Storage {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: "", // no password set
		DB:       0,  // use default DB
	})

	return &Storage{client: client, ttl: ttl}
}

func (s *Storage) Attempts(ctx context.Context, staffID string) (models.FailedPin, error) {
	const op = "storage.redis.Attempts"

	data := s.client.Get(ctx, fmt.Sprintf("failedPin:%s", staffID)).Val()

	if len(data) == 0 {
		return models.FailedPin{}, fmt.Errorf("%s: %w", op, storage.ErrAttemptsNotFound)
	}

	var failedPin models.FailedPin
	err := json.Unmarshal([]byte(data), &failedPin)
	if err != nil {
		return models.FailedPin{}, fmt.Errorf("%s: %w", op, err)
	}

	return failedPin, nil
}

func (s *Storage) SaveAttempts(ctx context.Context, staffID string, attempts models.FailedPin) error {
	const op = "storage.redis.SaveAttempts"

	data, err := json.Marshal(attempts)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err = s.client.Set(ctx, fmt.Sprintf("failedPin:%s", staffID), string(data), s.ttl).Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (s *Storage) RemoveAttempts(ctx context.Context, staffID string) error {
	const op = "storage.redis.RemoveAttempts"

	if err := s.client.Del(ctx, fmt.Sprintf("failedPin:%s", staffID)).Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// PurgeStale is a no-op: the per-key TTL already bounds staleness.
func (s *Storage) PurgeStale(_ context.Context, _ time.Time) error {
	return nil
}

func (s *Storage) Stop() error {
	const op = "storage.redis.Stop"

	if err := s.client.Close(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}
