package pinattempts

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Methdul/fitgym-pro-sub000/internal/domain/models"
	"github.com/Methdul/fitgym-pro-sub000/internal/storage/memory"
)

func newTracker(t *testing.T, opts ...Option) (*Tracker, *memory.Storage) {
	t.Helper()

	store := memory.New()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(log, store, opts...), store
}

func TestCheck_FreshIdentity(t *testing.T) {
	tracker, _ := newTracker(t)
	ctx := context.Background()

	decision := tracker.Check(ctx, gofakeit.UUID())
	assert.True(t, decision.Allowed)
	assert.Equal(t, 5, decision.Remaining)
	assert.True(t, decision.LockedUntil.IsZero())
}

func TestCheck_EmptyIdentityAlwaysAllowed(t *testing.T) {
	tracker, _ := newTracker(t)
	ctx := context.Background()

	for i := 0; i < 10; i++ {
		tracker.RecordFailure(ctx, "")
	}

	decision := tracker.Check(ctx, "")
	assert.True(t, decision.Allowed)
	assert.Equal(t, 5, decision.Remaining)
}

func TestCheck_RemainingDecreasesPerFailure(t *testing.T) {
	tracker, _ := newTracker(t)
	ctx := context.Background()
	staffID := gofakeit.UUID()

	for i := 1; i <= 4; i++ {
		tracker.RecordFailure(ctx, staffID)

		decision := tracker.Check(ctx, staffID)
		require.True(t, decision.Allowed, "attempt %d should still be allowed", i)
		assert.Equal(t, 5-i, decision.Remaining)
	}
}

func TestCheck_LocksAfterMaxFailures(t *testing.T) {
	tracker, _ := newTracker(t)
	ctx := context.Background()
	staffID := gofakeit.UUID()

	before := time.Now()
	for i := 0; i < 5; i++ {
		tracker.RecordFailure(ctx, staffID)
	}
	after := time.Now()

	decision := tracker.Check(ctx, staffID)
	require.False(t, decision.Allowed)
	assert.Equal(t, 0, decision.Remaining)

	// lockedUntil is anchored to the last failure, not the first.
	assert.False(t, decision.LockedUntil.Before(before.Add(15*time.Minute)))
	assert.False(t, decision.LockedUntil.After(after.Add(15*time.Minute)))
}

func TestCheck_LockOutlivesAttemptWindow(t *testing.T) {
	tracker, store := newTracker(t)
	ctx := context.Background()
	staffID := gofakeit.UUID()

	// Locked 10 minutes ago: the 5-minute window has long expired but the
	// 15-minute lock has not.
	require.NoError(t, store.SaveAttempts(ctx, staffID, models.FailedPin{
		Attempts:    5,
		LastAttempt: time.Now().Add(-10 * time.Minute),
	}))

	decision := tracker.Check(ctx, staffID)
	require.False(t, decision.Allowed)
	assert.WithinDuration(t, time.Now().Add(5*time.Minute), decision.LockedUntil, time.Second)
}

func TestCheck_ExpiredLockClearsRecord(t *testing.T) {
	tracker, store := newTracker(t)
	ctx := context.Background()
	staffID := gofakeit.UUID()

	require.NoError(t, store.SaveAttempts(ctx, staffID, models.FailedPin{
		Attempts:    5,
		LastAttempt: time.Now().Add(-16 * time.Minute),
	}))

	decision := tracker.Check(ctx, staffID)
	assert.True(t, decision.Allowed)
	assert.Equal(t, 5, decision.Remaining)
	assert.Equal(t, 0, store.Len())
}

func TestCheck_StaleWindowClearsRecord(t *testing.T) {
	tracker, store := newTracker(t)
	ctx := context.Background()
	staffID := gofakeit.UUID()

	require.NoError(t, store.SaveAttempts(ctx, staffID, models.FailedPin{
		Attempts:    3,
		LastAttempt: time.Now().Add(-6 * time.Minute),
	}))

	decision := tracker.Check(ctx, staffID)
	assert.True(t, decision.Allowed)
	assert.Equal(t, 5, decision.Remaining)
	assert.Equal(t, 0, store.Len())
}

func TestCheck_FailsOpenOnStoreError(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	tracker := New(log, failingStore{})
	ctx := context.Background()

	decision := tracker.Check(ctx, gofakeit.UUID())
	assert.True(t, decision.Allowed)
	assert.Equal(t, 5, decision.Remaining)
}

func TestRecordFailure_StartsFreshAfterWindow(t *testing.T) {
	tracker, store := newTracker(t)
	ctx := context.Background()
	staffID := gofakeit.UUID()

	require.NoError(t, store.SaveAttempts(ctx, staffID, models.FailedPin{
		Attempts:    4,
		LastAttempt: time.Now().Add(-6 * time.Minute),
	}))

	tracker.RecordFailure(ctx, staffID)

	record, err := store.Attempts(ctx, staffID)
	require.NoError(t, err)
	assert.Equal(t, 1, record.Attempts)
}

func TestReset_RestoresFullAllowance(t *testing.T) {
	tracker, store := newTracker(t)
	ctx := context.Background()
	staffID := gofakeit.UUID()

	for i := 0; i < 5; i++ {
		tracker.RecordFailure(ctx, staffID)
	}
	require.False(t, tracker.Check(ctx, staffID).Allowed)

	tracker.Reset(ctx, staffID)

	decision := tracker.Check(ctx, staffID)
	assert.True(t, decision.Allowed)
	assert.Equal(t, 5, decision.Remaining)
	assert.Equal(t, 0, store.Len())
}

func TestSweep_RemovesOnlyStaleRecords(t *testing.T) {
	tracker, store := newTracker(t)
	ctx := context.Background()

	stale := gofakeit.UUID()
	fresh := gofakeit.UUID()

	require.NoError(t, store.SaveAttempts(ctx, stale, models.FailedPin{
		Attempts:    2,
		LastAttempt: time.Now().Add(-20 * time.Minute),
	}))
	require.NoError(t, store.SaveAttempts(ctx, fresh, models.FailedPin{
		Attempts:    2,
		LastAttempt: time.Now(),
	}))

	tracker.Sweep(ctx)

	_, err := store.Attempts(ctx, stale)
	assert.Error(t, err)
	_, err = store.Attempts(ctx, fresh)
	assert.NoError(t, err)
}

func TestTracker_CustomLimits(t *testing.T) {
	tracker, _ := newTracker(t, WithMaxAttempts(2), WithAttemptWindow(time.Hour), WithLockoutDuration(time.Hour))
	ctx := context.Background()
	staffID := gofakeit.UUID()

	tracker.RecordFailure(ctx, staffID)
	require.True(t, tracker.Check(ctx, staffID).Allowed)

	tracker.RecordFailure(ctx, staffID)
	decision := tracker.Check(ctx, staffID)
	require.False(t, decision.Allowed)
	assert.WithinDuration(t, time.Now().Add(time.Hour), decision.LockedUntil, time.Second)
}

type failingStore struct{}

func (failingStore) Attempts(context.Context, string) (models.FailedPin, error) {
	return models.FailedPin{}, assert.AnError
}

func (failingStore) SaveAttempts(context.Context, string, models.FailedPin) error {
	return assert.AnError
}

func (failingStore) RemoveAttempts(context.Context, string) error { return assert.AnError }

func (failingStore) PurgeStale(context.Context, time.Time) error { return assert.AnError }
