package pinattempts

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/Methdul/fitgym-pro-sub000/internal/domain/models"
	"github.com/Methdul/fitgym-pro-sub000/internal/lib/logger/sl"
	"github.com/Methdul/fitgym-pro-sub000/internal/storage"
)

const (
	defaultMaxAttempts     = 5
	defaultAttemptWindow   = 5 * time.Minute
	defaultLockoutDuration = 15 * time.Minute
)

// Store keeps failed-attempt records keyed by staff identity.
// Implementations: memory.Store (single process) and redis.Storage (shared).
type Store interface {
	Attempts(ctx context.Context, staffID string) (models.FailedPin, error)
	SaveAttempts(ctx context.Context, staffID string, attempts models.FailedPin) error
	RemoveAttempts(ctx context.Context, staffID string) error
	PurgeStale(ctx context.Context, olderThan time.Time) error
}

// Decision is the outcome of a rate-limit check. It is always a value,
// never an error: a denied attempt is an expected outcome.
type Decision struct {
	Allowed     bool
	Remaining   int
	LockedUntil time.Time
}

// Tracker decides, per staff identity, whether a PIN verification attempt is
// currently permitted. A burst of failures inside the attempt window escalates
// toward a hard lock; isolated failures further apart do not accumulate.
//
// The tracker schedules nothing itself; the app layer calls Sweep on a ticker.
type Tracker struct {
	log         *slog.Logger
	store       Store
	maxAttempts int
	window      time.Duration
	lockout     time.Duration
}

type Option func(*Tracker)

func WithMaxAttempts(n int) Option {
	return func(t *Tracker) { t.maxAttempts = n }
}

func WithAttemptWindow(d time.Duration) Option {
	return func(t *Tracker) { t.window = d }
}

func WithLockoutDuration(d time.Duration) Option {
	return func(t *Tracker) { t.lockout = d }
}

func New(log *slog.Logger, store Store, opts ...Option) *Tracker {
	t := &Tracker{
		log:         log,
		store:       store,
		maxAttempts: defaultMaxAttempts,
		window:      defaultAttemptWindow,
		lockout:     defaultLockoutDuration,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Check reports whether an attempt for staffID is permitted right now.
// An unknown identity (including the empty one) is always permitted.
// Store failures are logged and fail open so an infra fault cannot lock
// every staff member out of the floor.
func (t *Tracker) Check(ctx context.Context, staffID string) Decision {
	const op = "pinattempts.Check"

	full := Decision{Allowed: true, Remaining: t.maxAttempts}
	if staffID == "" {
		return full
	}

	record, err := t.store.Attempts(ctx, staffID)
	if err != nil {
		if !errors.Is(err, storage.ErrAttemptsNotFound) {
			t.log.Warn("attempt store unavailable, allowing", slog.String("op", op), sl.Err(err))
		}
		return full
	}

	now := time.Now()

	// Lockout is checked before window expiry so a lock holds for its full
	// duration even though the window is the shorter of the two.
	if record.Attempts >= t.maxAttempts {
		lockedUntil := record.LastAttempt.Add(t.lockout)
		if now.Before(lockedUntil) {
			return Decision{Allowed: false, Remaining: 0, LockedUntil: lockedUntil}
		}
		t.remove(ctx, staffID, op)
		return full
	}

	if now.Sub(record.LastAttempt) > t.window {
		t.remove(ctx, staffID, op)
		return full
	}

	return Decision{Allowed: true, Remaining: t.maxAttempts - record.Attempts}
}

// RecordFailure notes one failed verification for staffID. A failure more than
// one attempt window after the previous one starts a fresh count at 1.
func (t *Tracker) RecordFailure(ctx context.Context, staffID string) {
	const op = "pinattempts.RecordFailure"

	if staffID == "" {
		return
	}

	now := time.Now()

	record, err := t.store.Attempts(ctx, staffID)
	if err != nil || now.Sub(record.LastAttempt) > t.window {
		record = models.FailedPin{Attempts: 1, LastAttempt: now}
	} else {
		record.Attempts++
		record.LastAttempt = now
	}

	if err := t.store.SaveAttempts(ctx, staffID, record); err != nil {
		t.log.Error("failed to save attempts", slog.String("op", op), sl.Err(err))
	}
}

// Reset clears the record for staffID unconditionally. Called on successful
// verification and on staff deletion or PIN change to avoid stale lockouts.
func (t *Tracker) Reset(ctx context.Context, staffID string) {
	const op = "pinattempts.Reset"

	if staffID == "" {
		return
	}
	t.remove(ctx, staffID, op)
}

// Sweep deletes records whose last failure is older than the lockout duration.
func (t *Tracker) Sweep(ctx context.Context) {
	const op = "pinattempts.Sweep"

	if err := t.store.PurgeStale(ctx, time.Now().Add(-t.lockout)); err != nil {
		t.log.Error("failed to purge stale attempts", slog.String("op", op), sl.Err(err))
	}
}

func (t *Tracker) remove(ctx context.Context, staffID, op string) {
	if err := t.store.RemoveAttempts(ctx, staffID); err != nil {
		t.log.Error("failed to remove attempts", slog.String("op", op), sl.Err(err))
	}
}
