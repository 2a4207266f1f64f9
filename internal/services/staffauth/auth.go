package staffauth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/Methdul/fitgym-pro-sub000/internal/domain/models"
	"github.com/Methdul/fitgym-pro-sub000/internal/lib/jwt"
	"github.com/Methdul/fitgym-pro-sub000/internal/lib/logger/sl"
	"github.com/Methdul/fitgym-pro-sub000/internal/lib/pin"
	"github.com/Methdul/fitgym-pro-sub000/internal/services/pinattempts"
	"github.com/Methdul/fitgym-pro-sub000/internal/storage"
)

type Auth struct {
	log            *slog.Logger
	staffSaver     StaffSaver
	staffProvider  StaffProvider
	attemptAuditor AttemptAuditor
	attempts       AttemptLimiter
	secret         []byte
	tokenTTL       time.Duration
	failedPins     *prometheus.CounterVec
}

type StaffSaver interface {
	SaveStaff(ctx context.Context, staff models.Staff) (models.Staff, error)
	UpdatePinHash(ctx context.Context, staffID uuid.UUID, pinHash []byte) error
	DeleteStaff(ctx context.Context, staffID uuid.UUID) error
}

type StaffProvider interface {
	Staff(ctx context.Context, staffID uuid.UUID) (models.Staff, error)
	StaffByBranch(ctx context.Context, branchID uuid.UUID) ([]models.Staff, error)
	UpdateLastActive(ctx context.Context, staffID uuid.UUID, at time.Time) error
}

// AttemptAuditor persists every verification attempt for audit. Best effort:
// audit failures are logged, never surfaced.
type AttemptAuditor interface {
	LogPinAttempt(ctx context.Context, staffID string, success bool, reason string) error
}

// AttemptLimiter is implemented by pinattempts.Tracker.
type AttemptLimiter interface {
	Check(ctx context.Context, staffID string) pinattempts.Decision
	RecordFailure(ctx context.Context, staffID string)
	Reset(ctx context.Context, staffID string)
}

// New returns a new instance of the Auth service
func New(
	log *slog.Logger,
	staffSaver StaffSaver,
	staffProvider StaffProvider,
	attemptAuditor AttemptAuditor,
	attempts AttemptLimiter,
	secret []byte,
	tokenTTL time.Duration,
	failedPins *prometheus.CounterVec,
) *Auth {
	return &Auth{
		log:            log,
		staffSaver:     staffSaver,
		staffProvider:  staffProvider,
		attemptAuditor: attemptAuditor,
		attempts:       attempts,
		secret:         secret,
		tokenTTL:       tokenTTL,
		failedPins:     failedPins,
	}
}

// VerifyPin authenticates a staff member by their 4-digit PIN. The rate
// limiter is consulted first, so a locked identity is rejected before any
// hash comparison happens. On success the attempt record is cleared,
// last_active is bumped and a session token is issued.
func (a *Auth) VerifyPin(ctx context.Context, staffID, pinCode string) (models.Staff, string, error) {
	const op = "staffauth.VerifyPin"
	log := a.log.With(slog.String("op", op))

	decision := a.attempts.Check(ctx, staffID)
	if !decision.Allowed {
		log.Warn("identity locked out", slog.Time("lockedUntil", decision.LockedUntil))
		return models.Staff{}, "", fmt.Errorf("%s: %w", op, &LockedError{Until: decision.LockedUntil})
	}

	id, err := uuid.Parse(staffID)
	if err != nil {
		a.failPin(ctx, staffID, "unknown", "malformed_staff_id")
		return models.Staff{}, "", fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
	}

	staff, err := a.staffProvider.Staff(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrStaffNotFound) {
			a.failPin(ctx, staffID, "unknown", "staff_not_found")
			return models.Staff{}, "", fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
		}

		log.Error("failed to get staff", sl.Err(err))
		return models.Staff{}, "", fmt.Errorf("%s: %w", op, err)
	}

	if !pin.Verify(pinCode, staff.PinHash) {
		a.failPin(ctx, staffID, staff.BranchID.String(), "invalid_pin")
		return models.Staff{}, "", fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
	}

	a.attempts.Reset(ctx, staffID)

	if err := a.staffProvider.UpdateLastActive(ctx, id, time.Now()); err != nil {
		log.Error("failed to update last_active", sl.Err(err))
	}
	a.audit(ctx, staffID, true, "success")

	token, err := jwt.NewToken(&staff, a.secret, a.tokenTTL)
	if err != nil {
		log.Error("failed to generate token", sl.Err(err))
		return models.Staff{}, "", fmt.Errorf("%s: %w", op, err)
	}

	return staff, token, nil
}

// CreateStaff registers a staff member. The PIN is validated against the weak
// pattern list and stored only as a bcrypt hash.
func (a *Auth) CreateStaff(ctx context.Context, staff models.Staff, pinCode string) (models.Staff, error) {
	const op = "staffauth.CreateStaff"
	log := a.log.With(slog.String("op", op))
	log.Info("creating staff member")

	pinHash, err := a.hashValidPin(pinCode)
	if err != nil {
		return models.Staff{}, fmt.Errorf("%s: %w", op, err)
	}

	staff.ID = uuid.New()
	staff.PinHash = pinHash

	created, err := a.staffSaver.SaveStaff(ctx, staff)
	if err != nil {
		if errors.Is(err, storage.ErrStaffExists) {
			log.Warn("staff member exists", sl.Err(err))
			return models.Staff{}, fmt.Errorf("%s: %w", op, ErrStaffExists)
		}

		log.Error("failed to save staff member", sl.Err(err))
		return models.Staff{}, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("staff member created", slog.String("staffId", created.ID.String()))

	return created, nil
}

// ChangePin replaces the PIN hash and clears any accumulated attempt state so
// the new PIN does not inherit a stale lockout.
func (a *Auth) ChangePin(ctx context.Context, staffID uuid.UUID, newPin string) error {
	const op = "staffauth.ChangePin"
	log := a.log.With(slog.String("op", op))

	pinHash, err := a.hashValidPin(newPin)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := a.staffSaver.UpdatePinHash(ctx, staffID, pinHash); err != nil {
		if errors.Is(err, storage.ErrStaffNotFound) {
			return fmt.Errorf("%s: %w", op, ErrStaffNotFound)
		}

		log.Error("failed to update pin hash", sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}

	a.attempts.Reset(ctx, staffID.String())

	return nil
}

// DeleteStaff removes a staff member and their attempt state.
func (a *Auth) DeleteStaff(ctx context.Context, staffID uuid.UUID) error {
	const op = "staffauth.DeleteStaff"
	log := a.log.With(slog.String("op", op))

	if err := a.staffSaver.DeleteStaff(ctx, staffID); err != nil {
		if errors.Is(err, storage.ErrStaffNotFound) {
			return fmt.Errorf("%s: %w", op, ErrStaffNotFound)
		}

		log.Error("failed to delete staff member", sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}

	a.attempts.Reset(ctx, staffID.String())

	return nil
}

func (a *Auth) StaffByBranch(ctx context.Context, branchID uuid.UUID) ([]models.Staff, error) {
	const op = "staffauth.StaffByBranch"

	staff, err := a.staffProvider.StaffByBranch(ctx, branchID)
	if err != nil {
		a.log.Error("failed to list staff", slog.String("op", op), sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return staff, nil
}

func (a *Auth) hashValidPin(pinCode string) ([]byte, error) {
	if err := pin.Validate(pinCode); err != nil {
		if errors.Is(err, pin.ErrWeakPin) {
			return nil, fmt.Errorf("%w: %w", ErrWeakPin, err)
		}
		return nil, err
	}

	return pin.Hash(pinCode)
}

func (a *Auth) failPin(ctx context.Context, staffID, branch, reason string) {
	a.attempts.RecordFailure(ctx, staffID)
	if a.failedPins != nil {
		a.failedPins.WithLabelValues(branch).Inc()
	}
	a.audit(ctx, staffID, false, reason)
}

func (a *Auth) audit(ctx context.Context, staffID string, success bool, reason string) {
	if a.attemptAuditor == nil {
		return
	}
	if err := a.attemptAuditor.LogPinAttempt(ctx, staffID, success, reason); err != nil {
		a.log.Error("failed to audit pin attempt", sl.Err(err))
	}
}
