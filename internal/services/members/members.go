package members

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/Methdul/fitgym-pro-sub000/internal/domain/models"
	"github.com/Methdul/fitgym-pro-sub000/internal/lib/logger/sl"
	"github.com/Methdul/fitgym-pro-sub000/internal/storage"
)

var (
	ErrMemberExists    = errors.New("member exists")
	ErrMemberNotFound  = errors.New("member not found")
	ErrPackageExists   = errors.New("package exists")
	ErrPackageNotFound = errors.New("package not found")
)

type Members struct {
	log             *slog.Logger
	memberSaver     MemberSaver
	memberProvider  MemberProvider
	packageSaver    PackageSaver
	packageProvider PackageProvider
	renewalSaver    RenewalSaver
}

type MemberSaver interface {
	SaveMember(ctx context.Context, member models.Member) (models.Member, error)
}

type MemberProvider interface {
	Member(ctx context.Context, memberID uuid.UUID) (models.Member, error)
	MembersByBranch(ctx context.Context, branchID uuid.UUID) ([]models.Member, error)
}

type PackageSaver interface {
	SavePackage(ctx context.Context, pkg models.Package) (models.Package, error)
}

type PackageProvider interface {
	Package(ctx context.Context, packageID uuid.UUID) (models.Package, error)
	PackagesByBranch(ctx context.Context, branchID uuid.UUID) ([]models.Package, error)
}

type RenewalSaver interface {
	SaveRenewal(ctx context.Context, renewal models.Renewal) (models.Renewal, error)
}

// New returns a new instance of the Members service
func New(
	log *slog.Logger,
	memberSaver MemberSaver,
	memberProvider MemberProvider,
	packageSaver PackageSaver,
	packageProvider PackageProvider,
	renewalSaver RenewalSaver,
) *Members {
	return &Members{
		log:             log,
		memberSaver:     memberSaver,
		memberProvider:  memberProvider,
		packageSaver:    packageSaver,
		packageProvider: packageProvider,
		renewalSaver:    renewalSaver,
	}
}

type RegisterInput struct {
	BranchID   uuid.UUID
	NationalID string
	FirstName  string
	LastName   string
	Email      string
	Phone      string
	PackageID  uuid.UUID
}

// Register creates a member under a branch with an expiry derived from the
// chosen package. The storage layer records a member_created outbox event in
// the same transaction.
func (m *Members) Register(ctx context.Context, input RegisterInput) (models.Member, error) {
	const op = "members.Register"
	log := m.log.With(slog.String("op", op))
	log.Info("registering new member")

	pkg, err := m.packageProvider.Package(ctx, input.PackageID)
	if err != nil {
		if errors.Is(err, storage.ErrPackageNotFound) {
			log.Warn("package not found", sl.Err(err))
			return models.Member{}, fmt.Errorf("%s: %w", op, ErrPackageNotFound)
		}

		log.Error("failed to get package", sl.Err(err))
		return models.Member{}, fmt.Errorf("%s: %w", op, err)
	}

	now := time.Now()
	member := models.Member{
		ID:         uuid.New(),
		BranchID:   input.BranchID,
		NationalID: input.NationalID,
		FirstName:  input.FirstName,
		LastName:   input.LastName,
		Email:      input.Email,
		Phone:      input.Phone,
		PackageID:  pkg.ID,
		ExpiresAt:  now.AddDate(0, pkg.DurationMonths, 0),
		CreatedAt:  now,
	}

	created, err := m.memberSaver.SaveMember(ctx, member)
	if err != nil {
		if errors.Is(err, storage.ErrMemberExists) {
			log.Warn("member exists", sl.Err(err))
			return models.Member{}, fmt.Errorf("%s: %w", op, ErrMemberExists)
		}

		log.Error("failed to save member", sl.Err(err))
		return models.Member{}, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("member registered", slog.String("memberId", created.ID.String()))

	return created, nil
}

// Renew extends a membership by the package duration, counted from the
// current expiry when it is still in the future and from now otherwise.
func (m *Members) Renew(ctx context.Context, memberID, packageID uuid.UUID, paidAmount float64) (models.Renewal, error) {
	const op = "members.Renew"
	log := m.log.With(slog.String("op", op))
	log.Info("renewing membership", slog.String("memberId", memberID.String()))

	member, err := m.memberProvider.Member(ctx, memberID)
	if err != nil {
		if errors.Is(err, storage.ErrMemberNotFound) {
			return models.Renewal{}, fmt.Errorf("%s: %w", op, ErrMemberNotFound)
		}

		log.Error("failed to get member", sl.Err(err))
		return models.Renewal{}, fmt.Errorf("%s: %w", op, err)
	}

	pkg, err := m.packageProvider.Package(ctx, packageID)
	if err != nil {
		if errors.Is(err, storage.ErrPackageNotFound) {
			return models.Renewal{}, fmt.Errorf("%s: %w", op, ErrPackageNotFound)
		}

		log.Error("failed to get package", sl.Err(err))
		return models.Renewal{}, fmt.Errorf("%s: %w", op, err)
	}

	now := time.Now()
	base := now
	if member.ExpiresAt.After(now) {
		base = member.ExpiresAt
	}

	renewal := models.Renewal{
		ID:         uuid.New(),
		MemberID:   member.ID,
		PackageID:  pkg.ID,
		PaidAmount: paidAmount,
		NewExpiry:  base.AddDate(0, pkg.DurationMonths, 0),
		RenewedAt:  now,
	}

	created, err := m.renewalSaver.SaveRenewal(ctx, renewal)
	if err != nil {
		log.Error("failed to save renewal", sl.Err(err))
		return models.Renewal{}, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("membership renewed", slog.Time("newExpiry", created.NewExpiry))

	return created, nil
}

func (m *Members) Member(ctx context.Context, memberID uuid.UUID) (models.Member, error) {
	const op = "members.Member"

	member, err := m.memberProvider.Member(ctx, memberID)
	if err != nil {
		if errors.Is(err, storage.ErrMemberNotFound) {
			return models.Member{}, fmt.Errorf("%s: %w", op, ErrMemberNotFound)
		}

		m.log.Error("failed to get member", slog.String("op", op), sl.Err(err))
		return models.Member{}, fmt.Errorf("%s: %w", op, err)
	}

	return member, nil
}

func (m *Members) MembersByBranch(ctx context.Context, branchID uuid.UUID) ([]models.Member, error) {
	const op = "members.MembersByBranch"

	list, err := m.memberProvider.MembersByBranch(ctx, branchID)
	if err != nil {
		m.log.Error("failed to list members", slog.String("op", op), sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return list, nil
}

func (m *Members) CreatePackage(ctx context.Context, pkg models.Package) (models.Package, error) {
	const op = "members.CreatePackage"
	log := m.log.With(slog.String("op", op))

	pkg.ID = uuid.New()

	created, err := m.packageSaver.SavePackage(ctx, pkg)
	if err != nil {
		if errors.Is(err, storage.ErrPackageExists) {
			log.Warn("package exists", sl.Err(err))
			return models.Package{}, fmt.Errorf("%s: %w", op, ErrPackageExists)
		}

		log.Error("failed to save package", sl.Err(err))
		return models.Package{}, fmt.Errorf("%s: %w", op, err)
	}

	return created, nil
}

func (m *Members) PackagesByBranch(ctx context.Context, branchID uuid.UUID) ([]models.Package, error) {
	const op = "members.PackagesByBranch"

	list, err := m.packageProvider.PackagesByBranch(ctx, branchID)
	if err != nil {
		m.log.Error("failed to list packages", slog.String("op", op), sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return list, nil
}
