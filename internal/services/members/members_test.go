package members

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Methdul/fitgym-pro-sub000/internal/domain/models"
	"github.com/Methdul/fitgym-pro-sub000/internal/storage"
)

type membershipStore struct {
	members  map[uuid.UUID]models.Member
	packages map[uuid.UUID]models.Package
	renewals []models.Renewal
}

func newMembershipStore() *membershipStore {
	return &membershipStore{
		members:  make(map[uuid.UUID]models.Member),
		packages: make(map[uuid.UUID]models.Package),
	}
}

func (s *membershipStore) SaveMember(_ context.Context, member models.Member) (models.Member, error) {
	for _, existing := range s.members {
		if existing.BranchID == member.BranchID && existing.NationalID == member.NationalID {
			return models.Member{}, storage.ErrMemberExists
		}
	}
	s.members[member.ID] = member
	return member, nil
}

func (s *membershipStore) Member(_ context.Context, memberID uuid.UUID) (models.Member, error) {
	member, ok := s.members[memberID]
	if !ok {
		return models.Member{}, storage.ErrMemberNotFound
	}
	return member, nil
}

func (s *membershipStore) MembersByBranch(_ context.Context, branchID uuid.UUID) ([]models.Member, error) {
	var out []models.Member
	for _, member := range s.members {
		if member.BranchID == branchID {
			out = append(out, member)
		}
	}
	return out, nil
}

func (s *membershipStore) SavePackage(_ context.Context, pkg models.Package) (models.Package, error) {
	for _, existing := range s.packages {
		if existing.BranchID == pkg.BranchID && existing.Name == pkg.Name {
			return models.Package{}, storage.ErrPackageExists
		}
	}
	s.packages[pkg.ID] = pkg
	return pkg, nil
}

func (s *membershipStore) Package(_ context.Context, packageID uuid.UUID) (models.Package, error) {
	pkg, ok := s.packages[packageID]
	if !ok {
		return models.Package{}, storage.ErrPackageNotFound
	}
	return pkg, nil
}

func (s *membershipStore) PackagesByBranch(_ context.Context, branchID uuid.UUID) ([]models.Package, error) {
	var out []models.Package
	for _, pkg := range s.packages {
		if pkg.BranchID == branchID {
			out = append(out, pkg)
		}
	}
	return out, nil
}

func (s *membershipStore) SaveRenewal(_ context.Context, renewal models.Renewal) (models.Renewal, error) {
	member, ok := s.members[renewal.MemberID]
	if !ok {
		return models.Renewal{}, storage.ErrMemberNotFound
	}
	member.ExpiresAt = renewal.NewExpiry
	member.PackageID = renewal.PackageID
	s.members[renewal.MemberID] = member
	s.renewals = append(s.renewals, renewal)
	return renewal, nil
}

func newService(t *testing.T) (*Members, *membershipStore) {
	t.Helper()

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := newMembershipStore()
	return New(log, store, store, store, store, store), store
}

func createPackage(t *testing.T, svc *Members, branchID uuid.UUID, months int) models.Package {
	t.Helper()

	pkg, err := svc.CreatePackage(context.Background(), models.Package{
		BranchID:       branchID,
		Name:           gofakeit.ProductName(),
		DurationMonths: months,
		Price:          gofakeit.Price(20, 200),
		MaxMembers:     1,
	})
	require.NoError(t, err)
	return pkg
}

func registerInput(branchID, packageID uuid.UUID) RegisterInput {
	return RegisterInput{
		BranchID:   branchID,
		NationalID: gofakeit.SSN(),
		FirstName:  gofakeit.FirstName(),
		LastName:   gofakeit.LastName(),
		Email:      gofakeit.Email(),
		Phone:      gofakeit.Phone(),
		PackageID:  packageID,
	}
}

func TestRegister_HappyPath(t *testing.T) {
	svc, store := newService(t)
	ctx := context.Background()

	branchID := uuid.New()
	pkg := createPackage(t, svc, branchID, 3)

	member, err := svc.Register(ctx, registerInput(branchID, pkg.ID))
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, member.ID)
	assert.Equal(t, pkg.ID, member.PackageID)
	assert.WithinDuration(t, time.Now().AddDate(0, 3, 0), member.ExpiresAt, time.Minute)
	assert.Equal(t, models.StatusActive, member.Status(time.Now()))
	assert.Len(t, store.members, 1)
}

func TestRegister_UnknownPackage(t *testing.T) {
	svc, _ := newService(t)

	_, err := svc.Register(context.Background(), registerInput(uuid.New(), uuid.New()))
	assert.True(t, errors.Is(err, ErrPackageNotFound))
}

func TestRegister_Duplicate(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	branchID := uuid.New()
	pkg := createPackage(t, svc, branchID, 1)
	input := registerInput(branchID, pkg.ID)

	_, err := svc.Register(ctx, input)
	require.NoError(t, err)

	_, err = svc.Register(ctx, input)
	assert.True(t, errors.Is(err, ErrMemberExists))
}

func TestRenew_ActiveMembershipExtendsFromExpiry(t *testing.T) {
	svc, store := newService(t)
	ctx := context.Background()

	branchID := uuid.New()
	pkg := createPackage(t, svc, branchID, 2)

	member, err := svc.Register(ctx, registerInput(branchID, pkg.ID))
	require.NoError(t, err)

	renewal, err := svc.Renew(ctx, member.ID, pkg.ID, pkg.Price)
	require.NoError(t, err)

	// Remaining time is preserved: the new expiry stacks on the old one.
	assert.WithinDuration(t, member.ExpiresAt.AddDate(0, 2, 0), renewal.NewExpiry, time.Minute)
	assert.True(t, store.members[member.ID].ExpiresAt.Equal(renewal.NewExpiry))
}

func TestRenew_LapsedMembershipExtendsFromNow(t *testing.T) {
	svc, store := newService(t)
	ctx := context.Background()

	branchID := uuid.New()
	pkg := createPackage(t, svc, branchID, 1)

	member, err := svc.Register(ctx, registerInput(branchID, pkg.ID))
	require.NoError(t, err)

	// Force the membership into the past.
	lapsed := store.members[member.ID]
	lapsed.ExpiresAt = time.Now().AddDate(0, -2, 0)
	store.members[member.ID] = lapsed
	require.Equal(t, models.StatusExpired, lapsed.Status(time.Now()))

	renewal, err := svc.Renew(ctx, member.ID, pkg.ID, pkg.Price)
	require.NoError(t, err)

	assert.WithinDuration(t, time.Now().AddDate(0, 1, 0), renewal.NewExpiry, time.Minute)
}

func TestRenew_SwitchesPackage(t *testing.T) {
	svc, store := newService(t)
	ctx := context.Background()

	branchID := uuid.New()
	monthly := createPackage(t, svc, branchID, 1)
	annual := createPackage(t, svc, branchID, 12)

	member, err := svc.Register(ctx, registerInput(branchID, monthly.ID))
	require.NoError(t, err)

	_, err = svc.Renew(ctx, member.ID, annual.ID, annual.Price)
	require.NoError(t, err)

	assert.Equal(t, annual.ID, store.members[member.ID].PackageID)
}

func TestRenew_UnknownMember(t *testing.T) {
	svc, _ := newService(t)

	_, err := svc.Renew(context.Background(), uuid.New(), uuid.New(), 50)
	assert.True(t, errors.Is(err, ErrMemberNotFound))
}

func TestCreatePackage_Duplicate(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	branchID := uuid.New()
	name := gofakeit.ProductName()

	_, err := svc.CreatePackage(ctx, models.Package{BranchID: branchID, Name: name, DurationMonths: 1, Price: 30})
	require.NoError(t, err)

	_, err = svc.CreatePackage(ctx, models.Package{BranchID: branchID, Name: name, DurationMonths: 1, Price: 30})
	assert.True(t, errors.Is(err, ErrPackageExists))
}

func TestMembersByBranch(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	branchID := uuid.New()
	pkg := createPackage(t, svc, branchID, 1)

	for i := 0; i < 3; i++ {
		_, err := svc.Register(ctx, registerInput(branchID, pkg.ID))
		require.NoError(t, err)
	}

	other := uuid.New()
	otherPkg := createPackage(t, svc, other, 1)
	_, err := svc.Register(ctx, registerInput(other, otherPkg.ID))
	require.NoError(t, err)

	listed, err := svc.MembersByBranch(ctx, branchID)
	require.NoError(t, err)
	assert.Len(t, listed, 3)
}
