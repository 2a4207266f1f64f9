package model

import (
	"time"

	"github.com/google/uuid"
)

type Member struct {
	ID         uuid.UUID `db:"id"`
	BranchID   uuid.UUID `db:"branch_id"`
	NationalID string    `db:"national_id"`
	FirstName  string    `db:"first_name"`
	LastName   string    `db:"last_name"`
	Email      string    `db:"email"`
	Phone      string    `db:"phone"`
	PackageID  uuid.UUID `db:"package_id"`
	ExpiresAt  time.Time `db:"expires_at"`
	CreatedAt  time.Time `db:"created_at"`
}

type Package struct {
	ID             uuid.UUID `db:"id"`
	BranchID       uuid.UUID `db:"branch_id"`
	Name           string    `db:"name"`
	DurationMonths int       `db:"duration_months"`
	Price          float64   `db:"price"`
	MaxMembers     int       `db:"max_members"`
}

type Renewal struct {
	ID         uuid.UUID `db:"id"`
	MemberID   uuid.UUID `db:"member_id"`
	PackageID  uuid.UUID `db:"package_id"`
	PaidAmount float64   `db:"paid_amount"`
	NewExpiry  time.Time `db:"new_expiry"`
	RenewedAt  time.Time `db:"renewed_at"`
}
