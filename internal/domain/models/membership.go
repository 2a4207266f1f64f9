package models

import (
	"time"

	"github.com/google/uuid"
)

type Package struct {
	ID             uuid.UUID
	BranchID       uuid.UUID
	Name           string
	DurationMonths int
	Price          float64
	MaxMembers     int
}

type Renewal struct {
	ID         uuid.UUID
	MemberID   uuid.UUID
	PackageID  uuid.UUID
	PaidAmount float64
	NewExpiry  time.Time
	RenewedAt  time.Time
}
