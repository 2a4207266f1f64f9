package models

import (
	"time"

	"github.com/google/uuid"
)

type MemberStatus string

const (
	StatusActive  MemberStatus = "active"
	StatusExpired MemberStatus = "expired"
)

type Member struct {
	ID         uuid.UUID
	BranchID   uuid.UUID
	NationalID string
	FirstName  string
	LastName   string
	Email      string
	Phone      string
	PackageID  uuid.UUID
	ExpiresAt  time.Time
	CreatedAt  time.Time
}

// Status is derived from the expiry date and never stored.
func (m Member) Status(now time.Time) MemberStatus {
	if now.After(m.ExpiresAt) {
		return StatusExpired
	}
	return StatusActive
}

type MemberEvent struct {
	ID       uuid.UUID
	BranchID uuid.UUID
	Email    string
}
