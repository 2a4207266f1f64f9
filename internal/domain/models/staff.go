package models

import (
	"time"

	"github.com/google/uuid"
)

type StaffRole string

const (
	RoleManager     StaffRole = "manager"
	RoleSeniorStaff StaffRole = "senior_staff"
	RoleAssociate   StaffRole = "associate"
)

type Staff struct {
	ID         uuid.UUID
	BranchID   uuid.UUID
	FirstName  string
	LastName   string
	Email      string
	Role       StaffRole
	PinHash    []byte
	LastActive time.Time
}
