package model

import (
	"time"

	"github.com/google/uuid"
)

type Staff struct {
	ID         uuid.UUID `db:"id"`
	BranchID   uuid.UUID `db:"branch_id"`
	FirstName  string    `db:"first_name"`
	LastName   string    `db:"last_name"`
	Email      string    `db:"email"`
	Role       string    `db:"role"`
	PinHash    []byte    `db:"pin_hash"`
	LastActive time.Time `db:"last_active"`
}
