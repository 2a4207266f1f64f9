package models

import "github.com/google/uuid"

// BranchStats are read-time aggregates for one branch.
type BranchStats struct {
	BranchID       uuid.UUID
	TotalMembers   int
	ActiveMembers  int
	ExpiredMembers int
	NewMembers     int
	Renewals       int
	Revenue        float64
}
