package models

import "time"

// FailedPin tracks consecutive failed PIN verifications for one staff identity.
type FailedPin struct {
	Attempts    int
	LastAttempt time.Time
}
