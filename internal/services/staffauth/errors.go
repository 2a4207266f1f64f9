package staffauth

import (
	"errors"
	"time"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrStaffExists        = errors.New("staff member exists")
	ErrStaffNotFound      = errors.New("staff member not found")
	ErrWeakPin            = errors.New("pin rejected by policy")
)

// LockedError is returned while an identity is locked out. It carries the
// moment the lock expires so the transport layer can report it.
type LockedError struct {
	Until time.Time
}

func (e *LockedError) Error() string {
	return "account is temporarily locked"
}
