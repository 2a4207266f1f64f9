package storage

import "errors"

var (
	ErrStaffExists      = errors.New("staff member already exists")
	ErrStaffNotFound    = errors.New("staff member not found")
	ErrMemberExists     = errors.New("member already exists")
	ErrMemberNotFound   = errors.New("member not found")
	ErrPackageExists    = errors.New("package already exists")
	ErrPackageNotFound  = errors.New("package not found")
	ErrAttemptsNotFound = errors.New("failed pin attempts not found")
)
