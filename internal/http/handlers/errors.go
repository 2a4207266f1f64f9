package handlers

const (
	ErrInternal           = "internal error"
	ErrInvalidJSON        = "invalid json"
	ErrStaffIDRequired    = "staffId is required"
	ErrPinRequired        = "pin is required"
	ErrInvalidStaffID     = "invalid staffId"
	ErrInvalidBranchID    = "invalid branchId"
	ErrInvalidMemberID    = "invalid memberId"
	ErrInvalidPackageID   = "invalid packageId"
	ErrInvalidEmail       = "invalid email format"
	ErrNameRequired       = "name is required"
	ErrNationalIDRequired = "nationalId is required"
	ErrTooManyAttempts    = "Too many failed attempts"
	ErrInvalidCredentials = "invalid credentials"
	ErrWeakPin            = "pin is too weak or malformed"
	ErrStaffExists        = "staff member already exists"
	ErrStaffNotFound      = "staff member not found"
	ErrMemberExists       = "member already exists"
	ErrMemberNotFound     = "member not found"
	ErrPackageNotFound    = "package not found"
	ErrPackageExists      = "package already exists"
)
