package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/Methdul/fitgym-pro-sub000/internal/domain/models"
	"github.com/Methdul/fitgym-pro-sub000/internal/services/members"
)

type RegisterMemberRequest struct {
	BranchID   string `json:"branchId"`
	NationalID string `json:"nationalId"`
	FirstName  string `json:"firstName"`
	LastName   string `json:"lastName"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	PackageID  string `json:"packageId"`
}

type MemberResponse struct {
	ID         string    `json:"id"`
	BranchID   string    `json:"branchId"`
	NationalID string    `json:"nationalId"`
	FirstName  string    `json:"firstName"`
	LastName   string    `json:"lastName"`
	Email      string    `json:"email"`
	Phone      string    `json:"phone"`
	PackageID  string    `json:"packageId"`
	Status     string    `json:"status"`
	ExpiresAt  time.Time `json:"expiresAt"`
	CreatedAt  time.Time `json:"createdAt"`
}

func toMemberResponse(member models.Member) MemberResponse {
	return MemberResponse{
		ID:         member.ID.String(),
		BranchID:   member.BranchID.String(),
		NationalID: member.NationalID,
		FirstName:  member.FirstName,
		LastName:   member.LastName,
		Email:      member.Email,
		Phone:      member.Phone,
		PackageID:  member.PackageID.String(),
		Status:     string(member.Status(time.Now())),
		ExpiresAt:  member.ExpiresAt,
		CreatedAt:  member.CreatedAt,
	}
}

func (a *API) handleRegisterMember(w http.ResponseWriter, r *http.Request) error {
	var req RegisterMemberRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return writeError(w, http.StatusBadRequest, ErrInvalidJSON)
	}

	branchID, err := uuid.Parse(req.BranchID)
	if err != nil {
		return writeError(w, http.StatusBadRequest, ErrInvalidBranchID)
	}
	packageID, err := uuid.Parse(req.PackageID)
	if err != nil {
		return writeError(w, http.StatusBadRequest, ErrInvalidPackageID)
	}
	if req.NationalID == "" {
		return writeError(w, http.StatusBadRequest, ErrNationalIDRequired)
	}
	if req.FirstName == "" || req.LastName == "" {
		return writeError(w, http.StatusBadRequest, ErrNameRequired)
	}
	if err := a.validator.Var(req.Email, "required,email"); err != nil {
		return writeError(w, http.StatusBadRequest, ErrInvalidEmail)
	}

	member, err := a.members.Register(r.Context(), members.RegisterInput{
		BranchID:   branchID,
		NationalID: req.NationalID,
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		Email:      req.Email,
		Phone:      req.Phone,
		PackageID:  packageID,
	})
	if err != nil {
		switch {
		case errors.Is(err, members.ErrMemberExists):
			return writeError(w, http.StatusConflict, ErrMemberExists)
		case errors.Is(err, members.ErrPackageNotFound):
			return writeError(w, http.StatusBadRequest, ErrPackageNotFound)
		default:
			return err
		}
	}

	return writeJSON(w, http.StatusCreated, toMemberResponse(member))
}

func (a *API) handleGetMember(w http.ResponseWriter, r *http.Request) error {
	memberID, ok := parsePathUUID(r, "memberID")
	if !ok {
		return writeError(w, http.StatusBadRequest, ErrInvalidMemberID)
	}

	member, err := a.members.Member(r.Context(), memberID)
	if err != nil {
		if errors.Is(err, members.ErrMemberNotFound) {
			return writeError(w, http.StatusNotFound, ErrMemberNotFound)
		}
		return err
	}

	return writeJSON(w, http.StatusOK, toMemberResponse(member))
}

func (a *API) handleListMembers(w http.ResponseWriter, r *http.Request) error {
	branchID, ok := parsePathUUID(r, "branchID")
	if !ok {
		return writeError(w, http.StatusBadRequest, ErrInvalidBranchID)
	}

	list, err := a.members.MembersByBranch(r.Context(), branchID)
	if err != nil {
		return err
	}

	result := make([]MemberResponse, len(list))
	for i, member := range list {
		result[i] = toMemberResponse(member)
	}

	return writeJSON(w, http.StatusOK, result)
}

type RenewRequest struct {
	PackageID  string  `json:"packageId"`
	PaidAmount float64 `json:"paidAmount"`
}

type RenewalResponse struct {
	ID         string    `json:"id"`
	MemberID   string    `json:"memberId"`
	PackageID  string    `json:"packageId"`
	PaidAmount float64   `json:"paidAmount"`
	NewExpiry  time.Time `json:"newExpiry"`
	RenewedAt  time.Time `json:"renewedAt"`
}

func (a *API) handleRenew(w http.ResponseWriter, r *http.Request) error {
	memberID, ok := parsePathUUID(r, "memberID")
	if !ok {
		return writeError(w, http.StatusBadRequest, ErrInvalidMemberID)
	}

	var req RenewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return writeError(w, http.StatusBadRequest, ErrInvalidJSON)
	}

	packageID, err := uuid.Parse(req.PackageID)
	if err != nil {
		return writeError(w, http.StatusBadRequest, ErrInvalidPackageID)
	}

	renewal, err := a.members.Renew(r.Context(), memberID, packageID, req.PaidAmount)
	if err != nil {
		switch {
		case errors.Is(err, members.ErrMemberNotFound):
			return writeError(w, http.StatusNotFound, ErrMemberNotFound)
		case errors.Is(err, members.ErrPackageNotFound):
			return writeError(w, http.StatusBadRequest, ErrPackageNotFound)
		default:
			return err
		}
	}

	return writeJSON(w, http.StatusCreated, RenewalResponse{
		ID:         renewal.ID.String(),
		MemberID:   renewal.MemberID.String(),
		PackageID:  renewal.PackageID.String(),
		PaidAmount: renewal.PaidAmount,
		NewExpiry:  renewal.NewExpiry,
		RenewedAt:  renewal.RenewedAt,
	})
}

type CreatePackageRequest struct {
	BranchID       string  `json:"branchId"`
	Name           string  `json:"name"`
	DurationMonths int     `json:"durationMonths"`
	Price          float64 `json:"price"`
	MaxMembers     int     `json:"maxMembers"`
}

type PackageResponse struct {
	ID             string  `json:"id"`
	BranchID       string  `json:"branchId"`
	Name           string  `json:"name"`
	DurationMonths int     `json:"durationMonths"`
	Price          float64 `json:"price"`
	MaxMembers     int     `json:"maxMembers"`
}

func toPackageResponse(pkg models.Package) PackageResponse {
	return PackageResponse{
		ID:             pkg.ID.String(),
		BranchID:       pkg.BranchID.String(),
		Name:           pkg.Name,
		DurationMonths: pkg.DurationMonths,
		Price:          pkg.Price,
		MaxMembers:     pkg.MaxMembers,
	}
}

func (a *API) handleCreatePackage(w http.ResponseWriter, r *http.Request) error {
	var req CreatePackageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return writeError(w, http.StatusBadRequest, ErrInvalidJSON)
	}

	branchID, err := uuid.Parse(req.BranchID)
	if err != nil {
		return writeError(w, http.StatusBadRequest, ErrInvalidBranchID)
	}
	if req.Name == "" {
		return writeError(w, http.StatusBadRequest, ErrNameRequired)
	}
	if req.DurationMonths <= 0 {
		return writeError(w, http.StatusBadRequest, "durationMonths must be positive")
	}

	pkg, err := a.members.CreatePackage(r.Context(), models.Package{
		BranchID:       branchID,
		Name:           req.Name,
		DurationMonths: req.DurationMonths,
		Price:          req.Price,
		MaxMembers:     req.MaxMembers,
	})
	if err != nil {
		if errors.Is(err, members.ErrPackageExists) {
			return writeError(w, http.StatusConflict, ErrPackageExists)
		}
		return err
	}

	return writeJSON(w, http.StatusCreated, toPackageResponse(pkg))
}

func (a *API) handleListPackages(w http.ResponseWriter, r *http.Request) error {
	branchID, ok := parsePathUUID(r, "branchID")
	if !ok {
		return writeError(w, http.StatusBadRequest, ErrInvalidBranchID)
	}

	list, err := a.members.PackagesByBranch(r.Context(), branchID)
	if err != nil {
		return err
	}

	result := make([]PackageResponse, len(list))
	for i, pkg := range list {
		result[i] = toPackageResponse(pkg)
	}

	return writeJSON(w, http.StatusOK, result)
}
