package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/Methdul/fitgym-pro-sub000/internal/domain/models"
	"github.com/Methdul/fitgym-pro-sub000/internal/services/staffauth"
)

type VerifyPinRequest struct {
	StaffID string `json:"staffId"`
	Pin     string `json:"pin"`
}

// StaffResponse carries the staff member's public fields; the PIN hash never
// leaves the service.
type StaffResponse struct {
	ID         string    `json:"id"`
	BranchID   string    `json:"branchId"`
	FirstName  string    `json:"firstName"`
	LastName   string    `json:"lastName"`
	Email      string    `json:"email"`
	Role       string    `json:"role"`
	LastActive time.Time `json:"lastActive"`
}

type VerifyPinResponse struct {
	Status  string         `json:"status"`
	IsValid bool           `json:"isValid"`
	Staff   *StaffResponse `json:"staff"`
	Token   string         `json:"token,omitempty"`
	Error   *string        `json:"error"`
}

func toStaffResponse(staff models.Staff) *StaffResponse {
	return &StaffResponse{
		ID:         staff.ID.String(),
		BranchID:   staff.BranchID.String(),
		FirstName:  staff.FirstName,
		LastName:   staff.LastName,
		Email:      staff.Email,
		Role:       string(staff.Role),
		LastActive: staff.LastActive,
	}
}

// handleVerifyPin implements POST /staff/verify-pin.
// 400 when staffId or pin is missing, 429 with lockedUntil while the identity
// is locked out, otherwise 200 with isValid reporting the outcome.
func (a *API) handleVerifyPin(w http.ResponseWriter, r *http.Request) error {
	var req VerifyPinRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return writeError(w, http.StatusBadRequest, ErrInvalidJSON)
	}

	if req.StaffID == "" {
		return writeError(w, http.StatusBadRequest, ErrStaffIDRequired)
	}
	if req.Pin == "" {
		return writeError(w, http.StatusBadRequest, ErrPinRequired)
	}

	staff, token, err := a.auth.VerifyPin(r.Context(), req.StaffID, req.Pin)
	if err != nil {
		var locked *staffauth.LockedError
		if errors.As(err, &locked) {
			return writeLocked(w, ErrTooManyAttempts, locked.Until)
		}
		if errors.Is(err, staffauth.ErrInvalidCredentials) {
			msg := ErrInvalidCredentials
			return writeJSON(w, http.StatusOK, VerifyPinResponse{
				Status: "success", IsValid: false, Staff: nil, Error: &msg,
			})
		}
		return err
	}

	return writeJSON(w, http.StatusOK, VerifyPinResponse{
		Status: "success", IsValid: true, Staff: toStaffResponse(staff), Token: token, Error: nil,
	})
}

type CreateStaffRequest struct {
	BranchID  string `json:"branchId"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	Pin       string `json:"pin"`
}

func (a *API) handleCreateStaff(w http.ResponseWriter, r *http.Request) error {
	var req CreateStaffRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return writeError(w, http.StatusBadRequest, ErrInvalidJSON)
	}

	branchID, err := uuid.Parse(req.BranchID)
	if err != nil {
		return writeError(w, http.StatusBadRequest, ErrInvalidBranchID)
	}
	if req.FirstName == "" || req.LastName == "" {
		return writeError(w, http.StatusBadRequest, ErrNameRequired)
	}
	if err := a.validator.Var(req.Email, "required,email"); err != nil {
		return writeError(w, http.StatusBadRequest, ErrInvalidEmail)
	}
	if req.Pin == "" {
		return writeError(w, http.StatusBadRequest, ErrPinRequired)
	}

	staff := models.Staff{
		BranchID:  branchID,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Role:      models.StaffRole(req.Role),
	}

	created, err := a.auth.CreateStaff(r.Context(), staff, req.Pin)
	if err != nil {
		switch {
		case errors.Is(err, staffauth.ErrWeakPin):
			return writeError(w, http.StatusBadRequest, ErrWeakPin)
		case errors.Is(err, staffauth.ErrStaffExists):
			return writeError(w, http.StatusConflict, ErrStaffExists)
		default:
			return err
		}
	}

	return writeJSON(w, http.StatusCreated, toStaffResponse(created))
}

type ChangePinRequest struct {
	Pin string `json:"pin"`
}

func (a *API) handleChangePin(w http.ResponseWriter, r *http.Request) error {
	staffID, ok := parsePathUUID(r, "staffID")
	if !ok {
		return writeError(w, http.StatusBadRequest, ErrInvalidStaffID)
	}

	var req ChangePinRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return writeError(w, http.StatusBadRequest, ErrInvalidJSON)
	}
	if req.Pin == "" {
		return writeError(w, http.StatusBadRequest, ErrPinRequired)
	}

	if err := a.auth.ChangePin(r.Context(), staffID, req.Pin); err != nil {
		switch {
		case errors.Is(err, staffauth.ErrWeakPin):
			return writeError(w, http.StatusBadRequest, ErrWeakPin)
		case errors.Is(err, staffauth.ErrStaffNotFound):
			return writeError(w, http.StatusNotFound, ErrStaffNotFound)
		default:
			return err
		}
	}

	w.WriteHeader(http.StatusNoContent)
	return nil
}

func (a *API) handleDeleteStaff(w http.ResponseWriter, r *http.Request) error {
	staffID, ok := parsePathUUID(r, "staffID")
	if !ok {
		return writeError(w, http.StatusBadRequest, ErrInvalidStaffID)
	}

	if err := a.auth.DeleteStaff(r.Context(), staffID); err != nil {
		if errors.Is(err, staffauth.ErrStaffNotFound) {
			return writeError(w, http.StatusNotFound, ErrStaffNotFound)
		}
		return err
	}

	w.WriteHeader(http.StatusNoContent)
	return nil
}

func (a *API) handleListStaff(w http.ResponseWriter, r *http.Request) error {
	branchID, ok := parsePathUUID(r, "branchID")
	if !ok {
		return writeError(w, http.StatusBadRequest, ErrInvalidBranchID)
	}

	staff, err := a.auth.StaffByBranch(r.Context(), branchID)
	if err != nil {
		return err
	}

	list := make([]*StaffResponse, len(staff))
	for i, member := range staff {
		list[i] = toStaffResponse(member)
	}

	return writeJSON(w, http.StatusOK, list)
}
