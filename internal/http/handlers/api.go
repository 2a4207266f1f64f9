package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/Methdul/fitgym-pro-sub000/internal/domain/models"
	"github.com/Methdul/fitgym-pro-sub000/internal/services/members"
)

type StaffAuth interface {
	VerifyPin(ctx context.Context, staffID, pinCode string) (models.Staff, string, error)
	CreateStaff(ctx context.Context, staff models.Staff, pinCode string) (models.Staff, error)
	ChangePin(ctx context.Context, staffID uuid.UUID, newPin string) error
	DeleteStaff(ctx context.Context, staffID uuid.UUID) error
	StaffByBranch(ctx context.Context, branchID uuid.UUID) ([]models.Staff, error)
}

type MemberService interface {
	Register(ctx context.Context, input members.RegisterInput) (models.Member, error)
	Renew(ctx context.Context, memberID, packageID uuid.UUID, paidAmount float64) (models.Renewal, error)
	Member(ctx context.Context, memberID uuid.UUID) (models.Member, error)
	MembersByBranch(ctx context.Context, branchID uuid.UUID) ([]models.Member, error)
	CreatePackage(ctx context.Context, pkg models.Package) (models.Package, error)
	PackagesByBranch(ctx context.Context, branchID uuid.UUID) ([]models.Package, error)
}

type AnalyticsService interface {
	BranchStats(ctx context.Context, branchID uuid.UUID, since time.Time) (models.BranchStats, error)
}

type API struct {
	log       *slog.Logger
	validator *validator.Validate
	auth      StaffAuth
	members   MemberService
	analytics AnalyticsService
}

func New(log *slog.Logger, auth StaffAuth, members MemberService, analytics AnalyticsService) *API {
	return &API{
		log:       log,
		validator: validator.New(),
		auth:      auth,
		members:   members,
		analytics: analytics,
	}
}

// RegisterRoutes registers all API routes.
func (a *API) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /staff/verify-pin", a.withError(a.handleVerifyPin))
	mux.HandleFunc("POST /staff", a.withError(a.handleCreateStaff))
	mux.HandleFunc("PUT /staff/{staffID}/pin", a.withError(a.handleChangePin))
	mux.HandleFunc("DELETE /staff/{staffID}", a.withError(a.handleDeleteStaff))
	mux.HandleFunc("GET /branches/{branchID}/staff", a.withError(a.handleListStaff))

	mux.HandleFunc("POST /members", a.withError(a.handleRegisterMember))
	mux.HandleFunc("GET /members/{memberID}", a.withError(a.handleGetMember))
	mux.HandleFunc("POST /members/{memberID}/renew", a.withError(a.handleRenew))
	mux.HandleFunc("GET /branches/{branchID}/members", a.withError(a.handleListMembers))

	mux.HandleFunc("POST /packages", a.withError(a.handleCreatePackage))
	mux.HandleFunc("GET /branches/{branchID}/packages", a.withError(a.handleListPackages))

	mux.HandleFunc("GET /branches/{branchID}/stats", a.withError(a.handleBranchStats))
}

// withError adapts handlers that return an error; anything escaping is a 500.
func (a *API) withError(h func(http.ResponseWriter, *http.Request) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := h(w, r); err != nil {
			a.log.Error("http handler error", slog.String("path", r.URL.Path), slog.String("err", err.Error()))
			_ = writeError(w, http.StatusInternalServerError, ErrInternal)
		}
	}
}

func parsePathUUID(r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue(name))
	return id, err == nil
}