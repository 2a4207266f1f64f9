package handlers

import (
	"net/http"
	"strconv"
	"time"
)

type BranchStatsResponse struct {
	BranchID       string  `json:"branchId"`
	TotalMembers   int     `json:"totalMembers"`
	ActiveMembers  int     `json:"activeMembers"`
	ExpiredMembers int     `json:"expiredMembers"`
	NewMembers     int     `json:"newMembers"`
	Renewals       int     `json:"renewals"`
	Revenue        float64 `json:"revenue"`
}

// handleBranchStats implements GET /branches/{branchID}/stats?days=N.
// The period defaults to the last 30 days.
func (a *API) handleBranchStats(w http.ResponseWriter, r *http.Request) error {
	branchID, ok := parsePathUUID(r, "branchID")
	if !ok {
		return writeError(w, http.StatusBadRequest, ErrInvalidBranchID)
	}

	days := 30
	if v := r.URL.Query().Get("days"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed <= 0 {
			return writeError(w, http.StatusBadRequest, "days must be a positive integer")
		}
		days = parsed
	}

	since := time.Now().AddDate(0, 0, -days)

	stats, err := a.analytics.BranchStats(r.Context(), branchID, since)
	if err != nil {
		return err
	}

	return writeJSON(w, http.StatusOK, BranchStatsResponse{
		BranchID:       stats.BranchID.String(),
		TotalMembers:   stats.TotalMembers,
		ActiveMembers:  stats.ActiveMembers,
		ExpiredMembers: stats.ExpiredMembers,
		NewMembers:     stats.NewMembers,
		Renewals:       stats.Renewals,
		Revenue:        stats.Revenue,
	})
}
