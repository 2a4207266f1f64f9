package handlers

import (
	"encoding/json"
	"net/http"
	"time"
)

type errorResponse struct {
	Status      string `json:"status"`
	Error       string `json:"error"`
	LockedUntil string `json:"lockedUntil,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) error {
	return writeJSON(w, status, errorResponse{Status: "error", Error: msg})
}

func writeLocked(w http.ResponseWriter, msg string, lockedUntil time.Time) error {
	return writeJSON(w, http.StatusTooManyRequests, errorResponse{
		Status:      "error",
		Error:       msg,
		LockedUntil: lockedUntil.UTC().Format(time.RFC3339),
	})
}
