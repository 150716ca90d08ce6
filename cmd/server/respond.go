package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"example.com/socialmedia/internal/models"
)

type messageResponse struct {
	Message string `json:"message"`
}

// errorDetails is the error envelope for 404/401/403/500 responses.
type errorDetails struct {
	Timestamp time.Time `json:"timestamp"`
	Message   string    `json:"message"`
	Details   string    `json:"details"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message, details string) {
	writeJSON(w, status, errorDetails{
		Timestamp: time.Now().UTC(),
		Message:   message,
		Details:   details,
	})
}

// respondError translates domain errors into the HTTP error surface:
// 404 for missing entities, 400 with a field map for validation failures,
// 400 with a message for signup conflicts, 401 for bad credentials, and
// a generic 500 otherwise with the cause logged but never leaked.
func respondError(w http.ResponseWriter, module string, err error) {
	var nf *models.NotFoundError
	if errors.As(err, &nf) {
		writeError(w, http.StatusNotFound, nf.Error(), "Resource not found")
		return
	}

	var ve *models.ValidationError
	if errors.As(err, &ve) {
		writeJSON(w, http.StatusBadRequest, ve.Fields)
		return
	}

	if errors.Is(err, models.ErrUsernameTaken) || errors.Is(err, models.ErrEmailInUse) {
		writeJSON(w, http.StatusBadRequest, messageResponse{Message: err.Error()})
		return
	}

	if errors.Is(err, models.ErrBadCredentials) {
		writeError(w, http.StatusUnauthorized, err.Error(), "Unauthorized")
		return
	}

	logg.Error(module, "Unhandled error", err)
	writeError(w, http.StatusInternalServerError, "internal error", "Internal Server Error")
}

func decodeBody(w http.ResponseWriter, r *http.Request, module string, v any) bool {
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		logg.Error(module, "Invalid request body", err)
		writeError(w, http.StatusBadRequest, "invalid request body", "Bad Request")
		return false
	}
	return true
}
