package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"rentshare-backend/internal/domain"
	"rentshare-backend/internal/logger"
)

const maxBodyBytes = 1 << 20

type errorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type errorResponse struct {
	Error errorDetail `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Warn("Failed to encode response", "error", err)
	}
}

func writeErrorCode(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{Error: errorDetail{Code: code, Message: message}})
}

// writeError maps service errors onto HTTP status codes.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var conflict *domain.ConflictError
	var invalid *domain.InvalidTransitionError
	switch {
	case errors.As(err, &conflict):
		writeErrorCode(w, http.StatusConflict, "conflict", conflict.Error())
	case errors.As(err, &invalid):
		writeErrorCode(w, http.StatusConflict, "invalid_transition", invalid.Error())
	case errors.Is(err, domain.ErrValidation):
		writeErrorCode(w, http.StatusUnprocessableEntity, "validation_error", validationMessage(err))
	case errors.Is(err, domain.ErrNotFound):
		writeErrorCode(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, domain.ErrForbidden):
		writeErrorCode(w, http.StatusForbidden, "forbidden", err.Error())
	case errors.Is(err, domain.ErrUnauthenticated):
		writeErrorCode(w, http.StatusUnauthorized, "unauthenticated", err.Error())
	default:
		logger.FromContext(r.Context()).Error("Request failed", "route", routeName(r), "error", err)
		writeErrorCode(w, http.StatusInternalServerError, "internal", "internal server error")
	}
}

// validationMessage strips the sentinel prefix, e.g.
// "validation failed: title is required" -> "title is required".
func validationMessage(err error) string {
	msg := err.Error()
	if i := strings.Index(msg, domain.ErrValidation.Error()+": "); i >= 0 {
		return msg[i+len(domain.ErrValidation.Error())+2:]
	}
	return msg
}

// decodeJSON reads a JSON body into v. An empty body leaves v untouched.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil && !errors.Is(err, io.EOF) {
		writeErrorCode(w, http.StatusBadRequest, "bad_request", "invalid request body: "+err.Error())
		return false
	}
	return true
}
