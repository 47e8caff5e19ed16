package web

import (
	"encoding/json"
	"errors"
	"net/http"

	"order-desk/internal/core"
)

type errorResponse struct {
	Error     string            `json:"error"`
	Code      string            `json:"code"`
	Fields    []core.FieldError `json:"fields,omitempty"`
	RequestID string            `json:"request_id,omitempty"`
}

// writeError writes a structured JSON error response.
func writeError(w http.ResponseWriter, r *http.Request, message, code string, status int) {
	writeJSONStatus(w, status, errorResponse{
		Error:     message,
		Code:      code,
		RequestID: requestIDFromContext(r.Context()),
	})
}

// writeFieldErrors writes a 422 listing every offending field.
func writeFieldErrors(w http.ResponseWriter, r *http.Request, message string, fields []core.FieldError) {
	writeJSONStatus(w, http.StatusUnprocessableEntity, errorResponse{
		Error:     message,
		Code:      "VALIDATION_FAILED",
		Fields:    fields,
		RequestID: requestIDFromContext(r.Context()),
	})
}

// writeJSON writes a JSON response with status 200.
func writeJSON(w http.ResponseWriter, v any) {
	writeJSONStatus(w, http.StatusOK, v)
}

func writeJSONStatus(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeAppError maps engine and application errors to HTTP responses.
func writeAppError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *core.ValidationError
	switch {
	case errors.As(err, &verr):
		writeFieldErrors(w, r, "order cannot be submitted", verr.Fields)
	case errors.Is(err, core.ErrReadOnly):
		writeError(w, r, err.Error(), "READ_ONLY", http.StatusConflict)
	case errors.Is(err, core.ErrSubmitInProgress):
		writeError(w, r, err.Error(), "SUBMIT_IN_PROGRESS", http.StatusConflict)
	case errors.Is(err, core.ErrSubmissionFailed):
		writeError(w, r, err.Error(), "SUBMISSION_FAILED", http.StatusBadGateway)
	case errors.Is(err, core.ErrEmptyResult):
		writeError(w, r, core.ErrEmptyResult.Error(), "EMPTY_RESULT", http.StatusUnprocessableEntity)
	case errors.Is(err, core.ErrNotFound):
		writeError(w, r, err.Error(), "NOT_FOUND", http.StatusNotFound)
	case errors.Is(err, core.ErrRejected):
		writeError(w, r, err.Error(), "REJECTED", http.StatusConflict)
	default:
		writeError(w, r, "internal server error", "INTERNAL_ERROR", http.StatusInternalServerError)
	}
}
