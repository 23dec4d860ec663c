package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"journal-directory-backend/internal/logger"
	"journal-directory-backend/internal/service"
	"journal-directory-backend/internal/validation"
)

// errorBody is the JSON shape of every failed request.
type errorBody struct {
	Error   service.Kind      `json:"error"`
	Message string            `json:"message"`
	Fields  validation.Errors `json:"fields,omitempty"`
}

var kindStatus = map[service.Kind]int{
	service.KindValidation:         http.StatusBadRequest,
	service.KindInvalidCredentials: http.StatusUnauthorized,
	service.KindUnauthenticated:    http.StatusUnauthorized,
	service.KindAccountDeactivated: http.StatusForbidden,
	service.KindPermissionDenied:   http.StatusForbidden,
	service.KindNotApproved:        http.StatusForbidden,
	service.KindNotFound:           http.StatusNotFound,
	service.KindConflict:           http.StatusConflict,
	service.KindInvalidTransition:  http.StatusConflict,
	service.KindPasswordReused:     http.StatusUnprocessableEntity,
	service.KindRateLimited:        http.StatusTooManyRequests,
	service.KindUploadFailed:       http.StatusBadGateway,
	service.KindUnavailable:        http.StatusServiceUnavailable,
}

// StatusFor maps a service error kind to its HTTP status.
func StatusFor(kind service.Kind) int {
	if status, ok := kindStatus[kind]; ok {
		return status
	}
	return http.StatusInternalServerError
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

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	kind := service.KindOf(err)
	body := errorBody{Error: kind, Message: service.UserMessage(err)}
	var se *service.Error
	if errors.As(err, &se) {
		body.Fields = se.Fields
	}

	status := StatusFor(kind)
	if status >= http.StatusInternalServerError {
		logger.ErrorContext(r.Context(), "Request failed", "method", r.Method, "path", r.URL.Path, "kind", kind, "error", err)
	} else {
		logger.Debug("Request rejected", "method", r.Method, "path", r.URL.Path, "kind", kind, "error", err)
	}
	writeJSON(w, status, body)
}

func fieldError(field, message string) error {
	return &service.Error{
		Kind:    service.KindValidation,
		Message: field + ": " + message,
		Fields:  validation.Errors{{Field: field, Message: message}},
	}
}

// decodeJSON reads a JSON request body into v.
func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, 1<<20))
	if err := dec.Decode(v); err != nil {
		return fieldError("body", "Request body must be valid JSON")
	}
	return nil
}
