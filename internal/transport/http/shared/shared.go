// Package shared centralizes the JSON response envelope and the domain
// error to HTTP status translation used by every handler.
package shared

import (
	"encoding/json"
	"errors"
	"net/http"

	dErrors "github.com/pauloqxm/adatualiza/pkg/domain-errors"
	"github.com/pauloqxm/adatualiza/pkg/validate"
)

// ErrorResponse is the JSON envelope for every non-2xx response.
type ErrorResponse struct {
	Error   string   `json:"error"`
	Message string   `json:"message"`
	Details []string `json:"details,omitempty"`
}

// WriteJSON encodes v with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError translates a domain error to its HTTP status and envelope.
// Validation errors carry the full violation list in details so the client
// can surface every problem at once.
func WriteError(w http.ResponseWriter, err error) {
	code := dErrors.CodeOf(err)
	resp := ErrorResponse{
		Error:   string(code),
		Message: dErrors.MessageOf(err),
	}

	var verrs validate.Errors
	if errors.As(err, &verrs) {
		resp.Details = verrs
	}

	WriteJSON(w, statusFor(code), resp)
}

// statusFor maps domain error codes to HTTP statuses. Backend credential and
// quota failures are upstream problems from the client's point of view, hence
// the 5xx gateway statuses.
func statusFor(code dErrors.Code) int {
	switch code {
	case dErrors.CodeValidation:
		return http.StatusUnprocessableEntity
	case dErrors.CodeBadRequest:
		return http.StatusBadRequest
	case dErrors.CodeNotFound:
		return http.StatusNotFound
	case dErrors.CodeConflict:
		return http.StatusConflict
	case dErrors.CodeUnauthenticated, dErrors.CodeSchemaMismatch:
		return http.StatusBadGateway
	case dErrors.CodeUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
