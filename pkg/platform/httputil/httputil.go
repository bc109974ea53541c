// Package httputil writes JSON responses and maps domain errors to HTTP.
package httputil

import (
	"encoding/json"
	"net/http"

	dErrors "soukscan/pkg/domain-errors"
)

// ErrorResponse is the error body shared by every endpoint.
type ErrorResponse struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description,omitempty"`
}

// WriteJSON writes v as a JSON body with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError maps err to a status code and error body. Internal errors never
// leak their message.
func WriteError(w http.ResponseWriter, err error) {
	code := dErrors.CodeOf(err)
	resp := ErrorResponse{Error: string(code)}
	if code != dErrors.CodeInternal {
		resp.ErrorDescription = dErrors.MessageOf(err)
	}
	WriteJSON(w, StatusFor(code), resp)
}

// StatusFor maps a domain error code to an HTTP status.
func StatusFor(code dErrors.Code) int {
	switch code {
	case dErrors.CodeNotFound:
		return http.StatusNotFound
	case dErrors.CodeValidation, dErrors.CodeBadRequest, dErrors.CodeInvalidInput:
		return http.StatusBadRequest
	case dErrors.CodeUnauthorized:
		return http.StatusUnauthorized
	case dErrors.CodeForbidden:
		return http.StatusForbidden
	case dErrors.CodeConflict, dErrors.CodeInvariantViolation:
		return http.StatusConflict
	case dErrors.CodeExternalService:
		return http.StatusBadGateway
	case dErrors.CodeTimeout:
		return http.StatusGatewayTimeout
	case dErrors.CodeRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}
