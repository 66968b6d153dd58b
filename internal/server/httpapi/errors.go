package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/curexhq/curex/internal/common"
)

// ErrorResponse is the uniform error payload. The status code is repeated
// in the body so clients can log the whole error from one place.
type ErrorResponse struct {
	StatusCode int    `json:"status_code"`
	Message    string `json:"message"`
	ErrorCode  string `json:"error_code"`
}

// errorMapping pins each service error to its HTTP rendering.
var errorMapping = []struct {
	err     error
	status  int
	message string
	code    string
}{
	{common.ErrInvalidCredentials, http.StatusUnauthorized, "Invalid credentials", "INVALID_CREDENTIALS"},
	{common.ErrUserAlreadyExists, http.StatusConflict, "User already exists", "CONFLICT"},
	{common.ErrUserNotFound, http.StatusNotFound, "User not found", "NOT_FOUND"},
	{common.ErrTokenExpired, http.StatusUnauthorized, "Token has expired", "TOKEN_EXPIRED"},
	{common.ErrInvalidToken, http.StatusUnauthorized, "Invalid token", "INVALID_TOKEN"},
	{common.ErrWrongTokenType, http.StatusUnauthorized, "Invalid token type", "INVALID_TOKEN_TYPE"},
	{common.ErrTokenRevoked, http.StatusUnauthorized, "Token has been revoked", "TOKEN_REVOKED"},
	{common.ErrForbidden, http.StatusForbidden, "Forbidden: admin access required", "FORBIDDEN"},
	{common.ErrInvalidCurrencyCode, http.StatusBadRequest, "Currency code is invalid", "INVALID_CODE"},
	{common.ErrRatesUnavailable, http.StatusServiceUnavailable, "Exchange rates unavailable", "RATES_UNAVAILABLE"},
}

// writeError renders a service error as the uniform JSON payload. Unmapped
// errors become opaque 500s; details stay in the server log.
func writeError(w http.ResponseWriter, err error) {
	for _, m := range errorMapping {
		if errors.Is(err, m.err) {
			writeErrorResponse(w, m.status, m.message, m.code)
			return
		}
	}
	writeErrorResponse(w, http.StatusInternalServerError, "Internal server error", "INTERNAL")
}

func writeErrorResponse(w http.ResponseWriter, status int, message, code string) {
	writeJSON(w, status, ErrorResponse{StatusCode: status, Message: message, ErrorCode: code})
}

func writeValidationError(w http.ResponseWriter, message string) {
	writeErrorResponse(w, http.StatusBadRequest, message, "VALIDATION_ERROR")
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
