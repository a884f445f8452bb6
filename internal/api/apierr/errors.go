package apierr

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/bloxpanel/bloxpanel/internal/model"
)

// APIError represents an API error response
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse wraps an APIError
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// Common error codes
const (
	CodeInvalidRequest      = "INVALID_REQUEST"
	CodeUnauthorized        = "UNAUTHORIZED"
	CodeUserNotFound        = "USER_NOT_FOUND"
	CodeMissingCode         = "MISSING_CODE"
	CodeTokenExchangeFailed = "TOKEN_EXCHANGE_FAILED"
	CodeIdentityFetchFailed = "IDENTITY_FETCH_FAILED"
	CodeAccessDenied        = "ACCESS_DENIED"
	CodeInternalError       = "INTERNAL_ERROR"
)

// httpError combines an HTTP status code with an APIError
type httpError struct {
	status   int
	apiError APIError
}

// Error implements error interface
func (e *httpError) Error() string {
	return e.apiError.Message
}

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	he := toHTTPError(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(he.status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: he.apiError})
}

// toHTTPError converts an error to an httpError. Authentication failures
// ("could not verify identity") and authorization denials ("verified but
// not permitted") map to distinct codes and statuses.
func toHTTPError(err error) *httpError {
	var he *httpError
	if errors.As(err, &he) {
		return he
	}

	switch {
	case errors.Is(err, model.ErrUserNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeUserNotFound, "User not found or failed to fetch data"}}
	case errors.Is(err, model.ErrMissingCode):
		return &httpError{http.StatusBadRequest, APIError{CodeMissingCode, "Missing authorization code"}}
	case errors.Is(err, model.ErrExchangeFailed):
		return &httpError{http.StatusBadRequest, APIError{CodeTokenExchangeFailed, "Token exchange failed"}}
	case errors.Is(err, model.ErrIdentityFetchFailed):
		return &httpError{http.StatusUnauthorized, APIError{CodeIdentityFetchFailed, "Failed to fetch user identity"}}
	case errors.Is(err, model.ErrNotAuthorized):
		return &httpError{http.StatusForbidden, APIError{CodeAccessDenied, "Access denied"}}
	case errors.Is(err, model.ErrInvalidSession), errors.Is(err, model.ErrSessionNotFound):
		return &httpError{http.StatusUnauthorized, APIError{CodeUnauthorized, "Invalid or expired session"}}
	default:
		return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
	}
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return &httpError{http.StatusBadRequest, APIError{CodeInvalidRequest, message}}
}

// NewUnauthorizedError creates an unauthorized error
func NewUnauthorizedError() error {
	return &httpError{http.StatusUnauthorized, APIError{CodeUnauthorized, "Authentication required"}}
}

// NewInternalError creates an internal server error
func NewInternalError() error {
	return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
}
