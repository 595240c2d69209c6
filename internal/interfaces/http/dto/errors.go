package dto

import "net/http"

// Error codes shared across the pipeline
const (
	// ErrCodeValidation is used when a submitted report is rejected
	ErrCodeValidation = "VALIDATION_ERROR"
	// ErrCodeUnauthorized is used when authentication is required but missing/invalid
	ErrCodeUnauthorized = "UNAUTHORIZED"
	// ErrCodeForbidden is used when the user lacks permission
	ErrCodeForbidden = "FORBIDDEN"
	// ErrCodeTransportNotConfigured is used when the mail transport is unusable
	ErrCodeTransportNotConfigured = "TRANSPORT_NOT_CONFIGURED"
	// ErrCodeRenderFailed is used when PDF rendering fails
	ErrCodeRenderFailed = "RENDER_FAILED"
	// ErrCodeRenderTimeout is used when PDF rendering exceeds its deadline
	ErrCodeRenderTimeout = "RENDER_TIMEOUT"
	// ErrCodeEngineNotFound is used when no rendering engine is installed
	ErrCodeEngineNotFound = "ENGINE_NOT_FOUND"
	// ErrCodeDeliveryFailed is used when the mail transport rejects the send
	ErrCodeDeliveryFailed = "DELIVERY_FAILED"
	// ErrCodeInternal is used for unexpected server errors
	ErrCodeInternal = "INTERNAL_ERROR"
)

// errorCodeHTTPStatus maps error codes to HTTP status codes
var errorCodeHTTPStatus = map[string]int{
	ErrCodeValidation:             http.StatusBadRequest,
	ErrCodeUnauthorized:           http.StatusUnauthorized,
	ErrCodeForbidden:              http.StatusForbidden,
	ErrCodeTransportNotConfigured: http.StatusInternalServerError,
	ErrCodeRenderFailed:           http.StatusInternalServerError,
	ErrCodeRenderTimeout:          http.StatusInternalServerError,
	ErrCodeEngineNotFound:         http.StatusInternalServerError,
	ErrCodeDeliveryFailed:         http.StatusInternalServerError,
	ErrCodeInternal:               http.StatusInternalServerError,
}

// GetHTTPStatus returns the HTTP status code for an error code.
// Unknown codes map to 500 Internal Server Error.
func GetHTTPStatus(code string) int {
	if status, ok := errorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}
