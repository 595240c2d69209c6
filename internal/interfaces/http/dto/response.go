// Package dto defines the HTTP request and response shapes.
package dto

// GenerateReportResponse confirms a delivered report
type GenerateReportResponse struct {
	OK        bool   `json:"ok"`
	MessageID string `json:"messageId"`
}

// ErrorResponse is the body of every failed request. Details carries
// operator-facing context on server errors and is omitted on client errors.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// NewErrorResponse creates an error response
func NewErrorResponse(message string) ErrorResponse {
	return ErrorResponse{Error: message}
}

// NewErrorResponseWithDetails creates an error response with details
func NewErrorResponseWithDetails(message, details string) ErrorResponse {
	return ErrorResponse{Error: message, Details: details}
}

// HealthResponse is the body of the health probe
type HealthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
}
