package errors

// ErrorResponse is the envelope every failed request returns. RequestID
// echoes the correlation ID so support can match a customer report to the
// server logs.
type ErrorResponse struct {
	Success   bool        `json:"success"`
	Error     ErrorDetail `json:"error"`
	RequestID string      `json:"request_id,omitempty"`
}

// ErrorDetail carries the customer-facing message plus any safe details.
// InternalError is only populated outside production deployments.
type ErrorDetail struct {
	Display       string         `json:"message"`
	InternalError string         `json:"internal_error,omitempty"`
	Details       map[string]any `json:"details,omitempty"`
}
