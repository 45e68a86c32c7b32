package errors

import "fmt"

// ErrorType represents different types of errors that can occur
type ErrorType string

const (
	ErrorTypeNetwork     ErrorType = "network"
	ErrorTypeRateLimit   ErrorType = "rate_limit"
	ErrorTypeAuth        ErrorType = "auth"
	ErrorTypeParsing     ErrorType = "parsing"
	ErrorTypeNotFound    ErrorType = "not_found"
	ErrorTypeServerError ErrorType = "server_error"
	ErrorTypeResolution  ErrorType = "resolution"
	ErrorTypeNoData      ErrorType = "no_data"
	ErrorTypeStorage     ErrorType = "storage"
	ErrorTypeUnknown     ErrorType = "unknown"
)

// Error represents a pipeline error with type information
type Error struct {
	Type    ErrorType
	Message string
	Code    int
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s error (code %d): %s", e.Type, e.Code, e.Message)
}

// NewResolutionError reports an account reference that matched no known pattern
func NewResolutionError(ref string) *Error {
	return &Error{
		Type:    ErrorTypeResolution,
		Message: fmt.Sprintf("could not resolve account reference: %s", ref),
	}
}

// NewNoDataError reports a fetch that succeeded but returned an empty record set.
// Kept distinct from network errors so callers can suggest "check the handle"
// instead of "try again".
func NewNoDataError(handle string) *Error {
	return &Error{
		Type:    ErrorTypeNoData,
		Message: fmt.Sprintf("No data found for this account: %s", handle),
	}
}

// IsResolution reports whether err is a resolution failure
func IsResolution(err error) bool {
	apiErr, ok := err.(*Error)
	return ok && apiErr.Type == ErrorTypeResolution
}

// IsNoData reports whether err is an empty-record-set failure
func IsNoData(err error) bool {
	apiErr, ok := err.(*Error)
	return ok && apiErr.Type == ErrorTypeNoData
}

// IsRetryable checks if an error type should be retried
func IsRetryable(errorType ErrorType) bool {
	switch errorType {
	case ErrorTypeNetwork, ErrorTypeRateLimit, ErrorTypeServerError:
		return true
	case ErrorTypeAuth, ErrorTypeNotFound, ErrorTypeParsing, ErrorTypeResolution, ErrorTypeNoData:
		return false
	default:
		return false
	}
}

// IsRetryableStatusCode checks if an HTTP status code indicates a retryable error
func IsRetryableStatusCode(statusCode int) bool {
	switch statusCode {
	case 0: // Network error
		return true
	case 429: // Too Many Requests
		return true
	case 500, 502, 503, 504: // Server errors
		return true
	case 401, 403, 404: // Client errors that won't change
		return false
	default:
		return statusCode >= 500 // Retry all 5xx errors
	}
}
