package openrouter

import (
	"errors"
	"fmt"
)

// ErrorCode classifies a client failure in a machine-readable way.
// Codes are stable strings: they end up in generation_error_logs rows
// and must not change meaning between releases.
type ErrorCode string

// Error classification codes.
const (
	// ErrCodeMissingAPIKey means the client was constructed without a credential.
	ErrCodeMissingAPIKey ErrorCode = "MISSING_API_KEY"

	// ErrCodeMissingUserMessage means Send was called without a user message.
	ErrCodeMissingUserMessage ErrorCode = "MISSING_USER_MESSAGE"

	// ErrCodeHTTP covers non-2xx responses that have no more specific class.
	// Retryable for 5xx, final for 4xx.
	ErrCodeHTTP ErrorCode = "HTTP_ERROR"

	// ErrCodeAuthentication covers 401 and 403 responses. Never retried.
	ErrCodeAuthentication ErrorCode = "AUTHENTICATION_ERROR"

	// ErrCodeRateLimit covers 429 responses. Retryable.
	ErrCodeRateLimit ErrorCode = "RATE_LIMIT_ERROR"

	// ErrCodeTimeout means the per-attempt deadline fired. Retryable.
	ErrCodeTimeout ErrorCode = "TIMEOUT_ERROR"

	// ErrCodeNetwork covers transport-level failures (DNS, connection refused).
	// Retryable.
	ErrCodeNetwork ErrorCode = "NETWORK_ERROR"

	// ErrCodeRequestFailed is the generic terminal failure when no more
	// specific classification applies.
	ErrCodeRequestFailed ErrorCode = "REQUEST_FAILED"

	// ErrCodeInvalidResponse means the response body had no usable choice.
	ErrCodeInvalidResponse ErrorCode = "INVALID_RESPONSE"

	// ErrCodeEmptyResponse means the first choice carried no message content.
	ErrCodeEmptyResponse ErrorCode = "EMPTY_RESPONSE"

	// ErrCodeJSONParse means structured-JSON mode was active and the model's
	// content did not decode as JSON.
	ErrCodeJSONParse ErrorCode = "JSON_PARSE_ERROR"

	// ErrCodeUnknown is the fallback classification.
	ErrCodeUnknown ErrorCode = "UNKNOWN_ERROR"
)

// Error is the typed failure returned by the client. It carries the
// machine-readable classification, the HTTP status when one applies,
// the original lower-level error, and whether the client considers the
// failure retryable.
type Error struct {
	Code       ErrorCode
	StatusCode int // zero when no HTTP response was received
	Message    string
	Err        error
	Retryable  bool
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("openrouter: %s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("openrouter: %s: %s", e.Code, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *Error) Unwrap() error {
	return e.Err
}

// newError creates a client Error with the given classification.
func newError(code ErrorCode, statusCode int, message string, err error, retryable bool) *Error {
	return &Error{
		Code:       code,
		StatusCode: statusCode,
		Message:    message,
		Err:        err,
		Retryable:  retryable,
	}
}

// CodeOf extracts the classification code from an error chain.
// Returns ErrCodeUnknown for errors that did not originate in this package.
func CodeOf(err error) ErrorCode {
	var clientErr *Error
	if errors.As(err, &clientErr) {
		return clientErr.Code
	}
	return ErrCodeUnknown
}

// IsRetryable reports whether the error chain contains a retryable
// client failure.
func IsRetryable(err error) bool {
	var clientErr *Error
	if errors.As(err, &clientErr) {
		return clientErr.Retryable
	}
	return false
}

// classifyStatus maps a non-2xx HTTP status to its error classification.
func classifyStatus(status int) *Error {
	switch {
	case status == 401 || status == 403:
		return newError(ErrCodeAuthentication, status,
			fmt.Sprintf("authentication rejected by provider (HTTP %d)", status), nil, false)
	case status == 429:
		return newError(ErrCodeRateLimit, status,
			"rate limit exceeded (HTTP 429)", nil, true)
	case status >= 500:
		return newError(ErrCodeHTTP, status,
			fmt.Sprintf("provider returned server error (HTTP %d)", status), nil, true)
	default:
		return newError(ErrCodeHTTP, status,
			fmt.Sprintf("provider rejected request (HTTP %d)", status), nil, false)
	}
}
