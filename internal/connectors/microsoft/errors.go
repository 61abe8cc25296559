package microsoft

import (
	"errors"
	"net/http"
)

// Error types for Microsoft Graph API responses.
var (
	// ErrUnauthorised indicates the access token is invalid or expired.
	ErrUnauthorised = errors.New("microsoft: unauthorised")

	// ErrForbidden indicates the user lacks permission for the requested resource.
	ErrForbidden = errors.New("microsoft: forbidden")

	// ErrNotFound indicates the requested resource does not exist.
	ErrNotFound = errors.New("microsoft: not found")

	// ErrRateLimited indicates the request was throttled by Microsoft Graph.
	ErrRateLimited = errors.New("microsoft: rate limited")

	// ErrBadRequest indicates the request was malformed.
	ErrBadRequest = errors.New("microsoft: bad request")

	// ErrServerError indicates a server-side error from Microsoft Graph.
	ErrServerError = errors.New("microsoft: server error")

	// ErrUnexpectedStatus indicates a non-success status with no specific mapping.
	ErrUnexpectedStatus = errors.New("microsoft: unexpected status")

	// ErrMalformedResponse indicates the response body could not be read as JSON.
	ErrMalformedResponse = errors.New("microsoft: malformed response")

	// ErrUntrustedLink indicates a pagination link pointing away from the Graph host.
	ErrUntrustedLink = errors.New("microsoft: untrusted pagination link")
)

// WrapError converts an HTTP status code to an appropriate error.
// Returns nil for 2xx statuses.
func WrapError(statusCode int) error {
	switch statusCode {
	case http.StatusUnauthorized:
		return ErrUnauthorised
	case http.StatusForbidden:
		return ErrForbidden
	case http.StatusNotFound:
		return ErrNotFound
	case http.StatusTooManyRequests:
		return ErrRateLimited
	case http.StatusBadRequest:
		return ErrBadRequest
	default:
		if statusCode >= 500 {
			return ErrServerError
		}
		if statusCode >= 200 && statusCode < 300 {
			return nil
		}
		return ErrUnexpectedStatus
	}
}

// IsRateLimited checks if the status code indicates rate limiting.
func IsRateLimited(statusCode int) bool {
	return statusCode == http.StatusTooManyRequests
}
