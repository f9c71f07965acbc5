package weathersdk

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// The SDK normalizes every failure into one of five error types so callers
// can branch with errors.As instead of string matching.

// NetworkError reports that the host could not be reached at all (DNS or
// connection failure). No HTTP response was received.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("host unreachable: %v", e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// HTTPError reports a non-2xx response from the server. Detail carries the
// server-provided message when the body had one.
type HTTPError struct {
	Status int
	Detail string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("request failed with status %d: %s", e.Status, e.Detail)
}

// RequestSetupError reports that an outgoing request could not even be
// constructed. Distinguished from NetworkError because no bytes were sent.
type RequestSetupError struct {
	Err error
}

func (e *RequestSetupError) Error() string {
	return fmt.Sprintf("request setup failed: %v", e.Err)
}

func (e *RequestSetupError) Unwrap() error { return e.Err }

// ValidationError reports a business-rule rejection, either caught
// client-side before any network I/O or returned by the server (e.g. a
// duplicate username on signup).
type ValidationError struct {
	Detail string

	// Fields holds per-field messages when the rejection was field-specific.
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + e.Detail
}

// AuthExpiredError reports that the refresh credential itself was rejected
// or unusable. The session has been cleared; the caller must re-login.
type AuthExpiredError struct {
	Err error
}

func (e *AuthExpiredError) Error() string {
	return fmt.Sprintf("session expired: %v", e.Err)
}

func (e *AuthExpiredError) Unwrap() error { return e.Err }

var (
	// ErrNoRefreshCredential means a refresh was needed but no refresh
	// credential exists.
	ErrNoRefreshCredential = errors.New("no refresh credential available")

	// ErrIncompletePair means the server returned a credential pair with a
	// half missing; such a pair is never stored.
	ErrIncompletePair = errors.New("server returned an incomplete credential pair")
)

// parseErrorBody turns a non-2xx response body into an HTTPError. The server
// reports errors in a "detail" field; anything else falls back to a generic
// message built from the status code.
func parseErrorBody(status int, body []byte) *HTTPError {
	detail := fmt.Sprintf("HTTP %d: %s", status, http.StatusText(status))

	var errResp struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(body, &errResp); err == nil && len(errResp.Detail) > 0 {
		var s string
		if err := json.Unmarshal(errResp.Detail, &s); err == nil && s != "" {
			detail = s
		} else {
			// Field-level validation failures arrive as a JSON array;
			// keep the raw payload so nothing is lost.
			detail = string(errResp.Detail)
		}
	}

	return &HTTPError{Status: status, Detail: detail}
}

// isUnauthorized reports whether err is an HTTPError with status 401.
func isUnauthorized(err error) bool {
	var he *HTTPError
	return errors.As(err, &he) && he.Status == http.StatusUnauthorized
}
