package printer

import "fmt"

// AuthenticationError indicates the printer service rejected the request
// with HTTP 401 or 403. The brother_ql_web service itself has no
// authentication, so in practice this signals a misconfigured host that
// happens to answer with an auth challenge (a reverse proxy, usually).
type AuthenticationError struct {
	// StatusCode is the HTTP status that triggered the error (401 or 403).
	StatusCode int
}

func (e *AuthenticationError) Error() string {
	return fmt.Sprintf("printer service rejected credentials (status %d)", e.StatusCode)
}

// CommunicationError indicates a transport-level failure (timeout, DNS
// resolution, connection refused) or a non-2xx HTTP response other than
// 401/403.
//
// StatusCode carries the HTTP status when a response was received, and is
// zero when the failure happened before any response arrived. Callers that
// need status-specific policy (e.g. treating 400 as success) should read
// this field rather than parsing the message.
type CommunicationError struct {
	// StatusCode is the HTTP status of the failed response, or zero for
	// transport failures.
	StatusCode int

	msg string
	err error
}

func (e *CommunicationError) Error() string {
	if e.err != nil {
		return fmt.Sprintf("%s: %v", e.msg, e.err)
	}
	return e.msg
}

func (e *CommunicationError) Unwrap() error {
	return e.err
}

// Error is the catch-all for unexpected failures during request execution,
// such as malformed response bodies. Authentication and communication
// errors are never wrapped in it.
type Error struct {
	msg string
	err error
}

func (e *Error) Error() string {
	if e.err != nil {
		return fmt.Sprintf("%s: %v", e.msg, e.err)
	}
	return e.msg
}

func (e *Error) Unwrap() error {
	return e.err
}
