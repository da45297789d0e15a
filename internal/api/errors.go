package api

import "fmt"

// RequestError is returned for any failed API call. The session treats all
// request failures identically; callers that care can inspect StatusCode.
type RequestError struct {
	StatusCode int
	Message    string
	RequestID  string
}

func (e *RequestError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("request failed with status %d", e.StatusCode)
}

// IsAuthError reports whether the failure indicates a missing or rejected
// credential, so callers can suggest logging in again.
func IsAuthError(err error) bool {
	re, ok := err.(*RequestError)
	return ok && (re.StatusCode == 401 || re.StatusCode == 403)
}
