package providers

import (
	"errors"
	"fmt"
)

// maxBodyExcerpt bounds how much of an error response body is kept.
const maxBodyExcerpt = 512

// Error is a classified provider failure.
type Error struct {
	Kind    ErrorKind
	Status  int
	Message string
}

func (e *Error) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s (status %d): %s", e.Kind, e.Status, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// KindOf returns the ErrorKind carried by err. Unclassified errors are
// treated as transport failures.
func KindOf(err error) ErrorKind {
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Kind
	}
	return KindProviderUnavailable
}

// IsAuthError reports whether err came from a 401 or 403 response.
func IsAuthError(err error) bool {
	var pe *Error
	return errors.As(err, &pe) && (pe.Status == 401 || pe.Status == 403)
}

func missingCredential(envVar string) error {
	return &Error{Kind: KindMissingCredential, Message: envVar + " is not set"}
}

func unavailable(format string, args ...any) error {
	return &Error{Kind: KindProviderUnavailable, Message: fmt.Sprintf(format, args...)}
}

func invalidResponse(format string, args ...any) error {
	return &Error{Kind: KindInvalidResponse, Message: fmt.Sprintf(format, args...)}
}

func statusError(status int, body []byte) error {
	msg := string(body)
	if len(msg) > maxBodyExcerpt {
		msg = msg[:maxBodyExcerpt] + "..."
	}
	if status == 401 || status == 403 {
		msg = "authentication failed: " + msg
	}
	return &Error{Kind: KindProviderUnavailable, Status: status, Message: msg}
}
