package services

import "errors"

// Kind classifies a service failure so the HTTP layer can pick a status code
// without parsing message strings.
type Kind int

const (
	KindInternal Kind = iota // unexpected collaborator failure
	KindInvalid              // missing or malformed input, rejected state change
	KindUnauthorized         // bad credentials or unverified login
	KindForbidden            // authenticated but not allowed
	KindNotFound             // unknown user
)

// Error is the tagged failure returned by every service operation. Message is
// safe to show to clients; Err holds the underlying cause, if any.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func errInvalid(msg string) *Error      { return &Error{Kind: KindInvalid, Message: msg} }
func errUnauthorized(msg string) *Error { return &Error{Kind: KindUnauthorized, Message: msg} }
func errForbidden(msg string) *Error    { return &Error{Kind: KindForbidden, Message: msg} }
func errNotFound(msg string) *Error     { return &Error{Kind: KindNotFound, Message: msg} }

func errInternal(msg string, err error) *Error {
	return &Error{Kind: KindInternal, Message: msg, Err: err}
}

// KindOf extracts the Kind from an error chain. Untagged errors count as
// internal failures.
func KindOf(err error) Kind {
	var se *Error
	if errors.As(err, &se) {
		return se.Kind
	}
	return KindInternal
}

// MessageOf returns the client-safe message from a tagged error, or the empty
// string for untagged errors.
func MessageOf(err error) string {
	var se *Error
	if errors.As(err, &se) {
		return se.Message
	}
	return ""
}
