package library

import "errors"

// The only failures ever surfaced to the operator. Every other failure
// (list fetches, mutations) is logged and swallowed so navigation is never
// interrupted; the views simply keep showing the last data that arrived.
var (
	// ErrFieldsRequired blocks an action before any request is sent.
	ErrFieldsRequired = errors.New("fields required")

	// ErrBadCredentials is the server explicitly rejecting a login, or
	// answering without a usable success indicator.
	ErrBadCredentials = errors.New("user or password incorrect")

	// ErrServerUnavailable is a transport-level failure. Kept distinct from
	// ErrBadCredentials so the operator can tell the two apart.
	ErrServerUnavailable = errors.New("server unavailable")
)
