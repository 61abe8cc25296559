package domain

import (
	"errors"
	"fmt"
)

// Kind classifies failures at the request boundary.
type Kind int

const (
	// KindInternal is an unexpected failure inside this service.
	KindInternal Kind = iota
	// KindUnauthorized means the caller did not present a usable bearer token.
	KindUnauthorized
	// KindInvalidState means the login state was missing, forged or expired.
	KindInvalidState
	// KindProviderRejected means the identity provider refused the code.
	KindProviderRejected
	// KindTokenExchange means the code exchange could not be completed.
	KindTokenExchange
	// KindUpstream means Microsoft Graph could not serve the request.
	KindUpstream
)

var kindNames = map[Kind]string{
	KindInternal:         "internal",
	KindUnauthorized:     "unauthorized",
	KindInvalidState:     "invalid_state",
	KindProviderRejected: "provider_rejected",
	KindTokenExchange:    "token_exchange",
	KindUpstream:         "upstream",
}

var publicMessages = map[Kind]string{
	KindInternal:         "Internal server error",
	KindUnauthorized:     "No valid authorization header",
	KindInvalidState:     "invalid_state",
	KindProviderRejected: "Failed to acquire token",
	KindTokenExchange:    "Failed to acquire token",
	KindUpstream:         "Failed to fetch tasks from Microsoft Graph",
}

// String returns the kind name.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// PublicMessage returns text that is safe to show to end users.
func (k Kind) PublicMessage() string {
	if msg, ok := publicMessages[k]; ok {
		return msg
	}
	return publicMessages[KindInternal]
}

// Error is a classified error with the operation that failed.
type Error struct {
	Kind Kind
	Op   string
	// Detail is user-facing text supplied by a provider, if any.
	Detail string
	Err    error
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := e.Op + ": " + e.Kind.String()
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// PublicMessage returns the provider detail when present, otherwise the
// safe message for the kind.
func (e *Error) PublicMessage() string {
	if e.Detail != "" {
		return e.Detail
	}
	return e.Kind.PublicMessage()
}

// NewError creates a classified error.
func NewError(kind Kind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

// KindOf returns the kind of the first *Error in err's chain,
// or KindInternal when there is none.
func KindOf(err error) Kind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindInternal
}

// PublicMessage returns the user-safe message for any error.
func PublicMessage(err error) string {
	var de *Error
	if errors.As(err, &de) {
		return de.PublicMessage()
	}
	return KindInternal.PublicMessage()
}
