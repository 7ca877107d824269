package errors

import (
	stderr "errors"
	"fmt"

	"github.com/gofrs/uuid"
)

// UUIDNotFoundError is a service domain error for not found.
type UUIDNotFoundError struct {
	UUID uuid.UUID
}

// Error is an implementation of the error interface.
func (n *UUIDNotFoundError) Error() string {
	return fmt.Sprintf("UUID %q not found", n.UUID)
}

// NotFoundUUID returns an UUID and true if UUIDNotFoundError is part of the
// error chain.
func NotFoundUUID(e error) (_ uuid.UUID, ok bool) {
	var nf *UUIDNotFoundError
	if !stderr.As(e, &nf) {
		return uuid.Nil, false
	}
	return nf.UUID, true
}

// NoClientFoundError indicates that a UI client UUID cannot be found within the context.
type NoClientFoundError struct{}

// Error is an implementation of the error interface.
func (n *NoClientFoundError) Error() string {
	return "no client found in context"
}

// SessionNotConnectedError is returned by language features while the session is not live.
type SessionNotConnectedError struct {
	Status string
}

// Error is an implementation of the error interface.
func (n *SessionNotConnectedError) Error() string {
	return fmt.Sprintf("language session is not connected (status %q)", n.Status)
}

// IsSessionNotConnected reports whether a SessionNotConnectedError is part of the error chain.
func IsSessionNotConnected(e error) bool {
	var nc *SessionNotConnectedError
	return stderr.As(e, &nc)
}
