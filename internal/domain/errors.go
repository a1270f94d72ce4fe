// internal/domain/errors.go
package domain

import (
	"errors"
	"fmt"
)

var (
	// General errors
	ErrNotFound       = errors.New("not found")
	ErrInvalidRequest = errors.New("invalid request")
	ErrInternal       = errors.New("internal error")

	// Caller-related errors
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrForbidden       = errors.New("not allowed for this org")

	// Identity-related errors
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailAlreadyExists = errors.New("email already registered")
	ErrIdentityRejected   = errors.New("identity provider rejected user")
	ErrInvalidToken       = errors.New("invalid token")

	// Organization-related errors
	ErrOrganizationNotFound      = errors.New("org not found")
	ErrMembershipNotFound        = errors.New("membership not found")
	ErrClinicOutsideOrganization = fmt.Errorf("%w: clinic does not belong to org", ErrForbidden)
	ErrRoleAboveCaller           = fmt.Errorf("%w: requested role exceeds caller's role", ErrForbidden)
)

// Kind is the coarse failure classification returned to callers.
type Kind string

const (
	KindNone            Kind = ""
	KindInvalidRequest  Kind = "invalid_request"
	KindUnauthenticated Kind = "unauthenticated"
	KindForbidden       Kind = "forbidden"
	KindNotFound        Kind = "not_found"
	KindConflict        Kind = "conflict"
	KindInternal        Kind = "internal"
)

// KindOf maps an error onto the failure taxonomy. Anything unrecognised is internal.
func KindOf(err error) Kind {
	switch {
	case err == nil:
		return KindNone
	case errors.Is(err, ErrInvalidRequest), errors.Is(err, ErrIdentityRejected):
		return KindInvalidRequest
	case errors.Is(err, ErrUnauthenticated), errors.Is(err, ErrInvalidToken):
		return KindUnauthenticated
	case errors.Is(err, ErrForbidden):
		return KindForbidden
	case errors.Is(err, ErrOrganizationNotFound):
		return KindNotFound
	case errors.Is(err, ErrEmailAlreadyExists):
		return KindConflict
	default:
		return KindInternal
	}
}

// StoreError carries the relational store's own description of a failed statement.
// Only 500 responses expose it, as the `details` object.
type StoreError struct {
	Op      string `json:"-"`
	Code    string `json:"code,omitempty"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
	Hint    string `json:"hint,omitempty"`
	Err     error  `json:"-"`
}

func (e *StoreError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Op, e.Message, e.Code)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Message)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}
