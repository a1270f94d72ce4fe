// internal/identity/provider.go
package identity

//go:generate mockgen -source=./provider.go -destination=../mocks/mock_identity_provider.go -package=mocks Provider

import (
	"context"
	"regexp"

	"github.com/dangerclosesec/clinicore/internal/domain"
	"github.com/google/uuid"
)

// CreatedByStaffProvisioning is stored in the user metadata of every
// identity created through staff provisioning.
const CreatedByStaffProvisioning = "create-staff"

// Caller is the authenticated actor resolved from a bearer token.
type Caller struct {
	ID    uuid.UUID
	Email string
}

// User is an identity held by the provider.
type User struct {
	ID             uuid.UUID
	Email          string
	EmailConfirmed bool
}

type CreateUserParams struct {
	Email        string
	Password     string
	EmailConfirm bool
	UserMetadata map[string]interface{}
}

// Provider verifies caller tokens and manages user identities.
type Provider interface {
	// VerifyToken fails with domain.ErrInvalidToken when the token does not
	// resolve to a user.
	VerifyToken(ctx context.Context, token string) (*Caller, error)
	// CreateUser is not idempotent and must not be retried. Failures reported
	// by the provider are *Error values.
	CreateUser(ctx context.Context, params CreateUserParams) (*User, error)
	DeleteUser(ctx context.Context, id uuid.UUID) error
}

// Error is a rejection reported by the identity provider. Message is the
// provider's own text and is safe to show to the caller.
type Error struct {
	Status  int
	Code    string
	Message string
	Kind    error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Kind
}

var duplicateCodes = map[string]bool{
	"email_exists":        true,
	"user_already_exists": true,
}

// alreadyPattern is the message fallback for providers that send no error code.
// It is fragile: any rejection mentioning "already" is treated as a duplicate.
var alreadyPattern = regexp.MustCompile(`(?i)already`)

// ClassifyCreateError decides whether a create-user rejection means the email
// is taken. A structured code wins; the message is only consulted without one.
func ClassifyCreateError(status int, code, message string) *Error {
	kind := domain.ErrIdentityRejected
	switch {
	case duplicateCodes[code]:
		kind = domain.ErrEmailAlreadyExists
	case code == "" && alreadyPattern.MatchString(message):
		kind = domain.ErrEmailAlreadyExists
	}

	if message == "" {
		message = "createUser failed"
	}

	return &Error{Status: status, Code: code, Message: message, Kind: kind}
}
