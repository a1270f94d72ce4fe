// Package local is a self-hosted identity provider backed by the users table.
package local

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/dangerclosesec/clinicore/internal/auth"
	"github.com/dangerclosesec/clinicore/internal/domain"
	"github.com/dangerclosesec/clinicore/internal/identity"
	"github.com/dangerclosesec/clinicore/internal/model"
	"github.com/dangerclosesec/clinicore/internal/repository"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

var _ identity.Provider = (*Provider)(nil)

type Provider struct {
	users    repository.UserRepositoryIface
	hasher   *auth.PasswordHasher
	tokens   *auth.TokenManager
	validate *validator.Validate
}

func NewProvider(users repository.UserRepositoryIface, hasher *auth.PasswordHasher, tokens *auth.TokenManager) *Provider {
	return &Provider{
		users:    users,
		hasher:   hasher,
		tokens:   tokens,
		validate: validator.New(),
	}
}

func (p *Provider) VerifyToken(ctx context.Context, token string) (*identity.Caller, error) {
	claims, err := p.tokens.Validate(token)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidToken, err)
	}

	userID, err := claims.UserID()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidToken, err)
	}

	user, err := p.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, fmt.Errorf("%w: user no longer exists", domain.ErrInvalidToken)
		}
		return nil, fmt.Errorf("resolving token user: %w", err)
	}

	return &identity.Caller{ID: user.ID, Email: user.Email}, nil
}

// CreateUser mirrors the hosted provider's admin API: the same rejection
// codes and messages come back for duplicate emails and weak passwords.
func (p *Provider) CreateUser(ctx context.Context, params identity.CreateUserParams) (*identity.User, error) {
	email := strings.TrimSpace(params.Email)
	if err := p.validate.Var(email, "required,email"); err != nil {
		return nil, reject("validation_failed", "Unable to validate email address: invalid format")
	}
	if len(params.Password) < auth.MinPasswordLength {
		return nil, reject("weak_password", fmt.Sprintf("Password should be at least %d characters.", auth.MinPasswordLength))
	}

	if _, err := p.users.FindByEmail(ctx, email); err == nil {
		return nil, reject("email_exists", "A user with this email address has already been registered")
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, fmt.Errorf("checking existing user: %w", err)
	}

	hash, err := p.hasher.Hash(params.Password)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	user := &model.User{
		Email:        email,
		PasswordHash: hash,
		UserMetadata: model.JSONMap(params.UserMetadata),
	}
	if params.EmailConfirm {
		now := time.Now().UTC()
		user.EmailConfirmedAt = &now
	}

	if err := p.users.Create(ctx, user); err != nil {
		// Lost a race with a concurrent create for the same address.
		if errors.Is(err, domain.ErrEmailAlreadyExists) {
			return nil, reject("email_exists", "A user with this email address has already been registered")
		}
		return nil, fmt.Errorf("creating user: %w", err)
	}

	return &identity.User{
		ID:             user.ID,
		Email:          user.Email,
		EmailConfirmed: user.EmailConfirmedAt != nil,
	}, nil
}

func (p *Provider) DeleteUser(ctx context.Context, id uuid.UUID) error {
	return p.users.Delete(ctx, id)
}

func reject(code, message string) *identity.Error {
	return identity.ClassifyCreateError(http.StatusUnprocessableEntity, code, message)
}
