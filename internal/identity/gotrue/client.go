// Package gotrue talks to a hosted GoTrue compatible auth API with the
// project's service role key.
package gotrue

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/dangerclosesec/clinicore/internal/domain"
	"github.com/dangerclosesec/clinicore/internal/identity"
	"github.com/google/uuid"
)

var _ identity.Provider = (*Client)(nil)

var ErrMissingServiceKey = errors.New("gotrue: service role key is not configured")

var errDecodeResponse = errors.New("failed to decode response")

type Config struct {
	// BaseURL is the auth API root, e.g. https://<project>.supabase.co/auth/v1
	BaseURL        string
	ServiceRoleKey string
	HTTPClient     *http.Client
	Timeout        time.Duration
}

type Client struct {
	config Config
	client *http.Client
}

func NewClient(config Config) (*Client, error) {
	if config.ServiceRoleKey == "" {
		return nil, ErrMissingServiceKey
	}
	config.BaseURL = strings.TrimRight(config.BaseURL, "/")

	client := config.HTTPClient
	if client == nil {
		client = &http.Client{}
	}

	return &Client{config: config, client: client}, nil
}

// APIError is the error body returned by the auth API. Older releases send
// msg or error_description, newer ones add error_code.
type APIError struct {
	StatusCode       int    `json:"-"`
	Code             string `json:"error_code,omitempty"`
	Msg              string `json:"msg,omitempty"`
	Message          string `json:"message,omitempty"`
	ErrorName        string `json:"error,omitempty"`
	ErrorDescription string `json:"error_description,omitempty"`
}

func (e *APIError) Text() string {
	for _, s := range []string{e.Msg, e.Message, e.ErrorDescription, e.ErrorName} {
		if s != "" {
			return s
		}
	}
	return fmt.Sprintf("request failed with status code %d", e.StatusCode)
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("[%s] %s (Status: %d)", e.Code, e.Text(), e.StatusCode)
	}
	return fmt.Sprintf("%s (Status: %d)", e.Text(), e.StatusCode)
}

type userResponse struct {
	ID               uuid.UUID              `json:"id"`
	Email            string                 `json:"email"`
	EmailConfirmedAt *time.Time             `json:"email_confirmed_at,omitempty"`
	UserMetadata     map[string]interface{} `json:"user_metadata,omitempty"`
}

type createUserRequest struct {
	Email        string                 `json:"email"`
	Password     string                 `json:"password,omitempty"`
	EmailConfirm bool                   `json:"email_confirm"`
	UserMetadata map[string]interface{} `json:"user_metadata,omitempty"`
}

// VerifyToken resolves a user access token with GET /user.
func (c *Client) VerifyToken(ctx context.Context, token string) (*identity.Caller, error) {
	if token == "" {
		return nil, domain.ErrInvalidToken
	}

	var user userResponse
	if err := c.do(ctx, http.MethodGet, "/user", token, nil, &user); err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode < http.StatusInternalServerError {
			return nil, fmt.Errorf("%w: %s", domain.ErrInvalidToken, apiErr.Text())
		}
		return nil, fmt.Errorf("verifying token: %w", err)
	}

	if user.ID == uuid.Nil {
		return nil, fmt.Errorf("%w: no user for token", domain.ErrInvalidToken)
	}

	return &identity.Caller{ID: user.ID, Email: user.Email}, nil
}

// CreateUser calls POST /admin/users.
func (c *Client) CreateUser(ctx context.Context, params identity.CreateUserParams) (*identity.User, error) {
	req := createUserRequest{
		Email:        params.Email,
		Password:     params.Password,
		EmailConfirm: params.EmailConfirm,
		UserMetadata: params.UserMetadata,
	}

	var user userResponse
	if err := c.do(ctx, http.MethodPost, "/admin/users", c.config.ServiceRoleKey, req, &user); err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) {
			return nil, identity.ClassifyCreateError(apiErr.StatusCode, apiErr.Code, apiErr.Text())
		}
		if errors.Is(err, errDecodeResponse) {
			return nil, possibleOrphan(ctx, params.Email, err.Error())
		}
		// Transport failures never carry the provider's duplicate wording.
		return nil, &identity.Error{Message: err.Error(), Kind: domain.ErrIdentityRejected}
	}

	if user.ID == uuid.Nil {
		return nil, possibleOrphan(ctx, params.Email, "createUser returned no user")
	}

	return &identity.User{
		ID:             user.ID,
		Email:          user.Email,
		EmailConfirmed: user.EmailConfirmedAt != nil,
	}, nil
}

// possibleOrphan reports a 2xx create whose user id could not be read. The
// identity may exist without a membership and cannot be compensated here.
func possibleOrphan(ctx context.Context, email, message string) *identity.Error {
	slog.ErrorContext(ctx, "Identity may have been created without a readable id", "email", email, "error", message)
	return &identity.Error{Status: http.StatusOK, Message: message, Kind: domain.ErrIdentityRejected}
}

// DeleteUser calls DELETE /admin/users/{id}.
func (c *Client) DeleteUser(ctx context.Context, id uuid.UUID) error {
	if err := c.do(ctx, http.MethodDelete, "/admin/users/"+id.String(), c.config.ServiceRoleKey, nil, nil); err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound {
			return domain.ErrUserNotFound
		}
		return fmt.Errorf("deleting user %s: %w", id, err)
	}
	return nil
}

// do sends one JSON request. Non-2xx responses come back as *APIError.
func (c *Client) do(ctx context.Context, method, path, bearer string, body, out interface{}) error {
	if c.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.config.Timeout)
		defer cancel()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, c.config.BaseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+bearer)
	httpReq.Header.Set("apikey", c.config.ServiceRoleKey)
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}

	httpResp, err := c.client.Do(httpReq)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode < 200 || httpResp.StatusCode >= 300 {
		apiErr := &APIError{}
		raw, _ := io.ReadAll(io.LimitReader(httpResp.Body, 1<<16))
		if len(raw) > 0 {
			_ = json.Unmarshal(raw, apiErr)
		}
		apiErr.StatusCode = httpResp.StatusCode
		return apiErr
	}

	if out == nil {
		return nil
	}

	if err := json.NewDecoder(httpResp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: %w", errDecodeResponse, err)
	}

	return nil
}
