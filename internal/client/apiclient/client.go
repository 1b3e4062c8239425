// Package apiclient is the device-side HTTP client for the auth API. The
// server base URL is configurable through the credential store so field
// devices can point at a local deployment.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/abejanet/abejanet/internal/client/credstore"
	"github.com/abejanet/abejanet/internal/core/domain"
)

// DefaultBaseURL is used when no API_BASE_URL has been stored.
const DefaultBaseURL = "http://localhost:3000"

const requestTimeout = 10 * time.Second

type Client struct {
	http  *http.Client
	store credstore.Store
	log   zerolog.Logger
}

func New(store credstore.Store, log zerolog.Logger) *Client {
	return &Client{
		http:  &http.Client{Timeout: requestTimeout},
		store: store,
		log:   log,
	}
}

// BaseURL resolves the configured API base URL, falling back to the
// default when none is stored or the store is unreadable.
func (c *Client) BaseURL(ctx context.Context) string {
	url, err := c.store.Get(ctx, credstore.KeyAPIBaseURL)
	if err != nil {
		if !errors.Is(err, credstore.ErrNotFound) {
			c.log.Warn().Err(err).Msg("apiclient: failed to read base URL, using default")
		}
		return DefaultBaseURL
	}
	return url
}

// SetBaseURL persists the API base URL.
func (c *Client) SetBaseURL(ctx context.Context, url string) error {
	return c.store.Set(ctx, credstore.KeyAPIBaseURL, url)
}

// User mirrors the user object inside a successful login response.
type User struct {
	ID    int64       `json:"id"`
	Email string      `json:"correo_electronico"`
	Role  domain.Role `json:"rol"`
}

// LoginResult is a successful login: the issued token plus the matched user.
type LoginResult struct {
	Token string
	User  User
}

type loginEnvelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Token   string `json:"token"`
	User    User   `json:"user"`
}

// Login posts credentials to /login. Server-side rejections come back as
// typed domain errors; transport problems are wrapped as network failures.
func (c *Client) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	body, err := json.Marshal(map[string]string{"email": email, "password": password})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL(ctx)+"/login", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("login request: %w", err)
	}
	defer resp.Body.Close()

	// Decide on the status code before touching the body: error responses
	// are not guaranteed to carry a JSON envelope.
	switch resp.StatusCode {
	case http.StatusOK:
		var envelope loginEnvelope
		if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
			return nil, fmt.Errorf("decode login response: %w", err)
		}
		return &LoginResult{Token: envelope.Token, User: envelope.User}, nil
	case http.StatusUnauthorized:
		return nil, domain.ErrInvalidCredentials
	case http.StatusForbidden:
		return nil, domain.ErrInactiveAccount
	case http.StatusTooManyRequests:
		return nil, domain.ErrTooManyAttempts
	default:
		var envelope loginEnvelope
		_ = json.NewDecoder(resp.Body).Decode(&envelope)
		if envelope.Message != "" {
			return nil, fmt.Errorf("login failed (%d): %s", resp.StatusCode, envelope.Message)
		}
		return nil, fmt.Errorf("login failed (%d)", resp.StatusCode)
	}
}

// Profile is the payload of the protected admin profile endpoint.
type Profile struct {
	ID   int64       `json:"id"`
	Role domain.Role `json:"rol"`
}

type profileEnvelope struct {
	Success bool    `json:"success"`
	Message string  `json:"message"`
	Profile Profile `json:"perfil"`
}

// AdminProfile fetches the administrator profile with a bearer token.
func (c *Client) AdminProfile(ctx context.Context, token string) (*Profile, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL(ctx)+"/api/admin/perfil", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("profile request: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		var envelope profileEnvelope
		if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
			return nil, fmt.Errorf("decode profile response: %w", err)
		}
		return &envelope.Profile, nil
	case http.StatusUnauthorized, http.StatusForbidden:
		return nil, domain.ErrForbidden
	default:
		return nil, fmt.Errorf("profile failed (%d)", resp.StatusCode)
	}
}
