package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"peram-marketplace-service/internal/config"
	"peram-marketplace-service/internal/domain/shared"
	"peram-marketplace-service/internal/ports/outbound"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/sony/gobreaker/v2"
)

// apiError is a non-2xx answer from the auth API
type apiError struct {
	Status  int
	Message string
}

func (e *apiError) Error() string {
	return fmt.Sprintf("auth api returned %d: %s", e.Status, e.Message)
}

type userPayload struct {
	ID           string         `json:"id"`
	Email        string         `json:"email"`
	UserMetadata map[string]any `json:"user_metadata"`
}

func (u userPayload) toIdentity() (*outbound.Identity, error) {
	id, err := uuid.Parse(u.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: malformed user id %q", shared.ErrIdentityProviderError, u.ID)
	}
	name, _ := u.UserMetadata["name"].(string)
	return &outbound.Identity{ID: id, Email: u.Email, Name: name}, nil
}

type sessionPayload struct {
	AccessToken string       `json:"access_token"`
	ExpiresIn   int64        `json:"expires_in"`
	ExpiresAt   int64        `json:"expires_at"`
	User        *userPayload `json:"user"`
}

type errorPayload struct {
	Msg              string `json:"msg"`
	Message          string `json:"message"`
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
}

func (p errorPayload) text() string {
	for _, s := range []string{p.Msg, p.Message, p.ErrorDescription, p.Error} {
		if s != "" {
			return s
		}
	}
	return ""
}

// SupabaseClient talks to a Supabase (GoTrue) compatible auth API
type SupabaseClient struct {
	baseURL string
	apiKey  string
	http    *http.Client
	breaker *gobreaker.CircuitBreaker[[]byte]
	logger  zerolog.Logger
}

type SupabaseClientParams struct {
	Config     *config.Config
	HTTPClient *http.Client
	Logger     zerolog.Logger
}

func NewSupabaseClient(params SupabaseClientParams) *SupabaseClient {
	httpClient := params.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}

	return &SupabaseClient{
		baseURL: strings.TrimRight(params.Config.Auth.SupabaseURL, "/"),
		apiKey:  params.Config.Auth.SupabaseKey,
		http:    httpClient,
		breaker: newCircuitBreaker("supabase-auth"),
		logger:  params.Logger.With().Str("component", "supabase_identity").Logger(),
	}
}

// SignUp registers an account with the provider
func (c *SupabaseClient) SignUp(ctx context.Context, email, password, name string) (*outbound.Identity, error) {
	body := map[string]any{
		"email":    email,
		"password": password,
		"data":     map[string]string{"name": name},
	}

	raw, err := c.call(ctx, http.MethodPost, "/auth/v1/signup", "", body)
	if err != nil {
		var apiErr *apiError
		if errors.As(err, &apiErr) && strings.Contains(strings.ToLower(apiErr.Message), "already registered") {
			return nil, shared.ErrUserAlreadyExists
		}
		return nil, c.translate(err)
	}

	// autoconfirm projects answer with a session, the others with the bare user
	var session sessionPayload
	if err := json.Unmarshal(raw, &session); err == nil && session.User != nil {
		return session.User.toIdentity()
	}

	var user userPayload
	if err := json.Unmarshal(raw, &user); err != nil {
		return nil, fmt.Errorf("failed to decode signup response: %w", err)
	}
	return user.toIdentity()
}

// SignIn exchanges credentials for an access token
func (c *SupabaseClient) SignIn(ctx context.Context, email, password string) (*outbound.IdentitySession, error) {
	body := map[string]string{"email": email, "password": password}

	raw, err := c.call(ctx, http.MethodPost, "/auth/v1/token?grant_type=password", "", body)
	if err != nil {
		var apiErr *apiError
		if errors.As(err, &apiErr) && (apiErr.Status == http.StatusBadRequest || apiErr.Status == http.StatusUnauthorized) {
			return nil, shared.ErrInvalidCredentials
		}
		return nil, c.translate(err)
	}

	var session sessionPayload
	if err := json.Unmarshal(raw, &session); err != nil {
		return nil, fmt.Errorf("failed to decode token response: %w", err)
	}
	if session.User == nil || session.AccessToken == "" {
		return nil, fmt.Errorf("%w: token response without session", shared.ErrIdentityProviderError)
	}

	identity, err := session.User.toIdentity()
	if err != nil {
		return nil, err
	}

	expiresAt := time.Unix(session.ExpiresAt, 0).UTC()
	if session.ExpiresAt == 0 {
		expiresAt = time.Now().UTC().Add(time.Duration(session.ExpiresIn) * time.Second)
	}

	return &outbound.IdentitySession{
		AccessToken: session.AccessToken,
		ExpiresAt:   expiresAt,
		Identity:    *identity,
	}, nil
}

// GetUser resolves the identity behind an access token
func (c *SupabaseClient) GetUser(ctx context.Context, accessToken string) (*outbound.Identity, error) {
	raw, err := c.call(ctx, http.MethodGet, "/auth/v1/user", accessToken, nil)
	if err != nil {
		return nil, c.translateToken(err)
	}

	var user userPayload
	if err := json.Unmarshal(raw, &user); err != nil {
		return nil, fmt.Errorf("failed to decode user response: %w", err)
	}
	return user.toIdentity()
}

// SignOut revokes the session behind an access token
func (c *SupabaseClient) SignOut(ctx context.Context, accessToken string) error {
	if _, err := c.call(ctx, http.MethodPost, "/auth/v1/logout", accessToken, nil); err != nil {
		return c.translateToken(err)
	}
	return nil
}

func (c *SupabaseClient) call(ctx context.Context, method, path, accessToken string, body any) ([]byte, error) {
	return c.breaker.Execute(func() ([]byte, error) {
		var reader io.Reader
		if body != nil {
			payload, err := json.Marshal(body)
			if err != nil {
				return nil, fmt.Errorf("failed to marshal request: %w", err)
			}
			reader = bytes.NewReader(payload)
		}

		req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
		if err != nil {
			return nil, fmt.Errorf("failed to build request: %w", err)
		}
		req.Header.Set("apikey", c.apiKey)
		req.Header.Set("Content-Type", "application/json")
		if accessToken != "" {
			req.Header.Set("Authorization", "Bearer "+accessToken)
		} else {
			req.Header.Set("Authorization", "Bearer "+c.apiKey)
		}

		resp, err := c.http.Do(req)
		if err != nil {
			return nil, fmt.Errorf("auth api request failed: %w", err)
		}
		defer resp.Body.Close()

		raw, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to read auth api response: %w", err)
		}

		if resp.StatusCode >= 500 {
			return nil, fmt.Errorf("auth api returned %d", resp.StatusCode)
		}
		if resp.StatusCode >= 400 {
			var payload errorPayload
			_ = json.Unmarshal(raw, &payload)
			return nil, &apiError{Status: resp.StatusCode, Message: payload.text()}
		}

		return raw, nil
	})
}

func (c *SupabaseClient) translate(err error) error {
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		c.logger.Warn().Err(err).Msg("Auth API circuit open")
		return shared.ErrIdentityUnavailable
	}

	var apiErr *apiError
	if errors.As(err, &apiErr) {
		return fmt.Errorf("%w: %s", shared.ErrIdentityProviderError, apiErr.Message)
	}

	c.logger.Error().Err(err).Msg("Auth API call failed")
	return fmt.Errorf("%w: %v", shared.ErrIdentityUnavailable, err)
}

func (c *SupabaseClient) translateToken(err error) error {
	var apiErr *apiError
	if errors.As(err, &apiErr) && (apiErr.Status == http.StatusUnauthorized || apiErr.Status == http.StatusForbidden) {
		return shared.ErrInvalidToken
	}
	return c.translate(err)
}
