// Package identity resolves the active authenticated shopper against the
// hosted auth provider. The provider is the sole credential authority; this
// service never stores or checks passwords itself.
package identity

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/sony/gobreaker/v2"
)

var (
	ErrUnauthenticated = errors.New("no authenticated identity")
	ErrProviderDown    = errors.New("auth provider unavailable")
)

// Identity is the resolved shopper: the provider's user ID plus the claims
// this service cares about.
type Identity struct {
	ID    uuid.UUID `json:"id"`
	Email string    `json:"email"`
	Role  string    `json:"role"`
}

func (i *Identity) IsAdmin() bool {
	return i != nil && i.Role == "admin"
}

// Client calls the auth provider's user endpoint to turn a bearer token into
// an Identity. Calls run behind a circuit breaker so a dead provider fails
// fast instead of stacking up timeouts.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
	breaker *gobreaker.CircuitBreaker[*Identity]
}

func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	settings := gobreaker.Settings{
		Name:    "auth-provider",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		// A rejected token is a healthy provider answering; only
		// infrastructure failures should open the breaker.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, ErrUnauthenticated)
		},
	}

	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		http:    &http.Client{Timeout: timeout},
		breaker: gobreaker.NewCircuitBreaker[*Identity](settings),
	}
}

// CurrentIdentity resolves the shopper behind the token, or
// ErrUnauthenticated if the provider rejects it.
func (c *Client) CurrentIdentity(ctx context.Context, token string) (*Identity, error) {
	if token == "" {
		return nil, ErrUnauthenticated
	}

	ident, err := c.breaker.Execute(func() (*Identity, error) {
		return c.fetchUser(ctx, token)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return nil, ErrProviderDown
	}
	return ident, err
}

func (c *Client) fetchUser(ctx context.Context, token string) (*Identity, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/auth/v1/user", nil)
	if err != nil {
		return nil, fmt.Errorf("build auth request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("apikey", c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("auth provider request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return nil, ErrUnauthenticated
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("auth provider returned status %d", resp.StatusCode)
	}

	var body struct {
		ID    string `json:"id"`
		Email string `json:"email"`
		Role  string `json:"role"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode auth response: %w", err)
	}

	userID, err := uuid.Parse(body.ID)
	if err != nil {
		return nil, fmt.Errorf("auth provider returned bad user id %q: %w", body.ID, err)
	}

	return &Identity{ID: userID, Email: body.Email, Role: body.Role}, nil
}
