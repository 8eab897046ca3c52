// Package identity talks to the external identity provider's directory API.
// The provider owns authentication and organization membership; this client
// only fetches display data (org names, user profiles) when provisioning
// local tenant and user rows.
package identity

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/yourorg/hireloop/internal/reliability/circuitbreaker"
	"github.com/yourorg/hireloop/internal/reliability/retry"
)

// Organization is a provider organization record.
type Organization struct {
	ID   string
	Name string
}

// Profile is a provider user record.
type Profile struct {
	ID    string
	Email string
	Name  string
}

// Client is an HTTP client for the provider directory API. Calls go through
// a circuit breaker and retry with backoff; a provider outage must not take
// request handling down with it.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	breaker    *circuitbreaker.CircuitBreaker
	retryCfg   *retry.Config
	logger     *slog.Logger
}

// NewClient creates a directory client.
func NewClient(baseURL, apiKey string, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	cb := circuitbreaker.NewCircuitBreaker(5, 2, 30*time.Second)
	cb.SetStateChangeCallback(func(from, to circuitbreaker.State) {
		logger.Warn("identity provider circuit state changed",
			slog.Int("from", int(from)),
			slog.Int("to", int(to)),
		)
	})
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 5 * time.Second},
		breaker:    cb,
		retryCfg: &retry.Config{
			MaxAttempts:       3,
			InitialBackoff:    200 * time.Millisecond,
			MaxBackoff:        2 * time.Second,
			BackoffMultiplier: 2.0,
		},
		logger: logger,
	}
}

// Organization fetches an organization by provider org ID.
func (c *Client) Organization(ctx context.Context, orgID string) (*Organization, error) {
	var payload struct {
		Name string `json:"name"`
	}
	if err := c.get(ctx, "organization", "/v1/organizations/"+orgID, &payload); err != nil {
		return nil, err
	}
	return &Organization{ID: orgID, Name: payload.Name}, nil
}

// User fetches a user profile by provider user ID.
func (c *Client) User(ctx context.Context, userID string) (*Profile, error) {
	var payload struct {
		FirstName      string `json:"first_name"`
		LastName       string `json:"last_name"`
		EmailAddresses []struct {
			EmailAddress string `json:"email_address"`
		} `json:"email_addresses"`
	}
	if err := c.get(ctx, "user", "/v1/users/"+userID, &payload); err != nil {
		return nil, err
	}

	p := &Profile{ID: userID}
	if len(payload.EmailAddresses) > 0 {
		p.Email = payload.EmailAddresses[0].EmailAddress
	}
	p.Name = strings.TrimSpace(payload.FirstName + " " + payload.LastName)
	return p, nil
}

func (c *Client) get(ctx context.Context, op, path string, out any) error {
	if !c.breaker.AllowRequest() {
		return fmt.Errorf("identity provider circuit open, refusing %s lookup", op)
	}

	_, err := retry.Do(ctx, c.retryCfg, c.logger, "identity_"+op, func(ctx context.Context) (struct{}, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
		if err != nil {
			return struct{}{}, err
		}
		req.Header.Set("Authorization", "Bearer "+c.apiKey)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return struct{}{}, err
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return struct{}{}, fmt.Errorf("identity provider returned status %d", resp.StatusCode)
		}
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return struct{}{}, fmt.Errorf("failed to decode provider response: %w", err)
		}
		return struct{}{}, nil
	})
	if err != nil {
		c.breaker.RecordFailure()
		return err
	}
	c.breaker.RecordSuccess()
	return nil
}
