// Package extauth verifies bearer tokens against an external managed-auth
// provider. The provider is a preferred, optional trust source: any failure
// here makes the caller fall back to locally issued tokens.
package extauth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"finance-tracker/pkg/utils"

	"go.uber.org/zap"
)

var ErrInvalidIdentity = errors.New("external provider rejected token")

// Identity is the provider's view of the authenticated account.
type Identity struct {
	ID    string
	Email string
	Name  string
}

type Client struct {
	url        string
	httpClient *http.Client
	log        *zap.Logger
}

// NewClient returns nil when no provider URL is configured; callers treat a
// nil client as "external path disabled".
func NewClient(config utils.ExternalAuthConfig, log *zap.Logger) *Client {
	if config.URL == "" {
		return nil
	}

	timeout := time.Duration(config.TimeoutMS) * time.Millisecond
	if timeout <= 0 {
		timeout = 3 * time.Second
	}

	return &Client{
		url:        config.URL,
		httpClient: &http.Client{Timeout: timeout},
		log:        log.With(zap.String("component", "extauth")),
	}
}

// accountPayload tolerates the two id field names providers use.
type accountPayload struct {
	ID    string `json:"id"`
	DocID string `json:"$id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// VerifyToken submits the bearer token to the provider's account endpoint.
// The call is bounded by the client timeout on top of ctx.
func (c *Client) VerifyToken(ctx context.Context, bearerToken string) (*Identity, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("build provider request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+bearerToken)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call external provider: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", ErrInvalidIdentity, resp.StatusCode)
	}

	var payload accountPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode provider response: %w", err)
	}

	id := payload.ID
	if id == "" {
		id = payload.DocID
	}
	if id == "" || payload.Email == "" {
		return nil, ErrInvalidIdentity
	}

	return &Identity{
		ID:    id,
		Email: payload.Email,
		Name:  payload.Name,
	}, nil
}
