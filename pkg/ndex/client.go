// Package ndex is a thin client for the NDEx network store: create, update,
// list and delete CX networks under one user account.
package ndex

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/dd0wney/cluso-stringload/pkg/logging"
)

// DefaultTimeout bounds a single API call, including CX body streaming.
const DefaultTimeout = 10 * time.Minute

// NewClient creates a client for the given server. The scheme may be omitted
// ("public.ndexbio.org"), in which case https is assumed.
func NewClient(server string, creds Credentials, logger logging.Logger) *Client {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	c := &Client{
		baseURL:    normalizeServer(server),
		creds:      creds,
		httpClient: &http.Client{Timeout: DefaultTimeout},
		logger:     logger,
	}
	if creds.Token != "" {
		c.warnIfTokenExpired(creds.Token)
	}
	return c
}

// SetHTTPClient overrides the HTTP client (used by tests).
func (c *Client) SetHTTPClient(hc *http.Client) {
	c.httpClient = hc
}

func normalizeServer(server string) string {
	if !strings.Contains(server, "://") {
		server = "https://" + server
	}
	return strings.TrimRight(server, "/")
}

// warnIfTokenExpired decodes the bearer token without verifying its signature,
// purely to flag a token that will be rejected server-side anyway.
func (c *Client) warnIfTokenExpired(token string) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		c.logger.Warn("bearer token is not a parseable JWT", logging.Error(err))
		return
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return
	}
	if exp.Before(time.Now()) {
		c.logger.Warn("bearer token is expired", logging.String("expired_at", exp.Format(time.RFC3339)))
	}
}

// CreateNetwork uploads a new CX network and returns its server-assigned UUID,
// taken from the Location header of the 201 response.
func (c *Client) CreateNetwork(ctx context.Context, cx io.Reader) (uuid.UUID, error) {
	resp, err := c.do(ctx, http.MethodPost, "/v2/network", cx)
	if err != nil {
		return uuid.Nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		return uuid.Nil, c.apiError("create network", resp)
	}

	location := resp.Header.Get("Location")
	parts := strings.Split(strings.TrimRight(location, "/"), "/")
	id, err := uuid.Parse(parts[len(parts)-1])
	if err != nil {
		return uuid.Nil, fmt.Errorf("create network: parse Location %q: %w", location, err)
	}

	c.logger.Info("network created", logging.String("network_id", id.String()))
	return id, nil
}

// UpdateNetwork replaces the CX content of an existing network.
func (c *Client) UpdateNetwork(ctx context.Context, id uuid.UUID, cx io.Reader) error {
	resp, err := c.do(ctx, http.MethodPut, "/v2/network/"+id.String(), cx)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNoContent && resp.StatusCode != http.StatusOK {
		return c.apiError("update network "+id.String(), resp)
	}

	c.logger.Info("network updated", logging.String("network_id", id.String()))
	return nil
}

// NetworkSummaries lists the networks owned by the authenticated user.
func (c *Client) NetworkSummaries(ctx context.Context) ([]NetworkSummary, error) {
	resp, err := c.do(ctx, http.MethodGet, "/v2/user/networks", nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, c.apiError("list networks", resp)
	}

	var summaries []NetworkSummary
	if err := json.NewDecoder(resp.Body).Decode(&summaries); err != nil {
		return nil, fmt.Errorf("list networks: decode response: %w", err)
	}
	return summaries, nil
}

// DeleteNetwork removes one network by UUID.
func (c *Client) DeleteNetwork(ctx context.Context, id uuid.UUID) error {
	resp, err := c.do(ctx, http.MethodDelete, "/v2/network/"+id.String(), nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusNoContent, http.StatusOK:
		return nil
	case http.StatusNotFound:
		return fmt.Errorf("delete network %s: %w", id, ErrNetworkNotFound)
	default:
		return c.apiError("delete network "+id.String(), resp)
	}
}

// DeleteNetworksByName deletes every owned network whose name matches exactly.
// Returns the number of networks deleted.
func (c *Client) DeleteNetworksByName(ctx context.Context, name string) (int, error) {
	summaries, err := c.NetworkSummaries(ctx)
	if err != nil {
		return 0, err
	}

	deleted := 0
	for _, s := range summaries {
		if s.Name != name {
			continue
		}
		if err := c.DeleteNetwork(ctx, s.ExternalID); err != nil {
			return deleted, err
		}
		deleted++
	}
	return deleted, nil
}

func (c *Client) do(ctx context.Context, method, path string, body io.Reader) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	if c.creds.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.creds.Token)
	} else if c.creds.Username != "" {
		req.SetBasicAuth(c.creds.Username, c.creds.Password)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	return resp, nil
}

func (c *Client) apiError(op string, resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	return &APIError{Op: op, StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
}
