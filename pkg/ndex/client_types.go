package ndex

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"

	"github.com/dd0wney/cluso-stringload/pkg/logging"
)

// Common sentinel errors
var (
	ErrRequestFailed   = errors.New("ndex request failed")
	ErrNetworkNotFound = errors.New("network not found")
)

// APIError carries the status of a failed NDEx call.
type APIError struct {
	Op         string
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %v: status %d: %s", e.Op, ErrRequestFailed, e.StatusCode, e.Body)
}

func (e *APIError) Unwrap() error {
	return ErrRequestFailed
}

// Credentials authenticates requests: basic auth via Username/Password, or an
// OAuth bearer token. Token wins when both are set.
type Credentials struct {
	Username string
	Password string
	Token    string
}

// NetworkSummary is the subset of NDEx network metadata the loader cares about.
type NetworkSummary struct {
	ExternalID uuid.UUID `json:"externalId"`
	Name       string    `json:"name"`
	NodeCount  int       `json:"nodeCount"`
	EdgeCount  int       `json:"edgeCount"`
	Visibility string    `json:"visibility"`
}

// Client talks to an NDEx server's REST API.
type Client struct {
	baseURL    string
	creds      Credentials
	httpClient *http.Client
	logger     logging.Logger
}
