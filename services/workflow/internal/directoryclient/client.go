package directoryclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/Ramjayanth123/contracts-4-sub001/pkg/domain"
)

// Client talks to the role directory service.
type Client struct {
	BaseURL string
	HTTP    *http.Client
}

func New(baseURL string) *Client {
	return &Client{BaseURL: baseURL, HTTP: &http.Client{Timeout: 10 * time.Second}}
}

// ResolveRole resolves an identity to its directory role. Identities the
// directory does not know resolve to domain.ErrUnknownIdentity.
func (c *Client) ResolveRole(ctx context.Context, identityID string) (domain.Role, error) {
	u := fmt.Sprintf("%s/actors/%s/role", c.BaseURL, url.PathEscape(identityID))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return "", err
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusNotFound {
		return "", domain.ErrUnknownIdentity
	}
	if resp.StatusCode >= 300 {
		return "", fmt.Errorf("directory returned %d", resp.StatusCode)
	}
	var out struct {
		Role string `json:"role"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", err
	}
	return domain.Role(out.Role), nil
}
