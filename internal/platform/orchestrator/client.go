// Package orchestrator is a client for the fleet controller REST API.
package orchestrator

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/imamik/edgeztp/internal/appliance"
)

const (
	apiPrefix  = "/gms/rest"
	authHeader = "X-Auth-Token"
)

// ErrIncompleteRegistration is returned when the controller has no portal
// account or key configured.
var ErrIncompleteRegistration = errors.New("controller registration config incomplete")

// Client is a minimal controller API client authenticated by API key.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

type portalConfig struct {
	Registration appliance.RegistrationCredential `json:"registration"`
}

// NewClient creates a new controller client. Certificate verification is
// skipped unless verifyTLS is set.
func NewClient(baseURL, apiKey string, verifyTLS bool) *Client {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	if !verifyTLS {
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true} //nolint:gosec // Controllers commonly run with self-signed certificates
	}
	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Transport: transport},
	}
}

// RegistrationConfig returns the portal account name and key appliances
// register with.
func (c *Client) RegistrationConfig(ctx context.Context) (appliance.RegistrationCredential, error) {
	var cfg portalConfig
	if err := c.get(ctx, "/spPortal/config", &cfg); err != nil {
		return appliance.RegistrationCredential{}, fmt.Errorf("get portal registration config: %w", err)
	}

	cred := cfg.Registration
	if cred.Account == "" || cred.Key == "" {
		return appliance.RegistrationCredential{}, ErrIncompleteRegistration
	}
	return cred, nil
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+apiPrefix+path, nil)
	if err != nil {
		return err
	}
	req.Header.Set(authHeader, c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("API error (status %d): %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("parse response: %w (status %d)", err, resp.StatusCode)
	}
	return nil
}
