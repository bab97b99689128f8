// Package edgeconnect is a client for the appliance REST API.
//
// The API lives under /rest/json. A login creates a session cookie and a CSRF
// cookie whose value must be echoed in the X-XSRF-TOKEN header of every
// later request.
package edgeconnect

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"

	"github.com/imamik/edgeztp/internal/appliance"
)

const (
	apiPrefix      = "/rest/json"
	csrfCookieName = "edgeosCsrfToken"
	csrfHeaderName = "X-XSRF-TOKEN"
)

// ErrUnauthorized is returned when the appliance rejects the session.
var ErrUnauthorized = errors.New("appliance rejected credentials")

// APIError is a non-2xx response from the appliance.
type APIError struct {
	Method     string
	Path       string
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s %s: status %d: %s", e.Method, e.Path, e.StatusCode, strings.TrimSpace(e.Body))
}

// Client talks to one appliance. It is not safe for concurrent use.
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
	csrfToken  string
}

type loginRequest struct {
	User     string `json:"user"`
	Password string `json:"password"`
}

type interfacesDocument struct {
	IfInfo []appliance.Interface `json:"ifInfo"`
}

// NewClient creates a client for the appliance at baseURL. Certificate
// verification is skipped unless verifyTLS is set.
func NewClient(baseURL string, verifyTLS bool) (*Client, error) {
	u, err := url.Parse(strings.TrimSuffix(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid appliance URL %q: %w", baseURL, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid appliance URL %q: scheme and host required", baseURL)
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	if !verifyTLS {
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true} //nolint:gosec // Appliances ship self-signed certificates
	}

	return &Client{
		baseURL:    u,
		httpClient: &http.Client{Transport: transport, Jar: jar},
	}, nil
}

// Login opens an API session.
func (c *Client) Login(ctx context.Context, username, password string) error {
	if err := c.do(ctx, http.MethodPost, "/login", loginRequest{User: username, Password: password}, nil); err != nil {
		return fmt.Errorf("login as %s: %w", username, err)
	}

	for _, cookie := range c.httpClient.Jar.Cookies(c.baseURL) {
		if cookie.Name == csrfCookieName {
			c.csrfToken = cookie.Value
		}
	}
	return nil
}

// Logout closes the API session.
func (c *Client) Logout(ctx context.Context) error {
	if err := c.do(ctx, http.MethodGet, "/logout", nil, nil); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	c.csrfToken = ""
	return nil
}

// Interfaces returns the appliance's network interfaces in the order the
// appliance lists them.
func (c *Client) Interfaces(ctx context.Context) ([]appliance.Interface, error) {
	var doc interfacesDocument
	if err := c.do(ctx, http.MethodGet, "/networkInterfaces?cached=true", nil, &doc); err != nil {
		return nil, fmt.Errorf("get network interfaces: %w", err)
	}
	return doc.IfInfo, nil
}

// ModifyInterfaces submits interface records. Fields not known to this
// client are sent back unchanged.
func (c *Client) ModifyInterfaces(ctx context.Context, ifaces []appliance.Interface) error {
	if err := c.do(ctx, http.MethodPost, "/networkInterfaces", interfacesDocument{IfInfo: ifaces}, nil); err != nil {
		return fmt.Errorf("modify network interfaces: %w", err)
	}
	return nil
}

// Register stores the portal registration the appliance uses to reach the
// controller.
func (c *Client) Register(ctx context.Context, reg appliance.Registration) error {
	if err := c.do(ctx, http.MethodPost, "/spPortal/registration", reg, nil); err != nil {
		return fmt.Errorf("register appliance: %w", err)
	}
	return nil
}

// SaveChanges persists the running configuration.
func (c *Client) SaveChanges(ctx context.Context) error {
	if err := c.do(ctx, http.MethodPost, "/saveChanges", struct{}{}, nil); err != nil {
		return fmt.Errorf("save changes: %w", err)
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL.String()+apiPrefix+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.csrfToken != "" {
		req.Header.Set(csrfHeaderName, c.csrfToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{Method: method, Path: path, StatusCode: resp.StatusCode, Body: string(data)}
		if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
			return fmt.Errorf("%w: %w", ErrUnauthorized, apiErr)
		}
		return apiErr
	}

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("parse response: %w (status %d)", err, resp.StatusCode)
	}
	return nil
}
