// Package hcloud provides a wrapper around the Hetzner Cloud API.
package hcloud

import (
	"context"
	"fmt"
	"strconv"

	"github.com/hetznercloud/hcloud-go/v2/hcloud"

	"github.com/imamik/edgeztp/internal/inventory"
)

// Client looks up one server and its network attachments.
type Client struct {
	client *hcloud.Client
	server string
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHCloudClient sets a custom hcloud client (useful for testing).
func WithHCloudClient(hc *hcloud.Client) ClientOption {
	return func(c *Client) {
		c.client = hc
	}
}

// NewClient creates a client for the server with the given name or ID.
// An empty endpoint uses the public API.
func NewClient(token, endpoint, server string, opts ...ClientOption) *Client {
	hopts := []hcloud.ClientOption{
		hcloud.WithToken(token),
		hcloud.WithApplication("edgeztp", ""),
	}
	if endpoint != "" {
		hopts = append(hopts, hcloud.WithEndpoint(endpoint))
	}

	c := &Client{
		client: hcloud.NewClient(hopts...),
		server: server,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Instance returns the server with one interface per private network.
func (c *Client) Instance(ctx context.Context) (*inventory.Instance, error) {
	server, _, err := c.client.Server.Get(ctx, c.server)
	if err != nil {
		if IsUnauthorized(err) {
			return nil, fmt.Errorf("hcloud token rejected: %w", err)
		}
		return nil, fmt.Errorf("failed to get server %s: %w", c.server, err)
	}
	if server == nil {
		return nil, fmt.Errorf("server not found: %s", c.server)
	}

	inst := &inventory.Instance{
		ID:       strconv.FormatInt(server.ID, 10),
		Hostname: server.Name,
	}

	names := make(map[int64]string)
	for _, pn := range server.PrivateNet {
		if pn.Network == nil {
			continue
		}
		name, err := c.networkName(ctx, pn.Network, names)
		if err != nil {
			return nil, err
		}
		inst.Interfaces = append(inst.Interfaces, inventory.CloudInterface{
			ID:         fmt.Sprintf("%d/%d", server.ID, pn.Network.ID),
			SubnetID:   name,
			MACAddress: pn.MACAddress,
		})
	}
	return inst, nil
}

// networkName resolves the name of a network. Server responses only carry
// the network ID.
func (c *Client) networkName(ctx context.Context, network *hcloud.Network, cache map[int64]string) (string, error) {
	if network.Name != "" {
		return network.Name, nil
	}
	if name, ok := cache[network.ID]; ok {
		return name, nil
	}

	full, _, err := c.client.Network.GetByID(ctx, network.ID)
	if err != nil {
		if IsRateLimited(err) {
			return "", fmt.Errorf("rate limited while resolving network %d: %w", network.ID, err)
		}
		return "", fmt.Errorf("failed to get network %d: %w", network.ID, err)
	}
	if full == nil {
		return "", fmt.Errorf("network not found: %d", network.ID)
	}
	cache[network.ID] = full.Name
	return full.Name, nil
}
