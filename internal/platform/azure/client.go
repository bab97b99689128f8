// Package azure discovers the network interfaces of an Azure virtual machine
// through the Azure Resource Manager REST API.
package azure

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/imamik/edgeztp/internal/inventory"
)

const (
	vmAPIVersion  = "2022-08-01"
	nicAPIVersion = "2022-05-01"
)

// Client is a minimal ARM client for virtual machine and NIC lookups.
type Client struct {
	endpoint   string
	token      string
	httpClient *http.Client

	subscriptionID string
	resourceGroup  string
	vmName         string
}

// Config identifies the virtual machine to inspect.
type Config struct {
	// Endpoint is the ARM base URL, e.g. https://management.azure.com.
	Endpoint       string
	Token          string
	SubscriptionID string
	ResourceGroup  string
	VMName         string
}

type virtualMachine struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Properties struct {
		NetworkProfile struct {
			NetworkInterfaces []struct {
				ID string `json:"id"`
			} `json:"networkInterfaces"`
		} `json:"networkProfile"`
	} `json:"properties"`
}

type networkInterface struct {
	ID         string `json:"id"`
	Properties struct {
		MACAddress       string `json:"macAddress"`
		IPConfigurations []struct {
			Properties struct {
				Subnet struct {
					ID string `json:"id"`
				} `json:"subnet"`
			} `json:"properties"`
		} `json:"ipConfigurations"`
	} `json:"properties"`
}

type errorResponse struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// NewClient creates a new ARM client.
func NewClient(cfg Config) *Client {
	return &Client{
		endpoint:       strings.TrimSuffix(cfg.Endpoint, "/"),
		token:          cfg.Token,
		httpClient:     &http.Client{},
		subscriptionID: cfg.SubscriptionID,
		resourceGroup:  cfg.ResourceGroup,
		vmName:         cfg.VMName,
	}
}

// Instance returns the virtual machine and every attached network interface.
// The hostname is the VM resource name.
func (c *Client) Instance(ctx context.Context) (*inventory.Instance, error) {
	vmPath := fmt.Sprintf("/subscriptions/%s/resourceGroups/%s/providers/Microsoft.Compute/virtualMachines/%s",
		url.PathEscape(c.subscriptionID), url.PathEscape(c.resourceGroup), url.PathEscape(c.vmName))

	var vm virtualMachine
	if err := c.get(ctx, vmPath, vmAPIVersion, &vm); err != nil {
		return nil, fmt.Errorf("get virtual machine %s: %w", c.vmName, err)
	}

	inst := &inventory.Instance{ID: vm.ID, Hostname: vm.Name}
	for _, ref := range vm.Properties.NetworkProfile.NetworkInterfaces {
		iface, err := c.networkInterface(ctx, ref.ID)
		if err != nil {
			return nil, err
		}
		inst.Interfaces = append(inst.Interfaces, iface)
	}
	return inst, nil
}

func (c *Client) networkInterface(ctx context.Context, id string) (inventory.CloudInterface, error) {
	var nic networkInterface
	if err := c.get(ctx, id, nicAPIVersion, &nic); err != nil {
		return inventory.CloudInterface{}, fmt.Errorf("get network interface %s: %w", id, err)
	}

	iface := inventory.CloudInterface{
		ID:         nic.ID,
		MACAddress: nic.Properties.MACAddress,
	}
	if iface.ID == "" {
		iface.ID = id
	}
	// NICs without an IP configuration keep an empty subnet and classify as unknown.
	if len(nic.Properties.IPConfigurations) > 0 {
		iface.SubnetID = nic.Properties.IPConfigurations[0].Properties.Subnet.ID
	}
	return iface, nil
}

func (c *Client) get(ctx context.Context, path, apiVersion string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.endpoint+path+"?api-version="+apiVersion, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
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
		var apiErr errorResponse
		if json.Unmarshal(body, &apiErr) == nil && apiErr.Error.Code != "" {
			return fmt.Errorf("API error (status %d): %s: %s", resp.StatusCode, apiErr.Error.Code, apiErr.Error.Message)
		}
		return fmt.Errorf("API error (status %d): %s", resp.StatusCode, string(body))
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("parse response: %w", err)
	}
	return nil
}
