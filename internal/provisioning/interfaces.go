package provisioning

import (
	"context"

	"github.com/imamik/edgeztp/internal/appliance"
	"github.com/imamik/edgeztp/internal/inventory"
)

// Phase defines the interface for a provisioning phase.
type Phase interface {
	// Name returns the human-readable name of this phase.
	Name() string

	// Provision executes the provisioning logic for this phase.
	Provision(ctx *Context) error
}

// CloudInventory discovers the instance hosting the appliance.
// Implemented by internal/platform/azure.Client and internal/platform/hcloud.Client.
type CloudInventory interface {
	// Instance returns the instance with its hostname and attached interfaces.
	Instance(ctx context.Context) (*inventory.Instance, error)
}

// ApplianceSession is the privileged management console of the appliance.
// Implemented by internal/platform/ssh.Client.
type ApplianceSession interface {
	// CreateAccount creates a local login and returns the console output,
	// which lists the configured users.
	CreateAccount(ctx context.Context, username, password string) (string, error)
}

// ApplianceAPI is the appliance's REST management API.
// Implemented by internal/platform/edgeconnect.Client.
type ApplianceAPI interface {
	Login(ctx context.Context, username, password string) error
	Interfaces(ctx context.Context) ([]appliance.Interface, error)
	ModifyInterfaces(ctx context.Context, ifaces []appliance.Interface) error
	Register(ctx context.Context, reg appliance.Registration) error
	SaveChanges(ctx context.Context) error
}

// ControllerAPI is the fleet controller's REST API.
// Implemented by internal/platform/orchestrator.Client.
type ControllerAPI interface {
	// RegistrationConfig returns the account and key appliances register with.
	RegistrationConfig(ctx context.Context) (appliance.RegistrationCredential, error)
}

// Dependencies bundles the external collaborators of a run.
type Dependencies struct {
	Inventory  CloudInventory
	Session    ApplianceSession
	Appliance  ApplianceAPI
	Controller ControllerAPI
}
