// Package provisioning runs the zero-touch provisioning sequence for one edge
// appliance.
//
// # Core Types
//
// Context carries configuration, state, collaborators and the observer.
// Phase defines one step with Name() and Provision() methods; a Pipeline runs
// phases in a strict order and stops at the first failure. State accumulates
// what each phase produced (instance, address table, appliance interfaces,
// registration, update set).
//
// # Collaborators
//
// CloudInventory, ApplianceSession, ApplianceAPI and ControllerAPI are narrow
// interfaces over the cloud provider, the appliance SSH console, the
// appliance REST API and the fleet controller. Implementations live under
// internal/platform.
package provisioning
