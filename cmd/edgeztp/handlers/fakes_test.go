package handlers

import (
	"bytes"
	"context"
	"io"
	"path/filepath"
	"testing"
	"time"

	"github.com/imamik/edgeztp/internal/appliance"
	"github.com/imamik/edgeztp/internal/config"
	"github.com/imamik/edgeztp/internal/inventory"
	"github.com/imamik/edgeztp/internal/platform/s3"
	"github.com/imamik/edgeztp/internal/provisioning"
	"github.com/imamik/edgeztp/internal/roles"
)

type fakeInventory struct {
	instance *inventory.Instance
	err      error
}

func (f *fakeInventory) Instance(_ context.Context) (*inventory.Instance, error) {
	return f.instance, f.err
}

type fakeSession struct {
	log    io.Writer
	output string
	err    error
}

func (f *fakeSession) CreateAccount(_ context.Context, username, _ string) (string, error) {
	if f.log != nil {
		_, _ = io.WriteString(f.log, "username "+username+" password 0 ********\n")
	}
	return f.output, f.err
}

type fakeAppliance struct {
	interfaces  []appliance.Interface
	loginErr    error
	registerErr error
	modifyErr   error

	modified   []appliance.Interface
	registered *appliance.Registration
	saved      bool
	logouts    int
}

func (f *fakeAppliance) Login(_ context.Context, _, _ string) error { return f.loginErr }

func (f *fakeAppliance) Interfaces(_ context.Context) ([]appliance.Interface, error) {
	return f.interfaces, nil
}

func (f *fakeAppliance) ModifyInterfaces(_ context.Context, ifaces []appliance.Interface) error {
	if f.modifyErr != nil {
		return f.modifyErr
	}
	f.modified = ifaces
	return nil
}

func (f *fakeAppliance) Register(_ context.Context, reg appliance.Registration) error {
	if f.registerErr != nil {
		return f.registerErr
	}
	f.registered = &reg
	return nil
}

func (f *fakeAppliance) SaveChanges(_ context.Context) error {
	f.saved = true
	return nil
}

func (f *fakeAppliance) Logout(_ context.Context) error {
	f.logouts++
	return nil
}

type fakeController struct {
	cred appliance.RegistrationCredential
	err  error
}

func (f *fakeController) RegistrationConfig(_ context.Context) (appliance.RegistrationCredential, error) {
	return f.cred, f.err
}

type fakeUploader struct {
	bucket  string
	prefix  string
	runID   string
	objects []s3.Object
	err     error
}

func (f *fakeUploader) UploadRun(_ context.Context, bucket, prefix, runID string, objects ...s3.Object) ([]string, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.bucket, f.prefix, f.runID, f.objects = bucket, prefix, runID, objects
	keys := make([]string, 0, len(objects))
	for _, o := range objects {
		keys = append(keys, s3.ObjectKey(prefix, runID, o.Name))
	}
	return keys, nil
}

// fakes bundles the collaborators installed by installFakes.
type fakes struct {
	inventory  *fakeInventory
	session    *fakeSession
	appliance  *fakeAppliance
	controller *fakeController
	uploader   *fakeUploader
	slept      []time.Duration
	out        *bytes.Buffer
	logs       *bytes.Buffer
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	return &config.Config{
		Cloud: config.CloudConfig{Provider: config.ProviderAzure},
		Appliance: config.ApplianceConfig{
			Host:    "10.0.0.4",
			URL:     "https://10.0.0.4",
			Account: config.AccountConfig{Username: "ztp", Password: "pw"},
		},
		Controller: config.ControllerConfig{URL: "https://orch.example.com", Group: "hubs"},
		Roles: []roles.Rule{
			{Pattern: "ec-wan0", Role: roles.RoleWAN0},
			{Pattern: "ec-lan", Role: roles.RoleLAN0},
			{Pattern: "hub-mgmt", Role: roles.RoleMGMT0},
		},
		SettleDelay: 30 * time.Second,
		Report:      config.ReportConfig{Path: filepath.Join(dir, "report.yaml")},
		Metrics:     config.MetricsConfig{Textfile: filepath.Join(dir, "edgeztp.prom")},
	}
}

// installFakes replaces every factory with fakes serving cfg.
func installFakes(t *testing.T, cfg *config.Config) *fakes {
	t.Helper()
	saveAndRestoreFactories(t)

	f := &fakes{
		inventory: &fakeInventory{instance: &inventory.Instance{
			ID:       "/subscriptions/sub/resourceGroups/rg/providers/Microsoft.Compute/virtualMachines/ec-hub-1",
			Hostname: "ec-hub-1",
			Interfaces: []inventory.CloudInterface{
				{ID: "nic-mgmt", SubnetID: "/subnets/hub-mgmt", MACAddress: "00-0D-3A-00-00-01"},
				{ID: "nic-wan0", SubnetID: "/subnets/ec-wan0", MACAddress: "00-0D-3A-00-00-02"},
				{ID: "nic-lan", SubnetID: "/subnets/ec-lan", MACAddress: "00-0D-3A-00-00-03"},
			},
		}},
		session: &fakeSession{output: "ztp  admin\nadmin  admin\n"},
		appliance: &fakeAppliance{interfaces: []appliance.Interface{
			appliance.NewInterface("mgmt0", "00:00:00:00:00:00", nil),
			appliance.NewInterface("wan0", "00:00:00:00:00:00", nil),
			appliance.NewInterface("lan0", "00:00:00:00:00:00", nil),
		}},
		controller: &fakeController{cred: appliance.RegistrationCredential{Account: "acme", Key: "secret-key"}},
		uploader:   &fakeUploader{},
		out:        &bytes.Buffer{},
		logs:       &bytes.Buffer{},
	}

	findConfigFile = func() (string, error) { return "/work/edgeztp.yaml", nil }
	loadConfig = func(_ string) (*config.Config, error) { return cfg, nil }
	loadDiscoveryConfig = func(_ string) (*config.Config, error) { return cfg, nil }
	newInventory = func(_ *config.Config) (provisioning.CloudInventory, error) { return f.inventory, nil }
	newSession = func(_ *config.Config, log io.Writer) (provisioning.ApplianceSession, error) {
		f.session.log = log
		return f.session, nil
	}
	newApplianceClient = func(_ *config.Config) (ApplianceClient, error) { return f.appliance, nil }
	newControllerClient = func(_ *config.Config) provisioning.ControllerAPI { return f.controller }
	newUploader = func(_ context.Context, _ config.S3Config) (Uploader, error) { return f.uploader, nil }
	sleep = func(d time.Duration) { f.slept = append(f.slept, d) }
	stdout = f.out
	logOutput = f.logs
	isTerminal = func() bool { return false }

	return f
}

func saveAndRestoreFactories(t *testing.T) {
	t.Helper()
	origFindConfigFile := findConfigFile
	origLoadConfig := loadConfig
	origLoadDiscoveryConfig := loadDiscoveryConfig
	origNewInventory := newInventory
	origNewSession := newSession
	origNewApplianceClient := newApplianceClient
	origNewControllerClient := newControllerClient
	origNewUploader := newUploader
	origReadFile := readFile
	origWriteFile := writeFile
	origSleep := sleep
	origStdout := stdout
	origLogOutput := logOutput
	origIsTerminal := isTerminal

	t.Cleanup(func() {
		findConfigFile = origFindConfigFile
		loadConfig = origLoadConfig
		loadDiscoveryConfig = origLoadDiscoveryConfig
		newInventory = origNewInventory
		newSession = origNewSession
		newApplianceClient = origNewApplianceClient
		newControllerClient = origNewControllerClient
		newUploader = origNewUploader
		readFile = origReadFile
		writeFile = origWriteFile
		sleep = origSleep
		stdout = origStdout
		logOutput = origLogOutput
		isTerminal = origIsTerminal
	})
}
