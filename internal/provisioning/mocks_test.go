package provisioning

import (
	"context"
	"errors"
	"time"

	"github.com/imamik/edgeztp/internal/appliance"
	"github.com/imamik/edgeztp/internal/config"
	"github.com/imamik/edgeztp/internal/inventory"
	"github.com/imamik/edgeztp/internal/roles"
)

var errFake = errors.New("fake failure")

// recorder is shared between a MockObserver and everything derived from it
// with WithFields, so events from every phase land in one list.
type recorder struct {
	events []Event
}

// MockObserver is a test implementation of Observer that records events.
type MockObserver struct {
	rec    *recorder
	fields map[string]string
}

func NewMockObserver() *MockObserver {
	return &MockObserver{
		rec:    &recorder{},
		fields: make(map[string]string),
	}
}

func (m *MockObserver) Event(event Event) {
	if len(m.fields) > 0 {
		merged := make(map[string]string, len(m.fields)+len(event.Fields))
		for k, v := range m.fields {
			merged[k] = v
		}
		for k, v := range event.Fields {
			merged[k] = v
		}
		event.Fields = merged
	}
	m.rec.events = append(m.rec.events, event)
}

func (m *MockObserver) WithFields(fields map[string]string) Observer {
	newObserver := &MockObserver{rec: m.rec, fields: make(map[string]string)}
	for k, v := range m.fields {
		newObserver.fields[k] = v
	}
	for k, v := range fields {
		newObserver.fields[k] = v
	}
	return newObserver
}

func (m *MockObserver) Events() []Event {
	return m.rec.events
}

func (m *MockObserver) EventsOfType(t EventType) []Event {
	var out []Event
	for _, e := range m.rec.events {
		if e.Type == t {
			out = append(out, e)
		}
	}
	return out
}

// callLog records the order collaborators were called in.
type callLog struct {
	calls []string
}

func (c *callLog) add(name string) {
	c.calls = append(c.calls, name)
}

type mockInventory struct {
	log      *callLog
	instance *inventory.Instance
	err      error
}

func (m *mockInventory) Instance(_ context.Context) (*inventory.Instance, error) {
	m.log.add("inventory.Instance")
	if m.err != nil {
		return nil, m.err
	}
	return m.instance, nil
}

type mockSession struct {
	log      *callLog
	output   string
	err      error
	username string
	password string
}

func (m *mockSession) CreateAccount(_ context.Context, username, password string) (string, error) {
	m.log.add("session.CreateAccount")
	m.username = username
	m.password = password
	if m.err != nil {
		return "", m.err
	}
	return m.output, nil
}

type mockAppliance struct {
	log *callLog

	loginErr      error
	interfaces    []appliance.Interface
	interfacesErr error
	registerErr   error
	modifyErr     error
	saveErr       error

	registration appliance.Registration
	modified     []appliance.Interface
}

func (m *mockAppliance) Login(_ context.Context, _, _ string) error {
	m.log.add("appliance.Login")
	return m.loginErr
}

func (m *mockAppliance) Interfaces(_ context.Context) ([]appliance.Interface, error) {
	m.log.add("appliance.Interfaces")
	if m.interfacesErr != nil {
		return nil, m.interfacesErr
	}
	return m.interfaces, nil
}

func (m *mockAppliance) ModifyInterfaces(_ context.Context, ifaces []appliance.Interface) error {
	m.log.add("appliance.ModifyInterfaces")
	m.modified = ifaces
	return m.modifyErr
}

func (m *mockAppliance) Register(_ context.Context, reg appliance.Registration) error {
	m.log.add("appliance.Register")
	m.registration = reg
	return m.registerErr
}

func (m *mockAppliance) SaveChanges(_ context.Context) error {
	m.log.add("appliance.SaveChanges")
	return m.saveErr
}

type mockController struct {
	log  *callLog
	cred appliance.RegistrationCredential
	err  error
}

func (m *mockController) RegistrationConfig(_ context.Context) (appliance.RegistrationCredential, error) {
	m.log.add("controller.RegistrationConfig")
	return m.cred, m.err
}

// fixture wires mocks that describe a healthy appliance on an Azure hub VM.
type fixture struct {
	log        *callLog
	inventory  *mockInventory
	session    *mockSession
	appliance  *mockAppliance
	controller *mockController
	slept      []time.Duration
}

func newFixture() *fixture {
	log := &callLog{}
	return &fixture{
		log: log,
		inventory: &mockInventory{
			log: log,
			instance: &inventory.Instance{
				ID:       "/subscriptions/sub/resourceGroups/rg/providers/Microsoft.Compute/virtualMachines/ec-hub-1",
				Hostname: "ec-hub-1",
				Interfaces: []inventory.CloudInterface{
					{ID: "nic-mgmt", SubnetID: "/subnets/hub-mgmt", MACAddress: "00-0D-3A-00-00-01"},
					{ID: "nic-wan0", SubnetID: "/subnets/ec-wan0", MACAddress: "00-0D-3A-00-00-02"},
					{ID: "nic-lan", SubnetID: "/subnets/ec-lan", MACAddress: "00-0D-3A-00-00-03"},
					{ID: "nic-other", SubnetID: "/subnets/bastion", MACAddress: "00-0D-3A-00-00-09"},
				},
			},
		},
		session: &mockSession{
			log:    log,
			output: "admin\nmonitor\nztp\n",
		},
		appliance: &mockAppliance{
			log: log,
			interfaces: []appliance.Interface{
				appliance.NewInterface("mgmt0", "", nil),
				appliance.NewInterface("wan0", "", nil),
				appliance.NewInterface("wan1", "", nil),
				appliance.NewInterface("lan0", "", nil),
			},
		},
		controller: &mockController{
			log:  log,
			cred: appliance.RegistrationCredential{Account: "acme", Key: "secret-key"},
		},
	}
}

func (f *fixture) deps() Dependencies {
	return Dependencies{
		Inventory:  f.inventory,
		Session:    f.session,
		Appliance:  f.appliance,
		Controller: f.controller,
	}
}

func (f *fixture) sleep(d time.Duration) {
	f.log.add("sleep")
	f.slept = append(f.slept, d)
}

func testConfig() *config.Config {
	return &config.Config{
		Cloud: config.CloudConfig{Provider: config.ProviderAzure},
		Appliance: config.ApplianceConfig{
			Host:    "10.0.0.4",
			Account: config.AccountConfig{Username: "ztp", Password: "pw"},
		},
		Controller: config.ControllerConfig{
			URL:   "https://orchestrator.example.com",
			Group: "hubs",
		},
		Roles: []roles.Rule{
			{Pattern: "ec-lan", Role: roles.RoleLAN0},
			{Pattern: "ec-wan0", Role: roles.RoleWAN0},
			{Pattern: "ec-wan1", Role: roles.RoleWAN1},
			{Pattern: "hub-mgmt", Role: roles.RoleMGMT0},
		},
		SettleDelay: 30 * time.Second,
	}
}

// newTestContext returns a Context over the fixture's mocks.
func newTestContext(f *fixture, observer Observer) *Context {
	cfg := testConfig()
	classifier, err := roles.NewClassifier(cfg.Roles)
	if err != nil {
		panic(err)
	}
	ctx := NewContext(context.Background(), cfg, classifier, f.deps(), observer)
	ctx.Sleep = f.sleep
	return ctx
}
