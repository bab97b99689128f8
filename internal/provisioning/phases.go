package provisioning

import (
	"fmt"
	"strings"

	"github.com/imamik/edgeztp/internal/appliance"
	"github.com/imamik/edgeztp/internal/roles"
)

// Phase names, in run order.
const (
	PhaseDiscover           = "discover"
	PhaseClassify           = "classify"
	PhaseAccount            = "account"
	PhaseLogin              = "login"
	PhaseInterfaces         = "interfaces"
	PhaseRegistrationConfig = "registration-config"
	PhaseRegister           = "register"
	PhaseReconcile          = "reconcile"
	PhaseSubmit             = "submit"
	PhaseSettle             = "settle"
	PhasePersist            = "persist"
)

// ProvisionPhases returns the full provisioning sequence.
func ProvisionPhases() []Phase {
	return []Phase{
		&discoverPhase{},
		&classifyPhase{},
		&accountPhase{},
		&loginPhase{},
		&interfacesPhase{},
		&registrationConfigPhase{},
		&registerPhase{},
		&reconcilePhase{},
		&submitPhase{},
		&settlePhase{},
		&persistPhase{},
	}
}

// PlanPhases returns the read-only discovery sequence.
func PlanPhases() []Phase {
	return []Phase{
		&discoverPhase{},
		&classifyPhase{},
	}
}

type discoverPhase struct{}

func (discoverPhase) Name() string { return PhaseDiscover }

func (discoverPhase) Provision(ctx *Context) error {
	inst, err := ctx.Deps.Inventory.Instance(ctx)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrDiscovery, err)
	}
	if inst == nil {
		return fmt.Errorf("%w: inventory returned no instance", ErrDiscovery)
	}
	if inst.Hostname == "" {
		return fmt.Errorf("%w: instance %s has no hostname", ErrDiscovery, inst.ID)
	}

	ctx.State.Instance = inst
	ctx.Observer.Event(Event{
		Type:    EventInfo,
		Phase:   PhaseDiscover,
		Message: fmt.Sprintf("found %d interfaces", len(inst.Interfaces)),
		Fields:  map[string]string{"hostname": inst.Hostname},
	})
	return nil
}

type classifyPhase struct{}

func (classifyPhase) Name() string { return PhaseClassify }

func (classifyPhase) Provision(ctx *Context) error {
	ifaces := ctx.State.Instance.Interfaces
	for _, iface := range ifaces {
		role := ctx.Classifier.Classify(iface.SubnetID)
		if role == roles.RoleUnknown {
			ctx.Observer.Event(Event{
				Type:     EventInterfaceIgnored,
				Phase:    PhaseClassify,
				Resource: iface.ID,
				Message:  "subnet matches no rule",
				Fields:   map[string]string{"subnet": iface.SubnetID},
			})
			continue
		}
		ctx.Observer.Event(Event{
			Type:     EventInterfaceClassified,
			Phase:    PhaseClassify,
			Resource: iface.ID,
			Message:  "classified",
			Fields:   map[string]string{"role": string(role), "mac": roles.NormalizeMAC(iface.MACAddress)},
		})
	}

	ctx.State.Table = roles.BuildTable(ctx.Classifier, ifaces)
	return nil
}

type accountPhase struct{}

func (accountPhase) Name() string { return PhaseAccount }

func (accountPhase) Provision(ctx *Context) error {
	acct := ctx.Config.Appliance.Account
	out, err := ctx.Deps.Session.CreateAccount(ctx, acct.Username, acct.Password)
	if err != nil {
		return fmt.Errorf("%w: create account %s: %w", ErrSession, acct.Username, err)
	}
	ctx.State.AccountOutput = out
	ctx.Observer.Event(Event{Type: EventInfo, Phase: PhaseAccount, Message: "console output", Fields: map[string]string{"output": out}})

	if !listsUser(out, acct.Username) {
		return fmt.Errorf("%w: account %s not listed after creation", ErrSession, acct.Username)
	}
	return nil
}

// showUsernames is the console command whose output lists the local users.
const showUsernames = "show usernames"

// listsUser reports whether the user table printed after the last
// "show usernames" has a line starting with user. Echoed commands before
// the table are ignored.
func listsUser(out, user string) bool {
	if i := strings.LastIndex(out, showUsernames); i >= 0 {
		out = out[i+len(showUsernames):]
		nl := strings.IndexByte(out, '\n')
		if nl < 0 {
			return false
		}
		out = out[nl+1:]
	}
	for _, line := range strings.Split(out, "\n") {
		fields := strings.Fields(line)
		if len(fields) > 0 && fields[0] == user {
			return true
		}
	}
	return false
}

type loginPhase struct{}

func (loginPhase) Name() string { return PhaseLogin }

func (loginPhase) Provision(ctx *Context) error {
	acct := ctx.Config.Appliance.Account
	if err := ctx.Deps.Appliance.Login(ctx, acct.Username, acct.Password); err != nil {
		return fmt.Errorf("%w: %w", ErrAuthentication, err)
	}
	return nil
}

type interfacesPhase struct{}

func (interfacesPhase) Name() string { return PhaseInterfaces }

func (interfacesPhase) Provision(ctx *Context) error {
	ifaces, err := ctx.Deps.Appliance.Interfaces(ctx)
	if err != nil {
		return fmt.Errorf("%w: get interfaces: %w", ErrAppliance, err)
	}
	ctx.State.ApplianceInterfaces = ifaces
	return nil
}

type registrationConfigPhase struct{}

func (registrationConfigPhase) Name() string { return PhaseRegistrationConfig }

func (registrationConfigPhase) Provision(ctx *Context) error {
	cred, err := ctx.Deps.Controller.RegistrationConfig(ctx)
	if err != nil {
		return fmt.Errorf("%w: get registration config: %w", ErrAppliance, err)
	}
	ctx.State.Credential = cred
	return nil
}

type registerPhase struct{}

func (registerPhase) Name() string { return PhaseRegister }

// Provision registers before any interface is modified so a rejected
// registration leaves the interfaces untouched.
func (registerPhase) Provision(ctx *Context) error {
	reg := appliance.NewRegistration(ctx.State.Credential, ctx.Config.Controller.Group, ctx.State.Instance.Hostname)
	if err := ctx.Deps.Appliance.Register(ctx, reg); err != nil {
		return fmt.Errorf("%w: register with controller: %w", ErrSubmission, err)
	}
	ctx.State.Registration = reg
	return nil
}

type reconcilePhase struct{}

func (reconcilePhase) Name() string { return PhaseReconcile }

func (reconcilePhase) Provision(ctx *Context) error {
	updates := roles.Reconcile(ctx.State.ApplianceInterfaces, ctx.State.Table)
	for _, iface := range ctx.State.ApplianceInterfaces {
		role := roles.RoleForInterfaceName(iface.Name)
		var reason string
		if role == roles.RoleUnknown {
			reason = "interface name has no role"
		} else if _, ok := ctx.State.Table.Get(role); !ok {
			reason = "no cloud interface for role"
		}
		if reason != "" {
			ctx.Observer.Event(Event{
				Type:     EventInterfaceIgnored,
				Phase:    PhaseReconcile,
				Resource: iface.Name,
				Message:  reason,
			})
		}
	}
	for _, u := range updates {
		ctx.Observer.Event(Event{
			Type:     EventInterfaceUpdate,
			Phase:    PhaseReconcile,
			Resource: u.Name,
			Message:  "hardware address will be set",
			Fields:   map[string]string{"mac": u.MAC},
		})
	}
	ctx.State.Updates = updates
	return nil
}

type submitPhase struct{}

func (submitPhase) Name() string { return PhaseSubmit }

// Provision records a failed submission instead of returning it so the settle
// wait still happens; persistPhase reports the failure.
func (submitPhase) Provision(ctx *Context) error {
	if len(ctx.State.Updates) == 0 {
		ctx.Observer.Event(Event{Type: EventInfo, Phase: PhaseSubmit, Message: "no interface updates to submit"})
		return nil
	}
	if err := ctx.Deps.Appliance.ModifyInterfaces(ctx, ctx.State.Updates); err != nil {
		ctx.State.SubmitErr = err
		return nil
	}
	ctx.State.Submitted = true
	return nil
}

type settlePhase struct{}

func (settlePhase) Name() string { return PhaseSettle }

func (settlePhase) Provision(ctx *Context) error {
	delay := ctx.Config.SettleDelay
	ctx.Observer.Event(Event{
		Type:    EventWaiting,
		Phase:   PhaseSettle,
		Message: fmt.Sprintf("waiting %v for the appliance to apply interface changes", delay),
	})
	ctx.Sleep(delay)
	return nil
}

type persistPhase struct{}

func (persistPhase) Name() string { return PhasePersist }

func (persistPhase) Provision(ctx *Context) error {
	if err := ctx.State.SubmitErr; err != nil {
		return fmt.Errorf("%w: modify interfaces: %w (configuration not saved)", ErrSubmission, err)
	}
	if err := ctx.Deps.Appliance.SaveChanges(ctx); err != nil {
		return fmt.Errorf("%w: save changes: %w", ErrSubmission, err)
	}
	ctx.State.Saved = true
	return nil
}
