package roles

import "github.com/imamik/edgeztp/internal/appliance"

// Reconcile returns the interface updates to submit to the appliance.
//
// Each appliance interface whose name is a known role with an address in the
// table is copied with its MAC replaced; all other fields are kept as is.
// Interfaces with unrecognized names, or whose role has no address, are left
// out entirely so the appliance leaves them untouched. Output order follows
// the input.
func Reconcile(ifaces []appliance.Interface, table AddressTable) []appliance.Interface {
	updates := make([]appliance.Interface, 0, len(ifaces))
	for _, iface := range ifaces {
		role := RoleForInterfaceName(iface.Name)
		if role == RoleUnknown {
			continue
		}
		mac, ok := table.Get(role)
		if !ok {
			continue
		}
		updates = append(updates, iface.WithMAC(mac))
	}
	return updates
}
