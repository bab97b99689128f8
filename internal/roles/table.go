package roles

import (
	"net"
	"strings"

	"github.com/imamik/edgeztp/internal/inventory"
)

// AddressTable holds at most one hardware address per known role.
// Roles without a discovered interface have no entry at all.
type AddressTable struct {
	addrs map[Role]string
}

// NewAddressTable returns an empty table.
func NewAddressTable() AddressTable {
	return AddressTable{addrs: make(map[Role]string)}
}

// Set stores addr for role. Unknown roles are ignored.
func (t *AddressTable) Set(role Role, addr string) {
	if !role.IsKnown() {
		return
	}
	if t.addrs == nil {
		t.addrs = make(map[Role]string)
	}
	t.addrs[role] = addr
}

// Get returns the address for role and whether one was provided.
func (t AddressTable) Get(role Role) (string, bool) {
	addr, ok := t.addrs[role]
	return addr, ok
}

// Len returns the number of roles with an address.
func (t AddressTable) Len() int {
	return len(t.addrs)
}

// Entries returns a copy of the table keyed by role name.
func (t AddressTable) Entries() map[Role]string {
	out := make(map[Role]string, len(t.addrs))
	for k, v := range t.addrs {
		out[k] = v
	}
	return out
}

// BuildTable classifies every cloud interface and records its normalized
// address under its role. Interfaces classified as unknown are dropped.
//
// When two interfaces share a role the later one wins. Which of the two is
// correct cannot be decided from the inventory alone.
func BuildTable(c *Classifier, ifaces []inventory.CloudInterface) AddressTable {
	table := NewAddressTable()
	for _, iface := range ifaces {
		role := c.Classify(iface.SubnetID)
		if role == RoleUnknown {
			continue
		}
		table.Set(role, NormalizeMAC(iface.MACAddress))
	}
	return table
}

// NormalizeMAC returns addr in lower-case colon-delimited form when it parses
// as a hardware address, and with hyphens replaced by colons otherwise.
// Unparseable values keep their case.
func NormalizeMAC(addr string) string {
	addr = strings.TrimSpace(addr)
	if hw, err := net.ParseMAC(addr); err == nil {
		return hw.String()
	}
	return strings.ReplaceAll(addr, "-", ":")
}
