package roles

import "fmt"

// Role is the semantic label of an appliance interface.
type Role string

const (
	RoleWAN0    Role = "wan0"
	RoleWAN1    Role = "wan1"
	RoleLAN0    Role = "lan0"
	RoleMGMT0   Role = "mgmt0"
	RoleUnknown Role = "unknown"
)

// KnownRoles returns the assignable roles in canonical order.
func KnownRoles() []Role {
	return []Role{RoleWAN0, RoleWAN1, RoleLAN0, RoleMGMT0}
}

// IsKnown reports whether r is one of the assignable roles.
func (r Role) IsKnown() bool {
	switch r {
	case RoleWAN0, RoleWAN1, RoleLAN0, RoleMGMT0:
		return true
	default:
		return false
	}
}

// ParseRole parses a role name. Unknown names are an error; "unknown" itself
// is not assignable.
func ParseRole(s string) (Role, error) {
	r := Role(s)
	if !r.IsKnown() {
		return RoleUnknown, fmt.Errorf("invalid role %q (valid: wan0, wan1, lan0, mgmt0)", s)
	}
	return r, nil
}

// RoleForInterfaceName maps an appliance-local interface name to its role.
// Only exact names match.
func RoleForInterfaceName(name string) Role {
	r := Role(name)
	if r.IsKnown() {
		return r
	}
	return RoleUnknown
}
