package roles

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const subnetPrefix = "/subscriptions/sub/resourceGroups/rg/providers/Microsoft.Network/virtualNetworks/hub/subnets/"

func TestClassifier_Classify(t *testing.T) {
	t.Parallel()
	c := newTestClassifier(t)

	tests := []struct {
		name     string
		subnetID string
		want     Role
	}{
		{"lan subnet", subnetPrefix + "ec-lan", RoleLAN0},
		{"lan subnet with suffix", subnetPrefix + "ec-lan-east", RoleLAN0},
		{"wan0 subnet", subnetPrefix + "ec-wan0", RoleWAN0},
		{"wan1 subnet", subnetPrefix + "ec-wan1", RoleWAN1},
		{"mgmt subnet", subnetPrefix + "hub-mgmt", RoleMGMT0},
		{"unmatched subnet", subnetPrefix + "workloads", RoleUnknown},
		{"empty identifier", "", RoleUnknown},
		{"blank identifier", "   ", RoleUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, c.Classify(tt.subnetID))
		})
	}
}

func TestClassifier_FirstMatchWins(t *testing.T) {
	t.Parallel()
	c, err := NewClassifier([]Rule{
		{Pattern: "edge", Role: RoleWAN0},
		{Pattern: "edge-lan", Role: RoleLAN0},
	})
	require.NoError(t, err)

	assert.Equal(t, RoleWAN0, c.Classify("vnet/edge-lan"))
}

func TestClassifier_RegexPatterns(t *testing.T) {
	t.Parallel()
	c, err := NewClassifier([]Rule{
		{Pattern: `/subnets/wan-[0-9]+$`, Role: RoleWAN1},
	})
	require.NoError(t, err)

	assert.Equal(t, RoleWAN1, c.Classify("vnet/subnets/wan-12"))
	assert.Equal(t, RoleUnknown, c.Classify("vnet/subnets/wan-12-backup"))
}

func TestClassifier_NoRules(t *testing.T) {
	t.Parallel()
	c, err := NewClassifier(nil)
	require.NoError(t, err)

	assert.Equal(t, RoleUnknown, c.Classify(subnetPrefix+"ec-lan"))
}

func TestNewClassifier_Errors(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		rules   []Rule
		wantErr string
	}{
		{"empty pattern", []Rule{{Pattern: "", Role: RoleLAN0}}, "pattern cannot be empty"},
		{"unknown role", []Rule{{Pattern: "x", Role: RoleUnknown}}, "invalid role"},
		{"undefined role", []Rule{{Pattern: "x", Role: Role("lan9")}}, "invalid role"},
		{"bad regex", []Rule{{Pattern: "ec-(lan", Role: RoleLAN0}}, "invalid pattern"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := NewClassifier(tt.rules)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestParseRole(t *testing.T) {
	t.Parallel()
	for _, r := range KnownRoles() {
		got, err := ParseRole(string(r))
		require.NoError(t, err)
		assert.Equal(t, r, got)
	}

	_, err := ParseRole("unknown")
	assert.Error(t, err)
	_, err = ParseRole("WAN0")
	assert.Error(t, err)
}

func TestRoleForInterfaceName(t *testing.T) {
	t.Parallel()
	assert.Equal(t, RoleWAN0, RoleForInterfaceName("wan0"))
	assert.Equal(t, RoleMGMT0, RoleForInterfaceName("mgmt0"))
	assert.Equal(t, RoleUnknown, RoleForInterfaceName("wan2"))
	assert.Equal(t, RoleUnknown, RoleForInterfaceName("lan0.100"))
	assert.Equal(t, RoleUnknown, RoleForInterfaceName(""))
}
