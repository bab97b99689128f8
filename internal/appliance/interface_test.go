package appliance

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInterface_PreservesUnknownFields(t *testing.T) {
	t.Parallel()
	input := `{"ifname":"wan0","mac":"aa:aa:aa","admin":true,"label":"INET","mtu":1500,"dhcp":{"enabled":false}}`

	var iface Interface
	require.NoError(t, json.Unmarshal([]byte(input), &iface))

	assert.Equal(t, "wan0", iface.Name)
	assert.Equal(t, "aa:aa:aa", iface.MAC)

	mtu, ok := iface.Field("mtu")
	require.True(t, ok)
	assert.JSONEq(t, `1500`, string(mtu))

	out, err := json.Marshal(iface)
	require.NoError(t, err)
	assert.JSONEq(t, input, string(out))
}

func TestInterface_WithMACOnlyChangesMAC(t *testing.T) {
	t.Parallel()
	var iface Interface
	require.NoError(t, json.Unmarshal([]byte(`{"ifname":"lan0","mac":"old","label":"LAN"}`), &iface))

	updated := iface.WithMAC("00:11:22:33:44:02")

	assert.Equal(t, "old", iface.MAC, "original must not change")
	out, err := json.Marshal(updated)
	require.NoError(t, err)
	assert.JSONEq(t, `{"ifname":"lan0","mac":"00:11:22:33:44:02","label":"LAN"}`, string(out))
}

func TestInterface_WithMACDoesNotShareFields(t *testing.T) {
	t.Parallel()
	iface := NewInterface("wan1", "x", map[string]json.RawMessage{"label": json.RawMessage(`"MPLS"`)})

	updated := iface.WithMAC("y")
	raw, _ := updated.Field("label")
	raw[1] = 'X'

	orig, _ := iface.Field("label")
	assert.Equal(t, `"MPLS"`, string(orig))
}

func TestInterface_UnmarshalRejectsWrongTypes(t *testing.T) {
	t.Parallel()
	var iface Interface
	err := json.Unmarshal([]byte(`{"ifname":42}`), &iface)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ifname")
}

func TestNewRegistration(t *testing.T) {
	t.Parallel()
	reg := NewRegistration(RegistrationCredential{Account: "acme", Key: "k-123"}, "edge", "vm-east-1")

	assert.Equal(t, Registration{Account: "acme", AccountKey: "k-123", Group: "edge", Site: "vm-east-1"}, reg)
}
