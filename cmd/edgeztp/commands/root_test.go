package commands

import (
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoot(t *testing.T) {
	cmd := Root()

	require.NotNil(t, cmd)
	assert.Equal(t, "edgeztp", cmd.Use)
	assert.True(t, cmd.SilenceUsage)
	assert.True(t, cmd.SilenceErrors)

	flag := cmd.PersistentFlags().Lookup("verbose")
	require.NotNil(t, flag)
	assert.Equal(t, "v", flag.Shorthand)
}

func TestRoot_Subcommands(t *testing.T) {
	cmd := Root()

	names := make(map[string]bool)
	for _, sub := range cmd.Commands() {
		names[sub.Name()] = true
	}
	for _, want := range []string{"provision", "plan", "validate", "version", "completion"} {
		assert.True(t, names[want], "missing subcommand %s", want)
	}
}

func TestConfigFlags(t *testing.T) {
	verbosity := 0
	for _, cmd := range []*cobra.Command{
		Provision(&verbosity),
		Plan(&verbosity),
		Validate(),
	} {
		t.Run(cmd.Name(), func(t *testing.T) {
			flag := cmd.Flags().Lookup("config")
			require.NotNil(t, flag)
			assert.Equal(t, "c", flag.Shorthand)
			assert.Empty(t, flag.DefValue)
			assert.NotNil(t, cmd.RunE)
		})
	}
}

func TestPlan_YAMLFlag(t *testing.T) {
	verbosity := 0
	cmd := Plan(&verbosity)

	flag := cmd.Flags().Lookup("yaml")
	require.NotNil(t, flag)
	assert.Equal(t, "false", flag.DefValue)
}

func TestRoot_VerbosityCounts(t *testing.T) {
	cmd := Root()
	require.NoError(t, cmd.ParseFlags([]string{"-vv"}))

	v, err := cmd.PersistentFlags().GetCount("verbose")
	require.NoError(t, err)
	assert.Equal(t, 2, v)
}
