package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand_HasAllSubcommands(t *testing.T) {
	names := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"info", "export", "serve", "stream"} {
		assert.True(t, names[want], "missing subcommand %q", want)
	}
}

func TestRootCommand_GlobalFlagDefaults(t *testing.T) {
	log := rootCmd.PersistentFlags().Lookup("log")
	require.NotNil(t, log)
	assert.Equal(t, "warn", log.DefValue)

	lenientFlag := rootCmd.PersistentFlags().Lookup("lenient")
	require.NotNil(t, lenientFlag)
	assert.Equal(t, "false", lenientFlag.DefValue)
}

func TestExportCommand_DefaultOutput(t *testing.T) {
	out := exportCmd.Flags().Lookup("output")
	require.NotNil(t, out)
	assert.Equal(t, "out.gif", out.DefValue)
	assert.Equal(t, "60", exportCmd.Flags().Lookup("fps").DefValue)
}

func TestExportCommand_OutputScaleFlags(t *testing.T) {
	// The rescale step defaults to the render size; 0 means untouched.
	for _, name := range []string{"output-width", "output-height"} {
		f := exportCmd.Flags().Lookup(name)
		require.NotNil(t, f, "missing flag %q", name)
		assert.Equal(t, "0", f.DefValue)
	}
}
