package cmd

import (
	"bytes"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand(t *testing.T) {
	assert.Equal(t, "serterm", rootCmd.Use)
	assert.NotEmpty(t, rootCmd.Short)

	expected := []string{"connect", "list", "history", "config"}
	for _, name := range expected {
		found := false
		for _, cmd := range rootCmd.Commands() {
			if cmd.Name() == name {
				found = true
				break
			}
		}
		assert.True(t, found, "subcommand %s not registered", name)
	}
}

func TestConnectHelp(t *testing.T) {
	output := &bytes.Buffer{}
	cmd := &cobra.Command{Use: "test"}
	cmd.AddCommand(connectCmd)
	cmd.SetOut(output)
	cmd.SetErr(output)
	cmd.SetArgs([]string{"connect", "--help"})

	require.NoError(t, cmd.Execute())

	out := output.String()
	assert.Contains(t, out, "serial port")
	assert.Contains(t, out, "baud")
}

func TestHistoryHelp(t *testing.T) {
	output := &bytes.Buffer{}
	cmd := &cobra.Command{Use: "test"}
	cmd.AddCommand(historyCmd)
	cmd.SetOut(output)
	cmd.SetErr(output)
	cmd.SetArgs([]string{"history", "--help"})

	require.NoError(t, cmd.Execute())

	out := output.String()
	assert.Contains(t, out, "clear")
	assert.Contains(t, out, "delete")
}

func TestChoosePortRejectsBadInput(t *testing.T) {
	// choosePort itself needs a terminal; the index parsing it relies on
	// is what the command layer owns.
	tests := []struct {
		input string
		valid bool
	}{
		{"1", true},
		{"2", true},
		{"0", false},
		{"3", false},
		{"x", false},
		{"", false},
	}

	ports := []string{"/dev/ttyUSB0", "/dev/ttyACM0"}
	for _, tt := range tests {
		n, err := parseChoice(tt.input, len(ports))
		if tt.valid {
			assert.NoError(t, err, "input %q", tt.input)
			assert.GreaterOrEqual(t, n, 1)
			assert.LessOrEqual(t, n, len(ports))
		} else {
			assert.Error(t, err, "input %q", tt.input)
		}
	}
}

func TestCommandStructure(t *testing.T) {
	commands := []*cobra.Command{
		rootCmd, connectCmd, listCmd, historyCmd, configCmd,
		historyClearCmd, historyDeleteCmd, configSetCmd, configForgetCmd,
	}

	for _, cmd := range commands {
		assert.NotEmpty(t, cmd.Use, "command with empty Use")
		assert.NotEmpty(t, cmd.Short, "command %s has empty Short", cmd.Use)
		assert.False(t, strings.HasSuffix(cmd.Short, "."), "command %s Short ends with a period", cmd.Use)
	}
}
