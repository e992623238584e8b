// ABOUTME: Tests for the root command wiring
// ABOUTME: Verifies subcommands, global flags, and error behavior
package commands

import (
	"bytes"
	"strings"
	"testing"
)

func TestNewRootCmd(t *testing.T) {
	cmd := NewRootCmd()

	if cmd.Use != "atlas" {
		t.Errorf("Use = %q, want %q", cmd.Use, "atlas")
	}
	if !cmd.SilenceUsage {
		t.Error("SilenceUsage should be true to prevent usage dumps on errors")
	}
	if !cmd.SilenceErrors {
		t.Error("SilenceErrors should be true; main prints errors once")
	}
}

func TestRootCmd_GlobalFlags(t *testing.T) {
	cmd := NewRootCmd()

	for _, name := range []string{"db", "format", "quiet", "verbose"} {
		if cmd.PersistentFlags().Lookup(name) == nil {
			t.Errorf("missing persistent flag %q", name)
		}
	}
}

func TestRootCmd_Subcommands(t *testing.T) {
	cmd := NewRootCmd()

	expected := []string{"serve", "mcp", "chat", "search", "refresh", "import", "version"}
	for _, name := range expected {
		found := false
		for _, sub := range cmd.Commands() {
			if sub.Name() == name {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("missing subcommand %q", name)
		}
	}
}

func TestRootCmd_HelpOutput(t *testing.T) {
	cmd := NewRootCmd()
	var output bytes.Buffer
	cmd.SetOut(&output)
	cmd.SetErr(&output)
	cmd.SetArgs([]string{"--help"})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("Execute(--help) error = %v", err)
	}
	if !strings.Contains(output.String(), "PolicyAtlas") {
		t.Errorf("help output missing project name:\n%s", output.String())
	}
}

func TestRootCmd_UnknownCommand(t *testing.T) {
	cmd := NewRootCmd()
	var output bytes.Buffer
	cmd.SetOut(&output)
	cmd.SetErr(&output)
	cmd.SetArgs([]string{"bogus"})

	if err := cmd.Execute(); err == nil {
		t.Error("Execute(bogus) should return an error")
	}
}
