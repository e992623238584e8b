// ABOUTME: Tests for the version command
// ABOUTME: Verifies build information rendering and SetVersion wiring
package commands

import (
	"bytes"
	"strings"
	"testing"
)

func TestVersionCmd(t *testing.T) {
	SetVersion("1.2.3", "abc1234", "2026-01-02")
	t.Cleanup(func() { SetVersion("dev", "none", "unknown") })

	cmd := NewVersionCmd()
	var output bytes.Buffer
	cmd.SetOut(&output)

	if err := cmd.Execute(); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	got := output.String()
	for _, want := range []string{"1.2.3", "abc1234", "2026-01-02"} {
		if !strings.Contains(got, want) {
			t.Errorf("version output missing %q:\n%s", want, got)
		}
	}
}
