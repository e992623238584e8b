// ABOUTME: Tests for the import command against a temporary database
// ABOUTME: Valid records are saved, invalid ones skipped, missing files error
package commands

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/policyatlas/policyatlas/internal/models"
	"github.com/policyatlas/policyatlas/internal/storage"
)

func TestImportCmd(t *testing.T) {
	dir := t.TempDir()
	jsonPath := filepath.Join(dir, "policies.json")
	dbFile := filepath.Join(dir, "atlas.db")

	payload := `[
		{"country": "Bangladesh", "policy_area": "AI Safety", "name": "National AI Policy", "implementation_year": 2024},
		{"country": "", "policy_area": "AI Safety", "name": "Broken Record"},
		{"country": "India", "policy_area": "Data Protection", "name": "DPDP Act", "status": "pending"}
	]`
	if err := os.WriteFile(jsonPath, []byte(payload), 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	cmd := NewRootCmd()
	var output bytes.Buffer
	cmd.SetOut(&output)
	cmd.SetErr(&output)
	cmd.SetArgs([]string{"import", jsonPath, "--db", dbFile})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	dbPath = ""

	store, err := storage.NewStorage(dbFile)
	if err != nil {
		t.Fatalf("reopening storage: %v", err)
	}
	defer store.Close()

	approved, err := store.CountPolicies(context.Background(), models.PolicyStatusApproved)
	if err != nil {
		t.Fatalf("CountPolicies(approved) error = %v", err)
	}
	if approved != 1 {
		t.Errorf("approved count = %d, want 1 (default status applied)", approved)
	}

	pending, err := store.CountPolicies(context.Background(), models.PolicyStatusPending)
	if err != nil {
		t.Fatalf("CountPolicies(pending) error = %v", err)
	}
	if pending != 1 {
		t.Errorf("pending count = %d, want 1 (explicit status preserved)", pending)
	}
}

func TestImportCmd_MissingFile(t *testing.T) {
	cmd := NewRootCmd()
	var output bytes.Buffer
	cmd.SetOut(&output)
	cmd.SetErr(&output)
	cmd.SetArgs([]string{"import", filepath.Join(t.TempDir(), "nope.json"), "--db", filepath.Join(t.TempDir(), "atlas.db")})

	if err := cmd.Execute(); err == nil {
		t.Error("importing a missing file should error")
	}
	dbPath = ""
}
