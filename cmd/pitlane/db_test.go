package main

import (
	"path/filepath"
	"strings"
	"testing"
)

func TestDBCmd_Help(t *testing.T) {
	out, err := runCLI(t, "db", "--help")
	if err != nil {
		t.Fatalf("db --help failed: %v", err)
	}

	if !strings.Contains(out, "Database management") {
		t.Errorf("expected help to mention 'Database management', got: %s", out)
	}
	for _, sub := range []string{"init", "reset", "seed"} {
		if !strings.Contains(out, sub) {
			t.Errorf("expected help to list %q subcommand, got: %s", sub, out)
		}
	}
}

func TestDBInitCmd_Help(t *testing.T) {
	out, err := runCLI(t, "db", "init", "--help")
	if err != nil {
		t.Fatalf("db init --help failed: %v", err)
	}

	if !strings.Contains(out, "workshop database") {
		t.Errorf("expected help to mention 'workshop database', got: %s", out)
	}
	if !strings.Contains(out, "--config") {
		t.Errorf("expected help to mention '--config' flag, got: %s", out)
	}
	if !strings.Contains(out, "pitlane.yaml") {
		t.Errorf("expected default config path 'pitlane.yaml', got: %s", out)
	}
}

func TestDBInitCmd_MissingConfig(t *testing.T) {
	_, err := runCLI(t, "db", "init", "--config", "/nonexistent/pitlane.yaml")
	if err == nil {
		t.Fatal("expected error for missing config file")
	}
	if !strings.Contains(err.Error(), "load config") {
		t.Errorf("error = %q, want to contain %q", err.Error(), "load config")
	}
}

func TestDBInitCmd_InvalidConfig(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "pitlane.yaml")
	if err := writeTestFile(cfgPath, "invalid: true\n"); err != nil {
		t.Fatal(err)
	}

	_, err := runCLI(t, "db", "init", "--config", cfgPath)
	if err == nil {
		t.Fatal("expected error for invalid config")
	}
	if !strings.Contains(err.Error(), "load config") {
		t.Errorf("error = %q, want to contain %q", err.Error(), "load config")
	}
}

func TestDBInitCmd_SQLite(t *testing.T) {
	cfgPath := writeSQLiteConfig(t, t.TempDir())

	out, err := runCLI(t, "db", "init", "--config", cfgPath)
	if err != nil {
		t.Fatalf("db init failed: %v", err)
	}

	if !strings.Contains(out, "Migrated") {
		t.Errorf("expected init output to mention migration, got: %s", out)
	}
	if !strings.Contains(out, `Organization "shop" ready`) {
		t.Errorf("expected init output to confirm organization, got: %s", out)
	}
	if !strings.Contains(out, "initialized successfully") {
		t.Errorf("expected success message, got: %s", out)
	}
}

func TestDBSeedCmd(t *testing.T) {
	cfgPath := writeSQLiteConfig(t, t.TempDir())

	if _, err := runCLI(t, "db", "init", "--config", cfgPath); err != nil {
		t.Fatalf("db init failed: %v", err)
	}
	out, err := runCLI(t, "db", "seed", "--config", cfgPath)
	if err != nil {
		t.Fatalf("db seed failed: %v", err)
	}
	if !strings.Contains(out, "Demo data ready.") {
		t.Errorf("expected seed confirmation, got: %s", out)
	}

	// Seeding twice leaves existing orders alone.
	if _, err := runCLI(t, "db", "seed", "--config", cfgPath); err != nil {
		t.Fatalf("second db seed failed: %v", err)
	}
	list, err := runCLI(t, "orders", "list", "--config", cfgPath)
	if err != nil {
		t.Fatalf("orders list failed: %v", err)
	}
	if got := strings.Count(list, "wo-"); got != 5 {
		t.Errorf("expected 5 demo orders after reseeding, got %d:\n%s", got, list)
	}
}

func TestDBResetCmd_SQLite(t *testing.T) {
	cfgPath := writeSQLiteConfig(t, t.TempDir())

	if _, err := runCLI(t, "db", "init", "--config", cfgPath); err != nil {
		t.Fatalf("db init failed: %v", err)
	}
	if _, err := runCLI(t, "db", "seed", "--config", cfgPath); err != nil {
		t.Fatalf("db seed failed: %v", err)
	}

	out, err := runCLI(t, "db", "reset", "--yes", "--config", cfgPath)
	if err != nil {
		t.Fatalf("db reset failed: %v", err)
	}
	if !strings.Contains(out, "Removed") {
		t.Errorf("expected reset to report removed file, got: %s", out)
	}
	if !strings.Contains(out, "initialized successfully") {
		t.Errorf("expected reset to re-init, got: %s", out)
	}

	list, err := runCLI(t, "orders", "list", "--config", cfgPath)
	if err != nil {
		t.Fatalf("orders list failed: %v", err)
	}
	if !strings.Contains(list, "No work orders found.") {
		t.Errorf("expected empty board after reset, got: %s", list)
	}
}
