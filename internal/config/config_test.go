package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const fullYAML = `
org:
  slug: garaje-lopez
  name: Garaje Lopez

db:
  driver: mysql
  host: 10.0.0.5
  port: 3307
  user: pitlane
  password: hunter2
  database: pitlane_garaje

dashboard:
  port: 9090
  refresh: "*/2 * * * *"

notify:
  slack:
    token: xoxb-test
    channel: C0AB12CD3

employees:
  - name: Rosa Mendes
    role: service_advisor
  - name: Pavel Diaz
`

const minimalYAML = `
org:
  slug: shop
  name: The Shop
`

func TestParse_FullConfig(t *testing.T) {
	cfg, err := Parse([]byte(fullYAML))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Org.Slug != "garaje-lopez" {
		t.Errorf("Org.Slug = %q, want %q", cfg.Org.Slug, "garaje-lopez")
	}
	if cfg.DB.Driver != "mysql" {
		t.Errorf("DB.Driver = %q, want mysql", cfg.DB.Driver)
	}
	if cfg.DB.Host != "10.0.0.5" || cfg.DB.Port != 3307 {
		t.Errorf("DB endpoint = %s:%d, want 10.0.0.5:3307", cfg.DB.Host, cfg.DB.Port)
	}
	if cfg.DB.User != "pitlane" || cfg.DB.Password != "hunter2" {
		t.Errorf("DB credentials not parsed: %s/%s", cfg.DB.User, cfg.DB.Password)
	}
	if cfg.Dashboard.Port != 9090 {
		t.Errorf("Dashboard.Port = %d, want 9090", cfg.Dashboard.Port)
	}
	if cfg.Dashboard.Refresh != "*/2 * * * *" {
		t.Errorf("Dashboard.Refresh = %q", cfg.Dashboard.Refresh)
	}
	if cfg.Notify.Slack.Token != "xoxb-test" || cfg.Notify.Slack.Channel != "C0AB12CD3" {
		t.Errorf("Notify.Slack = %+v", cfg.Notify.Slack)
	}
	if len(cfg.Employees) != 2 {
		t.Fatalf("len(Employees) = %d, want 2", len(cfg.Employees))
	}
	if cfg.Employees[0].Role != "service_advisor" {
		t.Errorf("Employees[0].Role = %q", cfg.Employees[0].Role)
	}
	if cfg.Employees[1].Role != "mechanic" {
		t.Errorf("Employees[1].Role = %q, want default mechanic", cfg.Employees[1].Role)
	}
}

func TestParse_MinimalDefaults(t *testing.T) {
	cfg, err := Parse([]byte(minimalYAML))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.DB.Driver != "sqlite" {
		t.Errorf("DB.Driver = %q, want sqlite default", cfg.DB.Driver)
	}
	if cfg.DB.Path != "pitlane_shop.db" {
		t.Errorf("DB.Path = %q, want pitlane_shop.db", cfg.DB.Path)
	}
	if cfg.DB.Database != "pitlane_shop" {
		t.Errorf("DB.Database = %q, want pitlane_shop", cfg.DB.Database)
	}
	if cfg.DB.Host != "127.0.0.1" || cfg.DB.Port != 3306 || cfg.DB.User != "root" {
		t.Errorf("DB defaults = %s@%s:%d", cfg.DB.User, cfg.DB.Host, cfg.DB.Port)
	}
	if cfg.Dashboard.Port != 8080 {
		t.Errorf("Dashboard.Port = %d, want 8080 default", cfg.Dashboard.Port)
	}
	if cfg.Dashboard.Refresh != "*/5 * * * *" {
		t.Errorf("Dashboard.Refresh = %q, want */5 default", cfg.Dashboard.Refresh)
	}
}

func TestParse_MissingOrg(t *testing.T) {
	_, err := Parse([]byte("db:\n  driver: sqlite\n"))
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !strings.Contains(err.Error(), "org.slug is required") {
		t.Errorf("error = %q, want to mention org.slug", err)
	}
	if !strings.Contains(err.Error(), "org.name is required") {
		t.Errorf("error = %q, want to mention org.name", err)
	}
}

func TestParse_BadDriver(t *testing.T) {
	yaml := minimalYAML + "db:\n  driver: postgres\n"
	_, err := Parse([]byte(yaml))
	if err == nil {
		t.Fatal("expected validation error for unsupported driver")
	}
	if !strings.Contains(err.Error(), "postgres") {
		t.Errorf("error = %q, want to name the bad driver", err)
	}
}

func TestParse_SlackTokenWithoutChannel(t *testing.T) {
	yaml := minimalYAML + "notify:\n  slack:\n    token: xoxb-x\n"
	_, err := Parse([]byte(yaml))
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !strings.Contains(err.Error(), "notify.slack.channel") {
		t.Errorf("error = %q, want to mention notify.slack.channel", err)
	}
}

func TestParse_EmployeeWithoutName(t *testing.T) {
	yaml := minimalYAML + "employees:\n  - role: mechanic\n"
	_, err := Parse([]byte(yaml))
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !strings.Contains(err.Error(), "employees[0].name") {
		t.Errorf("error = %q, want to mention employees[0].name", err)
	}
}

func TestParse_InvalidYAML(t *testing.T) {
	_, err := Parse([]byte("org: [not a map"))
	if err == nil {
		t.Fatal("expected parse error")
	}
	if !strings.Contains(err.Error(), "config: parse") {
		t.Errorf("error = %q, want config: parse prefix", err)
	}
}

func TestLoad_File(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pitlane.yaml")
	if err := os.WriteFile(path, []byte(minimalYAML), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load(): %v", err)
	}
	if cfg.Org.Slug != "shop" {
		t.Errorf("Org.Slug = %q, want shop", cfg.Org.Slug)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load("/nonexistent/pitlane.yaml")
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	if !strings.Contains(err.Error(), "config: read") {
		t.Errorf("error = %q, want config: read prefix", err)
	}
}
