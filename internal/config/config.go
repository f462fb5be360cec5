// Package config provides YAML-based configuration loading for Pitlane.
package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config is the top-level Pitlane configuration, loaded from pitlane.yaml.
type Config struct {
	Org       OrgConfig        `yaml:"org"`
	DB        DBConfig         `yaml:"db"`
	Dashboard DashboardConfig  `yaml:"dashboard"`
	Notify    NotifyConfig     `yaml:"notify"`
	Employees []EmployeeConfig `yaml:"employees"`
}

// OrgConfig identifies the workshop all data is scoped to.
type OrgConfig struct {
	Slug string `yaml:"slug"`
	Name string `yaml:"name"`
}

// DBConfig holds connection settings for the workshop database.
type DBConfig struct {
	Driver   string `yaml:"driver"` // mysql or sqlite
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
	Path     string `yaml:"path"` // sqlite only
}

// DashboardConfig holds settings for the web dashboard.
type DashboardConfig struct {
	Port    int    `yaml:"port"`
	Refresh string `yaml:"refresh"` // 5-field cron expression for board reloads
}

// NotifyConfig holds optional failure-alert destinations.
type NotifyConfig struct {
	Slack   SlackConfig   `yaml:"slack"`
	Discord DiscordConfig `yaml:"discord"`
}

// SlackConfig configures the Slack alert adapter.
type SlackConfig struct {
	Token   string `yaml:"token"`
	Channel string `yaml:"channel"`
}

// DiscordConfig configures the Discord alert adapter.
type DiscordConfig struct {
	Token   string `yaml:"token"`
	Channel string `yaml:"channel"`
}

// EmployeeConfig seeds a workshop employee.
type EmployeeConfig struct {
	Name string `yaml:"name"`
	Role string `yaml:"role"`
}

// Load reads a YAML config file from path and returns a validated Config.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	return Parse(data)
}

// Parse unmarshals YAML bytes into a validated Config.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: parse: %w", err)
	}
	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// applyDefaults fills in derived and default values.
func (c *Config) applyDefaults() {
	if c.DB.Driver == "" {
		c.DB.Driver = "sqlite"
	}
	if c.DB.Host == "" {
		c.DB.Host = "127.0.0.1"
	}
	if c.DB.Port == 0 {
		c.DB.Port = 3306
	}
	if c.DB.User == "" {
		c.DB.User = "root"
	}
	if c.DB.Database == "" && c.Org.Slug != "" {
		c.DB.Database = "pitlane_" + c.Org.Slug
	}
	if c.DB.Path == "" && c.Org.Slug != "" {
		c.DB.Path = "pitlane_" + c.Org.Slug + ".db"
	}
	if c.Dashboard.Port == 0 {
		c.Dashboard.Port = 8080
	}
	if c.Dashboard.Refresh == "" {
		c.Dashboard.Refresh = "*/5 * * * *"
	}
	for i := range c.Employees {
		if c.Employees[i].Role == "" {
			c.Employees[i].Role = "mechanic"
		}
	}
}

// validate checks that all required fields are present and consistent.
func (c *Config) validate() error {
	var errs []string
	if c.Org.Slug == "" {
		errs = append(errs, "org.slug is required")
	}
	if c.Org.Name == "" {
		errs = append(errs, "org.name is required")
	}
	switch c.DB.Driver {
	case "mysql", "sqlite":
	default:
		errs = append(errs, fmt.Sprintf("db.driver %q is not supported (mysql or sqlite)", c.DB.Driver))
	}
	if c.Notify.Slack.Token != "" && c.Notify.Slack.Channel == "" {
		errs = append(errs, "notify.slack.channel is required when a slack token is set")
	}
	if c.Notify.Discord.Token != "" && c.Notify.Discord.Channel == "" {
		errs = append(errs, "notify.discord.channel is required when a discord token is set")
	}
	for i, e := range c.Employees {
		if e.Name == "" {
			errs = append(errs, fmt.Sprintf("employees[%d].name is required", i))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("config: validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}
