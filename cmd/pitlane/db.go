package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/avelar/pitlane/internal/config"
	"github.com/avelar/pitlane/internal/db"
)

func newDBCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "db",
		Short: "Database management commands",
	}

	cmd.AddCommand(newDBInitCmd())
	cmd.AddCommand(newDBResetCmd())
	cmd.AddCommand(newDBSeedCmd())
	return cmd
}

func newDBInitCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize the workshop database",
		Long:  "Creates the workshop database, migrates all tables, seeds the organization and employees.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDBInit(cmd, configPath)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "pitlane.yaml", "path to Pitlane config file")
	return cmd
}

func runDBInit(cmd *cobra.Command, configPath string) error {
	out := cmd.OutOrStdout()

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	fmt.Fprintf(out, "Loaded config for %q from %s\n", cfg.Org.Name, configPath)

	if cfg.DB.Driver == "mysql" {
		adminDB, err := db.ConnectAdmin(cfg.DB.User, cfg.DB.Password, cfg.DB.Host, cfg.DB.Port)
		if err != nil {
			return fmt.Errorf("connect to MySQL at %s:%d: %w", cfg.DB.Host, cfg.DB.Port, err)
		}
		if err := db.CreateDatabase(adminDB, cfg.DB.Database); err != nil {
			return err
		}
		fmt.Fprintf(out, "Database %s ready\n", cfg.DB.Database)
	}

	gormDB, err := openFromConfig(cfg)
	if err != nil {
		return err
	}

	if err := db.AutoMigrate(gormDB); err != nil {
		return err
	}
	fmt.Fprintf(out, "Migrated %d tables\n", len(db.AllModels()))

	if err := db.SeedOrganization(gormDB, cfg); err != nil {
		return err
	}
	fmt.Fprintf(out, "Organization %q ready\n", cfg.Org.Slug)

	if err := db.SeedEmployees(gormDB, cfg); err != nil {
		return err
	}
	if len(cfg.Employees) > 0 {
		fmt.Fprintf(out, "Seeded %d employees\n", len(cfg.Employees))
	}

	fmt.Fprintln(out, "\nPitlane database initialized successfully.")
	return nil
}

func newDBResetCmd() *cobra.Command {
	var (
		configPath string
		yes        bool
	)

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Drop and re-initialize the workshop database",
		Long:  "Drops the workshop database (or deletes the SQLite file) and runs init again. Destroys all data.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDBReset(cmd, configPath, yes)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "pitlane.yaml", "path to Pitlane config file")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	return cmd
}

func runDBReset(cmd *cobra.Command, configPath string, yes bool) error {
	out := cmd.OutOrStdout()

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if !yes {
		fmt.Fprintf(out, "This destroys all data for %q. Type the org slug to continue: ", cfg.Org.Slug)
		reader := bufio.NewReader(cmd.InOrStdin())
		line, _ := reader.ReadString('\n')
		if strings.TrimSpace(line) != cfg.Org.Slug {
			return fmt.Errorf("reset aborted")
		}
	}

	switch cfg.DB.Driver {
	case "mysql":
		adminDB, err := db.ConnectAdmin(cfg.DB.User, cfg.DB.Password, cfg.DB.Host, cfg.DB.Port)
		if err != nil {
			return fmt.Errorf("connect to MySQL at %s:%d: %w", cfg.DB.Host, cfg.DB.Port, err)
		}
		if err := db.DropDatabase(adminDB, cfg.DB.Database); err != nil {
			return err
		}
		fmt.Fprintf(out, "Dropped database %s\n", cfg.DB.Database)
	case "sqlite":
		if err := os.Remove(cfg.DB.Path); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("remove %s: %w", cfg.DB.Path, err)
		}
		fmt.Fprintf(out, "Removed %s\n", cfg.DB.Path)
	}

	return runDBInit(cmd, configPath)
}

func newDBSeedCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Seed demo work orders",
		Long:  "Inserts demo customers, vehicles and work orders so the board renders out of the box. Skipped when orders already exist.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, gormDB, err := connectFromConfig(configPath)
			if err != nil {
				return err
			}
			if err := db.SeedDemo(gormDB, cfg.Org.Slug); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Demo data ready.")
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "pitlane.yaml", "path to Pitlane config file")
	return cmd
}

// openFromConfig opens the configured database.
func openFromConfig(cfg *config.Config) (*gorm.DB, error) {
	if cfg.DB.Driver == "sqlite" {
		return db.ConnectSQLite(cfg.DB.Path)
	}
	return db.Connect(cfg.DB.User, cfg.DB.Password, cfg.DB.Host, cfg.DB.Port, cfg.DB.Database)
}

// connectFromConfig loads config and returns a GORM DB connection.
func connectFromConfig(configPath string) (*config.Config, *gorm.DB, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}

	gormDB, err := openFromConfig(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("connect to %s: %w", cfg.DB.Database, err)
	}

	return cfg, gormDB, nil
}
