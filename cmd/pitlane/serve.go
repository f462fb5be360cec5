package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/avelar/pitlane/internal/config"
	"github.com/avelar/pitlane/internal/dashboard"
	"github.com/avelar/pitlane/internal/notify"
	"github.com/avelar/pitlane/internal/notify/discord"
	"github.com/avelar/pitlane/internal/notify/slack"
)

func newServeCmd() *cobra.Command {
	var (
		configPath string
		port       int
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the work-order board dashboard",
		Long:  "Launches the web dashboard: the kanban board, order details, and the live event stream.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, configPath, port)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "pitlane.yaml", "path to Pitlane config file")
	cmd.Flags().IntVarP(&port, "port", "p", 0, "port to listen on (overrides config)")
	return cmd
}

func runServe(cmd *cobra.Command, configPath string, port int) error {
	cfg, gormDB, err := connectFromConfig(configPath)
	if err != nil {
		return err
	}

	if port == 0 {
		port = cfg.Dashboard.Port
	}

	notifier, err := buildNotifier(cmd, cfg)
	if err != nil {
		return err
	}
	defer notifier.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		fmt.Fprintf(cmd.OutOrStdout(), "\nReceived %s, shutting down...\n", sig)
		cancel()
	}()

	return dashboard.Start(ctx, dashboard.StartOpts{
		DB:       gormDB,
		Port:     port,
		Org:      cfg.Org.Slug,
		Refresh:  cfg.Dashboard.Refresh,
		Notifier: notifier,
		Out:      cmd.OutOrStdout(),
	})
}

// buildNotifier assembles the notifier fan-out from config. Alerts always
// land on stdout; Slack and Discord join when configured.
func buildNotifier(cmd *cobra.Command, cfg *config.Config) (notify.Notifier, error) {
	notifiers := []notify.Notifier{notify.NewLog(cmd.OutOrStdout())}

	if cfg.Notify.Slack.Token != "" {
		sn, err := slack.New(slack.Opts{
			Token:     cfg.Notify.Slack.Token,
			ChannelID: cfg.Notify.Slack.Channel,
		})
		if err != nil {
			return nil, err
		}
		notifiers = append(notifiers, sn)
	}

	if cfg.Notify.Discord.Token != "" {
		dn, err := discord.New(discord.Opts{
			Token:     cfg.Notify.Discord.Token,
			ChannelID: cfg.Notify.Discord.Channel,
		})
		if err != nil {
			return nil, err
		}
		notifiers = append(notifiers, dn)
	}

	return notify.NewMulti(notifiers...), nil
}
