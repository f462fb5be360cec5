package main

import (
	"context"
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/avelar/pitlane/internal/board"
	"github.com/avelar/pitlane/internal/filter"
	"github.com/avelar/pitlane/internal/pipeline"
	"github.com/avelar/pitlane/internal/store"
)

func newOrdersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "orders",
		Short: "Work order commands",
	}

	cmd.AddCommand(newOrdersListCmd())
	cmd.AddCommand(newOrdersShowCmd())
	cmd.AddCommand(newOrdersMoveCmd())
	return cmd
}

func newOrdersListCmd() *cobra.Command {
	var (
		configPath string
		mode       string
		from       string
		to         string
		query      string
		stage      string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List work orders",
		Long:  "Lists work orders with the same date and text filters the board offers. Output is formatted as a table.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOrdersList(cmd, configPath, mode, from, to, query, stage)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "pitlane.yaml", "path to Pitlane config file")
	cmd.Flags().StringVar(&mode, "filter", "all", "date filter (all, 7days, 30days, month, custom)")
	cmd.Flags().StringVar(&from, "from", "", "custom range start (YYYY-MM-DD)")
	cmd.Flags().StringVar(&to, "to", "", "custom range end (YYYY-MM-DD)")
	cmd.Flags().StringVarP(&query, "query", "q", "", "text search across customer, vehicle, description")
	cmd.Flags().StringVar(&stage, "stage", "", "only orders in this pipeline stage")
	return cmd
}

func runOrdersList(cmd *cobra.Command, configPath, mode, from, to, query, stage string) error {
	cfg, gormDB, err := connectFromConfig(configPath)
	if err != nil {
		return err
	}

	if stage != "" && !pipeline.IsValid(pipeline.Stage(stage)) {
		return fmt.Errorf("unknown stage %q (one of: %s)", stage, stageNames())
	}

	sel := filter.Selection{Mode: filter.Mode(mode), Query: query}
	if from != "" {
		t, err := time.Parse("2006-01-02", from)
		if err != nil {
			return fmt.Errorf("parse --from: %w", err)
		}
		sel.From = &t
	}
	if to != "" {
		t, err := time.Parse("2006-01-02", to)
		if err != nil {
			return fmt.Errorf("parse --to: %w", err)
		}
		end := t.Add(24*time.Hour - time.Nanosecond)
		sel.To = &end
	}

	repo := store.NewRepo(gormDB)
	orders, err := repo.FetchOrders(cmd.Context(), cfg.Org.Slug)
	if err != nil {
		return err
	}

	orders = filter.Apply(orders, filter.DateRange(sel, time.Now()), sel.Query)

	out := cmd.OutOrStdout()
	if len(orders) == 0 {
		fmt.Fprintln(out, "No work orders found.")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSTAGE\tCUSTOMER\tVEHICLE\tENTERED\tDESCRIPTION")
	for _, o := range orders {
		if stage != "" && o.Status != pipeline.Stage(stage) {
			continue
		}
		entered := "-"
		if t, ok := o.EffectiveDate(); ok {
			entered = t.Format("2006-01-02")
		}
		vehicle := strings.TrimSpace(o.Vehicle.Brand + " " + o.Vehicle.Model)
		if o.Vehicle.LicensePlate != "" {
			vehicle += " (" + o.Vehicle.LicensePlate + ")"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			o.ID, o.Status, o.Customer.Name, vehicle, entered, truncate(o.Description, 40))
	}
	w.Flush()
	return nil
}

func newOrdersShowCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show work order details",
		Long:  "Displays full details of a work order including customer, vehicle, costs, and attached images.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOrdersShow(cmd, configPath, args[0])
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "pitlane.yaml", "path to Pitlane config file")
	return cmd
}

func runOrdersShow(cmd *cobra.Command, configPath, id string) error {
	cfg, gormDB, err := connectFromConfig(configPath)
	if err != nil {
		return err
	}

	repo := store.NewRepo(gormDB)
	orders, err := repo.FetchOrders(cmd.Context(), cfg.Org.Slug)
	if err != nil {
		return err
	}

	b := board.NewStore()
	b.Load(orders)
	o, ok := b.Find(id)
	if !ok {
		return fmt.Errorf("%w: %s", store.ErrOrderNotFound, id)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "ID:          %s\n", o.ID)
	fmt.Fprintf(out, "Stage:       %s (%s)\n", o.Status, pipeline.Label(o.Status))
	fmt.Fprintf(out, "Customer:    %s", o.Customer.Name)
	if o.Customer.Phone != "" {
		fmt.Fprintf(out, " (%s)", o.Customer.Phone)
	}
	fmt.Fprintln(out)
	fmt.Fprintf(out, "Vehicle:     %s %s", o.Vehicle.Brand, o.Vehicle.Model)
	if o.Vehicle.LicensePlate != "" {
		fmt.Fprintf(out, " [%s]", o.Vehicle.LicensePlate)
	}
	fmt.Fprintln(out)
	if o.AssignedTo != "" {
		fmt.Fprintf(out, "Assigned:    %s\n", o.AssignedTo)
	}
	if o.EstimatedCost > 0 {
		fmt.Fprintf(out, "Estimate:    %.2f\n", o.EstimatedCost)
	}
	if o.TotalAmount > 0 {
		fmt.Fprintf(out, "Total:       %.2f\n", o.TotalAmount)
	}
	if t, ok := o.EffectiveDate(); ok {
		fmt.Fprintf(out, "Entered:     %s\n", t.Format("2006-01-02 15:04:05"))
	}
	fmt.Fprintf(out, "Updated:     %s\n", o.UpdatedAt.Format("2006-01-02 15:04:05"))
	if o.CompletedAt != nil {
		fmt.Fprintf(out, "Completed:   %s\n", o.CompletedAt.Format("2006-01-02 15:04:05"))
	}

	if o.Description != "" {
		fmt.Fprintf(out, "\nDescription:\n%s\n", o.Description)
	}

	if len(o.Images) > 0 {
		fmt.Fprintln(out, "\nImages:")
		for _, img := range o.Images {
			caption := img.Caption
			if caption == "" {
				caption = "-"
			}
			fmt.Fprintf(out, "  %s  %s\n", img.URL, caption)
		}
	}
	return nil
}

func newOrdersMoveCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "move <id> <stage>",
		Short: "Move a work order to another pipeline stage",
		Long:  "Moves a work order through the same board core the dashboard uses: the move is validated against the pipeline and persisted.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOrdersMove(cmd, configPath, args[0], args[1])
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "pitlane.yaml", "path to Pitlane config file")
	return cmd
}

func runOrdersMove(cmd *cobra.Command, configPath, id, stage string) error {
	cfg, gormDB, err := connectFromConfig(configPath)
	if err != nil {
		return err
	}

	to := pipeline.Stage(stage)
	if !pipeline.IsValid(to) {
		return fmt.Errorf("unknown stage %q (one of: %s)", stage, stageNames())
	}

	repo := store.NewRepo(gormDB)
	orders, err := repo.FetchOrders(cmd.Context(), cfg.Org.Slug)
	if err != nil {
		return err
	}

	// The board rolls the move back on a write failure and reports it
	// through the reporter, same as a failed drag in the dashboard.
	var writeErr error
	b := board.NewStore()
	b.Load(orders)
	mutator := board.NewMutator(b, repo, board.ReporterFunc(
		func(orderID string, from, to pipeline.Stage, err error) {
			writeErr = err
		}))
	coord := board.NewCoordinator(b, mutator)

	if !coord.DragStart(id) {
		return fmt.Errorf("%w: %s", store.ErrOrderNotFound, id)
	}
	if o, ok := coord.Active(); ok && o.Status == to {
		fmt.Fprintf(cmd.OutOrStdout(), "%s is already in %s\n", id, to)
		return coord.DragEnd(context.Background(), id, "")
	}
	if err := coord.DragEnd(context.Background(), id, string(to)); err != nil {
		return err
	}
	mutator.Wait()
	if writeErr != nil {
		return writeErr
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Moved %s to %s\n", id, to)
	return nil
}

func stageNames() string {
	names := make([]string, 0, len(pipeline.Stages()))
	for _, s := range pipeline.Stages() {
		names = append(names, string(s))
	}
	return strings.Join(names, ", ")
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
