package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/kelderman/listforge/internal/cli"
	"github.com/kelderman/listforge/internal/model"
)

func shippingCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "shipping",
		Short: "Manage per-region shipping defaults",
	}

	cmd.AddCommand(listShippingCmd())
	cmd.AddCommand(setShippingCmd())
	cmd.AddCommand(deleteShippingCmd())

	return cmd
}

func listShippingCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all shipping defaults",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			defaults, err := store.GetShippingDefaults(ctx)
			if err != nil {
				return fmt.Errorf("failed to get shipping defaults: %w", err)
			}

			if len(defaults) == 0 {
				fmt.Println(cli.InfoStyle.Render("No shipping defaults configured. Use 'listforge shipping set' to add one."))
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			defer w.Flush()

			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
				cli.BoldStyle.Render("ID"),
				cli.BoldStyle.Render("Region"),
				cli.BoldStyle.Render("Carrier"),
				cli.BoldStyle.Render("Service"),
				cli.BoldStyle.Render("Flat Cost"))
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
				strings.Repeat("-", 4),
				strings.Repeat("-", 12),
				strings.Repeat("-", 12),
				strings.Repeat("-", 16),
				strings.Repeat("-", 9))

			for _, d := range defaults {
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%.2f\n", d.ID, d.Region, d.Carrier, d.Service, d.FlatCost)
			}

			return nil
		},
	}
}

func setShippingCmd() *cobra.Command {
	var (
		carrier  string
		service  string
		flatCost float64
	)

	cmd := &cobra.Command{
		Use:   "set <region>",
		Short: "Create or replace the shipping default for a region",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			saved, err := store.UpsertShippingDefault(ctx, &model.ShippingDefault{
				Region:   args[0],
				Carrier:  carrier,
				Service:  service,
				FlatCost: flatCost,
			})
			if err != nil {
				return fmt.Errorf("failed to save shipping default: %w", err)
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Saved shipping default for %q (%s %s)", saved.Region, saved.Carrier, saved.Service)))
			return nil
		},
	}

	cmd.Flags().StringVar(&carrier, "carrier", "", "carrier name (required)")
	cmd.Flags().StringVar(&service, "service", "", "service level (required)")
	cmd.Flags().Float64Var(&flatCost, "cost", 0, "flat shipping cost")
	_ = cmd.MarkFlagRequired("carrier")
	_ = cmd.MarkFlagRequired("service")

	return cmd
}

func deleteShippingCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a shipping default",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid shipping default id %q: %w", args[0], err)
			}

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			if err := store.DeleteShippingDefault(ctx, id); err != nil {
				return err
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Deleted shipping default %d", id)))
			return nil
		},
	}
}
