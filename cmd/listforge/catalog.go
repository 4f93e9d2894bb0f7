package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/kelderman/listforge/internal/cli"
)

func catalogCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Browse the backend catalog",
		Long:  `List manufacturers, series, and items from the backend catalog API.`,
	}

	cmd.AddCommand(listManufacturersCmd())
	cmd.AddCommand(listSeriesCmd())
	cmd.AddCommand(listItemsCmd())

	return cmd
}

func listManufacturersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "manufacturers",
		Short: "List all manufacturers",
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := initBackend()
			if err != nil {
				return err
			}

			manufacturers, err := client.GetManufacturers(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to list manufacturers: %w", err)
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			defer w.Flush()

			fmt.Fprintf(w, "%s\t%s\n", cli.BoldStyle.Render("ID"), cli.BoldStyle.Render("Name"))
			fmt.Fprintf(w, "%s\t%s\n", strings.Repeat("-", 4), strings.Repeat("-", 24))
			for _, m := range manufacturers {
				fmt.Fprintf(w, "%d\t%s\n", m.ID, m.Name)
			}

			return nil
		},
	}
}

func listSeriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "series <manufacturer-id>",
		Short: "List a manufacturer's series",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			manufacturerID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid manufacturer id %q: %w", args[0], err)
			}

			client, err := initBackend()
			if err != nil {
				return err
			}

			series, err := client.GetSeries(cmd.Context(), manufacturerID)
			if err != nil {
				return fmt.Errorf("failed to list series: %w", err)
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			defer w.Flush()

			fmt.Fprintf(w, "%s\t%s\n", cli.BoldStyle.Render("ID"), cli.BoldStyle.Render("Name"))
			fmt.Fprintf(w, "%s\t%s\n", strings.Repeat("-", 4), strings.Repeat("-", 24))
			for _, s := range series {
				fmt.Fprintf(w, "%d\t%s\n", s.ID, s.Name)
			}

			return nil
		},
	}
}

func listItemsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "items <series-id>",
		Short: "List a series' catalog items",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			seriesID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid series id %q: %w", args[0], err)
			}

			client, err := initBackend()
			if err != nil {
				return err
			}

			items, err := client.GetItems(cmd.Context(), seriesID)
			if err != nil {
				return fmt.Errorf("failed to list items: %w", err)
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			defer w.Flush()

			fmt.Fprintf(w, "%s\t%s\t%s\n",
				cli.BoldStyle.Render("ID"),
				cli.BoldStyle.Render("SKU"),
				cli.BoldStyle.Render("Name"))
			fmt.Fprintf(w, "%s\t%s\t%s\n",
				strings.Repeat("-", 4),
				strings.Repeat("-", 12),
				strings.Repeat("-", 32))
			for _, it := range items {
				fmt.Fprintf(w, "%d\t%s\t%s\n", it.ID, it.SKU, it.Name)
			}

			return nil
		},
	}
}
