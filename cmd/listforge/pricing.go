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

func pricingCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pricing",
		Short: "Manage pricing rules",
		Long: `List, add, update, and delete the margin rules that turn material
costs into listing prices. The highest-priority active rule wins.`,
	}

	cmd.AddCommand(listPricingCmd())
	cmd.AddCommand(addPricingCmd())
	cmd.AddCommand(updatePricingCmd())
	cmd.AddCommand(deletePricingCmd())
	cmd.AddCommand(quotePricingCmd())

	return cmd
}

func listPricingCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all pricing rules",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			rules, err := store.GetPricingRules(ctx)
			if err != nil {
				return fmt.Errorf("failed to get pricing rules: %w", err)
			}

			if len(rules) == 0 {
				fmt.Println(cli.InfoStyle.Render("No pricing rules found. Use 'listforge pricing add' to create one."))
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			defer w.Flush()

			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
				cli.BoldStyle.Render("ID"),
				cli.BoldStyle.Render("Name"),
				cli.BoldStyle.Render("Margin %"),
				cli.BoldStyle.Render("Round To"),
				cli.BoldStyle.Render("Priority"))
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
				strings.Repeat("-", 4),
				strings.Repeat("-", 24),
				strings.Repeat("-", 8),
				strings.Repeat("-", 8),
				strings.Repeat("-", 8))

			for _, r := range rules {
				fmt.Fprintf(w, "%d\t%s\t%.1f\t%.2f\t%d\n", r.ID, r.Name, r.MarginPercent, r.RoundTo, r.Priority)
			}

			return nil
		},
	}
}

func addPricingCmd() *cobra.Command {
	var (
		margin   float64
		roundTo  float64
		priority int
	)

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a new pricing rule",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			created, err := store.CreatePricingRule(ctx, &model.PricingRule{
				Name:          args[0],
				MarginPercent: margin,
				RoundTo:       roundTo,
				Priority:      priority,
			})
			if err != nil {
				return fmt.Errorf("failed to create pricing rule: %w", err)
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Created pricing rule %q (id %d)", created.Name, created.ID)))
			return nil
		},
	}

	cmd.Flags().Float64Var(&margin, "margin", 0, "margin percent applied to cost (required)")
	cmd.Flags().Float64Var(&roundTo, "round-to", 0, "round price up to this increment (0 disables)")
	cmd.Flags().IntVar(&priority, "priority", 0, "rule priority; highest active rule wins")
	_ = cmd.MarkFlagRequired("margin")

	return cmd
}

func updatePricingCmd() *cobra.Command {
	var (
		name     string
		margin   float64
		roundTo  float64
		priority int
	)

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update an existing pricing rule",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid rule id %q: %w", args[0], err)
			}

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			rules, err := store.GetPricingRules(ctx)
			if err != nil {
				return fmt.Errorf("failed to get pricing rules: %w", err)
			}

			var rule *model.PricingRule
			for i := range rules {
				if rules[i].ID == id {
					rule = &rules[i]
					break
				}
			}
			if rule == nil {
				return fmt.Errorf("pricing rule %d not found", id)
			}

			if cmd.Flags().Changed("name") {
				rule.Name = name
			}
			if cmd.Flags().Changed("margin") {
				rule.MarginPercent = margin
			}
			if cmd.Flags().Changed("round-to") {
				rule.RoundTo = roundTo
			}
			if cmd.Flags().Changed("priority") {
				rule.Priority = priority
			}

			if err := store.UpdatePricingRule(ctx, rule); err != nil {
				return fmt.Errorf("failed to update pricing rule: %w", err)
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Updated pricing rule %d", id)))
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "new name")
	cmd.Flags().Float64Var(&margin, "margin", 0, "new margin percent")
	cmd.Flags().Float64Var(&roundTo, "round-to", 0, "new rounding increment")
	cmd.Flags().IntVar(&priority, "priority", 0, "new priority")

	return cmd
}

func deletePricingCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a pricing rule",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid rule id %q: %w", args[0], err)
			}

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			if err := store.DeletePricingRule(ctx, id); err != nil {
				return err
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Deleted pricing rule %d", id)))
			return nil
		},
	}
}

func quotePricingCmd() *cobra.Command {
	var cost float64

	cmd := &cobra.Command{
		Use:   "quote",
		Short: "Preview the listing price for a unit cost",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			rule, err := store.ActivePricingRule(ctx)
			if err != nil {
				return err
			}

			price := rule.Apply(cost)
			fmt.Printf("%s %s\n",
				cli.FormatInfo(fmt.Sprintf("Rule %q (margin %.1f%%, round to %.2f):", rule.Name, rule.MarginPercent, rule.RoundTo)),
				cli.BoldStyle.Render(fmt.Sprintf("%.2f → %.2f", cost, price)))
			return nil
		},
	}

	cmd.Flags().Float64Var(&cost, "cost", 0, "unit cost to price (required)")
	_ = cmd.MarkFlagRequired("cost")

	return cmd
}
