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

func materialsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "materials",
		Short: "Manage raw materials",
		Long:  `List, add, update, and delete the raw materials tracked for costing.`,
	}

	cmd.AddCommand(listMaterialsCmd())
	cmd.AddCommand(addMaterialCmd())
	cmd.AddCommand(updateMaterialCmd())
	cmd.AddCommand(deleteMaterialCmd())

	return cmd
}

func listMaterialsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all materials",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			materials, err := store.GetMaterials(ctx)
			if err != nil {
				return fmt.Errorf("failed to get materials: %w", err)
			}

			if len(materials) == 0 {
				fmt.Println(cli.InfoStyle.Render("No materials found. Use 'listforge materials add' to create one."))
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			defer w.Flush()

			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
				cli.BoldStyle.Render("ID"),
				cli.BoldStyle.Render("SKU"),
				cli.BoldStyle.Render("Name"),
				cli.BoldStyle.Render("Unit"),
				cli.BoldStyle.Render("Unit Cost"))
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
				strings.Repeat("-", 4),
				strings.Repeat("-", 12),
				strings.Repeat("-", 24),
				strings.Repeat("-", 6),
				strings.Repeat("-", 10))

			for _, m := range materials {
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%.2f\n", m.ID, m.SKU, m.Name, m.Unit, m.UnitCost)
			}

			return nil
		},
	}
}

func addMaterialCmd() *cobra.Command {
	var (
		sku      string
		unit     string
		unitCost float64
	)

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a new material",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			created, err := store.CreateMaterial(ctx, &model.Material{
				Name:     args[0],
				SKU:      sku,
				Unit:     unit,
				UnitCost: unitCost,
			})
			if err != nil {
				return fmt.Errorf("failed to create material: %w", err)
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Created material %q (id %d)", created.Name, created.ID)))
			return nil
		},
	}

	cmd.Flags().StringVar(&sku, "sku", "", "stock keeping unit (required)")
	cmd.Flags().StringVar(&unit, "unit", "ea", "unit of measure")
	cmd.Flags().Float64Var(&unitCost, "cost", 0, "cost per unit")
	_ = cmd.MarkFlagRequired("sku")

	return cmd
}

func updateMaterialCmd() *cobra.Command {
	var (
		name     string
		sku      string
		unit     string
		unitCost float64
	)

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update an existing material",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid material id %q: %w", args[0], err)
			}

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			material, err := store.GetMaterialByID(ctx, id)
			if err != nil {
				return err
			}

			if cmd.Flags().Changed("name") {
				material.Name = name
			}
			if cmd.Flags().Changed("sku") {
				material.SKU = sku
			}
			if cmd.Flags().Changed("unit") {
				material.Unit = unit
			}
			if cmd.Flags().Changed("cost") {
				material.UnitCost = unitCost
			}

			if err := store.UpdateMaterial(ctx, material); err != nil {
				return fmt.Errorf("failed to update material: %w", err)
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Updated material %d", id)))
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "new name")
	cmd.Flags().StringVar(&sku, "sku", "", "new SKU")
	cmd.Flags().StringVar(&unit, "unit", "", "new unit of measure")
	cmd.Flags().Float64Var(&unitCost, "cost", 0, "new cost per unit")

	return cmd
}

func deleteMaterialCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a material",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid material id %q: %w", args[0], err)
			}

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			if err := store.DeleteMaterial(ctx, id); err != nil {
				return err
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Deleted material %d", id)))
			return nil
		},
	}
}
