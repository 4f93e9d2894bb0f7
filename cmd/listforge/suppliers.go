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

func suppliersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "suppliers",
		Short: "Manage suppliers",
		Long:  `List, add, update, and delete the suppliers materials are sourced from.`,
	}

	cmd.AddCommand(listSuppliersCmd())
	cmd.AddCommand(addSupplierCmd())
	cmd.AddCommand(updateSupplierCmd())
	cmd.AddCommand(deleteSupplierCmd())

	return cmd
}

func listSuppliersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all suppliers",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			suppliers, err := store.GetSuppliers(ctx)
			if err != nil {
				return fmt.Errorf("failed to get suppliers: %w", err)
			}

			if len(suppliers) == 0 {
				fmt.Println(cli.InfoStyle.Render("No suppliers found. Use 'listforge suppliers add' to create one."))
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			defer w.Flush()

			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
				cli.BoldStyle.Render("ID"),
				cli.BoldStyle.Render("Name"),
				cli.BoldStyle.Render("Contact"),
				cli.BoldStyle.Render("Lead Time"))
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
				strings.Repeat("-", 4),
				strings.Repeat("-", 24),
				strings.Repeat("-", 24),
				strings.Repeat("-", 9))

			for _, s := range suppliers {
				contact := s.ContactEmail
				if contact == "" {
					contact = cli.SubtleStyle.Render("(none)")
				}
				fmt.Fprintf(w, "%d\t%s\t%s\t%dd\n", s.ID, s.Name, contact, s.LeadTimeDays)
			}

			return nil
		},
	}
}

func addSupplierCmd() *cobra.Command {
	var (
		email    string
		leadTime int
	)

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a new supplier",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			created, err := store.CreateSupplier(ctx, &model.Supplier{
				Name:         args[0],
				ContactEmail: email,
				LeadTimeDays: leadTime,
			})
			if err != nil {
				return fmt.Errorf("failed to create supplier: %w", err)
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Created supplier %q (id %d)", created.Name, created.ID)))
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "contact email")
	cmd.Flags().IntVar(&leadTime, "lead-time", 0, "lead time in days")

	return cmd
}

func updateSupplierCmd() *cobra.Command {
	var (
		name     string
		email    string
		leadTime int
	)

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update an existing supplier",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid supplier id %q: %w", args[0], err)
			}

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			supplier, err := store.GetSupplierByID(ctx, id)
			if err != nil {
				return err
			}

			if cmd.Flags().Changed("name") {
				supplier.Name = name
			}
			if cmd.Flags().Changed("email") {
				supplier.ContactEmail = email
			}
			if cmd.Flags().Changed("lead-time") {
				supplier.LeadTimeDays = leadTime
			}

			if err := store.UpdateSupplier(ctx, supplier); err != nil {
				return fmt.Errorf("failed to update supplier: %w", err)
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Updated supplier %d", id)))
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "new name")
	cmd.Flags().StringVar(&email, "email", "", "new contact email")
	cmd.Flags().IntVar(&leadTime, "lead-time", 0, "new lead time in days")

	return cmd
}

func deleteSupplierCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a supplier",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid supplier id %q: %w", args[0], err)
			}

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			if err := store.DeleteSupplier(ctx, id); err != nil {
				return err
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Deleted supplier %d", id)))
			return nil
		},
	}
}
