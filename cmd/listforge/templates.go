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

func templatesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "templates",
		Short: "Manage marketplace export templates",
		Long: `List, add, update, and delete the folder/filename templates used when
saving export artifacts. Templates may use the [Manufacturer_Name],
[Series_Name], and [Marketplace] placeholders; forward slashes create
nested folders.`,
	}

	cmd.AddCommand(listTemplatesCmd())
	cmd.AddCommand(addTemplateCmd())
	cmd.AddCommand(updateTemplateCmd())
	cmd.AddCommand(deleteTemplateCmd())

	return cmd
}

func listTemplatesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all export templates",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			templates, err := store.GetExportTemplates(ctx)
			if err != nil {
				return fmt.Errorf("failed to get export templates: %w", err)
			}

			if len(templates) == 0 {
				fmt.Println(cli.InfoStyle.Render("No export templates found. Use 'listforge templates add' to create one."))
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			defer w.Flush()

			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
				cli.BoldStyle.Render("ID"),
				cli.BoldStyle.Render("Marketplace"),
				cli.BoldStyle.Render("Folder Template"),
				cli.BoldStyle.Render("Listing Type"),
				cli.BoldStyle.Render("Default"))
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
				strings.Repeat("-", 4),
				strings.Repeat("-", 12),
				strings.Repeat("-", 40),
				strings.Repeat("-", 12),
				strings.Repeat("-", 7))

			for _, t := range templates {
				def := ""
				if t.IsDefault {
					def = cli.SuccessStyle.Render(cli.SuccessIcon)
				}
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n", t.ID, t.Marketplace, t.FolderTemplate, t.ListingType, def)
			}

			return nil
		},
	}
}

func addTemplateCmd() *cobra.Command {
	var (
		folderTemplate   string
		filenameTemplate string
		listingType      string
		isDefault        bool
	)

	cmd := &cobra.Command{
		Use:   "add <marketplace>",
		Short: "Add a new export template",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			created, err := store.CreateExportTemplate(ctx, &model.ExportTemplate{
				Marketplace:      args[0],
				FolderTemplate:   folderTemplate,
				FilenameTemplate: filenameTemplate,
				ListingType:      model.ListingType(listingType),
				IsDefault:        isDefault,
			})
			if err != nil {
				return fmt.Errorf("failed to create export template: %w", err)
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Created export template %d for %q", created.ID, created.Marketplace)))
			return nil
		},
	}

	cmd.Flags().StringVar(&folderTemplate, "folder", "", "folder template (required)")
	cmd.Flags().StringVar(&filenameTemplate, "filename", "", "filename template")
	cmd.Flags().StringVar(&listingType, "listing-type", string(model.ListingTypeSingleRow), "listing type (single-row, parent-child)")
	cmd.Flags().BoolVar(&isDefault, "default", false, "make this the marketplace's default template")
	_ = cmd.MarkFlagRequired("folder")

	return cmd
}

func updateTemplateCmd() *cobra.Command {
	var (
		marketplace      string
		folderTemplate   string
		filenameTemplate string
		listingType      string
		isDefault        bool
	)

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update an existing export template",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid template id %q: %w", args[0], err)
			}

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			templates, err := store.GetExportTemplates(ctx)
			if err != nil {
				return fmt.Errorf("failed to get export templates: %w", err)
			}

			var tmpl *model.ExportTemplate
			for i := range templates {
				if templates[i].ID == id {
					tmpl = &templates[i]
					break
				}
			}
			if tmpl == nil {
				return fmt.Errorf("export template %d not found", id)
			}

			if cmd.Flags().Changed("marketplace") {
				tmpl.Marketplace = marketplace
			}
			if cmd.Flags().Changed("folder") {
				tmpl.FolderTemplate = folderTemplate
			}
			if cmd.Flags().Changed("filename") {
				tmpl.FilenameTemplate = filenameTemplate
			}
			if cmd.Flags().Changed("listing-type") {
				tmpl.ListingType = model.ListingType(listingType)
			}
			if cmd.Flags().Changed("default") {
				tmpl.IsDefault = isDefault
			}

			if err := store.UpdateExportTemplate(ctx, tmpl); err != nil {
				return fmt.Errorf("failed to update export template: %w", err)
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Updated export template %d", id)))
			return nil
		},
	}

	cmd.Flags().StringVar(&marketplace, "marketplace", "", "new marketplace")
	cmd.Flags().StringVar(&folderTemplate, "folder", "", "new folder template")
	cmd.Flags().StringVar(&filenameTemplate, "filename", "", "new filename template")
	cmd.Flags().StringVar(&listingType, "listing-type", "", "new listing type")
	cmd.Flags().BoolVar(&isDefault, "default", false, "make this the marketplace's default template")

	return cmd
}

func deleteTemplateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an export template",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid template id %q: %w", args[0], err)
			}

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			if err := store.DeleteExportTemplate(ctx, id); err != nil {
				return err
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Deleted export template %d", id)))
			return nil
		},
	}
}
