package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/kelderman/listforge/internal/cli"
	"github.com/kelderman/listforge/internal/model"
	"github.com/kelderman/listforge/internal/validation"
)

func validateCmd() *cobra.Command {
	var (
		itemList       string
		listingType    string
		manufacturerID int64
		seriesID       int64
	)

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Run the pre-export readiness check",
		Long: `Ask the backend whether the selected items are ready to export and
print the per-item issues. Export runs the same check before writing
anything, so this command is for inspecting a selection on its own.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			itemIDs, err := parseIDList(itemList)
			if err != nil {
				return err
			}
			if len(itemIDs) == 0 {
				return fmt.Errorf("no items selected; pass --items")
			}

			lt := model.ListingType(listingType)
			if !lt.Valid() {
				return fmt.Errorf("unknown listing type %q", listingType)
			}

			client, err := initBackend()
			if err != nil {
				return err
			}

			cache := validation.NewCache(client, validationTTL())

			report, err := cache.GetReport(ctx, validation.KeyInput{
				ManufacturerID: manufacturerID,
				SeriesID:       seriesID,
				ItemIDs:        itemIDs,
				ListingType:    lt,
			})
			if err != nil {
				return err
			}

			printReport(report)
			return nil
		},
	}

	cmd.Flags().StringVar(&itemList, "items", "", "comma-separated item ids (required)")
	cmd.Flags().StringVar(&listingType, "listing-type", string(model.ListingTypeSingleRow), "listing type (single-row, parent-child)")
	cmd.Flags().Int64Var(&manufacturerID, "manufacturer", 0, "manufacturer id the selection belongs to")
	cmd.Flags().Int64Var(&seriesID, "series", 0, "series id when the selection is confined to one series")
	_ = cmd.MarkFlagRequired("items")

	return cmd
}

func printReport(report *model.ValidationReport) {
	switch report.Status {
	case model.ReportReady:
		fmt.Println(cli.FormatSuccess("Selection is ready to export"))
	case model.ReportWarnings:
		fmt.Println(cli.FormatWarning(fmt.Sprintf("Ready with %d warnings", report.WarningCount)))
	case model.ReportErrors:
		fmt.Println(cli.FormatError(fmt.Sprintf("Blocked by %d errors (%d warnings)", report.ErrorCount, report.WarningCount)))
	}

	if len(report.Issues) == 0 {
		return
	}

	fmt.Println()
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	defer w.Flush()

	fmt.Fprintf(w, "%s\t%s\t%s\n",
		cli.BoldStyle.Render("Item"),
		cli.BoldStyle.Render("Severity"),
		cli.BoldStyle.Render("Message"))
	fmt.Fprintf(w, "%s\t%s\t%s\n",
		strings.Repeat("-", 6),
		strings.Repeat("-", 8),
		strings.Repeat("-", 40))

	for _, issue := range report.Issues {
		severity := string(issue.Severity)
		if issue.Severity == model.SeverityError {
			severity = cli.ErrorStyle.Render(severity)
		} else {
			severity = cli.WarningStyle.Render(severity)
		}
		fmt.Fprintf(w, "%d\t%s\t%s\n", issue.ItemID, severity, issue.Message)
	}
}

// validationTTL is read here so the export command can share it.
func validationTTL() time.Duration {
	return viper.GetDuration("validation.ttl")
}
