package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/kelderman/listforge/internal/cli"
	"github.com/kelderman/listforge/internal/common"
	"github.com/kelderman/listforge/internal/export"
	"github.com/kelderman/listforge/internal/localdir"
	"github.com/kelderman/listforge/internal/model"
	"github.com/kelderman/listforge/internal/plan"
	"github.com/kelderman/listforge/internal/service"
	"github.com/kelderman/listforge/internal/storage"
	"github.com/kelderman/listforge/internal/tui"
	"github.com/kelderman/listforge/internal/validation"
)

// lastRunKey is the settings key the previous run's results persist under,
// so --retry can merge across invocations.
const lastRunKey = "export.last_run"

func exportCmd() *cobra.Command {
	var (
		manufacturerID  int64
		itemList        string
		format          string
		listingType     string
		marketplace     string
		outputDir       string
		templateVersion string
		retry           bool
		skipValidation  bool
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Generate and save marketplace listing spreadsheets",
		Long: `Compute a save plan for the selected items, fetch each generated
artifact from the backend, write it under the output root, and verify the
written bytes against the server's signature. A selection confined to one
series produces a single file; a selection spanning several series produces
a master file plus one file per series. Failed entries can be re-run with
--retry without touching the files that already succeeded.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			if !cmd.Flags().Changed("format") {
				if v := viper.GetString("export.format"); v != "" {
					format = v
				}
			}
			if !cmd.Flags().Changed("listing-type") {
				if v := viper.GetString("export.listing_type"); v != "" {
					listingType = v
				}
			}

			exportFormat := model.ExportFormat(format)
			if !exportFormat.Valid() {
				return fmt.Errorf("%w: %q (want xlsx, xls, or csv)", common.ErrUnknownFormat, format)
			}
			lt := model.ListingType(listingType)
			if !lt.Valid() {
				return fmt.Errorf("unknown listing type %q", listingType)
			}
			if marketplace == "" {
				marketplace = viper.GetString("export.marketplace")
			}

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			client, err := initBackend()
			if err != nil {
				return err
			}

			// Load the catalog slice the plan needs.
			manufacturers, err := client.GetManufacturers(ctx)
			if err != nil {
				return fmt.Errorf("failed to load manufacturers: %w", err)
			}
			series, err := client.GetSeries(ctx, manufacturerID)
			if err != nil {
				return fmt.Errorf("failed to load series: %w", err)
			}
			items, err := client.GetItemsForManufacturer(ctx, manufacturerID)
			if err != nil {
				return fmt.Errorf("failed to load items: %w", err)
			}

			itemIDs, err := parseIDList(itemList)
			if err != nil {
				return err
			}
			if len(itemIDs) == 0 {
				selected, ok, pickErr := tui.RunPicker("Select items to export", series, items, nil)
				if pickErr != nil {
					return pickErr
				}
				if !ok {
					// Cancelled picker: nothing ran, nothing recorded.
					return nil
				}
				itemIDs = selected
			}
			if len(itemIDs) == 0 {
				fmt.Println(cli.FormatInfo("No items selected; nothing to export."))
				return nil
			}

			folderTemplate, filenameTemplate, err := resolveTemplates(ctx, store, marketplace)
			if err != nil {
				return err
			}

			savePlan := plan.Build(plan.BuildInput{
				BaseFolderTemplate: folderTemplate,
				FilenameTemplate:   filenameTemplate,
				Marketplace:        marketplace,
				ManufacturerID:     manufacturerID,
				SelectedItemIDs:    itemIDs,
				Items:              items,
				Series:             series,
				Manufacturers:      manufacturers,
			})
			if savePlan == nil {
				// Missing configuration disables the action; it is not an error.
				fmt.Println(cli.FormatInfo("Nothing to export: select a manufacturer and items, and configure a folder template."))
				return nil
			}

			if !skipValidation {
				keyIn := validation.KeyInput{
					ManufacturerID: manufacturerID,
					SeriesID:       validation.SeriesForSelection(items, itemIDs),
					ItemIDs:        itemIDs,
					ListingType:    lt,
				}
				if proceed, vErr := runReadinessCheck(ctx, client, keyIn); vErr != nil {
					return vErr
				} else if !proceed {
					return nil
				}
			}

			root, err := acquireOutputRoot(ctx, store, outputDir)
			if errors.Is(err, common.ErrRunAbandoned) {
				// Declined prompt abandons the run with no results recorded.
				return nil
			}
			if err != nil {
				return err
			}

			var priorResults []model.WriteResult
			if retry {
				priorResults, err = loadLastRun(ctx, store)
				if err != nil {
					return err
				}
				if len(priorResults) == 0 {
					fmt.Println(cli.FormatInfo("No previous run to retry."))
					return nil
				}
			}

			printPlan(savePlan, root.Path())

			session := export.NewSession(client, root)
			summary, err := session.Run(ctx, savePlan, export.Options{
				Format:                  exportFormat,
				ListingType:             lt,
				Retry:                   retry,
				PriorResults:            priorResults,
				ExpectedTemplateVersion: templateVersion,
				ShowProgressBar:         true,
				OnProgress: func(index, total int, entry model.SavePlanEntry) {
					fmt.Println(cli.SubtleStyle.Render(fmt.Sprintf("[%d/%d] %s", index, total, entry.TargetFilename)))
				},
			})
			if err != nil {
				return err
			}

			if err := saveLastRun(ctx, store, summary.Results); err != nil {
				return err
			}

			printResults(summary)
			return nil
		},
	}

	cmd.Flags().Int64Var(&manufacturerID, "manufacturer", 0, "manufacturer id (required)")
	cmd.Flags().StringVar(&itemList, "items", "", "comma-separated item ids (interactive picker when omitted)")
	cmd.Flags().StringVar(&format, "format", string(model.FormatXLSX), "artifact format (xlsx, xls, csv)")
	cmd.Flags().StringVar(&listingType, "listing-type", string(model.ListingTypeSingleRow), "listing type (single-row, parent-child)")
	cmd.Flags().StringVar(&marketplace, "marketplace", "", "marketplace name used in folder and file names (default from config)")
	cmd.Flags().StringVar(&outputDir, "output", "", "output root directory (persisted for later runs)")
	cmd.Flags().StringVar(&templateVersion, "template-version", "", "expected template version code on artifacts")
	cmd.Flags().BoolVar(&retry, "retry", false, "re-run only the failed entries of the previous run")
	cmd.Flags().BoolVar(&skipValidation, "skip-validation", false, "skip the pre-export readiness check")
	_ = cmd.MarkFlagRequired("manufacturer")

	return cmd
}

// resolveTemplates prefers the marketplace's default stored template and
// falls back to the config file. The filename template may be empty, in
// which case the plan builder's default naming applies.
func resolveTemplates(ctx context.Context, store *storage.SQLiteStorage, marketplace string) (folder, filename string, err error) {
	if marketplace != "" {
		tmpl, err := store.GetDefaultExportTemplate(ctx, marketplace)
		if err == nil {
			return tmpl.FolderTemplate, tmpl.FilenameTemplate, nil
		}
		if !errors.Is(err, common.ErrNotFound) {
			return "", "", err
		}
	}
	return viper.GetString("export.folder_template"), viper.GetString("export.filename_template"), nil
}

// runReadinessCheck reports whether the export should proceed.
func runReadinessCheck(ctx context.Context, client service.Validator, in validation.KeyInput) (bool, error) {
	cache := validation.NewCache(client, validationTTL())
	report, err := cache.GetReport(ctx, in)
	if err != nil {
		return false, err
	}

	printReport(report)
	if report.Status == model.ReportErrors {
		fmt.Println(cli.FormatError("Export blocked; fix the errors above or pass --skip-validation."))
		return false, nil
	}
	return true, nil
}

// acquireOutputRoot returns the root to write under, or ErrRunAbandoned
// when the user declined the prompt.
func acquireOutputRoot(ctx context.Context, store *storage.SQLiteStorage, flagDir string) (*localdir.Root, error) {
	if flagDir != "" {
		root, err := localdir.Open(flagDir)
		if err != nil {
			return nil, err
		}
		if err := root.Persist(ctx, store); err != nil {
			return nil, err
		}
		return root, nil
	}

	root, err := localdir.Load(ctx, store)
	if err != nil {
		return nil, err
	}
	if root != nil {
		return root, nil
	}

	// No persisted root yet: offer the configured (or conventional) default.
	candidate := common.ExpandPath(viper.GetString("export.root"))
	if candidate == "" {
		candidate = "./exports"
	}

	ok, err := cli.Confirm(ctx, os.Stdin, os.Stdout, fmt.Sprintf("Save exports under %q?", candidate))
	if err != nil || !ok {
		return nil, common.ErrRunAbandoned
	}

	root, err = localdir.Open(candidate)
	if err != nil {
		return nil, err
	}
	if err := root.Persist(ctx, store); err != nil {
		return nil, err
	}
	return root, nil
}

func loadLastRun(ctx context.Context, store *storage.SQLiteStorage) ([]model.WriteResult, error) {
	raw, err := store.GetSetting(ctx, lastRunKey)
	if err != nil {
		return nil, err
	}
	if raw == "" {
		return nil, nil
	}

	var results []model.WriteResult
	if err := json.Unmarshal([]byte(raw), &results); err != nil {
		return nil, fmt.Errorf("failed to decode previous run results: %w", err)
	}
	return results, nil
}

func saveLastRun(ctx context.Context, store *storage.SQLiteStorage, results []model.WriteResult) error {
	raw, err := json.Marshal(results)
	if err != nil {
		return fmt.Errorf("failed to encode run results: %w", err)
	}
	return store.SetSetting(ctx, lastRunKey, string(raw))
}

func printPlan(p *model.SavePlan, rootPath string) {
	fmt.Println(cli.FormatTitle(fmt.Sprintf("%s Export plan (%s)", cli.SheetIcon, p.Kind)))
	for _, entry := range p.Entries() {
		fmt.Printf("  %s %s (%d items)\n",
			cli.SubtleStyle.Render(entry.TargetFolder+"/"),
			entry.TargetFilename,
			len(entry.MemberItemIDs))
	}
	fmt.Println(cli.SubtleStyle.Render("Output root: " + rootPath))
	fmt.Println()
}

func printResults(summary *export.Summary) {
	fmt.Println()

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)

	fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
		cli.BoldStyle.Render("File"),
		cli.BoldStyle.Render("Write"),
		cli.BoldStyle.Render("Verified"),
		cli.BoldStyle.Render("Detail"))
	fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
		strings.Repeat("-", 36),
		strings.Repeat("-", 7),
		strings.Repeat("-", 8),
		strings.Repeat("-", 30))

	for _, r := range summary.Results {
		write := cli.SuccessStyle.Render(string(r.Status))
		detail := ""
		if r.Status == model.StatusFailed {
			write = cli.ErrorStyle.Render(string(r.Status))
			detail = r.ErrorMessage
		}

		verified := cli.SuccessStyle.Render("yes")
		if r.Status == model.StatusFailed {
			verified = cli.SubtleStyle.Render("-")
		} else if !r.Verified {
			verified = cli.WarningStyle.Render("no")
			detail = r.VerificationReason
		}

		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", r.Filename, write, verified, detail)
	}
	_ = w.Flush()

	fmt.Println()
	if summary.AllSucceeded() {
		fmt.Println(cli.FormatSuccess("Export " + summary.String()))
	} else {
		fmt.Println(cli.FormatWarning("Export " + summary.String() + "; re-run with --retry to reprocess failures"))
	}
}
