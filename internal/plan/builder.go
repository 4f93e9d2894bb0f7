// Package plan computes the save plan for an export run: which files get
// written, where, and which catalog items each file covers.
package plan

import (
	"fmt"
	"sort"

	"github.com/kelderman/listforge/internal/model"
	"github.com/kelderman/listforge/internal/naming"
)

// MultiSeriesLabel is what the series token resolves to in a multi plan's
// master entry.
const MultiSeriesLabel = "Multi-Series"

// unknownName is the fallback when a manufacturer or series lookup misses.
// Degraded naming is preferable to refusing the export.
const unknownName = "Unknown"

// BuildInput carries everything Build needs. All slices are read-only.
type BuildInput struct {
	BaseFolderTemplate string
	// FilenameTemplate, when set, overrides the default
	// marketplace-manufacturer-series filename. It resolves with the same
	// substitutions as the folder template and must not contain path
	// separators.
	FilenameTemplate string
	Marketplace      string
	ManufacturerID   int64
	SelectedItemIDs  []int64
	Items            []model.CatalogItem
	Series           []model.Series
	Manufacturers    []model.Manufacturer
}

// ChildKey returns the stable entry key for a series child. Keys are a pure
// function of the series id so retry matching survives plan rebuilds.
func ChildKey(seriesID int64) string {
	return fmt.Sprintf("series-%d", seriesID)
}

// Build computes the save plan for the current selection. It returns nil
// when no plan is computable: no manufacturer chosen, empty selection, or
// no base folder template configured. Build never fails; missing name
// lookups degrade to "Unknown".
func Build(in BuildInput) *model.SavePlan {
	if in.ManufacturerID == 0 || len(in.SelectedItemIDs) == 0 || in.BaseFolderTemplate == "" {
		return nil
	}

	mfrName := unknownName
	for _, m := range in.Manufacturers {
		if m.ID == in.ManufacturerID {
			mfrName = m.Name
			break
		}
	}

	seriesNames := make(map[int64]string, len(in.Series))
	for _, s := range in.Series {
		seriesNames[s.ID] = s.Name
	}

	itemSeries := make(map[int64]int64, len(in.Items))
	for _, it := range in.Items {
		itemSeries[it.ID] = it.SeriesID
	}

	// Partition the selection by owning series. Items the catalog does not
	// know land in series 0 and still export under an "Unknown" child.
	members := make(map[int64][]int64)
	for _, id := range in.SelectedItemIDs {
		sid := itemSeries[id]
		members[sid] = append(members[sid], id)
	}

	involved := make([]int64, 0, len(members))
	for sid := range members {
		involved = append(involved, sid)
	}
	sort.Slice(involved, func(i, j int) bool { return involved[i] < involved[j] })

	if len(involved) == 1 {
		name := seriesName(seriesNames, involved[0])
		return &model.SavePlan{
			Kind: model.PlanSingle,
			Master: model.SavePlanEntry{
				Key:            model.MasterEntryKey,
				TargetFolder:   resolveFolder(in, mfrName, name),
				TargetFilename: buildFilename(in, mfrName, name),
				MemberItemIDs:  append([]int64(nil), in.SelectedItemIDs...),
			},
		}
	}

	p := &model.SavePlan{
		Kind: model.PlanMulti,
		Master: model.SavePlanEntry{
			Key:          model.MasterEntryKey,
			TargetFolder: resolveFolder(in, mfrName, MultiSeriesLabel),
			// The master filename spells the label with an underscore.
			TargetFilename: buildFilename(in, mfrName, "Multi Series"),
			MemberItemIDs:  append([]int64(nil), in.SelectedItemIDs...),
		},
		Children: make([]model.SavePlanEntry, 0, len(involved)),
	}

	for _, sid := range involved {
		name := seriesName(seriesNames, sid)
		p.Children = append(p.Children, model.SavePlanEntry{
			Key:            ChildKey(sid),
			TargetFolder:   resolveFolder(in, mfrName, name),
			TargetFilename: buildFilename(in, mfrName, name),
			MemberItemIDs:  members[sid],
		})
	}

	return p
}

func seriesName(names map[int64]string, id int64) string {
	if n, ok := names[id]; ok {
		return n
	}
	return unknownName
}

func resolveFolder(in BuildInput, mfrName, seriesName string) string {
	return naming.Resolve(in.BaseFolderTemplate, naming.Substitutions{
		Manufacturer: mfrName,
		Series:       seriesName,
		Marketplace:  in.Marketplace,
	})
}

// buildFilename renders an entry's filename. A configured filename
// template wins; otherwise the marketplace-manufacturer-series default
// applies. The run forces the extension to the chosen format later, so
// .xlsx here is only the at-rest default.
func buildFilename(in BuildInput, mfrName, seriesName string) string {
	if in.FilenameTemplate != "" {
		resolved := naming.Resolve(in.FilenameTemplate, naming.Substitutions{
			Manufacturer: mfrName,
			Series:       seriesName,
			Marketplace:  in.Marketplace,
		})
		return naming.SafeName(resolved) + ".xlsx"
	}

	return fmt.Sprintf("%s-%s-%s.xlsx",
		naming.SafeName(in.Marketplace),
		naming.SafeName(mfrName),
		naming.SafeName(seriesName))
}
