package model

// PlanKind discriminates the two save-plan shapes.
type PlanKind string

const (
	// PlanSingle covers a selection confined to one series: one output file.
	PlanSingle PlanKind = "single"
	// PlanMulti covers a selection spanning several series: a master file
	// aggregating everything plus one child file per series.
	PlanMulti PlanKind = "multi"
)

// MasterEntryKey is the stable key of the aggregate entry in every plan.
const MasterEntryKey = "master"

// SavePlanEntry describes one file the export run will produce.
type SavePlanEntry struct {
	// Key is stable across rebuilds of the same selection: "master" for the
	// aggregate entry, "series-<id>" for per-series children. Retry matching
	// depends on these keys, so they are never derived from position.
	Key            string
	TargetFolder   string
	TargetFilename string
	MemberItemIDs  []int64
}

// SavePlan is the full set of files an export run will write. Plans are
// immutable; a new plan is built whenever the selection changes.
type SavePlan struct {
	Kind     PlanKind
	Master   SavePlanEntry
	Children []SavePlanEntry
}

// Entries returns the entries to process in run order: the master first,
// then children. A single plan has no children.
func (p *SavePlan) Entries() []SavePlanEntry {
	entries := make([]SavePlanEntry, 0, 1+len(p.Children))
	entries = append(entries, p.Master)
	entries = append(entries, p.Children...)
	return entries
}
