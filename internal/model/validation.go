package model

// ReportStatus classifies a pre-export readiness report.
type ReportStatus string

const (
	// ReportReady means every selected item can be exported as-is.
	ReportReady ReportStatus = "ready"
	// ReportWarnings means the export can proceed but some items have issues.
	ReportWarnings ReportStatus = "warnings"
	// ReportErrors means the export is blocked until issues are fixed.
	ReportErrors ReportStatus = "errors"
)

// IssueSeverity grades a single validation issue.
type IssueSeverity string

const (
	// SeverityWarning flags a non-blocking issue.
	SeverityWarning IssueSeverity = "warning"
	// SeverityError flags a blocking issue.
	SeverityError IssueSeverity = "error"
)

// ValidationIssue is one per-item finding in a readiness report.
type ValidationIssue struct {
	Severity IssueSeverity `json:"severity"`
	Message  string        `json:"message"`
	ItemID   int64         `json:"item_id"`
}

// ValidationReport is the backend's pre-export readiness verdict for a
// selection and listing type.
type ValidationReport struct {
	Status       ReportStatus      `json:"status"`
	Issues       []ValidationIssue `json:"issues"`
	ErrorCount   int               `json:"error_count"`
	WarningCount int               `json:"warning_count"`
}
