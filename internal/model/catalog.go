// Package model defines the core domain types shared across the application.
package model

// Manufacturer is a top-level catalog grouping (brand/maker).
type Manufacturer struct {
	Name string
	ID   int64
}

// Series is a product line belonging to a manufacturer.
type Series struct {
	Name           string
	ID             int64
	ManufacturerID int64
}

// CatalogItem is a single sellable product. Items are immutable once
// loaded from the backend; they live for the duration of one command.
type CatalogItem struct {
	Name     string
	SKU      string
	ID       int64
	SeriesID int64
}

// ListingType selects the output layout of a generated spreadsheet.
type ListingType string

const (
	// ListingTypeSingleRow emits one row per item.
	ListingTypeSingleRow ListingType = "single-row"
	// ListingTypeParentChild emits grouped parent/child rows per series.
	ListingTypeParentChild ListingType = "parent-child"
)

// Valid reports whether lt is a known listing type.
func (lt ListingType) Valid() bool {
	return lt == ListingTypeSingleRow || lt == ListingTypeParentChild
}

// ExportFormat is the file format of a generated export artifact.
type ExportFormat string

const (
	// FormatXLSX is the modern Excel workbook format.
	FormatXLSX ExportFormat = "xlsx"
	// FormatXLS is the legacy Excel workbook format.
	FormatXLS ExportFormat = "xls"
	// FormatCSV is plain comma-separated values.
	FormatCSV ExportFormat = "csv"
)

// Valid reports whether f is a supported export format.
func (f ExportFormat) Valid() bool {
	return f == FormatXLSX || f == FormatXLS || f == FormatCSV
}

// Extension returns the file extension for the format, including the dot.
func (f ExportFormat) Extension() string {
	return "." + string(f)
}
