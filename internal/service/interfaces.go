// Package service defines the interfaces for all application services.
package service

import (
	"context"
	"time"

	"github.com/kelderman/listforge/internal/model"
)

// Artifact is one generated export payload plus the response metadata the
// backend attaches to it. Header values are surfaced untouched; any of them
// may be empty when the backend omits the header.
type Artifact struct {
	ContentType     string
	Signature       string
	TemplateVersion string
	Bytes           []byte
}

// CatalogReader lists the catalog hierarchy from the backend.
type CatalogReader interface {
	GetManufacturers(ctx context.Context) ([]model.Manufacturer, error)
	GetSeries(ctx context.Context, manufacturerID int64) ([]model.Series, error)
	GetItems(ctx context.Context, seriesID int64) ([]model.CatalogItem, error)
	GetItemsForManufacturer(ctx context.Context, manufacturerID int64) ([]model.CatalogItem, error)
}

// ArtifactFetcher requests generated export artifacts from the backend.
type ArtifactFetcher interface {
	FetchArtifact(ctx context.Context, format model.ExportFormat, itemIDs []int64, listingType model.ListingType) (*Artifact, error)
}

// Validator runs the backend's pre-export readiness check.
type Validator interface {
	Validate(ctx context.Context, itemIDs []int64, listingType model.ListingType) (*model.ValidationReport, error)
}

// OutputRoot is the writable directory export artifacts land in. One root
// is shared by every entry of a run and persisted across runs.
type OutputRoot interface {
	// EnsureDir creates the (possibly nested) folder under the root and
	// returns its absolute path.
	EnsureDir(folder string) (string, error)
	// WriteFile atomically writes data under folder/filename, replacing any
	// existing file, and returns the absolute path written.
	WriteFile(folder, filename string, data []byte) (string, error)
	// Path returns the root's absolute path.
	Path() string
}

// Storage defines the contract for the persistence layer.
type Storage interface {
	// Material operations
	GetMaterials(ctx context.Context) ([]model.Material, error)
	GetMaterialByID(ctx context.Context, id int64) (*model.Material, error)
	CreateMaterial(ctx context.Context, m *model.Material) (*model.Material, error)
	UpdateMaterial(ctx context.Context, m *model.Material) error
	DeleteMaterial(ctx context.Context, id int64) error

	// Supplier operations
	GetSuppliers(ctx context.Context) ([]model.Supplier, error)
	GetSupplierByID(ctx context.Context, id int64) (*model.Supplier, error)
	CreateSupplier(ctx context.Context, s *model.Supplier) (*model.Supplier, error)
	UpdateSupplier(ctx context.Context, s *model.Supplier) error
	DeleteSupplier(ctx context.Context, id int64) error

	// Pricing rule operations
	GetPricingRules(ctx context.Context) ([]model.PricingRule, error)
	CreatePricingRule(ctx context.Context, r *model.PricingRule) (*model.PricingRule, error)
	UpdatePricingRule(ctx context.Context, r *model.PricingRule) error
	DeletePricingRule(ctx context.Context, id int64) error

	// Shipping default operations
	GetShippingDefaults(ctx context.Context) ([]model.ShippingDefault, error)
	UpsertShippingDefault(ctx context.Context, d *model.ShippingDefault) (*model.ShippingDefault, error)
	DeleteShippingDefault(ctx context.Context, id int64) error

	// Export template operations
	GetExportTemplates(ctx context.Context) ([]model.ExportTemplate, error)
	GetDefaultExportTemplate(ctx context.Context, marketplace string) (*model.ExportTemplate, error)
	CreateExportTemplate(ctx context.Context, t *model.ExportTemplate) (*model.ExportTemplate, error)
	UpdateExportTemplate(ctx context.Context, t *model.ExportTemplate) error
	DeleteExportTemplate(ctx context.Context, id int64) error

	// Settings operations
	GetSetting(ctx context.Context, key string) (string, error)
	SetSetting(ctx context.Context, key, value string) error

	// Database management
	Migrate(ctx context.Context) error
	Close() error
}

// RetryOptions configures retry behavior for operations.
type RetryOptions struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}
