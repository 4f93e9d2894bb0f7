package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kelderman/listforge/internal/common"
	"github.com/kelderman/listforge/internal/model"
)

// createTestStorage creates a migrated storage backed by a temp database.
func createTestStorage(t *testing.T) (*SQLiteStorage, func()) {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	store, err := NewSQLiteStorage(dbPath)
	require.NoError(t, err)

	require.NoError(t, store.Migrate(context.Background()))

	return store, func() { _ = store.Close() }
}

func TestMigrateIsIdempotent(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()

	require.NoError(t, store.Migrate(context.Background()))

	var version int
	err := store.db.QueryRowContext(context.Background(), "PRAGMA user_version").Scan(&version)
	require.NoError(t, err)
	assert.Equal(t, ExpectedSchemaVersion, version)
}

func TestMaterialCRUD(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	created, err := store.CreateMaterial(ctx, &model.Material{
		Name:     "Birch Plywood 6mm",
		SKU:      "PLY-6",
		Unit:     "sheet",
		UnitCost: 14.50,
	})
	require.NoError(t, err)
	assert.NotZero(t, created.ID)
	assert.True(t, created.Active)
	assert.False(t, created.CreatedAt.IsZero())

	fetched, err := store.GetMaterialByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Birch Plywood 6mm", fetched.Name)
	assert.Equal(t, 14.50, fetched.UnitCost)

	fetched.UnitCost = 15.25
	require.NoError(t, store.UpdateMaterial(ctx, fetched))

	updated, err := store.GetMaterialByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, 15.25, updated.UnitCost)

	materials, err := store.GetMaterials(ctx)
	require.NoError(t, err)
	assert.Len(t, materials, 1)

	require.NoError(t, store.DeleteMaterial(ctx, created.ID))

	// Soft delete hides the row from reads.
	_, err = store.GetMaterialByID(ctx, created.ID)
	assert.ErrorIs(t, err, common.ErrNotFound)

	materials, err = store.GetMaterials(ctx)
	require.NoError(t, err)
	assert.Empty(t, materials)
}

func TestMaterialDefaultsUnit(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()

	created, err := store.CreateMaterial(context.Background(), &model.Material{
		Name:     "Wood Glue",
		SKU:      "GLU-1",
		UnitCost: 4.20,
	})
	require.NoError(t, err)
	assert.Equal(t, "ea", created.Unit)
}

func TestMaterialDuplicateSKU(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	_, err := store.CreateMaterial(ctx, &model.Material{Name: "Plywood", SKU: "PLY-6", UnitCost: 14.50})
	require.NoError(t, err)

	_, err = store.CreateMaterial(ctx, &model.Material{Name: "Plywood B-grade", SKU: "PLY-6", UnitCost: 9.00})
	assert.ErrorIs(t, err, common.ErrDuplicateEntry)
}

func TestMaterialValidation(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	_, err := store.CreateMaterial(ctx, nil)
	assert.ErrorIs(t, err, ErrNilParameter)

	_, err = store.CreateMaterial(ctx, &model.Material{SKU: "X"})
	assert.ErrorIs(t, err, ErrInvalidMaterial)

	_, err = store.CreateMaterial(ctx, &model.Material{Name: "X", SKU: "X", UnitCost: -1})
	assert.ErrorIs(t, err, ErrInvalidMaterial)
}

func TestSupplierCRUD(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	created, err := store.CreateSupplier(ctx, &model.Supplier{
		Name:         "Nordic Timber",
		ContactEmail: "orders@nordictimber.example",
		LeadTimeDays: 5,
	})
	require.NoError(t, err)
	assert.NotZero(t, created.ID)

	created.LeadTimeDays = 7
	require.NoError(t, store.UpdateSupplier(ctx, created))

	fetched, err := store.GetSupplierByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, 7, fetched.LeadTimeDays)

	require.NoError(t, store.DeleteSupplier(ctx, created.ID))
	_, err = store.GetSupplierByID(ctx, created.ID)
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestPricingRulePriority(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	_, err := store.CreatePricingRule(ctx, &model.PricingRule{
		Name:          "Baseline",
		MarginPercent: 30,
		Priority:      1,
	})
	require.NoError(t, err)

	seasonal, err := store.CreatePricingRule(ctx, &model.PricingRule{
		Name:          "Seasonal",
		MarginPercent: 45,
		RoundTo:       0.5,
		Priority:      10,
	})
	require.NoError(t, err)

	rules, err := store.GetPricingRules(ctx)
	require.NoError(t, err)
	require.Len(t, rules, 2)
	assert.Equal(t, "Seasonal", rules[0].Name)

	active, err := store.ActivePricingRule(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Seasonal", active.Name)

	require.NoError(t, store.DeletePricingRule(ctx, seasonal.ID))

	active, err = store.ActivePricingRule(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Baseline", active.Name)
}

func TestActivePricingRuleEmpty(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()

	_, err := store.ActivePricingRule(context.Background())
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestShippingDefaultUpsert(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	first, err := store.UpsertShippingDefault(ctx, &model.ShippingDefault{
		Region:   "EU",
		Carrier:  "DHL",
		Service:  "Standard",
		FlatCost: 6.90,
	})
	require.NoError(t, err)

	// A second write for the same region overwrites, not duplicates.
	second, err := store.UpsertShippingDefault(ctx, &model.ShippingDefault{
		Region:   "EU",
		Carrier:  "PostNord",
		Service:  "Express",
		FlatCost: 9.90,
	})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "PostNord", second.Carrier)

	defaults, err := store.GetShippingDefaults(ctx)
	require.NoError(t, err)
	assert.Len(t, defaults, 1)

	byRegion, err := store.GetShippingDefaultByRegion(ctx, "EU")
	require.NoError(t, err)
	assert.Equal(t, 9.90, byRegion.FlatCost)

	require.NoError(t, store.DeleteShippingDefault(ctx, second.ID))
	_, err = store.GetShippingDefaultByRegion(ctx, "EU")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestExportTemplateDefaultFlag(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	first, err := store.CreateExportTemplate(ctx, &model.ExportTemplate{
		Marketplace:      "BigMarket",
		FolderTemplate:   "[Marketplace]/[Manufacturer_Name]",
		FilenameTemplate: "[Series_Name]",
		ListingType:      model.ListingTypeSingleRow,
		IsDefault:        true,
	})
	require.NoError(t, err)

	// Marking a second template default clears the first one's flag.
	second, err := store.CreateExportTemplate(ctx, &model.ExportTemplate{
		Marketplace:      "BigMarket",
		FolderTemplate:   "[Marketplace]/[Manufacturer_Name]/[Series_Name]",
		FilenameTemplate: "[Series_Name]",
		ListingType:      model.ListingTypeParentChild,
		IsDefault:        true,
	})
	require.NoError(t, err)

	def, err := store.GetDefaultExportTemplate(ctx, "BigMarket")
	require.NoError(t, err)
	assert.Equal(t, second.ID, def.ID)

	templates, err := store.GetExportTemplates(ctx)
	require.NoError(t, err)
	require.Len(t, templates, 2)

	for _, tpl := range templates {
		if tpl.ID == first.ID {
			assert.False(t, tpl.IsDefault)
		}
	}

	// Defaults are scoped per marketplace.
	_, err = store.GetDefaultExportTemplate(ctx, "OtherMarket")
	assert.ErrorIs(t, err, common.ErrNotFound)

	require.NoError(t, store.DeleteExportTemplate(ctx, second.ID))
	_, err = store.GetDefaultExportTemplate(ctx, "BigMarket")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestExportTemplateValidation(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()

	_, err := store.CreateExportTemplate(context.Background(), &model.ExportTemplate{
		Marketplace:    "BigMarket",
		FolderTemplate: "[Marketplace]",
		ListingType:    model.ListingType("grouped"),
	})
	assert.ErrorIs(t, err, ErrInvalidTemplate)

	// Filename templates name a single file; separators belong in the
	// folder template.
	_, err = store.CreateExportTemplate(context.Background(), &model.ExportTemplate{
		Marketplace:      "BigMarket",
		FolderTemplate:   "[Marketplace]",
		FilenameTemplate: "[Series_Name]/listings",
		ListingType:      model.ListingTypeSingleRow,
	})
	assert.ErrorIs(t, err, ErrInvalidTemplate)
}

func TestSettingsRoundtrip(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	// Missing keys read as empty, not as an error.
	value, err := store.GetSetting(ctx, "export.output_root")
	require.NoError(t, err)
	assert.Empty(t, value)

	require.NoError(t, store.SetSetting(ctx, "export.output_root", "/srv/exports"))

	value, err = store.GetSetting(ctx, "export.output_root")
	require.NoError(t, err)
	assert.Equal(t, "/srv/exports", value)

	// Setting the same key again overwrites.
	require.NoError(t, store.SetSetting(ctx, "export.output_root", "/mnt/exports"))

	value, err = store.GetSetting(ctx, "export.output_root")
	require.NoError(t, err)
	assert.Equal(t, "/mnt/exports", value)
}

func TestUpdateMissingRowsReturnNotFound(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	err := store.UpdateMaterial(ctx, &model.Material{ID: 999, Name: "X", SKU: "X"})
	assert.ErrorIs(t, err, common.ErrNotFound)

	err = store.UpdateSupplier(ctx, &model.Supplier{ID: 999, Name: "X"})
	assert.ErrorIs(t, err, common.ErrNotFound)

	err = store.DeletePricingRule(ctx, 999)
	assert.ErrorIs(t, err, common.ErrNotFound)
}
