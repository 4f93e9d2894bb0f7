package validation

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kelderman/listforge/internal/model"
)

// countingValidator returns a fresh report on every call and counts calls.
type countingValidator struct {
	calls int
}

func (v *countingValidator) Validate(_ context.Context, _ []int64, _ model.ListingType) (*model.ValidationReport, error) {
	v.calls++
	return &model.ValidationReport{Status: model.ReportReady}, nil
}

func TestDeriveKey(t *testing.T) {
	t.Run("item order does not matter", func(t *testing.T) {
		a := DeriveKey(KeyInput{ManufacturerID: 1, ItemIDs: []int64{3, 1, 2}, ListingType: model.ListingTypeSingleRow})
		b := DeriveKey(KeyInput{ManufacturerID: 1, ItemIDs: []int64{1, 2, 3}, ListingType: model.ListingTypeSingleRow})
		assert.Equal(t, a, b)
	})

	t.Run("listing type changes the key", func(t *testing.T) {
		a := DeriveKey(KeyInput{ItemIDs: []int64{1}, ListingType: model.ListingTypeSingleRow})
		b := DeriveKey(KeyInput{ItemIDs: []int64{1}, ListingType: model.ListingTypeParentChild})
		assert.NotEqual(t, a, b)
	})

	t.Run("selection changes the key", func(t *testing.T) {
		a := DeriveKey(KeyInput{ItemIDs: []int64{1, 2}, ListingType: model.ListingTypeSingleRow})
		b := DeriveKey(KeyInput{ItemIDs: []int64{1, 3}, ListingType: model.ListingTypeSingleRow})
		assert.NotEqual(t, a, b)
	})
}

func TestSeriesForSelection(t *testing.T) {
	items := []model.CatalogItem{
		{ID: 100, SeriesID: 10},
		{ID: 101, SeriesID: 10},
		{ID: 102, SeriesID: 11},
	}

	t.Run("single series", func(t *testing.T) {
		assert.Equal(t, int64(10), SeriesForSelection(items, []int64{100, 101}))
	})

	t.Run("spanning series", func(t *testing.T) {
		assert.Zero(t, SeriesForSelection(items, []int64{100, 102}))
	})

	t.Run("unknown item", func(t *testing.T) {
		assert.Zero(t, SeriesForSelection(items, []int64{100, 999}))
	})

	t.Run("empty selection", func(t *testing.T) {
		assert.Zero(t, SeriesForSelection(items, nil))
	})
}

func TestCacheHitWithinTTL(t *testing.T) {
	ctx := context.Background()
	validator := &countingValidator{}

	now := time.Unix(1000, 0)
	cache := NewCache(validator, time.Minute)
	cache.now = func() time.Time { return now }

	in := KeyInput{ManufacturerID: 1, ItemIDs: []int64{1, 2}, ListingType: model.ListingTypeSingleRow}

	first, err := cache.GetReport(ctx, in)
	require.NoError(t, err)

	now = now.Add(30 * time.Second)
	second, err := cache.GetReport(ctx, in)
	require.NoError(t, err)

	assert.Same(t, first, second, "within the TTL the identical report object is returned")
	assert.Equal(t, 1, validator.calls)
}

func TestCacheMissAfterTTL(t *testing.T) {
	ctx := context.Background()
	validator := &countingValidator{}

	now := time.Unix(1000, 0)
	cache := NewCache(validator, time.Minute)
	cache.now = func() time.Time { return now }

	in := KeyInput{ItemIDs: []int64{1}, ListingType: model.ListingTypeSingleRow}

	first, err := cache.GetReport(ctx, in)
	require.NoError(t, err)

	now = now.Add(time.Minute) // exactly at the TTL boundary is expired
	second, err := cache.GetReport(ctx, in)
	require.NoError(t, err)

	assert.NotSame(t, first, second)
	assert.Equal(t, 2, validator.calls)
}

func TestCacheMissOnKeyChange(t *testing.T) {
	ctx := context.Background()
	validator := &countingValidator{}
	cache := NewCache(validator, time.Minute)

	_, err := cache.GetReport(ctx, KeyInput{ItemIDs: []int64{1}, ListingType: model.ListingTypeSingleRow})
	require.NoError(t, err)

	_, err = cache.GetReport(ctx, KeyInput{ItemIDs: []int64{1, 2}, ListingType: model.ListingTypeSingleRow})
	require.NoError(t, err)

	assert.Equal(t, 2, validator.calls)

	// The older key was evicted: only one entry lives at a time.
	_, err = cache.GetReport(ctx, KeyInput{ItemIDs: []int64{1}, ListingType: model.ListingTypeSingleRow})
	require.NoError(t, err)
	assert.Equal(t, 3, validator.calls)
}

func TestCacheInvalidate(t *testing.T) {
	ctx := context.Background()
	validator := &countingValidator{}
	cache := NewCache(validator, time.Minute)

	in := KeyInput{ItemIDs: []int64{1}, ListingType: model.ListingTypeSingleRow}

	_, err := cache.GetReport(ctx, in)
	require.NoError(t, err)

	cache.Invalidate()

	_, err = cache.GetReport(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, 2, validator.calls)
}

func TestCacheDefaultTTL(t *testing.T) {
	cache := NewCache(&countingValidator{}, 0)
	assert.Equal(t, DefaultTTL, cache.ttl)
}
