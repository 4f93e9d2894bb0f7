// Package validation memoizes the backend's pre-export readiness report so
// repeated checks of an unchanged selection do not hit the backend again.
package validation

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/kelderman/listforge/internal/model"
	"github.com/kelderman/listforge/internal/service"
)

// DefaultTTL bounds how long a cached report stays fresh.
const DefaultTTL = 60 * time.Second

// KeyInput identifies one distinct validation request.
type KeyInput struct {
	ListingType    model.ListingType
	ItemIDs        []int64
	ManufacturerID int64
	SeriesID       int64
}

// DeriveKey renders a stable cache key: item ids are sorted so selection
// order does not defeat the cache.
func DeriveKey(in KeyInput) string {
	ids := append([]int64(nil), in.ItemIDs...)
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	parts := make([]string, 0, len(ids))
	for _, id := range ids {
		parts = append(parts, fmt.Sprintf("%d", id))
	}

	return fmt.Sprintf("%d|%d|%s|%s", in.ManufacturerID, in.SeriesID, in.ListingType, strings.Join(parts, ","))
}

// SeriesForSelection returns the series every selected item belongs to, or
// zero when the selection spans series or contains unknown items.
func SeriesForSelection(items []model.CatalogItem, itemIDs []int64) int64 {
	bySeries := make(map[int64]int64, len(items))
	for _, it := range items {
		bySeries[it.ID] = it.SeriesID
	}

	var sid int64
	for i, id := range itemIDs {
		s := bySeries[id]
		if i == 0 {
			sid = s
			continue
		}
		if s != sid {
			return 0
		}
	}
	return sid
}

// Cache holds at most one validation report at a time. A fresh fetch always
// overwrites the live entry, even for the same key.
type Cache struct {
	validator service.Validator
	now       func() time.Time
	report    *model.ValidationReport
	key       string
	cachedAt  time.Time
	ttl       time.Duration
	mu        sync.Mutex
}

// NewCache creates a cache backed by the given validator. A non-positive
// ttl falls back to DefaultTTL.
func NewCache(validator service.Validator, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache{
		validator: validator,
		ttl:       ttl,
		now:       time.Now,
	}
}

// GetReport returns the readiness report for the request, reusing the live
// entry when the derived key matches and the entry is younger than the TTL.
// Any miss fetches fresh and replaces the entry wholesale.
func (c *Cache) GetReport(ctx context.Context, in KeyInput) (*model.ValidationReport, error) {
	key := DeriveKey(in)

	c.mu.Lock()
	if c.report != nil && c.key == key && c.now().Sub(c.cachedAt) < c.ttl {
		report := c.report
		c.mu.Unlock()
		return report, nil
	}
	c.mu.Unlock()

	report, err := c.validator.Validate(ctx, in.ItemIDs, in.ListingType)
	if err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	c.mu.Lock()
	c.report = report
	c.key = key
	c.cachedAt = c.now()
	c.mu.Unlock()

	return report, nil
}

// Invalidate empties the cache regardless of TTL.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	c.report = nil
	c.key = ""
	c.mu.Unlock()
}
