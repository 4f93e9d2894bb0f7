package model

import "time"

// Material is a raw input tracked for costing.
type Material struct {
	CreatedAt time.Time
	Name      string
	SKU       string
	Unit      string
	UnitCost  float64
	ID        int64
	Active    bool
}

// Supplier is a vendor we buy materials from.
type Supplier struct {
	CreatedAt    time.Time
	Name         string
	ContactEmail string
	ID           int64
	LeadTimeDays int
	Active       bool
}

// PricingRule turns a unit cost into a listing price. Rules are applied by
// descending priority; the first active rule wins.
type PricingRule struct {
	CreatedAt     time.Time
	Name          string
	MarginPercent float64
	RoundTo       float64
	ID            int64
	Priority      int
	Active        bool
}

// Apply computes the listing price for a unit cost: margin first, then
// rounding up to the configured increment (a RoundTo of 0 skips rounding).
func (r *PricingRule) Apply(cost float64) float64 {
	price := cost * (1 + r.MarginPercent/100)
	if r.RoundTo > 0 {
		steps := price / r.RoundTo
		whole := float64(int64(steps))
		if steps > whole {
			whole++
		}
		price = whole * r.RoundTo
	}
	return price
}

// ShippingDefault is the default carrier/service/cost for a region.
type ShippingDefault struct {
	Region   string
	Carrier  string
	Service  string
	FlatCost float64
	ID       int64
}

// ExportTemplate holds the folder and filename templates used when saving
// export artifacts for a marketplace.
type ExportTemplate struct {
	CreatedAt        time.Time
	Marketplace      string
	FolderTemplate   string
	FilenameTemplate string
	ListingType      ListingType
	ID               int64
	IsDefault        bool
}
