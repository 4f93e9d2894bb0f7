package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/kelderman/listforge/internal/model"
)

// Validation errors.
var (
	ErrNilContext      = errors.New("context cannot be nil")
	ErrEmptyString     = errors.New("string parameter cannot be empty")
	ErrNilParameter    = errors.New("parameter cannot be nil")
	ErrInvalidMaterial = errors.New("invalid material")
	ErrInvalidSupplier = errors.New("invalid supplier")
	ErrInvalidRule     = errors.New("invalid pricing rule")
	ErrInvalidTemplate = errors.New("invalid export template")
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

// validateMaterial validates a material before writing it.
func validateMaterial(m *model.Material) error {
	if m == nil {
		return fmt.Errorf("%w: material", ErrNilParameter)
	}
	if strings.TrimSpace(m.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidMaterial)
	}
	if strings.TrimSpace(m.SKU) == "" {
		return fmt.Errorf("%w: sku is required", ErrInvalidMaterial)
	}
	if m.UnitCost < 0 {
		return fmt.Errorf("%w: unit cost cannot be negative", ErrInvalidMaterial)
	}
	return nil
}

// validateSupplier validates a supplier before writing it.
func validateSupplier(s *model.Supplier) error {
	if s == nil {
		return fmt.Errorf("%w: supplier", ErrNilParameter)
	}
	if strings.TrimSpace(s.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidSupplier)
	}
	if s.LeadTimeDays < 0 {
		return fmt.Errorf("%w: lead time cannot be negative", ErrInvalidSupplier)
	}
	return nil
}

// validatePricingRule validates a pricing rule before writing it.
func validatePricingRule(r *model.PricingRule) error {
	if r == nil {
		return fmt.Errorf("%w: rule", ErrNilParameter)
	}
	if strings.TrimSpace(r.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidRule)
	}
	if r.MarginPercent < 0 {
		return fmt.Errorf("%w: margin cannot be negative", ErrInvalidRule)
	}
	if r.RoundTo < 0 {
		return fmt.Errorf("%w: rounding increment cannot be negative", ErrInvalidRule)
	}
	return nil
}

// validateExportTemplate validates an export template before writing it.
func validateExportTemplate(t *model.ExportTemplate) error {
	if t == nil {
		return fmt.Errorf("%w: template", ErrNilParameter)
	}
	if strings.TrimSpace(t.Marketplace) == "" {
		return fmt.Errorf("%w: marketplace is required", ErrInvalidTemplate)
	}
	if strings.TrimSpace(t.FolderTemplate) == "" {
		return fmt.Errorf("%w: folder template is required", ErrInvalidTemplate)
	}
	if strings.ContainsAny(t.FilenameTemplate, `/\`) {
		return fmt.Errorf("%w: filename template cannot contain path separators", ErrInvalidTemplate)
	}
	if !t.ListingType.Valid() {
		return fmt.Errorf("%w: unknown listing type %q", ErrInvalidTemplate, t.ListingType)
	}
	return nil
}
