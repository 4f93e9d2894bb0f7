package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/kelderman/listforge/internal/common"
	"github.com/kelderman/listforge/internal/model"
)

// GetShippingDefaults returns all shipping defaults ordered by region.
func (s *SQLiteStorage) GetShippingDefaults(ctx context.Context) ([]model.ShippingDefault, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	query := `
		SELECT id, region, carrier, service, flat_cost
		FROM shipping_defaults
		ORDER BY region`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query shipping defaults: %w", err)
	}
	defer rows.Close()

	var defaults []model.ShippingDefault
	for rows.Next() {
		var d model.ShippingDefault
		if err := rows.Scan(&d.ID, &d.Region, &d.Carrier, &d.Service, &d.FlatCost); err != nil {
			return nil, fmt.Errorf("failed to scan shipping default: %w", err)
		}
		defaults = append(defaults, d)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating shipping defaults: %w", err)
	}

	return defaults, nil
}

// UpsertShippingDefault creates or replaces the default for a region.
// Regions are unique; a second write for the same region overwrites it.
func (s *SQLiteStorage) UpsertShippingDefault(ctx context.Context, d *model.ShippingDefault) (*model.ShippingDefault, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if d == nil {
		return nil, fmt.Errorf("%w: shipping default", ErrNilParameter)
	}
	if strings.TrimSpace(d.Region) == "" {
		return nil, fmt.Errorf("%w: region", ErrEmptyString)
	}
	if d.FlatCost < 0 {
		return nil, fmt.Errorf("flat cost cannot be negative")
	}

	query := `
		INSERT INTO shipping_defaults (region, carrier, service, flat_cost)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(region) DO UPDATE SET
			carrier = excluded.carrier,
			service = excluded.service,
			flat_cost = excluded.flat_cost`

	if _, err := s.db.ExecContext(ctx, query, d.Region, d.Carrier, d.Service, d.FlatCost); err != nil {
		return nil, fmt.Errorf("failed to upsert shipping default: %w", err)
	}

	var saved model.ShippingDefault
	err := s.db.QueryRowContext(ctx,
		`SELECT id, region, carrier, service, flat_cost FROM shipping_defaults WHERE region = ?`, d.Region,
	).Scan(&saved.ID, &saved.Region, &saved.Carrier, &saved.Service, &saved.FlatCost)
	if err != nil {
		return nil, fmt.Errorf("failed to read back shipping default: %w", err)
	}

	slog.Info("saved shipping default", "region", saved.Region, "carrier", saved.Carrier)
	return &saved, nil
}

// DeleteShippingDefault removes the default for a region.
func (s *SQLiteStorage) DeleteShippingDefault(ctx context.Context, id int64) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, `DELETE FROM shipping_defaults WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete shipping default: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: shipping default %d", common.ErrNotFound, id)
	}

	return nil
}

// GetShippingDefaultByRegion returns the default for a region, or ErrNotFound.
func (s *SQLiteStorage) GetShippingDefaultByRegion(ctx context.Context, region string) (*model.ShippingDefault, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(region, "region"); err != nil {
		return nil, err
	}

	var d model.ShippingDefault
	err := s.db.QueryRowContext(ctx,
		`SELECT id, region, carrier, service, flat_cost FROM shipping_defaults WHERE region = ?`, region,
	).Scan(&d.ID, &d.Region, &d.Carrier, &d.Service, &d.FlatCost)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: shipping default for %q", common.ErrNotFound, region)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query shipping default: %w", err)
	}

	return &d, nil
}
