package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/kelderman/listforge/internal/common"
	"github.com/kelderman/listforge/internal/model"
)

// GetSuppliers returns all active suppliers ordered by name.
func (s *SQLiteStorage) GetSuppliers(ctx context.Context) ([]model.Supplier, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	query := `
		SELECT id, name, COALESCE(contact_email, ''), lead_time_days, is_active, created_at
		FROM suppliers
		WHERE is_active = 1
		ORDER BY name`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query suppliers: %w", err)
	}
	defer rows.Close()

	var suppliers []model.Supplier
	for rows.Next() {
		var sup model.Supplier
		if err := rows.Scan(&sup.ID, &sup.Name, &sup.ContactEmail, &sup.LeadTimeDays, &sup.Active, &sup.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan supplier: %w", err)
		}
		suppliers = append(suppliers, sup)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating suppliers: %w", err)
	}

	return suppliers, nil
}

// GetSupplierByID returns a supplier by id, or ErrNotFound.
func (s *SQLiteStorage) GetSupplierByID(ctx context.Context, id int64) (*model.Supplier, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	query := `
		SELECT id, name, COALESCE(contact_email, ''), lead_time_days, is_active, created_at
		FROM suppliers
		WHERE id = ? AND is_active = 1`

	var sup model.Supplier
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&sup.ID, &sup.Name, &sup.ContactEmail, &sup.LeadTimeDays, &sup.Active, &sup.CreatedAt,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: supplier %d", common.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query supplier: %w", err)
	}

	return &sup, nil
}

// CreateSupplier creates a new supplier and returns it with its id set.
func (s *SQLiteStorage) CreateSupplier(ctx context.Context, sup *model.Supplier) (*model.Supplier, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateSupplier(sup); err != nil {
		return nil, err
	}

	query := `
		INSERT INTO suppliers (name, contact_email, lead_time_days, is_active)
		VALUES (?, ?, ?, 1)`

	result, err := s.db.ExecContext(ctx, query, sup.Name, sup.ContactEmail, sup.LeadTimeDays)
	if isUniqueViolation(err) {
		return nil, fmt.Errorf("%w: supplier %q", common.ErrDuplicateEntry, sup.Name)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create supplier: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get supplier id: %w", err)
	}

	slog.Info("created supplier", "id", id, "name", sup.Name)
	return s.GetSupplierByID(ctx, id)
}

// UpdateSupplier updates an existing supplier in place.
func (s *SQLiteStorage) UpdateSupplier(ctx context.Context, sup *model.Supplier) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateSupplier(sup); err != nil {
		return err
	}

	query := `
		UPDATE suppliers
		SET name = ?, contact_email = ?, lead_time_days = ?
		WHERE id = ? AND is_active = 1`

	result, err := s.db.ExecContext(ctx, query, sup.Name, sup.ContactEmail, sup.LeadTimeDays, sup.ID)
	if err != nil {
		return fmt.Errorf("failed to update supplier: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: supplier %d", common.ErrNotFound, sup.ID)
	}

	return nil
}

// DeleteSupplier soft-deletes a supplier.
func (s *SQLiteStorage) DeleteSupplier(ctx context.Context, id int64) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, `UPDATE suppliers SET is_active = 0 WHERE id = ? AND is_active = 1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete supplier: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: supplier %d", common.ErrNotFound, id)
	}

	slog.Info("deleted supplier", "id", id)
	return nil
}
