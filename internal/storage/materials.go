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

// GetMaterials returns all active materials ordered by name.
func (s *SQLiteStorage) GetMaterials(ctx context.Context) ([]model.Material, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	query := `
		SELECT id, name, sku, unit, unit_cost, is_active, created_at
		FROM materials
		WHERE is_active = 1
		ORDER BY name`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query materials: %w", err)
	}
	defer rows.Close()

	var materials []model.Material
	for rows.Next() {
		var m model.Material
		if err := rows.Scan(&m.ID, &m.Name, &m.SKU, &m.Unit, &m.UnitCost, &m.Active, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan material: %w", err)
		}
		materials = append(materials, m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating materials: %w", err)
	}

	slog.Debug("retrieved materials", "count", len(materials))
	return materials, nil
}

// GetMaterialByID returns a material by id, or ErrNotFound.
func (s *SQLiteStorage) GetMaterialByID(ctx context.Context, id int64) (*model.Material, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	query := `
		SELECT id, name, sku, unit, unit_cost, is_active, created_at
		FROM materials
		WHERE id = ? AND is_active = 1`

	var m model.Material
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&m.ID, &m.Name, &m.SKU, &m.Unit, &m.UnitCost, &m.Active, &m.CreatedAt,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: material %d", common.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query material: %w", err)
	}

	return &m, nil
}

// CreateMaterial creates a new material and returns it with its id set.
func (s *SQLiteStorage) CreateMaterial(ctx context.Context, m *model.Material) (*model.Material, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateMaterial(m); err != nil {
		return nil, err
	}

	if m.Unit == "" {
		m.Unit = "ea"
	}

	query := `
		INSERT INTO materials (name, sku, unit, unit_cost, is_active)
		VALUES (?, ?, ?, ?, 1)`

	result, err := s.db.ExecContext(ctx, query, m.Name, m.SKU, m.Unit, m.UnitCost)
	if isUniqueViolation(err) {
		return nil, fmt.Errorf("%w: material sku %q", common.ErrDuplicateEntry, m.SKU)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create material: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get material id: %w", err)
	}

	slog.Info("created material", "id", id, "sku", m.SKU)
	return s.GetMaterialByID(ctx, id)
}

// UpdateMaterial updates an existing material in place.
func (s *SQLiteStorage) UpdateMaterial(ctx context.Context, m *model.Material) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateMaterial(m); err != nil {
		return err
	}

	query := `
		UPDATE materials
		SET name = ?, sku = ?, unit = ?, unit_cost = ?
		WHERE id = ? AND is_active = 1`

	result, err := s.db.ExecContext(ctx, query, m.Name, m.SKU, m.Unit, m.UnitCost, m.ID)
	if err != nil {
		return fmt.Errorf("failed to update material: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: material %d", common.ErrNotFound, m.ID)
	}

	return nil
}

// DeleteMaterial soft-deletes a material so historical costing stays intact.
func (s *SQLiteStorage) DeleteMaterial(ctx context.Context, id int64) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, `UPDATE materials SET is_active = 0 WHERE id = ? AND is_active = 1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete material: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: material %d", common.ErrNotFound, id)
	}

	slog.Info("deleted material", "id", id)
	return nil
}
