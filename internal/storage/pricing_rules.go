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

// GetPricingRules returns all active pricing rules, highest priority first.
func (s *SQLiteStorage) GetPricingRules(ctx context.Context) ([]model.PricingRule, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	query := `
		SELECT id, name, margin_percent, round_to, priority, is_active, created_at
		FROM pricing_rules
		WHERE is_active = 1
		ORDER BY priority DESC, name`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query pricing rules: %w", err)
	}
	defer rows.Close()

	var rules []model.PricingRule
	for rows.Next() {
		var r model.PricingRule
		if err := rows.Scan(&r.ID, &r.Name, &r.MarginPercent, &r.RoundTo, &r.Priority, &r.Active, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan pricing rule: %w", err)
		}
		rules = append(rules, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating pricing rules: %w", err)
	}

	return rules, nil
}

// CreatePricingRule creates a new pricing rule and returns it with its id set.
func (s *SQLiteStorage) CreatePricingRule(ctx context.Context, r *model.PricingRule) (*model.PricingRule, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validatePricingRule(r); err != nil {
		return nil, err
	}

	query := `
		INSERT INTO pricing_rules (name, margin_percent, round_to, priority, is_active)
		VALUES (?, ?, ?, ?, 1)`

	result, err := s.db.ExecContext(ctx, query, r.Name, r.MarginPercent, r.RoundTo, r.Priority)
	if isUniqueViolation(err) {
		return nil, fmt.Errorf("%w: pricing rule %q", common.ErrDuplicateEntry, r.Name)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create pricing rule: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get pricing rule id: %w", err)
	}

	created := *r
	created.ID = id
	created.Active = true

	slog.Info("created pricing rule", "id", id, "name", r.Name, "priority", r.Priority)
	return &created, nil
}

// UpdatePricingRule updates an existing pricing rule in place.
func (s *SQLiteStorage) UpdatePricingRule(ctx context.Context, r *model.PricingRule) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validatePricingRule(r); err != nil {
		return err
	}

	query := `
		UPDATE pricing_rules
		SET name = ?, margin_percent = ?, round_to = ?, priority = ?
		WHERE id = ? AND is_active = 1`

	result, err := s.db.ExecContext(ctx, query, r.Name, r.MarginPercent, r.RoundTo, r.Priority, r.ID)
	if err != nil {
		return fmt.Errorf("failed to update pricing rule: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: pricing rule %d", common.ErrNotFound, r.ID)
	}

	return nil
}

// DeletePricingRule soft-deletes a pricing rule.
func (s *SQLiteStorage) DeletePricingRule(ctx context.Context, id int64) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, `UPDATE pricing_rules SET is_active = 0 WHERE id = ? AND is_active = 1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete pricing rule: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: pricing rule %d", common.ErrNotFound, id)
	}

	slog.Info("deleted pricing rule", "id", id)
	return nil
}

// ActivePricingRule returns the highest-priority active rule, or
// ErrNotFound when none exist.
func (s *SQLiteStorage) ActivePricingRule(ctx context.Context) (*model.PricingRule, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	query := `
		SELECT id, name, margin_percent, round_to, priority, is_active, created_at
		FROM pricing_rules
		WHERE is_active = 1
		ORDER BY priority DESC, id
		LIMIT 1`

	var r model.PricingRule
	err := s.db.QueryRowContext(ctx, query).Scan(
		&r.ID, &r.Name, &r.MarginPercent, &r.RoundTo, &r.Priority, &r.Active, &r.CreatedAt,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: no active pricing rule", common.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query pricing rule: %w", err)
	}

	return &r, nil
}
