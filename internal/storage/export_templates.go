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

const exportTemplateColumns = `id, marketplace, folder_template, filename_template, listing_type, is_default, created_at`

// GetExportTemplates returns all export templates, defaults first.
func (s *SQLiteStorage) GetExportTemplates(ctx context.Context) ([]model.ExportTemplate, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	query := `
		SELECT ` + exportTemplateColumns + `
		FROM export_templates
		ORDER BY marketplace, is_default DESC, id`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query export templates: %w", err)
	}
	defer rows.Close()

	var templates []model.ExportTemplate
	for rows.Next() {
		t, err := scanExportTemplate(rows)
		if err != nil {
			return nil, err
		}
		templates = append(templates, *t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating export templates: %w", err)
	}

	return templates, nil
}

// GetDefaultExportTemplate returns the default template for a marketplace,
// or ErrNotFound when none is marked default.
func (s *SQLiteStorage) GetDefaultExportTemplate(ctx context.Context, marketplace string) (*model.ExportTemplate, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(marketplace, "marketplace"); err != nil {
		return nil, err
	}

	query := `
		SELECT ` + exportTemplateColumns + `
		FROM export_templates
		WHERE marketplace = ? AND is_default = 1
		LIMIT 1`

	row := s.db.QueryRowContext(ctx, query, marketplace)
	t, err := scanExportTemplate(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: default template for %q", common.ErrNotFound, marketplace)
	}
	if err != nil {
		return nil, err
	}

	return t, nil
}

// CreateExportTemplate creates a new template. Marking it default clears
// the default flag on the marketplace's other templates.
func (s *SQLiteStorage) CreateExportTemplate(ctx context.Context, t *model.ExportTemplate) (*model.ExportTemplate, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateExportTemplate(t); err != nil {
		return nil, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if t.IsDefault {
		if _, err := tx.ExecContext(ctx,
			`UPDATE export_templates SET is_default = 0 WHERE marketplace = ?`, t.Marketplace); err != nil {
			return nil, fmt.Errorf("failed to clear default templates: %w", err)
		}
	}

	result, err := tx.ExecContext(ctx, `
		INSERT INTO export_templates (marketplace, folder_template, filename_template, listing_type, is_default)
		VALUES (?, ?, ?, ?, ?)`,
		t.Marketplace, t.FolderTemplate, t.FilenameTemplate, string(t.ListingType), t.IsDefault)
	if err != nil {
		return nil, fmt.Errorf("failed to create export template: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get template id: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit template: %w", err)
	}

	created := *t
	created.ID = id

	slog.Info("created export template", "id", id, "marketplace", t.Marketplace, "default", t.IsDefault)
	return &created, nil
}

// UpdateExportTemplate updates an existing template in place.
func (s *SQLiteStorage) UpdateExportTemplate(ctx context.Context, t *model.ExportTemplate) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateExportTemplate(t); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if t.IsDefault {
		if _, err := tx.ExecContext(ctx,
			`UPDATE export_templates SET is_default = 0 WHERE marketplace = ? AND id != ?`, t.Marketplace, t.ID); err != nil {
			return fmt.Errorf("failed to clear default templates: %w", err)
		}
	}

	result, err := tx.ExecContext(ctx, `
		UPDATE export_templates
		SET marketplace = ?, folder_template = ?, filename_template = ?, listing_type = ?, is_default = ?
		WHERE id = ?`,
		t.Marketplace, t.FolderTemplate, t.FilenameTemplate, string(t.ListingType), t.IsDefault, t.ID)
	if err != nil {
		return fmt.Errorf("failed to update export template: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: export template %d", common.ErrNotFound, t.ID)
	}

	return tx.Commit()
}

// DeleteExportTemplate removes a template.
func (s *SQLiteStorage) DeleteExportTemplate(ctx context.Context, id int64) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, `DELETE FROM export_templates WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete export template: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: export template %d", common.ErrNotFound, id)
	}

	return nil
}

// scanner covers *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanExportTemplate(row scanner) (*model.ExportTemplate, error) {
	var t model.ExportTemplate
	var listingType string
	err := row.Scan(&t.ID, &t.Marketplace, &t.FolderTemplate, &t.FilenameTemplate, &listingType, &t.IsDefault, &t.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan export template: %w", err)
	}
	t.ListingType = model.ListingType(listingType)
	return &t, nil
}
