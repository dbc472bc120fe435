// internal/repository/printer_repository.go
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"label-print-service/internal/database"
	"label-print-service/internal/model"
)

const printerColumns = `id, name, ip_address, port, print_standard, timeout_seconds,
	font_size_code, is_default, last_used_at, created_at, updated_at`

// printerRepository implements PrinterRepository interface
type printerRepository struct {
	db     *database.DB
	logger *zap.Logger
}

// NewPrinterRepository creates a new printer repository
func NewPrinterRepository(db *database.DB, logger *zap.Logger) PrinterRepository {
	return &printerRepository{
		db:     db,
		logger: logger,
	}
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanPrinter(row rowScanner) (*model.Printer, error) {
	p := &model.Printer{}
	var lastUsed sql.NullTime
	err := row.Scan(
		&p.ID, &p.Name, &p.IPAddress, &p.Port, &p.PrintStandard, &p.TimeoutSeconds,
		&p.FontSizeCode, &p.IsDefault, &lastUsed, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if lastUsed.Valid {
		p.LastUsedAt = &lastUsed.Time
	}
	return p, nil
}

// Create creates a new printer
func (r *printerRepository) Create(ctx context.Context, printer *model.Printer) error {
	if printer.ID == uuid.Nil {
		printer.ID = uuid.New()
	}

	query := `
		INSERT INTO printers (
			id, name, ip_address, port, print_standard, timeout_seconds,
			font_size_code, is_default
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at, updated_at
	`

	err := r.db.QueryRowContext(ctx, query,
		printer.ID, printer.Name, printer.IPAddress, printer.Port,
		printer.PrintStandard, printer.TimeoutSeconds, printer.FontSizeCode,
		printer.IsDefault,
	).Scan(&printer.CreatedAt, &printer.UpdatedAt)

	if err != nil {
		r.logger.Error("Failed to create printer", zap.Error(err), zap.String("name", printer.Name))
		return fmt.Errorf("failed to create printer: %w", err)
	}

	r.logger.Info("Printer created successfully", zap.String("printer_id", printer.ID.String()))
	return nil
}

// GetByID retrieves a printer by its UUID
func (r *printerRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Printer, error) {
	query := `SELECT ` + printerColumns + ` FROM printers WHERE id = $1`

	printer, err := scanPrinter(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("printer %s: %w", id, ErrNotFound)
		}
		r.logger.Error("Failed to get printer by ID", zap.Error(err), zap.String("id", id.String()))
		return nil, fmt.Errorf("failed to get printer: %w", err)
	}

	return printer, nil
}

// Update updates an existing printer's name and settings
func (r *printerRepository) Update(ctx context.Context, printer *model.Printer) error {
	query := `
		UPDATE printers SET
			name = $2, ip_address = $3, port = $4, print_standard = $5,
			timeout_seconds = $6, font_size_code = $7, updated_at = CURRENT_TIMESTAMP
		WHERE id = $1
		RETURNING updated_at
	`

	err := r.db.QueryRowContext(ctx, query,
		printer.ID, printer.Name, printer.IPAddress, printer.Port,
		printer.PrintStandard, printer.TimeoutSeconds, printer.FontSizeCode,
	).Scan(&printer.UpdatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("printer %s: %w", printer.ID, ErrNotFound)
		}
		r.logger.Error("Failed to update printer", zap.Error(err), zap.String("printer_id", printer.ID.String()))
		return fmt.Errorf("failed to update printer: %w", err)
	}

	r.logger.Debug("Printer updated successfully", zap.String("printer_id", printer.ID.String()))
	return nil
}

// Delete removes a printer
func (r *printerRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM printers WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		r.logger.Error("Failed to delete printer", zap.Error(err), zap.String("id", id.String()))
		return fmt.Errorf("failed to delete printer: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("printer %s: %w", id, ErrNotFound)
	}

	r.logger.Info("Printer deleted successfully", zap.String("id", id.String()))
	return nil
}

// List retrieves all printers, default first
func (r *printerRepository) List(ctx context.Context) ([]*model.Printer, error) {
	query := `SELECT ` + printerColumns + ` FROM printers ORDER BY is_default DESC, name ASC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		r.logger.Error("Failed to list printers", zap.Error(err))
		return nil, fmt.Errorf("failed to list printers: %w", err)
	}
	defer rows.Close()

	printers := []*model.Printer{}
	for rows.Next() {
		printer, err := scanPrinter(rows)
		if err != nil {
			r.logger.Error("Failed to scan printer row", zap.Error(err))
			continue
		}
		printers = append(printers, printer)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate printer rows: %w", err)
	}

	return printers, nil
}

// GetDefault retrieves the default printer
func (r *printerRepository) GetDefault(ctx context.Context) (*model.Printer, error) {
	query := `SELECT ` + printerColumns + ` FROM printers WHERE is_default LIMIT 1`

	printer, err := scanPrinter(r.db.QueryRowContext(ctx, query))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("default printer: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get default printer: %w", err)
	}

	return printer, nil
}

// SetDefault makes id the only default printer
func (r *printerRepository) SetDefault(ctx context.Context, id uuid.UUID) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`UPDATE printers SET is_default = FALSE, updated_at = CURRENT_TIMESTAMP WHERE is_default AND id <> $1`, id); err != nil {
		return fmt.Errorf("failed to clear default printer: %w", err)
	}

	result, err := tx.ExecContext(ctx,
		`UPDATE printers SET is_default = TRUE, updated_at = CURRENT_TIMESTAMP WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to set default printer: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("printer %s: %w", id, ErrNotFound)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit default printer: %w", err)
	}

	r.logger.Info("Default printer changed", zap.String("printer_id", id.String()))
	return nil
}

// UpdateLastUsed stamps the printer's last use
func (r *printerRepository) UpdateLastUsed(ctx context.Context, id uuid.UUID, usedAt time.Time) error {
	query := `UPDATE printers SET last_used_at = $2 WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id, usedAt)
	if err != nil {
		r.logger.Error("Failed to update last used", zap.Error(err))
		return fmt.Errorf("failed to update last used: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("printer %s: %w", id, ErrNotFound)
	}

	return nil
}
