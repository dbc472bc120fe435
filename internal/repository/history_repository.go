// internal/repository/history_repository.go
package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"label-print-service/internal/database"
	"label-print-service/internal/model"
)

// historyRepository implements HistoryRepository interface
type historyRepository struct {
	db     *database.DB
	logger *zap.Logger
}

// NewHistoryRepository creates a new history repository
func NewHistoryRepository(db *database.DB, logger *zap.Logger) HistoryRepository {
	return &historyRepository{
		db:     db,
		logger: logger,
	}
}

// Record inserts a history entry
func (r *historyRepository) Record(ctx context.Context, entry *model.HistoryEntry) error {
	query := `
		INSERT INTO print_history (
			id, printer_id, printer_name, printer_ip, print_standard,
			name, code, status, error_message, duration_ms, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err := r.db.ExecContext(ctx, query,
		entry.ID, entry.PrinterID, entry.PrinterName, entry.PrinterIP,
		entry.PrintStandard, entry.Name, entry.Code, entry.Status,
		entry.ErrorMessage, entry.DurationMs, entry.Timestamp,
	)
	if err != nil {
		r.logger.Error("Failed to record print history", zap.Error(err))
		return fmt.Errorf("failed to record print history: %w", err)
	}

	return nil
}

// List retrieves history entries, newest first
func (r *historyRepository) List(ctx context.Context, filter *HistoryFilter) ([]*model.HistoryEntry, int, error) {
	if filter == nil {
		filter = &HistoryFilter{}
	}
	filter.Normalize()

	whereConditions := []string{}
	args := []interface{}{}
	argIndex := 1

	if filter.PrinterName != nil {
		whereConditions = append(whereConditions, fmt.Sprintf("printer_name ILIKE $%d", argIndex))
		args = append(args, "%"+*filter.PrinterName+"%")
		argIndex++
	}

	if filter.Status != nil {
		whereConditions = append(whereConditions, fmt.Sprintf("status = $%d", argIndex))
		args = append(args, *filter.Status)
		argIndex++
	}

	whereClause := ""
	if len(whereConditions) > 0 {
		whereClause = "WHERE " + strings.Join(whereConditions, " AND ")
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM print_history %s", whereClause)
	var total int
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count print history: %w", err)
	}

	offset := (filter.Page - 1) * filter.PerPage
	query := fmt.Sprintf(`
		SELECT id, printer_id, printer_name, printer_ip, print_standard,
			   name, code, status, error_message, duration_ms, created_at
		FROM print_history %s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d
	`, whereClause, argIndex, argIndex+1)

	args = append(args, filter.PerPage, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		r.logger.Error("Failed to list print history", zap.Error(err))
		return nil, 0, fmt.Errorf("failed to list print history: %w", err)
	}
	defer rows.Close()

	entries := []*model.HistoryEntry{}
	for rows.Next() {
		entry := &model.HistoryEntry{}
		var errorMessage sql.NullString
		err := rows.Scan(
			&entry.ID, &entry.PrinterID, &entry.PrinterName, &entry.PrinterIP,
			&entry.PrintStandard, &entry.Name, &entry.Code, &entry.Status,
			&errorMessage, &entry.DurationMs, &entry.Timestamp,
		)
		if err != nil {
			r.logger.Error("Failed to scan history row", zap.Error(err))
			continue
		}
		if errorMessage.Valid {
			entry.ErrorMessage = &errorMessage.String
		}
		entries = append(entries, entry)
	}

	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate history rows: %w", err)
	}

	return entries, total, nil
}

// Stats aggregates the recorded history
func (r *historyRepository) Stats(ctx context.Context) (*model.HistoryStats, error) {
	stats := &model.HistoryStats{}

	query := `
		SELECT COUNT(*),
			   COUNT(*) FILTER (WHERE status = 'success'),
			   COALESCE(AVG(duration_ms), 0)
		FROM print_history
	`
	err := r.db.QueryRowContext(ctx, query).Scan(
		&stats.TotalPrints, &stats.SuccessfulPrints, &stats.AverageDuration,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate print history: %w", err)
	}

	stats.FailedPrints = stats.TotalPrints - stats.SuccessfulPrints
	if stats.TotalPrints > 0 {
		stats.SuccessRate = float64(stats.SuccessfulPrints) / float64(stats.TotalPrints) * 100
	}

	var mostUsed string
	err = r.db.QueryRowContext(ctx, `
		SELECT printer_name FROM print_history
		WHERE printer_name <> ''
		GROUP BY printer_name
		ORDER BY COUNT(*) DESC, MAX(created_at) DESC
		LIMIT 1
	`).Scan(&mostUsed)
	switch {
	case err == sql.ErrNoRows:
	case err != nil:
		return nil, fmt.Errorf("failed to find most used printer: %w", err)
	default:
		stats.MostUsedPrinter = &mostUsed
	}

	return stats, nil
}

// Clear deletes every history entry
func (r *historyRepository) Clear(ctx context.Context) (int64, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM print_history`)
	if err != nil {
		r.logger.Error("Failed to clear print history", zap.Error(err))
		return 0, fmt.Errorf("failed to clear print history: %w", err)
	}

	return result.RowsAffected()
}

// Trim deletes entries beyond the newest maxEntries
func (r *historyRepository) Trim(ctx context.Context, maxEntries int) (int64, error) {
	query := `
		DELETE FROM print_history
		WHERE id IN (
			SELECT id FROM print_history
			ORDER BY created_at DESC
			OFFSET $1
		)
	`

	result, err := r.db.ExecContext(ctx, query, maxEntries)
	if err != nil {
		return 0, fmt.Errorf("failed to trim print history: %w", err)
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	if deleted > 0 {
		r.logger.Debug("Print history trimmed", zap.Int64("deleted", deleted), zap.Int("max_entries", maxEntries))
	}
	return deleted, nil
}
