// internal/service/history_service.go
package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"go.uber.org/zap"

	"label-print-service/internal/config"
	"label-print-service/internal/model"
	"label-print-service/internal/repository"
	"label-print-service/internal/utils"
)

const (
	maxEntriesKey = "history.max_entries"

	MinHistoryEntries = 10
	MaxHistoryEntries = 1000
)

// HistoryService records and reports print history
type HistoryService struct {
	repo        repository.HistoryRepository
	settings    repository.SettingsRepository
	events      EventPublisher
	defaultMax  int
	logger      *utils.ServiceLogger
	auditLogger *utils.AuditLogger
}

// NewHistoryService creates a new history service instance
func NewHistoryService(
	repo repository.HistoryRepository,
	settings repository.SettingsRepository,
	events EventPublisher,
	config *config.Config,
	logger *zap.Logger,
) *HistoryService {
	if events == nil {
		events = nopPublisher{}
	}
	return &HistoryService{
		repo:        repo,
		settings:    settings,
		events:      events,
		defaultMax:  config.History.MaxEntries,
		logger:      utils.NewServiceLogger(logger, "history-service"),
		auditLogger: utils.NewAuditLogger(logger),
	}
}

// Record stores an entry and trims the history to the configured size
func (hs *HistoryService) Record(ctx context.Context, entry *model.HistoryEntry) error {
	if !entry.Status.IsValid() {
		return fmt.Errorf("%w: history status %q", ErrInvalidInput, entry.Status)
	}

	if err := hs.repo.Record(ctx, entry); err != nil {
		return err
	}

	if _, err := hs.repo.Trim(ctx, hs.maxEntries(ctx)); err != nil {
		hs.logger.Warn("Failed to trim print history", zap.Error(err))
	}
	return nil
}

// List returns a page of history entries
func (hs *HistoryService) List(ctx context.Context, filter *repository.HistoryFilter) ([]*model.HistoryEntry, *utils.PaginationResult, error) {
	if filter == nil {
		filter = &repository.HistoryFilter{}
	}
	filter.Normalize()

	entries, total, err := hs.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, err
	}
	return entries, utils.NewPagination(total, filter.Page, filter.PerPage), nil
}

// Stats summarizes the recorded history
func (hs *HistoryService) Stats(ctx context.Context) (*model.HistoryStats, error) {
	return hs.repo.Stats(ctx)
}

// Clear deletes the whole history
func (hs *HistoryService) Clear(ctx context.Context) (int64, error) {
	deleted, err := hs.repo.Clear(ctx)
	if err != nil {
		return 0, err
	}

	hs.auditLogger.LogHistoryCleared(deleted)
	hs.events.Publish(model.NewPrintEvent(model.EventHistoryCleared, "", map[string]interface{}{
		"deleted": deleted,
	}))
	return deleted, nil
}

// Trim deletes entries beyond the configured history size
func (hs *HistoryService) Trim(ctx context.Context) (int64, error) {
	deleted, err := hs.repo.Trim(ctx, hs.maxEntries(ctx))
	if err != nil {
		return 0, fmt.Errorf("failed to trim print history: %w", err)
	}
	return deleted, nil
}

// GetSettings returns the history retention settings
func (hs *HistoryService) GetSettings(ctx context.Context) model.HistorySettings {
	return model.HistorySettings{MaxHistoryEntries: hs.maxEntries(ctx)}
}

// UpdateSettings stores new retention settings and trims immediately
func (hs *HistoryService) UpdateSettings(ctx context.Context, settings model.HistorySettings) (model.HistorySettings, error) {
	n := settings.MaxHistoryEntries
	if n < MinHistoryEntries || n > MaxHistoryEntries {
		return model.HistorySettings{}, fmt.Errorf("%w: max_history_entries must be between %d and %d",
			ErrInvalidInput, MinHistoryEntries, MaxHistoryEntries)
	}

	if err := hs.settings.Set(ctx, maxEntriesKey, strconv.Itoa(n)); err != nil {
		return model.HistorySettings{}, err
	}

	if _, err := hs.repo.Trim(ctx, n); err != nil {
		hs.logger.Warn("Failed to trim print history", zap.Error(err))
	}
	return settings, nil
}

// maxEntries reads the stored override, falling back to configuration
func (hs *HistoryService) maxEntries(ctx context.Context) int {
	value, err := hs.settings.Get(ctx, maxEntriesKey)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			hs.logger.Warn("Failed to read history settings", zap.Error(err))
		}
		return hs.defaultMax
	}

	n, err := strconv.Atoi(value)
	if err != nil || n <= 0 {
		hs.logger.Warn("Ignoring invalid stored history size", zap.String("value", value))
		return hs.defaultMax
	}
	return n
}
