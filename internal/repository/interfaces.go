// internal/repository/interfaces.go
package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"label-print-service/internal/model"
)

// ErrNotFound is returned when a requested row does not exist
var ErrNotFound = errors.New("not found")

// PrinterRepository defines saved printer data access operations
type PrinterRepository interface {
	// CRUD operations
	Create(ctx context.Context, printer *model.Printer) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Printer, error)
	Update(ctx context.Context, printer *model.Printer) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context) ([]*model.Printer, error)

	// Default printer
	GetDefault(ctx context.Context) (*model.Printer, error)
	SetDefault(ctx context.Context, id uuid.UUID) error

	UpdateLastUsed(ctx context.Context, id uuid.UUID, usedAt time.Time) error
}

// HistoryRepository defines print history data access operations
type HistoryRepository interface {
	Record(ctx context.Context, entry *model.HistoryEntry) error
	List(ctx context.Context, filter *HistoryFilter) ([]*model.HistoryEntry, int, error)
	Stats(ctx context.Context) (*model.HistoryStats, error)
	Clear(ctx context.Context) (int64, error)

	// Trim keeps the newest maxEntries rows and deletes the rest
	Trim(ctx context.Context, maxEntries int) (int64, error)
}

// SettingsRepository stores application settings as key/value rows
type SettingsRepository interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
}

// HistoryFilter represents history listing filters
type HistoryFilter struct {
	PrinterName *string              `json:"printer_name,omitempty"`
	Status      *model.HistoryStatus `json:"status,omitempty"`
	Page        int                  `json:"page"`
	PerPage     int                  `json:"per_page"`
}

// Normalize clamps pagination to sane bounds
func (f *HistoryFilter) Normalize() {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.PerPage < 1 {
		f.PerPage = 20
	}
	if f.PerPage > 100 {
		f.PerPage = 100
	}
}
