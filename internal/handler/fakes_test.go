package handler

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"label-print-service/internal/model"
	"label-print-service/internal/repository"
	"label-print-service/internal/service"
	"label-print-service/internal/utils"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakePrinters struct {
	mu       sync.Mutex
	printers map[uuid.UUID]*model.Printer
	def      *uuid.UUID
}

func newFakePrinters(printers ...*model.Printer) *fakePrinters {
	f := &fakePrinters{printers: make(map[uuid.UUID]*model.Printer)}
	for _, p := range printers {
		f.printers[p.ID] = p
	}
	return f
}

func (f *fakePrinters) CreatePrinter(_ context.Context, req *service.PrinterRequest) (*model.Printer, error) {
	settings := req.Settings()
	if err := service.ValidateSettings(settings); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	p := &model.Printer{ID: uuid.New(), Name: req.Name, PrinterSettings: settings}
	f.printers[p.ID] = p
	return p, nil
}

func (f *fakePrinters) GetPrinter(_ context.Context, id uuid.UUID) (*model.Printer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.printers[id]
	if !ok {
		return nil, fmt.Errorf("printer %s: %w", id, repository.ErrNotFound)
	}
	return p, nil
}

func (f *fakePrinters) ListPrinters(context.Context) ([]*model.Printer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*model.Printer, 0, len(f.printers))
	for _, p := range f.printers {
		out = append(out, p)
	}
	return out, nil
}

func (f *fakePrinters) UpdatePrinter(ctx context.Context, id uuid.UUID, req *service.PrinterRequest) (*model.Printer, error) {
	p, err := f.GetPrinter(ctx, id)
	if err != nil {
		return nil, err
	}
	p.Name = req.Name
	return p, nil
}

func (f *fakePrinters) DeletePrinter(ctx context.Context, id uuid.UUID) error {
	if _, err := f.GetPrinter(ctx, id); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.printers, id)
	return nil
}

func (f *fakePrinters) GetDefaultPrinter(ctx context.Context) (*model.Printer, error) {
	if f.def == nil {
		return nil, fmt.Errorf("default printer: %w", repository.ErrNotFound)
	}
	return f.GetPrinter(ctx, *f.def)
}

func (f *fakePrinters) SetDefaultPrinter(ctx context.Context, id uuid.UUID) (*model.Printer, error) {
	p, err := f.GetPrinter(ctx, id)
	if err != nil {
		return nil, err
	}
	f.def = &id
	p.IsDefault = true
	return p, nil
}

type printCall struct {
	printerID *uuid.UUID
	content   string
	settings  *model.PrinterSettings
	test      bool
}

type fakeRunner struct {
	result model.PrintResult
	err    error
	calls  []printCall
}

func (r *fakeRunner) Print(_ context.Context, printerID *uuid.UUID, req *service.PrintRequest) (model.PrintResult, error) {
	r.calls = append(r.calls, printCall{printerID: printerID, content: req.Content})
	return r.result, r.err
}

func (r *fakeRunner) PrintWithSettings(_ context.Context, req *service.AdHocPrintRequest) (model.PrintResult, error) {
	settings := req.Settings
	r.calls = append(r.calls, printCall{content: req.Content, settings: &settings})
	return r.result, r.err
}

func (r *fakeRunner) TestPrint(_ context.Context, printerID *uuid.UUID) (model.PrintResult, error) {
	r.calls = append(r.calls, printCall{printerID: printerID, test: true})
	return r.result, r.err
}

type fakeHistory struct {
	entries  []*model.HistoryEntry
	filter   *repository.HistoryFilter
	settings model.HistorySettings
	cleared  bool
}

func (h *fakeHistory) List(_ context.Context, filter *repository.HistoryFilter) ([]*model.HistoryEntry, *utils.PaginationResult, error) {
	h.filter = filter
	return h.entries, utils.NewPagination(len(h.entries), filter.Page, filter.PerPage), nil
}

func (h *fakeHistory) Stats(context.Context) (*model.HistoryStats, error) {
	return &model.HistoryStats{TotalPrints: len(h.entries)}, nil
}

func (h *fakeHistory) Clear(context.Context) (int64, error) {
	n := int64(len(h.entries))
	h.entries = nil
	h.cleared = true
	return n, nil
}

func (h *fakeHistory) GetSettings(context.Context) model.HistorySettings {
	return h.settings
}

func (h *fakeHistory) UpdateSettings(_ context.Context, s model.HistorySettings) (model.HistorySettings, error) {
	if s.MaxHistoryEntries < service.MinHistoryEntries || s.MaxHistoryEntries > service.MaxHistoryEntries {
		return model.HistorySettings{}, fmt.Errorf("%w: out of range", service.ErrInvalidInput)
	}
	h.settings = s
	return s, nil
}

type fakeDB struct {
	err error
}

func (d fakeDB) HealthCheck() error    { return d.err }
func (d fakeDB) GetStats() sql.DBStats { return sql.DBStats{OpenConnections: 1} }
