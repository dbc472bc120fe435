package service

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap/zaptest"

	"label-print-service/internal/config"
	"label-print-service/internal/model"
	"label-print-service/internal/repository"
)

type memPrinterRepo struct {
	mu       sync.Mutex
	printers map[uuid.UUID]*model.Printer
	lastUsed map[uuid.UUID]time.Time
}

func newMemPrinterRepo() *memPrinterRepo {
	return &memPrinterRepo{
		printers: make(map[uuid.UUID]*model.Printer),
		lastUsed: make(map[uuid.UUID]time.Time),
	}
}

func (r *memPrinterRepo) Create(_ context.Context, p *model.Printer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *p
	r.printers[p.ID] = &cp
	return nil
}

func (r *memPrinterRepo) GetByID(_ context.Context, id uuid.UUID) (*model.Printer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.printers[id]
	if !ok {
		return nil, fmt.Errorf("printer %s: %w", id, repository.ErrNotFound)
	}
	cp := *p
	return &cp, nil
}

func (r *memPrinterRepo) Update(_ context.Context, p *model.Printer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.printers[p.ID]; !ok {
		return repository.ErrNotFound
	}
	cp := *p
	r.printers[p.ID] = &cp
	return nil
}

func (r *memPrinterRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.printers[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.printers, id)
	return nil
}

func (r *memPrinterRepo) List(_ context.Context) ([]*model.Printer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []*model.Printer{}
	for _, p := range r.printers {
		cp := *p
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *memPrinterRepo) GetDefault(_ context.Context) (*model.Printer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.printers {
		if p.IsDefault {
			cp := *p
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *memPrinterRepo) SetDefault(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.printers[id]; !ok {
		return repository.ErrNotFound
	}
	for pid, p := range r.printers {
		p.IsDefault = pid == id
	}
	return nil
}

func (r *memPrinterRepo) UpdateLastUsed(_ context.Context, id uuid.UUID, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.printers[id]; !ok {
		return repository.ErrNotFound
	}
	r.lastUsed[id] = at
	return nil
}

type memHistoryRepo struct {
	mu      sync.Mutex
	entries []*model.HistoryEntry
	trims   []int
}

func (r *memHistoryRepo) Record(_ context.Context, e *model.HistoryEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append([]*model.HistoryEntry{e}, r.entries...)
	return nil
}

func (r *memHistoryRepo) List(_ context.Context, f *repository.HistoryFilter) ([]*model.HistoryEntry, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.entries, len(r.entries), nil
}

func (r *memHistoryRepo) Stats(_ context.Context) (*model.HistoryStats, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return &model.HistoryStats{TotalPrints: len(r.entries)}, nil
}

func (r *memHistoryRepo) Clear(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := int64(len(r.entries))
	r.entries = nil
	return n, nil
}

func (r *memHistoryRepo) Trim(_ context.Context, max int) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.trims = append(r.trims, max)
	if len(r.entries) <= max {
		return 0, nil
	}
	n := int64(len(r.entries) - max)
	r.entries = r.entries[:max]
	return n, nil
}

type memSettingsRepo struct {
	mu     sync.Mutex
	values map[string]string
}

func (r *memSettingsRepo) Get(_ context.Context, key string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.values[key]
	if !ok {
		return "", repository.ErrNotFound
	}
	return v, nil
}

func (r *memSettingsRepo) Set(_ context.Context, key, value string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.values == nil {
		r.values = make(map[string]string)
	}
	r.values[key] = value
	return nil
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []model.PrintEvent
}

func (p *recordingPublisher) Publish(e model.PrintEvent) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
}

func (p *recordingPublisher) types() []model.EventType {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]model.EventType, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.EventType)
	}
	return out
}

type fakeDispatcher struct {
	result   model.PrintResult
	content  string
	settings model.PrinterSettings
	job      model.PrintJob
	tested   bool
}

func (d *fakeDispatcher) PrintData(_ context.Context, content string, settings model.PrinterSettings, job model.PrintJob) model.PrintResult {
	d.content, d.settings, d.job = content, settings, job
	return d.result
}

func (d *fakeDispatcher) TestPrint(_ context.Context, settings model.PrinterSettings) model.PrintResult {
	d.tested, d.settings = true, settings
	return d.result
}

func testConfig() *config.Config {
	return &config.Config{
		Printer: config.PrinterConfig{
			DefaultPort:           9100,
			DefaultTimeoutSeconds: 10,
			DefaultStandard:       "ESC/POS",
		},
		History: config.HistoryConfig{MaxEntries: 100},
	}
}

func newTestPrinterService(t *testing.T) (*PrinterService, *memPrinterRepo, *recordingPublisher) {
	repo := newMemPrinterRepo()
	events := &recordingPublisher{}
	return NewPrinterService(repo, events, testConfig(), zaptest.NewLogger(t)), repo, events
}
