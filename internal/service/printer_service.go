// internal/service/printer_service.go
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"label-print-service/internal/config"
	"label-print-service/internal/model"
	"label-print-service/internal/repository"
	"label-print-service/internal/utils"
)

// ErrInvalidInput marks request validation failures
var ErrInvalidInput = errors.New("invalid input")

// EventPublisher receives print and registry events
type EventPublisher interface {
	Publish(event model.PrintEvent)
}

type nopPublisher struct{}

func (nopPublisher) Publish(model.PrintEvent) {}

// PrinterService handles the saved printer registry
type PrinterService struct {
	repo        repository.PrinterRepository
	events      EventPublisher
	config      *config.Config
	logger      *utils.ServiceLogger
	auditLogger *utils.AuditLogger
}

// NewPrinterService creates a new printer service instance
func NewPrinterService(
	repo repository.PrinterRepository,
	events EventPublisher,
	config *config.Config,
	logger *zap.Logger,
) *PrinterService {
	if events == nil {
		events = nopPublisher{}
	}
	return &PrinterService{
		repo:        repo,
		events:      events,
		config:      config,
		logger:      utils.NewServiceLogger(logger, "printer-service"),
		auditLogger: utils.NewAuditLogger(logger),
	}
}

// CreatePrinter validates and saves a new printer
func (ps *PrinterService) CreatePrinter(ctx context.Context, req *PrinterRequest) (*model.Printer, error) {
	settings, err := ps.PrepareSettings(req.Settings())
	if err != nil {
		return nil, err
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}

	printer := &model.Printer{
		ID:              uuid.New(),
		Name:            name,
		PrinterSettings: settings,
	}

	if err := ps.repo.Create(ctx, printer); err != nil {
		return nil, fmt.Errorf("failed to create printer: %w", err)
	}

	if req.IsDefault {
		if err := ps.repo.SetDefault(ctx, printer.ID); err != nil {
			return nil, fmt.Errorf("failed to set default printer: %w", err)
		}
		printer.IsDefault = true
	}

	ps.auditLogger.LogPrinterRegistration(printer.ID.String(), printer.Name, printer.Address())
	ps.publishUpdate(printer, "created")
	return printer, nil
}

// GetPrinter returns a saved printer
func (ps *PrinterService) GetPrinter(ctx context.Context, id uuid.UUID) (*model.Printer, error) {
	return ps.repo.GetByID(ctx, id)
}

// ListPrinters returns every saved printer, default first
func (ps *PrinterService) ListPrinters(ctx context.Context) ([]*model.Printer, error) {
	return ps.repo.List(ctx)
}

// UpdatePrinter replaces a printer's name and settings
func (ps *PrinterService) UpdatePrinter(ctx context.Context, id uuid.UUID, req *PrinterRequest) (*model.Printer, error) {
	existing, err := ps.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	settings, err := ps.PrepareSettings(req.Settings())
	if err != nil {
		return nil, err
	}

	updated := *existing
	if name := strings.TrimSpace(req.Name); name != "" {
		updated.Name = name
	}
	updated.PrinterSettings = settings

	if err := ps.repo.Update(ctx, &updated); err != nil {
		return nil, fmt.Errorf("failed to update printer: %w", err)
	}

	if req.IsDefault && !existing.IsDefault {
		if err := ps.repo.SetDefault(ctx, id); err != nil {
			return nil, fmt.Errorf("failed to set default printer: %w", err)
		}
		updated.IsDefault = true
	}

	ps.auditLogger.LogPrinterConfiguration(id.String(), existing.PrinterSettings, updated.PrinterSettings)
	ps.publishUpdate(&updated, "updated")
	return &updated, nil
}

// DeletePrinter removes a saved printer
func (ps *PrinterService) DeletePrinter(ctx context.Context, id uuid.UUID) error {
	if err := ps.repo.Delete(ctx, id); err != nil {
		return err
	}

	ps.auditLogger.LogPrinterRemoval(id.String())
	ps.events.Publish(model.NewPrintEvent(model.EventPrinterUpdated, id.String(), map[string]interface{}{
		"action": "deleted",
	}))
	return nil
}

// GetDefaultPrinter returns the default printer
func (ps *PrinterService) GetDefaultPrinter(ctx context.Context) (*model.Printer, error) {
	return ps.repo.GetDefault(ctx)
}

// SetDefaultPrinter makes id the default printer
func (ps *PrinterService) SetDefaultPrinter(ctx context.Context, id uuid.UUID) (*model.Printer, error) {
	if err := ps.repo.SetDefault(ctx, id); err != nil {
		return nil, err
	}

	printer, err := ps.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	ps.publishUpdate(printer, "default")
	return printer, nil
}

// CurrentSettings returns the settings of the default printer
func (ps *PrinterService) CurrentSettings(ctx context.Context) (model.PrinterSettings, error) {
	printer, err := ps.repo.GetDefault(ctx)
	if err != nil {
		return model.PrinterSettings{}, err
	}
	return printer.PrinterSettings, nil
}

// UpdateLastUsed stamps a printer as just used
func (ps *PrinterService) UpdateLastUsed(ctx context.Context, printerID string) error {
	id, err := uuid.Parse(printerID)
	if err != nil {
		return fmt.Errorf("%w: printer id %q", ErrInvalidInput, printerID)
	}
	return ps.repo.UpdateLastUsed(ctx, id, time.Now())
}

// PrepareSettings fills unset settings from configuration and validates the
// result. The operation timeout must outlast the connect timeout, otherwise
// an unreachable printer would always settle on the operation timer.
func (ps *PrinterService) PrepareSettings(settings model.PrinterSettings) (model.PrinterSettings, error) {
	settings = ps.applyDefaults(settings)
	if err := ValidateSettings(settings); err != nil {
		return settings, err
	}
	if connect := ps.config.Printer.ConnectTimeout; connect > 0 && settings.OperationTimeout() <= connect {
		return settings, fmt.Errorf("%w: timeout_seconds must be longer than the %s connect timeout",
			ErrInvalidInput, connect)
	}
	return settings, nil
}

func (ps *PrinterService) applyDefaults(settings model.PrinterSettings) model.PrinterSettings {
	settings.IPAddress = strings.TrimSpace(settings.IPAddress)
	if settings.Port == 0 {
		settings.Port = ps.config.Printer.DefaultPort
	}
	if settings.TimeoutSeconds == 0 {
		settings.TimeoutSeconds = ps.config.Printer.DefaultTimeoutSeconds
	}
	if strings.TrimSpace(string(settings.PrintStandard)) == "" {
		settings.PrintStandard = model.PrintStandard(ps.config.Printer.DefaultStandard)
	}
	settings.PrintStandard = model.ParsePrintStandard(string(settings.PrintStandard))
	return settings
}

func (ps *PrinterService) publishUpdate(printer *model.Printer, action string) {
	ps.events.Publish(model.NewPrintEvent(model.EventPrinterUpdated, printer.ID.String(), map[string]interface{}{
		"action":     action,
		"name":       printer.Name,
		"address":    printer.Address(),
		"is_default": printer.IsDefault,
	}))
}

var settingsValidator = newSettingsValidator()

// newSettingsValidator reads the same binding tags gin checks on requests,
// so settings that skip HTTP binding get the same rules.
func newSettingsValidator() *validator.Validate {
	v := validator.New()
	v.SetTagName("binding")
	v.RegisterTagNameFunc(utils.JSONFieldName)
	return v
}

// ValidateSettings checks a printer configuration after defaults are applied
func ValidateSettings(settings model.PrinterSettings) error {
	if err := settingsValidator.Struct(settings); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			return fmt.Errorf("%w: %s", ErrInvalidInput, utils.JoinValidationMessages(verrs))
		}
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if settings.Port == 0 {
		return fmt.Errorf("%w: port is required", ErrInvalidInput)
	}
	if settings.TimeoutSeconds == 0 {
		return fmt.Errorf("%w: timeout_seconds is required", ErrInvalidInput)
	}
	return nil
}

// PrinterRequest is the body of printer create and update calls
type PrinterRequest struct {
	Name           string `json:"name"`
	IPAddress      string `json:"ip_address" binding:"required,ipv4"`
	Port           int    `json:"port" binding:"omitempty,min=1,max=65535"`
	PrintStandard  string `json:"print_standard"`
	TimeoutSeconds int    `json:"timeout_seconds" binding:"omitempty,gt=0"`
	FontSizeCode   int    `json:"font_size_code"`
	IsDefault      bool   `json:"is_default"`
}

// Settings extracts the printer settings from the request
func (r *PrinterRequest) Settings() model.PrinterSettings {
	return model.PrinterSettings{
		IPAddress:      r.IPAddress,
		Port:           r.Port,
		PrintStandard:  model.PrintStandard(r.PrintStandard),
		TimeoutSeconds: r.TimeoutSeconds,
		FontSizeCode:   r.FontSizeCode,
	}
}
