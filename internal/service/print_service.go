// internal/service/print_service.go
package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"label-print-service/internal/model"
	"label-print-service/internal/utils"
)

// Dispatcher sends content to a printer
type Dispatcher interface {
	PrintData(ctx context.Context, content string, settings model.PrinterSettings, job model.PrintJob) model.PrintResult
	TestPrint(ctx context.Context, settings model.PrinterSettings) model.PrintResult
}

// PrinterLookup resolves saved printers
type PrinterLookup interface {
	GetPrinter(ctx context.Context, id uuid.UUID) (*model.Printer, error)
	GetDefaultPrinter(ctx context.Context) (*model.Printer, error)
	PrepareSettings(settings model.PrinterSettings) (model.PrinterSettings, error)
}

// PrintService resolves the target printer and dispatches print jobs
type PrintService struct {
	printers   PrinterLookup
	dispatcher Dispatcher
	events     EventPublisher
	logger     *utils.ServiceLogger
}

// NewPrintService creates a new print service instance
func NewPrintService(printers PrinterLookup, dispatcher Dispatcher, events EventPublisher, logger *zap.Logger) *PrintService {
	if events == nil {
		events = nopPublisher{}
	}
	return &PrintService{
		printers:   printers,
		dispatcher: dispatcher,
		events:     events,
		logger:     utils.NewServiceLogger(logger, "print-service"),
	}
}

// Print sends content to a saved printer, or the default one when printerID
// is nil. The error is only set when no printer could be resolved; print
// failures are reported in the result.
func (s *PrintService) Print(ctx context.Context, printerID *uuid.UUID, req *PrintRequest) (model.PrintResult, error) {
	printer, err := s.resolve(ctx, printerID)
	if err != nil {
		return model.PrintResult{}, err
	}

	job := model.PrintJob{
		PrinterID:   printer.ID.String(),
		PrinterName: printer.Name,
		Label:       req.Label,
	}
	return s.dispatch(ctx, req.Content, printer.PrinterSettings, job), nil
}

// PrintWithSettings sends content to an unsaved printer configuration
func (s *PrintService) PrintWithSettings(ctx context.Context, req *AdHocPrintRequest) (model.PrintResult, error) {
	settings, err := s.printers.PrepareSettings(req.Settings)
	if err != nil {
		return model.PrintResult{}, err
	}

	return s.dispatch(ctx, req.Content, settings, model.PrintJob{Label: req.Label}), nil
}

// TestPrint prints the diagnostic block on a saved or default printer
func (s *PrintService) TestPrint(ctx context.Context, printerID *uuid.UUID) (model.PrintResult, error) {
	printer, err := s.resolve(ctx, printerID)
	if err != nil {
		return model.PrintResult{}, err
	}

	s.publishStarted(printer.ID.String(), printer.PrinterSettings, true)
	result := s.dispatcher.TestPrint(ctx, printer.PrinterSettings)
	s.publishResult(printer.ID.String(), printer.PrinterSettings, result)
	return result, nil
}

func (s *PrintService) resolve(ctx context.Context, printerID *uuid.UUID) (*model.Printer, error) {
	if printerID == nil {
		printer, err := s.printers.GetDefaultPrinter(ctx)
		if err != nil {
			return nil, fmt.Errorf("no printer selected: %w", err)
		}
		return printer, nil
	}
	return s.printers.GetPrinter(ctx, *printerID)
}

func (s *PrintService) dispatch(ctx context.Context, content string, settings model.PrinterSettings, job model.PrintJob) model.PrintResult {
	s.publishStarted(job.PrinterID, settings, false)
	result := s.dispatcher.PrintData(ctx, content, settings, job)
	s.publishResult(job.PrinterID, settings, result)

	s.logger.Debug("Print dispatched",
		zap.String("printer_address", settings.Address()),
		zap.Bool("success", result.Success),
	)
	return result
}

func (s *PrintService) publishStarted(printerID string, settings model.PrinterSettings, test bool) {
	s.events.Publish(model.NewPrintEvent(model.EventPrintStarted, printerID, map[string]interface{}{
		"address":        settings.Address(),
		"print_standard": settings.PrintStandard,
		"test":           test,
	}))
}

func (s *PrintService) publishResult(printerID string, settings model.PrinterSettings, result model.PrintResult) {
	eventType := model.EventPrintCompleted
	if !result.Success {
		eventType = model.EventPrintFailed
	}
	s.events.Publish(model.NewPrintEvent(eventType, printerID, map[string]interface{}{
		"address": settings.Address(),
		"message": result.Message,
		"details": result.Details,
	}))
}

// PrintRequest is the body of a print call on a saved printer
type PrintRequest struct {
	Content string           `json:"content" binding:"required"`
	Label   *model.LabelData `json:"label_data,omitempty"`
}

// AdHocPrintRequest is the body of a print call with inline settings
type AdHocPrintRequest struct {
	Content  string                `json:"content" binding:"required"`
	Settings model.PrinterSettings `json:"settings"`
	Label    *model.LabelData      `json:"label_data,omitempty"`
}
