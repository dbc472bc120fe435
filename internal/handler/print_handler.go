// internal/handler/print_handler.go
package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"label-print-service/internal/model"
	"label-print-service/internal/service"
	"label-print-service/internal/utils"
)

// PrintRunner dispatches print jobs
type PrintRunner interface {
	Print(ctx context.Context, printerID *uuid.UUID, req *service.PrintRequest) (model.PrintResult, error)
	PrintWithSettings(ctx context.Context, req *service.AdHocPrintRequest) (model.PrintResult, error)
	TestPrint(ctx context.Context, printerID *uuid.UUID) (model.PrintResult, error)
}

// PrintHandler handles print HTTP requests
type PrintHandler struct {
	runner PrintRunner
	logger *utils.ServiceLogger
}

// NewPrintHandler creates a new print handler
func NewPrintHandler(runner PrintRunner, logger *zap.Logger) *PrintHandler {
	return &PrintHandler{
		runner: runner,
		logger: utils.NewServiceLogger(logger, "print-handler"),
	}
}

// RegisterRoutes registers print routes
func (h *PrintHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/printers/:id/print", h.PrintOnPrinter)
	router.POST("/printers/:id/test", h.TestPrinter)
	router.POST("/print", h.Print)
	router.POST("/print/test", h.TestDefaultPrinter)
}

// PrintBody is the body of POST /print. Settings takes precedence over
// PrinterID; with neither the default printer is used.
type PrintBody struct {
	Content   string                 `json:"content" binding:"required"`
	PrinterID *uuid.UUID             `json:"printer_id,omitempty"`
	Settings  *model.PrinterSettings `json:"settings,omitempty"`
	Label     *model.LabelData       `json:"label_data,omitempty"`
}

// PrintOnPrinter prints on a saved printer
// @Summary Print on printer
// @Description Send content to a saved printer and wait for the outcome
// @Tags Print
// @Accept json
// @Produce json
// @Param id path string true "Printer ID"
// @Param job body service.PrintRequest true "Print job"
// @Success 200 {object} utils.APIResponse{data=model.PrintResult} "Print succeeded"
// @Failure 404 {object} utils.APIResponse "Printer not found"
// @Failure 502 {object} utils.APIResponse{data=model.PrintResult} "Printer unavailable"
// @Failure 504 {object} utils.APIResponse{data=model.PrintResult} "Printer timed out"
// @Router /api/v1/printers/{id}/print [post]
func (h *PrintHandler) PrintOnPrinter(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req service.PrintRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.runner.Print(c.Request.Context(), &id, &req)
	if err != nil {
		respondError(c, h.logger, "Failed to print", err)
		return
	}

	respondPrintResult(c, result)
}

// TestPrinter prints the diagnostic block on a saved printer
// @Summary Test print
// @Tags Print
// @Produce json
// @Param id path string true "Printer ID"
// @Success 200 {object} utils.APIResponse{data=model.PrintResult} "Test print succeeded"
// @Failure 404 {object} utils.APIResponse "Printer not found"
// @Failure 502 {object} utils.APIResponse{data=model.PrintResult} "Printer unavailable"
// @Failure 504 {object} utils.APIResponse{data=model.PrintResult} "Printer timed out"
// @Router /api/v1/printers/{id}/test [post]
func (h *PrintHandler) TestPrinter(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	result, err := h.runner.TestPrint(c.Request.Context(), &id)
	if err != nil {
		respondError(c, h.logger, "Failed to run test print", err)
		return
	}

	respondPrintResult(c, result)
}

// TestDefaultPrinter prints the diagnostic block on the default printer
// @Summary Test print on default printer
// @Tags Print
// @Produce json
// @Success 200 {object} utils.APIResponse{data=model.PrintResult} "Test print succeeded"
// @Failure 404 {object} utils.APIResponse "No default printer"
// @Router /api/v1/print/test [post]
func (h *PrintHandler) TestDefaultPrinter(c *gin.Context) {
	result, err := h.runner.TestPrint(c.Request.Context(), nil)
	if err != nil {
		respondError(c, h.logger, "Failed to run test print", err)
		return
	}

	respondPrintResult(c, result)
}

// Print prints with inline settings, a saved printer or the default printer
// @Summary Print
// @Description Send content using inline settings, printer_id or the default printer
// @Tags Print
// @Accept json
// @Produce json
// @Param job body PrintBody true "Print job"
// @Success 200 {object} utils.APIResponse{data=model.PrintResult} "Print succeeded"
// @Failure 400 {object} utils.APIResponse "Invalid settings"
// @Failure 404 {object} utils.APIResponse "Printer not found"
// @Failure 502 {object} utils.APIResponse{data=model.PrintResult} "Printer unavailable"
// @Failure 504 {object} utils.APIResponse{data=model.PrintResult} "Printer timed out"
// @Router /api/v1/print [post]
func (h *PrintHandler) Print(c *gin.Context) {
	var body PrintBody
	if !bindJSON(c, &body) {
		return
	}

	var (
		result model.PrintResult
		err    error
	)
	if body.Settings != nil {
		result, err = h.runner.PrintWithSettings(c.Request.Context(), &service.AdHocPrintRequest{
			Content:  body.Content,
			Settings: *body.Settings,
			Label:    body.Label,
		})
	} else {
		result, err = h.runner.Print(c.Request.Context(), body.PrinterID, &service.PrintRequest{
			Content: body.Content,
			Label:   body.Label,
		})
	}
	if err != nil {
		respondError(c, h.logger, "Failed to print", err)
		return
	}

	respondPrintResult(c, result)
}
