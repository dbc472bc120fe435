// internal/handler/printer_handler.go
package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"label-print-service/internal/model"
	"label-print-service/internal/service"
	"label-print-service/internal/utils"
)

// PrinterManager manages the saved printer registry
type PrinterManager interface {
	CreatePrinter(ctx context.Context, req *service.PrinterRequest) (*model.Printer, error)
	GetPrinter(ctx context.Context, id uuid.UUID) (*model.Printer, error)
	ListPrinters(ctx context.Context) ([]*model.Printer, error)
	UpdatePrinter(ctx context.Context, id uuid.UUID, req *service.PrinterRequest) (*model.Printer, error)
	DeletePrinter(ctx context.Context, id uuid.UUID) error
	GetDefaultPrinter(ctx context.Context) (*model.Printer, error)
	SetDefaultPrinter(ctx context.Context, id uuid.UUID) (*model.Printer, error)
}

// PrinterHandler handles printer registry HTTP requests
type PrinterHandler struct {
	printers PrinterManager
	logger   *utils.ServiceLogger
}

// NewPrinterHandler creates a new printer handler
func NewPrinterHandler(printers PrinterManager, logger *zap.Logger) *PrinterHandler {
	return &PrinterHandler{
		printers: printers,
		logger:   utils.NewServiceLogger(logger, "printer-handler"),
	}
}

// RegisterRoutes registers printer routes
func (h *PrinterHandler) RegisterRoutes(router *gin.RouterGroup) {
	printers := router.Group("/printers")
	{
		printers.GET("", h.ListPrinters)
		printers.POST("", h.CreatePrinter)
		printers.GET("/default", h.GetDefaultPrinter)
		printers.GET("/:id", h.GetPrinter)
		printers.PUT("/:id", h.UpdatePrinter)
		printers.DELETE("/:id", h.DeletePrinter)
		printers.PUT("/:id/default", h.SetDefaultPrinter)
	}
}

// ListPrinters lists saved printers
// @Summary List printers
// @Description Get all saved printers, default first
// @Tags Printers
// @Produce json
// @Success 200 {object} utils.APIResponse{data=[]model.Printer} "Printers retrieved"
// @Failure 500 {object} utils.APIResponse "Internal server error"
// @Router /api/v1/printers [get]
func (h *PrinterHandler) ListPrinters(c *gin.Context) {
	printers, err := h.printers.ListPrinters(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, "Failed to list printers", err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Printers retrieved successfully", printers)
}

// CreatePrinter saves a new printer
// @Summary Create printer
// @Description Save a network printer configuration
// @Tags Printers
// @Accept json
// @Produce json
// @Param printer body service.PrinterRequest true "Printer configuration"
// @Success 201 {object} utils.APIResponse{data=model.Printer} "Printer created"
// @Failure 400 {object} utils.APIResponse "Invalid request"
// @Failure 500 {object} utils.APIResponse "Internal server error"
// @Router /api/v1/printers [post]
func (h *PrinterHandler) CreatePrinter(c *gin.Context) {
	var req service.PrinterRequest
	if !bindJSON(c, &req) {
		return
	}

	printer, err := h.printers.CreatePrinter(c.Request.Context(), &req)
	if err != nil {
		respondError(c, h.logger, "Failed to create printer", err)
		return
	}

	utils.SuccessResponse(c, http.StatusCreated, "Printer created successfully", printer)
}

// GetPrinter returns one printer
// @Summary Get printer
// @Tags Printers
// @Produce json
// @Param id path string true "Printer ID"
// @Success 200 {object} utils.APIResponse{data=model.Printer} "Printer retrieved"
// @Failure 400 {object} utils.APIResponse "Invalid printer ID"
// @Failure 404 {object} utils.APIResponse "Printer not found"
// @Router /api/v1/printers/{id} [get]
func (h *PrinterHandler) GetPrinter(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	printer, err := h.printers.GetPrinter(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, "Failed to get printer", err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Printer retrieved successfully", printer)
}

// UpdatePrinter replaces a printer configuration
// @Summary Update printer
// @Tags Printers
// @Accept json
// @Produce json
// @Param id path string true "Printer ID"
// @Param printer body service.PrinterRequest true "Printer configuration"
// @Success 200 {object} utils.APIResponse{data=model.Printer} "Printer updated"
// @Failure 400 {object} utils.APIResponse "Invalid request"
// @Failure 404 {object} utils.APIResponse "Printer not found"
// @Router /api/v1/printers/{id} [put]
func (h *PrinterHandler) UpdatePrinter(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req service.PrinterRequest
	if !bindJSON(c, &req) {
		return
	}

	printer, err := h.printers.UpdatePrinter(c.Request.Context(), id, &req)
	if err != nil {
		respondError(c, h.logger, "Failed to update printer", err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Printer updated successfully", printer)
}

// DeletePrinter removes a printer
// @Summary Delete printer
// @Tags Printers
// @Produce json
// @Param id path string true "Printer ID"
// @Success 200 {object} utils.APIResponse "Printer deleted"
// @Failure 404 {object} utils.APIResponse "Printer not found"
// @Router /api/v1/printers/{id} [delete]
func (h *PrinterHandler) DeletePrinter(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.printers.DeletePrinter(c.Request.Context(), id); err != nil {
		respondError(c, h.logger, "Failed to delete printer", err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Printer deleted successfully", nil)
}

// GetDefaultPrinter returns the default printer
// @Summary Get default printer
// @Tags Printers
// @Produce json
// @Success 200 {object} utils.APIResponse{data=model.Printer} "Default printer"
// @Failure 404 {object} utils.APIResponse "No default printer"
// @Router /api/v1/printers/default [get]
func (h *PrinterHandler) GetDefaultPrinter(c *gin.Context) {
	printer, err := h.printers.GetDefaultPrinter(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, "Failed to get default printer", err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Default printer retrieved successfully", printer)
}

// SetDefaultPrinter makes a printer the default
// @Summary Set default printer
// @Tags Printers
// @Produce json
// @Param id path string true "Printer ID"
// @Success 200 {object} utils.APIResponse{data=model.Printer} "Default printer set"
// @Failure 404 {object} utils.APIResponse "Printer not found"
// @Router /api/v1/printers/{id}/default [put]
func (h *PrinterHandler) SetDefaultPrinter(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	printer, err := h.printers.SetDefaultPrinter(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, "Failed to set default printer", err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Default printer set successfully", printer)
}
