// internal/handler/history_handler.go
package handler

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"label-print-service/internal/model"
	"label-print-service/internal/repository"
	"label-print-service/internal/service"
	"label-print-service/internal/utils"
)

// HistoryManager reads and maintains print history
type HistoryManager interface {
	List(ctx context.Context, filter *repository.HistoryFilter) ([]*model.HistoryEntry, *utils.PaginationResult, error)
	Stats(ctx context.Context) (*model.HistoryStats, error)
	Clear(ctx context.Context) (int64, error)
	GetSettings(ctx context.Context) model.HistorySettings
	UpdateSettings(ctx context.Context, settings model.HistorySettings) (model.HistorySettings, error)
}

// HistoryHandler handles print history HTTP requests
type HistoryHandler struct {
	history HistoryManager
	logger  *utils.ServiceLogger
}

// NewHistoryHandler creates a new history handler
func NewHistoryHandler(history HistoryManager, logger *zap.Logger) *HistoryHandler {
	return &HistoryHandler{
		history: history,
		logger:  utils.NewServiceLogger(logger, "history-handler"),
	}
}

// RegisterRoutes registers history routes
func (h *HistoryHandler) RegisterRoutes(router *gin.RouterGroup) {
	history := router.Group("/history")
	{
		history.GET("", h.ListHistory)
		history.DELETE("", h.ClearHistory)
		history.GET("/stats", h.GetStats)
		history.GET("/settings", h.GetSettings)
		history.PUT("/settings", h.UpdateSettings)
	}
}

// HistoryPage is a page of history entries
type HistoryPage struct {
	Entries    []*model.HistoryEntry   `json:"entries"`
	Pagination *utils.PaginationResult `json:"pagination"`
}

// ListHistory lists print history, newest first
// @Summary List print history
// @Tags History
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param per_page query int false "Items per page" default(20)
// @Param printer_name query string false "Filter by printer name"
// @Param status query string false "Filter by status" Enums(success, error, timeout)
// @Success 200 {object} utils.APIResponse{data=HistoryPage} "History retrieved"
// @Failure 400 {object} utils.APIResponse "Invalid query"
// @Router /api/v1/history [get]
func (h *HistoryHandler) ListHistory(c *gin.Context) {
	filter, err := parseHistoryFilter(c)
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid query parameters", err)
		return
	}

	entries, pagination, err := h.history.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, h.logger, "Failed to list history", err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "History retrieved successfully", HistoryPage{
		Entries:    entries,
		Pagination: pagination,
	})
}

// GetStats returns history statistics
// @Summary History statistics
// @Tags History
// @Produce json
// @Success 200 {object} utils.APIResponse{data=model.HistoryStats} "Statistics retrieved"
// @Router /api/v1/history/stats [get]
func (h *HistoryHandler) GetStats(c *gin.Context) {
	stats, err := h.history.Stats(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, "Failed to get history statistics", err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Statistics retrieved successfully", stats)
}

// ClearHistory deletes every history entry
// @Summary Clear print history
// @Tags History
// @Produce json
// @Success 200 {object} utils.APIResponse{data=object{deleted=int}} "History cleared"
// @Router /api/v1/history [delete]
func (h *HistoryHandler) ClearHistory(c *gin.Context) {
	deleted, err := h.history.Clear(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, "Failed to clear history", err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "History cleared successfully", gin.H{"deleted": deleted})
}

// GetSettings returns history retention settings
// @Summary Get history settings
// @Tags History
// @Produce json
// @Success 200 {object} utils.APIResponse{data=model.HistorySettings} "Settings retrieved"
// @Router /api/v1/history/settings [get]
func (h *HistoryHandler) GetSettings(c *gin.Context) {
	utils.SuccessResponse(c, http.StatusOK, "Settings retrieved successfully", h.history.GetSettings(c.Request.Context()))
}

// UpdateSettings changes history retention settings
// @Summary Update history settings
// @Tags History
// @Accept json
// @Produce json
// @Param settings body model.HistorySettings true "History settings"
// @Success 200 {object} utils.APIResponse{data=model.HistorySettings} "Settings updated"
// @Failure 400 {object} utils.APIResponse "Out of range"
// @Router /api/v1/history/settings [put]
func (h *HistoryHandler) UpdateSettings(c *gin.Context) {
	var req model.HistorySettings
	if !bindJSON(c, &req) {
		return
	}

	settings, err := h.history.UpdateSettings(c.Request.Context(), req)
	if err != nil {
		respondError(c, h.logger, "Failed to update history settings", err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Settings updated successfully", settings)
}

func parseHistoryFilter(c *gin.Context) (*repository.HistoryFilter, error) {
	filter := &repository.HistoryFilter{}

	if v := c.Query("page"); v != "" {
		page, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("%w: page must be a number", service.ErrInvalidInput)
		}
		filter.Page = page
	}
	if v := c.Query("per_page"); v != "" {
		perPage, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("%w: per_page must be a number", service.ErrInvalidInput)
		}
		filter.PerPage = perPage
	}
	if v := c.Query("printer_name"); v != "" {
		filter.PrinterName = &v
	}
	if v := c.Query("status"); v != "" {
		status := model.HistoryStatus(v)
		if !status.IsValid() {
			return nil, fmt.Errorf("%w: unknown status %q", service.ErrInvalidInput, v)
		}
		filter.Status = &status
	}

	filter.Normalize()
	return filter, nil
}
