// internal/handler/errors.go
package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"label-print-service/internal/model"
	"label-print-service/internal/printer"
	"label-print-service/internal/repository"
	"label-print-service/internal/service"
	"label-print-service/internal/utils"
)

func init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(utils.JSONFieldName)
	}
}

// bindJSON binds and validates the request body, writing a 400 on failure
func bindJSON(c *gin.Context, obj interface{}) bool {
	err := c.ShouldBindJSON(obj)
	if err == nil {
		return true
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		utils.ValidationErrorResponse(c, utils.ValidationMessages(verrs))
		return false
	}
	utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body", err)
	return false
}

// respondError maps service errors to HTTP status codes
func respondError(c *gin.Context, logger *utils.ServiceLogger, message string, err error) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		utils.ErrorResponse(c, http.StatusNotFound, message, err)
	case errors.Is(err, service.ErrInvalidInput):
		utils.ErrorResponse(c, http.StatusBadRequest, message, err)
	default:
		logger.WithRequestID(c.GetString(utils.RequestIDKey)).Error(message, zap.Error(err))
		utils.ErrorResponse(c, http.StatusInternalServerError, message, err)
	}
}

// respondPrintResult writes a print outcome. Failures keep the result body
// so clients see the printer message; timeouts map to 504.
func respondPrintResult(c *gin.Context, result model.PrintResult) {
	if result.Success {
		utils.SuccessResponse(c, http.StatusOK, result.Message, result)
		return
	}

	status := http.StatusBadGateway
	switch result.Message {
	case printer.MsgPrinterTimeout, printer.MsgConnectTimeout, printer.MsgOperationTimeout:
		status = http.StatusGatewayTimeout
	}

	c.JSON(status, utils.APIResponse{
		Success: false,
		Message: result.Message,
		Data:    result,
		Error: &utils.APIError{
			Code:    utils.ErrorCode(status),
			Message: result.Message,
			Details: result.Details,
		},
		Timestamp: time.Now(),
		RequestID: c.GetString(utils.RequestIDKey),
	})
}

// parseID parses the :id path parameter, writing a 400 on failure
func parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid printer ID", err)
		return uuid.Nil, false
	}
	return id, true
}
