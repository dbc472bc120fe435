package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"label-print-service/internal/config"
	"label-print-service/internal/model"
	"label-print-service/internal/printer"
	"label-print-service/internal/utils"
)

type apiResponse struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   *utils.APIError `json:"error"`
}

func doRequest(t *testing.T, router *gin.Engine, method, path string, body interface{}) (*httptest.ResponseRecorder, apiResponse) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var resp apiResponse
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	return w, resp
}

func savedPrinter() *model.Printer {
	return &model.Printer{
		ID:   uuid.New(),
		Name: "Balcão",
		PrinterSettings: model.PrinterSettings{
			IPAddress:      "192.168.0.50",
			Port:           9100,
			PrintStandard:  model.StandardZPL,
			TimeoutSeconds: 10,
		},
	}
}

func newPrinterRouter(t *testing.T, printers *fakePrinters) *gin.Engine {
	router := gin.New()
	NewPrinterHandler(printers, zaptest.NewLogger(t)).RegisterRoutes(router.Group("/api/v1"))
	return router
}

func TestPrinterHandler_CRUD(t *testing.T) {
	existing := savedPrinter()
	router := newPrinterRouter(t, newFakePrinters(existing))

	w, resp := doRequest(t, router, http.MethodGet, "/api/v1/printers/"+existing.ID.String(), nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, resp.Success)

	w, resp = doRequest(t, router, http.MethodPost, "/api/v1/printers", map[string]interface{}{
		"name":            "Estoque",
		"ip_address":      "10.0.0.7",
		"port":            9100,
		"print_standard":  "EPL",
		"timeout_seconds": 5,
	})
	assert.Equal(t, http.StatusCreated, w.Code)
	var created model.Printer
	require.NoError(t, json.Unmarshal(resp.Data, &created))
	assert.Equal(t, "Estoque", created.Name)
	assert.Equal(t, model.StandardEPL, created.PrintStandard)

	w, _ = doRequest(t, router, http.MethodPut, "/api/v1/printers/"+created.ID.String()+"/default", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w, resp = doRequest(t, router, http.MethodGet, "/api/v1/printers/default", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	var def model.Printer
	require.NoError(t, json.Unmarshal(resp.Data, &def))
	assert.Equal(t, created.ID, def.ID)

	w, _ = doRequest(t, router, http.MethodDelete, "/api/v1/printers/"+existing.ID.String(), nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w, resp = doRequest(t, router, http.MethodGet, "/api/v1/printers", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	var list []model.Printer
	require.NoError(t, json.Unmarshal(resp.Data, &list))
	assert.Len(t, list, 1)
}

func TestPrinterHandler_Errors(t *testing.T) {
	router := newPrinterRouter(t, newFakePrinters())

	tests := []struct {
		name       string
		method     string
		path       string
		body       interface{}
		wantStatus int
		wantCode   string
	}{
		{
			name:       "malformed id",
			method:     http.MethodGet,
			path:       "/api/v1/printers/not-a-uuid",
			wantStatus: http.StatusBadRequest,
			wantCode:   "BAD_REQUEST",
		},
		{
			name:       "unknown printer",
			method:     http.MethodGet,
			path:       "/api/v1/printers/" + uuid.NewString(),
			wantStatus: http.StatusNotFound,
			wantCode:   "NOT_FOUND",
		},
		{
			name:       "no default printer",
			method:     http.MethodGet,
			path:       "/api/v1/printers/default",
			wantStatus: http.StatusNotFound,
			wantCode:   "NOT_FOUND",
		},
		{
			name:       "invalid address",
			method:     http.MethodPost,
			path:       "/api/v1/printers",
			body:       map[string]interface{}{"name": "x", "ip_address": "printer.local", "port": 9100, "timeout_seconds": 5},
			wantStatus: http.StatusBadRequest,
			wantCode:   "VALIDATION_ERROR",
		},
		{
			name:       "port out of range",
			method:     http.MethodPost,
			path:       "/api/v1/printers",
			body:       map[string]interface{}{"name": "x", "ip_address": "10.0.0.7", "port": 70000},
			wantStatus: http.StatusBadRequest,
			wantCode:   "VALIDATION_ERROR",
		},
		{
			name:       "malformed body",
			method:     http.MethodPost,
			path:       "/api/v1/printers",
			body:       "not an object",
			wantStatus: http.StatusBadRequest,
			wantCode:   "BAD_REQUEST",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, resp := doRequest(t, router, tt.method, tt.path, tt.body)
			assert.Equal(t, tt.wantStatus, w.Code)
			assert.False(t, resp.Success)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.wantCode, resp.Error.Code)
		})
	}
}

func TestPrintHandler_StatusMapping(t *testing.T) {
	tests := []struct {
		name       string
		result     model.PrintResult
		wantStatus int
		wantCode   string
	}{
		{
			name:       "success",
			result:     model.PrintResult{Success: true, Message: printer.MsgSuccess, Details: printer.MsgSuccessDetails},
			wantStatus: http.StatusOK,
		},
		{
			name:       "printer off",
			result:     model.PrintResult{Message: printer.MsgPrinterOff, Details: "connection refused"},
			wantStatus: http.StatusBadGateway,
			wantCode:   "PRINTER_UNAVAILABLE",
		},
		{
			name:       "connect timeout",
			result:     model.PrintResult{Message: printer.MsgConnectTimeout, Details: printer.MsgConnectTimeoutDetails},
			wantStatus: http.StatusGatewayTimeout,
			wantCode:   "PRINTER_TIMEOUT",
		},
		{
			name:       "operation timeout",
			result:     model.PrintResult{Message: printer.MsgOperationTimeout},
			wantStatus: http.StatusGatewayTimeout,
			wantCode:   "PRINTER_TIMEOUT",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runner := &fakeRunner{result: tt.result}
			router := gin.New()
			NewPrintHandler(runner, zaptest.NewLogger(t)).RegisterRoutes(router.Group("/api/v1"))

			id := uuid.New()
			w, resp := doRequest(t, router, http.MethodPost, "/api/v1/printers/"+id.String()+"/print",
				map[string]interface{}{"content": "Olá"})

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, tt.result.Success, resp.Success)
			assert.Equal(t, tt.result.Message, resp.Message)

			var result model.PrintResult
			require.NoError(t, json.Unmarshal(resp.Data, &result))
			assert.Equal(t, tt.result, result)

			if tt.wantCode != "" {
				require.NotNil(t, resp.Error)
				assert.Equal(t, tt.wantCode, resp.Error.Code)
			}

			require.Len(t, runner.calls, 1)
			require.NotNil(t, runner.calls[0].printerID)
			assert.Equal(t, id, *runner.calls[0].printerID)
			assert.Equal(t, "Olá", runner.calls[0].content)
		})
	}
}

func TestPrintHandler_PrintRouting(t *testing.T) {
	ok := model.PrintResult{Success: true, Message: printer.MsgSuccess}
	printerID := uuid.New()

	tests := []struct {
		name         string
		body         map[string]interface{}
		wantPrinter  *uuid.UUID
		wantSettings bool
	}{
		{
			name: "default printer",
			body: map[string]interface{}{"content": "x"},
		},
		{
			name:        "saved printer",
			body:        map[string]interface{}{"content": "x", "printer_id": printerID.String()},
			wantPrinter: &printerID,
		},
		{
			name: "inline settings",
			body: map[string]interface{}{
				"content":    "x",
				"printer_id": printerID.String(),
				"settings":   map[string]interface{}{"ip_address": "10.0.0.9", "port": 9100},
			},
			wantSettings: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runner := &fakeRunner{result: ok}
			router := gin.New()
			NewPrintHandler(runner, zaptest.NewLogger(t)).RegisterRoutes(router.Group("/api/v1"))

			w, _ := doRequest(t, router, http.MethodPost, "/api/v1/print", tt.body)
			assert.Equal(t, http.StatusOK, w.Code)

			require.Len(t, runner.calls, 1)
			call := runner.calls[0]
			if tt.wantSettings {
				require.NotNil(t, call.settings)
				assert.Equal(t, "10.0.0.9", call.settings.IPAddress)
				return
			}
			assert.Nil(t, call.settings)
			assert.Equal(t, tt.wantPrinter, call.printerID)
		})
	}
}

func TestPrintHandler_RejectsInvalidBody(t *testing.T) {
	tests := []struct {
		name      string
		path      string
		body      map[string]interface{}
		wantField string
	}{
		{
			name:      "empty content on saved printer",
			path:      "/api/v1/printers/" + uuid.NewString() + "/print",
			body:      map[string]interface{}{"content": ""},
			wantField: "content",
		},
		{
			name:      "missing content",
			path:      "/api/v1/print",
			body:      map[string]interface{}{"printer_id": uuid.NewString()},
			wantField: "content",
		},
		{
			name: "inline settings without address",
			path: "/api/v1/print",
			body: map[string]interface{}{
				"content":  "x",
				"settings": map[string]interface{}{"port": 9100},
			},
			wantField: "settings.ip_address",
		},
		{
			name: "inline settings with negative timeout",
			path: "/api/v1/print",
			body: map[string]interface{}{
				"content":  "x",
				"settings": map[string]interface{}{"ip_address": "10.0.0.9", "timeout_seconds": -1},
			},
			wantField: "settings.timeout_seconds",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runner := &fakeRunner{result: model.PrintResult{Success: true}}
			router := gin.New()
			NewPrintHandler(runner, zaptest.NewLogger(t)).RegisterRoutes(router.Group("/api/v1"))

			w, resp := doRequest(t, router, http.MethodPost, tt.path, tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			require.NotNil(t, resp.Error)
			assert.Equal(t, "VALIDATION_ERROR", resp.Error.Code)

			var data struct {
				ValidationErrors map[string]string `json:"validation_errors"`
			}
			require.NoError(t, json.Unmarshal(resp.Data, &data))
			assert.Contains(t, data.ValidationErrors, tt.wantField)
			assert.Empty(t, runner.calls)
		})
	}
}

func TestPrintHandler_TestPrint(t *testing.T) {
	runner := &fakeRunner{result: model.PrintResult{Success: true, Message: printer.MsgSuccess}}
	router := gin.New()
	NewPrintHandler(runner, zaptest.NewLogger(t)).RegisterRoutes(router.Group("/api/v1"))

	w, _ := doRequest(t, router, http.MethodPost, "/api/v1/print/test", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	id := uuid.New()
	w, _ = doRequest(t, router, http.MethodPost, "/api/v1/printers/"+id.String()+"/test", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	require.Len(t, runner.calls, 2)
	assert.True(t, runner.calls[0].test)
	assert.Nil(t, runner.calls[0].printerID)
	require.NotNil(t, runner.calls[1].printerID)
	assert.Equal(t, id, *runner.calls[1].printerID)
}

func TestPrintHandler_ServiceError(t *testing.T) {
	runner := &fakeRunner{err: errors.New("database is down")}
	router := gin.New()
	NewPrintHandler(runner, zaptest.NewLogger(t)).RegisterRoutes(router.Group("/api/v1"))

	w, resp := doRequest(t, router, http.MethodPost, "/api/v1/print", map[string]interface{}{"content": "x"})
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "INTERNAL_SERVER_ERROR", resp.Error.Code)
}

func TestHistoryHandler(t *testing.T) {
	history := &fakeHistory{
		entries:  []*model.HistoryEntry{{ID: uuid.New(), Status: model.HistoryStatusSuccess}},
		settings: model.HistorySettings{MaxHistoryEntries: 100},
	}
	router := gin.New()
	NewHistoryHandler(history, zaptest.NewLogger(t)).RegisterRoutes(router.Group("/api/v1"))

	w, resp := doRequest(t, router, http.MethodGet, "/api/v1/history?page=2&per_page=500&printer_name=bal&status=error", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, history.filter)
	assert.Equal(t, 2, history.filter.Page)
	assert.Equal(t, 100, history.filter.PerPage)
	require.NotNil(t, history.filter.PrinterName)
	assert.Equal(t, "bal", *history.filter.PrinterName)
	require.NotNil(t, history.filter.Status)
	assert.Equal(t, model.HistoryStatusError, *history.filter.Status)

	var page HistoryPage
	require.NoError(t, json.Unmarshal(resp.Data, &page))
	assert.Len(t, page.Entries, 1)

	w, _ = doRequest(t, router, http.MethodGet, "/api/v1/history?status=lost", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = doRequest(t, router, http.MethodGet, "/api/v1/history/stats", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w, _ = doRequest(t, router, http.MethodPut, "/api/v1/history/settings", map[string]int{"max_history_entries": 5})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, resp = doRequest(t, router, http.MethodPut, "/api/v1/history/settings", map[string]int{"max_history_entries": 250})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 250, history.settings.MaxHistoryEntries)

	w, _ = doRequest(t, router, http.MethodDelete, "/api/v1/history", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, history.cleared)
}

func TestHealthHandler(t *testing.T) {
	cfg := &config.Config{App: config.AppConfig{Name: "label-print-service", Version: "1.0.0"}}

	tests := []struct {
		name       string
		db         fakeDB
		wantStatus int
	}{
		{name: "healthy", db: fakeDB{}, wantStatus: http.StatusOK},
		{name: "database down", db: fakeDB{err: errors.New("connection refused")}, wantStatus: http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := gin.New()
			NewHealthHandler(tt.db, cfg, zaptest.NewLogger(t)).RegisterRoutes(&router.RouterGroup)

			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
			assert.Equal(t, tt.wantStatus, w.Code)

			w = httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ready", nil))
			assert.Equal(t, tt.wantStatus, w.Code)

			w = httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/live", nil))
			assert.Equal(t, http.StatusOK, w.Code)
		})
	}
}
