// internal/utils/logger.go
package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"

	"label-print-service/internal/config"
)

// NewLogger builds the application logger from configuration
func NewLogger(cfg *config.LoggingConfig) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("failed to parse log level: %w", err)
	}

	sink, err := logSink(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create log sink: %w", err)
	}

	core := zapcore.NewCore(logEncoder(cfg.Format), sink, level)
	return zap.New(core, zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel)), nil
}

func logEncoder(format string) zapcore.Encoder {
	enc := zap.NewProductionEncoderConfig()
	enc.TimeKey = "timestamp"
	enc.MessageKey = "message"
	enc.EncodeCaller = zapcore.ShortCallerEncoder

	if format == "console" {
		enc.EncodeLevel = zapcore.CapitalColorLevelEncoder
		enc.EncodeTime = zapcore.TimeEncoderOfLayout(time.DateTime)
		return zapcore.NewConsoleEncoder(enc)
	}

	enc.EncodeLevel = zapcore.LowercaseLevelEncoder
	enc.EncodeTime = zapcore.RFC3339TimeEncoder
	return zapcore.NewJSONEncoder(enc)
}

// logSink writes to stdout, stderr or a size-rotated file
func logSink(cfg *config.LoggingConfig) (zapcore.WriteSyncer, error) {
	switch cfg.Output {
	case "", "stdout":
		return zapcore.Lock(os.Stdout), nil
	case "stderr":
		return zapcore.Lock(os.Stderr), nil
	}

	if err := os.MkdirAll(filepath.Dir(cfg.Output), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	return zapcore.AddSync(&lumberjack.Logger{
		Filename:   cfg.Output,
		MaxSize:    cfg.MaxSize,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAge,
		Compress:   cfg.Compress,
	}), nil
}

// PrinterLogger is scoped to one printer address
type PrinterLogger struct {
	*zap.Logger
}

// NewPrinterLogger creates a printer-scoped logger
func NewPrinterLogger(baseLogger *zap.Logger, address, standard, printerName string) *PrinterLogger {
	logger := baseLogger.With(
		zap.String("component", "printer"),
		zap.String("printer_address", address),
		zap.String("print_standard", standard),
	)
	if printerName != "" {
		logger = logger.With(zap.String("printer_name", printerName))
	}
	return &PrinterLogger{Logger: logger}
}

// LogConnection logs a socket event. Errors are warnings; a dead printer
// is an expected condition, not a service fault.
func (pl *PrinterLogger) LogConnection(event string, err error) {
	if err != nil {
		pl.Warn("Printer connection event", zap.String("event", event), zap.Error(err))
		return
	}
	pl.Debug("Printer connection event", zap.String("event", event))
}

// LogPrint logs the outcome of a print attempt
func (pl *PrinterLogger) LogPrint(success bool, message, details string, duration time.Duration) {
	level := zapcore.InfoLevel
	msg := "Print completed"
	if !success {
		level = zapcore.WarnLevel
		msg = "Print failed"
	}

	if ce := pl.Check(level, msg); ce != nil {
		ce.Write(
			zap.Bool("success", success),
			zap.String("result_message", message),
			zap.String("result_details", details),
			zap.Duration("duration", duration),
		)
	}
}

// OperationLogger times one operation and logs its start and outcome
type OperationLogger struct {
	logger  *zap.Logger
	started time.Time
}

// NewOperationLogger creates an operation-specific logger
func NewOperationLogger(baseLogger *zap.Logger, operationType, operationID string) *OperationLogger {
	return &OperationLogger{
		logger: baseLogger.With(
			zap.String("component", "operation"),
			zap.String("operation_type", operationType),
			zap.String("operation_id", operationID),
		),
		started: time.Now(),
	}
}

// Start logs operation start
func (ol *OperationLogger) Start(fields ...zap.Field) {
	ol.logger.Info("Operation started", append(fields, zap.Time("start_time", ol.started))...)
}

// Success logs successful completion
func (ol *OperationLogger) Success(fields ...zap.Field) {
	ol.logger.Info("Operation completed", ol.outcome(true, fields)...)
}

// Error logs a failed outcome at warn level; the failure belongs to the
// printer, so no stacktrace is attached.
func (ol *OperationLogger) Error(err error, fields ...zap.Field) {
	ol.logger.Warn("Operation failed", ol.outcome(false, append(fields, zap.Error(err)))...)
}

// Elapsed returns the time since the operation started
func (ol *OperationLogger) Elapsed() time.Duration {
	return time.Since(ol.started)
}

func (ol *OperationLogger) outcome(success bool, fields []zap.Field) []zap.Field {
	return append([]zap.Field{
		zap.Bool("success", success),
		zap.Duration("duration", ol.Elapsed()),
	}, fields...)
}

// ServiceLogger tags entries with the owning service
type ServiceLogger struct {
	*zap.Logger
}

// NewServiceLogger creates a service-specific logger
func NewServiceLogger(baseLogger *zap.Logger, serviceName string) *ServiceLogger {
	return &ServiceLogger{
		Logger: baseLogger.With(
			zap.String("component", "service"),
			zap.String("service", serviceName),
		),
	}
}

// WithRequestID scopes the logger to one HTTP request
func (sl *ServiceLogger) WithRequestID(requestID string) *ServiceLogger {
	if requestID == "" {
		return sl
	}
	return &ServiceLogger{Logger: sl.With(zap.String("request_id", requestID))}
}

// LogServiceStart logs service startup
func (sl *ServiceLogger) LogServiceStart(version string, config interface{}) {
	sl.Info("Service starting", zap.String("version", version), zap.Any("config", config))
}

// LogServiceStop logs service shutdown
func (sl *ServiceLogger) LogServiceStop(reason string) {
	sl.Info("Service stopping", zap.String("reason", reason))
}

// LogAPIRequest logs one HTTP request; 4xx warn and 5xx error
func (sl *ServiceLogger) LogAPIRequest(method, path, userAgent, clientIP string, statusCode int, duration time.Duration) {
	level := zapcore.InfoLevel
	switch {
	case statusCode >= 500:
		level = zapcore.ErrorLevel
	case statusCode >= 400:
		level = zapcore.WarnLevel
	}

	if ce := sl.Check(level, "API request"); ce != nil {
		ce.Write(
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status_code", statusCode),
			zap.Duration("duration", duration),
			zap.String("client_ip", clientIP),
			zap.String("user_agent", userAgent),
		)
	}
}

// AuditLogger records registry and history changes
type AuditLogger struct {
	logger *zap.Logger
}

// NewAuditLogger creates an audit-specific logger
func NewAuditLogger(baseLogger *zap.Logger) *AuditLogger {
	return &AuditLogger{logger: baseLogger.With(zap.String("component", "audit"))}
}

// LogPrinterRegistration logs printer registration events
func (al *AuditLogger) LogPrinterRegistration(printerID, name, address string) {
	al.logger.Info("Printer registered",
		zap.String("action", "register_printer"),
		zap.String("printer_id", printerID),
		zap.String("printer_name", name),
		zap.String("printer_address", address),
	)
}

// LogPrinterConfiguration logs printer configuration changes
func (al *AuditLogger) LogPrinterConfiguration(printerID string, oldConfig, newConfig interface{}) {
	al.logger.Info("Printer configuration changed",
		zap.String("action", "configure_printer"),
		zap.String("printer_id", printerID),
		zap.Any("old_config", oldConfig),
		zap.Any("new_config", newConfig),
	)
}

// LogPrinterRemoval logs printer deletion
func (al *AuditLogger) LogPrinterRemoval(printerID string) {
	al.logger.Info("Printer removed",
		zap.String("action", "remove_printer"),
		zap.String("printer_id", printerID),
	)
}

// LogHistoryCleared logs history wipes
func (al *AuditLogger) LogHistoryCleared(deleted int64) {
	al.logger.Info("Print history cleared",
		zap.String("action", "clear_history"),
		zap.Int64("deleted", deleted),
	)
}

// CloseLogger flushes buffered log entries
func CloseLogger(logger *zap.Logger) error {
	return logger.Sync()
}
