// cmd/server/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	_ "label-print-service/docs"
	"label-print-service/internal/config"
	"label-print-service/internal/database"
	"label-print-service/internal/handler"
	"label-print-service/internal/printer"
	"label-print-service/internal/repository"
	"label-print-service/internal/routes"
	"label-print-service/internal/service"
	"label-print-service/internal/utils"
)

// Application represents the main application
type Application struct {
	config   *config.Config
	logger   *zap.Logger
	server   *http.Server
	database *database.DB

	// Repositories
	printerRepo  repository.PrinterRepository
	historyRepo  repository.HistoryRepository
	settingsRepo repository.SettingsRepository

	// Services
	printerService *service.PrinterService
	historyService *service.HistoryService
	printService   *service.PrintService

	dispatcher *printer.Dispatcher
	eventBus   *handler.EventBus
	wsHandler  *handler.WebSocketHandler

	ctx    context.Context
	cancel context.CancelFunc
}

// @title Label Print Service API
// @version 1.0.0
// @description Print dispatch for ESC/POS, ZPL and EPL network label printers

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8085
// @BasePath /
func main() {
	app, err := NewApplication()
	if err != nil {
		fmt.Printf("Failed to initialize application: %v\n", err)
		os.Exit(1)
	}

	if err := app.Start(); err != nil {
		app.logger.Fatal("Failed to start application", zap.Error(err))
	}
}

// NewApplication creates a new application instance
func NewApplication() (*Application, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := utils.NewLogger(&cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	serviceLogger := utils.NewServiceLogger(logger, "label-print-service")
	serviceLogger.LogServiceStart(cfg.App.Version, cfg)

	ctx, cancel := context.WithCancel(context.Background())
	app := &Application{
		config: cfg,
		logger: logger,
		ctx:    ctx,
		cancel: cancel,
	}

	if err := app.initializeDatabase(); err != nil {
		cancel()
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	app.initializeRepositories()
	app.initializeServices()
	app.initializeServer()

	return app, nil
}

// loadConfig reads LABEL_PRINT_CONFIG when set, the default search path otherwise
func loadConfig() (*config.Config, error) {
	if path := os.Getenv("LABEL_PRINT_CONFIG"); path != "" {
		return config.LoadFile(path)
	}
	return config.Load()
}

// initializeDatabase sets up database connection and runs migrations
func (app *Application) initializeDatabase() error {
	db, err := database.NewConnection(&app.config.Database, app.logger)
	if err != nil {
		return fmt.Errorf("failed to create database connection: %w", err)
	}

	app.database = db

	if app.config.Database.AutoMigrate {
		migrator := database.NewMigrator(db, app.logger, &app.config.Database)
		if err := migrator.Up(); err != nil {
			return fmt.Errorf("failed to run database migrations: %w", err)
		}
	}

	app.logger.Info("Database initialized successfully")
	return nil
}

// initializeRepositories creates repository instances
func (app *Application) initializeRepositories() {
	app.printerRepo = repository.NewPrinterRepository(app.database, app.logger)
	app.historyRepo = repository.NewHistoryRepository(app.database, app.logger)
	app.settingsRepo = repository.NewSettingsRepository(app.database, app.logger)

	app.logger.Info("Repositories initialized successfully")
}

// initializeServices creates service instances and the print dispatcher
func (app *Application) initializeServices() {
	app.eventBus = handler.NewEventBus(app.logger)

	app.printerService = service.NewPrinterService(app.printerRepo, app.eventBus, app.config, app.logger)
	app.historyService = service.NewHistoryService(app.historyRepo, app.settingsRepo, app.eventBus, app.config, app.logger)

	connector := printer.NewTCPConnector(printer.TCPConfig{
		ConnectTimeout: app.config.Printer.ConnectTimeout,
		WriteTimeout:   app.config.Printer.WriteTimeout,
		KeepAlive:      app.config.Printer.KeepAlive,
	}, app.logger)

	app.dispatcher = printer.NewDispatcher(
		connector,
		printer.NewRegistry(),
		app.historyService,
		app.printerService,
		printer.DispatcherConfig{
			SettleDelay:   app.config.Printer.SettleDelay,
			RecordTimeout: app.config.History.RecordTimeout,
		},
		app.logger,
	)

	app.printService = service.NewPrintService(app.printerService, app.dispatcher, app.eventBus, app.logger)

	app.logger.Info("Services initialized successfully")
}

// initializeServer sets up HTTP server and routes
func (app *Application) initializeServer() {
	app.wsHandler = handler.NewWebSocketHandler(app.eventBus, &app.config.Security, app.logger)

	routerManager := routes.NewRouter(app.config, app.logger, routes.Handlers{
		Health:    handler.NewHealthHandler(app.database, app.config, app.logger),
		Printers:  handler.NewPrinterHandler(app.printerService, app.logger),
		Print:     handler.NewPrintHandler(app.printService, app.logger),
		History:   handler.NewHistoryHandler(app.historyService, app.logger),
		WebSocket: app.wsHandler,
	})

	app.server = &http.Server{
		Addr:         app.config.GetServerAddr(),
		Handler:      routerManager.SetupRouter(),
		ReadTimeout:  app.config.Server.ReadTimeout,
		WriteTimeout: app.config.Server.WriteTimeout,
		IdleTimeout:  app.config.Server.IdleTimeout,
	}

	app.logger.Info("HTTP server initialized",
		zap.String("address", app.config.GetServerAddr()),
		zap.Bool("tls_enabled", app.config.Server.TLS.Enabled),
	)
}

// startBackgroundServices starts background services
func (app *Application) startBackgroundServices() {
	go app.eventBus.Start(app.ctx)
	go app.wsHandler.Start(app.ctx)
	go app.startCleanupService()

	app.logger.Info("Background services started")
}

// startCleanupService trims print history on an interval
func (app *Application) startCleanupService() {
	ticker := time.NewTicker(1 * time.Hour)
	defer ticker.Stop()

	app.logger.Info("Cleanup service started")

	for {
		select {
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(app.ctx, time.Minute)
			deleted, err := app.historyService.Trim(ctx)
			cancel()

			if err != nil {
				app.logger.Error("Failed to cleanup print history", zap.Error(err))
			} else if deleted > 0 {
				app.logger.Info("Cleaned up print history", zap.Int64("deleted", deleted))
			}
		case <-app.ctx.Done():
			return
		}
	}
}

// waitForShutdown waits for shutdown signal and performs graceful shutdown
func (app *Application) waitForShutdown() {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	sig := <-quit
	app.logger.Info("Received shutdown signal", zap.String("signal", sig.String()))

	app.shutdown()
}

// shutdown performs graceful shutdown
func (app *Application) shutdown() {
	serviceLogger := utils.NewServiceLogger(app.logger, "label-print-service")
	serviceLogger.LogServiceStop("shutdown signal received")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("HTTP server shutdown error", zap.Error(err))
	} else {
		app.logger.Info("HTTP server stopped")
	}

	// Stops the event bus, websocket fan-out and cleanup loop
	app.cancel()

	if app.database != nil {
		if err := app.database.Close(); err != nil {
			app.logger.Error("Database close error", zap.Error(err))
		} else {
			app.logger.Info("Database connection closed")
		}
	}

	app.logger.Info("Application shutdown completed")

	if err := utils.CloseLogger(app.logger); err != nil {
		fmt.Printf("Logger close error: %v\n", err)
	}
}

// Start runs the HTTP server and blocks until shutdown
func (app *Application) Start() error {
	go func() {
		app.logger.Info("Starting HTTP server",
			zap.String("address", app.server.Addr),
		)

		var err error
		if app.config.Server.TLS.Enabled {
			err = app.server.ListenAndServeTLS(
				app.config.Server.TLS.CertFile,
				app.config.Server.TLS.KeyFile,
			)
		} else {
			err = app.server.ListenAndServe()
		}

		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			app.logger.Fatal("Failed to start HTTP server", zap.Error(err))
		}
	}()

	app.startBackgroundServices()
	app.waitForShutdown()

	return nil
}
