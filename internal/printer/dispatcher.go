// internal/printer/dispatcher.go
package printer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"label-print-service/internal/model"
	"label-print-service/internal/utils"
)

// HistoryRecorder stores the outcome of print attempts
type HistoryRecorder interface {
	Record(ctx context.Context, entry *model.HistoryEntry) error
}

// UsageTracker marks saved printers as recently used
type UsageTracker interface {
	UpdateLastUsed(ctx context.Context, printerID string) error
}

// DefaultTimeoutSeconds bounds calls whose settings carry no timeout
const DefaultTimeoutSeconds = 10

// DispatcherConfig holds the dispatch timings
type DispatcherConfig struct {
	SettleDelay   time.Duration
	RecordTimeout time.Duration
}

// Dispatcher sends print jobs to network printers. It is safe for concurrent
// use; each call owns its socket and timers.
type Dispatcher struct {
	connector Connector
	registry  *Registry
	history   HistoryRecorder
	usage     UsageTracker
	config    DispatcherConfig
	logger    *zap.Logger
}

// NewDispatcher creates a new dispatcher. history and usage may be nil.
func NewDispatcher(
	connector Connector,
	registry *Registry,
	history HistoryRecorder,
	usage UsageTracker,
	config DispatcherConfig,
	logger *zap.Logger,
) *Dispatcher {
	if registry == nil {
		registry = defaultRegistry
	}
	if config.SettleDelay < 0 {
		config.SettleDelay = 0
	}
	if config.RecordTimeout <= 0 {
		config.RecordTimeout = 5 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Dispatcher{
		connector: connector,
		registry:  registry,
		history:   history,
		usage:     usage,
		config:    config,
		logger:    logger.With(zap.String("component", "dispatcher")),
	}
}

// PrintData sends content to the printer described by settings and blocks
// until the attempt settles. Expected failures are reported in the result,
// never as a panic or error.
func (d *Dispatcher) PrintData(ctx context.Context, content string, settings model.PrinterSettings, job model.PrintJob) model.PrintResult {
	resolver, resultCh := newChannelResolver()

	if settings.TimeoutSeconds <= 0 {
		settings.TimeoutSeconds = DefaultTimeoutSeconds
	}
	if job.PrinterID != "" && d.usage != nil {
		go d.touchLastUsed(job.PrinterID)
	}

	call := &printCall{
		dispatcher: d,
		settings:   settings,
		job:        job,
		resolver:   resolver,
		opLogger:   utils.NewOperationLogger(d.logger, "print", uuid.New().String()),
		logger: utils.NewPrinterLogger(d.logger, settings.Address(),
			string(settings.PrintStandard), job.PrinterName),
	}
	call.run(ctx, content)

	// run settles on every path; this only guards against a missed branch.
	resolver.Resolve(internalErrorResult("print dispatch ended without a result"))
	return <-resultCh
}

// PrintDataAsync runs PrintData in the background. The returned channel
// receives exactly one result.
func (d *Dispatcher) PrintDataAsync(ctx context.Context, content string, settings model.PrinterSettings, job model.PrintJob) <-chan model.PrintResult {
	ch := make(chan model.PrintResult, 1)
	go func() {
		ch <- d.PrintData(ctx, content, settings, job)
	}()
	return ch
}

// TestPrint prints a diagnostic block describing the printer configuration
func (d *Dispatcher) TestPrint(ctx context.Context, settings model.PrinterSettings) model.PrintResult {
	return d.PrintData(ctx, TestPrintContent(settings, time.Now()), settings, model.PrintJob{})
}

// TestPrintContent builds the diagnostic block printed by TestPrint
func TestPrintContent(settings model.PrinterSettings, now time.Time) string {
	return fmt.Sprintf(`
 TESTE DE IMPRESSÃO
====================
Data: %s
Hora: %s
IP: %s
Porta: %d
Padrão: %s
====================
`,
		now.Format("02/01/2006"),
		now.Format("15:04:05"),
		settings.IPAddress,
		settings.Port,
		settings.PrintStandard,
	)
}

// Encode renders content for the settings' standard in its wire encoding
func (d *Dispatcher) Encode(settings model.PrinterSettings, content string) ([]byte, error) {
	if _, known := d.registry.Builder(settings.PrintStandard); !known {
		d.logger.Warn("Unknown print standard, falling back to ESC/POS",
			zap.String("print_standard", string(settings.PrintStandard)),
		)
	}

	payload, err := EncodeLatin1(d.registry.Generate(settings, content))
	if err != nil {
		return nil, fmt.Errorf("failed to encode print commands: %w", err)
	}
	return payload, nil
}

func (d *Dispatcher) touchLastUsed(printerID string) {
	ctx, cancel := context.WithTimeout(context.Background(), d.config.RecordTimeout)
	defer cancel()

	if err := d.usage.UpdateLastUsed(ctx, printerID); err != nil {
		d.logger.Warn("Failed to update printer last-used time",
			zap.String("printer_id", printerID),
			zap.Error(err),
		)
	}
}

func (d *Dispatcher) record(entry *model.HistoryEntry) {
	ctx, cancel := context.WithTimeout(context.Background(), d.config.RecordTimeout)
	defer cancel()

	if err := d.history.Record(ctx, entry); err != nil {
		d.logger.Warn("Failed to record print history",
			zap.String("status", string(entry.Status)),
			zap.Error(err),
		)
	}
}

type callState int

const (
	stateConnecting callState = iota
	stateSending
	stateSettling
)

type writeResult struct {
	n        int
	size     int
	err      error
	panicked interface{}
}

// printCall is the state of one PrintData invocation
type printCall struct {
	dispatcher *Dispatcher
	settings   model.PrinterSettings
	job        model.PrintJob
	resolver   *Resolver
	socket     Socket
	opLogger   *utils.OperationLogger
	logger     *utils.PrinterLogger
}

// run drives the connection state machine until the resolver settles. The
// first of connection error, connection timeout, write failure, settle
// completion, operation timeout or cancellation wins.
func (c *printCall) run(ctx context.Context, content string) {
	opTimer := time.NewTimer(c.settings.OperationTimeout())
	var settleTimer *time.Timer
	var settleC <-chan time.Time

	defer func() {
		if r := recover(); r != nil {
			c.logger.Error("Print dispatch panicked",
				zap.Any("panic", r),
				zap.Stack("stacktrace"),
			)
			c.finish(internalErrorResult(r), model.HistoryStatusError)
		}
		opTimer.Stop()
		if settleTimer != nil {
			settleTimer.Stop()
		}
		if c.socket != nil {
			c.socket.Destroy()
		}
	}()

	c.opLogger.Start(
		zap.String("printer_address", c.settings.Address()),
		zap.String("print_standard", string(c.settings.PrintStandard)),
		zap.Int("timeout_seconds", c.settings.TimeoutSeconds),
	)

	c.socket = c.dispatcher.connector.Open(ctx, c.settings)
	events := c.socket.Events()
	writeDone := make(chan writeResult, 1)
	state := stateConnecting

	for !c.resolver.Resolved() {
		select {
		case ev, ok := <-events:
			if !ok {
				events = nil
				continue
			}
			switch ev.Type {
			case EventConnect:
				if state != stateConnecting {
					continue
				}
				c.logger.LogConnection(ev.Type.String(), nil)
				payload, err := c.dispatcher.Encode(c.settings, content)
				if err != nil {
					c.finish(internalErrorResult(err), model.HistoryStatusError)
					continue
				}
				state = stateSending
				go c.send(payload, writeDone)
			case EventError:
				c.logger.LogConnection(ev.Type.String(), ev.Err)
				c.finish(ClassifyError(ev.Err, c.settings), ClassifyStatus(ev.Err))
			case EventTimeout:
				c.logger.LogConnection(ev.Type.String(), nil)
				c.finish(connectTimeoutResult(), model.HistoryStatusTimeout)
			case EventClose:
				c.logger.LogConnection(ev.Type.String(), nil)
			}

		case w := <-writeDone:
			switch {
			case w.panicked != nil:
				c.finish(internalErrorResult(w.panicked), model.HistoryStatusError)
			case w.err != nil:
				c.finish(writeErrorResult(w.err), model.HistoryStatusError)
			case w.n < w.size:
				c.finish(writeRejectedResult(), model.HistoryStatusError)
			default:
				state = stateSettling
				settleTimer = time.NewTimer(c.dispatcher.config.SettleDelay)
				settleC = settleTimer.C
			}

		case <-settleC:
			c.finish(successResult(), model.HistoryStatusSuccess)

		case <-opTimer.C:
			c.finish(operationTimeoutResult(c.settings), model.HistoryStatusTimeout)

		case <-ctx.Done():
			c.finish(cancelledResult(ctx.Err()), model.HistoryStatusError)
		}
	}
}

// send performs the single write of the payload. It runs on its own
// goroutine, so a panicking Socket is recovered here and reported back.
func (c *printCall) send(payload []byte, done chan<- writeResult) {
	defer func() {
		if r := recover(); r != nil {
			c.logger.Error("Socket write panicked",
				zap.Any("panic", r),
				zap.Stack("stacktrace"),
			)
			done <- writeResult{size: len(payload), panicked: r}
		}
	}()

	n, err := c.socket.Write(payload)
	done <- writeResult{n: n, size: len(payload), err: err}
}

// finish settles the call once: destroys the socket, logs the outcome and
// records history. Later calls are no-ops.
func (c *printCall) finish(result model.PrintResult, status model.HistoryStatus) {
	if !c.resolver.Resolve(result) {
		return
	}

	if c.socket != nil {
		c.socket.Destroy()
	}

	duration := c.opLogger.Elapsed()
	c.logger.LogPrint(result.Success, result.Message, result.Details, duration)
	if result.Success {
		c.opLogger.Success()
	} else {
		c.opLogger.Error(errors.New(result.Message), zap.String("details", result.Details))
	}

	if c.job.Label != nil && c.dispatcher.history != nil {
		go c.dispatcher.record(c.historyEntry(result, status, duration))
	}
}

func (c *printCall) historyEntry(result model.PrintResult, status model.HistoryStatus, duration time.Duration) *model.HistoryEntry {
	entry := &model.HistoryEntry{
		ID:            uuid.New(),
		PrinterID:     c.job.PrinterID,
		PrinterName:   c.job.PrinterName,
		PrinterIP:     c.settings.IPAddress,
		PrintStandard: c.settings.PrintStandard,
		Name:          c.job.Label.Name,
		Code:          c.job.Label.Code,
		Status:        status,
		DurationMs:    duration.Milliseconds(),
		Timestamp:     time.Now(),
	}
	if !result.Success {
		msg := result.Message
		if result.Details != "" {
			msg = fmt.Sprintf("%s: %s", result.Message, result.Details)
		}
		entry.ErrorMessage = &msg
	}
	return entry
}
