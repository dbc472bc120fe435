// internal/printer/connection.go
package printer

import (
	"context"
	"errors"
	"net"
	"sync"
	"time"

	"go.uber.org/zap"

	"label-print-service/internal/model"
)

// SocketEventType enumerates the terminal and informational socket events
type SocketEventType int

const (
	EventConnect SocketEventType = iota
	EventError
	EventTimeout
	EventClose
)

func (t SocketEventType) String() string {
	switch t {
	case EventConnect:
		return "connect"
	case EventError:
		return "error"
	case EventTimeout:
		return "timeout"
	case EventClose:
		return "close"
	default:
		return "unknown"
	}
}

// SocketEvent is emitted by a Socket; Err is set for EventError only
type SocketEvent struct {
	Type SocketEventType
	Err  error
}

// Socket is a single-use connection handle to a printer
type Socket interface {
	// Events delivers connect, error, timeout and close notifications
	Events() <-chan SocketEvent
	// Write sends data. A short count with a nil error means the printer
	// did not accept the whole payload.
	Write(data []byte) (int, error)
	// Destroy closes the connection and aborts a pending dial. Idempotent.
	Destroy()
}

// Connector opens sockets to printers
type Connector interface {
	Open(ctx context.Context, settings model.PrinterSettings) Socket
}

// ErrNotConnected is returned by Write before the connect event
var ErrNotConnected = errors.New("socket not connected")

// TCPConfig holds the socket-level timeouts
type TCPConfig struct {
	ConnectTimeout time.Duration `json:"connect_timeout"`
	WriteTimeout   time.Duration `json:"write_timeout"`
	KeepAlive      bool          `json:"keep_alive"`
}

// TCPConnector opens raw TCP sockets
type TCPConnector struct {
	config TCPConfig
	logger *zap.Logger
}

// NewTCPConnector creates a new TCP connector
func NewTCPConnector(config TCPConfig, logger *zap.Logger) *TCPConnector {
	if config.ConnectTimeout <= 0 {
		config.ConnectTimeout = 3 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TCPConnector{
		config: config,
		logger: logger.With(zap.String("protocol", "tcp")),
	}
}

// Open starts dialing in the background and returns immediately. The dial is
// bounded by the connect timeout, independently of the operation timeout.
func (c *TCPConnector) Open(ctx context.Context, settings model.PrinterSettings) Socket {
	dialCtx, cancel := context.WithTimeout(ctx, c.config.ConnectTimeout)

	s := &tcpSocket{
		config: c.config,
		events: make(chan SocketEvent, 4),
		cancel: cancel,
		logger: c.logger.With(
			zap.String("host", settings.IPAddress),
			zap.Int("port", settings.Port),
		),
	}

	go s.dial(dialCtx, settings.Address())
	return s
}

type tcpSocket struct {
	config    TCPConfig
	conn      net.Conn
	events    chan SocketEvent
	cancel    context.CancelFunc
	logger    *zap.Logger
	mutex     sync.Mutex
	destroyed bool
}

func (s *tcpSocket) Events() <-chan SocketEvent {
	return s.events
}

func (s *tcpSocket) dial(ctx context.Context, address string) {
	dialer := &net.Dialer{}
	if s.config.KeepAlive {
		dialer.KeepAlive = 30 * time.Second
	}

	s.logger.Debug("Opening TCP connection")
	conn, err := dialer.DialContext(ctx, "tcp", address)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			s.logger.Debug("TCP connect timed out", zap.Duration("timeout", s.config.ConnectTimeout))
			s.emit(SocketEvent{Type: EventTimeout})
			return
		}
		s.logger.Debug("TCP connect failed", zap.Error(err))
		s.emit(SocketEvent{Type: EventError, Err: err})
		return
	}

	s.mutex.Lock()
	if s.destroyed {
		s.mutex.Unlock()
		conn.Close()
		return
	}
	s.conn = conn
	s.mutex.Unlock()

	s.logger.Debug("TCP connection opened")
	s.emit(SocketEvent{Type: EventConnect})
}

func (s *tcpSocket) Write(data []byte) (int, error) {
	s.mutex.Lock()
	conn := s.conn
	s.mutex.Unlock()

	if conn == nil {
		return 0, ErrNotConnected
	}

	if s.config.WriteTimeout > 0 {
		conn.SetWriteDeadline(time.Now().Add(s.config.WriteTimeout))
	}

	n, err := conn.Write(data)
	if err != nil {
		s.logger.Debug("TCP write failed", zap.Error(err))
		return n, err
	}

	s.logger.Debug("TCP write completed", zap.Int("bytes", n))
	return n, nil
}

func (s *tcpSocket) Destroy() {
	s.mutex.Lock()
	if s.destroyed {
		s.mutex.Unlock()
		return
	}
	s.destroyed = true
	conn := s.conn
	s.mutex.Unlock()

	s.cancel()
	if conn != nil {
		if err := conn.Close(); err != nil {
			s.logger.Debug("TCP close failed", zap.Error(err))
		}
	}
	s.emit(SocketEvent{Type: EventClose})
}

// emit never blocks; the event buffer covers one terminal event plus close.
func (s *tcpSocket) emit(ev SocketEvent) {
	select {
	case s.events <- ev:
	default:
		s.logger.Debug("Dropping socket event", zap.Stringer("event", ev.Type))
	}
}
