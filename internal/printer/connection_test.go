package printer

import (
	"context"
	"io"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"label-print-service/internal/model"
)

// startPrinter runs a loopback listener that captures everything sent to it
func startPrinter(t *testing.T) (model.PrinterSettings, <-chan []byte) {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { ln.Close() })

	received := make(chan []byte, 1)
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		data, _ := io.ReadAll(conn)
		received <- data
	}()

	addr := ln.Addr().(*net.TCPAddr)
	return model.PrinterSettings{
		IPAddress:      addr.IP.String(),
		Port:           addr.Port,
		PrintStandard:  model.StandardESCPOS,
		TimeoutSeconds: 5,
	}, received
}

func nextEvent(t *testing.T, s Socket) SocketEvent {
	t.Helper()
	select {
	case ev := <-s.Events():
		return ev
	case <-time.After(3 * time.Second):
		t.Fatal("no socket event")
		return SocketEvent{}
	}
}

func TestTCPConnector_ConnectWriteDestroy(t *testing.T) {
	settings, received := startPrinter(t)
	connector := NewTCPConnector(TCPConfig{WriteTimeout: time.Second}, zaptest.NewLogger(t))

	socket := connector.Open(context.Background(), settings)
	assert.Equal(t, EventConnect, nextEvent(t, socket).Type)

	n, err := socket.Write([]byte("hello"))
	require.NoError(t, err)
	assert.Equal(t, 5, n)

	socket.Destroy()
	socket.Destroy()
	assert.Equal(t, EventClose, nextEvent(t, socket).Type)

	select {
	case data := <-received:
		assert.Equal(t, []byte("hello"), data)
	case <-time.After(3 * time.Second):
		t.Fatal("printer received nothing")
	}
}

func TestTCPConnector_Refused(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().(*net.TCPAddr)
	require.NoError(t, ln.Close())

	connector := NewTCPConnector(TCPConfig{}, zaptest.NewLogger(t))
	settings := model.PrinterSettings{IPAddress: "127.0.0.1", Port: addr.Port}
	socket := connector.Open(context.Background(), settings)
	defer socket.Destroy()

	ev := nextEvent(t, socket)
	require.Equal(t, EventError, ev.Type)
	require.Error(t, ev.Err)
	assert.Equal(t, MsgPrinterOff, ClassifyError(ev.Err, settings).Message)
}

func TestTCPConnector_ConnectTimeout(t *testing.T) {
	connector := NewTCPConnector(TCPConfig{ConnectTimeout: time.Nanosecond}, zaptest.NewLogger(t))
	socket := connector.Open(context.Background(), model.PrinterSettings{IPAddress: "127.0.0.1", Port: 9})
	defer socket.Destroy()

	assert.Equal(t, EventTimeout, nextEvent(t, socket).Type)
}

func TestTCPConnector_WriteBeforeConnect(t *testing.T) {
	s := &tcpSocket{events: make(chan SocketEvent, 1), cancel: func() {}}
	_, err := s.Write([]byte("x"))
	assert.ErrorIs(t, err, ErrNotConnected)
}

func TestPrintData_OverTCP(t *testing.T) {
	settings, received := startPrinter(t)
	settings.PrintStandard = model.StandardEPL
	connector := NewTCPConnector(TCPConfig{WriteTimeout: time.Second}, zaptest.NewLogger(t))
	d := NewDispatcher(connector, nil, nil, nil, DispatcherConfig{SettleDelay: 10 * time.Millisecond}, zaptest.NewLogger(t))

	result := d.PrintData(context.Background(), "Caixa 7", settings, model.PrintJob{})
	require.True(t, result.Success, result.Details)

	select {
	case data := <-received:
		assert.Equal(t, "N\nA50,50,0,3,1,1,N,\"Caixa 7\"\nP1,1\n", string(data))
	case <-time.After(3 * time.Second):
		t.Fatal("printer received nothing")
	}
}
