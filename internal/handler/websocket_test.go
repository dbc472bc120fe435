package handler

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"label-print-service/internal/config"
	"label-print-service/internal/model"
)

func TestEventBus_FanOut(t *testing.T) {
	bus := NewEventBus(zaptest.NewLogger(t))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go bus.Start(ctx)

	a := bus.Subscribe("a")
	b := bus.Subscribe("b")

	event := model.NewPrintEvent(model.EventPrintCompleted, "p1", nil)
	bus.Publish(event)

	for _, ch := range []<-chan model.PrintEvent{a, b} {
		select {
		case got := <-ch:
			assert.Equal(t, event.ID, got.ID)
		case <-time.After(time.Second):
			t.Fatal("event not delivered")
		}
	}

	bus.Unsubscribe("a")
	_, open := <-a
	assert.False(t, open)
}

func TestClient_Wants(t *testing.T) {
	client := &Client{}
	completed := model.NewPrintEvent(model.EventPrintCompleted, "p1", nil)
	other := model.NewPrintEvent(model.EventPrintCompleted, "p2", nil)
	cleared := model.NewPrintEvent(model.EventHistoryCleared, "", nil)

	assert.True(t, client.Wants(completed))
	assert.True(t, client.Wants(cleared))

	client.Subscribe([]model.EventType{model.EventPrintCompleted}, "p1")
	assert.True(t, client.Wants(completed))
	assert.False(t, client.Wants(other))
	assert.False(t, client.Wants(cleared))

	client.Unsubscribe()
	assert.True(t, client.Wants(other))
}

func TestWebSocketHandler_StreamsEvents(t *testing.T) {
	logger := zaptest.NewLogger(t)
	bus := NewEventBus(logger)
	ws := NewWebSocketHandler(bus, &config.SecurityConfig{}, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go bus.Start(ctx)
	go ws.Start(ctx)

	router := gin.New()
	ws.RegisterRoutes(router.Group("/ws"))
	server := httptest.NewServer(router)
	defer server.Close()

	url := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws/events"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, conn.WriteJSON(WebSocketMessage{Type: "ping", RequestID: "r1"}))
	var pong WebSocketMessage
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	require.NoError(t, conn.ReadJSON(&pong))
	assert.Equal(t, "pong", pong.Type)
	assert.Equal(t, "r1", pong.RequestID)

	require.Eventually(t, func() bool {
		return ws.GetConnectionStats().TotalConnections == 1
	}, time.Second, 10*time.Millisecond)

	bus.Publish(model.NewPrintEvent(model.EventPrintFailed, "p1", map[string]interface{}{"message": "Impressora desligada"}))

	var msg WebSocketMessage
	require.NoError(t, conn.ReadJSON(&msg))
	assert.Equal(t, "print_event", msg.Type)
	data, ok := msg.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, string(model.EventPrintFailed), data["event_type"])
	assert.Equal(t, "ERROR", data["severity"])
}
