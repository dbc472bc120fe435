// internal/handler/event_bus.go
package handler

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"label-print-service/internal/model"
)

// EventBus fans print events out to subscribers. Publish never blocks;
// events are dropped when the bus or a subscriber falls behind.
type EventBus struct {
	subscribers map[string]chan model.PrintEvent
	events      chan model.PrintEvent
	mutex       sync.RWMutex
	logger      *zap.Logger
}

// NewEventBus creates a new event bus
func NewEventBus(logger *zap.Logger) *EventBus {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EventBus{
		subscribers: make(map[string]chan model.PrintEvent),
		events:      make(chan model.PrintEvent, 1000),
		logger:      logger.With(zap.String("component", "event-bus")),
	}
}

// Start distributes events until ctx is cancelled
func (eb *EventBus) Start(ctx context.Context) {
	for {
		select {
		case event := <-eb.events:
			eb.distributeEvent(event)
		case <-ctx.Done():
			eb.closeSubscribers()
			return
		}
	}
}

// Publish publishes an event
func (eb *EventBus) Publish(event model.PrintEvent) {
	select {
	case eb.events <- event:
	default:
		eb.logger.Warn("Event bus full, dropping event",
			zap.String("event_type", string(event.EventType)),
		)
	}
}

// Subscribe registers a subscriber under id, replacing a previous one
func (eb *EventBus) Subscribe(id string) <-chan model.PrintEvent {
	eb.mutex.Lock()
	defer eb.mutex.Unlock()

	if old, ok := eb.subscribers[id]; ok {
		close(old)
	}
	subscriber := make(chan model.PrintEvent, 100)
	eb.subscribers[id] = subscriber
	return subscriber
}

// Unsubscribe removes a subscriber and closes its channel
func (eb *EventBus) Unsubscribe(id string) {
	eb.mutex.Lock()
	defer eb.mutex.Unlock()

	if subscriber, ok := eb.subscribers[id]; ok {
		delete(eb.subscribers, id)
		close(subscriber)
	}
}

// distributeEvent distributes an event to subscribers
func (eb *EventBus) distributeEvent(event model.PrintEvent) {
	eb.mutex.RLock()
	defer eb.mutex.RUnlock()

	for id, subscriber := range eb.subscribers {
		select {
		case subscriber <- event:
		default:
			eb.logger.Debug("Subscriber is slow, skipping event",
				zap.String("subscriber", id),
				zap.String("event_type", string(event.EventType)),
			)
		}
	}
}

func (eb *EventBus) closeSubscribers() {
	eb.mutex.Lock()
	defer eb.mutex.Unlock()

	for id, subscriber := range eb.subscribers {
		close(subscriber)
		delete(eb.subscribers, id)
	}
}
