// internal/model/event.go
package model

import (
	"time"

	"github.com/google/uuid"
)

// EventType represents the type of event
type EventType string

const (
	EventPrintStarted   EventType = "PRINT_STARTED"
	EventPrintCompleted EventType = "PRINT_COMPLETED"
	EventPrintFailed    EventType = "PRINT_FAILED"
	EventPrinterUpdated EventType = "PRINTER_UPDATED"
	EventHistoryCleared EventType = "HISTORY_CLEARED"
)

// PrintEvent represents an event in the system
type PrintEvent struct {
	ID        uuid.UUID              `json:"id"`
	EventType EventType              `json:"event_type"`
	PrinterID string                 `json:"printer_id,omitempty"`
	Data      map[string]interface{} `json:"data"`
	Timestamp time.Time              `json:"timestamp"`
	Severity  string                 `json:"severity"` // INFO, WARNING, ERROR
}

// NewPrintEvent builds an event stamped with a fresh id and time
func NewPrintEvent(eventType EventType, printerID string, data map[string]interface{}) PrintEvent {
	severity := "INFO"
	if eventType == EventPrintFailed {
		severity = "ERROR"
	}
	return PrintEvent{
		ID:        uuid.New(),
		EventType: eventType,
		PrinterID: printerID,
		Data:      data,
		Timestamp: time.Now(),
		Severity:  severity,
	}
}
