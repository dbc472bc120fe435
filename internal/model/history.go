// internal/model/history.go
package model

import (
	"time"

	"github.com/google/uuid"
)

// HistoryStatus represents the terminal outcome of a print attempt
type HistoryStatus string

const (
	HistoryStatusSuccess HistoryStatus = "success"
	HistoryStatusError   HistoryStatus = "error"
	HistoryStatusTimeout HistoryStatus = "timeout"
)

// IsValid checks the status against the known values
func (s HistoryStatus) IsValid() bool {
	switch s {
	case HistoryStatusSuccess, HistoryStatusError, HistoryStatusTimeout:
		return true
	}
	return false
}

// HistoryEntry is one recorded print attempt
type HistoryEntry struct {
	ID            uuid.UUID     `json:"id" db:"id"`
	PrinterID     string        `json:"printer_id" db:"printer_id"`
	PrinterName   string        `json:"printer_name" db:"printer_name"`
	PrinterIP     string        `json:"printer_ip" db:"printer_ip"`
	PrintStandard PrintStandard `json:"print_standard" db:"print_standard"`
	Name          string        `json:"name" db:"name"`
	Code          string        `json:"code" db:"code"`
	Status        HistoryStatus `json:"status" db:"status"`
	ErrorMessage  *string       `json:"error_message,omitempty" db:"error_message"`
	DurationMs    int64         `json:"duration_ms" db:"duration_ms"`
	Timestamp     time.Time     `json:"timestamp" db:"timestamp"`
}

// HistoryStats summarizes the recorded history
type HistoryStats struct {
	TotalPrints      int     `json:"total_prints"`
	SuccessfulPrints int     `json:"successful_prints"`
	FailedPrints     int     `json:"failed_prints"`
	SuccessRate      float64 `json:"success_rate"`
	MostUsedPrinter  *string `json:"most_used_printer"`
	AverageDuration  float64 `json:"average_duration_ms"`
}

// HistorySettings holds user-tunable history retention
type HistorySettings struct {
	MaxHistoryEntries int `json:"max_history_entries" binding:"required"`
}
