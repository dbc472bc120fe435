// internal/model/printer.go
package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// PrintStandard represents the command language a printer understands
type PrintStandard string

const (
	StandardESCPOS PrintStandard = "ESC/POS"
	StandardZPL    PrintStandard = "ZPL"
	StandardEPL    PrintStandard = "EPL"
)

// ParsePrintStandard normalizes a configured standard name. Unknown values are
// returned as-is so the command generator can apply its fallback.
func ParsePrintStandard(s string) PrintStandard {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "ESC/POS", "ESCPOS", "ESC_POS":
		return StandardESCPOS
	case "ZPL":
		return StandardZPL
	case "EPL":
		return StandardEPL
	default:
		return PrintStandard(strings.TrimSpace(s))
	}
}

// IsKnown reports whether the standard has a dedicated command generator
func (s PrintStandard) IsKnown() bool {
	return s == StandardESCPOS || s == StandardZPL || s == StandardEPL
}

// PrinterSettings is the per-call configuration of a network printer
type PrinterSettings struct {
	IPAddress      string        `json:"ip_address" db:"ip_address" binding:"required,ipv4"`
	Port           int           `json:"port" db:"port" binding:"omitempty,min=1,max=65535"`
	PrintStandard  PrintStandard `json:"print_standard" db:"print_standard"`
	TimeoutSeconds int           `json:"timeout_seconds" db:"timeout_seconds" binding:"omitempty,gt=0"`
	FontSizeCode   int           `json:"font_size_code" db:"font_size_code"`
}

// Address returns the host:port pair used for dialing and messages
func (s PrinterSettings) Address() string {
	return fmt.Sprintf("%s:%d", s.IPAddress, s.Port)
}

// OperationTimeout returns the overall operation budget
func (s PrinterSettings) OperationTimeout() time.Duration {
	return time.Duration(s.TimeoutSeconds) * time.Second
}

// Printer is a saved printer in the registry
type Printer struct {
	ID         uuid.UUID  `json:"id" db:"id"`
	Name       string     `json:"name" db:"name"`
	IsDefault  bool       `json:"is_default" db:"is_default"`
	LastUsedAt *time.Time `json:"last_used_at" db:"last_used_at"`
	CreatedAt  time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at" db:"updated_at"`
	PrinterSettings
}

// LabelData identifies the label being printed, for history only
type LabelData struct {
	Name string `json:"name"`
	Code string `json:"code"`
}

// PrintJob carries the optional metadata of a print call
type PrintJob struct {
	PrinterID   string     `json:"printer_id,omitempty"`
	PrinterName string     `json:"printer_name,omitempty"`
	Label       *LabelData `json:"label_data,omitempty"`
}

// PrintResult is the single outcome of a print attempt
type PrintResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}
