// internal/printer/commands.go
package printer

import (
	"fmt"
	"strings"
	"sync"

	"label-print-service/internal/model"
)

// ESCPOS contains the ESC/POS command subset used for text labels
var ESCPOS = struct {
	Initialize  string
	CodePage    string // WPC1252, matches Latin-1 in 0xA0-0xFF
	TextSize    string // + size byte
	AlignCenter string
	FeedLines   string // + line count byte
	CutFull     string
}{
	Initialize:  "\x1B@",     // ESC @
	CodePage:    "\x1Bt\x10", // ESC t 16
	TextSize:    "\x1D!",     // GS ! n
	AlignCenter: "\x1Ba\x01", // ESC a 1
	FeedLines:   "\x1Bd",     // ESC d n
	CutFull:     "\x1DV\x00", // GS V 0
}

const (
	escposFeedLines   = 3
	escposMaxTextSize = 7

	zplFont       = "^CF0,30"
	zplFieldStart = "^FO50,50"
	eplTextField  = "A50,50,0,3,1,1,N,"
)

// CommandBuilder renders normalized content into a printer command string
type CommandBuilder func(settings model.PrinterSettings, content string) string

// Registry maps print standards to command builders. Lookups for unknown
// standards resolve to the fallback builder.
type Registry struct {
	builders map[model.PrintStandard]CommandBuilder
	fallback CommandBuilder
	mu       sync.RWMutex
}

// NewRegistry creates a registry with the ESC/POS, ZPL and EPL builders
func NewRegistry() *Registry {
	r := &Registry{
		builders: make(map[model.PrintStandard]CommandBuilder),
		fallback: BuildESCPOS,
	}
	r.Register(model.StandardESCPOS, BuildESCPOS)
	r.Register(model.StandardZPL, BuildZPL)
	r.Register(model.StandardEPL, BuildEPL)
	return r
}

// Register registers a builder for a standard, replacing any previous one
func (r *Registry) Register(standard model.PrintStandard, builder CommandBuilder) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.builders[standard] = builder
}

// Builder returns the builder for a standard and whether it was an exact match
func (r *Registry) Builder(standard model.PrintStandard) (CommandBuilder, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if b, ok := r.builders[model.ParsePrintStandard(string(standard))]; ok {
		return b, true
	}
	return r.fallback, false
}

// Standards lists the registered standards
func (r *Registry) Standards() []model.PrintStandard {
	r.mu.RLock()
	defer r.mu.RUnlock()

	standards := make([]model.PrintStandard, 0, len(r.builders))
	for s := range r.builders {
		standards = append(standards, s)
	}
	return standards
}

// Generate normalizes content and renders it for the settings' standard
func (r *Registry) Generate(settings model.PrinterSettings, content string) string {
	builder, _ := r.Builder(settings.PrintStandard)
	return builder(settings, Normalize(content))
}

var defaultRegistry = NewRegistry()

// GenerateCommands renders content with the default registry
func GenerateCommands(settings model.PrinterSettings, content string) string {
	return defaultRegistry.Generate(settings, content)
}

// BuildESCPOS renders an ESC/POS receipt: init, code page, size, centered
// text, feed and full cut.
func BuildESCPOS(settings model.PrinterSettings, content string) string {
	var b strings.Builder
	b.WriteString(ESCPOS.Initialize)
	b.WriteString(ESCPOS.CodePage)
	b.WriteString(ESCPOS.TextSize)
	b.WriteByte(textSizeByte(settings.FontSizeCode))
	b.WriteString(ESCPOS.AlignCenter)
	b.WriteString(content)
	b.WriteString("\n")
	b.WriteString(ESCPOS.FeedLines)
	b.WriteByte(escposFeedLines)
	b.WriteString(ESCPOS.CutFull)
	return b.String()
}

// textSizeByte encodes a font size code as GS ! n with equal width and
// height magnification. Out of range codes print at normal size.
func textSizeByte(code int) byte {
	if code < 0 || code > escposMaxTextSize {
		code = 0
	}
	return byte(code<<4 | code)
}

// BuildZPL renders a single-field ZPL label
func BuildZPL(_ model.PrinterSettings, content string) string {
	var b strings.Builder
	b.WriteString("^XA\n")
	b.WriteString(zplFont + "\n")
	b.WriteString(fmt.Sprintf("%s^FD%s^FS\n", zplFieldStart, sanitizeZPL(content)))
	b.WriteString("^XZ\n")
	return b.String()
}

func sanitizeZPL(v string) string {
	return strings.NewReplacer("^", " ", "~", " ").Replace(v)
}

// BuildEPL renders a single text field EPL label
func BuildEPL(_ model.PrinterSettings, content string) string {
	var b strings.Builder
	b.WriteString("N\n")
	b.WriteString(fmt.Sprintf("%s\"%s\"\n", eplTextField, sanitizeEPL(content)))
	b.WriteString("P1,1\n")
	return b.String()
}

func sanitizeEPL(v string) string {
	return strings.NewReplacer(`\`, `\\`, `"`, `\"`).Replace(v)
}
