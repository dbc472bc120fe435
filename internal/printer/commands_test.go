package printer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"label-print-service/internal/model"
)

func settingsFor(standard model.PrintStandard) model.PrinterSettings {
	return model.PrinterSettings{
		IPAddress:      "192.168.1.100",
		Port:           9100,
		PrintStandard:  standard,
		TimeoutSeconds: 10,
	}
}

// assertInOrder checks that every part occurs in s after the previous one
func assertInOrder(t *testing.T, s string, parts ...string) {
	t.Helper()
	offset := 0
	for _, p := range parts {
		idx := strings.Index(s[offset:], p)
		if !assert.GreaterOrEqual(t, idx, 0, "missing %q after offset %d", p, offset) {
			return
		}
		offset += idx + len(p)
	}
}

func TestGenerateCommands_ESCPOS(t *testing.T) {
	out := GenerateCommands(settingsFor(model.StandardESCPOS), "Teste de impressão")

	assert.True(t, strings.HasPrefix(out, "\x1B@"))
	assertInOrder(t, out,
		"\x1B@",
		"\x1Bt\x10",
		"\x1D!\x00",
		"\x1Ba\x01",
		"Teste de impressão",
		"\n",
		"\x1Bd\x03",
		"\x1DV\x00",
	)
	assert.True(t, strings.HasSuffix(out, "\x1DV\x00"))
}

func TestGenerateCommands_ESCPOSFontSize(t *testing.T) {
	settings := settingsFor(model.StandardESCPOS)

	settings.FontSizeCode = 1
	assert.Contains(t, GenerateCommands(settings, "x"), "\x1D!\x11")

	settings.FontSizeCode = 42
	assert.Contains(t, GenerateCommands(settings, "x"), "\x1D!\x00")
}

func TestGenerateCommands_ZPL(t *testing.T) {
	out := GenerateCommands(settingsFor(model.StandardZPL), "Etiqueta 001")

	assert.Equal(t, "^XA\n^CF0,30\n^FO50,50^FDEtiqueta 001^FS\n^XZ\n", out)
	assertInOrder(t, out, "^XA", "^CF0,30", "^FO50,50", "^FD", "Etiqueta 001", "^FS", "^XZ")
}

func TestGenerateCommands_ZPLEscapesControlPrefixes(t *testing.T) {
	out := GenerateCommands(settingsFor(model.StandardZPL), "a^XZb~c")
	assert.Contains(t, out, "^FDa XZb c^FS")
	assert.Equal(t, 1, strings.Count(out, "^XZ"))
}

func TestGenerateCommands_EPL(t *testing.T) {
	out := GenerateCommands(settingsFor(model.StandardEPL), "Caixa 7")

	assert.Equal(t, "N\nA50,50,0,3,1,1,N,\"Caixa 7\"\nP1,1\n", out)
}

func TestGenerateCommands_EPLEscapesQuotes(t *testing.T) {
	out := GenerateCommands(settingsFor(model.StandardEPL), `diz "oi" \ fim`)
	assert.Contains(t, out, `A50,50,0,3,1,1,N,"diz \"oi\" \\ fim"`)
}

func TestGenerateCommands_UnknownStandardFallsBackToESCPOS(t *testing.T) {
	content := "Produto X"
	want := GenerateCommands(settingsFor(model.StandardESCPOS), content)

	for _, standard := range []model.PrintStandard{"TSPL", "", "zebra"} {
		assert.Equal(t, want, GenerateCommands(settingsFor(standard), content), "standard %q", standard)
	}
}

func TestGenerateCommands_StandardAliases(t *testing.T) {
	want := GenerateCommands(settingsFor(model.StandardZPL), "a")
	assert.Equal(t, want, GenerateCommands(settingsFor("zpl"), "a"))
	assert.Equal(t, GenerateCommands(settingsFor(model.StandardESCPOS), "a"),
		GenerateCommands(settingsFor("escpos"), "a"))
}

func TestGenerateCommands_NormalizesContent(t *testing.T) {
	out := GenerateCommands(settingsFor(model.StandardZPL), "“Pão” 日")
	assert.Contains(t, out, "^FD\"Pão\" ?^FS")
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	assert.ElementsMatch(t,
		[]model.PrintStandard{model.StandardESCPOS, model.StandardZPL, model.StandardEPL},
		r.Standards())

	_, known := r.Builder("TSPL")
	assert.False(t, known)

	r.Register("TSPL", func(_ model.PrinterSettings, content string) string {
		return "CLS\nTEXT " + content + "\nPRINT 1\n"
	})
	_, known = r.Builder("TSPL")
	assert.True(t, known)
	assert.Equal(t, "CLS\nTEXT a\nPRINT 1\n", r.Generate(settingsFor("TSPL"), "a"))
}
