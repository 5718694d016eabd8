package fpdfrenderer

import (
	"bytes"
	"fmt"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ByLCY/hwlabels/inventory"
	"github.com/ByLCY/hwlabels/layout"
	"github.com/ByLCY/hwlabels/templates"
)

var bodyFont = layout.FontResource{Name: "Regular", Src: "embed:regular", Style: "regular"}

func TestLayoutLinesWrapsWithinWidth(t *testing.T) {
	r := NewRenderer("")
	lines, err := r.LayoutLines("hello world again", 40, bodyFont, 12, 14.4)
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(lines), 2)
	for _, ln := range lines {
		assert.Greater(t, ln.Ascent, 0.0)
		assert.LessOrEqual(t, ln.Ascent, 12.0)
		assert.Equal(t, 12.0, ln.Height)
	}
}

func TestLayoutLinesKeepsShortText(t *testing.T) {
	r := NewRenderer("")
	lines, err := r.LayoutLines("PC-001", 200, bodyFont, 14, 16)
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, "PC-001", lines[0].Content)
	assert.Greater(t, lines[0].Width, 0.0)
	assert.Less(t, lines[0].Width, 200.0)
}

func TestUnknownFontFallsBack(t *testing.T) {
	r := NewRenderer("")
	font := layout.FontResource{Name: "Ghost", Src: "fonts/ghost.ttf"}
	lines, err := r.LayoutLines("abc", 100, font, 10, 12)
	require.NoError(t, err)
	require.Len(t, lines, 1)
}

var pageObject = regexp.MustCompile(`/Type\s*/Page[^s]`)

func TestRenderProducesPDF(t *testing.T) {
	data, err := NewRenderer("").Render(buildDocument(t, 20))
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF")), "output is not a PDF")
}

func TestRenderEmitsOnePagePerLayout(t *testing.T) {
	doc := buildDocument(t, 33)
	require.Equal(t, 3, doc.Sheet.PageCount())

	data, err := NewRenderer("").Render(doc)
	require.NoError(t, err)
	assert.Len(t, pageObject.FindAll(data, -1), 3)
}

func TestRenderRejectsEmptySheet(t *testing.T) {
	_, err := NewRenderer("").Render(buildDocument(t, 0))
	require.Error(t, err)
}

func TestFamilyNameIsSanitized(t *testing.T) {
	got := familyName(layout.FontResource{Name: "Noto Sans", Style: "Bold Italic"}, 2)
	assert.Equal(t, "f2-noto-sans-bold-italic", got)
}

// 名称经规范化后相同的两个字体资源必须各自注册，不能共用字形。
func TestSimilarFontNamesKeepTheirOwnGlyphs(t *testing.T) {
	r := NewRenderer("")
	mono := layout.FontResource{Name: "A.b", Src: "embed:mono"}
	regular := layout.FontResource{Name: "A-b", Src: "embed:regular"}

	monoLines, err := r.LayoutLines("iiii", 500, mono, 10, 12)
	require.NoError(t, err)
	regularLines, err := r.LayoutLines("iiii", 500, regular, 10, 12)
	require.NoError(t, err)

	require.Len(t, monoLines, 1)
	require.Len(t, regularLines, 1)
	assert.Greater(t, monoLines[0].Width, regularLines[0].Width)
	assert.NotEqual(t, r.scratch.families[fontCacheKey(mono)], r.scratch.families[fontCacheKey(regular)])
}

func buildDocument(t *testing.T, n int) *layout.Document {
	t.Helper()
	ast, err := templates.Load("")
	require.NoError(t, err)
	tpl, grid, meta, err := layout.CompileTemplate(ast)
	require.NoError(t, err)

	records := make([]inventory.Record, 0, n)
	for i := range n {
		records = append(records, inventory.NewRecord(
			inventory.FieldCodigo, fmt.Sprintf("LAB-%02d", i+1),
			inventory.FieldCPUModel, "AMD Ryzen 5 3600 6-Core Processor",
			inventory.FieldRAMGiB, "8",
		))
	}
	sheet, err := layout.Paginate(records, grid)
	require.NoError(t, err)
	return &layout.Document{Sheet: sheet, Template: tpl, Meta: meta}
}
