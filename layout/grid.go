package layout

import (
	"fmt"
	"math"
)

// ISO A4 in points.
const (
	A4Width  = 210 * MmToPt
	A4Height = 297 * MmToPt
)

// Default label grid: 2 columns x 8 rows with 15pt inner padding, no page margins.
const (
	DefaultColumns = 2
	DefaultRows    = 8
	DefaultPadding = 15.0
)

// GridConfig describes the fixed per-page label grid. All lengths are points.
type GridConfig struct {
	PageWidth  float64 `json:"pageWidth"`
	PageHeight float64 `json:"pageHeight"`
	Columns    int     `json:"columns"`
	Rows       int     `json:"rows"`
	Padding    float64 `json:"padding"`
}

// DefaultGridConfig returns the A4 2x8 sticker sheet.
func DefaultGridConfig() GridConfig {
	return GridConfig{
		PageWidth:  A4Width,
		PageHeight: A4Height,
		Columns:    DefaultColumns,
		Rows:       DefaultRows,
		Padding:    DefaultPadding,
	}
}

// CellWidth is PageWidth / Columns.
func (g GridConfig) CellWidth() float64 { return g.PageWidth / float64(g.Columns) }

// CellHeight is PageHeight / Rows.
func (g GridConfig) CellHeight() float64 { return g.PageHeight / float64(g.Rows) }

// Capacity is the number of cells on one page.
func (g GridConfig) Capacity() int { return g.Columns * g.Rows }

// Validate reports the first violated invariant as a *ConfigError.
func (g GridConfig) Validate() error {
	switch {
	case g.Columns < 1:
		return &ConfigError{Field: "columns", Reason: fmt.Sprintf("列数必须 ≥ 1，实际为 %d", g.Columns)}
	case g.Rows < 1:
		return &ConfigError{Field: "rows", Reason: fmt.Sprintf("行数必须 ≥ 1，实际为 %d", g.Rows)}
	case g.Columns > math.MaxInt/g.Rows:
		return &ConfigError{Field: "columns", Reason: fmt.Sprintf("每页单元格数 %d × %d 超出范围", g.Columns, g.Rows)}
	case !(g.PageWidth > 0) || math.IsInf(g.PageWidth, 0):
		return &ConfigError{Field: "pageWidth", Reason: fmt.Sprintf("页面宽度必须为正数，实际为 %g", g.PageWidth)}
	case !(g.PageHeight > 0) || math.IsInf(g.PageHeight, 0):
		return &ConfigError{Field: "pageHeight", Reason: fmt.Sprintf("页面高度必须为正数，实际为 %g", g.PageHeight)}
	case g.Padding < 0 || math.IsNaN(g.Padding):
		return &ConfigError{Field: "padding", Reason: fmt.Sprintf("内边距不能为负数，实际为 %g", g.Padding)}
	}
	if limit := math.Min(g.CellWidth(), g.CellHeight()) / 2; g.Padding >= limit {
		return &ConfigError{Field: "padding", Reason: fmt.Sprintf("内边距 %gpt 必须小于单元格较短边的一半 (%gpt)", g.Padding, limit)}
	}
	return nil
}

// ConfigError reports an invalid grid configuration.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("网格配置无效 (%s): %s", e.Field, e.Reason)
}
