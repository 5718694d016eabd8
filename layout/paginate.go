package layout

import (
	"iter"

	"github.com/ByLCY/hwlabels/inventory"
)

// Rect is an axis-aligned rectangle in page points. The origin is the
// bottom-left corner of the page, so row 0 has the largest Y.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Inset shrinks the rectangle by d on every side.
func (r Rect) Inset(d float64) Rect {
	return Rect{X: r.X + d, Y: r.Y + d, Width: r.Width - 2*d, Height: r.Height - 2*d}
}

// Top returns the Y coordinate of the upper edge.
func (r Rect) Top() float64 { return r.Y + r.Height }

// CellPlacement assigns one record to a cell of a page.
type CellPlacement struct {
	Record inventory.Record `json:"record"`
	Slot   int              `json:"slot"`
	Column int              `json:"column"`
	Row    int              `json:"row"`
	Rect   Rect             `json:"rect"`
	Label  Label            `json:"label"`
}

// PageLayout is one page worth of placements, in slot order.
type PageLayout struct {
	Index      int             `json:"index"`
	Placements []CellPlacement `json:"placements"`
}

// Sheet is the paginated view of a record list. It holds no cursor: every
// call to Pages starts from the first page and builds pages on demand.
type Sheet struct {
	records []inventory.Record
	grid    GridConfig
}

// Paginate validates grid and splits records into pages of grid.Capacity() cells,
// keeping source order. An empty record list yields a sheet without pages.
func Paginate(records []inventory.Record, grid GridConfig) (*Sheet, error) {
	if err := grid.Validate(); err != nil {
		return nil, err
	}
	return &Sheet{records: records, grid: grid}, nil
}

// Grid returns the validated grid configuration.
func (s *Sheet) Grid() GridConfig { return s.grid }

// Len returns the number of records on the sheet.
func (s *Sheet) Len() int { return len(s.records) }

// PageCount returns ceil(Len / Capacity).
func (s *Sheet) PageCount() int {
	n := len(s.records)
	if n == 0 {
		return 0
	}
	return (n-1)/s.grid.Capacity() + 1
}

// Page builds page k. It panics when k is out of range, like slice indexing.
func (s *Sheet) Page(k int) PageLayout {
	if k < 0 || k >= s.PageCount() {
		panic("layout: page index out of range")
	}
	capacity := s.grid.Capacity()
	start := k * capacity
	end := start + min(capacity, len(s.records)-start)

	cellW, cellH := s.grid.CellWidth(), s.grid.CellHeight()
	placements := make([]CellPlacement, 0, end-start)
	for slot, rec := range s.records[start:end] {
		col := slot % s.grid.Columns
		row := slot / s.grid.Columns
		placements = append(placements, CellPlacement{
			Record: rec,
			Slot:   slot,
			Column: col,
			Row:    row,
			Rect: Rect{
				X:      float64(col) * cellW,
				Y:      s.grid.PageHeight - float64(row+1)*cellH,
				Width:  cellW,
				Height: cellH,
			},
			Label: Shape(rec),
		})
	}
	return PageLayout{Index: k, Placements: placements}
}

// Pages yields every page in order.
func (s *Sheet) Pages() iter.Seq[PageLayout] {
	return func(yield func(PageLayout) bool) {
		for k := range s.PageCount() {
			if !yield(s.Page(k)) {
				return
			}
		}
	}
}
