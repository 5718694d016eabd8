package layout

import (
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ByLCY/hwlabels/inventory"
)

func makeRecords(n int) []inventory.Record {
	records := make([]inventory.Record, n)
	for i := range records {
		records[i] = inventory.NewRecord(
			inventory.FieldCodigo, fmt.Sprintf("PC%03d", i),
			inventory.FieldCPUModel, "Intel Core i5 @ 3.2GHz",
			inventory.FieldRAMGiB, "8",
			inventory.FieldDiscos, "sda:256G",
		)
	}
	return records
}

// TestPaginateSeventeenRecords 对应 17 条记录、默认 2x8 网格：两页，第二页仅一个标签。
func TestPaginateSeventeenRecords(t *testing.T) {
	sheet, err := Paginate(makeRecords(17), DefaultGridConfig())
	if err != nil {
		t.Fatalf("paginate: %v", err)
	}
	if sheet.PageCount() != 2 {
		t.Fatalf("expected 2 pages, got %d", sheet.PageCount())
	}
	first, second := sheet.Page(0), sheet.Page(1)
	if len(first.Placements) != 16 {
		t.Fatalf("page 0 should hold 16 labels, got %d", len(first.Placements))
	}
	if len(second.Placements) != 1 {
		t.Fatalf("page 1 should hold 1 label, got %d", len(second.Placements))
	}
	last := second.Placements[0]
	if last.Slot != 0 || last.Column != 0 || last.Row != 0 {
		t.Fatalf("unexpected placement %+v", last)
	}
	if last.Label.Codigo != "PC016" {
		t.Fatalf("unexpected record on page 1: %s", last.Label.Codigo)
	}
}

// TestPaginateChunking 覆盖页数 = ceil(N/K) 与末页数量。
func TestPaginateChunking(t *testing.T) {
	grids := []GridConfig{
		DefaultGridConfig(),
		{PageWidth: 300, PageHeight: 300, Columns: 3, Rows: 1, Padding: 0},
		{PageWidth: 300, PageHeight: 300, Columns: 1, Rows: 1, Padding: 10},
	}
	for _, grid := range grids {
		k := grid.Capacity()
		for _, n := range []int{0, 1, k - 1, k, k + 1, 2 * k, 5*k + 3} {
			sheet, err := Paginate(makeRecords(n), grid)
			if err != nil {
				t.Fatalf("paginate: %v", err)
			}
			wantPages := int(math.Ceil(float64(n) / float64(k)))
			if sheet.PageCount() != wantPages {
				t.Fatalf("n=%d k=%d: pages %d want %d", n, k, sheet.PageCount(), wantPages)
			}
			count := 0
			for pl := range sheet.Pages() {
				if pl.Index != count {
					t.Fatalf("page index gap: got %d want %d", pl.Index, count)
				}
				count++
				size := len(pl.Placements)
				if pl.Index < wantPages-1 && size != k {
					t.Fatalf("non-final page %d has %d placements", pl.Index, size)
				}
				if pl.Index == wantPages-1 {
					want := n - k*(wantPages-1)
					if size != want {
						t.Fatalf("final page has %d placements, want %d", size, want)
					}
				}
			}
			if count != wantPages {
				t.Fatalf("iterated %d pages, want %d", count, wantPages)
			}
		}
	}
}

// TestPaginatePreservesOrderAndSlots 覆盖顺序保持与 slot→行列映射。
func TestPaginatePreservesOrderAndSlots(t *testing.T) {
	grid := GridConfig{PageWidth: 600, PageHeight: 400, Columns: 3, Rows: 2, Padding: 5}
	records := makeRecords(20)
	sheet, err := Paginate(records, grid)
	if err != nil {
		t.Fatalf("paginate: %v", err)
	}

	var got []inventory.Record
	for pl := range sheet.Pages() {
		for i, p := range pl.Placements {
			if p.Slot != i {
				t.Fatalf("slot %d at position %d", p.Slot, i)
			}
			if p.Column != p.Slot%grid.Columns || p.Row != p.Slot/grid.Columns {
				t.Fatalf("bad mapping for slot %d: col=%d row=%d", p.Slot, p.Column, p.Row)
			}
			if p.Column < 0 || p.Column >= grid.Columns || p.Row < 0 || p.Row >= grid.Rows {
				t.Fatalf("cell out of grid: %+v", p)
			}
			got = append(got, p.Record)
		}
	}
	if diff := cmp.Diff(records, got); diff != "" {
		t.Fatalf("order changed (-want +got):\n%s", diff)
	}
}

func TestPaginateRectangles(t *testing.T) {
	grid := DefaultGridConfig()
	sheet, err := Paginate(makeRecords(16), grid)
	if err != nil {
		t.Fatalf("paginate: %v", err)
	}
	page := sheet.Page(0)
	cw, ch := grid.CellWidth(), grid.CellHeight()
	for _, p := range page.Placements {
		want := Rect{
			X:      float64(p.Column) * cw,
			Y:      grid.PageHeight - float64(p.Row+1)*ch,
			Width:  cw,
			Height: ch,
		}
		if diff := cmp.Diff(want, p.Rect); diff != "" {
			t.Fatalf("slot %d rect mismatch (-want +got):\n%s", p.Slot, diff)
		}
	}
	// row 0 is the topmost visual row
	top := page.Placements[0].Rect
	if math.Abs(top.Top()-grid.PageHeight) > 1e-9 {
		t.Fatalf("row 0 must touch the page top, top=%g", top.Top())
	}
	bottom := page.Placements[15].Rect
	if math.Abs(bottom.Y) > 1e-9 || bottom.X != cw {
		t.Fatalf("last slot must sit bottom-right, got %+v", bottom)
	}
}

func TestPaginateEmptyYieldsNoPages(t *testing.T) {
	sheet, err := Paginate(nil, DefaultGridConfig())
	if err != nil {
		t.Fatalf("empty input is not a paginator error: %v", err)
	}
	if sheet.PageCount() != 0 {
		t.Fatalf("expected no pages, got %d", sheet.PageCount())
	}
	for range sheet.Pages() {
		t.Fatalf("no page expected")
	}
}

// 每页容量极大时页数仍为 ceil(n / capacity)，不能因溢出变成负数或除零。
func TestPageCountWithHugeCapacity(t *testing.T) {
	grid := GridConfig{PageWidth: 600, PageHeight: 800, Columns: math.MaxInt, Rows: 1}
	sheet, err := Paginate(makeRecords(2), grid)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sheet.PageCount() != 1 {
		t.Fatalf("expected 1 page, got %d", sheet.PageCount())
	}
	if got := len(sheet.Page(0).Placements); got != 2 {
		t.Fatalf("expected 2 placements, got %d", got)
	}

	overflow := GridConfig{PageWidth: 600, PageHeight: 800, Columns: math.MaxInt/2 + 1, Rows: 2}
	var cfgErr *ConfigError
	if _, err := Paginate(makeRecords(2), overflow); !errors.As(err, &cfgErr) {
		t.Fatalf("expected ConfigError for overflowing capacity, got %v", err)
	}
}

func TestPaginateInvalidGrid(t *testing.T) {
	grid := DefaultGridConfig()
	grid.Columns = 0
	sheet, err := Paginate(makeRecords(3), grid)
	var cfgErr *ConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected ConfigError, got %v", err)
	}
	if sheet != nil {
		t.Fatalf("no sheet must be returned on invalid grid")
	}
}

// TestPagesRestartable 验证多次遍历得到相同结果，且可以提前终止。
func TestPagesRestartable(t *testing.T) {
	sheet, err := Paginate(makeRecords(40), DefaultGridConfig())
	if err != nil {
		t.Fatalf("paginate: %v", err)
	}
	collect := func() []PageLayout {
		var out []PageLayout
		for pl := range sheet.Pages() {
			out = append(out, pl)
		}
		return out
	}
	if diff := cmp.Diff(collect(), collect()); diff != "" {
		t.Fatalf("iteration not deterministic:\n%s", diff)
	}
	seen := 0
	for range sheet.Pages() {
		seen++
		break
	}
	if seen != 1 {
		t.Fatalf("early break failed")
	}
}

func TestPagePanicsOutOfRange(t *testing.T) {
	sheet, _ := Paginate(makeRecords(1), DefaultGridConfig())
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic")
		}
	}()
	sheet.Page(1)
}
