package layout

import (
	"fmt"

	"github.com/ByLCY/hwlabels/binding"
)

// 行底部允许的浮点误差（pt）
const overflowEpsilon = 1e-6

// ComposePage 将一页标签分配结果与模板合成为可绘制页面。
// 文本在标签内边距以内按行排版，超出标签底部的行被丢弃。
func ComposePage(pl PageLayout, grid GridConfig, tpl *Template, ts Typesetter) (Page, error) {
	if tpl == nil {
		return Page{}, fmt.Errorf("layout: 缺少标签模板")
	}
	if ts == nil {
		return Page{}, fmt.Errorf("layout: 缺少排版后端 Typesetter")
	}

	page := Page{
		Index:  pl.Index,
		Width:  grid.PageWidth,
		Height: grid.PageHeight,
	}
	for _, cell := range pl.Placements {
		if tpl.Border != nil {
			page.Borders = append(page.Borders, Border{
				Rect:  cell.Rect,
				Color: tpl.Border.Color,
				Width: tpl.Border.Width,
			})
		}
		texts, err := composeLabel(cell, cell.Rect.Inset(grid.Padding), tpl, ts)
		if err != nil {
			return Page{}, fmt.Errorf("第 %d 页第 %d 个标签排版失败: %w", pl.Index+1, cell.Slot+1, err)
		}
		page.Texts = append(page.Texts, texts...)
	}
	return page, nil
}

func composeLabel(cell CellPlacement, inner Rect, tpl *Template, ts Typesetter) ([]TextBox, error) {
	values := cell.Label.Values(cell.Record)
	cursor := inner.Top()
	placed := false

	var boxes []TextBox
	for _, ln := range tpl.Lines {
		font, ok := tpl.Fonts[ln.Font]
		if !ok {
			return nil, fmt.Errorf("未定义的字体 %s", ln.Font)
		}
		content := binding.Interpolate(ln.Text, values)
		lineHeight := ln.LineHeight.Resolve(ln.FontSize)
		lines, err := ts.LayoutLines(content, inner.Width, font, ln.FontSize, lineHeight)
		if err != nil {
			return nil, err
		}
		if placed {
			cursor -= ln.Gap
		}

		box := TextBox{
			Content:    content,
			Box:        inner,
			Font:       ln.Font,
			FontSize:   ln.FontSize,
			LineHeight: lineHeight,
			Color:      ln.Color,
		}
		for _, tl := range lines {
			if cursor-lineHeight < inner.Y-overflowEpsilon {
				box.Truncated = true
				break
			}
			ascent := tl.Ascent
			if ascent <= 0 {
				ascent = ln.FontSize * 0.8
			}
			tl.X = inner.X + alignOffset(inner.Width, tl.Width, ln.Align)
			tl.Baseline = cursor - ascent
			box.Lines = append(box.Lines, tl)
			cursor -= lineHeight
			placed = true
		}
		if len(box.Lines) > 0 {
			boxes = append(boxes, box)
		}
		if box.Truncated {
			break
		}
	}
	return boxes, nil
}

func alignOffset(container, width float64, align string) float64 {
	if container <= width {
		return 0
	}
	switch align {
	case "center":
		return (container - width) / 2
	case "right":
		return container - width
	default:
		return 0
	}
}
