package renderer

import (
	"fmt"

	"github.com/ByLCY/hwlabels/layout"
)

// Renderer 将分页结果输出为最终文件，例如 PDF。
// Render 返回生成的二进制数据（例如 PDF 字节切片）以及可能的错误；
// 每个 PageLayout 对应一页输出，顺序与分页结果一致。
type Renderer interface {
	Render(doc *layout.Document) ([]byte, error)
}

// ComposePages 逐页合成可绘制页面并交给 draw；任何页面出错都会立即返回。
// 页面按需生成，整份文档不会同时驻留内存。
func ComposePages(doc *layout.Document, ts layout.Typesetter, draw func(layout.Page) error) error {
	if err := Check(doc); err != nil {
		return err
	}
	grid := doc.Sheet.Grid()
	for pl := range doc.Sheet.Pages() {
		page, err := layout.ComposePage(pl, grid, doc.Template, ts)
		if err != nil {
			return err
		}
		if err := draw(page); err != nil {
			return fmt.Errorf("绘制第 %d 页失败: %w", page.Index+1, err)
		}
	}
	return nil
}

// Check 校验文档是否可以渲染。
func Check(doc *layout.Document) error {
	switch {
	case doc == nil || doc.Sheet == nil:
		return fmt.Errorf("渲染结果为空")
	case doc.Template == nil:
		return fmt.Errorf("缺少标签模板")
	case doc.Sheet.PageCount() == 0:
		return fmt.Errorf("缺少可渲染的页面")
	}
	return nil
}
