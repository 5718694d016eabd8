// Package fpdfrenderer draws label sheets with codeberg.org/go-pdf/fpdf.
//
// fpdf places the origin at the top-left corner, so every y coordinate coming
// from layout (bottom-left origin) is flipped against the page height.
package fpdfrenderer

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"codeberg.org/go-pdf/fpdf"

	"github.com/ByLCY/hwlabels/fonts"
	"github.com/ByLCY/hwlabels/layout"
	"github.com/ByLCY/hwlabels/renderer"
)

const (
	defaultStrokeWidth = 0.3 // pt
	fallbackFamily     = "hwlabels-fallback"
	// 字体缺少 ascent 描述时按字号比例估算
	fallbackAscentRatio = 0.8
)

// Renderer implements renderer.Renderer and layout.Typesetter on top of fpdf.
type Renderer struct {
	baseDir string

	mu sync.Mutex
	// 测量用的草稿文档，仅在 LayoutLines 被单独调用时创建
	scratch *document
	// 当前渲染中的文档，测量与绘制共用同一份字体注册
	active *document
}

var (
	_ renderer.Renderer = (*Renderer)(nil)
	_ layout.Typesetter = (*Renderer)(nil)
)

// document wraps one fpdf instance and the fonts registered in it.
type document struct {
	pdf      *fpdf.Fpdf
	height   float64
	families map[string]string // font cache key -> fpdf family
	fallback bool              // fallbackFamily 已注册
}

// NewRenderer creates an fpdf-based renderer; relative font paths resolve against baseDir.
func NewRenderer(baseDir string) *Renderer {
	return &Renderer{baseDir: baseDir}
}

// Render renders the document into a PDF byte slice, one PDF page per PageLayout.
func (r *Renderer) Render(doc *layout.Document) ([]byte, error) {
	if err := renderer.Check(doc); err != nil {
		return nil, err
	}
	grid := doc.Sheet.Grid()
	d := newDocument(grid.PageWidth, grid.PageHeight)
	applyMeta(d.pdf, doc.Meta)

	r.mu.Lock()
	r.active = d
	r.mu.Unlock()
	defer func() {
		r.mu.Lock()
		r.active = nil
		r.mu.Unlock()
	}()

	err := renderer.ComposePages(doc, r, func(page layout.Page) error {
		d.pdf.AddPage()
		d.drawBorders(page.Borders)
		for _, tb := range page.Texts {
			if err := r.drawTextBox(d, tb, doc.Template.Fonts[tb.Font]); err != nil {
				return err
			}
		}
		return d.pdf.Error()
	})
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := d.pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("写入 PDF 失败: %w", err)
	}
	return buf.Bytes(), nil
}

// LayoutLines 实现 layout.Typesetter 接口；所有长度均为 pt。
func (r *Renderer) LayoutLines(content string, width float64, font layout.FontResource, fontSize, lineHeight float64) ([]layout.TextLine, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	d := r.active
	if d == nil {
		if r.scratch == nil {
			r.scratch = newDocument(layout.A4Width, layout.A4Height)
		}
		d = r.scratch
	}
	family, err := r.useFont(d, font, fontSize)
	if err != nil {
		return nil, err
	}
	lines := renderer.WrapText(content, width, d.pdf.GetStringWidth)
	if err := d.pdf.Error(); err != nil {
		return nil, err
	}

	ascent := fontSize * fallbackAscentRatio
	if desc := d.pdf.GetFontDesc(family, ""); desc.Ascent > 0 {
		ascent = float64(desc.Ascent) * fontSize / 1000
	}
	for i := range lines {
		lines[i].Height = fontSize
		lines[i].Ascent = ascent
	}
	return lines, nil
}

func newDocument(width, height float64) *document {
	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           fpdf.SizeType{Wd: width, Ht: height},
	})
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	return &document{pdf: pdf, height: height, families: map[string]string{}}
}

func applyMeta(pdf *fpdf.Fpdf, meta layout.DocumentMeta) {
	pdf.SetTitle(meta.Title, true)
	pdf.SetAuthor(meta.Author, true)
	pdf.SetSubject(meta.Subject, true)
	pdf.SetCreator(meta.Creator, true)
	pdf.SetKeywords(strings.Join(meta.Keywords, ", "), true)
}

func (d *document) drawBorders(borders []layout.Border) {
	for _, b := range borders {
		w := b.Width
		if w <= 0 {
			w = defaultStrokeWidth
		}
		d.pdf.SetDrawColor(b.Color.R, b.Color.G, b.Color.B)
		d.pdf.SetLineWidth(w)
		d.pdf.Rect(b.Rect.X, d.height-b.Rect.Top(), b.Rect.Width, b.Rect.Height, "D")
	}
}

func (r *Renderer) drawTextBox(d *document, tb layout.TextBox, fontRes layout.FontResource) error {
	r.mu.Lock()
	_, err := r.useFont(d, fontRes, tb.FontSize)
	r.mu.Unlock()
	if err != nil {
		return err
	}
	d.pdf.SetTextColor(tb.Color.R, tb.Color.G, tb.Color.B)
	for _, line := range tb.Lines {
		if line.Content == "" {
			continue
		}
		d.pdf.Text(line.X, d.height-line.Baseline, line.Content)
	}
	return nil
}

// useFont 注册（如有必要）并选中字体，返回 fpdf 中的字体族名。调用方须持有 mu。
func (r *Renderer) useFont(d *document, font layout.FontResource, size float64) (string, error) {
	key := fontCacheKey(font)
	family, ok := d.families[key]
	if !ok {
		data, err := r.loadFontBytes(font)
		switch {
		case err == nil:
			// 每个资源独占一个字体族，名称相近的资源不会共用字形
			family = familyName(font, len(d.families))
			d.pdf.AddUTF8FontFromBytes(family, "", data)
		case d.fallback:
			family = fallbackFamily
		default:
			// 字体缺失时回退到内置常规字体
			if data, err = fonts.Load("regular"); err != nil {
				return "", err
			}
			family = fallbackFamily
			d.pdf.AddUTF8FontFromBytes(family, "", data)
			d.fallback = true
		}
		if err := d.pdf.Error(); err != nil {
			return "", fmt.Errorf("注册字体 %s 失败: %w", font.Name, err)
		}
		d.families[key] = family
	}
	d.pdf.SetFont(family, "", size)
	return family, d.pdf.Error()
}

func (r *Renderer) loadFontBytes(font layout.FontResource) ([]byte, error) {
	if font.Src == "" {
		return nil, fmt.Errorf("字体 %s 缺少 src", font.Name)
	}
	if strings.HasPrefix(font.Src, "embed:") {
		return fonts.Load(font.Src)
	}
	path := font.Src
	if !filepath.IsAbs(path) {
		if r.baseDir == "" {
			return nil, fmt.Errorf("未指定资源目录时不允许直接使用字体路径：%s（请改用 embed:）", font.Src)
		}
		path = filepath.Join(r.baseDir, path)
	}
	return os.ReadFile(path)
}

// familyName 生成 fpdf 可用的字体族名；seq 保证同一文档内唯一。
func familyName(font layout.FontResource, seq int) string {
	name := strings.ToLower(font.Name + "-" + font.Style)
	name = strings.Map(func(r rune) rune {
		if r >= 'a' && r <= 'z' || r >= '0' && r <= '9' || r == '-' {
			return r
		}
		return '-'
	}, name)
	return fmt.Sprintf("f%d-%s", seq, name)
}

func fontCacheKey(font layout.FontResource) string {
	return fmt.Sprintf("%s|%s|%s", font.Name, font.Src, font.Style)
}
