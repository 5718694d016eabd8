package layout

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ByLCY/hwlabels/binding"
	"github.com/ByLCY/hwlabels/dsl"
)

// Built-in font names, always available to templates.
const (
	FontRegular = "Regular"
	FontBold    = "Bold"
	FontItalic  = "Italic"
	FontMono    = "Mono"
)

var (
	defaultTextColor   = Color{R: 30, G: 30, B: 30}
	defaultBorderColor = Color{R: 211, G: 211, B: 211} // lightgrey
)

const (
	defaultFontSize    = 10.0
	defaultBorderWidth = 0.3
)

// Template 描述每个标签内的内容：可选裁切线与若干文本行。
type Template struct {
	Border *BorderStyle            `json:"border,omitempty"`
	Lines  []TemplateLine          `json:"lines"`
	Fonts  map[string]FontResource `json:"fonts"`
}

// BorderStyle 描述标签外框线。
type BorderStyle struct {
	Color Color   `json:"color"`
	Width float64 `json:"width"`
}

// TemplateLine 对应一条 text 指令；Text 中可使用 ${field} 占位符。
type TemplateLine struct {
	Text       string         `json:"text"`
	Font       string         `json:"font"`
	FontSize   float64        `json:"fontSize"`
	LineHeight LineHeightSpec `json:"lineHeight"`
	Gap        float64        `json:"gap"` // 与上一行之间的额外间距（pt）
	Color      Color          `json:"color"`
	Align      string         `json:"align,omitempty"`
}

// Fields 返回模板引用的全部字段名。
func (t *Template) Fields() []string {
	var all strings.Builder
	for _, ln := range t.Lines {
		all.WriteString(ln.Text)
	}
	return binding.Fields(all.String())
}

// BuiltinFonts 返回内置字体资源。
func BuiltinFonts() map[string]FontResource {
	return map[string]FontResource{
		FontRegular: {Name: FontRegular, Src: "embed:regular", Style: "regular"},
		FontBold:    {Name: FontBold, Src: "embed:bold", Style: "bold"},
		FontItalic:  {Name: FontItalic, Src: "embed:italic", Style: "italic"},
		FontMono:    {Name: FontMono, Src: "embed:mono", Style: "regular"},
	}
}

// CompileTemplate 将模板 AST 转换为标签模板、网格配置与文档元信息。
// 网格在返回前已校验，非法配置返回 *ConfigError。
func CompileTemplate(doc *dsl.Document) (*Template, GridConfig, DocumentMeta, error) {
	if doc == nil {
		return nil, GridConfig{}, DocumentMeta{}, fmt.Errorf("模板为空")
	}
	meta := collectMeta(doc)
	fonts := collectFonts(doc)

	page := doc.FirstPage()
	if page == nil {
		return nil, GridConfig{}, DocumentMeta{}, fmt.Errorf("模板中缺少 page 段落")
	}
	grid, err := resolveGrid(page.Spec)
	if err != nil {
		return nil, GridConfig{}, DocumentMeta{}, err
	}
	if err := grid.Validate(); err != nil {
		return nil, GridConfig{}, DocumentMeta{}, err
	}

	tpl := &Template{Fonts: fonts}
	if page.Block != nil {
		for _, stmt := range page.Block.Statements {
			if stmt.Command == nil {
				continue
			}
			cmd := stmt.Command
			switch cmd.Name {
			case "border":
				border, err := parseBorder(cmd.Args)
				if err != nil {
					return nil, GridConfig{}, DocumentMeta{}, fmt.Errorf("%s: %w", cmd.Pos, err)
				}
				tpl.Border = border
			case "text":
				line, err := parseTextLine(cmd, fonts)
				if err != nil {
					return nil, GridConfig{}, DocumentMeta{}, fmt.Errorf("%s: %w", cmd.Pos, err)
				}
				tpl.Lines = append(tpl.Lines, line)
			default:
				return nil, GridConfig{}, DocumentMeta{}, fmt.Errorf("%s: 未知指令 %s", cmd.Pos, cmd.Name)
			}
		}
	}
	return tpl, grid, meta, nil
}

func collectMeta(doc *dsl.Document) DocumentMeta {
	meta := DocumentMeta{
		Creator: "hwlabels",
	}
	for _, section := range doc.Sections {
		if section.Meta == nil || section.Meta.Block == nil {
			continue
		}
		for _, stmt := range section.Meta.Block.Statements {
			if stmt.Assignment == nil {
				continue
			}
			switch strings.ToLower(stmt.Assignment.Key) {
			case "title":
				meta.Title = stmt.Assignment.Value.AsString()
			case "author":
				meta.Author = stmt.Assignment.Value.AsString()
			case "subject":
				meta.Subject = stmt.Assignment.Value.AsString()
			case "creator":
				meta.Creator = stmt.Assignment.Value.AsString()
			case "keywords":
				meta.Keywords = stmt.Assignment.Value.AsStrings()
			}
		}
	}
	return meta
}

func collectFonts(doc *dsl.Document) map[string]FontResource {
	fonts := BuiltinFonts()
	for _, section := range doc.Sections {
		if section.Resources == nil || section.Resources.Block == nil {
			continue
		}
		for _, stmt := range section.Resources.Block.Statements {
			if stmt.Command == nil || stmt.Command.Name != "font" || len(stmt.Command.Args) == 0 {
				continue
			}
			font := FontResource{Name: stmt.Command.Args[0].Value}
			if stmt.Command.Block != nil {
				for _, prop := range stmt.Command.Block.Statements {
					if prop.Assignment == nil {
						continue
					}
					switch prop.Assignment.Key {
					case "src":
						font.Src = prop.Assignment.Value.AsString()
					case "style":
						font.Style = prop.Assignment.Value.AsString()
					}
				}
			}
			fonts[font.Name] = font
		}
	}
	return fonts
}

// pagePresets 以毫米记录常见纸张尺寸（纵向）。
var pagePresets = map[string][2]float64{
	"A3":     {297, 420},
	"A4":     {210, 297},
	"A5":     {148, 210},
	"LETTER": {215.9, 279.4},
	"LEGAL":  {215.9, 355.6},
}

func resolveGrid(spec dsl.PageSpec) (GridConfig, error) {
	grid := DefaultGridConfig()
	size := strings.ToUpper(spec.Size)
	if size != "CUSTOM" {
		base, ok := pagePresets[size]
		if !ok {
			return GridConfig{}, fmt.Errorf("暂不支持的纸张尺寸：%s", spec.Size)
		}
		grid.PageWidth = base[0] * MmToPt
		grid.PageHeight = base[1] * MmToPt
	} else {
		grid.PageWidth, grid.PageHeight = 0, 0
	}

	landscape := false
	params := spec.Params
	for i := 0; i < len(params); i++ {
		key := strings.ToLower(params[i].Value)
		switch key {
		case "portrait":
			landscape = false
			continue
		case "landscape":
			landscape = true
			continue
		}
		if i+1 >= len(params) {
			return GridConfig{}, fmt.Errorf("page 参数 %s 缺少取值", key)
		}
		raw := params[i+1].Value
		i++
		switch key {
		case "columns", "rows":
			n, err := strconv.Atoi(raw)
			if err != nil {
				return GridConfig{}, fmt.Errorf("page 参数 %s 需要整数，实际为 %s", key, raw)
			}
			if key == "columns" {
				grid.Columns = n
			} else {
				grid.Rows = n
			}
		case "padding", "width", "height":
			l, ok := ParseRawLengthStr(raw)
			if !ok {
				return GridConfig{}, fmt.Errorf("page 参数 %s 的长度 %s 无法解析", key, raw)
			}
			switch key {
			case "padding":
				grid.Padding = l.ToPT()
			case "width":
				grid.PageWidth = l.ToPT()
			case "height":
				grid.PageHeight = l.ToPT()
			}
		default:
			return GridConfig{}, fmt.Errorf("未知的 page 参数：%s", key)
		}
	}
	if landscape && grid.PageWidth < grid.PageHeight {
		grid.PageWidth, grid.PageHeight = grid.PageHeight, grid.PageWidth
	}
	return grid, nil
}

// parseBorder 支持 `border none`、`border #RRGGBB 0.3pt` 或省略任一参数。
func parseBorder(args []*dsl.Lexeme) (*BorderStyle, error) {
	border := &BorderStyle{Color: defaultBorderColor, Width: defaultBorderWidth}
	for _, arg := range args {
		switch {
		case arg.Value == "none":
			return nil, nil
		case arg.Type == "Color":
			c, err := parseColor(arg.Value)
			if err != nil {
				return nil, err
			}
			border.Color = c
		default:
			l, ok := ParseRawLengthStr(arg.Value)
			if !ok || l.Value <= 0 {
				return nil, fmt.Errorf("border 线宽 %s 无法解析", arg.Value)
			}
			border.Width = l.ToPT()
		}
	}
	return border, nil
}

func parseTextLine(cmd *dsl.Command, fonts map[string]FontResource) (TemplateLine, error) {
	font, attrs, err := parseArgs(cmd.Args, true)
	if err != nil {
		return TemplateLine{}, err
	}
	if font == "" {
		font = FontRegular
	}
	if _, ok := fonts[font]; !ok {
		return TemplateLine{}, fmt.Errorf("未定义的字体 %s", font)
	}
	line := TemplateLine{
		Text:     cmd.Block.Text(),
		Font:     font,
		FontSize: defaultFontSize,
		Color:    defaultTextColor,
		Align:    strings.ToLower(attrs["align"]),
	}
	for key, raw := range attrs {
		switch key {
		case "size":
			l, ok := ParseRawLengthStr(raw)
			if !ok || l.Value <= 0 {
				return TemplateLine{}, fmt.Errorf("字号 %s 无法解析", raw)
			}
			line.FontSize = l.ToPT()
		case "gap":
			l, ok := ParseRawLengthStr(raw)
			if !ok || l.Value < 0 {
				return TemplateLine{}, fmt.Errorf("间距 %s 无法解析", raw)
			}
			line.Gap = l.ToPT()
		case "line-height":
			spec, ok := ParseLineHeight(raw)
			if !ok {
				return TemplateLine{}, fmt.Errorf("行高 %s 无法解析", raw)
			}
			line.LineHeight = spec
		case "color":
			c, err := parseColor(raw)
			if err != nil {
				return TemplateLine{}, err
			}
			line.Color = c
		case "align":
		default:
			return TemplateLine{}, fmt.Errorf("text 不支持参数 %s", key)
		}
	}
	switch line.Align {
	case "", "left", "center", "right":
	default:
		return TemplateLine{}, fmt.Errorf("不支持的对齐方式 %s", line.Align)
	}
	return line, nil
}

func parseArgs(args []*dsl.Lexeme, allowStyle bool) (string, map[string]string, error) {
	result := map[string]string{}
	if len(args) == 0 {
		return "", result, nil
	}

	// 参数按键值成对出现，奇数个时首个为样式名（字体）
	cursor := 0
	var style string
	if allowStyle && len(args)%2 == 1 && args[0].Type == "Ident" {
		style = args[0].Value
		cursor = 1
	}

	for cursor < len(args)-1 {
		result[args[cursor].Value] = args[cursor+1].Value
		cursor += 2
	}
	if cursor < len(args) {
		return "", nil, fmt.Errorf("参数 %s 缺少取值", args[cursor].Raw)
	}
	return style, result, nil
}

func parseColor(value string) (Color, error) {
	hex := strings.TrimPrefix(value, "#")
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) != 6 && len(hex) != 8 {
		return Color{}, fmt.Errorf("颜色值 %s 无法解析", value)
	}
	v, err := strconv.ParseUint(hex[:6], 16, 32)
	if err != nil {
		return Color{}, fmt.Errorf("颜色值 %s 无法解析", value)
	}
	return Color{R: int(v >> 16 & 0xff), G: int(v >> 8 & 0xff), B: int(v & 0xff)}, nil
}
