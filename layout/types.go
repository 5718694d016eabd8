package layout

// 该文件定义可直接绘制的页面元素与资源描述，供标签合成、渲染与调试 JSON 共用。
// 坐标单位统一为 pt，原点位于页面左下角。

// Document 汇总一次渲染所需的输入：分页结果、标签模板与 PDF 元信息。
type Document struct {
	Sheet    *Sheet
	Template *Template
	Meta     DocumentMeta
}

// FontResource 描述字体资源，src 可以是文件路径或 embed:<name> 形式的内置字体。
type FontResource struct {
	Name  string `json:"name"`
	Src   string `json:"src"`
	Style string `json:"style"`
}

// Color 采用 0-255 的 RGB 数值。
type Color struct {
	R int `json:"r"`
	G int `json:"g"`
	B int `json:"b"`
}

// Page 是一个 PageLayout 经过模板合成后的可绘制页面。
type Page struct {
	Index   int       `json:"index"`
	Width   float64   `json:"width"`
	Height  float64   `json:"height"`
	Borders []Border  `json:"borders,omitempty"`
	Texts   []TextBox `json:"texts"`
}

// Border 是每个标签外围的裁切线。
type Border struct {
	Rect  Rect    `json:"rect"`
	Color Color   `json:"color"`
	Width float64 `json:"width"` // 线宽（pt）
}

// TextBox 表示一个已经排好坐标的文本块，对应模板中的一条 text 指令。
type TextBox struct {
	Content    string     `json:"content"`
	Box        Rect       `json:"box"` // 可用区域（标签内边距以内）
	Font       string     `json:"font"`
	FontSize   float64    `json:"fontSize"`
	LineHeight float64    `json:"lineHeight"`
	Color      Color      `json:"color"`
	Lines      []TextLine `json:"lines"`
	Truncated  bool       `json:"truncated,omitempty"` // 有行因超出标签底部被丢弃
}

// TextLine 表示排版后的一行文本；X 与 Baseline 为绝对页面坐标。
type TextLine struct {
	Content  string  `json:"content"`
	Width    float64 `json:"width"`
	Height   float64 `json:"height"`
	Ascent   float64 `json:"ascent"`
	X        float64 `json:"x"`
	Baseline float64 `json:"baseline"`
}

// DocumentMeta 保存 PDF 元信息。
type DocumentMeta struct {
	Title    string   `json:"title"`
	Author   string   `json:"author"`
	Subject  string   `json:"subject"`
	Creator  string   `json:"creator"`
	Keywords []string `json:"keywords"`
}
