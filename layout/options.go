package layout

// Typesetter 负责根据字体与宽度约束将文本拆成可绘制的行，由渲染后端实现。
// width、fontSize、lineHeight 以及返回行的 Width/Height/Ascent 均为 pt。
type Typesetter interface {
	LayoutLines(content string, width float64, font FontResource, fontSize float64, lineHeight float64) ([]TextLine, error)
}
