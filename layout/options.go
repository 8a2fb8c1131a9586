package layout

// BuildOptions 配置布局阶段所需的依赖，例如排版后端与字体表。
type BuildOptions struct {
	Typesetter Typesetter
	// Fonts 以 CSS 字体族名称为键；未命中时回退到 "Body"。
	Fonts map[string]FontResource
}

// Typesetter 负责根据字体与宽度约束将文本拆成可绘制的行。
// 约定：width/fontSize/lineHeight 均为毫米（mm）。
type Typesetter interface {
	LayoutLines(content string, width float64, font FontResource, fontSize float64, lineHeight float64) ([]TextLine, error)
}
