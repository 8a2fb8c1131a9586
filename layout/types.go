package layout

// 该文件定义卡片布局结果与资源描述，供布局计算、渲染与调试 JSON 共用。
// 所有坐标与尺寸均以毫米（mm）为单位，像素值仅在 *Px 字段中出现。

// CardLayout 保存一张卡片排版后可直接渲染的全部元素。
type CardLayout struct {
	CardID     string     `json:"cardId"`
	Width      float64    `json:"width"`
	Height     float64    `json:"height"`
	Padding    float64    `json:"padding"`
	Background Background `json:"background"`
	Text       TextBox    `json:"text"`
	Footer     []TextBox  `json:"footer,omitempty"`

	// 与 fit 包一致的溢出判定，单位 px。
	TextHeightPx float64 `json:"textHeightPx"`
	AvailablePx  float64 `json:"availablePx"`
	Overflowing  bool    `json:"overflowing"`
}

// Background 描述卡片背景；Type 决定使用哪些字段。
type Background struct {
	Type         string   `json:"type"`
	Color        Color    `json:"color"`
	Gradient     [2]Color `json:"gradient"`
	Angle        float64  `json:"angle"`
	Pattern      string   `json:"pattern,omitempty"`
	PatternColor Color    `json:"patternColor"`
	ImagePath    string   `json:"imagePath,omitempty"`
	Overlay      bool     `json:"overlay,omitempty"`
	Blur         float64  `json:"blur,omitempty"`
}

// FontResource 描述字体资源，src 可以是文件路径或 builtin:* 形式。
type FontResource struct {
	Name   string `json:"name"`
	Src    string `json:"src"`
	Style  string `json:"style"`
	Family string `json:"family"` // 渲染器使用的 Family 名称
}

// Color 采用 0-255 的 RGB 数值。
type Color struct {
	R int `json:"r"`
	G int `json:"g"`
	B int `json:"b"`
}

// TextBox 表示一个已经排好坐标的文本块。
type TextBox struct {
	Content    string       `json:"content"`
	X          float64      `json:"x"`
	Y          float64      `json:"y"`
	Width      float64      `json:"width"`
	LineHeight float64      `json:"lineHeight"`
	Font       FontResource `json:"font"`
	FontSize   float64      `json:"fontSize"`
	Color      Color        `json:"color"`
	Lines      []TextLine   `json:"lines"`
	Height     float64      `json:"height"`
	Align      string       `json:"align,omitempty"` // left/center/right（默认 left）
}

// TextLine 表示排版后的一行文本内容及其宽高。
type TextLine struct {
	Content   string  `json:"content"`
	Width     float64 `json:"width"`
	Height    float64 `json:"height"`
	GapBefore float64 `json:"gapBefore,omitempty"`
}
