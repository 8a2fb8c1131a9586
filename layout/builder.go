package layout

import (
	"fmt"
	"math"
	"strings"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/ByLCY/bookcard/card"
)

const (
	defaultFontName = "Body"
	// 页脚标题/作者字号相对正文的比例，以及最小字号（px）。
	titleScale   = 0.8
	authorScale  = 0.7
	footerMinPx  = 10
	footerGapPx  = 4
	defaultAngle = 180
)

var defaultTextColor = Color{R: 0, G: 0, B: 0}

// Build 根据卡片内容、样式与尺寸生成可渲染的布局结果。
func Build(c card.Card, opts BuildOptions) (*CardLayout, error) {
	if opts.Typesetter == nil {
		return nil, fmt.Errorf("layout: 缺少排版后端 Typesetter")
	}
	if c.Size.Width <= 0 || c.Size.Height <= 0 {
		return nil, fmt.Errorf("layout: 卡片 %s 尺寸无效 %dx%d", c.ID, c.Size.Width, c.Size.Height)
	}

	style := c.TextStyle
	if style.FontSize <= 0 {
		style.FontSize = card.DefaultFontSize
	}
	if style.LineHeight <= 0 {
		style.LineHeight = card.DefaultLineHeight
	}
	padding := c.Padding
	if padding < 0 {
		padding = 0
	}

	width := px(c.Size.Width)
	height := px(c.Size.Height)
	pad := px(padding)
	contentWidth := math.Max(width-2*pad, 0)

	color, err := ParseColor(style.Color)
	if err != nil {
		color = defaultTextColor
	}
	font := ResolveFont(style.FontFamily, opts.Fonts)

	text, err := composeTextBox(c.Content, pad, pad, contentWidth, font, px(style.FontSize), style.LineHeight, color, string(style.Align), opts.Typesetter)
	if err != nil {
		return nil, fmt.Errorf("layout: 卡片 %s 正文排版失败: %w", c.ID, err)
	}

	reservePx := c.FooterReserve
	if reservePx <= 0 {
		reservePx = card.DefaultFooterReserve
	}
	reserve := px(reservePx)
	// 正文区域：上边距到页脚保留区之间，能放下时垂直居中。
	region := height - pad - reserve - pad
	if text.Height < region {
		text.Y = pad + (region-text.Height)/2
	}

	footer, err := buildFooter(c, style, font, color, pad, contentWidth, height-pad-reserve, reserve, opts.Typesetter)
	if err != nil {
		return nil, err
	}

	bg, err := buildBackground(c.Theme)
	if err != nil {
		return nil, fmt.Errorf("layout: 卡片 %s 背景无效: %w", c.ID, err)
	}

	textPx := text.Height * MmToPx
	available := float64(c.Size.Height - reservePx)
	return &CardLayout{
		CardID:       c.ID,
		Width:        width,
		Height:       height,
		Padding:      pad,
		Background:   bg,
		Text:         text,
		Footer:       footer,
		TextHeightPx: textPx,
		AvailablePx:  available,
		Overflowing:  strings.TrimSpace(c.Content) != "" && textPx > available,
	}, nil
}

// buildFooter 在页脚保留区内依次放置标题与作者。
func buildFooter(c card.Card, style card.TextStyle, font FontResource, color Color, x, width, top, reserve float64, ts Typesetter) ([]TextBox, error) {
	if reserve <= 0 {
		return nil, nil
	}
	var boxes []TextBox
	y := top
	total := 0.0
	for _, item := range []struct {
		text  string
		scale float64
	}{{c.Title, titleScale}, {c.Author, authorScale}} {
		if strings.TrimSpace(item.text) == "" {
			continue
		}
		size := math.Max(float64(style.FontSize)*item.scale, footerMinPx)
		tb, err := composeTextBox(item.text, x, y, width, font, size*PxToMm, 1.2, color, string(style.Align), ts)
		if err != nil {
			return nil, fmt.Errorf("layout: 卡片 %s 页脚排版失败: %w", c.ID, err)
		}
		boxes = append(boxes, tb)
		y += tb.Height + footerGapPx*PxToMm
		total += tb.Height + footerGapPx*PxToMm
	}
	// 整体在保留区内垂直居中
	if offset := (reserve - total) / 2; offset > 0 {
		for i := range boxes {
			boxes[i].Y += offset
		}
	}
	return boxes, nil
}

func buildBackground(theme card.Theme) (Background, error) {
	bg := Background{
		Type:      string(theme.Type),
		Pattern:   theme.Pattern,
		ImagePath: theme.ImagePath,
		Overlay:   theme.Overlay,
		Blur:      float64(theme.Blur),
		Angle:     float64(theme.GradientAngle),
	}
	if bg.Type == "" {
		bg.Type = string(card.BackgroundSolid)
	}
	if bg.Angle == 0 {
		bg.Angle = defaultAngle
	}
	var err error
	parse := func(s string, fallback Color) Color {
		if s == "" || err != nil {
			return fallback
		}
		var c Color
		c, err = ParseColor(s)
		return c
	}
	white := Color{R: 255, G: 255, B: 255}
	bg.Color = parse(theme.Background, white)
	bg.Gradient[0] = parse(theme.Gradient[0], bg.Color)
	bg.Gradient[1] = parse(theme.Gradient[1], bg.Color)
	bg.PatternColor = parse(theme.PatternColor, Color{R: 224, G: 224, B: 224})
	if err != nil {
		return Background{}, err
	}

	switch card.BackgroundType(bg.Type) {
	case card.BackgroundSolid, card.BackgroundGradient, card.BackgroundPattern:
	case card.BackgroundImage:
		if bg.ImagePath == "" {
			// 缺少图片时按浅灰纯色处理
			bg.Type = string(card.BackgroundSolid)
			bg.Color = Color{R: 240, G: 240, B: 240}
		}
	default:
		return Background{}, fmt.Errorf("未知背景类型 %q", bg.Type)
	}
	return bg, nil
}

func composeTextBox(content string, x, y, width float64, font FontResource, fontSize, lineFactor float64, color Color, align string, ts Typesetter) (TextBox, error) {
	lineHeight := fontSize * lineFactor
	lines, err := layoutLines(content, width, font, fontSize, lineHeight, ts)
	if err != nil {
		return TextBox{}, err
	}
	return TextBox{
		Content:    content,
		X:          x,
		Y:          y,
		Width:      width,
		LineHeight: lineHeight,
		Font:       font,
		FontSize:   fontSize,
		Color:      color,
		Lines:      lines,
		Height:     totalHeight(lines),
		Align:      align,
	}, nil
}

// layoutLines 调用排版后端并回填行高与行距，保证 Σ(GapBefore+Height) 即文本块高度。
func layoutLines(content string, width float64, font FontResource, fontSize, lineHeight float64, ts Typesetter) ([]TextLine, error) {
	if strings.TrimSpace(content) == "" {
		return nil, nil
	}
	lines, err := ts.LayoutLines(content, width, font, fontSize, lineHeight)
	if err != nil {
		return nil, err
	}
	leading := math.Max(lineHeight-fontSize, 0)
	for i := range lines {
		if lines[i].Height <= 0 {
			lines[i].Height = fontSize
		}
		if i == 0 {
			lines[i].GapBefore = 0
		} else if lines[i].GapBefore <= 0 {
			lines[i].GapBefore = leading
		}
	}
	return lines, nil
}

func totalHeight(lines []TextLine) float64 {
	total := 0.0
	for _, ln := range lines {
		total += ln.GapBefore + ln.Height
	}
	return total
}

// ResolveFont 解析 CSS 字体族列表（如 "'Noto Sans KR', sans-serif"），返回第一个已注册的字体。
func ResolveFont(family string, fonts map[string]FontResource) FontResource {
	for _, name := range strings.Split(family, ",") {
		name = strings.Trim(strings.TrimSpace(name), `'"`)
		if name == "" {
			continue
		}
		if f, ok := fonts[name]; ok {
			return f
		}
	}
	if f, ok := fonts[defaultFontName]; ok {
		return f
	}
	return FontResource{Name: defaultFontName}
}

// ParseColor 解析 #rgb / #rrggbb 形式的颜色。
func ParseColor(value string) (Color, error) {
	c, err := colorful.Hex(strings.TrimSpace(value))
	if err != nil {
		return Color{}, fmt.Errorf("无法解析颜色 %q: %w", value, err)
	}
	r, g, b := c.RGB255()
	return Color{R: int(r), G: int(g), B: int(b)}, nil
}

func px(v int) float64 { return float64(v) * PxToMm }
