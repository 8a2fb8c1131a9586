package layout

import (
	"fmt"
	"math"

	"github.com/ByLCY/bookcard/card"
	"github.com/ByLCY/bookcard/fit"
)

// Measurer 通过 Typesetter 实际排版来测量正文高度，是 fit.Measurer 的生产实现。
// 每次调用只产生新的行切片，不共享可变缓冲区，可被多个 goroutine 并发使用
// （前提是 Typesetter 本身并发安全）。
type Measurer struct {
	Typesetter Typesetter
	Fonts      map[string]FontResource
}

var _ fit.Measurer = (*Measurer)(nil)

// NewMeasurer 使用与 Build 相同的排版依赖构造测量器。
func NewMeasurer(opts BuildOptions) *Measurer {
	return &Measurer{Typesetter: opts.Typesetter, Fonts: opts.Fonts}
}

// MeasureText 返回 content 在 box 内（四周内缩 padding）排版后的高度，单位 px。
func (m *Measurer) MeasureText(content string, style card.TextStyle, padding int, box card.Size) (float64, error) {
	if m == nil || m.Typesetter == nil {
		return 0, fmt.Errorf("layout: 缺少排版后端 Typesetter")
	}
	fontSize := style.FontSize
	if fontSize <= 0 {
		fontSize = card.DefaultFontSize
	}
	factor := style.LineHeight
	if factor <= 0 {
		factor = card.DefaultLineHeight
	}
	width := math.Max(px(box.Width)-2*px(padding), 0)
	font := ResolveFont(style.FontFamily, m.Fonts)
	fs := px(fontSize)
	lines, err := layoutLines(content, width, font, fs, fs*factor, m.Typesetter)
	if err != nil {
		return 0, err
	}
	return totalHeight(lines) * MmToPx, nil
}
