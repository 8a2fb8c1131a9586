package renderer

import (
	"fmt"
	"strings"

	"github.com/ByLCY/bookcard/layout"
)

// Format 是卡片导出格式。
type Format string

const (
	PNG Format = "png"
	PDF Format = "pdf"
	SVG Format = "svg"
)

// ParseFormat 接受 png/pdf/svg（大小写不敏感）。
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case PNG, PDF, SVG:
		return f, nil
	}
	return "", fmt.Errorf("不支持的导出格式 %q（可选 png/pdf/svg）", s)
}

// Renderer 将卡片布局输出为最终文件，例如 PNG 或 PDF。
// Render 返回生成的二进制数据以及可能的错误。
type Renderer interface {
	Render(l *layout.CardLayout, format Format) ([]byte, error)
}
