// Package binding fills ${...} placeholders in card text from decoded JSON
// data, such as a chat log or a project file.
package binding

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var placeholder = regexp.MustCompile(`\$\{([^}]+)\}`)

// Interpolate 将文本中的 ${path.to.value} 替换为 data 中的值。
// ${path:-fallback} 在路径不存在时使用 fallback；没有 fallback 时保留原占位符。
func Interpolate(text string, data any) string {
	return placeholder.ReplaceAllStringFunc(text, func(match string) string {
		expr := match[2 : len(match)-1]
		path, fallback, hasFallback := strings.Cut(expr, ":-")
		if val, ok := Lookup(data, strings.TrimSpace(path)); ok {
			return format(val)
		}
		if hasFallback {
			return fallback
		}
		return match
	})
}

// Lookup 按 a.b[0].c 形式的路径在 data 中取值，nil 视为不存在。
func Lookup(data any, path string) (any, bool) {
	steps, ok := parsePath(path)
	if !ok || data == nil {
		return nil, false
	}
	current := data
	for _, s := range steps {
		if current, ok = s.from(current); !ok || current == nil {
			return nil, false
		}
	}
	return current, true
}

// step 是路径中的一级：对象键或数组下标。
type step struct {
	key   string
	index int
	isIdx bool
}

func (s step) from(v any) (any, bool) {
	if !s.isIdx {
		switch m := v.(type) {
		case map[string]any:
			val, ok := m[s.key]
			return val, ok
		case map[string]string:
			val, ok := m[s.key]
			return val, ok
		}
		return nil, false
	}
	switch list := v.(type) {
	case []any:
		return at(list, s.index)
	case []map[string]any:
		return at(list, s.index)
	case []string:
		return at(list, s.index)
	}
	return nil, false
}

func at[T any](list []T, i int) (any, bool) {
	if i < 0 || i >= len(list) {
		return nil, false
	}
	return list[i], true
}

// parsePath 把 "messages[0].content" 拆成 messages / [0] / content。
func parsePath(path string) ([]step, bool) {
	if path == "" {
		return nil, false
	}
	var steps []step
	for _, segment := range strings.Split(path, ".") {
		key, rest, _ := strings.Cut(segment, "[")
		if key != "" {
			steps = append(steps, step{key: key})
		}
		if rest == "" {
			if key == "" {
				return nil, false
			}
			continue
		}
		// rest 形如 "0][1]"
		for _, idx := range strings.Split(strings.TrimSuffix(rest, "]"), "][") {
			n, err := strconv.Atoi(idx)
			if err != nil {
				return nil, false
			}
			steps = append(steps, step{index: n, isIdx: true})
		}
	}
	return steps, len(steps) > 0
}

func format(val any) string {
	// JSON 数字解码为 float64，整数值不带小数点输出
	if f, ok := val.(float64); ok && f == float64(int64(f)) {
		return strconv.FormatInt(int64(f), 10)
	}
	return fmt.Sprint(val)
}
