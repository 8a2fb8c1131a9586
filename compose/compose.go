// Package compose turns a parsed deck file into cards.
package compose

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2/lexer"

	"github.com/ByLCY/bookcard/binding"
	"github.com/ByLCY/bookcard/card"
	"github.com/ByLCY/bookcard/deck"
	"github.com/ByLCY/bookcard/dsl"
	"github.com/ByLCY/bookcard/layout"
)

// paragraphSeparator joins consecutive text literals of a card.
const paragraphSeparator = "\n\n"

// Options carries settings that apply below the deck file's own defaults.
type Options struct {
	// Template is used when neither the card nor the defaults block name one.
	Template string
	// Padding overrides the card default padding when > 0.
	Padding int
}

// Build composes every card section of doc into a deck. Settings are layered
// as template preset, Options, defaults block, then the card block itself.
// Title, author and content are interpolated against data.
func Build(doc *dsl.Document, data any, opts Options) (*deck.Deck, error) {
	if doc == nil {
		return nil, fmt.Errorf("文档为空")
	}
	var defaults *dsl.Block
	for _, s := range doc.Sections {
		if s.Defaults == nil {
			continue
		}
		if defaults != nil {
			return nil, errorf(s.Defaults.Pos, "defaults 段落只能出现一次")
		}
		defaults = s.Defaults.Block
	}

	sections := doc.Cards()
	if len(sections) == 0 {
		return nil, fmt.Errorf("文档中缺少 card 段落")
	}
	d := deck.New()
	for _, sec := range sections {
		c, err := buildCard(sec, defaults, data, opts)
		if err != nil {
			return nil, err
		}
		d.Add(c)
	}
	return d, nil
}

func buildCard(sec *dsl.CardSection, defaults *dsl.Block, data any, opts Options) (card.Card, error) {
	name, pos := templateName(sec, defaults, opts)
	if _, ok := card.LookupTemplate(name); !ok {
		return card.Card{}, errorf(pos, "未知模板 %q（可用：%s）", name, strings.Join(card.TemplateNames(), ", "))
	}
	c := card.New(name)
	if opts.Padding > 0 {
		c.Padding = opts.Padding
	}

	var texts []string
	if defaults != nil {
		if err := applyBlock(&c, defaults, nil); err != nil {
			return card.Card{}, err
		}
	}
	if err := applyBlock(&c, sec.Block, &texts); err != nil {
		return card.Card{}, err
	}
	if err := c.Size.Validate(); err != nil {
		return card.Card{}, errorf(sec.Pos, "%w", err)
	}

	c.Title = binding.Interpolate(c.Title, data)
	c.Author = binding.Interpolate(c.Author, data)
	c.Content = binding.Interpolate(strings.Join(texts, paragraphSeparator), data)
	return c, nil
}

// templateName picks the card's template: the card header wins over the
// defaults block, which wins over Options.
func templateName(sec *dsl.CardSection, defaults *dsl.Block, opts Options) (string, lexer.Position) {
	if sec.Template != "" {
		return sec.Template, sec.Pos
	}
	if defaults != nil {
		for _, st := range defaults.Statements {
			if a := st.Assignment; a != nil && a.Key == "template" {
				return a.Value.Raw(), a.Pos
			}
		}
	}
	if opts.Template != "" {
		return opts.Template, sec.Pos
	}
	return card.TemplateDefault, sec.Pos
}

// applyBlock applies statements in order. texts is nil for the defaults
// block, where text literals are not allowed.
func applyBlock(c *card.Card, block *dsl.Block, texts *[]string) error {
	if block == nil {
		return nil
	}
	for _, st := range block.Statements {
		switch {
		case st.Assignment != nil:
			if err := applyAssignment(c, st.Assignment); err != nil {
				return err
			}
		case st.Command != nil:
			if err := applyCommand(c, st.Command); err != nil {
				return err
			}
		case st.Text != nil:
			if texts == nil {
				return errorf(st.Text.Pos, "defaults 中不能包含文本")
			}
			*texts = append(*texts, string(st.Text.Value))
		}
	}
	return nil
}

func applyAssignment(c *card.Card, a *dsl.Assignment) error {
	raw := a.Value.Raw()
	switch a.Key {
	case "template":
		// 已在 templateName 中处理
		return nil
	case "title":
		c.Title = raw
	case "author":
		c.Author = raw
	case "ratio":
		c.Ratio = raw
	case "padding":
		v, err := pixels(raw)
		if err != nil {
			return errorf(a.Pos, "padding: %v", err)
		}
		c.Padding = v
	case "footer-reserve":
		v, err := pixels(raw)
		if err != nil {
			return errorf(a.Pos, "footer-reserve: %v", err)
		}
		c.FooterReserve = v
	default:
		return errorf(a.Pos, "未知属性 %s", a.Key)
	}
	return nil
}

func applyCommand(c *card.Card, cmd *dsl.Command) error {
	switch cmd.Name {
	case "size":
		if len(cmd.Args) != 2 {
			return errorf(cmd.Pos, "size 需要宽和高两个参数")
		}
		w, err := pixels(cmd.Args[0].Value)
		if err != nil {
			return errorf(cmd.Pos, "size: %v", err)
		}
		h, err := pixels(cmd.Args[1].Value)
		if err != nil {
			return errorf(cmd.Pos, "size: %v", err)
		}
		size := card.Size{Width: w, Height: h}
		if err := size.Validate(); err != nil {
			return errorf(cmd.Pos, "%w", err)
		}
		c.Size = size
	case "font":
		if cmd.Block == nil {
			return errorf(cmd.Pos, "font 语句缺少子内容")
		}
		return applyFont(&c.TextStyle, cmd.Block)
	case "background":
		theme, err := parseBackground(c.Theme, cmd.Args)
		if err != nil {
			return errorf(cmd.Pos, "background: %w", err)
		}
		c.Theme = theme
	default:
		return errorf(cmd.Pos, "未知语句 %s", cmd.Name)
	}
	return nil
}

func applyFont(style *card.TextStyle, block *dsl.Block) error {
	var lineHeight *layout.LineHeightSpec
	var lineHeightPos lexer.Position
	for _, st := range block.Statements {
		a := st.Assignment
		if a == nil {
			return fmt.Errorf("font 中只允许 key: value 形式的属性")
		}
		raw := a.Value.Raw()
		switch a.Key {
		case "family":
			style.FontFamily = raw
		case "size":
			v, err := pixels(raw)
			if err != nil {
				return errorf(a.Pos, "font size: %v", err)
			}
			style.FontSize = v
		case "color":
			if _, err := layout.ParseColor(raw); err != nil {
				return errorf(a.Pos, "%v", err)
			}
			style.Color = raw
		case "align":
			align, err := card.ParseAlign(raw)
			if err != nil {
				return errorf(a.Pos, "%v", err)
			}
			style.Align = align
		case "line-height":
			spec, ok := layout.ParseLineHeight(raw)
			if !ok {
				return errorf(a.Pos, "line-height 值 %s 无法解析", raw)
			}
			lineHeight, lineHeightPos = &spec, a.Pos
		default:
			return errorf(a.Pos, "font 中未知属性 %s", a.Key)
		}
	}
	// 绝对行高依赖最终字号，放到最后换算成倍数
	if lineHeight != nil {
		factor := lineHeight.FactorOf(layout.Length{Value: float64(style.FontSize), Unit: layout.UnitPX})
		if factor <= 0 {
			return errorf(lineHeightPos, "line-height 必须为正数")
		}
		style.LineHeight = factor
	}
	return nil
}

// parseBackground reads `background <kind> ...` arguments on top of the
// current theme:
//
//	background solid #ffffff
//	background gradient #667eea #764ba2 angle 180
//	background pattern dots #e0e0e0
//	background image "bg.jpg" overlay blur 2
func parseBackground(theme card.Theme, args []*dsl.Lexeme) (card.Theme, error) {
	if len(args) == 0 {
		return theme, fmt.Errorf("缺少背景类型")
	}
	kind, rest := args[0].Value, args[1:]
	switch card.BackgroundType(kind) {
	case card.BackgroundSolid:
		if len(rest) != 1 {
			return theme, fmt.Errorf("solid 需要一个颜色")
		}
		if err := checkColor(rest[0].Value); err != nil {
			return theme, err
		}
		theme.Background = rest[0].Value
	case card.BackgroundGradient:
		if len(rest) < 2 {
			return theme, fmt.Errorf("gradient 需要两个颜色")
		}
		for _, l := range rest[:2] {
			if err := checkColor(l.Value); err != nil {
				return theme, err
			}
		}
		theme.Gradient = [2]string{rest[0].Value, rest[1].Value}
		opts, err := keywordArgs(rest[2:], "angle")
		if err != nil {
			return theme, err
		}
		if v, ok := opts["angle"]; ok {
			angle, err := strconv.Atoi(v)
			if err != nil {
				return theme, fmt.Errorf("angle 值 %s 无法解析", v)
			}
			theme.GradientAngle = angle
		}
	case card.BackgroundPattern:
		if len(rest) == 0 || len(rest) > 2 {
			return theme, fmt.Errorf("pattern 需要图案名称和可选颜色")
		}
		switch rest[0].Value {
		case "dots", "lines", "grid", "zigzag":
			theme.Pattern = rest[0].Value
		default:
			return theme, fmt.Errorf("未知图案 %s", rest[0].Value)
		}
		if len(rest) == 2 {
			if err := checkColor(rest[1].Value); err != nil {
				return theme, err
			}
			theme.PatternColor = rest[1].Value
		}
	case card.BackgroundImage:
		if len(rest) == 0 || rest[0].Type != "String" {
			return theme, fmt.Errorf("image 需要一个带引号的路径")
		}
		theme.ImagePath = rest[0].Value
		theme.Overlay = false
		theme.Blur = 0
		opts, err := keywordArgs(rest[1:], "blur", "overlay")
		if err != nil {
			return theme, err
		}
		if _, ok := opts["overlay"]; ok {
			theme.Overlay = true
		}
		if v, ok := opts["blur"]; ok {
			blur, err := strconv.Atoi(v)
			if err != nil || blur < 0 {
				return theme, fmt.Errorf("blur 值 %s 无法解析", v)
			}
			theme.Blur = blur
		}
	default:
		return theme, fmt.Errorf("未知背景类型 %s", kind)
	}
	theme.Type = card.BackgroundType(kind)
	return theme, nil
}

// keywordArgs reads `name value` pairs; "overlay" is a bare flag.
func keywordArgs(args []*dsl.Lexeme, allowed ...string) (map[string]string, error) {
	out := map[string]string{}
	for i := 0; i < len(args); i++ {
		key := args[i].Value
		known := false
		for _, a := range allowed {
			known = known || a == key
		}
		if !known {
			return nil, fmt.Errorf("未知参数 %s", key)
		}
		if key == "overlay" {
			out[key] = ""
			continue
		}
		if i+1 >= len(args) {
			return nil, fmt.Errorf("参数 %s 缺少取值", key)
		}
		out[key] = args[i+1].Value
		i++
	}
	return out, nil
}

func checkColor(v string) error {
	_, err := layout.ParseColor(v)
	return err
}

// pixels parses a length and rounds it to whole CSS pixels. Unit-less
// values are pixels.
func pixels(raw string) (int, error) {
	l, ok := layout.ParseRawLengthStr(raw)
	if !ok {
		return 0, fmt.Errorf("长度 %q 无法解析", raw)
	}
	v := int(math.Round(l.ToPX()))
	if v <= 0 {
		return 0, fmt.Errorf("长度 %q 必须为正数", raw)
	}
	return v, nil
}

// errorf prefixes the error with the source position; %w is honoured.
func errorf(pos lexer.Position, format string, args ...any) error {
	return fmt.Errorf("%s: "+format, append([]any{pos}, args...)...)
}
