package card

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Card defaults shared by the composer and the fit resolver.
const (
	DefaultFontSize      = 16
	DefaultPadding       = 40
	DefaultFooterReserve = 60
	DefaultLineHeight    = 1.6

	MinSide = 200
	MaxSide = 4000
)

// ErrInvalidSize reports a card side outside [MinSide, MaxSide].
var ErrInvalidSize = errors.New("card size out of range")

// Align is the horizontal text alignment of a card.
type Align string

const (
	AlignLeft   Align = "left"
	AlignCenter Align = "center"
	AlignRight  Align = "right"
)

// ParseAlign accepts left/center/right (and start/end as aliases).
func ParseAlign(s string) (Align, error) {
	switch s {
	case "left", "start":
		return AlignLeft, nil
	case "center", "centre":
		return AlignCenter, nil
	case "right", "end":
		return AlignRight, nil
	}
	return "", fmt.Errorf("unknown alignment %q", s)
}

// Size is a card box in px.
type Size struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Validate checks both sides against the supported range.
func (s Size) Validate() error {
	if s.Width < MinSide || s.Height < MinSide || s.Width > MaxSide || s.Height > MaxSide {
		return fmt.Errorf("%w: %dx%d (allowed %d..%d px)", ErrInvalidSize, s.Width, s.Height, MinSide, MaxSide)
	}
	return nil
}

// TextStyle describes how card content is typeset.
type TextStyle struct {
	FontFamily string  `json:"fontFamily"`
	FontSize   int     `json:"fontSize"`
	Color      string  `json:"color"`
	Align      Align   `json:"align"`
	LineHeight float64 `json:"lineHeight"`
}

// BackgroundType selects which Theme fields drive the card background.
type BackgroundType string

const (
	BackgroundSolid    BackgroundType = "solid"
	BackgroundGradient BackgroundType = "gradient"
	BackgroundPattern  BackgroundType = "pattern"
	BackgroundImage    BackgroundType = "image"
)

// Theme is the visual background of a card. It is a plain value: copying a
// Card copies its Theme.
type Theme struct {
	Type          BackgroundType `json:"type,omitempty"`
	Background    string         `json:"background"`
	Gradient      [2]string      `json:"gradient"`
	GradientAngle int            `json:"gradientAngle"`
	Pattern       string         `json:"pattern"`
	PatternColor  string         `json:"patternColor"`
	ImagePath     string         `json:"imageUrl,omitempty"`
	Overlay       bool           `json:"overlay"`
	Blur          int            `json:"blur"`
}

// DefaultTheme is the theme new cards start with.
func DefaultTheme() Theme {
	return Theme{
		Type:          BackgroundSolid,
		Background:    "#ffffff",
		Gradient:      [2]string{"#667eea", "#764ba2"},
		GradientAngle: 180,
		Pattern:       "dots",
		PatternColor:  "#e0e0e0",
	}
}

// Card is a single styled, sized unit of text destined for image export.
type Card struct {
	ID            string    `json:"id"`
	Content       string    `json:"content"`
	Title         string    `json:"title"`
	Author        string    `json:"author"`
	Ratio         string    `json:"ratio,omitempty"`
	Size          Size      `json:"size"`
	Theme         Theme     `json:"theme"`
	TextStyle     TextStyle `json:"textStyle"`
	Padding       int       `json:"padding"`
	Template      string    `json:"template,omitempty"`
	FooterReserve int       `json:"footerReserve"`
}

// NewID returns a fresh card identity.
func NewID() string { return "card-" + uuid.NewString() }

// New creates a card from a template preset. Unknown templates fall back to
// the default preset.
func New(template string) Card {
	t, ok := LookupTemplate(template)
	if !ok {
		t, _ = LookupTemplate(TemplateDefault)
	}
	return Card{
		ID:            NewID(),
		Title:         "제목",
		Author:        "작성자",
		Ratio:         "1:1",
		Size:          t.Size,
		Theme:         DefaultTheme(),
		TextStyle:     t.Style,
		Padding:       DefaultPadding,
		Template:      t.Name,
		FooterReserve: DefaultFooterReserve,
	}
}

// Normalize fills fields that older session and project files may omit.
// fallback supplies the size for cards saved without one.
func (c *Card) Normalize(fallback Size) {
	if c.ID == "" {
		c.ID = NewID()
	}
	if c.Size.Width == 0 || c.Size.Height == 0 {
		c.Size = fallback
	}
	if c.Padding <= 0 {
		c.Padding = DefaultPadding
	}
	if c.TextStyle.FontSize <= 0 {
		c.TextStyle.FontSize = DefaultFontSize
	}
	if c.TextStyle.LineHeight <= 0 {
		c.TextStyle.LineHeight = DefaultLineHeight
	}
	if c.TextStyle.Align == "" {
		c.TextStyle.Align = AlignCenter
	}
	if c.FooterReserve <= 0 {
		c.FooterReserve = DefaultFooterReserve
	}
	if c.Theme.Type == "" {
		c.Theme.Type = BackgroundSolid
	}
	if c.Template == "" {
		c.Template = TemplateDefault
	}
}

// ApplyTemplate switches the card to a template preset, replacing its size
// and text style with the preset's recommendations.
func (c *Card) ApplyTemplate(name string) error {
	t, ok := LookupTemplate(name)
	if !ok {
		return fmt.Errorf("unknown template %q", name)
	}
	c.Template = t.Name
	c.Size = t.Size
	c.TextStyle = t.Style
	return nil
}
