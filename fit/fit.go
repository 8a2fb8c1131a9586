// Package fit shrinks a card's typography until its content fits the card
// box, and splits content across two cards when shrinking is not enough.
package fit

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ByLCY/bookcard/card"
)

// Bounds of the two reduction stages.
const (
	MinFontSize  = 12
	MinPadding   = 20
	FontSizeStep = 1
	PaddingStep  = 5
)

// ErrMeasure wraps failures of the injected Measurer.
var ErrMeasure = errors.New("fit: cannot measure content")

// Measurer reports the rendered height (px) of content typeset with style
// inside box inset by padding on every side.
type Measurer interface {
	MeasureText(content string, style card.TextStyle, padding int, box card.Size) (float64, error)
}

// MeasureFunc adapts an ordinary function to Measurer.
type MeasureFunc func(content string, style card.TextStyle, padding int, box card.Size) (float64, error)

// MeasureText calls f.
func (f MeasureFunc) MeasureText(content string, style card.TextStyle, padding int, box card.Size) (float64, error) {
	return f(content, style, padding, box)
}

// Result is the outcome of Resolve. Style and Padding are what the card
// should be rendered with; the flags say what changed relative to entry.
type Result struct {
	Style   card.TextStyle
	Padding int

	FontSizeChanged bool
	PaddingChanged  bool
	Overflowing     bool

	Height       float64 // last measured text height
	Available    float64 // box height minus footer reserve
	Measurements int
}

// Resolve finds a font size and padding at which c's content fits its box.
// Font size is reduced first, one px at a time down to MinFontSize; then
// padding, five px at a time down to MinPadding. Values already at or below
// a floor are left alone. When the content still overflows the result is
// flagged and the decision to split is left to the caller.
//
// On measurement failure the entry style and padding are returned with an
// error wrapping ErrMeasure.
func Resolve(c card.Card, m Measurer) (Result, error) {
	style := c.TextStyle
	if style.FontSize <= 0 {
		style.FontSize = card.DefaultFontSize
	}
	padding := c.Padding
	if padding <= 0 {
		padding = card.DefaultPadding
	}
	reserve := c.FooterReserve
	if reserve <= 0 {
		reserve = card.DefaultFooterReserve
	}
	res := Result{
		Style:     style,
		Padding:   padding,
		Available: float64(c.Size.Height - reserve),
	}
	if strings.TrimSpace(c.Content) == "" {
		return res, nil
	}
	if m == nil {
		return res, fmt.Errorf("%w: no measurer", ErrMeasure)
	}

	entry := res
	overflows := func(s card.TextStyle, p int) (bool, error) {
		h, err := m.MeasureText(c.Content, s, p, c.Size)
		res.Measurements++
		if err != nil {
			return false, fmt.Errorf("%w: %v", ErrMeasure, err)
		}
		res.Height = h
		return h > res.Available, nil
	}
	fail := func(err error) (Result, error) {
		entry.Measurements = res.Measurements
		return entry, err
	}

	over, err := overflows(style, padding)
	if err != nil {
		return fail(err)
	}
	for over && style.FontSize > MinFontSize {
		style.FontSize -= FontSizeStep
		if over, err = overflows(style, padding); err != nil {
			return fail(err)
		}
	}
	for over && padding > MinPadding {
		padding = max(padding-PaddingStep, MinPadding)
		if over, err = overflows(style, padding); err != nil {
			return fail(err)
		}
	}

	res.Style = style
	res.Padding = padding
	res.FontSizeChanged = style.FontSize != entry.Style.FontSize
	res.PaddingChanged = padding != entry.Padding
	res.Overflowing = over
	return res, nil
}

// Apply writes the resolved style and padding back onto c.
func Apply(c *card.Card, r Result) {
	c.TextStyle = r.Style
	c.Padding = r.Padding
}

// Notices returns the user-facing messages describing r, in the order font
// size, padding, overflow.
func (r Result) Notices() []string {
	var out []string
	if r.FontSizeChanged {
		out = append(out, fmt.Sprintf("font size adjusted to %dpx", r.Style.FontSize))
	}
	if r.PaddingChanged {
		out = append(out, fmt.Sprintf("padding adjusted to %dpx", r.Padding))
	}
	if r.Overflowing {
		out = append(out, fmt.Sprintf("text still overflows the card (%.0fpx of %.0fpx available); split it into two cards or keep it as is", r.Height, r.Available))
	}
	return out
}
