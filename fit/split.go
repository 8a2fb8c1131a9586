package fit

import (
	"strings"

	"github.com/ByLCY/bookcard/card"
)

// Split divides c's words into two halves. The first card keeps c's identity
// and every non-content field; the second gets a fresh ID and copies of the
// presentation fields. The first half holds ceil(N/2) words.
//
// Content without any words is left untouched and paired with an empty
// sibling. Split never re-runs Resolve.
func Split(c card.Card) (card.Card, card.Card) {
	words := strings.Fields(c.Content)
	perCard := (len(words) + 1) / 2

	first := c
	if len(words) > 0 {
		first.Content = strings.Join(words[:perCard], " ")
	}

	second := card.Card{
		ID:            card.NewID(),
		Content:       strings.Join(words[perCard:], " "),
		Title:         c.Title,
		Author:        c.Author,
		Ratio:         c.Ratio,
		Size:          c.Size,
		Theme:         c.Theme,
		TextStyle:     c.TextStyle,
		Padding:       c.Padding,
		Template:      c.Template,
		FooterReserve: c.FooterReserve,
	}
	return first, second
}

// Degenerate reports whether a split left one side without words, which
// happens for single-word or empty content.
func Degenerate(first, second card.Card) bool {
	return len(strings.Fields(first.Content)) == 0 || len(strings.Fields(second.Content)) == 0
}
