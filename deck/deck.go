// Package deck holds the ordered sequence of cards being composed.
package deck

import (
	"errors"
	"fmt"

	"github.com/ByLCY/bookcard/card"
	"github.com/ByLCY/bookcard/fit"
)

// ErrEmpty is returned by operations that need a current card.
var ErrEmpty = errors.New("deck: no cards")

// Deck is an ordered list of cards with a cursor. The zero value is empty
// and ready to use.
type Deck struct {
	cards   []card.Card
	current int
}

// New returns a deck holding cards, positioned on the first one.
func New(cards ...card.Card) *Deck {
	d := &Deck{cards: make([]card.Card, len(cards))}
	copy(d.cards, cards)
	return d
}

// Len returns the number of cards.
func (d *Deck) Len() int { return len(d.cards) }

// Cards returns a copy of the cards in order.
func (d *Deck) Cards() []card.Card {
	out := make([]card.Card, len(d.cards))
	copy(out, d.cards)
	return out
}

// At returns the card at i.
func (d *Deck) At(i int) (card.Card, error) {
	if err := d.check(i); err != nil {
		return card.Card{}, err
	}
	return d.cards[i], nil
}

// Index returns the cursor position.
func (d *Deck) Index() int { return d.current }

// Current returns the card under the cursor.
func (d *Deck) Current() (card.Card, error) {
	if len(d.cards) == 0 {
		return card.Card{}, ErrEmpty
	}
	return d.cards[d.current], nil
}

// Update replaces the card at i.
func (d *Deck) Update(i int, c card.Card) error {
	if err := d.check(i); err != nil {
		return err
	}
	d.cards[i] = c
	return nil
}

// Add appends c and moves the cursor to it.
func (d *Deck) Add(c card.Card) {
	d.cards = append(d.cards, c)
	d.current = len(d.cards) - 1
}

// InsertAfter places c immediately after position i.
func (d *Deck) InsertAfter(i int, c card.Card) error {
	if err := d.check(i); err != nil {
		return err
	}
	d.cards = append(d.cards, card.Card{})
	copy(d.cards[i+2:], d.cards[i+1:])
	d.cards[i+1] = c
	return nil
}

// Remove deletes the card under the cursor; the cursor stays in range.
func (d *Deck) Remove() error {
	if len(d.cards) == 0 {
		return ErrEmpty
	}
	d.cards = append(d.cards[:d.current], d.cards[d.current+1:]...)
	if d.current >= len(d.cards) && d.current > 0 {
		d.current = len(d.cards) - 1
	}
	return nil
}

// Clear drops every card.
func (d *Deck) Clear() {
	d.cards = nil
	d.current = 0
}

// Next advances the cursor; it reports false at the last card.
func (d *Deck) Next() bool {
	if d.current >= len(d.cards)-1 {
		return false
	}
	d.current++
	return true
}

// Previous moves the cursor back; it reports false at the first card.
func (d *Deck) Previous() bool {
	if d.current <= 0 {
		return false
	}
	d.current--
	return true
}

// Fit resolves the card at i against m and stores the adjusted style and
// padding. The card is left untouched when measurement fails.
func (d *Deck) Fit(i int, m fit.Measurer) (fit.Result, error) {
	if err := d.check(i); err != nil {
		return fit.Result{}, err
	}
	res, err := fit.Resolve(d.cards[i], m)
	if err != nil {
		return res, err
	}
	fit.Apply(&d.cards[i], res)
	return res, nil
}

// Split splits the card at i and inserts the new sibling right after it.
// It returns the sibling.
func (d *Deck) Split(i int) (card.Card, error) {
	if err := d.check(i); err != nil {
		return card.Card{}, err
	}
	first, second := fit.Split(d.cards[i])
	d.cards[i] = first
	if err := d.InsertAfter(i, second); err != nil {
		return card.Card{}, err
	}
	return second, nil
}

func (d *Deck) check(i int) error {
	if len(d.cards) == 0 {
		return ErrEmpty
	}
	if i < 0 || i >= len(d.cards) {
		return fmt.Errorf("deck: index %d out of range [0,%d)", i, len(d.cards))
	}
	return nil
}
