package deck

import (
	"errors"
	"testing"

	"github.com/ByLCY/bookcard/card"
	"github.com/ByLCY/bookcard/fit"
)

func named(id, content string) card.Card {
	c := card.New(card.TemplateDefault)
	c.ID = id
	c.Content = content
	return c
}

func ids(d *Deck) []string {
	var out []string
	for _, c := range d.Cards() {
		out = append(out, c.ID)
	}
	return out
}

func TestSplitInsertsAfterOriginal(t *testing.T) {
	d := New(named("a", "x"), named("b", "one two three"), named("c", "y"))
	sibling, err := d.Split(1)
	if err != nil {
		t.Fatalf("split: %v", err)
	}
	got := ids(d)
	if len(got) != 4 || got[0] != "a" || got[1] != "b" || got[2] != sibling.ID || got[3] != "c" {
		t.Fatalf("unexpected order: %v", got)
	}
	b, _ := d.At(1)
	if b.Content != "one two" || sibling.Content != "three" {
		t.Fatalf("unexpected halves %q / %q", b.Content, sibling.Content)
	}
}

func TestFitAppliesResult(t *testing.T) {
	d := New(named("a", "text"))
	m := fit.MeasureFunc(func(_ string, s card.TextStyle, _ int, _ card.Size) (float64, error) {
		if s.FontSize <= 14 {
			return 100, nil
		}
		return 1000, nil
	})
	res, err := d.Fit(0, m)
	if err != nil {
		t.Fatalf("fit: %v", err)
	}
	c, _ := d.Current()
	if !res.FontSizeChanged || c.TextStyle.FontSize != 14 {
		t.Fatalf("expected stored font size 14, got %d", c.TextStyle.FontSize)
	}

	bad := fit.MeasureFunc(func(string, card.TextStyle, int, card.Size) (float64, error) {
		return 0, errors.New("boom")
	})
	if _, err := d.Fit(0, bad); !errors.Is(err, fit.ErrMeasure) {
		t.Fatalf("expected ErrMeasure, got %v", err)
	}
	c, _ = d.Current()
	if c.TextStyle.FontSize != 14 {
		t.Fatalf("failed fit must not touch the card")
	}
}

func TestCursorAndRemove(t *testing.T) {
	var d Deck
	if _, err := d.Current(); !errors.Is(err, ErrEmpty) {
		t.Fatalf("expected ErrEmpty, got %v", err)
	}
	d.Add(named("a", ""))
	d.Add(named("b", ""))
	d.Add(named("c", ""))
	if d.Index() != 2 {
		t.Fatalf("Add should move cursor to the new card")
	}
	if d.Next() {
		t.Fatalf("Next at the end must report false")
	}
	if err := d.Remove(); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if d.Index() != 1 {
		t.Fatalf("cursor should clamp to last card, got %d", d.Index())
	}
	if !d.Previous() || d.Previous() {
		t.Fatalf("Previous should move once then stop")
	}
	if _, err := d.At(5); err == nil {
		t.Fatalf("expected out of range error")
	}
	d.Clear()
	if d.Len() != 0 || d.Remove() == nil {
		t.Fatalf("cleared deck must be empty")
	}
}
