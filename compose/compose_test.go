package compose

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ByLCY/bookcard/card"
	"github.com/ByLCY/bookcard/dsl"
)

const deckSource = `
deck Dune v1 {
  defaults {
    padding: 32
    author: "${meta.author:-Anonymous}"
  }

  card readwise {
    title: "${meta.title}"
    font { family: "Georgia" size: 20 color: #222222 align: left line-height: 40px }
    background gradient #667eea #764ba2 angle 90
    "I must not fear."
    "Fear is the mind-killer."
  }

  card {
    size 600 800
    background pattern grid #cccccc
    "${messages[0].content}"
  }
}
`

func mustParse(t *testing.T, src string) *dsl.Document {
	t.Helper()
	doc, err := dsl.ParseString(src)
	if err != nil {
		t.Fatalf("解析失败: %v", err)
	}
	return doc
}

func TestBuildLayersSettings(t *testing.T) {
	data := map[string]any{
		"meta":     map[string]any{"title": "Dune"},
		"messages": []any{map[string]any{"content": "The spice must flow."}},
	}
	d, err := Build(mustParse(t, deckSource), data, Options{Template: card.TemplateNotion})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if d.Len() != 2 {
		t.Fatalf("expected 2 cards, got %d", d.Len())
	}
	cards := d.Cards()

	first := cards[0]
	if first.Template != card.TemplateReadwise || first.Size != (card.Size{Width: 500, Height: 700}) {
		t.Fatalf("readwise preset not applied: %+v", first)
	}
	wantStyle := card.TextStyle{
		FontFamily: "Georgia",
		FontSize:   20,
		Color:      "#222222",
		Align:      card.AlignLeft,
		LineHeight: 2,
	}
	if diff := cmp.Diff(wantStyle, first.TextStyle); diff != "" {
		t.Fatalf("text style mismatch (-want +got):\n%s", diff)
	}
	if first.Padding != 32 {
		t.Fatalf("defaults padding not applied, got %d", first.Padding)
	}
	if first.Title != "Dune" || first.Author != "Anonymous" {
		t.Fatalf("unexpected title/author %q / %q", first.Title, first.Author)
	}
	if first.Content != "I must not fear.\n\nFear is the mind-killer." {
		t.Fatalf("unexpected content %q", first.Content)
	}
	if first.Theme.Type != card.BackgroundGradient || first.Theme.GradientAngle != 90 ||
		first.Theme.Gradient != [2]string{"#667eea", "#764ba2"} {
		t.Fatalf("unexpected gradient theme %+v", first.Theme)
	}

	second := cards[1]
	if second.Template != card.TemplateNotion {
		t.Fatalf("option template should apply to cards without one, got %s", second.Template)
	}
	if second.Size != (card.Size{Width: 600, Height: 800}) {
		t.Fatalf("size not applied: %+v", second.Size)
	}
	if second.Theme.Type != card.BackgroundPattern || second.Theme.Pattern != "grid" || second.Theme.PatternColor != "#cccccc" {
		t.Fatalf("unexpected pattern theme %+v", second.Theme)
	}
	if second.Content != "The spice must flow." {
		t.Fatalf("binding not applied, got %q", second.Content)
	}
	if first.ID == second.ID {
		t.Fatalf("cards must have distinct ids")
	}
}

func TestBuildImageBackground(t *testing.T) {
	src := `deck X v1 {
  card kindle {
    background image "bg.jpg" overlay blur 3
    "text"
  }
}`
	d, err := Build(mustParse(t, src), nil, Options{})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	c, _ := d.At(0)
	want := card.DefaultTheme()
	want.Type = card.BackgroundImage
	want.ImagePath = "bg.jpg"
	want.Overlay = true
	want.Blur = 3
	if diff := cmp.Diff(want, c.Theme); diff != "" {
		t.Fatalf("theme mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildErrorsCarryPositions(t *testing.T) {
	cases := map[string]string{
		"unknown template": "deck X v1 {\n  card fancy {\n    \"x\"\n  }\n}",
		"bad size":         "deck X v1 {\n  card {\n    size 100 700\n  }\n}",
		"bad background":   "deck X v1 {\n  card {\n    background plaid\n  }\n}",
		"bad align":        "deck X v1 {\n  card {\n    font { align: justify }\n  }\n}",
		"unknown key":      "deck X v1 {\n  card {\n    colour: \"red\"\n  }\n}",
		"text in defaults": "deck X v1 {\n  defaults {\n    \"x\"\n  }\n  card { \"y\" }\n}",
	}
	for name, src := range cases {
		_, err := Build(mustParse(t, src), nil, Options{})
		if err == nil {
			t.Fatalf("%s: expected error", name)
		}
		if !strings.HasPrefix(err.Error(), "2:") && !strings.HasPrefix(err.Error(), "3:") {
			t.Fatalf("%s: error should start with a position, got %v", name, err)
		}
	}
}

func TestBuildInvalidSizeIsSentinel(t *testing.T) {
	_, err := Build(mustParse(t, "deck X v1 {\n  card {\n    size 5000 700\n  }\n}"), nil, Options{})
	if !errors.Is(err, card.ErrInvalidSize) {
		t.Fatalf("expected ErrInvalidSize, got %v", err)
	}
}

func TestBuildRequiresCards(t *testing.T) {
	if _, err := Build(mustParse(t, "deck X v1 {\n  defaults { padding: 20 }\n}"), nil, Options{}); err == nil {
		t.Fatalf("expected error for deck without cards")
	}
}
