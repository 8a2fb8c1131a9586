package card

import (
	"errors"
	"strings"
	"testing"
)

func TestNewUsesTemplatePreset(t *testing.T) {
	c := New(TemplateReadwise)
	if c.Size != (Size{Width: 500, Height: 700}) {
		t.Fatalf("unexpected size %+v", c.Size)
	}
	if c.TextStyle.FontSize != 24 || c.TextStyle.Align != AlignCenter {
		t.Fatalf("unexpected style %+v", c.TextStyle)
	}
	if c.Padding != DefaultPadding || c.FooterReserve != DefaultFooterReserve {
		t.Fatalf("unexpected padding/reserve %d/%d", c.Padding, c.FooterReserve)
	}
	if !strings.HasPrefix(c.ID, "card-") {
		t.Fatalf("unexpected id %q", c.ID)
	}
	if New("nope").Template != TemplateDefault {
		t.Fatalf("unknown template should fall back to default")
	}
}

func TestSizeValidate(t *testing.T) {
	if err := (Size{Width: 400, Height: 600}).Validate(); err != nil {
		t.Fatalf("valid size rejected: %v", err)
	}
	for _, s := range []Size{{199, 600}, {400, 4001}, {0, 0}} {
		if err := s.Validate(); !errors.Is(err, ErrInvalidSize) {
			t.Fatalf("%+v: expected ErrInvalidSize, got %v", s, err)
		}
	}
}

func TestNormalizeFillsMissingFields(t *testing.T) {
	c := Card{Content: "x"}
	c.Normalize(Size{Width: 450, Height: 650})
	if c.ID == "" || c.Size.Width != 450 || c.Padding != 40 || c.TextStyle.FontSize != 16 || c.FooterReserve != 60 {
		t.Fatalf("normalize left gaps: %+v", c)
	}
	if c.Theme.Type != BackgroundSolid || c.Template != TemplateDefault {
		t.Fatalf("normalize theme/template: %+v", c)
	}
}

func TestApplyTemplate(t *testing.T) {
	c := New(TemplateDefault)
	if err := c.ApplyTemplate(TemplateKindle); err != nil {
		t.Fatalf("apply: %v", err)
	}
	if c.Size.Width != 450 || c.TextStyle.Align != AlignLeft || c.TextStyle.LineHeight != 1.7 {
		t.Fatalf("kindle preset not applied: %+v", c)
	}
	if err := c.ApplyTemplate("pinterest"); err == nil {
		t.Fatalf("expected unknown template error")
	}
	if got := TemplateNames(); len(got) != 4 || got[0] != TemplateDefault {
		t.Fatalf("unexpected template names %v", got)
	}
}

func TestParseAlign(t *testing.T) {
	for in, want := range map[string]Align{"left": AlignLeft, "end": AlignRight, "center": AlignCenter} {
		got, err := ParseAlign(in)
		if err != nil || got != want {
			t.Fatalf("ParseAlign(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := ParseAlign("justify"); err == nil {
		t.Fatalf("expected error for justify")
	}
}
