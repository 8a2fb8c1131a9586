package chatlog

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	editedMarker = regexp.MustCompile(`\[편집\s*완료\]`)
	whitespace   = regexp.MustCompile(`\s+`)
	parenthetic  = regexp.MustCompile(`\([^)]*\)`)
)

// Passage is a message prepared for card composition.
type Passage struct {
	ID        int    `json:"id"`
	Character string `json:"character"`
	Content   string `json:"content"`
	Original  string `json:"originalContent"`
	Time      string `json:"time,omitempty"`
}

// ComposeOptions controls how selected passages become card text.
type ComposeOptions struct {
	// RemoveParentheses drops "(...)" asides from each passage.
	RemoveParentheses bool
}

// Passages returns the messages as cleaned passages, numbered by position.
// System messages are attributed to the narrator.
func (d *Document) Passages() []Passage {
	out := make([]Passage, len(d.Messages))
	for i, m := range d.Messages {
		character := m.CharacterName
		if character == SystemName {
			character = NarratorTag
		}
		out[i] = Passage{
			ID:        i,
			Character: character,
			Content:   cleanText(m.Content),
			Original:  m.Content,
			Time:      m.Time,
		}
	}
	return out
}

// Compose joins the selected passages into card content, separated by blank
// lines, and lists the distinct non-narrator speakers as the author.
func (d *Document) Compose(ids []int, opts ComposeOptions) (content, author string, err error) {
	passages := d.Passages()
	var texts, characters []string
	seen := map[string]bool{}
	for _, id := range ids {
		if id < 0 || id >= len(passages) {
			return "", "", fmt.Errorf("%w: passage %d (have %d)", ErrIndex, id, len(passages))
		}
		p := passages[id]
		text := p.Content
		if opts.RemoveParentheses {
			text = strings.TrimSpace(parenthetic.ReplaceAllString(text, ""))
		}
		texts = append(texts, text)
		if p.Character != NarratorTag && !seen[p.Character] {
			seen[p.Character] = true
			characters = append(characters, p.Character)
		}
	}
	return strings.Join(texts, "\n\n"), strings.Join(characters, ", "), nil
}

func cleanText(text string) string {
	text = editedMarker.ReplaceAllString(text, "")
	return strings.TrimSpace(whitespace.ReplaceAllString(text, " "))
}
