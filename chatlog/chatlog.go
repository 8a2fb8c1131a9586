// Package chatlog loads and edits exported role-play chat logs.
package chatlog

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
)

// Names with special meaning in exported logs.
const (
	SystemName  = "Unknown"
	PlayerName  = "PL 웃"
	NarratorTag = "지문"
)

// ErrIndex reports a message, colour block or passage index out of range.
var ErrIndex = errors.New("chatlog: index out of range")

// ColorBlock is a highlighted note attached to a message.
type ColorBlock struct {
	Color   string  `json:"color"`
	Opacity float64 `json:"opacity"`
	Content string  `json:"content"`
}

// Message is one entry of the log.
type Message struct {
	ID            int64        `json:"id,omitempty"`
	CharacterName string       `json:"characterName"`
	Content       string       `json:"content"`
	Time          string       `json:"time,omitempty"`
	NameColor     string       `json:"nameColor,omitempty"`
	Avatar        string       `json:"avatar,omitempty"`
	Timestamp     int64        `json:"timestamp,omitempty"`
	ColorBlocks   []ColorBlock `json:"colorBlocks,omitempty"`
}

func (m Message) clone() Message {
	m.ColorBlocks = slices.Clone(m.ColorBlocks)
	return m
}

// Document is a loaded log. It keeps the messages as loaded so that name
// changes can always be re-applied from a clean state.
type Document struct {
	Messages []Message

	pristine []Message
	names    map[string]string
}

type file struct {
	Messages []Message `json:"messages"`
}

// Load decodes a log of the form {"messages": [...]}.
func Load(r io.Reader) (*Document, error) {
	var f file
	if err := json.NewDecoder(r).Decode(&f); err != nil {
		return nil, fmt.Errorf("解析聊天记录失败: %w", err)
	}
	if f.Messages == nil {
		return nil, fmt.Errorf("聊天记录缺少 messages 字段")
	}
	return New(f.Messages), nil
}

// LoadFile reads a log from disk.
func LoadFile(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("无法打开聊天记录 %s: %w", path, err)
	}
	defer f.Close()
	return Load(f)
}

// New wraps messages in a document; the slice is copied.
func New(messages []Message) *Document {
	return &Document{
		Messages: cloneAll(messages),
		pristine: cloneAll(messages),
		names:    map[string]string{},
	}
}

// Write encodes the current messages in the same shape Load accepts.
func (d *Document) Write(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(file{Messages: d.Messages}); err != nil {
		return fmt.Errorf("写入聊天记录失败: %w", err)
	}
	return nil
}

// Len returns the number of messages.
func (d *Document) Len() int { return len(d.Messages) }

// Characters lists distinct speaker names in first-appearance order,
// excluding the system and player entries.
func (d *Document) Characters() []string {
	var out []string
	seen := map[string]bool{}
	for _, m := range d.Messages {
		if m.CharacterName == SystemName || m.CharacterName == PlayerName || seen[m.CharacterName] {
			continue
		}
		seen[m.CharacterName] = true
		out = append(out, m.CharacterName)
	}
	return out
}

// Page returns the messages of page n (1-based) when showing limit messages
// per page. n is clamped into range; the clamped page and the page count are
// returned alongside.
func (d *Document) Page(n, limit int) ([]Message, int, int) {
	if limit <= 0 {
		limit = len(d.Messages)
	}
	total := 1
	if limit > 0 && len(d.Messages) > 0 {
		total = (len(d.Messages) + limit - 1) / limit
	}
	n = min(max(n, 1), total)
	if len(d.Messages) == 0 {
		return nil, n, total
	}
	start := (n - 1) * limit
	end := min(start+limit, len(d.Messages))
	return d.Messages[start:end], n, total
}

func (d *Document) check(i int) error {
	if i < 0 || i >= len(d.Messages) {
		return fmt.Errorf("%w: message %d (have %d)", ErrIndex, i, len(d.Messages))
	}
	return nil
}

func cloneAll(messages []Message) []Message {
	out := make([]Message, len(messages))
	for i, m := range messages {
		out[i] = m.clone()
	}
	return out
}
