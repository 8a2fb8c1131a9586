package chatlog

import (
	"fmt"
	"slices"
	"strings"
	"time"
)

// Kind selects the speaker of an inserted message.
type Kind string

const (
	KindSystem    Kind = "system"
	KindCharacter Kind = "character"
)

// Defaults for inserted messages.
const (
	DefaultCharacterName = "새 캐릭터"
	DefaultContent       = "새 메시지"
	SystemNameColor      = "rgb(158, 158, 158)"
	CharacterNameColor   = "rgb(107, 166, 255)"
)

// Delete removes message i.
func (d *Document) Delete(i int) error {
	if err := d.check(i); err != nil {
		return err
	}
	d.Messages = slices.Delete(d.Messages, i, i+1)
	return nil
}

// Duplicate inserts a deep copy of message i right after it.
func (d *Document) Duplicate(i int) error {
	if err := d.check(i); err != nil {
		return err
	}
	d.Messages = slices.Insert(d.Messages, i+1, d.Messages[i].clone())
	return nil
}

// Insert adds a new message after index after (-1 inserts at the front).
// System messages are attributed to SystemName; character messages copy the
// avatar of an existing message with the same name. Blank name and content
// fall back to placeholders.
func (d *Document) Insert(after int, kind Kind, name, content string) (Message, error) {
	if after < -1 || after >= len(d.Messages) {
		return Message{}, fmt.Errorf("%w: insert after %d (have %d)", ErrIndex, after, len(d.Messages))
	}
	now := time.Now()
	m := Message{
		ID:        now.UnixMilli(),
		Content:   strings.TrimSpace(content),
		Time:      now.Format("2006. 1. 2. 15:04:05"),
		Timestamp: now.UnixMilli(),
	}
	if m.Content == "" {
		m.Content = DefaultContent
	}
	switch kind {
	case KindSystem:
		m.CharacterName = SystemName
		m.NameColor = SystemNameColor
	case KindCharacter:
		m.CharacterName = strings.TrimSpace(name)
		if m.CharacterName == "" {
			m.CharacterName = DefaultCharacterName
		}
		m.NameColor = CharacterNameColor
		for _, existing := range d.Messages {
			if existing.CharacterName == m.CharacterName && existing.Avatar != "" {
				m.Avatar = existing.Avatar
				break
			}
		}
	default:
		return Message{}, fmt.Errorf("未知消息类型 %q", kind)
	}
	d.Messages = slices.Insert(d.Messages, after+1, m)
	return m, nil
}

// Edit replaces the content of message i. The text is trimmed and
// "[편집 완료]" markers are dropped.
func (d *Document) Edit(i int, content string) error {
	if err := d.check(i); err != nil {
		return err
	}
	d.Messages[i].Content = editedText(content)
	return nil
}

// EditName changes the speaker of message i only. Use Rename to change a
// speaker throughout the log.
func (d *Document) EditName(i int, name string) error {
	if err := d.check(i); err != nil {
		return err
	}
	d.Messages[i].CharacterName = editedText(name)
	return nil
}

// EditColorBlock replaces the note of colour block b of message i.
func (d *Document) EditColorBlock(i, b int, content string) error {
	if err := d.checkBlock(i, b); err != nil {
		return err
	}
	d.Messages[i].ColorBlocks[b].Content = editedText(content)
	return nil
}

func editedText(s string) string {
	return strings.TrimSpace(editedMarker.ReplaceAllString(strings.TrimSpace(s), ""))
}

// MoveUp swaps message i with its predecessor. Moving the first message is
// a no-op.
func (d *Document) MoveUp(i int) error {
	if err := d.check(i); err != nil {
		return err
	}
	if i > 0 {
		d.Messages[i-1], d.Messages[i] = d.Messages[i], d.Messages[i-1]
	}
	return nil
}

// MoveDown swaps message i with its successor. Moving the last message is
// a no-op.
func (d *Document) MoveDown(i int) error {
	if err := d.check(i); err != nil {
		return err
	}
	if i < len(d.Messages)-1 {
		d.Messages[i+1], d.Messages[i] = d.Messages[i], d.Messages[i+1]
	}
	return nil
}

// AddColorBlock appends an empty colour block to message i.
func (d *Document) AddColorBlock(i int, color string, opacity float64) error {
	if err := d.check(i); err != nil {
		return err
	}
	d.Messages[i].ColorBlocks = append(d.Messages[i].ColorBlocks, ColorBlock{Color: color, Opacity: opacity})
	return nil
}

// DeleteColorBlock removes block b of message i. A message left without
// blocks drops the list entirely.
func (d *Document) DeleteColorBlock(i, b int) error {
	if err := d.checkBlock(i, b); err != nil {
		return err
	}
	blocks := slices.Delete(d.Messages[i].ColorBlocks, b, b+1)
	if len(blocks) == 0 {
		blocks = nil
	}
	d.Messages[i].ColorBlocks = blocks
	return nil
}

// Rename maps a speaker name as loaded to a new display name. A blank new
// name removes the mapping. Messages are rebuilt from the loaded copy with
// all mappings applied, so edits made since loading are discarded.
func (d *Document) Rename(original, name string) {
	name = strings.TrimSpace(name)
	if name == "" {
		delete(d.names, original)
	} else {
		d.names[original] = name
	}
	d.Messages = cloneAll(d.pristine)
	for i, m := range d.Messages {
		if mapped, ok := d.names[m.CharacterName]; ok {
			d.Messages[i].CharacterName = mapped
		}
	}
}

// ResetNames drops all name mappings and restores the loaded messages.
func (d *Document) ResetNames() {
	d.names = map[string]string{}
	d.Messages = cloneAll(d.pristine)
}

// Names returns a copy of the active name mappings.
func (d *Document) Names() map[string]string {
	out := make(map[string]string, len(d.names))
	for k, v := range d.names {
		out[k] = v
	}
	return out
}

func (d *Document) checkBlock(i, b int) error {
	if err := d.check(i); err != nil {
		return err
	}
	if b < 0 || b >= len(d.Messages[i].ColorBlocks) {
		return fmt.Errorf("%w: colour block %d of message %d", ErrIndex, b, i)
	}
	return nil
}
