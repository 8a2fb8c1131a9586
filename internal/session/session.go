// Package session persists work in progress: a short-lived session snapshot
// and portable project files.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/ByLCY/bookcard/card"
	"github.com/ByLCY/bookcard/chatlog"
)

// Key is the store key of the session snapshot.
const Key = "bookcard_session"

// MaxAge is how long a saved snapshot stays restorable.
const MaxAge = 24 * time.Hour

// ErrExpired is returned by Load for a snapshot older than MaxAge.
var ErrExpired = errors.New("session: snapshot expired")

// Settings are the composer defaults new cards start from.
type Settings struct {
	CardSize  card.Size      `json:"currentCardSize"`
	Template  string         `json:"currentTemplate"`
	Theme     card.Theme     `json:"currentTheme"`
	TextStyle card.TextStyle `json:"textStyle"`
	Padding   int            `json:"cardPadding"`
	BgType    string         `json:"currentBgType"`
}

// DefaultSettings mirrors a fresh composer.
func DefaultSettings() Settings {
	t, _ := card.LookupTemplate(card.TemplateDefault)
	return Settings{
		CardSize:  t.Size,
		Template:  t.Name,
		Theme:     card.DefaultTheme(),
		TextStyle: t.Style,
		Padding:   card.DefaultPadding,
		BgType:    string(card.BackgroundSolid),
	}
}

// fill replaces zero fields with defaults.
func (s *Settings) fill() {
	def := DefaultSettings()
	if s.CardSize.Width == 0 || s.CardSize.Height == 0 {
		s.CardSize = def.CardSize
	}
	if s.Template == "" {
		s.Template = def.Template
	}
	if s.Theme == (card.Theme{}) {
		s.Theme = def.Theme
	}
	if s.TextStyle == (card.TextStyle{}) {
		s.TextStyle = def.TextStyle
	}
	if s.Padding <= 0 {
		s.Padding = def.Padding
	}
	if s.BgType == "" {
		s.BgType = def.BgType
	}
}

// Snapshot is the autosaved editing state.
type Snapshot struct {
	Cards    []card.Card       `json:"cards"`
	Messages []chatlog.Passage `json:"messages"`
	Settings
	// Timestamp is the save time in Unix milliseconds.
	Timestamp int64 `json:"timestamp"`
}

// Save stores snap under Key, stamping it with the current time when its
// Timestamp is unset.
func Save(store Store, snap Snapshot) error {
	if snap.Timestamp == 0 {
		snap.Timestamp = time.Now().UnixMilli()
	}
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encoding session: %w", err)
	}
	return store.Set(Key, data)
}

// Load restores the snapshot saved under Key. Snapshots at least MaxAge old
// (relative to now) yield ErrExpired. Cards saved without a size get the
// snapshot's card size.
func Load(store Store, now time.Time) (*Snapshot, error) {
	data, err := store.Get(Key)
	if err != nil {
		return nil, err
	}
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("decoding session: %w", err)
	}
	if now.Sub(time.UnixMilli(snap.Timestamp)) >= MaxAge {
		return nil, fmt.Errorf("%w: saved %s", ErrExpired, time.UnixMilli(snap.Timestamp).Format(time.RFC3339))
	}
	snap.Settings.fill()
	for i := range snap.Cards {
		snap.Cards[i].Normalize(snap.CardSize)
	}
	return &snap, nil
}
