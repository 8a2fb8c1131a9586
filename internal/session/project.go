package session

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/ByLCY/bookcard/card"
	"github.com/ByLCY/bookcard/chatlog"
)

// ProjectVersion is written into every saved project.
const ProjectVersion = "1.1"

// Project is a saved composition: cards, the passages they were composed
// from, the raw chat log and the composer settings.
type Project struct {
	Cards    []card.Card       `json:"cards"`
	Messages []chatlog.Passage `json:"messages"`
	RawData  json.RawMessage   `json:"rawData,omitempty"`
	Settings *Settings         `json:"settings,omitempty"`
	Version  string            `json:"version"`
}

// WriteProject encodes p as indented JSON with the current version.
func WriteProject(w io.Writer, p Project) error {
	p.Version = ProjectVersion
	if p.Cards == nil {
		p.Cards = []card.Card{}
	}
	if p.Messages == nil {
		p.Messages = []chatlog.Passage{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(p); err != nil {
		return fmt.Errorf("encoding project: %w", err)
	}
	return nil
}

// ReadProject decodes a project. Files from before settings were saved get
// default settings; cards without a size take the project card size.
func ReadProject(r io.Reader) (*Project, error) {
	var p Project
	if err := json.NewDecoder(r).Decode(&p); err != nil {
		return nil, fmt.Errorf("decoding project: %w", err)
	}
	if p.Settings == nil {
		def := DefaultSettings()
		p.Settings = &def
	}
	p.Settings.fill()
	for i := range p.Cards {
		p.Cards[i].Normalize(p.Settings.CardSize)
	}
	return &p, nil
}
