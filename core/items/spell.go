package items

import (
	"strconv"
	"strings"

	"improved-initiative/core/library"
)

// Spell is a castable spell.
type Spell struct {
	Id           string   `json:"Id"`
	Name         string   `json:"Name"`
	Path         string   `json:"Path"`
	Source       string   `json:"Source"`
	Level        int      `json:"Level"`
	School       string   `json:"School"`
	CastingTime  string   `json:"CastingTime"`
	Range        string   `json:"Range"`
	Components   string   `json:"Components"`
	Duration     string   `json:"Duration"`
	Classes      []string `json:"Classes"`
	Description  string   `json:"Description"`
	Ritual       bool     `json:"Ritual"`
	Version      string   `json:"Version"`
	LastUpdateMs int64    `json:"LastUpdateMs"`
}

// DefaultSpell returns an empty cantrip.
func DefaultSpell() Spell {
	return Spell{
		Classes: []string{},
		Version: Version,
	}
}

func (s Spell) Identity() library.Identity {
	return library.Identity{ID: s.Id, Name: s.Name, Path: s.Path, LastUpdateMs: s.LastUpdateMs}
}

func (s Spell) WithIdentity(id library.Identity) Spell {
	s.Id, s.Name, s.Path, s.LastUpdateMs = id.ID, id.Name, id.Path, id.LastUpdateMs
	return s
}

// SpellSearchHint indexes classes, school and ritual status.
func SpellSearchHint(s Spell) string {
	parts := append([]string{s.School}, s.Classes...)
	if s.Ritual {
		parts = append(parts, "ritual")
	}
	return normalizeHint(strings.Join(parts, " "))
}

// SpellFilterDimensions exposes level and school facets.
func SpellFilterDimensions(s Spell) library.FilterDimensions {
	dims := library.FilterDimensions{"Level": strconv.Itoa(s.Level)}
	if s.School != "" {
		dims["School"] = s.School
	}
	return dims
}
