package items

import (
	"strings"

	"improved-initiative/core/library"
)

// ValueAndNotes is a numeric stat with free-form notes, e.g. "45 (6d10+12)".
type ValueAndNotes struct {
	Value int    `json:"Value"`
	Notes string `json:"Notes"`
}

// NameAndModifier is a save or skill bonus.
type NameAndModifier struct {
	Name     string `json:"Name"`
	Modifier int    `json:"Modifier"`
}

// NameAndContent is a trait, action or reaction.
type NameAndContent struct {
	Name    string `json:"Name"`
	Content string `json:"Content"`
	Usage   string `json:"Usage,omitempty"`
}

// AbilityScores holds the six ability scores.
type AbilityScores struct {
	Str int `json:"Str"`
	Dex int `json:"Dex"`
	Con int `json:"Con"`
	Int int `json:"Int"`
	Wis int `json:"Wis"`
	Cha int `json:"Cha"`
}

// StatBlock describes a creature.
type StatBlock struct {
	Id                    string            `json:"Id"`
	Name                  string            `json:"Name"`
	Path                  string            `json:"Path"`
	Source                string            `json:"Source"`
	Type                  string            `json:"Type"`
	HP                    ValueAndNotes     `json:"HP"`
	AC                    ValueAndNotes     `json:"AC"`
	InitiativeModifier    int               `json:"InitiativeModifier"`
	InitiativeAdvantage   bool              `json:"InitiativeAdvantage"`
	Speed                 []string          `json:"Speed"`
	Abilities             AbilityScores     `json:"Abilities"`
	DamageVulnerabilities []string          `json:"DamageVulnerabilities"`
	DamageResistances     []string          `json:"DamageResistances"`
	DamageImmunities      []string          `json:"DamageImmunities"`
	ConditionImmunities   []string          `json:"ConditionImmunities"`
	Saves                 []NameAndModifier `json:"Saves"`
	Skills                []NameAndModifier `json:"Skills"`
	Senses                []string          `json:"Senses"`
	Languages             []string          `json:"Languages"`
	Challenge             string            `json:"Challenge"`
	Traits                []NameAndContent  `json:"Traits"`
	Actions               []NameAndContent  `json:"Actions"`
	BonusActions          []NameAndContent  `json:"BonusActions"`
	Reactions             []NameAndContent  `json:"Reactions"`
	LegendaryActions      []NameAndContent  `json:"LegendaryActions"`
	Description           string            `json:"Description"`
	ImageURL              string            `json:"ImageURL"`
	Player                string            `json:"Player"`
	Version               string            `json:"Version"`
	LastUpdateMs          int64             `json:"LastUpdateMs"`
}

// DefaultStatBlock returns an empty creature with every list initialised.
func DefaultStatBlock() StatBlock {
	return StatBlock{
		HP:                    ValueAndNotes{Value: 1, Notes: "1d1+0"},
		AC:                    ValueAndNotes{Value: 10},
		Speed:                 []string{},
		Abilities:             AbilityScores{Str: 10, Dex: 10, Con: 10, Int: 10, Wis: 10, Cha: 10},
		DamageVulnerabilities: []string{},
		DamageResistances:     []string{},
		DamageImmunities:      []string{},
		ConditionImmunities:   []string{},
		Saves:                 []NameAndModifier{},
		Skills:                []NameAndModifier{},
		Senses:                []string{},
		Languages:             []string{},
		Challenge:             "",
		Traits:                []NameAndContent{},
		Actions:               []NameAndContent{},
		BonusActions:          []NameAndContent{},
		Reactions:             []NameAndContent{},
		LegendaryActions:      []NameAndContent{},
		Version:               Version,
	}
}

func (s StatBlock) Identity() library.Identity {
	return library.Identity{ID: s.Id, Name: s.Name, Path: s.Path, LastUpdateMs: s.LastUpdateMs}
}

func (s StatBlock) WithIdentity(id library.Identity) StatBlock {
	s.Id, s.Name, s.Path, s.LastUpdateMs = id.ID, id.Name, id.Path, id.LastUpdateMs
	return s
}

// StatBlockSearchHint indexes the creature type and the names of its
// traits and actions.
func StatBlockSearchHint(s StatBlock) string {
	parts := []string{s.Type}
	for _, group := range [][]NameAndContent{s.Traits, s.Actions, s.BonusActions, s.Reactions, s.LegendaryActions} {
		for _, p := range group {
			parts = append(parts, p.Name)
		}
	}
	return normalizeHint(strings.Join(parts, " "))
}

// StatBlockFilterDimensions exposes challenge, source and type facets.
func StatBlockFilterDimensions(s StatBlock) library.FilterDimensions {
	dims := library.FilterDimensions{}
	if s.Challenge != "" {
		dims["Level"] = s.Challenge
	}
	if s.Source != "" {
		// Multi-book sources are "Book A, Book B"; the first one groups.
		dims["Source"] = strings.TrimSpace(strings.Split(s.Source, ",")[0])
	}
	if s.Type != "" {
		dims["Type"] = s.Type
	}
	return dims
}

func normalizeHint(s string) string {
	s = strings.ToLower(s)
	s = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == ' ':
			return r
		case r == '\n' || r == '\t' || r == ',' || r == '-' || r == '/':
			return ' '
		}
		return -1
	}, s)
	return strings.Join(strings.Fields(s), " ")
}
