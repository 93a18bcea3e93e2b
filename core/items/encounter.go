package items

import (
	"strings"

	"improved-initiative/core/library"
)

// SavedCombatant is one combatant in a saved encounter.
type SavedCombatant struct {
	Id                    string    `json:"Id"`
	StatBlock             StatBlock `json:"StatBlock"`
	PersistentCharacterId string    `json:"PersistentCharacterId,omitempty"`
	MaxHP                 int       `json:"MaxHP"`
	CurrentHP             int       `json:"CurrentHP"`
	TemporaryHP           int       `json:"TemporaryHP"`
	Initiative            int       `json:"Initiative"`
	Alias                 string    `json:"Alias"`
	Tags                  []string  `json:"Tags"`
	Hidden                bool      `json:"Hidden"`
}

// SavedEncounter is a stored set of combatants.
type SavedEncounter struct {
	Id                 string           `json:"Id"`
	Name               string           `json:"Name"`
	Path               string           `json:"Path"`
	Combatants         []SavedCombatant `json:"Combatants"`
	RoundCounter       int              `json:"RoundCounter"`
	ActiveCombatantId  string           `json:"ActiveCombatantId"`
	BackgroundImageUrl string           `json:"BackgroundImageUrl"`
	Version            string           `json:"Version"`
	LastUpdateMs       int64            `json:"LastUpdateMs"`
}

// DefaultSavedEncounter returns an encounter without combatants.
func DefaultSavedEncounter() SavedEncounter {
	return SavedEncounter{
		Combatants: []SavedCombatant{},
		Version:    Version,
	}
}

func (e SavedEncounter) Identity() library.Identity {
	return library.Identity{ID: e.Id, Name: e.Name, Path: e.Path, LastUpdateMs: e.LastUpdateMs}
}

func (e SavedEncounter) WithIdentity(id library.Identity) SavedEncounter {
	e.Id, e.Name, e.Path, e.LastUpdateMs = id.ID, id.Name, id.Path, id.LastUpdateMs
	return e
}

// SavedEncounterSearchHint indexes combatant names and aliases.
func SavedEncounterSearchHint(e SavedEncounter) string {
	parts := make([]string, 0, len(e.Combatants))
	for _, c := range e.Combatants {
		if c.Alias != "" {
			parts = append(parts, c.Alias)
			continue
		}
		parts = append(parts, c.StatBlock.Name)
	}
	return normalizeHint(strings.Join(parts, " "))
}

// SavedEncounterFilterDimensions returns no facets.
func SavedEncounterFilterDimensions(SavedEncounter) library.FilterDimensions {
	return library.FilterDimensions{}
}
