package items

import "improved-initiative/core/library"

// PersistentCharacter is a player character whose hit points and notes
// carry over between encounters.
type PersistentCharacter struct {
	Id           string    `json:"Id"`
	Version      string    `json:"Version"`
	Name         string    `json:"Name"`
	Path         string    `json:"Path"`
	LastUpdateMs int64     `json:"LastUpdateMs"`
	StatBlock    StatBlock `json:"StatBlock"`
	CurrentHP    int       `json:"CurrentHP"`
	TemporaryHP  int       `json:"TemporaryHP"`
	Notes        string    `json:"Notes"`
	ImageURL     string    `json:"ImageURL,omitempty"`
}

// DefaultPersistentCharacter returns a character built on the default
// stat block, at full hit points.
func DefaultPersistentCharacter() PersistentCharacter {
	sb := DefaultStatBlock()
	sb.Player = "player"
	return PersistentCharacter{
		Version:   Version,
		StatBlock: sb,
		CurrentHP: sb.HP.Value,
	}
}

// PersistentCharacterFromStatBlock starts a character from a stat block.
func PersistentCharacterFromStatBlock(sb StatBlock) PersistentCharacter {
	return PersistentCharacter{
		Id:           sb.Id,
		Version:      sb.Version,
		Name:         sb.Name,
		Path:         sb.Path,
		LastUpdateMs: sb.LastUpdateMs,
		StatBlock:    sb,
		CurrentHP:    sb.HP.Value,
	}
}

func (c PersistentCharacter) Identity() library.Identity {
	return library.Identity{ID: c.Id, Name: c.Name, Path: c.Path, LastUpdateMs: c.LastUpdateMs}
}

func (c PersistentCharacter) WithIdentity(id library.Identity) PersistentCharacter {
	c.Id, c.Name, c.Path, c.LastUpdateMs = id.ID, id.Name, id.Path, id.LastUpdateMs
	return c
}

// PersistentCharacterSearchHint indexes the underlying stat block.
func PersistentCharacterSearchHint(c PersistentCharacter) string {
	return StatBlockSearchHint(c.StatBlock)
}

// PersistentCharacterFilterDimensions reuses the stat block facets.
func PersistentCharacterFilterDimensions(c PersistentCharacter) library.FilterDimensions {
	return StatBlockFilterDimensions(c.StatBlock)
}

// PersistentCharacterUpdate is a partial update. Nil fields are left alone.
type PersistentCharacterUpdate struct {
	Name        *string    `json:"Name,omitempty"`
	Path        *string    `json:"Path,omitempty"`
	Version     *string    `json:"Version,omitempty"`
	StatBlock   *StatBlock `json:"StatBlock,omitempty"`
	CurrentHP   *int       `json:"CurrentHP,omitempty"`
	TemporaryHP *int       `json:"TemporaryHP,omitempty"`
	Notes       *string    `json:"Notes,omitempty"`
	ImageURL    *string    `json:"ImageURL,omitempty"`
}

// LinkStatBlock copies Name, Path and Version from a replacement stat block
// so the character's display fields follow it.
func (u PersistentCharacterUpdate) LinkStatBlock() PersistentCharacterUpdate {
	if u.StatBlock == nil {
		return u
	}
	name, path, version := u.StatBlock.Name, u.StatBlock.Path, u.StatBlock.Version
	u.Name, u.Path, u.Version = &name, &path, &version
	return u
}

// Apply returns current with every set field of u written over it.
func (u PersistentCharacterUpdate) Apply(current PersistentCharacter) PersistentCharacter {
	if u.Name != nil {
		current.Name = *u.Name
	}
	if u.Path != nil {
		current.Path = *u.Path
	}
	if u.Version != nil {
		current.Version = *u.Version
	}
	if u.StatBlock != nil {
		current.StatBlock = *u.StatBlock
	}
	if u.CurrentHP != nil {
		current.CurrentHP = *u.CurrentHP
	}
	if u.TemporaryHP != nil {
		current.TemporaryHP = *u.TemporaryHP
	}
	if u.Notes != nil {
		current.Notes = *u.Notes
	}
	if u.ImageURL != nil {
		current.ImageURL = *u.ImageURL
	}
	return current
}
