package items

import "fmt"

// Version is stamped on new items.
const Version = "3.0.0"

// Kind enumerates the item kinds a library can hold.
type Kind int

const (
	StatBlocks Kind = iota
	Spells
	Encounters
	PersistentCharacters
)

// KindConfig describes where a kind lives in each backend.
type KindConfig struct {
	Kind Kind
	// Slug names the kind in URLs and account paths.
	Slug string
	// DisplayName names provisional listings.
	DisplayName string
	// Namespace is the local storage namespace, also the Link of local items.
	Namespace string
	// CatalogPath is the server catalog path. Empty when the kind has no catalog.
	CatalogPath string
}

// HasCatalog reports whether the server catalog serves this kind.
func (c KindConfig) HasCatalog() bool {
	return c.CatalogPath != ""
}

// AccountPath is the account listing path, also the Link of account items.
func (c KindConfig) AccountPath() string {
	return "/my/" + c.Slug + "/"
}

var kinds = []KindConfig{
	{Kind: StatBlocks, Slug: "statblocks", DisplayName: "Creature", Namespace: "StatBlocks", CatalogPath: "/statblocks/"},
	{Kind: Spells, Slug: "spells", DisplayName: "Spell", Namespace: "Spells", CatalogPath: "/spells/"},
	{Kind: Encounters, Slug: "encounters", DisplayName: "Encounter", Namespace: "SavedEncounters"},
	{Kind: PersistentCharacters, Slug: "persistentcharacters", DisplayName: "Character", Namespace: "PersistentCharacters"},
}

// Kinds returns the configuration of every kind.
func Kinds() []KindConfig {
	out := make([]KindConfig, len(kinds))
	copy(out, kinds)
	return out
}

// Config returns the configuration of k.
func (k Kind) Config() KindConfig {
	if int(k) < 0 || int(k) >= len(kinds) {
		return KindConfig{Kind: k}
	}
	return kinds[k]
}

func (k Kind) String() string {
	if c := k.Config(); c.Slug != "" {
		return c.Slug
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// ParseKind resolves a slug to its Kind.
func ParseKind(slug string) (Kind, error) {
	for _, c := range kinds {
		if c.Slug == slug {
			return c.Kind, nil
		}
	}
	return 0, fmt.Errorf("unknown item kind %q", slug)
}
