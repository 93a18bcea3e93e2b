package libraries

import (
	"context"
	"fmt"
	"time"

	"improved-initiative/core/account"
	"improved-initiative/core/catalog"
	"improved-initiative/core/items"
	"improved-initiative/core/library"
	"improved-initiative/core/logger"
	"improved-initiative/core/store"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Deps are the collaborators shared by every library.
type Deps struct {
	// Store is the local storage. Required.
	Store store.Store
	// Catalog serves the bundled catalog. Optional.
	Catalog catalog.Source
	// Account is the remote account. Optional.
	Account *account.Client
	// Runner executes detached persistence. Optional.
	Runner library.Runner
	// Logger defaults to a no-op logger.
	Logger *zap.Logger
	// Now defaults to time.Now.
	Now func() time.Time
}

// Libraries holds one Library per item kind.
type Libraries struct {
	StatBlocks           *library.Library[items.StatBlock]
	Spells               *library.Library[items.Spell]
	Encounters           *library.Library[items.SavedEncounter]
	PersistentCharacters *library.Library[items.PersistentCharacter]

	collections []Collection
	now         func() time.Time
	characters  keyedMutex
}

// New builds the four libraries. Every kind reads and writes its own store
// namespace; full items are fetched from the store, the catalog or the
// account depending on the listing Link.
func New(deps Deps) *Libraries {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}

	router := library.NewRouter()
	localFetcher := store.AsFetcher(deps.Store)
	for _, kc := range items.Kinds() {
		router.Handle(kc.Namespace, localFetcher)
	}
	if deps.Catalog != nil {
		router.Handle("/", deps.Catalog)
	}
	if deps.Account != nil {
		router.Handle("/my/", deps.Account)
	}

	l := &Libraries{now: deps.Now}
	l.StatBlocks = newLibrary(items.StatBlocks.Config(), deps, router,
		items.DefaultStatBlock, items.StatBlockSearchHint, items.StatBlockFilterDimensions)
	l.Spells = newLibrary(items.Spells.Config(), deps, router,
		items.DefaultSpell, items.SpellSearchHint, items.SpellFilterDimensions)
	l.Encounters = newLibrary(items.Encounters.Config(), deps, router,
		items.DefaultSavedEncounter, items.SavedEncounterSearchHint, items.SavedEncounterFilterDimensions)
	l.PersistentCharacters = newLibrary(items.PersistentCharacters.Config(), deps, router,
		items.DefaultPersistentCharacter, items.PersistentCharacterSearchHint, items.PersistentCharacterFilterDimensions)

	l.collections = []Collection{
		bind(items.StatBlocks.Config(), l.StatBlocks, deps.Logger),
		bind(items.Spells.Config(), l.Spells, deps.Logger),
		bind(items.Encounters.Config(), l.Encounters, deps.Logger),
		bind(items.PersistentCharacters.Config(), l.PersistentCharacters, deps.Logger),
	}
	return l
}

func bind[T library.Item[T]](kc items.KindConfig, lib *library.Library[T], log *zap.Logger) *binding[T] {
	return &binding[T]{kind: kc, lib: lib, log: logger.ForKind(log, kc.Slug)}
}

func newLibrary[T library.Item[T]](
	kc items.KindConfig,
	deps Deps,
	fetcher library.Fetcher,
	def func() T,
	hint func(T) string,
	dims func(T) library.FilterDimensions,
) *library.Library[T] {
	cfg := library.Config[T]{
		Kind:             kc.Slug,
		DisplayName:      kc.DisplayName,
		Namespace:        kc.Namespace,
		Default:          def,
		SearchHint:       hint,
		FilterDimensions: dims,
		Store:            deps.Store,
		Fetcher:          fetcher,
		Runner:           deps.Runner,
		Logger:           logger.ForKind(deps.Logger, kc.Slug),
		Now:              deps.Now,
	}
	if client := deps.Account; client != nil {
		cfg.AccountSave = func(ctx context.Context, item T) error {
			return client.Save(ctx, kc.Slug, item)
		}
		cfg.AccountDelete = func(ctx context.Context, id string) error {
			return client.Delete(ctx, kc.Slug, id)
		}
	}
	return library.New(cfg)
}

// Collections returns every library in kind order.
func (l *Libraries) Collections() []Collection {
	return l.collections
}

// Collection returns the library serving slug.
func (l *Libraries) Collection(slug string) (Collection, error) {
	kind, err := items.ParseKind(slug)
	if err != nil {
		return nil, err
	}
	for _, c := range l.collections {
		if c.Kind().Kind == kind {
			return c, nil
		}
	}
	return nil, fmt.Errorf("no library for %s", slug)
}

// UpdatePersistentCharacter merges a partial update into the stored
// character and saves it. A new StatBlock also replaces Name, Path and
// Version. Fields the update leaves nil keep their current values. The
// character is created from the default when id is unknown. Updates to the
// same id run one at a time.
func (l *Libraries) UpdatePersistentCharacter(ctx context.Context, id string, updates items.PersistentCharacterUpdate) items.PersistentCharacter {
	updates = updates.LinkStatBlock()
	if id == "" {
		id = uuid.NewString()
	}
	defer l.characters.lock(id)()

	listing := l.PersistentCharacters.GetOrCreateListingByID(id)
	current := listing.GetWithTemplate(ctx, items.DefaultPersistentCharacter())

	merged := updates.Apply(current)
	merged.LastUpdateMs = l.now().UnixMilli()

	l.PersistentCharacters.SaveEditedListing(listing, merged)
	return listing.GetWithTemplate(ctx, items.DefaultPersistentCharacter())
}
