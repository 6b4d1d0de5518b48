// Package engine implements the deck sharing, forking and auto-fork
// reconciliation workflow over a path-keyed document store. Every
// operation receives the store and an identity snapshot explicitly so the
// whole workflow runs against a fake store in tests.
package engine

import (
	"context"
	"encoding/json"
	"errors"
	"sort"

	"github.com/deckforge/deckforge-api/models"
	"github.com/deckforge/deckforge-api/store"
)

type Engine struct {
	store store.Store
}

func New(s store.Store) *Engine {
	return &Engine{store: s}
}

func (e *Engine) readDeck(ctx context.Context, path string) (models.Deck, error) {
	raw, err := e.store.ReadOnce(ctx, path)
	if errors.Is(err, store.ErrAbsent) {
		return models.Deck{}, ErrNotFound
	}
	if err != nil {
		return models.Deck{}, storeFailure(err)
	}
	var deck models.Deck
	if err := json.Unmarshal(raw, &deck); err != nil {
		return models.Deck{}, storeFailure(err)
	}
	return deck, nil
}

// readDeckCollection reads every deck under a collection path, keyed by
// deck id. An absent collection is an empty one.
func (e *Engine) readDeckCollection(ctx context.Context, path string) (map[string]models.Deck, error) {
	raw, err := e.store.ReadOnce(ctx, path)
	if errors.Is(err, store.ErrAbsent) {
		return map[string]models.Deck{}, nil
	}
	if err != nil {
		return nil, storeFailure(err)
	}
	var decks map[string]models.Deck
	if err := json.Unmarshal(raw, &decks); err != nil {
		return nil, storeFailure(err)
	}
	return decks, nil
}

func (e *Engine) readPreferences(ctx context.Context, uid string) (models.Preferences, error) {
	raw, err := e.store.ReadOnce(ctx, store.PreferencesPath(uid))
	if errors.Is(err, store.ErrAbsent) {
		return models.Preferences{}, nil
	}
	if err != nil {
		return models.Preferences{}, storeFailure(err)
	}
	var prefs models.Preferences
	if err := json.Unmarshal(raw, &prefs); err != nil {
		return models.Preferences{}, storeFailure(err)
	}
	// Older clients wrote duplicates into the list.
	prefs.Dedupe()
	return prefs, nil
}

func (e *Engine) writePreferences(ctx context.Context, uid string, prefs models.Preferences) error {
	fields := map[string]any{
		"deletedAutoForkedDecks": prefs.DeletedAutoForkedDecks,
	}
	if err := e.store.WritePartial(ctx, store.PreferencesPath(uid), fields); err != nil {
		return storeFailure(err)
	}
	return nil
}

// sortedDecks flattens a collection map into a name-ordered slice for
// stable API responses.
func sortedDecks(byID map[string]models.Deck) []models.Deck {
	decks := make([]models.Deck, 0, len(byID))
	for id, deck := range byID {
		if deck.ID == "" {
			deck.ID = id
		}
		decks = append(decks, deck)
	}
	sort.Slice(decks, func(i, j int) bool {
		if decks[i].Name != decks[j].Name {
			return decks[i].Name < decks[j].Name
		}
		return decks[i].ID < decks[j].ID
	})
	return decks
}
