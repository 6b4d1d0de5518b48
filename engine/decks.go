package engine

import (
	"context"
	"log"
	"strings"

	"github.com/deckforge/deckforge-api/models"
	"github.com/deckforge/deckforge-api/store"
)

// CreateDeck makes a new private deck for the caller, optionally seeded
// with cards. Card ids are allocated here when the request supplied none.
func (e *Engine) CreateDeck(ctx context.Context, ident models.Identity, name string, cards models.CardMap) (models.Deck, error) {
	if !ident.Resolved() {
		return models.Deck{}, ErrUnauthenticated
	}

	deckID, err := e.store.AllocateID(store.UserDecksPath(ident.ID))
	if err != nil {
		return models.Deck{}, storeFailure(err)
	}

	deck := models.Deck{
		ID:          deckID,
		Name:        strings.TrimSpace(name),
		CreatorID:   ident.ID,
		CreatorName: ident.BestName(),
		Cards:       cards.Clone(),
	}
	if err := e.store.WriteWhole(ctx, store.UserDeckPath(ident.ID, deckID), deck); err != nil {
		return models.Deck{}, storeFailure(err)
	}

	log.Printf("CreateDeck: deck %s created for %s", deckID, ident.ID)
	return deck, nil
}

// UserDecks lists the caller's private collection, name-ordered.
func (e *Engine) UserDecks(ctx context.Context, ident models.Identity) ([]models.Deck, error) {
	if !ident.Resolved() {
		return nil, ErrUnauthenticated
	}
	byID, err := e.readDeckCollection(ctx, store.UserDecksPath(ident.ID))
	if err != nil {
		return nil, err
	}
	return sortedDecks(byID), nil
}

func (e *Engine) UserDeck(ctx context.Context, ident models.Identity, deckID string) (models.Deck, error) {
	if !ident.Resolved() {
		return models.Deck{}, ErrUnauthenticated
	}
	deck, err := e.readDeck(ctx, store.UserDeckPath(ident.ID, deckID))
	if err != nil {
		return models.Deck{}, err
	}
	if deck.ID == "" {
		deck.ID = deckID
	}
	return deck, nil
}

// RenameDeck updates the deck's display name, mirroring to the public copy
// when the deck is shared.
func (e *Engine) RenameDeck(ctx context.Context, ident models.Identity, deckID, name string) error {
	if !ident.Resolved() {
		return ErrUnauthenticated
	}
	deck, err := e.readDeck(ctx, store.UserDeckPath(ident.ID, deckID))
	if err != nil {
		return err
	}

	fields := map[string]any{"name": strings.TrimSpace(name)}
	if err := e.store.WritePartial(ctx, store.UserDeckPath(ident.ID, deckID), fields); err != nil {
		return storeFailure(err)
	}
	if deck.IsShared {
		if err := e.store.WritePartial(ctx, store.PublicDeckPath(deckID), fields); err != nil {
			log.Printf("RenameDeck: failed to mirror rename of %s: %v", deckID, err)
		}
		if ident.IsAdmin() {
			if err := e.store.WritePartial(ctx, store.SharedDeckPath(deckID), fields); err != nil {
				log.Printf("RenameDeck: failed to mirror rename of %s to sharedDecks: %v", deckID, err)
			}
		}
	}
	return nil
}

// DeleteDeck removes a deck from the caller's private collection. For a
// shared deck this cascades to the public mirror (and the sharedDecks
// mirror for admins). Deleting an auto-forked copy records the origin id
// in preferences so reconciliation never re-creates it.
func (e *Engine) DeleteDeck(ctx context.Context, ident models.Identity, deckID string) error {
	if !ident.Resolved() {
		return ErrUnauthenticated
	}
	deck, err := e.readDeck(ctx, store.UserDeckPath(ident.ID, deckID))
	if err != nil {
		return err
	}

	if deck.IsShared {
		if err := e.store.DeleteSubtree(ctx, store.PublicDeckPath(deckID)); err != nil {
			return storeFailure(err)
		}
		if ident.IsAdmin() {
			if err := e.store.DeleteSubtree(ctx, store.SharedDeckPath(deckID)); err != nil {
				return storeFailure(err)
			}
		}
	}

	if deck.AutoForked && deck.ForkedFrom != nil {
		prefs, err := e.readPreferences(ctx, ident.ID)
		if err != nil {
			return err
		}
		if prefs.AddDeleted(deck.ForkedFrom.ID) {
			if err := e.writePreferences(ctx, ident.ID, prefs); err != nil {
				return err
			}
		}
	}

	if err := e.store.DeleteSubtree(ctx, store.UserDeckPath(ident.ID, deckID)); err != nil {
		return storeFailure(err)
	}
	log.Printf("DeleteDeck: deck %s deleted for %s", deckID, ident.ID)
	return nil
}

// PublicDecks lists the gallery of shared decks.
func (e *Engine) PublicDecks(ctx context.Context) ([]models.Deck, error) {
	byID, err := e.readDeckCollection(ctx, store.PublicDecksPath())
	if err != nil {
		return nil, err
	}
	return sortedDecks(byID), nil
}

// PublicDeck reads a single deck from the gallery.
func (e *Engine) PublicDeck(ctx context.Context, deckID string) (models.Deck, error) {
	deck, err := e.readDeck(ctx, store.PublicDeckPath(deckID))
	if err != nil {
		return models.Deck{}, err
	}
	if deck.ID == "" {
		deck.ID = deckID
	}
	return deck, nil
}
