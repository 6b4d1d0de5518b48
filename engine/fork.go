package engine

import (
	"context"
	"log"

	"github.com/deckforge/deckforge-api/models"
	"github.com/deckforge/deckforge-api/store"
)

const (
	forkSuffix     = " (Forked)"
	autoForkSuffix = " (Auto-Forked)"
)

// ForkOptions tunes a single fork.
type ForkOptions struct {
	// Name overrides the derived "{source} (Forked)" name when non-empty.
	Name string
	// AutoForked marks the copy as created by the reconciliation pass
	// and switches the derived name suffix.
	AutoForked bool
}

// Fork copies a source deck into the caller's private collection. The copy
// gets a fresh id, the caller as creator, isShared and autoForkForAll
// reset, and a denormalized forkedFrom snapshot. The source is never
// mutated. Callers must treat an empty returned id as failure.
func (e *Engine) Fork(ctx context.Context, ident models.Identity, src models.Deck, opts ForkOptions) (string, error) {
	if !ident.Resolved() {
		return "", ErrUnauthenticated
	}

	newID, err := e.store.AllocateID(store.UserDecksPath(ident.ID))
	if err != nil {
		return "", storeFailure(err)
	}

	name := opts.Name
	if name == "" {
		if opts.AutoForked {
			name = src.Name + autoForkSuffix
		} else {
			name = src.Name + forkSuffix
		}
	}

	forked := src
	forked.ID = newID
	forked.Name = name
	forked.CreatorID = ident.ID
	forked.CreatorName = ident.BestName()
	forked.Owner = ""
	forked.OwnerEmail = ""
	forked.IsShared = false
	forked.AutoForkForAll = false
	forked.RemovedFromAutoFork = false
	forked.RemovedAt = nil
	forked.RemovedBy = ""
	forked.AutoForked = opts.AutoForked
	forked.ForkedFrom = &models.ForkRef{
		ID:          src.ID,
		Name:        src.Name,
		CreatorName: src.CreatorName,
	}
	// Per-entry copy; legacy array sources were already normalized to a
	// mapping when the record was decoded.
	forked.Cards = src.Cards.Clone()

	if err := e.store.WriteWhole(ctx, store.UserDeckPath(ident.ID, newID), forked); err != nil {
		log.Printf("Fork: failed to write copy of %s for %s: %v", src.ID, ident.ID, err)
		return "", storeFailure(err)
	}

	log.Printf("Fork: deck %s forked as %s for %s", src.ID, newID, ident.ID)
	return newID, nil
}

// SourceDeck fetches a deck to fork, trying the public path first and the
// sharedDecks path second.
func (e *Engine) SourceDeck(ctx context.Context, deckID string) (models.Deck, error) {
	deck, err := e.readDeck(ctx, store.PublicDeckPath(deckID))
	if err == nil {
		if deck.ID == "" {
			deck.ID = deckID
		}
		return deck, nil
	}
	if err != ErrNotFound {
		return models.Deck{}, err
	}

	deck, err = e.readDeck(ctx, store.SharedDeckPath(deckID))
	if err != nil {
		return models.Deck{}, err
	}
	if deck.ID == "" {
		deck.ID = deckID
	}
	return deck, nil
}
