package engine

import (
	"context"
	"log"

	"github.com/deckforge/deckforge-api/models"
	"github.com/deckforge/deckforge-api/store"
)

// Share sets or toggles the isShared flag on one of the caller's decks and
// keeps the public mirror in step. With target nil the current value is
// toggled. Returns the resulting shared state.
//
// The private flag, the public mirror and (for admins) the sharedDecks
// mirror are three separate writes with no transaction across them; a
// failure partway through leaves the mirrors stale until the next share
// toggle.
func (e *Engine) Share(ctx context.Context, ident models.Identity, deckID string, target *bool) (bool, error) {
	if !ident.Resolved() {
		return false, ErrUnauthenticated
	}

	privatePath := store.UserDeckPath(ident.ID, deckID)
	deck, err := e.readDeck(ctx, privatePath)
	if err != nil {
		return false, err
	}

	desired := !deck.IsShared
	if target != nil {
		desired = *target
	}
	if desired == deck.IsShared {
		return deck.IsShared, nil
	}

	if desired {
		if err := e.store.WritePartial(ctx, privatePath, map[string]any{"isShared": true}); err != nil {
			return deck.IsShared, storeFailure(err)
		}

		snapshot := deck
		snapshot.IsShared = true
		snapshot.Owner = ident.BestName()
		snapshot.OwnerEmail = ident.Email
		if err := e.store.WriteWhole(ctx, store.PublicDeckPath(deckID), snapshot); err != nil {
			return true, storeFailure(err)
		}

		if ident.IsAdmin() {
			if err := e.store.WriteWhole(ctx, store.SharedDeckPath(deckID), snapshot); err != nil {
				return true, storeFailure(err)
			}
		}
		log.Printf("Share: deck %s published by %s", deckID, ident.ID)
		return true, nil
	}

	// Unsharing also drops autoForkForAll: the flag is only valid on a
	// shared deck.
	fields := map[string]any{"isShared": false, "autoForkForAll": false}
	if err := e.store.WritePartial(ctx, privatePath, fields); err != nil {
		return deck.IsShared, storeFailure(err)
	}
	if err := e.store.DeleteSubtree(ctx, store.PublicDeckPath(deckID)); err != nil {
		return false, storeFailure(err)
	}
	if ident.IsAdmin() {
		if err := e.store.DeleteSubtree(ctx, store.SharedDeckPath(deckID)); err != nil {
			return false, storeFailure(err)
		}
	}
	log.Printf("Share: deck %s unpublished by %s", deckID, ident.ID)
	return false, nil
}

// SetAutoForkForAll flags one of the admin's decks for propagation into
// every user's collection, or clears the flag. Enabling requires the deck
// to be shared already.
func (e *Engine) SetAutoForkForAll(ctx context.Context, ident models.Identity, deckID string, enable bool) error {
	if !ident.Resolved() {
		return ErrUnauthenticated
	}
	if !ident.IsAdmin() {
		return ErrPermissionDenied
	}

	privatePath := store.UserDeckPath(ident.ID, deckID)
	deck, err := e.readDeck(ctx, privatePath)
	if err != nil {
		return err
	}
	if enable && !deck.IsShared {
		return ErrNotShared
	}

	fields := map[string]any{"autoForkForAll": enable}
	if err := e.store.WritePartial(ctx, privatePath, fields); err != nil {
		return storeFailure(err)
	}
	if err := e.store.WritePartial(ctx, store.PublicDeckPath(deckID), fields); err != nil {
		return storeFailure(err)
	}

	if enable {
		// Re-seed the sharedDecks mirror with a full snapshot so the
		// reconciliation pass forks current cards, not a stale copy.
		snapshot := deck
		snapshot.AutoForkForAll = true
		snapshot.Owner = ident.BestName()
		snapshot.OwnerEmail = ident.Email
		if err := e.store.WriteWhole(ctx, store.SharedDeckPath(deckID), snapshot); err != nil {
			return storeFailure(err)
		}
	} else {
		if err := e.store.WritePartial(ctx, store.SharedDeckPath(deckID), fields); err != nil {
			return storeFailure(err)
		}
	}

	log.Printf("SetAutoForkForAll: deck %s set to %v by %s", deckID, enable, ident.ID)
	return nil
}
