package engine

import (
	"context"
	"log"
	"time"

	"github.com/deckforge/deckforge-api/models"
	"github.com/deckforge/deckforge-api/store"
)

// RemoveAllAutoForkedCopies marks a shared deck as retracted from
// auto-fork. It does not touch other users' private trees (there is no
// cross-user write permission); each affected user's own reconciliation
// pass deletes their copy on their next session.
//
// Steps are sequential with no rollback: clear autoForkForAll, write the
// retraction tombstone, opt the admin's own account out. A failure partway
// through leaves the earlier writes in place.
func (e *Engine) RemoveAllAutoForkedCopies(ctx context.Context, ident models.Identity, deckID string) error {
	if !ident.Resolved() {
		return ErrUnauthenticated
	}
	if !ident.IsAdmin() {
		return ErrPermissionDenied
	}

	sharedPath := store.SharedDeckPath(deckID)
	deck, err := e.readDeck(ctx, sharedPath)
	if err != nil {
		return err
	}

	if deck.AutoForkForAll {
		off := map[string]any{"autoForkForAll": false}
		if err := e.store.WritePartial(ctx, sharedPath, off); err != nil {
			return storeFailure(err)
		}
		// Best-effort mirror of the cleared flag; the tombstone below is
		// what reconciliation acts on.
		if err := e.store.WritePartial(ctx, store.PublicDeckPath(deckID), off); err != nil {
			log.Printf("RemoveAllAutoForkedCopies: failed to clear flag on public mirror of %s: %v", deckID, err)
		}
		if err := e.store.WritePartial(ctx, store.UserDeckPath(ident.ID, deckID), off); err != nil {
			log.Printf("RemoveAllAutoForkedCopies: failed to clear flag on private copy of %s: %v", deckID, err)
		}
	}

	now := time.Now().UTC()
	tombstone := map[string]any{
		"removedFromAutoFork": true,
		"removedAt":           now,
		"removedBy":           ident.ID,
	}
	if err := e.store.WritePartial(ctx, sharedPath, tombstone); err != nil {
		return storeFailure(err)
	}

	// The admin's account reconciles like any other; opting it out here
	// keeps the deck from coming back on the admin's next pass.
	prefs, err := e.readPreferences(ctx, ident.ID)
	if err != nil {
		return err
	}
	if prefs.AddDeleted(deckID) {
		if err := e.writePreferences(ctx, ident.ID, prefs); err != nil {
			return err
		}
	}

	log.Printf("RemoveAllAutoForkedCopies: deck %s retracted by %s", deckID, ident.ID)
	return nil
}
