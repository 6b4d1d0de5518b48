package engine

import (
	"context"
	"log"
	"sort"

	"github.com/google/uuid"

	"github.com/deckforge/deckforge-api/models"
	"github.com/deckforge/deckforge-api/store"
)

// ReconcileResult summarizes one reconciliation pass.
type ReconcileResult struct {
	Forked    int  `json:"forked"`
	Retracted int  `json:"retracted"`
	Changed   bool `json:"changed"`
}

// Reconcile runs the auto-fork pass for the current user: forks decks
// flagged autoForkForAll that the user does not have yet, and deletes
// auto-forked copies of decks an admin has retracted. The pass is
// idempotent; a second run against unchanged state queues nothing.
//
// Individual fork and delete failures are logged and skipped, never fatal
// to the batch. There is no locking: two sessions reconciling the same
// user concurrently can both fork the same source deck. Known limitation.
func (e *Engine) Reconcile(ctx context.Context, ident models.Identity) (ReconcileResult, error) {
	var result ReconcileResult
	if !ident.Resolved() {
		return result, ErrUnauthenticated
	}
	passID := uuid.NewString()[:8]

	// Load phase.
	shared, err := e.readDeckCollection(ctx, store.SharedDecksPath())
	if err != nil {
		return result, err
	}
	prefs, err := e.readPreferences(ctx, ident.ID)
	if err != nil {
		return result, err
	}
	private, err := e.readDeckCollection(ctx, store.UserDecksPath(ident.ID))
	if err != nil {
		return result, err
	}

	// Classify phase. Sorted source ids keep log order stable.
	sourceIDs := make([]string, 0, len(shared))
	for id := range shared {
		sourceIDs = append(sourceIDs, id)
	}
	sort.Strings(sourceIDs)

	var toDelete []string
	var toFork []models.Deck
	prefsChanged := false

	for _, srcID := range sourceIDs {
		src := shared[srcID]
		if src.ID == "" {
			src.ID = srcID
		}

		if src.RemovedFromAutoFork {
			for deckID, deck := range private {
				if deck.AutoForked && deck.ForkedFrom != nil && deck.ForkedFrom.ID == srcID {
					toDelete = append(toDelete, deckID)
				}
			}
			if prefs.AddDeleted(srcID) {
				prefsChanged = true
			}
			continue
		}

		if !src.AutoForkForAll {
			continue
		}
		if prefs.HasDeleted(srcID) {
			continue
		}
		if userHasDeck(private, srcID) {
			continue
		}
		toFork = append(toFork, src)
	}

	// Apply phase. Deletions and forks target disjoint decks, so order
	// between them does not matter; each one is an independent unit.
	sort.Strings(toDelete)
	for _, deckID := range toDelete {
		if err := e.store.DeleteSubtree(ctx, store.UserDeckPath(ident.ID, deckID)); err != nil {
			log.Printf("Reconcile[%s]: failed to delete retracted deck %s for %s: %v", passID, deckID, ident.ID, err)
			continue
		}
		result.Retracted++
	}
	for _, src := range toFork {
		if _, err := e.Fork(ctx, ident, src, ForkOptions{AutoForked: true}); err != nil {
			log.Printf("Reconcile[%s]: failed to auto-fork deck %s for %s: %v", passID, src.ID, ident.ID, err)
			continue
		}
		result.Forked++
	}

	// Persist phase: one preferences write regardless of how many decks
	// were retracted this pass.
	if prefsChanged {
		if err := e.writePreferences(ctx, ident.ID, prefs); err != nil {
			log.Printf("Reconcile[%s]: failed to persist preferences for %s: %v", passID, ident.ID, err)
		}
	}

	// Signal phase.
	result.Changed = result.Forked > 0 || result.Retracted > 0
	if result.Changed {
		log.Printf("Reconcile[%s]: user %s forked=%d retracted=%d", passID, ident.ID, result.Forked, result.Retracted)
	}
	return result, nil
}

// userHasDeck reports whether the private collection already holds the
// source deck, either as the original (same id) or as any fork of it.
func userHasDeck(private map[string]models.Deck, srcID string) bool {
	for deckID, deck := range private {
		if deckID == srcID || deck.ID == srcID {
			return true
		}
		if deck.ForkedFrom != nil && deck.ForkedFrom.ID == srcID {
			return true
		}
	}
	return false
}
