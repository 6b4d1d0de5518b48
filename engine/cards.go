package engine

import (
	"context"
	"log"
	"time"

	"github.com/deckforge/deckforge-api/models"
	"github.com/deckforge/deckforge-api/store"
)

// CardUpdate carries the fields a card edit may change; nil means leave
// the stored value alone.
type CardUpdate struct {
	Front          *string `json:"front,omitempty"`
	Back           *string `json:"back,omitempty"`
	SampleSentence *string `json:"sampleSentence,omitempty"`
}

func (u CardUpdate) fields() map[string]any {
	fields := map[string]any{}
	if u.Front != nil {
		fields["front"] = *u.Front
	}
	if u.Back != nil {
		fields["back"] = *u.Back
	}
	if u.SampleSentence != nil {
		fields["sampleSentence"] = *u.SampleSentence
	}
	return fields
}

// AddCard appends a card to one of the caller's decks and returns its id.
func (e *Engine) AddCard(ctx context.Context, ident models.Identity, deckID string, card models.Card) (string, error) {
	if !ident.Resolved() {
		return "", ErrUnauthenticated
	}
	deck, err := e.readDeck(ctx, store.UserDeckPath(ident.ID, deckID))
	if err != nil {
		return "", err
	}

	cardID, err := e.store.AllocateID(store.UserDeckPath(ident.ID, deckID) + "/cards")
	if err != nil {
		return "", storeFailure(err)
	}
	if card.CreatedAt.IsZero() {
		card.CreatedAt = time.Now().UTC()
	}

	if err := e.store.WriteWhole(ctx, store.UserCardPath(ident.ID, deckID, cardID), card); err != nil {
		return "", storeFailure(err)
	}
	e.mirrorCardWrite(ctx, deck, deckID, cardID, card)

	return cardID, nil
}

// UpdateCard edits a card's text fields.
func (e *Engine) UpdateCard(ctx context.Context, ident models.Identity, deckID, cardID string, update CardUpdate) error {
	if !ident.Resolved() {
		return ErrUnauthenticated
	}
	deck, err := e.readDeck(ctx, store.UserDeckPath(ident.ID, deckID))
	if err != nil {
		return err
	}
	if _, ok := deck.Cards[cardID]; !ok {
		return ErrNotFound
	}

	fields := update.fields()
	if len(fields) == 0 {
		return nil
	}
	if err := e.store.WritePartial(ctx, store.UserCardPath(ident.ID, deckID, cardID), fields); err != nil {
		return storeFailure(err)
	}
	e.mirrorCardPartial(ctx, deck, deckID, cardID, fields)
	return nil
}

// DeleteCard removes a card from one of the caller's decks.
func (e *Engine) DeleteCard(ctx context.Context, ident models.Identity, deckID, cardID string) error {
	if !ident.Resolved() {
		return ErrUnauthenticated
	}
	deck, err := e.readDeck(ctx, store.UserDeckPath(ident.ID, deckID))
	if err != nil {
		return err
	}
	if _, ok := deck.Cards[cardID]; !ok {
		return ErrNotFound
	}

	if err := e.store.DeleteSubtree(ctx, store.UserCardPath(ident.ID, deckID, cardID)); err != nil {
		return storeFailure(err)
	}
	if deck.IsShared {
		if err := e.store.DeleteSubtree(ctx, store.PublicCardPath(deckID, cardID)); err != nil {
			log.Printf("DeleteCard: failed to mirror delete of %s/%s: %v", deckID, cardID, err)
		}
	}
	return nil
}

// MarkCardReviewed flips a card's known status and stamps lastReviewed.
func (e *Engine) MarkCardReviewed(ctx context.Context, ident models.Identity, deckID, cardID string, known bool) error {
	if !ident.Resolved() {
		return ErrUnauthenticated
	}
	deck, err := e.readDeck(ctx, store.UserDeckPath(ident.ID, deckID))
	if err != nil {
		return err
	}
	if _, ok := deck.Cards[cardID]; !ok {
		return ErrNotFound
	}

	fields := map[string]any{
		"isKnown":      known,
		"lastReviewed": time.Now().UTC(),
	}
	if err := e.store.WritePartial(ctx, store.UserCardPath(ident.ID, deckID, cardID), fields); err != nil {
		return storeFailure(err)
	}
	e.mirrorCardPartial(ctx, deck, deckID, cardID, fields)
	return nil
}

// Mirror helpers keep the public copy of a shared deck eventually
// consistent. Mirror failures are logged, never fatal; the next share
// toggle rewrites the full snapshot anyway.

func (e *Engine) mirrorCardWrite(ctx context.Context, deck models.Deck, deckID, cardID string, card models.Card) {
	if !deck.IsShared {
		return
	}
	if err := e.store.WriteWhole(ctx, store.PublicCardPath(deckID, cardID), card); err != nil {
		log.Printf("AddCard: failed to mirror card %s/%s: %v", deckID, cardID, err)
	}
}

func (e *Engine) mirrorCardPartial(ctx context.Context, deck models.Deck, deckID, cardID string, fields map[string]any) {
	if !deck.IsShared {
		return
	}
	if err := e.store.WritePartial(ctx, store.PublicCardPath(deckID, cardID), fields); err != nil {
		log.Printf("UpdateCard: failed to mirror card %s/%s: %v", deckID, cardID, err)
	}
}
