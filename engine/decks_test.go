package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deckforge/deckforge-api/models"
	"github.com/deckforge/deckforge-api/store"
)

func TestCreateDeck_AndList(t *testing.T) {
	e, _ := newTestEngine()
	ctx := context.Background()

	deckB, err := e.CreateDeck(ctx, testUser, "Verbs", nil)
	require.NoError(t, err)
	deckA, err := e.CreateDeck(ctx, testUser, "Basics", models.CardMap{
		"c1": {Front: "hola", Back: "hello"},
	})
	require.NoError(t, err)

	assert.Equal(t, testUser.ID, deckA.CreatorID)
	assert.Equal(t, "Pat", deckA.CreatorName)
	assert.False(t, deckA.IsShared)

	decks, err := e.UserDecks(ctx, testUser)
	require.NoError(t, err)
	require.Len(t, decks, 2)
	assert.Equal(t, "Basics", decks[0].Name, "decks are name-ordered")
	assert.Equal(t, deckA.ID, decks[0].ID)
	assert.Equal(t, deckB.ID, decks[1].ID)
}

func TestUserDeck_NotFound(t *testing.T) {
	e, _ := newTestEngine()

	_, err := e.UserDeck(context.Background(), testUser, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRenameDeck_MirrorsWhenShared(t *testing.T) {
	e, _ := newTestEngine()
	ctx := context.Background()

	deck, err := e.CreateDeck(ctx, testUser, "Spanish", nil)
	require.NoError(t, err)
	_, err = e.Share(ctx, testUser, deck.ID, boolPtr(true))
	require.NoError(t, err)

	require.NoError(t, e.RenameDeck(ctx, testUser, deck.ID, "Castilian"))

	assert.Equal(t, "Castilian", deckAt(t, e, store.UserDeckPath(testUser.ID, deck.ID)).Name)
	assert.Equal(t, "Castilian", deckAt(t, e, store.PublicDeckPath(deck.ID)).Name)
}

func TestDeleteDeck_CascadesToPublicMirror(t *testing.T) {
	e, st := newTestEngine()
	ctx := context.Background()

	deck, err := e.CreateDeck(ctx, testUser, "Spanish", nil)
	require.NoError(t, err)
	_, err = e.Share(ctx, testUser, deck.ID, boolPtr(true))
	require.NoError(t, err)

	require.NoError(t, e.DeleteDeck(ctx, testUser, deck.ID))

	assert.False(t, st.Exists(store.UserDeckPath(testUser.ID, deck.ID)))
	assert.False(t, st.Exists(store.PublicDeckPath(deck.ID)))
}

func TestDeleteDeck_AutoForkedCopyOptsOut(t *testing.T) {
	e, st := newTestEngine()
	ctx := context.Background()

	seedDeck(t, st, store.SharedDeckPath("d1"), sharedSpanishDeck())

	_, err := e.Reconcile(ctx, testUser)
	require.NoError(t, err)
	decks, err := e.UserDecks(ctx, testUser)
	require.NoError(t, err)
	require.Len(t, decks, 1)

	require.NoError(t, e.DeleteDeck(ctx, testUser, decks[0].ID))

	prefs, err := e.readPreferences(ctx, testUser.ID)
	require.NoError(t, err)
	assert.True(t, prefs.HasDeleted("d1"))

	// The deck must never come back for this user.
	result, err := e.Reconcile(ctx, testUser)
	require.NoError(t, err)
	assert.False(t, result.Changed)
	decks, err = e.UserDecks(ctx, testUser)
	require.NoError(t, err)
	assert.Empty(t, decks)
}

func TestPublicDecks_Gallery(t *testing.T) {
	e, _ := newTestEngine()
	ctx := context.Background()

	deck, err := e.CreateDeck(ctx, testUser, "Spanish", nil)
	require.NoError(t, err)
	_, err = e.Share(ctx, testUser, deck.ID, boolPtr(true))
	require.NoError(t, err)

	gallery, err := e.PublicDecks(ctx)
	require.NoError(t, err)
	require.Len(t, gallery, 1)
	assert.Equal(t, deck.ID, gallery[0].ID)
	assert.Equal(t, "Pat", gallery[0].Owner)

	_, err = e.PublicDeck(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}
