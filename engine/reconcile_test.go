package engine

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deckforge/deckforge-api/models"
	"github.com/deckforge/deckforge-api/store"
)

func sharedSpanishDeck() models.Deck {
	return models.Deck{
		ID:             "d1",
		Name:           "Spanish",
		CreatorID:      "u1",
		CreatorName:    "Sam",
		IsShared:       true,
		AutoForkForAll: true,
		Cards: models.CardMap{
			"c1": {Front: "hola", Back: "hello"},
		},
	}
}

func TestReconcile_Unauthenticated(t *testing.T) {
	e, _ := newTestEngine()

	_, err := e.Reconcile(context.Background(), models.Identity{})
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestReconcile_EmptySharedDecks(t *testing.T) {
	e, _ := newTestEngine()

	result, err := e.Reconcile(context.Background(), testUser)
	require.NoError(t, err)
	assert.False(t, result.Changed)
}

func TestReconcile_AutoForksFlaggedDeck(t *testing.T) {
	e, st := newTestEngine()
	ctx := context.Background()

	seedDeck(t, st, store.SharedDeckPath("d1"), sharedSpanishDeck())

	result, err := e.Reconcile(ctx, testUser)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Forked)
	assert.Equal(t, 0, result.Retracted)
	assert.True(t, result.Changed)

	decks, err := e.UserDecks(ctx, testUser)
	require.NoError(t, err)
	require.Len(t, decks, 1)

	got := decks[0]
	assert.Equal(t, "Spanish (Auto-Forked)", got.Name)
	assert.True(t, got.AutoForked)
	require.NotNil(t, got.ForkedFrom)
	assert.Equal(t, "d1", got.ForkedFrom.ID)
	require.Len(t, got.Cards, 1)
	assert.Equal(t, "hola", got.Cards["c1"].Front)
	assert.Equal(t, "hello", got.Cards["c1"].Back)
	assert.False(t, got.Cards["c1"].IsKnown)
}

func TestReconcile_Idempotent(t *testing.T) {
	e, st := newTestEngine()
	ctx := context.Background()

	seedDeck(t, st, store.SharedDeckPath("d1"), sharedSpanishDeck())

	first, err := e.Reconcile(ctx, testUser)
	require.NoError(t, err)
	assert.True(t, first.Changed)

	second, err := e.Reconcile(ctx, testUser)
	require.NoError(t, err)
	assert.Equal(t, 0, second.Forked)
	assert.Equal(t, 0, second.Retracted)
	assert.False(t, second.Changed)

	decks, err := e.UserDecks(ctx, testUser)
	require.NoError(t, err)
	assert.Len(t, decks, 1, "no duplicate forks")
}

func TestReconcile_SkipsManuallyForkedDeck(t *testing.T) {
	e, st := newTestEngine()
	ctx := context.Background()

	src := sharedSpanishDeck()
	seedDeck(t, st, store.SharedDeckPath(src.ID), src)

	_, err := e.Fork(ctx, testUser, src, ForkOptions{})
	require.NoError(t, err)

	result, err := e.Reconcile(ctx, testUser)
	require.NoError(t, err)
	assert.Equal(t, 0, result.Forked, "an existing fork of the source suppresses auto-fork")
}

func TestReconcile_SkipsOwnOriginal(t *testing.T) {
	e, st := newTestEngine()
	ctx := context.Background()

	src := sharedSpanishDeck()
	seedDeck(t, st, store.SharedDeckPath(src.ID), src)
	seedDeck(t, st, store.UserDeckPath(testAdmin.ID, src.ID), src)

	result, err := e.Reconcile(ctx, testAdmin)
	require.NoError(t, err)
	assert.Equal(t, 0, result.Forked, "the creator's own copy suppresses auto-fork")
}

func TestReconcile_SkipsOptedOutDeck(t *testing.T) {
	e, st := newTestEngine()
	ctx := context.Background()

	seedDeck(t, st, store.SharedDeckPath("d1"), sharedSpanishDeck())
	require.NoError(t, st.WritePartial(ctx, store.PreferencesPath(testUser.ID), map[string]any{
		"deletedAutoForkedDecks": []string{"d1"},
	}))

	result, err := e.Reconcile(ctx, testUser)
	require.NoError(t, err)
	assert.Equal(t, 0, result.Forked)
}

func TestReconcile_RetractsAndRecordsOptOut(t *testing.T) {
	e, st := newTestEngine()
	ctx := context.Background()

	src := sharedSpanishDeck()
	seedDeck(t, st, store.SharedDeckPath(src.ID), src)

	_, err := e.Reconcile(ctx, testUser)
	require.NoError(t, err)

	// Admin retracts; autoForkForAll is deliberately left true to prove
	// the tombstone wins.
	require.NoError(t, st.WritePartial(ctx, store.SharedDeckPath(src.ID), map[string]any{
		"removedFromAutoFork": true,
	}))

	result, err := e.Reconcile(ctx, testUser)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Retracted)
	assert.Equal(t, 0, result.Forked)
	assert.True(t, result.Changed)

	decks, err := e.UserDecks(ctx, testUser)
	require.NoError(t, err)
	assert.Empty(t, decks, "auto-forked copy removed")

	prefs, err := e.readPreferences(ctx, testUser.ID)
	require.NoError(t, err)
	assert.True(t, prefs.HasDeleted(src.ID))

	// Even with autoForkForAll still true, the deck never comes back.
	again, err := e.Reconcile(ctx, testUser)
	require.NoError(t, err)
	assert.False(t, again.Changed)
	decks, err = e.UserDecks(ctx, testUser)
	require.NoError(t, err)
	assert.Empty(t, decks)
}

func TestReconcile_RetractLeavesManualForksAlone(t *testing.T) {
	e, st := newTestEngine()
	ctx := context.Background()

	src := sharedSpanishDeck()
	src.RemovedFromAutoFork = true
	seedDeck(t, st, store.SharedDeckPath(src.ID), src)

	manualID, err := e.Fork(ctx, testUser, src, ForkOptions{})
	require.NoError(t, err)

	result, err := e.Reconcile(ctx, testUser)
	require.NoError(t, err)
	assert.Equal(t, 0, result.Retracted, "only auto-forked copies are retracted")

	decks, err := e.UserDecks(ctx, testUser)
	require.NoError(t, err)
	require.Len(t, decks, 1)
	assert.Equal(t, manualID, decks[0].ID)
}

func TestReconcile_OneFailureDoesNotAbortBatch(t *testing.T) {
	e, st := newTestEngine()
	ctx := context.Background()

	deckA := sharedSpanishDeck()
	deckB := sharedSpanishDeck()
	deckB.ID = "d2"
	deckB.Name = "French"
	seedDeck(t, st, store.SharedDeckPath(deckA.ID), deckA)
	seedDeck(t, st, store.SharedDeckPath(deckB.ID), deckB)

	// Fail the first private deck write only; sources are processed in
	// sorted id order, so d1 fails and d2 succeeds.
	failed := false
	st.FailWrite = func(path string) error {
		if !failed && strings.HasPrefix(path, "users/"+testUser.ID+"/decks/") {
			failed = true
			return assert.AnError
		}
		return nil
	}

	result, err := e.Reconcile(ctx, testUser)
	require.NoError(t, err, "per-deck failures are not surfaced as a batch error")
	assert.Equal(t, 1, result.Forked)

	decks, err := e.UserDecks(ctx, testUser)
	require.NoError(t, err)
	require.Len(t, decks, 1)
	assert.Equal(t, "French (Auto-Forked)", decks[0].Name)

	// The failed deck is picked up by the next pass.
	st.FailWrite = nil
	result, err = e.Reconcile(ctx, testUser)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Forked)
}

func TestReconcile_SinglePreferencesWrite(t *testing.T) {
	e, st := newTestEngine()
	ctx := context.Background()

	for _, id := range []string{"d1", "d2", "d3"} {
		deck := sharedSpanishDeck()
		deck.ID = id
		deck.RemovedFromAutoFork = true
		seedDeck(t, st, store.SharedDeckPath(id), deck)
	}

	prefsWrites := 0
	unsubscribe := st.Subscribe(store.PreferencesPath(testUser.ID), func(string) { prefsWrites++ })
	defer unsubscribe()

	_, err := e.Reconcile(ctx, testUser)
	require.NoError(t, err)
	assert.Equal(t, 1, prefsWrites, "opt-outs are persisted in one write per pass")

	prefs, err := e.readPreferences(ctx, testUser.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"d1", "d2", "d3"}, prefs.DeletedAutoForkedDecks)
}
