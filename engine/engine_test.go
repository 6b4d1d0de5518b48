package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/deckforge/deckforge-api/models"
	"github.com/deckforge/deckforge-api/store"
)

var (
	testUser  = models.Identity{ID: "u2", DisplayName: "Pat", Email: "pat@example.com"}
	testAdmin = models.Identity{ID: "u1", DisplayName: "Sam", Email: "sam@example.com", Roles: []string{models.RoleAdmin}}
)

func newTestEngine() (*Engine, *store.MemoryStore) {
	st := store.NewMemoryStore()
	return New(st), st
}

func seedDeck(t *testing.T, st *store.MemoryStore, path string, deck models.Deck) {
	t.Helper()
	require.NoError(t, st.WriteWhole(context.Background(), path, deck))
}

func deckAt(t *testing.T, e *Engine, path string) models.Deck {
	t.Helper()
	deck, err := e.readDeck(context.Background(), path)
	require.NoError(t, err)
	return deck
}

func boolPtr(v bool) *bool {
	return &v
}
