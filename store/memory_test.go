package store

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_ReadOnceAbsent(t *testing.T) {
	s := NewMemoryStore()

	_, err := s.ReadOnce(context.Background(), "users/u1/decks/d1")
	assert.ErrorIs(t, err, ErrAbsent)
}

func TestMemoryStore_WriteWholeAndReadBack(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, s.WriteWhole(ctx, "users/u1/decks/d1", map[string]any{"id": "d1", "name": "Spanish"}))

	raw, err := s.ReadOnce(ctx, "users/u1/decks/d1")
	require.NoError(t, err)

	var deck map[string]any
	require.NoError(t, json.Unmarshal(raw, &deck))
	assert.Equal(t, "Spanish", deck["name"])
}

func TestMemoryStore_CollectionAssembly(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, s.WriteWhole(ctx, "sharedDecks/d1", map[string]any{"id": "d1"}))
	require.NoError(t, s.WriteWhole(ctx, "sharedDecks/d2", map[string]any{"id": "d2"}))

	raw, err := s.ReadOnce(ctx, "sharedDecks")
	require.NoError(t, err)

	var decks map[string]map[string]any
	require.NoError(t, json.Unmarshal(raw, &decks))
	assert.Len(t, decks, 2)
	assert.Equal(t, "d2", decks["d2"]["id"])
}

func TestMemoryStore_ChildNodesMergeIntoParentRead(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	deck := map[string]any{
		"id":    "d1",
		"name":  "Spanish",
		"cards": map[string]any{"c1": map[string]any{"front": "hola"}},
	}
	require.NoError(t, s.WriteWhole(ctx, "users/u1/decks/d1", deck))
	require.NoError(t, s.WriteWhole(ctx, "users/u1/decks/d1/cards/c2", map[string]any{"front": "adios"}))

	raw, err := s.ReadOnce(ctx, "users/u1/decks/d1")
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(raw, &got))
	cards := got["cards"].(map[string]any)
	assert.Len(t, cards, 2, "inline cards and card child nodes both present")
}

func TestMemoryStore_WriteWholeReplacesSubtree(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, s.WriteWhole(ctx, "users/u1/decks/d1/cards/c1", map[string]any{"front": "old"}))
	require.NoError(t, s.WriteWhole(ctx, "users/u1/decks/d1", map[string]any{"id": "d1"}))

	raw, err := s.ReadOnce(ctx, "users/u1/decks/d1")
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(raw, &got))
	_, stale := got["cards"]
	assert.False(t, stale, "whole write must drop old descendants")
}

func TestMemoryStore_WritePartialMerges(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, s.WriteWhole(ctx, "users/u1/decks/d1", map[string]any{"id": "d1", "isShared": false, "name": "Spanish"}))
	require.NoError(t, s.WritePartial(ctx, "users/u1/decks/d1", map[string]any{"isShared": true}))

	raw, err := s.ReadOnce(ctx, "users/u1/decks/d1")
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(raw, &got))
	assert.Equal(t, true, got["isShared"])
	assert.Equal(t, "Spanish", got["name"], "untouched fields survive a partial write")
}

func TestMemoryStore_WritePartialCreatesNode(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, s.WritePartial(ctx, "users/u1/preferences", map[string]any{"deletedAutoForkedDecks": []string{"d1"}}))

	raw, err := s.ReadOnce(ctx, "users/u1/preferences")
	require.NoError(t, err)
	assert.Contains(t, string(raw), "d1")
}

func TestMemoryStore_DeleteSubtree(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, s.WriteWhole(ctx, "decks/d1", map[string]any{"id": "d1"}))
	require.NoError(t, s.WriteWhole(ctx, "decks/d1/cards/c1", map[string]any{"front": "a"}))
	require.NoError(t, s.DeleteSubtree(ctx, "decks/d1"))

	_, err := s.ReadOnce(ctx, "decks/d1")
	assert.ErrorIs(t, err, ErrAbsent)
	assert.False(t, s.Exists("decks/d1"))

	// deleting again is not an error
	require.NoError(t, s.DeleteSubtree(ctx, "decks/d1"))
}

func TestMemoryStore_SubscribeAndUnsubscribe(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	var fired []string
	unsubscribe := s.Subscribe("users/u1/decks", func(changedPath string) {
		fired = append(fired, changedPath)
	})

	require.NoError(t, s.WriteWhole(ctx, "users/u1/decks/d1", map[string]any{"id": "d1"}))
	require.NoError(t, s.WriteWhole(ctx, "users/u2/decks/d9", map[string]any{"id": "d9"}))
	require.Len(t, fired, 1, "only writes under the watched path fire")
	assert.Equal(t, "users/u1/decks/d1", fired[0])

	unsubscribe()
	require.NoError(t, s.WriteWhole(ctx, "users/u1/decks/d2", map[string]any{"id": "d2"}))
	assert.Len(t, fired, 1)
}

func TestMemoryStore_AllocateIDUnique(t *testing.T) {
	s := NewMemoryStore()

	seen := map[string]struct{}{}
	for i := 0; i < 100; i++ {
		id, err := s.AllocateID("users/u1/decks")
		require.NoError(t, err)
		require.NotEmpty(t, id)
		_, dup := seen[id]
		require.False(t, dup)
		seen[id] = struct{}{}
	}
}

func TestMemoryStore_FailWrite(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	boom := errors.New("boom")
	s.FailWrite = func(path string) error {
		if path == "users/u1/decks/d1" {
			return boom
		}
		return nil
	}

	assert.ErrorIs(t, s.WriteWhole(ctx, "users/u1/decks/d1", map[string]any{}), boom)
	assert.NoError(t, s.WriteWhole(ctx, "users/u1/decks/d2", map[string]any{}))
}
