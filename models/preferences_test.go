package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPreferences_AddDeletedIdempotent(t *testing.T) {
	var prefs Preferences

	assert.True(t, prefs.AddDeleted("d1"))
	assert.False(t, prefs.AddDeleted("d1"))
	assert.True(t, prefs.AddDeleted("d2"))

	assert.Equal(t, []string{"d1", "d2"}, prefs.DeletedAutoForkedDecks)
	assert.True(t, prefs.HasDeleted("d1"))
	assert.False(t, prefs.HasDeleted("d3"))
}

func TestPreferences_Dedupe(t *testing.T) {
	prefs := Preferences{DeletedAutoForkedDecks: []string{"d1", "d2", "d1", "d3", "d2"}}
	prefs.Dedupe()
	assert.Equal(t, []string{"d1", "d2", "d3"}, prefs.DeletedAutoForkedDecks)
}

func TestIdentity_IsAdmin(t *testing.T) {
	assert.False(t, Identity{ID: "u1"}.IsAdmin())
	assert.True(t, Identity{ID: "u1", Roles: []string{"admin"}}.IsAdmin())
}

func TestIdentity_BestName(t *testing.T) {
	assert.Equal(t, "Ana", Identity{ID: "u1", DisplayName: "Ana", Email: "a@b.c"}.BestName())
	assert.Equal(t, "a@b.c", Identity{ID: "u1", Email: "a@b.c"}.BestName())
	assert.Equal(t, "u1", Identity{ID: "u1"}.BestName())
}
