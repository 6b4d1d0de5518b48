package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrAbsent is returned by ReadOnce when nothing exists at the path.
var ErrAbsent = errors.New("store: path absent")

// Store is the realtime document tree the sharing engine runs against.
// Values are schemaless JSON documents keyed by slash-separated paths.
// There are no transactions across paths; every write is an unconditional
// overwrite or merge.
type Store interface {
	// ReadOnce returns the value at path, assembling child nodes into a
	// JSON object when the path is a collection. Returns ErrAbsent when
	// neither the node nor any descendant exists.
	ReadOnce(ctx context.Context, path string) (json.RawMessage, error)

	// Subscribe registers fn to run whenever path or anything under it
	// changes. The returned func removes the subscription.
	Subscribe(path string, fn func(changedPath string)) (unsubscribe func())

	// WriteWhole replaces the entire subtree at path with value.
	WriteWhole(ctx context.Context, path string, value any) error

	// WritePartial merges fields into the object stored at path, creating
	// it if absent. Other fields are left untouched.
	WritePartial(ctx context.Context, path string, fields map[string]any) error

	// DeleteSubtree removes the node at path and everything under it.
	// Deleting an absent path is not an error.
	DeleteSubtree(ctx context.Context, path string) error

	// AllocateID returns a new push-style unique key for a child of
	// parentPath. The key is client-generated; nothing is written.
	AllocateID(parentPath string) (string, error)
}

// Path templates for the three deck partitions and user preferences.

func UserDecksPath(uid string) string {
	return fmt.Sprintf("users/%s/decks", uid)
}

func UserDeckPath(uid, deckID string) string {
	return fmt.Sprintf("users/%s/decks/%s", uid, deckID)
}

func UserCardPath(uid, deckID, cardID string) string {
	return fmt.Sprintf("users/%s/decks/%s/cards/%s", uid, deckID, cardID)
}

func PreferencesPath(uid string) string {
	return fmt.Sprintf("users/%s/preferences", uid)
}

func PublicDecksPath() string {
	return "decks"
}

func PublicDeckPath(deckID string) string {
	return fmt.Sprintf("decks/%s", deckID)
}

func PublicCardPath(deckID, cardID string) string {
	return fmt.Sprintf("decks/%s/cards/%s", deckID, cardID)
}

func SharedDecksPath() string {
	return "sharedDecks"
}

func SharedDeckPath(deckID string) string {
	return fmt.Sprintf("sharedDecks/%s", deckID)
}
