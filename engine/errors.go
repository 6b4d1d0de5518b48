package engine

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound means the referenced deck, card or record is absent.
	ErrNotFound = errors.New("not found")

	// ErrUnauthenticated means no identity was supplied for an operation
	// that requires one.
	ErrUnauthenticated = errors.New("no signed-in user")

	// ErrPermissionDenied means the identity lacks rights to the target,
	// e.g. a non-admin touching sharedDecks.
	ErrPermissionDenied = errors.New("permission denied")

	// ErrNotShared means auto-fork was requested on a deck that is not
	// shared; the caller should prompt the user to share first.
	ErrNotShared = errors.New("deck is not shared")

	// ErrStore wraps any transport or server failure from the store.
	ErrStore = errors.New("store failure")
)

func storeFailure(err error) error {
	return fmt.Errorf("%w: %v", ErrStore, err)
}
