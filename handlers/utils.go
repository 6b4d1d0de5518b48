package handlers

import (
	"errors"
	"net/http"

	"github.com/deckforge/deckforge-api/engine"
)

// statusForError maps engine error taxonomy onto HTTP statuses.
func statusForError(err error) int {
	switch {
	case errors.Is(err, engine.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, engine.ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, engine.ErrPermissionDenied):
		return http.StatusForbidden
	case errors.Is(err, engine.ErrNotShared):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
